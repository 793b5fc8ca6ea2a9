package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/matzehuels/cellspan/pkg/design"
	"github.com/matzehuels/cellspan/pkg/grid"
)

// backends returns a fresh instance of every backend that runs without
// external services.
func backends(t *testing.T) map[string]Store {
	t.Helper()
	fs, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	return map[string]Store{
		"memory": NewMemoryStore(),
		"file":   fs,
	}
}

func sample(t *testing.T, name string) *design.Document {
	t.Helper()
	d := design.New(name, 3, 2)
	if _, err := d.Paint([]grid.Cell{{Col: 0, Row: 0}, {Col: 1, Row: 0}}, "red"); err != nil {
		t.Fatal(err)
	}
	if err := d.AddNode(design.NodeSpec{ID: "a", Column: 2, Row: 1}); err != nil {
		t.Fatal(err)
	}
	return d
}

func TestStore_Lifecycle(t *testing.T) {
	ctx := context.Background()
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			defer s.Close()
			d := sample(t, "first")

			if _, err := s.Get(ctx, d.ID); !errors.Is(err, ErrNotFound) {
				t.Errorf("Get before Put err = %v, want ErrNotFound", err)
			}
			if err := s.Put(ctx, d); err != nil {
				t.Fatalf("Put: %v", err)
			}
			got, err := s.Get(ctx, d.ID)
			if err != nil {
				t.Fatalf("Get: %v", err)
			}
			if got.Name != "first" || !got.ColorMap().Equal(d.ColorMap()) || len(got.Nodes) != 1 {
				t.Errorf("Get = %+v", got)
			}

			got.Name = "renamed"
			if again, _ := s.Get(ctx, d.ID); again.Name != "first" {
				t.Error("mutating a returned design changed the stored one")
			}
			if err := s.Put(ctx, got); err != nil {
				t.Fatalf("Put replace: %v", err)
			}
			if again, _ := s.Get(ctx, d.ID); again.Name != "renamed" {
				t.Errorf("Name after replace = %q", again.Name)
			}

			if err := s.Delete(ctx, d.ID); err != nil {
				t.Fatalf("Delete: %v", err)
			}
			if err := s.Delete(ctx, d.ID); !errors.Is(err, ErrNotFound) {
				t.Errorf("second Delete err = %v, want ErrNotFound", err)
			}
		})
	}
}

func TestStore_List(t *testing.T) {
	ctx := context.Background()
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			older := sample(t, "older")
			older.UpdatedAt = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
			newer := sample(t, "newer")
			newer.UpdatedAt = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
			for _, d := range []*design.Document{older, newer} {
				if err := s.Put(ctx, d); err != nil {
					t.Fatal(err)
				}
			}

			list, err := s.List(ctx)
			if err != nil {
				t.Fatalf("List: %v", err)
			}
			if len(list) != 2 || list[0].Name != "newer" || list[1].Name != "older" {
				t.Fatalf("List = %+v", list)
			}
			if list[0].Columns != 3 || list[0].Rows != 2 || list[0].Nodes != 1 {
				t.Errorf("summary = %+v", list[0])
			}
		})
	}
}

func TestStore_RejectsBadIDs(t *testing.T) {
	ctx := context.Background()
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			for _, id := range []string{"", "../escape", "a/b", ".hidden"} {
				d := sample(t, "x")
				d.ID = id
				if err := s.Put(ctx, d); !errors.Is(err, design.ErrInvalidDocument) {
					t.Errorf("Put(%q) err = %v, want ErrInvalidDocument", id, err)
				}
			}
		})
	}
}

func TestFileStore_SkipsCorruptFiles(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	s, err := NewFileStore(dir)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Put(ctx, sample(t, "good")); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "broken.json"), []byte("{"), 0o644); err != nil {
		t.Fatal(err)
	}
	list, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 1 || list[0].Name != "good" {
		t.Errorf("List = %+v", list)
	}
	if _, err := s.Get(ctx, "broken"); err == nil || errors.Is(err, ErrNotFound) {
		t.Errorf("Get(broken) err = %v, want a parse error", err)
	}
	if s.Path() != dir {
		t.Errorf("Path() = %q, want %q", s.Path(), dir)
	}
}

func TestMemoryStore_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NewMemoryStore().List(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("List err = %v, want context.Canceled", err)
	}
}

func TestNewMongoStore_BadURI(t *testing.T) {
	if _, err := NewMongoStore(context.Background(), MongoConfig{URI: "bogus://localhost"}); err == nil {
		t.Error("NewMongoStore accepted an invalid URI")
	}
}
