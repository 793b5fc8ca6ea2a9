package store

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/matzehuels/cellspan/pkg/design"
)

// FileStore keeps one JSON file per design in a directory.
type FileStore struct {
	mu      sync.RWMutex
	baseDir string
}

// NewFileStore creates a store in baseDir. An empty baseDir means
// ~/.config/cellspan/designs.
func NewFileStore(baseDir string) (*FileStore, error) {
	if baseDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("get home dir: %w", err)
		}
		baseDir = filepath.Join(home, ".config", "cellspan", "designs")
	}
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("create design dir: %w", err)
	}
	return &FileStore{baseDir: baseDir}, nil
}

// Path returns the store directory.
func (s *FileStore) Path() string { return s.baseDir }

func (s *FileStore) designPath(id string) string {
	return filepath.Join(s.baseDir, id+".json")
}

// Get implements [Store].
func (s *FileStore) Get(ctx context.Context, id string) (*design.Document, error) {
	if err := checkID(id); err != nil {
		return nil, fmt.Errorf("%s: %w", id, ErrNotFound)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.read(s.designPath(id))
}

func (s *FileStore) read(path string) (*design.Document, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("read design file: %w", err)
	}
	d, err := design.ReadJSON(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", filepath.Base(path), err)
	}
	return d, nil
}

// Put implements [Store]. The file is written to a temporary name first and
// renamed into place.
func (s *FileStore) Put(ctx context.Context, d *design.Document) error {
	if err := checkID(d.ID); err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := design.WriteJSON(d, &buf); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	path := s.designPath(d.ID)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write design file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("write design file: %w", err)
	}
	return nil
}

// Delete implements [Store].
func (s *FileStore) Delete(ctx context.Context, id string) error {
	if err := checkID(id); err != nil {
		return fmt.Errorf("%s: %w", id, ErrNotFound)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	err := os.Remove(s.designPath(id))
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%s: %w", id, ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("remove design file: %w", err)
	}
	return nil
}

// List implements [Store]. Files that fail to parse are skipped.
func (s *FileStore) List(ctx context.Context) ([]Summary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		return nil, fmt.Errorf("read design dir: %w", err)
	}
	var out []Summary
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		d, err := s.read(filepath.Join(s.baseDir, entry.Name()))
		if err != nil {
			continue
		}
		out = append(out, Summarize(d))
	}
	sortSummaries(out)
	return out, nil
}

// Close implements [Store].
func (s *FileStore) Close() error { return nil }

var _ Store = (*FileStore)(nil)
