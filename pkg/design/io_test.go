package design

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/matzehuels/cellspan/pkg/grid"
)

func assertSameDocument(t *testing.T, got, want *Document) {
	t.Helper()
	if got.ID != want.ID || got.Name != want.Name {
		t.Errorf("identity = %q/%q, want %q/%q", got.ID, got.Name, want.ID, want.Name)
	}
	if !slices.Equal(got.Columns, want.Columns) || !slices.Equal(got.Rows, want.Rows) {
		t.Errorf("tracks = %+v %+v, want %+v %+v", got.Columns, got.Rows, want.Columns, want.Rows)
	}
	if !got.ColorMap().Equal(want.ColorMap()) {
		t.Errorf("cells = %+v, want %+v", got.Cells, want.Cells)
	}
	if !slices.Equal(got.Nodes, want.Nodes) || !slices.Equal(got.Edges, want.Edges) {
		t.Errorf("graph = %+v %+v, want %+v %+v", got.Nodes, got.Edges, want.Nodes, want.Edges)
	}
	if got.Insets != want.Insets {
		t.Errorf("insets = %+v, want %+v", got.Insets, want.Insets)
	}
	if !got.UpdatedAt.Equal(want.UpdatedAt) {
		t.Errorf("updated = %v, want %v", got.UpdatedAt, want.UpdatedAt)
	}
}

func TestJSON_RoundTrip(t *testing.T) {
	d := demo(t)
	d.Insets = grid.Insets{Top: 4, Left: 4}

	var buf bytes.Buffer
	if err := WriteJSON(d, &buf); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}
	got, err := ReadJSON(&buf)
	if err != nil {
		t.Fatalf("ReadJSON: %v", err)
	}
	assertSameDocument(t, got, d)
}

func TestTOML_RoundTrip(t *testing.T) {
	d := demo(t)

	var buf bytes.Buffer
	if err := WriteTOML(d, &buf); err != nil {
		t.Fatalf("WriteTOML: %v", err)
	}
	got, err := ReadTOML(&buf)
	if err != nil {
		t.Fatalf("ReadTOML: %v", err)
	}
	assertSameDocument(t, got, d)
}

func TestReadTOML_Handwritten(t *testing.T) {
	src := `
name = "handwritten"

[[columns]]
width = 100

[[columns]]
width = 120

[[rows]]
height = 60

[[cells]]
tag = "green"
column = 0
row = 0

[[cells]]
tag = "green"
column = 1
row = 0

[[nodes]]
id = "n1"
column = 1
row = 0
`
	d, err := ReadTOML(strings.NewReader(src))
	if err != nil {
		t.Fatalf("ReadTOML: %v", err)
	}
	if d.Name != "handwritten" || len(d.Columns) != 2 || d.Columns[1].Width != 120 {
		t.Errorf("document = %+v", d)
	}
	if spans := d.Spans(); len(spans) != 1 || spans[0].Span != grid.NewSpan(0, 1, 0, 0) {
		t.Errorf("Spans() = %+v", spans)
	}
}

func TestReadJSON_Invalid(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want error
	}{
		{"Malformed", `{"columns": [`, nil},
		{"NonRectangular", `{"columns":[{"width":80},{"width":80}],"rows":[{"height":80},{"height":80}],
			"cells":[{"tag":"x","column":0,"row":0},{"tag":"x","column":1,"row":1}]}`, grid.ErrNonRectangularSpan},
		{"DanglingEdge", `{"columns":[{"width":80}],"rows":[{"height":80}],
			"nodes":[{"id":"a","column":0,"row":0}],"edges":[{"from":"a","to":"b"}]}`, ErrUnknownNode},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadJSON(strings.NewReader(tt.src))
			if err == nil {
				t.Fatal("ReadJSON succeeded")
			}
			if tt.want != nil && !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestLoadSave(t *testing.T) {
	dir := t.TempDir()
	d := demo(t)
	for _, name := range []string{"doc.json", "doc.toml", "DOC.TOML"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name)
			if err := Save(d, path); err != nil {
				t.Fatalf("Save: %v", err)
			}
			got, err := Load(path)
			if err != nil {
				t.Fatalf("Load: %v", err)
			}
			assertSameDocument(t, got, d)
		})
	}
}

func TestLoadSave_UnknownFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.yaml")
	if err := Save(New("", 1, 1), path); !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("Save err = %v, want ErrUnknownFormat", err)
	}
	if err := os.WriteFile(path, []byte("{}"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("Load err = %v, want ErrUnknownFormat", err)
	}
	if _, err := Load(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("Load of a missing file succeeded")
	}
}

func TestLoad_ExampleDesigns(t *testing.T) {
	paths, err := filepath.Glob(filepath.Join("..", "..", "examples", "designs", "*.toml"))
	if err != nil {
		t.Fatal(err)
	}
	if len(paths) == 0 {
		t.Skip("no example designs")
	}
	for _, path := range paths {
		t.Run(filepath.Base(path), func(t *testing.T) {
			d, err := Load(path)
			if err != nil {
				t.Fatalf("Load: %v", err)
			}
			if len(d.Spans()) == 0 || len(d.Nodes) == 0 {
				t.Errorf("%s has no spans or nodes", path)
			}
			if _, err := Prepare(d); err != nil {
				t.Errorf("Prepare: %v", err)
			}
		})
	}
}
