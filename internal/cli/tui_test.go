package cli

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/cellspan/pkg/design"
	"github.com/matzehuels/cellspan/pkg/grid"
)

func press(t *testing.T, m DesignModel, keys ...string) DesignModel {
	t.Helper()
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "up":
			msg = tea.KeyMsg{Type: tea.KeyUp}
		case "down":
			msg = tea.KeyMsg{Type: tea.KeyDown}
		case "left":
			msg = tea.KeyMsg{Type: tea.KeyLeft}
		case "right":
			msg = tea.KeyMsg{Type: tea.KeyRight}
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		case " ":
			msg = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		next, _ := m.Update(msg)
		m = next.(DesignModel)
	}
	return m
}

func newTestModel() DesignModel {
	d := design.New("painter", 3, 2)
	d.Palette = []grid.Tag{"red", "green"}
	m := NewDesignModel(d, "painter.json")
	m.save = func(*design.Document, string) error { return nil }
	return m
}

func TestDesignModel_CursorStaysInside(t *testing.T) {
	m := press(t, newTestModel(), "left", "up", "right", "right", "right", "down", "down")
	if want := (grid.Cell{Col: 2, Row: 1}); m.Cursor != want {
		t.Errorf("cursor = %v, want %v", m.Cursor, want)
	}
}

func TestDesignModel_PaintSelection(t *testing.T) {
	m := press(t, newTestModel(), " ", "right", "enter")

	if !m.Dirty {
		t.Error("model should be dirty after painting")
	}
	if m.Anchor != nil {
		t.Error("painting should drop the anchor")
	}
	spans := m.Doc.Spans()
	if len(spans) != 1 {
		t.Fatalf("got %d spans, want 1", len(spans))
	}
	if want := grid.NewSpan(0, 1, 0, 0); spans[0].Tag != "red" || spans[0].Span != want {
		t.Errorf("span = %v %v, want red %v", spans[0].Tag, spans[0].Span, want)
	}

	m = press(t, m, "down", "enter")
	if got := len(m.Doc.Spans()); got != 2 {
		t.Errorf("got %d spans after second paint, want 2", got)
	}
}

func TestDesignModel_EraseCutsSpan(t *testing.T) {
	m := press(t, newTestModel(), " ", "right", "right", "enter", "left", "x")

	spans := m.Doc.Spans()
	if len(spans) != 1 {
		t.Fatalf("got %d spans, want 1", len(spans))
	}
	if cells := spans[0].Span.Size(); cells != 1 {
		t.Errorf("span has %d cells after erase, want 1", cells)
	}
}

func TestDesignModel_Tracks(t *testing.T) {
	m := press(t, newTestModel(), "c", "r")
	if len(m.Doc.Columns) != 4 || len(m.Doc.Rows) != 3 {
		t.Fatalf("size = %dx%d, want 4x3", len(m.Doc.Columns), len(m.Doc.Rows))
	}

	m = press(t, m, "right", "right", "right", "C")
	if len(m.Doc.Columns) != 3 {
		t.Fatalf("columns = %d, want 3", len(m.Doc.Columns))
	}
	if m.Cursor.Col != 2 {
		t.Errorf("cursor column = %d, want 2 after removing the last column", m.Cursor.Col)
	}
}

func TestDesignModel_Save(t *testing.T) {
	m := newTestModel()
	var saved string
	m.save = func(_ *design.Document, path string) error {
		saved = path
		return nil
	}
	m = press(t, m, "enter", "s")
	if saved != "painter.json" {
		t.Errorf("saved to %q, want painter.json", saved)
	}
	if m.Dirty {
		t.Error("model should be clean after saving")
	}

	m.save = func(*design.Document, string) error { return errors.New("disk full") }
	m = press(t, m, "enter", "s")
	if m.Err == nil || !m.Dirty {
		t.Errorf("failed save: err = %v, dirty = %v", m.Err, m.Dirty)
	}
}

func TestDesignModel_PaletteExhausted(t *testing.T) {
	m := press(t, newTestModel(), "enter", "right", "enter", "right", "enter")
	if m.Err == nil {
		t.Fatal("expected an error once the palette is used up")
	}
	if !strings.Contains(m.View(), m.Err.Error()) {
		t.Error("view should show the error")
	}
}

func TestDesignModel_Quit(t *testing.T) {
	_, cmd := newTestModel().Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if cmd == nil {
		t.Fatal("q should return a command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should quit")
	}
}

func TestDesignModel_View(t *testing.T) {
	m := press(t, newTestModel(), "enter")
	view := m.View()
	for _, want := range []string{"painter *", "red", "painted"} {
		if !strings.Contains(view, want) {
			t.Errorf("view does not contain %q:\n%s", want, view)
		}
	}
}
