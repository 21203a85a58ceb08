package cli

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/hapticfloor/pkg/floor"
)

func previewSnapshot(t *testing.T) floor.Snapshot {
	t.Helper()
	set, err := floor.Load(testLayout)
	if err != nil {
		t.Fatal(err)
	}
	return floor.Snapshot{Nodes: set, State: floor.StateLoaded}
}

func TestNewPreviewModelDefaultsBankWidth(t *testing.T) {
	m := NewPreviewModel(previewSnapshot(t), 0, 20, 1)
	if m.BankWidth != 2 {
		t.Errorf("BankWidth = %d, want active count 2", m.BankWidth)
	}
	if len(m.Values) != 2 {
		t.Errorf("len(Values) = %d, want 2", len(m.Values))
	}
}

func TestPreviewModelKeys(t *testing.T) {
	m := NewPreviewModel(previewSnapshot(t), 3, 20, 1)

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("+")})
	m = next.(PreviewModel)
	if m.BankWidth != 4 {
		t.Errorf("after + BankWidth = %d, want 4", m.BankWidth)
	}

	for range 10 {
		next, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("-")})
		m = next.(PreviewModel)
	}
	if m.BankWidth != 1 {
		t.Errorf("after repeated - BankWidth = %d, want 1", m.BankWidth)
	}

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeySpace, Runes: []rune(" ")})
	m = next.(PreviewModel)
	if !m.Paused {
		t.Error("space should pause")
	}

	if _, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")}); cmd == nil {
		t.Error("q should return a quit command")
	}
}

func TestPreviewModelFrameAdvancesPhase(t *testing.T) {
	m := NewPreviewModel(previewSnapshot(t), 0, 10, 1)

	next, cmd := m.Update(previewFrameMsg(time.Now()))
	moved := next.(PreviewModel)
	if moved.Phase == m.Phase {
		t.Error("frame did not advance the phase")
	}
	if cmd == nil {
		t.Error("frame should schedule the next frame")
	}

	m.Paused = true
	next, _ = m.Update(previewFrameMsg(time.Now()))
	if next.(PreviewModel).Phase != m.Phase {
		t.Error("paused frame advanced the phase")
	}
}

func TestPreviewModelViewDrawsNodes(t *testing.T) {
	view := NewPreviewModel(previewSnapshot(t), 0, 20, 1).View()
	if !strings.Contains(view, "2 active") {
		t.Errorf("view missing status line:\n%s", view)
	}
	if !strings.Contains(view, "·") {
		t.Errorf("view missing passive node:\n%s", view)
	}
}

func TestPreviewModelEmptyFloor(t *testing.T) {
	view := NewPreviewModel(floor.Snapshot{}, 0, 20, 1).View()
	if !strings.Contains(view, "floor is empty") {
		t.Errorf("empty view = %q", view)
	}
}

func TestPreviewModelFarApartLayoutFitsViewport(t *testing.T) {
	set, err := floor.Load(`[{"coords":[0,0],"type":"active","channel":0},{"coords":[100000,100000]}]`)
	if err != nil {
		t.Fatal(err)
	}
	m := NewPreviewModel(floor.Snapshot{Nodes: set, State: floor.StateLoaded}, 0, 20, 1)
	next, _ := m.Update(tea.WindowSizeMsg{Width: 40, Height: 16})
	m = next.(PreviewModel)

	grid := strings.TrimRight(m.grid(), "\n")
	rows := strings.Split(grid, "\n")
	if len(rows) > 16-previewChromeLines {
		t.Errorf("grid rows = %d, want at most %d", len(rows), 16-previewChromeLines)
	}
	if !strings.Contains(grid, "·") {
		t.Errorf("grid missing passive node:\n%s", grid)
	}
	if view := m.View(); !strings.Contains(view, "1:") {
		t.Errorf("view missing scale in status:\n%s", view)
	}
}

func TestIntensityGlyphClamps(t *testing.T) {
	for _, v := range []float64{-1, 0, 0.5, 1, 2} {
		if intensityGlyph(v) == "" {
			t.Errorf("intensityGlyph(%v) is empty", v)
		}
	}
}

func TestPreviewModelDisplaySettles(t *testing.T) {
	m := NewPreviewModel(previewSnapshot(t), 0, 20, 1)
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("+")})
	m = next.(PreviewModel)
	m.Paused = true

	for range 200 {
		next, _ = m.Update(previewFrameMsg(time.Now()))
		m = next.(PreviewModel)
	}
	for i := range m.Values {
		if d := m.Display[i] - m.Values[i]; d > 1e-3 || d < -1e-3 {
			t.Errorf("Display[%d] = %v, want close to %v", i, m.Display[i], m.Values[i])
		}
	}
}
