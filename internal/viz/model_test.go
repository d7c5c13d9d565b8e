package viz

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/kappasim/internal/config"
	"github.com/san-kum/kappasim/internal/engine"
	"github.com/san-kum/kappasim/internal/physics"
)

func newTestModel(t *testing.T, cfg config.Simulation) (Model, *engine.Engine) {
	t.Helper()
	eng, err := engine.New(cfg)
	if err != nil {
		t.Fatalf("engine.New: %v", err)
	}
	t.Cleanup(eng.Close)
	m := NewModel(eng, ModelConfig{GIFPath: t.TempDir() + "/out.gif"})
	next, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return next.(Model), eng
}

func smallFlock() config.Simulation {
	cfg := config.DefaultFlock()
	cfg.Population = 24
	return cfg
}

func key(s string) tea.KeyMsg {
	switch s {
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func send(m Model, msgs ...tea.Msg) Model {
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		m = next.(Model)
	}
	return m
}

func TestModel_FrameAdvancesEngine(t *testing.T) {
	cfg := smallFlock()
	m, eng := newTestModel(t, cfg)

	m = send(m, tickMsg(time.Now()))
	if got := eng.Clock().Tick; got != uint64(cfg.StepsPerFrame) {
		t.Fatalf("tick after one frame = %d, want %d", got, cfg.StepsPerFrame)
	}
	if m.snap.Clock.Tick != eng.Clock().Tick {
		t.Error("snapshot not refreshed after frame")
	}

	m = send(m, key(" "), tickMsg(time.Now()))
	if got := eng.Clock().Tick; got != uint64(cfg.StepsPerFrame) {
		t.Errorf("paused model advanced to tick %d", got)
	}

	send(m, key("."))
	if got := eng.Clock().Tick; got != uint64(cfg.StepsPerFrame)+1 {
		t.Errorf("single step: tick = %d, want %d", got, cfg.StepsPerFrame+1)
	}
}

func TestModel_ResizeKeepsSimulation(t *testing.T) {
	m, eng := newTestModel(t, smallFlock())
	before := eng.Snapshot()

	m = send(m, tea.WindowSizeMsg{Width: 200, Height: 60})
	if m.canvas.Width != 200-panelWidth-4 || m.canvas.Height != 59 {
		t.Errorf("canvas = %dx%d", m.canvas.Width, m.canvas.Height)
	}
	after := eng.Snapshot()
	if after.Generation != before.Generation || after.Clock != before.Clock {
		t.Error("resize changed the simulation")
	}
}

func TestModel_ClickArmsPredator(t *testing.T) {
	m, eng := newTestModel(t, smallFlock())

	click := tea.MouseMsg{
		X:      m.canvas.Width/2 + canvasOffsetX,
		Y:      m.canvas.Height / 2,
		Action: tea.MouseActionPress,
		Button: tea.MouseButtonLeft,
	}
	send(m, click)

	snap := eng.Snapshot()
	if snap.Predator == nil {
		t.Fatal("click did not arm predator")
	}
	// a cell center is at most a couple of sub-pixels from the canvas center
	if tol := 3 / m.view.Scale(); r2.Norm(snap.Predator.Pos) > tol {
		t.Errorf("predator at %v, want within %.1f of the center", snap.Predator.Pos, tol)
	}
}

func TestModel_ClickOutsideCanvasIgnored(t *testing.T) {
	m, eng := newTestModel(t, smallFlock())
	send(m, tea.MouseMsg{X: m.canvas.Width + 10, Y: 1, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	if eng.Snapshot().Predator != nil {
		t.Error("click on the panel armed the predator")
	}
}

func TestModel_ToggleLawReseeds(t *testing.T) {
	m, eng := newTestModel(t, smallFlock())
	before := eng.Config().Force.Kind
	gen := eng.Snapshot().Generation

	send(m, key("n"))

	cfg := eng.Config()
	if cfg.Force.Kind == before {
		t.Fatalf("law still %s", before)
	}
	if eng.Snapshot().Generation != gen+1 {
		t.Error("law change did not reseed")
	}
}

func TestModel_TuneParameter(t *testing.T) {
	m, eng := newTestModel(t, smallFlock())
	for i, name := range m.params {
		if name == "align_strength" {
			m.selected = i
		}
	}
	before, _ := eng.Config().Param("align_strength")
	gen := eng.Snapshot().Generation

	send(m, key("up"))

	after, _ := eng.Config().Param("align_strength")
	if want := before * 1.05; after < want*0.999 || after > want*1.001 {
		t.Errorf("align_strength = %v, want %v", after, want)
	}
	if eng.Snapshot().Generation != gen {
		t.Error("live parameter change reseeded")
	}
}

func TestModel_PresetSwitchesMode(t *testing.T) {
	m, eng := newTestModel(t, smallFlock())
	// walk presets until a field preset is applied
	for i := 0; i < len(config.ListPresets()); i++ {
		m = send(m, key("p"))
		if eng.Config().Mode == physics.ModeField {
			break
		}
	}
	if eng.Config().Mode != physics.ModeField {
		t.Fatal("no preset switched to field mode")
	}
	if m.view.Extent != eng.Config().Field.OuterRadius*1.25 {
		t.Errorf("extent = %v, not fitted to field", m.view.Extent)
	}
}

func TestModel_View(t *testing.T) {
	m, _ := newTestModel(t, smallFlock())
	m = send(m, tickMsg(time.Now()))

	out := m.View()
	for _, want := range []string{"KAPPASIM", "FLOCK", "PARAMETERS", "kappa0"} {
		if !strings.Contains(out, want) {
			t.Errorf("view missing %q", want)
		}
	}

	m = send(m, key("?"))
	if !strings.Contains(m.View(), "KEYBOARD SHORTCUTS") {
		t.Error("help overlay not shown")
	}
}

func TestModel_Recording(t *testing.T) {
	m, _ := newTestModel(t, smallFlock())
	m = send(m, key("g"), tickMsg(time.Now()), tickMsg(time.Now()))
	if m.recorder.Len() != 2 {
		t.Fatalf("captured %d frames, want 2", m.recorder.Len())
	}
	m = send(m, key("g"))
	if m.recording || m.recorder.Len() != 0 {
		t.Error("recording not flushed")
	}
	if !strings.HasPrefix(m.status, "saved") {
		t.Errorf("status = %q", m.status)
	}
}

func TestExtentFor(t *testing.T) {
	flock := config.DefaultFlock()
	if got := extentFor(flock); got != flock.Flock.SoftBoundary*1.3 {
		t.Errorf("flock extent = %v", got)
	}
	field := config.DefaultField()
	if got := extentFor(field); got != field.Field.OuterRadius*1.25 {
		t.Errorf("field extent = %v", got)
	}
}
