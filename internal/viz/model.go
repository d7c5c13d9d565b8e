package viz

import (
	"fmt"
	"log/slog"
	"math"
	"sort"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/kappasim/internal/config"
	"github.com/san-kum/kappasim/internal/engine"
	"github.com/san-kum/kappasim/internal/physics"
	"github.com/san-kum/kappasim/internal/stats"
)

const (
	defaultCols     = 80
	defaultRows     = 24
	panelWidth      = 44
	historyCapacity = 600
	refreshRate     = 60
	// columns taken by the canvas padding on the left
	canvasOffsetX = 1
)

type tickMsg time.Time

// ModelConfig controls presentation only; simulation parameters live in the
// engine's config.
type ModelConfig struct {
	Theme   string
	GIFPath string
	Logger  *slog.Logger
}

// Model renders a running engine and maps keys and clicks onto engine
// operations. It never touches bodies directly.
type Model struct {
	eng  *engine.Engine
	snap engine.Snapshot

	canvas        *Canvas
	view          Viewport
	width, height int

	theme Theme
	st    styles

	paused   bool
	showHelp bool
	status   string
	failed   bool

	params   []string
	selected int
	initial  config.Simulation
	preset   int

	radiusHist []float64
	generation uint64

	recorder  *Recorder
	recording bool
	gifPath   string

	logger *slog.Logger
}

func NewModel(eng *engine.Engine, mc ModelConfig) Model {
	theme := GetTheme(mc.Theme)
	logger := mc.Logger
	if logger == nil {
		logger = slog.Default()
	}
	gifPath := mc.GIFPath
	if gifPath == "" {
		gifPath = "kappasim.gif"
	}

	m := Model{
		eng:        eng,
		canvas:     NewCanvas(defaultCols-panelWidth, defaultRows-1),
		width:      defaultCols,
		height:     defaultRows,
		theme:      theme,
		st:         newStyles(theme),
		params:     config.ParamNames(),
		initial:    eng.Config(),
		preset:     -1,
		radiusHist: make([]float64, 0, historyCapacity),
		recorder:   NewRecorder(refreshRate / 2),
		gifPath:    gifPath,
		logger:     logger,
	}
	m.view = NewViewport(extentFor(m.initial), m.canvas.Width, m.canvas.Height)
	m.eng.SnapshotInto(&m.snap)
	m.generation = m.snap.Generation
	m.draw()
	return m
}

// extentFor is the world radius that should fit on screen for cfg.
func extentFor(cfg config.Simulation) float64 {
	if cfg.Mode == physics.ModeField {
		return cfg.Field.OuterRadius * 1.25
	}
	return cfg.Flock.SoftBoundary * 1.3
}

func tick() tea.Cmd {
	return tea.Tick(time.Second/refreshRate, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m Model) Init() tea.Cmd { return tick() }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case tea.MouseMsg:
		if msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft {
			m.armPredator(msg.X-canvasOffsetX, msg.Y)
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tickMsg:
		if !m.paused && !m.failed {
			if err := m.eng.Frame(); err != nil {
				m.fail(err)
			}
		}
		m.refresh()
		return m, tick()
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		m.stopRecording()
		return m, tea.Quit
	case " ":
		m.paused = !m.paused
	case ".":
		if m.paused && !m.failed {
			if err := m.eng.Tick(); err != nil {
				m.fail(err)
			}
			m.refresh()
		}
	case "r":
		m.reseed()
	case "n":
		m.toggleLaw()
	case "p":
		m.cyclePreset()
	case "tab":
		if len(m.params) > 0 {
			m.selected = (m.selected + 1) % len(m.params)
		}
	case "shift+tab":
		if len(m.params) > 0 {
			m.selected = (m.selected + len(m.params) - 1) % len(m.params)
		}
	case "up", "k":
		m.adjustParam(1.05)
	case "down", "j":
		m.adjustParam(0.95)
	case "t":
		m.theme = NextTheme(m.theme.Name)
		m.st = newStyles(m.theme)
	case "g":
		if m.recording {
			m.stopRecording()
		} else {
			m.recording = true
			m.status = "recording"
		}
	case "?":
		m.showHelp = !m.showHelp
	}
	return m, nil
}

func (m *Model) resize(w, h int) {
	m.width, m.height = w, h
	cols := max(w-panelWidth-4, 10)
	rows := max(h-1, 5)
	m.canvas.Resize(cols, rows)
	m.view.Resize(cols, rows)
	m.draw()
}

func (m *Model) armPredator(col, row int) {
	if col < 0 || row < 0 || col >= m.canvas.Width || row >= m.canvas.Height {
		return
	}
	pos := m.view.FromCell(col, row)
	if m.eng.ArmPredator(pos) {
		m.status = fmt.Sprintf("predator at (%.1f, %.1f)", pos.X, pos.Y)
		m.refresh()
	}
}

func (m *Model) reseed() {
	if err := m.eng.Reseed(); err != nil {
		m.fail(err)
		return
	}
	m.failed = false
	m.status = "reseeded"
	m.refresh()
}

func (m *Model) toggleLaw() {
	cfg := m.eng.Config()
	if cfg.Force.Kind == physics.LawKappa {
		cfg.Force.Kind = physics.LawNewton
	} else {
		cfg.Force.Kind = physics.LawKappa
	}
	m.apply(cfg, "law "+cfg.Force.Kind.String())
}

func (m *Model) cyclePreset() {
	presets := config.ListPresets()
	m.preset = (m.preset + 1) % len(presets)
	p := presets[m.preset]
	cfg, err := p.Apply(m.eng.Config())
	if err != nil {
		m.status = err.Error()
		return
	}
	m.apply(cfg, "preset "+p.String())
	m.initial = m.eng.Config()
}

func (m *Model) adjustParam(factor float64) {
	if len(m.params) == 0 {
		return
	}
	name := m.params[m.selected]
	cfg := m.eng.Config()
	v, err := cfg.Param(name)
	if err != nil {
		m.status = err.Error()
		return
	}
	if v == 0 && factor > 1 {
		v = 0.01
	} else {
		v *= factor
	}
	next, err := cfg.WithParam(name, v)
	if err != nil {
		m.status = fmt.Sprintf("%s rejected", name)
		return
	}
	m.apply(next, fmt.Sprintf("%s = %.4g", name, v))
}

// apply hands cfg to the engine. Rejected configs leave the engine as it was.
func (m *Model) apply(cfg config.Simulation, note string) {
	if err := m.eng.Apply(cfg); err != nil {
		m.status = err.Error()
		return
	}
	m.failed = false
	m.status = note
	m.view.SetExtent(extentFor(m.eng.Config()))
	m.refresh()
}

func (m *Model) fail(err error) {
	m.failed = true
	m.paused = true
	m.status = err.Error()
	m.logger.Error("simulation halted", "err", err)
}

func (m *Model) stopRecording() {
	if !m.recording {
		return
	}
	m.recording = false
	if err := m.recorder.Save(m.gifPath); err != nil {
		m.status = err.Error()
		m.logger.Warn("gif not saved", "err", err)
		return
	}
	m.status = "saved " + m.gifPath
	m.logger.Info("gif saved", "path", m.gifPath)
}

// refresh copies the engine state and redraws.
func (m *Model) refresh() {
	m.eng.SnapshotInto(&m.snap)
	if m.snap.Generation != m.generation {
		m.generation = m.snap.Generation
		m.radiusHist = m.radiusHist[:0]
	}
	if m.snap.HasStats {
		m.radiusHist = append(m.radiusHist, m.snap.Stats.MeanRadius)
		if len(m.radiusHist) > historyCapacity {
			m.radiusHist = m.radiusHist[1:]
		}
	}
	m.draw()
	if m.recording {
		m.recorder.Capture(m.canvas)
	}
}

func (m *Model) draw() {
	m.canvas.Clear()
	cfg := m.eng.Config()
	scale := m.view.Scale()
	cx, cy := m.view.ToSub(r2.Vec{})

	switch m.snap.Mode {
	case physics.ModeFlock:
		m.canvas.DrawCircle(cx, cy, cfg.Flock.SoftBoundary*scale)
	case physics.ModeField:
		m.canvas.DrawCircle(cx, cy, cfg.Stats.CoreRadius*scale)
		m.canvas.DrawCircle(cx, cy, cfg.Stats.EscapeRadius*scale)
		if cfg.Perturbation.Amplitude > 0 {
			axis := r2.Scale(cfg.Field.OuterRadius, r2.Vec{X: math.Cos(m.snap.PatternAngle), Y: math.Sin(m.snap.PatternAngle)})
			x0, y0 := m.view.ToSub(r2.Scale(-1, axis))
			x1, y1 := m.view.ToSub(axis)
			m.canvas.DrawLine(x0, y0, x1, y1)
		}
	}

	for _, b := range m.snap.Bodies {
		m.canvas.Set(m.view.ToSub(b.Pos))
	}

	if p := m.snap.Predator; p != nil {
		px, py := m.view.ToSub(p.Pos)
		m.canvas.DrawCircle(px, py, p.Radius*scale)
	}
}

func (m Model) View() string {
	canvasView := m.st.canvas.Render(m.st.bodies.Render(m.canvas.String()))
	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, m.st.panel.Render(m.panel()))
	if m.showHelp {
		return helpText + "\n" + mainView
	}
	return mainView
}

func (m Model) panel() string {
	var s strings.Builder
	snap := m.snap
	cfg := m.eng.Config()

	title := fmt.Sprintf("KAPPASIM  %s / %s", strings.ToUpper(snap.Mode.String()), snap.Law)
	s.WriteString(m.st.header.Render(title) + "\n")

	switch {
	case m.failed:
		s.WriteString(m.st.err.Render("HALTED"))
	case m.paused:
		s.WriteString(m.st.paused.Render("PAUSED"))
	default:
		s.WriteString(m.st.running.Render(strings.ToUpper(snap.State.String())))
	}
	if m.recording {
		s.WriteString(m.st.err.Render(fmt.Sprintf("  ● REC %d", m.recorder.Len())))
	}
	s.WriteString("\n")
	if m.status != "" {
		s.WriteString(m.st.label.Render(truncate(m.status, panelWidth-4)) + "\n")
	}
	s.WriteString("\n")

	row := func(label, value string) {
		s.WriteString(m.st.label.Render(label) + m.st.value.Render(value) + "\n")
	}
	row("Time", fmt.Sprintf("%.2f (tick %d)", snap.Clock.Time, snap.Clock.Tick))
	row("Bodies", fmt.Sprintf("%d  gen %d", len(snap.Bodies), snap.Generation))
	if snap.HasStats {
		st := snap.Stats
		row("Inside", fmt.Sprintf("%d", st.Inside))
		row("Middle", fmt.Sprintf("%d", st.Middle))
		row("Outside", fmt.Sprintf("%d", st.Outside))
		row("Radius", fmt.Sprintf("%.2f ± %.2f", st.MeanRadius, st.RadiusStdDev))
	}
	if p := snap.Predator; p != nil {
		row("Predator", fmt.Sprintf("%d ticks", p.Remaining))
	}
	if len(snap.Metrics) > 0 {
		names := make([]string, 0, len(snap.Metrics))
		for k := range snap.Metrics {
			names = append(names, k)
		}
		sort.Strings(names)
		for _, k := range names {
			row(shortName(k), fmt.Sprintf("%.4g", snap.Metrics[k]))
		}
	}

	if chart := m.rotationChart(cfg.Force); chart != "" {
		s.WriteString("\n" + chart + "\n")
	}
	if len(m.radiusHist) > 1 {
		chart := asciigraph.Plot(m.radiusHist,
			asciigraph.Height(4),
			asciigraph.Width(panelWidth-18),
			asciigraph.Caption("mean radius"))
		s.WriteString("\n" + chart + "\n")
	}

	s.WriteString("\nPARAMETERS\n")
	for i, name := range m.params {
		v, _ := cfg.Param(name)
		ref, _ := m.initial.Param(name)
		line := fmt.Sprintf("%-15s %s %.3g", name, bar(v, ref, 8), v)
		if i == m.selected {
			s.WriteString(m.st.active.Render("> "+line) + "\n")
		} else {
			s.WriteString("  " + m.st.value.Render(line) + "\n")
		}
	}

	s.WriteString(m.st.help.Render("SP:Pause R:Reseed N:Law P:Preset\nTab/↑↓:Tune Click:Predator ?:Help"))
	return s.String()
}

// rotationChart plots observed tangential speed per radial bin against the
// circular speed the force law predicts at the bin centers. Empty bins are
// skipped.
func (m Model) rotationChart(law physics.ForceLaw) string {
	if !m.snap.HasStats {
		return ""
	}
	st := m.snap.Stats
	centers := st.BinCenters()
	observed := make([]float64, 0, len(centers))
	rs := make([]float64, 0, len(centers))
	for i, n := range st.BinCounts {
		if n == 0 {
			continue
		}
		observed = append(observed, st.BinMeans[i])
		rs = append(rs, centers[i])
	}
	if len(observed) < 2 {
		return ""
	}
	expected := stats.ExpectedCurve(law, rs)
	return asciigraph.PlotMany([][]float64{observed, expected},
		asciigraph.Height(6),
		asciigraph.Width(panelWidth-18),
		asciigraph.SeriesColors(asciigraph.Cyan, asciigraph.Gold),
		asciigraph.Caption("v(r) observed / expected"))
}

func bar(v, ref float64, width int) string {
	ratio := 0.5
	if ref != 0 {
		ratio = v / (2 * ref)
	}
	ratio = math.Max(0, math.Min(1, ratio))
	filled := int(ratio * float64(width))
	return "[" + strings.Repeat("=", filled) + strings.Repeat("-", width-filled) + "]"
}

func shortName(s string) string { return truncate(strings.ReplaceAll(s, "_", " "), 11) }

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

const helpText = `
╔══════════════════════════════════════╗
║          KEYBOARD SHORTCUTS          ║
╠══════════════════════════════════════╣
║  Space    - Pause/Resume             ║
║  .        - Single tick when paused  ║
║  R        - Reseed population        ║
║  N        - Toggle newton / kappa    ║
║  P        - Next preset              ║
║  Tab      - Cycle parameters         ║
║  Up/K     - Increase parameter (+5%) ║
║  Down/J   - Decrease parameter (-5%) ║
║  Click    - Place predator (flock)   ║
║  G        - Toggle GIF recording     ║
║  T        - Cycle themes             ║
║  ?        - Toggle this help         ║
║  Q        - Quit                     ║
╚══════════════════════════════════════╝`
