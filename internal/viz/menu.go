package viz

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/kappasim/internal/config"
	"github.com/san-kum/kappasim/internal/engine"
	"github.com/san-kum/kappasim/internal/experiment"
)

const (
	stateMenu = iota
	stateSim
)

// App is the interactive entry point: a preset picker that launches a live
// view and returns to the picker on esc.
type App struct {
	state   int
	cursor  int
	presets []config.Preset
	base    config.Simulation
	mc      ModelConfig
	err     error

	eng           *engine.Engine
	live          Model
	width, height int
}

// NewApp builds the picker. base supplies the seed, integrator and any
// values not covered by a preset.
func NewApp(base config.Simulation, mc ModelConfig) *App {
	return &App{
		state:   stateMenu,
		presets: config.ListPresets(),
		base:    base,
		mc:      mc,
	}
}

func (a *App) Init() tea.Cmd { return nil }

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if ws, ok := msg.(tea.WindowSizeMsg); ok {
		a.width, a.height = ws.Width, ws.Height
	}

	if a.state == stateSim {
		if k, ok := msg.(tea.KeyMsg); ok && k.String() == "esc" {
			a.live.stopRecording()
			a.stop()
			return a, nil
		}
		next, cmd := a.live.Update(msg)
		a.live = next.(Model)
		return a, cmd
	}

	k, ok := msg.(tea.KeyMsg)
	if !ok {
		return a, nil
	}
	switch k.String() {
	case "q", "ctrl+c", "esc":
		return a, tea.Quit
	case "up", "k":
		if a.cursor > 0 {
			a.cursor--
		}
	case "down", "j":
		if a.cursor < len(a.presets)-1 {
			a.cursor++
		}
	case "enter", " ":
		return a, a.start(a.presets[a.cursor])
	}
	return a, nil
}

func (a *App) start(p config.Preset) tea.Cmd {
	cfg, err := p.Apply(a.base)
	if err != nil {
		a.err = err
		return nil
	}
	eng, err := engine.New(cfg,
		engine.WithLogger(a.mc.Logger),
		engine.WithMetrics(experiment.NewRegistry().DefaultMetrics(cfg)...))
	if err != nil {
		a.err = err
		return nil
	}

	a.err = nil
	a.eng = eng
	a.live = NewModel(eng, a.mc)
	if a.width > 0 {
		a.live.resize(a.width, a.height)
	}
	a.state = stateSim
	return a.live.Init()
}

func (a *App) stop() {
	if a.eng != nil {
		a.eng.Close()
		a.eng = nil
	}
	a.state = stateMenu
}

// Close releases the running engine, if any.
func (a *App) Close() { a.stop() }

func (a *App) View() string {
	if a.state == stateSim {
		return a.live.View()
	}
	return a.viewMenu()
}

func (a *App) viewMenu() string {
	t := GetTheme(a.mc.Theme)
	title := lipgloss.NewStyle().Foreground(t.Accent).Bold(true)
	sub := lipgloss.NewStyle().Foreground(t.Muted)
	cursor := lipgloss.NewStyle().Foreground(t.Bodies).Bold(true)
	name := lipgloss.NewStyle().Foreground(t.Text).Bold(true)
	desc := lipgloss.NewStyle().Foreground(t.Accent)
	dim := lipgloss.NewStyle().Foreground(t.Guides)
	key := lipgloss.NewStyle().Foreground(t.Bodies).Bold(true)

	var b strings.Builder
	b.WriteString("\n\n    " + title.Render("KAPPASIM") + "\n    " + sub.Render("kappa-gravity particle dynamics") + "\n    " + sub.Render("─────────────────────────") + "\n\n")
	for i, p := range a.presets {
		label := fmt.Sprintf("%-14s %-6s", p.String(), p.Mode())
		if i == a.cursor {
			b.WriteString(fmt.Sprintf("    %s %s  %s\n", cursor.Render("▸"), name.Render(label), desc.Render(p.Description())))
		} else {
			b.WriteString(fmt.Sprintf("      %s  %s\n", sub.Render(label), dim.Render(p.Description())))
		}
	}
	if a.err != nil {
		b.WriteString("\n    " + lipgloss.NewStyle().Foreground(t.Error).Render(a.err.Error()) + "\n")
	}
	b.WriteString("\n    " + key.Render("j/k") + sub.Render(" navigate  ") + key.Render("enter") + sub.Render(" select  ") + key.Render("esc") + sub.Render(" back  ") + key.Render("q") + sub.Render(" quit") + "\n")
	return b.String()
}
