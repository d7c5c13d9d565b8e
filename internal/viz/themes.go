package viz

import "github.com/charmbracelet/lipgloss"

// Theme is the color scheme of the live view.
type Theme struct {
	Name     string
	Bodies   lipgloss.Color
	Guides   lipgloss.Color
	Accent   lipgloss.Color
	Text     lipgloss.Color
	Muted    lipgloss.Color
	Running  lipgloss.Color
	Paused   lipgloss.Color
	Error    lipgloss.Color
	Curve    lipgloss.Color
	Expected lipgloss.Color
}

var (
	ThemeNebula = Theme{
		Name:     "nebula",
		Bodies:   lipgloss.Color("#9ad1ff"),
		Guides:   lipgloss.Color("#3a3f66"),
		Accent:   lipgloss.Color("#ff66cc"),
		Text:     lipgloss.Color("#e8e8ff"),
		Muted:    lipgloss.Color("#666688"),
		Running:  lipgloss.Color("#00ff88"),
		Paused:   lipgloss.Color("#ffaa00"),
		Error:    lipgloss.Color("#ff4444"),
		Curve:    lipgloss.Color("#00ccff"),
		Expected: lipgloss.Color("#ffd700"),
	}

	ThemeRetroGreen = Theme{
		Name:     "retro",
		Bodies:   lipgloss.Color("#00ff00"),
		Guides:   lipgloss.Color("#005500"),
		Accent:   lipgloss.Color("#88ff88"),
		Text:     lipgloss.Color("#00ff00"),
		Muted:    lipgloss.Color("#007700"),
		Running:  lipgloss.Color("#88ff88"),
		Paused:   lipgloss.Color("#ffff00"),
		Error:    lipgloss.Color("#ff0000"),
		Curve:    lipgloss.Color("#00ff00"),
		Expected: lipgloss.Color("#ffff00"),
	}

	ThemeMinimal = Theme{
		Name:     "minimal",
		Bodies:   lipgloss.Color("#ffffff"),
		Guides:   lipgloss.Color("#444444"),
		Accent:   lipgloss.Color("#0088ff"),
		Text:     lipgloss.Color("#ffffff"),
		Muted:    lipgloss.Color("#888888"),
		Running:  lipgloss.Color("#00ff00"),
		Paused:   lipgloss.Color("#ffaa00"),
		Error:    lipgloss.Color("#ff0000"),
		Curve:    lipgloss.Color("#ffffff"),
		Expected: lipgloss.Color("#0088ff"),
	}

	ThemeSunset = Theme{
		Name:     "sunset",
		Bodies:   lipgloss.Color("#feca57"),
		Guides:   lipgloss.Color("#5a3b5c"),
		Accent:   lipgloss.Color("#ff9ff3"),
		Text:     lipgloss.Color("#fff5f5"),
		Muted:    lipgloss.Color("#8b6b8c"),
		Running:  lipgloss.Color("#5fd068"),
		Paused:   lipgloss.Color("#ffc048"),
		Error:    lipgloss.Color("#ff4757"),
		Curve:    lipgloss.Color("#ff6b6b"),
		Expected: lipgloss.Color("#feca57"),
	}

	Themes = []Theme{ThemeNebula, ThemeRetroGreen, ThemeMinimal, ThemeSunset}
)

// GetTheme returns the named theme, falling back to the first one.
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return Themes[0]
}

// NextTheme returns the theme after name, wrapping around.
func NextTheme(name string) Theme {
	for i, t := range Themes {
		if t.Name == name {
			return Themes[(i+1)%len(Themes)]
		}
	}
	return Themes[0]
}

func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}

// styles holds the lipgloss styles derived from a theme.
type styles struct {
	bodies  lipgloss.Style
	header  lipgloss.Style
	label   lipgloss.Style
	value   lipgloss.Style
	active  lipgloss.Style
	running lipgloss.Style
	paused  lipgloss.Style
	err     lipgloss.Style
	help    lipgloss.Style
	panel   lipgloss.Style
	canvas  lipgloss.Style
}

func newStyles(t Theme) styles {
	return styles{
		bodies:  lipgloss.NewStyle().Foreground(t.Bodies),
		header:  lipgloss.NewStyle().Foreground(t.Accent).Bold(true).MarginBottom(1),
		label:   lipgloss.NewStyle().Foreground(t.Muted).Width(12),
		value:   lipgloss.NewStyle().Foreground(t.Text),
		active:  lipgloss.NewStyle().Foreground(t.Accent).Bold(true),
		running: lipgloss.NewStyle().Foreground(t.Running).Bold(true),
		paused:  lipgloss.NewStyle().Foreground(t.Paused).Bold(true),
		err:     lipgloss.NewStyle().Foreground(t.Error),
		help:    lipgloss.NewStyle().Foreground(t.Muted).MarginTop(1),
		panel: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(t.Guides).
			Padding(0, 2).
			Width(panelWidth),
		canvas: lipgloss.NewStyle().Padding(0, 1),
	}
}
