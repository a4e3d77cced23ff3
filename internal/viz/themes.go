package viz

import "github.com/charmbracelet/lipgloss"

// Theme is a shading palette. Frame luminance runs from Shadow (0) to
// Light (255); Accent marks the selected knob and the title, Muted the
// hints and status line.
type Theme struct {
	Name   string
	Shadow lipgloss.Color
	Light  lipgloss.Color
	Accent lipgloss.Color
	Muted  lipgloss.Color
}

var (
	ThemeMinimal = Theme{
		Name:   "minimal",
		Shadow: lipgloss.Color("#000000"),
		Light:  lipgloss.Color("#ffffff"),
		Accent: lipgloss.Color("#9a9a9a"),
		Muted:  lipgloss.Color("#5c5c5c"),
	}

	// Amber monochrome monitor.
	ThemeAmber = Theme{
		Name:   "amber",
		Shadow: lipgloss.Color("#140900"),
		Light:  lipgloss.Color("#ffb000"),
		Accent: lipgloss.Color("#ffd27a"),
		Muted:  lipgloss.Color("#7a5200"),
	}

	// P1 green phosphor.
	ThemePhosphor = Theme{
		Name:   "phosphor",
		Shadow: lipgloss.Color("#000f03"),
		Light:  lipgloss.Color("#33ff66"),
		Accent: lipgloss.Color("#b3ffc6"),
		Muted:  lipgloss.Color("#1f7a38"),
	}

	ThemeOcean = Theme{
		Name:   "ocean",
		Shadow: lipgloss.Color("#00111f"),
		Light:  lipgloss.Color("#7fdbff"),
		Accent: lipgloss.Color("#ffd700"),
		Muted:  lipgloss.Color("#3a6f8f"),
	}

	ThemeSunset = Theme{
		Name:   "sunset",
		Shadow: lipgloss.Color("#1a0614"),
		Light:  lipgloss.Color("#ffb38a"),
		Accent: lipgloss.Color("#ff6b9d"),
		Muted:  lipgloss.Color("#8b5a6c"),
	}

	// Themes in cycling order.
	Themes = []Theme{
		ThemeMinimal,
		ThemeAmber,
		ThemePhosphor,
		ThemeOcean,
		ThemeSunset,
	}
)

// GetTheme returns a theme by name, falling back to minimal.
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return ThemeMinimal
}

// NextTheme returns the theme after name in Themes, wrapping around.
func NextTheme(name string) Theme {
	for i, t := range Themes {
		if t.Name == name {
			return Themes[(i+1)%len(Themes)]
		}
	}
	return Themes[0]
}

// ThemeNames returns list of available theme names
func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}

func (t Theme) selectedLabel() lipgloss.Style { return ActiveLabel.Foreground(t.Accent) }

func (t Theme) muted() lipgloss.Style { return Subtle.Foreground(t.Muted) }

func (t Theme) hint() lipgloss.Style { return KeyHint.Foreground(t.Muted) }
