package view

import "github.com/charmbracelet/lipgloss"

// Palette is the set of colors one theme mode renders with.
type Palette struct {
	Foreground lipgloss.Color
	Primary    lipgloss.Color
	Accent     lipgloss.Color
	Muted      lipgloss.Color
	Border     lipgloss.Color
	Done       lipgloss.Color
}

// LightPalette returns the colors for the light theme.
func LightPalette() Palette {
	return Palette{
		Foreground: lipgloss.Color("#101F38"),
		Primary:    lipgloss.Color("#101F38"),
		Accent:     lipgloss.Color("#2E7D32"),
		Muted:      lipgloss.Color("#6B7280"),
		Border:     lipgloss.Color("#DCE0E5"),
		Done:       lipgloss.Color("#9CA3AF"),
	}
}

// DarkPalette returns the colors for the dark theme.
func DarkPalette() Palette {
	return Palette{
		Foreground: lipgloss.Color("#F2F2F2"),
		Primary:    lipgloss.Color("#8BC34A"),
		Accent:     lipgloss.Color("#FFC107"),
		Muted:      lipgloss.Color("#94A3B8"),
		Border:     lipgloss.Color("#2A3850"),
		Done:       lipgloss.Color("#64748B"),
	}
}

// PaletteFor returns the palette for a theme mode name. Unknown names get
// the light palette.
func PaletteFor(mode string) Palette {
	if mode == "dark" {
		return DarkPalette()
	}

	return LightPalette()
}
