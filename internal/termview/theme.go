package termview

import (
	"nbview/internal/config"

	"github.com/charmbracelet/lipgloss"
)

// Theme holds every style used for terminal output. Tabs are never converted
// so code and stream text keep their exact whitespace.
type Theme struct {
	Plain  bool
	Base   lipgloss.Style
	Label  lipgloss.Style
	Accent lipgloss.Style
	Error  lipgloss.Style
	Stderr lipgloss.Style
	Dim    lipgloss.Style
}

func base() lipgloss.Style {
	return lipgloss.NewStyle().TabWidth(lipgloss.NoTabConversion)
}

// ThemeFromConfig builds a theme from configured colors. plain disables all styling.
func ThemeFromConfig(cfg config.Theme, plain bool) Theme {
	if plain {
		return PlainTheme()
	}
	return Theme{
		Base:   base(),
		Label:  base().Foreground(lipgloss.Color(cfg.Label)).Bold(true),
		Accent: base().Foreground(lipgloss.Color(cfg.Accent)),
		Error:  base().Foreground(lipgloss.Color(cfg.Error)),
		Stderr: base().Foreground(lipgloss.Color(cfg.Stderr)),
		Dim:    base().Foreground(lipgloss.Color(cfg.Dim)).Faint(true),
	}
}

// DefaultTheme uses the default config colors.
func DefaultTheme() Theme {
	return ThemeFromConfig(config.Default().Theme, false)
}

// PlainTheme renders without any ANSI styling.
func PlainTheme() Theme {
	return Theme{
		Plain:  true,
		Base:   base(),
		Label:  base(),
		Accent: base(),
		Error:  base(),
		Stderr: base(),
		Dim:    base(),
	}
}
