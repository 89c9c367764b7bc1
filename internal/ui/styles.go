package ui

import "github.com/charmbracelet/lipgloss"

// Palette. One accent color, grays for structure.
const (
	ColorLime     = "154"
	ColorLimeDim  = "106"
	ColorWhite    = "255"
	ColorGray     = "245"
	ColorDarkGray = "238"
	ColorRed      = "196"
	ColorYellow   = "220"
)

// Styles holds the lipgloss styles used by the renderers.
type Styles struct {
	Header  lipgloss.Style
	Title   lipgloss.Style
	Label   lipgloss.Style
	Meta    lipgloss.Style
	Dim     lipgloss.Style
	Accent  lipgloss.Style
	Success lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style
	Panel   lipgloss.Style
}

// DefaultStyles returns the colored styles for interactive terminals.
func DefaultStyles() Styles {
	return Styles{
		Header:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(ColorLime)),
		Title:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(ColorWhite)),
		Label:   lipgloss.NewStyle().Foreground(lipgloss.Color(ColorGray)),
		Meta:    lipgloss.NewStyle().Foreground(lipgloss.Color(ColorLimeDim)),
		Dim:     lipgloss.NewStyle().Foreground(lipgloss.Color(ColorDarkGray)),
		Accent:  lipgloss.NewStyle().Foreground(lipgloss.Color(ColorLime)),
		Success: lipgloss.NewStyle().Foreground(lipgloss.Color(ColorLime)),
		Warning: lipgloss.NewStyle().Foreground(lipgloss.Color(ColorYellow)),
		Error:   lipgloss.NewStyle().Foreground(lipgloss.Color(ColorRed)),
		Panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(ColorDarkGray)).
			Padding(0, 1),
	}
}

// NoColorStyles returns unstyled components for plain mode.
func NoColorStyles() Styles {
	plain := lipgloss.NewStyle()
	return Styles{
		Header:  plain,
		Title:   plain,
		Label:   plain,
		Meta:    plain,
		Dim:     plain,
		Accent:  plain,
		Success: plain,
		Warning: plain,
		Error:   plain,
		Panel:   plain,
	}
}

// GetStyles returns the appropriate styles based on color preference.
func GetStyles(noColor bool) Styles {
	if noColor {
		return NoColorStyles()
	}
	return DefaultStyles()
}
