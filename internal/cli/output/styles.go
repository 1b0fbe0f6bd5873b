package output

import "github.com/charmbracelet/lipgloss"

// Styles holds the lipgloss styles used by terminal output.
type Styles struct {
	DocPath lipgloss.Style
	Bold    lipgloss.Style
	Muted   lipgloss.Style
	Error   lipgloss.Style
	Warning lipgloss.Style
	Info    lipgloss.Style
	Success lipgloss.Style
}

// defaultStyles returns the styled set for terminal output.
func defaultStyles() Styles {
	return Styles{
		DocPath: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12")),
		Bold:    lipgloss.NewStyle().Bold(true),
		Muted:   lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		Error:   lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
		Warning: lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
		Info:    lipgloss.NewStyle().Foreground(lipgloss.Color("14")),
		Success: lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
	}
}

// plainStyles returns a pass-through set for markdown and JSON modes.
func plainStyles() Styles {
	return Styles{
		DocPath: lipgloss.NewStyle(),
		Bold:    lipgloss.NewStyle(),
		Muted:   lipgloss.NewStyle(),
		Error:   lipgloss.NewStyle(),
		Warning: lipgloss.NewStyle(),
		Info:    lipgloss.NewStyle(),
		Success: lipgloss.NewStyle(),
	}
}
