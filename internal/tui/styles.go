package tui

import "github.com/charmbracelet/lipgloss"

var (
	// HeaderStyle styles the column header row.
	HeaderStyle = lipgloss.NewStyle().Bold(true)

	// RestartStyle marks the restart directive in the final summary. It has
	// to be impossible to miss.
	RestartStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("1"))

	// SummaryStyle frames the aggregate counts.
	SummaryStyle = lipgloss.NewStyle().Bold(true)

	statusStyles = map[string]lipgloss.Style{
		// Terminal states
		"succeeded":               lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
		"succeeded-with-warnings": lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
		"failed":                  lipgloss.NewStyle().Foreground(lipgloss.Color("1")),

		// Active state
		"installing": lipgloss.NewStyle().Foreground(lipgloss.Color("4")),

		// Pending
		"pending": lipgloss.NewStyle().Faint(true),
	}
)

// StatusStyle returns the lipgloss style for the given status string.
func StatusStyle(status string) lipgloss.Style {
	if s, ok := statusStyles[status]; ok {
		return s
	}
	return lipgloss.NewStyle()
}
