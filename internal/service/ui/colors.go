package ui

import "github.com/charmbracelet/lipgloss"

var (
	// TitleStyle ANSI 6 (cyan) for headings, readable on light and dark terminals
	TitleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("6")).Bold(true).MarginBottom(1)

	// UsageStyle ANSI 2 (green) for arguments and usage lines
	UsageStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))

	// DescStyle ANSI 8 (gray) so descriptions stay in the background
	DescStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))

	// FlagStyle ANSI 3 (yellow) for flags
	FlagStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))

	HeaderStyle = lipgloss.NewStyle().Bold(true).Underline(true)
	OKStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	FailStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)
)

// Status renders a run or step status in its colour.
func Status(s string, ok bool) string {
	if ok {
		return OKStyle.Render(s)
	}
	return FailStyle.Render(s)
}
