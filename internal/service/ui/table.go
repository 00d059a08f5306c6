package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Table renders rows as left-aligned columns separated by two spaces.
// Cells may carry ANSI styling; widths are measured without it.
func Table(header []string, rows [][]string) string {
	widths := make([]int, len(header))
	for i, h := range header {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) && lipgloss.Width(cell) > widths[i] {
				widths[i] = lipgloss.Width(cell)
			}
		}
	}

	var b strings.Builder
	writeRow := func(cells []string, style *lipgloss.Style) {
		for i, cell := range cells {
			if i >= len(widths) {
				break
			}
			if style != nil {
				cell = style.Render(cell)
			}
			if i == len(cells)-1 {
				b.WriteString(cell)
				break
			}
			b.WriteString(cell)
			b.WriteString(strings.Repeat(" ", widths[i]-lipgloss.Width(cell)+2))
		}
		b.WriteString("\n")
	}

	writeRow(header, &HeaderStyle)
	for _, row := range rows {
		writeRow(row, nil)
	}
	return b.String()
}
