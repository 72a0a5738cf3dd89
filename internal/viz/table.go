package viz

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

var (
	headerCell = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#00ffff")).Padding(0, 1)
	cell       = lipgloss.NewStyle().Padding(0, 1)
)

// Table renders rows under headers with a rounded border.
func Table(headers []string, rows [][]string) string {
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(Subtle).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerCell
			}
			return cell
		})
	return t.String()
}
