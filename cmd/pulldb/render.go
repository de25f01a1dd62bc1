package main

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"mit.edu/dsg/pulldb/storage"
)

var (
	primaryColor = lipgloss.Color("#8B5CF6")
	borderColor  = lipgloss.Color("#334155")
	mutedColor   = lipgloss.Color("#94A3B8")

	titleStyle = lipgloss.NewStyle().
			Background(primaryColor).
			Foreground(lipgloss.Color("#FFFFFF")).
			Bold(true).
			Padding(0, 1)

	successStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("#10B981")).
			Foreground(lipgloss.Color("#0F172A")).
			Bold(true).
			Padding(0, 1)

	errorStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("#EF4444")).
			Foreground(lipgloss.Color("#F8FAFC")).
			Bold(true).
			Padding(0, 1)

	headerStyle = lipgloss.NewStyle().Foreground(primaryColor).Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	footerStyle = lipgloss.NewStyle().Foreground(mutedColor).Italic(true)
)

// renderRows draws rows as a bordered table. Rows need not share columns; the header is
// the sorted union of all columns and absent values render as empty cells.
func renderRows(rows []storage.Tuple) string {
	columns, records := storage.TuplesToRecords(rows)
	footer := footerStyle.Render(fmt.Sprintf("(%d rows)", len(rows)))
	if len(columns) == 0 {
		return footer
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(borderColor)).
		Headers(columns...).
		Rows(records...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
	return lipgloss.JoinVertical(lipgloss.Left, t.Render(), footer)
}
