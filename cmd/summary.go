package main

import (
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/okian/dmasviz/internal/domain/scores"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true)
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	borderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

var summaryHeaders = []string{"Task", "Score", "Max", "Completion", "Subtasks", "Completed"}

func formatScore(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// renderSummary draws one row per task in name order plus a totals row.
func renderSummary(problem string, s *scores.Scores) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(borderStyle).
		Headers(summaryHeaders...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})

	for _, task := range s.Tasks() {
		t.Row(
			task.Name,
			formatScore(task.Score),
			formatScore(task.MaxScore),
			formatScore(task.Completion),
			strconv.Itoa(len(task.Subtasks)),
			strconv.Itoa(task.Completed()),
		)
	}
	tot := s.Totals()
	t.Row("total", formatScore(tot.Score), formatScore(tot.MaxScore), "", strconv.Itoa(tot.Subtasks), "")

	return titleStyle.Render(problem) + "\n" + t.String()
}
