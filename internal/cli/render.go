package cli

import (
	"access-service/internal/resolver"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	json "github.com/goccy/go-json"
)

const (
	outputTable = "table"
	outputJSON  = "json"
)

var (
	colorAccent  = lipgloss.Color("#5FAFD7")
	colorWarning = lipgloss.Color("#FFAF00")
	colorError   = lipgloss.Color("#FF5F5F")
	colorSuccess = lipgloss.Color("#87D787")
	colorMuted   = lipgloss.Color("#8A8A8A")

	titleStyle   = lipgloss.NewStyle().Foreground(colorAccent).Bold(true)
	infoStyle    = lipgloss.NewStyle().Foreground(colorAccent)
	warningStyle = lipgloss.NewStyle().Foreground(colorWarning).Bold(true)
	errorStyle   = lipgloss.NewStyle().Foreground(colorError).Bold(true)
	successStyle = lipgloss.NewStyle().Foreground(colorSuccess)
	mutedStyle   = lipgloss.NewStyle().Foreground(colorMuted)
	headerStyle  = lipgloss.NewStyle().Foreground(colorAccent).Bold(true).Padding(0, 1)
	cellStyle    = lipgloss.NewStyle().Padding(0, 1)
)

func renderTable(headers []string, rows [][]string) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(mutedStyle).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
	return t.String()
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func renderAdvisories(w io.Writer, advisories []resolver.Advisory) {
	for _, a := range advisories {
		switch a.Level {
		case resolver.LevelWarning:
			fmt.Fprintln(w, warningStyle.Render("warning: ")+a.Message)
		default:
			fmt.Fprintln(w, infoStyle.Render("note: ")+a.Message)
		}
	}
}

func renderRejection(w io.Writer, err error) {
	fmt.Fprintln(w, errorStyle.Render("rejected: ")+err.Error())
}
