package report

import (
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// Styles are bound to the writer's color profile, so plain buffers get plain text.
type Styles struct {
	Heading lipgloss.Style
	Rule    lipgloss.Style
	r       *lipgloss.Renderer
}

// NewStyles creates styles rendered for w.
func NewStyles(w io.Writer) Styles {
	r := lipgloss.NewRenderer(w)
	return Styles{
		Heading: r.NewStyle().Bold(true).Foreground(lipgloss.Color("#7D56F4")),
		Rule:    r.NewStyle().Foreground(lipgloss.Color("#45475A")),
		r:       r,
	}
}

// Matrix renders a bordered table with a header row.
func (s Styles) Matrix(headers []string, rows [][]string) string {
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(s.Rule).
		Headers(headers...).
		Rows(rows...).
		String()
}
