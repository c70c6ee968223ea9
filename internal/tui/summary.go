package tui

import (
	"strings"

	"github.com/muesli/reflow/wordwrap"
)

const summaryWidth = 72

// summaryView renders the final screen after a chart has been picked.
func (m AppModel) summaryView() string {
	var b strings.Builder

	b.WriteString(TitleStyle.Render("Selection"))
	b.WriteString("\n\n")

	b.WriteString(DimStyle.Render("Dataset  ") + m.dataset.Label + "\n")

	if len(m.columns) > 0 {
		labels := make([]string, len(m.columns))
		for i, c := range m.columns {
			labels[i] = c.Label
		}
		b.WriteString(DimStyle.Render("Columns  "))
		b.WriteString(wordwrap.String(strings.Join(labels, ", "), summaryWidth))
		b.WriteString("\n")
	}

	b.WriteString(DimStyle.Render("Chart    ") + m.chart.Label + "\n")

	if desc := m.chart.Meta["description"]; desc != "" {
		b.WriteString("\n")
		b.WriteString(wordwrap.String(desc, summaryWidth))
		b.WriteString("\n")
	}
	if url := m.chart.Meta["url"]; url != "" {
		b.WriteString("\n")
		b.WriteString(DimStyle.Render(url))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(HelpStyle.Render("Press any key to exit"))
	return b.String()
}
