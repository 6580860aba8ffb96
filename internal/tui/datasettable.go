package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	ltable "github.com/charmbracelet/lipgloss/table"

	"github.com/dm/painel/internal/format"
	"github.com/dm/painel/internal/model"
)

const labelColumnWidth = 48

// DatasetTableModel is a sortable, paginated, filterable view of one dataset
// summary.
type DatasetTableModel struct {
	tableModel
	summary     model.DatasetSummary
	displayRows []model.SummaryRow // after filter + sort applied
}

// NewDatasetTable returns a table sorted by value, descending.
func NewDatasetTable() DatasetTableModel {
	cols := []columnDef{
		{Title: "Categoria", Width: labelColumnWidth, Align: "left"},
		{Title: "Total", Width: 14, Align: "right"},
		{Title: "%", Width: 18, Align: "right"},
	}
	m := DatasetTableModel{tableModel: newTableModel(cols)}
	m.sortCol = colValue
	m.sortDesc = true
	return m
}

// SetData replaces the summary. Switching to a different dataset clears the
// filter and paging.
func (m *DatasetTableModel) SetData(s model.DatasetSummary) {
	if s.Name != m.summary.Name {
		m.reset()
	}
	m.summary = s
	m.apply()
}

func (m *DatasetTableModel) apply() {
	filtered := filterSummaryRows(m.summary.Rows, m.search)
	m.displayRows = sortSummaryRows(filtered, m.sortCol, m.sortDesc)
	m.clampPage(len(m.displayRows))
}

// Update delegates to the embedded tableModel and re-applies filter and sort
// when either changed.
func (m DatasetTableModel) Update(msg tea.Msg) (DatasetTableModel, tea.Cmd) {
	prevSort, prevDesc, prevSearch := m.sortCol, m.sortDesc, m.search

	base, cmd := m.tableModel.Update(msg)
	m.tableModel = base

	if m.sortCol != prevSort || m.sortDesc != prevDesc || m.search != prevSearch {
		m.apply()
	} else {
		m.clampPage(len(m.displayRows))
	}
	return m, cmd
}

// renderTable renders the dataset title bar followed by the current page.
func (m *DatasetTableModel) renderTable(width int) string {
	pc := pageCount(len(m.displayRows), m.pageSize)
	hdr := m.renderHeader(pc)

	headers := make([]string, len(m.columns))
	for i, c := range m.columns {
		headers[i] = c.Title
		if i == m.sortCol {
			if m.sortDesc {
				headers[i] += "↓"
			} else {
				headers[i] += "↑"
			}
		}
	}

	start, end := pageBounds(len(m.displayRows), m.page, m.pageSize)
	if start == end {
		empty := "  (sem dados)"
		if m.search != "" {
			empty = "  (nenhuma categoria corresponde ao filtro)"
		}
		return lipgloss.JoinVertical(lipgloss.Left, hdr, StyleDim.Render(empty))
	}

	sortCol := m.sortCol
	t := ltable.New().
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == ltable.HeaderRow {
				if col == sortCol {
					return lipgloss.NewStyle().Bold(true).Foreground(colorBlue)
				}
				return lipgloss.NewStyle().Bold(true).Foreground(colorGray)
			}
			base := lipgloss.NewStyle()
			if row%2 == 0 {
				base = base.Background(colorAlt)
			}
			switch col {
			case colValue:
				return base.Foreground(colorCyan).Align(lipgloss.Right)
			case colPercent:
				return base.Foreground(colorPurple).Align(lipgloss.Right)
			default:
				return base.Foreground(colorWhite)
			}
		}).
		BorderStyle(lipgloss.NewStyle().Foreground(colorGray)).
		BorderTop(false).
		BorderBottom(false).
		BorderLeft(false).
		BorderRight(false).
		BorderHeader(true).
		BorderColumn(false)

	if width > 0 {
		t = t.Width(width)
	}

	labelWidth := labelColumnWidth
	if width > 0 && width < 80 {
		labelWidth = max(width-36, 8)
	}
	for _, r := range m.displayRows[start:end] {
		t = t.Row(
			truncateName(r.Label, labelWidth),
			format.FormatNumber(r.Value),
			renderMiniBar(r.Percent, 8)+" "+format.FormatPercent(r.Percent),
		)
	}

	return lipgloss.JoinVertical(lipgloss.Left, hdr, t.String())
}

// renderHeader renders the title bar with filter, sort and page hints. While
// filtering, the live text input replaces the hints.
func (m *DatasetTableModel) renderHeader(pages int) string {
	title := StyleTitle.Render(m.summary.Label)
	if m.summary.Label == "" {
		title = StyleTitle.Render(string(m.summary.Name))
	}
	totals := fmt.Sprintf("%s registros  total %s", format.FormatNumber(float64(m.summary.Records)), format.FormatNumber(m.summary.Total))
	pageInfo := fmt.Sprintf("Página %d/%d", m.page+1, pages)

	var right string
	switch {
	case m.searching:
		right = "Filtro: " + m.input.View()
	case m.search != "":
		right = fmt.Sprintf("filtro=%q  %s", m.search, pageInfo)
	default:
		right = "[/: filtrar]  [1-3: ordenar]  [←→: página]  " + pageInfo
	}
	return title + "  " + StyleDim.Render(totals+"  "+right)
}
