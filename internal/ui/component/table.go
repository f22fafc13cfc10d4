package component

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/rovshanmuradov/rangewatch/internal/ui/style"
)

// TableColumn represents a column configuration
type TableColumn struct {
	Header string
	Width  int
	Align  lipgloss.Position
}

// TableRow represents a row of data
type TableRow struct {
	Data  []string
	Dim   bool
	Style lipgloss.Style
}

// Table represents a scrolling data table component
type Table struct {
	columns     []TableColumn
	rows        []TableRow
	height      int
	selectedRow int
	offset      int

	// Styling
	headerStyle      lipgloss.Style
	rowStyle         lipgloss.Style
	dimRowStyle      lipgloss.Style
	selectedRowStyle lipgloss.Style
	borderStyle      lipgloss.Style

	selectable bool
	emptyText  string
}

// NewTable creates a new table component
func NewTable(columns ...TableColumn) *Table {
	palette := style.DefaultPalette()

	return &Table{
		columns: columns,

		headerStyle: lipgloss.NewStyle().
			Foreground(palette.Secondary).
			Bold(true).
			Padding(0, 1),

		rowStyle: lipgloss.NewStyle().
			Foreground(palette.Text).
			Padding(0, 1),

		dimRowStyle: lipgloss.NewStyle().
			Foreground(palette.TextMuted).
			Padding(0, 1),

		selectedRowStyle: lipgloss.NewStyle().
			Foreground(palette.Background).
			Background(palette.Primary).
			Padding(0, 1),

		borderStyle: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(palette.TextMuted),

		selectable: true,
		emptyText:  "No data",
	}
}

// SetRows replaces all rows. dim marks rows rendered muted (inactive monitors).
func (t *Table) SetRows(rows [][]string, dim func(i int) bool) *Table {
	t.rows = make([]TableRow, len(rows))
	for i, data := range rows {
		t.rows[i] = TableRow{Data: data, Style: t.rowStyle}
		if dim != nil && dim(i) {
			t.rows[i].Dim = true
			t.rows[i].Style = t.dimRowStyle
		}
	}
	if t.selectedRow >= len(t.rows) {
		t.selectedRow = max(len(t.rows)-1, 0)
	}
	t.clampOffset()
	return t
}

// SetHeight sets the number of visible rows
func (t *Table) SetHeight(height int) *Table {
	t.height = height
	t.clampOffset()
	return t
}

// SetSelectable enables/disables row selection
func (t *Table) SetSelectable(selectable bool) *Table {
	t.selectable = selectable
	return t
}

// SetEmptyText sets the text shown when the table has no rows
func (t *Table) SetEmptyText(text string) *Table {
	t.emptyText = text
	return t
}

// Selected returns the selected row index, or -1 when the table is empty
func (t *Table) Selected() int {
	if len(t.rows) == 0 {
		return -1
	}
	return t.selectedRow
}

// MoveUp moves selection up
func (t *Table) MoveUp() *Table {
	if t.selectable && t.selectedRow > 0 {
		t.selectedRow--
		t.clampOffset()
	}
	return t
}

// MoveDown moves selection down
func (t *Table) MoveDown() *Table {
	if t.selectable && t.selectedRow < len(t.rows)-1 {
		t.selectedRow++
		t.clampOffset()
	}
	return t
}

// SelectLast moves selection to the last row
func (t *Table) SelectLast() *Table {
	if len(t.rows) > 0 {
		t.selectedRow = len(t.rows) - 1
		t.clampOffset()
	}
	return t
}

// RowCount returns the number of rows
func (t *Table) RowCount() int {
	return len(t.rows)
}

// keeps the selection inside the visible window
func (t *Table) clampOffset() {
	if t.height <= 0 {
		t.offset = 0
		return
	}
	if t.selectedRow < t.offset {
		t.offset = t.selectedRow
	}
	if t.selectedRow >= t.offset+t.height {
		t.offset = t.selectedRow - t.height + 1
	}
	t.offset = max(0, min(t.offset, len(t.rows)-t.height))
}

// View renders the table
func (t *Table) View() string {
	var content strings.Builder

	cells := make([]string, len(t.columns))
	for i, col := range t.columns {
		cells[i] = renderCell(col.Header, col, t.headerStyle)
	}
	content.WriteString(strings.Join(cells, "│"))
	content.WriteString("\n")

	parts := make([]string, len(t.columns))
	for i, col := range t.columns {
		parts[i] = strings.Repeat("─", col.Width+2) // cell padding
	}
	content.WriteString(strings.Join(parts, "┼"))

	if len(t.rows) == 0 {
		content.WriteString("\n")
		content.WriteString(t.dimRowStyle.Render(t.emptyText))
		return t.borderStyle.Render(content.String())
	}

	end := len(t.rows)
	if t.height > 0 {
		end = min(end, t.offset+t.height)
	}
	for rowIndex := t.offset; rowIndex < end; rowIndex++ {
		row := t.rows[rowIndex]
		rowStyle := row.Style
		if t.selectable && rowIndex == t.selectedRow {
			rowStyle = t.selectedRowStyle
		}

		for i, col := range t.columns {
			data := ""
			if i < len(row.Data) {
				data = row.Data[i]
			}
			cells[i] = renderCell(data, col, rowStyle)
		}
		content.WriteString("\n")
		content.WriteString(strings.Join(cells, "│"))
	}

	return t.borderStyle.Render(content.String())
}

// renderCell truncates and aligns a single table cell
func renderCell(content string, col TableColumn, cellStyle lipgloss.Style) string {
	if r := []rune(content); len(r) > col.Width {
		if col.Width > 1 {
			content = string(r[:col.Width-1]) + "…"
		} else {
			content = string(r[:col.Width])
		}
	}
	return cellStyle.Width(col.Width + 2).Align(col.Align).Render(content)
}
