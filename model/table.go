package model

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Table represents a table with cells organized in rows and columns
type Table struct {
	Caption string   `json:"text,omitempty"`
	Rows    [][]Cell `json:"data"`
	Prov    []Prov   `json:"prov,omitempty"`
}

func (t *Table) Type() ObjType      { return ObjTable }
func (t *Table) GetText() string    { return t.Caption }
func (t *Table) Provenance() []Prov { return t.Prov }

// CellText returns the cell contents, tab separated within a row and one row
// per line.
func (t *Table) CellText() string {
	var sb strings.Builder
	for _, row := range t.Rows {
		for j, cell := range row {
			sb.WriteString(cell.Text)
			if j < len(row)-1 {
				sb.WriteString("\t")
			}
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// NewTable creates a new table with given dimensions
func NewTable(rows, cols int) *Table {
	table := &Table{
		Rows: make([][]Cell, rows),
	}
	for i := 0; i < rows; i++ {
		table.Rows[i] = make([]Cell, cols)
		for j := 0; j < cols; j++ {
			table.Rows[i][j] = Cell{
				RowSpan: 1,
				ColSpan: 1,
			}
		}
	}
	return table
}

// RowCount returns the number of rows
func (t *Table) RowCount() int {
	return len(t.Rows)
}

// ColCount returns the number of columns in the widest row
func (t *Table) ColCount() int {
	cols := 0
	for _, row := range t.Rows {
		if len(row) > cols {
			cols = len(row)
		}
	}
	return cols
}

// GetCell returns the cell at the given row and column (0-indexed)
func (t *Table) GetCell(row, col int) *Cell {
	if row < 0 || row >= len(t.Rows) {
		return nil
	}
	if col < 0 || col >= len(t.Rows[row]) {
		return nil
	}
	return &t.Rows[row][col]
}

// SetCell sets the cell at the given position
func (t *Table) SetCell(row, col int, cell Cell) error {
	if row < 0 || row >= len(t.Rows) {
		return fmt.Errorf("row index %d out of bounds", row)
	}
	if col < 0 || col >= len(t.Rows[row]) {
		return fmt.Errorf("col index %d out of bounds", col)
	}
	t.Rows[row][col] = cell
	return nil
}

// ToMarkdown converts the table to a pipe table. The first row is always
// rendered as the header row.
func (t *Table) ToMarkdown() string {
	if len(t.Rows) == 0 {
		return ""
	}

	cols := t.ColCount()
	var sb strings.Builder

	writeRow := func(row []Cell) {
		for j := 0; j < cols; j++ {
			sb.WriteString("| ")
			if j < len(row) {
				sb.WriteString(escapeCell(row[j].Text))
			}
			sb.WriteString(" ")
		}
		sb.WriteString("|\n")
	}

	writeRow(t.Rows[0])
	for j := 0; j < cols; j++ {
		sb.WriteString("|---")
	}
	sb.WriteString("|\n")
	for i := 1; i < len(t.Rows); i++ {
		writeRow(t.Rows[i])
	}

	return strings.TrimSuffix(sb.String(), "\n")
}

func escapeCell(text string) string {
	text = strings.ReplaceAll(text, "\n", " ")
	return strings.ReplaceAll(text, "|", "\\|")
}

// ExportHTML renders the table as an HTML <table> element.
func (t *Table) ExportHTML() string {
	table := element(atom.Table)
	if t.Caption != "" {
		caption := element(atom.Caption)
		caption.AppendChild(&html.Node{Type: html.TextNode, Data: t.Caption})
		table.AppendChild(caption)
	}

	body := element(atom.Tbody)
	table.AppendChild(body)
	for _, row := range t.Rows {
		tr := element(atom.Tr)
		for _, cell := range row {
			a := atom.Td
			if cell.IsHeader {
				a = atom.Th
			}
			td := element(a)
			if cell.RowSpan > 1 {
				td.Attr = append(td.Attr, html.Attribute{Key: "rowspan", Val: strconv.Itoa(cell.RowSpan)})
			}
			if cell.ColSpan > 1 {
				td.Attr = append(td.Attr, html.Attribute{Key: "colspan", Val: strconv.Itoa(cell.ColSpan)})
			}
			td.AppendChild(&html.Node{Type: html.TextNode, Data: cell.Text})
			tr.AppendChild(td)
		}
		body.AppendChild(tr)
	}

	var buf bytes.Buffer
	if err := html.Render(&buf, table); err != nil {
		// Rendering into a bytes.Buffer only fails on malformed trees.
		return ""
	}
	return buf.String()
}

func element(a atom.Atom) *html.Node {
	return &html.Node{Type: html.ElementNode, DataAtom: a, Data: a.String()}
}

// Cell represents a table cell
type Cell struct {
	Text     string `json:"text"`
	RowSpan  int    `json:"row_span,omitempty"`
	ColSpan  int    `json:"col_span,omitempty"`
	IsHeader bool   `json:"column_header,omitempty"`
}
