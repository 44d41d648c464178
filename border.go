package wordwriter

import "github.com/fumiama/go-docx"

// Border is a bottom border as read from or written to a cell or table.
type Border struct {
	Val   string
	Size  int
	Space int
	Color string
}

// DefaultBorder is used wherever no bottom border is recorded.
var DefaultBorder = Border{Val: "single", Size: 0, Space: 0, Color: "auto"}

// unset reports whether b carries no visible choice of its own: a zero
// size with automatic color.
func (b Border) unset() bool {
	return b.Size == 0 && b.Color == "auto"
}

func borderFrom(wb *docx.WTableBorder) Border {
	if wb == nil {
		return DefaultBorder
	}
	b := Border{Val: wb.Val, Size: wb.Size, Space: wb.Space, Color: wb.Color}
	if b.Val == "" {
		b.Val = DefaultBorder.Val
	}
	if b.Color == "" {
		b.Color = DefaultBorder.Color
	}
	return b
}

func (b Border) wordBorder() *docx.WTableBorder {
	return &docx.WTableBorder{Val: b.Val, Size: b.Size, Space: b.Space, Color: b.Color}
}

// cellBottom reads the bottom border of a cell.
func cellBottom(c *docx.WTableCell) Border {
	if c.TableCellProperties == nil || c.TableCellProperties.TableBorders == nil {
		return DefaultBorder
	}
	return borderFrom(c.TableCellProperties.TableBorders.Bottom)
}

// setCellBottom writes the bottom border of a cell, creating the cell
// properties when missing.
func setCellBottom(c *docx.WTableCell, b Border) {
	if c.TableCellProperties == nil {
		c.TableCellProperties = &docx.WTableCellProperties{}
	}
	if c.TableCellProperties.TableBorders == nil {
		c.TableCellProperties.TableBorders = &docx.WTableBorders{}
	}
	c.TableCellProperties.TableBorders.Bottom = b.wordBorder()
}

// rowBottoms reads the bottom borders of row's cells from col on.
func rowBottoms(row *docx.WTableRow, col int) []Border {
	if col >= len(row.TableCells) {
		return nil
	}
	out := make([]Border, 0, len(row.TableCells)-col)
	for _, c := range row.TableCells[col:] {
		out = append(out, cellBottom(c))
	}
	return out
}

// setRowBottoms writes borders onto row's cells from col on. When the
// counts differ the first border is applied to every cell.
func setRowBottoms(row *docx.WTableRow, col int, borders []Border) {
	if len(borders) == 0 || col >= len(row.TableCells) {
		return
	}
	cells := row.TableCells[col:]
	for i, c := range cells {
		if len(borders) == len(cells) {
			setCellBottom(c, borders[i])
		} else {
			setCellBottom(c, borders[0])
		}
	}
}

// tableBottom reads the table-level bottom border.
func tableBottom(t *docx.Table) Border {
	if t.TableProperties == nil || t.TableProperties.TableBorders == nil {
		return DefaultBorder
	}
	return borderFrom(t.TableProperties.TableBorders.Bottom)
}

func setTableBottom(t *docx.Table, b Border) {
	if t.TableProperties == nil {
		t.TableProperties = &docx.WTableProperties{}
	}
	if t.TableProperties.TableBorders == nil {
		t.TableProperties.TableBorders = &docx.WTableBorders{}
	}
	t.TableProperties.TableBorders.Bottom = b.wordBorder()
}

// restoreLastRow gives the final row of a filled table the bottom border
// the table ended with before filling. The decision follows the first
// recorded cell: when it was unset the table border is used for all
// cells.
func restoreLastRow(row *docx.WTableRow, col int, trailing []Border, table Border) {
	if len(trailing) == 0 || col >= len(row.TableCells) {
		return
	}
	if trailing[0].unset() {
		for _, c := range row.TableCells[col:] {
			setCellBottom(c, table)
		}
		return
	}
	setRowBottoms(row, col, trailing)
}
