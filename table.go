package wordwriter

import (
	"fmt"
	"strings"

	"github.com/fumiama/go-docx"

	"github.com/little-yangyang/wordwriter/internal/tabular"
)

// escapedNewline is how tab separated sources spell a line break inside a
// cell.
const escapedNewline = `\x0a`

// replaceTable resolves a table tag: either the table is removed, or the
// data file at path is poured into it.
func (w *Writer) replaceTable(loc Location, path string) error {
	if path == DeleteTable {
		if loc.parent != nil && loc.parent.remove(loc.Table) {
			w.touch(loc)
		}
		return nil
	}
	grid, err := tabular.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read table data %s: %w", path, err)
	}
	before := len(loc.Table.TableRows)
	if err := fillTable(loc, grid); err != nil {
		return err
	}
	w.log.Debug("table filled", "tag", loc.Token, "data_rows", grid.Len(),
		"rows_before", before, "rows_after", len(loc.Table.TableRows))
	w.touch(loc)
	return nil
}

// anchorIndex finds the anchor row's current position. Rows may have
// moved since the scan when another fill touched the same table.
func anchorIndex(loc Location) int {
	if loc.anchor == nil {
		if loc.Row < len(loc.Table.TableRows) {
			return loc.Row
		}
		return -1
	}
	for i, row := range loc.Table.TableRows {
		if row == loc.anchor {
			return i
		}
	}
	return -1
}

// fillTable writes grid into the table at loc, top-left at the anchor
// cell, adding rows as needed. The anchor row's formatting is carried to
// every filled cell, rows left empty are dropped and the last row gets
// the bottom border the table had before.
func fillTable(loc Location, grid *tabular.Grid) error {
	t := loc.Table
	if t == nil || len(t.TableRows) == 0 {
		return fmt.Errorf("%w: %s has no table", ErrBadCell, loc.Token)
	}
	rowIdx := anchorIndex(loc)
	if rowIdx < 0 {
		return fmt.Errorf("%w: anchor row of %s is gone", ErrBadCell, loc.Token)
	}
	col := loc.Col
	anchor := t.TableRows[rowIdx]
	if col >= len(anchor.TableCells) {
		return fmt.Errorf("%w: %s column %d out of range", ErrBadCell, loc.Token, col)
	}

	formats := captureFormats(anchor, col)
	tagBorders := rowBottoms(anchor, col)
	last := t.TableRows[len(t.TableRows)-1]
	trailing := rowBottoms(last, col)
	tableBorder := tableBottom(t)

	// the old last row becomes an interior row
	setRowBottoms(last, col, tagBorders)

	for len(t.TableRows)-rowIdx < grid.Len() {
		t.TableRows = append(t.TableRows, cloneRow(t.TableRows[len(t.TableRows)-1]))
	}

	for i := 0; i < grid.Len(); i++ {
		row := t.TableRows[rowIdx+i]
		for c := 0; c < grid.Cols; c++ {
			ci := col + c
			if ci >= len(row.TableCells) {
				break
			}
			cell := row.TableCells[ci]
			setCellText(cell, strings.ReplaceAll(grid.Cell(i, c), escapedNewline, "\n"))
			if c < len(formats) {
				formats[c].apply(cell)
			}
		}
	}

	pruneEmptyRows(t)
	if len(t.TableRows) == 0 {
		return nil
	}

	setTableBottom(t, tableBorder)
	restoreLastRow(t.TableRows[len(t.TableRows)-1], col, trailing, tableBorder)
	return nil
}

// setCellText empties c and writes s as its only paragraph, keeping the
// paragraph and run properties the cell started with.
func setCellText(c *docx.WTableCell, s string) {
	p := &docx.Paragraph{}
	r := &docx.Run{RunProperties: &docx.RunProperties{}}
	if len(c.Paragraphs) > 0 {
		old := c.Paragraphs[0]
		p.Properties = cloneParagraphProperties(old.Properties)
		if runs := paragraphRuns(old); len(runs) > 0 && runs[0].RunProperties != nil {
			r.RunProperties = cloneRunProperties(runs[0].RunProperties)
		}
	}
	setRunText(r, s)
	p.Children = []interface{}{r}
	c.Paragraphs = []*docx.Paragraph{p}
	c.Tables = nil
}

// pruneEmptyRows drops every row whose cells hold no text.
func pruneEmptyRows(t *docx.Table) {
	rows := t.TableRows[:0]
	for _, row := range t.TableRows {
		if rowText(row) != "" {
			rows = append(rows, row)
		}
	}
	t.TableRows = rows
}
