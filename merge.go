package wordwriter

import (
	"github.com/fumiama/go-docx"
)

// MergeTableRow merges runs of vertically adjacent cells in column col
// whose text is equal. With clearOthers the merged-away cells are emptied;
// otherwise their paragraphs move into the top cell of the run.
func MergeTableRow(t *docx.Table, col int, clearOthers bool) {
	for _, span := range equalRuns(t, col) {
		top := t.TableRows[span[0]].TableCells[col]
		for i := span[0] + 1; i <= span[1]; i++ {
			cell := t.TableRows[i].TableCells[col]
			if !clearOthers && cellText(cell) != "" {
				top.Paragraphs = append(top.Paragraphs, cell.Paragraphs...)
			}
			setCellText(cell, "")
			setMerge(cell, "")
		}
		setMerge(top, "restart")
	}
}

// equalRuns returns [first,last] row pairs of consecutive equal cells in
// col, skipping rows too short to have the column.
func equalRuns(t *docx.Table, col int) [][2]int {
	var (
		spans [][2]int
		start = -1
		text  string
	)
	flush := func(end int) {
		if start >= 0 && end > start {
			spans = append(spans, [2]int{start, end})
		}
	}
	for i, row := range t.TableRows {
		if col >= len(row.TableCells) {
			flush(i - 1)
			start = -1
			continue
		}
		cur := cellText(row.TableCells[col])
		if start >= 0 && cur == text {
			continue
		}
		flush(i - 1)
		start, text = i, cur
	}
	flush(len(t.TableRows) - 1)
	return spans
}

func setMerge(c *docx.WTableCell, val string) {
	if c.TableCellProperties == nil {
		c.TableCellProperties = &docx.WTableCellProperties{}
	}
	c.TableCellProperties.VMerge = &docx.WvMerge{Val: val}
}

// MergeRows merges equal cells of column col in every table anchored by
// the given table tag, including tables already filled by Replace.
func (w *Writer) MergeRows(tag string, col int, clearOthers bool) error {
	if w == nil || w.doc == nil {
		return ErrNotLoaded
	}
	seen := make(map[*docx.Table]bool)
	merge := func(t *docx.Table) {
		if t == nil || seen[t] {
			return
		}
		seen[t] = true
		MergeTableRow(t, col, clearOthers)
	}

	for _, t := range w.filled[normalizeKey(tag)] {
		merge(t)
	}
	locs, _ := w.tags.Get(tag)
	for _, loc := range locs {
		if loc.Kind != TableLocation {
			continue
		}
		merge(loc.Table)
		w.touch(loc)
	}
	return nil
}
