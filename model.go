package wordwriter

import (
	"strings"

	"github.com/fumiama/go-docx"
)

// The helpers below are the only places the engine reads or edits go-docx
// runs, paragraphs and block containers directly.

// runText is the visible text of a run: text nodes, tabs and breaks.
func runText(r *docx.Run) string {
	var sb strings.Builder
	for _, c := range r.Children {
		switch o := c.(type) {
		case *docx.Text:
			sb.WriteString(o.Text)
		case *docx.Tab:
			sb.WriteByte('\t')
		case *docx.BarterRabbet:
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

// paragraphRuns lists the runs of p in order, including hyperlink runs.
func paragraphRuns(p *docx.Paragraph) []*docx.Run {
	runs := make([]*docx.Run, 0, len(p.Children))
	for _, c := range p.Children {
		switch o := c.(type) {
		case *docx.Run:
			runs = append(runs, o)
		case *docx.Hyperlink:
			runs = append(runs, &o.Run)
		}
	}
	return runs
}

func paragraphText(p *docx.Paragraph) string {
	var sb strings.Builder
	for _, r := range paragraphRuns(p) {
		sb.WriteString(runText(r))
	}
	return sb.String()
}

// cellText joins the paragraphs of a cell with newlines.
func cellText(c *docx.WTableCell) string {
	texts := make([]string, len(c.Paragraphs))
	for i, p := range c.Paragraphs {
		texts[i] = paragraphText(p)
	}
	return strings.Join(texts, "\n")
}

// rowText concatenates every paragraph of every cell in the row.
func rowText(row *docx.WTableRow) string {
	var sb strings.Builder
	for _, c := range row.TableCells {
		for _, p := range c.Paragraphs {
			sb.WriteString(paragraphText(p))
		}
	}
	return sb.String()
}

// textChildren builds run content for s the way go-docx AddText does:
// newlines become breaks and tabs become tab stops.
func textChildren(s string) []interface{} {
	c := make([]interface{}, 0, 4)
	for i, line := range strings.Split(s, "\n") {
		if i > 0 {
			c = append(c, &docx.BarterRabbet{})
		}
		for j, k := range strings.Split(line, "\t") {
			if j > 0 {
				c = append(c, &docx.Tab{})
			}
			if k != "" {
				t := &docx.Text{Text: k}
				if strings.TrimSpace(k) != k {
					t.XMLSpace = "preserve"
				}
				c = append(c, t)
			}
		}
	}
	return c
}

// setRunText replaces all content of r with s, keeping its properties.
func setRunText(r *docx.Run, s string) {
	r.Children = textChildren(s)
	r.InstrText = ""
}

// clearRun drops all content of r, keeping its properties.
func clearRun(r *docx.Run) {
	r.Children = nil
	r.InstrText = ""
}

// container is a parent of block items that can lose one of them or have
// one swapped for others.
type container interface {
	remove(item interface{}) bool
	replace(item interface{}, with []interface{}) bool
}

// blockItems is a body, header or footer item list.
type blockItems struct {
	items *[]interface{}
}

func (b blockItems) remove(item interface{}) bool {
	items := *b.items
	for i, it := range items {
		if it == item {
			*b.items = append(items[:i], items[i+1:]...)
			return true
		}
	}
	return false
}

func (b blockItems) replace(item interface{}, with []interface{}) bool {
	items := *b.items
	for i, it := range items {
		if it == item {
			out := make([]interface{}, 0, len(items)-1+len(with))
			out = append(out, items[:i]...)
			out = append(out, with...)
			*b.items = append(out, items[i+1:]...)
			return true
		}
	}
	return false
}

// cellItems is the paragraphs and nested tables of a table cell. A cell
// must keep one paragraph, so removing the last block leaves an empty one.
type cellItems struct {
	cell *docx.WTableCell
}

func (c cellItems) remove(item interface{}) bool {
	removed := false
	switch o := item.(type) {
	case *docx.Paragraph:
		for i, p := range c.cell.Paragraphs {
			if p == o {
				c.cell.Paragraphs = append(c.cell.Paragraphs[:i], c.cell.Paragraphs[i+1:]...)
				removed = true
				break
			}
		}
	case *docx.Table:
		for i, t := range c.cell.Tables {
			if t == o {
				c.cell.Tables = append(c.cell.Tables[:i], c.cell.Tables[i+1:]...)
				removed = true
				break
			}
		}
	}
	if removed && len(c.cell.Paragraphs) == 0 {
		c.cell.Paragraphs = []*docx.Paragraph{{}}
	}
	return removed
}

// replace swaps a paragraph for the paragraphs in with. Other block kinds
// are dropped since a cell keeps tables in a separate list.
func (c cellItems) replace(item interface{}, with []interface{}) bool {
	o, ok := item.(*docx.Paragraph)
	if !ok {
		return false
	}
	for i, p := range c.cell.Paragraphs {
		if p != o {
			continue
		}
		out := make([]*docx.Paragraph, 0, len(c.cell.Paragraphs)+len(with))
		out = append(out, c.cell.Paragraphs[:i]...)
		for _, w := range with {
			if np, ok := w.(*docx.Paragraph); ok {
				out = append(out, np)
			}
		}
		out = append(out, c.cell.Paragraphs[i+1:]...)
		if len(out) == 0 {
			out = []*docx.Paragraph{{}}
		}
		c.cell.Paragraphs = out
		return true
	}
	return false
}

// cloneParagraphProperties copies the paragraph level formatting only.
func cloneParagraphProperties(p *docx.ParagraphProperties) *docx.ParagraphProperties {
	if p == nil {
		return nil
	}
	np := *p
	if p.Spacing != nil {
		s := *p.Spacing
		np.Spacing = &s
	}
	if p.Justification != nil {
		j := *p.Justification
		np.Justification = &j
	}
	if p.Style != nil {
		s := *p.Style
		np.Style = &s
	}
	np.RunProperties = cloneRunProperties(p.RunProperties)
	return &np
}

func cloneRunProperties(r *docx.RunProperties) *docx.RunProperties {
	if r == nil {
		return nil
	}
	nr := *r
	if r.Fonts != nil {
		f := *r.Fonts
		nr.Fonts = &f
	}
	if r.Color != nil {
		c := *r.Color
		nr.Color = &c
	}
	if r.Size != nil {
		s := *r.Size
		nr.Size = &s
	}
	if r.Highlight != nil {
		h := *r.Highlight
		nr.Highlight = &h
	}
	if r.Underline != nil {
		u := *r.Underline
		nr.Underline = &u
	}
	return &nr
}

// cloneRow copies the shape of row: same cells, widths, spans and cell
// properties, each cell holding one empty paragraph with the formatting
// of the source cell's first paragraph.
func cloneRow(row *docx.WTableRow) *docx.WTableRow {
	nr := &docx.WTableRow{
		TableCells: make([]*docx.WTableCell, len(row.TableCells)),
	}
	if row.TableRowProperties != nil {
		rp := *row.TableRowProperties
		nr.TableRowProperties = &rp
	}
	for i, c := range row.TableCells {
		nc := &docx.WTableCell{}
		if c.TableCellProperties != nil {
			cp := *c.TableCellProperties
			cp.VMerge = nil
			if c.TableCellProperties.TableBorders != nil {
				b := cloneBorders(c.TableCellProperties.TableBorders)
				cp.TableBorders = b
			}
			nc.TableCellProperties = &cp
		}
		p := &docx.Paragraph{}
		if len(c.Paragraphs) > 0 {
			p.Properties = cloneParagraphProperties(c.Paragraphs[0].Properties)
		}
		nc.Paragraphs = []*docx.Paragraph{p}
		nr.TableCells[i] = nc
	}
	return nr
}

func cloneBorders(b *docx.WTableBorders) *docx.WTableBorders {
	nb := &docx.WTableBorders{}
	for _, pair := range []struct{ dst, src **docx.WTableBorder }{
		{&nb.Top, &b.Top}, {&nb.Left, &b.Left}, {&nb.Bottom, &b.Bottom},
		{&nb.Right, &b.Right}, {&nb.InsideH, &b.InsideH}, {&nb.InsideV, &b.InsideV},
	} {
		if *pair.src != nil {
			v := **pair.src
			*pair.dst = &v
		}
	}
	return nb
}
