package wordwriter

import "github.com/fumiama/go-docx"

// CellFormat is the formatting of a table cell that survives a fill:
// cell alignment, the first paragraph's style, alignment and spacing, and
// the character formatting of its first run.
//
// Spacing carries line spacing and space before only. go-docx does not
// model w:spacing/@w:after, so space after a paragraph is neither
// captured nor restored.
type CellFormat struct {
	VerticalAlign  string
	ParagraphStyle string
	Justification  string
	Spacing        *docx.Spacing

	Bold      bool
	Italic    bool
	Underline string
	Fonts     *docx.RunFonts
	Size      string
	Color     string
	Highlight string
}

// captureFormat snapshots the formatting of c.
func captureFormat(c *docx.WTableCell) CellFormat {
	var f CellFormat
	if c.TableCellProperties != nil && c.TableCellProperties.VAlign != nil {
		f.VerticalAlign = c.TableCellProperties.VAlign.Val
	}
	if len(c.Paragraphs) == 0 {
		return f
	}
	p := c.Paragraphs[0]
	if pp := p.Properties; pp != nil {
		if pp.Style != nil {
			f.ParagraphStyle = pp.Style.Val
		}
		if pp.Justification != nil {
			f.Justification = pp.Justification.Val
		}
		if pp.Spacing != nil {
			s := *pp.Spacing
			f.Spacing = &s
		}
	}
	runs := paragraphRuns(p)
	if len(runs) == 0 || runs[0].RunProperties == nil {
		return f
	}
	rp := runs[0].RunProperties
	f.Bold = rp.Bold != nil
	f.Italic = rp.Italic != nil
	if rp.Underline != nil && rp.Underline.Val != "none" {
		f.Underline = rp.Underline.Val
		if f.Underline == "" {
			f.Underline = "single"
		}
	}
	if rp.Fonts != nil {
		fonts := *rp.Fonts
		f.Fonts = &fonts
	}
	if rp.Size != nil {
		f.Size = rp.Size.Val
	}
	if rp.Color != nil {
		f.Color = rp.Color.Val
	}
	if rp.Highlight != nil {
		f.Highlight = rp.Highlight.Val
	}
	return f
}

// captureFormats snapshots row's cells from col on.
func captureFormats(row *docx.WTableRow, col int) []CellFormat {
	if col >= len(row.TableCells) {
		return nil
	}
	out := make([]CellFormat, 0, len(row.TableCells)-col)
	for _, c := range row.TableCells[col:] {
		out = append(out, captureFormat(c))
	}
	return out
}

// apply writes the snapshot onto c. Every captured field is set or
// cleared so the cell ends up exactly as formatted as the source.
func (f CellFormat) apply(c *docx.WTableCell) {
	if f.VerticalAlign != "" {
		if c.TableCellProperties == nil {
			c.TableCellProperties = &docx.WTableCellProperties{}
		}
		c.TableCellProperties.VAlign = &docx.WVerticalAlignment{Val: f.VerticalAlign}
	} else if c.TableCellProperties != nil {
		c.TableCellProperties.VAlign = nil
	}

	if len(c.Paragraphs) == 0 {
		c.Paragraphs = []*docx.Paragraph{{}}
	}
	p := c.Paragraphs[0]
	if p.Properties == nil {
		p.Properties = &docx.ParagraphProperties{}
	}
	pp := p.Properties
	pp.Style = nil
	if f.ParagraphStyle != "" {
		pp.Style = &docx.Style{Val: f.ParagraphStyle}
	}
	pp.Justification = nil
	if f.Justification != "" {
		pp.Justification = &docx.Justification{Val: f.Justification}
	}
	pp.Spacing = nil
	if f.Spacing != nil {
		s := *f.Spacing
		pp.Spacing = &s
	}

	r := firstRun(p)
	if r.RunProperties == nil {
		r.RunProperties = &docx.RunProperties{}
	}
	rp := r.RunProperties
	rp.Bold = nil
	if f.Bold {
		rp.Bold = &docx.Bold{}
	}
	rp.Italic = nil
	if f.Italic {
		rp.Italic = &docx.Italic{}
	}
	rp.Underline = nil
	if f.Underline != "" {
		rp.Underline = &docx.Underline{Val: f.Underline}
	}
	rp.Fonts = nil
	if f.Fonts != nil {
		fonts := *f.Fonts
		if fonts.EastAsia == "" {
			fonts.EastAsia = fonts.ASCII
		}
		rp.Fonts = &fonts
	}
	rp.Size = nil
	if f.Size != "" {
		rp.Size = &docx.Size{Val: f.Size}
	}
	rp.Color = nil
	if f.Color != "" {
		rp.Color = &docx.Color{Val: f.Color}
	}
	rp.Highlight = nil
	if f.Highlight != "" {
		rp.Highlight = &docx.Highlight{Val: f.Highlight}
	}
}
