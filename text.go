package wordwriter

import (
	"strings"

	"github.com/fumiama/go-docx"
)

// replaceText writes value over the runs of an inline location. The first
// run keeps its formatting and receives the text; the other runs that
// carried pieces of the token are emptied. Text around the token inside
// those runs is kept.
func (w *Writer) replaceText(loc Location, value string) {
	if value == DeleteParagraph {
		w.removeParagraph(loc)
		return
	}
	runs, before, after := locate(loc)
	if len(runs) == 0 {
		return
	}
	setRunText(runs[0], before+value+after)
	for _, r := range runs[1:] {
		clearRun(r)
	}
	w.touch(loc)
}

// replaceTextbox swaps the whole text of every recorded textbox node.
func (w *Writer) replaceTextbox(loc Location, value string) {
	if loc.Text == nil {
		return
	}
	loc.Text.Text = value
	loc.Text.XMLSpace = ""
	if strings.TrimSpace(value) != value {
		loc.Text.XMLSpace = "preserve"
	}
}

// removeParagraph drops the paragraph at loc. A paragraph ending a
// section is emptied instead, so the section keeps its break.
func (w *Writer) removeParagraph(loc Location) {
	if loc.parent == nil || loc.Paragraph == nil {
		return
	}
	if _, ok := w.breaks[loc.Paragraph]; ok {
		loc.Paragraph.Children = nil
		w.touch(loc)
		return
	}
	if loc.parent.remove(loc.Paragraph) {
		w.touch(loc)
	}
}

// touch marks the header or footer holding loc for re-encoding.
func (w *Writer) touch(loc Location) {
	if loc.part != nil {
		loc.part.Dirty = true
	}
}

// locate finds the runs that currently spell the token of loc, with the
// text of the first run before it and of the last run after it. Earlier
// replacements in the same paragraph may have moved the token, so the
// paragraph is searched afresh. When the token no longer reads verbatim,
// for example because whitespace trimming joined it across runs, the
// recorded runs are returned with no surrounding text.
func locate(loc Location) ([]*docx.Run, string, string) {
	if loc.Paragraph == nil || loc.Token == "" {
		return loc.Runs, "", ""
	}
	runs := paragraphRuns(loc.Paragraph)
	texts := make([]string, len(runs))
	var sb strings.Builder
	for i, r := range runs {
		texts[i] = runText(r)
		sb.WriteString(texts[i])
	}
	at := strings.Index(sb.String(), loc.Token)
	if at < 0 {
		return loc.Runs, "", ""
	}
	end := at + len(loc.Token)

	first, last := -1, -1
	var before, after string
	offset := 0
	for i, text := range texts {
		next := offset + len(text)
		if first < 0 && at < next {
			first = i
			before = text[:at-offset]
		}
		if first >= 0 && end <= next {
			last = i
			after = text[end-offset:]
			break
		}
		offset = next
	}
	if first < 0 || last < 0 {
		return loc.Runs, "", ""
	}
	return runs[first : last+1], before, after
}

// firstRun returns the first run of p, adding one when p has none.
func firstRun(p *docx.Paragraph) *docx.Run {
	if runs := paragraphRuns(p); len(runs) > 0 {
		return runs[0]
	}
	r := &docx.Run{RunProperties: &docx.RunProperties{}}
	p.Children = append(p.Children, r)
	return r
}
