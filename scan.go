package wordwriter

import (
	"strings"

	"github.com/fumiama/go-docx"
	"golang.org/x/text/unicode/norm"

	"github.com/little-yangyang/wordwriter/internal/ooxml"
)

// LocationKind tells which fields of a Location are set.
type LocationKind int

const (
	// InlineLocation is a run span inside a paragraph.
	InlineLocation LocationKind = iota
	// TableLocation is the anchor cell of a table tag.
	TableLocation
	// TextboxLocation is a single text node inside a textbox.
	TextboxLocation
)

// Location is one place a tag occurs.
type Location struct {
	Kind LocationKind

	// Token is the tag text as found in the document.
	Token string

	// Inline: the paragraph and the runs that spell the token, in order.
	Paragraph *docx.Paragraph
	Runs      []*docx.Run

	// Table: the anchor cell.
	Table    *docx.Table
	Row, Col int

	// Textbox: the text node holding the token.
	Text *docx.Text

	anchor *docx.WTableRow
	parent container
	part   *ooxml.Part
}

// TagMap maps tokens to every location they occur at, in document order.
type TagMap struct {
	locs  map[string][]Location
	order []string
}

func newTagMap() *TagMap {
	return &TagMap{locs: make(map[string][]Location)}
}

func normalizeKey(s string) string {
	return norm.NFC.String(s)
}

func (m *TagMap) add(key string, loc Location) {
	key = normalizeKey(key)
	if _, ok := m.locs[key]; !ok {
		m.order = append(m.order, key)
	}
	m.locs[key] = append(m.locs[key], loc)
}

// Get returns the locations of a token.
func (m *TagMap) Get(key string) ([]Location, bool) {
	locs, ok := m.locs[normalizeKey(key)]
	return locs, ok
}

// Keys lists the tokens in the order they were first found.
func (m *TagMap) Keys() []string {
	return append([]string(nil), m.order...)
}

// Len is the number of distinct tokens.
func (m *TagMap) Len() int { return len(m.order) }

type scanState int

const (
	stateIdle scanState = iota
	stateAccumulating
)

// scanner builds a TagMap. The part field is set while a header or footer
// is walked so its locations know where they live.
type scanner struct {
	tags *TagMap
	part *ooxml.Part
}

// scanDocument walks headers and footers, body paragraphs, body tables
// and finally textboxes.
func scanDocument(body *[]interface{}, parts []*ooxml.Part) *TagMap {
	s := &scanner{tags: newTagMap()}

	for _, part := range parts {
		s.part = part
		s.scanItems(&part.Items)
	}
	s.part = nil

	parent := blockItems{items: body}
	for _, it := range *body {
		if p, ok := it.(*docx.Paragraph); ok {
			s.scanParagraph(p, parent)
		}
	}
	for _, it := range *body {
		if t, ok := it.(*docx.Table); ok {
			s.scanTable(t, parent)
		}
	}
	for _, it := range *body {
		s.scanTextboxes(it)
	}
	return s.tags
}

// scanItems walks a header or footer, paragraphs before tables.
func (s *scanner) scanItems(items *[]interface{}) {
	parent := blockItems{items: items}
	for _, it := range *items {
		if p, ok := it.(*docx.Paragraph); ok {
			s.scanParagraph(p, parent)
		}
	}
	for _, it := range *items {
		if t, ok := it.(*docx.Table); ok {
			s.scanTable(t, parent)
		}
	}
}

func (s *scanner) inline(p *docx.Paragraph, token string, runs []*docx.Run, parent container) Location {
	return Location{
		Kind:      InlineLocation,
		Token:     token,
		Paragraph: p,
		Runs:      runs,
		parent:    parent,
		part:      s.part,
	}
}

// scanParagraph records the tags of one paragraph. A paragraph holding a
// single tag resolves to all of its runs; otherwise runs are assembled by
// the marker state machine, so a token split over formatting runs keeps
// every run that carries a piece of it.
func (s *scanner) scanParagraph(p *docx.Paragraph, parent container) {
	text := paragraphText(p)
	if !strings.Contains(text, TagStart) || !strings.Contains(text, TagEnd) {
		return
	}
	runs := paragraphRuns(p)

	if strings.Count(text, TagStart) == 1 && strings.Count(text, TagEnd) == 1 {
		start := strings.Index(text, TagStart)
		end := strings.Index(text, TagEnd)
		if start < end {
			s.tags.add(text[start:end+len(TagEnd)], s.inline(p, text[start:end+len(TagEnd)], runs, parent))
		}
		return
	}

	var (
		state   = stateIdle
		pending strings.Builder
		span    []*docx.Run
	)
	for _, r := range runs {
		rest := strings.TrimSpace(runText(r))
		for rest != "" {
			if state == stateIdle {
				i := strings.Index(rest, TagStart)
				if i < 0 {
					break
				}
				state = stateAccumulating
				pending.Reset()
				pending.WriteString(TagStart)
				span = []*docx.Run{r}
				rest = rest[i+len(TagStart):]
				continue
			}

			if span[len(span)-1] != r {
				span = append(span, r)
			}
			end := strings.Index(rest, TagEnd)
			if restart := strings.Index(rest, TagStart); restart >= 0 && (end < 0 || restart < end) {
				// an unterminated token is dropped when a new one opens
				state = stateIdle
				rest = rest[restart:]
				continue
			}
			if end < 0 {
				pending.WriteString(rest)
				break
			}
			pending.WriteString(rest[:end+len(TagEnd)])
			token := pending.String()
			s.tags.add(token, s.inline(p, token, span, parent))
			state = stateIdle
			rest = rest[end+len(TagEnd):]
		}
	}
}

// scanTable records table anchors once per cell and scans every other
// cell's paragraphs and nested tables.
func (s *scanner) scanTable(t *docx.Table, parent container) {
	for ri, row := range t.TableRows {
		for ci, cell := range row.TableCells {
			text := cellText(cell)
			if strings.Contains(text, TagStart) && strings.Contains(text, TagEnd) {
				if strings.Contains(text, prefixTable) {
					if key, ok := tableKey(text); ok {
						s.tags.add(key, Location{
							Kind:   TableLocation,
							Token:  key,
							Table:  t,
							Row:    ri,
							Col:    ci,
							anchor: row,
							parent: parent,
							part:   s.part,
						})
					}
					continue
				}
				cp := cellItems{cell: cell}
				for _, p := range cell.Paragraphs {
					s.scanParagraph(p, cp)
				}
			}
			for _, nested := range cell.Tables {
				s.scanTable(nested, cellItems{cell: cell})
			}
		}
	}
}

// scanTextboxes finds textbox text nodes under a body item. Only whole
// text nodes are matched; a textbox tag split over runs is not found.
func (s *scanner) scanTextboxes(item interface{}) {
	switch o := item.(type) {
	case *docx.Paragraph:
		for _, r := range paragraphRuns(o) {
			for _, c := range r.Children {
				if d, ok := c.(*docx.Drawing); ok {
					s.scanDrawing(d)
				}
			}
		}
	case *docx.Table:
		for _, row := range o.TableRows {
			for _, cell := range row.TableCells {
				for _, p := range cell.Paragraphs {
					s.scanTextboxes(p)
				}
				for _, nested := range cell.Tables {
					s.scanTextboxes(nested)
				}
			}
		}
	}
}

func (s *scanner) scanDrawing(d *docx.Drawing) {
	var g *docx.AGraphic
	switch {
	case d.Inline != nil:
		g = d.Inline.Graphic
	case d.Anchor != nil:
		g = d.Anchor.Graphic
	}
	if g == nil || g.GraphicData == nil {
		return
	}
	if g.GraphicData.Shape != nil {
		s.scanShape(g.GraphicData.Shape)
	}
	if g.GraphicData.Group != nil {
		s.scanShapes(g.GraphicData.Group.Elems)
	}
	if g.GraphicData.Canvas != nil {
		s.scanShapes(g.GraphicData.Canvas.Items)
	}
}

func (s *scanner) scanShapes(elems []interface{}) {
	for _, e := range elems {
		switch o := e.(type) {
		case *docx.WordprocessingShape:
			s.scanShape(o)
		case *docx.WordprocessingGroup:
			s.scanShapes(o.Elems)
		case *docx.WordprocessingCanvas:
			s.scanShapes(o.Items)
		}
	}
}

func (s *scanner) scanShape(shape *docx.WordprocessingShape) {
	if shape.TextBox == nil || shape.TextBox.Content == nil {
		return
	}
	paras := shape.TextBox.Content.Paragraphs
	for i := range paras {
		for _, r := range paragraphRuns(&paras[i]) {
			for _, c := range r.Children {
				t, ok := c.(*docx.Text)
				if !ok {
					continue
				}
				if strings.Contains(t.Text, prefixTextbox) && strings.Contains(t.Text, TagEnd) {
					key := strings.TrimSpace(t.Text)
					s.tags.add(key, Location{Kind: TextboxLocation, Token: key, Text: t})
				}
			}
		}
	}
}
