package ooxml

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
)

// Header and footer reference types, in the order a section is scanned.
const (
	RefDefault = "default"
	RefFirst   = "first"
	RefEven    = "even"
)

// Ref points a section at one of its header or footer parts.
type Ref struct {
	Type string `xml:"type,attr"`
	ID   string `xml:"id,attr"`
}

// Section lists the header and footer references of one w:sectPr.
type Section struct {
	Headers []Ref `xml:"headerReference"`
	Footers []Ref `xml:"footerReference"`

	// Paragraph is the index among body paragraphs of the paragraph whose
	// properties carry this section break, or -1 when the w:sectPr is not
	// a paragraph level one.
	Paragraph int `xml:"-"`
	// Props is the raw w:sectPr.
	Props *SectionProperties `xml:"-"`
}

// SectionProperties is a w:sectPr kept as raw XML. go-docx only models
// the page size, margins, columns and grid of the body level one and
// drops those inside paragraph properties, so header and footer
// references would otherwise be lost on save.
type SectionProperties struct {
	XMLName xml.Name `xml:"w:sectPr"`
	Inner   string   `xml:",innerxml"`
}

// ErrSelfClosing is returned when a paragraph that needs a section break
// has a self-closing w:pPr.
var ErrSelfClosing = errors.New("self-closing paragraph properties")

type rawSection struct {
	Section
	Inner string `xml:",innerxml"`
}

// ReadSections walks document.xml and returns every section in document
// order, plus the raw body level section properties (nil if absent).
func ReadSections(document []byte) ([]Section, *SectionProperties, error) {
	var (
		sections []Section
		body     *SectionProperties
		stack    []string
		paras    int
	)

	d := xml.NewDecoder(bytes.NewReader(document))
	for {
		tok, err := d.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local != "sectPr" {
				if t.Name.Local == "p" && top(stack, 0) == "body" {
					paras++
				}
				stack = append(stack, t.Name.Local)
				continue
			}
			var s rawSection
			if err := d.DecodeElement(&s, &t); err != nil {
				return nil, nil, err
			}
			for _, refs := range [][]Ref{s.Headers, s.Footers} {
				for i := range refs {
					if refs[i].Type == "" {
						refs[i].Type = RefDefault
					}
				}
			}
			sec := s.Section
			sec.Paragraph = -1
			sec.Props = &SectionProperties{Inner: s.Inner}
			switch {
			case top(stack, 0) == "body":
				body = sec.Props
			case top(stack, 0) == "pPr" && top(stack, 1) == "p" && top(stack, 2) == "body":
				sec.Paragraph = paras - 1
			}
			sections = append(sections, sec)
		case xml.EndElement:
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
		}
	}
	return sections, body, nil
}

// Ordered returns the references of the section in scan order: default
// header, first page header, even header, then the footers likewise.
func (s Section) Ordered() []Ref {
	refs := make([]Ref, 0, len(s.Headers)+len(s.Footers))
	for _, group := range [][]Ref{s.Headers, s.Footers} {
		for _, typ := range []string{RefDefault, RefFirst, RefEven} {
			for _, r := range group {
				if r.Type == typ {
					refs = append(refs, r)
				}
			}
		}
	}
	return refs
}

// top returns the element name n levels below the top of stack.
func top(stack []string, n int) string {
	if len(stack) <= n {
		return ""
	}
	return stack[len(stack)-1-n]
}

// InsertSectionBreaks writes each raw w:sectPr of breaks at the end of the
// properties of the body paragraph with that index. Every paragraph named
// in breaks must already have a w:pPr element.
func InsertSectionBreaks(document []byte, breaks map[int]*SectionProperties) ([]byte, error) {
	if len(breaks) == 0 {
		return document, nil
	}
	type cut struct {
		at    int64
		props *SectionProperties
	}
	var (
		cuts  []cut
		stack []string
		paras = -1
	)

	d := xml.NewDecoder(bytes.NewReader(document))
	for {
		at := d.InputOffset()
		tok, err := d.RawToken()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local == "p" && top(stack, 0) == "body" {
				paras++
			}
			stack = append(stack, t.Name.Local)
		case xml.EndElement:
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
			if t.Name.Local != "pPr" || top(stack, 0) != "p" || top(stack, 1) != "body" {
				continue
			}
			sp, ok := breaks[paras]
			if !ok {
				continue
			}
			end := "</" + t.Name.Local
			if t.Name.Space != "" {
				end = "</" + t.Name.Space + ":" + t.Name.Local
			}
			if !bytes.HasPrefix(document[at:], []byte(end)) {
				return nil, fmt.Errorf("paragraph %d: %w", paras, ErrSelfClosing)
			}
			cuts = append(cuts, cut{at: at, props: sp})
		}
	}

	var buf bytes.Buffer
	buf.Grow(len(document))
	last := int64(0)
	for _, c := range cuts {
		buf.Write(document[last:c.at])
		buf.WriteString("<w:sectPr>")
		buf.WriteString(c.props.Inner)
		buf.WriteString("</w:sectPr>")
		last = c.at
	}
	buf.Write(document[last:])
	return buf.Bytes(), nil
}
