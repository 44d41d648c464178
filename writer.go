package wordwriter

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/fumiama/go-docx"

	"github.com/little-yangyang/wordwriter/internal/ooxml"
	"github.com/little-yangyang/wordwriter/internal/tabular"
)

const documentPart = "word/document.xml"

var (
	// ErrNotLoaded is returned by methods of a Writer with no document.
	ErrNotLoaded = errors.New("wordwriter: no document loaded")
	// ErrBadCell is returned when a table anchor no longer points at a
	// cell of its table.
	ErrBadCell = errors.New("wordwriter: table anchor out of range")
	// ErrEmptyTable is returned for a table data file with no rows.
	ErrEmptyTable = tabular.ErrEmpty
	// ErrNoContentTypes is returned for a package without a content type
	// manifest.
	ErrNoContentTypes = ooxml.ErrNoContentTypes
)

// Writer fills the tags of one Word document.
type Writer struct {
	doc *docx.Docx
	cfg *Config
	log *slog.Logger

	// headers and footers, in section order
	parts []*ooxml.Part
	// part order of the template package
	order []string

	// section breaks carried by body paragraphs
	breaks map[*docx.Paragraph]*ooxml.SectionProperties

	tags   *TagMap
	filled map[string][]*docx.Table
	stale  bool
}

// Open reads the document at path.
func Open(path string, opts ...Option) (*Writer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return nil, err
	}
	w, err := New(f, fi.Size(), opts...)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	return w, nil
}

// New reads a document from r and scans it for tags.
func New(r io.ReaderAt, size int64, opts ...Option) (*Writer, error) {
	cfg, err := newConfig(opts)
	if err != nil {
		return nil, err
	}

	pkg, err := ooxml.ReadPackage(r, size)
	if err != nil {
		return nil, err
	}
	// pictures need their content types declared before go-docx sees the
	// package
	if _, err := ooxml.EnsureImageTypes(pkg); err != nil {
		return nil, err
	}
	data, err := pkg.Bytes()
	if err != nil {
		return nil, err
	}

	doc, err := docx.Parse(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, err
	}

	w := &Writer{
		doc:    doc,
		cfg:    cfg,
		log:    cfg.Logger,
		order:  pkg.Names(),
		breaks: make(map[*docx.Paragraph]*ooxml.SectionProperties),
		filled: make(map[string][]*docx.Table),
	}
	if err := w.loadSections(pkg); err != nil {
		return nil, err
	}
	w.scan()
	return w, nil
}

// loadSections decodes the header and footer parts every section refers
// to and keeps the body section properties verbatim.
func (w *Writer) loadSections(pkg *ooxml.Package) error {
	document, ok := pkg.Part(documentPart)
	if !ok {
		return fmt.Errorf("%s not found", documentPart)
	}
	sections, sectPr, err := ooxml.ReadSections(document)
	if err != nil {
		return fmt.Errorf("read sections: %w", err)
	}
	if sectPr != nil {
		w.keepSectionProperties(sectPr)
	}
	w.keepSectionBreaks(sections)

	seen := make(map[string]bool)
	for _, s := range sections {
		for _, ref := range s.Ordered() {
			target, err := w.doc.ReferTarget(ref.ID)
			if err != nil {
				w.log.Debug("dangling section reference", "id", ref.ID, "err", err)
				continue
			}
			name := ooxml.PartName(target)
			if seen[name] {
				continue
			}
			seen[name] = true

			data, ok := pkg.Part(name)
			if !ok {
				continue
			}
			rels, _ := pkg.Part(ooxml.RelsName(name))
			part, err := ooxml.DecodePart(name, data, rels)
			if err != nil {
				return err
			}
			w.parts = append(w.parts, part)
		}
	}
	return nil
}

// keepSectionProperties swaps the modelled body w:sectPr for the raw one.
func (w *Writer) keepSectionProperties(sp *ooxml.SectionProperties) {
	items := w.doc.Document.Body.Items
	for i := len(items) - 1; i >= 0; i-- {
		if _, ok := items[i].(*docx.SectPr); ok {
			items[i] = sp
			return
		}
	}
	w.doc.Document.Body.Items = append(items, sp)
}

// keepSectionBreaks ties the paragraph level w:sectPr elements, which
// go-docx drops, to the body paragraphs that carried them.
func (w *Writer) keepSectionBreaks(sections []ooxml.Section) {
	var paras []*docx.Paragraph
	for _, it := range w.doc.Document.Body.Items {
		if p, ok := it.(*docx.Paragraph); ok {
			paras = append(paras, p)
		}
	}
	for _, s := range sections {
		if s.Paragraph < 0 {
			continue
		}
		if s.Paragraph >= len(paras) {
			w.log.Debug("section break without paragraph", "index", s.Paragraph)
			continue
		}
		w.breaks[paras[s.Paragraph]] = s.Props
	}
}

// carryBreak moves the section break of old, if any, to the last
// paragraph of items, the content that takes its place. When items has no
// paragraph an empty one is appended to hold the break.
func (w *Writer) carryBreak(old *docx.Paragraph, items []interface{}) []interface{} {
	sp, ok := w.breaks[old]
	if !ok {
		return items
	}
	delete(w.breaks, old)
	for i := len(items) - 1; i >= 0; i-- {
		if p, ok := items[i].(*docx.Paragraph); ok {
			w.breaks[p] = sp
			return items
		}
	}
	p := &docx.Paragraph{Properties: cloneParagraphProperties(old.Properties)}
	w.breaks[p] = sp
	return append(items, p)
}

// sectionBreaks numbers the body paragraphs that carry a section break.
// Each of them gets paragraph properties so the break has a place.
func (w *Writer) sectionBreaks() map[int]*ooxml.SectionProperties {
	if len(w.breaks) == 0 {
		return nil
	}
	out := make(map[int]*ooxml.SectionProperties, len(w.breaks))
	n := 0
	for _, it := range w.doc.Document.Body.Items {
		p, ok := it.(*docx.Paragraph)
		if !ok {
			continue
		}
		if sp, ok := w.breaks[p]; ok {
			if p.Properties == nil {
				p.Properties = &docx.ParagraphProperties{}
			}
			out[n] = sp
		}
		n++
	}
	if len(out) < len(w.breaks) {
		w.log.Debug("section breaks dropped", "kept", len(out), "total", len(w.breaks))
	}
	return out
}

func (w *Writer) scan() {
	w.tags = scanDocument(&w.doc.Document.Body.Items, w.parts)
	w.stale = false
	w.log.Debug("scanned document", "tags", w.tags.Len(), "parts", len(w.parts))
}

// Tags lists the distinct tags found in the document, in scan order.
func (w *Writer) Tags() []string {
	if w == nil || w.doc == nil {
		return nil
	}
	if w.stale {
		w.scan()
	}
	return w.tags.Keys()
}

// Locations returns every place tag occurs.
func (w *Writer) Locations(tag string) []Location {
	if w == nil || w.doc == nil {
		return nil
	}
	if w.stale {
		w.scan()
	}
	locs, _ := w.tags.Get(tag)
	return locs
}

// Save writes the document to out. Headers and footers that were edited
// are encoded back into the package; the rest is copied from the
// template untouched.
func (w *Writer) Save(out io.Writer) error {
	if w == nil || w.doc == nil {
		return ErrNotLoaded
	}

	breaks := w.sectionBreaks()
	var buf bytes.Buffer
	if _, err := w.doc.WriteTo(&buf); err != nil {
		return fmt.Errorf("write document: %w", err)
	}
	pkg, err := ooxml.ReadPackage(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	if err != nil {
		return err
	}

	if len(breaks) > 0 {
		document, ok := pkg.Part(documentPart)
		if !ok {
			return fmt.Errorf("%s not found", documentPart)
		}
		document, err = ooxml.InsertSectionBreaks(document, breaks)
		if err != nil {
			return fmt.Errorf("restore section breaks: %w", err)
		}
		pkg.SetPart(documentPart, document)
	}

	for _, part := range w.parts {
		if !part.Dirty {
			continue
		}
		data, err := part.Encode()
		if err != nil {
			return err
		}
		pkg.SetPart(part.Name, data)

		rels, err := part.EncodeRels()
		if err != nil {
			return err
		}
		if rels != nil {
			pkg.SetPart(ooxml.RelsName(part.Name), rels)
		}
	}

	pkg.Reorder(w.order)
	_, err = pkg.WriteTo(out)
	return err
}

// SaveFile writes the document to path.
func (w *Writer) SaveFile(path string) error {
	if w == nil || w.doc == nil {
		return ErrNotLoaded
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := w.Save(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Process fills template with values and writes the result to output.
func Process(template, output string, values map[string]string, opts ...Option) error {
	w, err := Open(template, opts...)
	if err != nil {
		return err
	}
	if err := w.Replace(values); err != nil {
		return err
	}
	return w.SaveFile(output)
}
