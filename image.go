package wordwriter

import (
	"errors"
	"fmt"
	"os"

	"github.com/fumiama/go-docx"

	"github.com/little-yangyang/wordwriter/internal/imaging"
	"github.com/little-yangyang/wordwriter/internal/ooxml"
)

// Injector adds content to a paragraph, or returns block items that
// replace it.
type Injector interface {
	Inject(doc *docx.Docx, p *docx.Paragraph) ([]interface{}, error)
}

// ImageInjector appends one inline picture to a paragraph. A zero Width
// keeps the size go-docx picks.
type ImageInjector struct {
	Image  *imaging.Image
	Width  int64
	Height int64
}

// Inject implements the Injector interface
func (i ImageInjector) Inject(doc *docx.Docx, p *docx.Paragraph) ([]interface{}, error) {
	if i.Image == nil {
		return nil, errors.New("no image")
	}
	run, err := p.AddInlineDrawing(i.Image.Data)
	if err != nil {
		return nil, err
	}
	if i.Width > 0 && i.Height > 0 {
		if d := runDrawing(run); d != nil && d.Inline != nil {
			d.Inline.Size(i.Width, i.Height)
		}
	}
	return nil, nil
}

func runDrawing(r *docx.Run) *docx.Drawing {
	for _, c := range r.Children {
		if d, ok := c.(*docx.Drawing); ok {
			return d
		}
	}
	return nil
}

// replaceImage embeds the picture at path over an inline location, keeping
// any text around the token. A path that is not a file is written as
// text, unless it is the delete sentinel.
func (w *Writer) replaceImage(tag Tag, loc Location, path string) error {
	if !isFile(path) {
		if path == DeleteParagraph {
			w.removeParagraph(loc)
			return nil
		}
		w.replaceText(loc, path)
		return nil
	}
	img, err := imaging.Load(path)
	if err != nil {
		return err
	}
	cx, cy := w.imageSize(tag, img)
	d, err := w.drawing(ImageInjector{Image: img, Width: cx, Height: cy}, loc.part)
	if err != nil {
		return fmt.Errorf("embed %s: %w", path, err)
	}

	runs, before, after := locate(loc)
	if len(runs) == 0 {
		return nil
	}
	first := runs[0]
	first.InstrText = ""
	first.Children = append(textChildren(before), d)
	first.Children = append(first.Children, textChildren(after)...)
	for _, r := range runs[1:] {
		clearRun(r)
	}
	w.touch(loc)
	return nil
}

// drawing renders inj into a scratch paragraph and lifts the picture out.
// Pictures placed in a header or footer get their own relationship there.
func (w *Writer) drawing(inj ImageInjector, part *ooxml.Part) (*docx.Drawing, error) {
	p := w.scratchParagraph()
	if _, err := inj.Inject(w.doc, p); err != nil {
		return nil, err
	}
	runs := paragraphRuns(p)
	if len(runs) == 0 {
		return nil, errors.New("no drawing produced")
	}
	d := runDrawing(runs[len(runs)-1])
	if d == nil {
		return nil, errors.New("no drawing produced")
	}
	if err := w.relocate(d, part); err != nil {
		return nil, err
	}
	return d, nil
}

// relocate points the blip of d at a relationship owned by part.
func (w *Writer) relocate(d *docx.Drawing, part *ooxml.Part) error {
	if part == nil || d.Inline == nil || d.Inline.Graphic == nil || d.Inline.Graphic.GraphicData == nil {
		return nil
	}
	pic := d.Inline.Graphic.GraphicData.Pic
	if pic == nil || pic.BlipFill == nil {
		return nil
	}
	target, err := w.doc.ReferTarget(pic.BlipFill.Blip.Embed)
	if err != nil {
		return err
	}
	pic.BlipFill.Blip.Embed = part.AddRelationship(docx.REL_IMAGE, target)
	part.Dirty = true
	return nil
}

// imageSize is the (W,H) of the tag, or the native size at the configured
// resolution, scaled down to the width limit when one is set.
func (w *Writer) imageSize(tag Tag, img *imaging.Image) (int64, int64) {
	if tag.Sized {
		return tag.EMU()
	}
	cx := imaging.EMU(img.Width, w.cfg.ImageDPI)
	cy := imaging.EMU(img.Height, w.cfg.ImageDPI)
	if limit := int64(w.cfg.MaxImageWidthCM * EMUPerCM); limit > 0 && cx > limit {
		cy = cy * limit / cx
		cx = limit
	}
	return cx, cy
}

// scratchParagraph creates a paragraph bound to the document without
// leaving it in the body.
func (w *Writer) scratchParagraph() *docx.Paragraph {
	p := w.doc.AddParagraph()
	items := w.doc.Document.Body.Items
	if len(items) > 0 {
		w.doc.Document.Body.Items = items[:len(items)-1]
	}
	return p
}

func isFile(path string) bool {
	if path == "" {
		return false
	}
	fi, err := os.Stat(path)
	return err == nil && fi.Mode().IsRegular()
}
