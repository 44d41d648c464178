package wordwriter

import (
	"encoding/base64"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"

	"github.com/fumiama/go-docx"
	"golang.org/x/net/html"
)

// HTMLInjector renders a small HTML fragment as paragraphs: headings,
// paragraphs with bold, italic, underline and line breaks, and images
// from data URIs, URLs or local files. Images that cannot be loaded are
// skipped and reported to Logger at Debug level when it is set.
type HTMLInjector struct {
	Content string
	Logger  *slog.Logger
}

// Inject implements the Injector interface
func (h HTMLInjector) Inject(doc *docx.Docx, p *docx.Paragraph) ([]interface{}, error) {
	node, err := html.Parse(strings.NewReader(h.Content))
	if err != nil {
		return nil, err
	}

	var items []interface{}

	var f func(*html.Node)
	f = func(n *html.Node) {
		switch n.Type {
		case html.DocumentNode:
			for c := n.FirstChild; c != nil; c = c.NextSibling {
				f(c)
			}
		case html.ElementNode:
			switch n.Data {
			case "h1", "h2", "h3":
				newP := createParagraph(doc, p)
				newP.Style(headingStyle(n.Data))
				newP.AddText(extractText(n))
				items = append(items, newP)
			case "p":
				newP := createParagraph(doc, p)
				h.processChildren(n, newP, runStyle{})
				items = append(items, newP)
			case "img":
				newP := createParagraph(doc, p)
				if err := addImage(newP, n); err != nil {
					h.skipped(n, err)
				} else {
					items = append(items, newP)
				}
			default:
				// div, body, html and friends
				for c := n.FirstChild; c != nil; c = c.NextSibling {
					f(c)
				}
			}
		case html.TextNode:
			text := strings.TrimSpace(n.Data)
			if text != "" {
				newP := createParagraph(doc, p)
				newP.AddText(text)
				items = append(items, newP)
			}
		}
	}
	f(node)
	return items, nil
}

// createParagraph makes a paragraph bound to doc but outside the body,
// carrying the properties of the paragraph it will stand in for.
func createParagraph(doc *docx.Docx, like *docx.Paragraph) *docx.Paragraph {
	p := doc.AddParagraph()
	if len(doc.Document.Body.Items) > 0 {
		doc.Document.Body.Items = doc.Document.Body.Items[:len(doc.Document.Body.Items)-1]
	}
	if like != nil {
		p.XMLName = like.XMLName
		p.Properties = cloneParagraphProperties(like.Properties)
	}
	return p
}

func headingStyle(tag string) string {
	switch tag {
	case "h1":
		return "1"
	case "h2":
		return "2"
	case "h3":
		return "3"
	default:
		return "Normal"
	}
}

func extractText(n *html.Node) string {
	var sb strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.TextNode {
			sb.WriteString(c.Data)
		} else {
			sb.WriteString(extractText(c))
		}
	}
	return sb.String()
}

type runStyle struct {
	bold, italic, underline bool
}

func (h HTMLInjector) processChildren(n *html.Node, p *docx.Paragraph, rs runStyle) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		switch {
		case c.Type == html.TextNode:
			if c.Data == "" {
				continue
			}
			run := p.AddText(c.Data)
			if rs.bold {
				run.Bold()
			}
			if rs.italic {
				run.Italic()
			}
			if rs.underline {
				run.Underline("single")
			}
		case c.Type != html.ElementNode:
		case c.Data == "img":
			if err := addImage(p, c); err != nil {
				h.skipped(c, err)
			}
		case c.Data == "br":
			p.Children = append(p.Children, &docx.Run{
				RunProperties: &docx.RunProperties{},
				Children:      []interface{}{&docx.BarterRabbet{}},
			})
		default:
			inner := rs
			switch c.Data {
			case "b", "strong":
				inner.bold = true
			case "i", "em":
				inner.italic = true
			case "u":
				inner.underline = true
			}
			h.processChildren(c, p, inner)
		}
	}
}

func (h HTMLInjector) skipped(n *html.Node, err error) {
	if h.Logger != nil {
		h.Logger.Debug("html image skipped", "src", imageSource(n), "err", err)
	}
}

func imageSource(n *html.Node) string {
	for _, attr := range n.Attr {
		if attr.Key == "src" {
			return attr.Val
		}
	}
	return ""
}

func addImage(p *docx.Paragraph, n *html.Node) error {
	src := imageSource(n)
	if src == "" {
		return fmt.Errorf("no src")
	}

	var data []byte
	switch {
	case strings.HasPrefix(src, "data:image/"):
		parts := strings.SplitN(src, ",", 2)
		if len(parts) != 2 {
			return fmt.Errorf("invalid base64 image")
		}
		b, err := base64.StdEncoding.DecodeString(parts[1])
		if err != nil {
			return err
		}
		data = b
	case strings.HasPrefix(src, "http"):
		resp, err := http.Get(src)
		if err != nil {
			return err
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("fetch %s: %s", src, resp.Status)
		}
		b, err := io.ReadAll(resp.Body)
		if err != nil {
			return err
		}
		data = b
	default:
		b, err := os.ReadFile(src)
		if err != nil {
			return err
		}
		data = b
	}

	_, err := p.AddInlineDrawing(data)
	return err
}

// replaceHTML swaps the paragraph at loc for the rendered fragment.
func (w *Writer) replaceHTML(loc Location, content string) error {
	if content == DeleteParagraph {
		w.removeParagraph(loc)
		return nil
	}
	if loc.parent == nil || loc.Paragraph == nil {
		return nil
	}
	items, err := HTMLInjector{Content: content, Logger: w.log}.Inject(w.doc, loc.Paragraph)
	if err != nil {
		return fmt.Errorf("render html: %w", err)
	}
	if loc.part != nil {
		for _, it := range items {
			p, ok := it.(*docx.Paragraph)
			if !ok {
				continue
			}
			for _, r := range paragraphRuns(p) {
				if d := runDrawing(r); d != nil {
					if err := w.relocate(d, loc.part); err != nil {
						return err
					}
				}
			}
		}
	}
	items = w.carryBreak(loc.Paragraph, items)
	if loc.parent.replace(loc.Paragraph, items) {
		w.touch(loc)
	}
	return nil
}
