package wordwriter

import (
	"archive/zip"
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fumiama/go-docx"
	"github.com/stretchr/testify/require"
)

const (
	nsDecl = `xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main" ` +
		`xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships"`

	contentTypesXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">
  <Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>
  <Default Extension="xml" ContentType="application/xml"/>
  <Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>
</Types>`

	packageRelsXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
  <Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/>
</Relationships>`

	relHeader = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/header"
	relFooter = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/footer"
)

// template describes a minimal document package.
type template struct {
	body   string
	sectPr string
	rels   []string
	extra  map[string]string
}

func (tp template) files() map[string]string {
	doc := `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
		`<w:document ` + nsDecl + `><w:body>` + tp.body + tp.sectPr + `</w:body></w:document>`
	rels := `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
		`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">` +
		strings.Join(tp.rels, "") + `</Relationships>`
	files := map[string]string{
		"[Content_Types].xml":          contentTypesXML,
		"_rels/.rels":                  packageRelsXML,
		"word/document.xml":            doc,
		"word/_rels/document.xml.rels": rels,
	}
	for k, v := range tp.extra {
		files[k] = v
	}
	return files
}

func rel(id, typ, target string) string {
	return fmt.Sprintf(`<Relationship Id="%s" Type="%s" Target="%s"/>`, id, typ, target)
}

func zipFiles(t *testing.T, files map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for name, content := range files {
		f, err := w.Create(name)
		require.NoError(t, err)
		_, err = f.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return buf.Bytes()
}

func readZip(t *testing.T, data []byte) map[string]string {
	t.Helper()
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)
	out := make(map[string]string, len(zr.File))
	for _, f := range zr.File {
		rc, err := f.Open()
		require.NoError(t, err)
		var b bytes.Buffer
		_, err = b.ReadFrom(rc)
		require.NoError(t, err)
		rc.Close()
		out[f.Name] = b.String()
	}
	return out
}

func openTemplate(t *testing.T, tp template, opts ...Option) *Writer {
	t.Helper()
	data := zipFiles(t, tp.files())
	w, err := New(bytes.NewReader(data), int64(len(data)), append([]Option{Quiet()}, opts...)...)
	require.NoError(t, err)
	return w
}

// reopen saves w and parses the result again.
func reopen(t *testing.T, w *Writer) (*Writer, []byte) {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, w.Save(&buf))
	nw, err := New(bytes.NewReader(buf.Bytes()), int64(buf.Len()), Quiet())
	require.NoError(t, err)
	return nw, buf.Bytes()
}

// para builds a paragraph with one run per piece.
func para(pieces ...string) string {
	var sb strings.Builder
	sb.WriteString("<w:p>")
	for _, p := range pieces {
		sb.WriteString(`<w:r><w:t xml:space="preserve">` + p + `</w:t></w:r>`)
	}
	sb.WriteString("</w:p>")
	return sb.String()
}

func cell(inner string) string {
	return "<w:tc>" + inner + "</w:tc>"
}

func row(cells ...string) string {
	return "<w:tr>" + strings.Join(cells, "") + "</w:tr>"
}

// bodyTexts lists the text of every top level paragraph.
func bodyTexts(w *Writer) []string {
	var out []string
	for _, it := range w.doc.Document.Body.Items {
		if p, ok := it.(*docx.Paragraph); ok {
			out = append(out, paragraphText(p))
		}
	}
	return out
}

func bodyTables(w *Writer) []*docx.Table {
	var out []*docx.Table
	for _, it := range w.doc.Document.Body.Items {
		if tb, ok := it.(*docx.Table); ok {
			out = append(out, tb)
		}
	}
	return out
}

// tableTexts is the text grid of a table.
func tableTexts(tb *docx.Table) [][]string {
	out := make([][]string, len(tb.TableRows))
	for i, r := range tb.TableRows {
		for _, c := range r.TableCells {
			out[i] = append(out[i], cellText(c))
		}
	}
	return out
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func writePNG(t *testing.T, w, h int) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	img.Set(0, 0, color.RGBA{G: 255, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	path := filepath.Join(t.TempDir(), "pic.png")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
	return path
}

// drawings returns every drawing in the runs of p.
func drawings(p *docx.Paragraph) []*docx.Drawing {
	var out []*docx.Drawing
	for _, r := range paragraphRuns(p) {
		for _, c := range r.Children {
			if d, ok := c.(*docx.Drawing); ok {
				out = append(out, d)
			}
		}
	}
	return out
}
