package wordwriter

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/fumiama/go-docx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReplaceImageSized(t *testing.T) {
	pic := writePNG(t, 40, 20)
	w := openTemplate(t, template{body: para("Logo: #[IMAGE-logo(4,2)]# end")})

	require.NoError(t, w.Replace(map[string]string{"#[IMAGE-logo(4,2)]#": pic}))

	p := w.doc.Document.Body.Items[0].(*docx.Paragraph)
	ds := drawings(p)
	require.Len(t, ds, 1)
	require.NotNil(t, ds[0].Inline)
	assert.Equal(t, int64(4*EMUPerCM), ds[0].Inline.Extent.CX)
	assert.Equal(t, int64(2*EMUPerCM), ds[0].Inline.Extent.CY)
	assert.Equal(t, "Logo:  end", paragraphText(p))
}

func TestReplaceImageNativeSize(t *testing.T) {
	pic := writePNG(t, 96, 48)
	w := openTemplate(t, template{body: para("#[IMAGE-logo]#")})

	require.NoError(t, w.Replace(map[string]string{"#[IMAGE-logo]#": pic}))

	ds := drawings(w.doc.Document.Body.Items[0].(*docx.Paragraph))
	require.Len(t, ds, 1)
	assert.Equal(t, int64(914400), ds[0].Inline.Extent.CX)
	assert.Equal(t, int64(457200), ds[0].Inline.Extent.CY)
}

func TestReplaceImageWidthClamp(t *testing.T) {
	pic := writePNG(t, 960, 480)
	w := openTemplate(t, template{body: para("#[IMAGE-logo]#")}, WithMaxImageWidth(10))

	require.NoError(t, w.Replace(map[string]string{"#[IMAGE-logo]#": pic}))

	ds := drawings(w.doc.Document.Body.Items[0].(*docx.Paragraph))
	require.Len(t, ds, 1)
	assert.Equal(t, int64(10*EMUPerCM), ds[0].Inline.Extent.CX)
	assert.Equal(t, int64(5*EMUPerCM), ds[0].Inline.Extent.CY)
}

func TestReplaceImageMissingFileWritesText(t *testing.T) {
	w := openTemplate(t, template{body: para("#[IMAGE-logo]#")})
	missing := filepath.Join(t.TempDir(), "nope.png")

	require.NoError(t, w.Replace(map[string]string{"#[IMAGE-logo]#": missing}))
	assert.Equal(t, []string{missing}, bodyTexts(w))
}

func TestReplaceImageDeleteSentinel(t *testing.T) {
	w := openTemplate(t, template{body: para("a") + para("#[IMAGE-logo]#") + para("b")})

	require.NoError(t, w.Replace(map[string]string{"#[IMAGE-logo]#": DeleteParagraph}))
	assert.Equal(t, []string{"a", "b"}, bodyTexts(w))
}

func TestReplaceImageNotAnImage(t *testing.T) {
	path := writeFile(t, "notes.png", "plain text")
	w := openTemplate(t, template{body: para("#[IMAGE-logo]#")})

	err := w.Replace(map[string]string{"#[IMAGE-logo]#": path})
	assert.Error(t, err)
}

func TestReplaceImageSaved(t *testing.T) {
	pic := writePNG(t, 10, 10)
	w := openTemplate(t, template{body: para("#[TBIMG-x(1,1)]#")})
	require.NoError(t, w.Replace(map[string]string{"#[TBIMG-x(1,1)]#": pic}))

	_, data := reopen(t, w)
	files := readZip(t, data)

	var media []string
	for name := range files {
		if strings.HasPrefix(name, "word/media/") {
			media = append(media, name)
		}
	}
	assert.Len(t, media, 1)
	assert.Contains(t, files["[Content_Types].xml"], `Extension="png"`)
	assert.Contains(t, files["word/_rels/document.xml.rels"], "media/")
}
