package main

import (
	"archive/zip"
	"image"
	"image/color"
	"image/png"
	"os"
)

// gen_base writes testdata/base.docx, a template using every tag kind with
// a tagged header, and testdata/test_image.png.
func main() {
	if err := os.MkdirAll("testdata", 0o755); err != nil {
		panic(err)
	}
	writeImage("testdata/test_image.png")

	f, err := os.Create("testdata/base.docx")
	if err != nil {
		panic(err)
	}
	defer f.Close()

	w := zip.NewWriter(f)
	defer w.Close()

	const ns = `xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main" xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships" xmlns:wp="http://schemas.openxmlformats.org/drawingml/2006/wordprocessingDrawing" xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main" xmlns:pic="http://schemas.openxmlformats.org/drawingml/2006/picture"`

	names := []string{
		"[Content_Types].xml",
		"_rels/.rels",
		"word/document.xml",
		"word/_rels/document.xml.rels",
		"word/header1.xml",
	}
	files := map[string]string{
		"[Content_Types].xml": `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">
  <Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>
  <Default Extension="xml" ContentType="application/xml"/>
  <Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>
  <Override PartName="/word/header1.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.header+xml"/>
</Types>`,
		"_rels/.rels": `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
  <Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/>
</Relationships>`,
		"word/_rels/document.xml.rels": `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
  <Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/header" Target="header1.xml"/>
</Relationships>`,
		"word/header1.xml": `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:hdr ` + ns + `>
  <w:p><w:r><w:t xml:space="preserve">Prepared for #[CLIENT]#</w:t></w:r></w:p>
</w:hdr>`,
		"word/document.xml": `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document ` + ns + `>
  <w:body>
    <w:p><w:r><w:t xml:space="preserve">Dear #[</w:t></w:r><w:r><w:rPr><w:b/></w:rPr><w:t>CLIENT</w:t></w:r><w:r><w:t xml:space="preserve">]#,</w:t></w:r></w:p>
    <w:p><w:r><w:t>#[IMAGE-logo(3,3)]#</w:t></w:r></w:p>
    <w:p><w:r><w:t>#[HTML-summary]#</w:t></w:r></w:p>
    <w:tbl>
      <w:tblPr><w:tblBorders><w:bottom w:val="single" w:sz="12" w:space="0" w:color="000000"/></w:tblBorders></w:tblPr>
      <w:tr><w:tc><w:p><w:r><w:t>Item</w:t></w:r></w:p></w:tc><w:tc><w:p><w:r><w:t>Value</w:t></w:r></w:p></w:tc></w:tr>
      <w:tr><w:tc><w:p><w:r><w:t>#[TABLE-items]#</w:t></w:r></w:p></w:tc><w:tc><w:p/></w:tc></w:tr>
    </w:tbl>
    <w:p><w:r><w:t>#[OPTIONAL]#</w:t></w:r></w:p>
    <w:sectPr><w:headerReference w:type="default" r:id="rId1"/><w:pgSz w:w="11906" w:h="16838"/></w:sectPr>
  </w:body>
</w:document>`,
	}

	for _, name := range names {
		f, err := w.Create(name)
		if err != nil {
			panic(err)
		}
		_, err = f.Write([]byte(files[name]))
		if err != nil {
			panic(err)
		}
	}
}

func writeImage(path string) {
	img := image.NewRGBA(image.Rect(0, 0, 120, 60))
	for x := 0; x < 120; x++ {
		for y := 0; y < 60; y++ {
			img.Set(x, y, color.RGBA{G: uint8(x * 2), B: 160, A: 255})
		}
	}
	f, err := os.Create(path)
	if err != nil {
		panic(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		panic(err)
	}
}
