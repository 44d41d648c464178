// Package imaging prepares image files for embedding: it sniffs the pixel
// size and converts formats Word pictures cannot carry to PNG.
package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/png"
	"os"

	"github.com/fumiama/imgsz"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
)

// Image is an image payload ready for docx.Paragraph.AddInlineDrawing.
type Image struct {
	Data   []byte
	Format string
	Width  int
	Height int
}

// Load reads and prepares the image at path.
func Load(path string) (*Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	img, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return img, nil
}

// Decode sniffs jpeg, png, gif and webp through imgsz without decoding the
// pixels. BMP and TIFF are decoded and re-encoded as PNG.
func Decode(data []byte) (*Image, error) {
	sz, format, err := imgsz.DecodeSize(bytes.NewReader(data))
	if err == nil {
		return &Image{Data: data, Format: format, Width: sz.Width, Height: sz.Height}, nil
	}
	if !errors.Is(err, imgsz.ErrFormat) {
		return nil, err
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	b := img.Bounds()
	return &Image{Data: buf.Bytes(), Format: "png", Width: b.Dx(), Height: b.Dy()}, nil
}

// EMU converts a pixel length to English Metric Units at the given DPI.
func EMU(px, dpi int) int64 {
	if dpi <= 0 {
		dpi = 96
	}
	return int64(px) * 914400 / int64(dpi)
}
