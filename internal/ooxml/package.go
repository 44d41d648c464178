// Package ooxml reaches the parts of a .docx package that go-docx passes
// through untouched: content types, headers, footers and section properties.
package ooxml

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
)

// Package is an in-memory copy of a .docx zip. Entry order is kept so a
// rewritten package lists its parts the way the template did.
type Package struct {
	names []string
	parts map[string][]byte
}

// ReadPackage loads every file entry of the zip in r.
func ReadPackage(r io.ReaderAt, size int64) (*Package, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return nil, err
	}

	p := &Package{parts: make(map[string][]byte, len(zr.File))}
	for _, f := range zr.File {
		if f.FileInfo().IsDir() {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, err
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", f.Name, err)
		}
		p.SetPart(f.Name, data)
	}
	return p, nil
}

// Part returns the raw bytes of the named part.
func (p *Package) Part(name string) ([]byte, bool) {
	data, ok := p.parts[name]
	return data, ok
}

// SetPart replaces or adds a part.
func (p *Package) SetPart(name string, data []byte) {
	if _, ok := p.parts[name]; !ok {
		p.names = append(p.names, name)
	}
	p.parts[name] = data
}

// Names lists the parts in package order.
func (p *Package) Names() []string {
	return append([]string(nil), p.names...)
}

// Reorder moves the named parts to the front, in the given order. Parts
// not listed keep their relative order after them.
func (p *Package) Reorder(names []string) {
	seen := make(map[string]bool, len(p.names))
	ordered := make([]string, 0, len(p.names))
	for _, n := range names {
		if _, ok := p.parts[n]; ok && !seen[n] {
			ordered = append(ordered, n)
			seen[n] = true
		}
	}
	for _, n := range p.names {
		if !seen[n] {
			ordered = append(ordered, n)
		}
	}
	p.names = ordered
}

// WriteTo writes the package as a zip archive.
func (p *Package) WriteTo(w io.Writer) (int64, error) {
	cw := &countWriter{w: w}
	zw := zip.NewWriter(cw)
	for _, name := range p.names {
		fw, err := zw.Create(name)
		if err != nil {
			return cw.n, err
		}
		if _, err := fw.Write(p.parts[name]); err != nil {
			return cw.n, err
		}
	}
	if err := zw.Close(); err != nil {
		return cw.n, err
	}
	return cw.n, nil
}

// Bytes returns the zipped package.
func (p *Package) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if _, err := p.WriteTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

type countWriter struct {
	w io.Writer
	n int64
}

func (c *countWriter) Write(b []byte) (int, error) {
	n, err := c.w.Write(b)
	c.n += int64(n)
	return n, err
}
