package ooxml

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"path"
	"strconv"
	"strings"

	"github.com/fumiama/go-docx"
)

// Part is a header or footer decoded into go-docx block items
// (*docx.Paragraph and *docx.Table). Only parts marked dirty are encoded
// back, so untouched headers keep fields go-docx does not model.
type Part struct {
	Name  string
	Items []interface{}
	Rels  *docx.Relationships
	Dirty bool

	prolog []byte
	end    string
}

// errNoRoot is returned for a part with no root element.
var errNoRoot = errors.New("part has no root element")

// partNamespaces are declared on the root element of an encoded part when
// missing, since go-docx writes prefixed names for drawings it creates.
var partNamespaces = []struct{ prefix, uri string }{
	{"w", docx.XMLNS_W},
	{"r", docx.XMLNS_R},
	{"wp", docx.XMLNS_WP},
	{"wps", docx.XMLNS_WPS},
	{"wpc", docx.XMLNS_WPC},
	{"wpg", docx.XMLNS_WPG},
}

// DecodePart parses a header or footer part. rels may be nil when the part
// has no relationship file.
func DecodePart(name string, data, rels []byte) (*Part, error) {
	prolog, end, err := splitRoot(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}

	var body docx.Body
	if err := xml.Unmarshal(data, &body); err != nil {
		return nil, fmt.Errorf("decode %s: %w", name, err)
	}

	p := &Part{
		Name:   name,
		Items:  body.Items,
		prolog: prolog,
		end:    end,
	}
	if rels != nil {
		p.Rels = new(docx.Relationships)
		if err := xml.Unmarshal(rels, p.Rels); err != nil {
			return nil, fmt.Errorf("decode %s: %w", RelsName(name), err)
		}
		p.Rels.Xmlns = docx.XMLNS_REL
	}
	return p, nil
}

// Encode marshals the part with its original root element.
func (p *Part) Encode() ([]byte, error) {
	var buf bytes.Buffer
	buf.Write(withNamespaces(p.prolog))
	enc := xml.NewEncoder(&buf)
	for _, it := range p.Items {
		if err := enc.Encode(it); err != nil {
			return nil, fmt.Errorf("encode %s: %w", p.Name, err)
		}
	}
	if err := enc.Flush(); err != nil {
		return nil, err
	}
	buf.WriteString(p.end)
	return buf.Bytes(), nil
}

// EncodeRels marshals the relationship file of the part.
func (p *Part) EncodeRels() ([]byte, error) {
	if p.Rels == nil {
		return nil, nil
	}
	data, err := xml.Marshal(p.Rels)
	if err != nil {
		return nil, err
	}
	return append([]byte(xml.Header), data...), nil
}

// AddRelationship appends a relationship to the part and returns its id.
func (p *Part) AddRelationship(typ, target string) string {
	if p.Rels == nil {
		p.Rels = &docx.Relationships{Xmlns: docx.XMLNS_REL}
	}
	last := 0
	for _, r := range p.Rels.Relationship {
		if n, err := strconv.Atoi(strings.TrimPrefix(r.ID, "rId")); err == nil && n > last {
			last = n
		}
	}
	id := "rId" + strconv.Itoa(last+1)
	p.Rels.Relationship = append(p.Rels.Relationship, docx.Relationship{
		ID:     id,
		Type:   typ,
		Target: target,
	})
	return id
}

// RelsName maps a part name to its relationship part,
// word/header1.xml to word/_rels/header1.xml.rels.
func RelsName(name string) string {
	dir, file := path.Split(name)
	return dir + "_rels/" + file + ".rels"
}

// PartName resolves a relationship target of the main document to a
// package part name.
func PartName(target string) string {
	if strings.HasPrefix(target, "/") {
		return strings.TrimPrefix(target, "/")
	}
	return path.Clean("word/" + target)
}

// splitRoot returns everything up to and including the root start tag,
// and the matching end tag.
func splitRoot(data []byte) ([]byte, string, error) {
	d := xml.NewDecoder(bytes.NewReader(data))
	for {
		tok, err := d.Token()
		if err == io.EOF {
			return nil, "", errNoRoot
		}
		if err != nil {
			return nil, "", err
		}
		if _, ok := tok.(xml.StartElement); !ok {
			continue
		}

		off := int(d.InputOffset())
		start := bytes.LastIndexByte(data[:off], '<')
		if start < 0 {
			return nil, "", errNoRoot
		}
		qname := rawName(data[start+1 : off])
		prolog := append([]byte(nil), data[:off]...)
		if bytes.HasSuffix(prolog, []byte("/>")) {
			prolog = append(prolog[:len(prolog)-2], '>')
		}
		return prolog, "</" + qname + ">", nil
	}
}

func rawName(tag []byte) string {
	end := bytes.IndexAny(tag, " \t\r\n/>")
	if end < 0 {
		return string(tag)
	}
	return string(tag[:end])
}

// withNamespaces declares any of partNamespaces the root start tag lacks.
func withNamespaces(prolog []byte) []byte {
	var extra bytes.Buffer
	for _, ns := range partNamespaces {
		if !bytes.Contains(prolog, []byte("xmlns:"+ns.prefix+"=")) {
			fmt.Fprintf(&extra, ` xmlns:%s="%s"`, ns.prefix, ns.uri)
		}
	}
	if extra.Len() == 0 {
		return prolog
	}
	out := make([]byte, 0, len(prolog)+extra.Len())
	out = append(out, prolog[:len(prolog)-1]...)
	out = append(out, extra.Bytes()...)
	return append(out, '>')
}
