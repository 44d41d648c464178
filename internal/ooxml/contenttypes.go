package ooxml

import (
	"encoding/xml"
	"errors"
)

const (
	// ContentTypesPart is the package manifest every .docx carries.
	ContentTypesPart = "[Content_Types].xml"

	contentTypesNS = "http://schemas.openxmlformats.org/package/2006/content-types"
)

// ErrNoContentTypes is returned for a package without a manifest.
var ErrNoContentTypes = errors.New("[Content_Types].xml not found")

type typeDefault struct {
	Extension   string `xml:"Extension,attr"`
	ContentType string `xml:"ContentType,attr"`
}

type typeOverride struct {
	PartName    string `xml:"PartName,attr"`
	ContentType string `xml:"ContentType,attr"`
}

type types struct {
	XMLName   xml.Name       `xml:"Types"`
	Xmlns     string         `xml:"xmlns,attr"`
	Defaults  []typeDefault  `xml:"Default"`
	Overrides []typeOverride `xml:"Override"`
}

// imageTypes are the media extensions go-docx may write for an embedded
// picture.
var imageTypes = []typeDefault{
	{Extension: "png", ContentType: "image/png"},
	{Extension: "jpg", ContentType: "image/jpeg"},
	{Extension: "jpeg", ContentType: "image/jpeg"},
	{Extension: "gif", ContentType: "image/gif"},
	{Extension: "webp", ContentType: "image/webp"},
}

// EnsureImageTypes adds the image defaults a template may lack, so that
// pictures embedded later open in Word. It reports whether the manifest
// changed.
func EnsureImageTypes(p *Package) (bool, error) {
	data, ok := p.Part(ContentTypesPart)
	if !ok {
		return false, ErrNoContentTypes
	}

	var t types
	if err := xml.Unmarshal(data, &t); err != nil {
		return false, err
	}
	t.Xmlns = contentTypesNS

	have := make(map[string]bool, len(t.Defaults))
	for _, d := range t.Defaults {
		have[d.Extension] = true
	}
	changed := false
	for _, d := range imageTypes {
		if !have[d.Extension] {
			t.Defaults = append(t.Defaults, d)
			changed = true
		}
	}
	if !changed {
		return false, nil
	}

	newData, err := xml.Marshal(t)
	if err != nil {
		return false, err
	}
	p.SetPart(ContentTypesPart, append([]byte(xml.Header), newData...))
	return true, nil
}
