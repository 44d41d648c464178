package wordwriter

import (
	"strconv"
	"strings"
)

// Tag markers and type discriminators.
const (
	TagStart = "#["
	TagEnd   = "]#"

	prefixTable      = "#[TABLE"
	prefixTextbox    = "#[TX"
	prefixImage      = "#[IMAGE"
	prefixTableImage = "#[TBIMG"
	prefixHTML       = "#[HTML"
)

// Replacement values that delete instead of substitute.
const (
	DeleteParagraph = "#DELETETHISPARAGRAPH#"
	DeleteTable     = "#DELETETHISTABLE#"
)

// EMUPerCM converts the centimetre dimensions of an image tag.
const EMUPerCM = 360000

// TagKind selects the replacer a tag is routed to.
type TagKind int

const (
	TextTag TagKind = iota
	ImageTag
	TableTag
	TextboxTag
	HTMLTag
)

func (k TagKind) String() string {
	switch k {
	case ImageTag:
		return "image"
	case TableTag:
		return "table"
	case TextboxTag:
		return "textbox"
	case HTMLTag:
		return "html"
	default:
		return "text"
	}
}

// Tag is a parsed tag token.
type Tag struct {
	Token string
	Kind  TagKind

	// Width and Height are the (W,H) centimetres of an image tag; Sized
	// reports whether the token carried them.
	Width, Height int
	Sized         bool
}

// ParseTag classifies a token. Table wins over textbox, textbox over
// image, image over html; anything else is plain text.
func ParseTag(token string) Tag {
	t := Tag{Token: token}
	switch {
	case strings.Contains(token, prefixTable):
		t.Kind = TableTag
	case strings.Contains(token, prefixTextbox):
		t.Kind = TextboxTag
	case strings.Contains(token, prefixImage), strings.Contains(token, prefixTableImage):
		t.Kind = ImageTag
		t.Width, t.Height, t.Sized = dimensions(token)
	case strings.Contains(token, prefixHTML):
		t.Kind = HTMLTag
	}
	return t
}

// EMU returns the requested image size in English Metric Units.
func (t Tag) EMU() (int64, int64) {
	return int64(t.Width) * EMUPerCM, int64(t.Height) * EMUPerCM
}

// dimensions reads "(W,H)" from the token.
func dimensions(token string) (int, int, bool) {
	open := strings.Index(token, "(")
	if open < 0 {
		return 0, 0, false
	}
	rest := token[open+1:]
	end := strings.Index(rest, ")")
	if end < 0 {
		return 0, 0, false
	}
	w, h, ok := strings.Cut(rest[:end], ",")
	if !ok {
		return 0, 0, false
	}
	width, err := strconv.Atoi(strings.TrimSpace(w))
	if err != nil {
		return 0, 0, false
	}
	height, err := strconv.Atoi(strings.TrimSpace(h))
	if err != nil {
		return 0, 0, false
	}
	return width, height, true
}

// tableKey rebuilds the table token from the text of the cell it was
// found in, dropping anything around it.
func tableKey(text string) (string, bool) {
	_, after, ok := strings.Cut(text, "#[TABLE-")
	if !ok {
		return "", false
	}
	name, _, ok := strings.Cut(after, TagEnd)
	if !ok {
		return "", false
	}
	return "#[TABLE-" + name + TagEnd, true
}
