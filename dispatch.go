package wordwriter

import (
	"fmt"
	"sort"

	"github.com/fumiama/go-docx"
)

const (
	logMissing = "【Missing Tag】 "
	logFilling = "【Filling Tag】 "
)

// Replace substitutes every tag named in values. Keys are processed in
// sorted order; a key the document does not contain is reported and
// skipped. The first replacer error aborts the pass.
//
// Calling Replace again rescans the document first, so tags written by
// an earlier value are found.
func (w *Writer) Replace(values map[string]string) error {
	if w == nil || w.doc == nil {
		return ErrNotLoaded
	}
	if w.stale {
		w.scan()
	}
	w.stale = true

	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		locs, ok := w.tags.Get(key)
		if !ok {
			w.report(logMissing + key)
			continue
		}
		w.report(logFilling + key)
		if err := w.apply(ParseTag(key), locs, values[key]); err != nil {
			return fmt.Errorf("replace %s: %w", key, err)
		}
	}
	return nil
}

func (w *Writer) report(msg string) {
	if w.cfg.Quiet {
		return
	}
	w.log.Info(msg)
}

// apply routes one tag's locations to the replacer of its kind.
func (w *Writer) apply(tag Tag, locs []Location, value string) error {
	switch tag.Kind {
	case TableTag:
		seen := make(map[*docx.Table]bool)
		for _, loc := range locs {
			if loc.Kind != TableLocation || seen[loc.Table] {
				continue
			}
			seen[loc.Table] = true
			if err := w.replaceTable(loc, value); err != nil {
				return err
			}
			if value != DeleteTable {
				key := normalizeKey(tag.Token)
				w.filled[key] = append(w.filled[key], loc.Table)
			}
		}
	case TextboxTag:
		for _, loc := range locs {
			switch loc.Kind {
			case TextboxLocation:
				w.replaceTextbox(loc, value)
			case InlineLocation:
				w.replaceText(loc, value)
			}
		}
	case ImageTag:
		for _, loc := range locs {
			if loc.Kind != InlineLocation {
				continue
			}
			if err := w.replaceImage(tag, loc, value); err != nil {
				return err
			}
		}
	case HTMLTag:
		for _, loc := range locs {
			if loc.Kind != InlineLocation {
				continue
			}
			if err := w.replaceHTML(loc, value); err != nil {
				return err
			}
		}
	default:
		for _, loc := range locs {
			if loc.Kind == InlineLocation {
				w.replaceText(loc, value)
			}
		}
	}
	return nil
}
