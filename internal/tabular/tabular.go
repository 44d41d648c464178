// Package tabular reads the data files behind table tags into a
// rectangular grid of strings.
package tabular

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// ErrEmpty is returned for a data file without any row.
var ErrEmpty = errors.New("tabular: no rows")

// Grid is a rectangular table of cell strings. Every row has Cols cells.
type Grid struct {
	Rows [][]string
	Cols int
}

// Len is the number of rows.
func (g *Grid) Len() int { return len(g.Rows) }

// Cell returns the value at (r, c), or "" outside the grid.
func (g *Grid) Cell(r, c int) string {
	if r < 0 || r >= len(g.Rows) || c < 0 || c >= len(g.Rows[r]) {
		return ""
	}
	return g.Rows[r][c]
}

// ReadFile loads a data file by extension: .xlsx goes through excelize,
// anything else is read as tab separated values.
func ReadFile(path string) (*Grid, error) {
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		return ReadXLSX(path)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	g, err := ReadTSV(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return g, nil
}

// ReadTSV parses tab separated values with no header row. Blank lines are
// skipped and short rows are padded with empty cells.
func ReadTSV(r io.Reader) (*Grid, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	data, err = decode(data)
	if err != nil {
		return nil, err
	}

	cr := csv.NewReader(bytes.NewReader(data))
	cr.Comma = '\t'
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	var rows [][]string
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if blank(rec) {
			continue
		}
		rows = append(rows, rec)
	}
	return newGrid(rows)
}

// decode turns the file into UTF-8. A byte order mark selects UTF-8 or
// UTF-16; BOM-less input that is not valid UTF-8 is taken as GB18030,
// the usual encoding of tables exported on Chinese Windows.
func decode(data []byte) ([]byte, error) {
	fallback := unicode.UTF8.NewDecoder()
	if !utf8.Valid(data) && !hasUTF16BOM(data) {
		fallback = simplifiedchinese.GB18030.NewDecoder()
	}
	out, _, err := transform.Bytes(unicode.BOMOverride(fallback), data)
	if err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return out, nil
}

func hasUTF16BOM(data []byte) bool {
	return bytes.HasPrefix(data, []byte{0xFF, 0xFE}) || bytes.HasPrefix(data, []byte{0xFE, 0xFF})
}

func blank(rec []string) bool {
	for _, c := range rec {
		if c != "" {
			return false
		}
	}
	return true
}

func newGrid(rows [][]string) (*Grid, error) {
	if len(rows) == 0 {
		return nil, ErrEmpty
	}
	g := &Grid{Rows: rows}
	for _, r := range rows {
		if len(r) > g.Cols {
			g.Cols = len(r)
		}
	}
	for i, r := range rows {
		for len(r) < g.Cols {
			r = append(r, "")
		}
		rows[i] = r
	}
	return g, nil
}
