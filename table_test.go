package wordwriter

import (
	"path/filepath"
	"strconv"
	"testing"

	"github.com/fumiama/go-docx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/little-yangyang/wordwriter/internal/tabular"
)

// styledCell is a cell with a vertical alignment, centered paragraph and
// formatted first run.
func styledCell(text, bottom string) string {
	tcPr := `<w:tcPr><w:vAlign w:val="center"/>`
	if bottom != "" {
		tcPr += `<w:tcBorders>` + bottom + `</w:tcBorders>`
	}
	tcPr += `</w:tcPr>`
	run := `<w:r><w:rPr><w:rFonts w:ascii="Arial" w:hAnsi="Arial"/><w:b/><w:sz w:val="28"/><w:color w:val="FF0000"/></w:rPr>` +
		`<w:t>` + text + `</w:t></w:r>`
	return `<w:tc>` + tcPr + `<w:p><w:pPr><w:jc w:val="center"/></w:pPr>` + run + `</w:p></w:tc>`
}

func bottom(sz int, color string) string {
	if sz == 0 {
		return `<w:bottom w:val="single" w:color="` + color + `"/>`
	}
	return `<w:bottom w:val="single" w:sz="` + strconv.Itoa(sz) + `" w:space="0" w:color="` + color + `"/>`
}

// scoresTable has a header row, a filler row, the anchor at row 2 and a
// trailing row.
func scoresTable(trailingBottom string) string {
	return `<w:tbl><w:tblPr><w:tblBorders>` + bottom(12, "000000") + `</w:tblBorders></w:tblPr>` +
		row(cell(para("Name")), cell(para("Score"))) +
		row(cell(para("fixed")), cell(para("row"))) +
		`<w:tr>` + styledCell("#[TABLE-t1]#", bottom(4, "00FF00")) + styledCell("", bottom(4, "00FF00")) + `</w:tr>` +
		`<w:tr>` + styledCell("", trailingBottom) + styledCell("", trailingBottom) + `</w:tr>` +
		`</w:tbl>`
}

func TestFillTableTwoByTwo(t *testing.T) {
	data := writeFile(t, "t1.tsv", "a\tb\nc\td\n")
	w := openTemplate(t, template{body: scoresTable(bottom(8, "0000FF"))})

	require.NoError(t, w.Replace(map[string]string{"#[TABLE-t1]#": data}))

	tb := bodyTables(w)[0]
	assert.Equal(t, [][]string{
		{"Name", "Score"},
		{"fixed", "row"},
		{"a", "b"},
		{"c", "d"},
	}, tableTexts(tb))
}

func TestFillTableGrowsAndPrunes(t *testing.T) {
	data := writeFile(t, "t1.tsv", "1\tx\n2\ty\n3\tz\n4\tw\n")
	w := openTemplate(t, template{body: scoresTable("")})

	require.NoError(t, w.Replace(map[string]string{"#[TABLE-t1]#": data}))

	texts := tableTexts(bodyTables(w)[0])
	require.Len(t, texts, 6)
	assert.Equal(t, []string{"4", "w"}, texts[5])
}

func TestFillTableShortDataPrunesTrailingRows(t *testing.T) {
	data := writeFile(t, "t1.tsv", "only\tone\n")
	w := openTemplate(t, template{body: scoresTable("")})

	require.NoError(t, w.Replace(map[string]string{"#[TABLE-t1]#": data}))

	// the empty trailing row goes away
	assert.Equal(t, [][]string{
		{"Name", "Score"},
		{"fixed", "row"},
		{"only", "one"},
	}, tableTexts(bodyTables(w)[0]))
}

func TestFillTableKeepsAnchorFormatting(t *testing.T) {
	data := writeFile(t, "t1.tsv", "a\tb\nc\td\ne\tf\n")
	w := openTemplate(t, template{body: scoresTable("")})

	require.NoError(t, w.Replace(map[string]string{"#[TABLE-t1]#": data}))

	tb := bodyTables(w)[0]
	for _, r := range tb.TableRows[2:] {
		for _, c := range r.TableCells {
			require.NotNil(t, c.TableCellProperties)
			require.NotNil(t, c.TableCellProperties.VAlign)
			assert.Equal(t, "center", c.TableCellProperties.VAlign.Val)

			p := c.Paragraphs[0]
			require.NotNil(t, p.Properties.Justification)
			assert.Equal(t, "center", p.Properties.Justification.Val)

			rp := paragraphRuns(p)[0].RunProperties
			require.NotNil(t, rp)
			assert.NotNil(t, rp.Bold)
			assert.Nil(t, rp.Italic)
			require.NotNil(t, rp.Size)
			assert.Equal(t, "28", rp.Size.Val)
			require.NotNil(t, rp.Fonts)
			assert.Equal(t, "Arial", rp.Fonts.ASCII)
			assert.Equal(t, "Arial", rp.Fonts.EastAsia)
			require.NotNil(t, rp.Color)
			assert.Equal(t, "FF0000", rp.Color.Val)
		}
	}
}

func TestFillTableEscapedNewline(t *testing.T) {
	data := writeFile(t, "t1.tsv", `two\x0alines`+"\tx\n")
	w := openTemplate(t, template{body: scoresTable("")})

	require.NoError(t, w.Replace(map[string]string{"#[TABLE-t1]#": data}))
	assert.Equal(t, "two\nlines", tableTexts(bodyTables(w)[0])[2][0])
}

func TestFillTableTrailingBorderRestored(t *testing.T) {
	data := writeFile(t, "t1.tsv", "a\tb\nc\td\ne\tf\n")
	w := openTemplate(t, template{body: scoresTable(bottom(8, "0000FF"))})

	require.NoError(t, w.Replace(map[string]string{"#[TABLE-t1]#": data}))

	tb := bodyTables(w)[0]
	last := tb.TableRows[len(tb.TableRows)-1]
	for _, c := range last.TableCells {
		assert.Equal(t, Border{Val: "single", Size: 8, Color: "0000FF"}, cellBottom(c))
	}
	// interior rows carry the anchor row border
	mid := tb.TableRows[3]
	assert.Equal(t, Border{Val: "single", Size: 4, Color: "00FF00"}, cellBottom(mid.TableCells[0]))
	assert.Equal(t, Border{Val: "single", Size: 12, Color: "000000"}, tableBottom(tb))
}

func TestFillTableUnsetTrailingBorderUsesTable(t *testing.T) {
	data := writeFile(t, "t1.tsv", "a\tb\nc\td\ne\tf\n")
	w := openTemplate(t, template{body: scoresTable(bottom(0, "auto"))})

	require.NoError(t, w.Replace(map[string]string{"#[TABLE-t1]#": data}))

	tb := bodyTables(w)[0]
	last := tb.TableRows[len(tb.TableRows)-1]
	for _, c := range last.TableCells {
		assert.Equal(t, Border{Val: "single", Size: 12, Color: "000000"}, cellBottom(c))
	}
}

func TestFillTableMismatchedWidthsUseFirstBorder(t *testing.T) {
	// the trailing row has one merged cell where the anchor row has two
	body := `<w:tbl>` +
		`<w:tr>` + styledCell("#[TABLE-t1]#", bottom(4, "00FF00")) + styledCell("", bottom(6, "00FF00")) + `</w:tr>` +
		`<w:tr>` + styledCell("", bottom(8, "0000FF")) + `</w:tr>` +
		`</w:tbl>`
	data := writeFile(t, "t1.tsv", "a\tb\n")
	w := openTemplate(t, template{body: body})

	require.NoError(t, w.Replace(map[string]string{"#[TABLE-t1]#": data}))

	tb := bodyTables(w)[0]
	require.Len(t, tb.TableRows, 1)
	for _, c := range tb.TableRows[0].TableCells {
		assert.Equal(t, Border{Val: "single", Size: 8, Color: "0000FF"}, cellBottom(c))
	}
}

func TestFillTableXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "t1.xlsx")
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetSheetRow(sheet, "A1", &[]interface{}{"x1", "y1"}))
	require.NoError(t, f.SetSheetRow(sheet, "A2", &[]interface{}{"x2", "y2"}))
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	w := openTemplate(t, template{body: scoresTable("")})
	require.NoError(t, w.Replace(map[string]string{"#[TABLE-t1]#": path}))

	texts := tableTexts(bodyTables(w)[0])
	assert.Equal(t, []string{"x1", "y1"}, texts[2])
	assert.Equal(t, []string{"x2", "y2"}, texts[3])
}

func TestDeleteTable(t *testing.T) {
	w := openTemplate(t, template{body: para("before") + scoresTable("") + para("after")})

	require.NoError(t, w.Replace(map[string]string{"#[TABLE-t1]#": DeleteTable}))
	assert.Empty(t, bodyTables(w))
	assert.Equal(t, []string{"before", "after"}, bodyTexts(w))
}

func TestFillTableEmptyData(t *testing.T) {
	data := writeFile(t, "t1.tsv", "")
	w := openTemplate(t, template{body: scoresTable("")})

	err := w.Replace(map[string]string{"#[TABLE-t1]#": data})
	assert.ErrorIs(t, err, ErrEmptyTable)
}

func TestFillTableMissingData(t *testing.T) {
	w := openTemplate(t, template{body: scoresTable("")})

	err := w.Replace(map[string]string{"#[TABLE-t1]#": filepath.Join(t.TempDir(), "none.tsv")})
	assert.Error(t, err)
}

func TestFillTableStaleAnchor(t *testing.T) {
	tb := &docx.Table{TableRows: []*docx.WTableRow{{TableCells: []*docx.WTableCell{{}}}}}
	loc := Location{Kind: TableLocation, Token: "#[TABLE-x]#", Table: tb, anchor: &docx.WTableRow{}}

	err := fillTable(loc, &tabular.Grid{Rows: [][]string{{"a"}}, Cols: 1})
	assert.ErrorIs(t, err, ErrBadCell)
}

func TestTwoAnchorsInOneTable(t *testing.T) {
	body := `<w:tbl>` +
		`<w:tr>` + styledCell("#[TABLE-a]#", "") + `</w:tr>` +
		`<w:tr>` + styledCell("", "") + `</w:tr>` +
		`<w:tr>` + styledCell("#[TABLE-b]#", "") + `</w:tr>` +
		`</w:tbl>`
	first := writeFile(t, "a.tsv", "t1\n")
	second := writeFile(t, "b.tsv", "b1\nb2\n")
	w := openTemplate(t, template{body: body})

	require.NoError(t, w.Replace(map[string]string{"#[TABLE-a]#": first, "#[TABLE-b]#": second}))

	// the first fill prunes the empty middle row, moving the second anchor up
	assert.Equal(t, [][]string{{"t1"}, {"b1"}, {"b2"}}, tableTexts(bodyTables(w)[0]))
}
