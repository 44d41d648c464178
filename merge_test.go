package wordwriter

import (
	"testing"

	"github.com/fumiama/go-docx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func textTable(rows ...[]string) *docx.Table {
	tb := &docx.Table{}
	for _, r := range rows {
		tr := &docx.WTableRow{}
		for _, text := range r {
			c := &docx.WTableCell{Paragraphs: []*docx.Paragraph{{}}}
			setCellText(c, text)
			tr.TableCells = append(tr.TableCells, c)
		}
		tb.TableRows = append(tb.TableRows, tr)
	}
	return tb
}

func vmerge(c *docx.WTableCell) string {
	if c.TableCellProperties == nil || c.TableCellProperties.VMerge == nil {
		return "-"
	}
	return c.TableCellProperties.VMerge.Val
}

func TestEqualRuns(t *testing.T) {
	tb := textTable([]string{"a"}, []string{"a"}, []string{"b"}, []string{"c"}, []string{"c"}, []string{"c"})
	assert.Equal(t, [][2]int{{0, 1}, {3, 5}}, equalRuns(tb, 0))

	assert.Empty(t, equalRuns(textTable([]string{"a"}, []string{"b"}), 0))
}

func TestMergeTableRowClears(t *testing.T) {
	tb := textTable(
		[]string{"east", "1"},
		[]string{"east", "2"},
		[]string{"west", "3"},
	)
	MergeTableRow(tb, 0, true)

	assert.Equal(t, "restart", vmerge(tb.TableRows[0].TableCells[0]))
	assert.Equal(t, "", vmerge(tb.TableRows[1].TableCells[0]))
	assert.Equal(t, "-", vmerge(tb.TableRows[2].TableCells[0]))
	assert.Equal(t, "east", cellText(tb.TableRows[0].TableCells[0]))
	assert.Empty(t, cellText(tb.TableRows[1].TableCells[0]))
	// other columns are untouched
	assert.Equal(t, "-", vmerge(tb.TableRows[0].TableCells[1]))
}

func TestMergeTableRowMovesContent(t *testing.T) {
	tb := textTable([]string{"x"}, []string{"x"})
	MergeTableRow(tb, 0, false)

	top := tb.TableRows[0].TableCells[0]
	assert.Equal(t, "x\nx", cellText(top))
	assert.Empty(t, cellText(tb.TableRows[1].TableCells[0]))
}

func TestWriterMergeRowsAfterFill(t *testing.T) {
	body := `<w:tbl>` +
		row(cell(para("Region")), cell(para("City"))) +
		`<w:tr>` + styledCell("#[TABLE-cities]#", "") + styledCell("", "") + `</w:tr>` +
		`</w:tbl>`
	data := writeFile(t, "cities.tsv", "north\tA\nnorth\tB\nsouth\tC\n")
	w := openTemplate(t, template{body: body})

	require.NoError(t, w.Replace(map[string]string{"#[TABLE-cities]#": data}))
	require.NoError(t, w.MergeRows("#[TABLE-cities]#", 0, true))

	tb := bodyTables(w)[0]
	require.Len(t, tb.TableRows, 4)
	assert.Equal(t, "restart", vmerge(tb.TableRows[1].TableCells[0]))
	assert.Equal(t, "", vmerge(tb.TableRows[2].TableCells[0]))
	assert.Equal(t, "-", vmerge(tb.TableRows[3].TableCells[0]))
}
