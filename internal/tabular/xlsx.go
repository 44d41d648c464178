package tabular

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// ReadXLSX loads the first sheet of a workbook. Values are read as
// formatted cell strings, the way they show in Excel.
func ReadXLSX(path string) (*Grid, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%s: %w", path, ErrEmpty)
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	kept := rows[:0]
	for _, r := range rows {
		if !blank(r) {
			kept = append(kept, r)
		}
	}
	g, err := newGrid(kept)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return g, nil
}
