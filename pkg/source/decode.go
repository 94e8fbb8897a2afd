package source

import (
	"fmt"
	"strconv"

	"github.com/xuri/excelize/v2"

	"sheetsync/pkg/worksheet"
)

func DecodeFile(path string) (*worksheet.Grid, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook %s: %w", path, err)
	}
	defer f.Close()
	return decode(f)
}

// decode reads the first sheet with raw (unformatted) values and types each
// cell from its stored type.
func decode(f *excelize.File) (*worksheet.Grid, error) {
	list := f.GetSheetList()
	if len(list) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}
	name := list[0]

	rows, err := f.GetRows(name, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", name, err)
	}

	cells := make([][]worksheet.Cell, len(rows))
	for r, row := range rows {
		cells[r] = make([]worksheet.Cell, len(row))
		for c, raw := range row {
			if raw == "" {
				continue
			}
			axis, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				return nil, err
			}
			typ, err := f.GetCellType(name, axis)
			if err != nil {
				return nil, fmt.Errorf("failed to read cell type at %s: %w", axis, err)
			}
			cells[r][c] = typedCell(raw, typ)
		}
	}
	return worksheet.NewGrid(cells), nil
}

func typedCell(raw string, typ excelize.CellType) worksheet.Cell {
	switch typ {
	case excelize.CellTypeSharedString, excelize.CellTypeInlineString, excelize.CellTypeError:
		return worksheet.TextCell(raw)
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		return worksheet.NumberCell(f)
	}
	return worksheet.TextCell(raw)
}
