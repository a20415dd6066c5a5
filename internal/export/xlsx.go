package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/lotas/onehandle/internal/types"
)

// sheetName labels the single worksheet in the spreadsheet export.
const sheetName = "Tabs"

// XLSX renders the tab sequence as a binary spreadsheet: one sheet,
// a Title/URL/Domain header row, one row per tab in export order.
func XLSX(tabs []types.TabRecord) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return nil, fmt.Errorf("name sheet: %w", err)
	}
	if err := f.SetSheetRow(sheetName, "A1", &[]any{"Title", "URL", "Domain"}); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}
	for i, tab := range tabs {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, fmt.Errorf("cell for row %d: %w", i+2, err)
		}
		row := []any{tab.Title, tab.URL, tab.Domain}
		if err := f.SetSheetRow(sheetName, cell, &row); err != nil {
			return nil, fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("encode spreadsheet: %w", err)
	}
	return buf.Bytes(), nil
}
