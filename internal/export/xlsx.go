package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/heartmarshall/scholarship-backend/internal/domain"
)

// SheetName is the worksheet holding the exported rows.
const SheetName = "Applications"

// XLSX renders apps as a single-sheet workbook. Income is written as a
// number cell; everything else as text.
func XLSX(apps []domain.Application) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	header := make([]any, len(Columns))
	for i, c := range Columns {
		header[i] = c
	}
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}

	for i, app := range apps {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		values := []any{
			app.ID,
			app.Name,
			app.Reg,
			app.Dept,
			app.Income,
			app.Status.String(),
			app.SubmittedISO(),
		}
		if err := f.SetSheetRow(SheetName, cell, &values); err != nil {
			return nil, fmt.Errorf("write row %d: %w", i+1, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}
