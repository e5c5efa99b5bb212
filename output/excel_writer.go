package output

import (
	"fmt"

	"reviewdash/report"

	"github.com/xuri/excelize/v2"
)

// ExcelWriter writes a single workbook with one sheet per summary and year,
// named "<year> <summary>".
type ExcelWriter struct{}

func (w *ExcelWriter) Write(path string, bundles []report.Bundle) error {
	file := excelize.NewFile()
	defer file.Close()

	defaultSheet := file.GetSheetName(0)
	created := 0
	for _, bundle := range bundles {
		for _, table := range Tables(bundle) {
			sheet := SheetName(bundle.Year, table.Name)
			if _, err := file.NewSheet(sheet); err != nil {
				return fmt.Errorf("create excel sheet %s: %w", sheet, err)
			}
			if err := writeExcelTable(file, sheet, table); err != nil {
				return err
			}
			created++
		}
	}

	if created > 0 {
		if err := file.DeleteSheet(defaultSheet); err != nil {
			return fmt.Errorf("remove default sheet: %w", err)
		}
		file.SetActiveSheet(0)
	}

	if err := file.SaveAs(path); err != nil {
		return fmt.Errorf("save excel output %s: %w", path, err)
	}

	return nil
}

// SheetName builds the sheet name for one summary of one year.
func SheetName(year, table string) string {
	return year + " " + table
}

func writeExcelTable(file *excelize.File, sheet string, table Table) error {
	for col, header := range table.Headers {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := file.SetCellValue(sheet, cell, header); err != nil {
			return fmt.Errorf("set excel header %s: %w", cell, err)
		}
	}

	for i, values := range table.Rows {
		row := i + 2
		for col, value := range values {
			if value == nil {
				continue
			}
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			if err := file.SetCellValue(sheet, cell, value); err != nil {
				return fmt.Errorf("set excel value %s: %w", cell, err)
			}
		}
	}

	return nil
}
