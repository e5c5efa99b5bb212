package importer

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

type ExcelReader struct{}

func (r *ExcelReader) Read(path string) (Sheet, error) {
	file, err := excelize.OpenFile(path)
	if err != nil {
		return Sheet{}, fmt.Errorf("open excel file %s: %w", path, err)
	}
	defer file.Close()

	sheetName := file.GetSheetName(0)
	if sheetName == "" {
		return Sheet{}, fmt.Errorf("excel file has no sheets: %s", path)
	}

	rows, err := file.GetRows(sheetName)
	if err != nil {
		return Sheet{}, fmt.Errorf("read rows from sheet %s: %w", sheetName, err)
	}
	if len(rows) == 0 {
		return Sheet{}, fmt.Errorf("sheet %s is empty", sheetName)
	}
	rawRows, err := file.GetRows(sheetName, excelize.Options{RawCellValue: true})
	if err != nil {
		return Sheet{}, fmt.Errorf("read raw rows from sheet %s: %w", sheetName, err)
	}
	props, err := file.GetWorkbookProps()
	if err != nil {
		return Sheet{}, fmt.Errorf("read workbook properties: %w", err)
	}
	date1904 := props.Date1904 != nil && *props.Date1904

	headers := rows[0]
	records := buildRecords(headers, rows[1:], 2)
	for i := range records {
		if i+1 >= len(rawRows) {
			break
		}
		records[i].Serials = formattedSerials(headers, rows[i+1], rawRows[i+1])
		records[i].Date1904 = date1904
	}
	return Sheet{Headers: headers, Records: records}, nil
}

// formattedSerials collects the numeric cells whose displayed text differs
// from the stored value, which is how date cells surface.
func formattedSerials(headers, displayed, raw []string) map[string]float64 {
	var serials map[string]float64
	for col, header := range headers {
		key := normalizeHeader(header)
		if key == "" || col >= len(raw) {
			continue
		}
		value := strings.TrimSpace(raw[col])
		shown := ""
		if col < len(displayed) {
			shown = strings.TrimSpace(displayed[col])
		}
		if value == "" || value == shown {
			continue
		}
		serial, err := strconv.ParseFloat(value, 64)
		if err != nil {
			continue
		}
		if serials == nil {
			serials = make(map[string]float64)
		}
		serials[key] = serial
	}
	return serials
}
