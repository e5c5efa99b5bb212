package importer

import "fmt"

// Sheet is the tabular content of one input file: the header row as written
// in the source and one Record per data row.
type Sheet struct {
	Headers []string
	Records []Record
}

type Reader interface {
	Read(path string) (Sheet, error)
}

func ReaderForFormat(format string) (Reader, error) {
	switch normalizeHeader(format) {
	case "csv":
		return &CSVReader{}, nil
	case "excel", "xlsx", "xlsm", "xls":
		return &ExcelReader{}, nil
	default:
		return nil, fmt.Errorf("unsupported input format: %s", format)
	}
}

func buildRecords(headers []string, rows [][]string, firstRowNumber int) []Record {
	normalizedHeaders := make([]string, len(headers))
	for i, header := range headers {
		normalizedHeaders[i] = normalizeHeader(header)
	}

	records := make([]Record, 0, len(rows))
	for i, row := range rows {
		values := make(map[string]string, len(normalizedHeaders))
		for col, header := range normalizedHeaders {
			if header == "" {
				continue
			}
			if col < len(row) {
				values[header] = row[col]
			} else {
				values[header] = ""
			}
		}
		records = append(records, Record{RowNumber: firstRowNumber + i, Values: values})
	}
	return records
}
