package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

type CSVReader struct{}

func (r *CSVReader) Read(path string) (Sheet, error) {
	file, err := os.Open(path)
	if err != nil {
		return Sheet{}, fmt.Errorf("open csv file %s: %w", path, err)
	}
	defer file.Close()

	return readCSV(file)
}

func readCSV(input io.Reader) (Sheet, error) {
	// Spreadsheet tools often prepend a BOM, and some export UTF-16.
	decoder := unicode.BOMOverride(unicode.UTF8.NewDecoder())
	reader := csv.NewReader(transform.NewReader(input, decoder))
	reader.FieldsPerRecord = -1

	headers, err := reader.Read()
	if err != nil {
		return Sheet{}, fmt.Errorf("read csv header: %w", err)
	}

	rows := make([][]string, 0, 128)
	rowNumber := 1
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return Sheet{}, fmt.Errorf("read csv row %d: %w", rowNumber+1, err)
		}
		rows = append(rows, row)
		rowNumber++
	}

	return Sheet{Headers: headers, Records: buildRecords(headers, rows, 2)}, nil
}
