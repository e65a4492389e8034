package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
)

// CSVSerializer renders datasets as RFC 4180 CSV: fields containing commas or
// quotes are wrapped in double quotes with internal quotes doubled.
type CSVSerializer struct{}

// NewCSVSerializer builds a CSV serializer.
func NewCSVSerializer() *CSVSerializer {
	return &CSVSerializer{}
}

// Render produces CSV encoded bytes for the dataset.
func (s *CSVSerializer) Render(data Dataset) ([]byte, error) {
	if len(data.Fields) == 0 {
		return nil, fmt.Errorf("csv requires at least one field")
	}
	buf := &bytes.Buffer{}
	writer := csv.NewWriter(buf)
	if err := writer.Write(data.Fields); err != nil {
		return nil, fmt.Errorf("write csv header: %w", err)
	}
	for _, row := range data.Rows {
		record := make([]string, len(data.Fields))
		for i, field := range data.Fields {
			record[i] = stringify(row[field])
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("write csv row: %w", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return buf.Bytes(), nil
}

// ContentType returns the CSV MIME type.
func (s *CSVSerializer) ContentType() string { return "text/csv" }

// Extension returns the file extension without a dot.
func (s *CSVSerializer) Extension() string { return "csv" }
