package export

import (
	"encoding/json"
	"fmt"
)

// JSONSerializer renders datasets as a pretty-printed array of record
// objects. Timestamp values are expected to arrive already normalized to
// their textual representation.
type JSONSerializer struct{}

// NewJSONSerializer builds a JSON serializer.
func NewJSONSerializer() *JSONSerializer {
	return &JSONSerializer{}
}

// Render produces an indented JSON array for the dataset rows.
func (s *JSONSerializer) Render(data Dataset) ([]byte, error) {
	rows := data.Rows
	if rows == nil {
		rows = []map[string]interface{}{}
	}
	payload, err := json.MarshalIndent(rows, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal json export: %w", err)
	}
	return payload, nil
}

// ContentType returns the JSON MIME type.
func (s *JSONSerializer) ContentType() string { return "application/json" }

// Extension returns the file extension without a dot.
func (s *JSONSerializer) Extension() string { return "json" }
