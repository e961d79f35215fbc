package subscription

import (
	"encoding/json"
	"fmt"
	"io"
)

// WriteJSON writes records as a two-space indented JSON array.
func WriteJSON(w io.Writer, records []Record) error {
	out := make([]Record, len(records))
	for i, r := range records {
		out[i] = r.Clone()
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encode records: %w", err)
	}
	return nil
}

// ReadJSON decodes a previous export and checks its invariants.
func ReadJSON(r io.Reader) ([]Record, error) {
	var records []Record
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		return nil, fmt.Errorf("decode records: %w", err)
	}
	records = Normalize(records)
	if err := Validate(records); err != nil {
		return nil, fmt.Errorf("invalid export: %w", err)
	}
	return records, nil
}
