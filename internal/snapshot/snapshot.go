// Package snapshot encodes and decodes the persisted todo list.
//
// A snapshot is a JSON array of objects carrying "title" and "description",
// in display order. Decoding validates the shape against a JSON Schema before
// the records are accepted; anything else is reported as ErrMalformed.
package snapshot

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/tidwall/jsonc"

	"github.com/Makepad-fr/tada/internal/model"
)

// ErrMalformed marks data that is not a valid snapshot.
var ErrMalformed = errors.New("malformed snapshot")

type wireRecord struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Encode serializes records in order. An empty list encodes as "[]".
func Encode(records []model.Record) ([]byte, error) {
	out := make([]wireRecord, 0, len(records))
	for _, r := range records {
		out = append(out, wireRecord{Title: r.Title, Description: r.Description})
	}
	b, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("json marshal: %w", err)
	}
	return append(b, '\n'), nil
}

// Decode parses a snapshot and assigns a fresh ID to every record.
func Decode(data []byte) ([]model.Record, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, fmt.Errorf("%w: empty", ErrMalformed)
	}
	if err := validate(data); err != nil {
		return nil, err
	}
	var wire []wireRecord
	if err := json.Unmarshal(data, &wire); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	records := make([]model.Record, 0, len(wire))
	for _, w := range wire {
		records = append(records, model.Record{
			ID:          model.NewID(),
			Title:       w.Title,
			Description: w.Description,
		})
	}
	return records, nil
}

// DecodeLenient accepts JSON with comments and trailing commas, as written
// by hand for imports.
func DecodeLenient(data []byte) ([]model.Record, error) {
	return Decode(jsonc.ToJSON(data))
}
