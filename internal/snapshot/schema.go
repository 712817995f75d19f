package snapshot

import (
	"bytes"
	"encoding/json"
	"fmt"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

const schemaURL = "snapshot.schema.json"

// Titles must be non-empty; description may be absent or null (older
// snapshots were written by a browser app that never enforced it).
const schemaJSON = `{
  "type": "array",
  "items": {
    "type": "object",
    "required": ["title"],
    "properties": {
      "title": {"type": "string", "minLength": 1, "pattern": "\\S"},
      "description": {"type": ["string", "null"]}
    }
  }
}`

var schema = jsonschema.MustCompileString(schemaURL, schemaJSON)

func validate(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var doc interface{}
	if err := dec.Decode(&doc); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if dec.More() {
		return fmt.Errorf("%w: trailing data", ErrMalformed)
	}
	if err := schema.Validate(doc); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return nil
}
