package main

import (
	"bytes"
	"encoding/json"
	"unicode"
)

// decodeDump reads the rows of a catalog or segment dump. Both shapes the
// trackers export are accepted: a top-level JSON array, or JSONL with one
// object per line.
func decodeDump(data []byte) ([]json.RawMessage, error) {
	trimmed := bytes.TrimLeftFunc(data, unicode.IsSpace)
	if len(trimmed) == 0 || trimmed[0] == '[' {
		var rows []json.RawMessage
		if err := json.Unmarshal(data, &rows); err != nil {
			return nil, err
		}
		return rows, nil
	}

	var rows []json.RawMessage
	dec := json.NewDecoder(bytes.NewReader(data))
	for dec.More() {
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, err
		}
		rows = append(rows, raw)
	}
	return rows, nil
}
