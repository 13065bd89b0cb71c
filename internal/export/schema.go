package export

import (
	"encoding/json"
	"fmt"
	"io"

	"curator/internal/inventory"
)

// WriteSchema emits the JSON Schema of the batched export document so
// downstream consumers can validate without importing this module.
func WriteSchema(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(documentSchema()); err != nil {
		return fmt.Errorf("encode schema: %w", err)
	}
	return nil
}

func documentSchema() map[string]any {
	brands := make([]string, 0, len(inventory.AllBrands()))
	for _, b := range inventory.AllBrands() {
		brands = append(brands, string(b))
	}

	return map[string]any{
		"$schema": "https://json-schema.org/draft/2020-12/schema",
		"$id":     "https://curator.dev/export.schema.json",
		"title":   "Archive inventory export",
		"type":    "object",
		"required": []string{"_metadata", "assets"},
		"properties": map[string]any{
			"_metadata": map[string]any{
				"type":     "object",
				"required": []string{"version", "generated_at", "source", "total_assets", "total_segments"},
				"properties": map[string]any{
					"version":        map[string]any{"type": "string", "const": Version},
					"generated_at":   map[string]any{"type": "string", "format": "date-time"},
					"source":         map[string]any{"type": "string"},
					"total_assets":   map[string]any{"type": "integer", "minimum": 0},
					"total_segments": map[string]any{"type": "integer", "minimum": 0},
				},
			},
			"assets": map[string]any{
				"type":  "array",
				"items": assetSchema(brands),
			},
		},
	}
}

func assetSchema(brands []string) map[string]any {
	return map[string]any{
		"type":     "object",
		"required": []string{"asset_uuid", "file_name", "file_path", "brand", "asset_type", "confidence", "parse_method"},
		"properties": map[string]any{
			"asset_uuid":            map[string]any{"type": "string", "format": "uuid"},
			"file_name":             map[string]any{"type": "string"},
			"file_path":             map[string]any{"type": "string"},
			"relative_path":         map[string]any{"type": "string"},
			"folder_path":           map[string]any{"type": "string"},
			"extension":             map[string]any{"type": "string"},
			"size_bytes":            map[string]any{"type": "integer", "minimum": 0},
			"modified_at":           map[string]any{"type": "string", "format": "date-time"},
			"brand":                 map[string]any{"type": "string", "enum": brands},
			"asset_type":            map[string]any{"type": "string"},
			"year":                  map[string]any{"type": "integer"},
			"event_type":            map[string]any{"type": "string", "enum": []string{"ME", "BE", "SE", "CIRCUIT", "CASH_GAME"}},
			"event_number":          map[string]any{"type": "integer"},
			"season":                map[string]any{"type": "integer"},
			"episode":               map[string]any{"type": "integer"},
			"day_label":             map[string]any{"type": "string"},
			"location":              map[string]any{"type": "string"},
			"tech_spec":             map[string]any{"type": "object"},
			"filename_meta":         map[string]any{"type": "object"},
			"classification":        map[string]any{"type": "string"},
			"classification_reason": map[string]any{"type": "string"},
			"confidence":            map[string]any{"type": "number", "minimum": 0, "maximum": 1},
			"parse_method":          map[string]any{"type": "string"},
			"content_hash":          map[string]any{"type": "string"},
			"source_origin":         map[string]any{"type": "string"},
			"pokergo_matched":       map[string]any{"type": "boolean"},
			"segments": map[string]any{
				"type":  "array",
				"items": segmentSchema(),
			},
		},
	}
}

func segmentSchema() map[string]any {
	return map[string]any{
		"type":     "object",
		"required": []string{"row_number", "time_in_sec", "time_out_sec", "segment_type"},
		"properties": map[string]any{
			"row_number":   map[string]any{"type": "integer", "minimum": 1},
			"time_in_sec":  map[string]any{"type": "number", "minimum": 0},
			"time_out_sec": map[string]any{"type": "number", "exclusiveMinimum": 0},
			"segment_type": map[string]any{"type": "string"},
			"players":      map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
			"winner":       map[string]any{"type": "string"},
			"pot_size":     map[string]any{"type": "number"},
			"action_tags":  map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
			"emotion_tags": map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
		},
	}
}
