// Package export renders inventory contents as JSON documents for the
// dashboard collaborators. The batched form wraps the asset list in a
// metadata envelope; the JSONL form writes one asset per line.
package export

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"curator/internal/inventory"
)

const (
	// Version is the export format version consumers pin against.
	Version = "3.1.0"

	// Source identifies the producing pipeline in the envelope.
	Source = "nas_extractor"
)

// Metadata is the envelope header of a batched export.
type Metadata struct {
	Version       string `json:"version"`
	GeneratedAt   string `json:"generated_at"`
	Source        string `json:"source"`
	TotalAssets   int    `json:"total_assets"`
	TotalSegments int    `json:"total_segments"`
}

// Document is the batched export shape.
type Document struct {
	Metadata Metadata `json:"_metadata"`
	Assets   []Asset  `json:"assets"`
}

// Asset is the export projection of an inventory asset. Enumerated fields
// serialize as their string value and datetimes as ISO-8601.
type Asset struct {
	AssetUUID    string `json:"asset_uuid"`
	FileName     string `json:"file_name"`
	FilePath     string `json:"file_path"`
	RelativePath string `json:"relative_path,omitempty"`
	FolderPath   string `json:"folder_path,omitempty"`
	Extension    string `json:"extension,omitempty"`
	SizeBytes    int64  `json:"size_bytes"`
	ModifiedAt   string `json:"modified_at,omitempty"`

	Brand     string `json:"brand"`
	AssetType string `json:"asset_type"`

	Year        int    `json:"year,omitempty"`
	EventType   string `json:"event_type,omitempty"`
	EventNumber int    `json:"event_number,omitempty"`
	Season      int    `json:"season,omitempty"`
	Episode     int    `json:"episode,omitempty"`
	DayLabel    string `json:"day_label,omitempty"`
	Location    string `json:"location,omitempty"`

	TechSpec     *inventory.TechSpec     `json:"tech_spec,omitempty"`
	FilenameMeta *inventory.FilenameMeta `json:"filename_meta,omitempty"`

	Classification       string  `json:"classification,omitempty"`
	ClassificationReason string  `json:"classification_reason,omitempty"`
	Confidence           float64 `json:"confidence"`
	ParseMethod          string  `json:"parse_method"`
	ContentHash          string  `json:"content_hash,omitempty"`
	SourceOrigin         string  `json:"source_origin,omitempty"`

	PokerGoMatched bool `json:"pokergo_matched"`

	Segments []Segment `json:"segments,omitempty"`
}

// Segment is the export projection of a hand segment.
type Segment struct {
	RowNumber   int      `json:"row_number"`
	TimeInSec   float64  `json:"time_in_sec"`
	TimeOutSec  float64  `json:"time_out_sec"`
	SegmentType string   `json:"segment_type"`
	Players     []string `json:"players,omitempty"`
	Winner      string   `json:"winner,omitempty"`
	PotSize     float64  `json:"pot_size,omitempty"`
	ActionTags  []string `json:"action_tags,omitempty"`
	EmotionTags []string `json:"emotion_tags,omitempty"`
}

// FromAsset converts an inventory row to the export projection, attaching
// the given segments.
func FromAsset(asset inventory.Asset, segments []inventory.Segment) Asset {
	out := Asset{
		AssetUUID:            asset.UUID,
		FileName:             asset.FileName,
		FilePath:             asset.FilePath,
		RelativePath:         asset.RelativePath,
		FolderPath:           asset.FolderPath,
		Extension:            asset.Extension,
		SizeBytes:            asset.SizeBytes,
		Brand:                string(asset.Brand),
		AssetType:            string(asset.AssetType),
		Year:                 asset.Year,
		EventType:            string(asset.EventType),
		EventNumber:          asset.EventNumber,
		Season:               asset.Season,
		Episode:              asset.Episode,
		DayLabel:             asset.DayLabel,
		Location:             asset.Location,
		TechSpec:             asset.TechSpec,
		Classification:       asset.Classification,
		ClassificationReason: asset.ClassificationReason,
		Confidence:           asset.Confidence,
		ParseMethod:          asset.ParseMethod,
		ContentHash:          asset.ContentHash,
		SourceOrigin:         asset.SourceOrigin,
		PokerGoMatched:       asset.PokerGoMatched,
	}
	if !asset.ModifiedAt.IsZero() {
		out.ModifiedAt = asset.ModifiedAt.UTC().Format(time.RFC3339)
	}
	if !asset.Meta.Empty() {
		meta := asset.Meta
		out.FilenameMeta = &meta
	}
	for _, s := range segments {
		out.Segments = append(out.Segments, Segment{
			RowNumber:   s.RowNumber,
			TimeInSec:   s.TimeInSec,
			TimeOutSec:  s.TimeOutSec,
			SegmentType: s.SegmentType,
			Players:     s.Players,
			Winner:      s.Winner,
			PotSize:     s.PotSize,
			ActionTags:  s.ActionTags,
			EmotionTags: s.EmotionTags,
		})
	}
	return out
}

// WriteJSON writes the batched envelope form.
func WriteJSON(w io.Writer, assets []Asset) error {
	doc := Document{
		Metadata: Metadata{
			Version:     Version,
			GeneratedAt: time.Now().UTC().Format(time.RFC3339),
			Source:      Source,
			TotalAssets: len(assets),
		},
		Assets: assets,
	}
	if doc.Assets == nil {
		doc.Assets = []Asset{}
	}
	for _, a := range assets {
		doc.Metadata.TotalSegments += len(a.Segments)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode export: %w", err)
	}
	return nil
}

// WriteJSONL writes one asset per line with no wrapper.
func WriteJSONL(w io.Writer, assets []Asset) error {
	enc := json.NewEncoder(w)
	for _, a := range assets {
		if err := enc.Encode(a); err != nil {
			return fmt.Errorf("encode export line: %w", err)
		}
	}
	return nil
}
