package inventory

import (
	"fmt"
	"time"

	"curator/internal/services"
)

// minYear is the floor of the plausible production year range. Values below
// it indicate a parse artifact, not pre-1970 material.
const minYear = 1970

// ValidateAsset checks the invariants an asset row must satisfy before it
// reaches the database.
func ValidateAsset(a *Asset) error {
	if a.UUID == "" {
		return services.Wrap(services.ErrValidation, "store", "asset", "missing asset_uuid", nil)
	}
	if a.FilePath == "" {
		return services.Wrap(services.ErrValidation, "store", "asset", "missing file_path", nil)
	}
	if a.FileName == "" {
		return services.Wrap(services.ErrValidation, "store", "asset", "missing file_name", nil)
	}
	if !a.Brand.Valid() {
		return services.Wrap(services.ErrValidation, "store", "asset", fmt.Sprintf("unknown brand %q", a.Brand), nil)
	}
	if !a.AssetType.Valid() {
		return services.Wrap(services.ErrValidation, "store", "asset", fmt.Sprintf("unknown asset type %q", a.AssetType), nil)
	}
	if a.Year != 0 {
		maxYear := time.Now().Year() + 1
		if a.Year < minYear || a.Year > maxYear {
			return services.Wrap(services.ErrValidation, "store", "asset",
				fmt.Sprintf("year %d outside [%d, %d]", a.Year, minYear, maxYear), nil)
		}
	}
	if a.EventType != "" && !a.EventType.Valid() {
		return services.Wrap(services.ErrValidation, "store", "asset", fmt.Sprintf("unknown event type %q", a.EventType), nil)
	}
	if a.Confidence < 0 || a.Confidence > 1 {
		return services.Wrap(services.ErrValidation, "store", "asset", fmt.Sprintf("confidence %v outside [0, 1]", a.Confidence), nil)
	}
	return nil
}

// ValidateSegment checks segment invariants. Parent existence is enforced by
// the foreign key at insert time.
func ValidateSegment(s *Segment) error {
	if s.ParentAssetUUID == "" {
		return services.Wrap(services.ErrValidation, "store", "segment", "missing parent_asset_uuid", nil)
	}
	if s.TimeInSec < 0 {
		return services.Wrap(services.ErrValidation, "store", "segment", fmt.Sprintf("time_in %v is negative", s.TimeInSec), nil)
	}
	if s.TimeInSec >= s.TimeOutSec {
		return services.Wrap(services.ErrValidation, "store", "segment",
			fmt.Sprintf("time_in %v >= time_out %v", s.TimeInSec, s.TimeOutSec), nil)
	}
	if s.SegmentType == "" {
		return services.Wrap(services.ErrValidation, "store", "segment", "missing segment_type", nil)
	}
	return nil
}

// ValidateCatalogVideo checks catalog row invariants.
func ValidateCatalogVideo(v *CatalogVideo) error {
	if v.VideoID == "" {
		return services.Wrap(services.ErrValidation, "store", "catalog", "missing video_id", nil)
	}
	if v.Title == "" {
		return services.Wrap(services.ErrValidation, "store", "catalog", "missing title", nil)
	}
	if v.Year != 0 {
		maxYear := time.Now().Year() + 1
		if v.Year < minYear || v.Year > maxYear {
			return services.Wrap(services.ErrValidation, "store", "catalog",
				fmt.Sprintf("year %d outside [%d, %d]", v.Year, minYear, maxYear), nil)
		}
	}
	return nil
}

// ValidateMatch checks match row invariants.
func ValidateMatch(m *Match) error {
	if m.AssetUUID == "" || m.VideoID == "" {
		return services.Wrap(services.ErrValidation, "store", "match", "missing asset_uuid or video_id", nil)
	}
	switch m.MatchType {
	case MatchEventDay, MatchTitleSimilarity, MatchManual:
	default:
		return services.Wrap(services.ErrValidation, "store", "match", fmt.Sprintf("unknown match type %q", m.MatchType), nil)
	}
	if m.Confidence < 0 || m.Confidence > 1 {
		return services.Wrap(services.ErrValidation, "store", "match", fmt.Sprintf("confidence %v outside [0, 1]", m.Confidence), nil)
	}
	return nil
}
