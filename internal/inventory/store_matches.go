package inventory

import (
	"context"
	"time"

	"curator/internal/services"
)

// ReplaceMatches clears the matches table, resets both matched flags, and
// inserts the new rows with their flags in one transaction. The matching
// symmetry invariant (flag set iff a match row exists) holds at every commit
// boundary.
func (s *Store) ReplaceMatches(ctx context.Context, matches []Match) error {
	for i := range matches {
		if err := ValidateMatch(&matches[i]); err != nil {
			return err
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return services.Wrap(services.ErrFatal, "store", "replace matches", "begin tx", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM matches`); err != nil {
		return services.Wrap(services.ErrFatal, "store", "replace matches", "clear", err)
	}
	if _, err := tx.ExecContext(ctx, `UPDATE assets SET pokergo_matched = 0 WHERE pokergo_matched != 0`); err != nil {
		return services.Wrap(services.ErrFatal, "store", "replace matches", "reset asset flags", err)
	}
	if _, err := tx.ExecContext(ctx, `UPDATE catalog_videos SET nas_matched = 0 WHERE nas_matched != 0`); err != nil {
		return services.Wrap(services.ErrFatal, "store", "replace matches", "reset catalog flags", err)
	}

	now := timeString(time.Now())
	for i := range matches {
		match := &matches[i]
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO matches (asset_uuid, video_id, match_type, match_confidence, match_reason, verified, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			match.AssetUUID,
			match.VideoID,
			string(match.MatchType),
			match.Confidence,
			match.Reason,
			boolInt(match.Verified),
			now,
		); err != nil {
			return services.Wrap(services.ErrFatal, "store", "replace matches", match.AssetUUID+"/"+match.VideoID, err)
		}
		if _, err := tx.ExecContext(ctx, `UPDATE assets SET pokergo_matched = 1 WHERE asset_uuid = ?`, match.AssetUUID); err != nil {
			return services.Wrap(services.ErrFatal, "store", "replace matches", "flag asset "+match.AssetUUID, err)
		}
		if _, err := tx.ExecContext(ctx, `UPDATE catalog_videos SET nas_matched = 1 WHERE video_id = ?`, match.VideoID); err != nil {
			return services.Wrap(services.ErrFatal, "store", "replace matches", "flag video "+match.VideoID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return services.Wrap(services.ErrFatal, "store", "replace matches", "commit", err)
	}
	return nil
}

// ListMatches returns all match rows ordered by asset_uuid.
func (s *Store) ListMatches(ctx context.Context) ([]Match, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, asset_uuid, video_id, match_type, match_confidence, match_reason, verified, created_at
		FROM matches ORDER BY asset_uuid`)
	if err != nil {
		return nil, services.Wrap(services.ErrFatal, "store", "list matches", "query", err)
	}
	defer rows.Close()

	var matches []Match
	for rows.Next() {
		var (
			match     Match
			verified  int
			createdAt string
		)
		if err := rows.Scan(&match.ID, &match.AssetUUID, &match.VideoID,
			(*string)(&match.MatchType), &match.Confidence, &match.Reason,
			&verified, &createdAt); err != nil {
			return nil, services.Wrap(services.ErrFatal, "store", "list matches", "scan", err)
		}
		match.Verified = verified != 0
		match.CreatedAt = parseTimeString(createdAt)
		matches = append(matches, match)
	}
	return matches, rows.Err()
}

// CoverageRow aggregates match coverage for one (brand, year) slice.
type CoverageRow struct {
	Brand   Brand
	Year    int
	Total   int
	Matched int
}

// Coverage reports matched and total asset counts grouped by brand and year,
// the slice the dashboard collaborators chart.
func (s *Store) Coverage(ctx context.Context) ([]CoverageRow, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT brand, COALESCE(year, 0), COUNT(1), SUM(pokergo_matched)
		FROM assets GROUP BY brand, year ORDER BY brand, year`)
	if err != nil {
		return nil, services.Wrap(services.ErrFatal, "store", "coverage", "query", err)
	}
	defer rows.Close()

	var coverage []CoverageRow
	for rows.Next() {
		var row CoverageRow
		if err := rows.Scan((*string)(&row.Brand), &row.Year, &row.Total, &row.Matched); err != nil {
			return nil, services.Wrap(services.ErrFatal, "store", "coverage", "scan", err)
		}
		coverage = append(coverage, row)
	}
	return coverage, rows.Err()
}
