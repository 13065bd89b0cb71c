package inventory

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"curator/internal/services"
)

const assetColumns = `asset_uuid, file_name, file_path, relative_path, folder_path, extension,
	size_bytes, modified_at, brand, asset_type, year, event_type, event_number, season, episode,
	day_label, location, tech_spec_json, filename_meta_json, classification, classification_reason,
	confidence, parse_method, content_hash, source_origin, pokergo_matched, created_at, updated_at`

// UpsertAssets writes assets keyed by asset_uuid in batches. Rows that fail
// validation are returned in rejected and do not abort the batch; any other
// error aborts the pass.
func (s *Store) UpsertAssets(ctx context.Context, assets []Asset) (rejected []RowError, err error) {
	for start := 0; start < len(assets); start += batchSize {
		end := min(start+batchSize, len(assets))
		batchRejected, err := s.upsertAssetBatch(ctx, assets[start:end])
		if err != nil {
			return rejected, err
		}
		rejected = append(rejected, batchRejected...)
	}
	return rejected, nil
}

func (s *Store) upsertAssetBatch(ctx context.Context, assets []Asset) ([]RowError, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, services.Wrap(services.ErrFatal, "store", "upsert assets", "begin tx", err)
	}
	defer func() { _ = tx.Rollback() }()

	var rejected []RowError
	now := timeString(time.Now())
	for i := range assets {
		asset := &assets[i]
		if verr := ValidateAsset(asset); verr != nil {
			rejected = append(rejected, RowError{Key: asset.FilePath, Err: verr})
			continue
		}

		metaJSON, err := json.Marshal(asset.Meta)
		if err != nil {
			return nil, services.Wrap(services.ErrFatal, "store", "upsert assets", "marshal filename meta", err)
		}
		var techJSON any
		if asset.TechSpec != nil {
			raw, err := json.Marshal(asset.TechSpec)
			if err != nil {
				return nil, services.Wrap(services.ErrFatal, "store", "upsert assets", "marshal tech spec", err)
			}
			techJSON = string(raw)
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO assets (`+assetColumns+`)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT (asset_uuid) DO UPDATE SET
				file_name = excluded.file_name,
				file_path = excluded.file_path,
				relative_path = excluded.relative_path,
				folder_path = excluded.folder_path,
				extension = excluded.extension,
				size_bytes = excluded.size_bytes,
				modified_at = excluded.modified_at,
				brand = excluded.brand,
				asset_type = excluded.asset_type,
				year = excluded.year,
				event_type = excluded.event_type,
				event_number = excluded.event_number,
				season = excluded.season,
				episode = excluded.episode,
				day_label = excluded.day_label,
				location = excluded.location,
				filename_meta_json = excluded.filename_meta_json,
				classification = excluded.classification,
				classification_reason = excluded.classification_reason,
				confidence = excluded.confidence,
				parse_method = excluded.parse_method,
				content_hash = excluded.content_hash,
				source_origin = excluded.source_origin,
				updated_at = excluded.updated_at`,
			asset.UUID,
			asset.FileName,
			asset.FilePath,
			asset.RelativePath,
			asset.FolderPath,
			asset.Extension,
			asset.SizeBytes,
			nullableString(timeOrEmpty(asset.ModifiedAt)),
			string(asset.Brand),
			string(asset.AssetType),
			nullableInt(asset.Year),
			nullableString(string(asset.EventType)),
			nullableInt(asset.EventNumber),
			nullableInt(asset.Season),
			nullableInt(asset.Episode),
			asset.DayLabel,
			asset.Location,
			techJSON,
			string(metaJSON),
			asset.Classification,
			asset.ClassificationReason,
			asset.Confidence,
			asset.ParseMethod,
			asset.ContentHash,
			asset.SourceOrigin,
			boolInt(asset.PokerGoMatched),
			now,
			now,
		)
		if err != nil {
			return nil, services.Wrap(services.ErrFatal, "store", "upsert assets", asset.FilePath, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, services.Wrap(services.ErrFatal, "store", "upsert assets", "commit", err)
	}
	return rejected, nil
}

// GetAsset fetches a single asset by its UUID.
func (s *Store) GetAsset(ctx context.Context, uuid string) (*Asset, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+assetColumns+` FROM assets WHERE asset_uuid = ?`, uuid)
	asset, err := scanAsset(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, services.Wrap(services.ErrNotFound, "store", "get asset", uuid, nil)
	}
	return asset, err
}

// GetAssetByPath fetches a single asset by its absolute file path.
func (s *Store) GetAssetByPath(ctx context.Context, path string) (*Asset, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+assetColumns+` FROM assets WHERE file_path = ?`, path)
	asset, err := scanAsset(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, services.Wrap(services.ErrNotFound, "store", "get asset by path", path, nil)
	}
	return asset, err
}

// AssetFilter narrows ListAssets results. Zero values mean "any".
type AssetFilter struct {
	Brand   Brand
	Year    int
	Matched *bool
	Limit   int
}

// ListAssets returns assets ordered by asset_uuid so that iteration order is
// reproducible across passes.
func (s *Store) ListAssets(ctx context.Context, filter AssetFilter) ([]Asset, error) {
	var (
		clauses []string
		args    []any
	)
	if filter.Brand != "" {
		clauses = append(clauses, "brand = ?")
		args = append(args, string(filter.Brand))
	}
	if filter.Year != 0 {
		clauses = append(clauses, "year = ?")
		args = append(args, filter.Year)
	}
	if filter.Matched != nil {
		clauses = append(clauses, "pokergo_matched = ?")
		args = append(args, boolInt(*filter.Matched))
	}

	query := `SELECT ` + assetColumns + ` FROM assets`
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += " ORDER BY asset_uuid"
	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, services.Wrap(services.ErrFatal, "store", "list assets", "query", err)
	}
	defer rows.Close()

	return collectAssets(rows)
}

// KnownPaths returns the set of file paths currently present for a source
// origin, used by incremental scans to separate new from modified records.
func (s *Store) KnownPaths(ctx context.Context, sourceOrigin string) (map[string]struct{}, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT file_path FROM assets WHERE source_origin = ?`, sourceOrigin)
	if err != nil {
		return nil, services.Wrap(services.ErrFatal, "store", "known paths", sourceOrigin, err)
	}
	defer rows.Close()

	paths := make(map[string]struct{})
	for rows.Next() {
		var path string
		if err := rows.Scan(&path); err != nil {
			return nil, services.Wrap(services.ErrFatal, "store", "known paths", "scan", err)
		}
		paths[path] = struct{}{}
	}
	return paths, rows.Err()
}

// DeleteAssetsBySource removes every asset created from the given source
// origin. Full rescans call this before repopulating. Segments and matches
// cascade.
func (s *Store) DeleteAssetsBySource(ctx context.Context, sourceOrigin string) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM assets WHERE source_origin = ?`, sourceOrigin)
	if err != nil {
		return 0, services.Wrap(services.ErrFatal, "store", "delete assets", sourceOrigin, err)
	}
	deleted, err := res.RowsAffected()
	if err != nil {
		return 0, services.Wrap(services.ErrFatal, "store", "delete assets", "rows affected", err)
	}
	return deleted, nil
}

// UpdateTechSpec stores probe results for one asset.
func (s *Store) UpdateTechSpec(ctx context.Context, uuid string, spec TechSpec) error {
	raw, err := json.Marshal(spec)
	if err != nil {
		return services.Wrap(services.ErrFatal, "store", "update tech spec", "marshal", err)
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE assets SET tech_spec_json = ?, updated_at = ? WHERE asset_uuid = ?`,
		string(raw), timeString(time.Now()), uuid)
	if err != nil {
		return services.Wrap(services.ErrFatal, "store", "update tech spec", uuid, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return services.Wrap(services.ErrFatal, "store", "update tech spec", "rows affected", err)
	}
	if affected == 0 {
		return services.Wrap(services.ErrNotFound, "store", "update tech spec", uuid, nil)
	}
	return nil
}

// AssetsMissingTechSpec lists assets the probe pass still needs to visit.
func (s *Store) AssetsMissingTechSpec(ctx context.Context, limit int) ([]Asset, error) {
	query := `SELECT ` + assetColumns + ` FROM assets WHERE tech_spec_json IS NULL ORDER BY asset_uuid`
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", limit)
	}
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, services.Wrap(services.ErrFatal, "store", "assets missing tech spec", "query", err)
	}
	defer rows.Close()
	return collectAssets(rows)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAsset(row rowScanner) (*Asset, error) {
	var (
		asset       Asset
		modifiedAt  sql.NullString
		year        sql.NullInt64
		eventType   sql.NullString
		eventNumber sql.NullInt64
		season      sql.NullInt64
		episode     sql.NullInt64
		techJSON    sql.NullString
		metaJSON    string
		matched     int
		createdAt   string
		updatedAt   string
	)
	err := row.Scan(
		&asset.UUID,
		&asset.FileName,
		&asset.FilePath,
		&asset.RelativePath,
		&asset.FolderPath,
		&asset.Extension,
		&asset.SizeBytes,
		&modifiedAt,
		(*string)(&asset.Brand),
		(*string)(&asset.AssetType),
		&year,
		&eventType,
		&eventNumber,
		&season,
		&episode,
		&asset.DayLabel,
		&asset.Location,
		&techJSON,
		&metaJSON,
		&asset.Classification,
		&asset.ClassificationReason,
		&asset.Confidence,
		&asset.ParseMethod,
		&asset.ContentHash,
		&asset.SourceOrigin,
		&matched,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	asset.ModifiedAt = parseTimeString(modifiedAt.String)
	asset.Year = int(year.Int64)
	asset.EventType = EventType(eventType.String)
	asset.EventNumber = int(eventNumber.Int64)
	asset.Season = int(season.Int64)
	asset.Episode = int(episode.Int64)
	asset.PokerGoMatched = matched != 0
	asset.CreatedAt = parseTimeString(createdAt)
	asset.UpdatedAt = parseTimeString(updatedAt)

	if metaJSON != "" {
		if err := json.Unmarshal([]byte(metaJSON), &asset.Meta); err != nil {
			return nil, fmt.Errorf("decode filename meta for %s: %w", asset.UUID, err)
		}
	}
	if techJSON.Valid && techJSON.String != "" {
		spec := &TechSpec{}
		if err := json.Unmarshal([]byte(techJSON.String), spec); err != nil {
			return nil, fmt.Errorf("decode tech spec for %s: %w", asset.UUID, err)
		}
		asset.TechSpec = spec
	}
	return &asset, nil
}

func collectAssets(rows *sql.Rows) ([]Asset, error) {
	var assets []Asset
	for rows.Next() {
		asset, err := scanAsset(rows)
		if err != nil {
			return nil, services.Wrap(services.ErrFatal, "store", "list assets", "scan", err)
		}
		assets = append(assets, *asset)
	}
	return assets, rows.Err()
}

func timeOrEmpty(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return timeString(t)
}
