package inventory

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"curator/internal/services"
)

const catalogColumns = `video_id, title, duration_sec, brand, year, event_number, season, episode,
	day_label, content_type, series_name, metadata_json, nas_matched, created_at, updated_at`

// UpsertCatalogVideos writes catalog entries keyed by video_id in batches.
// Validation failures are returned in rejected; the batch continues.
func (s *Store) UpsertCatalogVideos(ctx context.Context, videos []CatalogVideo) (rejected []RowError, err error) {
	for start := 0; start < len(videos); start += batchSize {
		end := min(start+batchSize, len(videos))
		batchRejected, err := s.upsertCatalogBatch(ctx, videos[start:end])
		if err != nil {
			return rejected, err
		}
		rejected = append(rejected, batchRejected...)
	}
	return rejected, nil
}

func (s *Store) upsertCatalogBatch(ctx context.Context, videos []CatalogVideo) ([]RowError, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, services.Wrap(services.ErrFatal, "store", "upsert catalog", "begin tx", err)
	}
	defer func() { _ = tx.Rollback() }()

	var rejected []RowError
	now := timeString(time.Now())
	for i := range videos {
		video := &videos[i]
		if verr := ValidateCatalogVideo(video); verr != nil {
			rejected = append(rejected, RowError{Key: video.VideoID, Err: verr})
			continue
		}

		metadata := video.MetadataJSON
		if strings.TrimSpace(metadata) == "" {
			metadata = "{}"
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO catalog_videos (`+catalogColumns+`)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT (video_id) DO UPDATE SET
				title = excluded.title,
				duration_sec = excluded.duration_sec,
				brand = excluded.brand,
				year = excluded.year,
				event_number = excluded.event_number,
				season = excluded.season,
				episode = excluded.episode,
				day_label = excluded.day_label,
				content_type = excluded.content_type,
				series_name = excluded.series_name,
				metadata_json = excluded.metadata_json,
				updated_at = excluded.updated_at`,
			video.VideoID,
			video.Title,
			video.DurationSec,
			string(video.Brand),
			nullableInt(video.Year),
			nullableInt(video.EventNumber),
			nullableInt(video.Season),
			nullableInt(video.Episode),
			video.DayLabel,
			video.ContentType,
			video.SeriesName,
			metadata,
			boolInt(video.NASMatched),
			now,
			now,
		)
		if err != nil {
			return nil, services.Wrap(services.ErrFatal, "store", "upsert catalog", video.VideoID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, services.Wrap(services.ErrFatal, "store", "upsert catalog", "commit", err)
	}
	return rejected, nil
}

// GetCatalogVideo fetches a catalog entry by its external identifier.
func (s *Store) GetCatalogVideo(ctx context.Context, videoID string) (*CatalogVideo, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+catalogColumns+` FROM catalog_videos WHERE video_id = ?`, videoID)
	video, err := scanCatalogVideo(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, services.Wrap(services.ErrNotFound, "store", "get catalog video", videoID, nil)
	}
	return video, err
}

// CatalogFilter narrows ListCatalogVideos results. Zero values mean "any".
type CatalogFilter struct {
	Brand   Brand
	Year    int
	Matched *bool
	Limit   int
}

// ListCatalogVideos returns catalog entries ordered by video_id so ties in
// the matcher break on stable string order.
func (s *Store) ListCatalogVideos(ctx context.Context, filter CatalogFilter) ([]CatalogVideo, error) {
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
		clauses = append(clauses, "nas_matched = ?")
		args = append(args, boolInt(*filter.Matched))
	}

	query := `SELECT ` + catalogColumns + ` FROM catalog_videos`
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += " ORDER BY video_id"
	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, services.Wrap(services.ErrFatal, "store", "list catalog videos", "query", err)
	}
	defer rows.Close()

	var videos []CatalogVideo
	for rows.Next() {
		video, err := scanCatalogVideo(rows)
		if err != nil {
			return nil, services.Wrap(services.ErrFatal, "store", "list catalog videos", "scan", err)
		}
		videos = append(videos, *video)
	}
	return videos, rows.Err()
}

// DeleteAllCatalogVideos clears the catalog table for a full reload. Matches
// referencing deleted entries cascade away.
func (s *Store) DeleteAllCatalogVideos(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM catalog_videos`)
	if err != nil {
		return 0, services.Wrap(services.ErrFatal, "store", "delete catalog videos", "exec", err)
	}
	deleted, err := res.RowsAffected()
	if err != nil {
		return 0, services.Wrap(services.ErrFatal, "store", "delete catalog videos", "rows affected", err)
	}
	return deleted, nil
}

func scanCatalogVideo(row rowScanner) (*CatalogVideo, error) {
	var (
		video       CatalogVideo
		year        sql.NullInt64
		eventNumber sql.NullInt64
		season      sql.NullInt64
		episode     sql.NullInt64
		matched     int
		createdAt   string
		updatedAt   string
	)
	err := row.Scan(
		&video.VideoID,
		&video.Title,
		&video.DurationSec,
		(*string)(&video.Brand),
		&year,
		&eventNumber,
		&season,
		&episode,
		&video.DayLabel,
		&video.ContentType,
		&video.SeriesName,
		&video.MetadataJSON,
		&matched,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}
	video.Year = int(year.Int64)
	video.EventNumber = int(eventNumber.Int64)
	video.Season = int(season.Int64)
	video.Episode = int(episode.Int64)
	video.NASMatched = matched != 0
	video.CreatedAt = parseTimeString(createdAt)
	video.UpdatedAt = parseTimeString(updatedAt)
	return &video, nil
}
