package inventory

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"curator/internal/services"
)

// StartScan inserts a running scan_history row and returns it.
func (s *Store) StartScan(ctx context.Context, scanType ScanType, scanPath, optionsJSON string) (*ScanHistory, error) {
	if optionsJSON == "" {
		optionsJSON = "{}"
	}
	started := time.Now().UTC()
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO scan_history (scan_type, started_at, status, scan_path, options_json)
		VALUES (?, ?, ?, ?, ?)`,
		string(scanType), timeString(started), string(ScanRunning), scanPath, optionsJSON)
	if err != nil {
		return nil, services.Wrap(services.ErrFatal, "store", "start scan", string(scanType), err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, services.Wrap(services.ErrFatal, "store", "start scan", "last insert id", err)
	}
	return &ScanHistory{
		ID:          id,
		ScanType:    scanType,
		StartedAt:   started,
		Status:      ScanRunning,
		ScanPath:    scanPath,
		OptionsJSON: optionsJSON,
	}, nil
}

// CompleteScan marks a scan as completed and records its counters and
// per-row errors.
func (s *Store) CompleteScan(ctx context.Context, id int64, totalFiles, newFiles, modifiedFiles int, rowErrors []string) error {
	errorsJSON, err := marshalStrings(rowErrors)
	if err != nil {
		return services.Wrap(services.ErrFatal, "store", "complete scan", "marshal errors", err)
	}
	res, err := s.db.ExecContext(ctx, `
		UPDATE scan_history
		SET status = ?, completed_at = ?, total_files = ?, new_files = ?, modified_files = ?, errors_json = ?
		WHERE id = ?`,
		string(ScanCompleted), timeString(time.Now()), totalFiles, newFiles, modifiedFiles, errorsJSON, id)
	if err != nil {
		return services.Wrap(services.ErrFatal, "store", "complete scan", fmt.Sprintf("id %d", id), err)
	}
	return requireAffected(res, "complete scan", id)
}

// FailScan marks a scan as failed with the aborting error message. Rows the
// pass committed before failing remain valid history to be superseded.
func (s *Store) FailScan(ctx context.Context, id int64, message string) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE scan_history SET status = ?, completed_at = ?, error_message = ? WHERE id = ?`,
		string(ScanFailed), timeString(time.Now()), message, id)
	if err != nil {
		return services.Wrap(services.ErrFatal, "store", "fail scan", fmt.Sprintf("id %d", id), err)
	}
	return requireAffected(res, "fail scan", id)
}

// LatestCompletedScan returns the most recent completed scan of the given
// types, or ErrNotFound when the history is empty. Incremental passes use
// its started_at as the modified-since watermark.
func (s *Store) LatestCompletedScan(ctx context.Context, types ...ScanType) (*ScanHistory, error) {
	if len(types) == 0 {
		types = []ScanType{ScanFull, ScanIncremental}
	}
	placeholders := ""
	args := make([]any, 0, len(types))
	for i, t := range types {
		if i > 0 {
			placeholders += ", "
		}
		placeholders += "?"
		args = append(args, string(t))
	}

	row := s.db.QueryRowContext(ctx, `
		SELECT id, scan_type, started_at, completed_at, status, total_files, new_files,
		       modified_files, errors_json, scan_path, options_json, error_message
		FROM scan_history
		WHERE status = 'completed' AND scan_type IN (`+placeholders+`)
		ORDER BY started_at DESC LIMIT 1`, args...)

	scan, err := scanHistoryRow(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, services.Wrap(services.ErrNotFound, "store", "latest completed scan", "no completed scans", nil)
	}
	return scan, err
}

// ListScans returns scan history ordered newest first.
func (s *Store) ListScans(ctx context.Context, limit int) ([]ScanHistory, error) {
	query := `
		SELECT id, scan_type, started_at, completed_at, status, total_files, new_files,
		       modified_files, errors_json, scan_path, options_json, error_message
		FROM scan_history ORDER BY id DESC`
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", limit)
	}
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, services.Wrap(services.ErrFatal, "store", "list scans", "query", err)
	}
	defer rows.Close()

	var scans []ScanHistory
	for rows.Next() {
		scan, err := scanHistoryRow(rows)
		if err != nil {
			return nil, services.Wrap(services.ErrFatal, "store", "list scans", "scan", err)
		}
		scans = append(scans, *scan)
	}
	return scans, rows.Err()
}

func scanHistoryRow(row rowScanner) (*ScanHistory, error) {
	var (
		scan        ScanHistory
		startedAt   string
		completedAt sql.NullString
		errorsJSON  string
	)
	err := row.Scan(
		&scan.ID,
		(*string)(&scan.ScanType),
		&startedAt,
		&completedAt,
		(*string)(&scan.Status),
		&scan.TotalFiles,
		&scan.NewFiles,
		&scan.ModifiedFiles,
		&errorsJSON,
		&scan.ScanPath,
		&scan.OptionsJSON,
		&scan.ErrorMessage,
	)
	if err != nil {
		return nil, err
	}
	scan.StartedAt = parseTimeString(startedAt)
	if completedAt.Valid && completedAt.String != "" {
		t := parseTimeString(completedAt.String)
		scan.CompletedAt = &t
	}
	if errorsJSON != "" {
		if err := json.Unmarshal([]byte(errorsJSON), &scan.Errors); err != nil {
			return nil, fmt.Errorf("decode scan errors for %d: %w", scan.ID, err)
		}
	}
	return &scan, nil
}

func requireAffected(res sql.Result, operation string, id int64) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return services.Wrap(services.ErrFatal, "store", operation, "rows affected", err)
	}
	if affected == 0 {
		return services.Wrap(services.ErrNotFound, "store", operation, fmt.Sprintf("scan %d", id), nil)
	}
	return nil
}
