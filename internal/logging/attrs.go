package logging

import (
	"log/slog"
	"time"
)

// Standardized structured logging keys shared across the ingest passes.
const (
	// FieldComponent names the emitting component (scanner, classifier, matcher...).
	FieldComponent = "component"
	// FieldScanID carries the scan_history row identifier for the active pass.
	FieldScanID = "scan_id"
	// FieldPath carries the filesystem path a record concerns.
	FieldPath = "path"
	// FieldAssetUUID carries the asset identity a record concerns.
	FieldAssetUUID = "asset_uuid"
	// FieldVideoID carries the external catalog video identifier.
	FieldVideoID = "video_id"
)

type Attr = slog.Attr

func Any(key string, value any) Attr { return slog.Any(key, value) }

func Bool(key string, value bool) Attr { return slog.Bool(key, value) }

func Duration(key string, value time.Duration) Attr { return slog.Duration(key, value) }

func Float64(key string, value float64) Attr { return slog.Float64(key, value) }

func Int(key string, value int) Attr { return slog.Int(key, value) }

func Int64(key string, value int64) Attr { return slog.Int64(key, value) }

func String(key string, value string) Attr { return slog.String(key, value) }

func Error(err error) Attr {
	if err == nil {
		return slog.String("error", "<nil>")
	}
	return slog.Any("error", err)
}

// Args converts attrs to the variadic any form slog methods accept.
func Args(attrs ...Attr) []any {
	args := make([]any, 0, len(attrs))
	for _, attr := range attrs {
		args = append(args, attr)
	}
	return args
}
