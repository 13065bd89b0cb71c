package inventory

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"curator/internal/services"
)

const segmentColumns = `id, parent_asset_uuid, row_number, time_in_sec, time_out_sec, segment_type,
	players_json, winner, winning_hand, losing_hand, pot_size, all_in_stage,
	action_tags_json, emotion_tags_json, cooler, bad_beat, suckout, bluff, hero_call, hero_fold,
	river_killer, created_at, updated_at`

// UpsertSegments writes segments keyed by (parent_asset_uuid, row_number).
// Situation flags are rederived from the action tags before the write so the
// two representations cannot drift. Validation failures are returned in
// rejected; the batch continues.
func (s *Store) UpsertSegments(ctx context.Context, segments []Segment) (rejected []RowError, err error) {
	for start := 0; start < len(segments); start += batchSize {
		end := min(start+batchSize, len(segments))
		batchRejected, err := s.upsertSegmentBatch(ctx, segments[start:end])
		if err != nil {
			return rejected, err
		}
		rejected = append(rejected, batchRejected...)
	}
	return rejected, nil
}

func (s *Store) upsertSegmentBatch(ctx context.Context, segments []Segment) ([]RowError, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, services.Wrap(services.ErrFatal, "store", "upsert segments", "begin tx", err)
	}
	defer func() { _ = tx.Rollback() }()

	var rejected []RowError
	now := timeString(time.Now())
	for i := range segments {
		segment := &segments[i]
		if verr := ValidateSegment(segment); verr != nil {
			rejected = append(rejected, RowError{Key: segmentKey(segment), Err: verr})
			continue
		}
		segment.DeriveSituationFlags()

		playersJSON, err := marshalStrings(segment.Players)
		if err != nil {
			return nil, services.Wrap(services.ErrFatal, "store", "upsert segments", "marshal players", err)
		}
		actionJSON, err := marshalStrings(segment.ActionTags)
		if err != nil {
			return nil, services.Wrap(services.ErrFatal, "store", "upsert segments", "marshal action tags", err)
		}
		emotionJSON, err := marshalStrings(segment.EmotionTags)
		if err != nil {
			return nil, services.Wrap(services.ErrFatal, "store", "upsert segments", "marshal emotion tags", err)
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO segments (
				parent_asset_uuid, row_number, time_in_sec, time_out_sec, segment_type,
				players_json, winner, winning_hand, losing_hand, pot_size, all_in_stage,
				action_tags_json, emotion_tags_json, cooler, bad_beat, suckout, bluff,
				hero_call, hero_fold, river_killer, created_at, updated_at
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT (parent_asset_uuid, row_number) DO UPDATE SET
				time_in_sec = excluded.time_in_sec,
				time_out_sec = excluded.time_out_sec,
				segment_type = excluded.segment_type,
				players_json = excluded.players_json,
				winner = excluded.winner,
				winning_hand = excluded.winning_hand,
				losing_hand = excluded.losing_hand,
				pot_size = excluded.pot_size,
				all_in_stage = excluded.all_in_stage,
				action_tags_json = excluded.action_tags_json,
				emotion_tags_json = excluded.emotion_tags_json,
				cooler = excluded.cooler,
				bad_beat = excluded.bad_beat,
				suckout = excluded.suckout,
				bluff = excluded.bluff,
				hero_call = excluded.hero_call,
				hero_fold = excluded.hero_fold,
				river_killer = excluded.river_killer,
				updated_at = excluded.updated_at`,
			segment.ParentAssetUUID,
			segment.RowNumber,
			segment.TimeInSec,
			segment.TimeOutSec,
			segment.SegmentType,
			playersJSON,
			segment.Winner,
			segment.WinningHand,
			segment.LosingHand,
			segment.PotSize,
			segment.AllInStage,
			actionJSON,
			emotionJSON,
			boolInt(segment.Cooler),
			boolInt(segment.BadBeat),
			boolInt(segment.Suckout),
			boolInt(segment.Bluff),
			boolInt(segment.HeroCall),
			boolInt(segment.HeroFold),
			boolInt(segment.RiverKiller),
			now,
			now,
		)
		if err != nil {
			if isForeignKeyViolation(err) {
				rejected = append(rejected, RowError{
					Key: segmentKey(segment),
					Err: services.Wrap(services.ErrNotFound, "store", "upsert segments", "parent asset "+segment.ParentAssetUUID, nil),
				})
				continue
			}
			return nil, services.Wrap(services.ErrFatal, "store", "upsert segments", segmentKey(segment), err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, services.Wrap(services.ErrFatal, "store", "upsert segments", "commit", err)
	}
	return rejected, nil
}

// ListSegments returns the segments of one asset ordered by time_in_sec then
// row_number.
func (s *Store) ListSegments(ctx context.Context, parentUUID string) ([]Segment, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+segmentColumns+` FROM segments WHERE parent_asset_uuid = ? ORDER BY time_in_sec, row_number`,
		parentUUID)
	if err != nil {
		return nil, services.Wrap(services.ErrFatal, "store", "list segments", parentUUID, err)
	}
	defer rows.Close()

	var segments []Segment
	for rows.Next() {
		var (
			segment     Segment
			playersJSON string
			actionJSON  string
			emotionJSON string
			flags       [7]int
			createdAt   string
			updatedAt   string
		)
		err := rows.Scan(
			&segment.ID,
			&segment.ParentAssetUUID,
			&segment.RowNumber,
			&segment.TimeInSec,
			&segment.TimeOutSec,
			&segment.SegmentType,
			&playersJSON,
			&segment.Winner,
			&segment.WinningHand,
			&segment.LosingHand,
			&segment.PotSize,
			&segment.AllInStage,
			&actionJSON,
			&emotionJSON,
			&flags[0], &flags[1], &flags[2], &flags[3], &flags[4], &flags[5], &flags[6],
			&createdAt,
			&updatedAt,
		)
		if err != nil {
			return nil, services.Wrap(services.ErrFatal, "store", "list segments", "scan", err)
		}
		if err := json.Unmarshal([]byte(playersJSON), &segment.Players); err != nil {
			return nil, fmt.Errorf("decode players for segment %d: %w", segment.ID, err)
		}
		if err := json.Unmarshal([]byte(actionJSON), &segment.ActionTags); err != nil {
			return nil, fmt.Errorf("decode action tags for segment %d: %w", segment.ID, err)
		}
		if err := json.Unmarshal([]byte(emotionJSON), &segment.EmotionTags); err != nil {
			return nil, fmt.Errorf("decode emotion tags for segment %d: %w", segment.ID, err)
		}
		segment.Cooler = flags[0] != 0
		segment.BadBeat = flags[1] != 0
		segment.Suckout = flags[2] != 0
		segment.Bluff = flags[3] != 0
		segment.HeroCall = flags[4] != 0
		segment.HeroFold = flags[5] != 0
		segment.RiverKiller = flags[6] != 0
		segment.CreatedAt = parseTimeString(createdAt)
		segment.UpdatedAt = parseTimeString(updatedAt)
		segments = append(segments, segment)
	}
	return segments, rows.Err()
}

// CountSegments returns the total number of segment rows.
func (s *Store) CountSegments(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM segments`).Scan(&count); err != nil {
		return 0, services.Wrap(services.ErrFatal, "store", "count segments", "query", err)
	}
	return count, nil
}

func segmentKey(s *Segment) string {
	return fmt.Sprintf("%s#%d", s.ParentAssetUUID, s.RowNumber)
}

func marshalStrings(values []string) (string, error) {
	if values == nil {
		values = []string{}
	}
	raw, err := json.Marshal(values)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

func isForeignKeyViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "FOREIGN KEY constraint failed")
}
