package sqlite

import (
	"context"
	"database/sql"
	"encoding/json/v2"
	"fmt"

	"github.com/topmcon/Catalog-Verification-API-sub002/internal/domain"
	"github.com/topmcon/Catalog-Verification-API-sub002/internal/errors"
)

// CreateSyncLog persists one immutable audit record for a sync call.
func (s *Store) CreateSyncLog(ctx context.Context, log *domain.SyncLog) error {
	summaries, err := json.Marshal(log.Summaries)
	if err != nil {
		return fmt.Errorf("marshal sync summaries: %w", err)
	}

	var snapshots sql.NullString
	if len(log.Snapshots) > 0 {
		data, err := json.Marshal(log.Snapshots)
		if err != nil {
			return fmt.Errorf("marshal sync snapshots: %w", err)
		}
		snapshots = sql.NullString{String: string(data), Valid: true}
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO sync_logs (sync_id, timestamp, success, summaries, snapshots)
		VALUES (?, ?, ?, ?, ?)`,
		log.SyncID,
		formatTime(log.Timestamp),
		boolToInt(log.Success),
		string(summaries),
		snapshots,
	)
	if err != nil {
		return fmt.Errorf("insert sync log: %w", err)
	}
	return nil
}

// ListSyncLogs returns audit records newest first, without the bulky
// before-snapshots.
func (s *Store) ListSyncLogs(ctx context.Context, limit int) ([]*domain.SyncLog, error) {
	query := `SELECT sync_id, timestamp, success, summaries FROM sync_logs
		ORDER BY timestamp DESC`
	var args []any
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query sync logs: %w", err)
	}
	defer rows.Close()

	var out []*domain.SyncLog
	for rows.Next() {
		var (
			log       domain.SyncLog
			timestamp string
			success   int
			summaries string
		)
		if err := rows.Scan(&log.SyncID, &timestamp, &success, &summaries); err != nil {
			return nil, err
		}
		log.Timestamp, err = parseTime(timestamp)
		if err != nil {
			return nil, err
		}
		log.Success = success != 0
		if err := json.Unmarshal([]byte(summaries), &log.Summaries); err != nil {
			return nil, fmt.Errorf("unmarshal sync summaries: %w", err)
		}
		out = append(out, &log)
	}
	return out, rows.Err()
}

// GetSyncLog returns one audit record including its before-snapshots,
// so an operator can roll a bad sync back by hand.
func (s *Store) GetSyncLog(ctx context.Context, syncID string) (*domain.SyncLog, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT sync_id, timestamp, success, summaries, snapshots
		FROM sync_logs WHERE sync_id = ?`, syncID)

	var (
		log       domain.SyncLog
		timestamp string
		success   int
		summaries string
		snapshots sql.NullString
	)
	err := row.Scan(&log.SyncID, &timestamp, &success, &summaries, &snapshots)
	if err == sql.ErrNoRows {
		return nil, errors.NotFound("sync log not found")
	}
	if err != nil {
		return nil, err
	}

	log.Timestamp, err = parseTime(timestamp)
	if err != nil {
		return nil, err
	}
	log.Success = success != 0
	if err := json.Unmarshal([]byte(summaries), &log.Summaries); err != nil {
		return nil, fmt.Errorf("unmarshal sync summaries: %w", err)
	}
	if snapshots.Valid && snapshots.String != "" {
		if err := json.Unmarshal([]byte(snapshots.String), &log.Snapshots); err != nil {
			return nil, fmt.Errorf("unmarshal sync snapshots: %w", err)
		}
	}

	return &log, nil
}
