package sqlite

import (
	"context"
	"database/sql"
	"encoding/json/v2"
	"fmt"
	"time"

	"github.com/topmcon/Catalog-Verification-API-sub002/internal/domain"
	"github.com/topmcon/Catalog-Verification-API-sub002/internal/errors"
)

// mismatchColumns is the ordered list of columns selected in mismatch
// queries. Must match the scan order in scanMismatch.
const mismatchColumns = `id, type, attempted_value, normalized_value, similarity,
	closest_matches, occurrence_count, first_seen, last_seen, source,
	product_context, ai_context, raw_context, resolved,
	resolution_action, resolution_value, resolved_by, resolved_at`

// MismatchFilter narrows mismatch queries. Zero values mean "any".
type MismatchFilter struct {
	Type     domain.PicklistType
	Resolved *bool
	Source   string
	Limit    int
}

// scanMismatch scans a sql.Row (or sql.Rows via its Scan method) into a
// domain.Mismatch.
func scanMismatch(scanner interface{ Scan(dest ...any) error }) (*domain.Mismatch, error) {
	var m domain.Mismatch

	var (
		closestMatches   sql.NullString
		firstSeen        string
		lastSeen         string
		productContext   sql.NullString
		aiContext        sql.NullString
		rawContext       sql.NullString
		resolved         int
		resolutionAction sql.NullString
		resolutionValue  sql.NullString
		resolvedBy       sql.NullString
		resolvedAt       sql.NullString
	)

	err := scanner.Scan(
		&m.ID,
		&m.Type,
		&m.AttemptedValue,
		&m.NormalizedValue,
		&m.Similarity,
		&closestMatches,
		&m.OccurrenceCount,
		&firstSeen,
		&lastSeen,
		&m.Source,
		&productContext,
		&aiContext,
		&rawContext,
		&resolved,
		&resolutionAction,
		&resolutionValue,
		&resolvedBy,
		&resolvedAt,
	)
	if err != nil {
		return nil, err
	}

	m.FirstSeen, err = parseTime(firstSeen)
	if err != nil {
		return nil, err
	}
	m.LastSeen, err = parseTime(lastSeen)
	if err != nil {
		return nil, err
	}

	if closestMatches.Valid && closestMatches.String != "" {
		if err := json.Unmarshal([]byte(closestMatches.String), &m.ClosestMatches); err != nil {
			return nil, fmt.Errorf("unmarshal closest matches: %w", err)
		}
	}

	if productContext.Valid {
		m.ProductContext = productContext.String
	}
	if aiContext.Valid {
		m.AIContext = aiContext.String
	}
	if rawContext.Valid {
		m.RawContext = rawContext.String
	}

	m.Resolved = resolved != 0
	if resolutionAction.Valid {
		resolution := &domain.Resolution{
			Action:        domain.ResolutionAction(resolutionAction.String),
			ResolvedValue: resolutionValue.String,
			ResolvedBy:    resolvedBy.String,
		}
		if resolvedAt.Valid && resolvedAt.String != "" {
			resolution.ResolvedAt, err = parseTime(resolvedAt.String)
			if err != nil {
				return nil, err
			}
		}
		m.Resolution = resolution
	}

	return &m, nil
}

// UpsertMismatch inserts a new mismatch or bumps the existing record for
// the same (type, normalized_value, source) key. The increment happens
// inside the statement, so concurrent flushes cannot lose counts.
func (s *Store) UpsertMismatch(ctx context.Context, m *domain.Mismatch) error {
	var closestMatches sql.NullString
	if len(m.ClosestMatches) > 0 {
		data, err := json.Marshal(m.ClosestMatches)
		if err != nil {
			return fmt.Errorf("marshal closest matches: %w", err)
		}
		closestMatches = sql.NullString{String: string(data), Valid: true}
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO mismatches (
			id, type, attempted_value, normalized_value, similarity,
			closest_matches, occurrence_count, first_seen, last_seen, source,
			product_context, ai_context, raw_context, resolved
		) VALUES (?, ?, ?, ?, ?, ?, 1, ?, ?, ?, ?, ?, ?, 0)
		ON CONFLICT (type, normalized_value, source) DO UPDATE SET
			occurrence_count = occurrence_count + 1,
			attempted_value = excluded.attempted_value,
			similarity = excluded.similarity,
			closest_matches = excluded.closest_matches,
			last_seen = excluded.last_seen,
			product_context = COALESCE(excluded.product_context, product_context),
			ai_context = COALESCE(excluded.ai_context, ai_context),
			raw_context = COALESCE(excluded.raw_context, raw_context)`,
		m.ID,
		string(m.Type),
		m.AttemptedValue,
		m.NormalizedValue,
		m.Similarity,
		closestMatches,
		formatTime(m.FirstSeen),
		formatTime(m.LastSeen),
		m.Source,
		nullString(m.ProductContext),
		nullString(m.AIContext),
		nullString(m.RawContext),
	)
	if err != nil {
		return fmt.Errorf("upsert mismatch: %w", err)
	}
	return nil
}

// GetMismatch retrieves one record by its dedup key.
func (s *Store) GetMismatch(ctx context.Context, picklistType domain.PicklistType, normalizedValue, source string) (*domain.Mismatch, error) {
	query := `SELECT ` + mismatchColumns + ` FROM mismatches
		WHERE type = ? AND normalized_value = ?`
	args := []any{string(picklistType), normalizedValue}
	if source != "" {
		query += ` AND source = ?`
		args = append(args, source)
	}
	query += ` LIMIT 1`

	row := s.db.QueryRowContext(ctx, query, args...)
	m, err := scanMismatch(row)
	if err == sql.ErrNoRows {
		return nil, errors.NotFound("mismatch not found")
	}
	if err != nil {
		return nil, err
	}
	return m, nil
}

// QueryMismatches returns records matching the filter, most recently
// seen first.
func (s *Store) QueryMismatches(ctx context.Context, filter MismatchFilter) ([]*domain.Mismatch, error) {
	query := `SELECT ` + mismatchColumns + ` FROM mismatches WHERE 1=1`
	var args []any

	if filter.Type != "" {
		query += ` AND type = ?`
		args = append(args, string(filter.Type))
	}
	if filter.Resolved != nil {
		query += ` AND resolved = ?`
		args = append(args, boolToInt(*filter.Resolved))
	}
	if filter.Source != "" {
		query += ` AND source = ?`
		args = append(args, filter.Source)
	}

	query += ` ORDER BY last_seen DESC`
	if filter.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query mismatches: %w", err)
	}
	defer rows.Close()

	var out []*domain.Mismatch
	for rows.Next() {
		m, err := scanMismatch(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// Unresolved records in this similarity band are good alias candidates.
const (
	nearMissLowerBound = 0.4
	nearMissUpperBound = 0.6
	statsListLimit     = 10
)

// MismatchStats aggregates the whole table for the stats endpoint.
func (s *Store) MismatchStats(ctx context.Context) (*domain.MismatchStats, error) {
	stats := &domain.MismatchStats{
		ByType:   make(map[domain.PicklistType]int),
		BySource: make(map[string]int),
	}

	row := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*), COALESCE(SUM(CASE WHEN resolved = 0 THEN 1 ELSE 0 END), 0) FROM mismatches`)
	if err := row.Scan(&stats.Total, &stats.Unresolved); err != nil {
		return nil, fmt.Errorf("count mismatches: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `SELECT type, COUNT(*) FROM mismatches GROUP BY type`)
	if err != nil {
		return nil, fmt.Errorf("count by type: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var t string
		var n int
		if err := rows.Scan(&t, &n); err != nil {
			return nil, err
		}
		stats.ByType[domain.PicklistType(t)] = n
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	sourceRows, err := s.db.QueryContext(ctx, `SELECT source, COUNT(*) FROM mismatches GROUP BY source`)
	if err != nil {
		return nil, fmt.Errorf("count by source: %w", err)
	}
	defer sourceRows.Close()
	for sourceRows.Next() {
		var src string
		var n int
		if err := sourceRows.Scan(&src, &n); err != nil {
			return nil, err
		}
		stats.BySource[src] = n
	}
	if err := sourceRows.Err(); err != nil {
		return nil, err
	}

	stats.TopUnresolved, err = s.queryMismatchList(ctx,
		`SELECT `+mismatchColumns+` FROM mismatches
		WHERE resolved = 0 ORDER BY occurrence_count DESC LIMIT ?`, statsListLimit)
	if err != nil {
		return nil, err
	}

	stats.NearMisses, err = s.queryMismatchList(ctx,
		`SELECT `+mismatchColumns+` FROM mismatches
		WHERE resolved = 0 AND similarity >= ? AND similarity < ?
		ORDER BY occurrence_count DESC LIMIT ?`,
		nearMissLowerBound, nearMissUpperBound, statsListLimit)
	if err != nil {
		return nil, err
	}

	return stats, nil
}

func (s *Store) queryMismatchList(ctx context.Context, query string, args ...any) ([]*domain.Mismatch, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query mismatch list: %w", err)
	}
	defer rows.Close()

	var out []*domain.Mismatch
	for rows.Next() {
		m, err := scanMismatch(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// ResolveMismatch marks one record as terminally resolved. Source may
// be empty, in which case the first record for (type, normalized_value)
// is resolved regardless of provenance.
func (s *Store) ResolveMismatch(ctx context.Context, picklistType domain.PicklistType, normalizedValue, source string, resolution domain.Resolution) (*domain.Mismatch, error) {
	if resolution.ResolvedAt.IsZero() {
		resolution.ResolvedAt = time.Now()
	}

	query := `UPDATE mismatches SET
			resolved = 1,
			resolution_action = ?,
			resolution_value = ?,
			resolved_by = ?,
			resolved_at = ?
		WHERE type = ? AND normalized_value = ? AND resolved = 0`
	args := []any{
		string(resolution.Action),
		nullString(resolution.ResolvedValue),
		nullString(resolution.ResolvedBy),
		formatTime(resolution.ResolvedAt),
		string(picklistType),
		normalizedValue,
	}
	if source != "" {
		query += ` AND source = ?`
		args = append(args, source)
	}

	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("resolve mismatch: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		// Resolution is a one-shot transition. Distinguish a record
		// that was never seen from one already resolved.
		if _, err := s.GetMismatch(ctx, picklistType, normalizedValue, source); err != nil {
			return nil, err
		}
		return nil, errors.Conflict("mismatch already resolved")
	}

	return s.GetMismatch(ctx, picklistType, normalizedValue, source)
}
