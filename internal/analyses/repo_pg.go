package analyses

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

// Create inserts a new analysis row. The payload is serialized to jsonb and
// the overall risk is projected into a queryable numeric column; created_at
// is assigned by the database.
func (r *PGRepo) Create(ctx context.Context, analysis Analysis) error {
	const query = `
INSERT INTO analyses (id, url, domain, analysis_data, risk_score)
VALUES ($1, $2, $3, $4, $5)`

	payload, err := json.Marshal(analysis.Payload)
	if err != nil {
		return err
	}
	_, err = r.DB.ExecContext(ctx, query,
		analysis.ID,
		analysis.URL,
		analysis.Domain,
		payload,
		analysis.RiskScore,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: %s", ErrDuplicateID, analysis.ID)
		}
		return fmt.Errorf("insert analysis: %w", err)
	}
	return nil
}

// GetByID returns the full stored analysis for one id.
func (r *PGRepo) GetByID(ctx context.Context, id string) (Analysis, error) {
	const query = `
SELECT id, url, domain, analysis_data, risk_score, created_at
FROM analyses
WHERE id = $1
LIMIT 1`

	var a Analysis
	var payload []byte
	err := r.DB.QueryRowContext(ctx, query, id).Scan(
		&a.ID,
		&a.URL,
		&a.Domain,
		&payload,
		&a.RiskScore,
		&a.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Analysis{}, ErrNotFound
		}
		return Analysis{}, err
	}
	if err := json.Unmarshal(payload, &a.Payload); err != nil {
		return Analysis{}, fmt.Errorf("decode analysis payload: %w", err)
	}
	return a, nil
}

// History returns up to limit most-recent entries, newest first, with only
// the summary columns projected.
func (r *PGRepo) History(ctx context.Context, limit int) ([]HistoryEntry, error) {
	const query = `
SELECT id, url, domain, risk_score, created_at
FROM analyses
ORDER BY created_at DESC
LIMIT $1`

	rows, err := r.DB.QueryContext(ctx, query, clampHistoryLimit(limit))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []HistoryEntry
	for rows.Next() {
		var e HistoryEntry
		if err := rows.Scan(&e.ID, &e.URL, &e.Domain, &e.RiskScore, &e.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// isUniqueViolation matches Postgres unique-constraint failures (SQLSTATE
// 23505) without depending on driver error types.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "23505")
}

var _ Repo = (*PGRepo)(nil)
