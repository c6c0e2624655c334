package postgres

import (
	"context"
	"database/sql"
	"errors"

	billing "tariff-engine/internal/billing/domain"
)

// RateRepository reads committed rate sets from postgres. Commits are
// append-only; the latest commit for a month wins.
type RateRepository struct {
	db *sql.DB
}

// NewRateRepository constructs a repository.
func NewRateRepository(db *sql.DB) *RateRepository {
	return &RateRepository{db: db}
}

// LatestForMonth returns the most recently committed rate set for a
// "YYYY-MM" month.
func (r *RateRepository) LatestForMonth(ctx context.Context, month string) (billing.RateSet, error) {
	if r == nil || r.db == nil {
		return billing.RateSet{}, errors.New("rate repo: nil db")
	}
	set := billing.RateSet{Month: month}
	var setID string
	err := r.db.QueryRowContext(ctx, `
SELECT id, committed_at
FROM rate_sets
WHERE month = $1
ORDER BY committed_at DESC
LIMIT 1`, month).Scan(&setID, &set.CommittedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return billing.RateSet{}, billing.ErrRateSetNotFound
		}
		return billing.RateSet{}, err
	}

	rows, err := r.db.QueryContext(ctx, `
SELECT component_key, rate
FROM rate_values
WHERE rate_set_id = $1`, setID)
	if err != nil {
		return billing.RateSet{}, err
	}
	defer rows.Close()

	set.Values = make(map[string]float64)
	for rows.Next() {
		var key string
		var rate float64
		if err := rows.Scan(&key, &rate); err != nil {
			return billing.RateSet{}, err
		}
		set.Values[key] = rate
	}
	return set, rows.Err()
}
