package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	telemetry "tariff-engine/internal/telemetry/domain"
)

// TelemetryQuery reads telemetry samples and manual readings from
// postgres. Values are stored one row per (timestamp, field) and grouped
// back into samples here.
type TelemetryQuery struct {
	db *sql.DB
}

// NewTelemetryQuery constructs a query.
func NewTelemetryQuery(db *sql.DB) *TelemetryQuery {
	return &TelemetryQuery{db: db}
}

// QuerySamples returns samples for a source address inside [start, end].
func (q *TelemetryQuery) QuerySamples(ctx context.Context, sourceAddress string, start, end time.Time) ([]telemetry.Sample, error) {
	if q == nil || q.db == nil {
		return nil, errors.New("telemetry query: nil db")
	}
	rows, err := q.db.QueryContext(ctx, `
SELECT ts, field_id, value
FROM telemetry_samples
WHERE source_address = $1 AND ts >= $2 AND ts <= $3
ORDER BY ts, field_id`, sourceAddress, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var samples []telemetry.Sample
	var current *telemetry.Sample
	for rows.Next() {
		var ts time.Time
		var field string
		var value float64
		if err := rows.Scan(&ts, &field, &value); err != nil {
			return nil, err
		}
		if current == nil || !current.Timestamp.Equal(ts) {
			samples = append(samples, telemetry.Sample{
				Timestamp: ts,
				Fields:    make(map[string]float64),
				Sign:      telemetry.SignAdd,
			})
			current = &samples[len(samples)-1]
		}
		current.Fields[field] = value
	}
	return samples, rows.Err()
}

// QueryManualEntries returns manual readings for a node inside [start, end].
func (q *TelemetryQuery) QueryManualEntries(ctx context.Context, nodeID string, start, end time.Time) ([]telemetry.ManualEntry, error) {
	if q == nil || q.db == nil {
		return nil, errors.New("telemetry query: nil db")
	}
	rows, err := q.db.QueryContext(ctx, `
SELECT ts, field_id, value
FROM manual_readings
WHERE node_id = $1 AND ts >= $2 AND ts <= $3
ORDER BY ts, field_id`, nodeID, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []telemetry.ManualEntry
	var current *telemetry.ManualEntry
	for rows.Next() {
		var ts time.Time
		var field string
		var value float64
		if err := rows.Scan(&ts, &field, &value); err != nil {
			return nil, err
		}
		if current == nil || !current.Timestamp.Equal(ts) {
			entries = append(entries, telemetry.ManualEntry{
				Timestamp: ts,
				Readings:  make(map[string]float64),
			})
			current = &entries[len(entries)-1]
		}
		current.Readings[field] = value
	}
	return entries, rows.Err()
}
