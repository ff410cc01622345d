package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"fasting/internal/domain"

	"github.com/lib/pq"
)

var _ domain.WeightRepository = (*DB)(nil)

// LoadWeights returns every weight entry, most recent first.
func (d *DB) LoadWeights(ctx context.Context) (domain.WeightLog, error) {
	rows, err := d.sql.QueryContext(ctx,
		"SELECT id, weight, unit, recorded_at FROM weight_entries ORDER BY recorded_at DESC;")
	if err != nil {
		return domain.WeightLog{}, err
	}
	defer rows.Close()

	var l domain.WeightLog
	for rows.Next() {
		var e domain.WeightEntry
		if err := rows.Scan(&e.ID, &e.Weight, &e.Unit, &e.Date); err != nil {
			return domain.WeightLog{}, err
		}
		l.Entries = append(l.Entries, e)
	}
	return l, rows.Err()
}

// SaveWeights replaces the stored weight history with l.
func (d *DB) SaveWeights(ctx context.Context, l domain.WeightLog) error {
	return d.withTx(ctx, func(tx *sql.Tx) error {
		ids := make([]string, 0, len(l.Entries))
		for _, e := range l.Entries {
			ids = append(ids, e.ID)
		}
		if _, err := tx.ExecContext(ctx, "DELETE FROM weight_entries WHERE id <> ALL($1);", pq.Array(ids)); err != nil {
			return fmt.Errorf("prune weights: %w", err)
		}
		for _, e := range l.Entries {
			if _, err := tx.ExecContext(ctx,
				"INSERT INTO weight_entries(id, weight, unit, recorded_at) VALUES($1, $2, $3, $4) "+
					"ON CONFLICT (id) DO UPDATE SET weight = EXCLUDED.weight, unit = EXCLUDED.unit, recorded_at = EXCLUDED.recorded_at;",
				e.ID, e.Weight, string(e.Unit), e.Date.UTC(),
			); err != nil {
				return fmt.Errorf("upsert weight %s: %w", e.ID, err)
			}
		}
		return nil
	})
}
