package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"fasting/internal/domain"

	"github.com/lib/pq"
)

var _ domain.FastingRepository = (*DB)(nil)

// LoadFasting reads every session and the weekly plan. The session without
// an end time is the open fast.
func (d *DB) LoadFasting(ctx context.Context) (domain.FastingLog, error) {
	rows, err := d.sql.QueryContext(ctx,
		"SELECT id, start_time, end_time, target_hours FROM fasting_sessions ORDER BY start_time DESC;")
	if err != nil {
		return domain.FastingLog{}, err
	}
	defer rows.Close()

	var l domain.FastingLog
	for rows.Next() {
		var (
			id     string
			start  time.Time
			end    sql.NullTime
			target float64
		)
		if err := rows.Scan(&id, &start, &end, &target); err != nil {
			return domain.FastingLog{}, err
		}
		s := domain.NewSession(id, start, target)
		if end.Valid {
			s.State = domain.Completed{EndTime: end.Time}
			l.History = append(l.History, s)
			continue
		}
		if l.Current == nil {
			l.Current = &s
		}
	}
	if err := rows.Err(); err != nil {
		return domain.FastingLog{}, err
	}

	plan, err := d.loadPlan(ctx)
	if err != nil {
		return domain.FastingLog{}, err
	}
	l.Plan = plan
	return l, nil
}

func (d *DB) loadPlan(ctx context.Context) (domain.FastingPlan, error) {
	rows, err := d.sql.QueryContext(ctx, "SELECT weekday, hours FROM fasting_plan;")
	if err != nil {
		return domain.FastingPlan{}, err
	}
	defer rows.Close()

	plan := domain.DefaultPlan()
	for rows.Next() {
		var (
			day   int
			hours float64
		)
		if err := rows.Scan(&day, &hours); err != nil {
			return domain.FastingPlan{}, err
		}
		plan = plan.With(time.Weekday(day), hours)
	}
	return plan, rows.Err()
}

// SaveFasting replaces the stored sessions and plan with l in one transaction.
func (d *DB) SaveFasting(ctx context.Context, l domain.FastingLog) error {
	sessions := l.History
	if l.Current != nil {
		sessions = append(append([]domain.FastingSession(nil), sessions...), *l.Current)
	}

	return d.withTx(ctx, func(tx *sql.Tx) error {
		ids := make([]string, 0, len(sessions))
		for _, s := range sessions {
			ids = append(ids, s.ID)
		}
		// Delete first so a fast ended in this save frees the open-fast index.
		if _, err := tx.ExecContext(ctx, "DELETE FROM fasting_sessions WHERE id <> ALL($1);", pq.Array(ids)); err != nil {
			return fmt.Errorf("prune sessions: %w", err)
		}
		for _, s := range sessions {
			var end sql.NullTime
			if t, ok := s.EndTime(); ok {
				end = sql.NullTime{Time: t.UTC(), Valid: true}
			}
			if _, err := tx.ExecContext(ctx,
				"INSERT INTO fasting_sessions(id, start_time, end_time, target_hours) VALUES($1, $2, $3, $4) "+
					"ON CONFLICT (id) DO UPDATE SET start_time = EXCLUDED.start_time, end_time = EXCLUDED.end_time, target_hours = EXCLUDED.target_hours;",
				s.ID, s.StartTime.UTC(), end, s.TargetHours,
			); err != nil {
				return fmt.Errorf("upsert session %s: %w", s.ID, err)
			}
		}
		for day := time.Sunday; day <= time.Saturday; day++ {
			if _, err := tx.ExecContext(ctx,
				"INSERT INTO fasting_plan(weekday, hours) VALUES($1, $2) ON CONFLICT (weekday) DO UPDATE SET hours = EXCLUDED.hours;",
				int(day), l.Plan.HoursFor(day),
			); err != nil {
				return fmt.Errorf("upsert plan: %w", err)
			}
		}
		return nil
	})
}
