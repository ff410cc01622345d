package postgres

import (
	"context"
	"database/sql"
	"errors"

	"fasting/internal/domain"
)

var _ domain.ProfileRepository = (*DB)(nil)

// LoadProfile returns the stored profile, or the default one if none exists.
func (d *DB) LoadProfile(ctx context.Context) (domain.UserProfile, error) {
	var p domain.UserProfile
	err := d.sql.QueryRowContext(ctx,
		"SELECT name, target_weight, weight_unit, fasting_goal FROM user_profile WHERE id = 1;",
	).Scan(&p.Name, &p.TargetWeight, &p.WeightUnit, &p.FastingGoal)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.DefaultProfile(), nil
	}
	return p, err
}

// SaveProfile upserts the single profile row.
func (d *DB) SaveProfile(ctx context.Context, p domain.UserProfile) error {
	_, err := d.sql.ExecContext(ctx,
		"INSERT INTO user_profile(id, name, target_weight, weight_unit, fasting_goal) VALUES(1, $1, $2, $3, $4) "+
			"ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, target_weight = EXCLUDED.target_weight, weight_unit = EXCLUDED.weight_unit, fasting_goal = EXCLUDED.fasting_goal;",
		p.Name, p.TargetWeight, string(p.WeightUnit), p.FastingGoal,
	)
	return err
}
