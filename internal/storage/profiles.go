// ABOUTME: User profile persistence for SQLite storage.
// ABOUTME: Profiles are optional; callers fall back to defaults when absent.
package storage

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/harperreed/readiness/internal/models"
)

// UpsertProfile inserts or replaces a user profile.
func (d *DB) UpsertProfile(p *models.Profile) error {
	query := `
		INSERT INTO profiles (user_id, max_hr, resting_hr, age, sleep_need_minutes)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			max_hr = excluded.max_hr,
			resting_hr = excluded.resting_hr,
			age = excluded.age,
			sleep_need_minutes = excluded.sleep_need_minutes
	`
	_, err := d.db.Exec(query, p.UserID, p.MaxHR, p.RestingHR, p.Age, p.SleepNeedMinutes)
	if err != nil {
		return fmt.Errorf("upsert profile: %w", err)
	}
	return nil
}

// GetProfile retrieves a user profile.
func (d *DB) GetProfile(userID string) (*models.Profile, error) {
	query := `
		SELECT user_id, max_hr, resting_hr, age, sleep_need_minutes
		FROM profiles WHERE user_id = ?
	`
	var p models.Profile
	err := d.db.QueryRow(query, userID).Scan(
		&p.UserID, &p.MaxHR, &p.RestingHR, &p.Age, &p.SleepNeedMinutes)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}
	return &p, nil
}
