// ABOUTME: TrainingState persistence for the sequential adaptation model.
// ABOUTME: One row per (user, date); upserts support same-day recomputation.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/harperreed/readiness/internal/models"
)

// PutTrainingState inserts or replaces the state for (user, date).
// Replacing the same date is idempotent; callers are responsible for
// advancing dates in calendar order.
func (d *DB) PutTrainingState(st *models.TrainingState) error {
	query := `
		INSERT INTO training_states
			(user_id, date, daily_load, acute_load, chronic_load, fatigue, fitness, training_effect, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(user_id, date) DO UPDATE SET
			daily_load = excluded.daily_load,
			acute_load = excluded.acute_load,
			chronic_load = excluded.chronic_load,
			fatigue = excluded.fatigue,
			fitness = excluded.fitness,
			training_effect = excluded.training_effect
	`
	_, err := d.db.Exec(query,
		st.UserID,
		models.DateKey(st.Date),
		st.DailyLoad,
		st.AcuteLoad,
		st.ChronicLoad,
		st.Fatigue,
		st.Fitness,
		st.TrainingEffect,
		st.CreatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("put training state: %w", err)
	}
	return nil
}

// GetTrainingState retrieves the state for one calendar day.
func (d *DB) GetTrainingState(userID string, date time.Time) (*models.TrainingState, error) {
	query := trainingStateSelect + ` WHERE user_id = ? AND date = ?`
	return scanTrainingState(d.db.QueryRow(query, userID, models.DateKey(date)))
}

// LatestTrainingState retrieves the most recent state for a user.
func (d *DB) LatestTrainingState(userID string) (*models.TrainingState, error) {
	query := trainingStateSelect + ` WHERE user_id = ? ORDER BY date DESC LIMIT 1`
	return scanTrainingState(d.db.QueryRow(query, userID))
}

const trainingStateSelect = `
	SELECT user_id, date, daily_load, acute_load, chronic_load,
		fatigue, fitness, training_effect, created_at
	FROM training_states`

func scanTrainingState(row rowScanner) (*models.TrainingState, error) {
	var st models.TrainingState
	var date, createdAt string

	err := row.Scan(&st.UserID, &date, &st.DailyLoad, &st.AcuteLoad,
		&st.ChronicLoad, &st.Fatigue, &st.Fitness, &st.TrainingEffect, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan training state: %w", err)
	}

	if st.Date, err = time.ParseInLocation("2006-01-02", date, time.Local); err != nil {
		return nil, fmt.Errorf("parse training state date: %w", err)
	}
	if st.CreatedAt, err = parseTimeLoose(createdAt); err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}
	return &st, nil
}
