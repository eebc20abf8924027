// ABOUTME: Manual sleep entry operations for SQLite storage.
// ABOUTME: Entries are keyed by (user, wake date) and may override auto sleep.
package storage

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/harperreed/readiness/internal/models"
)

// CreateSleepEntry stores a manual sleep entry.
func (d *DB) CreateSleepEntry(e *models.SleepEntry) error {
	query := `
		INSERT INTO sleep_entries (id, user_id, wake_date, minutes, is_override, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	_, err := d.db.Exec(query,
		e.ID.String(),
		e.UserID,
		models.DateKey(e.WakeDate),
		e.Minutes,
		boolToInt(e.IsOverride),
		e.CreatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("create sleep entry: %w", err)
	}
	return nil
}

// SleepEntriesForDate retrieves manual entries for a wake date,
// most recent first.
func (d *DB) SleepEntriesForDate(userID string, date time.Time) ([]*models.SleepEntry, error) {
	query := `
		SELECT id, user_id, wake_date, minutes, is_override, created_at
		FROM sleep_entries
		WHERE user_id = ? AND wake_date = ?
		ORDER BY created_at DESC
	`
	rows, err := d.db.Query(query, userID, models.DateKey(date))
	if err != nil {
		return nil, fmt.Errorf("sleep entries for date: %w", err)
	}
	defer rows.Close()

	var entries []*models.SleepEntry
	for rows.Next() {
		e, err := scanSleepEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func scanSleepEntry(rows *sql.Rows) (*models.SleepEntry, error) {
	var e models.SleepEntry
	var id, wakeDate, createdAt string
	var isOverride int

	if err := rows.Scan(&id, &e.UserID, &wakeDate, &e.Minutes, &isOverride, &createdAt); err != nil {
		return nil, fmt.Errorf("scan sleep entry: %w", err)
	}

	var err error
	if e.ID, err = uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("parse sleep entry id: %w", err)
	}
	if e.WakeDate, err = time.ParseInLocation("2006-01-02", wakeDate, time.Local); err != nil {
		return nil, fmt.Errorf("parse wake_date: %w", err)
	}
	e.IsOverride = isOverride != 0
	if e.CreatedAt, err = parseTimeLoose(createdAt); err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}
	return &e, nil
}
