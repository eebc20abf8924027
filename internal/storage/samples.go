// ABOUTME: Sample CRUD operations for SQLite storage.
// ABOUTME: Implements Repository interface methods for sensor samples.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/harperreed/readiness/internal/models"
)

// CreateSample stores a new sample in the database.
func (d *DB) CreateSample(s *models.Sample) error {
	query := `
		INSERT INTO samples (id, user_id, metric_type, value, unit, recorded_at,
			is_interval, interval_start, interval_end, source, notes, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := d.db.Exec(query,
		s.ID.String(),
		s.UserID,
		string(s.MetricType),
		s.Value,
		s.Unit,
		s.RecordedAt.Format(time.RFC3339),
		boolToInt(s.IsInterval),
		formatTimePtr(s.IntervalStart),
		formatTimePtr(s.IntervalEnd),
		s.Source,
		s.Notes,
		s.CreatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("create sample: %w", err)
	}
	return nil
}

// GetSample retrieves a sample by ID or ID prefix.
func (d *DB) GetSample(idOrPrefix string) (*models.Sample, error) {
	id, err := d.resolveSampleID(idOrPrefix)
	if err != nil {
		return nil, err
	}

	query := sampleSelect + ` WHERE id = ?`
	return d.scanSample(d.db.QueryRow(query, id))
}

// ListSamples retrieves samples for a user with optional filtering by type.
// Results are sorted by RecordedAt descending (most recent first).
func (d *DB) ListSamples(userID string, metricType *models.MetricType, limit int) ([]*models.Sample, error) {
	query := sampleSelect + ` WHERE user_id = ?`
	args := []interface{}{userID}

	if metricType != nil {
		query += ` AND metric_type = ?`
		args = append(args, string(*metricType))
	}
	query += ` ORDER BY recorded_at DESC`
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := d.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list samples: %w", err)
	}
	defer rows.Close()

	return d.collectSamples(rows)
}

// SamplesInRange retrieves samples of one type recorded in [from, to),
// sorted by RecordedAt ascending.
func (d *DB) SamplesInRange(userID string, metricType models.MetricType, from, to time.Time) ([]*models.Sample, error) {
	query := sampleSelect + `
		WHERE user_id = ? AND metric_type = ? AND recorded_at >= ? AND recorded_at < ?
		ORDER BY recorded_at ASC
	`
	rows, err := d.db.Query(query,
		userID,
		string(metricType),
		from.Format(time.RFC3339),
		to.Format(time.RFC3339),
	)
	if err != nil {
		return nil, fmt.Errorf("samples in range: %w", err)
	}
	defer rows.Close()

	return d.collectSamples(rows)
}

// DeleteSample removes a sample by ID or prefix.
func (d *DB) DeleteSample(idOrPrefix string) error {
	id, err := d.resolveSampleID(idOrPrefix)
	if err != nil {
		return err
	}
	_, err = d.db.Exec(`DELETE FROM samples WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete sample: %w", err)
	}
	return nil
}

// EarliestSampleDate returns the calendar day of the user's oldest sample.
func (d *DB) EarliestSampleDate(userID string) (time.Time, error) {
	var raw sql.NullString
	err := d.db.QueryRow(
		`SELECT MIN(recorded_at) FROM samples WHERE user_id = ?`, userID,
	).Scan(&raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("earliest sample date: %w", err)
	}
	if !raw.Valid || raw.String == "" {
		return time.Time{}, ErrNotFound
	}
	t, err := time.Parse(time.RFC3339, raw.String)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse earliest sample date: %w", err)
	}
	return models.DateOf(t.Local()), nil
}

const sampleSelect = `
	SELECT id, user_id, metric_type, value, unit, recorded_at,
		is_interval, interval_start, interval_end, source, notes, created_at
	FROM samples`

// resolveSampleID resolves a full or prefix ID to a single sample ID.
func (d *DB) resolveSampleID(idOrPrefix string) (string, error) {
	if _, err := uuid.Parse(idOrPrefix); err == nil {
		return idOrPrefix, nil
	}

	rows, err := d.db.Query(
		`SELECT id FROM samples WHERE id LIKE ? LIMIT 2`, idOrPrefix+"%")
	if err != nil {
		return "", fmt.Errorf("resolve sample id: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return "", err
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return "", err
	}

	switch len(ids) {
	case 0:
		return "", fmt.Errorf("sample %q: %w", idOrPrefix, ErrNotFound)
	case 1:
		return ids[0], nil
	default:
		return "", fmt.Errorf("ambiguous sample id prefix: %s", idOrPrefix)
	}
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func (d *DB) scanSample(row rowScanner) (*models.Sample, error) {
	var s models.Sample
	var id, recordedAt, createdAt string
	var isInterval int
	var intervalStart, intervalEnd sql.NullString

	err := row.Scan(&id, &s.UserID, (*string)(&s.MetricType), &s.Value, &s.Unit,
		&recordedAt, &isInterval, &intervalStart, &intervalEnd, &s.Source,
		&s.Notes, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan sample: %w", err)
	}

	s.ID, err = uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("parse sample id: %w", err)
	}
	s.IsInterval = isInterval != 0
	if s.RecordedAt, err = time.Parse(time.RFC3339, recordedAt); err != nil {
		return nil, fmt.Errorf("parse recorded_at: %w", err)
	}
	if s.CreatedAt, err = parseTimeLoose(createdAt); err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}
	if s.IntervalStart, err = parseTimePtr(intervalStart); err != nil {
		return nil, fmt.Errorf("parse interval_start: %w", err)
	}
	if s.IntervalEnd, err = parseTimePtr(intervalEnd); err != nil {
		return nil, fmt.Errorf("parse interval_end: %w", err)
	}
	return &s, nil
}

func (d *DB) collectSamples(rows *sql.Rows) ([]*models.Sample, error) {
	var samples []*models.Sample
	for rows.Next() {
		s, err := d.scanSample(rows)
		if err != nil {
			return nil, err
		}
		samples = append(samples, s)
	}
	return samples, rows.Err()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func formatTimePtr(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return t.Format(time.RFC3339)
}

func parseTimePtr(s sql.NullString) (*time.Time, error) {
	if !s.Valid || s.String == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, s.String)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// parseTimeLoose accepts RFC3339 or SQLite's CURRENT_TIMESTAMP format.
func parseTimeLoose(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02 15:04:05", s)
}
