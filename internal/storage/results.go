// ABOUTME: ComprehensiveReadinessResult persistence for SQLite storage.
// ABOUTME: Score columns are explicit; confidences and breakdown are JSON blobs.
package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/harperreed/readiness/internal/models"
)

// SaveResult inserts or replaces the result for (user, date).
func (d *DB) SaveResult(r *models.Result) error {
	confidences, err := json.Marshal(r.Confidences)
	if err != nil {
		return fmt.Errorf("marshal confidences: %w", err)
	}
	breakdown, err := json.Marshal(r.Breakdown)
	if err != nil {
		return fmt.Errorf("marshal breakdown: %w", err)
	}

	query := `
		INSERT INTO results
			(user_id, date, readiness, fatigue_index, recovery, sleep_quality,
			sleep_debt, autonomic_balance, hrv_deviation, resting_hr_deviation,
			respiratory_stability, oxygen_stability, training_load,
			acute_chronic_ratio, cardiovascular_strain, stress_load,
			illness_risk, overtraining_risk, energy_availability,
			physical_status, category, confidence, data_completeness,
			confidences, breakdown, calculated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(user_id, date) DO UPDATE SET
			readiness = excluded.readiness,
			fatigue_index = excluded.fatigue_index,
			recovery = excluded.recovery,
			sleep_quality = excluded.sleep_quality,
			sleep_debt = excluded.sleep_debt,
			autonomic_balance = excluded.autonomic_balance,
			hrv_deviation = excluded.hrv_deviation,
			resting_hr_deviation = excluded.resting_hr_deviation,
			respiratory_stability = excluded.respiratory_stability,
			oxygen_stability = excluded.oxygen_stability,
			training_load = excluded.training_load,
			acute_chronic_ratio = excluded.acute_chronic_ratio,
			cardiovascular_strain = excluded.cardiovascular_strain,
			stress_load = excluded.stress_load,
			illness_risk = excluded.illness_risk,
			overtraining_risk = excluded.overtraining_risk,
			energy_availability = excluded.energy_availability,
			physical_status = excluded.physical_status,
			category = excluded.category,
			confidence = excluded.confidence,
			data_completeness = excluded.data_completeness,
			confidences = excluded.confidences,
			breakdown = excluded.breakdown,
			calculated_at = excluded.calculated_at
	`
	_, err = d.db.Exec(query,
		r.UserID, models.DateKey(r.Date),
		r.Readiness, r.FatigueIndex, r.Recovery, r.SleepQuality,
		r.SleepDebt, r.AutonomicBalance, r.HRVDeviation, r.RestingHRDeviation,
		r.RespiratoryStability, r.OxygenStability, r.TrainingLoad,
		r.AcuteChronicRatio, r.CardiovascularStrain, r.StressLoad,
		r.IllnessRisk, r.OvertrainingRisk, r.EnergyAvailability,
		r.PhysicalStatus, string(r.Category), string(r.Confidence),
		r.DataCompleteness, string(confidences), string(breakdown),
		r.CalculatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("save result: %w", err)
	}
	return nil
}

// GetResult retrieves the result for one calendar day.
func (d *DB) GetResult(userID string, date time.Time) (*models.Result, error) {
	query := resultSelect + ` WHERE user_id = ? AND date = ?`
	return scanResult(d.db.QueryRow(query, userID, models.DateKey(date)))
}

// ListResults retrieves recent results, most recent first.
func (d *DB) ListResults(userID string, limit int) ([]*models.Result, error) {
	query := resultSelect + ` WHERE user_id = ? ORDER BY date DESC`
	args := []interface{}{userID}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := d.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list results: %w", err)
	}
	defer rows.Close()

	var results []*models.Result
	for rows.Next() {
		r, err := scanResult(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, r)
	}
	return results, rows.Err()
}

// ListResultsBefore retrieves up to limit results strictly before the given
// day, most recent first.
func (d *DB) ListResultsBefore(userID string, date time.Time, limit int) ([]*models.Result, error) {
	query := resultSelect + ` WHERE user_id = ? AND date < ? ORDER BY date DESC LIMIT ?`
	rows, err := d.db.Query(query, userID, models.DateKey(date), limit)
	if err != nil {
		return nil, fmt.Errorf("list results before: %w", err)
	}
	defer rows.Close()

	var results []*models.Result
	for rows.Next() {
		r, err := scanResult(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, r)
	}
	return results, rows.Err()
}

const resultSelect = `
	SELECT user_id, date, readiness, fatigue_index, recovery, sleep_quality,
		sleep_debt, autonomic_balance, hrv_deviation, resting_hr_deviation,
		respiratory_stability, oxygen_stability, training_load,
		acute_chronic_ratio, cardiovascular_strain, stress_load,
		illness_risk, overtraining_risk, energy_availability,
		physical_status, category, confidence, data_completeness,
		confidences, breakdown, calculated_at
	FROM results`

func scanResult(row rowScanner) (*models.Result, error) {
	var r models.Result
	var date, category, confidence, confidences, breakdown, calculatedAt string

	err := row.Scan(&r.UserID, &date, &r.Readiness, &r.FatigueIndex,
		&r.Recovery, &r.SleepQuality, &r.SleepDebt, &r.AutonomicBalance,
		&r.HRVDeviation, &r.RestingHRDeviation, &r.RespiratoryStability,
		&r.OxygenStability, &r.TrainingLoad, &r.AcuteChronicRatio,
		&r.CardiovascularStrain, &r.StressLoad, &r.IllnessRisk,
		&r.OvertrainingRisk, &r.EnergyAvailability, &r.PhysicalStatus,
		&category, &confidence, &r.DataCompleteness,
		&confidences, &breakdown, &calculatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan result: %w", err)
	}

	r.Category = models.Category(category)
	r.Confidence = models.Confidence(confidence)

	if r.Date, err = time.ParseInLocation("2006-01-02", date, time.Local); err != nil {
		return nil, fmt.Errorf("parse result date: %w", err)
	}
	if r.CalculatedAt, err = time.Parse(time.RFC3339, calculatedAt); err != nil {
		return nil, fmt.Errorf("parse calculated_at: %w", err)
	}
	if err = json.Unmarshal([]byte(confidences), &r.Confidences); err != nil {
		return nil, fmt.Errorf("unmarshal confidences: %w", err)
	}
	if err = json.Unmarshal([]byte(breakdown), &r.Breakdown); err != nil {
		return nil, fmt.Errorf("unmarshal breakdown: %w", err)
	}
	return &r, nil
}
