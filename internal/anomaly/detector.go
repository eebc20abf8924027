// ABOUTME: Anomaly detection over stored readiness results.
// ABOUTME: Flags sharp negative deviations of tracked scores from their own history.
package anomaly

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/harperreed/readiness/internal/models"
	"github.com/harperreed/readiness/internal/stats"
)

// Severity grades how far below its history a score has fallen.
type Severity string

const (
	SeverityAlert    Severity = "alert"
	SeverityCritical Severity = "critical"
)

// Detection thresholds. Only downward excursions are anomalies; a quiet
// series (stddev below minStdDev) never alerts no matter the deviation,
// and fewer than minHistory prior results is not enough history to judge.
const (
	minHistory   = 7
	minStdDev    = 1.0
	alertZ       = -2.0
	criticalZ    = -3.0
	historyLimit = 28
)

// TrackedScores are the score identifiers the detector watches.
var TrackedScores = []string{
	models.ScoreReadiness,
	models.ScoreRecovery,
	models.ScoreSleepQuality,
	models.ScoreAutonomicBalance,
	models.ScorePhysicalStatus,
}

// Anomaly is one flagged score on one date.
type Anomaly struct {
	UserID   string    `json:"user_id"`
	ScoreID  string    `json:"score_id"`
	Date     time.Time `json:"date"`
	Value    float64   `json:"value"`
	Mean     float64   `json:"mean"`
	StdDev   float64   `json:"std_dev"`
	ZScore   float64   `json:"z_score"`
	Severity Severity  `json:"severity"`
}

// resultLister is the slice of the repository the detector needs.
type resultLister interface {
	GetResult(userID string, date time.Time) (*models.Result, error)
	ListResultsBefore(userID string, date time.Time, limit int) ([]*models.Result, error)
}

// Detector compares a date's scores against that user's own result history.
type Detector struct {
	repo resultLister
}

// NewDetector creates a detector over the given result store.
func NewDetector(repo resultLister) *Detector {
	return &Detector{repo: repo}
}

// Detect flags tracked scores on date that fall sharply below their
// historical distribution. History is the stored results strictly before
// date; the date's own result never contaminates its reference window.
func (d *Detector) Detect(ctx context.Context, userID string, date time.Time) ([]Anomaly, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	day := models.DateOf(date)
	current, err := d.repo.GetResult(userID, day)
	if err != nil {
		return nil, fmt.Errorf("load result: %w", err)
	}

	prior, err := d.repo.ListResultsBefore(userID, day, historyLimit)
	if err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}
	if len(prior) < minHistory {
		return nil, nil
	}

	var anomalies []Anomaly
	for _, id := range TrackedScores {
		values := make([]float64, 0, len(prior))
		for _, r := range prior {
			v, err := r.Score(id)
			if err != nil {
				return nil, err
			}
			values = append(values, v)
		}

		sd := stats.StdDev(values)
		if sd < minStdDev {
			continue
		}
		mean := stats.Mean(values)
		value, err := current.Score(id)
		if err != nil {
			return nil, err
		}
		z := (value - mean) / sd
		if z > alertZ {
			continue
		}

		severity := SeverityAlert
		if z <= criticalZ {
			severity = SeverityCritical
		}
		anomalies = append(anomalies, Anomaly{
			UserID:   userID,
			ScoreID:  id,
			Date:     day,
			Value:    value,
			Mean:     mean,
			StdDev:   sd,
			ZScore:   z,
			Severity: severity,
		})

		log.Warn().
			Str("user", userID).
			Str("score", id).
			Str("date", models.DateKey(day)).
			Float64("value", value).
			Float64("z", z).
			Str("severity", string(severity)).
			Msg("score anomaly")
	}
	return anomalies, nil
}
