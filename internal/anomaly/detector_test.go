// ABOUTME: Tests for anomaly detection thresholds and guard conditions.
// ABOUTME: Seeds result history through a real SQLite repository.
package anomaly

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harperreed/readiness/internal/models"
	"github.com/harperreed/readiness/internal/storage"
)

func setupDetector(t *testing.T) (*Detector, storage.Repository) {
	t.Helper()
	db, err := storage.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewDetector(db), db
}

// saveReadiness stores a minimal result where every tracked score carries
// the same value.
func saveReadiness(t *testing.T, repo storage.Repository, userID string, date time.Time, value float64) {
	t.Helper()
	r := &models.Result{
		UserID:       userID,
		Date:         models.DateOf(date),
		Category:     models.CategoryForScore(value),
		Confidence:   models.ConfidenceHigh,
		CalculatedAt: time.Now(),
	}
	for _, id := range TrackedScores {
		require.NoError(t, r.SetScore(id, value))
	}
	require.NoError(t, repo.SaveResult(r))
}

func TestDetectQuietSeriesNeverAlerts(t *testing.T) {
	det, repo := setupDetector(t)
	day := models.DateOf(time.Now())
	for i := 1; i <= 10; i++ {
		saveReadiness(t, repo, "op1", day.AddDate(0, 0, -i), 70)
	}
	// A hard drop after a flat history is suppressed by the spread guard.
	saveReadiness(t, repo, "op1", day, 20)

	anomalies, err := det.Detect(context.Background(), "op1", day)
	require.NoError(t, err)
	assert.Empty(t, anomalies)
}

func TestDetectInsufficientHistory(t *testing.T) {
	det, repo := setupDetector(t)
	day := models.DateOf(time.Now())
	for i := 1; i <= 6; i++ {
		saveReadiness(t, repo, "op1", day.AddDate(0, 0, -i), float64(50+10*i))
	}
	saveReadiness(t, repo, "op1", day, 10)

	anomalies, err := det.Detect(context.Background(), "op1", day)
	require.NoError(t, err)
	assert.Empty(t, anomalies)
}

func TestDetectCriticalDrop(t *testing.T) {
	det, repo := setupDetector(t)
	day := models.DateOf(time.Now())
	// Alternating 65/75: mean 70, population stddev 5.
	for i := 1; i <= 8; i++ {
		v := 65.0
		if i%2 == 0 {
			v = 75
		}
		saveReadiness(t, repo, "op1", day.AddDate(0, 0, -i), v)
	}
	saveReadiness(t, repo, "op1", day, 55)

	anomalies, err := det.Detect(context.Background(), "op1", day)
	require.NoError(t, err)
	require.Len(t, anomalies, len(TrackedScores))

	a := anomalies[0]
	assert.Equal(t, SeverityCritical, a.Severity)
	assert.InDelta(t, -3.0, a.ZScore, 0.001)
	assert.InDelta(t, 70.0, a.Mean, 0.001)
	assert.InDelta(t, 5.0, a.StdDev, 0.001)
}

func TestDetectAlertDrop(t *testing.T) {
	det, repo := setupDetector(t)
	day := models.DateOf(time.Now())
	for i := 1; i <= 8; i++ {
		v := 65.0
		if i%2 == 0 {
			v = 75
		}
		saveReadiness(t, repo, "op1", day.AddDate(0, 0, -i), v)
	}
	saveReadiness(t, repo, "op1", day, 58)

	anomalies, err := det.Detect(context.Background(), "op1", day)
	require.NoError(t, err)
	require.NotEmpty(t, anomalies)
	assert.Equal(t, SeverityAlert, anomalies[0].Severity)
}

func TestDetectNormalDayIsClean(t *testing.T) {
	det, repo := setupDetector(t)
	day := models.DateOf(time.Now())
	for i := 1; i <= 8; i++ {
		v := 65.0
		if i%2 == 0 {
			v = 75
		}
		saveReadiness(t, repo, "op1", day.AddDate(0, 0, -i), v)
	}
	saveReadiness(t, repo, "op1", day, 68)

	anomalies, err := det.Detect(context.Background(), "op1", day)
	require.NoError(t, err)
	assert.Empty(t, anomalies)
}

func TestDetectOlderDateIgnoresLaterResults(t *testing.T) {
	det, repo := setupDetector(t)
	today := models.DateOf(time.Now())
	target := today.AddDate(0, 0, -35)

	// Eight alternating days before the target, then the target's drop,
	// then a long run of newer results that must not crowd the target's
	// history out of the reference window.
	for i := 1; i <= 8; i++ {
		v := 65.0
		if i%2 == 0 {
			v = 75
		}
		saveReadiness(t, repo, "op1", target.AddDate(0, 0, -i), v)
	}
	saveReadiness(t, repo, "op1", target, 55)
	for i := 1; i <= 34; i++ {
		saveReadiness(t, repo, "op1", target.AddDate(0, 0, i), 70)
	}

	anomalies, err := det.Detect(context.Background(), "op1", target)
	require.NoError(t, err)
	require.Len(t, anomalies, len(TrackedScores))
	assert.Equal(t, SeverityCritical, anomalies[0].Severity)
	assert.InDelta(t, -3.0, anomalies[0].ZScore, 0.001)
}

func TestDetectMissingResult(t *testing.T) {
	det, _ := setupDetector(t)

	_, err := det.Detect(context.Background(), "op1", time.Now())
	assert.ErrorIs(t, err, storage.ErrNotFound)
}
