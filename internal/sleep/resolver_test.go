// ABOUTME: Tests for sleep source resolution precedence and confidence labels.
// ABOUTME: Covers override-wins, auto fallback, manual fallback, and none.
package sleep

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

func setupResolver(t *testing.T) (*Resolver, storage.Repository, time.Time) {
	t.Helper()
	db, err := storage.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	date := time.Date(2026, 3, 12, 0, 0, 0, 0, time.Local)
	return NewResolver(db), db, date
}

func addAutoSleep(t *testing.T, repo storage.Repository, date time.Time, minutes float64) {
	t.Helper()
	end := date.Add(7 * time.Hour)
	start := end.Add(-time.Duration(minutes) * time.Minute)
	s := models.NewSample("op1", models.MetricSleepAuto, 0).WithInterval(start, end)
	require.NoError(t, repo.CreateSample(s))
}

func TestResolveOverrideWins(t *testing.T) {
	resolver, repo, date := setupResolver(t)

	addAutoSleep(t, repo, date, 420)
	require.NoError(t, repo.CreateSleepEntry(models.NewSleepEntry("op1", date, 480).WithOverride()))

	got, err := resolver.Resolve(context.Background(), "op1", date)
	require.NoError(t, err)

	assert.Equal(t, SourceManual, got.Source)
	assert.True(t, got.IsOverride)
	assert.Equal(t, 480.0, got.Minutes)
	// In the typical band, corroborated by auto data.
	assert.Equal(t, models.ConfidenceMedium, got.Confidence)
}

func TestResolveAutoPreferred(t *testing.T) {
	resolver, repo, date := setupResolver(t)

	addAutoSleep(t, repo, date, 420)
	// A non-override manual entry does not beat auto detection.
	require.NoError(t, repo.CreateSleepEntry(models.NewSleepEntry("op1", date, 300)))

	got, err := resolver.Resolve(context.Background(), "op1", date)
	require.NoError(t, err)

	assert.Equal(t, SourceAuto, got.Source)
	assert.False(t, got.IsOverride)
	assert.Equal(t, 420.0, got.Minutes)
	assert.Equal(t, models.ConfidenceHigh, got.Confidence)
	assert.NotNil(t, got.WindowStart)
	assert.NotNil(t, got.WindowEnd)
}

func TestResolveManualFallback(t *testing.T) {
	resolver, repo, date := setupResolver(t)

	require.NoError(t, repo.CreateSleepEntry(models.NewSleepEntry("op1", date, 400)))

	got, err := resolver.Resolve(context.Background(), "op1", date)
	require.NoError(t, err)

	assert.Equal(t, SourceManual, got.Source)
	assert.Equal(t, 400.0, got.Minutes)
	assert.Equal(t, models.ConfidenceMedium, got.Confidence)
}

func TestResolveNone(t *testing.T) {
	resolver, _, date := setupResolver(t)

	got, err := resolver.Resolve(context.Background(), "op1", date)
	require.NoError(t, err)

	assert.Equal(t, SourceNone, got.Source)
	assert.Equal(t, 0.0, got.Minutes)
	assert.True(t, got.LowConfidence())
}

func TestResolveLongestAutoSessionWins(t *testing.T) {
	resolver, repo, date := setupResolver(t)

	addAutoSleep(t, repo, date, 90) // nap
	addAutoSleep(t, repo, date, 430)

	got, err := resolver.Resolve(context.Background(), "op1", date)
	require.NoError(t, err)
	assert.Equal(t, 430.0, got.Minutes)
}

func TestManualConfidenceBands(t *testing.T) {
	tests := []struct {
		name         string
		minutes      float64
		corroborated bool
		want         models.Confidence
	}{
		{"implausibly short", 120, false, models.ConfidenceLow},
		{"implausibly long", 800, false, models.ConfidenceLow},
		{"typical band", 450, false, models.ConfidenceMedium},
		{"plausible but atypical", 250, false, models.ConfidenceLow},
		{"atypical but corroborated", 250, true, models.ConfidenceMedium},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, manualConfidence(tt.minutes, tt.corroborated))
		})
	}
}

func TestLowConfidenceFlag(t *testing.T) {
	tests := []struct {
		name string
		r    Resolved
		want bool
	}{
		{"none source", Resolved{Source: SourceNone, Confidence: models.ConfidenceLow}, true},
		{"low label", Resolved{Source: SourceManual, Minutes: 400, Confidence: models.ConfidenceLow}, true},
		{"too short", Resolved{Source: SourceAuto, Minutes: 180, Confidence: models.ConfidenceMedium}, true},
		{"too long", Resolved{Source: SourceAuto, Minutes: 700, Confidence: models.ConfidenceMedium}, true},
		{"healthy", Resolved{Source: SourceAuto, Minutes: 430, Confidence: models.ConfidenceHigh}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.r.LowConfidence())
		})
	}
}
