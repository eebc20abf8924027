// ABOUTME: Tests for Repository interface implementation.
// ABOUTME: Verifies CRUD operations for samples, sleep, training state, results.
package storage

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/harperreed/readiness/internal/models"
)

func setupTestDB(t *testing.T) *DB {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	return db
}

func TestCreateAndGetSample(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	s := models.NewSample("op1", models.MetricHRV, 48)
	s.WithNotes("morning reading").WithSource("watch")

	if err := db.CreateSample(s); err != nil {
		t.Fatalf("CreateSample failed: %v", err)
	}

	got, err := db.GetSample(s.ID.String())
	if err != nil {
		t.Fatalf("GetSample failed: %v", err)
	}

	if got.ID != s.ID {
		t.Errorf("ID mismatch: got %v, want %v", got.ID, s.ID)
	}
	if got.MetricType != models.MetricHRV {
		t.Errorf("MetricType mismatch: got %v, want hrv", got.MetricType)
	}
	if got.Value != 48 {
		t.Errorf("Value mismatch: got %v, want 48", got.Value)
	}
	if got.Source != "watch" {
		t.Errorf("Source mismatch: got %v, want watch", got.Source)
	}
	if got.Notes == nil || *got.Notes != "morning reading" {
		t.Errorf("Notes mismatch: got %v", got.Notes)
	}
}

func TestGetSampleByPrefix(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	s := models.NewSample("op1", models.MetricRestingHeartRate, 52)
	if err := db.CreateSample(s); err != nil {
		t.Fatalf("CreateSample failed: %v", err)
	}

	got, err := db.GetSample(s.ID.String()[:8])
	if err != nil {
		t.Fatalf("GetSample by prefix failed: %v", err)
	}
	if got.ID != s.ID {
		t.Errorf("ID mismatch: got %v, want %v", got.ID, s.ID)
	}

	if _, err := db.GetSample("ffffffff"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for missing prefix, got %v", err)
	}
}

func TestSamplesInRange(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	base := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		s := models.NewSample("op1", models.MetricHRV, 40+float64(i))
		s.WithRecordedAt(base.AddDate(0, 0, i))
		if err := db.CreateSample(s); err != nil {
			t.Fatalf("CreateSample failed: %v", err)
		}
	}
	// Another user's samples must not leak into the range.
	other := models.NewSample("op2", models.MetricHRV, 99)
	other.WithRecordedAt(base.AddDate(0, 0, 1))
	if err := db.CreateSample(other); err != nil {
		t.Fatalf("CreateSample failed: %v", err)
	}

	got, err := db.SamplesInRange("op1", models.MetricHRV, base, base.AddDate(0, 0, 3))
	if err != nil {
		t.Fatalf("SamplesInRange failed: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 samples, got %d", len(got))
	}
	// Ascending order.
	if got[0].Value != 40 || got[2].Value != 42 {
		t.Errorf("unexpected order: first=%v last=%v", got[0].Value, got[2].Value)
	}
}

func TestIntervalSampleRoundTrip(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	start := time.Date(2026, 3, 1, 23, 0, 0, 0, time.UTC)
	end := start.Add(430 * time.Minute)
	s := models.NewSample("op1", models.MetricSleepAuto, 0).WithInterval(start, end)

	if err := db.CreateSample(s); err != nil {
		t.Fatalf("CreateSample failed: %v", err)
	}

	got, err := db.GetSample(s.ID.String())
	if err != nil {
		t.Fatalf("GetSample failed: %v", err)
	}
	if !got.IsInterval {
		t.Error("expected interval sample")
	}
	if got.DurationMinutes() != 430 {
		t.Errorf("DurationMinutes = %f, want 430", got.DurationMinutes())
	}
}

func TestEarliestSampleDate(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	if _, err := db.EarliestSampleDate("op1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound on empty db, got %v", err)
	}

	early := time.Date(2026, 2, 1, 7, 30, 0, 0, time.Local)
	for _, offset := range []int{5, 0, 2} {
		s := models.NewSample("op1", models.MetricSteps, 9000)
		s.WithRecordedAt(early.AddDate(0, 0, offset))
		if err := db.CreateSample(s); err != nil {
			t.Fatalf("CreateSample failed: %v", err)
		}
	}

	got, err := db.EarliestSampleDate("op1")
	if err != nil {
		t.Fatalf("EarliestSampleDate failed: %v", err)
	}
	if !got.Equal(models.DateOf(early)) {
		t.Errorf("EarliestSampleDate = %v, want %v", got, models.DateOf(early))
	}
}

func TestSleepEntries(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	date := time.Date(2026, 3, 12, 0, 0, 0, 0, time.Local)
	e := models.NewSleepEntry("op1", date, 430).WithOverride()
	if err := db.CreateSleepEntry(e); err != nil {
		t.Fatalf("CreateSleepEntry failed: %v", err)
	}

	entries, err := db.SleepEntriesForDate("op1", date)
	if err != nil {
		t.Fatalf("SleepEntriesForDate failed: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if entries[0].Minutes != 430 || !entries[0].IsOverride {
		t.Errorf("entry mismatch: %+v", entries[0])
	}

	empty, err := db.SleepEntriesForDate("op1", date.AddDate(0, 0, 1))
	if err != nil {
		t.Fatalf("SleepEntriesForDate failed: %v", err)
	}
	if len(empty) != 0 {
		t.Errorf("expected no entries, got %d", len(empty))
	}
}

func TestTrainingStateRoundTrip(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	date := time.Date(2026, 3, 12, 0, 0, 0, 0, time.Local)
	st := &models.TrainingState{
		UserID:         "op1",
		Date:           date,
		DailyLoad:      50,
		AcuteLoad:      45,
		ChronicLoad:    40,
		Fatigue:        120,
		Fitness:        150,
		TrainingEffect: 30,
		CreatedAt:      time.Now(),
	}
	if err := db.PutTrainingState(st); err != nil {
		t.Fatalf("PutTrainingState failed: %v", err)
	}

	got, err := db.GetTrainingState("op1", date)
	if err != nil {
		t.Fatalf("GetTrainingState failed: %v", err)
	}
	if got.Fatigue != 120 || got.Fitness != 150 || got.TrainingEffect != 30 {
		t.Errorf("state mismatch: %+v", got)
	}

	// Same-day upsert is idempotent.
	st.Fatigue = 125
	if err := db.PutTrainingState(st); err != nil {
		t.Fatalf("PutTrainingState upsert failed: %v", err)
	}
	got, err = db.GetTrainingState("op1", date)
	if err != nil {
		t.Fatalf("GetTrainingState failed: %v", err)
	}
	if got.Fatigue != 125 {
		t.Errorf("Fatigue = %f, want 125 after upsert", got.Fatigue)
	}

	latest, err := db.LatestTrainingState("op1")
	if err != nil {
		t.Fatalf("LatestTrainingState failed: %v", err)
	}
	if !latest.Date.Equal(date) {
		t.Errorf("latest date = %v, want %v", latest.Date, date)
	}

	if _, err := db.GetTrainingState("op1", date.AddDate(0, 0, 1)); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestResultRoundTrip(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	date := time.Date(2026, 3, 12, 0, 0, 0, 0, time.Local)
	r := &models.Result{
		UserID:           "op1",
		Date:             date,
		Readiness:        82,
		Recovery:         85,
		SleepQuality:     78,
		Category:         models.CategoryGo,
		Confidence:       models.ConfidenceHigh,
		DataCompleteness: 88.2,
		Confidences: map[string]models.Confidence{
			models.ScoreRecovery: models.ConfidenceHigh,
		},
		Breakdown: map[string]map[string]float64{
			models.ScoreRecovery: {"hrv_z": 0.4},
		},
		CalculatedAt: time.Now().UTC().Truncate(time.Second),
	}
	if err := db.SaveResult(r); err != nil {
		t.Fatalf("SaveResult failed: %v", err)
	}

	got, err := db.GetResult("op1", date)
	if err != nil {
		t.Fatalf("GetResult failed: %v", err)
	}
	if got.Readiness != 82 || got.Category != models.CategoryGo {
		t.Errorf("result mismatch: %+v", got)
	}
	if got.Confidences[models.ScoreRecovery] != models.ConfidenceHigh {
		t.Errorf("confidences not preserved: %+v", got.Confidences)
	}
	if got.Breakdown[models.ScoreRecovery]["hrv_z"] != 0.4 {
		t.Errorf("breakdown not preserved: %+v", got.Breakdown)
	}

	// Recompute overwrites the same date.
	r.Readiness = 75
	r.Category = models.CategoryCaution
	if err := db.SaveResult(r); err != nil {
		t.Fatalf("SaveResult overwrite failed: %v", err)
	}
	got, err = db.GetResult("op1", date)
	if err != nil {
		t.Fatalf("GetResult failed: %v", err)
	}
	if got.Readiness != 75 || got.Category != models.CategoryCaution {
		t.Errorf("overwrite not applied: %+v", got)
	}

	list, err := db.ListResults("op1", 10)
	if err != nil {
		t.Fatalf("ListResults failed: %v", err)
	}
	if len(list) != 1 {
		t.Errorf("expected 1 result, got %d", len(list))
	}
}

func TestProfileRoundTrip(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	if _, err := db.GetProfile("op1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}

	p := &models.Profile{UserID: "op1", MaxHR: 190, RestingHR: 48, Age: 34, SleepNeedMinutes: 450}
	if err := db.UpsertProfile(p); err != nil {
		t.Fatalf("UpsertProfile failed: %v", err)
	}

	got, err := db.GetProfile("op1")
	if err != nil {
		t.Fatalf("GetProfile failed: %v", err)
	}
	if got.MaxHR != 190 || got.RestingHR != 48 {
		t.Errorf("profile mismatch: %+v", got)
	}
}
