// ABOUTME: TrainingState model for the two-state fitness/fatigue adaptation model.
// ABOUTME: One record per (user, date), derived sequentially from the prior day.
package models

import "time"

// TrainingState holds the impulse-response model state for one calendar day.
// Each day's record is derived from the prior day's record plus that day's
// load; records must be produced in date order and are immutable once the
// next day's state has been derived from them.
type TrainingState struct {
	UserID         string
	Date           time.Time
	DailyLoad      float64
	AcuteLoad      float64
	ChronicLoad    float64
	Fatigue        float64
	Fitness        float64
	TrainingEffect float64
	CreatedAt      time.Time
}

// ACWR returns the acute:chronic workload ratio. A chronic load of zero
// yields the insufficient-data sentinel 1.0, never Inf or NaN.
func (s *TrainingState) ACWR() float64 {
	if s.ChronicLoad <= 0 {
		return 1.0
	}
	return s.AcuteLoad / s.ChronicLoad
}

// DateOf truncates a timestamp to its calendar day in the local zone.
func DateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// DateKey formats a calendar day for storage keys.
func DateKey(t time.Time) string {
	return t.Format("2006-01-02")
}
