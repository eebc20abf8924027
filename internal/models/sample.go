// ABOUTME: Sample model and MetricType enum for wearable sensor data.
// ABOUTME: Point samples carry instantaneous values; interval samples span a time window.
package models

import (
	"time"

	"github.com/google/uuid"
)

// MetricType represents the type of wearable metric being recorded.
type MetricType string

const (
	// Biometrics
	MetricRestingHeartRate MetricType = "resting_heart_rate"
	MetricHeartRate        MetricType = "heart_rate"
	MetricHRV              MetricType = "hrv"
	MetricRespiratoryRate  MetricType = "respiratory_rate"
	MetricSpO2             MetricType = "spo2"
	MetricTemperature      MetricType = "temperature"
	MetricStress           MetricType = "stress"

	// Activity
	MetricSteps          MetricType = "steps"
	MetricDistance       MetricType = "distance"
	MetricActiveCalories MetricType = "active_calories"
	MetricCaloriesIntake MetricType = "calories_intake"

	// Interval metrics. Workouts carry perceived effort (RPE 0-10) as their
	// value; sleep sessions carry no value, only the time window.
	MetricWorkout   MetricType = "workout"
	MetricSleepAuto MetricType = "sleep_auto"
)

// MetricUnits maps metric types to their display units.
var MetricUnits = map[MetricType]string{
	MetricRestingHeartRate: "bpm",
	MetricHeartRate:        "bpm",
	MetricHRV:              "ms",
	MetricRespiratoryRate:  "br/min",
	MetricSpO2:             "%",
	MetricTemperature:      "°C",
	MetricStress:           "scale",
	MetricSteps:            "steps",
	MetricDistance:         "m",
	MetricActiveCalories:   "kcal",
	MetricCaloriesIntake:   "kcal",
	MetricWorkout:          "rpe",
	MetricSleepAuto:        "min",
}

// AllMetricTypes returns all valid metric types.
var AllMetricTypes = []MetricType{
	MetricRestingHeartRate, MetricHeartRate, MetricHRV,
	MetricRespiratoryRate, MetricSpO2, MetricTemperature, MetricStress,
	MetricSteps, MetricDistance, MetricActiveCalories, MetricCaloriesIntake,
	MetricWorkout, MetricSleepAuto,
}

// IsValidMetricType checks if a string is a valid metric type.
func IsValidMetricType(s string) bool {
	for _, mt := range AllMetricTypes {
		if string(mt) == s {
			return true
		}
	}
	return false
}

// IsIntervalMetric reports whether samples of this type span a time window.
func IsIntervalMetric(mt MetricType) bool {
	return mt == MetricWorkout || mt == MetricSleepAuto
}

// Sample represents a single collected sensor sample. Samples are immutable
// once stored; they are produced by the external collection adapter.
type Sample struct {
	ID            uuid.UUID
	UserID        string
	MetricType    MetricType
	Value         float64
	Unit          string
	RecordedAt    time.Time
	IsInterval    bool
	IntervalStart *time.Time
	IntervalEnd   *time.Time
	Source        string
	Notes         *string
	CreatedAt     time.Time
}

// NewSample creates a new Sample with generated UUID and current timestamp.
func NewSample(userID string, metricType MetricType, value float64) *Sample {
	now := time.Now()
	return &Sample{
		ID:         uuid.New(),
		UserID:     userID,
		MetricType: metricType,
		Value:      value,
		Unit:       MetricUnits[metricType],
		RecordedAt: now,
		IsInterval: IsIntervalMetric(metricType),
		CreatedAt:  now,
	}
}

// WithRecordedAt sets a custom recorded_at timestamp.
func (s *Sample) WithRecordedAt(t time.Time) *Sample {
	s.RecordedAt = t
	return s
}

// WithInterval sets the sample's time window. RecordedAt follows the window
// end so that day-bucketed queries see interval samples on the day they
// finished (a sleep session belongs to its wake date).
func (s *Sample) WithInterval(start, end time.Time) *Sample {
	s.IsInterval = true
	s.IntervalStart = &start
	s.IntervalEnd = &end
	s.RecordedAt = end
	return s
}

// WithSource labels which adapter produced the sample.
func (s *Sample) WithSource(source string) *Sample {
	s.Source = source
	return s
}

// WithNotes sets notes on the sample.
func (s *Sample) WithNotes(notes string) *Sample {
	s.Notes = &notes
	return s
}

// DurationMinutes returns the length of an interval sample in minutes,
// or 0 for point samples.
func (s *Sample) DurationMinutes() float64 {
	if !s.IsInterval || s.IntervalStart == nil || s.IntervalEnd == nil {
		return 0
	}
	d := s.IntervalEnd.Sub(*s.IntervalStart)
	if d < 0 {
		return 0
	}
	return d.Minutes()
}
