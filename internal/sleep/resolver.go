// ABOUTME: SleepSourceResolver reconciles auto-detected and manual sleep per wake date.
// ABOUTME: Manual overrides win, then auto sessions, then any manual entry.
package sleep

import (
	"context"
	"fmt"
	"time"

	"github.com/harperreed/readiness/internal/models"
	"github.com/harperreed/readiness/internal/storage"
)

// Source identifies which input won the resolution for a date.
type Source string

const (
	SourceAuto   Source = "auto"
	SourceManual Source = "manual"
	SourceNone   Source = "none"
)

// Plausibility bands in minutes, used for confidence and the composite
// low-confidence flag.
const (
	implausibleShortMin = 180
	implausibleLongMin  = 720
	typicalShortMin     = 360
	typicalLongMin      = 540
	flagShortMin        = 210
	flagLongMin         = 660
)

// Resolved is the single authoritative sleep duration for a wake date.
// Derived on each aggregation, never persisted as its own entity.
type Resolved struct {
	Minutes     float64
	Source      Source
	Confidence  models.Confidence
	IsOverride  bool
	WindowStart *time.Time
	WindowEnd   *time.Time
}

// LowConfidence reports whether the surrounding system should prompt the
// user for correction: no source, a low label, or a duration outside the
// 3.5h-11h band. The engine only reports the flag.
func (r Resolved) LowConfidence() bool {
	if r.Source == SourceNone {
		return true
	}
	if r.Confidence == models.ConfidenceLow {
		return true
	}
	return r.Minutes < flagShortMin || r.Minutes > flagLongMin
}

// Resolver chooses between auto-detected sleep sessions and manual entries.
type Resolver struct {
	repo storage.Repository
}

// NewResolver creates a resolver over the given repository.
func NewResolver(repo storage.Repository) *Resolver {
	return &Resolver{repo: repo}
}

// Resolve picks the authoritative sleep for a (user, wake date) pair.
// Precedence: explicit manual override, then auto-detected session, then
// any manual entry, then none.
func (r *Resolver) Resolve(ctx context.Context, userID string, date time.Time) (Resolved, error) {
	if err := ctx.Err(); err != nil {
		return Resolved{}, err
	}

	day := models.DateOf(date)

	manual, err := r.repo.SleepEntriesForDate(userID, day)
	if err != nil {
		return Resolved{}, fmt.Errorf("manual sleep entries: %w", err)
	}

	auto, err := r.autoSession(userID, day)
	if err != nil {
		return Resolved{}, err
	}

	if override := findOverride(manual); override != nil {
		return r.manualResolved(override, auto, true), nil
	}

	if auto != nil {
		minutes := auto.DurationMinutes()
		return Resolved{
			Minutes:     minutes,
			Source:      SourceAuto,
			Confidence:  autoConfidence(minutes),
			WindowStart: auto.IntervalStart,
			WindowEnd:   auto.IntervalEnd,
		}, nil
	}

	if len(manual) > 0 {
		return r.manualResolved(manual[0], nil, false), nil
	}

	return Resolved{Source: SourceNone, Confidence: models.ConfidenceLow}, nil
}

// autoSession returns the longest auto-detected sleep session waking on the
// given date, or nil when none exists.
func (r *Resolver) autoSession(userID string, day time.Time) (*models.Sample, error) {
	sessions, err := r.repo.SamplesInRange(userID, models.MetricSleepAuto, day, day.AddDate(0, 0, 1))
	if err != nil {
		return nil, fmt.Errorf("auto sleep sessions: %w", err)
	}

	var best *models.Sample
	for _, s := range sessions {
		if s.DurationMinutes() <= 0 {
			continue
		}
		if best == nil || s.DurationMinutes() > best.DurationMinutes() {
			best = s
		}
	}
	return best, nil
}

func (r *Resolver) manualResolved(entry *models.SleepEntry, auto *models.Sample, isOverride bool) Resolved {
	return Resolved{
		Minutes:    entry.Minutes,
		Source:     SourceManual,
		Confidence: manualConfidence(entry.Minutes, auto != nil),
		IsOverride: isOverride,
	}
}

// findOverride returns the most recent entry flagged as an explicit
// override, or nil.
func findOverride(entries []*models.SleepEntry) *models.SleepEntry {
	for _, e := range entries {
		if e.IsOverride {
			return e
		}
	}
	return nil
}

// manualConfidence labels a manual duration: low outside plausible bounds,
// medium in the typical band or when corroborated by partial auto data,
// low otherwise.
func manualConfidence(minutes float64, corroborated bool) models.Confidence {
	if minutes < implausibleShortMin || minutes > implausibleLongMin {
		return models.ConfidenceLow
	}
	if minutes >= typicalShortMin && minutes <= typicalLongMin {
		return models.ConfidenceMedium
	}
	if corroborated {
		return models.ConfidenceMedium
	}
	return models.ConfidenceLow
}

// autoConfidence labels an auto-detected duration: high inside the
// plausible band, medium outside it.
func autoConfidence(minutes float64) models.Confidence {
	if minutes >= flagShortMin && minutes <= flagLongMin {
		return models.ConfidenceHigh
	}
	return models.ConfidenceMedium
}
