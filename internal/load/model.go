// ABOUTME: TrainingLoadModel: daily load derivation and sequential state advancement.
// ABOUTME: State lives in the repository; the model is stateless between calls.
package load

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/harperreed/readiness/internal/models"
	"github.com/harperreed/readiness/internal/stats"
	"github.com/harperreed/readiness/internal/storage"
)

// ErrSequenceViolation is returned when a day's state is requested without
// its immediate predecessor. Silently inserting a zero state would corrupt
// the decay recurrence, so this is fatal to that date's derivation.
var ErrSequenceViolation = errors.New("training state sequence violation")

// coldStartLookbackDays bounds how far back a cold start replays history.
// The fitness state needs the full tau window to reach steady state.
const coldStartLookbackDays = 90

// Model derives daily training load from workout samples and advances the
// per-user training state one day at a time.
type Model struct {
	repo storage.Repository
}

// NewModel creates a training load model over the given repository.
func NewModel(repo storage.Repository) *Model {
	return &Model{repo: repo}
}

// DailyLoad computes the summed training load for one calendar day.
// Workouts with heart rate samples in their window use TRIMP; the rest
// fall back to duration x perceived effort. Manual and auto-detected
// workouts combine additively.
func (m *Model) DailyLoad(ctx context.Context, userID string, date time.Time, profile *models.Profile) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	day := models.DateOf(date)
	workouts, err := m.repo.SamplesInRange(userID, models.MetricWorkout, day, day.AddDate(0, 0, 1))
	if err != nil {
		return 0, fmt.Errorf("load workouts: %w", err)
	}

	var total float64
	for _, w := range workouts {
		duration := w.DurationMinutes()
		if duration <= 0 {
			continue
		}

		avgHR, err := m.averageHR(userID, w)
		if err != nil {
			return 0, err
		}

		if avgHR > 0 {
			total += TRIMP(duration, avgHR, profile)
		} else {
			total += EffortLoad(duration, w.Value)
		}
	}
	return total, nil
}

// AdvanceDay derives and stores the training state for one date. The
// immediate predecessor must exist unless the user has no state at all,
// in which case the day is treated as a cold start from zero.
func (m *Model) AdvanceDay(ctx context.Context, userID string, date time.Time, profile *models.Profile) (*models.TrainingState, error) {
	day := models.DateOf(date)

	prev, err := m.repo.GetTrainingState(userID, day.AddDate(0, 0, -1))
	if errors.Is(err, storage.ErrNotFound) {
		if _, latestErr := m.repo.LatestTrainingState(userID); latestErr == nil {
			return nil, fmt.Errorf("state for %s requires %s: %w",
				models.DateKey(day), models.DateKey(day.AddDate(0, 0, -1)), ErrSequenceViolation)
		} else if !errors.Is(latestErr, storage.ErrNotFound) {
			return nil, latestErr
		}
		prev = nil // cold start
	} else if err != nil {
		return nil, err
	}

	dailyLoad, err := m.DailyLoad(ctx, userID, day, profile)
	if err != nil {
		return nil, err
	}

	st := Advance(prev, userID, day, dailyLoad)
	if err := m.repo.PutTrainingState(st); err != nil {
		return nil, err
	}

	log.Debug().
		Str("user", userID).
		Str("date", models.DateKey(day)).
		Float64("load", dailyLoad).
		Float64("fatigue", st.Fatigue).
		Float64("fitness", st.Fitness).
		Msg("training state advanced")

	return st, nil
}

// EnsureThrough advances the state chain day by day up to and including
// date, and returns the state for date. Cold starts replay from the
// earliest sample (bounded by the lookback window) so stored history
// contributes to the decay states.
func (m *Model) EnsureThrough(ctx context.Context, userID string, date time.Time, profile *models.Profile) (*models.TrainingState, error) {
	day := models.DateOf(date)

	latest, err := m.repo.LatestTrainingState(userID)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		start := day
		if earliest, err := m.repo.EarliestSampleDate(userID); err == nil && earliest.Before(start) {
			start = earliest
		}
		if floor := day.AddDate(0, 0, -coldStartLookbackDays); start.Before(floor) {
			start = floor
		}
		return m.advanceRange(ctx, userID, start, day, profile)
	case err != nil:
		return nil, err
	case !latest.Date.Before(day):
		// Already derived through this date; recomputation at the result
		// level reuses the stored chain.
		return m.repo.GetTrainingState(userID, day)
	default:
		return m.advanceRange(ctx, userID, latest.Date.AddDate(0, 0, 1), day, profile)
	}
}

// Mature reports whether the state chain behind date spans the full
// fitness time constant. Outputs before that are confidence-flagged
// as unreliable by the calculators.
func (m *Model) Mature(userID string, date time.Time) bool {
	probe := models.DateOf(date).AddDate(0, 0, -int(TauFitnessDays))
	_, err := m.repo.GetTrainingState(userID, probe)
	return err == nil
}

func (m *Model) advanceRange(ctx context.Context, userID string, from, to time.Time, profile *models.Profile) (*models.TrainingState, error) {
	var st *models.TrainingState
	var err error
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		if st, err = m.AdvanceDay(ctx, userID, d, profile); err != nil {
			return nil, err
		}
	}
	if st == nil {
		return nil, fmt.Errorf("empty advance range %s..%s", models.DateKey(from), models.DateKey(to))
	}
	return st, nil
}

// averageHR returns the mean heart rate recorded inside a workout's window,
// or 0 when the workout has no usable HR samples.
func (m *Model) averageHR(userID string, w *models.Sample) (float64, error) {
	if w.IntervalStart == nil || w.IntervalEnd == nil {
		return 0, nil
	}
	hrSamples, err := m.repo.SamplesInRange(userID, models.MetricHeartRate, *w.IntervalStart, w.IntervalEnd.Add(time.Second))
	if err != nil {
		return 0, fmt.Errorf("workout hr samples: %w", err)
	}
	values := make([]float64, 0, len(hrSamples))
	for _, s := range hrSamples {
		if s.Value > 0 {
			values = append(values, s.Value)
		}
	}
	if len(values) == 0 {
		return 0, nil
	}
	return stats.Mean(values), nil
}
