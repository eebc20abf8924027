// ABOUTME: Shared calculator plumbing: run inputs, metric helpers, confidence math.
// ABOUTME: Every component score is a calcFunc reading the same per-run snapshot.
package score

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/harperreed/readiness/internal/baseline"
	"github.com/harperreed/readiness/internal/models"
	"github.com/harperreed/readiness/internal/sleep"
	"github.com/harperreed/readiness/internal/stats"
	"github.com/harperreed/readiness/internal/storage"
)

// Inputs is the snapshot one scoring run reads from. The engine builds it
// once per (user, date) pair; calculators treat it as read-only except for
// Scores, which the engine fills in pipeline order so later calculators can
// read earlier results.
type Inputs struct {
	UserID  string
	Date    time.Time
	Profile *models.Profile

	// Training is the Banister state for Date, nil when no chain could be
	// derived. Mature is false until the chain spans the fitness time
	// constant; load-derived scores cap their confidence at medium until then.
	Training *models.TrainingState
	Mature   bool

	// Sleep is the resolved duration for Date. SleepHistory holds resolved
	// minutes for the trailing seven wake dates, skipping dates with no
	// source.
	Sleep        sleep.Resolved
	SleepHistory []float64

	Scores map[string]models.ComponentResult

	repo      storage.Repository
	baselines *baseline.Store
}

type calcFunc func(ctx context.Context, in *Inputs) (models.ComponentResult, error)

type calculator struct {
	id string
	fn calcFunc
}

// markerMissing tags a ComponentResult whose inputs were absent, as opposed
// to one that legitimately computed a zero score. Aggregators skip marked
// results instead of averaging them in.
const markerMissing = "missing"

func unavailable() models.ComponentResult {
	return models.ComponentResult{
		Score:      0,
		Confidence: models.ConfidenceLow,
		Components: map[string]float64{markerMissing: 1},
	}
}

// prior returns an earlier pipeline result, with ok=false when it was never
// computed or its inputs were absent.
func (in *Inputs) prior(id string) (models.ComponentResult, bool) {
	r, ok := in.Scores[id]
	if !ok {
		return r, false
	}
	if _, missing := r.Components[markerMissing]; missing {
		return r, false
	}
	return r, true
}

func (in *Inputs) dayWindow() (time.Time, time.Time) {
	start := models.DateOf(in.Date)
	return start, start.AddDate(0, 0, 1)
}

func (in *Inputs) dayValues(mt models.MetricType) ([]float64, error) {
	from, to := in.dayWindow()
	samples, err := in.repo.SamplesInRange(in.UserID, mt, from, to)
	if err != nil {
		return nil, fmt.Errorf("day samples for %s: %w", mt, err)
	}
	values := make([]float64, 0, len(samples))
	for _, s := range samples {
		if s.IsInterval {
			continue
		}
		values = append(values, s.Value)
	}
	return values, nil
}

// dayMean returns the mean of the date's point samples for a metric.
// ok is false when the date has none.
func (in *Inputs) dayMean(mt models.MetricType) (float64, bool, error) {
	values, err := in.dayValues(mt)
	if err != nil || len(values) == 0 {
		return 0, false, err
	}
	return stats.Mean(values), true, nil
}

func (in *Inputs) daySum(mt models.MetricType) (float64, bool, error) {
	values, err := in.dayValues(mt)
	if err != nil || len(values) == 0 {
		return 0, false, err
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum, true, nil
}

// zResult is a day-mean robust deviation. measured is false when the date
// produced no value; baselined is false when no window baseline exists or
// its spread is degenerate, in which case z stays zero and callers score
// neutral at downgraded confidence.
type zResult struct {
	z         float64
	mean      float64
	measured  bool
	baselined bool
}

func (in *Inputs) metricZ(ctx context.Context, mt models.MetricType) (zResult, error) {
	mean, ok, err := in.dayMean(mt)
	if err != nil {
		return zResult{}, err
	}
	if !ok {
		return zResult{}, nil
	}

	b, err := in.baselines.Get(ctx, in.UserID, mt, 0, false)
	if errors.Is(err, baseline.ErrInsufficientData) {
		return zResult{mean: mean, measured: true}, nil
	}
	if err != nil {
		return zResult{}, err
	}

	z, zok := b.ZScore(mean)
	return zResult{z: z, mean: mean, measured: true, baselined: zok}, nil
}

// weightedPart is one reweightable term of a composite score.
type weightedPart struct {
	value  float64
	weight float64
}

// combine renormalizes the weights over the parts that are present and
// returns their weighted mean. ok is false when no part is present.
func combine(parts []weightedPart) (float64, bool) {
	sum, wsum := 0.0, 0.0
	for _, p := range parts {
		sum += p.value * p.weight
		wsum += p.weight
	}
	if wsum == 0 {
		return 0, false
	}
	return sum / wsum, true
}

// capAt lowers c to at most ceiling.
func capAt(c, ceiling models.Confidence) models.Confidence {
	if rankConfidence(c) > rankConfidence(ceiling) {
		return ceiling
	}
	return c
}

func minConfidence(a, b models.Confidence) models.Confidence {
	if rankConfidence(a) < rankConfidence(b) {
		return a
	}
	return b
}

func rankConfidence(c models.Confidence) int {
	switch c {
	case models.ConfidenceHigh:
		return 2
	case models.ConfidenceMedium:
		return 1
	}
	return 0
}
