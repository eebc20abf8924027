// ABOUTME: Sleep-derived calculators: nightly quality and rolling sleep debt.
// ABOUTME: Both read the resolver's output, never raw sessions or entries.
package score

import (
	"context"
	"errors"
	"math"

	"github.com/harperreed/readiness/internal/baseline"
	"github.com/harperreed/readiness/internal/models"
	"github.com/harperreed/readiness/internal/sleep"
	"github.com/harperreed/readiness/internal/stats"
)

// debtHorizonNights is how many nights of full deficit saturate the sleep
// debt score.
const debtHorizonNights = 3.0

func calcSleepQuality(ctx context.Context, in *Inputs) (models.ComponentResult, error) {
	res := in.Sleep
	if res.Source == sleep.SourceNone {
		return unavailable(), nil
	}

	need := in.Profile.SleepNeedMinutes
	if need <= 0 {
		need = models.DefaultProfile(in.UserID).SleepNeedMinutes
	}

	durPart := 100 * math.Min(res.Minutes/need, 1)
	parts := []weightedPart{{durPart, 0.55}}
	components := map[string]float64{
		"minutes":          res.Minutes,
		"duration_vs_need": durPart,
	}

	pr, err := in.baselines.PercentileRank(ctx, in.UserID, models.MetricSleepAuto, 0, res.Minutes)
	switch {
	case err == nil:
		parts = append(parts, weightedPart{pr, 0.30})
		components["percentile"] = pr
	case !errors.Is(err, baseline.ErrInsufficientData):
		return models.ComponentResult{}, err
	}

	b, err := in.baselines.Get(ctx, in.UserID, models.MetricSleepAuto, 0, false)
	switch {
	case err == nil:
		// MAD of nightly duration in minutes; 90 minutes of typical spread
		// zeroes the consistency part.
		cons := stats.Clamp(100-b.MAD/0.9, 0, 100)
		parts = append(parts, weightedPart{cons, 0.15})
		components["consistency"] = cons
	case !errors.Is(err, baseline.ErrInsufficientData):
		return models.ComponentResult{}, err
	}

	score, _ := combine(parts)
	conf := res.Confidence
	if len(parts) < 3 {
		conf = capAt(conf, models.ConfidenceMedium)
	}
	return models.ComponentResult{
		Score:      score,
		Confidence: conf,
		Components: components,
	}, nil
}

func calcSleepDebt(_ context.Context, in *Inputs) (models.ComponentResult, error) {
	if len(in.SleepHistory) == 0 {
		return unavailable(), nil
	}

	need := in.Profile.SleepNeedMinutes
	if need <= 0 {
		need = models.DefaultProfile(in.UserID).SleepNeedMinutes
	}

	deficit := 0.0
	for _, minutes := range in.SleepHistory {
		if minutes < need {
			deficit += need - minutes
		}
	}
	score := stats.Clamp(100*deficit/(debtHorizonNights*need), 0, 100)

	conf := models.ConfidenceLow
	switch {
	case len(in.SleepHistory) >= 6:
		conf = models.ConfidenceHigh
	case len(in.SleepHistory) >= 3:
		conf = models.ConfidenceMedium
	}
	return models.ComponentResult{
		Score:      score,
		Confidence: conf,
		Components: map[string]float64{
			"deficit_minutes": deficit,
			"nights":          float64(len(in.SleepHistory)),
		},
	}, nil
}
