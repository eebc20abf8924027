// ABOUTME: Systemic-status calculators: illness risk, energy availability, physical status.
// ABOUTME: Multi-signal composites that reweight over whichever inputs exist.
package score

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/harperreed/readiness/internal/baseline"
	"github.com/harperreed/readiness/internal/models"
	"github.com/harperreed/readiness/internal/stats"
)

// restingBurnKcal approximates non-activity expenditure for the energy
// balance ratio when no measured basal rate exists.
const restingBurnKcal = 1800.0

func calcIllnessRisk(ctx context.Context, in *Inputs) (models.ComponentResult, error) {
	// Elevation-only signals: temperature, resting HR and respiration above
	// baseline, HRV suppressed below it. Downward temperature or respiration
	// excursions are noise for this score, not protection.
	signals := []struct {
		key    string
		metric models.MetricType
		weight float64
		cap    float64
		invert bool
	}{
		{"temperature_elevation", models.MetricTemperature, 0.35, zClamp, false},
		{"rhr_elevation", models.MetricRestingHeartRate, 0.25, zClamp, false},
		{"respiratory_elevation", models.MetricRespiratoryRate, 0.20, 5, false},
		{"hrv_suppression", models.MetricHRV, 0.20, zClamp, true},
	}

	var parts []weightedPart
	components := map[string]float64{}
	for _, sig := range signals {
		zr, err := in.metricZ(ctx, sig.metric)
		if err != nil {
			return models.ComponentResult{}, err
		}
		if !zr.measured || !zr.baselined {
			continue
		}
		z := zr.z
		if sig.invert {
			z = -z
		}
		elev := stats.Clamp(z, 0, sig.cap) / sig.cap * 100
		parts = append(parts, weightedPart{elev, sig.weight})
		components[sig.key] = elev
	}

	score, ok := combine(parts)
	if !ok {
		return unavailable(), nil
	}
	conf := models.ConfidenceLow
	switch {
	case len(parts) == len(signals):
		conf = models.ConfidenceHigh
	case len(parts) >= 2:
		conf = models.ConfidenceMedium
	}
	return models.ComponentResult{Score: score, Confidence: conf, Components: components}, nil
}

func calcEnergyAvailability(_ context.Context, in *Inputs) (models.ComponentResult, error) {
	intake, iok, err := in.daySum(models.MetricCaloriesIntake)
	if err != nil {
		return models.ComponentResult{}, err
	}
	burn, bok, err := in.daySum(models.MetricActiveCalories)
	if err != nil {
		return models.ComponentResult{}, err
	}

	if iok && bok {
		need := restingBurnKcal + burn
		return models.ComponentResult{
			Score:      stats.Clamp(100*intake/need, 0, 100),
			Confidence: models.ConfidenceHigh,
			Components: map[string]float64{
				"intake_kcal": intake,
				"burn_kcal":   burn,
				"need_kcal":   need,
			},
		}, nil
	}

	// No nutrition signal: fall back to the load trend. A ramping acute
	// load with nothing known about fueling is the risky direction.
	if st := in.Training; st != nil {
		ratio := st.ACWR()
		return models.ComponentResult{
			Score:      stats.Clamp(100-40*math.Max(ratio-1, 0), 0, 100),
			Confidence: models.ConfidenceMedium,
			Components: map[string]float64{"ratio": ratio},
		}, nil
	}
	return unavailable(), nil
}

func calcPhysicalStatus(ctx context.Context, in *Inputs) (models.ComponentResult, error) {
	var parts []weightedPart
	components := map[string]float64{}

	if st := in.Training; st != nil {
		// Saturating fitness map; a year of steady moderate load approaches
		// the ceiling without ever producing a synthetic 100.
		fit := 100 * (1 - math.Exp(-st.Fitness/1000))
		parts = append(parts, weightedPart{fit, 0.5})
		components["fitness"] = fit
	}

	if vol, ok, err := in.volumePercentile(ctx); err != nil {
		return models.ComponentResult{}, err
	} else if ok {
		parts = append(parts, weightedPart{vol, 0.3})
		components["volume_percentile"] = vol
	}

	active, err := in.activeDayFraction()
	if err != nil {
		return models.ComponentResult{}, err
	}
	if active >= 0 {
		parts = append(parts, weightedPart{active * 100, 0.2})
		components["activity_consistency"] = active * 100
	}

	score, ok := combine(parts)
	if !ok {
		return unavailable(), nil
	}
	conf := loadConfidence(in)
	if len(parts) < 2 {
		conf = capAt(conf, models.ConfidenceMedium)
	}
	return models.ComponentResult{Score: score, Confidence: conf, Components: components}, nil
}

// volumePercentile ranks today's step count against the trailing window,
// falling back to distance when steps are untracked.
func (in *Inputs) volumePercentile(ctx context.Context) (float64, bool, error) {
	for _, mt := range []models.MetricType{models.MetricSteps, models.MetricDistance} {
		total, ok, err := in.daySum(mt)
		if err != nil {
			return 0, false, err
		}
		if !ok {
			continue
		}
		pr, err := in.baselines.PercentileRank(ctx, in.UserID, mt, 0, total)
		if errors.Is(err, baseline.ErrInsufficientData) {
			continue
		}
		if err != nil {
			return 0, false, err
		}
		return pr, true, nil
	}
	return 0, false, nil
}

// activeDayFraction is the share of the trailing seven days with recorded
// steps or a workout. Returns -1 when no activity metric is tracked at all.
func (in *Inputs) activeDayFraction() (float64, error) {
	day := models.DateOf(in.Date)
	from := day.AddDate(0, 0, -6)
	to := day.AddDate(0, 0, 1)

	active := map[string]bool{}
	tracked := false
	for _, mt := range []models.MetricType{models.MetricSteps, models.MetricWorkout} {
		samples, err := in.repo.SamplesInRange(in.UserID, mt, from, to)
		if err != nil {
			return 0, fmt.Errorf("activity samples for %s: %w", mt, err)
		}
		for _, s := range samples {
			tracked = true
			if s.IsInterval || s.Value > 0 {
				active[models.DateKey(s.RecordedAt)] = true
			}
		}
	}
	if !tracked {
		return -1, nil
	}
	return float64(len(active)) / 7, nil
}
