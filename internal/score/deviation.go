// ABOUTME: Baseline-deviation calculators: HRV, resting HR, respiration, SpO2.
// ABOUTME: Each maps a robust z-score into 0-100 with a neutral anchor at baseline.
package score

import (
	"context"
	"math"

	"github.com/harperreed/readiness/internal/models"
	"github.com/harperreed/readiness/internal/stats"
)

// Deviation scores anchor at 75 when the day sits exactly on the personal
// baseline: being at baseline is normal, not mediocre. Z-scores are clamped
// to +/-4 so a single wild sample cannot pin the score outside 0-100's
// meaningful range.
const (
	neutralAnchor  = 75.0
	deviationSlope = 12.5
	zClamp         = 4.0
)

func calcHRVDeviation(ctx context.Context, in *Inputs) (models.ComponentResult, error) {
	// Higher HRV than baseline reads as better recovery.
	return anchoredDeviation(ctx, in, models.MetricHRV, deviationSlope)
}

func calcRestingHRDeviation(ctx context.Context, in *Inputs) (models.ComponentResult, error) {
	// Elevated resting HR reads as worse.
	return anchoredDeviation(ctx, in, models.MetricRestingHeartRate, -deviationSlope)
}

func anchoredDeviation(ctx context.Context, in *Inputs, mt models.MetricType, slope float64) (models.ComponentResult, error) {
	zr, err := in.metricZ(ctx, mt)
	if err != nil {
		return models.ComponentResult{}, err
	}
	if !zr.measured {
		return unavailable(), nil
	}

	z := stats.Clamp(zr.z, -zClamp, zClamp)
	conf := models.ConfidenceHigh
	if !zr.baselined {
		// No usable spread: score neutral rather than guessing a deviation.
		conf = models.ConfidenceMedium
	}
	return models.ComponentResult{
		Score:      stats.Clamp(neutralAnchor+slope*z, 0, 100),
		Confidence: conf,
		Components: map[string]float64{"z": z, "mean": zr.mean},
	}, nil
}

func calcRespiratoryStability(ctx context.Context, in *Inputs) (models.ComponentResult, error) {
	zr, err := in.metricZ(ctx, models.MetricRespiratoryRate)
	if err != nil {
		return models.ComponentResult{}, err
	}
	if !zr.measured {
		return unavailable(), nil
	}

	// Any drift from baseline respiration, up or down, costs stability.
	dev := math.Min(math.Abs(zr.z), 5)
	conf := models.ConfidenceHigh
	if !zr.baselined {
		conf = models.ConfidenceMedium
	}
	return models.ComponentResult{
		Score:      stats.Clamp(100-20*dev, 0, 100),
		Confidence: conf,
		Components: map[string]float64{"z": zr.z, "mean": zr.mean},
	}, nil
}

// spo2Floor caps the score when mean saturation drops below 90%, regardless
// of what the personal baseline says.
const (
	spo2FloorPercent = 90.0
	spo2FloorScore   = 25.0
)

func calcOxygenStability(ctx context.Context, in *Inputs) (models.ComponentResult, error) {
	zr, err := in.metricZ(ctx, models.MetricSpO2)
	if err != nil {
		return models.ComponentResult{}, err
	}
	if !zr.measured {
		return unavailable(), nil
	}

	// Only below-baseline saturation is penalized; running above baseline
	// carries no extra signal.
	drop := math.Min(math.Max(-zr.z, 0), zClamp)
	score := stats.Clamp(100-25*drop, 0, 100)
	if zr.mean < spo2FloorPercent {
		score = math.Min(score, spo2FloorScore)
	}
	conf := models.ConfidenceHigh
	if !zr.baselined {
		conf = models.ConfidenceMedium
	}
	return models.ComponentResult{
		Score:      score,
		Confidence: conf,
		Components: map[string]float64{"z": zr.z, "mean": zr.mean},
	}, nil
}
