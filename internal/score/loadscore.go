// ABOUTME: Training-load calculators: load level, ACWR band, strain, overtraining.
// ABOUTME: All read the Banister state chain; confidence is capped until the chain matures.
package score

import (
	"context"
	"math"

	"github.com/harperreed/readiness/internal/models"
	"github.com/harperreed/readiness/internal/stats"
)

// acwrRiskFloor and acwrRiskCeil bound the injury-risk band of the
// acute:chronic ratio: no risk below 1.3, full risk at 2.0.
const (
	acwrRiskFloor = 1.3
	acwrRiskCeil  = 2.0
)

// loadConfidence is the ceiling for load-derived scores: high only once
// the state chain spans the fitness time constant.
func loadConfidence(in *Inputs) models.Confidence {
	if in.Mature {
		return models.ConfidenceHigh
	}
	return models.ConfidenceMedium
}

func calcTrainingLoad(_ context.Context, in *Inputs) (models.ComponentResult, error) {
	st := in.Training
	if st == nil {
		return unavailable(), nil
	}

	// Today's dose relative to tolerance, where tolerance is twice the
	// chronic load. A cold chain reads any dose as maximal.
	denom := math.Max(2*st.ChronicLoad, 1)
	score := 100 * math.Min(st.DailyLoad/denom, 1)
	return models.ComponentResult{
		Score:      score,
		Confidence: loadConfidence(in),
		Components: map[string]float64{
			"daily_load":   st.DailyLoad,
			"chronic_load": st.ChronicLoad,
		},
	}, nil
}

func calcAcuteChronicRatio(_ context.Context, in *Inputs) (models.ComponentResult, error) {
	st := in.Training
	if st == nil {
		return unavailable(), nil
	}

	ratio := st.ACWR()
	score := stats.Clamp(100-100*math.Abs(ratio-1), 0, 100)
	return models.ComponentResult{
		Score:      score,
		Confidence: loadConfidence(in),
		Components: map[string]float64{
			"ratio":        ratio,
			"acute_load":   st.AcuteLoad,
			"chronic_load": st.ChronicLoad,
		},
	}, nil
}

func calcCardiovascularStrain(ctx context.Context, in *Inputs) (models.ComponentResult, error) {
	var parts []weightedPart
	components := map[string]float64{}

	if st := in.Training; st != nil {
		elev := 100 * math.Min(st.AcuteLoad/math.Max(2*st.ChronicLoad, 1), 1)
		parts = append(parts, weightedPart{elev, 0.6})
		components["load_elevation"] = elev
	}

	zr, err := in.metricZ(ctx, models.MetricRestingHeartRate)
	if err != nil {
		return models.ComponentResult{}, err
	}
	if zr.measured && zr.baselined {
		elev := stats.Clamp(zr.z, 0, zClamp) / zClamp * 100
		parts = append(parts, weightedPart{elev, 0.4})
		components["rhr_elevation"] = elev
	}

	score, ok := combine(parts)
	if !ok {
		return unavailable(), nil
	}
	conf := loadConfidence(in)
	if len(parts) < 2 {
		conf = capAt(conf, models.ConfidenceMedium)
	}
	return models.ComponentResult{
		Score:      score,
		Confidence: conf,
		Components: components,
	}, nil
}

func calcOvertrainingRisk(_ context.Context, in *Inputs) (models.ComponentResult, error) {
	st := in.Training
	if st == nil {
		return unavailable(), nil
	}

	ratio := st.ACWR()
	acwrRisk := stats.Clamp((ratio-acwrRiskFloor)/(acwrRiskCeil-acwrRiskFloor), 0, 1) * 100
	fatigueRisk := stats.Clamp(-st.TrainingEffect/30, 0, 1) * 100
	return models.ComponentResult{
		Score:      0.5*acwrRisk + 0.5*fatigueRisk,
		Confidence: loadConfidence(in),
		Components: map[string]float64{
			"acwr_risk":       acwrRisk,
			"fatigue_risk":    fatigueRisk,
			"ratio":           ratio,
			"training_effect": st.TrainingEffect,
		},
	}, nil
}
