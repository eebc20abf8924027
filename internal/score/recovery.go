// ABOUTME: Composite recovery calculators: autonomic balance, recovery, fatigue, stress.
// ABOUTME: These read earlier pipeline scores rather than raw metrics.
package score

import (
	"context"
	"math"

	"github.com/harperreed/readiness/internal/models"
	"github.com/harperreed/readiness/internal/stats"
)

func calcAutonomicBalance(_ context.Context, in *Inputs) (models.ComponentResult, error) {
	hrv, hok := in.prior(models.ScoreHRVDeviation)
	rhr, rok := in.prior(models.ScoreRestingHRDeviation)

	switch {
	case hok && rok:
		return models.ComponentResult{
			Score:      (hrv.Score + rhr.Score) / 2,
			Confidence: minConfidence(hrv.Confidence, rhr.Confidence),
			Components: map[string]float64{
				"hrv_deviation":        hrv.Score,
				"resting_hr_deviation": rhr.Score,
			},
		}, nil
	case hok:
		return singleBranchBalance("hrv_deviation", hrv), nil
	case rok:
		return singleBranchBalance("resting_hr_deviation", rhr), nil
	}
	return unavailable(), nil
}

func singleBranchBalance(key string, r models.ComponentResult) models.ComponentResult {
	return models.ComponentResult{
		Score:      r.Score,
		Confidence: capAt(r.Confidence, models.ConfidenceMedium),
		Components: map[string]float64{key: r.Score},
	}
}

func calcRecovery(_ context.Context, in *Inputs) (models.ComponentResult, error) {
	inputs := []struct {
		id     string
		weight float64
	}{
		{models.ScoreHRVDeviation, 0.4},
		{models.ScoreRestingHRDeviation, 0.3},
		{models.ScoreSleepQuality, 0.3},
	}

	var parts []weightedPart
	components := map[string]float64{}
	conf := models.ConfidenceHigh
	for _, it := range inputs {
		r, ok := in.prior(it.id)
		if !ok {
			continue
		}
		parts = append(parts, weightedPart{r.Score, it.weight})
		components[it.id] = r.Score
		conf = minConfidence(conf, r.Confidence)
	}

	score, ok := combine(parts)
	if !ok {
		return unavailable(), nil
	}
	if len(parts) < len(inputs) {
		conf = capAt(conf, models.ConfidenceMedium)
	}
	return models.ComponentResult{Score: score, Confidence: conf, Components: components}, nil
}

// fatigueShiftMax bounds how far autonomic state can push the load-derived
// fatigue estimate in either direction.
const fatigueShiftMax = 15.0

func calcFatigueIndex(_ context.Context, in *Inputs) (models.ComponentResult, error) {
	st := in.Training
	if st == nil {
		return unavailable(), nil
	}

	// Negative training effect (fatigue outrunning fitness) saturates the
	// base toward 75; a well-adapted chain pulls it toward 25.
	base := 50 + 25*math.Tanh(-st.TrainingEffect/25)

	shift := 0.0
	conf := loadConfidence(in)
	if ab, ok := in.prior(models.ScoreAutonomicBalance); ok {
		shift = stats.Clamp((50-ab.Score)/50*fatigueShiftMax, -fatigueShiftMax, fatigueShiftMax)
		conf = minConfidence(conf, ab.Confidence)
	} else {
		conf = capAt(conf, models.ConfidenceMedium)
	}

	return models.ComponentResult{
		Score:      stats.Clamp(base+shift, 0, 100),
		Confidence: conf,
		Components: map[string]float64{
			"base":            base,
			"autonomic_shift": shift,
			"training_effect": st.TrainingEffect,
		},
	}, nil
}

func calcStressLoad(ctx context.Context, in *Inputs) (models.ComponentResult, error) {
	var parts []weightedPart
	components := map[string]float64{}
	conf := models.ConfidenceHigh

	zr, err := in.metricZ(ctx, models.MetricStress)
	if err != nil {
		return models.ComponentResult{}, err
	}
	if zr.measured {
		part := stats.Clamp(50+deviationSlope*stats.Clamp(zr.z, -zClamp, zClamp), 0, 100)
		parts = append(parts, weightedPart{part, 0.5})
		components["stress_metric"] = part
		if !zr.baselined {
			conf = capAt(conf, models.ConfidenceMedium)
		}
	}

	if ab, ok := in.prior(models.ScoreAutonomicBalance); ok {
		// Suppressed autonomic state reads as physiological stress.
		part := 100 - ab.Score
		parts = append(parts, weightedPart{part, 0.5})
		components["autonomic_stress"] = part
		conf = minConfidence(conf, ab.Confidence)
	}

	score, ok := combine(parts)
	if !ok {
		return unavailable(), nil
	}
	if len(parts) < 2 {
		conf = capAt(conf, models.ConfidenceMedium)
	}
	return models.ComponentResult{Score: score, Confidence: conf, Components: components}, nil
}
