// ABOUTME: Overall readiness aggregation over the five headline components.
// ABOUTME: Risk-oriented inputs are inverted; weights renormalize over available inputs.
package score

import (
	"context"

	"github.com/harperreed/readiness/internal/models"
)

// readinessInputs fixes the headline weighting. Risk scores (higher is
// worse) enter inverted so the aggregate stays higher-is-better.
var readinessInputs = []struct {
	id     string
	weight float64
	invert bool
}{
	{models.ScoreRecovery, 0.30, false},
	{models.ScoreSleepQuality, 0.25, false},
	{models.ScoreFatigueIndex, 0.20, true},
	{models.ScoreOvertrainingRisk, 0.15, true},
	{models.ScoreIllnessRisk, 0.10, true},
}

func calcReadiness(_ context.Context, in *Inputs) (models.ComponentResult, error) {
	var parts []weightedPart
	components := map[string]float64{}
	highs, lows := 0, 0

	for _, it := range readinessInputs {
		r, ok := in.prior(it.id)
		if !ok {
			continue
		}
		v := r.Score
		if it.invert {
			v = 100 - v
		}
		parts = append(parts, weightedPart{v, it.weight})
		components[it.id] = v
		switch r.Confidence {
		case models.ConfidenceHigh:
			highs++
		case models.ConfidenceLow:
			lows++
		}
	}

	score, ok := combine(parts)
	if !ok {
		return unavailable(), nil
	}

	conf := models.ConfidenceMedium
	switch {
	case len(parts) == len(readinessInputs) && lows == 0 && highs >= 3:
		conf = models.ConfidenceHigh
	case lows >= 3 || len(parts) <= 2:
		conf = models.ConfidenceLow
	}
	return models.ComponentResult{Score: score, Confidence: conf, Components: components}, nil
}
