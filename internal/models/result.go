// ABOUTME: Readiness result models, score identifiers, confidence and category types.
// ABOUTME: Defines the 18-field score vector consumed by sync and UI collaborators.
package models

import (
	"fmt"
	"time"
)

// Confidence reflects completeness and reliability of the inputs to a score.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// Category buckets the overall readiness score for operational display.
type Category string

const (
	CategoryGo      Category = "GO"
	CategoryCaution Category = "CAUTION"
	CategoryLimited Category = "LIMITED"
	CategoryStop    Category = "STOP"
)

// CategoryForScore maps an overall readiness score to its category.
// Thresholds are 80/60/40 descending.
func CategoryForScore(score float64) Category {
	switch {
	case score >= 80:
		return CategoryGo
	case score >= 60:
		return CategoryCaution
	case score >= 40:
		return CategoryLimited
	default:
		return CategoryStop
	}
}

// Component score identifiers. These are the stable field names consumed
// downstream; do not rename.
const (
	ScoreReadiness            = "readiness"
	ScoreFatigueIndex         = "fatigue_index"
	ScoreRecovery             = "recovery"
	ScoreSleepQuality         = "sleep_quality"
	ScoreSleepDebt            = "sleep_debt"
	ScoreAutonomicBalance     = "autonomic_balance"
	ScoreHRVDeviation         = "hrv_deviation"
	ScoreRestingHRDeviation   = "resting_hr_deviation"
	ScoreRespiratoryStability = "respiratory_stability"
	ScoreOxygenStability      = "oxygen_stability"
	ScoreTrainingLoad         = "training_load"
	ScoreAcuteChronicRatio    = "acute_chronic_ratio"
	ScoreCardiovascularStrain = "cardiovascular_strain"
	ScoreStressLoad           = "stress_load"
	ScoreIllnessRisk          = "illness_risk"
	ScoreOvertrainingRisk     = "overtraining_risk"
	ScoreEnergyAvailability   = "energy_availability"
	ScorePhysicalStatus       = "physical_status"
)

// ComponentScoreIDs lists the 17 component scores (everything except the
// overall readiness score) in stable order.
var ComponentScoreIDs = []string{
	ScoreFatigueIndex, ScoreRecovery, ScoreSleepQuality, ScoreSleepDebt,
	ScoreAutonomicBalance, ScoreHRVDeviation, ScoreRestingHRDeviation,
	ScoreRespiratoryStability, ScoreOxygenStability, ScoreTrainingLoad,
	ScoreAcuteChronicRatio, ScoreCardiovascularStrain, ScoreStressLoad,
	ScoreIllnessRisk, ScoreOvertrainingRisk, ScoreEnergyAvailability,
	ScorePhysicalStatus,
}

// ComponentResult is the output of a single score calculator.
type ComponentResult struct {
	Score      float64
	Confidence Confidence
	Components map[string]float64
}

// Result is the full readiness record for one (user, date) pair.
// Created by the aggregation engine, never mutated after creation;
// recomputation produces a new record that overwrites the prior one.
type Result struct {
	UserID string
	Date   time.Time

	Readiness            float64
	FatigueIndex         float64
	Recovery             float64
	SleepQuality         float64
	SleepDebt            float64
	AutonomicBalance     float64
	HRVDeviation         float64
	RestingHRDeviation   float64
	RespiratoryStability float64
	OxygenStability      float64
	TrainingLoad         float64
	AcuteChronicRatio    float64
	CardiovascularStrain float64
	StressLoad           float64
	IllnessRisk          float64
	OvertrainingRisk     float64
	EnergyAvailability   float64
	PhysicalStatus       float64

	Category         Category
	Confidence       Confidence
	DataCompleteness float64
	Confidences      map[string]Confidence
	Breakdown        map[string]map[string]float64
	CalculatedAt     time.Time
}

// SetScore assigns a score by its stable identifier.
func (r *Result) SetScore(id string, value float64) error {
	switch id {
	case ScoreReadiness:
		r.Readiness = value
	case ScoreFatigueIndex:
		r.FatigueIndex = value
	case ScoreRecovery:
		r.Recovery = value
	case ScoreSleepQuality:
		r.SleepQuality = value
	case ScoreSleepDebt:
		r.SleepDebt = value
	case ScoreAutonomicBalance:
		r.AutonomicBalance = value
	case ScoreHRVDeviation:
		r.HRVDeviation = value
	case ScoreRestingHRDeviation:
		r.RestingHRDeviation = value
	case ScoreRespiratoryStability:
		r.RespiratoryStability = value
	case ScoreOxygenStability:
		r.OxygenStability = value
	case ScoreTrainingLoad:
		r.TrainingLoad = value
	case ScoreAcuteChronicRatio:
		r.AcuteChronicRatio = value
	case ScoreCardiovascularStrain:
		r.CardiovascularStrain = value
	case ScoreStressLoad:
		r.StressLoad = value
	case ScoreIllnessRisk:
		r.IllnessRisk = value
	case ScoreOvertrainingRisk:
		r.OvertrainingRisk = value
	case ScoreEnergyAvailability:
		r.EnergyAvailability = value
	case ScorePhysicalStatus:
		r.PhysicalStatus = value
	default:
		return fmt.Errorf("unknown score id: %s", id)
	}
	return nil
}

// Score returns a score by its stable identifier.
func (r *Result) Score(id string) (float64, error) {
	switch id {
	case ScoreReadiness:
		return r.Readiness, nil
	case ScoreFatigueIndex:
		return r.FatigueIndex, nil
	case ScoreRecovery:
		return r.Recovery, nil
	case ScoreSleepQuality:
		return r.SleepQuality, nil
	case ScoreSleepDebt:
		return r.SleepDebt, nil
	case ScoreAutonomicBalance:
		return r.AutonomicBalance, nil
	case ScoreHRVDeviation:
		return r.HRVDeviation, nil
	case ScoreRestingHRDeviation:
		return r.RestingHRDeviation, nil
	case ScoreRespiratoryStability:
		return r.RespiratoryStability, nil
	case ScoreOxygenStability:
		return r.OxygenStability, nil
	case ScoreTrainingLoad:
		return r.TrainingLoad, nil
	case ScoreAcuteChronicRatio:
		return r.AcuteChronicRatio, nil
	case ScoreCardiovascularStrain:
		return r.CardiovascularStrain, nil
	case ScoreStressLoad:
		return r.StressLoad, nil
	case ScoreIllnessRisk:
		return r.IllnessRisk, nil
	case ScoreOvertrainingRisk:
		return r.OvertrainingRisk, nil
	case ScoreEnergyAvailability:
		return r.EnergyAvailability, nil
	case ScorePhysicalStatus:
		return r.PhysicalStatus, nil
	}
	return 0, fmt.Errorf("unknown score id: %s", id)
}

// ComponentScores returns the 17 component scores keyed by identifier.
func (r *Result) ComponentScores() map[string]float64 {
	out := make(map[string]float64, len(ComponentScoreIDs))
	for _, id := range ComponentScoreIDs {
		v, _ := r.Score(id)
		out[id] = v
	}
	return out
}
