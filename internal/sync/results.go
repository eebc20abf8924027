// ABOUTME: Published readiness payloads: flat score vectors keyed by user and date.
// ABOUTME: The share boundary; component breakdowns and raw samples never leave the device.
package sync

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/harperreed/readiness/internal/models"
)

// ResultPayload is the flat representation of one day's scores that crosses
// the sync boundary. Deliberately free of breakdowns, notes and samples.
type ResultPayload struct {
	UserID string `json:"user_id"`
	Date   string `json:"date"`

	Readiness            float64 `json:"readiness"`
	FatigueIndex         float64 `json:"fatigue_index"`
	Recovery             float64 `json:"recovery"`
	SleepQuality         float64 `json:"sleep_quality"`
	SleepDebt            float64 `json:"sleep_debt"`
	AutonomicBalance     float64 `json:"autonomic_balance"`
	HRVDeviation         float64 `json:"hrv_deviation"`
	RestingHRDeviation   float64 `json:"resting_hr_deviation"`
	RespiratoryStability float64 `json:"respiratory_stability"`
	OxygenStability      float64 `json:"oxygen_stability"`
	TrainingLoad         float64 `json:"training_load"`
	AcuteChronicRatio    float64 `json:"acute_chronic_ratio"`
	CardiovascularStrain float64 `json:"cardiovascular_strain"`
	StressLoad           float64 `json:"stress_load"`
	IllnessRisk          float64 `json:"illness_risk"`
	OvertrainingRisk     float64 `json:"overtraining_risk"`
	EnergyAvailability   float64 `json:"energy_availability"`
	PhysicalStatus       float64 `json:"physical_status"`

	Category         string  `json:"category"`
	Confidence       string  `json:"confidence"`
	DataCompleteness float64 `json:"data_completeness"`
}

// NewResultPayload flattens a stored result for publication.
func NewResultPayload(r *models.Result) *ResultPayload {
	return &ResultPayload{
		UserID:               r.UserID,
		Date:                 models.DateKey(r.Date),
		Readiness:            r.Readiness,
		FatigueIndex:         r.FatigueIndex,
		Recovery:             r.Recovery,
		SleepQuality:         r.SleepQuality,
		SleepDebt:            r.SleepDebt,
		AutonomicBalance:     r.AutonomicBalance,
		HRVDeviation:         r.HRVDeviation,
		RestingHRDeviation:   r.RestingHRDeviation,
		RespiratoryStability: r.RespiratoryStability,
		OxygenStability:      r.OxygenStability,
		TrainingLoad:         r.TrainingLoad,
		AcuteChronicRatio:    r.AcuteChronicRatio,
		CardiovascularStrain: r.CardiovascularStrain,
		StressLoad:           r.StressLoad,
		IllnessRisk:          r.IllnessRisk,
		OvertrainingRisk:     r.OvertrainingRisk,
		EnergyAvailability:   r.EnergyAvailability,
		PhysicalStatus:       r.PhysicalStatus,
		Category:             string(r.Category),
		Confidence:           string(r.Confidence),
		DataCompleteness:     r.DataCompleteness,
	}
}

// Key returns the payload's KV key. Republishing the same (user, date)
// overwrites in place, so sync is idempotent.
func (p *ResultPayload) Key() string {
	return fmt.Sprintf("%s%s:%s", ResultPrefix, p.UserID, p.Date)
}

// PublishResult stores a result's payload in the KV store.
func (c *Client) PublishResult(r *models.Result) error {
	p := NewResultPayload(r)
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal result payload: %w", err)
	}
	return c.set(p.Key(), data)
}

// GetPublished retrieves one published payload by user and date key
// ("2006-01-02").
func (c *Client) GetPublished(userID, date string) (*ResultPayload, error) {
	data, err := c.get(fmt.Sprintf("%s%s:%s", ResultPrefix, userID, date))
	if err != nil {
		return nil, fmt.Errorf("get published result: %w", err)
	}
	var p ResultPayload
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("unmarshal result payload: %w", err)
	}
	return &p, nil
}

// ListPublished returns all published payloads for a user, newest first.
func (c *Client) ListPublished(userID string) ([]*ResultPayload, error) {
	allData, err := c.listByPrefix(ResultPrefix + userID + ":")
	if err != nil {
		return nil, fmt.Errorf("list published results: %w", err)
	}

	var payloads []*ResultPayload
	for _, data := range allData {
		var p ResultPayload
		if err := json.Unmarshal(data, &p); err != nil {
			continue // Skip invalid entries
		}
		payloads = append(payloads, &p)
	}

	// Date keys sort lexicographically in chronological order.
	sort.Slice(payloads, func(i, j int) bool {
		return payloads[i].Date > payloads[j].Date
	})

	return payloads, nil
}
