// ABOUTME: User profile model with physiological parameters for scoring.
// ABOUTME: Provides defaults when no profile has been configured.
package models

// Profile holds per-user physiological parameters used by the load model
// and score calculators.
type Profile struct {
	UserID           string
	MaxHR            float64
	RestingHR        float64
	Age              int
	SleepNeedMinutes float64
}

// DefaultProfile returns a profile with population-default parameters.
func DefaultProfile(userID string) *Profile {
	return &Profile{
		UserID:           userID,
		MaxHR:            185,
		RestingHR:        50,
		SleepNeedMinutes: 480,
	}
}
