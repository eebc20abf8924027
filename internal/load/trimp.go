// ABOUTME: TRIMP training impulse calculation from workout duration and heart rate.
// ABOUTME: Falls back to duration x perceived effort when no HR data exists.
package load

import (
	"math"

	"github.com/harperreed/readiness/internal/models"
)

// trimpExponent is the Banister intensity weighting coefficient (male default).
const trimpExponent = 1.92

// TRIMP calculates the training impulse for one workout from its duration
// in minutes and average heart rate, using the heart rate reserve ratio:
// TRIMP = duration * hrRatio * e^(1.92 * hrRatio).
func TRIMP(durationMin, avgHR float64, profile *models.Profile) float64 {
	if durationMin <= 0 || avgHR <= 0 {
		return 0
	}

	hrReserve := profile.MaxHR - profile.RestingHR
	if hrReserve <= 0 {
		return 0
	}

	hrRatio := (avgHR - profile.RestingHR) / hrReserve
	if hrRatio < 0 {
		hrRatio = 0
	}
	if hrRatio > 1 {
		hrRatio = 1
	}

	return durationMin * hrRatio * math.Exp(trimpExponent*hrRatio)
}

// EffortLoad estimates load from duration and perceived effort (RPE 0-10)
// for workouts without heart rate data. Scaled so a one-hour RPE-7 session
// lands near a one-hour tempo TRIMP.
func EffortLoad(durationMin, rpe float64) float64 {
	if durationMin <= 0 {
		return 0
	}
	if rpe < 0 {
		rpe = 0
	}
	if rpe > 10 {
		rpe = 10
	}
	return durationMin * rpe / 6.0
}
