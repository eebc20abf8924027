// ABOUTME: Banister two-state fitness/fatigue impulse-response recurrence.
// ABOUTME: Pure single-day advance; sequencing is enforced by the Model.
package load

import (
	"math"
	"time"

	"github.com/harperreed/readiness/internal/models"
)

const (
	// TauFatigueDays is the fatigue decay time constant (fast).
	TauFatigueDays = 7.0

	// TauFitnessDays is the fitness decay time constant (slow).
	TauFitnessDays = 42.0

	// KFatigue and KFitness scale each day's load into the two states.
	KFatigue = 1.0
	KFitness = 1.0
)

// Advance derives one day's training state from the prior day's state plus
// that day's load. A nil prev means cold start: both states begin at zero.
// fatigue_t = fatigue_(t-1)*e^(-1/tau_f) + k_f*load; likewise for fitness.
func Advance(prev *models.TrainingState, userID string, date time.Time, dailyLoad float64) *models.TrainingState {
	var fatigue, fitness, acute, chronic float64
	if prev != nil {
		fatigue = prev.Fatigue
		fitness = prev.Fitness
		acute = prev.AcuteLoad
		chronic = prev.ChronicLoad
	}

	fatigue = fatigue*math.Exp(-1.0/TauFatigueDays) + KFatigue*dailyLoad
	fitness = fitness*math.Exp(-1.0/TauFitnessDays) + KFitness*dailyLoad

	return &models.TrainingState{
		UserID:         userID,
		Date:           models.DateOf(date),
		DailyLoad:      dailyLoad,
		AcuteLoad:      EWMA(acute, dailyLoad, AcuteDays),
		ChronicLoad:    EWMA(chronic, dailyLoad, ChronicDays),
		Fatigue:        fatigue,
		Fitness:        fitness,
		TrainingEffect: fitness - fatigue,
		CreatedAt:      time.Now(),
	}
}
