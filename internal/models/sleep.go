// ABOUTME: Manual sleep entry model for user-reported sleep durations.
// ABOUTME: Manual entries can override automatically detected sleep sessions.
package models

import (
	"time"

	"github.com/google/uuid"
)

// SleepEntry is a user-entered sleep duration for a wake date.
type SleepEntry struct {
	ID         uuid.UUID
	UserID     string
	WakeDate   time.Time
	Minutes    float64
	IsOverride bool
	CreatedAt  time.Time
}

// NewSleepEntry creates a manual sleep entry for the given wake date.
func NewSleepEntry(userID string, wakeDate time.Time, minutes float64) *SleepEntry {
	return &SleepEntry{
		ID:        uuid.New(),
		UserID:    userID,
		WakeDate:  DateOf(wakeDate),
		Minutes:   minutes,
		CreatedAt: time.Now(),
	}
}

// WithOverride flags the entry as an explicit user override of auto-detected
// sleep for the same date.
func (e *SleepEntry) WithOverride() *SleepEntry {
	e.IsOverride = true
	return e
}
