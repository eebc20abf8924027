// ABOUTME: Aggregation engine running the full calculator pipeline per (user, date).
// ABOUTME: Serializes runs per user and assembles the persisted readiness result.
package score

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/harperreed/readiness/internal/baseline"
	"github.com/harperreed/readiness/internal/load"
	"github.com/harperreed/readiness/internal/models"
	"github.com/harperreed/readiness/internal/sleep"
	"github.com/harperreed/readiness/internal/storage"
)

// sleepHistoryDays is the trailing window the debt calculator reads.
const sleepHistoryDays = 7

// pipeline runs in dependency order: every calculator appears after the
// scores it reads from Inputs.Scores.
var pipeline = []calculator{
	{models.ScoreHRVDeviation, calcHRVDeviation},
	{models.ScoreRestingHRDeviation, calcRestingHRDeviation},
	{models.ScoreRespiratoryStability, calcRespiratoryStability},
	{models.ScoreOxygenStability, calcOxygenStability},
	{models.ScoreSleepQuality, calcSleepQuality},
	{models.ScoreSleepDebt, calcSleepDebt},
	{models.ScoreTrainingLoad, calcTrainingLoad},
	{models.ScoreAcuteChronicRatio, calcAcuteChronicRatio},
	{models.ScoreAutonomicBalance, calcAutonomicBalance},
	{models.ScoreRecovery, calcRecovery},
	{models.ScoreFatigueIndex, calcFatigueIndex},
	{models.ScoreCardiovascularStrain, calcCardiovascularStrain},
	{models.ScoreStressLoad, calcStressLoad},
	{models.ScoreIllnessRisk, calcIllnessRisk},
	{models.ScoreOvertrainingRisk, calcOvertrainingRisk},
	{models.ScoreEnergyAvailability, calcEnergyAvailability},
	{models.ScorePhysicalStatus, calcPhysicalStatus},
}

// Engine owns one scoring pipeline over a repository and baseline store.
// Safe for concurrent use; runs for the same user are serialized so the
// training-state chain is only ever advanced by one goroutine.
type Engine struct {
	repo      storage.Repository
	baselines *baseline.Store
	loads     *load.Model
	sleeps    *sleep.Resolver

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewEngine creates an engine over the given repository and baseline store.
func NewEngine(repo storage.Repository, baselines *baseline.Store) *Engine {
	return &Engine{
		repo:      repo,
		baselines: baselines,
		loads:     load.NewModel(repo),
		sleeps:    sleep.NewResolver(repo),
		locks:     make(map[string]*sync.Mutex),
	}
}

// Baselines exposes the engine's baseline store for commands that surface
// baselines directly.
func (e *Engine) Baselines() *baseline.Store { return e.baselines }

// Loads exposes the training-load model.
func (e *Engine) Loads() *load.Model { return e.loads }

// Sleeps exposes the sleep resolver.
func (e *Engine) Sleeps() *sleep.Resolver { return e.sleeps }

// CalculateAll runs every calculator for the user and date and returns the
// assembled result. The result is not persisted; see CalculateAndStore.
func (e *Engine) CalculateAll(ctx context.Context, userID string, date time.Time) (*models.Result, error) {
	lock := e.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	in, err := e.buildInputs(ctx, userID, date)
	if err != nil {
		return nil, err
	}

	result := &models.Result{
		UserID:       userID,
		Date:         models.DateOf(date),
		Confidences:  make(map[string]models.Confidence, len(pipeline)+1),
		Breakdown:    make(map[string]map[string]float64, len(pipeline)+1),
		CalculatedAt: time.Now(),
	}

	for _, c := range pipeline {
		r, err := c.fn(ctx, in)
		if err != nil {
			return nil, fmt.Errorf("calculate %s: %w", c.id, err)
		}
		in.Scores[c.id] = r
		if err := result.SetScore(c.id, r.Score); err != nil {
			return nil, err
		}
		result.Confidences[c.id] = r.Confidence
		result.Breakdown[c.id] = r.Components
	}

	overall, err := calcReadiness(ctx, in)
	if err != nil {
		return nil, fmt.Errorf("calculate %s: %w", models.ScoreReadiness, err)
	}
	result.Readiness = overall.Score
	result.Confidences[models.ScoreReadiness] = overall.Confidence
	result.Breakdown[models.ScoreReadiness] = overall.Components
	result.Category = models.CategoryForScore(overall.Score)
	result.Confidence = overallConfidence(result.Confidences)
	result.DataCompleteness = completeness(result)

	log.Info().
		Str("user", userID).
		Str("date", models.DateKey(result.Date)).
		Float64("readiness", result.Readiness).
		Str("category", string(result.Category)).
		Str("confidence", string(result.Confidence)).
		Float64("completeness", result.DataCompleteness).
		Msg("readiness calculated")

	return result, nil
}

// CalculateAndStore runs the pipeline and persists the result, replacing
// any prior result for the same (user, date).
func (e *Engine) CalculateAndStore(ctx context.Context, userID string, date time.Time) (*models.Result, error) {
	result, err := e.CalculateAll(ctx, userID, date)
	if err != nil {
		return nil, err
	}
	if err := e.repo.SaveResult(result); err != nil {
		return nil, fmt.Errorf("save result: %w", err)
	}
	return result, nil
}

func (e *Engine) buildInputs(ctx context.Context, userID string, date time.Time) (*Inputs, error) {
	profile, err := e.repo.GetProfile(userID)
	if errors.Is(err, storage.ErrNotFound) {
		profile = models.DefaultProfile(userID)
	} else if err != nil {
		return nil, fmt.Errorf("load profile: %w", err)
	}

	training, err := e.loads.EnsureThrough(ctx, userID, date, profile)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("advance training state: %w", err)
	}

	day := models.DateOf(date)
	resolved, err := e.sleeps.Resolve(ctx, userID, day)
	if err != nil {
		return nil, fmt.Errorf("resolve sleep: %w", err)
	}

	history := make([]float64, 0, sleepHistoryDays)
	for i := sleepHistoryDays - 1; i >= 0; i-- {
		d := day.AddDate(0, 0, -i)
		r := resolved
		if i != 0 {
			if r, err = e.sleeps.Resolve(ctx, userID, d); err != nil {
				return nil, fmt.Errorf("resolve sleep history: %w", err)
			}
		}
		if r.Source != sleep.SourceNone {
			history = append(history, r.Minutes)
		}
	}

	return &Inputs{
		UserID:       userID,
		Date:         day,
		Profile:      profile,
		Training:     training,
		Mature:       e.loads.Mature(userID, day),
		Sleep:        resolved,
		SleepHistory: history,
		Scores:       make(map[string]models.ComponentResult, len(pipeline)+1),
		repo:         e.repo,
		baselines:    e.baselines,
	}, nil
}

// overallConfidence labels the whole result from the component labels:
// high when more than 60% of components are high, low when more than 30%
// are low, medium otherwise.
func overallConfidence(confs map[string]models.Confidence) models.Confidence {
	high, low := 0, 0
	for _, id := range models.ComponentScoreIDs {
		switch confs[id] {
		case models.ConfidenceHigh:
			high++
		case models.ConfidenceLow:
			low++
		}
	}
	n := float64(len(models.ComponentScoreIDs))
	switch {
	case float64(high) > 0.6*n:
		return models.ConfidenceHigh
	case float64(low) > 0.3*n:
		return models.ConfidenceLow
	}
	return models.ConfidenceMedium
}

// completeness is the fraction of component scores that produced a
// non-zero value.
func completeness(r *models.Result) float64 {
	nonZero := 0
	for _, v := range r.ComponentScores() {
		if v != 0 {
			nonZero++
		}
	}
	return float64(nonZero) / float64(len(models.ComponentScoreIDs))
}

func (e *Engine) userLock(userID string) *sync.Mutex {
	e.mu.Lock()
	defer e.mu.Unlock()
	lock, ok := e.locks[userID]
	if !ok {
		lock = &sync.Mutex{}
		e.locks[userID] = lock
	}
	return lock
}
