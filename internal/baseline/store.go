// ABOUTME: BaselineStore computes robust per-metric rolling statistics with caching.
// ABOUTME: Median/MAD baselines over a trailing window, keyed by (user, metric type).
package baseline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/harperreed/readiness/internal/models"
	"github.com/harperreed/readiness/internal/stats"
	"github.com/harperreed/readiness/internal/storage"
)

const (
	// DefaultWindowDays is the trailing window for baseline statistics.
	DefaultWindowDays = 28

	// StalenessThreshold bounds how long a cached baseline is reused.
	StalenessThreshold = time.Hour
)

// ErrInsufficientData is returned when no samples exist in the window.
// Calculators catch it and degrade confidence instead of failing.
var ErrInsufficientData = errors.New("insufficient data for baseline")

// Baseline holds robust rolling statistics for one (user, metric type) pair.
type Baseline struct {
	MetricType  models.MetricType `json:"metric_type"`
	Median      float64           `json:"median"`
	MAD         float64           `json:"mad"`
	WindowDays  int               `json:"window_days"`
	SampleCount int               `json:"sample_count"`
	ComputedAt  time.Time         `json:"computed_at"`
}

// ZScore returns the robust deviation of value from the baseline median.
// ok is false when MAD is zero (degenerate spread); callers must treat
// that as zero deviation with downgraded confidence, never divide anyway.
func (b *Baseline) ZScore(value float64) (z float64, ok bool) {
	if b.MAD <= 0 {
		return 0, false
	}
	return (value - b.Median) / b.MAD, true
}

// Store computes and caches baselines. The cache is the only mutable shared
// state in the engine; reads are safe concurrently, recomputes for the same
// key are serialized.
type Store struct {
	repo  storage.Repository
	cache *Cache

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewStore creates a baseline store backed by the given repository and cache.
func NewStore(repo storage.Repository, cache *Cache) *Store {
	return &Store{
		repo:  repo,
		cache: cache,
		locks: make(map[string]*sync.Mutex),
	}
}

// Get returns the baseline for (user, metricType) over the trailing window,
// computing and caching it when absent or stale. Returns ErrInsufficientData
// when the window holds no samples.
func (s *Store) Get(ctx context.Context, userID string, metricType models.MetricType, windowDays int, force bool) (*Baseline, error) {
	if windowDays <= 0 {
		windowDays = DefaultWindowDays
	}
	key := cacheKey(userID, metricType, windowDays)

	if !force {
		if b, ok := s.cached(key); ok {
			return b, nil
		}
	}

	lock := s.keyLock(key)
	lock.Lock()
	defer lock.Unlock()

	// Another caller may have recomputed while we waited for the lock.
	if !force {
		if b, ok := s.cached(key); ok {
			return b, nil
		}
	}

	b, err := s.compute(ctx, userID, metricType, windowDays)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(b); err == nil {
		if err := s.cache.Set(key, data, StalenessThreshold); err != nil {
			log.Warn().Err(err).Str("key", key).Msg("baseline cache write failed")
		}
	}
	return b, nil
}

// Values returns the raw window values for a metric, for percentile-based
// scores that need the full distribution rather than median/MAD.
func (s *Store) Values(ctx context.Context, userID string, metricType models.MetricType, windowDays int) ([]float64, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if windowDays <= 0 {
		windowDays = DefaultWindowDays
	}
	now := time.Now()
	// Same inclusive upper bound as compute: see the note there.
	samples, err := s.repo.SamplesInRange(userID, metricType, now.AddDate(0, 0, -windowDays), now.Add(time.Second))
	if err != nil {
		return nil, fmt.Errorf("baseline samples: %w", err)
	}
	return sampleValues(samples), nil
}

// PercentileRank returns where value falls in the metric's window
// distribution, as 0-100.
func (s *Store) PercentileRank(ctx context.Context, userID string, metricType models.MetricType, windowDays int, value float64) (float64, error) {
	values, err := s.Values(ctx, userID, metricType, windowDays)
	if err != nil {
		return 0, err
	}
	if len(values) == 0 {
		return 0, ErrInsufficientData
	}
	return stats.PercentileRank(values, value), nil
}

// Invalidate drops cached baselines for a user: one metric type, or all
// when metricType is nil. Must be called whenever upstream data for the
// window materially changes.
func (s *Store) Invalidate(userID string, metricType *models.MetricType) error {
	if metricType == nil {
		return s.cache.DeletePrefix("baseline:" + userID + ":")
	}
	return s.cache.DeletePrefix(fmt.Sprintf("baseline:%s:%s:", userID, *metricType))
}

func (s *Store) compute(ctx context.Context, userID string, metricType models.MetricType, windowDays int) (*Baseline, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	now := time.Now()
	// recorded_at is stored at second precision; the exclusive upper bound
	// must land past the current second or a sample recorded this second
	// falls outside its own recompute.
	samples, err := s.repo.SamplesInRange(userID, metricType, now.AddDate(0, 0, -windowDays), now.Add(time.Second))
	if err != nil {
		return nil, fmt.Errorf("baseline samples: %w", err)
	}

	values := sampleValues(samples)
	if len(values) == 0 {
		return nil, ErrInsufficientData
	}

	b := &Baseline{
		MetricType:  metricType,
		Median:      stats.Median(values),
		MAD:         stats.MAD(values),
		WindowDays:  windowDays,
		SampleCount: len(values),
		ComputedAt:  now,
	}

	log.Debug().
		Str("user", userID).
		Str("metric", string(metricType)).
		Int("samples", b.SampleCount).
		Float64("median", b.Median).
		Float64("mad", b.MAD).
		Msg("baseline computed")

	return b, nil
}

func (s *Store) cached(key string) (*Baseline, bool) {
	data, ok, err := s.cache.Get(key)
	if err != nil || !ok {
		return nil, false
	}
	var b Baseline
	if err := json.Unmarshal(data, &b); err != nil {
		return nil, false
	}
	if time.Since(b.ComputedAt) > StalenessThreshold {
		return nil, false
	}
	return &b, true
}

func (s *Store) keyLock(key string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.locks[key]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[key] = lock
	}
	return lock
}

// sampleValues extracts the scoring value per sample: the duration for
// interval samples, the recorded value otherwise.
func sampleValues(samples []*models.Sample) []float64 {
	values := make([]float64, 0, len(samples))
	for _, s := range samples {
		if s.IsInterval {
			if d := s.DurationMinutes(); d > 0 {
				values = append(values, d)
			}
			continue
		}
		values = append(values, s.Value)
	}
	return values
}

func cacheKey(userID string, metricType models.MetricType, windowDays int) string {
	return fmt.Sprintf("baseline:%s:%s:%d", userID, metricType, windowDays)
}
