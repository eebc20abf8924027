// ABOUTME: Repository interface for readiness data storage.
// ABOUTME: Defines the contract the scoring engine consumes samples and state through.
package storage

import (
	"time"

	"github.com/harperreed/readiness/internal/models"
)

// Repository defines the storage interface for readiness data.
// This interface allows swapping implementations (e.g., for testing).
type Repository interface {
	// Sample operations
	CreateSample(s *models.Sample) error
	GetSample(idOrPrefix string) (*models.Sample, error)
	ListSamples(userID string, metricType *models.MetricType, limit int) ([]*models.Sample, error)
	SamplesInRange(userID string, metricType models.MetricType, from, to time.Time) ([]*models.Sample, error)
	DeleteSample(idOrPrefix string) error
	EarliestSampleDate(userID string) (time.Time, error)

	// Manual sleep entries
	CreateSleepEntry(e *models.SleepEntry) error
	SleepEntriesForDate(userID string, date time.Time) ([]*models.SleepEntry, error)

	// Training state (strictly sequential per user)
	PutTrainingState(st *models.TrainingState) error
	GetTrainingState(userID string, date time.Time) (*models.TrainingState, error)
	LatestTrainingState(userID string) (*models.TrainingState, error)

	// Readiness results
	SaveResult(r *models.Result) error
	GetResult(userID string, date time.Time) (*models.Result, error)
	ListResults(userID string, limit int) ([]*models.Result, error)
	ListResultsBefore(userID string, date time.Time, limit int) ([]*models.Result, error)

	// Profiles
	UpsertProfile(p *models.Profile) error
	GetProfile(userID string) (*models.Profile, error)

	// Export/Import
	GetAllData() (*ExportData, error)
	ImportData(data *ExportData) error

	// Lifecycle
	Close() error
}
