// ABOUTME: Export and import functionality for readiness data.
// ABOUTME: Supports JSON and YAML export formats.
package storage

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/harperreed/readiness/internal/models"
	"gopkg.in/yaml.v3"
)

// ExportData represents the full export format for readiness data.
type ExportData struct {
	Version      string                  `json:"version" yaml:"version"`
	ExportedAt   time.Time               `json:"exported_at" yaml:"exported_at"`
	Tool         string                  `json:"tool" yaml:"tool"`
	Samples      []*models.Sample        `json:"samples" yaml:"samples"`
	SleepEntries []*models.SleepEntry    `json:"sleep_entries" yaml:"sleep_entries"`
	States       []*models.TrainingState `json:"training_states" yaml:"training_states"`
	Results      []*models.Result        `json:"results" yaml:"results"`
	Profiles     []*models.Profile       `json:"profiles" yaml:"profiles"`
}

// GetAllData retrieves all data for export.
func (d *DB) GetAllData() (*ExportData, error) {
	data := &ExportData{
		Version:    "1.0",
		ExportedAt: time.Now(),
		Tool:       "readiness",
	}

	for _, userID := range d.mustListUserIDs() {
		samples, err := d.ListSamples(userID, nil, 0)
		if err != nil {
			return nil, fmt.Errorf("list samples: %w", err)
		}
		data.Samples = append(data.Samples, samples...)

		entries, err := d.listAllSleepEntries(userID)
		if err != nil {
			return nil, fmt.Errorf("list sleep entries: %w", err)
		}
		data.SleepEntries = append(data.SleepEntries, entries...)

		states, err := d.listAllTrainingStates(userID)
		if err != nil {
			return nil, fmt.Errorf("list training states: %w", err)
		}
		data.States = append(data.States, states...)

		results, err := d.ListResults(userID, 0)
		if err != nil {
			return nil, fmt.Errorf("list results: %w", err)
		}
		data.Results = append(data.Results, results...)

		profile, err := d.GetProfile(userID)
		if err == nil {
			data.Profiles = append(data.Profiles, profile)
		}
	}

	return data, nil
}

// ImportData imports data from an export file. The destination should be
// empty before calling this function.
func (d *DB) ImportData(data *ExportData) error {
	for _, s := range data.Samples {
		if err := d.CreateSample(s); err != nil {
			return fmt.Errorf("import sample: %w", err)
		}
	}
	for _, e := range data.SleepEntries {
		if err := d.CreateSleepEntry(e); err != nil {
			return fmt.Errorf("import sleep entry: %w", err)
		}
	}
	// Training states must be replayed in date order to preserve the chain.
	for _, st := range data.States {
		if err := d.PutTrainingState(st); err != nil {
			return fmt.Errorf("import training state: %w", err)
		}
	}
	for _, r := range data.Results {
		if err := d.SaveResult(r); err != nil {
			return fmt.Errorf("import result: %w", err)
		}
	}
	for _, p := range data.Profiles {
		if err := d.UpsertProfile(p); err != nil {
			return fmt.Errorf("import profile: %w", err)
		}
	}
	return nil
}

// ToJSON serializes export data as indented JSON.
func (e *ExportData) ToJSON() ([]byte, error) {
	return json.MarshalIndent(e, "", "  ")
}

// ToYAML serializes export data as YAML.
func (e *ExportData) ToYAML() ([]byte, error) {
	return yaml.Marshal(e)
}

// mustListUserIDs collects distinct user ids across tables; query failures
// yield an empty list rather than aborting the export.
func (d *DB) mustListUserIDs() []string {
	rows, err := d.db.Query(`
		SELECT user_id FROM samples
		UNION SELECT user_id FROM sleep_entries
		UNION SELECT user_id FROM training_states
		UNION SELECT user_id FROM results
		UNION SELECT user_id FROM profiles
	`)
	if err != nil {
		return nil
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return ids
		}
		ids = append(ids, id)
	}
	return ids
}

func (d *DB) listAllSleepEntries(userID string) ([]*models.SleepEntry, error) {
	rows, err := d.db.Query(`
		SELECT id, user_id, wake_date, minutes, is_override, created_at
		FROM sleep_entries WHERE user_id = ? ORDER BY wake_date ASC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*models.SleepEntry
	for rows.Next() {
		e, err := scanSleepEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (d *DB) listAllTrainingStates(userID string) ([]*models.TrainingState, error) {
	rows, err := d.db.Query(trainingStateSelect+` WHERE user_id = ? ORDER BY date ASC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var states []*models.TrainingState
	for rows.Next() {
		st, err := scanTrainingState(rows)
		if err != nil {
			return nil, err
		}
		states = append(states, st)
	}
	return states, rows.Err()
}
