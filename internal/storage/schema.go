// ABOUTME: SQLite schema definition and initialization.
// ABOUTME: Defines tables for samples, sleep entries, training states, results, profiles.
package storage

// initSchema creates or updates the database schema.
func (d *DB) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS samples (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		metric_type TEXT NOT NULL,
		value REAL NOT NULL,
		unit TEXT NOT NULL,
		recorded_at DATETIME NOT NULL,
		is_interval INTEGER NOT NULL DEFAULT 0,
		interval_start DATETIME,
		interval_end DATETIME,
		source TEXT NOT NULL DEFAULT '',
		notes TEXT,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS sleep_entries (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		wake_date TEXT NOT NULL,
		minutes REAL NOT NULL,
		is_override INTEGER NOT NULL DEFAULT 0,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS training_states (
		user_id TEXT NOT NULL,
		date TEXT NOT NULL,
		daily_load REAL NOT NULL,
		acute_load REAL NOT NULL,
		chronic_load REAL NOT NULL,
		fatigue REAL NOT NULL,
		fitness REAL NOT NULL,
		training_effect REAL NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (user_id, date)
	);

	CREATE TABLE IF NOT EXISTS results (
		user_id TEXT NOT NULL,
		date TEXT NOT NULL,
		readiness REAL NOT NULL,
		fatigue_index REAL NOT NULL,
		recovery REAL NOT NULL,
		sleep_quality REAL NOT NULL,
		sleep_debt REAL NOT NULL,
		autonomic_balance REAL NOT NULL,
		hrv_deviation REAL NOT NULL,
		resting_hr_deviation REAL NOT NULL,
		respiratory_stability REAL NOT NULL,
		oxygen_stability REAL NOT NULL,
		training_load REAL NOT NULL,
		acute_chronic_ratio REAL NOT NULL,
		cardiovascular_strain REAL NOT NULL,
		stress_load REAL NOT NULL,
		illness_risk REAL NOT NULL,
		overtraining_risk REAL NOT NULL,
		energy_availability REAL NOT NULL,
		physical_status REAL NOT NULL,
		category TEXT NOT NULL,
		confidence TEXT NOT NULL,
		data_completeness REAL NOT NULL,
		confidences TEXT NOT NULL,
		breakdown TEXT NOT NULL,
		calculated_at DATETIME NOT NULL,
		PRIMARY KEY (user_id, date)
	);

	CREATE TABLE IF NOT EXISTS profiles (
		user_id TEXT PRIMARY KEY,
		max_hr REAL NOT NULL,
		resting_hr REAL NOT NULL,
		age INTEGER NOT NULL DEFAULT 0,
		sleep_need_minutes REAL NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_samples_user_type_recorded
		ON samples(user_id, metric_type, recorded_at DESC);
	CREATE INDEX IF NOT EXISTS idx_samples_recorded ON samples(recorded_at DESC);
	CREATE INDEX IF NOT EXISTS idx_sleep_entries_user_date
		ON sleep_entries(user_id, wake_date);
	CREATE INDEX IF NOT EXISTS idx_results_user_date ON results(user_id, date DESC);
	`

	_, err := d.db.Exec(schema)
	return err
}
