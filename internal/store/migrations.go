package store

// runMigrations executes all database migrations.
func (s *Store) runMigrations() error {
	migrations := []string{
		// Sessions table - one row per monitoring session
		`CREATE TABLE IF NOT EXISTS sessions (
			id TEXT PRIMARY KEY,
			started_at DATETIME NOT NULL,
			ended_at DATETIME,
			duration_secs INTEGER NOT NULL DEFAULT 0,
			grade TEXT NOT NULL DEFAULT '' CHECK(grade IN ('', 'S', 'A', 'C', 'F')),
			microsleeps INTEGER NOT NULL DEFAULT 0,
			yawns INTEGER NOT NULL DEFAULT 0,
			avg_ear REAL NOT NULL DEFAULT 0,
			avg_mar REAL NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,

		// Telemetry table - sub-sampled per-decision black box records
		`CREATE TABLE IF NOT EXISTS telemetry (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			session_id TEXT NOT NULL REFERENCES sessions(id) ON DELETE CASCADE,
			ts DATETIME NOT NULL,
			ear REAL NOT NULL,
			mar REAL NOT NULL,
			status TEXT NOT NULL,
			bpm INTEGER NOT NULL
		)`,

		// Indexes for better query performance
		`CREATE INDEX IF NOT EXISTS idx_telemetry_session_id ON telemetry(session_id)`,
		`CREATE INDEX IF NOT EXISTS idx_sessions_started_at ON sessions(started_at)`,
	}

	for _, migration := range migrations {
		if _, err := s.db.Exec(migration); err != nil {
			return err
		}
	}

	return nil
}
