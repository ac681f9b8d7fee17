package store

import (
	"database/sql"
	"time"

	"github.com/ayusman/astromind/internal/session"
)

// Session represents a monitoring session stored in the database.
// EndedAt is nil while the session is still running.
type Session struct {
	ID           string     `json:"id"`
	StartedAt    time.Time  `json:"started_at"`
	EndedAt      *time.Time `json:"ended_at,omitempty"`
	DurationSecs int64      `json:"duration_secs"`
	Grade        string     `json:"grade"`
	Microsleeps  int        `json:"microsleeps"`
	Yawns        int        `json:"yawns"`
	AvgEAR       float64    `json:"avg_ear"`
	AvgMAR       float64    `json:"avg_mar"`
}

// SessionRepository provides CRUD operations for sessions.
type SessionRepository struct {
	db *sql.DB
}

// Sessions returns the session repository for this store.
func (s *Store) Sessions() *SessionRepository {
	return &SessionRepository{db: s.db}
}

// Create inserts a new, still running session row.
func (r *SessionRepository) Create(id string, startedAt time.Time) error {
	_, err := r.db.Exec(
		`INSERT INTO sessions (id, started_at) VALUES (?, ?)`,
		id, startedAt,
	)
	return err
}

// Finish writes the final report onto the session row.
func (r *SessionRepository) Finish(id string, report session.Report) error {
	_, err := r.db.Exec(
		`UPDATE sessions
		 SET ended_at = ?, duration_secs = ?, grade = ?, microsleeps = ?, yawns = ?, avg_ear = ?, avg_mar = ?
		 WHERE id = ?`,
		report.End,
		int64(report.Duration.Seconds()),
		string(report.Grade),
		report.TotalMicrosleeps,
		report.TotalYawns,
		report.AvgEAR,
		report.AvgMAR,
		id,
	)
	return err
}

// Get retrieves a single session by ID.
func (r *SessionRepository) Get(id string) (*Session, error) {
	row := r.db.QueryRow(
		`SELECT id, started_at, ended_at, duration_secs, grade, microsleeps, yawns, avg_ear, avg_mar
		 FROM sessions WHERE id = ?`,
		id,
	)
	return scanSession(row)
}

// List retrieves all sessions, most recent first.
func (r *SessionRepository) List() ([]Session, error) {
	rows, err := r.db.Query(
		`SELECT id, started_at, ended_at, duration_secs, grade, microsleeps, yawns, avg_ear, avg_mar
		 FROM sessions ORDER BY started_at DESC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []Session
	for rows.Next() {
		var s Session
		var endedAt sql.NullTime
		if err := rows.Scan(&s.ID, &s.StartedAt, &endedAt, &s.DurationSecs,
			&s.Grade, &s.Microsleeps, &s.Yawns, &s.AvgEAR, &s.AvgMAR); err != nil {
			return nil, err
		}
		if endedAt.Valid {
			t := endedAt.Time
			s.EndedAt = &t
		}
		sessions = append(sessions, s)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return sessions, nil
}

// Delete removes a session and, via cascade, its telemetry.
func (r *SessionRepository) Delete(id string) error {
	_, err := r.db.Exec(`DELETE FROM sessions WHERE id = ?`, id)
	return err
}

func scanSession(row *sql.Row) (*Session, error) {
	var s Session
	var endedAt sql.NullTime
	if err := row.Scan(&s.ID, &s.StartedAt, &endedAt, &s.DurationSecs,
		&s.Grade, &s.Microsleeps, &s.Yawns, &s.AvgEAR, &s.AvgMAR); err != nil {
		return nil, err
	}
	if endedAt.Valid {
		t := endedAt.Time
		s.EndedAt = &t
	}
	return &s, nil
}
