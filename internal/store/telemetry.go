package store

import (
	"database/sql"

	"github.com/ayusman/astromind/internal/telemetry"
)

// TelemetryRepository provides append and query operations for the
// black-box telemetry records of a session.
type TelemetryRepository struct {
	db *sql.DB
}

// Telemetry returns the telemetry repository for this store.
func (s *Store) Telemetry() *TelemetryRepository {
	return &TelemetryRepository{db: s.db}
}

// Append inserts one telemetry record for a session.
func (r *TelemetryRepository) Append(sessionID string, rec telemetry.Record) error {
	_, err := r.db.Exec(
		`INSERT INTO telemetry (session_id, ts, ear, mar, status, bpm) VALUES (?, ?, ?, ?, ?, ?)`,
		sessionID, rec.Timestamp, rec.EAR, rec.MAR, rec.Status, rec.BPM,
	)
	return err
}

// ListBySession retrieves all telemetry records for a session in
// chronological order.
func (r *TelemetryRepository) ListBySession(sessionID string) ([]telemetry.Record, error) {
	rows, err := r.db.Query(
		`SELECT ts, ear, mar, status, bpm
		 FROM telemetry
		 WHERE session_id = ?
		 ORDER BY ts`,
		sessionID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []telemetry.Record
	for rows.Next() {
		var rec telemetry.Record
		if err := rows.Scan(&rec.Timestamp, &rec.EAR, &rec.MAR, &rec.Status, &rec.BPM); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return records, nil
}

// Sink adapts the repository to the telemetry.Sink interface for a
// single session.
type Sink struct {
	repo      *TelemetryRepository
	sessionID string
}

// NewTelemetrySink creates a telemetry sink writing into the store
// under the given session ID.
func (s *Store) NewTelemetrySink(sessionID string) *Sink {
	return &Sink{repo: s.Telemetry(), sessionID: sessionID}
}

// Append implements telemetry.Sink.
func (s *Sink) Append(rec telemetry.Record) error {
	return s.repo.Append(s.sessionID, rec)
}

// Close implements telemetry.Sink. The store owns the connection.
func (s *Sink) Close() error {
	return nil
}
