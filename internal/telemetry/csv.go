package telemetry

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// CSVSink appends records to a mission_log_<timestamp>.csv file with
// the black-box column layout: Timestamp, EAR, MAR, Status, HeartRate_Sim.
type CSVSink struct {
	file   *os.File
	writer *csv.Writer
	path   string
}

// NewCSVSink creates the log file in dir and writes the header row.
func NewCSVSink(dir string, start time.Time) (*CSVSink, error) {
	name := fmt.Sprintf("mission_log_%s.csv", start.Format("20060102_150405"))
	path := filepath.Join(dir, name)

	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create mission log: %w", err)
	}

	writer := csv.NewWriter(file)
	if err := writer.Write([]string{"Timestamp", "EAR", "MAR", "Status", "HeartRate_Sim"}); err != nil {
		file.Close()
		return nil, fmt.Errorf("write mission log header: %w", err)
	}
	writer.Flush()

	return &CSVSink{file: file, writer: writer, path: path}, nil
}

// Path returns the log file path.
func (s *CSVSink) Path() string {
	return s.path
}

// Append writes one record and flushes it so the log survives a crash.
func (s *CSVSink) Append(rec Record) error {
	row := []string{
		rec.Timestamp.Format(time.RFC3339Nano),
		strconv.FormatFloat(rec.EAR, 'f', 3, 64),
		strconv.FormatFloat(rec.MAR, 'f', 3, 64),
		rec.Status,
		strconv.Itoa(rec.BPM),
	}
	if err := s.writer.Write(row); err != nil {
		return err
	}
	s.writer.Flush()
	return s.writer.Error()
}

// Close flushes and closes the log file.
func (s *CSVSink) Close() error {
	s.writer.Flush()
	if err := s.writer.Error(); err != nil {
		s.file.Close()
		return err
	}
	return s.file.Close()
}
