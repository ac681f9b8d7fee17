package telemetry

import (
	"errors"
	"testing"
	"time"
)

func TestThrottle_OnePerBucket(t *testing.T) {
	th := NewThrottle(100 * time.Millisecond)
	base := time.UnixMilli(1700000000000)

	if !th.Allow(base) {
		t.Fatal("first record should pass")
	}
	// Same 100ms bucket: blocked regardless of how many frames arrive
	if th.Allow(base.Add(30 * time.Millisecond)) {
		t.Error("record in same bucket should be blocked")
	}
	if th.Allow(base.Add(99 * time.Millisecond)) {
		t.Error("record at bucket edge should be blocked")
	}
	// Next bucket: passes
	if !th.Allow(base.Add(100 * time.Millisecond)) {
		t.Error("record in next bucket should pass")
	}
}

func TestThrottle_VariableFrameRate(t *testing.T) {
	th := NewThrottle(100 * time.Millisecond)
	base := time.UnixMilli(1700000000000)

	// A long gap between frames still yields exactly one record
	if !th.Allow(base) {
		t.Fatal("first record should pass")
	}
	if !th.Allow(base.Add(750 * time.Millisecond)) {
		t.Error("record after a long gap should pass")
	}
	if th.Allow(base.Add(799 * time.Millisecond)) {
		t.Error("second record in the landed bucket should be blocked")
	}
}

func TestThrottle_DisabledPassesEverything(t *testing.T) {
	th := NewThrottle(0)
	ts := time.Now()
	for i := 0; i < 5; i++ {
		if !th.Allow(ts) {
			t.Fatal("disabled throttle must pass every record")
		}
	}
}

// failSink always errors, for testing fanout isolation.
type failSink struct{}

func (failSink) Append(Record) error { return errors.New("sink down") }
func (failSink) Close() error        { return errors.New("sink down") }

// memSink records appends, for testing fanout delivery.
type memSink struct {
	records []Record
}

func (m *memSink) Append(rec Record) error { m.records = append(m.records, rec); return nil }
func (m *memSink) Close() error            { return nil }

func TestMultiSink_FailingSinkDoesNotStopOthers(t *testing.T) {
	mem := &memSink{}
	multi := NewMultiSink(failSink{}, mem)

	rec := Record{Timestamp: time.Now(), EAR: 0.25, Status: "SYSTEM: ONLINE", BPM: 72}
	if err := multi.Append(rec); err != nil {
		t.Fatalf("Append() error = %v, want nil (failures are non-fatal)", err)
	}

	if len(mem.records) != 1 {
		t.Errorf("healthy sink got %d records, want 1", len(mem.records))
	}
}
