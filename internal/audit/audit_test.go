package audit

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func newTestLogger(t *testing.T) *Logger {
	t.Helper()
	return NewLogger(filepath.Join(t.TempDir(), ".launch", "events.jsonl"))
}

func TestLogger_LogAndEvents(t *testing.T) {
	logger := newTestLogger(t)

	now := time.Now().Truncate(time.Millisecond)

	events := []Event{
		{Timestamp: now, Type: EventLaunch, Service: "backend", Details: "python main.py"},
		{Timestamp: now.Add(time.Second), Type: EventReady, Service: "backend"},
		{Timestamp: now.Add(2 * time.Second), Type: EventVerify, Details: "http://localhost:8000/docs status=200"},
		{Timestamp: now.Add(3 * time.Second), Type: EventTerminate, Service: "backend"},
	}

	for _, e := range events {
		if err := logger.Log(e); err != nil {
			t.Fatalf("Log failed: %v", err)
		}
	}

	result, err := logger.Events()
	if err != nil {
		t.Fatalf("Events failed: %v", err)
	}

	if len(result) != len(events) {
		t.Fatalf("got %d events, want %d", len(result), len(events))
	}

	for i, e := range result {
		if e.Type != events[i].Type {
			t.Errorf("event %d: type = %q, want %q", i, e.Type, events[i].Type)
		}
		if e.Service != events[i].Service {
			t.Errorf("event %d: service = %q, want %q", i, e.Service, events[i].Service)
		}
		if e.Details != events[i].Details {
			t.Errorf("event %d: details = %q, want %q", i, e.Details, events[i].Details)
		}
	}
}

func TestLogger_EventsEmpty(t *testing.T) {
	logger := newTestLogger(t)

	result, err := logger.Events()
	if err != nil {
		t.Fatalf("Events failed: %v", err)
	}

	if len(result) != 0 {
		t.Errorf("got %d events, want 0", len(result))
	}
}

func TestLogger_LogEvent(t *testing.T) {
	logger := newTestLogger(t).ForRun("run-1")

	if err := logger.LogEvent(EventTimeout, "frontend", "http://localhost:5500"); err != nil {
		t.Fatalf("LogEvent failed: %v", err)
	}

	events, err := logger.Events()
	if err != nil {
		t.Fatalf("Events failed: %v", err)
	}

	if len(events) != 1 {
		t.Fatalf("got %d events, want 1", len(events))
	}

	e := events[0]
	if e.Type != EventTimeout {
		t.Errorf("type = %q, want %q", e.Type, EventTimeout)
	}
	if e.Service != "frontend" {
		t.Errorf("service = %q, want %q", e.Service, "frontend")
	}
	if e.RunID != "run-1" {
		t.Errorf("run_id = %q, want %q", e.RunID, "run-1")
	}
	if e.Timestamp.IsZero() {
		t.Error("timestamp should be set automatically")
	}
}

func TestLogger_Nil(t *testing.T) {
	var logger *Logger

	if err := logger.LogEvent(EventReady, "backend", ""); err != nil {
		t.Errorf("nil logger LogEvent should not error: %v", err)
	}
	if events, err := logger.Events(); err != nil || events != nil {
		t.Errorf("nil logger Events() = %v, %v", events, err)
	}
	if logger.ForRun("x") != nil {
		t.Error("nil logger ForRun should stay nil")
	}
}

func TestLogger_Remove(t *testing.T) {
	logger := newTestLogger(t)

	_ = logger.LogEvent(EventLaunch, "backend", "")

	if err := logger.Remove(); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}

	events, err := logger.Events()
	if err != nil {
		t.Fatalf("Events failed: %v", err)
	}
	if len(events) != 0 {
		t.Errorf("got %d events after remove, want 0", len(events))
	}

	// Should not error
	if err := logger.Remove(); err != nil {
		t.Errorf("Remove should not error for nonexistent: %v", err)
	}
}

func TestLogger_SkipsMalformedLines(t *testing.T) {
	logger := newTestLogger(t)
	_ = logger.LogEvent(EventLaunch, "backend", "")

	f, err := os.OpenFile(logger.Path(), os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		t.Fatal(err)
	}
	_, _ = f.WriteString("not json\n\n")
	f.Close()

	_ = logger.LogEvent(EventReady, "backend", "")

	events, err := logger.Events()
	if err != nil {
		t.Fatalf("Events failed: %v", err)
	}
	if len(events) != 2 {
		t.Errorf("got %d events, want 2", len(events))
	}
}

func TestFilter_Apply(t *testing.T) {
	events := []Event{
		{RunID: "a", Type: EventLaunch, Service: "backend"},
		{RunID: "a", Type: EventReady, Service: "backend"},
		{RunID: "b", Type: EventLaunch, Service: "backend"},
		{RunID: "b", Type: EventLaunch, Service: "frontend"},
		{RunID: "b", Type: EventTimeout, Service: "frontend"},
	}

	tests := []struct {
		name   string
		filter Filter
		want   int
	}{
		{"all", Filter{}, 5},
		{"run", Filter{RunID: "b"}, 3},
		{"service", Filter{Service: "frontend"}, 2},
		{"type", Filter{Type: EventLaunch}, 3},
		{"combined", Filter{RunID: "b", Type: EventLaunch}, 2},
		{"last", Filter{Last: 2}, 2},
		{"last larger than matches", Filter{Service: "frontend", Last: 10}, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.filter.Apply(events); len(got) != tt.want {
				t.Errorf("Apply() returned %d events, want %d", len(got), tt.want)
			}
		})
	}

	last := Filter{Last: 1}.Apply(events)
	if last[0].Type != EventTimeout {
		t.Errorf("Last should keep the final event, got %q", last[0].Type)
	}
}

func TestLastRunID(t *testing.T) {
	events := []Event{{RunID: "a"}, {RunID: "b"}, {}}
	if got := LastRunID(events); got != "b" {
		t.Errorf("LastRunID() = %q, want %q", got, "b")
	}
	if got := LastRunID(nil); got != "" {
		t.Errorf("LastRunID(nil) = %q", got)
	}
}
