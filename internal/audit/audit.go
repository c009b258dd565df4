// Package audit records the lifecycle events of launch runs.
// Events are appended as JSON Lines (JSONL) to a single file in the state
// directory and survive across runs.
package audit

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// EventType classifies a lifecycle event.
type EventType string

const (
	EventRunStart  EventType = "run-start"
	EventState     EventType = "state"
	EventInstall   EventType = "install"
	EventLaunch    EventType = "launch"
	EventReady     EventType = "ready"
	EventTimeout   EventType = "timeout"
	EventVerify    EventType = "verify"
	EventHealth    EventType = "health"
	EventInterrupt EventType = "interrupt"
	EventTerminate EventType = "terminate"
	EventRunEnd    EventType = "run-end"
	EventError     EventType = "error"
)

// Event represents a single audit log entry.
type Event struct {
	Timestamp time.Time `json:"timestamp"`
	RunID     string    `json:"run_id,omitempty"`
	Type      EventType `json:"type"`
	Service   string    `json:"service,omitempty"`
	Details   string    `json:"details,omitempty"`
}

// Logger writes and reads lifecycle events. A nil *Logger discards
// everything, so callers never need to check.
type Logger struct {
	path  string
	runID string

	mu sync.Mutex
}

// NewLogger creates a logger appending to path, e.g.
// {stateDir}/events.jsonl.
func NewLogger(path string) *Logger {
	return &Logger{path: path}
}

// ForRun returns a logger that stamps every event with runID.
func (l *Logger) ForRun(runID string) *Logger {
	if l == nil {
		return nil
	}
	return &Logger{path: l.path, runID: runID}
}

// Path returns the event log location.
func (l *Logger) Path() string {
	if l == nil {
		return ""
	}
	return l.path
}

// Log appends an event to the log.
func (l *Logger) Log(event Event) error {
	if l == nil {
		return nil
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	if event.RunID == "" {
		event.RunID = l.runID
	}

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(l.path), 0755); err != nil {
		return fmt.Errorf("failed to create audit log directory: %w", err)
	}

	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open audit log: %w", err)
	}
	defer f.Close()

	if _, err := f.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("failed to write event: %w", err)
	}

	return nil
}

// LogEvent is a convenience method that creates and logs an event.
func (l *Logger) LogEvent(eventType EventType, service, details string) error {
	return l.Log(Event{
		Timestamp: time.Now(),
		Type:      eventType,
		Service:   service,
		Details:   details,
	})
}

// Events reads all events in chronological order.
func (l *Logger) Events() ([]Event, error) {
	if l == nil {
		return nil, nil
	}

	f, err := os.Open(l.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to open audit log: %w", err)
	}
	defer f.Close()

	var events []Event
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var event Event
		if err := json.Unmarshal(line, &event); err != nil {
			continue // Skip malformed lines
		}
		events = append(events, event)
	}

	if err := scanner.Err(); err != nil {
		return events, fmt.Errorf("error reading audit log: %w", err)
	}

	return events, nil
}

// Filter selects events. Zero fields match everything.
type Filter struct {
	RunID   string
	Service string
	Type    EventType
	// Last keeps only the final N matching events.
	Last int
}

// Match reports whether e passes the filter.
func (f Filter) Match(e Event) bool {
	if f.RunID != "" && e.RunID != f.RunID {
		return false
	}
	if f.Service != "" && e.Service != f.Service {
		return false
	}
	if f.Type != "" && e.Type != f.Type {
		return false
	}
	return true
}

// Apply returns the events matching f, keeping their order.
func (f Filter) Apply(events []Event) []Event {
	var out []Event
	for _, e := range events {
		if f.Match(e) {
			out = append(out, e)
		}
	}
	if f.Last > 0 && len(out) > f.Last {
		out = out[len(out)-f.Last:]
	}
	return out
}

// LastRunID returns the run ID of the most recent event that has one.
func LastRunID(events []Event) string {
	for i := len(events) - 1; i >= 0; i-- {
		if events[i].RunID != "" {
			return events[i].RunID
		}
	}
	return ""
}

// Remove deletes the event log.
func (l *Logger) Remove() error {
	if l == nil {
		return nil
	}
	if err := os.Remove(l.path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
