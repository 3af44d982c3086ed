package telemetry

import (
	"encoding/json"
	"slices"
	"sync"
	"time"
)

// ActivityLog is what the activity endpoint reads from.
type ActivityLog interface {
	Recorder
	GetEvents(since time.Time, eventTypes []EventType) ([]Event, error)
	Clear() error
}

// MemoryLog holds the most recent editor actions of this process. Older
// entries fall off once capacity is reached.
type MemoryLog struct {
	mu       sync.RWMutex
	entries  []Event
	seq      int
	capacity int
	clock    func() time.Time
}

// NewMemoryLog returns a log holding up to capacity entries. Zero or less
// keeps everything.
func NewMemoryLog(capacity int) *MemoryLog {
	return &MemoryLog{capacity: capacity, clock: time.Now}
}

func (l *MemoryLog) RecordEvent(eventType EventType, metadata EventMetadata) error {
	raw, err := json.Marshal(metadata)
	if err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	l.seq++
	l.entries = append(l.entries, Event{
		ID:        l.seq,
		Type:      eventType,
		Timestamp: l.clock(),
		Metadata:  string(raw),
	})
	l.dropOldestLocked()
	return nil
}

func (l *MemoryLog) dropOldestLocked() {
	over := len(l.entries) - l.capacity
	if l.capacity <= 0 || over <= 0 {
		return
	}
	l.entries = slices.Clone(l.entries[over:])
}

// GetEvents returns entries at or after since, oldest first. An empty
// eventTypes matches every type.
func (l *MemoryLog) GetEvents(since time.Time, eventTypes []EventType) ([]Event, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := []Event{}
	for _, e := range l.entries {
		if e.Timestamp.Before(since) {
			continue
		}
		if len(eventTypes) > 0 && !slices.Contains(eventTypes, e.Type) {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

// Clear empties the log and restarts numbering.
func (l *MemoryLog) Clear() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.entries = nil
	l.seq = 0
	return nil
}
