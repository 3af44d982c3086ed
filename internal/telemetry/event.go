package telemetry

import "time"

type EventType string

const (
	EventTaskAppended   EventType = "task_appended"
	EventTaskRemoved    EventType = "task_removed"
	EventTaskReordered  EventType = "task_reordered"
	EventTaskReset      EventType = "task_reset"
	EventParamCommitted EventType = "param_committed"
	EventDraftDiscarded EventType = "draft_discarded"
	EventListExported   EventType = "list_exported"
	EventListImported   EventType = "list_imported"
)

type Event struct {
	ID        int       `json:"id"`
	Type      EventType `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Metadata  string    `json:"metadata"`
}

type EventMetadata map[string]interface{}

// Recorder is the write side handed to HTTP handlers.
type Recorder interface {
	RecordEvent(eventType EventType, metadata EventMetadata) error
}

// Record is a nil-safe RecordEvent; activity logging never fails a request.
func Record(rec Recorder, eventType EventType, metadata EventMetadata) {
	if rec == nil {
		return
	}
	_ = rec.RecordEvent(eventType, metadata)
}
