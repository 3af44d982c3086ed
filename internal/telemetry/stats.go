package telemetry

import (
	"encoding/json"
	"time"
)

type Stats struct {
	Since           string            `json:"since"`
	EventCounts     map[EventType]int `json:"event_counts"`
	TasksAppended   int               `json:"tasks_appended"`
	TasksRemoved    int               `json:"tasks_removed"`
	Reorders        int               `json:"reorders"`
	Commits         int               `json:"commits"`
	DiscardedDrafts int               `json:"discarded_drafts"`
	Exports         int               `json:"exports"`
	Imports         int               `json:"imports"`
	AppendsByKind   map[string]int    `json:"appends_by_kind"`
	CommitsByParam  map[string]int    `json:"commits_by_param"`
}

// CalculateStats summarizes editor activity from events
func CalculateStats(events []Event, since time.Time) (Stats, error) {
	stats := Stats{
		Since:          since.UTC().Format(time.RFC3339),
		EventCounts:    make(map[EventType]int),
		AppendsByKind:  make(map[string]int),
		CommitsByParam: make(map[string]int),
	}

	for _, event := range events {
		stats.EventCounts[event.Type]++

		var metadata EventMetadata
		if err := json.Unmarshal([]byte(event.Metadata), &metadata); err != nil {
			metadata = nil
		}

		switch event.Type {
		case EventTaskAppended:
			stats.TasksAppended++
			if kind, ok := metadata["type"].(string); ok {
				stats.AppendsByKind[kind]++
			}
		case EventTaskRemoved:
			stats.TasksRemoved++
		case EventTaskReordered:
			stats.Reorders++
		case EventParamCommitted:
			stats.Commits++
			kind, _ := metadata["type"].(string)
			key, _ := metadata["key"].(string)
			if kind != "" && key != "" {
				stats.CommitsByParam[kind+"."+key]++
			}
		case EventDraftDiscarded:
			stats.DiscardedDrafts++
		case EventListExported:
			stats.Exports++
		case EventListImported:
			stats.Imports++
		}
	}

	return stats, nil
}
