package telemetry

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLogWithClock(capacity int, start time.Time) (*MemoryLog, func(time.Duration)) {
	l := NewMemoryLog(capacity)
	now := start
	l.clock = func() time.Time { return now }
	return l, func(d time.Duration) { now = now.Add(d) }
}

func TestMemoryLog_RecordAndFilter(t *testing.T) {
	start := time.Date(2024, 3, 5, 14, 0, 0, 0, time.UTC)
	l, advance := newLogWithClock(0, start)

	require.NoError(t, l.RecordEvent(EventTaskAppended, EventMetadata{"type": "move"}))
	advance(time.Minute)
	require.NoError(t, l.RecordEvent(EventTaskRemoved, nil))

	all, err := l.GetEvents(time.Time{}, nil)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, 1, all[0].ID)
	assert.JSONEq(t, `{"type":"move"}`, all[0].Metadata)

	removed, err := l.GetEvents(time.Time{}, []EventType{EventTaskRemoved})
	require.NoError(t, err)
	assert.Len(t, removed, 1)

	recent, err := l.GetEvents(start.Add(30*time.Second), nil)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, EventTaskRemoved, recent[0].Type)

	// since is inclusive
	atStart, _ := l.GetEvents(start, nil)
	assert.Len(t, atStart, 2)
}

func TestMemoryLog_DropsOldestPastCapacity(t *testing.T) {
	l := NewMemoryLog(2)
	for range 5 {
		require.NoError(t, l.RecordEvent(EventTaskReordered, nil))
	}

	events, _ := l.GetEvents(time.Time{}, nil)
	require.Len(t, events, 2)
	assert.Equal(t, 4, events[0].ID)
	assert.Equal(t, 5, events[1].ID)
}

func TestMemoryLog_ClearRestartsNumbering(t *testing.T) {
	l := NewMemoryLog(0)
	Record(l, EventListExported, nil)
	Record(l, EventListExported, nil)
	require.NoError(t, l.Clear())

	events, _ := l.GetEvents(time.Time{}, nil)
	assert.Empty(t, events)

	Record(l, EventListImported, nil)
	events, _ = l.GetEvents(time.Time{}, nil)
	require.Len(t, events, 1)
	assert.Equal(t, 1, events[0].ID)
}

func TestMemoryLog_UnencodableMetadata(t *testing.T) {
	l := NewMemoryLog(0)
	err := l.RecordEvent(EventTaskAppended, EventMetadata{"bad": func() {}})
	require.Error(t, err)

	events, _ := l.GetEvents(time.Time{}, nil)
	assert.Empty(t, events)
}
