// Package audit records how every reported insight traces back to source
// records.
package audit

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Limits on what an entry keeps.
const (
	MaxSourceIDs    = 10
	MaxSamplePoints = 5
)

// Confidence grades an insight.
type Confidence string

const (
	High   Confidence = "HIGH"
	Medium Confidence = "MEDIUM"
	Low    Confidence = "LOW"
)

// DataPoint is one source excerpt behind an insight.
type DataPoint struct {
	Text     string `json:"text"`
	SourceID string `json:"source_id"`
	URL      string `json:"url"`
	Author   string `json:"author"`
}

// Entry is one traced insight.
type Entry struct {
	ID           string      `json:"id"`
	Insight      string      `json:"insight"`
	SourceType   string      `json:"source_type"`
	SourceCount  int         `json:"source_count"`
	SourceIDs    []string    `json:"source_ids"`
	SamplePoints []DataPoint `json:"sample_data_points"`
	Confidence   Confidence  `json:"confidence"`
	Timestamp    time.Time   `json:"timestamp"`
}

// Trail is an append-only list of entries, safe for concurrent use.
type Trail struct {
	mu      sync.RWMutex
	entries []Entry
	now     func() time.Time
}

// NewTrail creates an empty trail stamped with time.Now.
func NewTrail() *Trail {
	return NewTrailWithClock(nil)
}

// NewTrailWithClock creates an empty trail stamped by now. A nil now uses
// time.Now.
func NewTrailWithClock(now func() time.Time) *Trail {
	if now == nil {
		now = time.Now
	}
	return &Trail{now: now}
}

// Add appends an entry. SourceCount is the full number of source IDs even
// though only the first MaxSourceIDs are kept.
func (t *Trail) Add(insight, sourceType string, sourceIDs []string, points []DataPoint, conf Confidence) Entry {
	e := Entry{
		ID:           uuid.NewString(),
		Insight:      insight,
		SourceType:   sourceType,
		SourceCount:  len(sourceIDs),
		SourceIDs:    head(sourceIDs, MaxSourceIDs),
		SamplePoints: head(points, MaxSamplePoints),
		Confidence:   conf,
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	e.Timestamp = t.now()
	t.entries = append(t.entries, e)
	return e
}

// Entries returns a copy of the trail in insertion order.
func (t *Trail) Entries() []Entry {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return append([]Entry(nil), t.entries...)
}

// Len returns the number of entries.
func (t *Trail) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.entries)
}

func head[T any](in []T, n int) []T {
	if len(in) > n {
		in = in[:n]
	}
	return append([]T(nil), in...)
}
