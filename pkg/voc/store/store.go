package store

import (
	"context"
	"time"
)

// DefaultLimit caps listings when the caller passes limit <= 0.
const DefaultLimit = 20

// Store persists analysis runs so category scores can be compared over time.
type Store interface {
	Close() error

	// SaveRun inserts or replaces a run and its scores.
	SaveRun(ctx context.Context, r Run) error
	// GetRun returns internalerr.ErrNotFound for an unknown id.
	GetRun(ctx context.Context, id string) (Run, error)
	// ListRuns returns runs newest first. An empty kind lists every kind.
	ListRuns(ctx context.Context, kind string, limit int) ([]Run, error)
	// CategoryHistory returns the latest limit scores of a category,
	// oldest first.
	CategoryHistory(ctx context.Context, kind, category string, limit int) ([]Point, error)
}

// Run kinds.
const (
	KindBenefits   = "benefits"
	KindPainPoints = "painpoints"
	KindLadder     = "ladder"
	KindThemes     = "themes"
)

// Run is one persisted analysis.
type Run struct {
	ID        string // ULID
	Kind      string
	Label     string
	CreatedAt time.Time
	TotalDocs int
	Scores    []CategoryScore
}

// CategoryScore is one category's result in a run. Share is importance for
// benefits and percentage of records for pain points.
type CategoryScore struct {
	Category     string
	Count        int
	Share        float64
	Satisfaction float64
}

// Point is a category score placed in time.
type Point struct {
	RunID     string
	Label     string
	CreatedAt time.Time
	CategoryScore
}
