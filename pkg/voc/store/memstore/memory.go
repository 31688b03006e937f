package memstore

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/cognicore/voc/pkg/voc/internalerr"
	"github.com/cognicore/voc/pkg/voc/store"
)

// Store is an in-memory implementation of store.Store for tests and
// one-shot CLI runs.
type Store struct {
	mu   sync.RWMutex
	runs map[string]store.Run
}

// New creates a new in-memory store.
func New() *Store {
	return &Store{runs: make(map[string]store.Run)}
}

// Close implements store.Store.
func (s *Store) Close() error { return nil }

// SaveRun implements store.Store.
func (s *Store) SaveRun(ctx context.Context, r store.Run) error {
	if r.ID == "" || r.Kind == "" {
		return fmt.Errorf("%w: run needs an id and a kind", internalerr.ErrInvalidInput)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runs[r.ID] = cloneRun(r)
	return nil
}

// GetRun implements store.Store.
func (s *Store) GetRun(ctx context.Context, id string) (store.Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.runs[id]
	if !ok {
		return store.Run{}, fmt.Errorf("run %s: %w", id, internalerr.ErrNotFound)
	}
	return cloneRun(r), nil
}

// ListRuns implements store.Store.
func (s *Store) ListRuns(ctx context.Context, kind string, limit int) ([]store.Run, error) {
	if limit <= 0 {
		limit = store.DefaultLimit
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	runs := s.sorted(kind)
	if len(runs) > limit {
		runs = runs[:limit]
	}
	for i := range runs {
		runs[i] = cloneRun(runs[i])
	}
	return runs, nil
}

// CategoryHistory implements store.Store.
func (s *Store) CategoryHistory(ctx context.Context, kind, category string, limit int) ([]store.Point, error) {
	if kind == "" {
		return nil, nil
	}
	if limit <= 0 {
		limit = store.DefaultLimit
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	var points []store.Point
	for _, r := range s.sorted(kind) {
		for _, sc := range r.Scores {
			if sc.Category == category {
				points = append(points, store.Point{
					RunID:         r.ID,
					Label:         r.Label,
					CreatedAt:     r.CreatedAt,
					CategoryScore: sc,
				})
				break
			}
		}
		if len(points) == limit {
			break
		}
	}
	for i, j := 0, len(points)-1; i < j; i, j = i+1, j-1 {
		points[i], points[j] = points[j], points[i]
	}
	return points, nil
}

// sorted returns runs of kind newest first. Caller holds the lock.
func (s *Store) sorted(kind string) []store.Run {
	var out []store.Run
	for _, r := range s.runs {
		if kind == "" || r.Kind == kind {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out
}

func cloneRun(r store.Run) store.Run {
	out := r
	out.Scores = append([]store.CategoryScore(nil), r.Scores...)
	sort.SliceStable(out.Scores, func(i, j int) bool {
		if out.Scores[i].Share != out.Scores[j].Share {
			return out.Scores[i].Share > out.Scores[j].Share
		}
		return out.Scores[i].Category < out.Scores[j].Category
	})
	return out
}
