// Package storetest holds behavior checks shared by every store.Store
// implementation.
package storetest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cognicore/voc/pkg/voc/internalerr"
	"github.com/cognicore/voc/pkg/voc/store"
)

var base = time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)

func run(id, kind string, day int, scores ...store.CategoryScore) store.Run {
	return store.Run{
		ID:        id,
		Kind:      kind,
		Label:     "run " + id,
		CreatedAt: base.Add(time.Duration(day) * 24 * time.Hour),
		TotalDocs: 100 + day,
		Scores:    scores,
	}
}

func score(cat string, share float64) store.CategoryScore {
	return store.CategoryScore{Category: cat, Count: int(share), Share: share, Satisfaction: 50}
}

// Run exercises st against the store.Store contract.
func Run(t *testing.T, st store.Store) {
	t.Helper()
	ctx := context.Background()

	t.Run("GetRunNotFound", func(t *testing.T) {
		_, err := st.GetRun(ctx, "missing")
		require.Error(t, err)
		assert.True(t, errors.Is(err, internalerr.ErrNotFound))
	})

	t.Run("SaveRunRequiresID", func(t *testing.T) {
		err := st.SaveRun(ctx, store.Run{Kind: store.KindBenefits})
		assert.True(t, errors.Is(err, internalerr.ErrInvalidInput))
	})

	require.NoError(t, st.SaveRun(ctx, run("01A", store.KindBenefits, 0, score("durability", 40), score("value", 10))))
	require.NoError(t, st.SaveRun(ctx, run("01C", store.KindBenefits, 2, score("durability", 30))))
	require.NoError(t, st.SaveRun(ctx, run("01B", store.KindBenefits, 1, score("value", 20), score("durability", 35))))
	require.NoError(t, st.SaveRun(ctx, run("01D", store.KindPainPoints, 3, score("wall_damage", 12.5))))

	t.Run("GetRun", func(t *testing.T) {
		r, err := st.GetRun(ctx, "01B")
		require.NoError(t, err)
		assert.Equal(t, store.KindBenefits, r.Kind)
		assert.Equal(t, "run 01B", r.Label)
		assert.Equal(t, 101, r.TotalDocs)
		assert.True(t, r.CreatedAt.Equal(base.Add(24*time.Hour)))
		require.Len(t, r.Scores, 2)
		assert.Equal(t, "durability", r.Scores[0].Category)
		assert.Equal(t, 35.0, r.Scores[0].Share)
	})

	t.Run("ListRunsNewestFirst", func(t *testing.T) {
		runs, err := st.ListRuns(ctx, store.KindBenefits, 0)
		require.NoError(t, err)
		require.Len(t, runs, 3)
		assert.Equal(t, []string{"01C", "01B", "01A"}, ids(runs))

		all, err := st.ListRuns(ctx, "", 2)
		require.NoError(t, err)
		assert.Equal(t, []string{"01D", "01C"}, ids(all))
	})

	t.Run("CategoryHistoryOldestFirst", func(t *testing.T) {
		pts, err := st.CategoryHistory(ctx, store.KindBenefits, "durability", 0)
		require.NoError(t, err)
		require.Len(t, pts, 3)
		assert.Equal(t, "01A", pts[0].RunID)
		assert.Equal(t, 40.0, pts[0].Share)
		assert.Equal(t, "01C", pts[2].RunID)

		latest, err := st.CategoryHistory(ctx, store.KindBenefits, "durability", 2)
		require.NoError(t, err)
		require.Len(t, latest, 2)
		assert.Equal(t, "01B", latest[0].RunID)
		assert.Equal(t, "01C", latest[1].RunID)

		none, err := st.CategoryHistory(ctx, store.KindPainPoints, "durability", 0)
		require.NoError(t, err)
		assert.Empty(t, none)
	})

	t.Run("SaveRunReplacesScores", func(t *testing.T) {
		r := run("01A", store.KindBenefits, 0, score("value", 11))
		require.NoError(t, st.SaveRun(ctx, r))
		got, err := st.GetRun(ctx, "01A")
		require.NoError(t, err)
		require.Len(t, got.Scores, 1)
		assert.Equal(t, "value", got.Scores[0].Category)
	})
}

func ids(runs []store.Run) []string {
	out := make([]string, len(runs))
	for i, r := range runs {
		out[i] = r.ID
	}
	return out
}
