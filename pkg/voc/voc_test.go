package voc

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/cognicore/voc/pkg/voc/config"
	"github.com/cognicore/voc/pkg/voc/corpus"
	"github.com/cognicore/voc/pkg/voc/internalerr"
	"github.com/cognicore/voc/pkg/voc/store"
	"github.com/cognicore/voc/pkg/voc/store/memstore"
	"github.com/cognicore/voc/pkg/voc/theme"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func source(name string, texts ...string) corpus.Source {
	records := make([]corpus.Record, len(texts))
	for i, text := range texts {
		records[i] = corpus.Record{
			ID:     name + "-" + string(rune('a'+i)),
			Source: name,
			Text:   text,
			URL:    "https://example.com/" + name,
		}
	}
	return corpus.Source{
		Spec:     corpus.SourceSpec{Name: name},
		Records:  records,
		Manifest: corpus.BuildManifest(name, records),
	}
}

var testEpoch = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func newEngine(t *testing.T) (*Engine, *memstore.Store) {
	t.Helper()
	st := memstore.New()
	var mu sync.Mutex
	clock := testEpoch
	eng, err := New(Options{
		Store: st,
		Now: func() time.Time {
			mu.Lock()
			defer mu.Unlock()
			clock = clock.Add(time.Minute)
			return clock
		},
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = eng.Close() })
	return eng, st
}

func TestBenefitsCombinesSourcesAndSavesRun(t *testing.T) {
	eng, st := newEngine(t)
	ctx := context.Background()

	sources := []corpus.Source{
		source("reddit", "These hooks are sturdy and I love them", "Nothing to say here", ""),
		source("youtube", "A sturdy rack, excellent value"),
	}
	rpt, err := eng.Benefits(ctx, sources, "march")
	require.NoError(t, err)

	require.Len(t, rpt.Sources, 2)
	assert.Equal(t, "reddit", rpt.Sources[0].Source)
	assert.Equal(t, "youtube", rpt.Sources[1].Source)

	var durability bool
	for _, s := range rpt.Combined {
		if s.Benefit == "durability" {
			durability = true
			assert.ElementsMatch(t, []string{"reddit", "youtube"}, s.Sources)
			// 1 of 3 documents on reddit, 1 of 1 on youtube
			assert.InDelta(t, (33.33+100)/2, s.Importance, 0.01)
		}
	}
	require.True(t, durability, "durability not scored: %+v", rpt.Combined)
	assert.Equal(t, len(rpt.Combined), rpt.Matrix.Summary.Total)

	require.NotEmpty(t, rpt.RunID)
	run, err := st.GetRun(ctx, rpt.RunID)
	require.NoError(t, err)
	assert.Equal(t, store.KindBenefits, run.Kind)
	assert.Equal(t, "march", run.Label)
	assert.Equal(t, 4, run.TotalDocs)
	assert.Len(t, run.Scores, len(rpt.Combined))
}

func TestPainPointsRunsReview(t *testing.T) {
	eng, st := newEngine(t)
	ctx := context.Background()

	sources := []corpus.Source{
		source("amazon", "The hook fell off after a day", "Works fine", "It came off the tile"),
		source("tiktok", "Fell off twice"),
	}
	rpt, err := eng.PainPoints(ctx, sources, "")
	require.NoError(t, err)

	require.Len(t, rpt.Platforms, 2)
	amazon := rpt.Platforms[0]
	assert.Equal(t, "amazon", amazon.Platform)
	assert.Equal(t, 3, amazon.TotalRecords)
	fail, ok := amazon.Lookup("adhesive_failure")
	require.True(t, ok)
	assert.Equal(t, 2, fail.Count)
	assert.InDelta(t, 66.7, fail.Percentage, 0.001)

	assert.Len(t, rpt.Manifests, 2)
	assert.NotEmpty(t, rpt.Audit)
	assert.Equal(t, "amazon", rpt.Audit[0].SourceType)
	for _, entry := range rpt.Audit {
		assert.True(t, entry.Timestamp.After(testEpoch), "audit entry stamped %v", entry.Timestamp)
		assert.False(t, entry.Timestamp.After(testEpoch.Add(time.Hour)), "audit entry stamped %v", entry.Timestamp)
	}

	assert.Equal(t, 1, rpt.Review.Iteration)
	assert.True(t, rpt.Review.Timestamp.After(testEpoch), "review stamped %v", rpt.Review.Timestamp)
	require.Len(t, rpt.Review.DataScientist, 2)

	again, err := eng.PainPoints(ctx, sources, "")
	require.NoError(t, err)
	assert.Equal(t, 2, again.Review.Iteration)

	runs, err := st.ListRuns(ctx, store.KindPainPoints, 0)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, again.RunID, runs[0].ID)

	points, err := eng.History(ctx, store.KindPainPoints, "adhesive_failure", 0)
	require.NoError(t, err)
	require.Len(t, points, 2)
	assert.Equal(t, 3, points[0].Count)
	assert.InDelta(t, 75.0, points[0].Share, 0.001)
}

func TestLadderAttributesParticipants(t *testing.T) {
	eng, _ := newEngine(t)
	src := corpus.Source{
		Spec: corpus.SourceSpec{Name: "interviews"},
		Records: []corpus.Record{
			{ID: "1", Source: "interviews", Participant: "p01", Text: "I wanted a light I could put up without wiring anything."},
			{ID: "2", Source: "interviews", Author: "sam", Text: "It is battery powered, so no electrician."},
		},
	}
	rpt, err := eng.Ladder(context.Background(), []corpus.Source{src}, "round 1")
	require.NoError(t, err)

	assert.Equal(t, 2, rpt.TotalDocs)
	assert.Equal(t, 2, rpt.Participants)
	require.NotEmpty(t, rpt.Jobs)
	assert.Equal(t, "Install lighting without electrical work", rpt.Jobs[0].Name)
	assert.Equal(t, 2, rpt.Jobs[0].Count)
	assert.NotEmpty(t, rpt.RunID)
	assert.Equal(t, "round 1", rpt.Label)
}

func TestThemesSavesRun(t *testing.T) {
	eng, st := newEngine(t)
	ctx := context.Background()

	src := corpus.Source{
		Spec: corpus.SourceSpec{Name: "reddit"},
		Records: []corpus.Record{
			{
				ID: "d1", Source: "reddit", Title: "Strip keeps falling", Group: "led",
				URL:  "https://reddit.com/d1",
				Text: "Strip keeps falling Adhesive gave up. I recommend 3M VHB.",
				Comments: []corpus.Comment{
					{ID: "c1", Author: "sparky", Body: "I recommend 3M VHB.", Score: 75},
					{ID: "c2", Author: "diyer", Body: "Clean first.", Score: 30},
				},
			},
			{ID: "d2", Source: "reddit", Title: "Zigbee?", Text: "Zigbee? Works with Home Assistant"},
		},
	}
	src.Manifest = corpus.BuildManifest("reddit", src.Records)

	rpt, err := eng.Themes(ctx, []corpus.Source{src}, "week 12", theme.Thresholds{})
	require.NoError(t, err)

	assert.Equal(t, 2, rpt.Stats.TotalDiscussions)
	assert.Equal(t, 4, rpt.Stats.TotalCitations)
	require.Len(t, rpt.Consensus, 1)
	assert.Equal(t, "https://reddit.com/d1/comments/c1", rpt.Consensus[0].URL)
	require.Len(t, rpt.Controversies, 1)
	assert.Len(t, rpt.Manifests, 1)

	var smart bool
	for _, th := range rpt.Themes {
		if th.Theme == "Smart Home Integration" {
			smart = true
			assert.Equal(t, theme.Opportunity, th.Category)
		}
	}
	assert.True(t, smart, "smart home theme missing: %+v", rpt.Themes)

	run, err := st.GetRun(ctx, rpt.RunID)
	require.NoError(t, err)
	assert.Equal(t, store.KindThemes, run.Kind)
	assert.Len(t, run.Scores, len(rpt.Themes))
}

func TestThemesWithoutDictionary(t *testing.T) {
	eng, err := New(Options{Components: &config.Components{}})
	require.NoError(t, err)
	_, err = eng.Themes(context.Background(), []corpus.Source{source("a", "tape")}, "", theme.Thresholds{})
	assert.ErrorIs(t, err, internalerr.ErrInvalidConfig)
}

func TestPhrases(t *testing.T) {
	eng, _ := newEngine(t)
	src := source("reviews",
		"sturdy shelf bracket, very sturdy",
		"the shelf bracket wobbles",
		"shelf bracket arrived late",
		"",
	)
	rpt, err := eng.Phrases(context.Background(), []corpus.Source{src}, PhraseOptions{Limit: 5})
	require.NoError(t, err)

	assert.EqualValues(t, 3, rpt.TotalDocs)
	assert.EqualValues(t, 2, rpt.Uncovered)
	require.NotEmpty(t, rpt.Bigrams)
	assert.Equal(t, "shelf bracket", rpt.Bigrams[0].Text)
	assert.EqualValues(t, 3, rpt.Bigrams[0].Count)
	assert.LessOrEqual(t, len(rpt.Trigrams), 5)
	// the built-in benefit dictionary is far larger than this corpus
	assert.NotEmpty(t, rpt.Unused)
}

func TestNoSources(t *testing.T) {
	eng, _ := newEngine(t)
	_, err := eng.Benefits(context.Background(), nil, "")
	assert.True(t, errors.Is(err, internalerr.ErrInvalidInput))
}

func TestCanceledContext(t *testing.T) {
	eng, _ := newEngine(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := eng.Ladder(ctx, []corpus.Source{source("x", "text")}, "")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRunsWithoutStore(t *testing.T) {
	eng, err := New(Options{})
	require.NoError(t, err)

	rpt, err := eng.Benefits(context.Background(), []corpus.Source{source("a", "sturdy")}, "")
	require.NoError(t, err)
	assert.Empty(t, rpt.RunID)

	_, err = eng.Runs(context.Background(), "", 0)
	assert.ErrorIs(t, err, internalerr.ErrStoreUnavailable)
}
