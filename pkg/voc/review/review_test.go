package review

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cognicore/voc/pkg/voc/audit"
	"github.com/cognicore/voc/pkg/voc/painpoint"
)

func TestMarginOfError(t *testing.T) {
	assert.Equal(t, "N/A (insufficient sample)", MarginOfError(29))
	assert.Equal(t, "±9.8%", MarginOfError(100))
	assert.Equal(t, "±17.9%", MarginOfError(30))
	assert.Equal(t, "±3.1%", MarginOfError(1000))
}

func TestDataScientist(t *testing.T) {
	got := DataScientist([]painpoint.PlatformResult{
		{Platform: "tiktok", TotalRecords: 10},
		{Platform: "instagram", TotalRecords: 30},
		{Platform: "reddit", TotalRecords: 100},
	})
	require.Len(t, got, 3)
	assert.Equal(t, audit.Low, got[0].Confidence)
	assert.Equal(t, "N/A (insufficient sample)", got[0].MarginOfError)
	assert.Equal(t, audit.Medium, got[1].Confidence)
	assert.Equal(t, audit.High, got[2].Confidence)
	assert.Contains(t, got[2].Note, "(100)")
}

func TestBehavior(t *testing.T) {
	tests := []struct {
		platform string
		segment  string
	}{
		{"Reddit", "Post-purchase / Post-attempt"},
		{"youtube_videos", "Decision-making stage"},
		{"youtube_comments", "Various stages"},
		{"TikTok", "Early awareness stage"},
		{"instagram_reels", "Interest and consideration"},
		{"amazon", "Various stages"},
	}
	for _, tt := range tests {
		t.Run(tt.platform, func(t *testing.T) {
			_, segment := Behavior(tt.platform)
			assert.Equal(t, tt.segment, segment)
		})
	}
}

func TestConsumerInsightsTopThree(t *testing.T) {
	res := painpoint.PlatformResult{
		Platform:     "reddit",
		TotalRecords: 50,
		PainPoints: []painpoint.PainPoint{
			{Name: "a"}, {Name: "b"}, {Name: "c"}, {Name: "d"},
		},
	}
	got := ConsumerInsights([]painpoint.PlatformResult{res, {Platform: "empty"}})
	require.Len(t, got, 2)
	assert.Equal(t, []string{"a", "b", "c"}, got[0].TopPainPoints)
	assert.Equal(t, 50, got[0].SampleSize)
	assert.Empty(t, got[1].TopPainPoints)
}

func TestDeveloper(t *testing.T) {
	got := Developer([]painpoint.PlatformResult{
		{Platform: "empty"},
		{
			Platform:     "reddit",
			TotalRecords: 5,
			PainPoints: []painpoint.PainPoint{
				{Name: "ok", Examples: []painpoint.Example{{SourceID: "1", URL: "u"}}},
				{Name: "untraced", Examples: []painpoint.Example{{SourceID: "2", URL: "u"}, {SourceID: "3"}, {}}},
			},
		},
	})
	require.Len(t, got, 2)

	assert.Equal(t, Fail, got[0].Completeness)
	assert.Equal(t, Pass, got[0].Traceability)
	assert.Equal(t, []string{"No records found", "No pain points extracted - check patterns"}, got[0].Issues)

	assert.Equal(t, Pass, got[1].Completeness)
	assert.Equal(t, Partial, got[1].Traceability)
	assert.Equal(t, []string{"untraced: Missing URL or source ID in examples"}, got[1].Issues)
}

func TestPanelRunIteration(t *testing.T) {
	p := NewPanel()
	results := []painpoint.PlatformResult{{Platform: "reddit", TotalRecords: 120}}
	for i := 1; i <= 3; i++ {
		it := p.RunIteration(results, i)
		assert.Equal(t, i, it.Iteration)
		assert.Len(t, it.DataScientist, 1)
		assert.Len(t, it.ConsumerInsights, 1)
		assert.Len(t, it.Developer, 1)
	}
	assert.Len(t, p.Iterations, 3)
}

func TestPanelClock(t *testing.T) {
	at := time.Date(2026, 5, 4, 9, 30, 0, 0, time.UTC)
	p := NewPanelWithClock(func() time.Time { return at })
	it := p.RunIteration(nil, 1)
	assert.Equal(t, at, it.Timestamp)
}
