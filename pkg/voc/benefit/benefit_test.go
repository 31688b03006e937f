package benefit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cognicore/voc/pkg/voc/patterns"
	"github.com/cognicore/voc/pkg/voc/sentiment"
)

func newAnalyzer(t *testing.T) *Analyzer {
	t.Helper()
	set, err := patterns.Compile(map[string][]string{
		"durability":        {`\bsturdy\b`, `\bdurable\b`},
		"easy_installation": {`easy\s+to\s+install`},
		"value":             {`good\s+value`},
	})
	require.NoError(t, err)
	lex := sentiment.NewLexicon([]string{"love", "great"}, []string{"broke", "waste"}, 20)
	return NewAnalyzer(set, lex)
}

func TestExtract(t *testing.T) {
	a := newAnalyzer(t)
	got := a.Extract("Sturdy and durable, love it. Easy to install.")

	require.Contains(t, got, "durability")
	assert.Equal(t, 2, got["durability"].Count)
	assert.Len(t, got["durability"].Sentiments, 2)
	assert.Equal(t, sentiment.Positive, got["durability"].Sentiments[0])
	assert.Equal(t, 1, got["easy_installation"].Count)
	assert.NotContains(t, got, "value")
}

func TestExtractUsesEachMatchPosition(t *testing.T) {
	a := newAnalyzer(t)
	text := "sturdy, love it ....................................... but later the second one broke, not sturdy"
	got := a.Extract(text)["durability"]
	require.Len(t, got.Sentiments, 2)
	assert.Equal(t, sentiment.Positive, got.Sentiments[0])
	assert.Equal(t, sentiment.Negative, got.Sentiments[1])
}

func TestAnalyzeCorpus(t *testing.T) {
	a := newAnalyzer(t)
	texts := []string{
		"sturdy sturdy sturdy, love it",
		"durable but it broke",
		"",
		"nothing relevant here",
	}
	scores := a.AnalyzeCorpus(texts, "reviews")
	require.Len(t, scores, 1)

	s := scores[0]
	assert.Equal(t, "durability", s.Benefit)
	assert.Equal(t, 4, s.TotalMentions)
	assert.Equal(t, 2, s.DocMentions)
	assert.Equal(t, 50.0, s.Importance) // 2 of 4 documents
	assert.Equal(t, 3, s.Positive)
	assert.Equal(t, 1, s.Negative)
	assert.Equal(t, 75.0, s.Satisfaction)
	assert.Equal(t, []string{"reviews"}, s.Sources)
}

func TestAnalyzeCorpusImportanceBounded(t *testing.T) {
	a := newAnalyzer(t)
	scores := a.AnalyzeCorpus([]string{"sturdy sturdy sturdy durable durable"}, "")
	require.Len(t, scores, 1)
	assert.Equal(t, 100.0, scores[0].Importance)
	assert.Nil(t, scores[0].Sources)
}

func TestAnalyzeCorpusEmpty(t *testing.T) {
	a := newAnalyzer(t)
	assert.Empty(t, a.AnalyzeCorpus(nil, "x"))
	assert.Empty(t, a.AnalyzeCorpus([]string{"", "  "}, "x"))
}

func TestAnalyzeCorpusSortsByImportanceThenName(t *testing.T) {
	a := newAnalyzer(t)
	scores := a.AnalyzeCorpus([]string{"good value", "sturdy", "easy to install, sturdy"}, "")
	require.Len(t, scores, 3)
	assert.Equal(t, "durability", scores[0].Benefit)
	assert.Equal(t, "easy_installation", scores[1].Benefit)
	assert.Equal(t, "value", scores[2].Benefit)
	assert.Equal(t, 33.33, scores[1].Importance)
}

func TestCombine(t *testing.T) {
	reddit := []Score{
		{Benefit: "durability", Importance: 40, Satisfaction: 80, TotalMentions: 10, Positive: 8, Sources: []string{"reddit"}},
		{Benefit: "value", Importance: 10, Satisfaction: 50, TotalMentions: 2, Sources: []string{"reddit"}},
	}
	youtube := []Score{
		{Benefit: "durability", Importance: 20, Satisfaction: 61, TotalMentions: 5, Positive: 3, Sources: []string{"youtube"}},
	}
	got := Combine([][]Score{reddit, youtube})
	require.Len(t, got, 2)

	d := got[0]
	assert.Equal(t, "durability", d.Benefit)
	assert.Equal(t, 30.0, d.Importance)
	assert.Equal(t, 70.5, d.Satisfaction)
	assert.Equal(t, 15, d.TotalMentions)
	assert.Equal(t, 11, d.Positive)
	assert.Equal(t, []string{"reddit", "youtube"}, d.Sources)

	v, ok := Lookup(got, "value")
	require.True(t, ok)
	assert.Equal(t, 10.0, v.Importance)
	_, ok = Lookup(got, "missing")
	assert.False(t, ok)
}

func TestItems(t *testing.T) {
	items := Items([]Score{{Benefit: "a", Importance: 1, Satisfaction: 2}})
	require.Len(t, items, 1)
	assert.Equal(t, "a", items[0].Name)
	assert.Equal(t, 2.0, items[0].Satisfaction)
}
