// Package benefit scores how often customers mention product benefits and
// how they feel about them.
package benefit

import (
	"math"
	"sort"
	"strings"

	"github.com/cognicore/voc/pkg/voc/patterns"
	"github.com/cognicore/voc/pkg/voc/priority"
	"github.com/cognicore/voc/pkg/voc/sentiment"
)

// neutralSatisfaction is used when a benefit has no rated mentions.
const neutralSatisfaction = 50.0

// Mention is what one text says about one benefit.
type Mention struct {
	Count      int
	Sentiments []sentiment.Polarity
}

// Score is a benefit's standing in a corpus.
type Score struct {
	Benefit       string   `json:"benefit"`
	Importance    float64  `json:"importance"`
	Satisfaction  float64  `json:"satisfaction"`
	TotalMentions int      `json:"total_mentions"`
	DocMentions   int      `json:"doc_mentions"`
	Positive      int      `json:"positive_mentions"`
	Negative      int      `json:"negative_mentions"`
	Neutral       int      `json:"neutral_mentions"`
	Sources       []string `json:"sources,omitempty"`
}

// Analyzer extracts and scores benefits.
type Analyzer struct {
	set *patterns.Set
	lex *sentiment.Lexicon
}

// NewAnalyzer creates an analyzer over a benefit dictionary.
func NewAnalyzer(set *patterns.Set, lex *sentiment.Lexicon) *Analyzer {
	return &Analyzer{set: set, lex: lex}
}

// Extract finds every benefit mention in text and rates the sentiment
// around each match.
func (a *Analyzer) Extract(text string) map[string]Mention {
	out := make(map[string]Mention)
	for name, hits := range patterns.Group(a.set.FindAll(text)) {
		m := Mention{Count: len(hits), Sentiments: make([]sentiment.Polarity, 0, len(hits))}
		for _, h := range hits {
			m.Sentiments = append(m.Sentiments, a.lex.Classify(text, h.Start, h.End))
		}
		out[name] = m
	}
	return out
}

// AnalyzeCorpus scores every benefit mentioned in texts. Blank texts are not
// scanned but still count toward the document total.
func (a *Analyzer) AnalyzeCorpus(texts []string, source string) []Score {
	acc := make(map[string]*Score)
	for _, text := range texts {
		if strings.TrimSpace(text) == "" {
			continue
		}
		for name, m := range a.Extract(text) {
			s, ok := acc[name]
			if !ok {
				s = &Score{Benefit: name}
				acc[name] = s
			}
			s.TotalMentions += m.Count
			s.DocMentions++
			for _, p := range m.Sentiments {
				switch p {
				case sentiment.Positive:
					s.Positive++
				case sentiment.Negative:
					s.Negative++
				default:
					s.Neutral++
				}
			}
		}
	}

	total := len(texts)
	out := make([]Score, 0, len(acc))
	for _, s := range acc {
		if total > 0 {
			s.Importance = round2(float64(s.DocMentions) / float64(total) * 100)
		}
		rated := s.Positive + s.Negative + s.Neutral
		if rated > 0 {
			s.Satisfaction = round2(float64(s.Positive) / float64(rated) * 100)
		} else {
			s.Satisfaction = neutralSatisfaction
		}
		if source != "" {
			s.Sources = []string{source}
		}
		out = append(out, *s)
	}
	sortScores(out)
	return out
}

// Combine merges per-source scores. Importance and satisfaction are
// averaged over the sources that mention a benefit; counts are summed.
func Combine(perSource [][]Score) []Score {
	type sum struct {
		score   Score
		imp     float64
		sat     float64
		sources int
	}
	acc := make(map[string]*sum)
	for _, scores := range perSource {
		for _, s := range scores {
			a, ok := acc[s.Benefit]
			if !ok {
				a = &sum{score: Score{Benefit: s.Benefit}}
				acc[s.Benefit] = a
			}
			a.imp += s.Importance
			a.sat += s.Satisfaction
			a.sources++
			a.score.TotalMentions += s.TotalMentions
			a.score.DocMentions += s.DocMentions
			a.score.Positive += s.Positive
			a.score.Negative += s.Negative
			a.score.Neutral += s.Neutral
			a.score.Sources = append(a.score.Sources, s.Sources...)
		}
	}

	out := make([]Score, 0, len(acc))
	for _, a := range acc {
		a.score.Importance = round2(a.imp / float64(a.sources))
		a.score.Satisfaction = round2(a.sat / float64(a.sources))
		out = append(out, a.score)
	}
	sortScores(out)
	return out
}

// Items converts scores for the importance x satisfaction matrix.
func Items(scores []Score) []priority.Item {
	out := make([]priority.Item, len(scores))
	for i, s := range scores {
		out[i] = priority.Item{Name: s.Benefit, Importance: s.Importance, Satisfaction: s.Satisfaction}
	}
	return out
}

// Lookup returns the score for a benefit.
func Lookup(scores []Score, name string) (Score, bool) {
	for _, s := range scores {
		if s.Benefit == name {
			return s, true
		}
	}
	return Score{}, false
}

func sortScores(s []Score) {
	sort.Slice(s, func(i, j int) bool {
		if s[i].Importance != s[j].Importance {
			return s[i].Importance > s[j].Importance
		}
		return s[i].Benefit < s[j].Benefit
	})
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
