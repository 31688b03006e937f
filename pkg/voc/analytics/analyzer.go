// Package analytics aggregates corpus statistics that complement the
// pattern dictionaries: recurring phrases, category co-occurrence and the
// vocabulary of documents no category caught.
package analytics

import (
	"math"
	"sort"

	"github.com/cognicore/voc/pkg/voc/ingest"
	"github.com/cognicore/voc/pkg/voc/pmi"
)

// Phrase lengths tracked by the analyzer.
const (
	MinPhraseLen = 2
	MaxPhraseLen = 3
)

// Analyzer aggregates document-level token and category stats. It is not
// safe for concurrent use.
type Analyzer struct {
	totalDocs     int64
	tokenDF       map[string]int64
	tokenCats     map[string]map[string]int64
	phraseCounts  map[int]map[string]int64 // occurrences per phrase length
	phraseDF      map[int]map[string]int64
	categories    *pmi.Counter
	uncoveredDocs int64
	uncoveredDF   map[string]int64
}

// NewAnalyzer creates an empty analyzer.
func NewAnalyzer() *Analyzer {
	a := &Analyzer{
		tokenDF:      make(map[string]int64),
		tokenCats:    make(map[string]map[string]int64),
		phraseCounts: make(map[int]map[string]int64),
		phraseDF:     make(map[int]map[string]int64),
		categories:   pmi.NewCounter(),
		uncoveredDF:  make(map[string]int64),
	}
	for n := MinPhraseLen; n <= MaxPhraseLen; n++ {
		a.phraseCounts[n] = make(map[string]int64)
		a.phraseDF[n] = make(map[string]int64)
	}
	return a
}

// Process consumes one document's tokens and the categories it matched.
func (a *Analyzer) Process(tokens []string, categories []string) {
	a.totalDocs++
	a.categories.Add(categories)

	covered := false
	for _, c := range categories {
		if c != "" {
			covered = true
			break
		}
	}
	if !covered {
		a.uncoveredDocs++
	}

	seen := make(map[string]struct{}, len(tokens))
	for _, tok := range tokens {
		if tok == "" {
			continue
		}
		if _, ok := seen[tok]; ok {
			continue
		}
		seen[tok] = struct{}{}
		a.tokenDF[tok]++
		if !covered {
			a.uncoveredDF[tok]++
		}
		for _, cat := range categories {
			if cat == "" {
				continue
			}
			if a.tokenCats[tok] == nil {
				a.tokenCats[tok] = make(map[string]int64)
			}
			a.tokenCats[tok][cat]++
		}
	}

	for n := MinPhraseLen; n <= MaxPhraseLen; n++ {
		docSeen := make(map[string]struct{})
		for _, p := range ingest.NGrams(tokens, n) {
			a.phraseCounts[n][p]++
			if _, ok := docSeen[p]; !ok {
				docSeen[p] = struct{}{}
				a.phraseDF[n][p]++
			}
		}
	}
}

// Stats exposes the aggregated counts.
type Stats struct {
	TotalDocs     int64
	TokenDF       map[string]int64
	TokenCats     map[string]map[string]int64
	PhraseCounts  map[int]map[string]int64
	PhraseDF      map[int]map[string]int64
	Categories    *pmi.Counter
	UncoveredDocs int64
	UncoveredDF   map[string]int64
}

// Snapshot returns a copy of the accumulated statistics.
func (a *Analyzer) Snapshot() Stats {
	cats := make(map[string]map[string]int64, len(a.tokenCats))
	for tok, m := range a.tokenCats {
		cats[tok] = copyCounts(m)
	}
	phrases := make(map[int]map[string]int64, len(a.phraseCounts))
	phraseDF := make(map[int]map[string]int64, len(a.phraseDF))
	for n := range a.phraseCounts {
		phrases[n] = copyCounts(a.phraseCounts[n])
		phraseDF[n] = copyCounts(a.phraseDF[n])
	}
	return Stats{
		TotalDocs:     a.totalDocs,
		TokenDF:       copyCounts(a.tokenDF),
		TokenCats:     cats,
		PhraseCounts:  phrases,
		PhraseDF:      phraseDF,
		Categories:    a.categories.Clone(),
		UncoveredDocs: a.uncoveredDocs,
		UncoveredDF:   copyCounts(a.uncoveredDF),
	}
}

func copyCounts(in map[string]int64) map[string]int64 {
	out := make(map[string]int64, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

// Phrase is a recurring n-token sequence.
type Phrase struct {
	Text  string `json:"phrase"`
	N     int    `json:"n"`
	Count int64  `json:"count"`
	DF    int64  `json:"doc_freq"`
}

// TopPhrases returns the most frequent phrases of length n, by occurrence
// count then text. limit <= 0 returns all.
func (s Stats) TopPhrases(n, limit int) []Phrase {
	counts := s.PhraseCounts[n]
	out := make([]Phrase, 0, len(counts))
	for text, c := range counts {
		out = append(out, Phrase{Text: text, N: n, Count: c, DF: s.PhraseDF[n][text]})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Text < out[j].Text
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// CategoryPair is the co-occurrence of two categories across documents.
type CategoryPair struct {
	A       string  `json:"a"`
	B       string  `json:"b"`
	Support int64   `json:"support"`
	PMI     float64 `json:"pmi"`
	NPMI    float64 `json:"npmi"`
}

// CategoryPairs returns category pairs seen together in at least
// minSupport documents, strongest association first.
func (s Stats) CategoryPairs(minSupport int64) []CategoryPair {
	if s.Categories == nil || s.TotalDocs == 0 {
		return nil
	}
	calc := pmi.NewCalculator(1)
	var out []CategoryPair
	for p, n := range s.Categories.Joint {
		if n < minSupport {
			continue
		}
		dfA, dfB := s.Categories.DF[p.A], s.Categories.DF[p.B]
		out = append(out, CategoryPair{
			A:       p.A,
			B:       p.B,
			Support: n,
			PMI:     calc.PMI(n, dfA, dfB, s.TotalDocs),
			NPMI:    calc.NPMI(n, dfA, dfB, s.TotalDocs),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].NPMI != out[j].NPMI {
			return out[i].NPMI > out[j].NPMI
		}
		if out[i].Support != out[j].Support {
			return out[i].Support > out[j].Support
		}
		if out[i].A != out[j].A {
			return out[i].A < out[j].A
		}
		return out[i].B < out[j].B
	})
	return out
}

// CategoryDF returns how many documents matched each category.
func (s Stats) CategoryDF() map[string]int64 {
	if s.Categories == nil {
		return nil
	}
	return copyCounts(s.Categories.DF)
}

// TokenStat describes a token's spread.
type TokenStat struct {
	Token      string  `json:"token"`
	DF         int64   `json:"doc_freq"`
	DFPercent  float64 `json:"doc_percent"`
	CatEntropy float64 `json:"category_entropy"`
}

// Uncovered lists tokens found in at least minDFPercent of the documents
// that matched no category. These are candidate vocabulary for new
// pattern dictionary entries.
func (s Stats) Uncovered(minDFPercent float64, limit int) []TokenStat {
	if s.UncoveredDocs == 0 {
		return nil
	}
	var out []TokenStat
	for tok, df := range s.UncoveredDF {
		pct := 100 * float64(df) / float64(s.UncoveredDocs)
		if pct < minDFPercent {
			continue
		}
		out = append(out, TokenStat{
			Token:      tok,
			DF:         df,
			DFPercent:  math.Round(pct*10) / 10,
			CatEntropy: entropy(s.TokenCats[tok]),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].DF != out[j].DF {
			return out[i].DF > out[j].DF
		}
		return out[i].Token < out[j].Token
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// entropy is the normalized category entropy of a token; spread-out tokens
// score near 1.
func entropy(counts map[string]int64) float64 {
	if len(counts) == 0 {
		return 0
	}
	var total float64
	for _, c := range counts {
		total += float64(c)
	}
	if total == 0 {
		return 0
	}
	var h float64
	for _, c := range counts {
		p := float64(c) / total
		if p > 0 {
			h -= p * math.Log2(p)
		}
	}
	return h / math.Log2(float64(len(counts))+1)
}
