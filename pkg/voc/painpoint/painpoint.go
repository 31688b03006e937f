// Package painpoint counts pain point mentions per platform and keeps
// traceable examples for every count.
package painpoint

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/cognicore/voc/pkg/voc/audit"
	"github.com/cognicore/voc/pkg/voc/corpus"
	"github.com/cognicore/voc/pkg/voc/patterns"
)

const (
	maxExamples     = 10
	maxExampleRunes = 200
)

// Field fallbacks used to trace an example back to its record.
var (
	SourceIDFields = []string{"video_id", "post_id", "post_url"}
	URLFields      = []string{"video_url", "url", "post_url"}
	AuthorFields   = []string{"author", "channel_name", "profile_username", "user_posted"}
)

// Example is a traced excerpt.
type Example = audit.DataPoint

// PainPoint is one category's result on a platform.
type PainPoint struct {
	Name       string    `json:"name"`
	Count      int       `json:"count"`
	Percentage float64   `json:"percentage"`
	Examples   []Example `json:"examples"`
}

// PlatformResult is the pain point breakdown for one platform.
type PlatformResult struct {
	Platform     string      `json:"platform"`
	TotalRecords int         `json:"total_records"`
	PainPoints   []PainPoint `json:"pain_points"`
}

// Lookup returns a pain point by name.
func (r PlatformResult) Lookup(name string) (PainPoint, bool) {
	for _, p := range r.PainPoints {
		if p.Name == name {
			return p, true
		}
	}
	return PainPoint{}, false
}

// Analyzer counts pain point presence.
type Analyzer struct {
	set   *patterns.Set
	trail *audit.Trail
}

// NewAnalyzer creates an analyzer. trail may be nil.
func NewAnalyzer(set *patterns.Set, trail *audit.Trail) *Analyzer {
	return &Analyzer{set: set, trail: trail}
}

// AnalyzeText lists the pain points present in text, each once.
func (a *Analyzer) AnalyzeText(text string) []string {
	return a.set.Present(text)
}

// AnalyzePlatform counts, per pain point, the records that mention it.
// Records without text still count toward the total. When fields is empty
// the record's Text is used.
func (a *Analyzer) AnalyzePlatform(records []corpus.Record, platform string, fields []string) PlatformResult {
	counts := make(map[string]int)
	examples := make(map[string][]Example)

	for _, r := range records {
		text := r.Text
		if len(fields) > 0 {
			text = r.TextFrom(fields...)
		}
		if text == "" {
			continue
		}
		for _, pain := range a.AnalyzeText(text) {
			counts[pain]++
			if len(examples[pain]) < maxExamples {
				examples[pain] = append(examples[pain], exampleOf(r, text))
			}
		}
	}

	total := len(records)
	res := PlatformResult{Platform: platform, TotalRecords: total}
	for name, n := range counts {
		pct := 0.0
		if total > 0 {
			pct = float64(n) / float64(total) * 100
		}
		res.PainPoints = append(res.PainPoints, PainPoint{
			Name:       name,
			Count:      n,
			Percentage: math.Round(pct*10) / 10,
			Examples:   examples[name],
		})
	}
	sort.Slice(res.PainPoints, func(i, j int) bool {
		pi, pj := res.PainPoints[i], res.PainPoints[j]
		if pi.Count != pj.Count {
			return pi.Count > pj.Count
		}
		return pi.Name < pj.Name
	})

	if a.trail != nil {
		for _, p := range res.PainPoints {
			ids := make([]string, len(p.Examples))
			for i, ex := range p.Examples {
				ids[i] = ex.SourceID
			}
			a.trail.Add(
				fmt.Sprintf("%s: %s mentioned in %.1f%% (%d/%d)", platform, p.Name, p.Percentage, p.Count, total),
				platform, ids, p.Examples, audit.High,
			)
		}
	}
	return res
}

func exampleOf(r corpus.Record, text string) Example {
	ex := Example{
		Text:     truncate(text, maxExampleRunes),
		SourceID: r.FirstField(SourceIDFields...),
		URL:      r.FirstField(URLFields...),
		Author:   r.FirstField(AuthorFields...),
	}
	if ex.SourceID == "" {
		ex.SourceID = r.ID
	}
	if ex.URL == "" {
		ex.URL = r.URL
	}
	if ex.Author == "" {
		ex.Author = r.Author
	}
	return ex
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return strings.TrimSpace(string(runes[:n]))
}
