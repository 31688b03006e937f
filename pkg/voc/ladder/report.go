package ladder

import (
	"sort"
	"strings"

	"github.com/cognicore/voc/pkg/voc/priority"
)

const (
	topJobs         = 8
	topAspirations  = 5
	relatedPerJob   = 3
	evidencePerItem = 3
)

// Quote is one excerpt of evidence.
type Quote struct {
	Text        string `json:"text"`
	Participant string `json:"participant"`
}

// JobSummary aggregates one job.
type JobSummary struct {
	Name     string    `json:"name"`
	Count    int       `json:"count"`
	Evidence []Quote   `json:"evidence"`
	Related  []Related `json:"related_problems"`
}

// Related is a problem linked to a job by shared keywords.
type Related struct {
	Problem string `json:"problem"`
	Matches int    `json:"keyword_matches"`
	Count   int    `json:"count"`
}

// ProblemSummary aggregates one problem.
type ProblemSummary struct {
	Name         string         `json:"name"`
	Count        int            `json:"count"`
	Pain         priority.Level `json:"pain_level"`
	Satisfaction priority.Level `json:"solution_satisfaction"`
	Evidence     []Quote        `json:"evidence"`
}

// AspirationSummary aggregates one aspiration.
type AspirationSummary struct {
	Name     string  `json:"name"`
	Count    int     `json:"count"`
	Evidence []Quote `json:"evidence"`
}

// Report is the aggregated ladder.
type Report struct {
	TotalDocs    int                                      `json:"total_docs"`
	Participants int                                      `json:"participants"`
	Jobs         []JobSummary                             `json:"jobs"`
	Problems     []ProblemSummary                         `json:"problems"`
	Aspirations  []AspirationSummary                      `json:"aspirations"`
	Matrix       map[priority.Quadrant][]priority.Problem `json:"matrix"`
}

// Problem returns the aggregate for a problem name.
func (r Report) Problem(name string) (ProblemSummary, bool) {
	for _, p := range r.Problems {
		if p.Name == name {
			return p, true
		}
	}
	return ProblemSummary{}, false
}

// Report aggregates everything processed so far.
func (e *Extractor) Report(totalDocs int) Report {
	problems := e.aggregateProblems()

	rpt := Report{
		TotalDocs:    totalDocs,
		Participants: e.Participants(),
		Problems:     problems,
	}

	for _, g := range top(groupHits(e.jobs), topJobs) {
		rpt.Jobs = append(rpt.Jobs, JobSummary{
			Name:     g.name,
			Count:    len(g.hits),
			Evidence: quotes(g.hits),
			Related:  relatedProblems(e.keywordsFor(g.name), problems),
		})
	}

	for _, g := range top(groupHits(e.aspirations), topAspirations) {
		rpt.Aspirations = append(rpt.Aspirations, AspirationSummary{
			Name:     g.name,
			Count:    len(g.hits),
			Evidence: quotes(g.hits),
		})
	}

	rated := make([]priority.Problem, 0, len(problems))
	for _, p := range problems {
		rated = append(rated, priority.Problem{
			Name:         p.Name,
			Pain:         p.Pain,
			Satisfaction: p.Satisfaction,
			Count:        p.Count,
		})
	}
	rpt.Matrix = priority.PainSatisfaction(rated)

	return rpt
}

func (e *Extractor) aggregateProblems() []ProblemSummary {
	groups := groupHits(e.problems)
	out := make([]ProblemSummary, 0, len(groups))
	for _, g := range groups {
		first := g.hits[0]
		out = append(out, ProblemSummary{
			Name:         g.name,
			Count:        len(g.hits),
			Pain:         first.Pain,
			Satisfaction: first.Satisfaction,
			Evidence:     quotes(g.hits),
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Name < out[j].Name
	})
	return out
}

func (e *Extractor) keywordsFor(job string) []string {
	for _, r := range e.rules.Jobs {
		if r.Name == job {
			return r.Keywords
		}
	}
	return nil
}

func relatedProblems(keywords []string, problems []ProblemSummary) []Related {
	if len(keywords) == 0 {
		return nil
	}
	var out []Related
	for _, p := range problems {
		name := strings.ToLower(p.Name)
		matches := 0
		for _, kw := range keywords {
			if kw != "" && strings.Contains(name, strings.ToLower(kw)) {
				matches++
			}
		}
		if matches > 0 {
			out = append(out, Related{Problem: p.Name, Matches: matches, Count: p.Count})
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Matches != out[j].Matches {
			return out[i].Matches > out[j].Matches
		}
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Problem < out[j].Problem
	})
	if len(out) > relatedPerJob {
		out = out[:relatedPerJob]
	}
	return out
}

type group struct {
	name string
	hits []Hit
}

// groupHits groups by name keeping first-seen order of hits.
func groupHits(hits []Hit) []group {
	idx := make(map[string]int)
	var out []group
	for _, h := range hits {
		i, ok := idx[h.Name]
		if !ok {
			i = len(out)
			idx[h.Name] = i
			out = append(out, group{name: h.Name})
		}
		out[i].hits = append(out[i].hits, h)
	}
	return out
}

func top(groups []group, n int) []group {
	sort.SliceStable(groups, func(i, j int) bool {
		if len(groups[i].hits) != len(groups[j].hits) {
			return len(groups[i].hits) > len(groups[j].hits)
		}
		return groups[i].name < groups[j].name
	})
	if len(groups) > n {
		groups = groups[:n]
	}
	return groups
}

func quotes(hits []Hit) []Quote {
	n := len(hits)
	if n > evidencePerItem {
		n = evidencePerItem
	}
	out := make([]Quote, 0, n)
	for _, h := range hits[:n] {
		out = append(out, Quote{Text: h.Evidence, Participant: h.Participant})
	}
	return out
}
