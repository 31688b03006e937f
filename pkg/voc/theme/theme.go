// Package theme matches discussions against labelled theme dictionaries and
// pulls out the comments experts agree on and the threads where highly rated
// comments compete.
package theme

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/cognicore/voc/pkg/voc/corpus"
	"github.com/cognicore/voc/pkg/voc/internalerr"
	"github.com/cognicore/voc/pkg/voc/patterns"
)

// Category labels what a theme means for the product.
type Category string

const (
	PainPoint   Category = "pain_point"
	Opportunity Category = "opportunity"
	Solution    Category = "solution"
)

// ParseCategory validates a category label.
func ParseCategory(s string) (Category, error) {
	switch c := Category(strings.TrimSpace(s)); c {
	case PainPoint, Opportunity, Solution:
		return c, nil
	default:
		return "", fmt.Errorf("%w: unknown theme category %q", internalerr.ErrInvalidConfig, s)
	}
}

// Dictionary is a pattern set whose every category carries a theme label.
type Dictionary struct {
	set    *patterns.Set
	labels map[string]Category
}

// NewDictionary pairs set with labels. Every category of set needs a label.
func NewDictionary(set *patterns.Set, labels map[string]Category) (*Dictionary, error) {
	for _, name := range set.Categories() {
		if _, ok := labels[name]; !ok {
			return nil, fmt.Errorf("%w: theme %q has no category", internalerr.ErrInvalidConfig, name)
		}
	}
	l := make(map[string]Category, len(labels))
	for k, v := range labels {
		l[k] = v
	}
	return &Dictionary{set: set, labels: l}, nil
}

// Set returns the underlying patterns.
func (d *Dictionary) Set() *patterns.Set { return d.set }

// Category returns the label of a theme.
func (d *Dictionary) Category(name string) Category { return d.labels[name] }

// Thresholds tune consensus and controversy detection.
type Thresholds struct {
	ConsensusScore   int // minimum comment score to count as consensus
	ConsensusLimit   int
	ControversyScore int // minimum comment score to count as a position
	ControversyMin   int // positions needed to call a thread controversial
	MaxEvidence      int
	MaxPositions     int
}

// DefaultThresholds returns the standard cut-offs.
func DefaultThresholds() Thresholds {
	return Thresholds{
		ConsensusScore:   50,
		ConsensusLimit:   10,
		ControversyScore: 20,
		ControversyMin:   2,
		MaxEvidence:      5,
		MaxPositions:     3,
	}
}

const (
	consensusRunes = 200
	positionRunes  = 150
)

// Evidence is one discussion that matched a theme.
type Evidence struct {
	DiscussionID string `json:"discussion_id"`
	Title        string `json:"title"`
	URL          string `json:"url"`
	Pattern      string `json:"pattern"`
	Match        string `json:"matched_keyword"`
	Group        string `json:"subreddit,omitempty"`
}

// Theme is one matched theme across the corpus.
type Theme struct {
	Theme        string     `json:"theme"`
	Category     Category   `json:"category"`
	Frequency    int        `json:"frequency"`
	FrequencyPct float64    `json:"frequency_pct"`
	Evidence     []Evidence `json:"evidence"`
}

// Consensus is a comment scored well above the thread.
type Consensus struct {
	Pattern         string    `json:"pattern"`
	Expert          string    `json:"expert"`
	Upvotes         int       `json:"upvotes"`
	URL             string    `json:"url"`
	DiscussionTitle string    `json:"discussion_title"`
	Group           string    `json:"subreddit,omitempty"`
	CreatedAt       time.Time `json:"timestamp,omitempty"`
}

// Position is one side of a controversy.
type Position struct {
	Expert   string `json:"expert"`
	Position string `json:"position"`
	Upvotes  int    `json:"upvotes"`
	URL      string `json:"url"`
}

// Controversy is a thread with several highly rated comments.
type Controversy struct {
	Topic         string     `json:"topic"`
	URL           string     `json:"url"`
	PositionCount int        `json:"position_count"`
	Positions     []Position `json:"positions"`
	Group         string     `json:"subreddit,omitempty"`
}

// Stats summarises one analysis.
type Stats struct {
	TotalDiscussions int      `json:"total_discussions"`
	TotalComments    int      `json:"total_comments"`
	TotalCitations   int      `json:"total_citations"`
	Themes           int      `json:"themes_extracted"`
	Consensus        int      `json:"consensus_patterns"`
	Controversies    int      `json:"controversies_detected"`
	Groups           []string `json:"subreddits"`
}

// Report is the result of Analyze.
type Report struct {
	Stats         Stats         `json:"statistics"`
	Themes        []Theme       `json:"themes"`
	Consensus     []Consensus   `json:"consensus_patterns"`
	Controversies []Controversy `json:"controversies"`
}

// Analyzer runs theme matching.
type Analyzer struct {
	dict *Dictionary
	th   Thresholds
}

// NewAnalyzer creates an analyzer. Zero thresholds fall back to the defaults
// field by field.
func NewAnalyzer(dict *Dictionary, th Thresholds) *Analyzer {
	def := DefaultThresholds()
	if th.ConsensusScore <= 0 {
		th.ConsensusScore = def.ConsensusScore
	}
	if th.ConsensusLimit <= 0 {
		th.ConsensusLimit = def.ConsensusLimit
	}
	if th.ControversyScore <= 0 {
		th.ControversyScore = def.ControversyScore
	}
	if th.ControversyMin <= 0 {
		th.ControversyMin = def.ControversyMin
	}
	if th.MaxEvidence <= 0 {
		th.MaxEvidence = def.MaxEvidence
	}
	if th.MaxPositions <= 0 {
		th.MaxPositions = def.MaxPositions
	}
	return &Analyzer{dict: dict, th: th}
}

// Analyze matches every record, each theme counted once per record, then
// extracts consensus comments and controversial threads.
func (a *Analyzer) Analyze(records []corpus.Record) Report {
	themes := a.Themes(records)
	consensus := a.Consensus(records)
	controversies := a.Controversies(records)

	groups := make(map[string]struct{})
	comments := 0
	for _, r := range records {
		comments += len(r.Comments)
		if r.Group != "" {
			groups[r.Group] = struct{}{}
		}
	}
	st := Stats{
		TotalDiscussions: len(records),
		TotalComments:    comments,
		TotalCitations:   len(records) + comments,
		Themes:           len(themes),
		Consensus:        len(consensus),
		Controversies:    len(controversies),
		Groups:           make([]string, 0, len(groups)),
	}
	for g := range groups {
		st.Groups = append(st.Groups, g)
	}
	sort.Strings(st.Groups)

	return Report{Stats: st, Themes: themes, Consensus: consensus, Controversies: controversies}
}

// Themes counts, per theme, the records whose text matches any of its
// patterns. The first matching pattern in dictionary order is the evidence.
func (a *Analyzer) Themes(records []corpus.Record) []Theme {
	byName := make(map[string]*Theme)
	for _, r := range records {
		seen := make(map[string]bool)
		for _, h := range a.dict.set.FindAll(r.Text) {
			if seen[h.Category] {
				continue
			}
			seen[h.Category] = true
			t, ok := byName[h.Category]
			if !ok {
				t = &Theme{Theme: h.Category, Category: a.dict.Category(h.Category)}
				byName[h.Category] = t
			}
			t.Frequency++
			if len(t.Evidence) < a.th.MaxEvidence {
				t.Evidence = append(t.Evidence, Evidence{
					DiscussionID: r.ID,
					Title:        r.Title,
					URL:          r.URL,
					Pattern:      h.Pattern,
					Match:        strings.ToLower(h.Match),
					Group:        r.Group,
				})
			}
		}
	}

	out := make([]Theme, 0, len(byName))
	for _, t := range byName {
		if len(records) > 0 {
			t.FrequencyPct = math.Round(float64(t.Frequency)/float64(len(records))*1000) / 10
		}
		out = append(out, *t)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Frequency != out[j].Frequency {
			return out[i].Frequency > out[j].Frequency
		}
		return out[i].Theme < out[j].Theme
	})
	return out
}

// Consensus returns the highest scoring comments at or above ConsensusScore,
// at most ConsensusLimit of them.
func (a *Analyzer) Consensus(records []corpus.Record) []Consensus {
	var out []Consensus
	for _, r := range records {
		for _, c := range r.Comments {
			if c.Score < a.th.ConsensusScore {
				continue
			}
			out = append(out, Consensus{
				Pattern:         ellipsis(c.Body, consensusRunes),
				Expert:          c.Author,
				Upvotes:         c.Score,
				URL:             commentURL(r, c),
				DiscussionTitle: r.Title,
				Group:           r.Group,
				CreatedAt:       c.CreatedAt,
			})
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Upvotes > out[j].Upvotes })
	if len(out) > a.th.ConsensusLimit {
		out = out[:a.th.ConsensusLimit]
	}
	return out
}

// Controversies lists threads with at least ControversyMin comments scoring
// ControversyScore or more. Positions keep comment order.
func (a *Analyzer) Controversies(records []corpus.Record) []Controversy {
	var out []Controversy
	for _, r := range records {
		var high []corpus.Comment
		for _, c := range r.Comments {
			if c.Score >= a.th.ControversyScore {
				high = append(high, c)
			}
		}
		if len(high) < a.th.ControversyMin {
			continue
		}
		ct := Controversy{
			Topic:         r.Title,
			URL:           r.URL,
			PositionCount: len(high),
			Group:         r.Group,
		}
		for i, c := range high {
			if i == a.th.MaxPositions {
				break
			}
			ct.Positions = append(ct.Positions, Position{
				Expert:   c.Author,
				Position: ellipsis(c.Body, positionRunes),
				Upvotes:  c.Score,
				URL:      commentURL(r, c),
			})
		}
		out = append(out, ct)
	}
	return out
}

func commentURL(r corpus.Record, c corpus.Comment) string {
	if r.URL == "" {
		return ""
	}
	return strings.TrimSuffix(r.URL, "/") + "/comments/" + c.ID
}

func ellipsis(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}
