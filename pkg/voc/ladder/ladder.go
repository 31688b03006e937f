// Package ladder extracts an insight ladder (aspirations, jobs, problems)
// from interview and video transcripts.
package ladder

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/cognicore/voc/pkg/voc/priority"
)

// Kind is a rung of the ladder.
type Kind string

const (
	KindJob        Kind = "job"
	KindProblem    Kind = "problem"
	KindAspiration Kind = "aspiration"
)

// Characters of evidence kept before a match, per rung.
const (
	JobLead        = 50
	ProblemLead    = 40
	AspirationLead = 30
)

// Rung is one compiled ladder definition.
type Rung struct {
	Name     string
	Window   int // characters kept after a match
	Patterns []*regexp.Regexp

	// Keywords links a job to problems whose name contains them.
	Keywords []string

	// Pain and Satisfaction rate a problem.
	Pain         priority.Level
	Satisfaction priority.Level
}

// Rules holds every rung definition.
type Rules struct {
	Jobs        []Rung
	Problems    []Rung
	Aspirations []Rung
}

// Hit is one rung matched in one transcript.
type Hit struct {
	Kind         Kind           `json:"kind"`
	Name         string         `json:"name"`
	Evidence     string         `json:"evidence"`
	Participant  string         `json:"participant"`
	Activity     string         `json:"activity"`
	Pain         priority.Level `json:"pain,omitempty"`
	Satisfaction priority.Level `json:"solution_satisfaction,omitempty"`
}

// Extractor accumulates hits across transcripts. It is not safe for
// concurrent use.
type Extractor struct {
	rules       Rules
	jobs        []Hit
	problems    []Hit
	aspirations []Hit
	processed   int
	people      map[string]struct{}
}

// NewExtractor creates an extractor for rules.
func NewExtractor(rules Rules) *Extractor {
	return &Extractor{rules: rules, people: make(map[string]struct{})}
}

// Process scans one transcript and records every match of every rung.
func (e *Extractor) Process(text, participant, activity string) {
	e.processed++
	if participant != "" {
		e.people[participant] = struct{}{}
	}
	if strings.TrimSpace(text) == "" {
		return
	}
	e.jobs = append(e.jobs, scan(KindJob, e.rules.Jobs, JobLead, text, participant, activity)...)
	e.problems = append(e.problems, scan(KindProblem, e.rules.Problems, ProblemLead, text, participant, activity)...)
	e.aspirations = append(e.aspirations, scan(KindAspiration, e.rules.Aspirations, AspirationLead, text, participant, activity)...)
}

// Processed returns how many transcripts were fed to Process.
func (e *Extractor) Processed() int { return e.processed }

// Participants returns how many distinct participants were processed.
func (e *Extractor) Participants() int { return len(e.people) }

// Jobs returns the raw job hits.
func (e *Extractor) Jobs() []Hit { return e.jobs }

// Problems returns the raw problem hits.
func (e *Extractor) Problems() []Hit { return e.problems }

// Aspirations returns the raw aspiration hits.
func (e *Extractor) Aspirations() []Hit { return e.aspirations }

func scan(kind Kind, rungs []Rung, lead int, text, participant, activity string) []Hit {
	var hits []Hit
	for _, r := range rungs {
		for _, re := range r.Patterns {
			for _, loc := range re.FindAllStringIndex(text, -1) {
				hits = append(hits, Hit{
					Kind:         kind,
					Name:         r.Name,
					Evidence:     Evidence(text, loc[0], loc[1], lead, r.Window),
					Participant:  participant,
					Activity:     activity,
					Pain:         r.Pain,
					Satisfaction: r.Satisfaction,
				})
			}
		}
	}
	return hits
}

// Evidence returns text from lead characters before start to after
// characters past end, clamped to the text and to rune boundaries, and
// trimmed of surrounding whitespace.
func Evidence(text string, start, end, lead, after int) string {
	lo := start - lead
	if lo < 0 {
		lo = 0
	}
	if lo > len(text) {
		lo = len(text)
	}
	hi := end + after
	if hi > len(text) {
		hi = len(text)
	}
	if hi < lo {
		hi = lo
	}
	for lo > 0 && lo < len(text) && !utf8.RuneStart(text[lo]) {
		lo--
	}
	for hi < len(text) && !utf8.RuneStart(text[hi]) {
		hi++
	}
	return strings.TrimSpace(text[lo:hi])
}
