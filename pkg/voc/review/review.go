// Package review runs a validation panel over pain point results: a
// statistical check, a behavioral reading per platform and data quality
// checks.
package review

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/cognicore/voc/pkg/voc/audit"
	"github.com/cognicore/voc/pkg/voc/painpoint"
)

// Sample size thresholds.
const (
	MinSample    = 30
	RobustSample = 100
)

const (
	z95         = 1.96
	maxVariance = 0.25 // p(1-p) at p = 0.5
)

// Check outcomes.
const (
	Pass    = "PASS"
	Fail    = "FAIL"
	Partial = "PARTIAL"
)

// Validation is the statistical verdict on one platform.
type Validation struct {
	Platform      string           `json:"platform"`
	SampleSize    int              `json:"sample_size"`
	Confidence    audit.Confidence `json:"confidence"`
	Note          string           `json:"note"`
	MarginOfError string           `json:"margin_of_error"`
}

// Interpretation is the behavioral reading of one platform.
type Interpretation struct {
	Platform         string   `json:"platform"`
	BehavioralSignal string   `json:"behavioral_signal"`
	ConsumerSegment  string   `json:"consumer_segment"`
	SampleSize       int      `json:"sample_size"`
	TopPainPoints    []string `json:"top_pain_points"`
}

// QualityCheck is the data quality verdict on one platform.
type QualityCheck struct {
	Platform     string   `json:"platform"`
	Completeness string   `json:"completeness"`
	Traceability string   `json:"traceability"`
	Issues       []string `json:"issues"`
}

// DataScientist grades each platform by sample size.
func DataScientist(results []painpoint.PlatformResult) []Validation {
	out := make([]Validation, 0, len(results))
	for _, r := range results {
		n := r.TotalRecords
		v := Validation{Platform: r.Platform, SampleSize: n, MarginOfError: MarginOfError(n)}
		switch {
		case n < MinSample:
			v.Confidence = audit.Low
			v.Note = fmt.Sprintf("Sample size <%d, insufficient for robust conclusions", MinSample)
		case n < RobustSample:
			v.Confidence = audit.Medium
			v.Note = "Sample size adequate but limited"
		default:
			v.Confidence = audit.High
			v.Note = fmt.Sprintf("Sample size (%d) provides robust statistical power", n)
		}
		out = append(out, v)
	}
	return out
}

// MarginOfError is the 95% margin for a proportion at maximum variance.
func MarginOfError(n int) string {
	if n < MinSample {
		return "N/A (insufficient sample)"
	}
	m := z95 * math.Sqrt(maxVariance/float64(n)) * 100
	return fmt.Sprintf("±%.1f%%", m)
}

type behavior struct {
	keywords []string // all must appear in the platform name
	signal   string
	segment  string
}

var behaviors = []behavior{
	{[]string{"reddit"}, "Problem-solving mode: Users already attempted, seeking solutions", "Post-purchase / Post-attempt"},
	{[]string{"youtube", "video"}, "Research mode: Pre-purchase validation and learning", "Decision-making stage"},
	{[]string{"tiktok"}, "Discovery mode: Inspiration and trend awareness", "Early awareness stage"},
	{[]string{"instagram"}, "Aspiration mode: Visual inspiration and lifestyle content", "Interest and consideration"},
}

// ConsumerInsights reads the behavioral mode implied by each platform.
func ConsumerInsights(results []painpoint.PlatformResult) []Interpretation {
	out := make([]Interpretation, 0, len(results))
	for _, r := range results {
		signal, segment := Behavior(r.Platform)
		top := make([]string, 0, 3)
		for i, p := range r.PainPoints {
			if i == 3 {
				break
			}
			top = append(top, p.Name)
		}
		out = append(out, Interpretation{
			Platform:         r.Platform,
			BehavioralSignal: signal,
			ConsumerSegment:  segment,
			SampleSize:       r.TotalRecords,
			TopPainPoints:    top,
		})
	}
	return out
}

// Behavior maps a platform name to its behavioral signal and segment.
func Behavior(platform string) (signal, segment string) {
	name := strings.ToLower(platform)
	for _, b := range behaviors {
		matched := true
		for _, kw := range b.keywords {
			if !strings.Contains(name, kw) {
				matched = false
				break
			}
		}
		if matched {
			return b.signal, b.segment
		}
	}
	return "Mixed behavioral signals", "Various stages"
}

// Developer checks completeness and traceability of each platform result.
func Developer(results []painpoint.PlatformResult) []QualityCheck {
	out := make([]QualityCheck, 0, len(results))
	for _, r := range results {
		c := QualityCheck{Platform: r.Platform, Completeness: Pass, Traceability: Pass, Issues: []string{}}
		if r.TotalRecords == 0 {
			c.Completeness = Fail
			c.Issues = append(c.Issues, "No records found")
		}
		if len(r.PainPoints) == 0 {
			c.Issues = append(c.Issues, "No pain points extracted - check patterns")
		}
		for _, p := range r.PainPoints {
			for _, ex := range p.Examples {
				if ex.URL == "" || ex.SourceID == "" {
					c.Traceability = Partial
					c.Issues = append(c.Issues, p.Name+": Missing URL or source ID in examples")
					break
				}
			}
		}
		out = append(out, c)
	}
	return out
}

// Iteration is one full panel pass.
type Iteration struct {
	Iteration        int              `json:"iteration"`
	Timestamp        time.Time        `json:"timestamp"`
	DataScientist    []Validation     `json:"data_scientist"`
	ConsumerInsights []Interpretation `json:"consumer_insights"`
	Developer        []QualityCheck   `json:"developer"`
}

// Panel keeps the history of review iterations.
type Panel struct {
	Iterations []Iteration
	now        func() time.Time
}

// NewPanel creates an empty panel stamped with time.Now.
func NewPanel() *Panel {
	return NewPanelWithClock(nil)
}

// NewPanelWithClock creates an empty panel stamped by now.
func NewPanelWithClock(now func() time.Time) *Panel {
	if now == nil {
		now = time.Now
	}
	return &Panel{now: now}
}

// RunIteration runs all three reviews and records the result.
func (p *Panel) RunIteration(results []painpoint.PlatformResult, n int) Iteration {
	now := time.Now
	if p.now != nil {
		now = p.now
	}
	it := Iteration{
		Iteration:        n,
		Timestamp:        now(),
		DataScientist:    DataScientist(results),
		ConsumerInsights: ConsumerInsights(results),
		Developer:        Developer(results),
	}
	p.Iterations = append(p.Iterations, it)
	return it
}
