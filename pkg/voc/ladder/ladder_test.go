package ladder

import (
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cognicore/voc/pkg/voc/priority"
)

func re(exprs ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(exprs))
	for i, e := range exprs {
		out[i] = regexp.MustCompile("(?i)" + e)
	}
	return out
}

func testRules() Rules {
	return Rules{
		Jobs: []Rung{
			{Name: "Mount without damage", Window: 20, Patterns: re(`damage[\s-]?free`, `rental`), Keywords: []string{"adhesive", "damage"}},
			{Name: "Install without wiring", Window: 20, Patterns: re(`no\s+wire`), Keywords: []string{"electrician"}},
		},
		Problems: []Rung{
			{Name: "Adhesive fails to hold", Window: 20, Patterns: re(`fell`), Pain: priority.High, Satisfaction: priority.Low},
			{Name: "Cannot damage walls", Window: 20, Patterns: re(`deposit`), Pain: priority.High, Satisfaction: priority.Medium},
			{Name: "Hard to reach", Window: 20, Patterns: re(`ladder`), Pain: priority.Low, Satisfaction: priority.Medium},
		},
		Aspirations: []Rung{
			{Name: "Feel capable", Window: 10, Patterns: re(`diy`)},
		},
	}
}

func TestEvidenceClamps(t *testing.T) {
	text := "short text"
	assert.Equal(t, "short text", Evidence(text, 0, 5, 50, 100))
	assert.Equal(t, "text", Evidence(text, 6, 10, 0, 0))
	assert.Equal(t, "", Evidence("", 0, 0, 50, 50))
	assert.Equal(t, "", Evidence(text, 50, 60, 0, 0))
}

func TestEvidenceRuneBoundaries(t *testing.T) {
	text := "héllo wörld"
	// byte 2 sits inside "é"
	got := Evidence(text, 3, 5, 1, 0)
	assert.True(t, strings.HasPrefix(got, "é"), "got %q", got)
}

func TestProcessCollectsHits(t *testing.T) {
	e := NewExtractor(testRules())
	e.Process("We rent so it must be damage-free. The strip fell twice. DIY all the way.", "p01", "install")
	e.Process("", "p02", "empty")

	require.Len(t, e.Jobs(), 1)
	assert.Equal(t, "Mount without damage", e.Jobs()[0].Name)
	assert.Equal(t, "p01", e.Jobs()[0].Participant)
	assert.Contains(t, e.Jobs()[0].Evidence, "damage-free")

	require.Len(t, e.Problems(), 1)
	assert.Equal(t, priority.High, e.Problems()[0].Pain)
	require.Len(t, e.Aspirations(), 1)
	assert.Equal(t, 2, e.Processed())
}

func TestReport(t *testing.T) {
	e := NewExtractor(testRules())
	e.Process("rental unit, the light fell. it fell again. lost my deposit", "p01", "a")
	e.Process("damage-free please, it fell", "p02", "b")
	e.Process("needed a ladder, no wire needed", "p03", "c")

	rpt := e.Report(3)
	assert.Equal(t, 3, rpt.TotalDocs)
	assert.Equal(t, 3, rpt.Participants)

	require.Len(t, rpt.Jobs, 2)
	assert.Equal(t, "Mount without damage", rpt.Jobs[0].Name)
	assert.Equal(t, 2, rpt.Jobs[0].Count)
	assert.Len(t, rpt.Jobs[0].Evidence, 2)

	require.Len(t, rpt.Jobs[0].Related, 2)
	assert.Equal(t, "Adhesive fails to hold", rpt.Jobs[0].Related[0].Problem)
	assert.Equal(t, 3, rpt.Jobs[0].Related[0].Count)
	assert.Equal(t, "Cannot damage walls", rpt.Jobs[0].Related[1].Problem)

	assert.Empty(t, rpt.Jobs[1].Related)

	require.Len(t, rpt.Problems, 3)
	assert.Equal(t, "Adhesive fails to hold", rpt.Problems[0].Name)
	assert.Equal(t, 3, rpt.Problems[0].Count)
	assert.Len(t, rpt.Problems[0].Evidence, 3)

	assert.Equal(t, "Adhesive fails to hold", rpt.Matrix[priority.Critical][0].Name)
	assert.Equal(t, "Cannot damage walls", rpt.Matrix[priority.Innovate][0].Name)
	assert.Equal(t, "Hard to reach", rpt.Matrix[priority.Monitor][0].Name)
	assert.Empty(t, rpt.Aspirations)
}

func TestReportTopJobsLimit(t *testing.T) {
	var rules Rules
	var text strings.Builder
	for _, w := range []string{"alpha", "bravo", "charlie", "delta", "echo", "foxtrot", "golf", "hotel", "india", "juliet"} {
		rules.Jobs = append(rules.Jobs, Rung{Name: w, Window: 5, Patterns: re(w)})
		text.WriteString(w + " ")
	}
	e := NewExtractor(rules)
	e.Process(text.String(), "p", "a")
	rpt := e.Report(1)
	require.Len(t, rpt.Jobs, topJobs)
	assert.Equal(t, "alpha", rpt.Jobs[0].Name)
}
