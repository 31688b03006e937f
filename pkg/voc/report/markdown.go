package report

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/cognicore/voc/pkg/voc/ladder"
	"github.com/cognicore/voc/pkg/voc/priority"
)

const (
	quoteRunes       = 120
	criticalListSize = 3
)

// WriteLadderMarkdown renders the insight ladder: aspirations, jobs with
// the problems blocking them, and the pain x satisfaction matrix.
func WriteLadderMarkdown(w io.Writer, title string, rpt ladder.Report) error {
	bw := bufio.NewWriter(w)
	p := func(format string, args ...any) { fmt.Fprintf(bw, format, args...) }

	if title == "" {
		title = "Insight Ladder"
	}
	p("# %s\n\n", title)
	p("**Documents analyzed:** %d | **Participants:** %d\n\n", rpt.TotalDocs, rpt.Participants)
	p("Aspirations (who I want to be) → Jobs (what I am trying to do) → Problems (what gets in the way)\n\n---\n\n")

	p("## Aspirational States\n\n")
	if len(rpt.Aspirations) == 0 {
		p("_No aspirations found._\n\n")
	}
	for _, a := range rpt.Aspirations {
		p("### \"%s\"\n**Frequency:** %d instances\n\n", a.Name, a.Count)
		writeQuotes(p, a.Evidence, 2)
		p("\n")
	}

	p("---\n\n## Jobs-to-be-Done\n\n")
	if len(rpt.Jobs) == 0 {
		p("_No jobs found._\n\n")
	}
	for _, j := range rpt.Jobs {
		p("### Job: %s\n", j.Name)
		p("**Prevalence:** %d instances (%.0f%% of documents)\n\n", j.Count, prevalence(j.Count, rpt.TotalDocs))
		writeQuotes(p, j.Evidence, 2)
		if len(j.Related) > 0 {
			p("\n**Problems blocking this job:**\n\n")
			for _, rel := range j.Related {
				prob, ok := rpt.Problem(rel.Problem)
				if !ok {
					continue
				}
				p("#### Problem: %s\n", prob.Name)
				p("- **Frequency:** %d instances\n", prob.Count)
				p("- **Pain Level:** %s\n", prob.Pain)
				p("- **Current Solution Satisfaction:** %s\n", prob.Satisfaction)
				if len(prob.Evidence) > 0 {
					ev := prob.Evidence[0]
					p("- **Evidence:** \"%s\" (%s)\n", clip(ev.Text, quoteRunes), ev.Participant)
				}
				p("\n")
			}
		}
		p("\n")
	}

	p("---\n\n## Problem Prioritization Matrix\n*Pain level vs. current solution satisfaction*\n\n")
	for _, q := range priority.PainOrder {
		probs := rpt.Matrix[q]
		if len(probs) == 0 {
			continue
		}
		p("### %s\n", priority.Label(q))
		for _, pr := range probs {
			p("- **%s** (%d instances)\n", pr.Name, pr.Count)
		}
		p("\n")
	}

	if critical := rpt.Matrix[priority.Critical]; len(critical) > 0 {
		p("## R&D Priorities\n\n")
		for i, pr := range critical {
			if i == criticalListSize {
				break
			}
			p("%d. **%s** (%d instances)\n", i+1, pr.Name, pr.Count)
			if prob, ok := rpt.Problem(pr.Name); ok && len(prob.Evidence) > 0 {
				p("   - Evidence: \"%s\"\n", clip(prob.Evidence[0].Text, 150))
			}
		}
		p("\n")
	}

	return bw.Flush()
}

func writeQuotes(p func(string, ...any), quotes []ladder.Quote, n int) {
	for i, q := range quotes {
		if i == n {
			break
		}
		p("- \"%s\" (%s)\n", clip(q.Text, quoteRunes), q.Participant)
	}
}

func prevalence(count, total int) float64 {
	if total <= 0 {
		return 0
	}
	return float64(count) / float64(total) * 100
}

// clip shortens s to n runes, marking the cut with an ellipsis.
func clip(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
