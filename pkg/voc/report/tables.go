package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"

	"github.com/cognicore/voc/pkg/voc/analytics"
	"github.com/cognicore/voc/pkg/voc/benefit"
	"github.com/cognicore/voc/pkg/voc/corpus"
	"github.com/cognicore/voc/pkg/voc/painpoint"
	"github.com/cognicore/voc/pkg/voc/priority"
	"github.com/cognicore/voc/pkg/voc/review"
	"github.com/cognicore/voc/pkg/voc/store"
	"github.com/cognicore/voc/pkg/voc/theme"
)

func newTable(w io.Writer, header ...string) *tablewriter.Table {
	t := tablewriter.NewWriter(w)
	t.SetHeader(header)
	t.SetAutoWrapText(false)
	t.SetAlignment(tablewriter.ALIGN_LEFT)
	return t
}

func f2(v float64) string { return strconv.FormatFloat(v, 'f', 2, 64) }
func f1(v float64) string { return strconv.FormatFloat(v, 'f', 1, 64) }

// BenefitTable prints the top benefits by importance. limit <= 0 prints all.
func BenefitTable(w io.Writer, scores []benefit.Score, limit int) {
	t := newTable(w, "Benefit", "Import%", "Satisfy%", "Mentions", "Pos", "Neg", "Sources")
	for i, s := range scores {
		if limit > 0 && i == limit {
			break
		}
		t.Append([]string{
			s.Benefit, f2(s.Importance), f2(s.Satisfaction),
			strconv.Itoa(s.TotalMentions), strconv.Itoa(s.Positive), strconv.Itoa(s.Negative),
			strconv.Itoa(len(s.Sources)),
		})
	}
	t.Render()
}

// MatrixTable prints the quadrant membership of an importance x
// satisfaction matrix.
func MatrixTable(w io.Writer, m priority.Matrix) {
	fmt.Fprintf(w, "Average importance %.2f, average satisfaction %.2f over %d items\n",
		m.Summary.AvgImportance, m.Summary.AvgSatisfaction, m.Summary.Total)
	t := newTable(w, "Quadrant", "Item", "Import%", "Satisfy%")
	for _, q := range priority.ImportanceOrder {
		for _, it := range m.Quadrants[q] {
			t.Append([]string{string(q), it.Name, f2(it.Importance), f2(it.Satisfaction)})
		}
	}
	t.Render()
}

// PainPointTable prints one platform's pain points.
func PainPointTable(w io.Writer, r painpoint.PlatformResult) {
	fmt.Fprintf(w, "%s: %d records\n", r.Platform, r.TotalRecords)
	t := newTable(w, "Pain point", "Count", "Percent", "Examples")
	for _, p := range r.PainPoints {
		t.Append([]string{p.Name, strconv.Itoa(p.Count), f1(p.Percentage) + "%", strconv.Itoa(len(p.Examples))})
	}
	t.Render()
}

// ManifestTable prints dataset completeness per source.
func ManifestTable(w io.Writer, manifests []corpus.Manifest) {
	t := newTable(w, "Source", "Records", "With URL", "With text", "With author", "Complete%")
	for _, m := range manifests {
		t.Append([]string{
			m.Source, strconv.Itoa(m.TotalRecords), strconv.Itoa(m.RecordsWithURL),
			strconv.Itoa(m.RecordsWithText), strconv.Itoa(m.RecordsWithAuthor), f1(m.CompletenessPercent),
		})
	}
	t.Render()
}

// PhraseTable prints recurring phrases.
func PhraseTable(w io.Writer, phrases []analytics.Phrase) {
	t := newTable(w, "Phrase", "N", "Count", "Docs")
	for _, p := range phrases {
		t.Append([]string{p.Text, strconv.Itoa(p.N), strconv.FormatInt(p.Count, 10), strconv.FormatInt(p.DF, 10)})
	}
	t.Render()
}

// CategoryPairTable prints category co-occurrence.
func CategoryPairTable(w io.Writer, pairs []analytics.CategoryPair) {
	t := newTable(w, "Category A", "Category B", "Support", "PMI", "NPMI")
	for _, p := range pairs {
		t.Append([]string{p.A, p.B, strconv.FormatInt(p.Support, 10), f2(p.PMI), f2(p.NPMI)})
	}
	t.Render()
}

// UncoveredTable prints frequent tokens from documents no category matched.
func UncoveredTable(w io.Writer, tokens []analytics.TokenStat) {
	t := newTable(w, "Token", "Docs", "Docs%")
	for _, s := range tokens {
		t.Append([]string{s.Token, strconv.FormatInt(s.DF, 10), f1(s.DFPercent)})
	}
	t.Render()
}

// StopwordTable prints suggested stoplist additions.
func StopwordTable(w io.Writer, cands []analytics.StopwordCandidate) {
	t := newTable(w, "Token", "Docs%", "Entropy", "Score")
	for _, c := range cands {
		t.Append([]string{c.Token, f1(c.DFPercent), f2(c.CatEntropy), f2(c.Score)})
	}
	t.Render()
}

// RunTable prints stored runs.
func RunTable(w io.Writer, runs []store.Run) {
	t := newTable(w, "ID", "Kind", "Label", "Created", "Docs", "Categories")
	for _, r := range runs {
		t.Append([]string{
			r.ID, r.Kind, r.Label, r.CreatedAt.Format("2006-01-02 15:04"),
			strconv.Itoa(r.TotalDocs), strconv.Itoa(len(r.Scores)),
		})
	}
	t.Render()
}

// HistoryTable prints a category's scores over time.
func HistoryTable(w io.Writer, points []store.Point) {
	t := newTable(w, "Run", "Created", "Label", "Count", "Share", "Satisfy%")
	for _, p := range points {
		t.Append([]string{
			p.RunID, p.CreatedAt.Format("2006-01-02 15:04"), p.Label,
			strconv.Itoa(p.Count), f2(p.Share), f2(p.Satisfaction),
		})
	}
	t.Render()
}

// ReviewTable prints one panel iteration, a row per platform.
func ReviewTable(w io.Writer, it review.Iteration) {
	fmt.Fprintf(w, "Review iteration %d\n", it.Iteration)
	t := newTable(w, "Platform", "N", "Confidence", "Margin", "Segment", "Complete", "Traceable")
	for i, v := range it.DataScientist {
		row := []string{v.Platform, strconv.Itoa(v.SampleSize), string(v.Confidence), v.MarginOfError, "", "", ""}
		if i < len(it.ConsumerInsights) {
			row[4] = it.ConsumerInsights[i].ConsumerSegment
		}
		if i < len(it.Developer) {
			row[5] = it.Developer[i].Completeness
			row[6] = it.Developer[i].Traceability
		}
		t.Append(row)
	}
	t.Render()
	for _, d := range it.Developer {
		for _, issue := range d.Issues {
			fmt.Fprintf(w, "  %s: %s\n", d.Platform, issue)
		}
	}
}

// ThemeTable prints matched themes by frequency.
func ThemeTable(w io.Writer, themes []theme.Theme) {
	t := newTable(w, "Theme", "Category", "Discussions", "Percent", "First match")
	for _, th := range themes {
		first := ""
		if len(th.Evidence) > 0 {
			first = th.Evidence[0].Match
		}
		t.Append([]string{th.Theme, string(th.Category), strconv.Itoa(th.Frequency), f1(th.FrequencyPct) + "%", first})
	}
	t.Render()
}

// ConsensusTable prints the top rated comments.
func ConsensusTable(w io.Writer, cs []theme.Consensus) {
	t := newTable(w, "Upvotes", "Expert", "Comment", "URL")
	for _, c := range cs {
		t.Append([]string{strconv.Itoa(c.Upvotes), c.Expert, clip(c.Pattern, 60), c.URL})
	}
	t.Render()
}

// ControversyTable prints threads with competing highly rated comments.
func ControversyTable(w io.Writer, cs []theme.Controversy) {
	t := newTable(w, "Topic", "Positions", "Top upvotes", "URL")
	for _, c := range cs {
		top := 0
		for _, p := range c.Positions {
			if p.Upvotes > top {
				top = p.Upvotes
			}
		}
		t.Append([]string{clip(c.Topic, 50), strconv.Itoa(c.PositionCount), strconv.Itoa(top), c.URL})
	}
	t.Render()
}
