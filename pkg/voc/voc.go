// Package voc runs voice-of-customer analyses over loaded corpora: benefit
// scoring, pain point breakdowns, the insight ladder, discussion themes and
// phrase mining.
// Each analysis can be persisted as a run in a store.Store.
package voc

import (
	"context"
	"crypto/rand"
	"fmt"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/cognicore/voc/pkg/voc/analytics"
	"github.com/cognicore/voc/pkg/voc/audit"
	"github.com/cognicore/voc/pkg/voc/benefit"
	"github.com/cognicore/voc/pkg/voc/config"
	"github.com/cognicore/voc/pkg/voc/corpus"
	"github.com/cognicore/voc/pkg/voc/ingest"
	"github.com/cognicore/voc/pkg/voc/internalerr"
	"github.com/cognicore/voc/pkg/voc/ladder"
	"github.com/cognicore/voc/pkg/voc/painpoint"
	"github.com/cognicore/voc/pkg/voc/patterns"
	"github.com/cognicore/voc/pkg/voc/priority"
	"github.com/cognicore/voc/pkg/voc/review"
	"github.com/cognicore/voc/pkg/voc/store"
	"github.com/cognicore/voc/pkg/voc/theme"
)

// Engine is the analysis facade.
type Engine struct {
	comp  *config.Components
	store store.Store
	log   *zap.Logger
	now   func() time.Time

	mu      sync.Mutex
	entropy *ulid.MonotonicEntropy
	panel   *review.Panel
}

// Options configures an Engine.
type Options struct {
	// Components defaults to the embedded configuration.
	Components *config.Components
	// Store is optional; without it runs are not persisted.
	Store  store.Store
	Logger *zap.Logger
	// Now stamps runs and audit entries. It is called from concurrent
	// goroutines.
	Now func() time.Time
}

// New creates an Engine.
func New(opts Options) (*Engine, error) {
	comp := opts.Components
	if comp == nil {
		var err error
		if comp, err = (&config.Loader{}).Load(); err != nil {
			return nil, fmt.Errorf("load default config: %w", err)
		}
	}
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Engine{
		comp:    comp,
		store:   opts.Store,
		log:     log,
		now:     now,
		entropy: ulid.Monotonic(rand.Reader, 0),
		panel:   review.NewPanelWithClock(now),
	}, nil
}

// Close closes the store, if any.
func (e *Engine) Close() error {
	if e.store == nil {
		return nil
	}
	return e.store.Close()
}

// Components returns the configuration in use.
func (e *Engine) Components() *config.Components { return e.comp }

func (e *Engine) newID(t time.Time) string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return ulid.MustNew(ulid.Timestamp(t), e.entropy).String()
}

// save persists a run when a store is configured and returns its id.
func (e *Engine) save(ctx context.Context, kind, label string, totalDocs int, scores []store.CategoryScore) (string, error) {
	if e.store == nil {
		return "", nil
	}
	created := e.now()
	run := store.Run{
		ID:        e.newID(created),
		Kind:      kind,
		Label:     label,
		CreatedAt: created,
		TotalDocs: totalDocs,
		Scores:    scores,
	}
	if err := e.store.SaveRun(ctx, run); err != nil {
		return "", fmt.Errorf("save %s run: %w", kind, err)
	}
	e.log.Debug("run saved", zap.String("id", run.ID), zap.String("kind", kind), zap.Int("scores", len(scores)))
	return run.ID, nil
}

func checkSources(sources []corpus.Source) error {
	if len(sources) == 0 {
		return fmt.Errorf("%w: no sources", internalerr.ErrInvalidInput)
	}
	return nil
}

func totalRecords(sources []corpus.Source) int {
	n := 0
	for _, s := range sources {
		n += len(s.Records)
	}
	return n
}

// SourceBenefits is one source's benefit scores.
type SourceBenefits struct {
	Source   string          `json:"source"`
	Manifest corpus.Manifest `json:"manifest"`
	Scores   []benefit.Score `json:"scores"`
}

// BenefitReport is the result of Benefits.
type BenefitReport struct {
	RunID    string           `json:"run_id,omitempty"`
	Label    string           `json:"label"`
	Sources  []SourceBenefits `json:"sources"`
	Combined []benefit.Score  `json:"combined"`
	Matrix   priority.Matrix  `json:"matrix"`
}

// Benefits scores every source, combines the scores and places the combined
// benefits on the importance x satisfaction matrix.
func (e *Engine) Benefits(ctx context.Context, sources []corpus.Source, label string) (BenefitReport, error) {
	if err := checkSources(sources); err != nil {
		return BenefitReport{}, err
	}
	analyzer := benefit.NewAnalyzer(e.comp.Benefits, e.comp.Sentiment)

	per := make([]SourceBenefits, len(sources))
	g, gctx := errgroup.WithContext(ctx)
	for i, src := range sources {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			per[i] = SourceBenefits{
				Source:   src.Spec.Name,
				Manifest: src.Manifest,
				Scores:   analyzer.AnalyzeCorpus(corpus.Texts(src.Records), src.Spec.Name),
			}
			e.log.Debug("benefits scored",
				zap.String("source", src.Spec.Name),
				zap.Int("records", len(src.Records)),
				zap.Int("benefits", len(per[i].Scores)))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return BenefitReport{}, err
	}

	all := make([][]benefit.Score, len(per))
	for i, p := range per {
		all[i] = p.Scores
	}
	combined := benefit.Combine(all)
	rpt := BenefitReport{
		Label:    label,
		Sources:  per,
		Combined: combined,
		Matrix:   priority.ImportanceSatisfaction(benefit.Items(combined)),
	}

	scores := make([]store.CategoryScore, len(combined))
	for i, s := range combined {
		scores[i] = store.CategoryScore{
			Category:     s.Benefit,
			Count:        s.DocMentions,
			Share:        s.Importance,
			Satisfaction: s.Satisfaction,
		}
	}
	id, err := e.save(ctx, store.KindBenefits, label, totalRecords(sources), scores)
	if err != nil {
		return BenefitReport{}, err
	}
	rpt.RunID = id
	return rpt, nil
}

// PainPointReport is the result of PainPoints.
type PainPointReport struct {
	RunID     string                     `json:"run_id,omitempty"`
	Label     string                     `json:"label"`
	Platforms []painpoint.PlatformResult `json:"platforms"`
	Manifests []corpus.Manifest          `json:"manifests"`
	Audit     []audit.Entry              `json:"audit_trail"`
	Review    review.Iteration           `json:"review"`
}

// PainPoints breaks each source down by pain point, one platform per
// source, and runs the review panel over the results.
func (e *Engine) PainPoints(ctx context.Context, sources []corpus.Source, label string) (PainPointReport, error) {
	if err := checkSources(sources); err != nil {
		return PainPointReport{}, err
	}

	results := make([]painpoint.PlatformResult, len(sources))
	trails := make([]*audit.Trail, len(sources))
	g, gctx := errgroup.WithContext(ctx)
	for i, src := range sources {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			trails[i] = audit.NewTrailWithClock(e.now)
			analyzer := painpoint.NewAnalyzer(e.comp.PainPoints, trails[i])
			results[i] = analyzer.AnalyzePlatform(src.Records, src.Spec.Name, nil)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return PainPointReport{}, err
	}

	rpt := PainPointReport{Label: label, Platforms: results}
	for i, src := range sources {
		rpt.Manifests = append(rpt.Manifests, src.Manifest)
		rpt.Audit = append(rpt.Audit, trails[i].Entries()...)
	}

	e.mu.Lock()
	rpt.Review = e.panel.RunIteration(results, len(e.panel.Iterations)+1)
	e.mu.Unlock()

	id, err := e.save(ctx, store.KindPainPoints, label, totalRecords(sources), painScores(results))
	if err != nil {
		return PainPointReport{}, err
	}
	rpt.RunID = id
	return rpt, nil
}

// painScores folds platform results into one score per pain point.
func painScores(results []painpoint.PlatformResult) []store.CategoryScore {
	counts := make(map[string]int)
	total := 0
	for _, r := range results {
		total += r.TotalRecords
		for _, p := range r.PainPoints {
			counts[p.Name] += p.Count
		}
	}
	out := make([]store.CategoryScore, 0, len(counts))
	for name, n := range counts {
		share := 0.0
		if total > 0 {
			share = math.Round(float64(n)/float64(total)*1000) / 10
		}
		out = append(out, store.CategoryScore{Category: name, Count: n, Share: share})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Category < out[j].Category
	})
	return out
}

// LadderReport is the result of Ladder.
type LadderReport struct {
	RunID string `json:"run_id,omitempty"`
	Label string `json:"label"`
	ladder.Report
}

// Ladder extracts jobs, problems and aspirations from every record. A record
// without a participant is attributed to its author, and its activity
// defaults to its source.
func (e *Engine) Ladder(ctx context.Context, sources []corpus.Source, label string) (LadderReport, error) {
	if err := checkSources(sources); err != nil {
		return LadderReport{}, err
	}
	ex := ladder.NewExtractor(e.comp.Ladder)
	for _, src := range sources {
		if err := ctx.Err(); err != nil {
			return LadderReport{}, err
		}
		for _, r := range src.Records {
			participant := r.Participant
			if participant == "" {
				participant = r.Author
			}
			activity := r.Activity
			if activity == "" {
				activity = r.Source
			}
			ex.Process(r.Text, participant, activity)
		}
	}
	total := totalRecords(sources)
	rpt := ex.Report(total)
	e.log.Debug("ladder extracted",
		zap.Int("jobs", len(ex.Jobs())),
		zap.Int("problems", len(ex.Problems())),
		zap.Int("aspirations", len(ex.Aspirations())))

	id, err := e.save(ctx, store.KindLadder, label, total, ladderScores(rpt))
	if err != nil {
		return LadderReport{}, err
	}
	return LadderReport{RunID: id, Label: label, Report: rpt}, nil
}

// Ladder categories are stored as kind:name so rungs of different kinds
// never collide.
func ladderScores(rpt ladder.Report) []store.CategoryScore {
	share := func(n int) float64 {
		if rpt.TotalDocs == 0 {
			return 0
		}
		return math.Round(float64(n)/float64(rpt.TotalDocs)*1000) / 10
	}
	var out []store.CategoryScore
	for _, j := range rpt.Jobs {
		out = append(out, store.CategoryScore{Category: string(ladder.KindJob) + ":" + j.Name, Count: j.Count, Share: share(j.Count)})
	}
	for _, p := range rpt.Problems {
		out = append(out, store.CategoryScore{Category: string(ladder.KindProblem) + ":" + p.Name, Count: p.Count, Share: share(p.Count)})
	}
	for _, a := range rpt.Aspirations {
		out = append(out, store.CategoryScore{Category: string(ladder.KindAspiration) + ":" + a.Name, Count: a.Count, Share: share(a.Count)})
	}
	return out
}

// ThemeReport is the result of Themes.
type ThemeReport struct {
	RunID     string            `json:"run_id,omitempty"`
	Label     string            `json:"label"`
	Manifests []corpus.Manifest `json:"manifests"`
	theme.Report
}

// Themes matches every discussion against the theme dictionary and extracts
// consensus comments and controversial threads. Sources are analyzed as
// one corpus.
func (e *Engine) Themes(ctx context.Context, sources []corpus.Source, label string, th theme.Thresholds) (ThemeReport, error) {
	if err := checkSources(sources); err != nil {
		return ThemeReport{}, err
	}
	if e.comp.Themes == nil {
		return ThemeReport{}, fmt.Errorf("%w: no theme dictionary", internalerr.ErrInvalidConfig)
	}
	if err := ctx.Err(); err != nil {
		return ThemeReport{}, err
	}
	records := make([]corpus.Record, 0, totalRecords(sources))
	rpt := ThemeReport{Label: label}
	for _, src := range sources {
		records = append(records, src.Records...)
		rpt.Manifests = append(rpt.Manifests, src.Manifest)
	}
	rpt.Report = theme.NewAnalyzer(e.comp.Themes, th).Analyze(records)
	e.log.Debug("themes matched",
		zap.Int("themes", rpt.Stats.Themes),
		zap.Int("consensus", rpt.Stats.Consensus),
		zap.Int("controversies", rpt.Stats.Controversies))

	scores := make([]store.CategoryScore, len(rpt.Themes))
	for i, t := range rpt.Themes {
		scores[i] = store.CategoryScore{Category: t.Theme, Count: t.Frequency, Share: t.FrequencyPct}
	}
	id, err := e.save(ctx, store.KindThemes, label, len(records), scores)
	if err != nil {
		return ThemeReport{}, err
	}
	rpt.RunID = id
	return rpt, nil
}

// PhraseOptions tunes Phrases.
type PhraseOptions struct {
	// Limit caps each phrase list. Default 20.
	Limit int
	// MinSupport is the minimum document count for a category pair. Default 2.
	MinSupport int64
	// MinDFPercent is the minimum share of uncovered documents a token must
	// appear in. Default 5.
	MinDFPercent float64
	// PainPoints tags documents with the pain point dictionary instead of
	// the benefit dictionary.
	PainPoints bool
	// Stopwords defaults to analytics.DefaultStopwordThresholds.
	Stopwords analytics.StopwordThresholds
}

func (o PhraseOptions) withDefaults() PhraseOptions {
	if o.Limit <= 0 {
		o.Limit = 20
	}
	if o.MinSupport <= 0 {
		o.MinSupport = 2
	}
	if o.MinDFPercent <= 0 {
		o.MinDFPercent = 5
	}
	return o
}

// PhraseReport is the result of Phrases.
type PhraseReport struct {
	TotalDocs  int64                         `json:"total_docs"`
	Uncovered  int64                         `json:"uncovered_docs"`
	Bigrams    []analytics.Phrase            `json:"bigrams"`
	Trigrams   []analytics.Phrase            `json:"trigrams"`
	Pairs      []analytics.CategoryPair      `json:"category_pairs"`
	Candidates []analytics.TokenStat         `json:"uncovered_tokens"`
	Stopwords  []analytics.StopwordCandidate `json:"stopword_candidates"`
	Unused     []patterns.PatternCoverage    `json:"unused_patterns"`
}

// Phrases mines recurring phrases, category co-occurrence and frequent
// tokens that no category covers. It also reports dictionary expressions
// that matched nothing, so stale patterns and missing vocabulary show up
// side by side.
func (e *Engine) Phrases(ctx context.Context, sources []corpus.Source, opts PhraseOptions) (PhraseReport, error) {
	if err := checkSources(sources); err != nil {
		return PhraseReport{}, err
	}
	opts = opts.withDefaults()
	set := e.comp.Benefits
	if opts.PainPoints {
		set = e.comp.PainPoints
	}
	pipe := ingest.NewPipeline(e.comp.Tokenizer, set.Present)
	an := analytics.NewAnalyzer()
	var texts []string
	for _, src := range sources {
		if err := ctx.Err(); err != nil {
			return PhraseReport{}, err
		}
		for _, r := range src.Records {
			if r.Text == "" {
				continue
			}
			texts = append(texts, r.Text)
			doc := pipe.Process(r.ID, r.Text)
			an.Process(doc.Tokens, doc.Categories)
		}
	}
	stats := an.Snapshot()
	return PhraseReport{
		TotalDocs:  stats.TotalDocs,
		Uncovered:  stats.UncoveredDocs,
		Bigrams:    stats.TopPhrases(2, opts.Limit),
		Trigrams:   stats.TopPhrases(3, opts.Limit),
		Pairs:      stats.CategoryPairs(opts.MinSupport),
		Candidates: stats.Uncovered(opts.MinDFPercent, opts.Limit),
		Stopwords:  stats.StopwordCandidates(opts.Stopwords),
		Unused:     patterns.Unused(set.Coverage(texts)),
	}, nil
}

// Runs lists stored runs, newest first.
func (e *Engine) Runs(ctx context.Context, kind string, limit int) ([]store.Run, error) {
	if e.store == nil {
		return nil, internalerr.ErrStoreUnavailable
	}
	return e.store.ListRuns(ctx, kind, limit)
}

// History returns a category's stored scores, oldest first.
func (e *Engine) History(ctx context.Context, kind, category string, limit int) ([]store.Point, error) {
	if e.store == nil {
		return nil, internalerr.ErrStoreUnavailable
	}
	return e.store.CategoryHistory(ctx, kind, category, limit)
}
