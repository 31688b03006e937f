package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cognicore/voc/pkg/voc"
	"github.com/cognicore/voc/pkg/voc/config"
	"github.com/cognicore/voc/pkg/voc/corpus"
	"github.com/cognicore/voc/pkg/voc/report"
	"github.com/cognicore/voc/pkg/voc/store"
	"github.com/cognicore/voc/pkg/voc/store/sqlite"
	"github.com/cognicore/voc/pkg/voc/theme"
)

var (
	label        string
	markdownPath string
	reportTitle  string
	phrasePains  bool
	minSupport   int64
	minDFPercent float64

	consensusScore   int
	controversyScore int
)

var benefitsCmd = &cobra.Command{
	Use:   "benefits SOURCE...",
	Short: "Score benefit importance and satisfaction per source and combined",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runBenefits,
}

var painPointsCmd = &cobra.Command{
	Use:   "painpoints SOURCE...",
	Short: "Count pain points per platform and run the review panel",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runPainPoints,
}

var ladderCmd = &cobra.Command{
	Use:   "ladder SOURCE...",
	Short: "Extract jobs, problems and aspirations with evidence",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runLadder,
}

var themesCmd = &cobra.Command{
	Use:   "themes SOURCE...",
	Short: "Match discussions to themes and find consensus and controversy in comments",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runThemes,
}

var phrasesCmd = &cobra.Command{
	Use:   "phrases SOURCE...",
	Short: "Mine recurring phrases, category co-occurrence and uncovered terms",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runPhrases,
}

func init() {
	for _, c := range []*cobra.Command{benefitsCmd, painPointsCmd, ladderCmd, themesCmd} {
		c.Flags().StringVar(&label, "label", "", "label stored with the run")
	}
	ladderCmd.Flags().StringVar(&markdownPath, "markdown", "", "write the Markdown ladder report to this path")
	ladderCmd.Flags().StringVar(&reportTitle, "title", "Insight Ladder", "Markdown report title")
	themesCmd.Flags().IntVar(&consensusScore, "consensus-score", 50, "minimum comment score for a consensus comment")
	themesCmd.Flags().IntVar(&controversyScore, "controversy-score", 20, "minimum comment score for a position in a controversy")
	phrasesCmd.Flags().BoolVar(&phrasePains, "pains", false, "tag documents with pain points instead of benefits")
	phrasesCmd.Flags().Int64Var(&minSupport, "min-support", 2, "minimum documents for a category pair")
	phrasesCmd.Flags().Float64Var(&minDFPercent, "min-df", 5, "minimum percent of uncovered documents for a candidate term")
}

func ctxOf(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func log() *zap.Logger {
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}

func loadComponents() (*config.Components, error) {
	loader := config.Loader{
		BenefitsPath:   benefitsPath,
		PainPointsPath: painPointsPath,
		SentimentPath:  sentimentPath,
		LadderPath:     ladderPath,
		StoplistPath:   stoplistPath,
		ThemesPath:     themesPath,
	}
	comp, err := loader.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return comp, nil
}

func openStore(ctx context.Context) (store.Store, error) {
	if dbPath == "" {
		return nil, nil
	}
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	st, err := sqlite.OpenSQLite(ctx, dbPath)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	return st, nil
}

func buildEngine(ctx context.Context) (*voc.Engine, func(), error) {
	comp, err := loadComponents()
	if err != nil {
		return nil, nil, err
	}
	st, err := openStore(ctx)
	if err != nil {
		return nil, nil, err
	}
	engine, err := voc.New(voc.Options{Components: comp, Store: st, Logger: log()})
	if err != nil {
		if st != nil {
			st.Close()
		}
		return nil, nil, err
	}
	cleanup := func() {
		if err := engine.Close(); err != nil {
			log().Warn("close engine", zap.Error(err))
		}
	}
	return engine, cleanup, nil
}

// loadSources parses SOURCE arguments, loads them concurrently and applies
// the scope filter.
func loadSources(ctx context.Context, args []string) ([]corpus.Source, error) {
	specs := make([]corpus.SourceSpec, 0, len(args))
	for _, a := range args {
		spec, err := corpus.ParseSourceSpec(a)
		if err != nil {
			return nil, err
		}
		specs = append(specs, spec)
	}
	sources, err := corpus.LoadSources(ctx, specs, corpus.Options{StripHTML: stripHTML, Logger: log()})
	if err != nil {
		return nil, err
	}
	for _, s := range sources {
		log().Info("loaded source", zap.String("source", s.Spec.Name), zap.Int("records", len(s.Records)))
	}
	return applyScope(sources)
}

// applyScope filters each source by its scope platform: --platform when
// set, otherwise the platform named like the source.
func applyScope(sources []corpus.Source) ([]corpus.Source, error) {
	if scopePath == "" {
		return sources, nil
	}
	scope, err := config.LoadScope(scopePath)
	if err != nil {
		return nil, err
	}
	if platform != "" {
		if _, ok := scope.Platform(platform); !ok {
			return nil, fmt.Errorf("scope has no platform %q (have %s)", platform, strings.Join(scope.PlatformNames(), ", "))
		}
	}
	for i, s := range sources {
		name := platform
		if name == "" {
			name = s.Spec.Name
		}
		p, ok := scope.Platform(name)
		if !ok {
			log().Debug("no scope for source", zap.String("source", s.Spec.Name))
			continue
		}
		filter, err := p.Filter()
		if err != nil {
			return nil, err
		}
		kept := corpus.Filter(s.Records, filter)
		log().Info("scope applied",
			zap.String("source", s.Spec.Name),
			zap.String("platform", name),
			zap.Int("before", len(s.Records)),
			zap.Int("after", len(kept)))
		sources[i].Records = kept
		sources[i].Manifest = corpus.BuildManifest(s.Spec.Name, kept)
	}
	return sources, nil
}

func writeOut(v any) error {
	if outPath == "" {
		return nil
	}
	if err := report.WriteJSON(outPath, v); err != nil {
		return err
	}
	log().Info("report written", zap.String("path", outPath))
	return nil
}

func manifests(sources []corpus.Source) []corpus.Manifest {
	out := make([]corpus.Manifest, len(sources))
	for i, s := range sources {
		out[i] = s.Manifest
	}
	return out
}

func runBenefits(cmd *cobra.Command, args []string) error {
	ctx := ctxOf(cmd)
	engine, cleanup, err := buildEngine(ctx)
	if err != nil {
		return err
	}
	defer cleanup()
	return benefits(ctx, engine, args, cmd.OutOrStdout())
}

func benefits(ctx context.Context, engine *voc.Engine, args []string, w io.Writer) error {
	sources, err := loadSources(ctx, args)
	if err != nil {
		return err
	}
	rpt, err := engine.Benefits(ctx, sources, label)
	if err != nil {
		return err
	}
	report.ManifestTable(w, manifests(sources))
	for _, s := range rpt.Sources {
		fmt.Fprintf(w, "\n%s\n", s.Source)
		report.BenefitTable(w, s.Scores, limit)
	}
	if len(rpt.Sources) > 1 {
		fmt.Fprintln(w, "\nCombined")
		report.BenefitTable(w, rpt.Combined, limit)
	}
	fmt.Fprintln(w)
	report.MatrixTable(w, rpt.Matrix)
	printRunID(w, rpt.RunID)
	return writeOut(rpt)
}

func runPainPoints(cmd *cobra.Command, args []string) error {
	ctx := ctxOf(cmd)
	engine, cleanup, err := buildEngine(ctx)
	if err != nil {
		return err
	}
	defer cleanup()
	return painPoints(ctx, engine, args, cmd.OutOrStdout())
}

func painPoints(ctx context.Context, engine *voc.Engine, args []string, w io.Writer) error {
	sources, err := loadSources(ctx, args)
	if err != nil {
		return err
	}
	rpt, err := engine.PainPoints(ctx, sources, label)
	if err != nil {
		return err
	}
	report.ManifestTable(w, rpt.Manifests)
	for _, p := range rpt.Platforms {
		fmt.Fprintf(w, "\n%s (%d records)\n", p.Platform, p.TotalRecords)
		report.PainPointTable(w, p)
	}
	fmt.Fprintln(w)
	report.ReviewTable(w, rpt.Review)
	fmt.Fprintf(w, "%d audit entries\n", len(rpt.Audit))
	printRunID(w, rpt.RunID)
	return writeOut(rpt)
}

func runLadder(cmd *cobra.Command, args []string) error {
	ctx := ctxOf(cmd)
	engine, cleanup, err := buildEngine(ctx)
	if err != nil {
		return err
	}
	defer cleanup()
	return ladderReport(ctx, engine, args, cmd.OutOrStdout())
}

func ladderReport(ctx context.Context, engine *voc.Engine, args []string, w io.Writer) error {
	sources, err := loadSources(ctx, args)
	if err != nil {
		return err
	}
	rpt, err := engine.Ladder(ctx, sources, label)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "%d documents, %d participants\n", rpt.TotalDocs, rpt.Participants)
	fmt.Fprintln(w, "\nJobs")
	for _, j := range rpt.Jobs {
		fmt.Fprintf(w, "  %-50s %d\n", j.Name, j.Count)
	}
	fmt.Fprintln(w, "\nProblems")
	for _, p := range rpt.Problems {
		fmt.Fprintf(w, "  %-50s %d  pain=%s satisfaction=%s\n", p.Name, p.Count, p.Pain, p.Satisfaction)
	}
	fmt.Fprintln(w, "\nAspirations")
	for _, a := range rpt.Aspirations {
		fmt.Fprintf(w, "  %-50s %d\n", a.Name, a.Count)
	}
	printRunID(w, rpt.RunID)

	if markdownPath != "" {
		if err := writeMarkdown(markdownPath, rpt); err != nil {
			return err
		}
	}
	return writeOut(rpt)
}

func writeMarkdown(path string, rpt voc.LadderReport) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := report.WriteLadderMarkdown(f, reportTitle, rpt.Report); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	log().Info("markdown written", zap.String("path", path))
	return nil
}

func runThemes(cmd *cobra.Command, args []string) error {
	ctx := ctxOf(cmd)
	engine, cleanup, err := buildEngine(ctx)
	if err != nil {
		return err
	}
	defer cleanup()
	return themes(ctx, engine, args, cmd.OutOrStdout())
}

func themes(ctx context.Context, engine *voc.Engine, args []string, w io.Writer) error {
	sources, err := loadSources(ctx, args)
	if err != nil {
		return err
	}
	rpt, err := engine.Themes(ctx, sources, label, theme.Thresholds{
		ConsensusScore:   consensusScore,
		ControversyScore: controversyScore,
	})
	if err != nil {
		return err
	}
	st := rpt.Stats
	fmt.Fprintf(w, "%d discussions, %d comments, %d citations\n\n", st.TotalDiscussions, st.TotalComments, st.TotalCitations)
	report.ThemeTable(w, rpt.Themes)
	if len(rpt.Consensus) > 0 {
		fmt.Fprintln(w, "\nConsensus")
		report.ConsensusTable(w, rpt.Consensus)
	}
	if len(rpt.Controversies) > 0 {
		fmt.Fprintln(w, "\nControversies")
		report.ControversyTable(w, rpt.Controversies)
	}
	printRunID(w, rpt.RunID)
	return writeOut(rpt)
}

func runPhrases(cmd *cobra.Command, args []string) error {
	ctx := ctxOf(cmd)
	engine, cleanup, err := buildEngine(ctx)
	if err != nil {
		return err
	}
	defer cleanup()
	return phrases(ctx, engine, args, cmd.OutOrStdout())
}

func phrases(ctx context.Context, engine *voc.Engine, args []string, w io.Writer) error {
	sources, err := loadSources(ctx, args)
	if err != nil {
		return err
	}
	rpt, err := engine.Phrases(ctx, sources, voc.PhraseOptions{
		Limit:        limit,
		MinSupport:   minSupport,
		MinDFPercent: minDFPercent,
		PainPoints:   phrasePains,
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "%d documents, %d matched no category\n\n", rpt.TotalDocs, rpt.Uncovered)
	report.PhraseTable(w, rpt.Bigrams)
	report.PhraseTable(w, rpt.Trigrams)
	fmt.Fprintln(w, "\nCategory co-occurrence")
	report.CategoryPairTable(w, rpt.Pairs)
	fmt.Fprintln(w, "\nFrequent terms outside every category")
	report.UncoveredTable(w, rpt.Candidates)
	if len(rpt.Unused) > 0 {
		fmt.Fprintf(w, "\n%d dictionary patterns matched nothing\n", len(rpt.Unused))
		for _, u := range rpt.Unused {
			fmt.Fprintf(w, "  %s: %s\n", u.Category, u.Pattern)
		}
	}
	if len(rpt.Stopwords) > 0 {
		fmt.Fprintln(w, "\nStoplist suggestions")
		report.StopwordTable(w, rpt.Stopwords)
	}
	return writeOut(rpt)
}

func printRunID(w io.Writer, id string) {
	if id != "" {
		fmt.Fprintf(w, "\nrun %s saved\n", id)
	}
}
