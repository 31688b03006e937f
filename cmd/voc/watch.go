package main

import (
	"context"
	"fmt"
	"io"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cognicore/voc/pkg/voc"
	"github.com/cognicore/voc/pkg/voc/corpus"
	"github.com/cognicore/voc/pkg/voc/watch"
)

var debounce time.Duration

var watchCmd = &cobra.Command{
	Use:   "watch ANALYSIS SOURCE...",
	Short: "Re-run an analysis whenever a source changes",
	Long: `watch runs ANALYSIS (benefits, painpoints, ladder, themes or phrases)
once, then again every time one of the SOURCE files or directories changes.
Transcript folders inside a watched directory are watched too. Stop it with
Ctrl-C.`,
	Args: cobra.MinimumNArgs(2),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().DurationVar(&debounce, "debounce", watch.DefaultDebounce, "quiet period before re-running")
}

type analysis func(ctx context.Context, engine *voc.Engine, args []string, w io.Writer) error

var analyses = map[string]analysis{
	"benefits":   benefits,
	"painpoints": painPoints,
	"ladder":     ladderReport,
	"themes":     themes,
	"phrases":    phrases,
}

func runWatch(cmd *cobra.Command, args []string) error {
	run, ok := analyses[args[0]]
	if !ok {
		return fmt.Errorf("unknown analysis %q", args[0])
	}
	sources := args[1:]

	ctx, stop := signal.NotifyContext(ctxOf(cmd), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	engine, cleanup, err := buildEngine(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	return watchLoop(ctx, engine, run, sources, cmd.OutOrStdout())
}

func watchLoop(ctx context.Context, engine *voc.Engine, run analysis, sources []string, w io.Writer) error {
	paths := make([]string, 0, len(sources))
	for _, s := range sources {
		spec, err := corpus.ParseSourceSpec(s)
		if err != nil {
			return err
		}
		paths = append(paths, spec.Path)
	}

	if err := run(ctx, engine, sources, w); err != nil {
		log().Error("initial run failed", zap.Error(err))
	}

	watcher, err := watch.New(paths, debounce, func(ctx context.Context, changed []string) error {
		fmt.Fprintf(w, "\n--- %s changed ---\n", changed[0])
		return run(ctx, engine, sources, w)
	}, watch.WithLogger(log()))
	if err != nil {
		return err
	}
	if err := watcher.Start(ctx); err != nil {
		return err
	}
	defer watcher.Stop()

	log().Info("watching", zap.Strings("paths", paths))
	<-ctx.Done()
	return nil
}
