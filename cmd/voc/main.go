// Command voc scores voice-of-customer corpora: benefits, pain points,
// the jobs/problems/aspirations ladder and recurring phrases.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cognicore/voc/internal/logging"
)

var (
	logger *zap.Logger

	verbose   bool
	logFormat string
	dbPath    string
	outPath   string
	scopePath string
	platform  string
	stripHTML bool
	limit     int

	benefitsPath   string
	painPointsPath string
	sentimentPath  string
	ladderPath     string
	stoplistPath   string
	themesPath     string
)

var rootCmd = &cobra.Command{
	Use:   "voc",
	Short: "Voice-of-customer signal extraction",
	Long: `voc extracts benefits, pain points, insight ladders and discussion themes
from exported customer text (Reddit posts, video metadata, transcripts,
reviews).

Sources are given as name=path[@field,field]. The optional field list
picks the record text in fallback order.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		logger, err = logging.New(logFormat, verbose)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	pf.StringVar(&logFormat, "log-format", "console", "log format: console or json")
	pf.StringVar(&dbPath, "db", "", "SQLite run history (runs are not saved when empty)")
	pf.StringVarP(&outPath, "out", "o", "", "write the JSON report to this path")
	pf.StringVar(&scopePath, "scope", "", "JSON scope definition used to filter records")
	pf.StringVar(&platform, "platform", "", "scope platform applied to every source (default: the source name)")
	pf.BoolVar(&stripHTML, "strip-html", false, "remove HTML markup from record text")
	pf.IntVarP(&limit, "limit", "n", 20, "rows per console table")

	pf.StringVar(&benefitsPath, "benefits", "", "benefit pattern YAML (default: built in)")
	pf.StringVar(&painPointsPath, "painpoints", "", "pain point pattern YAML (default: built in)")
	pf.StringVar(&sentimentPath, "sentiment", "", "sentiment lexicon YAML (default: built in)")
	pf.StringVar(&ladderPath, "ladder", "", "ladder rung YAML (default: built in)")
	pf.StringVar(&stoplistPath, "stoplist", "", "stopword YAML (default: built in)")
	pf.StringVar(&themesPath, "themes", "", "discussion theme YAML (default: built in)")

	rootCmd.AddCommand(benefitsCmd, painPointsCmd, ladderCmd, themesCmd, phrasesCmd, runsCmd, watchCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
