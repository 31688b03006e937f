package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cognicore/voc/pkg/voc/report"
	"github.com/cognicore/voc/pkg/voc/store"
)

var (
	listKind    string
	historyKind string
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Inspect saved analysis runs",
}

var runsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List runs, newest first",
	Args:  cobra.NoArgs,
	RunE:  runRunsList,
}

var runsHistoryCmd = &cobra.Command{
	Use:   "history CATEGORY",
	Short: "Show a category's score across runs, oldest first",
	Args:  cobra.ExactArgs(1),
	RunE:  runRunsHistory,
}

func init() {
	runsListCmd.Flags().StringVar(&listKind, "kind", "", "benefits, painpoints, ladder or themes (default: all)")
	runsHistoryCmd.Flags().StringVar(&historyKind, "kind", store.KindBenefits, "benefits, painpoints, ladder or themes")
	runsCmd.AddCommand(runsListCmd, runsHistoryCmd)
}

func requireStore(cmd *cobra.Command) (store.Store, error) {
	if dbPath == "" {
		return nil, fmt.Errorf("--db is required")
	}
	return openStore(ctxOf(cmd))
}

func runRunsList(cmd *cobra.Command, args []string) error {
	st, err := requireStore(cmd)
	if err != nil {
		return err
	}
	defer st.Close()

	runs, err := st.ListRuns(ctxOf(cmd), listKind, limit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "no runs")
		return nil
	}
	report.RunTable(cmd.OutOrStdout(), runs)
	return writeOut(runs)
}

func runRunsHistory(cmd *cobra.Command, args []string) error {
	st, err := requireStore(cmd)
	if err != nil {
		return err
	}
	defer st.Close()

	points, err := st.CategoryHistory(ctxOf(cmd), historyKind, args[0], limit)
	if err != nil {
		return err
	}
	if len(points) == 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "no %s runs mention %s\n", historyKind, args[0])
		return nil
	}
	report.HistoryTable(cmd.OutOrStdout(), points)
	return writeOut(points)
}
