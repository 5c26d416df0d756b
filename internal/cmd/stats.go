package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/atikulmunna/piqlog/internal/aggregator"
	"github.com/atikulmunna/piqlog/internal/output"
	"github.com/atikulmunna/piqlog/internal/watcher"
)

var statsCmd = &cobra.Command{
	Use:   "stats [paths...]",
	Short: "Summarize entries per file and level",
	Long: `Scan log files and print a table with line and entry counts per level,
whether all four session identifiers were found, and the firmware version.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	cfg, scanner, err := setup()
	if err != nil {
		return err
	}

	paths := watcher.Expand(args)
	if len(paths) == 0 {
		return fmt.Errorf("no files matched the given patterns: %v", args)
	}

	agg := aggregator.New(nil)
	session := cfg.SessionIDs()
	for _, path := range paths {
		rep, err := scanner.File(ctx, path, session)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			agg.Fail(path, err)
			continue
		}
		agg.Record(rep)
	}

	return output.WriteStats(os.Stdout, agg.Snapshot())
}
