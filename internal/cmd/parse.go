package cmd

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/atikulmunna/piqlog/internal/output"
	"github.com/atikulmunna/piqlog/internal/watcher"
)

var parseCmd = &cobra.Command{
	Use:   "parse [paths...]",
	Short: "Parse log files and print their entries",
	Long: `Parse one or more log files (or glob patterns) and print one entry per
logical event. Each file is scanned on its own: session metadata never leaks
from one file to another, and a file that cannot be read produces no entries.

Examples:
  piqlog parse device.log
  piqlog parse "logs/**/*.log" --output json
  piqlog parse device.log --level F --ticket PIQ-1234`,
	Args: cobra.MinimumNArgs(1),
	RunE: runParse,
}

func init() {
	rootCmd.AddCommand(parseCmd)
}

func runParse(cmd *cobra.Command, args []string) error {
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

	renderer, err := output.New(cfg.Output, os.Stdout)
	if err != nil {
		return err
	}
	filter := output.ParseLevels(cfg.Level)
	session := cfg.SessionIDs()

	var failed int
	for _, path := range paths {
		rep, err := scanner.File(ctx, path, session)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			log.Printf("parse %s: %v", path, err)
			failed++
			continue
		}
		for _, entry := range rep.Entries {
			if !filter.Allow(entry) {
				continue
			}
			if err := renderer.Render(entry); err != nil {
				return fmt.Errorf("render error: %w", err)
			}
		}
	}

	if err := closeRenderer(renderer); err != nil {
		return err
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d files could not be parsed", failed, len(paths))
	}
	return nil
}
