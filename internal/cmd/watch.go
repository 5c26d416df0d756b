package cmd

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/atikulmunna/piqlog/internal/aggregator"
	"github.com/atikulmunna/piqlog/internal/hub"
	"github.com/atikulmunna/piqlog/internal/metrics"
	"github.com/atikulmunna/piqlog/internal/model"
	"github.com/atikulmunna/piqlog/internal/output"
	"github.com/atikulmunna/piqlog/internal/scan"
	"github.com/atikulmunna/piqlog/internal/server"
	"github.com/atikulmunna/piqlog/internal/watcher"
)

// rescanDelay batches bursts of write events into one re-scan per file.
const rescanDelay = 500 * time.Millisecond

var watchCmd = &cobra.Command{
	Use:   "watch [paths...]",
	Short: "Parse log files and re-parse them as they change",
	Long: `Watch one or more log files (or glob patterns). Every file is parsed once
at startup and parsed again from the beginning whenever it changes; only
entries that start after the last printed one are emitted, plus the last
printed entry again when more lines were added to it.

With --listen, an HTTP server exposes /healthz, /api/stats, /metrics and a
WebSocket stream of entries on /ws.

Examples:
  piqlog watch /data/piq/device.log
  piqlog watch "/data/piq/**/*.log" --level E,F --listen :9400`,
	Args: cobra.MinimumNArgs(1),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().String("listen", "", "address for the HTTP server (disabled when empty)")
	_ = viper.BindPFlag("listen", watchCmd.Flags().Lookup("listen"))
	rootCmd.AddCommand(watchCmd)
}

// watchState tracks what has already been emitted per file.
type watchState struct {
	lastLine map[string]int
	lastLog  map[string]string
	lines    map[string]int
}

func newWatchState() *watchState {
	return &watchState{
		lastLine: make(map[string]int),
		lastLog:  make(map[string]string),
		lines:    make(map[string]int),
	}
}

// fresh returns the entries of rep that still need to be emitted. A file
// that shrank is treated as rotated and emitted from the start. When lines
// were appended to the last emitted entry, that entry is emitted again in
// full ahead of the new ones; regrown is 1 in that case and 0 otherwise.
func (ws *watchState) fresh(rep *scan.Report) (out []model.Entry, regrown int) {
	src := rep.Source
	from := ws.lastLine[src]
	if rep.Lines < ws.lines[src] {
		from = 0
	}

	if from > 0 {
		for _, e := range rep.Entries {
			if e.Summary.LineNumber == from {
				if e.Summary.Log != ws.lastLog[src] {
					log.Printf("%s: entry at line %d grew, emitting it again", src, from)
					out = append(out, e)
					regrown = 1
				}
				break
			}
		}
	}
	out = append(out, rep.After(from)...)

	ws.lines[src] = rep.Lines
	ws.lastLine[src] = rep.LastLine()
	ws.lastLog[src] = ""
	if n := len(rep.Entries); n > 0 {
		ws.lastLog[src] = rep.Entries[n-1].Summary.Log
	}
	return out, regrown
}

func (ws *watchState) forget(path string) {
	delete(ws.lastLine, path)
	delete(ws.lastLog, path)
	delete(ws.lines, path)
}

func runWatch(cmd *cobra.Command, args []string) error {
	// --- Set up context with graceful shutdown ---
	ctx, cancel := signalContext()
	defer cancel()

	cfg, scanner, err := setup()
	if err != nil {
		return err
	}

	// --- Initialize watcher ---
	w, err := watcher.New(args)
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}

	watchedPaths := w.Paths()
	if len(watchedPaths) == 0 {
		return fmt.Errorf("no files matched the given patterns: %v", args)
	}

	fmt.Fprintf(os.Stderr, "piqlog watching %d file(s):\n", len(watchedPaths))
	for _, p := range watchedPaths {
		fmt.Fprintf(os.Stderr, "   • %s\n", p)
	}
	fmt.Fprintln(os.Stderr)

	// --- Choose renderer ---
	renderer, err := output.New(cfg.Output, os.Stdout)
	if err != nil {
		return err
	}
	filter := output.ParseLevels(cfg.Level)

	// --- Wire hub, stats and metrics ---
	entries := make(chan model.Entry, 1024)
	h := hub.New(entries)
	agg := aggregator.New(h.Dropped)
	m := metrics.New()

	printed := h.Subscribe(filter.Allow)
	renderDone := make(chan struct{})
	go func() {
		defer close(renderDone)
		for entry := range printed.C {
			if err := renderer.Render(entry); err != nil {
				log.Printf("render error: %v", err)
			}
		}
	}()

	if cfg.Listen != "" {
		srv := server.New(h, agg, m, cfg.Listen)
		go func() {
			fmt.Fprintf(os.Stderr, "piqlog serving on %s\n", cfg.Listen)
			if err := srv.Start(ctx); err != nil {
				log.Printf("server error: %v", err)
			}
		}()
	}

	go h.Start(ctx)
	go w.Start(ctx)

	// --- Scan loop ---
	state := newWatchState()
	session := cfg.SessionIDs()
	scanOne := func(path string) {
		start := time.Now()
		rep, err := scanner.File(ctx, path, session)
		m.ObserveScan(rep, time.Since(start))
		if err != nil {
			if ctx.Err() == nil {
				log.Printf("scan %s: %v", path, err)
				agg.Fail(path, err)
			}
			return
		}
		agg.Record(rep)
		out, regrown := state.fresh(rep)
		m.ObserveEntries(out[regrown:])
		for _, e := range out {
			select {
			case entries <- e:
			case <-ctx.Done():
				return
			}
		}
	}

	for _, p := range watchedPaths {
		scanOne(p)
	}

	events := w.Events
	pending := make(map[string]bool)
	ticker := time.NewTicker(rescanDelay)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			<-renderDone
			return closeRenderer(renderer)

		case ev, ok := <-events:
			if !ok {
				events = nil
				cancel()
				continue
			}
			switch {
			case ev.Changed():
				pending[ev.Path] = true
			case ev.Gone():
				// Rotated away: the next file under this name starts over.
				log.Printf("%s was removed or renamed, waiting for it to return", ev.Path)
				delete(pending, ev.Path)
				state.forget(ev.Path)
			}

		case <-ticker.C:
			for p := range pending {
				delete(pending, p)
				scanOne(p)
			}
		}
	}
}
