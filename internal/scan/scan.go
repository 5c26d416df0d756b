package scan

import (
	"context"
	"fmt"

	"github.com/atikulmunna/piqlog/internal/coalesce"
	"github.com/atikulmunna/piqlog/internal/model"
	"github.com/atikulmunna/piqlog/internal/parser"
	"github.com/atikulmunna/piqlog/internal/source"
)

// Result is the outcome of scanning one line stream.
type Result struct {
	Summaries []model.Summary
	Metadata  model.SessionMetadata
	Lines     int
}

// Report is a fully assembled file.
type Report struct {
	Source   string
	Lines    int
	Metadata model.SessionMetadata
	Entries  []model.Entry
}

// Scanner runs field extraction, metadata scraping and run coalescing over
// a stream of lines in a single pass.
type Scanner struct {
	extractor    *parser.Extractor
	metadata     *parser.MetadataScanner
	maxLineBytes int
}

// Option configures a Scanner.
type Option func(*Scanner)

// WithMaxLineBytes bounds the length of a single source line.
func WithMaxLineBytes(n int) Option {
	return func(s *Scanner) { s.maxLineBytes = n }
}

// New creates a Scanner using the given metadata markers.
func New(markers parser.Markers, opts ...Option) (*Scanner, error) {
	meta, err := parser.NewMetadataScanner(markers)
	if err != nil {
		return nil, err
	}
	s := &Scanner{
		extractor: parser.NewExtractor(),
		metadata:  meta,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Scan consumes lines until the channel is closed. If the context is
// cancelled first, the open summary is dropped and no result is returned.
func (s *Scanner) Scan(ctx context.Context, lines <-chan model.RawLine) (*Result, error) {
	res := &Result{}
	c := coalesce.New()

	for {
		select {
		case <-ctx.Done():
			c.Discard()
			return nil, ctx.Err()
		case raw, ok := <-lines:
			if !ok {
				if last, ok := c.Flush(); ok {
					res.Summaries = append(res.Summaries, last)
				}
				return res, nil
			}
			res.Lines++
			s.metadata.Scan(raw.Text, &res.Metadata)
			if closed, ok := c.Fold(s.extractor.Extract(raw.Number, raw.Text)); ok {
				res.Summaries = append(res.Summaries, closed)
			}
		}
	}
}

// File scans the log at path and assembles its entries. Any failure to open
// or read the file is returned without a report.
func (s *Scanner) File(ctx context.Context, path string, session model.Session) (*Report, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	r := source.New(path, s.maxLineBytes)
	go r.Start(ctx)

	res, err := s.Scan(ctx, r.Lines())
	if err != nil {
		// Drain so the reader can observe cancellation and exit.
		for range r.Lines() {
		}
		return nil, fmt.Errorf("scan %s: %w", path, err)
	}
	if err := r.Err(); err != nil {
		return nil, err
	}

	entries := Assemble(session, res.Metadata, res.Summaries)
	for i := range entries {
		entries[i].Source = path
	}

	return &Report{
		Source:   path,
		Lines:    res.Lines,
		Metadata: res.Metadata,
		Entries:  entries,
	}, nil
}

// After returns the entries whose summary starts after the given line.
func (r *Report) After(line int) []model.Entry {
	for i, e := range r.Entries {
		if e.Summary.LineNumber > line {
			return r.Entries[i:]
		}
	}
	return nil
}

// LastLine returns the first line of the final entry, or 0 if there is none.
func (r *Report) LastLine() int {
	if len(r.Entries) == 0 {
		return 0
	}
	return r.Entries[len(r.Entries)-1].Summary.LineNumber
}
