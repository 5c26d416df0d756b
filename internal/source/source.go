package source

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/atikulmunna/piqlog/internal/model"
)

// DefaultMaxLineBytes bounds the length of a single line.
const DefaultMaxLineBytes = 4 << 20

const lineBuffer = 512

// ErrUnavailable matches any error raised while opening or reading a source.
var ErrUnavailable = errors.New("source unavailable")

// UnavailableError reports a log file that could not be opened or read.
type UnavailableError struct {
	Path string
	Err  error
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("%s: %s: %v", ErrUnavailable, e.Path, e.Err)
}

func (e *UnavailableError) Unwrap() error { return e.Err }

// Is lets errors.Is(err, ErrUnavailable) match.
func (e *UnavailableError) Is(target error) bool { return target == ErrUnavailable }

// Reader streams the lines of one file, numbered from 1.
//
// A Reader is single use: once Lines is closed the file has been released and
// a new Reader is needed to scan it again.
type Reader struct {
	path    string
	maxLine int
	out     chan model.RawLine
	err     error
}

// New creates a Reader for path. maxLineBytes <= 0 selects the default.
func New(path string, maxLineBytes int) *Reader {
	if maxLineBytes <= 0 {
		maxLineBytes = DefaultMaxLineBytes
	}
	return &Reader{
		path:    path,
		maxLine: maxLineBytes,
		out:     make(chan model.RawLine, lineBuffer),
	}
}

// Path returns the file path being read.
func (r *Reader) Path() string { return r.path }

// Lines returns the channel where raw lines are sent.
func (r *Reader) Lines() <-chan model.RawLine {
	return r.out
}

// Err returns the read error, if any. It is only valid after Lines is closed.
func (r *Reader) Err() error {
	return r.err
}

// Start reads the file to the end, or until the context is cancelled, and
// closes the Lines channel.
func (r *Reader) Start(ctx context.Context) {
	defer close(r.out)

	f, err := os.Open(r.path)
	if err != nil {
		r.err = &UnavailableError{Path: r.path, Err: err}
		return
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), r.maxLine)

	n := 0
	for scanner.Scan() {
		n++
		select {
		case <-ctx.Done():
			r.err = ctx.Err()
			return
		case r.out <- model.RawLine{Number: n, Text: scanner.Text(), Source: r.path}:
		}
	}

	if err := scanner.Err(); err != nil {
		r.err = &UnavailableError{Path: r.path, Err: fmt.Errorf("line %d: %w", n+1, err)}
	}
}
