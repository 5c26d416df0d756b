package coalesce

import (
	"strings"

	"github.com/atikulmunna/piqlog/internal/model"
)

type state int

const (
	noOpenSummary state = iota
	openSummary
)

// Coalescer folds consecutive lines that share a run key into one Summary.
//
// It is a two-state machine: with no summary open, a line opens one; with a
// summary open, a line either extends it or closes it and opens the next.
// The owner must call Flush at end of input to emit the last run.
type Coalescer struct {
	state state
	open  model.Summary
	log   strings.Builder
}

// New returns a Coalescer with no open summary.
func New() *Coalescer {
	return &Coalescer{}
}

// Fold feeds one extracted line. When the line starts a new run, the
// previously open summary is returned with ok set.
func (c *Coalescer) Fold(f model.Fields) (closed model.Summary, ok bool) {
	switch c.state {
	case openSummary:
		if c.open.Key() == f.Key() {
			c.log.WriteByte('\n')
			c.log.WriteString(f.Remainder)
			return model.Summary{}, false
		}
		closed = c.finish()
		c.start(f)
		return closed, true
	default:
		c.start(f)
		return model.Summary{}, false
	}
}

// Flush closes the open summary, if any.
func (c *Coalescer) Flush() (model.Summary, bool) {
	if c.state != openSummary {
		return model.Summary{}, false
	}
	s := c.finish()
	c.state = noOpenSummary
	return s, true
}

// Discard drops the open summary without emitting it.
func (c *Coalescer) Discard() {
	c.state = noOpenSummary
	c.open = model.Summary{}
	c.log.Reset()
}

// Open reports whether a summary is currently open.
func (c *Coalescer) Open() bool {
	return c.state == openSummary
}

func (c *Coalescer) start(f model.Fields) {
	c.state = openSummary
	c.open = model.Summary{
		LineNumber: f.LineNumber,
		DateTime:   f.DateTime,
		LogLevel:   f.LogLevel,
		PidTid:     f.PidTid,
		Tag:        f.Tag,
	}
	c.log.Reset()
	c.log.WriteString(f.Remainder)
}

func (c *Coalescer) finish() model.Summary {
	s := c.open
	s.Log = c.log.String()
	return s
}
