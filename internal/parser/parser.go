package parser

import (
	"regexp"
	"strings"

	"github.com/atikulmunna/piqlog/internal/model"
)

// ---------------------------------------------------------------------------
// Line patterns
// ---------------------------------------------------------------------------

var (
	// 01-02 03:04:05.678
	dateTimeRe = regexp.MustCompile(`\d\d-\d\d\s(?:\d\d:){2}\d\d\.\d{3}`)
	// 111   222
	pidTidRe = regexp.MustCompile(`\d+\s+\d+`)
	// single severity letter with one space on each side
	levelRe = regexp.MustCompile(`\s[DIWEF]\s`)
	// MyTag:
	tagRe = regexp.MustCompile(`\S+:`)
)

// ---------------------------------------------------------------------------
// Extractor
// ---------------------------------------------------------------------------

// Extractor pulls the date-time, PID/TID, level and tag tokens out of a line.
//
// Each token is searched for anywhere in the text that remains after the
// previous token; a hit keeps only the text after the match, a miss leaves the
// text untouched. What is left over is the free-text remainder.
type Extractor struct {
	steps []*regexp.Regexp
}

// NewExtractor returns an Extractor using the device log patterns.
func NewExtractor() *Extractor {
	return &Extractor{
		steps: []*regexp.Regexp{dateTimeRe, pidTidRe, levelRe, tagRe},
	}
}

// Extract splits one raw line into its fields. It never fails: a pattern that
// does not match yields an absent token.
func (e *Extractor) Extract(number int, text string) model.Fields {
	var tokens [4]model.Token
	rest := text
	for i, re := range e.steps {
		tokens[i], rest = consume(rest, re)
	}

	return model.Fields{
		LineNumber: number,
		DateTime:   tokens[0],
		PidTid:     tokens[1],
		LogLevel:   tokens[2],
		Tag:        tokens[3],
		Remainder:  strings.TrimSpace(rest),
	}
}

// consume finds the first match of re in text and returns the trimmed match
// together with everything after it.
func consume(text string, re *regexp.Regexp) (model.Token, string) {
	loc := re.FindStringIndex(text)
	if loc == nil {
		return model.None(), text
	}
	return model.Some(strings.TrimSpace(text[loc[0]:loc[1]])), text[loc[1]:]
}
