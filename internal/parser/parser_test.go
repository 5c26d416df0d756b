package parser

import (
	"testing"

	"github.com/atikulmunna/piqlog/internal/model"
)

func TestExtractFullLine(t *testing.T) {
	e := NewExtractor()

	f := e.Extract(7, "01-02 03:04:05.678  111   222 E MyTag: boom")

	if f.LineNumber != 7 {
		t.Errorf("expected line number 7, got %d", f.LineNumber)
	}
	if f.DateTime != model.Some("01-02 03:04:05.678") {
		t.Errorf("expected date-time '01-02 03:04:05.678', got %s", f.DateTime)
	}
	if f.PidTid != model.Some("111   222") {
		t.Errorf("expected pid/tid '111   222', got %s", f.PidTid)
	}
	if f.LogLevel != model.Some("E") {
		t.Errorf("expected level E, got %s", f.LogLevel)
	}
	if f.Tag != model.Some("MyTag:") {
		t.Errorf("expected tag 'MyTag:', got %s", f.Tag)
	}
	if f.Remainder != "boom" {
		t.Errorf("expected remainder 'boom', got %q", f.Remainder)
	}
}

func TestExtractUnmatchedLine(t *testing.T) {
	e := NewExtractor()

	f := e.Extract(1, "  --------- beginning of main  ")

	if f.DateTime.Present() || f.PidTid.Present() || f.LogLevel.Present() || f.Tag.Present() {
		t.Errorf("expected all tokens absent, got %+v", f)
	}
	if f.Remainder != "--------- beginning of main" {
		t.Errorf("expected trimmed line as remainder, got %q", f.Remainder)
	}
}

func TestExtractBinaryLine(t *testing.T) {
	e := NewExtractor()

	f := e.Extract(3, "\x00\xff\xfe garbage")

	if f.DateTime.Present() || f.LogLevel.Present() {
		t.Errorf("expected no tokens from binary line, got %+v", f)
	}
	if f.Remainder != "\x00\xff\xfe garbage" {
		t.Errorf("expected whole line as remainder, got %q", f.Remainder)
	}
}

func TestExtractConsumesInOrder(t *testing.T) {
	e := NewExtractor()

	// The pid/tid search starts after the date-time, so the digits of the
	// timestamp are never mistaken for a pid/tid pair.
	f := e.Extract(1, "12-31 23:59:59.999 W Net: retry 3 4")

	if f.DateTime != model.Some("12-31 23:59:59.999") {
		t.Errorf("expected date-time, got %s", f.DateTime)
	}
	if f.PidTid != model.Some("3 4") {
		t.Errorf("expected pid/tid '3 4' from the message, got %s", f.PidTid)
	}
	// Level and tag are searched only after the pid/tid match, which ends the line.
	if f.LogLevel.Present() {
		t.Errorf("expected level absent, got %s", f.LogLevel)
	}
	if f.Tag.Present() {
		t.Errorf("expected tag absent, got %s", f.Tag)
	}
	if f.Remainder != "" {
		t.Errorf("expected empty remainder, got %q", f.Remainder)
	}
}

func TestExtractRequiresDotMillis(t *testing.T) {
	e := NewExtractor()

	f := e.Extract(1, "01-02 03:04:05,678 boot")

	if f.DateTime.Present() {
		t.Errorf("expected no date-time for comma milliseconds, got %s", f.DateTime)
	}
}

func TestExtractIdempotent(t *testing.T) {
	e := NewExtractor()
	lines := []string{
		"01-02 03:04:05.678  111   222 E MyTag: boom",
		"no structure at all",
		"",
		"Firmware Version : 1.2.3.4.5",
	}
	for _, line := range lines {
		a := e.Extract(1, line)
		b := e.Extract(1, line)
		if a != b {
			t.Errorf("extract not idempotent for %q: %+v vs %+v", line, a, b)
		}
	}
}

func TestExtractLevels(t *testing.T) {
	e := NewExtractor()
	for _, lvl := range []string{"D", "I", "W", "E", "F"} {
		t.Run(lvl, func(t *testing.T) {
			f := e.Extract(1, "01-02 03:04:05.678 1 2 "+lvl+" Tag: msg")
			if f.LogLevel != model.Some(lvl) {
				t.Errorf("expected level %s, got %s", lvl, f.LogLevel)
			}
		})
	}

	f := e.Extract(1, "01-02 03:04:05.678 1 2 V Tag: msg")
	if f.LogLevel.Present() {
		t.Errorf("expected V to be rejected, got %s", f.LogLevel)
	}
}

func TestExtractLevelNeedsTrailingSpace(t *testing.T) {
	e := NewExtractor()

	// Lines arrive without their terminator, so a level letter that ends the
	// line has no space after it and is left in the remainder.
	f := e.Extract(1, "01-02 03:04:05.678  111   222 E")

	if f.LogLevel.Present() {
		t.Errorf("expected level absent at end of line, got %s", f.LogLevel)
	}
	if f.Remainder != "E" {
		t.Errorf("expected remainder 'E', got %q", f.Remainder)
	}
}
