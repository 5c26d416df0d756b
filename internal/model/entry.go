package model

// RawLine is a single line read from a log source.
type RawLine struct {
	Number int    // 1-based line number
	Text   string // line text without the line terminator
	Source string // originating file path
}

// Fields holds the tokens extracted from one line.
type Fields struct {
	LineNumber int
	DateTime   Token
	LogLevel   Token // one of D, I, W, E, F
	PidTid     Token
	Tag        Token
	Remainder  string // free text left after extraction
}

// RunKey identifies lines that belong to the same logical event.
type RunKey struct {
	DateTime Token
	PidTid   Token
	Tag      Token
	LogLevel Token
}

// Key returns the run key of the extracted line.
func (f Fields) Key() RunKey {
	return RunKey{DateTime: f.DateTime, PidTid: f.PidTid, Tag: f.Tag, LogLevel: f.LogLevel}
}

// Summary is one logical event built from a run of consecutive lines.
type Summary struct {
	LineNumber int    `json:"lineNumber" yaml:"lineNumber"`
	DateTime   Token  `json:"dateTime" yaml:"dateTime"`
	LogLevel   Token  `json:"logLevel" yaml:"logLevel"`
	PidTid     Token  `json:"pidTid" yaml:"pidTid"`
	Tag        Token  `json:"tag" yaml:"tag"`
	Log        string `json:"log" yaml:"log"`
}

// Key returns the run key shared by every line folded into the summary.
func (s Summary) Key() RunKey {
	return RunKey{DateTime: s.DateTime, PidTid: s.PidTid, Tag: s.Tag, LogLevel: s.LogLevel}
}

// SessionMetadata holds version identifiers scraped from anywhere in a file.
// Each field is written at most once; later values are ignored.
type SessionMetadata struct {
	Firmware     Token `json:"ota" yaml:"ota"`
	Software     Token `json:"piQVersion" yaml:"piQVersion"`
	OemFlavor    Token `json:"oemFlavor" yaml:"oemFlavor"`
	DeviceFlavor Token `json:"deviceFlavor" yaml:"deviceFlavor"`
}

// Complete reports whether all four identifiers have been found.
func (m SessionMetadata) Complete() bool {
	return m.Firmware.Present() && m.Software.Present() &&
		m.OemFlavor.Present() && m.DeviceFlavor.Present()
}

// Session carries the externally supplied identifiers of one log file.
type Session struct {
	LogID  Token
	Cycle  Token
	Ticket Token
}

// Entry is a finished Summary enriched with session data.
type Entry struct {
	LogID        Token   `json:"logId" yaml:"logId"`
	LogCycle     Token   `json:"logCycle" yaml:"logCycle"`
	OTA          Token   `json:"ota" yaml:"ota"`
	PiQVersion   Token   `json:"piQVersion" yaml:"piQVersion"`
	OemFlavor    Token   `json:"oemFlavor" yaml:"oemFlavor"`
	DeviceFlavor Token   `json:"deviceFlavor" yaml:"deviceFlavor"`
	Ticket       Token   `json:"ticket" yaml:"ticket"`
	Source       string  `json:"source,omitempty" yaml:"source,omitempty"`
	Summary      Summary `json:"summary" yaml:"summary"`
}
