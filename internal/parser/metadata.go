package parser

import (
	"fmt"
	"regexp"

	"github.com/atikulmunna/piqlog/internal/model"
)

// Markers holds the patterns used to find session metadata in a log.
// An empty pattern falls back to the built-in one.
type Markers struct {
	Firmware     string `mapstructure:"firmware"`
	Software     string `mapstructure:"software"`
	OemFlavor    string `mapstructure:"oem_flavor"`
	DeviceFlavor string `mapstructure:"device_flavor"`
}

// DefaultMarkers returns the built-in Precision-IQ marker patterns.
func DefaultMarkers() Markers {
	return Markers{
		Firmware:     `Firmware Version\s*:\s+\d+\.\d+\.\d+\.\d+\.\d+`,
		Software:     `Precision-IQ version\s*:\s+\d+\.\d+\.\d+\.\d+\.\d+-\w+-\w+`,
		OemFlavor:    `Precision-IQ flavor oem\s*:\s+\w+`,
		DeviceFlavor: `Precision-IQ flavor device\s*:\s+\w+`,
	}
}

type marker struct {
	re    *regexp.Regexp
	field func(*model.SessionMetadata) *model.Token
}

// MetadataScanner looks for session metadata markers in raw lines.
type MetadataScanner struct {
	markers []marker
}

// NewMetadataScanner compiles the given markers.
func NewMetadataScanner(m Markers) (*MetadataScanner, error) {
	def := DefaultMarkers()
	specs := []struct {
		name     string
		pattern  string
		fallback string
		field    func(*model.SessionMetadata) *model.Token
	}{
		{"firmware", m.Firmware, def.Firmware, func(s *model.SessionMetadata) *model.Token { return &s.Firmware }},
		{"software", m.Software, def.Software, func(s *model.SessionMetadata) *model.Token { return &s.Software }},
		{"oem_flavor", m.OemFlavor, def.OemFlavor, func(s *model.SessionMetadata) *model.Token { return &s.OemFlavor }},
		{"device_flavor", m.DeviceFlavor, def.DeviceFlavor, func(s *model.SessionMetadata) *model.Token { return &s.DeviceFlavor }},
	}

	s := &MetadataScanner{}
	for _, spec := range specs {
		pattern := spec.pattern
		if pattern == "" {
			pattern = spec.fallback
		}
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid %s marker pattern: %w", spec.name, err)
		}
		s.markers = append(s.markers, marker{re: re, field: spec.field})
	}
	return s, nil
}

// Scan checks the unmodified line for every marker whose field is still
// absent and records the matched text. It returns how many fields were set.
func (s *MetadataScanner) Scan(text string, meta *model.SessionMetadata) int {
	set := 0
	for _, m := range s.markers {
		field := m.field(meta)
		if field.Present() {
			continue
		}
		if v := m.re.FindString(text); v != "" {
			*field = model.Some(v)
			set++
		}
	}
	return set
}
