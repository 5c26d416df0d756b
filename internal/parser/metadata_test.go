package parser

import (
	"testing"

	"github.com/atikulmunna/piqlog/internal/model"
)

func TestMetadataScanDefaults(t *testing.T) {
	s, err := NewMetadataScanner(Markers{})
	if err != nil {
		t.Fatal(err)
	}

	var meta model.SessionMetadata
	lines := []string{
		"01-02 03:04:05.678  1  2 I Boot: Firmware Version : 1.2.3.4.5",
		"Precision-IQ version : 5.40.1.2.3-release-arm",
		"Precision-IQ flavor oem : acme",
		"Precision-IQ flavor device:   tablet",
	}
	for _, l := range lines {
		s.Scan(l, &meta)
	}

	if meta.Firmware != model.Some("Firmware Version : 1.2.3.4.5") {
		t.Errorf("expected firmware marker text, got %s", meta.Firmware)
	}
	if meta.Software != model.Some("Precision-IQ version : 5.40.1.2.3-release-arm") {
		t.Errorf("expected software marker text, got %s", meta.Software)
	}
	if meta.OemFlavor != model.Some("Precision-IQ flavor oem : acme") {
		t.Errorf("expected oem flavor, got %s", meta.OemFlavor)
	}
	if meta.DeviceFlavor != model.Some("Precision-IQ flavor device:   tablet") {
		t.Errorf("expected device flavor, got %s", meta.DeviceFlavor)
	}
	if !meta.Complete() {
		t.Error("expected metadata to be complete")
	}
}

func TestMetadataFirstWriteWins(t *testing.T) {
	s, err := NewMetadataScanner(DefaultMarkers())
	if err != nil {
		t.Fatal(err)
	}

	var meta model.SessionMetadata
	if n := s.Scan("Firmware Version : 1.2.3.4.5", &meta); n != 1 {
		t.Errorf("expected 1 field set, got %d", n)
	}
	if n := s.Scan("Firmware Version : 9.9.9.9.9", &meta); n != 0 {
		t.Errorf("expected no field set on second marker, got %d", n)
	}

	if meta.Firmware != model.Some("Firmware Version : 1.2.3.4.5") {
		t.Errorf("expected first firmware value to stick, got %s", meta.Firmware)
	}
}

func TestMetadataNoMatch(t *testing.T) {
	s, _ := NewMetadataScanner(Markers{})

	var meta model.SessionMetadata
	s.Scan("Firmware Version : 1.2", &meta)

	if meta.Firmware.Present() {
		t.Errorf("expected short version to be ignored, got %s", meta.Firmware)
	}
}

func TestMetadataCustomMarker(t *testing.T) {
	s, err := NewMetadataScanner(Markers{Firmware: `FW=\S+`})
	if err != nil {
		t.Fatal(err)
	}

	var meta model.SessionMetadata
	s.Scan("boot FW=7.1-rc2 ok Precision-IQ flavor oem : acme", &meta)

	if meta.Firmware != model.Some("FW=7.1-rc2") {
		t.Errorf("expected custom firmware match, got %s", meta.Firmware)
	}
	if meta.OemFlavor != model.Some("Precision-IQ flavor oem : acme") {
		t.Errorf("expected default oem marker to still apply, got %s", meta.OemFlavor)
	}
}

func TestMetadataInvalidPattern(t *testing.T) {
	_, err := NewMetadataScanner(Markers{Software: `[invalid`})
	if err == nil {
		t.Error("expected error for invalid marker regex")
	}
}
