package metadata

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDurationUnsupportedFormat(t *testing.T) {
	prober := NewProber()

	testCases := []string{"song.ogg", "song.opus", "song.wma", "song.ape", "notes.txt"}
	for _, name := range testCases {
		t.Run(name, func(t *testing.T) {
			if _, err := prober.Duration(name); err == nil {
				t.Errorf("expected unsupported-format error for %s", name)
			}
		})
	}
}

func TestProbeNonExistentFile(t *testing.T) {
	prober := NewProber()

	if _, err := prober.Probe("/nonexistent/file.mp3"); err == nil {
		t.Error("expected error when probing a non-existent file")
	}
}

func TestProbeInvalidFile(t *testing.T) {
	prober := NewProber()

	testDir := t.TempDir()
	invalidFile := filepath.Join(testDir, "invalid.mp3")
	if err := os.WriteFile(invalidFile, []byte("this is not an audio file"), 0644); err != nil {
		t.Fatalf("failed to create test file: %v", err)
	}

	// An untaggable file is a probe failure: the scanner catalogs it with
	// null metadata rather than fabricating tags here.
	if _, err := prober.Probe(invalidFile); err == nil {
		t.Error("expected error when probing a file with no readable tags")
	}
}

func TestDurationInvalidFlac(t *testing.T) {
	prober := NewProber()

	testDir := t.TempDir()
	invalidFile := filepath.Join(testDir, "invalid.flac")
	if err := os.WriteFile(invalidFile, []byte("not a flac stream"), 0644); err != nil {
		t.Fatalf("failed to create test file: %v", err)
	}

	if _, err := prober.Duration(invalidFile); err == nil {
		t.Error("expected error for invalid flac data")
	}
}

func TestDurationAACEstimatesFromSize(t *testing.T) {
	prober := NewProber()

	// ADTS streams have no container metadata, so duration is an
	// estimate from the file size at an assumed bitrate.
	testDir := t.TempDir()
	aacFile := filepath.Join(testDir, "stream.aac")
	if err := os.WriteFile(aacFile, make([]byte, 32000), 0644); err != nil {
		t.Fatalf("failed to create test file: %v", err)
	}

	secs, err := prober.Duration(aacFile)
	if err != nil {
		t.Fatalf("Duration: %v", err)
	}
	if secs != 2 { // 32000 bytes * 8 bits / 128000 bps
		t.Errorf("expected 2s estimate, got %d", secs)
	}
}

func TestOptionalString(t *testing.T) {
	if got := optionalString(""); got != nil {
		t.Errorf("empty string should map to nil, got %q", *got)
	}
	if got := optionalString("   "); got != nil {
		t.Errorf("whitespace should map to nil, got %q", *got)
	}
	if got := optionalString("Artist"); got == nil || *got != "Artist" {
		t.Errorf("non-empty string should survive, got %v", got)
	}
}
