package logging

import (
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestNewLevels(t *testing.T) {
	cases := []struct {
		format  string
		verbose bool
		debug   bool
	}{
		{"", false, false},
		{"console", true, true},
		{"json", false, false},
		{"JSON", true, true},
	}
	for _, tc := range cases {
		log, err := New(tc.format, tc.verbose)
		if err != nil {
			t.Fatalf("New(%q): %v", tc.format, err)
		}
		if got := log.Core().Enabled(zapcore.DebugLevel); got != tc.debug {
			t.Errorf("New(%q, %v) debug enabled = %v", tc.format, tc.verbose, got)
		}
		if !log.Core().Enabled(zapcore.InfoLevel) {
			t.Errorf("New(%q) info disabled", tc.format)
		}
	}
}

func TestNewUnknownFormat(t *testing.T) {
	if _, err := New("xml", false); err == nil {
		t.Fatal("expected error")
	}
}
