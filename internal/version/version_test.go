package version

import (
	"strings"
	"testing"
)

func TestShortCommit(t *testing.T) {
	tests := []struct {
		name     string
		revision string
		modified bool
		want     string
	}{
		{"empty", "", true, ""},
		{"long", "0123456789abcdef", false, "0123456"},
		{"dirty", "0123456789abcdef", true, "0123456-dirty"},
		{"short", "abc", false, "abc"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := shortCommit(tt.revision, tt.modified); got != tt.want {
				t.Errorf("shortCommit(%q, %v) = %q, want %q", tt.revision, tt.modified, got, tt.want)
			}
		})
	}
}

func TestFull(t *testing.T) {
	if Version == "" || Commit == "" {
		t.Fatal("init should always populate Version and Commit")
	}
	if got := Full(); !strings.Contains(got, Version) || !strings.Contains(got, "commit: "+Commit) {
		t.Errorf("Full() = %q", got)
	}
}
