package domain

import (
	"strings"
	"testing"
)

func TestNextNoteName(t *testing.T) {
	tests := []struct {
		existing []string
		want     string
	}{
		{existing: nil, want: "Note1"},
		{existing: []string{"Note1", "Note2"}, want: "Note3"},
		{existing: []string{"Note2", "Other"}, want: "Note1"},
		{existing: []string{"Note1", "Note3"}, want: "Note2"},
	}

	for _, tt := range tests {
		if got := NextNoteName(tt.existing); got != tt.want {
			t.Errorf("NextNoteName(%v) = %q, want %q", tt.existing, got, tt.want)
		}
	}
}

func TestIsCanvasColor(t *testing.T) {
	valid := []string{"#FBFCFF", "#000000", "#abcdef"}
	invalid := []string{"FBFCFF", "#FFF", "#GGGGGG", "#1234567"}
	for _, c := range valid {
		if !IsCanvasColor(c) {
			t.Errorf("expected %q to be a color", c)
		}
	}
	for _, c := range invalid {
		if IsCanvasColor(c) {
			t.Errorf("expected %q to be rejected", c)
		}
	}
}

func TestNewToken(t *testing.T) {
	seen := map[string]bool{}
	for range 100 {
		tok := NewToken()
		if len(tok) != 22 {
			t.Fatalf("expected 22 characters, got %d (%q)", len(tok), tok)
		}
		if seen[tok] {
			t.Fatalf("duplicate token %q", tok)
		}
		seen[tok] = true
	}
	if !TokenMatches("abc", "abc") || TokenMatches("abc", "abd") {
		t.Errorf("TokenMatches mismatch")
	}
}

func TestNewContentKey(t *testing.T) {
	key := NewContentKey("owner-1")
	if !strings.HasPrefix(key, "owner-1/") || len(key) != len("owner-1/")+32 {
		t.Errorf("unexpected content key %q", key)
	}
}
