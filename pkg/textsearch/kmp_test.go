package textsearch

import (
	"strings"
	"testing"
)

func TestIndex(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		pattern string
		want    int
	}{
		{"simple hit", "motion to dismiss", "dismiss", 10},
		{"at start", "affidavit of service", "affidavit", 0},
		{"miss", "motion to dismiss", "appeal", -1},
		{"empty pattern", "anything", "", 0},
		{"empty text", "", "x", -1},
		{"pattern longer than text", "ab", "abc", -1},
		{"repeated prefix", "aaabaaab", "aaab", 0},
		{"needs fallback", "ababcababd", "ababd", 5},
		{"exact match", "deed", "deed", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Index(tt.text, tt.pattern); got != tt.want {
				t.Errorf("Index(%q, %q) = %d, want %d", tt.text, tt.pattern, got, tt.want)
			}
		})
	}
}

func TestIndex_AgreesWithStdlib(t *testing.T) {
	texts := []string{
		"the plaintiff alleges breach of contract",
		"aabaabaaab",
		"mississippi",
	}
	patterns := []string{"a", "ab", "aab", "ssi", "plaintiff", "zz", ""}
	for _, text := range texts {
		for _, p := range patterns {
			if got, want := Index(text, p), strings.Index(text, p); got != want {
				t.Errorf("Index(%q, %q) = %d, stdlib says %d", text, p, got, want)
			}
		}
	}
}

func TestFindAll(t *testing.T) {
	hits := FindAll("aaaa", "aa")
	want := []int{0, 1, 2}
	if len(hits) != len(want) {
		t.Fatalf("FindAll = %v, want %v", hits, want)
	}
	for i := range want {
		if hits[i] != want[i] {
			t.Fatalf("FindAll = %v, want %v", hits, want)
		}
	}

	if hits := FindAll("abc", "d"); hits != nil {
		t.Errorf("FindAll miss = %v, want nil", hits)
	}
}

func TestContains(t *testing.T) {
	if !Contains("witness statement", "witness") {
		t.Error("Contains missed an occurrence")
	}
	if Contains("witness statement", "verdict") {
		t.Error("Contains reported a false occurrence")
	}
}
