package textutil

import (
	"math"
	"testing"
)

func TestSequenceRatioBounds(t *testing.T) {
	cases := []struct {
		a, b string
		want float64
	}{
		{"", "", 1},
		{"abc", "abc", 1},
		{"abc", "xyz", 0},
		{"abcd", "bcde", 0.75},
	}
	for _, tc := range cases {
		got := SequenceRatio(tc.a, tc.b)
		if math.Abs(got-tc.want) > 1e-9 {
			t.Errorf("SequenceRatio(%q, %q) = %v, want %v", tc.a, tc.b, got, tc.want)
		}
	}
}

func TestSequenceRatioSymmetricMagnitude(t *testing.T) {
	a := "wsop 2024 event 13 final table"
	b := "wsop 2024 event 13 day 1"
	forward := SequenceRatio(a, b)
	if forward <= 0.5 || forward >= 1 {
		t.Fatalf("expected partial similarity, got %v", forward)
	}
}

func TestNormalizeTitleStripsStopWords(t *testing.T) {
	got := NormalizeTitle("The WSOP 2024: Event #13 of the Main Event, Day 1A!")
	want := "wsop 2024 event 13 main event day 1a"
	if got != want {
		t.Fatalf("NormalizeTitle = %q, want %q", got, want)
	}
}

func TestTokenizeKeepsShortTokens(t *testing.T) {
	tokens := Tokenize("Day 1A Part 2")
	want := []string{"day", "1a", "part", "2"}
	if len(tokens) != len(want) {
		t.Fatalf("Tokenize = %v, want %v", tokens, want)
	}
	for i := range want {
		if tokens[i] != want[i] {
			t.Fatalf("Tokenize = %v, want %v", tokens, want)
		}
	}
}

func TestSanitizeToken(t *testing.T) {
	cases := map[string]string{
		"WSOP Main Event": "wsop_main_event",
		"":                "unknown",
		"__--__":          "unknown",
		"HCL-2024":        "hcl-2024",
	}
	for input, want := range cases {
		if got := SanitizeToken(input); got != want {
			t.Errorf("SanitizeToken(%q) = %q, want %q", input, got, want)
		}
	}
}
