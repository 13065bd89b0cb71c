package daylabel

import "testing"

func TestFromString(t *testing.T) {
	cases := []struct {
		input string
		want  string
	}{
		{"WSOP 2024 Event #13 Final Table", "FINAL"},
		{"WSOP 2024 Main Event Day 3", "Day 3"},
		{"WSOP 2024 Main Event Day 1a", "Day 1A"},
		{"WSOP 2024 ME Day 3 Part 1", "Day 3_Part 1"},
		{"WSOP 2024 Event #21", ""},
		{"final table heads up", "FINAL"},
	}
	for _, tc := range cases {
		if got := FromString(tc.input); got != tc.want {
			t.Errorf("FromString(%q) = %q, want %q", tc.input, got, tc.want)
		}
	}
}

func TestNumber(t *testing.T) {
	if n, ok := Number("Day 3_Part 1"); !ok || n != 3 {
		t.Fatalf("Number(Day 3_Part 1) = %d, %v", n, ok)
	}
	if _, ok := Number("FINAL"); ok {
		t.Fatal("FINAL has no day number")
	}
	if _, ok := Number(""); ok {
		t.Fatal("empty label has no day number")
	}
}

func TestScore(t *testing.T) {
	cases := []struct {
		a, b string
		want float64
	}{
		{"FINAL", "FINAL", 1.00},
		{"Day 1", "Day 1", 1.00},
		{"Day 1A", "Day 1 Part 1", 0.90},
		{"Day 3_Part 1", "Day 3_Part 2", 0.90},
		{"", "", 0.80},
		{"Day 1", "Day 2", 0},
		{"FINAL", "Day 1", 0},
		{"Day 1", "", 0},
	}
	for _, tc := range cases {
		if got := Score(tc.a, tc.b); got != tc.want {
			t.Errorf("Score(%q, %q) = %v, want %v", tc.a, tc.b, got, tc.want)
		}
	}
}
