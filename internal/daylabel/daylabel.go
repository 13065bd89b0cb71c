// Package daylabel canonicalizes the day designations found in filenames and
// catalog titles ("Day 1", "Day 1A", "Day 3_Part 1", "FINAL") and scores the
// agreement between two labels for the matcher.
package daylabel

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Final is the canonical label for final-table material.
const Final = "FINAL"

var (
	finalTablePattern = regexp.MustCompile(`(?i)\bfinal\s*table\b`)
	dayPattern        = regexp.MustCompile(`(?i)\bday\s*(\d+)\s*([A-D])?\b`)
	partPattern       = regexp.MustCompile(`(?i)\bpart\s*(\d+)\b`)
	numberPattern     = regexp.MustCompile(`^Day\s*(\d+)`)
)

// FromString extracts a canonical day label from free text. It returns
// "FINAL" for final-table mentions, "Day{N}{L}" or "Day{N}_Part{P}" for day
// designations, and "" when no day information is present.
func FromString(text string) string {
	if finalTablePattern.MatchString(text) {
		return Final
	}
	m := dayPattern.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	label := "Day " + m[1]
	if m[2] != "" {
		label += strings.ToUpper(m[2])
	}
	if p := partPattern.FindStringSubmatch(text); p != nil {
		label = fmt.Sprintf("%s_Part %s", label, p[1])
	}
	return label
}

// Number returns the numeric day component of a canonical label.
func Number(label string) (int, bool) {
	m := numberPattern.FindStringSubmatch(label)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return n, true
}

// Score rates the agreement between two canonical day labels:
//
//	1.00 identical labels (including both FINAL)
//	0.90 same numeric day, sub-day or part differs
//	0.80 both labels empty
//	0.00 otherwise
//
// Sub-day letters ("Day 1A" vs "Day 1 Part 1") count as a numeric-day match;
// strict part agreement is an open data-owner question.
func Score(a, b string) float64 {
	a = strings.TrimSpace(a)
	b = strings.TrimSpace(b)
	switch {
	case a == "" && b == "":
		return 0.80
	case a == b:
		return 1.00
	}
	na, okA := Number(a)
	nb, okB := Number(b)
	if okA && okB && na == nb {
		return 0.90
	}
	return 0
}
