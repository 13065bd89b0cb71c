package services_test

import (
	"errors"
	"fmt"
	"testing"

	"curator/internal/services"
)

func TestWrapTagsMarker(t *testing.T) {
	base := errors.New("disk on fire")
	err := services.Wrap(services.ErrIO, "scan", "stat", "/archive/a.mp4", base)
	if !errors.Is(err, services.ErrIO) {
		t.Fatalf("expected ErrIO marker, got %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected wrapped cause, got %v", err)
	}
}

func TestWrapDefaultsMarker(t *testing.T) {
	err := services.Wrap(nil, "scan", "", "", nil)
	if !errors.Is(err, services.ErrIO) {
		t.Fatalf("nil marker should default to ErrIO, got %v", err)
	}
}

func TestExitCode(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, 0},
		{"validation", services.Wrap(services.ErrValidation, "store", "upsert", "year out of range", nil), 2},
		{"input shape", fmt.Errorf("outer: %w", services.ErrInputShape), 2},
		{"fatal", services.Wrap(services.ErrFatal, "scan", "open", "db unreachable", nil), 1},
		{"plain", errors.New("boom"), 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := services.ExitCode(tc.err); got != tc.want {
				t.Fatalf("ExitCode(%v) = %d, want %d", tc.err, got, tc.want)
			}
		})
	}
}
