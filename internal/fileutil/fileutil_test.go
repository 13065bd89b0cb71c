package fileutil

import (
	"os"
	"path/filepath"
	"testing"
)

func TestHashFilePrefixStableAndBounded(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "clip.mp4")

	payload := make([]byte, hashPrefixBytes+512)
	for i := range payload {
		payload[i] = byte(i % 251)
	}
	if err := os.WriteFile(path, payload, 0o644); err != nil {
		t.Fatal(err)
	}

	first, err := HashFilePrefix(path)
	if err != nil {
		t.Fatalf("HashFilePrefix: %v", err)
	}

	// Mutating bytes past the prefix must not change the fingerprint.
	payload[hashPrefixBytes+100] ^= 0xff
	if err := os.WriteFile(path, payload, 0o644); err != nil {
		t.Fatal(err)
	}
	second, err := HashFilePrefix(path)
	if err != nil {
		t.Fatalf("HashFilePrefix: %v", err)
	}
	if first != second {
		t.Error("fingerprint should only cover the prefix")
	}

	// Mutating a byte inside the prefix must change it.
	payload[10] ^= 0xff
	if err := os.WriteFile(path, payload, 0o644); err != nil {
		t.Fatal(err)
	}
	third, err := HashFilePrefix(path)
	if err != nil {
		t.Fatalf("HashFilePrefix: %v", err)
	}
	if first == third {
		t.Error("fingerprint should cover the prefix")
	}
}

func TestHashFilePrefixMissingFile(t *testing.T) {
	if _, err := HashFilePrefix(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestNormalizePath(t *testing.T) {
	got := NormalizePath(`/Archive//WSOP/./Clip.MP4`)
	if got != "/archive/wsop/clip.mp4" {
		t.Errorf("NormalizePath = %q", got)
	}
}

func TestIsHidden(t *testing.T) {
	if !IsHidden(".DS_Store") || !IsHidden("._clip.mov") {
		t.Error("dotfiles are hidden")
	}
	if IsHidden("clip.mp4") {
		t.Error("regular files are not hidden")
	}
}
