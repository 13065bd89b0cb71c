package fileutil

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// hashPrefixBytes bounds how much of a file the fingerprint reads. Archive
// masters run into the hundreds of gigabytes, so hashing whole files is off
// the table for a scan pass.
const hashPrefixBytes = 1 << 20

// HashFilePrefix returns the hex SHA256 of the first megabyte of the file.
// Combined with the size this is a cheap content fingerprint for detecting
// renamed duplicates.
func HashFilePrefix(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open for hash: %w", err)
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, io.LimitReader(f, hashPrefixBytes)); err != nil {
		return "", fmt.Errorf("hash prefix: %w", err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// NormalizePath lower-cases a path and collapses separators so the same file
// observed through different mounts yields the same key.
func NormalizePath(path string) string {
	return strings.ToLower(filepath.ToSlash(filepath.Clean(path)))
}

// IsHidden reports whether the base name is a dotfile or a macOS resource
// fork (._*) entry.
func IsHidden(name string) bool {
	return strings.HasPrefix(name, ".")
}
