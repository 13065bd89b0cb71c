package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInputShape marks unparseable input: a filename no grammar pattern
	// accepts, an unknown brand folder, a malformed catalog title. These
	// degrade confidence instead of propagating.
	ErrInputShape = errors.New("input shape error")
	// ErrIO marks filesystem and external-tool failures: missing path,
	// permission denied, probe timeout. The offending row is skipped.
	ErrIO = errors.New("io error")
	// ErrNotFound marks a cross-reference pointing at a row that no longer
	// exists.
	ErrNotFound = errors.New("not found")
	// ErrValidation marks a would-be row that violates a store invariant.
	ErrValidation = errors.New("validation error")
	// ErrFatal marks failures that abort the whole pass: unreachable
	// database, missing archive root.
	ErrFatal = errors.New("fatal error")
)

// Wrap builds an error message that includes pass context while tagging it
// with the provided marker for later classification. The marker should be one
// of the exported sentinel errors above.
func Wrap(marker error, pass, operation, message string, err error) error {
	detail := buildDetail(pass, operation, message)
	if marker == nil {
		marker = ErrIO
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// IsUserError reports whether the error stems from caller input rather than
// the system: bad arguments, invalid config, rows that fail validation.
func IsUserError(err error) bool {
	return errors.Is(err, ErrValidation) || errors.Is(err, ErrInputShape)
}

// ExitCode maps an error to the CLI process exit code: 0 for nil, 2 for user
// errors, 1 for everything else. Recoverable per-row issues are recorded in
// scan history and never reach this function.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case IsUserError(err):
		return 2
	default:
		return 1
	}
}

func buildDetail(pass, operation, message string) string {
	parts := make([]string, 0, 3)
	if pass = strings.TrimSpace(pass); pass != "" {
		parts = append(parts, pass)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "pipeline failure"
	}
	return strings.Join(parts, ": ")
}
