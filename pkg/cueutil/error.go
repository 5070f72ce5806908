// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"fmt"
	"strings"

	"cuelang.org/go/cue/errors"
)

// ValidationError is one CUE validation failure tied to a location. It is
// a leaf error: Unwrap returns nil.
type ValidationError struct {
	// FilePath is the file being validated.
	FilePath string

	// CUEPath locates the invalid value (e.g., "scenarios.build.iterations").
	CUEPath CUEPath

	// Message is the validation error message.
	Message string

	// Suggestion is an optional hint for fixing the error.
	Suggestion string
}

func (e *ValidationError) Error() string {
	if e.CUEPath == "" {
		return fmt.Sprintf("%s: %s", e.FilePath, e.Message)
	}
	return fmt.Sprintf("%s: %s: %s", e.FilePath, e.CUEPath, e.Message)
}

// Unwrap returns nil (ValidationError is a leaf error).
func (e *ValidationError) Unwrap() error {
	return nil
}

// FormatError rewrites a CUE evaluator error into the
// "<file-path>: <json-path>: <message>" form used across the CLI:
//
//   - benchfile.cue: scenarios.build.queries.count: value must be at least 1
//   - config.cue: profile.sampler: expected string, got int
//
// A multi-error becomes one "validation failed" error with an indented
// line per failure. Exposed for packages that format CUE errors outside
// of ParseAndDecode.
func FormatError(err error, filePath string) error {
	if err == nil {
		return nil
	}

	cueErrors := errors.Errors(err)
	if len(cueErrors) == 0 {
		// Not a CUE error; just anchor it to the file.
		return fmt.Errorf("%s: %w", filePath, err)
	}

	lines := make([]string, 0, len(cueErrors))
	for _, e := range cueErrors {
		lines = append(lines, errorLine(e))
	}

	if len(lines) == 1 {
		return fmt.Errorf("%s: %s", filePath, lines[0])
	}
	return fmt.Errorf("%s: validation failed:\n  %s", filePath, strings.Join(lines, "\n  "))
}

// errorLine renders one CUE error as "<path>: <message>". CUE sometimes
// embeds the path in the message itself; the duplicate prefix is stripped.
func errorLine(e errors.Error) string {
	pathStr := formatPath(errors.Path(e))
	msg := e.Error()
	if pathStr == "" {
		return msg
	}
	if rest, found := strings.CutPrefix(msg, pathStr); found {
		msg = strings.TrimSpace(strings.TrimPrefix(rest, ":"))
	}
	return pathStr + ": " + msg
}

// formatPath converts a CUE error path into JSON-path notation. The
// evaluator reports paths as flat selector slices (e.g., ["search_paths",
// "0"]) with list indices as bare numerics; users read "search_paths[0]"
// more easily.
func formatPath(path []string) string {
	var b strings.Builder
	for i, part := range path {
		switch {
		case i > 0 && isAllDigits(part):
			b.WriteString("[")
			b.WriteString(part)
			b.WriteString("]")
		case i > 0:
			b.WriteString(".")
			b.WriteString(part)
		default:
			b.WriteString(part)
		}
	}
	return b.String()
}

func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// CheckFileSize verifies that data does not exceed maxSize bytes. Exposed
// for callers that enforce the limit before invoking the evaluator
// themselves.
func CheckFileSize(data []byte, maxSize int64, filename string) error {
	if int64(len(data)) > maxSize {
		return fmt.Errorf("%s: file size %d bytes exceeds maximum %d bytes",
			filename, len(data), maxSize)
	}
	return nil
}
