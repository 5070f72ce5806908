// SPDX-License-Identifier: MPL-2.0

package types

import (
	"errors"
	"fmt"
	"strconv"
)

// ErrInvalidExitCode is the sentinel error wrapped by InvalidExitCodeError.
var ErrInvalidExitCode = errors.New("invalid exit code")

// ExitCode is a process exit status, POSIX range 0-255. Hook scripts
// report their status through this type, and the CLI reuses it for its
// own exit code. The zero value means success.
type ExitCode int

// InvalidExitCodeError reports an ExitCode outside 0-255.
type InvalidExitCodeError struct {
	Value ExitCode
}

func (e *InvalidExitCodeError) Error() string {
	return fmt.Sprintf("invalid exit code %d (must be in range 0-255)", e.Value)
}

// Unwrap returns ErrInvalidExitCode for errors.Is matching.
func (e *InvalidExitCodeError) Unwrap() error { return ErrInvalidExitCode }

// Validate returns an error if the code is outside the POSIX range.
func (c ExitCode) Validate() error {
	if c < 0 || c > 255 {
		return &InvalidExitCodeError{Value: c}
	}
	return nil
}

// IsSuccess reports whether the code indicates a successful exit.
func (c ExitCode) IsSuccess() bool { return c == 0 }

// String returns the code in decimal.
func (c ExitCode) String() string { return strconv.Itoa(int(c)) }
