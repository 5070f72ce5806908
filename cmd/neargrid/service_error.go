// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"io"
	"log/slog"

	"neargrid/internal/issue"
)

// ServiceError is the error type command implementations hand back to the
// CLI layer. Besides the underlying error it can carry a pre-styled message
// and an issue catalog ID, so a failed run shows remediation steps next to
// the failure instead of only the failure itself.
//
// Construct only via newServiceError; struct literals bypass the non-nil
// Err guard.
type ServiceError struct {
	// Err is the underlying error (never nil).
	Err error
	// IssueID selects the catalog entry rendered after the message.
	// Zero means no catalog help applies.
	IssueID issue.Id
	// StyledMessage, when non-empty, is printed verbatim before anything
	// else. Used for output already rendered with lipgloss.
	StyledMessage string
}

func newServiceError(err error, issueID issue.Id, styledMessage string) *ServiceError {
	if err == nil {
		panic("ServiceError: Err must not be nil")
	}
	return &ServiceError{Err: err, IssueID: issueID, StyledMessage: styledMessage}
}

func (e *ServiceError) Error() string { return e.Err.Error() }

// Unwrap exposes the underlying error to errors.Is/As chains.
func (e *ServiceError) Unwrap() error { return e.Err }

// renderServiceError prints the user-facing parts of a ServiceError: the
// styled message first, then the issue catalog entry when one is attached.
// Printing the underlying error itself is left to the caller.
func renderServiceError(stderr io.Writer, svcErr *ServiceError) {
	if svcErr == nil {
		return
	}
	if svcErr.StyledMessage != "" {
		fmt.Fprint(stderr, svcErr.StyledMessage)
	}
	renderIssueHelp(stderr, svcErr.IssueID)
}

// renderIssueHelp appends the catalog entry for id, if any. Help text is
// best effort: a rendering failure is logged and must never mask the
// original error.
func renderIssueHelp(stderr io.Writer, id issue.Id) {
	if id == 0 {
		return
	}
	entry := issue.Get(id)
	if entry == nil {
		return
	}
	rendered, err := entry.Render("dark")
	if err != nil {
		slog.Warn("failed to render issue catalog entry", "issueID", id, "error", err)
		return
	}
	fmt.Fprint(stderr, rendered)
}
