// SPDX-License-Identifier: MPL-2.0

// Package issue provides actionable error handling with user-friendly messages.
//
// This package defines error types that include remediation steps and
// Markdown-formatted guidance, so a failed benchmark run, dataset lookup, or
// profiler launch tells the user what to do next instead of only what broke.
package issue
