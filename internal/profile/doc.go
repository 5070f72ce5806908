// SPDX-License-Identifier: MPL-2.0

// Package profile orchestrates profiling around benchmark runs.
//
// In-process capture uses runtime/pprof (CaptureCPU, CaptureHeap); everything
// else delegates to external tools rather than reimplementing them:
// flamegraphs render through 'go tool pprof -svg', OS-level sampling wraps
// perf on Linux and attaches sample on macOS, and timing plots are emitted
// as gnuplot data + script files with an optional gnuplot invocation.
// Missing tools and platform restrictions surface as actionable errors
// carrying the install or workaround command.
package profile
