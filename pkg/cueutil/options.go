// SPDX-License-Identifier: MPL-2.0

package cueutil

// DefaultMaxFileSize caps how many bytes ParseAndDecode accepts. CUE
// evaluation cost grows superlinearly with input size, so an unbounded
// input can stall the process long before memory runs out.
const DefaultMaxFileSize int64 = 4 << 20

type options struct {
	filename    string
	maxFileSize int64
	concrete    bool
}

func defaultOptions() options {
	return options{maxFileSize: DefaultMaxFileSize, concrete: true}
}

// Option adjusts how ParseAndDecode treats its input.
type Option func(*options)

// WithFilename sets the file name used in error messages. Without it,
// errors are reported against "<input>".
func WithFilename(name string) Option {
	return func(o *options) { o.filename = name }
}

// WithMaxFileSize overrides DefaultMaxFileSize.
func WithMaxFileSize(n int64) Option {
	return func(o *options) { o.maxFileSize = n }
}

// WithConcrete controls whether validation demands concrete values.
// Concrete validation (the default) rejects files that leave required
// fields open; schemas whose fields are all optional want it off.
func WithConcrete(concrete bool) Option {
	return func(o *options) { o.concrete = concrete }
}
