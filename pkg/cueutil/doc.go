// SPDX-License-Identifier: MPL-2.0

// Package cueutil provides shared CUE parsing utilities.
//
// The benchfile and config packages both follow the same flow: compile an
// embedded schema, compile the user's file, unify the two and decode into
// a Go struct. This package holds that flow plus the error formatting that
// turns raw CUE errors into file-and-path prefixed messages.
//
// # Usage
//
//	//go:embed benchfile_schema.cue
//	var schemaBytes []byte
//
//	result, err := cueutil.ParseAndDecode[Benchfile](
//	    schemaBytes,
//	    userFileBytes,
//	    "#Benchfile",
//	    cueutil.WithFilename("benchfile.cue"),
//	)
//	if err != nil {
//	    return nil, err // already carries the CUE path of the bad field
//	}
//	return result.Value, nil
package cueutil
