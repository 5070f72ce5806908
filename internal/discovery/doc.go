// SPDX-License-Identifier: MPL-2.0

// Package discovery handles finding benchfiles and dataset manifests.
//
// A benchfile is only ever looked up in the working directory; dataset
// manifests (datasets.toml) are discovered across three locations in
// precedence order: working directory, then the neargrid config directory,
// then each configured dataset search path. Non-fatal problems encountered
// along the way (unreadable directories, unparseable manifests, shadowed
// dataset names) surface as Diagnostic values rather than errors so a single
// bad manifest never hides the rest.
package discovery
