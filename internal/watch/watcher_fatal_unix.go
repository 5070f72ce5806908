// SPDX-License-Identifier: MPL-2.0

//go:build !windows

package watch

import (
	"errors"
	"syscall"
)

// fatalErrnos are the Unix errnos that leave the watcher fundamentally
// broken. On Linux these are the inotify resource exhaustion cases:
//   - ENOSPC: inotify watch limit exceeded (fs.inotify.max_user_watches —
//     reachable when watching a large sharded dataset tree)
//   - EMFILE: per-process file descriptor limit exceeded
//   - ENFILE: system-wide file descriptor limit exceeded
var fatalErrnos = []error{syscall.ENOSPC, syscall.EMFILE, syscall.ENFILE}

// isFatalFsnotifyError classifies fsnotify errors that cannot be recovered
// from by continuing the event loop.
func isFatalFsnotifyError(err error) bool {
	for _, errno := range fatalErrnos {
		if errors.Is(err, errno) {
			return true
		}
	}
	return false
}
