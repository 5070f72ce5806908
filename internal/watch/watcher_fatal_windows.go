// SPDX-License-Identifier: MPL-2.0

//go:build windows

package watch

import (
	"errors"
	"syscall"
)

// fatalErrnos are the Win32 error codes that leave the watcher fundamentally
// broken. fsnotify uses ReadDirectoryChangesW on Windows, which has no
// inotify-style watch limits, but resource exhaustion and invalidated
// handles still mean the event loop cannot continue:
//   - ERROR_TOO_MANY_OPEN_FILES (4): per-process handle limit exceeded,
//     analogous to EMFILE on Unix
//   - ERROR_INVALID_HANDLE (6): the watched directory was deleted or
//     unmounted out from under the watcher
//   - ERROR_NOT_ENOUGH_MEMORY (8): cannot allocate the
//     ReadDirectoryChangesW notification buffer
var fatalErrnos = []error{syscall.Errno(4), syscall.Errno(6), syscall.Errno(8)}

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
