// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"neargrid/pkg/types"
)

// ExitError carries a desired process exit code up through cobra's RunE
// return path, so command handlers never call os.Exit themselves. Execute
// unwraps it at the top level and exits with Code. Failed hook scripts
// surface their own exit status this way.
type ExitError struct {
	Code types.ExitCode
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("exit status %d", e.Code)
	}
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error { return e.Err }
