package commands

import (
	"fmt"
	"io"

	"tasker/internal/exitcode"
)

// report prints err and maps it to an exit code. Failures the user cannot
// fix from the command line are prefixed "backend error".
func report(errOut io.Writer, err error) int {
	code := exitcode.For(err)
	if code == exitcode.BackendError {
		fmt.Fprintf(errOut, "error: backend error: %v\n", err)
	} else {
		fmt.Fprintf(errOut, "error: %v\n", err)
	}
	return code
}

// usageError prints a usage problem and returns exitcode.UserError.
func usageError(errOut io.Writer, format string, args ...any) int {
	fmt.Fprintf(errOut, "error: "+format+"\n", args...)
	return exitcode.UserError
}
