package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	werrors "github.com/matzehuels/waterfall/pkg/errors"
)

// Process exit statuses.
const (
	ExitOK          = 0
	ExitFailure     = 1
	ExitUsage       = 2   // invalid flags, columns, items or config
	ExitInterrupted = 130 // shell convention for SIGINT
)

// ExitCode maps an error returned by a command to a process exit status.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, context.Canceled):
		return ExitInterrupted
	case strings.HasPrefix(string(werrors.GetCode(err)), "INVALID_"):
		return ExitUsage
	}
	return ExitFailure
}

// ReportError writes err to w the way the CLI prints failures. Interrupts
// are not reported.
func ReportError(w io.Writer, err error) {
	if err == nil || errors.Is(err, context.Canceled) {
		return
	}
	msg := err.Error()
	if code := werrors.GetCode(err); code != "" {
		msg = fmt.Sprintf("%s %s", werrors.UserMessage(err), StyleDim.Render("("+string(code)+")"))
	}
	fmt.Fprintln(w, styleIconError.Render(iconError)+" "+msg)
}
