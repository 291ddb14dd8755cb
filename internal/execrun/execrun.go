package execrun

import (
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"
	"strings"

	"github.com/driftwood-io/driftwood/internal/model"
)

// Command is a fully composed invocation: an executable path plus a
// structured argument list. Reconcilers build Commands instead of raw shell
// strings, so no shell quoting is involved anywhere.
type Command struct {
	Path string
	Args []string
}

// New builds a Command.
func New(path string, args ...string) Command {
	return Command{Path: path, Args: args}
}

// String renders the command for diagnostics and outcome reporting.
func (c Command) String() string {
	if len(c.Args) == 0 {
		return c.Path
	}
	return c.Path + " " + strings.Join(c.Args, " ")
}

// Runner executes commands and captures their outcome. A nonzero exit code
// is reported through Result.RC, not through the error return; the error is
// reserved for failures to run the command at all.
type Runner interface {
	Run(ctx context.Context, cmd Command) (model.Result, error)
}

// Local runs commands on the local host through os/exec.
type Local struct{}

var _ Runner = Local{}

// Run executes the command, capturing stdout and stderr separately.
func (Local) Run(ctx context.Context, cmd Command) (model.Result, error) {
	c := exec.CommandContext(ctx, cmd.Path, cmd.Args...)
	c.Env = os.Environ()

	var stdoutBuf, stderrBuf bytes.Buffer
	c.Stdout = &stdoutBuf
	c.Stderr = &stderrBuf

	err := c.Run()

	res := model.Result{
		Stdout: stdoutBuf.String(),
		Stderr: stderrBuf.String(),
	}

	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			res.RC = exitErr.ExitCode()
			return res, nil
		}
		return res, err
	}

	return res, nil
}

// LookPath resolves an executable on PATH. Split out so tests and the pip
// reconciler can substitute their own resolution.
func LookPath(name string) (string, error) {
	return exec.LookPath(name)
}
