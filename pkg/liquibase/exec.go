package liquibase

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os/exec"
	"strings"

	"github.com/mattn/go-shellwords"
	"github.com/pkg/errors"
)

// Runner runs the migration engine with the given arguments, writing its
// standard output to stdout.
type Runner interface {
	Run(ctx context.Context, args []string, stdout io.Writer) error
}

// CommandRunner runs a command line as a subprocess.
type CommandRunner struct {
	Command string
}

// Run appends args to the configured command line and executes it. Standard
// error is captured and attached to the returned error when the process fails.
func (r *CommandRunner) Run(ctx context.Context, args []string, stdout io.Writer) error {
	cmdArgs, err := shellwords.Parse(r.Command)
	if err != nil {
		return errors.Wrapf(err, "could not parse '%s' into exec-able command", r.Command)
	}
	if len(cmdArgs) == 0 {
		return errors.New("no liquibase command configured")
	}

	slog.Debug("Executing liquibase", "cmd", cmdArgs[0], "args", redact(args))

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, cmdArgs[0], append(cmdArgs[1:], args...)...)
	cmd.Stdout = stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			return errors.Wrapf(err, "unable to exec '%s'", cmdArgs[0])
		}
		return errors.Wrapf(err, "unable to exec '%s': %s", cmdArgs[0], msg)
	}

	return nil
}

// redact hides password values so arguments can be logged.
func redact(args []string) []string {
	out := make([]string, len(args))
	for i, arg := range args {
		if k, _, ok := strings.Cut(arg, "="); ok && strings.HasSuffix(strings.ToLower(k), "password") {
			arg = k + "=****"
		}
		out[i] = arg
	}
	return out
}
