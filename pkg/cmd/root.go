package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/pkg/errors"
	"github.com/urfave/cli/v3"
	"go.uber.org/fx"
)

// ExitFailure is the exit code for any failure that is not a missing
// deployment variable.
const ExitFailure = 255

type (
	Params struct {
		fx.In

		Args       []string
		Commands   []*cli.Command `group:"commands"`
		Ctx        context.Context
		Lifecycle  fx.Lifecycle
		Shutdowner fx.Shutdowner
		Version    *Version
	}

	Version struct {
		Version   string
		Commit    string
		Timestamp string
	}
)

// Run registers a start hook that executes the zsdeploy CLI with the given
// arguments and shuts the fx application down with the resulting exit code.
func Run(p Params) {
	app := NewApp(p.Version, p.Commands)

	p.Lifecycle.Append(fx.StartHook(func() {
		err := app.Run(p.Ctx, p.Args)
		code := ExitCode(err)
		if err != nil && err.Error() != "" {
			slog.Error("Error running command", "err", err, "exit_code", code)
		}

		_ = p.Shutdowner.Shutdown(fx.ExitCode(code))
	}))
}

// NewApp builds the root command. Exit codes are left to the caller; see
// ExitCode.
func NewApp(v *Version, commands []*cli.Command) *cli.Command {
	cli.VersionPrinter = func(cmd *cli.Command) {
		fmt.Fprintln(cmd.Root().Writer, "Version:", v.Version)
		fmt.Fprintln(cmd.Root().Writer, "Commit:", v.Commit)
		fmt.Fprintln(cmd.Root().Writer, "Date:", v.Timestamp)
	}

	return &cli.Command{
		Name:  "zsdeploy",
		Usage: "Deployment hooks and schema migration tooling for Zend Server applications",
		Description: `zsdeploy runs the post-stage deployment hook for Zend Server applications
and drives database schema diffs, updates and rollbacks through liquibase.`,
		Version:        v.Version,
		Commands:       commands,
		ExitErrHandler: func(context.Context, *cli.Command, error) {},
	}
}

// ExitCode maps the error returned by the CLI to a process exit code.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}

	var coder cli.ExitCoder
	if errors.As(err, &coder) {
		return coder.ExitCode()
	}

	return ExitFailure
}

// stdout returns the writer command output should go to. Subcommands write
// wherever the root command was told to.
func stdout(cmd *cli.Command) io.Writer {
	if root := cmd.Root(); root != nil && root.Writer != nil {
		return root.Writer
	}
	if cmd.Writer != nil {
		return cmd.Writer
	}

	return os.Stdout
}
