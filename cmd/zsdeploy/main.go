package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/zend/zsdeploy/pkg/cmd"
	"github.com/zend/zsdeploy/pkg/config"
	"go.uber.org/fx"
)

// NB: These are set with -ldflags during a release build.
var (
	version string
	commit  string
	date    string
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := fx.New(
		fx.Provide(
			func() []string { return os.Args },
			func() context.Context { return ctx },
			func() *cmd.Version {
				return &cmd.Version{Version: version, Commit: commit, Timestamp: date}
			},
		),
		config.Module,
		cmd.Module,
		fx.NopLogger,
	)

	if err := app.Start(ctx); err != nil {
		os.Exit(cmd.ExitFailure)
	}

	sig := <-app.Wait()
	_ = app.Stop(context.Background())
	os.Exit(sig.ExitCode)
}
