package cmd

import (
	"context"

	"github.com/urfave/cli/v3"
	"github.com/zend/zsdeploy/pkg/config"
	"github.com/zend/zsdeploy/pkg/diffrunner"
	"github.com/zend/zsdeploy/pkg/migration"
	"github.com/zend/zsdeploy/pkg/server"
)

// serve creates a CLI command that serves the schema diff over HTTP until
// interrupted.
//
// Example usage:
//
//	zsdeploy serve --addr :9090
//	curl 'http://localhost:9090/diff?target=zf_staging'
func serve(cfg *config.Config, open migration.Opener) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Serve the schema diff over HTTP",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "addr",
				Aliases: []string{"a"},
				Usage:   "the address to listen on",
				Value:   cfg.Server.Address,
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			srv := server.New(diffrunner.New(open), diffrunner.FromConfig(cfg.Diff))
			return srv.ListenAndServe(ctx, cmd.String("addr"))
		},
	}
}
