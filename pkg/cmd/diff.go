package cmd

import (
	"context"

	"github.com/urfave/cli/v3"
	"github.com/zend/zsdeploy/pkg/config"
	"github.com/zend/zsdeploy/pkg/diffrunner"
	"github.com/zend/zsdeploy/pkg/migration"
)

// diff creates a CLI command that prints the changelog describing the
// differences between the configured source and target databases.
//
// If the source database cannot be opened the failure message is printed
// instead and the command succeeds, unless --compat is given.
//
// Example usage:
//
//	# Compare zf_development with zf_testing
//	zsdeploy diff
//
//	# Compare against another database on the same server
//	zsdeploy diff --target zf_staging
func diff(cfg *config.Config, open migration.Opener) *cli.Command {
	return &cli.Command{
		Name:  "diff",
		Usage: "Print the schema diff between the source and target databases",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "target",
				Aliases: []string{"t"},
				Usage:   "the target database name",
				Value:   cfg.Diff.Target.Name,
			},
			&cli.BoolFlag{
				Name:  "compat",
				Usage: "attempt the diff even when the source handle failed to open",
				Value: cfg.Diff.Compat,
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			req := diffrunner.FromConfig(cfg.Diff)
			req.Target.Database = cmd.String("target")
			req.Compat = cmd.Bool("compat")

			return diffrunner.New(open).Run(ctx, stdout(cmd), req)
		},
	}
}
