package cmd

import (
	"context"

	"github.com/pkg/errors"
	"github.com/urfave/cli/v3"
	"github.com/zend/zsdeploy/pkg/config"
	"github.com/zend/zsdeploy/pkg/deployenv"
	"github.com/zend/zsdeploy/pkg/deploylog"
	"github.com/zend/zsdeploy/pkg/hook"
	"github.com/zend/zsdeploy/pkg/migration"
)

// postStage creates the command run by the deployment host once a version has
// been staged.
//
// The deployment context is read from the ZS_* environment variables. The
// command logs the deployment, sets the application environment in
// public/.htaccess and stamps the version into application.ini. On the
// run-once node it then migrates the database with db/<version>/master.xml,
// using the credentials from the environment's section of application.ini.
//
// Example usage:
//
//	ZS_APPLICATION_BASE_DIR=/srv/app ZS_CURRENT_APP_VERSION=1.2.0 \
//	ZS_APPLICATION_ENV=production ZS_RUN_ONCE_NODE=1 zsdeploy post-stage
func postStage(cfg *config.Config, open migration.Opener) *cli.Command {
	return &cli.Command{
		Name:  "post-stage",
		Usage: "Run the post-stage deployment hook",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log",
				Usage:   "the deployment log file",
				Value:   cfg.DeployLog,
				Sources: cli.EnvVars("ZSDEPLOY_DEPLOY_LOG"),
				Config: cli.StringConfig{
					TrimSpace: true,
				},
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			h := hook.New(hook.Params{
				Env:  deployenv.Load(),
				Log:  deploylog.New(cmd.String("log")),
				Open: open,
				Out:  stdout(cmd),
			})

			err := h.Run(ctx)

			var missing *deployenv.MissingError
			if errors.As(err, &missing) {
				return cli.Exit("", 1)
			}

			return err
		},
	}
}
