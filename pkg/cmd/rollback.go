package cmd

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	"github.com/urfave/cli/v3"
	"github.com/zend/zsdeploy/pkg/config"
	"github.com/zend/zsdeploy/pkg/migration"
)

// rollback creates a CLI command that rolls the source database back to the
// state recorded under a tag. The post-stage hook tags every update with the
// deployed version, so rolling back a release means passing the previous
// version.
//
// Example usage:
//
//	zsdeploy rollback --tag 1.1.0 --changelog db/1.2.0/master.xml
func rollback(cfg *config.Config, open migration.Opener) *cli.Command {
	return &cli.Command{
		Name:  "rollback",
		Usage: "Roll the database back to a tag",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "tag",
				Usage:    "the tag to roll back to",
				Required: true,
			},
			changelogFlag(cfg),
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			tag := cmd.String("tag")

			client, err := open(ctx, source(cfg), cmd.String("changelog"))
			if err != nil {
				return errors.Wrap(err, "failed to open migration handle")
			}
			defer func() { _ = client.Close() }()

			if err := client.Rollback(ctx, tag); err != nil {
				return err
			}

			fmt.Fprintf(stdout(cmd), "Rolled back %s to %s\n", cfg.Diff.Source.Name, tag)
			return nil
		},
	}
}

func changelogFlag(cfg *config.Config) cli.Flag {
	return &cli.StringFlag{
		Name:    "changelog",
		Aliases: []string{"c"},
		Usage:   "the changelog file",
		Value:   cfg.Diff.Changelog,
	}
}

func source(cfg *config.Config) migration.Connection {
	db := cfg.Diff.Source
	return migration.Connection{
		Driver:   db.Driver,
		Host:     db.Host,
		Database: db.Name,
		Username: db.Username,
		Password: db.Password,
	}
}
