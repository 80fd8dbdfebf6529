package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/urfave/cli/v3"
	"github.com/zend/zsdeploy/pkg/config"
	"github.com/zend/zsdeploy/pkg/consts"
	"github.com/zend/zsdeploy/pkg/migration"
)

// changelogSaver is implemented by clients that can write a generated
// changelog themselves.
type changelogSaver interface {
	InitAndSave(ctx context.Context, author string) error
}

// changelog creates a CLI command that generates a changelog describing the
// current schema of the source database. The changelog is printed, or written
// to the changelog file with --write.
//
// Example usage:
//
//	zsdeploy changelog --author ops
//	zsdeploy changelog --author ops --write --changelog db/1.0.0/master.xml
func changelog(cfg *config.Config, open migration.Opener) *cli.Command {
	return &cli.Command{
		Name:  "changelog",
		Usage: "Generate a changelog from the current database schema",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "author",
				Usage:    "the author recorded on every change set",
				Required: true,
			},
			&cli.BoolFlag{
				Name:  "write",
				Usage: "write the changelog file instead of printing it",
			},
			changelogFlag(cfg),
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			path := cmd.String("changelog")
			author := cmd.String("author")

			client, err := open(ctx, source(cfg), path)
			if err != nil {
				return errors.Wrap(err, "failed to open migration handle")
			}
			defer func() { _ = client.Close() }()

			if !cmd.Bool("write") {
				data, err := client.Init(ctx, author)
				if err != nil {
					return err
				}

				fmt.Fprint(stdout(cmd), data)
				return nil
			}

			if saver, ok := client.(changelogSaver); ok {
				if err := saver.InitAndSave(ctx, author); err != nil {
					return err
				}
			} else {
				data, err := client.Init(ctx, author)
				if err != nil {
					return err
				}

				if err := os.WriteFile(path, []byte(data), consts.ModeFile); err != nil {
					return errors.Wrapf(err, "failed to write changelog: %s", path)
				}
			}

			fmt.Fprintf(stdout(cmd), "Wrote changelog to %s\n", path)
			return nil
		},
	}
}
