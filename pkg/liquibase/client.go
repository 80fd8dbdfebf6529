package liquibase

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/pkg/errors"
	"github.com/zend/zsdeploy/pkg/consts"
	"github.com/zend/zsdeploy/pkg/migration"
)

type (
	// Options configures clients created by Open.
	Options struct {
		// Command is the liquibase command line (defaults to "liquibase")
		Command string

		// Classpath is passed as --classpath when set
		Classpath string

		// Runner overrides how liquibase is executed
		Runner Runner

		// Connector overrides how the database connection is established
		Connector Connector
	}

	// Client is a migration.Client backed by the liquibase command line.
	Client struct {
		conn      migration.Connection
		changelog string
		classpath string
		runner    Runner
		db        io.Closer
	}
)

var _ migration.Client = (*Client)(nil)

// Opener returns a migration.Opener that creates liquibase clients with opts.
func Opener(opts Options) migration.Opener {
	return func(ctx context.Context, conn migration.Connection, changelog string) (migration.Client, error) {
		return Open(ctx, conn, changelog, opts)
	}
}

// Open connects to the database described by conn and returns a client bound
// to it and to changelog.
func Open(ctx context.Context, conn migration.Connection, changelog string, opts Options) (*Client, error) {
	if opts.Command == "" {
		opts.Command = consts.DefaultLiquibaseCommand
	}
	if opts.Runner == nil {
		opts.Runner = &CommandRunner{Command: opts.Command}
	}
	if opts.Connector == nil {
		opts.Connector = Connect
	}

	db, err := opts.Connector(ctx, conn)
	if err != nil {
		return nil, err
	}

	slog.Info("Opened migration handle", "url", conn.URL(), "changelog", changelog)

	return &Client{
		conn:      conn,
		changelog: changelog,
		classpath: opts.Classpath,
		runner:    opts.Runner,
		db:        db,
	}, nil
}

// Update applies the changelog and tags the database with tag.
func (c *Client) Update(ctx context.Context, tag string) error {
	if err := c.run(ctx, nil, c.args(true, "update")...); err != nil {
		return errors.Wrap(err, "liquibase update failed")
	}

	if err := c.run(ctx, nil, c.args(false, "tag", tag)...); err != nil {
		return errors.Wrapf(err, "liquibase tag %s failed", tag)
	}

	return nil
}

// Rollback reverts the database to tag.
func (c *Client) Rollback(ctx context.Context, tag string) error {
	if err := c.run(ctx, nil, c.args(true, "rollback", tag)...); err != nil {
		return errors.Wrapf(err, "liquibase rollback to %s failed", tag)
	}

	return nil
}

// Diff returns the changelog that turns target into the handle's database.
func (c *Client) Diff(ctx context.Context, target migration.Connection) (string, error) {
	args := []string{
		"--driver=" + target.DriverClass(),
		"--url=" + target.URL(),
		"--username=" + target.Username,
		"--password=" + target.Password,
	}
	if c.classpath != "" {
		args = append(args, "--classpath="+c.classpath)
	}
	args = append(args,
		"diffChangeLog",
		"--referenceUrl="+c.conn.URL(),
		"--referenceUsername="+c.conn.Username,
		"--referencePassword="+c.conn.Password,
	)

	var out bytes.Buffer
	if err := c.run(ctx, &out, args...); err != nil {
		return "", errors.Wrap(err, "liquibase diffChangeLog failed")
	}

	return out.String(), nil
}

// Init generates a changelog for the current schema, crediting author with
// every change set.
func (c *Client) Init(ctx context.Context, author string) (string, error) {
	args := append(c.args(false), "--changeSetAuthor="+author, "generateChangeLog")

	var out bytes.Buffer
	if err := c.run(ctx, &out, args...); err != nil {
		return "", errors.Wrap(err, "liquibase generateChangeLog failed")
	}

	return out.String(), nil
}

// InitAndSave generates a changelog like Init and writes it to the client's
// changelog path.
func (c *Client) InitAndSave(ctx context.Context, author string) error {
	data, err := c.Init(ctx, author)
	if err != nil {
		return err
	}

	if err := os.WriteFile(c.changelog, []byte(data), consts.ModeFile); err != nil {
		return errors.Wrapf(err, "failed to write changelog: %s", c.changelog)
	}

	return nil
}

// Close releases the database connection.
func (c *Client) Close() error {
	return c.db.Close()
}

// args builds the connection flags followed by command. The changelog is only
// passed to commands that read it; liquibase writes generated changelogs to
// that file instead of stdout when it is set.
func (c *Client) args(withChangelog bool, command ...string) []string {
	args := []string{
		"--driver=" + c.conn.DriverClass(),
		"--url=" + c.conn.URL(),
		"--username=" + c.conn.Username,
		"--password=" + c.conn.Password,
	}
	if c.classpath != "" {
		args = append(args, "--classpath="+c.classpath)
	}
	if withChangelog {
		args = append(args, "--changeLogFile="+c.changelog)
	}

	return append(args, command...)
}

func (c *Client) run(ctx context.Context, stdout io.Writer, args ...string) error {
	if stdout == nil {
		stdout = io.Discard
	}

	return c.runner.Run(ctx, args, stdout)
}
