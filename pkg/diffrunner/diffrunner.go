package diffrunner

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/pkg/errors"
	"github.com/zend/zsdeploy/pkg/config"
	"github.com/zend/zsdeploy/pkg/migration"
)

// ErrNoClient is returned in compat mode when the diff is attempted without a
// handle.
var ErrNoClient = errors.New("no migration client: handle was never opened")

type (
	// Request describes one diff.
	Request struct {
		Source    migration.Connection
		Target    migration.Connection
		Changelog string

		// Compat attempts the diff even after the handle failed to open, which
		// then fails with ErrNoClient.
		Compat bool
	}

	// Runner runs diffs using handles created by its opener.
	Runner struct {
		open migration.Opener
	}
)

// New returns a Runner that opens handles with open.
func New(open migration.Opener) *Runner {
	return &Runner{open: open}
}

// FromConfig builds a Request from the diff section of the tool config.
func FromConfig(cfg config.Diff) Request {
	return Request{
		Source:    connection(cfg.Source),
		Target:    connection(cfg.Target),
		Changelog: cfg.Changelog,
		Compat:    cfg.Compat,
	}
}

func connection(db config.Database) migration.Connection {
	return migration.Connection{
		Driver:   db.Driver,
		Host:     db.Host,
		Database: db.Name,
		Username: db.Username,
		Password: db.Password,
	}
}

// Run writes the diff between req.Source and req.Target to w.
//
// If the handle cannot be opened its error message is written to w and Run
// returns nil, unless req.Compat is set, in which case ErrNoClient is
// returned after the message.
func (r *Runner) Run(ctx context.Context, w io.Writer, req Request) error {
	client, err := r.open(ctx, req.Source, req.Changelog)
	if err != nil {
		slog.Warn("Failed to open migration handle",
			"host", req.Source.Host,
			"database", req.Source.Database,
			"error", err,
		)

		if _, werr := fmt.Fprint(w, err.Error()); werr != nil {
			return errors.Wrap(werr, "failed to write response")
		}

		if req.Compat {
			return ErrNoClient
		}
		return nil
	}
	defer func() { _ = client.Close() }()

	out, err := client.Diff(ctx, req.Target)
	if err != nil {
		return err
	}

	if _, err := fmt.Fprint(w, out); err != nil {
		return errors.Wrap(err, "failed to write diff")
	}

	return nil
}
