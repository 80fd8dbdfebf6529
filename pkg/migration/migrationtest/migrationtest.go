// Package migrationtest provides an in-memory migration.Client for tests.
package migrationtest

import (
	"context"

	"github.com/pkg/errors"
	"github.com/zend/zsdeploy/pkg/migration"
)

type (
	// Client records every call made against it.
	Client struct {
		Conn      migration.Connection
		Changelog string

		DiffResult string
		DiffErr    error
		UpdateErr  error
		InitResult string

		Diffs     []migration.Connection
		Updates   []string
		Rollbacks []string
		Inits     []string
		Closed    bool

		// OnUpdate runs before Update returns, which lets tests observe state
		// at the time of the call.
		OnUpdate func(tag string)
	}

	// Opener hands out Clients and remembers what it was asked to open.
	Opener struct {
		// Err makes every Open fail with this error
		Err error

		// Template is copied into every opened client
		Template Client

		Opened []*Client
	}
)

// Open satisfies migration.Opener.
func (o *Opener) Open(_ context.Context, conn migration.Connection, changelog string) (migration.Client, error) {
	if o.Err != nil {
		return nil, o.Err
	}

	c := o.Template
	c.Conn = conn
	c.Changelog = changelog
	o.Opened = append(o.Opened, &c)
	return &c, nil
}

// Last returns the most recently opened client, if any.
func (o *Opener) Last() *Client {
	if len(o.Opened) == 0 {
		return nil
	}
	return o.Opened[len(o.Opened)-1]
}

func (c *Client) Diff(_ context.Context, target migration.Connection) (string, error) {
	c.Diffs = append(c.Diffs, target)
	return c.DiffResult, c.DiffErr
}

func (c *Client) Update(_ context.Context, tag string) error {
	c.Updates = append(c.Updates, tag)
	if c.OnUpdate != nil {
		c.OnUpdate(tag)
	}
	return c.UpdateErr
}

func (c *Client) Rollback(_ context.Context, tag string) error {
	c.Rollbacks = append(c.Rollbacks, tag)
	return nil
}

func (c *Client) Init(_ context.Context, author string) (string, error) {
	c.Inits = append(c.Inits, author)
	if c.InitResult == "" {
		return "", errors.New("no changelog configured")
	}
	return c.InitResult, nil
}

func (c *Client) Close() error {
	c.Closed = true
	return nil
}
