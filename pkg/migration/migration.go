package migration

import (
	"context"
	"strings"
)

type (
	// Connection identifies a database reachable by the migration engine.
	Connection struct {
		Driver   string
		Host     string
		Database string
		Username string
		Password string
	}

	// Client is an open handle on the migration engine, bound to one database
	// and one changelog.
	Client interface {
		// Diff compares the handle's database with target and returns the
		// differences as a changelog document.
		Diff(ctx context.Context, target Connection) (string, error)

		// Update applies the changelog and tags the result with tag.
		Update(ctx context.Context, tag string) error

		// Rollback reverts the database to the state recorded under tag.
		Rollback(ctx context.Context, tag string) error

		// Init generates a changelog describing the current schema.
		Init(ctx context.Context, author string) (string, error)

		// Close releases anything held by the handle.
		Close() error
	}

	// Opener constructs a Client. Failing to construct a handle is the one
	// engine failure callers are expected to handle explicitly.
	Opener func(ctx context.Context, conn Connection, changelog string) (Client, error)
)

// MySQLDriverClass is the JDBC driver class used for MySQL connections.
const MySQLDriverClass = "com.mysql.jdbc.Driver"

// DriverURL maps a short driver name to the engine's driver class and
// connection URL. Any name containing "mysql" selects MySQL. Other names are
// passed through unchanged with an empty URL.
func DriverURL(driver, host, database string) (string, string) {
	if strings.Contains(strings.ToLower(driver), "mysql") {
		return MySQLDriverClass, "jdbc:mysql://" + host + "/" + database
	}

	return strings.ToLower(driver), ""
}

// URL returns the engine connection URL for c.
func (c Connection) URL() string {
	_, url := DriverURL(c.Driver, c.Host, c.Database)
	return url
}

// DriverClass returns the engine driver class for c.
func (c Connection) DriverClass() string {
	class, _ := DriverURL(c.Driver, c.Host, c.Database)
	return class
}
