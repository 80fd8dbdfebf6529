package liquibase

import (
	"context"
	"io"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/zend/zsdeploy/pkg/migration"
)

// Connector establishes the connection held by a client for its lifetime.
type Connector func(ctx context.Context, conn migration.Connection) (io.Closer, error)

// DefaultTimeout bounds how long connecting to the database may take.
const DefaultTimeout = 10 * time.Second

// MySQLDSN renders conn as a go-sql-driver/mysql DSN.
func MySQLDSN(conn migration.Connection) string {
	cfg := mysql.NewConfig()
	cfg.Net = "tcp"
	cfg.Addr = conn.Host
	cfg.DBName = conn.Database
	cfg.User = conn.Username
	cfg.Passwd = conn.Password
	cfg.Timeout = DefaultTimeout
	return cfg.FormatDSN()
}

// Connect opens and pings a MySQL connection for conn. Drivers that have no
// native Go counterpart are left for the engine to verify.
func Connect(ctx context.Context, conn migration.Connection) (io.Closer, error) {
	if !strings.Contains(strings.ToLower(conn.Driver), "mysql") {
		return nopCloser{}, nil
	}

	db, err := sqlx.ConnectContext(ctx, "mysql", MySQLDSN(conn))
	if err != nil {
		return nil, errors.Wrapf(err, "failed to connect to %s", conn.URL())
	}

	return db, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
