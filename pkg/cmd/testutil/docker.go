package testutil

import (
	"context"
	"os/exec"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/mysql"
	"github.com/zend/zsdeploy/pkg/migration"
)

// MySQLImage is the image used for integration tests
const MySQLImage = "mysql:8.0.36"

// SkipIfNoDocker skips the test if Docker is not available
func SkipIfNoDocker(t *testing.T) {
	t.Helper()

	// Check if Docker binary exists
	if _, err := exec.LookPath("docker"); err != nil {
		t.Skip("Docker not available")
	}

	// Check if Docker daemon is running
	cmd := exec.CommandContext(t.Context(), "docker", "ps")
	if err := cmd.Run(); err != nil {
		t.Skip("Docker daemon not running")
	}
}

// StartMySQL runs a MySQL container for the duration of the test and returns
// a connection to the given database on it.
func StartMySQL(t *testing.T, database string) migration.Connection {
	t.Helper()

	if testing.Short() {
		t.Skip("Skipping MySQL integration test in short mode")
	}
	SkipIfNoDocker(t)

	ctx := context.Background()
	ctr, err := mysql.Run(ctx, MySQLImage,
		mysql.WithDatabase(database),
		mysql.WithUsername("zend"),
		mysql.WithPassword("zend"),
	)
	testcontainers.CleanupContainer(t, ctr)
	require.NoError(t, err, "Failed to start MySQL container")

	host, err := ctr.Host(ctx)
	require.NoError(t, err)

	port, err := ctr.MappedPort(ctx, "3306/tcp")
	require.NoError(t, err)

	return migration.Connection{
		Driver:   "mysql",
		Host:     host + ":" + port.Port(),
		Database: database,
		Username: "zend",
		Password: "zend",
	}
}
