package cmd

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
	"github.com/zend/zsdeploy/pkg/cmd/testutil"
	"github.com/zend/zsdeploy/pkg/config"
	"github.com/zend/zsdeploy/pkg/diffrunner"
	"github.com/zend/zsdeploy/pkg/migration/migrationtest"
)

const diffXML = `<?xml version="1.0" encoding="UTF-8"?>
<databaseChangeLog/>
`

func TestDiffCommand(t *testing.T) {
	opener := &migrationtest.Opener{}
	opener.Template.DiffResult = diffXML

	out, err := testutil.RunCommand(t, diff(config.Defaults(), opener.Open))
	require.NoError(t, err)
	require.Equal(t, diffXML, out)

	client := opener.Last()
	require.Equal(t, "zf_development", client.Conn.Database)
	require.Equal(t, "changelog-4.0.xml", client.Changelog)
	require.Equal(t, "zf_testing", client.Diffs[0].Database)
}

func TestDiffCommand_TargetFlag(t *testing.T) {
	opener := &migrationtest.Opener{}
	opener.Template.DiffResult = diffXML

	_, err := testutil.RunCommand(t, diff(config.Defaults(), opener.Open), "--target", "zf_staging")
	require.NoError(t, err)
	require.Equal(t, "zf_staging", opener.Last().Diffs[0].Database)
}

func TestDiffCommand_OpenFailure(t *testing.T) {
	opener := &migrationtest.Opener{Err: errors.New("Unknown database 'zf_development'")}

	out, err := testutil.RunCommand(t, diff(config.Defaults(), opener.Open))
	require.NoError(t, err)
	require.Equal(t, "Unknown database 'zf_development'", out)
}

func TestDiffCommand_OpenFailureCompat(t *testing.T) {
	opener := &migrationtest.Opener{Err: errors.New("Unknown database 'zf_development'")}

	out, err := testutil.RunCommand(t, diff(config.Defaults(), opener.Open), "--compat")
	require.ErrorIs(t, err, diffrunner.ErrNoClient)
	require.Equal(t, ExitFailure, ExitCode(err))
	require.Equal(t, "Unknown database 'zf_development'", out)
}

func TestDiffCommand_CompatFromConfig(t *testing.T) {
	cfg := config.Defaults()
	cfg.Diff.Compat = true
	opener := &migrationtest.Opener{Err: errors.New("no route to host")}

	_, err := testutil.RunCommand(t, diff(cfg, opener.Open))
	require.ErrorIs(t, err, diffrunner.ErrNoClient)
}

func TestDiffCommand_DiffError(t *testing.T) {
	opener := &migrationtest.Opener{}
	opener.Template.DiffErr = errors.New("liquibase diffChangeLog failed")

	_, err := testutil.RunCommand(t, diff(config.Defaults(), opener.Open))
	testutil.RequireError(t, err, "liquibase diffChangeLog failed")
}
