package hook_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
	"github.com/zend/zsdeploy/pkg/cmd/testutil"
	"github.com/zend/zsdeploy/pkg/deployenv"
	"github.com/zend/zsdeploy/pkg/migration"
	"github.com/zend/zsdeploy/pkg/migration/migrationtest"

	. "github.com/zend/zsdeploy/pkg/hook"
)

const changelog = `<databaseChangeLog><include file="001-init.xml"/></databaseChangeLog>`

func newHook(app *testutil.AppFixture, env *deployenv.Env, opener *migrationtest.Opener, out *bytes.Buffer) *Hook {
	return New(Params{
		Env:  env,
		Log:  app.Logger(),
		Open: opener.Open,
		Out:  out,
	})
}

func TestHook_MissingEnvironment(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*deployenv.Env)
		missing string
	}{
		{
			name:    "base dir",
			mutate:  func(e *deployenv.Env) { e.BaseDir = "" },
			missing: "ZS_APPLICATION_BASE_DIR",
		},
		{
			name:    "version",
			mutate:  func(e *deployenv.Env) { e.Version = "" },
			missing: "ZS_CURRENT_APP_VERSION",
		},
		{
			name:    "application env",
			mutate:  func(e *deployenv.Env) { e.AppEnv = "" },
			missing: "ZS_APPLICATION_ENV",
		},
		{
			name: "everything reports base dir first",
			mutate: func(e *deployenv.Env) {
				e.BaseDir = ""
				e.Version = ""
				e.AppEnv = ""
			},
			missing: "ZS_APPLICATION_BASE_DIR",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := testutil.StagedApp(t, "1.0.0")
			htaccess := filepath.Join(app.BaseDir, "public", ".htaccess")
			before, err := os.Stat(htaccess)
			require.NoError(t, err)

			env := app.Env("production", "1")
			tt.mutate(env)

			opener := &migrationtest.Opener{}
			var out bytes.Buffer
			err = newHook(app, env, opener, &out).Run(context.Background())

			var missing *deployenv.MissingError
			require.ErrorAs(t, err, &missing)
			require.Equal(t, tt.missing, missing.Name)
			require.Equal(t, tt.missing+" env var undefined", out.String())

			testutil.RequireNoFile(t, app.LogPath)
			testutil.RequireUnchanged(t, htaccess, testutil.DefaultAccessControl(), before)
			require.Equal(t, testutil.DefaultConfig(), app.Read("application/configs/application.ini"))
			require.Empty(t, opener.Opened)
		})
	}
}

func TestHook_NotRunOnceNode(t *testing.T) {
	for _, runOnce := range []string{"", "0", "false"} {
		t.Run("run once "+runOnce, func(t *testing.T) {
			app := testutil.StagedApp(t, "2.1.0").WithChangelog(changelog)
			opener := &migrationtest.Opener{}
			var out bytes.Buffer

			err := newHook(app, app.Env("staging", runOnce), opener, &out).Run(context.Background())
			require.NoError(t, err)
			require.Equal(t, SuccessMessage, out.String())

			records := app.LogRecords()
			require.Len(t, records, 1)
			require.Equal(t, "[20121010 14:03:59] PostStage: Ver:2.1.0, Env: staging, Run Once: "+runOnce+"\n", records[0])

			require.Empty(t, opener.Opened)

			htaccess := app.Read("public/.htaccess")
			require.Equal(t, "SetEnv APPLICATION_ENV staging\n\n"+testutil.DefaultAccessControl(), htaccess)

			ini := app.Read("application/configs/application.ini")
			require.NotContains(t, ini, "#version#")
			require.Contains(t, ini, `app.version = "2.1.0"`)
			require.Contains(t, ini, `cache_id_prefix = "gb_2.1.0_"`)
		})
	}
}

func TestHook_AccessControlAlreadyConfigured(t *testing.T) {
	app := testutil.StagedApp(t, "1.0.0").WithAccessControl(
		"SetEnv APPLICATION_ENV development\nRewriteEngine On\n# development only\n",
	)

	err := newHook(app, app.Env("production", "0"), &migrationtest.Opener{}, &bytes.Buffer{}).Run(context.Background())
	require.NoError(t, err)

	require.Equal(t,
		"SetEnv APPLICATION_ENV production\nRewriteEngine On\n# production only\n",
		app.Read("public/.htaccess"),
	)
}

func TestHook_MissingFiles(t *testing.T) {
	t.Run("access control", func(t *testing.T) {
		app := testutil.StagedApp(t, "1.0.0")
		require.NoError(t, os.Remove(filepath.Join(app.BaseDir, "public", ".htaccess")))

		err := newHook(app, app.Env("production", "0"), &migrationtest.Opener{}, &bytes.Buffer{}).Run(context.Background())
		testutil.RequireError(t, err, "failed to access file", ".htaccess")
	})

	t.Run("application config", func(t *testing.T) {
		app := testutil.StagedApp(t, "1.0.0")
		require.NoError(t, os.Remove(filepath.Join(app.BaseDir, "application", "configs", "application.ini")))

		var out bytes.Buffer
		err := newHook(app, app.Env("production", "0"), &migrationtest.Opener{}, &out).Run(context.Background())
		testutil.RequireError(t, err, "failed to access file", "application.ini")
		require.Empty(t, out.String())
	})
}

func TestHook_RunOnceWithoutChangelog(t *testing.T) {
	app := testutil.StagedApp(t, "3.0.0")
	opener := &migrationtest.Opener{}
	var out bytes.Buffer

	err := newHook(app, app.Env("production", "1"), opener, &out).Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, SuccessMessage, out.String())
	require.Len(t, app.LogRecords(), 1)
	require.Empty(t, opener.Opened)
}

func TestHook_RunOnceMigrates(t *testing.T) {
	app := testutil.StagedApp(t, "3.0.0").WithChangelog(changelog)

	var recordsAtUpdate []string
	opener := &migrationtest.Opener{}
	opener.Template.OnUpdate = func(string) {
		recordsAtUpdate = app.LogRecords()
	}

	var out bytes.Buffer
	err := newHook(app, app.Env("production", "1"), opener, &out).Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, SuccessMessage, out.String())

	path := ChangelogPath(app.BaseDir, "3.0.0")
	require.Equal(t, []string{
		"[20121010 14:03:59] PostStage: Ver:3.0.0, Env: production, Run Once: 1\n",
		"[20121010 14:03:59] DB ChangeLog: " + path + "\n",
		"[20121010 14:03:59] Content: " + changelog + "\n",
	}, recordsAtUpdate)

	client := opener.Last()
	require.NotNil(t, client)
	require.Equal(t, []string{"3.0.0"}, client.Updates)
	require.Equal(t, path, client.Changelog)
	require.True(t, client.Closed)
	require.Equal(t, migration.Connection{
		Driver:   "mysql",
		Host:     "db.example.com",
		Database: "guestbook",
		Username: "guestbook",
		Password: "s3cret",
	}, client.Conn)
}

func TestHook_RunOnceUsesInheritedSection(t *testing.T) {
	app := testutil.StagedApp(t, "3.0.1").WithChangelog(changelog)
	opener := &migrationtest.Opener{}

	err := newHook(app, app.Env("development", "yes"), opener, &bytes.Buffer{}).Run(context.Background())
	require.NoError(t, err)

	client := opener.Last()
	require.NotNil(t, client)
	require.Equal(t, migration.Connection{
		Driver:   "mysql",
		Host:     "localhost",
		Database: "guestbook",
		Username: "root",
		Password: "",
	}, client.Conn)
}

func TestHook_UnknownSection(t *testing.T) {
	app := testutil.StagedApp(t, "1.0.0").WithChangelog(changelog)
	opener := &migrationtest.Opener{}
	var out bytes.Buffer

	err := newHook(app, app.Env("qa", "1"), opener, &out).Run(context.Background())
	testutil.RequireError(t, err, `"qa"`)
	require.Empty(t, opener.Opened)
	require.NotContains(t, out.String(), SuccessMessage)
}

func TestHook_MigrationFailures(t *testing.T) {
	t.Run("open", func(t *testing.T) {
		app := testutil.StagedApp(t, "1.2.0").WithChangelog(changelog)
		opener := &migrationtest.Opener{Err: errors.New("communications link failure")}
		var out bytes.Buffer

		err := newHook(app, app.Env("production", "1"), opener, &out).Run(context.Background())
		testutil.RequireError(t, err, "failed to open migration handle", "communications link failure")
		require.Empty(t, out.String())
		require.Len(t, app.LogRecords(), 3)
	})

	t.Run("update", func(t *testing.T) {
		app := testutil.StagedApp(t, "1.2.0").WithChangelog(changelog)
		opener := &migrationtest.Opener{}
		opener.Template.UpdateErr = errors.New("checksum validation failed")
		var out bytes.Buffer

		err := newHook(app, app.Env("production", "1"), opener, &out).Run(context.Background())
		testutil.RequireError(t, err, "failed to migrate to 1.2.0", "checksum validation failed")
		require.Empty(t, out.String())
		require.True(t, opener.Last().Closed)
	})
}

func TestHook_MultiLineChangelogStaysInOneRecord(t *testing.T) {
	content := "<databaseChangeLog>\n  <include file=\"001.xml\"/>\n</databaseChangeLog>\n"
	app := testutil.StagedApp(t, "4.0.0").WithChangelog(content)

	err := newHook(app, app.Env("production", "1"), &migrationtest.Opener{}, &bytes.Buffer{}).Run(context.Background())
	require.NoError(t, err)

	records := app.LogRecords()
	require.Len(t, records, 3)
	require.True(t, strings.HasPrefix(records[2], "[20121010 14:03:59] Content: <databaseChangeLog>\n"))
}

func TestPaths(t *testing.T) {
	require.Equal(t, filepath.Join("/srv/app", "public", ".htaccess"), AccessControlPath("/srv/app"))
	require.Equal(t, filepath.Join("/srv/app", "application", "configs", "application.ini"), ConfigPath("/srv/app"))
	require.Equal(t, filepath.Join("/srv/app", "db", "1.0", "master.xml"), ChangelogPath("/srv/app", "1.0"))
}
