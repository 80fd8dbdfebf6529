package testutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/zend/zsdeploy/pkg/consts"
	"github.com/zend/zsdeploy/pkg/deployenv"
	"github.com/zend/zsdeploy/pkg/deploylog"
)

// AppFixture represents a staged application directory as the deployment
// host leaves it before running hooks.
type AppFixture struct {
	BaseDir string
	Version string
	LogPath string
	t       *testing.T
}

// Clock is the fixed time used for deployment log records in tests
func Clock() time.Time {
	return time.Date(2012, time.October, 10, 14, 3, 59, 0, time.UTC)
}

// StagedApp creates an isolated staged application with the default
// .htaccess and application.ini and no changelog.
func StagedApp(t *testing.T, version string) *AppFixture {
	t.Helper()

	tmpDir := t.TempDir()
	fixture := &AppFixture{
		BaseDir: filepath.Join(tmpDir, "app"),
		Version: version,
		LogPath: filepath.Join(tmpDir, "deploy.log"),
		t:       t,
	}

	for _, dir := range []string{"public", filepath.Join("application", "configs"), "db"} {
		require.NoError(t, os.MkdirAll(filepath.Join(fixture.BaseDir, dir), consts.ModeDir))
	}

	return fixture.
		WithAccessControl(DefaultAccessControl()).
		WithConfig(DefaultConfig())
}

// WithAccessControl replaces public/.htaccess
func (f *AppFixture) WithAccessControl(content string) *AppFixture {
	f.write(filepath.Join("public", ".htaccess"), content)
	return f
}

// WithConfig replaces application/configs/application.ini
func (f *AppFixture) WithConfig(content string) *AppFixture {
	f.write(filepath.Join("application", "configs", "application.ini"), content)
	return f
}

// WithChangelog adds db/<version>/master.xml
func (f *AppFixture) WithChangelog(content string) *AppFixture {
	f.t.Helper()
	require.NoError(f.t, os.MkdirAll(filepath.Join(f.BaseDir, "db", f.Version), consts.ModeDir))
	f.write(filepath.Join("db", f.Version, "master.xml"), content)
	return f
}

// Env returns the deployment environment for this application.
func (f *AppFixture) Env(appEnv, runOnce string) *deployenv.Env {
	return &deployenv.Env{
		BaseDir: f.BaseDir,
		Version: f.Version,
		AppEnv:  appEnv,
		RunOnce: runOnce,
	}
}

// SetEnv exports the deployment variables the way the host does.
func (f *AppFixture) SetEnv(appEnv, runOnce string) {
	f.t.Setenv(consts.EnvBaseDir, f.BaseDir)
	f.t.Setenv(consts.EnvAppVersion, f.Version)
	f.t.Setenv(consts.EnvAppEnv, appEnv)
	f.t.Setenv(consts.EnvRunOnceNode, runOnce)
}

// Logger returns a deployment logger writing to LogPath with a fixed clock.
func (f *AppFixture) Logger() *deploylog.Logger {
	return deploylog.NewWithClock(f.LogPath, Clock)
}

// Read returns the content of a file relative to the application directory.
func (f *AppFixture) Read(rel string) string {
	f.t.Helper()

	content, err := os.ReadFile(filepath.Join(f.BaseDir, rel))
	require.NoError(f.t, err, "Failed to read %s", rel)
	return string(content)
}

// LogRecords returns the deployment log split into records. A record starts
// with a bracketed timestamp; continuation lines belong to the previous record.
func (f *AppFixture) LogRecords() []string {
	f.t.Helper()

	content, err := os.ReadFile(f.LogPath)
	if os.IsNotExist(err) {
		return nil
	}
	require.NoError(f.t, err)

	var records []string
	for _, line := range strings.SplitAfter(string(content), "\n") {
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "[") || len(records) == 0 {
			records = append(records, line)
			continue
		}
		records[len(records)-1] += line
	}

	return records
}

func (f *AppFixture) write(rel, content string) {
	f.t.Helper()
	require.NoError(f.t, os.WriteFile(filepath.Join(f.BaseDir, rel), []byte(content), consts.ModeFile))
}

// DefaultAccessControl returns the .htaccess shipped with a fresh application
func DefaultAccessControl() string {
	return `RewriteEngine On
RewriteCond %{REQUEST_FILENAME} -s [OR]
RewriteCond %{REQUEST_FILENAME} -l [OR]
RewriteCond %{REQUEST_FILENAME} -d
RewriteRule ^.*$ - [NC,L]
RewriteRule ^.*$ index.php [NC,L]
`
}

// DefaultConfig returns an application.ini with version placeholders and
// database settings for production and staging
func DefaultConfig() string {
	return `[production]
phpSettings.display_errors = 0
includePaths.library = APPLICATION_PATH "/../library"
app.version = "#version#"
resources.view.headTitle = "Guestbook #version#"
resources.cachemanager.page.frontend.options.cache_id_prefix = "gb_#version#_"
resources.db.adapter = PDO_MYSQL
resources.db.params.host = db.example.com
resources.db.params.dbname = guestbook
resources.db.params.username = guestbook
resources.db.params.password = "s3cret"

[staging : production]
resources.db.params.host = staging-db.example.com
resources.db.params.dbname = guestbook_staging

[development : production]
phpSettings.display_errors = 1
resources.db.params.host = localhost
resources.db.params.username = root
resources.db.params.password =
`
}
