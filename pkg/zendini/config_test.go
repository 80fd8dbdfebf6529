package zendini_test

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	. "github.com/zend/zsdeploy/pkg/zendini"
)

var constants = WithConstants(map[string]string{"APPLICATION_PATH": "/srv/app/application"})

func TestLoadFile(t *testing.T) {
	path := filepath.Join("testdata", "application.ini")

	t.Run("production", func(t *testing.T) {
		cfg, err := LoadFile(path, "production", constants)
		require.NoError(t, err)
		require.Equal(t, "production", cfg.Section())

		require.Equal(t, "db.example.com", cfg.String("resources.db.params.host"))
		require.Equal(t, "zf_production", cfg.String("resources.db.params.dbname"))
		require.Equal(t, "app", cfg.String("resources.db.params.username"))
		require.Equal(t, "s3cr;et", cfg.String("resources.db.params.password"))
		require.Equal(t, "PDO_MYSQL", cfg.String("resources.db.adapter"))
		require.Equal(t, "1", cfg.String("resources.db.isDefaultTableAdapter"))
		require.Equal(t, "0", cfg.String("phpSettings.display_errors"))
		require.Equal(t, "1.4.0", cfg.String("app.version"))
		require.Equal(t, "/srv/app/application/../library", cfg.String("includePaths.library"))
		require.Equal(t, "/srv/app/application/layouts/scripts/", cfg.String("resources.layout.layoutPath"))

		ns, ok := cfg.Sub("autoloaderNamespaces")
		require.True(t, ok)
		require.Equal(t, []string{"0", "1"}, ns.Keys())
		require.Equal(t, "ZendX", ns.String("0"))
		require.Equal(t, "My", ns.String("1"))
	})

	t.Run("staging inherits production", func(t *testing.T) {
		cfg, err := LoadFile(path, "staging", constants)
		require.NoError(t, err)

		require.Equal(t, "staging-db.example.com", cfg.String("resources.db.params.host"))
		require.Equal(t, "zf_staging", cfg.String("resources.db.params.dbname"))
		require.Equal(t, "app", cfg.String("resources.db.params.username"))
		require.Equal(t, "s3cr;et", cfg.String("resources.db.params.password"))
		require.Equal(t, "PDO_MYSQL", cfg.String("resources.db.adapter"))
		require.Equal(t, "0", cfg.String("phpSettings.display_errors"))
	})

	t.Run("development clears the password", func(t *testing.T) {
		cfg, err := LoadFile(path, "development", constants)
		require.NoError(t, err)

		password, ok := cfg.Lookup("resources.db.params.password")
		require.True(t, ok)
		require.Empty(t, password)
		require.Equal(t, "root", cfg.String("resources.db.params.username"))
		require.Equal(t, "1", cfg.String("resources.frontController.params.displayExceptions"))
	})

	t.Run("unknown constants stay literal", func(t *testing.T) {
		cfg, err := LoadFile(path, "production")
		require.NoError(t, err)
		require.Equal(t, "APPLICATION_PATH/../library", cfg.String("includePaths.library"))
	})

	t.Run("missing section", func(t *testing.T) {
		cfg, err := LoadFile(path, "qa")
		require.Error(t, err)
		require.Nil(t, cfg)
		require.Contains(t, err.Error(), `section "qa" cannot be found`)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadFile(filepath.Join(t.TempDir(), "nope.ini"), "production")
		require.Error(t, err)
		require.Contains(t, err.Error(), "failed to open file")
	})
}

func TestLoad_Values(t *testing.T) {
	doc := `[main]
bare = hello world
quoted = "hello ; world"
single = 'it''s'
yes = yes
off = off
none = none
nothing =
concat = "a" "b" 'c'
dsn = mysql:host=localhost
url = http://example.com/path
`
	cfg, err := Load(strings.NewReader(doc), "main")
	require.NoError(t, err)

	assert.Equal(t, "hello world", cfg.String("bare"))
	assert.Equal(t, "hello ; world", cfg.String("quoted"))
	assert.Equal(t, "1", cfg.String("yes"))
	assert.Equal(t, "", cfg.String("off"))
	assert.Equal(t, "", cfg.String("none"))
	assert.Equal(t, "abc", cfg.String("concat"))
	assert.Equal(t, "http://example.com/path", cfg.String("url"))

	v, ok := cfg.Lookup("nothing")
	require.True(t, ok)
	require.Empty(t, v)

	_, ok = cfg.Lookup("missing")
	require.False(t, ok)
	_, ok = cfg.Lookup("bare.deeper")
	require.False(t, ok)
}

func TestLoad_NoTrailingNewline(t *testing.T) {
	cfg, err := Load(strings.NewReader("[main]\nkey = value"), "main")
	require.NoError(t, err)
	require.Equal(t, "value", cfg.String("key"))
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		section string
		msg     string
	}{
		{
			name:    "sub-key of scalar",
			doc:     "[main]\na = 1\na.b = 2\n",
			section: "main",
			msg:     `cannot create sub-key for "a" as key already exists`,
		},
		{
			name:    "scalar over sub-keys",
			doc:     "[main]\na.b = 2\na = 1\n",
			section: "main",
			msg:     `"a" already has sub-keys`,
		},
		{
			name:    "multiple parents",
			doc:     "[a]\n[b]\n[c : a : b]\n",
			section: "c",
			msg:     "may not extend multiple sections",
		},
		{
			name:    "cycle",
			doc:     "[a : b]\n[b : a]\n",
			section: "a",
			msg:     "extends itself",
		},
		{
			name:    "unknown parent",
			doc:     "[a : missing]\nk = v\n",
			section: "a",
			msg:     `section "missing" cannot be found`,
		},
		{
			name:    "duplicate section",
			doc:     "[a]\n[a]\n",
			section: "a",
			msg:     "defined more than once",
		},
		{
			name:    "key without value",
			doc:     "[a]\njustakey\n",
			section: "a",
			msg:     "failed to parse ini file",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(strings.NewReader(tt.doc), tt.section)
			require.Error(t, err)
			require.Contains(t, err.Error(), tt.msg)
		})
	}
}

func TestLoad_ChildOverridesSubtree(t *testing.T) {
	doc := `[base]
cache.backend.name = File
cache.backend.options.dir = /tmp
[child : base]
cache.backend.options.dir = /var/cache
cache.frontend = Core
`
	cfg, err := Load(strings.NewReader(doc), "child")
	require.NoError(t, err)

	require.Equal(t, "File", cfg.String("cache.backend.name"))
	require.Equal(t, "/var/cache", cfg.String("cache.backend.options.dir"))
	require.Equal(t, "Core", cfg.String("cache.frontend"))
	require.Equal(t, []string{"cache"}, cfg.Keys())

	backend, ok := cfg.Sub("cache.backend")
	require.True(t, ok)
	require.Equal(t, []string{"name", "options"}, backend.Keys())

	_, ok = cfg.Sub("cache.frontend")
	require.False(t, ok)
}
