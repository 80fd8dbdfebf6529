package hook

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/zend/zsdeploy/pkg/consts"
	"github.com/zend/zsdeploy/pkg/deployenv"
	"github.com/zend/zsdeploy/pkg/deploylog"
	"github.com/zend/zsdeploy/pkg/migration"
	"github.com/zend/zsdeploy/pkg/patch"
	"github.com/zend/zsdeploy/pkg/zendini"
)

// SuccessMessage is printed when the hook completes.
const SuccessMessage = "Stage Succesful"

type (
	// Params holds everything the hook needs. Nothing is read from the process
	// environment directly.
	Params struct {
		Env  *deployenv.Env
		Log  *deploylog.Logger
		Open migration.Opener
		Out  io.Writer
	}

	// Hook is the post-stage deployment hook.
	Hook struct {
		env  *deployenv.Env
		log  *deploylog.Logger
		open migration.Opener
		out  io.Writer
	}
)

// New creates a Hook from p.
func New(p Params) *Hook {
	out := p.Out
	if out == nil {
		out = io.Discard
	}

	return &Hook{env: p.Env, log: p.Log, open: p.Open, out: out}
}

// AccessControlPath returns the web server access-control file for an application.
func AccessControlPath(baseDir string) string {
	return filepath.Join(baseDir, "public", ".htaccess")
}

// ConfigPath returns the application ini file.
func ConfigPath(baseDir string) string {
	return filepath.Join(baseDir, "application", "configs", "application.ini")
}

// ChangelogPath returns the changelog for a version.
func ChangelogPath(baseDir, version string) string {
	return filepath.Join(baseDir, "db", version, "master.xml")
}

// Run executes the hook. A *deployenv.MissingError means a required variable
// was absent and nothing was touched; its message has already been printed.
func (h *Hook) Run(ctx context.Context) error {
	if err := h.env.Validate(); err != nil {
		fmt.Fprint(h.out, err.Error())
		return err
	}

	e := h.env
	slog.Info("Running post-stage hook",
		"base_dir", e.BaseDir,
		"version", e.Version,
		"env", e.AppEnv,
		"run_once", e.RunOnce,
		"previous_version", e.PreviousVersion,
		"webserver", e.WebserverType,
		"webserver_version", e.WebserverVersion,
		"php_version", e.PHPVersion,
	)

	if err := h.log.Printf("PostStage: Ver:%s, Env: %s, Run Once: %s", e.Version, e.AppEnv, e.RunOnce); err != nil {
		return err
	}

	if err := patch.File(AccessControlPath(e.BaseDir), func(s string) string {
		return patch.AccessControl(s, e.AppEnv)
	}); err != nil {
		return err
	}

	configPath := ConfigPath(e.BaseDir)
	if err := patch.File(configPath, func(s string) string {
		return patch.Version(s, e.Version)
	}); err != nil {
		return err
	}

	if e.IsRunOnceNode() {
		if err := h.migrate(ctx, configPath); err != nil {
			return err
		}
	} else {
		slog.Info("Not the run-once node, skipping migration")
	}

	fmt.Fprint(h.out, SuccessMessage)
	return nil
}

func (h *Hook) migrate(ctx context.Context, configPath string) error {
	e := h.env

	cfg, err := zendini.LoadFile(configPath, e.AppEnv, zendini.WithConstants(map[string]string{
		"APPLICATION_PATH": filepath.Join(e.BaseDir, "application"),
		"APPLICATION_ENV":  e.AppEnv,
	}))
	if err != nil {
		return err
	}

	changelog := ChangelogPath(e.BaseDir, e.Version)
	if _, err := os.Stat(changelog); err != nil {
		if os.IsNotExist(err) {
			slog.Info("No changelog for version, skipping migration", "changelog", changelog)
			return nil
		}
		return errors.Wrapf(err, "failed to access changelog: %s", changelog)
	}

	content, err := os.ReadFile(changelog)
	if err != nil {
		return errors.Wrapf(err, "failed to read changelog: %s", changelog)
	}

	if err := h.log.Printf("DB ChangeLog: %s", changelog); err != nil {
		return err
	}
	if err := h.log.Printf("Content: %s", content); err != nil {
		return err
	}

	client, err := h.open(ctx, migration.Connection{
		Driver:   consts.DefaultDriver,
		Host:     cfg.String("resources.db.params.host"),
		Database: cfg.String("resources.db.params.dbname"),
		Username: cfg.String("resources.db.params.username"),
		Password: cfg.String("resources.db.params.password"),
	}, changelog)
	if err != nil {
		return errors.Wrap(err, "failed to open migration handle")
	}
	defer func() { _ = client.Close() }()

	if err := client.Update(ctx, e.Version); err != nil {
		return errors.Wrapf(err, "failed to migrate to %s", e.Version)
	}

	slog.Info("Database migrated", "version", e.Version, "changelog", changelog)
	return nil
}
