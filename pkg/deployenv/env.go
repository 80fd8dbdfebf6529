package deployenv

import (
	"fmt"
	"strings"

	env "github.com/jhunt/go-envirotron"
	"github.com/zend/zsdeploy/pkg/consts"
)

type (
	// Env is the deployment context exported by the host platform.
	Env struct {
		// BaseDir is the directory the application was staged into
		BaseDir string `env:"ZS_APPLICATION_BASE_DIR"`

		// Version is the version being installed, as given in the package descriptor
		Version string `env:"ZS_CURRENT_APP_VERSION"`

		// AppEnv is the application environment (production, staging, ...)
		AppEnv string `env:"ZS_APPLICATION_ENV"`

		// RunOnce is the raw run-once flag. It is set on exactly one cluster member.
		RunOnce string `env:"ZS_RUN_ONCE_NODE"`

		PreviousVersion  string `env:"ZS_PREVIOUS_APP_VERSION"`
		WebserverType    string `env:"ZS_WEBSERVER_TYPE"`
		WebserverVersion string `env:"ZS_WEBSERVER_VERSION"`
		PHPVersion       string `env:"ZS_PHP_VERSION"`
	}

	// MissingError reports a required variable that was not set.
	MissingError struct {
		Name string
	}
)

// Load builds an Env from the current process environment.
func Load() *Env {
	var e Env
	env.Override(&e)
	return &e
}

func (e *MissingError) Error() string {
	return fmt.Sprintf("%s env var undefined", e.Name)
}

// Validate checks the required variables in order and reports the first one
// that is empty.
func (e *Env) Validate() error {
	required := []struct {
		name  string
		value string
	}{
		{consts.EnvBaseDir, e.BaseDir},
		{consts.EnvAppVersion, e.Version},
		{consts.EnvAppEnv, e.AppEnv},
	}

	for _, r := range required {
		if r.value == "" {
			return &MissingError{Name: r.name}
		}
	}

	return nil
}

// IsRunOnceNode reports whether this node should perform cluster-wide
// singleton actions. Empty, "0", "false", "no" and "off" are false.
func (e *Env) IsRunOnceNode() bool {
	switch strings.ToLower(strings.TrimSpace(e.RunOnce)) {
	case "", "0", "false", "no", "off":
		return false
	}

	return true
}
