package patch

import (
	"fmt"
	"os"
	"strings"

	"github.com/pkg/errors"
)

const (
	// EnvMarker is searched for to decide whether an access-control file
	// already sets the application environment.
	EnvMarker = "APPLICATION_ENV"

	// DefaultEnv is the environment name shipped in packaged files.
	DefaultEnv = "development"

	// VersionPlaceholder is substituted with the version being deployed.
	VersionPlaceholder = "#version#"
)

// AccessControl sets the application environment in a web server
// access-control file. When the file never mentions APPLICATION_ENV a SetEnv
// directive and a blank line are prepended. Otherwise every occurrence of
// "development" is replaced with env.
func AccessControl(content, env string) string {
	if !strings.Contains(content, EnvMarker) {
		return fmt.Sprintf("SetEnv %s %s\n\n%s", EnvMarker, env, content)
	}

	return strings.ReplaceAll(content, DefaultEnv, env)
}

// Version replaces every #version# placeholder with version.
func Version(content, version string) string {
	return strings.ReplaceAll(content, VersionPlaceholder, version)
}

// File reads path, applies fn and writes the result back, replacing the
// previous content. The file keeps its permissions.
func File(path string, fn func(string) string) error {
	info, err := os.Stat(path)
	if err != nil {
		return errors.Wrapf(err, "failed to access file: %s", path)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrapf(err, "failed to read file: %s", path)
	}

	if err := os.WriteFile(path, []byte(fn(string(content))), info.Mode().Perm()); err != nil {
		return errors.Wrapf(err, "failed to write file: %s", path)
	}

	return nil
}
