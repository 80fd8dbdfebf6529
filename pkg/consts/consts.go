package consts

import "os"

const (
	// ModeDir is the standard file mode for creating directories
	ModeDir = os.FileMode(0o755)

	// ModeFile is the standard file mode for creating files
	ModeFile = os.FileMode(0o644)

	// DefaultConfigFile is the tool configuration looked up in the working directory
	DefaultConfigFile = "zsdeploy.yaml"

	// DefaultDeployLog is where deployment events are appended
	DefaultDeployLog = "/tmp/deploy.log"

	// DefaultLiquibaseCommand is the command line used to drive the migration engine
	DefaultLiquibaseCommand = "liquibase"

	// DefaultListenAddress is the address the diff endpoint binds to
	DefaultListenAddress = ":8080"

	// DefaultDriver is the database driver the deployment hook migrates with
	DefaultDriver = "mysql"

	// Deployment host environment variables.
	EnvBaseDir         = "ZS_APPLICATION_BASE_DIR"
	EnvAppVersion      = "ZS_CURRENT_APP_VERSION"
	EnvAppEnv          = "ZS_APPLICATION_ENV"
	EnvRunOnceNode     = "ZS_RUN_ONCE_NODE"
	EnvPreviousVersion = "ZS_PREVIOUS_APP_VERSION"
	EnvWebserverType   = "ZS_WEBSERVER_TYPE"
	EnvWebserverVer    = "ZS_WEBSERVER_VERSION"
	EnvPHPVersion      = "ZS_PHP_VERSION"

	// EnvConfigFile overrides DefaultConfigFile
	EnvConfigFile = "ZSDEPLOY_CONFIG"
)
