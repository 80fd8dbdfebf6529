package config

import (
	"os"

	"github.com/zend/zsdeploy/pkg/consts"
	"go.uber.org/fx"
)

var Module = fx.Module("config", fx.Provide(
	// Loads the configuration named by ZSDEPLOY_CONFIG (or zsdeploy.yaml in the
	// working directory). The deployment host runs hooks without any tool
	// config, so a missing file yields defaults rather than an error.
	func() (*Config, error) {
		path := os.Getenv(consts.EnvConfigFile)
		if path == "" {
			path = consts.DefaultConfigFile
		}

		if _, err := os.Stat(path); os.IsNotExist(err) {
			return Defaults(), nil
		}

		return LoadConfigFile(path)
	},
))
