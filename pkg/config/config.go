package config

import (
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/zend/zsdeploy/pkg/consts"
	"gopkg.in/yaml.v3"
)

type (
	// Database holds the parameters needed to reach one database through the
	// migration engine.
	Database struct {
		Driver   string `yaml:"driver,omitempty"`
		Host     string `yaml:"host,omitempty"`
		Name     string `yaml:"name,omitempty"`
		Username string `yaml:"username,omitempty"`
		Password string `yaml:"password,omitempty"`
	}

	// Liquibase configures how the migration engine is invoked.
	Liquibase struct {
		// Command is the command line used to run liquibase. It is split with
		// shell quoting rules, so wrappers like "docker run --rm liquibase/liquibase"
		// work as expected.
		Command string `yaml:"command,omitempty"`

		// Classpath is passed through to liquibase so the JDBC driver can be found
		Classpath string `yaml:"classpath,omitempty"`
	}

	// Diff configures the schema diff entry points (the diff command and the
	// HTTP endpoint).
	Diff struct {
		// Source is the database the handle is opened against
		Source Database `yaml:"source"`

		// Target is the database the source is compared with
		Target Database `yaml:"target"`

		// Changelog is the changelog path given to the handle
		Changelog string `yaml:"changelog,omitempty"`

		// Compat keeps attempting the diff after the handle failed to open
		Compat bool `yaml:"compat,omitempty"`
	}

	// Server configures the HTTP surface.
	Server struct {
		Address string `yaml:"address,omitempty"`
	}

	// Config represents the zsdeploy tool configuration.
	Config struct {
		// DeployLog is the append-only deployment log
		DeployLog string `yaml:"deploy_log,omitempty"`

		Liquibase Liquibase `yaml:"liquibase"`
		Diff      Diff      `yaml:"diff"`
		Server    Server    `yaml:"server"`
	}
)

// Defaults returns a Config populated with the values used when no config
// file is present. The diff databases mirror the stock example setup: a local
// MySQL server with zf_development compared against zf_testing.
func Defaults() *Config {
	cfg := new(Config)
	cfg.applyDefaults()
	return cfg
}

// LoadConfig parses a tool configuration from the provided io.Reader.
//
// Missing values are filled in from Defaults.
//
// Example:
//
//	cfg, err := config.LoadConfig(strings.NewReader(`
//	deploy_log: /var/log/zsdeploy.log
//	liquibase:
//	  command: java -jar /opt/liquibase/liquibase.jar
//	`))
//	if err != nil {
//		panic(err)
//	}
func LoadConfig(r io.Reader) (*Config, error) {
	var cfg Config
	if err := yaml.NewDecoder(r).Decode(&cfg); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal zsdeploy config")
	}

	cfg.applyDefaults()
	return &cfg, nil
}

// LoadConfigFile loads a tool configuration from the specified file path.
// This is a convenience function that opens the file and calls LoadConfig.
func LoadConfigFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open file: %s", path)
	}
	defer func() { _ = f.Close() }()

	return LoadConfig(f)
}

func (c *Config) applyDefaults() {
	if c.DeployLog == "" {
		c.DeployLog = consts.DefaultDeployLog
	}
	if c.Liquibase.Command == "" {
		c.Liquibase.Command = consts.DefaultLiquibaseCommand
	}
	if c.Server.Address == "" {
		c.Server.Address = consts.DefaultListenAddress
	}
	if c.Diff.Changelog == "" {
		c.Diff.Changelog = "changelog-4.0.xml"
	}

	c.Diff.Source.fill(Database{
		Driver:   consts.DefaultDriver,
		Host:     "localhost",
		Name:     "zf_development",
		Username: "root",
	})
	c.Diff.Target.fill(Database{
		Driver:   c.Diff.Source.Driver,
		Host:     c.Diff.Source.Host,
		Name:     "zf_testing",
		Username: c.Diff.Source.Username,
		Password: c.Diff.Source.Password,
	})
}

// fill sets every empty field of d from def. Password is only taken from def
// when the username was defaulted too, so an explicit user with an empty
// password stays that way.
func (d *Database) fill(def Database) {
	if d.Driver == "" {
		d.Driver = def.Driver
	}
	if d.Host == "" {
		d.Host = def.Host
	}
	if d.Name == "" {
		d.Name = def.Name
	}
	if d.Username == "" {
		d.Username = def.Username
		if d.Password == "" {
			d.Password = def.Password
		}
	}
}
