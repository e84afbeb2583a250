// Package config loads the tool configuration and fills gaps by prompting
// the operator.
package config

import (
	"path/filepath"

	"github.com/AlecAivazis/survey/v2"
	"github.com/joho/godotenv"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/afero"
	"github.com/spf13/viper"
)

// AppFs is the filesystem used for config probing; swappable in tests.
var AppFs = afero.NewOsFs()

// Configuration keys consumed by the provisioning engine.
const (
	KeyDatabaseName       = "database_name"
	KeyDatabaseURL        = "database_url"
	KeyDatabaseAdminURL   = "database_admin_url"
	KeyDatabaseModules    = "database_modules"
	KeyDatabaseSchemaPath = "database_schema_path"
	KeyDatabaseForceDrop  = "database_force_drop"
)

// askOne is survey.AskOne, indirected so tests can stub operator input.
var askOne = func(p survey.Prompt, response interface{}) error {
	return survey.AskOne(p, response)
}

// Config is a read view over the merged configuration sources. Values come
// from (highest priority first) environment variables with the SIPSCHEMA
// prefix, a .sipschema.yaml config file, and interactive prompts.
type Config struct {
	v *viper.Viper
}

// Load reads configuration from config file, environment and .env files.
func Load() (*Config, error) {
	home, err := homedir.Dir()
	if err != nil {
		return nil, err
	}

	v := viper.New()
	v.SetConfigName(".sipschema")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath(home)
	v.AddConfigPath(filepath.Join(home, ".config", "sipschema"))

	v.SetEnvPrefix("SIPSCHEMA")
	v.AutomaticEnv()

	v.SetDefault(KeyDatabaseName, "sipserver")

	// Missing config file is fine; env and prompts cover the rest.
	_ = v.ReadInConfig()

	if _, err := AppFs.Stat(".env"); err == nil {
		_ = godotenv.Load()
	}
	if _, err := AppFs.Stat(".env.local"); err == nil {
		_ = godotenv.Overload(".env.local")
	}

	return &Config{v: v}, nil
}

// Exists reports whether the key has a non-empty value from any source.
func (c *Config) Exists(key string) bool {
	return c.v.GetString(key) != ""
}

// Get returns the configured value for key, empty when unset.
func (c *Config) Get(key string) string {
	return c.v.GetString(key)
}

// Set overrides a value for the rest of the run. Used when a prompt answer
// should stick for later components of the same operation.
func (c *Config) Set(key, value string) {
	c.v.Set(key, value)
}

// ReadParam returns the configured value for key, prompting the operator
// with message when it is unset. The answer is cached for the run.
func (c *Config) ReadParam(key, message string) (string, error) {
	if c.Exists(key) {
		return c.Get(key), nil
	}

	var answer string
	if err := askOne(&survey.Input{Message: message}, &answer); err != nil {
		return "", err
	}
	c.v.Set(key, answer)
	return answer, nil
}

// ReadBoolParam is ReadParam for yes/no confirmation gates.
func (c *Config) ReadBoolParam(key, message string, def bool) (bool, error) {
	if c.v.IsSet(key) {
		return c.v.GetBool(key), nil
	}

	answer := def
	if err := askOne(&survey.Confirm{Message: message, Default: def}, &answer); err != nil {
		return false, err
	}
	return answer, nil
}

// AskSecret solicits a secret from the operator without echo.
func (c *Config) AskSecret(message string) (string, error) {
	var answer string
	if err := askOne(&survey.Password{Message: message}, &answer); err != nil {
		return "", err
	}
	return answer, nil
}
