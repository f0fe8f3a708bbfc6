package internal

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultServerURL is used when neither the config file nor the environment
// names a server
const DefaultServerURL = "http://localhost:8080"

// Config holds the client settings
type Config struct {
	ServerURL   string `yaml:"server_url"`
	ResetPolicy string `yaml:"reset_policy"` // "create" or "delete"
	LogLevel    string `yaml:"log_level"`
}

// DefaultConfigPath returns the standard config file location
// (~/.newschat.yaml)
func DefaultConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".newschat.yaml"), nil
}

// LoadConfig reads the YAML config at path (a missing file is not an error)
// and applies NEWSCHAT_SERVER, NEWSCHAT_RESET_POLICY and NEWSCHAT_LOG_LEVEL
// environment overrides on top.
func LoadConfig(path string) (*Config, error) {
	cfg := &Config{
		ServerURL:   DefaultServerURL,
		ResetPolicy: string(ResetPolicyCreate),
	}

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, &ConfigError{Path: path, Err: err}
			}
		case !os.IsNotExist(err):
			return nil, &ConfigError{Path: path, Err: err}
		}
	}

	if v := os.Getenv("NEWSCHAT_SERVER"); v != "" {
		cfg.ServerURL = v
	}
	if v := os.Getenv("NEWSCHAT_RESET_POLICY"); v != "" {
		cfg.ResetPolicy = v
	}
	if v := os.Getenv("NEWSCHAT_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	return cfg, nil
}

// Policy maps the configured reset policy string to a ResetPolicy;
// anything but "delete" means create-without-delete
func (c *Config) Policy() ResetPolicy {
	if c.ResetPolicy == string(ResetPolicyDelete) {
		return ResetPolicyDelete
	}
	return ResetPolicyCreate
}
