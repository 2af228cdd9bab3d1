package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// EnvConfigPath names the environment variable pointing at the
// configuration file when no explicit path is given.
const EnvConfigPath = "PROXMOX_MCP_CONFIG"

// osGetenv allows tests to control environment lookups.
var osGetenv = os.Getenv

// Load reads, merges and validates the configuration. When path is empty the
// file named by PROXMOX_MCP_CONFIG is used; it is an error if neither is set
// and no PROXMOX_HOST override is present, since the client cannot connect
// without a host.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path == "" {
		path = osGetenv(EnvConfigPath)
	}
	if path == "" && osGetenv("PROXMOX_HOST") == "" {
		return nil, fmt.Errorf("%s environment variable must be set", EnvConfigPath)
	}

	if path != "" {
		if err := loadFile(path, &cfg); err != nil {
			return nil, err
		}
	}

	applyEnvOverrides(&cfg)

	if cfg.Proxmox.Host == "" {
		return nil, fmt.Errorf("proxmox.host is required")
	}
	return &cfg, nil
}

// loadFile unmarshals the file at path over cfg, so absent keys keep their
// defaults. The format is chosen by extension: .yaml/.yml parse as YAML,
// everything else as JSON.
func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return fmt.Errorf("failed to parse YAML config %s: %w", path, err)
		}
	default:
		if err := json.Unmarshal(data, cfg); err != nil {
			return fmt.Errorf("failed to parse JSON config %s: %w", path, err)
		}
	}
	return nil
}

func applyEnvOverrides(cfg *Config) {
	if v := osGetenv("PROXMOX_HOST"); v != "" {
		cfg.Proxmox.Host = v
	}
	if v := osGetenv("PROXMOX_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Proxmox.Port = port
		}
	}
	if v := osGetenv("PROXMOX_VERIFY_SSL"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Proxmox.VerifySSL = b
		}
	}
	if v := osGetenv("PROXMOX_USER"); v != "" {
		cfg.Auth.User = v
	}
	if v := osGetenv("PROXMOX_TOKEN_NAME"); v != "" {
		cfg.Auth.TokenName = v
	}
	if v := osGetenv("PROXMOX_TOKEN_VALUE"); v != "" {
		cfg.Auth.TokenValue = v
	}
	if v := osGetenv("PROXMOX_PASSWORD"); v != "" {
		cfg.Auth.Password = v
	}
	if v := osGetenv("PROXMOX_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
}
