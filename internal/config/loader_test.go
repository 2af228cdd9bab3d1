package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func clearProxmoxEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		EnvConfigPath, "PROXMOX_HOST", "PROXMOX_PORT", "PROXMOX_USER",
		"PROXMOX_TOKEN_NAME", "PROXMOX_TOKEN_VALUE", "PROXMOX_PASSWORD",
		"PROXMOX_VERIFY_SSL", "PROXMOX_LOG_LEVEL",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadJSONConfig(t *testing.T) {
	clearProxmoxEnv(t)
	path := writeConfig(t, "config.json", `{
		"proxmox": {"host": "pve.example.com"},
		"auth": {"user": "root@pam", "token_name": "mcp", "token_value": "secret"}
	}`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "pve.example.com", cfg.Proxmox.Host)
	assert.Equal(t, 8006, cfg.Proxmox.Port, "default port should survive partial files")
	assert.True(t, cfg.Proxmox.VerifySSL)
	assert.Equal(t, "root@pam", cfg.Auth.User)
	assert.Equal(t, "INFO", cfg.Logging.Level)
}

func TestLoadYAMLConfig(t *testing.T) {
	clearProxmoxEnv(t)
	path := writeConfig(t, "config.yaml", `
proxmox:
  host: pve.example.com
  port: 8007
  verifySSL: false
auth:
  user: monitor@pve
  tokenName: mcp
  tokenValue: secret
logging:
  level: DEBUG
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "pve.example.com", cfg.Proxmox.Host)
	assert.Equal(t, 8007, cfg.Proxmox.Port)
	assert.False(t, cfg.Proxmox.VerifySSL)
	assert.Equal(t, "DEBUG", cfg.Logging.Level)
}

func TestLoadFromEnvVariable(t *testing.T) {
	clearProxmoxEnv(t)
	path := writeConfig(t, "config.json", `{"proxmox": {"host": "pve1"}}`)
	t.Setenv(EnvConfigPath, path)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "pve1", cfg.Proxmox.Host)
}

func TestLoadMissingConfigPath(t *testing.T) {
	clearProxmoxEnv(t)

	_, err := Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "PROXMOX_MCP_CONFIG environment variable must be set")
}

func TestLoadEnvOnly(t *testing.T) {
	clearProxmoxEnv(t)
	t.Setenv("PROXMOX_HOST", "pve.env.example.com")
	t.Setenv("PROXMOX_USER", "root@pam")
	t.Setenv("PROXMOX_TOKEN_NAME", "mcp")
	t.Setenv("PROXMOX_TOKEN_VALUE", "secret")
	t.Setenv("PROXMOX_VERIFY_SSL", "false")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "pve.env.example.com", cfg.Proxmox.Host)
	assert.False(t, cfg.Proxmox.VerifySSL)
}

func TestEnvOverridesFile(t *testing.T) {
	clearProxmoxEnv(t)
	path := writeConfig(t, "config.json", `{"proxmox": {"host": "from-file", "port": 8006}}`)
	t.Setenv("PROXMOX_HOST", "from-env")
	t.Setenv("PROXMOX_PORT", "9006")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Proxmox.Host)
	assert.Equal(t, 9006, cfg.Proxmox.Port)
}

func TestLoadRejectsMissingHost(t *testing.T) {
	clearProxmoxEnv(t)
	path := writeConfig(t, "config.json", `{"auth": {"user": "root@pam"}}`)

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "proxmox.host is required")
}

func TestLoadRejectsInvalidJSON(t *testing.T) {
	clearProxmoxEnv(t)
	path := writeConfig(t, "config.json", `{not json`)

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse JSON config")
}
