package config

// Config is the top-level configuration structure for pvemcp.
type Config struct {
	Proxmox ProxmoxConfig `json:"proxmox" yaml:"proxmox"`
	Auth    AuthConfig    `json:"auth" yaml:"auth"`
	Logging LoggingConfig `json:"logging" yaml:"logging"`
}

// ProxmoxConfig describes the PVE API endpoint to connect to.
type ProxmoxConfig struct {
	Host      string `json:"host" yaml:"host"`
	Port      int    `json:"port" yaml:"port"`
	VerifySSL bool   `json:"verify_ssl" yaml:"verifySSL"`
	Service   string `json:"service" yaml:"service"` // "PVE"; reserved for PBS support
}

// AuthConfig holds API credentials. TokenName/TokenValue select API token
// authentication; Password selects ticket authentication.
type AuthConfig struct {
	User       string `json:"user" yaml:"user"` // user@realm
	TokenName  string `json:"token_name" yaml:"tokenName"`
	TokenValue string `json:"token_value" yaml:"tokenValue"`
	Password   string `json:"password,omitempty" yaml:"password,omitempty"`
}

// LoggingConfig controls log verbosity and destination.
type LoggingConfig struct {
	Level string `json:"level" yaml:"level"`
	File  string `json:"file,omitempty" yaml:"file,omitempty"`
}
