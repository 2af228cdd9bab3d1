package config

// DefaultConfig returns the built-in defaults applied before any file or
// environment settings.
func DefaultConfig() Config {
	return Config{
		Proxmox: ProxmoxConfig{
			Port:      8006,
			VerifySSL: true,
			Service:   "PVE",
		},
		Logging: LoggingConfig{
			Level: "INFO",
		},
	}
}
