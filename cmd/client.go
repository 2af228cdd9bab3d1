package cmd

import (
	"fmt"

	"pvemcp/internal/config"
	"pvemcp/pkg/logging"
	"pvemcp/pkg/proxmox"
)

// buildClient loads configuration, initializes logging, and connects to the
// Proxmox API. Logging must never reach stdout because stdio transports
// carry the MCP protocol there.
func buildClient() (*config.Config, *proxmox.Client, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("loading configuration: %w", err)
	}

	if err := logging.InitWithFile(logging.ParseLevel(cfg.Logging.Level), cfg.Logging.File); err != nil {
		return nil, nil, err
	}

	client, err := proxmox.NewClient(proxmox.ClientConfig{
		Host:       cfg.Proxmox.Host,
		Port:       cfg.Proxmox.Port,
		User:       cfg.Auth.User,
		TokenName:  cfg.Auth.TokenName,
		TokenValue: cfg.Auth.TokenValue,
		Password:   cfg.Auth.Password,
		VerifySSL:  cfg.Proxmox.VerifySSL,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("connecting to Proxmox: %w", err)
	}
	return cfg, client, nil
}
