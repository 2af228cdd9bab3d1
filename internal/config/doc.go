// Package config provides configuration management for pvemcp.
//
// Configuration is loaded and merged in the following order, with later
// sources overriding earlier ones:
//
//  1. Built-in defaults (port 8006, TLS verification on, INFO logging)
//  2. The configuration file named by the PROXMOX_MCP_CONFIG environment
//     variable or the --config flag (JSON, or YAML for .yaml/.yml files)
//  3. PROXMOX_* environment variable overrides
//
// # Configuration Structure
//
//	{
//	  "proxmox": {
//	    "host": "pve.example.com",
//	    "port": 8006,
//	    "verify_ssl": true,
//	    "service": "PVE"
//	  },
//	  "auth": {
//	    "user": "root@pam",
//	    "token_name": "mcp",
//	    "token_value": "xxxx-xxxx"
//	  },
//	  "logging": {
//	    "level": "INFO",
//	    "file": "/var/log/pvemcp.log"
//	  }
//	}
//
// Token authentication (auth.token_name + auth.token_value) is preferred;
// auth.password enables ticket-based authentication instead.
//
// # Environment Overrides
//
// PROXMOX_HOST, PROXMOX_PORT, PROXMOX_USER, PROXMOX_TOKEN_NAME,
// PROXMOX_TOKEN_VALUE, PROXMOX_PASSWORD, PROXMOX_VERIFY_SSL and
// PROXMOX_LOG_LEVEL override the corresponding file settings, which allows
// running without any configuration file in containerized setups.
package config
