package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// configPath is the --config flag value, shared by all subcommands.
var configPath string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "pvemcp",
	Short: "MCP server for managing Proxmox VE clusters",
	Long: `pvemcp exposes Proxmox VE management as MCP tools: listing nodes,
VMs and containers, lifecycle control, snapshots, backups, and storage
inspection. It speaks the MCP protocol over stdio for AI assistants
(e.g. Cursor, Claude Desktop) and can optionally serve SSE over HTTP.`,
	// SilenceUsage is set to true to prevent printing usage message on errors
	// handled by us (e.g. invalid arguments, failed connections)
	SilenceUsage: true,
}

// SetVersion sets the version for the root command
func SetVersion(v string) {
	rootCmd.Version = v
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "pvemcp version %s\n" .Version}}`)

	err := rootCmd.Execute()
	if err != nil {
		// Cobra prints the error, we just exit non-zero
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "",
		"path to config file (defaults to $PROXMOX_MCP_CONFIG)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(newDashboardCmd())
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newSelfUpdateCmd())
}
