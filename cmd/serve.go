package cmd

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"pvemcp/internal/server"
	"pvemcp/pkg/logging"
)

// serveSSE switches the transport from stdio to SSE over HTTP.
var serveSSE bool

// serveHost and servePort form the SSE listen address. Ignored for stdio.
var (
	serveHost string
	servePort int
)

// serveCmd starts the MCP server. Stdio is the default transport because
// that is how MCP clients launch local servers.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the Proxmox MCP server",
	Long: `Starts the MCP server exposing Proxmox management tools.

By default the server speaks the MCP protocol over stdin/stdout, which is
the transport MCP clients use for locally launched servers. With --sse the
server instead listens on HTTP and serves the SSE transport, for clients
that connect over the network.

Configuration is read from the file given by --config or the
PROXMOX_MCP_CONFIG environment variable; individual settings can be
overridden with PROXMOX_* environment variables.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	_, client, err := buildClient()
	if err != nil {
		return err
	}
	defer logging.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := server.New(client, rootCmd.Version)
	if serveSSE {
		addr := fmt.Sprintf("%s:%d", serveHost, servePort)
		baseURL := fmt.Sprintf("http://%s", addr)
		return srv.ServeSSE(ctx, addr, baseURL)
	}
	return srv.ServeStdio(ctx)
}

func init() {
	serveCmd.Flags().BoolVar(&serveSSE, "sse", false, "serve SSE over HTTP instead of stdio")
	serveCmd.Flags().StringVar(&serveHost, "host", "127.0.0.1", "SSE listen host")
	serveCmd.Flags().IntVar(&servePort, "port", 3000, "SSE listen port")
}
