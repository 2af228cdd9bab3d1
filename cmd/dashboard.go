package cmd

import (
	"github.com/spf13/cobra"

	"pvemcp/internal/tui"
	"pvemcp/pkg/logging"
)

func newDashboardCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Interactive terminal dashboard for the cluster",
		Long: `Opens a terminal dashboard listing every VM and container across the
cluster with live status. Guests can be started and stopped from the
dashboard, and "c" copies a node:vmid selector for the selected guest to
the clipboard.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, client, err := buildClient()
			if err != nil {
				return err
			}
			defer logging.Close()
			return tui.Run(client)
		},
	}
}
