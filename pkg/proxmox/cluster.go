package proxmox

import (
	"context"
	"fmt"
)

// GetClusterStatus returns the mixed cluster/node/resource status list.
// On single-node installations without a cluster, PVE still answers with
// one node entry.
func (c *Client) GetClusterStatus(ctx context.Context) ([]ClusterStatusEntry, error) {
	var entries []ClusterStatusEntry
	if err := c.getInto(ctx, "/cluster/status", &entries); err != nil {
		return nil, fmt.Errorf("getting cluster status: %w", err)
	}
	return entries, nil
}
