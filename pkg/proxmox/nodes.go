package proxmox

import (
	"context"
	"fmt"
	"net/url"
)

// ListNodes returns all cluster nodes.
func (c *Client) ListNodes(ctx context.Context) ([]Node, error) {
	var nodes []Node
	if err := c.getInto(ctx, "/nodes", &nodes); err != nil {
		return nil, fmt.Errorf("listing nodes: %w", err)
	}
	return nodes, nil
}

// GetNodeStatus returns detailed status for one node.
func (c *Client) GetNodeStatus(ctx context.Context, node string) (*NodeStatus, error) {
	var status NodeStatus
	if err := c.getInto(ctx, "/nodes/"+url.PathEscape(node)+"/status", &status); err != nil {
		return nil, fmt.Errorf("getting status for node %s: %w", node, err)
	}
	return &status, nil
}

// CreateBackup starts a vzdump backup task for a guest on the given node.
func (c *Client) CreateBackup(ctx context.Context, node string, vmid int, storage, compress, mode, notes string) (string, error) {
	data := url.Values{}
	data.Set("vmid", fmt.Sprint(vmid))
	data.Set("storage", storage)
	data.Set("compress", compress)
	data.Set("mode", mode)
	if notes != "" {
		data.Set("notes-template", notes)
	}
	upid, err := c.postTask(ctx, "/nodes/"+url.PathEscape(node)+"/vzdump", data)
	if err != nil {
		return "", fmt.Errorf("starting backup for %d on %s: %w", vmid, node, err)
	}
	return upid, nil
}
