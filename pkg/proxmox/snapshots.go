package proxmox

import (
	"context"
	"fmt"
	"net/url"
)

// GuestType selects between QEMU virtual machines and LXC containers on
// endpoints shared by both.
type GuestType string

const (
	GuestQEMU GuestType = "qemu"
	GuestLXC  GuestType = "lxc"
)

// ParseGuestType normalizes a user-supplied guest type, defaulting to QEMU.
func ParseGuestType(s string) GuestType {
	if s == string(GuestLXC) {
		return GuestLXC
	}
	return GuestQEMU
}

func guestPath(gt GuestType, node string, vmid int) string {
	return fmt.Sprintf("/nodes/%s/%s/%d", url.PathEscape(node), gt, vmid)
}

// ListSnapshots returns the snapshots of a VM or container, including the
// "current" pseudo-snapshot PVE appends.
func (c *Client) ListSnapshots(ctx context.Context, gt GuestType, node string, vmid int) ([]Snapshot, error) {
	var snapshots []Snapshot
	if err := c.getInto(ctx, guestPath(gt, node, vmid)+"/snapshot", &snapshots); err != nil {
		return nil, fmt.Errorf("listing snapshots of %s %d on %s: %w", gt, vmid, node, err)
	}
	return snapshots, nil
}

// CreateSnapshot creates a named snapshot and returns the task ID. VMState
// only applies to QEMU guests and is ignored for containers.
func (c *Client) CreateSnapshot(ctx context.Context, gt GuestType, node string, vmid int, name, description string, vmstate bool) (string, error) {
	data := url.Values{}
	data.Set("snapname", name)
	if description != "" {
		data.Set("description", description)
	}
	if vmstate && gt == GuestQEMU {
		data.Set("vmstate", "1")
	}
	upid, err := c.postTask(ctx, guestPath(gt, node, vmid)+"/snapshot", data)
	if err != nil {
		return "", fmt.Errorf("creating snapshot %s of %s %d: %w", name, gt, vmid, err)
	}
	return upid, nil
}

// DeleteSnapshot removes a snapshot and returns the task ID.
func (c *Client) DeleteSnapshot(ctx context.Context, gt GuestType, node string, vmid int, name string) (string, error) {
	upid, err := c.deleteTask(ctx, guestPath(gt, node, vmid)+"/snapshot/"+url.PathEscape(name))
	if err != nil {
		return "", fmt.Errorf("deleting snapshot %s of %s %d: %w", name, gt, vmid, err)
	}
	return upid, nil
}

// RollbackSnapshot restores a guest to a snapshot and returns the task ID.
// The guest is stopped during rollback.
func (c *Client) RollbackSnapshot(ctx context.Context, gt GuestType, node string, vmid int, name string) (string, error) {
	path := guestPath(gt, node, vmid) + "/snapshot/" + url.PathEscape(name) + "/rollback"
	upid, err := c.postTask(ctx, path, nil)
	if err != nil {
		return "", fmt.Errorf("rolling back %s %d to snapshot %s: %w", gt, vmid, name, err)
	}
	return upid, nil
}
