package proxmox

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
)

// ListContainers returns the containers on one node. List entries that are
// bare integers are coerced into records carrying only a vmid; entries that
// are neither objects nor integers are dropped.
func (c *Client) ListContainers(ctx context.Context, node string) ([]Container, error) {
	raw, err := c.get(ctx, "/nodes/"+url.PathEscape(node)+"/lxc")
	if err != nil {
		return nil, fmt.Errorf("listing containers on %s: %w", node, err)
	}

	var containers []Container
	for _, item := range UnwrapList(raw) {
		var ct Container
		if err := json.Unmarshal(item, &ct); err == nil {
			containers = append(containers, ct)
			continue
		}
		var vmid FlexInt
		if err := json.Unmarshal(item, &vmid); err == nil {
			containers = append(containers, Container{VMID: vmid})
		}
	}
	return containers, nil
}

// GetContainerStatus returns the live status of one container.
func (c *Client) GetContainerStatus(ctx context.Context, node string, vmid int) (*GuestStatus, error) {
	var status GuestStatus
	if err := c.getInto(ctx, lxcPath(node, vmid)+"/status/current", &status); err != nil {
		return nil, fmt.Errorf("getting status of container %d on %s: %w", vmid, node, err)
	}
	return &status, nil
}

// GetContainerConfig returns the configuration of one container.
func (c *Client) GetContainerConfig(ctx context.Context, node string, vmid int) (*ContainerConfig, error) {
	var cfg ContainerConfig
	if err := c.getInto(ctx, lxcPath(node, vmid)+"/config", &cfg); err != nil {
		return nil, fmt.Errorf("getting config of container %d on %s: %w", vmid, node, err)
	}
	return &cfg, nil
}

// GetContainerRRD returns historical samples for one container over the
// given timeframe ("hour", "day", "week", "month", "year").
func (c *Client) GetContainerRRD(ctx context.Context, node string, vmid int, timeframe string) ([]RRDPoint, error) {
	path := fmt.Sprintf("%s/rrddata?timeframe=%s", lxcPath(node, vmid), url.QueryEscape(timeframe))
	var points []RRDPoint
	if err := c.getInto(ctx, path, &points); err != nil {
		return nil, fmt.Errorf("getting RRD data of container %d on %s: %w", vmid, node, err)
	}
	return points, nil
}

// StartContainer starts a container and returns the task ID.
func (c *Client) StartContainer(ctx context.Context, node string, vmid int) (string, error) {
	return c.postTask(ctx, lxcPath(node, vmid)+"/status/start", nil)
}

// StopContainer force-stops a container (immediate kill) and returns the
// task ID.
func (c *Client) StopContainer(ctx context.Context, node string, vmid int) (string, error) {
	return c.postTask(ctx, lxcPath(node, vmid)+"/status/stop", nil)
}

// ShutdownContainer requests a clean shutdown with the given timeout in
// seconds and returns the task ID.
func (c *Client) ShutdownContainer(ctx context.Context, node string, vmid int, timeoutSeconds int) (string, error) {
	data := url.Values{}
	data.Set("timeout", fmt.Sprint(timeoutSeconds))
	return c.postTask(ctx, lxcPath(node, vmid)+"/status/shutdown", data)
}

// RebootContainer reboots a container and returns the task ID.
func (c *Client) RebootContainer(ctx context.Context, node string, vmid int) (string, error) {
	return c.postTask(ctx, lxcPath(node, vmid)+"/status/reboot", nil)
}

// RestoreContainer creates a container from a vzdump archive.
func (c *Client) RestoreContainer(ctx context.Context, node string, vmid int, archive, storage string, unique bool) (string, error) {
	data := url.Values{}
	data.Set("vmid", fmt.Sprint(vmid))
	data.Set("ostemplate", archive)
	data.Set("restore", "1")
	if storage != "" {
		data.Set("storage", storage)
	}
	if unique {
		data.Set("unique", "1")
	}
	upid, err := c.postTask(ctx, "/nodes/"+url.PathEscape(node)+"/lxc", data)
	if err != nil {
		return "", fmt.Errorf("restoring container %d on %s: %w", vmid, node, err)
	}
	return upid, nil
}

func lxcPath(node string, vmid int) string {
	return fmt.Sprintf("/nodes/%s/lxc/%d", url.PathEscape(node), vmid)
}

// IsLXCArchive reports whether a backup volume ID refers to a container
// archive rather than a VM one.
func IsLXCArchive(volid string) bool {
	lower := strings.ToLower(volid)
	return strings.Contains(lower, "vzdump-lxc") || strings.Contains(lower, "/ct/")
}
