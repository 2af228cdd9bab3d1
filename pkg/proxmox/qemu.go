package proxmox

import (
	"context"
	"fmt"
	"net/url"
)

// ListVMs returns the QEMU virtual machines on one node.
func (c *Client) ListVMs(ctx context.Context, node string) ([]VM, error) {
	var vms []VM
	if err := c.getInto(ctx, "/nodes/"+url.PathEscape(node)+"/qemu", &vms); err != nil {
		return nil, fmt.Errorf("listing VMs on %s: %w", node, err)
	}
	return vms, nil
}

// GetVMStatus returns the live status of one VM.
func (c *Client) GetVMStatus(ctx context.Context, node string, vmid int) (*GuestStatus, error) {
	var status GuestStatus
	if err := c.getInto(ctx, qemuPath(node, vmid)+"/status/current", &status); err != nil {
		return nil, fmt.Errorf("getting status of VM %d on %s: %w", vmid, node, err)
	}
	return &status, nil
}

// GetVMConfig returns the configuration of one VM.
func (c *Client) GetVMConfig(ctx context.Context, node string, vmid int) (*VMConfig, error) {
	var cfg VMConfig
	if err := c.getInto(ctx, qemuPath(node, vmid)+"/config", &cfg); err != nil {
		return nil, fmt.Errorf("getting config of VM %d on %s: %w", vmid, node, err)
	}
	return &cfg, nil
}

// CreateVMOptions describes a new virtual machine.
type CreateVMOptions struct {
	VMID     int
	Name     string
	Cores    int
	MemoryMB int
	DiskGB   int
	Storage  string
	OSType   string // defaults to "l26"
}

// CreateVM creates a new VM on the given node and returns the task ID.
func (c *Client) CreateVM(ctx context.Context, node string, opts CreateVMOptions) (string, error) {
	if opts.OSType == "" {
		opts.OSType = "l26"
	}
	data := url.Values{}
	data.Set("vmid", fmt.Sprint(opts.VMID))
	data.Set("name", opts.Name)
	data.Set("cores", fmt.Sprint(opts.Cores))
	data.Set("memory", fmt.Sprint(opts.MemoryMB))
	data.Set("ostype", opts.OSType)
	data.Set("scsihw", "virtio-scsi-pci")
	data.Set("scsi0", fmt.Sprintf("%s:%d", opts.Storage, opts.DiskGB))
	data.Set("net0", "virtio,bridge=vmbr0")
	upid, err := c.postTask(ctx, "/nodes/"+url.PathEscape(node)+"/qemu", data)
	if err != nil {
		return "", fmt.Errorf("creating VM %d on %s: %w", opts.VMID, node, err)
	}
	return upid, nil
}

// StartVM starts a VM and returns the task ID.
func (c *Client) StartVM(ctx context.Context, node string, vmid int) (string, error) {
	return c.postTask(ctx, qemuPath(node, vmid)+"/status/start", nil)
}

// StopVM force-stops a VM and returns the task ID.
func (c *Client) StopVM(ctx context.Context, node string, vmid int) (string, error) {
	return c.postTask(ctx, qemuPath(node, vmid)+"/status/stop", nil)
}

// ShutdownVM requests a clean guest shutdown and returns the task ID.
func (c *Client) ShutdownVM(ctx context.Context, node string, vmid int) (string, error) {
	return c.postTask(ctx, qemuPath(node, vmid)+"/status/shutdown", nil)
}

// ResetVM hard-resets a VM and returns the task ID.
func (c *Client) ResetVM(ctx context.Context, node string, vmid int) (string, error) {
	return c.postTask(ctx, qemuPath(node, vmid)+"/status/reset", nil)
}

// DeleteVM removes a VM and its disks. With purge set, it is also removed
// from backup jobs and the HA configuration.
func (c *Client) DeleteVM(ctx context.Context, node string, vmid int, purge bool) (string, error) {
	path := qemuPath(node, vmid)
	if purge {
		path += "?purge=1&destroy-unreferenced-disks=1"
	}
	upid, err := c.deleteTask(ctx, path)
	if err != nil {
		return "", fmt.Errorf("deleting VM %d on %s: %w", vmid, node, err)
	}
	return upid, nil
}

// RestoreVM creates a VM from a vzdump archive.
func (c *Client) RestoreVM(ctx context.Context, node string, vmid int, archive, storage string, unique bool) (string, error) {
	data := url.Values{}
	data.Set("vmid", fmt.Sprint(vmid))
	data.Set("archive", archive)
	if storage != "" {
		data.Set("storage", storage)
	}
	if unique {
		data.Set("unique", "1")
	}
	upid, err := c.postTask(ctx, "/nodes/"+url.PathEscape(node)+"/qemu", data)
	if err != nil {
		return "", fmt.Errorf("restoring VM %d on %s: %w", vmid, node, err)
	}
	return upid, nil
}

// AgentExec runs a command inside a VM via the QEMU guest agent and returns
// the agent PID of the spawned process.
func (c *Client) AgentExec(ctx context.Context, node string, vmid int, command string) (int, error) {
	data := url.Values{}
	data.Set("command", command)
	raw, err := c.post(ctx, qemuPath(node, vmid)+"/agent/exec", data)
	if err != nil {
		return 0, fmt.Errorf("executing command on VM %d: %w", vmid, err)
	}
	var reply struct {
		PID FlexInt `json:"pid"`
	}
	if err := unmarshalRaw(raw, &reply); err != nil {
		return 0, fmt.Errorf("decoding agent exec reply: %w", err)
	}
	return reply.PID.Int(), nil
}

// AgentExecStatus polls the result of a previous AgentExec call.
func (c *Client) AgentExecStatus(ctx context.Context, node string, vmid int, pid int) (*ExecStatus, error) {
	var status ExecStatus
	path := fmt.Sprintf("%s/agent/exec-status?pid=%d", qemuPath(node, vmid), pid)
	if err := c.getInto(ctx, path, &status); err != nil {
		return nil, fmt.Errorf("getting exec status of pid %d on VM %d: %w", pid, vmid, err)
	}
	return &status, nil
}

func qemuPath(node string, vmid int) string {
	return fmt.Sprintf("/nodes/%s/qemu/%d", url.PathEscape(node), vmid)
}
