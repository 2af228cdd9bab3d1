package tools

import (
	"context"
	"fmt"
	"strings"
	"time"

	"pvemcp/pkg/logging"
	"pvemcp/pkg/proxmox"
)

// VMTools implements QEMU virtual machine operations.
type VMTools struct {
	api VMAPI

	// execPollInterval and execPollTimeout bound guest agent result polling.
	execPollInterval time.Duration
	execPollTimeout  time.Duration
}

// NewVMTools returns a VM tool provider backed by api.
func NewVMTools(api VMAPI) *VMTools {
	return &VMTools{
		api:              api,
		execPollInterval: time.Second,
		execPollTimeout:  30 * time.Second,
	}
}

// VMRecord is one virtual machine in the cluster listing. Fields are in
// alphabetical tag order.
type VMRecord struct {
	Cores       *int64 `json:"cores"`
	MemoryTotal int64  `json:"memory_total"`
	MemoryUsed  int64  `json:"memory_used"`
	Name        string `json:"name"`
	Node        string `json:"node"`
	Status      string `json:"status"`
	VMID        int    `json:"vmid"`
}

// GetVMs lists virtual machines across all cluster nodes. A node whose VM
// listing fails is excluded rather than failing the whole query; a VM whose
// config cannot be read keeps a nil core count.
func (t *VMTools) GetVMs(ctx context.Context, formatStyle string) (string, error) {
	nodes, err := t.api.ListNodes(ctx)
	if err != nil {
		return "", fmt.Errorf("listing nodes: %w", err)
	}

	var records []VMRecord
	for _, n := range nodes {
		vms, err := t.api.ListVMs(ctx, n.Node)
		if err != nil {
			logging.Warn("vms", "excluding node %s from VM listing: %v", n.Node, err)
			continue
		}
		for _, vm := range vms {
			rec := VMRecord{
				Name:        vm.Name,
				Node:        n.Node,
				Status:      vm.Status,
				VMID:        vm.VMID.Int(),
				MemoryUsed:  vm.Mem.Int64(),
				MemoryTotal: vm.MaxMem.Int64(),
			}
			if cfg, err := t.api.GetVMConfig(ctx, n.Node, rec.VMID); err == nil && cfg.Cores.Int64() > 0 {
				cores := cfg.Cores.Int64()
				rec.Cores = &cores
			}
			records = append(records, rec)
		}
	}

	if formatStyle == FormatJSON {
		return renderJSON(records)
	}

	lines := []string{"🗃️ Virtual Machines", ""}
	for _, r := range records {
		cores := "N/A"
		if r.Cores != nil {
			cores = fmt.Sprintf("%d", *r.Cores)
		}
		lines = append(lines,
			fmt.Sprintf("🗃️ %s (ID: %d)", r.Name, r.VMID),
			fmt.Sprintf("  • Status: %s", upperOrUnknown(r.Status)),
			fmt.Sprintf("  • Node: %s", r.Node),
			fmt.Sprintf("  • CPU Cores: %s", cores),
			fmt.Sprintf("  • Memory: %s / %s",
				BytesToHuman(float64(r.MemoryUsed)), BytesToHuman(float64(r.MemoryTotal))),
			"",
		)
	}
	return joinLines(lines), nil
}

// CreateVM creates a new virtual machine and reports the started task.
func (t *VMTools) CreateVM(ctx context.Context, node string, opts proxmox.CreateVMOptions, formatStyle string) (string, error) {
	upid, err := t.api.CreateVM(ctx, node, opts)
	if err != nil {
		return "", fmt.Errorf("creating VM %d on %s: %w", opts.VMID, node, err)
	}
	logging.Info("vms", "created VM %d (%s) on %s: %s", opts.VMID, opts.Name, node, upid)
	return renderTaskResult(formatStyle, "Create VM", taskRecord{
		Name: opts.Name, Node: node, Task: upid, VMID: opts.VMID,
	})
}

// PowerAction is a lifecycle operation on a single VM.
type PowerAction string

const (
	PowerStart    PowerAction = "start"
	PowerStop     PowerAction = "stop"
	PowerShutdown PowerAction = "shutdown"
	PowerReset    PowerAction = "reset"
)

// PowerVM dispatches a lifecycle operation to one VM.
func (t *VMTools) PowerVM(ctx context.Context, action PowerAction, node string, vmid int, formatStyle string) (string, error) {
	var (
		upid string
		err  error
	)
	switch action {
	case PowerStart:
		upid, err = t.api.StartVM(ctx, node, vmid)
	case PowerStop:
		upid, err = t.api.StopVM(ctx, node, vmid)
	case PowerShutdown:
		upid, err = t.api.ShutdownVM(ctx, node, vmid)
	case PowerReset:
		upid, err = t.api.ResetVM(ctx, node, vmid)
	default:
		return "", fmt.Errorf("unknown power action %q", action)
	}
	if err != nil {
		return "", fmt.Errorf("%s VM %d on %s: %w", action, vmid, node, err)
	}
	title := fmt.Sprintf("%s VM", titleCase(string(action)))
	return renderTaskResult(formatStyle, title, taskRecord{Node: node, Task: upid, VMID: vmid})
}

// DeleteVM removes a VM. The VM must not be running; with purge set it is
// also dropped from backup jobs and HA configuration.
func (t *VMTools) DeleteVM(ctx context.Context, node string, vmid int, purge bool, formatStyle string) (string, error) {
	status, err := t.api.GetVMStatus(ctx, node, vmid)
	if err != nil {
		return "", fmt.Errorf("checking VM %d before deletion: %w", vmid, err)
	}
	if status.Status == "running" {
		return "", fmt.Errorf("VM %d on %s is running; stop it before deletion", vmid, node)
	}
	upid, err := t.api.DeleteVM(ctx, node, vmid, purge)
	if err != nil {
		return "", fmt.Errorf("deleting VM %d on %s: %w", vmid, node, err)
	}
	logging.Info("vms", "deleted VM %d on %s: %s", vmid, node, upid)
	return renderTaskResult(formatStyle, "Delete VM", taskRecord{Node: node, Task: upid, VMID: vmid})
}

// ExecResult is the outcome of a guest agent command. Fields are in
// alphabetical tag order.
type ExecResult struct {
	Command  string `json:"command"`
	ExitCode int64  `json:"exit_code"`
	Output   string `json:"output"`
	Stderr   string `json:"stderr,omitempty"`
	Success  bool   `json:"success"`
	VMID     int    `json:"vmid"`
}

// ExecuteCommand runs a shell command inside a VM through the QEMU guest
// agent and polls until the command exits or the poll timeout passes. The
// VM must be running and have the agent active.
func (t *VMTools) ExecuteCommand(ctx context.Context, node string, vmid int, command, formatStyle string) (string, error) {
	status, err := t.api.GetVMStatus(ctx, node, vmid)
	if err != nil {
		return "", fmt.Errorf("checking VM %d: %w", vmid, err)
	}
	if status.Status != "running" {
		return "", fmt.Errorf("VM %d on %s is not running", vmid, node)
	}

	pid, err := t.api.AgentExec(ctx, node, vmid, command)
	if err != nil {
		return "", fmt.Errorf("executing command on VM %d: %w", vmid, err)
	}

	exec, err := t.waitForExec(ctx, node, vmid, pid)
	if err != nil {
		return "", err
	}

	result := ExecResult{
		Command:  command,
		ExitCode: exec.ExitCode.Int64(),
		Output:   exec.OutData,
		Stderr:   exec.ErrData,
		Success:  exec.ExitCode.Int64() == 0,
		VMID:     vmid,
	}

	if formatStyle == FormatJSON {
		return renderJSON(result)
	}

	marker := "✅"
	if !result.Success {
		marker = "❌"
	}
	lines := []string{
		fmt.Sprintf("%s Command on VM %d: %s", marker, vmid, command),
		"",
		fmt.Sprintf("  • Exit Code: %d", result.ExitCode),
		"  • Output:",
		result.Output,
	}
	if result.Stderr != "" {
		lines = append(lines, "  • Stderr:", result.Stderr)
	}
	return joinLines(lines), nil
}

func (t *VMTools) waitForExec(ctx context.Context, node string, vmid, pid int) (*proxmox.ExecStatus, error) {
	deadline := time.Now().Add(t.execPollTimeout)
	for {
		exec, err := t.api.AgentExecStatus(ctx, node, vmid, pid)
		if err != nil {
			return nil, fmt.Errorf("polling command on VM %d: %w", vmid, err)
		}
		if exec.Exited.Bool() {
			return exec, nil
		}
		if time.Now().After(deadline) {
			return nil, fmt.Errorf("command on VM %d did not finish within %s", vmid, t.execPollTimeout)
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(t.execPollInterval):
		}
	}
}

// taskRecord reports a started backend task. Fields are in alphabetical tag
// order.
type taskRecord struct {
	Name string `json:"name,omitempty"`
	Node string `json:"node"`
	Task string `json:"task"`
	VMID int    `json:"vmid"`
}

func renderTaskResult(formatStyle, title string, rec taskRecord) (string, error) {
	if formatStyle == FormatJSON {
		return renderJSON(rec)
	}
	lines := []string{fmt.Sprintf("✅ %s (ID: %d, node: %s)", title, rec.VMID, rec.Node)}
	if rec.Name != "" {
		lines = append(lines, fmt.Sprintf("  • Name: %s", rec.Name))
	}
	if rec.Task != "" {
		lines = append(lines, fmt.Sprintf("  • Task: %s", rec.Task))
	}
	return joinLines(lines), nil
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
