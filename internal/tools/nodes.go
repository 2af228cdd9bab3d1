package tools

import (
	"context"
	"fmt"

	"pvemcp/pkg/logging"
)

// NodeTools implements node listing and status queries.
type NodeTools struct {
	api NodeAPI
}

// NewNodeTools returns a node tool provider backed by api.
func NewNodeTools(api NodeAPI) *NodeTools {
	return &NodeTools{api: api}
}

// NodeRecord is one node in the cluster listing. Fields are in alphabetical
// tag order.
type NodeRecord struct {
	MaxCPU      int64  `json:"maxcpu"`
	MemoryTotal int64  `json:"memory_total"`
	MemoryUsed  int64  `json:"memory_used"`
	Node        string `json:"node"`
	Status      string `json:"status"`
	Uptime      int64  `json:"uptime"`
}

// GetNodes lists cluster nodes with per-node detail. Nodes whose status
// endpoint fails fall back to the figures from the cluster-level listing.
func (t *NodeTools) GetNodes(ctx context.Context, formatStyle string) (string, error) {
	nodes, err := t.api.ListNodes(ctx)
	if err != nil {
		return "", fmt.Errorf("listing nodes: %w", err)
	}

	records := make([]NodeRecord, 0, len(nodes))
	for _, n := range nodes {
		rec := NodeRecord{
			Node:        n.Node,
			Status:      n.Status,
			Uptime:      n.Uptime.Int64(),
			MaxCPU:      n.MaxCPU.Int64(),
			MemoryUsed:  n.Mem.Int64(),
			MemoryTotal: n.MaxMem.Int64(),
		}
		status, err := t.api.GetNodeStatus(ctx, n.Node)
		if err != nil {
			logging.Debug("nodes", "no detailed status for %s: %v", n.Node, err)
		} else {
			rec.Uptime = status.Uptime.Int64()
			rec.MaxCPU = status.CPUInfo.CPUs.Int64()
			rec.MemoryUsed = status.Memory.Used.Int64()
			rec.MemoryTotal = status.Memory.Total.Int64()
		}
		records = append(records, rec)
	}

	if formatStyle == FormatJSON {
		return renderJSON(records)
	}

	lines := []string{"🖥️ Proxmox Nodes", ""}
	for _, r := range records {
		lines = append(lines,
			fmt.Sprintf("🖥️ %s", r.Node),
			fmt.Sprintf("  • Status: %s", upperOrUnknown(r.Status)),
			fmt.Sprintf("  • Uptime: %s", formatUptime(r.Uptime)),
			fmt.Sprintf("  • CPU Cores: %d", r.MaxCPU),
			fmt.Sprintf("  • Memory: %s / %s",
				BytesToHuman(float64(r.MemoryUsed)), BytesToHuman(float64(r.MemoryTotal))),
			"",
		)
	}
	return joinLines(lines), nil
}

// NodeStatusRecord is the detailed view of a single node. Fields are in
// alphabetical tag order.
type NodeStatusRecord struct {
	CPUModel    string  `json:"cpu_model"`
	CPUPct      float64 `json:"cpu_pct"`
	CPUs        int64   `json:"cpus"`
	Kernel      string  `json:"kernel"`
	MemoryTotal int64   `json:"memory_total"`
	MemoryUsed  int64   `json:"memory_used"`
	Node        string  `json:"node"`
	PVEVersion  string  `json:"pve_version"`
	RootFSTotal int64   `json:"rootfs_total"`
	RootFSUsed  int64   `json:"rootfs_used"`
	SwapTotal   int64   `json:"swap_total"`
	SwapUsed    int64   `json:"swap_used"`
	Uptime      int64   `json:"uptime"`
}

// GetNodeStatus returns the detailed status of one node.
func (t *NodeTools) GetNodeStatus(ctx context.Context, node, formatStyle string) (string, error) {
	status, err := t.api.GetNodeStatus(ctx, node)
	if err != nil {
		return "", fmt.Errorf("getting status for node %s: %w", node, err)
	}

	rec := NodeStatusRecord{
		CPUModel:    status.CPUInfo.Model,
		CPUPct:      round2(status.CPU.Float() * 100.0),
		CPUs:        status.CPUInfo.CPUs.Int64(),
		Kernel:      status.KVersion,
		MemoryTotal: status.Memory.Total.Int64(),
		MemoryUsed:  status.Memory.Used.Int64(),
		Node:        node,
		PVEVersion:  status.PVEVersion,
		RootFSTotal: status.RootFS.Total.Int64(),
		RootFSUsed:  status.RootFS.Used.Int64(),
		SwapTotal:   status.Swap.Total.Int64(),
		SwapUsed:    status.Swap.Used.Int64(),
		Uptime:      status.Uptime.Int64(),
	}

	if formatStyle == FormatJSON {
		return renderJSON(rec)
	}

	lines := []string{
		fmt.Sprintf("🖥️ Node: %s", node),
		"",
		fmt.Sprintf("  • Uptime: %s", formatUptime(rec.Uptime)),
		fmt.Sprintf("  • CPU: %.1f%% of %d cores (%s)", rec.CPUPct, rec.CPUs, rec.CPUModel),
		fmt.Sprintf("  • Memory: %s / %s",
			BytesToHuman(float64(rec.MemoryUsed)), BytesToHuman(float64(rec.MemoryTotal))),
		fmt.Sprintf("  • Swap: %s / %s",
			BytesToHuman(float64(rec.SwapUsed)), BytesToHuman(float64(rec.SwapTotal))),
		fmt.Sprintf("  • Root FS: %s / %s",
			BytesToHuman(float64(rec.RootFSUsed)), BytesToHuman(float64(rec.RootFSTotal))),
		fmt.Sprintf("  • Kernel: %s", rec.Kernel),
		fmt.Sprintf("  • PVE Version: %s", rec.PVEVersion),
	}
	return joinLines(lines), nil
}

// formatUptime renders seconds as "Nd Nh Nm".
func formatUptime(seconds int64) string {
	if seconds <= 0 {
		return "0m"
	}
	days := seconds / 86400
	hours := (seconds % 86400) / 3600
	minutes := (seconds % 3600) / 60
	switch {
	case days > 0:
		return fmt.Sprintf("%dd %dh %dm", days, hours, minutes)
	case hours > 0:
		return fmt.Sprintf("%dh %dm", hours, minutes)
	default:
		return fmt.Sprintf("%dm", minutes)
	}
}
