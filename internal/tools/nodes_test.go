package tools

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pvemcp/pkg/proxmox"
)

type fakeNodeAPI struct {
	nodes     []proxmox.Node
	status    map[string]*proxmox.NodeStatus
	statusErr map[string]error
}

func (f *fakeNodeAPI) ListNodes(ctx context.Context) ([]proxmox.Node, error) {
	return f.nodes, nil
}

func (f *fakeNodeAPI) GetNodeStatus(ctx context.Context, node string) (*proxmox.NodeStatus, error) {
	if err := f.statusErr[node]; err != nil {
		return nil, err
	}
	if s, ok := f.status[node]; ok {
		return s, nil
	}
	return nil, errors.New("unknown node")
}

func TestGetNodesFallsBackToListingFigures(t *testing.T) {
	detailed := &proxmox.NodeStatus{Uptime: 7200}
	detailed.CPUInfo.CPUs = 16
	detailed.Memory.Used = 1024
	detailed.Memory.Total = 4096

	api := &fakeNodeAPI{
		nodes: []proxmox.Node{
			{Node: "pve1", Status: "online", Uptime: 100, MaxCPU: 8, Mem: 512, MaxMem: 2048},
			{Node: "pve2", Status: "online", Uptime: 100, MaxCPU: 8, Mem: 512, MaxMem: 2048},
		},
		status:    map[string]*proxmox.NodeStatus{"pve1": detailed},
		statusErr: map[string]error{"pve2": errors.New("timeout")},
	}

	nt := NewNodeTools(api)
	out, err := nt.GetNodes(context.Background(), FormatJSON)
	require.NoError(t, err)

	var records []NodeRecord
	require.NoError(t, json.Unmarshal([]byte(out), &records))
	require.Len(t, records, 2)

	// pve1 carries the detailed figures, pve2 the listing fallback.
	assert.Equal(t, int64(16), records[0].MaxCPU)
	assert.Equal(t, int64(4096), records[0].MemoryTotal)
	assert.Equal(t, int64(8), records[1].MaxCPU)
	assert.Equal(t, int64(2048), records[1].MemoryTotal)
}

func TestGetNodeStatusPretty(t *testing.T) {
	status := &proxmox.NodeStatus{Uptime: 90061, CPU: 0.125, KVersion: "Linux 6.8", PVEVersion: "pve-manager/8.2"}
	status.CPUInfo.CPUs = 8
	status.CPUInfo.Model = "EPYC 7302"
	status.Memory.Used = 2147483648
	status.Memory.Total = 17179869184

	api := &fakeNodeAPI{status: map[string]*proxmox.NodeStatus{"pve1": status}}
	nt := NewNodeTools(api)

	out, err := nt.GetNodeStatus(context.Background(), "pve1", "pretty")
	require.NoError(t, err)

	assert.Contains(t, out, "🖥️ Node: pve1")
	assert.Contains(t, out, "Uptime: 1d 1h 1m")
	assert.Contains(t, out, "CPU: 12.5% of 8 cores (EPYC 7302)")
	assert.Contains(t, out, "Memory: 2.00 GiB / 16.00 GiB")
	assert.Contains(t, out, "PVE Version: pve-manager/8.2")
}

func TestFormatUptime(t *testing.T) {
	assert.Equal(t, "0m", formatUptime(0))
	assert.Equal(t, "5m", formatUptime(300))
	assert.Equal(t, "2h 5m", formatUptime(7500))
	assert.Equal(t, "3d 0h 1m", formatUptime(3*86400+60))
}
