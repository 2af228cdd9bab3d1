package server

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pvemcp/pkg/proxmox"
)

// fakeBackend satisfies Backend with canned cluster state.
type fakeBackend struct {
	nodes      []proxmox.Node
	containers map[string][]proxmox.Container

	createdVM  *proxmox.CreateVMOptions
	powerCalls []string
	lxcCalls   []string
}

func (f *fakeBackend) ListNodes(ctx context.Context) ([]proxmox.Node, error) {
	return f.nodes, nil
}

func (f *fakeBackend) GetNodeStatus(ctx context.Context, node string) (*proxmox.NodeStatus, error) {
	return &proxmox.NodeStatus{Uptime: 3600}, nil
}

func (f *fakeBackend) ListContainers(ctx context.Context, node string) ([]proxmox.Container, error) {
	return f.containers[node], nil
}

func (f *fakeBackend) GetContainerStatus(ctx context.Context, node string, vmid int) (*proxmox.GuestStatus, error) {
	return &proxmox.GuestStatus{Status: "running"}, nil
}

func (f *fakeBackend) GetContainerConfig(ctx context.Context, node string, vmid int) (*proxmox.ContainerConfig, error) {
	return &proxmox.ContainerConfig{Memory: 512, Cores: 1}, nil
}

func (f *fakeBackend) GetContainerRRD(ctx context.Context, node string, vmid int, timeframe string) ([]proxmox.RRDPoint, error) {
	return nil, nil
}

func (f *fakeBackend) StartContainer(ctx context.Context, node string, vmid int) (string, error) {
	f.lxcCalls = append(f.lxcCalls, "start")
	return "UPID:lxc-start", nil
}

func (f *fakeBackend) StopContainer(ctx context.Context, node string, vmid int) (string, error) {
	f.lxcCalls = append(f.lxcCalls, "stop")
	return "UPID:lxc-stop", nil
}

func (f *fakeBackend) ShutdownContainer(ctx context.Context, node string, vmid int, timeoutSeconds int) (string, error) {
	f.lxcCalls = append(f.lxcCalls, "shutdown")
	return "UPID:lxc-shutdown", nil
}

func (f *fakeBackend) RebootContainer(ctx context.Context, node string, vmid int) (string, error) {
	f.lxcCalls = append(f.lxcCalls, "reboot")
	return "UPID:lxc-reboot", nil
}

func (f *fakeBackend) ListVMs(ctx context.Context, node string) ([]proxmox.VM, error) {
	return nil, nil
}

func (f *fakeBackend) GetVMStatus(ctx context.Context, node string, vmid int) (*proxmox.GuestStatus, error) {
	return &proxmox.GuestStatus{Status: "running"}, nil
}

func (f *fakeBackend) GetVMConfig(ctx context.Context, node string, vmid int) (*proxmox.VMConfig, error) {
	return &proxmox.VMConfig{}, nil
}

func (f *fakeBackend) CreateVM(ctx context.Context, node string, opts proxmox.CreateVMOptions) (string, error) {
	f.createdVM = &opts
	return "UPID:create", nil
}

func (f *fakeBackend) StartVM(ctx context.Context, node string, vmid int) (string, error) {
	f.powerCalls = append(f.powerCalls, "start")
	return "UPID:start", nil
}

func (f *fakeBackend) StopVM(ctx context.Context, node string, vmid int) (string, error) {
	f.powerCalls = append(f.powerCalls, "stop")
	return "UPID:stop", nil
}

func (f *fakeBackend) ShutdownVM(ctx context.Context, node string, vmid int) (string, error) {
	f.powerCalls = append(f.powerCalls, "shutdown")
	return "UPID:shutdown", nil
}

func (f *fakeBackend) ResetVM(ctx context.Context, node string, vmid int) (string, error) {
	f.powerCalls = append(f.powerCalls, "reset")
	return "UPID:reset", nil
}

func (f *fakeBackend) DeleteVM(ctx context.Context, node string, vmid int, purge bool) (string, error) {
	return "UPID:delete", nil
}

func (f *fakeBackend) AgentExec(ctx context.Context, node string, vmid int, command string) (int, error) {
	return 1234, nil
}

func (f *fakeBackend) AgentExecStatus(ctx context.Context, node string, vmid int, pid int) (*proxmox.ExecStatus, error) {
	return &proxmox.ExecStatus{Exited: true, OutData: "ok\n"}, nil
}

func (f *fakeBackend) ListStorage(ctx context.Context) ([]proxmox.Storage, error) {
	return nil, nil
}

func (f *fakeBackend) ListNodeStorage(ctx context.Context, node string) ([]proxmox.Storage, error) {
	return nil, nil
}

func (f *fakeBackend) GetStorageStatus(ctx context.Context, node, storage string) (*proxmox.StorageStatus, error) {
	return &proxmox.StorageStatus{}, nil
}

func (f *fakeBackend) GetClusterStatus(ctx context.Context) ([]proxmox.ClusterStatusEntry, error) {
	return []proxmox.ClusterStatusEntry{{Type: "node", Name: "pve1", Local: true}}, nil
}

func (f *fakeBackend) ListSnapshots(ctx context.Context, gt proxmox.GuestType, node string, vmid int) ([]proxmox.Snapshot, error) {
	return nil, nil
}

func (f *fakeBackend) CreateSnapshot(ctx context.Context, gt proxmox.GuestType, node string, vmid int, name, description string, vmstate bool) (string, error) {
	return "UPID:snap", nil
}

func (f *fakeBackend) DeleteSnapshot(ctx context.Context, gt proxmox.GuestType, node string, vmid int, name string) (string, error) {
	return "UPID:snapdel", nil
}

func (f *fakeBackend) RollbackSnapshot(ctx context.Context, gt proxmox.GuestType, node string, vmid int, name string) (string, error) {
	return "UPID:rollback", nil
}

func (f *fakeBackend) ListVolumes(ctx context.Context, node, storage, content string, vmid int) ([]proxmox.Volume, error) {
	return nil, nil
}

func (f *fakeBackend) CreateBackup(ctx context.Context, node string, vmid int, storage, compress, mode, notes string) (string, error) {
	return "UPID:vzdump", nil
}

func (f *fakeBackend) RestoreContainer(ctx context.Context, node string, vmid int, archive, storage string, unique bool) (string, error) {
	return "UPID:restore-ct", nil
}

func (f *fakeBackend) RestoreVM(ctx context.Context, node string, vmid int, archive, storage string, unique bool) (string, error) {
	return "UPID:restore-vm", nil
}

func (f *fakeBackend) DeleteVolume(ctx context.Context, node, storage, volid string) (string, error) {
	return "UPID:voldel", nil
}

func (f *fakeBackend) DownloadURL(ctx context.Context, node, storage string, opts proxmox.DownloadURLOptions) (string, error) {
	return "UPID:download", nil
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		nodes: []proxmox.Node{{Node: "pve1", Status: "online"}},
		containers: map[string][]proxmox.Container{
			"pve1": {{VMID: 100, Name: "web", Status: "running"}},
		},
	}
}

func callReq(args map[string]any) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	return req
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, res.Content)
	tc, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok, "expected text content")
	return tc.Text
}

func TestHandleGetNodes(t *testing.T) {
	s := New(newFakeBackend(), "test")

	res, err := s.handleGetNodes(context.Background(), callReq(map[string]any{"format_style": "json"}))
	require.NoError(t, err)
	require.False(t, res.IsError)

	var records []map[string]any
	require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &records))
	require.Len(t, records, 1)
	assert.Equal(t, "pve1", records[0]["node"])
}

func TestHandleGetNodeStatusMissingParam(t *testing.T) {
	s := New(newFakeBackend(), "test")

	res, err := s.handleGetNodeStatus(context.Background(), callReq(nil))
	require.NoError(t, err)
	assert.True(t, res.IsError)

	var body map[string]string
	require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &body))
	assert.Equal(t, "get_node_status", body["action"])
	assert.NotEmpty(t, body["error"])
}

func TestRequireVMIDRejectsGarbage(t *testing.T) {
	_, err := requireVMID(callReq(map[string]any{"vmid": "abc"}), "vmid")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "positive integer")

	vmid, err := requireVMID(callReq(map[string]any{"vmid": " 100 "}), "vmid")
	require.NoError(t, err)
	assert.Equal(t, 100, vmid)
}

func TestHandleCreateVM(t *testing.T) {
	backend := newFakeBackend()
	s := New(backend, "test")

	res, err := s.handleCreateVM(context.Background(), callReq(map[string]any{
		"node":      "pve1",
		"vmid":      "200",
		"name":      "web-server",
		"cpus":      float64(2),
		"memory":    float64(2048),
		"disk_size": float64(20),
	}))
	require.NoError(t, err)
	require.False(t, res.IsError)

	require.NotNil(t, backend.createdVM)
	assert.Equal(t, 200, backend.createdVM.VMID)
	assert.Equal(t, 2, backend.createdVM.Cores)
	assert.Equal(t, 2048, backend.createdVM.MemoryMB)
}

func TestHandleStopContainerTimeoutValidation(t *testing.T) {
	backend := newFakeBackend()
	s := New(backend, "test")

	res, err := s.handleStopContainer(context.Background(), callReq(map[string]any{
		"selector":        "100",
		"timeout_seconds": float64(900),
	}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
	assert.Contains(t, resultText(t, res), "timeout_seconds")
	assert.Empty(t, backend.lxcCalls)
}

func TestHandleStartContainerNoMatch(t *testing.T) {
	backend := newFakeBackend()
	s := New(backend, "test")

	res, err := s.handleStartContainer(context.Background(), callReq(map[string]any{
		"selector": "does-not-exist",
	}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
	assert.Contains(t, resultText(t, res), "no containers matched")
	assert.Empty(t, backend.lxcCalls)
}

func TestHandleStartContainerDispatches(t *testing.T) {
	backend := newFakeBackend()
	s := New(backend, "test")

	res, err := s.handleStartContainer(context.Background(), callReq(map[string]any{
		"selector": "web",
	}))
	require.NoError(t, err)
	require.False(t, res.IsError)
	assert.Equal(t, []string{"start"}, backend.lxcCalls)
	assert.Contains(t, resultText(t, res), "✅ OK web")
}

func TestHandleRestartContainerIgnoresTimeout(t *testing.T) {
	backend := newFakeBackend()
	s := New(backend, "test")

	// timeout_seconds is accepted for compatibility but has no effect on
	// the reboot call; out-of-range values must not reject the request.
	res, err := s.handleRestartContainer(context.Background(), callReq(map[string]any{
		"selector":        "web",
		"timeout_seconds": float64(900),
	}))
	require.NoError(t, err)
	require.False(t, res.IsError)
	assert.Equal(t, []string{"reboot"}, backend.lxcCalls)
	assert.Contains(t, resultText(t, res), "✅ OK web")
}

func TestHandleListBackupsRejectsBadVMID(t *testing.T) {
	s := New(newFakeBackend(), "test")

	res, err := s.handleListBackups(context.Background(), callReq(map[string]any{"vmid": "x"}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
	assert.Contains(t, resultText(t, res), "invalid vmid")
}

func TestPowerVMHandlerRoutesAction(t *testing.T) {
	backend := newFakeBackend()
	s := New(backend, "test")

	args := map[string]any{"node": "pve1", "vmid": "100"}
	for _, tc := range []struct {
		handler func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error)
		want    string
	}{
		{s.powerVMHandler("start_vm", "start"), "start"},
		{s.powerVMHandler("shutdown_vm", "shutdown"), "shutdown"},
	} {
		backend.powerCalls = nil
		res, err := tc.handler(context.Background(), callReq(args))
		require.NoError(t, err)
		require.False(t, res.IsError)
		assert.Equal(t, []string{tc.want}, backend.powerCalls)
	}
}
