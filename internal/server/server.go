package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"pvemcp/internal/tools"
	"pvemcp/pkg/logging"
)

// Backend is the full Proxmox API surface the server needs. It is the union
// of the per-provider subsets so a single *proxmox.Client satisfies it, while
// tests can swap in fakes per provider.
type Backend interface {
	tools.NodeAPI
	tools.ContainerAPI
	tools.VMAPI
	tools.StorageAPI
	tools.ClusterAPI
	tools.SnapshotAPI
	tools.BackupAPI
	tools.MediaAPI
}

// Server wires the tool providers to an MCP server instance.
type Server struct {
	mcp *server.MCPServer

	nodes      *tools.NodeTools
	containers *tools.ContainerTools
	vms        *tools.VMTools
	storage    *tools.StorageTools
	cluster    *tools.ClusterTools
	snapshots  *tools.SnapshotTools
	backups    *tools.BackupTools
	media      *tools.MediaTools
}

// New builds a Server with every tool registered against the given backend.
func New(backend Backend, version string) *Server {
	s := &Server{
		mcp: server.NewMCPServer(
			"ProxmoxMCP",
			version,
			server.WithToolCapabilities(true),
		),
		nodes:      tools.NewNodeTools(backend),
		containers: tools.NewContainerTools(backend),
		vms:        tools.NewVMTools(backend),
		storage:    tools.NewStorageTools(backend),
		cluster:    tools.NewClusterTools(backend),
		snapshots:  tools.NewSnapshotTools(backend),
		backups:    tools.NewBackupTools(backend),
		media:      tools.NewMediaTools(backend),
	}
	s.registerTools()
	return s
}

// MCPServer exposes the underlying MCP server, mainly for in-process tests.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

// ServeStdio runs the server over stdin/stdout until the client disconnects
// or ctx is cancelled.
func (s *Server) ServeStdio(ctx context.Context) error {
	logging.Info("server", "starting MCP server on stdio")
	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ServeStdio(s.mcp)
	}()

	select {
	case <-ctx.Done():
		logging.Info("server", "shutdown requested")
		return nil
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			return fmt.Errorf("stdio server: %w", err)
		}
		return nil
	}
}

// ServeSSE runs the server over HTTP with SSE transport until ctx is
// cancelled or the listener fails.
func (s *Server) ServeSSE(ctx context.Context, addr, baseURL string) error {
	sse := server.NewSSEServer(s.mcp,
		server.WithBaseURL(baseURL),
		server.WithSSEEndpoint("/sse"),
		server.WithMessageEndpoint("/message"),
		server.WithKeepAlive(true),
		server.WithKeepAliveInterval(30*time.Second),
	)

	logging.Info("server", "starting MCP server on %s (SSE endpoint %s/sse)", addr, baseURL)
	errCh := make(chan error, 1)
	go func() {
		errCh <- sse.Start(addr)
	}()

	select {
	case <-ctx.Done():
		logging.Info("server", "shutdown requested")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := sse.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("sse shutdown: %w", err)
		}
		return nil
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("sse server: %w", err)
		}
		return nil
	}
}

// formatOption is the shared format_style parameter carried by every tool
// that renders output.
func formatOption() mcp.ToolOption {
	return mcp.WithString("format_style",
		mcp.Description("Output format: 'pretty' or 'json'"),
		mcp.Enum("pretty", "json"),
	)
}

func (s *Server) registerTools() {
	// Nodes and cluster.
	s.mcp.AddTool(mcp.NewTool("get_nodes",
		mcp.WithDescription(getNodesDesc),
		formatOption(),
	), s.handleGetNodes)

	s.mcp.AddTool(mcp.NewTool("get_node_status",
		mcp.WithDescription(getNodeStatusDesc),
		mcp.WithString("node", mcp.Required(), mcp.Description("Name/ID of node to query")),
		formatOption(),
	), s.handleGetNodeStatus)

	s.mcp.AddTool(mcp.NewTool("get_cluster_status",
		mcp.WithDescription(getClusterStatusDesc),
		formatOption(),
	), s.handleGetClusterStatus)

	// VMs.
	s.mcp.AddTool(mcp.NewTool("get_vms",
		mcp.WithDescription(getVMsDesc),
		formatOption(),
	), s.handleGetVMs)

	s.mcp.AddTool(mcp.NewTool("create_vm",
		mcp.WithDescription(createVMDesc),
		mcp.WithString("node", mcp.Required(), mcp.Description("Host node name")),
		mcp.WithString("vmid", mcp.Required(), mcp.Description("New VM ID number")),
		mcp.WithString("name", mcp.Required(), mcp.Description("VM name")),
		mcp.WithNumber("cpus", mcp.Required(), mcp.Description("Number of CPU cores")),
		mcp.WithNumber("memory", mcp.Required(), mcp.Description("Memory size in MB")),
		mcp.WithNumber("disk_size", mcp.Required(), mcp.Description("Disk size in GB")),
		mcp.WithString("storage", mcp.Description("Target storage pool")),
		mcp.WithString("ostype", mcp.Description("OS type, default l26")),
		formatOption(),
	), s.handleCreateVM)

	s.mcp.AddTool(mcp.NewTool("execute_vm_command",
		mcp.WithDescription(executeVMCommandDesc),
		mcp.WithString("node", mcp.Required(), mcp.Description("Host node name")),
		mcp.WithString("vmid", mcp.Required(), mcp.Description("VM ID number")),
		mcp.WithString("command", mcp.Required(), mcp.Description("Shell command to run")),
		formatOption(),
	), s.handleExecuteVMCommand)

	for _, pa := range []struct {
		name   string
		desc   string
		action tools.PowerAction
	}{
		{"start_vm", startVMDesc, tools.PowerStart},
		{"stop_vm", stopVMDesc, tools.PowerStop},
		{"shutdown_vm", shutdownVMDesc, tools.PowerShutdown},
		{"reset_vm", resetVMDesc, tools.PowerReset},
	} {
		action := pa.action
		name := pa.name
		s.mcp.AddTool(mcp.NewTool(name,
			mcp.WithDescription(pa.desc),
			mcp.WithString("node", mcp.Required(), mcp.Description("Host node name")),
			mcp.WithString("vmid", mcp.Required(), mcp.Description("VM ID number")),
			formatOption(),
		), s.powerVMHandler(name, action))
	}

	s.mcp.AddTool(mcp.NewTool("delete_vm",
		mcp.WithDescription(deleteVMDesc),
		mcp.WithString("node", mcp.Required(), mcp.Description("Host node name")),
		mcp.WithString("vmid", mcp.Required(), mcp.Description("VM ID number")),
		mcp.WithBoolean("purge", mcp.Description("Also remove from backup jobs and HA")),
		formatOption(),
	), s.handleDeleteVM)

	// Containers.
	s.mcp.AddTool(mcp.NewTool("get_containers",
		mcp.WithDescription(getContainersDesc),
		mcp.WithString("node", mcp.Description("Limit to one node")),
		mcp.WithBoolean("include_stats", mcp.Description("Fetch live stats, default true")),
		mcp.WithBoolean("include_raw", mcp.Description("Attach raw status/config blobs")),
		formatOption(),
	), s.handleGetContainers)

	s.mcp.AddTool(mcp.NewTool("start_container",
		mcp.WithDescription(startContainerDesc),
		mcp.WithString("selector", mcp.Required(), mcp.Description("Container selector")),
		formatOption(),
	), s.handleStartContainer)

	s.mcp.AddTool(mcp.NewTool("stop_container",
		mcp.WithDescription(stopContainerDesc),
		mcp.WithString("selector", mcp.Required(), mcp.Description("Container selector")),
		mcp.WithBoolean("graceful", mcp.Description("Clean shutdown instead of kill, default true")),
		mcp.WithNumber("timeout_seconds", mcp.Description("Shutdown timeout 1-600, default 10")),
		formatOption(),
	), s.handleStopContainer)

	s.mcp.AddTool(mcp.NewTool("restart_container",
		mcp.WithDescription(restartContainerDesc),
		mcp.WithString("selector", mcp.Required(), mcp.Description("Container selector")),
		mcp.WithNumber("timeout_seconds", mcp.Description("Accepted for compatibility, ignored; reboot has no timeout")),
		formatOption(),
	), s.handleRestartContainer)

	// Storage.
	s.mcp.AddTool(mcp.NewTool("get_storage",
		mcp.WithDescription(getStorageDesc),
		mcp.WithString("node", mcp.Description("Limit to one node")),
		formatOption(),
	), s.handleGetStorage)

	// Snapshots.
	s.mcp.AddTool(mcp.NewTool("list_snapshots",
		mcp.WithDescription(listSnapshotsDesc),
		mcp.WithString("node", mcp.Required(), mcp.Description("Host node name")),
		mcp.WithString("vmid", mcp.Required(), mcp.Description("VM or container ID")),
		mcp.WithString("vm_type", mcp.Description("qemu or lxc, default qemu"), mcp.Enum("qemu", "lxc")),
		formatOption(),
	), s.handleListSnapshots)

	s.mcp.AddTool(mcp.NewTool("create_snapshot",
		mcp.WithDescription(createSnapshotDesc),
		mcp.WithString("node", mcp.Required(), mcp.Description("Host node name")),
		mcp.WithString("vmid", mcp.Required(), mcp.Description("VM or container ID")),
		mcp.WithString("snapname", mcp.Required(), mcp.Description("Snapshot name")),
		mcp.WithString("description", mcp.Description("Snapshot description")),
		mcp.WithBoolean("vmstate", mcp.Description("Include RAM state, VMs only")),
		mcp.WithString("vm_type", mcp.Description("qemu or lxc, default qemu"), mcp.Enum("qemu", "lxc")),
		formatOption(),
	), s.handleCreateSnapshot)

	s.mcp.AddTool(mcp.NewTool("delete_snapshot",
		mcp.WithDescription(deleteSnapshotDesc),
		mcp.WithString("node", mcp.Required(), mcp.Description("Host node name")),
		mcp.WithString("vmid", mcp.Required(), mcp.Description("VM or container ID")),
		mcp.WithString("snapname", mcp.Required(), mcp.Description("Snapshot name to delete")),
		mcp.WithString("vm_type", mcp.Description("qemu or lxc, default qemu"), mcp.Enum("qemu", "lxc")),
		formatOption(),
	), s.handleDeleteSnapshot)

	s.mcp.AddTool(mcp.NewTool("rollback_snapshot",
		mcp.WithDescription(rollbackSnapshotDesc),
		mcp.WithString("node", mcp.Required(), mcp.Description("Host node name")),
		mcp.WithString("vmid", mcp.Required(), mcp.Description("VM or container ID")),
		mcp.WithString("snapname", mcp.Required(), mcp.Description("Snapshot name to restore")),
		mcp.WithString("vm_type", mcp.Description("qemu or lxc, default qemu"), mcp.Enum("qemu", "lxc")),
		formatOption(),
	), s.handleRollbackSnapshot)

	// Backups.
	s.mcp.AddTool(mcp.NewTool("list_backups",
		mcp.WithDescription(listBackupsDesc),
		mcp.WithString("node", mcp.Description("Filter by node")),
		mcp.WithString("storage", mcp.Description("Filter by storage pool")),
		mcp.WithString("vmid", mcp.Description("Filter by VM/container ID")),
		formatOption(),
	), s.handleListBackups)

	s.mcp.AddTool(mcp.NewTool("create_backup",
		mcp.WithDescription(createBackupDesc),
		mcp.WithString("node", mcp.Required(), mcp.Description("Node where the guest runs")),
		mcp.WithString("vmid", mcp.Required(), mcp.Description("VM or container ID")),
		mcp.WithString("storage", mcp.Required(), mcp.Description("Target backup storage")),
		mcp.WithString("compress", mcp.Description("Compression, default zstd"), mcp.Enum("0", "gzip", "lz4", "zstd")),
		mcp.WithString("mode", mcp.Description("Backup mode, default snapshot"), mcp.Enum("snapshot", "suspend", "stop")),
		mcp.WithString("notes", mcp.Description("Notes for the archive")),
		formatOption(),
	), s.handleCreateBackup)

	s.mcp.AddTool(mcp.NewTool("restore_backup",
		mcp.WithDescription(restoreBackupDesc),
		mcp.WithString("node", mcp.Required(), mcp.Description("Target node")),
		mcp.WithString("archive", mcp.Required(), mcp.Description("Backup volume ID")),
		mcp.WithString("vmid", mcp.Required(), mcp.Description("New VM/container ID")),
		mcp.WithString("storage", mcp.Description("Target storage for disks")),
		mcp.WithBoolean("unique", mcp.Description("Generate unique MACs, default true")),
		formatOption(),
	), s.handleRestoreBackup)

	s.mcp.AddTool(mcp.NewTool("delete_backup",
		mcp.WithDescription(deleteBackupDesc),
		mcp.WithString("node", mcp.Required(), mcp.Description("Node name")),
		mcp.WithString("storage", mcp.Required(), mcp.Description("Storage pool name")),
		mcp.WithString("volid", mcp.Required(), mcp.Description("Backup volume ID")),
		formatOption(),
	), s.handleDeleteBackup)

	// ISO images and templates.
	s.mcp.AddTool(mcp.NewTool("list_isos",
		mcp.WithDescription(listISOsDesc),
		mcp.WithString("node", mcp.Description("Filter by node")),
		mcp.WithString("storage", mcp.Description("Filter by storage pool")),
		formatOption(),
	), s.handleListISOs)

	s.mcp.AddTool(mcp.NewTool("list_templates",
		mcp.WithDescription(listTemplatesDesc),
		mcp.WithString("node", mcp.Description("Filter by node")),
		mcp.WithString("storage", mcp.Description("Filter by storage pool")),
		formatOption(),
	), s.handleListTemplates)

	s.mcp.AddTool(mcp.NewTool("download_iso",
		mcp.WithDescription(downloadISODesc),
		mcp.WithString("node", mcp.Required(), mcp.Description("Target node name")),
		mcp.WithString("storage", mcp.Required(), mcp.Description("Target storage pool")),
		mcp.WithString("url", mcp.Required(), mcp.Description("URL to download from")),
		mcp.WithString("filename", mcp.Required(), mcp.Description("Target filename")),
		mcp.WithString("checksum", mcp.Description("Expected checksum")),
		mcp.WithString("checksum_algorithm", mcp.Description("Checksum algorithm, default sha256"), mcp.Enum("sha256", "sha512", "md5")),
		formatOption(),
	), s.handleDownloadISO)

	s.mcp.AddTool(mcp.NewTool("delete_iso",
		mcp.WithDescription(deleteISODesc),
		mcp.WithString("node", mcp.Required(), mcp.Description("Node name")),
		mcp.WithString("storage", mcp.Required(), mcp.Description("Storage pool name")),
		mcp.WithString("filename", mcp.Required(), mcp.Description("Filename or volume ID")),
		formatOption(),
	), s.handleDeleteISO)
}
