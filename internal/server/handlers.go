package server

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"pvemcp/internal/tools"
	"pvemcp/pkg/logging"
	"pvemcp/pkg/proxmox"
)

// fail logs a tool failure and wraps it into an error content block. The
// block body is always JSON regardless of the requested format, so callers
// can parse failures uniformly.
func fail(action string, err error) *mcp.CallToolResult {
	logging.Error(action, err, "tool call failed")
	return mcp.NewToolResultError(tools.ErrorJSON(action, err))
}

func formatStyle(req mcp.CallToolRequest) string {
	return req.GetString("format_style", "pretty")
}

// requireVMID reads a guest ID passed as a string parameter. IDs travel as
// strings on the wire because that is what most MCP clients send.
func requireVMID(req mcp.CallToolRequest, key string) (int, error) {
	raw, err := req.RequireString(key)
	if err != nil {
		return 0, err
	}
	vmid, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || vmid <= 0 {
		return 0, fmt.Errorf("invalid %s %q: must be a positive integer", key, raw)
	}
	return vmid, nil
}

func guestType(req mcp.CallToolRequest) proxmox.GuestType {
	return proxmox.ParseGuestType(req.GetString("vm_type", "qemu"))
}

func (s *Server) handleGetNodes(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	out, err := s.nodes.GetNodes(ctx, formatStyle(req))
	if err != nil {
		return fail("get_nodes", err), nil
	}
	return mcp.NewToolResultText(out), nil
}

func (s *Server) handleGetNodeStatus(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	node, err := req.RequireString("node")
	if err != nil {
		return fail("get_node_status", err), nil
	}
	out, err := s.nodes.GetNodeStatus(ctx, node, formatStyle(req))
	if err != nil {
		return fail("get_node_status", err), nil
	}
	return mcp.NewToolResultText(out), nil
}

func (s *Server) handleGetClusterStatus(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	out, err := s.cluster.GetClusterStatus(ctx, formatStyle(req))
	if err != nil {
		return fail("get_cluster_status", err), nil
	}
	return mcp.NewToolResultText(out), nil
}

func (s *Server) handleGetVMs(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	out, err := s.vms.GetVMs(ctx, formatStyle(req))
	if err != nil {
		return fail("get_vms", err), nil
	}
	return mcp.NewToolResultText(out), nil
}

func (s *Server) handleCreateVM(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	node, err := req.RequireString("node")
	if err != nil {
		return fail("create_vm", err), nil
	}
	vmid, err := requireVMID(req, "vmid")
	if err != nil {
		return fail("create_vm", err), nil
	}
	name, err := req.RequireString("name")
	if err != nil {
		return fail("create_vm", err), nil
	}
	cpus, err := req.RequireInt("cpus")
	if err != nil {
		return fail("create_vm", err), nil
	}
	memory, err := req.RequireInt("memory")
	if err != nil {
		return fail("create_vm", err), nil
	}
	diskSize, err := req.RequireInt("disk_size")
	if err != nil {
		return fail("create_vm", err), nil
	}

	opts := proxmox.CreateVMOptions{
		VMID:     vmid,
		Name:     name,
		Cores:    cpus,
		MemoryMB: memory,
		DiskGB:   diskSize,
		Storage:  req.GetString("storage", ""),
		OSType:   req.GetString("ostype", ""),
	}
	out, err := s.vms.CreateVM(ctx, node, opts, formatStyle(req))
	if err != nil {
		return fail("create_vm", err), nil
	}
	return mcp.NewToolResultText(out), nil
}

func (s *Server) handleExecuteVMCommand(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	node, err := req.RequireString("node")
	if err != nil {
		return fail("execute_vm_command", err), nil
	}
	vmid, err := requireVMID(req, "vmid")
	if err != nil {
		return fail("execute_vm_command", err), nil
	}
	command, err := req.RequireString("command")
	if err != nil {
		return fail("execute_vm_command", err), nil
	}
	out, err := s.vms.ExecuteCommand(ctx, node, vmid, command, formatStyle(req))
	if err != nil {
		return fail("execute_vm_command", err), nil
	}
	return mcp.NewToolResultText(out), nil
}

// powerVMHandler builds the handler shared by start_vm, stop_vm, shutdown_vm
// and reset_vm.
func (s *Server) powerVMHandler(action string, power tools.PowerAction) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		node, err := req.RequireString("node")
		if err != nil {
			return fail(action, err), nil
		}
		vmid, err := requireVMID(req, "vmid")
		if err != nil {
			return fail(action, err), nil
		}
		out, err := s.vms.PowerVM(ctx, power, node, vmid, formatStyle(req))
		if err != nil {
			return fail(action, err), nil
		}
		return mcp.NewToolResultText(out), nil
	}
}

func (s *Server) handleDeleteVM(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	node, err := req.RequireString("node")
	if err != nil {
		return fail("delete_vm", err), nil
	}
	vmid, err := requireVMID(req, "vmid")
	if err != nil {
		return fail("delete_vm", err), nil
	}
	out, err := s.vms.DeleteVM(ctx, node, vmid, req.GetBool("purge", false), formatStyle(req))
	if err != nil {
		return fail("delete_vm", err), nil
	}
	return mcp.NewToolResultText(out), nil
}

func (s *Server) handleGetContainers(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	opts := tools.GetContainersOptions{
		Node:         req.GetString("node", ""),
		IncludeStats: req.GetBool("include_stats", true),
		IncludeRaw:   req.GetBool("include_raw", false),
		FormatStyle:  formatStyle(req),
	}
	out, err := s.containers.GetContainers(ctx, opts)
	if err != nil {
		return fail("get_containers", err), nil
	}
	return mcp.NewToolResultText(out), nil
}

func (s *Server) handleStartContainer(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	selector, err := req.RequireString("selector")
	if err != nil {
		return fail("start_container", err), nil
	}
	out, err := s.containers.StartContainers(ctx, selector, formatStyle(req))
	if err != nil {
		return fail("start_container", err), nil
	}
	return mcp.NewToolResultText(out), nil
}

func (s *Server) handleStopContainer(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	selector, err := req.RequireString("selector")
	if err != nil {
		return fail("stop_container", err), nil
	}
	timeout := req.GetInt("timeout_seconds", 10)
	if timeout < 1 || timeout > 600 {
		return fail("stop_container", fmt.Errorf("timeout_seconds must be between 1 and 600, got %d", timeout)), nil
	}
	out, err := s.containers.StopContainers(ctx, selector, req.GetBool("graceful", true), timeout, formatStyle(req))
	if err != nil {
		return fail("stop_container", err), nil
	}
	return mcp.NewToolResultText(out), nil
}

func (s *Server) handleRestartContainer(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	selector, err := req.RequireString("selector")
	if err != nil {
		return fail("restart_container", err), nil
	}
	out, err := s.containers.RestartContainers(ctx, selector, formatStyle(req))
	if err != nil {
		return fail("restart_container", err), nil
	}
	return mcp.NewToolResultText(out), nil
}

func (s *Server) handleGetStorage(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	out, err := s.storage.GetStorage(ctx, req.GetString("node", ""), formatStyle(req))
	if err != nil {
		return fail("get_storage", err), nil
	}
	return mcp.NewToolResultText(out), nil
}

func (s *Server) handleListSnapshots(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	node, err := req.RequireString("node")
	if err != nil {
		return fail("list_snapshots", err), nil
	}
	vmid, err := requireVMID(req, "vmid")
	if err != nil {
		return fail("list_snapshots", err), nil
	}
	out, err := s.snapshots.ListSnapshots(ctx, string(guestType(req)), node, vmid, formatStyle(req))
	if err != nil {
		return fail("list_snapshots", err), nil
	}
	return mcp.NewToolResultText(out), nil
}

func (s *Server) handleCreateSnapshot(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	node, err := req.RequireString("node")
	if err != nil {
		return fail("create_snapshot", err), nil
	}
	vmid, err := requireVMID(req, "vmid")
	if err != nil {
		return fail("create_snapshot", err), nil
	}
	snapname, err := req.RequireString("snapname")
	if err != nil {
		return fail("create_snapshot", err), nil
	}
	out, err := s.snapshots.CreateSnapshot(ctx, string(guestType(req)), node, vmid,
		snapname, req.GetString("description", ""), req.GetBool("vmstate", false), formatStyle(req))
	if err != nil {
		return fail("create_snapshot", err), nil
	}
	return mcp.NewToolResultText(out), nil
}

func (s *Server) handleDeleteSnapshot(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	node, err := req.RequireString("node")
	if err != nil {
		return fail("delete_snapshot", err), nil
	}
	vmid, err := requireVMID(req, "vmid")
	if err != nil {
		return fail("delete_snapshot", err), nil
	}
	snapname, err := req.RequireString("snapname")
	if err != nil {
		return fail("delete_snapshot", err), nil
	}
	out, err := s.snapshots.DeleteSnapshot(ctx, string(guestType(req)), node, vmid, snapname, formatStyle(req))
	if err != nil {
		return fail("delete_snapshot", err), nil
	}
	return mcp.NewToolResultText(out), nil
}

func (s *Server) handleRollbackSnapshot(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	node, err := req.RequireString("node")
	if err != nil {
		return fail("rollback_snapshot", err), nil
	}
	vmid, err := requireVMID(req, "vmid")
	if err != nil {
		return fail("rollback_snapshot", err), nil
	}
	snapname, err := req.RequireString("snapname")
	if err != nil {
		return fail("rollback_snapshot", err), nil
	}
	out, err := s.snapshots.RollbackSnapshot(ctx, string(guestType(req)), node, vmid, snapname, formatStyle(req))
	if err != nil {
		return fail("rollback_snapshot", err), nil
	}
	return mcp.NewToolResultText(out), nil
}

func (s *Server) handleListBackups(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	vmid := 0
	if raw := strings.TrimSpace(req.GetString("vmid", "")); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v <= 0 {
			return fail("list_backups", fmt.Errorf("invalid vmid %q: must be a positive integer", raw)), nil
		}
		vmid = v
	}
	out, err := s.backups.ListBackups(ctx, req.GetString("node", ""), req.GetString("storage", ""), vmid, formatStyle(req))
	if err != nil {
		return fail("list_backups", err), nil
	}
	return mcp.NewToolResultText(out), nil
}

func (s *Server) handleCreateBackup(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	node, err := req.RequireString("node")
	if err != nil {
		return fail("create_backup", err), nil
	}
	vmid, err := requireVMID(req, "vmid")
	if err != nil {
		return fail("create_backup", err), nil
	}
	storage, err := req.RequireString("storage")
	if err != nil {
		return fail("create_backup", err), nil
	}
	opts := tools.CreateBackupOptions{
		Node:     node,
		VMID:     vmid,
		Storage:  storage,
		Compress: req.GetString("compress", ""),
		Mode:     req.GetString("mode", ""),
		Notes:    req.GetString("notes", ""),
	}
	out, err := s.backups.CreateBackup(ctx, opts, formatStyle(req))
	if err != nil {
		return fail("create_backup", err), nil
	}
	return mcp.NewToolResultText(out), nil
}

func (s *Server) handleRestoreBackup(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	node, err := req.RequireString("node")
	if err != nil {
		return fail("restore_backup", err), nil
	}
	archive, err := req.RequireString("archive")
	if err != nil {
		return fail("restore_backup", err), nil
	}
	vmid, err := requireVMID(req, "vmid")
	if err != nil {
		return fail("restore_backup", err), nil
	}
	out, err := s.backups.RestoreBackup(ctx, node, archive, vmid,
		req.GetString("storage", ""), req.GetBool("unique", true), formatStyle(req))
	if err != nil {
		return fail("restore_backup", err), nil
	}
	return mcp.NewToolResultText(out), nil
}

func (s *Server) handleDeleteBackup(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	node, err := req.RequireString("node")
	if err != nil {
		return fail("delete_backup", err), nil
	}
	storage, err := req.RequireString("storage")
	if err != nil {
		return fail("delete_backup", err), nil
	}
	volid, err := req.RequireString("volid")
	if err != nil {
		return fail("delete_backup", err), nil
	}
	out, err := s.backups.DeleteBackup(ctx, node, storage, volid, formatStyle(req))
	if err != nil {
		return fail("delete_backup", err), nil
	}
	return mcp.NewToolResultText(out), nil
}

func (s *Server) handleListISOs(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	out, err := s.media.ListISOs(ctx, req.GetString("node", ""), req.GetString("storage", ""), formatStyle(req))
	if err != nil {
		return fail("list_isos", err), nil
	}
	return mcp.NewToolResultText(out), nil
}

func (s *Server) handleListTemplates(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	out, err := s.media.ListTemplates(ctx, req.GetString("node", ""), req.GetString("storage", ""), formatStyle(req))
	if err != nil {
		return fail("list_templates", err), nil
	}
	return mcp.NewToolResultText(out), nil
}

func (s *Server) handleDownloadISO(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	node, err := req.RequireString("node")
	if err != nil {
		return fail("download_iso", err), nil
	}
	storage, err := req.RequireString("storage")
	if err != nil {
		return fail("download_iso", err), nil
	}
	url, err := req.RequireString("url")
	if err != nil {
		return fail("download_iso", err), nil
	}
	filename, err := req.RequireString("filename")
	if err != nil {
		return fail("download_iso", err), nil
	}
	out, err := s.media.DownloadISO(ctx, node, storage, url, filename,
		req.GetString("checksum", ""), req.GetString("checksum_algorithm", ""), formatStyle(req))
	if err != nil {
		return fail("download_iso", err), nil
	}
	return mcp.NewToolResultText(out), nil
}

func (s *Server) handleDeleteISO(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	node, err := req.RequireString("node")
	if err != nil {
		return fail("delete_iso", err), nil
	}
	storage, err := req.RequireString("storage")
	if err != nil {
		return fail("delete_iso", err), nil
	}
	filename, err := req.RequireString("filename")
	if err != nil {
		return fail("delete_iso", err), nil
	}
	out, err := s.media.DeleteISO(ctx, node, storage, filename, formatStyle(req))
	if err != nil {
		return fail("delete_iso", err), nil
	}
	return mcp.NewToolResultText(out), nil
}
