package tools

import (
	"context"

	"pvemcp/pkg/proxmox"
)

// NodeAPI is the API subset used by NodeTools.
type NodeAPI interface {
	ListNodes(ctx context.Context) ([]proxmox.Node, error)
	GetNodeStatus(ctx context.Context, node string) (*proxmox.NodeStatus, error)
}

// ContainerAPI is the API subset used by ContainerTools.
type ContainerAPI interface {
	ListNodes(ctx context.Context) ([]proxmox.Node, error)
	ListContainers(ctx context.Context, node string) ([]proxmox.Container, error)
	GetContainerStatus(ctx context.Context, node string, vmid int) (*proxmox.GuestStatus, error)
	GetContainerConfig(ctx context.Context, node string, vmid int) (*proxmox.ContainerConfig, error)
	GetContainerRRD(ctx context.Context, node string, vmid int, timeframe string) ([]proxmox.RRDPoint, error)
	StartContainer(ctx context.Context, node string, vmid int) (string, error)
	StopContainer(ctx context.Context, node string, vmid int) (string, error)
	ShutdownContainer(ctx context.Context, node string, vmid int, timeoutSeconds int) (string, error)
	RebootContainer(ctx context.Context, node string, vmid int) (string, error)
}

// VMAPI is the API subset used by VMTools.
type VMAPI interface {
	ListNodes(ctx context.Context) ([]proxmox.Node, error)
	ListVMs(ctx context.Context, node string) ([]proxmox.VM, error)
	GetVMStatus(ctx context.Context, node string, vmid int) (*proxmox.GuestStatus, error)
	GetVMConfig(ctx context.Context, node string, vmid int) (*proxmox.VMConfig, error)
	CreateVM(ctx context.Context, node string, opts proxmox.CreateVMOptions) (string, error)
	StartVM(ctx context.Context, node string, vmid int) (string, error)
	StopVM(ctx context.Context, node string, vmid int) (string, error)
	ShutdownVM(ctx context.Context, node string, vmid int) (string, error)
	ResetVM(ctx context.Context, node string, vmid int) (string, error)
	DeleteVM(ctx context.Context, node string, vmid int, purge bool) (string, error)
	AgentExec(ctx context.Context, node string, vmid int, command string) (int, error)
	AgentExecStatus(ctx context.Context, node string, vmid int, pid int) (*proxmox.ExecStatus, error)
}

// StorageAPI is the API subset used by StorageTools.
type StorageAPI interface {
	ListNodes(ctx context.Context) ([]proxmox.Node, error)
	ListStorage(ctx context.Context) ([]proxmox.Storage, error)
	ListNodeStorage(ctx context.Context, node string) ([]proxmox.Storage, error)
	GetStorageStatus(ctx context.Context, node, storage string) (*proxmox.StorageStatus, error)
}

// ClusterAPI is the API subset used by ClusterTools.
type ClusterAPI interface {
	GetClusterStatus(ctx context.Context) ([]proxmox.ClusterStatusEntry, error)
}

// SnapshotAPI is the API subset used by SnapshotTools.
type SnapshotAPI interface {
	ListSnapshots(ctx context.Context, gt proxmox.GuestType, node string, vmid int) ([]proxmox.Snapshot, error)
	CreateSnapshot(ctx context.Context, gt proxmox.GuestType, node string, vmid int, name, description string, vmstate bool) (string, error)
	DeleteSnapshot(ctx context.Context, gt proxmox.GuestType, node string, vmid int, name string) (string, error)
	RollbackSnapshot(ctx context.Context, gt proxmox.GuestType, node string, vmid int, name string) (string, error)
}

// BackupAPI is the API subset used by BackupTools.
type BackupAPI interface {
	ListNodes(ctx context.Context) ([]proxmox.Node, error)
	ListNodeStorage(ctx context.Context, node string) ([]proxmox.Storage, error)
	ListVolumes(ctx context.Context, node, storage, content string, vmid int) ([]proxmox.Volume, error)
	CreateBackup(ctx context.Context, node string, vmid int, storage, compress, mode, notes string) (string, error)
	RestoreContainer(ctx context.Context, node string, vmid int, archive, storage string, unique bool) (string, error)
	RestoreVM(ctx context.Context, node string, vmid int, archive, storage string, unique bool) (string, error)
	DeleteVolume(ctx context.Context, node, storage, volid string) (string, error)
}

// MediaAPI is the API subset used by MediaTools for ISO images and container
// templates.
type MediaAPI interface {
	ListNodes(ctx context.Context) ([]proxmox.Node, error)
	ListNodeStorage(ctx context.Context, node string) ([]proxmox.Storage, error)
	ListVolumes(ctx context.Context, node, storage, content string, vmid int) ([]proxmox.Volume, error)
	DownloadURL(ctx context.Context, node, storage string, opts proxmox.DownloadURLOptions) (string, error)
	DeleteVolume(ctx context.Context, node, storage, volid string) (string, error)
}

var (
	_ NodeAPI      = (*proxmox.Client)(nil)
	_ ContainerAPI = (*proxmox.Client)(nil)
	_ VMAPI        = (*proxmox.Client)(nil)
	_ StorageAPI   = (*proxmox.Client)(nil)
	_ ClusterAPI   = (*proxmox.Client)(nil)
	_ SnapshotAPI  = (*proxmox.Client)(nil)
	_ BackupAPI    = (*proxmox.Client)(nil)
	_ MediaAPI     = (*proxmox.Client)(nil)
)
