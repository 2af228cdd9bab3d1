package server

// Tool description texts shown to calling agents.
const (
	getNodesDesc = `List all nodes in the Proxmox cluster with their status, CPU, memory, and uptime.

Example:
{"node": "pve1", "status": "online", "maxcpu": 16, "memory_used": 8589934592}`

	getNodeStatusDesc = `Get detailed status information for a specific Proxmox node.

Parameters:
node* - Name/ID of node to query (e.g. 'pve1')`

	getVMsDesc = `List all virtual machines across the cluster with their status and resource usage.

Example:
{"vmid": 100, "name": "ubuntu", "status": "running", "cores": 2, "memory_total": 4294967296}`

	createVMDesc = `Create a new virtual machine with specified configuration.

Parameters:
node* - Host node name (e.g. 'pve')
vmid* - New VM ID number (e.g. '200')
name* - VM name (e.g. 'web-server')
cpus* - Number of CPU cores (e.g. 2)
memory* - Memory size in MB (e.g. 2048 for 2GB)
disk_size* - Disk size in GB (e.g. 20)
storage - Target storage pool (e.g. 'local-lvm')
ostype - OS type (optional, default 'l26' for Linux)`

	executeVMCommandDesc = `Execute a shell command in a VM via the QEMU guest agent. The VM must be running with the agent active.

Parameters:
node* - Host node name (e.g. 'pve1')
vmid* - VM ID number (e.g. '100')
command* - Shell command to run (e.g. 'uname -a')`

	startVMDesc = `Start a virtual machine.

Parameters:
node* - Host node name (e.g. 'pve')
vmid* - VM ID number (e.g. '101')`

	stopVMDesc = `Stop a virtual machine (force stop).

Parameters:
node* - Host node name (e.g. 'pve')
vmid* - VM ID number (e.g. '101')`

	shutdownVMDesc = `Shutdown a virtual machine gracefully.

Parameters:
node* - Host node name (e.g. 'pve')
vmid* - VM ID number (e.g. '101')`

	resetVMDesc = `Reset (hard restart) a virtual machine.

Parameters:
node* - Host node name (e.g. 'pve')
vmid* - VM ID number (e.g. '101')`

	deleteVMDesc = `Delete a virtual machine completely.

⚠️ WARNING: This permanently deletes the VM, its disks and snapshots. The VM must be stopped first.

Parameters:
node* - Host node name (e.g. 'pve')
vmid* - VM ID number (e.g. '998')
purge - Also remove from backup jobs and HA configuration (optional, default false)`

	getContainersDesc = `List LXC containers cluster-wide or on one node, with live CPU and memory statistics.

Parameters:
node - Limit to one node (optional)
include_stats - Fetch live stats with config and RRD fallbacks (optional, default true)
include_raw - Attach raw status/config blobs, pretty output only (optional, default false)
format_style - 'pretty' or 'json' (optional, default 'pretty')`

	startContainerDesc = `Start one or more LXC containers matched by a selector.

The selector is a comma-separated list of tokens: '123' (vmid anywhere), 'node:123', 'node/name', or 'name' (name or hostname, exact match).

Parameters:
selector* - Target selector (e.g. 'web1,pve2:150')
format_style - 'pretty' or 'json' (optional, default 'pretty')`

	stopContainerDesc = `Stop one or more LXC containers matched by a selector. Graceful by default; failures on one target never abort the others.

Parameters:
selector* - Target selector (e.g. '123' or 'pve1/web')
graceful - Clean shutdown instead of immediate kill (optional, default true)
timeout_seconds - Shutdown timeout 1-600, graceful only (optional, default 10)
format_style - 'pretty' or 'json' (optional, default 'pretty')`

	restartContainerDesc = `Restart one or more LXC containers matched by a selector with a single reboot request per target.

Parameters:
selector* - Target selector (e.g. 'web1,db')
timeout_seconds - Accepted for compatibility, ignored; reboot has no timeout (optional)
format_style - 'pretty' or 'json' (optional, default 'pretty')`

	getStorageDesc = `List storage pools with usage figures, cluster-wide or for one node.

Example:
{"storage": "local-lvm", "type": "lvmthin", "used": 536870912000, "total": 1099511627776}`

	getClusterStatusDesc = `Get overall Proxmox cluster health: cluster name, quorum state, and node membership.`

	listSnapshotsDesc = `List all snapshots of a VM or container.

Parameters:
node* - Host node name (e.g. 'pve1')
vmid* - VM or container ID (e.g. '100')
vm_type - 'qemu' for VMs or 'lxc' for containers (optional, default 'qemu')`

	createSnapshotDesc = `Create a snapshot of a VM or container.

Parameters:
node* - Host node name
vmid* - VM or container ID
snapname* - Snapshot name, no spaces (e.g. 'before-upgrade')
description - Optional description
vmstate - Include RAM state, VMs only (optional, default false)
vm_type - 'qemu' or 'lxc' (optional, default 'qemu')`

	deleteSnapshotDesc = `Delete a snapshot of a VM or container.

Parameters:
node* - Host node name
vmid* - VM or container ID
snapname* - Snapshot name to delete
vm_type - 'qemu' or 'lxc' (optional, default 'qemu')`

	rollbackSnapshotDesc = `Rollback a VM or container to a snapshot.

⚠️ WARNING: The guest is stopped and restored to the snapshot state. Snapshots newer than the target are deleted first so the rollback also works on ZFS storage.

Parameters:
node* - Host node name
vmid* - VM or container ID
snapname* - Snapshot name to restore
vm_type - 'qemu' or 'lxc' (optional, default 'qemu')`

	listBackupsDesc = `List backup archives across the cluster, newest first.

Parameters:
node - Filter by node (optional)
storage - Filter by storage pool (optional)
vmid - Filter by VM/container ID (optional)`

	createBackupDesc = `Create a vzdump backup of a VM or container.

Parameters:
node* - Node where the guest runs
vmid* - VM or container ID to back up
storage* - Target backup storage
compress - Compression: 0, gzip, lz4, zstd (optional, default 'zstd')
mode - Backup mode: snapshot, suspend, stop (optional, default 'snapshot')
notes - Notes template for the archive (optional)`

	restoreBackupDesc = `Restore a VM or container from a backup archive under a new ID. The guest type is derived from the archive name.

Parameters:
node* - Target node for the restore
archive* - Backup volume ID from list_backups
vmid* - New VM/container ID
storage - Target storage for disks (optional)
unique - Generate unique MAC addresses (optional, default true)`

	deleteBackupDesc = `Delete a backup archive from storage. Protected archives are refused.

Parameters:
node* - Node name
storage* - Storage pool name
volid* - Backup volume ID to delete`

	listISOsDesc = `List available ISO images.

Parameters:
node - Filter by node (optional)
storage - Filter by storage pool (optional)`

	listTemplatesDesc = `List available LXC OS templates.

Parameters:
node - Filter by node (optional)
storage - Filter by storage pool (optional)`

	downloadISODesc = `Download an ISO image from a URL into Proxmox storage.

Parameters:
node* - Target node name
storage* - Target storage pool
url* - URL to download from
filename* - Target filename (e.g. 'debian-12.iso')
checksum - Expected checksum for verification (optional)
checksum_algorithm - sha256, sha512, or md5 (optional, default 'sha256')`

	deleteISODesc = `Delete an ISO image or template from storage.

Parameters:
node* - Node name
storage* - Storage pool name
filename* - Filename or full volume ID`
)
