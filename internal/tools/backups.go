package tools

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"pvemcp/pkg/logging"
	"pvemcp/pkg/proxmox"
)

// BackupTools implements vzdump backup management.
type BackupTools struct {
	api BackupAPI
}

// NewBackupTools returns a backup tool provider backed by api.
func NewBackupTools(api BackupAPI) *BackupTools {
	return &BackupTools{api: api}
}

// BackupRecord is one backup archive. Fields are in alphabetical tag order.
type BackupRecord struct {
	Created   int64  `json:"created"`
	Format    string `json:"format,omitempty"`
	Node      string `json:"node"`
	Notes     string `json:"notes,omitempty"`
	Protected bool   `json:"protected"`
	Size      int64  `json:"size"`
	Storage   string `json:"storage"`
	VMID      int    `json:"vmid"`
	VolID     string `json:"volid"`
}

// ListBackups lists backup archives across the cluster, optionally filtered
// by node, storage pool and guest ID. Only storage pools advertising the
// "backup" content type are queried. A node or pool that fails to answer is
// skipped. Results are sorted newest first.
func (t *BackupTools) ListBackups(ctx context.Context, node, storage string, vmid int, formatStyle string) (string, error) {
	nodes, err := t.api.ListNodes(ctx)
	if err != nil {
		return "", fmt.Errorf("listing nodes: %w", err)
	}

	var records []BackupRecord
	for _, n := range nodes {
		if n.Node == "" || (node != "" && n.Node != node) {
			continue
		}
		stores, err := t.api.ListNodeStorage(ctx, n.Node)
		if err != nil {
			logging.Warn("backups", "skipping node %s while listing backups: %v", n.Node, err)
			continue
		}
		for _, s := range stores {
			if s.Storage == "" || (storage != "" && s.Storage != storage) {
				continue
			}
			if !strings.Contains(s.Content, "backup") {
				continue
			}
			volumes, err := t.api.ListVolumes(ctx, n.Node, s.Storage, "backup", vmid)
			if err != nil {
				logging.Debug("backups", "skipping storage %s on %s: %v", s.Storage, n.Node, err)
				continue
			}
			for _, v := range volumes {
				records = append(records, BackupRecord{
					Created:   v.CTime.Int64(),
					Format:    v.Format,
					Node:      n.Node,
					Notes:     v.Notes,
					Protected: v.Protected.Bool(),
					Size:      v.Size.Int64(),
					Storage:   s.Storage,
					VMID:      v.VMID.Int(),
					VolID:     v.VolID,
				})
			}
		}
	}

	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Created > records[j].Created
	})

	if formatStyle == FormatJSON {
		return renderJSON(records)
	}

	if len(records) == 0 {
		msg := "No backups found"
		if node != "" {
			msg += " on node " + node
		}
		if storage != "" {
			msg += " in storage " + storage
		}
		if vmid > 0 {
			msg += fmt.Sprintf(" for VM/CT %d", vmid)
		}
		return msg, nil
	}

	lines := []string{"💾 Available Backups", ""}
	for _, r := range records {
		created := "Unknown"
		if r.Created > 0 {
			created = time.Unix(r.Created, 0).Format("2006-01-02 15:04:05")
		}
		lines = append(lines,
			fmt.Sprintf("  💾 VM/CT %d - %s", r.VMID, created),
			fmt.Sprintf("     Size: %s", BytesToHuman(float64(r.Size))),
			fmt.Sprintf("     Format: %s", r.Format),
			fmt.Sprintf("     Storage: %s @ %s", r.Storage, r.Node),
			fmt.Sprintf("     Volume ID: %s", r.VolID),
		)
		if r.Notes != "" {
			lines = append(lines, fmt.Sprintf("     Notes: %s", r.Notes))
		}
		if r.Protected {
			lines = append(lines, "     🔒 Protected")
		}
		lines = append(lines, "")
	}
	lines = append(lines, "Use the Volume ID with restore_backup to restore.")
	return joinLines(lines), nil
}

// CreateBackupOptions controls CreateBackup.
type CreateBackupOptions struct {
	Node     string
	VMID     int
	Storage  string
	Compress string // 0, gzip, lz4, zstd
	Mode     string // snapshot, suspend, stop
	Notes    string
}

// CreateBackup starts a vzdump task for one guest.
func (t *BackupTools) CreateBackup(ctx context.Context, opts CreateBackupOptions, formatStyle string) (string, error) {
	if opts.Compress == "" {
		opts.Compress = "zstd"
	}
	if opts.Mode == "" {
		opts.Mode = "snapshot"
	}
	upid, err := t.api.CreateBackup(ctx, opts.Node, opts.VMID, opts.Storage, opts.Compress, opts.Mode, opts.Notes)
	if err != nil {
		return "", fmt.Errorf("creating backup for %d: %w", opts.VMID, err)
	}
	logging.Info("backups", "backup of %d on %s started: %s", opts.VMID, opts.Node, upid)

	if formatStyle == FormatJSON {
		return renderJSON(struct {
			Compress string `json:"compress"`
			Mode     string `json:"mode"`
			Node     string `json:"node"`
			Storage  string `json:"storage"`
			Task     string `json:"task"`
			VMID     int    `json:"vmid"`
		}{Compress: opts.Compress, Mode: opts.Mode, Node: opts.Node, Storage: opts.Storage, Task: upid, VMID: opts.VMID})
	}

	lines := []string{
		"💾 Backup Started",
		"",
		fmt.Sprintf("  • VM/CT ID: %d", opts.VMID),
		fmt.Sprintf("  • Node: %s", opts.Node),
		fmt.Sprintf("  • Storage: %s", opts.Storage),
		fmt.Sprintf("  • Compression: %s", opts.Compress),
		fmt.Sprintf("  • Mode: %s", opts.Mode),
	}
	if opts.Notes != "" {
		lines = append(lines, fmt.Sprintf("  • Notes: %s", opts.Notes))
	}
	lines = append(lines,
		"",
		fmt.Sprintf("Task ID: %s", upid),
		"",
		"The backup is running in the background.",
		"Use list_backups to verify when complete.",
	)
	return joinLines(lines), nil
}

// RestoreBackup restores a guest from a backup archive under a new guest
// ID. Whether the archive holds a container or a VM is decided from the
// volume ID.
func (t *BackupTools) RestoreBackup(ctx context.Context, node, archive string, vmid int, storage string, unique bool, formatStyle string) (string, error) {
	var (
		upid      string
		err       error
		guestKind string
	)
	if proxmox.IsLXCArchive(archive) {
		guestKind = "Container"
		upid, err = t.api.RestoreContainer(ctx, node, vmid, archive, storage, unique)
	} else {
		guestKind = "VM"
		upid, err = t.api.RestoreVM(ctx, node, vmid, archive, storage, unique)
	}
	if err != nil {
		return "", fmt.Errorf("restoring backup to %d: %w", vmid, err)
	}

	if formatStyle == FormatJSON {
		return renderJSON(struct {
			Archive string `json:"archive"`
			Node    string `json:"node"`
			Task    string `json:"task"`
			Type    string `json:"type"`
			Unique  bool   `json:"unique"`
			VMID    int    `json:"vmid"`
		}{Archive: archive, Node: node, Task: upid, Type: strings.ToLower(guestKind), Unique: unique, VMID: vmid})
	}

	unq := "No"
	if unique {
		unq = "Yes"
	}
	lines := []string{
		fmt.Sprintf("♻️ %s Restore Started", guestKind),
		"",
		fmt.Sprintf("  • New ID: %d", vmid),
		fmt.Sprintf("  • From: %s", archive),
		fmt.Sprintf("  • Target Node: %s", node),
	}
	if storage != "" {
		lines = append(lines, fmt.Sprintf("  • Target Storage: %s", storage))
	}
	lines = append(lines,
		fmt.Sprintf("  • Unique MACs: %s", unq),
		"",
		fmt.Sprintf("Task ID: %s", upid),
	)
	return joinLines(lines), nil
}

// DeleteBackup removes a backup archive unless it is protected.
func (t *BackupTools) DeleteBackup(ctx context.Context, node, storage, volid, formatStyle string) (string, error) {
	volumes, err := t.api.ListVolumes(ctx, node, storage, "backup", 0)
	if err == nil {
		for _, v := range volumes {
			if v.VolID == volid && v.Protected.Bool() {
				return "", fmt.Errorf("backup %q is protected and cannot be deleted; remove protection first", volid)
			}
		}
	}

	upid, err := t.api.DeleteVolume(ctx, node, storage, volid)
	if err != nil {
		return "", fmt.Errorf("deleting backup %q: %w", volid, err)
	}

	if formatStyle == FormatJSON {
		return renderJSON(struct {
			Node    string `json:"node"`
			Storage string `json:"storage"`
			Task    string `json:"task,omitempty"`
			VolID   string `json:"volid"`
		}{Node: node, Storage: storage, Task: upid, VolID: volid})
	}

	lines := []string{
		"🗑️ Backup Deleted",
		"",
		fmt.Sprintf("  • Volume: %s", volid),
		fmt.Sprintf("  • Storage: %s", storage),
		fmt.Sprintf("  • Node: %s", node),
	}
	if upid != "" {
		lines = append(lines, "", fmt.Sprintf("Task ID: %s", upid))
	}
	return joinLines(lines), nil
}
