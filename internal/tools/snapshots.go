package tools

import (
	"context"
	"fmt"
	"strings"
	"time"

	"pvemcp/pkg/logging"
	"pvemcp/pkg/proxmox"
)

// SnapshotTools implements snapshot operations for VMs and containers.
type SnapshotTools struct {
	api SnapshotAPI
}

// NewSnapshotTools returns a snapshot tool provider backed by api.
func NewSnapshotTools(api SnapshotAPI) *SnapshotTools {
	return &SnapshotTools{api: api}
}

// SnapshotRecord is one snapshot in a listing. Fields are in alphabetical
// tag order.
type SnapshotRecord struct {
	Created     int64  `json:"created"`
	Description string `json:"description,omitempty"`
	Name        string `json:"name"`
	Parent      string `json:"parent,omitempty"`
	VMState     bool   `json:"vmstate"`
}

// ListSnapshots lists the snapshots of one guest. The "current" entry PVE
// appends to represent the live state is filtered out.
func (t *SnapshotTools) ListSnapshots(ctx context.Context, guestType, node string, vmid int, formatStyle string) (string, error) {
	gt := proxmox.ParseGuestType(guestType)
	snapshots, err := t.api.ListSnapshots(ctx, gt, node, vmid)
	if err != nil {
		return "", fmt.Errorf("listing snapshots of %s %d: %w", gt, vmid, err)
	}

	records := make([]SnapshotRecord, 0, len(snapshots))
	for _, s := range snapshots {
		if s.Name == "current" {
			continue
		}
		records = append(records, SnapshotRecord{
			Created:     s.SnapTime.Int64(),
			Description: s.Description,
			Name:        s.Name,
			Parent:      s.Parent,
			VMState:     s.VMState.Bool(),
		})
	}

	if formatStyle == FormatJSON {
		return renderJSON(records)
	}

	label := strings.ToUpper(string(gt))
	if len(records) == 0 {
		return fmt.Sprintf("No snapshots found for %s %d on node %s", label, vmid, node), nil
	}

	lines := []string{fmt.Sprintf("📸 Snapshots for %s %d on %s", label, vmid, node), ""}
	for _, r := range records {
		lines = append(lines, fmt.Sprintf("  📷 %s", r.Name))
		if r.Description != "" {
			lines = append(lines, fmt.Sprintf("     Description: %s", r.Description))
		}
		if r.Created > 0 {
			lines = append(lines, fmt.Sprintf("     Created: %s",
				time.Unix(r.Created, 0).Format("2006-01-02 15:04:05")))
		}
		if r.Parent != "" {
			lines = append(lines, fmt.Sprintf("     Parent: %s", r.Parent))
		}
		if r.VMState {
			lines = append(lines, "     RAM State: Included")
		}
		lines = append(lines, "")
	}
	return joinLines(lines), nil
}

// CreateSnapshot creates a named snapshot. RAM state capture only applies
// to QEMU guests.
func (t *SnapshotTools) CreateSnapshot(ctx context.Context, guestType, node string, vmid int, name, description string, vmstate bool, formatStyle string) (string, error) {
	gt := proxmox.ParseGuestType(guestType)
	upid, err := t.api.CreateSnapshot(ctx, gt, node, vmid, name, description, vmstate)
	if err != nil {
		return "", fmt.Errorf("creating snapshot %s of %s %d: %w", name, gt, vmid, err)
	}

	if formatStyle == FormatJSON {
		return renderJSON(struct {
			Name string `json:"name"`
			Node string `json:"node"`
			Task string `json:"task"`
			VMID int    `json:"vmid"`
		}{Name: name, Node: node, Task: upid, VMID: vmid})
	}

	lines := []string{
		"📸 Snapshot Created Successfully",
		"",
		fmt.Sprintf("  • Name: %s", name),
		fmt.Sprintf("  • %s ID: %d", strings.ToUpper(string(gt)), vmid),
		fmt.Sprintf("  • Node: %s", node),
	}
	if description != "" {
		lines = append(lines, fmt.Sprintf("  • Description: %s", description))
	}
	if vmstate && gt == proxmox.GuestQEMU {
		lines = append(lines, "  • RAM State: Included")
	}
	lines = append(lines, "", fmt.Sprintf("Task ID: %s", upid))
	return joinLines(lines), nil
}

// DeleteSnapshot removes one snapshot.
func (t *SnapshotTools) DeleteSnapshot(ctx context.Context, guestType, node string, vmid int, name, formatStyle string) (string, error) {
	gt := proxmox.ParseGuestType(guestType)
	upid, err := t.api.DeleteSnapshot(ctx, gt, node, vmid, name)
	if err != nil {
		return "", fmt.Errorf("deleting snapshot %s of %s %d: %w", name, gt, vmid, err)
	}

	if formatStyle == FormatJSON {
		return renderJSON(struct {
			Name string `json:"name"`
			Node string `json:"node"`
			Task string `json:"task"`
			VMID int    `json:"vmid"`
		}{Name: name, Node: node, Task: upid, VMID: vmid})
	}

	lines := []string{
		"🗑️ Snapshot Deleted",
		"",
		fmt.Sprintf("  • Name: %s", name),
		fmt.Sprintf("  • %s ID: %d", strings.ToUpper(string(gt)), vmid),
		fmt.Sprintf("  • Node: %s", node),
		"",
		fmt.Sprintf("Task ID: %s", upid),
	}
	return joinLines(lines), nil
}

// RollbackSnapshot restores a guest to a snapshot. Snapshots newer than the
// target (its direct children) are deleted first so the rollback also works
// on ZFS-backed storage; a child that cannot be deleted is skipped and the
// rollback is attempted anyway. The guest is stopped during rollback.
func (t *SnapshotTools) RollbackSnapshot(ctx context.Context, guestType, node string, vmid int, name, formatStyle string) (string, error) {
	gt := proxmox.ParseGuestType(guestType)

	var deleted []string
	if snapshots, err := t.api.ListSnapshots(ctx, gt, node, vmid); err == nil {
		for _, s := range snapshots {
			if s.Name == "current" || s.Parent != name {
				continue
			}
			if _, err := t.api.DeleteSnapshot(ctx, gt, node, vmid, s.Name); err != nil {
				logging.Warn("snapshots", "could not delete child snapshot %s of %s %d: %v", s.Name, gt, vmid, err)
				continue
			}
			deleted = append(deleted, s.Name)
		}
	}

	upid, err := t.api.RollbackSnapshot(ctx, gt, node, vmid, name)
	if err != nil {
		return "", fmt.Errorf("rolling back %s %d to snapshot %s: %w", gt, vmid, name, err)
	}

	if formatStyle == FormatJSON {
		return renderJSON(struct {
			Deleted []string `json:"deleted_snapshots,omitempty"`
			Name    string   `json:"name"`
			Node    string   `json:"node"`
			Task    string   `json:"task"`
			VMID    int      `json:"vmid"`
		}{Deleted: deleted, Name: name, Node: node, Task: upid, VMID: vmid})
	}

	lines := []string{
		"⏪ Snapshot Rollback Initiated",
		"",
		fmt.Sprintf("  • Restoring to: %s", name),
		fmt.Sprintf("  • %s ID: %d", strings.ToUpper(string(gt)), vmid),
		fmt.Sprintf("  • Node: %s", node),
	}
	if len(deleted) > 0 {
		lines = append(lines, fmt.Sprintf("  • Deleted newer snapshots: %s", strings.Join(deleted, ", ")))
	}
	lines = append(lines,
		"",
		"⚠️ The guest is stopped during rollback.",
		"",
		fmt.Sprintf("Task ID: %s", upid),
	)
	return joinLines(lines), nil
}
