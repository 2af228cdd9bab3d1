package tools

import (
	"context"
	"fmt"

	"pvemcp/pkg/logging"
	"pvemcp/pkg/proxmox"
)

// StorageTools implements storage pool queries.
type StorageTools struct {
	api StorageAPI
}

// NewStorageTools returns a storage tool provider backed by api.
func NewStorageTools(api StorageAPI) *StorageTools {
	return &StorageTools{api: api}
}

// StorageRecord is one storage pool with usage figures. Fields are in
// alphabetical tag order.
type StorageRecord struct {
	Avail   int64  `json:"avail"`
	Content string `json:"content"`
	Node    string `json:"node"`
	Shared  bool   `json:"shared"`
	Storage string `json:"storage"`
	Total   int64  `json:"total"`
	Type    string `json:"type"`
	Used    int64  `json:"used"`
}

// GetStorage lists storage pools with usage. Without a node it walks every
// node's storage view so local pools appear too; shared pools are reported
// once under the first node that sees them.
func (t *StorageTools) GetStorage(ctx context.Context, node, formatStyle string) (string, error) {
	var records []StorageRecord
	if node != "" {
		stores, err := t.api.ListNodeStorage(ctx, node)
		if err != nil {
			return "", fmt.Errorf("listing storage on %s: %w", node, err)
		}
		records = storageRecords(node, stores, nil)
	} else {
		nodes, err := t.api.ListNodes(ctx)
		if err != nil {
			return "", fmt.Errorf("listing nodes: %w", err)
		}
		seenShared := map[string]bool{}
		for _, n := range nodes {
			stores, err := t.api.ListNodeStorage(ctx, n.Node)
			if err != nil {
				logging.Warn("storage", "excluding node %s from storage listing: %v", n.Node, err)
				continue
			}
			records = append(records, storageRecords(n.Node, stores, seenShared)...)
		}
	}

	if formatStyle == FormatJSON {
		return renderJSON(records)
	}

	lines := []string{"💾 Storage Pools", ""}
	for _, r := range records {
		usedPct := ""
		if r.Total > 0 {
			usedPct = fmt.Sprintf(" (%.1f%%)", float64(r.Used)/float64(r.Total)*100.0)
		}
		shared := "local"
		if r.Shared {
			shared = "shared"
		}
		lines = append(lines,
			fmt.Sprintf("💾 %s (%s, %s)", r.Storage, r.Type, shared),
			fmt.Sprintf("  • Node: %s", r.Node),
			fmt.Sprintf("  • Content: %s", r.Content),
			fmt.Sprintf("  • Usage: %s / %s%s",
				BytesToHuman(float64(r.Used)), BytesToHuman(float64(r.Total)), usedPct),
			"",
		)
	}
	return joinLines(lines), nil
}

func storageRecords(node string, stores []proxmox.Storage, seenShared map[string]bool) []StorageRecord {
	var records []StorageRecord
	for _, s := range stores {
		if s.Enabled != nil && !s.Enabled.Bool() {
			continue
		}
		if seenShared != nil && s.Shared.Bool() {
			if seenShared[s.Storage] {
				continue
			}
			seenShared[s.Storage] = true
		}
		records = append(records, StorageRecord{
			Avail:   s.Avail.Int64(),
			Content: s.Content,
			Node:    node,
			Shared:  s.Shared.Bool(),
			Storage: s.Storage,
			Total:   s.Total.Int64(),
			Type:    s.Type,
			Used:    s.Used.Int64(),
		})
	}
	return records
}
