package tools

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"pvemcp/pkg/logging"
	"pvemcp/pkg/proxmox"
)

// InventoryRecord is one container known to the cluster at the time the
// inventory was built. Inventories are rebuilt on every resolution call and
// never cached, so they reflect the backend's state at call time.
type InventoryRecord struct {
	Node     string
	VMID     int
	Name     string
	Hostname string
	Status   string
}

// Label returns the display name for a record, falling back to ct-<vmid>
// when the backend reported neither a name nor a hostname.
func (r InventoryRecord) Label() string {
	if r.Name != "" {
		return r.Name
	}
	if r.Hostname != "" {
		return r.Hostname
	}
	return fmt.Sprintf("ct-%d", r.VMID)
}

// listInventory enumerates containers into a flat record list. With a node
// set, only that node is queried and any listing error propagates. Without
// one, all nodes are queried with bounded parallelism and a node whose
// listing fails is excluded from the result rather than failing the whole
// inventory.
func listInventory(ctx context.Context, api ContainerAPI, node string) ([]InventoryRecord, error) {
	if node != "" {
		containers, err := api.ListContainers(ctx, node)
		if err != nil {
			return nil, err
		}
		return toRecords(node, containers), nil
	}

	nodes, err := api.ListNodes(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing nodes: %w", err)
	}

	perNode := make([][]InventoryRecord, len(nodes))
	var g errgroup.Group
	g.SetLimit(maxParallel)
	for i, n := range nodes {
		if n.Node == "" {
			continue
		}
		g.Go(func() error {
			containers, err := api.ListContainers(ctx, n.Node)
			if err != nil {
				logging.Warn("inventory", "excluding node %s from inventory: %v", n.Node, err)
				return nil
			}
			perNode[i] = toRecords(n.Node, containers)
			return nil
		})
	}
	g.Wait()

	var records []InventoryRecord
	for _, recs := range perNode {
		records = append(records, recs...)
	}
	return records, nil
}

func toRecords(node string, containers []proxmox.Container) []InventoryRecord {
	records := make([]InventoryRecord, 0, len(containers))
	for _, ct := range containers {
		records = append(records, InventoryRecord{
			Node:     node,
			VMID:     ct.VMID.Int(),
			Name:     ct.Name,
			Hostname: ct.Hostname,
			Status:   ct.Status,
		})
	}
	return records
}
