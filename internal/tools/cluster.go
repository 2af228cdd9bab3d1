package tools

import (
	"context"
	"fmt"
)

// ClusterTools implements cluster-wide status queries.
type ClusterTools struct {
	api ClusterAPI
}

// NewClusterTools returns a cluster tool provider backed by api.
func NewClusterTools(api ClusterAPI) *ClusterTools {
	return &ClusterTools{api: api}
}

// ClusterNodeRecord is one node entry from the cluster status. Fields are
// in alphabetical tag order.
type ClusterNodeRecord struct {
	IP     string `json:"ip,omitempty"`
	Local  bool   `json:"local"`
	Name   string `json:"name"`
	Online bool   `json:"online"`
}

// ClusterRecord is the aggregated cluster health view. Fields are in
// alphabetical tag order.
type ClusterRecord struct {
	Name    string              `json:"name"`
	Nodes   []ClusterNodeRecord `json:"nodes"`
	Quorate bool                `json:"quorate"`
}

// GetClusterStatus reports cluster name, quorum state and node membership.
// Single-node installations without a cluster yield an empty name, quorate
// true, and the one node.
func (t *ClusterTools) GetClusterStatus(ctx context.Context, formatStyle string) (string, error) {
	entries, err := t.api.GetClusterStatus(ctx)
	if err != nil {
		return "", fmt.Errorf("getting cluster status: %w", err)
	}

	rec := ClusterRecord{Quorate: true, Nodes: []ClusterNodeRecord{}}
	for _, e := range entries {
		switch e.Type {
		case "cluster":
			rec.Name = e.Name
			if e.Quorate != nil {
				rec.Quorate = e.Quorate.Bool()
			}
		case "node":
			online := true
			if e.Online != nil {
				online = e.Online.Bool()
			}
			rec.Nodes = append(rec.Nodes, ClusterNodeRecord{
				IP:     e.IP,
				Local:  e.Local.Bool(),
				Name:   e.Name,
				Online: online,
			})
		}
	}

	if formatStyle == FormatJSON {
		return renderJSON(rec)
	}

	name := rec.Name
	if name == "" {
		name = "standalone"
	}
	quorum := "✅ quorate"
	if !rec.Quorate {
		quorum = "❌ no quorum"
	}
	lines := []string{
		fmt.Sprintf("🌐 Cluster: %s (%s)", name, quorum),
		"",
	}
	for _, n := range rec.Nodes {
		marker := "✅"
		if !n.Online {
			marker = "❌"
		}
		local := ""
		if n.Local {
			local = " (local)"
		}
		line := fmt.Sprintf("%s %s%s", marker, n.Name, local)
		if n.IP != "" {
			line += " - " + n.IP
		}
		lines = append(lines, line)
	}
	return joinLines(lines), nil
}
