package tools

import (
	"fmt"
	"strconv"
	"strings"
)

// Target is one concrete container a control operation will be dispatched
// to, resolved from a selector token.
type Target struct {
	Node  string
	VMID  int
	Label string
}

// NoMatchError reports a selector that resolved to zero targets. It marks a
// user input problem rather than a backend fault and is surfaced as a single
// top-level error instead of per-target failures.
type NoMatchError struct {
	Selector string
}

func (e *NoMatchError) Error() string {
	return fmt.Sprintf("no containers matched the selector: %q", e.Selector)
}

// ResolveTargets matches a selector expression against an inventory
// snapshot. The selector holds comma-separated tokens of the forms
//
//	123        vmid anywhere in the cluster
//	node:123   vmid on a specific node
//	node/name  name or hostname on a specific node
//	name       name or hostname anywhere in the cluster
//
// Matching is exact, never substring. Malformed tokens are skipped. The
// result is deduplicated by (node, vmid) with the last resolved label
// winning, and ordered by first resolution. An empty selector yields an
// empty list; callers must treat that as "nothing matched".
func ResolveTargets(inventory []InventoryRecord, selector string) []Target {
	var resolved []Target
	for _, tok := range strings.Split(selector, ",") {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		resolved = append(resolved, matchToken(inventory, tok)...)
	}

	// Deduplicate by (node, vmid), keeping the last label but the first
	// position for each key.
	type key struct {
		node string
		vmid int
	}
	order := make([]key, 0, len(resolved))
	labels := make(map[key]string, len(resolved))
	for _, t := range resolved {
		k := key{t.Node, t.VMID}
		if _, seen := labels[k]; !seen {
			order = append(order, k)
		}
		labels[k] = t.Label
	}

	targets := make([]Target, 0, len(order))
	for _, k := range order {
		targets = append(targets, Target{Node: k.node, VMID: k.vmid, Label: labels[k]})
	}
	return targets
}

func matchToken(inventory []InventoryRecord, tok string) []Target {
	switch {
	case strings.Contains(tok, ":") && !strings.Contains(tok, "/"):
		node, vmidStr, _ := strings.Cut(tok, ":")
		vmid, err := strconv.Atoi(vmidStr)
		if err != nil {
			return nil
		}
		for _, r := range inventory {
			if r.Node == node && r.VMID == vmid {
				return []Target{{Node: node, VMID: vmid, Label: r.Label()}}
			}
		}
		return nil

	case strings.Contains(tok, "/") && !strings.Contains(tok, ":"):
		node, name, _ := strings.Cut(tok, "/")
		name = strings.TrimSpace(name)
		var targets []Target
		for _, r := range inventory {
			if r.Node == node && (r.Name == name || r.Hostname == name) {
				targets = append(targets, Target{Node: node, VMID: r.VMID, Label: name})
			}
		}
		return targets

	case isDigits(tok):
		vmid, _ := strconv.Atoi(tok)
		var targets []Target
		for _, r := range inventory {
			if r.VMID == vmid {
				targets = append(targets, Target{Node: r.Node, VMID: vmid, Label: r.Label()})
			}
		}
		return targets

	default:
		var targets []Target
		for _, r := range inventory {
			if r.Name == tok || r.Hostname == tok {
				targets = append(targets, Target{Node: r.Node, VMID: r.VMID, Label: tok})
			}
		}
		return targets
	}
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
