package tools

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// maxParallel bounds the number of in-flight backend calls during batch
// dispatch and multi-node inventory listing.
const maxParallel = 4

// Action is one of the closed set of container control operations.
type Action int

const (
	ActionStart Action = iota
	ActionStop
	ActionShutdown
	ActionReboot
)

// Title returns the report heading for an action.
func (a Action) Title() string {
	switch a {
	case ActionStart:
		return "Start Containers"
	case ActionStop, ActionShutdown:
		return "Stop Containers"
	case ActionReboot:
		return "Restart Containers"
	default:
		return "Containers"
	}
}

// ActionResult is the outcome of dispatching an action to one target.
// Exactly one of Message and Error is set. Fields are declared in
// alphabetical tag order for deterministic JSON key ordering.
type ActionResult struct {
	Error   string `json:"error,omitempty"`
	Message string `json:"message,omitempty"`
	Name    string `json:"name"`
	Node    string `json:"node"`
	OK      bool   `json:"ok"`
	VMID    int    `json:"vmid"`
}

// runBatch dispatches one call per target with bounded parallelism. Each
// target has independent fate: a failing call is recorded in that target's
// result and never cancels or aborts the others. Results are returned in
// target order regardless of completion order. There are no retries.
func runBatch(ctx context.Context, targets []Target, dispatch func(context.Context, Target) (string, error)) []ActionResult {
	results := make([]ActionResult, len(targets))
	var g errgroup.Group
	g.SetLimit(maxParallel)
	for i, tgt := range targets {
		g.Go(func() error {
			res := ActionResult{Name: tgt.Label, Node: tgt.Node, VMID: tgt.VMID}
			msg, err := dispatch(ctx, tgt)
			if err != nil {
				res.Error = err.Error()
			} else {
				res.OK = true
				res.Message = msg
			}
			results[i] = res
			return nil
		})
	}
	g.Wait()
	return results
}

// renderActionResults renders a per-target report with one marker line per
// target.
func renderActionResults(title string, results []ActionResult) string {
	lines := []string{"📦 " + title, ""}
	for _, r := range results {
		marker := "❌ FAIL"
		msg := r.Error
		if r.OK {
			marker = "✅ OK"
			msg = r.Message
		}
		line := fmt.Sprintf("%s %s (ID: %d, node: %s)", marker, r.Name, r.VMID, r.Node)
		if msg != "" {
			line += " - " + msg
		}
		lines = append(lines, line)
	}
	return joinLines(lines)
}
