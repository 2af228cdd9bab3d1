package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"pvemcp/pkg/logging"
	"pvemcp/pkg/proxmox"
)

// ContainerTools implements container listing and the selector-driven
// control operations.
type ContainerTools struct {
	api ContainerAPI
}

// NewContainerTools returns a container tool provider backed by api.
func NewContainerTools(api ContainerAPI) *ContainerTools {
	return &ContainerTools{api: api}
}

// ContainerSummary is a listing record without live statistics. Fields are
// in alphabetical tag order.
type ContainerSummary struct {
	Name   string `json:"name"`
	Node   string `json:"node"`
	Status string `json:"status"`
	VMID   int    `json:"vmid"`
}

// ContainerRecord is a listing record with live statistics merged from the
// status, config and RRD endpoints. Fields are in alphabetical tag order.
type ContainerRecord struct {
	Cores           *float64 `json:"cores"`
	CPUPct          float64  `json:"cpu_pct"`
	MaxMemBytes     int64    `json:"maxmem_bytes"`
	MemBytes        int64    `json:"mem_bytes"`
	MemPct          *float64 `json:"mem_pct"`
	MemoryMiB       int64    `json:"memory"`
	Name            string   `json:"name"`
	Node            string   `json:"node"`
	Status          string   `json:"status"`
	UnlimitedMemory bool     `json:"unlimited_memory"`
	VMID            int      `json:"vmid"`

	rawStatus json.RawMessage
	rawConfig json.RawMessage
}

// GetContainersOptions controls GetContainers.
type GetContainersOptions struct {
	Node         string
	IncludeStats bool
	IncludeRaw   bool
	FormatStyle  string
}

// GetContainers lists containers on one node or cluster-wide. With stats
// enabled, live CPU and memory figures come from the status endpoint, limits
// from the config endpoint, and RRD history fills in whenever the live
// values read zero. Raw status and config blobs are attached only in pretty
// mode; the JSON path stays free of backend-shaped payloads.
func (t *ContainerTools) GetContainers(ctx context.Context, opts GetContainersOptions) (string, error) {
	inventory, err := listInventory(ctx, t.api, opts.Node)
	if err != nil {
		return "", fmt.Errorf("listing containers: %w", err)
	}

	records := make([]ContainerRecord, 0, len(inventory))
	for _, rec := range inventory {
		row := ContainerRecord{
			Name:   rec.Label(),
			Node:   rec.Node,
			Status: rec.Status,
			VMID:   rec.VMID,
		}
		if opts.IncludeStats {
			t.fillStats(ctx, &row, opts.IncludeRaw && opts.FormatStyle != FormatJSON)
		}
		records = append(records, row)
	}

	if opts.FormatStyle == FormatJSON {
		if !opts.IncludeStats {
			summaries := make([]ContainerSummary, len(records))
			for i, r := range records {
				summaries[i] = ContainerSummary{Name: r.Name, Node: r.Node, Status: r.Status, VMID: r.VMID}
			}
			return renderJSON(summaries)
		}
		return renderJSON(records)
	}
	return renderContainersPretty(records, opts.IncludeStats), nil
}

// fillStats merges live status, configured limits and, when the live values
// are all zero, the most recent RRD sample into row. Fetch failures leave
// the affected figures at zero instead of failing the listing.
func (t *ContainerTools) fillStats(ctx context.Context, row *ContainerRecord, keepRaw bool) {
	status, err := t.api.GetContainerStatus(ctx, row.Node, row.VMID)
	if err != nil {
		logging.Debug("containers", "no live status for %d on %s: %v", row.VMID, row.Node, err)
		status = &proxmox.GuestStatus{}
	}
	cfg, err := t.api.GetContainerConfig(ctx, row.Node, row.VMID)
	if err != nil {
		logging.Debug("containers", "no config for %d on %s: %v", row.VMID, row.Node, err)
		cfg = &proxmox.ContainerConfig{}
	}

	row.CPUPct = round2(status.CPU.Float() * 100.0)
	row.MemBytes = status.Mem.Int64()
	row.MaxMemBytes = status.MaxMem.Int64()
	row.MemoryMiB = cfg.Memory.Int64()
	row.UnlimitedMemory = cfg.Swap.Int64() == 0 && row.MemoryMiB == 0

	if cfg.Cores.Int64() > 0 {
		cores := float64(cfg.Cores.Int64())
		row.Cores = &cores
	} else if limit := cfg.CPULimit.Float(); limit > 0 {
		row.Cores = &limit
	}

	if row.MemBytes == 0 || row.MaxMemBytes == 0 || row.CPUPct == 0 {
		t.fillFromRRD(ctx, row)
	}

	if row.MaxMemBytes > 0 {
		pct := round2(float64(row.MemBytes) / float64(row.MaxMemBytes) * 100.0)
		row.MemPct = &pct
	}

	if keepRaw {
		row.rawStatus, _ = json.Marshal(status)
		row.rawConfig, _ = json.Marshal(cfg)
	}
}

// fillFromRRD substitutes the latest RRD sample for any live figure that
// read zero. RRD CPU samples are fractions and are scaled to percent.
func (t *ContainerTools) fillFromRRD(ctx context.Context, row *ContainerRecord) {
	points, err := t.api.GetContainerRRD(ctx, row.Node, row.VMID, "hour")
	if err != nil || len(points) == 0 {
		return
	}
	last := points[len(points)-1]
	if row.CPUPct == 0 && last.CPU != nil {
		row.CPUPct = round2(last.CPU.Float() * 100.0)
	}
	if row.MemBytes == 0 && last.Mem != nil {
		row.MemBytes = int64(last.Mem.Float())
	}
	if row.MaxMemBytes == 0 && last.MaxMem != nil && last.MaxMem.Float() > 0 {
		row.MaxMemBytes = int64(last.MaxMem.Float())
		if row.MemoryMiB == 0 {
			row.MemoryMiB = int64(math.Round(float64(row.MaxMemBytes) / (1024 * 1024)))
		}
	}
}

func renderContainersPretty(records []ContainerRecord, withStats bool) string {
	lines := []string{"📦 Containers", ""}
	for _, r := range records {
		lines = append(lines,
			fmt.Sprintf("📦 %s (ID: %d)", r.Name, r.VMID),
			fmt.Sprintf("  • Status: %s", upperOrUnknown(r.Status)),
			fmt.Sprintf("  • Node: %s", r.Node),
		)
		if withStats {
			cores := "N/A"
			if r.Cores != nil {
				cores = trimFloat(*r.Cores)
			}
			lines = append(lines,
				fmt.Sprintf("  • CPU: %.1f%%", r.CPUPct),
				fmt.Sprintf("  • CPU Cores: %s", cores),
				memoryLine(r),
			)
			if r.rawStatus != nil {
				lines = append(lines, fmt.Sprintf("  • Raw Status: %s", r.rawStatus))
			}
			if r.rawConfig != nil {
				lines = append(lines, fmt.Sprintf("  • Raw Config: %s", r.rawConfig))
			}
		}
		lines = append(lines, "")
	}
	return joinLines(lines)
}

func memoryLine(r ContainerRecord) string {
	if r.UnlimitedMemory {
		return fmt.Sprintf("  • Memory: %s (unlimited)", BytesToHuman(float64(r.MemBytes)))
	}
	if r.MaxMemBytes > 0 {
		pct := ""
		if r.MemPct != nil {
			pct = fmt.Sprintf(" (%.1f%%)", *r.MemPct)
		}
		return fmt.Sprintf("  • Memory: %s / %s%s",
			BytesToHuman(float64(r.MemBytes)), BytesToHuman(float64(r.MaxMemBytes)), pct)
	}
	return fmt.Sprintf("  • Memory: %s / 0.00 B", BytesToHuman(float64(r.MemBytes)))
}

// StartContainers starts every container matched by selector.
func (t *ContainerTools) StartContainers(ctx context.Context, selector, formatStyle string) (string, error) {
	return t.control(ctx, selector, formatStyle, ActionStart, func(ctx context.Context, tgt Target) (string, error) {
		return t.api.StartContainer(ctx, tgt.Node, tgt.VMID)
	})
}

// StopContainers stops every container matched by selector. Graceful stops
// ask the guest to shut down within timeoutSeconds; forced stops kill
// immediately without a timeout.
func (t *ContainerTools) StopContainers(ctx context.Context, selector string, graceful bool, timeoutSeconds int, formatStyle string) (string, error) {
	action := ActionStop
	dispatch := func(ctx context.Context, tgt Target) (string, error) {
		return t.api.StopContainer(ctx, tgt.Node, tgt.VMID)
	}
	if graceful {
		action = ActionShutdown
		dispatch = func(ctx context.Context, tgt Target) (string, error) {
			return t.api.ShutdownContainer(ctx, tgt.Node, tgt.VMID, timeoutSeconds)
		}
	}
	return t.control(ctx, selector, formatStyle, action, dispatch)
}

// RestartContainers reboots every container matched by selector with a
// single reboot request per target.
func (t *ContainerTools) RestartContainers(ctx context.Context, selector, formatStyle string) (string, error) {
	return t.control(ctx, selector, formatStyle, ActionReboot, func(ctx context.Context, tgt Target) (string, error) {
		return t.api.RebootContainer(ctx, tgt.Node, tgt.VMID)
	})
}

// control resolves the selector against a fresh inventory, dispatches the
// action to all targets, and renders the aggregated results. Resolution runs
// to completion before any dispatch starts.
func (t *ContainerTools) control(ctx context.Context, selector, formatStyle string, action Action, dispatch func(context.Context, Target) (string, error)) (string, error) {
	inventory, err := listInventory(ctx, t.api, "")
	if err != nil {
		return "", fmt.Errorf("building inventory: %w", err)
	}
	targets := ResolveTargets(inventory, selector)
	if len(targets) == 0 {
		return "", &NoMatchError{Selector: selector}
	}

	logging.Info("containers", "%s: dispatching to %d target(s)", action.Title(), len(targets))
	results := runBatch(ctx, targets, dispatch)

	if formatStyle == FormatJSON {
		return renderJSON(results)
	}
	return renderActionResults(action.Title(), results), nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func trimFloat(v float64) string {
	if v == math.Trunc(v) {
		return fmt.Sprintf("%d", int64(v))
	}
	return fmt.Sprintf("%g", v)
}

func upperOrUnknown(s string) string {
	if s == "" {
		return "UNKNOWN"
	}
	return strings.ToUpper(s)
}
