package tui

import (
	"context"
	"fmt"
	"sort"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"pvemcp/pkg/proxmox"
)

// DataSource is the API subset the dashboard reads and controls guests
// through. A *proxmox.Client satisfies it.
type DataSource interface {
	ListNodes(ctx context.Context) ([]proxmox.Node, error)
	ListContainers(ctx context.Context, node string) ([]proxmox.Container, error)
	ListVMs(ctx context.Context, node string) ([]proxmox.VM, error)
	StartContainer(ctx context.Context, node string, vmid int) (string, error)
	StopContainer(ctx context.Context, node string, vmid int) (string, error)
	StartVM(ctx context.Context, node string, vmid int) (string, error)
	StopVM(ctx context.Context, node string, vmid int) (string, error)
}

var _ DataSource = (*proxmox.Client)(nil)

type guestKind string

const (
	kindLXC  guestKind = "lxc"
	kindQEMU guestKind = "qemu"
)

// guestRow is one line of the dashboard list.
type guestRow struct {
	Kind   guestKind
	Node   string
	VMID   int
	Name   string
	Status string
	Mem    int64
	MaxMem int64
}

// Selector returns the node:vmid form accepted by the container tools.
func (r guestRow) Selector() string {
	return fmt.Sprintf("%s:%d", r.Node, r.VMID)
}

type guestsMsg struct {
	rows []guestRow
	err  error
}

type tickMsg time.Time

type controlDoneMsg struct {
	label string
	err   error
}

// fetchGuestsCmd loads all guests across the cluster. Nodes that fail to
// answer are skipped so one dead node does not blank the dashboard.
func fetchGuestsCmd(ds DataSource) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		nodes, err := ds.ListNodes(ctx)
		if err != nil {
			return guestsMsg{err: fmt.Errorf("listing nodes: %w", err)}
		}

		var rows []guestRow
		for _, n := range nodes {
			if cts, err := ds.ListContainers(ctx, n.Node); err == nil {
				for _, ct := range cts {
					name := ct.Name
					if name == "" {
						name = ct.Hostname
					}
					rows = append(rows, guestRow{
						Kind: kindLXC, Node: n.Node, VMID: int(ct.VMID),
						Name: name, Status: ct.Status,
						Mem: int64(ct.Mem), MaxMem: int64(ct.MaxMem),
					})
				}
			}
			if vms, err := ds.ListVMs(ctx, n.Node); err == nil {
				for _, vm := range vms {
					rows = append(rows, guestRow{
						Kind: kindQEMU, Node: n.Node, VMID: int(vm.VMID),
						Name: vm.Name, Status: vm.Status,
						Mem: int64(vm.Mem), MaxMem: int64(vm.MaxMem),
					})
				}
			}
		}

		sort.Slice(rows, func(i, j int) bool {
			if rows[i].Node != rows[j].Node {
				return rows[i].Node < rows[j].Node
			}
			return rows[i].VMID < rows[j].VMID
		})
		return guestsMsg{rows: rows}
	}
}

// controlGuestCmd starts or stops the given guest.
func controlGuestCmd(ds DataSource, row guestRow, start bool) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		verb := "stop"
		call := ds.StopContainer
		if row.Kind == kindQEMU {
			call = ds.StopVM
		}
		if start {
			verb = "start"
			call = ds.StartContainer
			if row.Kind == kindQEMU {
				call = ds.StartVM
			}
		}

		label := fmt.Sprintf("%s %s %s", verb, row.Kind, row.Selector())
		_, err := call(ctx, row.Node, row.VMID)
		return controlDoneMsg{label: label, err: err}
	}
}

// tickCmd schedules the next periodic refresh.
func tickCmd() tea.Cmd {
	return tea.Tick(refreshInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}
