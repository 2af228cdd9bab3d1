package tui

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pvemcp/pkg/proxmox"
)

type fakeDataSource struct {
	nodes      []proxmox.Node
	containers map[string][]proxmox.Container
	vms        map[string][]proxmox.VM
	calls      []string
}

func (f *fakeDataSource) ListNodes(ctx context.Context) ([]proxmox.Node, error) {
	return f.nodes, nil
}

func (f *fakeDataSource) ListContainers(ctx context.Context, node string) ([]proxmox.Container, error) {
	return f.containers[node], nil
}

func (f *fakeDataSource) ListVMs(ctx context.Context, node string) ([]proxmox.VM, error) {
	return f.vms[node], nil
}

func (f *fakeDataSource) StartContainer(ctx context.Context, node string, vmid int) (string, error) {
	f.calls = append(f.calls, "start-ct")
	return "UPID:1", nil
}

func (f *fakeDataSource) StopContainer(ctx context.Context, node string, vmid int) (string, error) {
	f.calls = append(f.calls, "stop-ct")
	return "UPID:2", nil
}

func (f *fakeDataSource) StartVM(ctx context.Context, node string, vmid int) (string, error) {
	f.calls = append(f.calls, "start-vm")
	return "UPID:3", nil
}

func (f *fakeDataSource) StopVM(ctx context.Context, node string, vmid int) (string, error) {
	f.calls = append(f.calls, "stop-vm")
	return "UPID:4", nil
}

func newTestModel(ds DataSource) model {
	m := InitialModel(ds).(model)
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return updated.(model)
}

func TestFetchGuestsCmdMergesAndSorts(t *testing.T) {
	ds := &fakeDataSource{
		nodes: []proxmox.Node{{Node: "pve2"}, {Node: "pve1"}},
		containers: map[string][]proxmox.Container{
			"pve1": {{VMID: 101, Name: "web", Status: "running"}},
		},
		vms: map[string][]proxmox.VM{
			"pve2": {{VMID: 100, Name: "db", Status: "stopped"}},
		},
	}

	msg := fetchGuestsCmd(ds)().(guestsMsg)
	require.NoError(t, msg.err)
	require.Len(t, msg.rows, 2)

	// Sorted by node then vmid.
	assert.Equal(t, "pve1:101", msg.rows[0].Selector())
	assert.Equal(t, kindLXC, msg.rows[0].Kind)
	assert.Equal(t, "pve2:100", msg.rows[1].Selector())
	assert.Equal(t, kindQEMU, msg.rows[1].Kind)
}

func TestUpdateCursorMovement(t *testing.T) {
	m := newTestModel(&fakeDataSource{})
	updated, _ := m.Update(guestsMsg{rows: []guestRow{
		{Node: "pve1", VMID: 100}, {Node: "pve1", VMID: 101},
	}})
	m = updated.(model)

	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'j'}})
	m = updated.(model)
	assert.Equal(t, 1, m.cursor)

	// Does not move past the last row.
	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'j'}})
	m = updated.(model)
	assert.Equal(t, 1, m.cursor)

	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'k'}})
	m = updated.(model)
	assert.Equal(t, 0, m.cursor)
}

func TestUpdateClampsCursorAfterShrink(t *testing.T) {
	m := newTestModel(&fakeDataSource{})
	updated, _ := m.Update(guestsMsg{rows: []guestRow{
		{VMID: 1}, {VMID: 2}, {VMID: 3},
	}})
	m = updated.(model)
	m.cursor = 2

	updated, _ = m.Update(guestsMsg{rows: []guestRow{{VMID: 1}}})
	m = updated.(model)
	assert.Equal(t, 0, m.cursor)
}

func TestControlDispatchesByKind(t *testing.T) {
	ds := &fakeDataSource{}

	cmd := controlGuestCmd(ds, guestRow{Kind: kindQEMU, Node: "pve1", VMID: 200}, false)
	msg := cmd().(controlDoneMsg)
	require.NoError(t, msg.err)
	assert.Contains(t, msg.label, "stop qemu pve1:200")

	cmd = controlGuestCmd(ds, guestRow{Kind: kindLXC, Node: "pve1", VMID: 100}, true)
	msg = cmd().(controlDoneMsg)
	require.NoError(t, msg.err)
	assert.Equal(t, []string{"stop-vm", "start-ct"}, ds.calls)
}

func TestViewListsGuests(t *testing.T) {
	m := newTestModel(&fakeDataSource{})
	updated, _ := m.Update(guestsMsg{rows: []guestRow{
		{Kind: kindLXC, Node: "pve1", VMID: 100, Name: "web", Status: "running"},
	}})
	m = updated.(model)

	view := m.View()
	assert.Contains(t, view, "web")
	assert.Contains(t, view, "pve1:100")
	assert.Contains(t, view, "Proxmox Guests")
}
