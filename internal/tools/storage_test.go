package tools

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pvemcp/pkg/proxmox"
)

type fakeStorageAPI struct {
	nodes   []proxmox.Node
	storage map[string][]proxmox.Storage
	errs    map[string]error
}

func (f *fakeStorageAPI) ListNodes(ctx context.Context) ([]proxmox.Node, error) {
	return f.nodes, nil
}

func (f *fakeStorageAPI) ListStorage(ctx context.Context) ([]proxmox.Storage, error) {
	return nil, nil
}

func (f *fakeStorageAPI) ListNodeStorage(ctx context.Context, node string) ([]proxmox.Storage, error) {
	if err := f.errs[node]; err != nil {
		return nil, err
	}
	return f.storage[node], nil
}

func (f *fakeStorageAPI) GetStorageStatus(ctx context.Context, node, storage string) (*proxmox.StorageStatus, error) {
	return &proxmox.StorageStatus{}, nil
}

func TestGetStorageDeduplicatesSharedPools(t *testing.T) {
	shared := proxmox.Storage{Storage: "cephfs", Type: "cephfs", Shared: true, Used: 100, Total: 1000}
	api := &fakeStorageAPI{
		nodes: []proxmox.Node{{Node: "pve1"}, {Node: "pve2"}},
		storage: map[string][]proxmox.Storage{
			"pve1": {shared, {Storage: "local", Type: "dir", Used: 10, Total: 100}},
			"pve2": {shared, {Storage: "local", Type: "dir", Used: 20, Total: 100}},
		},
	}

	st := NewStorageTools(api)
	out, err := st.GetStorage(context.Background(), "", FormatJSON)
	require.NoError(t, err)

	var records []StorageRecord
	require.NoError(t, json.Unmarshal([]byte(out), &records))

	names := map[string]int{}
	for _, r := range records {
		names[r.Storage]++
	}
	// Shared pool reported once, local pool once per node.
	assert.Equal(t, 1, names["cephfs"])
	assert.Equal(t, 2, names["local"])
}

func TestGetStorageSkipsDisabledAndFailingNodes(t *testing.T) {
	disabled := proxmox.FlexBool(false)
	api := &fakeStorageAPI{
		nodes: []proxmox.Node{{Node: "pve1"}, {Node: "pve2"}},
		storage: map[string][]proxmox.Storage{
			"pve1": {
				{Storage: "local", Type: "dir", Used: 10, Total: 100},
				{Storage: "old-nfs", Type: "nfs", Enabled: &disabled},
			},
		},
		errs: map[string]error{"pve2": errors.New("timeout")},
	}

	st := NewStorageTools(api)
	out, err := st.GetStorage(context.Background(), "", "pretty")
	require.NoError(t, err)

	assert.Contains(t, out, "💾 local (dir, local)")
	assert.Contains(t, out, "Usage: 10.00 B / 100.00 B (10.0%)")
	assert.NotContains(t, out, "old-nfs")
}

func TestGetStorageSingleNodeErrorPropagates(t *testing.T) {
	api := &fakeStorageAPI{errs: map[string]error{"pve1": errors.New("boom")}}
	st := NewStorageTools(api)

	_, err := st.GetStorage(context.Background(), "pve1", "pretty")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "listing storage on pve1")
}
