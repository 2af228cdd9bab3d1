package tools

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pvemcp/pkg/proxmox"
)

type fakeMediaAPI struct {
	nodes   []proxmox.Node
	storage map[string][]proxmox.Storage
	volumes map[string][]proxmox.Volume

	deletedVolID string
	downloaded   *proxmox.DownloadURLOptions
}

func (f *fakeMediaAPI) ListNodes(ctx context.Context) ([]proxmox.Node, error) {
	return f.nodes, nil
}

func (f *fakeMediaAPI) ListNodeStorage(ctx context.Context, node string) ([]proxmox.Storage, error) {
	return f.storage[node], nil
}

func (f *fakeMediaAPI) ListVolumes(ctx context.Context, node, storage, content string, vmid int) ([]proxmox.Volume, error) {
	var out []proxmox.Volume
	for _, v := range f.volumes[storage] {
		if content == "" || v.Content == content {
			out = append(out, v)
		}
	}
	return out, nil
}

func (f *fakeMediaAPI) DownloadURL(ctx context.Context, node, storage string, opts proxmox.DownloadURLOptions) (string, error) {
	f.downloaded = &opts
	return "UPID:download", nil
}

func (f *fakeMediaAPI) DeleteVolume(ctx context.Context, node, storage, volid string) (string, error) {
	f.deletedVolID = volid
	return "UPID:voldel", nil
}

func newFakeMediaAPI() *fakeMediaAPI {
	return &fakeMediaAPI{
		nodes: []proxmox.Node{{Node: "pve1"}},
		storage: map[string][]proxmox.Storage{
			"pve1": {
				{Storage: "local", Content: "iso,vztmpl,backup"},
				{Storage: "local-lvm", Content: "images,rootdir"},
			},
		},
		volumes: map[string][]proxmox.Volume{
			"local": {
				{VolID: "local:iso/debian-12.iso", Content: "iso", Size: 700000000},
				{VolID: "local:vztmpl/alpine-3.19.tar.zst", Content: "vztmpl", Size: 3000000},
			},
		},
	}
}

func TestListISOsFiltersContentType(t *testing.T) {
	mt := NewMediaTools(newFakeMediaAPI())

	out, err := mt.ListISOs(context.Background(), "", "", "pretty")
	require.NoError(t, err)

	assert.Contains(t, out, "💿 debian-12.iso")
	assert.Contains(t, out, "local:iso/debian-12.iso")
	assert.NotContains(t, out, "alpine")
}

func TestListTemplatesNoneFoundMessage(t *testing.T) {
	api := newFakeMediaAPI()
	api.volumes = nil
	mt := NewMediaTools(api)

	out, err := mt.ListTemplates(context.Background(), "pve1", "local", "pretty")
	require.NoError(t, err)
	assert.Equal(t, "No OS templates found on node pve1 in storage local", out)
}

func TestDownloadISODefaultsChecksumAlgorithm(t *testing.T) {
	api := newFakeMediaAPI()
	mt := NewMediaTools(api)

	out, err := mt.DownloadISO(context.Background(), "pve1", "local",
		"https://example.com/d.iso", "d.iso", "abc123", "", "pretty")
	require.NoError(t, err)

	require.NotNil(t, api.downloaded)
	assert.Equal(t, "sha256", api.downloaded.ChecksumAlgorithm)
	assert.Equal(t, "iso", api.downloaded.Content)
	assert.Contains(t, out, "⬇️ ISO Download Started")
	assert.Contains(t, out, "Task ID: UPID:download")
}

func TestDeleteISOResolvesBareFilename(t *testing.T) {
	api := newFakeMediaAPI()
	mt := NewMediaTools(api)

	out, err := mt.DeleteISO(context.Background(), "pve1", "local", "debian-12.iso", "pretty")
	require.NoError(t, err)
	assert.Equal(t, "local:iso/debian-12.iso", api.deletedVolID)
	assert.Contains(t, out, "🗑️ ISO/Template Deleted")
}

func TestDeleteISOUnknownFilename(t *testing.T) {
	mt := NewMediaTools(newFakeMediaAPI())

	_, err := mt.DeleteISO(context.Background(), "pve1", "local", "missing.iso", "pretty")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `could not find "missing.iso" in local on pve1`)
}
