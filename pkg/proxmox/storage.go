package proxmox

import (
	"context"
	"fmt"
	"net/url"
)

// ListStorage returns the cluster-wide storage configuration.
func (c *Client) ListStorage(ctx context.Context) ([]Storage, error) {
	var stores []Storage
	if err := c.getInto(ctx, "/storage", &stores); err != nil {
		return nil, fmt.Errorf("listing storage: %w", err)
	}
	return stores, nil
}

// ListNodeStorage returns the storage pools visible on one node, including
// usage figures.
func (c *Client) ListNodeStorage(ctx context.Context, node string) ([]Storage, error) {
	var stores []Storage
	if err := c.getInto(ctx, "/nodes/"+url.PathEscape(node)+"/storage", &stores); err != nil {
		return nil, fmt.Errorf("listing storage on %s: %w", node, err)
	}
	return stores, nil
}

// GetStorageStatus returns usage figures for one storage pool on one node.
func (c *Client) GetStorageStatus(ctx context.Context, node, storage string) (*StorageStatus, error) {
	var status StorageStatus
	path := storagePath(node, storage) + "/status"
	if err := c.getInto(ctx, path, &status); err != nil {
		return nil, fmt.Errorf("getting status of storage %s on %s: %w", storage, node, err)
	}
	return &status, nil
}

// ListVolumes returns the content of one storage pool, optionally filtered
// by content type ("backup", "iso", "vztmpl", ...) and guest ID.
func (c *Client) ListVolumes(ctx context.Context, node, storage, content string, vmid int) ([]Volume, error) {
	path := storagePath(node, storage) + "/content"
	query := url.Values{}
	if content != "" {
		query.Set("content", content)
	}
	if vmid > 0 {
		query.Set("vmid", fmt.Sprint(vmid))
	}
	if len(query) > 0 {
		path += "?" + query.Encode()
	}
	var volumes []Volume
	if err := c.getInto(ctx, path, &volumes); err != nil {
		return nil, fmt.Errorf("listing content of storage %s on %s: %w", storage, node, err)
	}
	return volumes, nil
}

// DeleteVolume removes a volume (backup archive, ISO, template) from a
// storage pool and returns the task ID, which may be empty for immediate
// deletions.
func (c *Client) DeleteVolume(ctx context.Context, node, storage, volid string) (string, error) {
	path := storagePath(node, storage) + "/content/" + url.PathEscape(volid)
	upid, err := c.deleteTask(ctx, path)
	if err != nil {
		return "", fmt.Errorf("deleting volume %s: %w", volid, err)
	}
	return upid, nil
}

// DownloadURLOptions describes a download-url request.
type DownloadURLOptions struct {
	URL               string
	Filename          string
	Content           string // "iso" or "vztmpl"
	Checksum          string
	ChecksumAlgorithm string // sha256, sha512, md5
}

// DownloadURL asks the node to fetch a file from a URL into a storage pool
// and returns the task ID.
func (c *Client) DownloadURL(ctx context.Context, node, storage string, opts DownloadURLOptions) (string, error) {
	data := url.Values{}
	data.Set("url", opts.URL)
	data.Set("filename", opts.Filename)
	data.Set("content", opts.Content)
	if opts.Checksum != "" {
		data.Set("checksum", opts.Checksum)
		data.Set("checksum-algorithm", opts.ChecksumAlgorithm)
	}
	upid, err := c.postTask(ctx, storagePath(node, storage)+"/download-url", data)
	if err != nil {
		return "", fmt.Errorf("downloading %s to %s on %s: %w", opts.Filename, storage, node, err)
	}
	return upid, nil
}

func storagePath(node, storage string) string {
	return fmt.Sprintf("/nodes/%s/storage/%s", url.PathEscape(node), url.PathEscape(storage))
}
