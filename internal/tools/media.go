package tools

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"pvemcp/pkg/logging"
	"pvemcp/pkg/proxmox"
)

// MediaTools implements ISO image and container template management.
type MediaTools struct {
	api MediaAPI
}

// NewMediaTools returns a media tool provider backed by api.
func NewMediaTools(api MediaAPI) *MediaTools {
	return &MediaTools{api: api}
}

// MediaRecord is one ISO image or container template. Fields are in
// alphabetical tag order.
type MediaRecord struct {
	Filename string `json:"filename"`
	Node     string `json:"node"`
	Size     int64  `json:"size"`
	Storage  string `json:"storage"`
	VolID    string `json:"volid"`
}

// listContent collects volumes of one content type across nodes and storage
// pools, honoring optional node/storage filters. Pools that do not advertise
// the content type are skipped, as are pools and nodes that fail to answer.
func (t *MediaTools) listContent(ctx context.Context, contentType, node, storage string) ([]MediaRecord, error) {
	nodes, err := t.api.ListNodes(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing nodes: %w", err)
	}

	var records []MediaRecord
	for _, n := range nodes {
		if n.Node == "" || (node != "" && n.Node != node) {
			continue
		}
		stores, err := t.api.ListNodeStorage(ctx, n.Node)
		if err != nil {
			logging.Warn("media", "skipping node %s while listing %s content: %v", n.Node, contentType, err)
			continue
		}
		for _, s := range stores {
			if s.Storage == "" || (storage != "" && s.Storage != storage) {
				continue
			}
			if !strings.Contains(s.Content, contentType) {
				continue
			}
			volumes, err := t.api.ListVolumes(ctx, n.Node, s.Storage, contentType, 0)
			if err != nil {
				logging.Debug("media", "skipping storage %s on %s: %v", s.Storage, n.Node, err)
				continue
			}
			for _, v := range volumes {
				records = append(records, MediaRecord{
					Filename: volumeFilename(v.VolID),
					Node:     n.Node,
					Size:     v.Size.Int64(),
					Storage:  s.Storage,
					VolID:    v.VolID,
				})
			}
		}
	}

	sort.Slice(records, func(i, j int) bool { return records[i].VolID < records[j].VolID })
	return records, nil
}

// ListISOs lists ISO images, optionally filtered by node and storage pool.
func (t *MediaTools) ListISOs(ctx context.Context, node, storage, formatStyle string) (string, error) {
	records, err := t.listContent(ctx, "iso", node, storage)
	if err != nil {
		return "", err
	}
	if formatStyle == FormatJSON {
		return renderJSON(records)
	}
	if len(records) == 0 {
		return noMediaMessage("No ISO images found", node, storage), nil
	}
	return renderMediaList("💿 Available ISO Images", "💿", records, ""), nil
}

// ListTemplates lists container OS templates, optionally filtered by node
// and storage pool.
func (t *MediaTools) ListTemplates(ctx context.Context, node, storage, formatStyle string) (string, error) {
	records, err := t.listContent(ctx, "vztmpl", node, storage)
	if err != nil {
		return "", err
	}
	if formatStyle == FormatJSON {
		return renderJSON(records)
	}
	if len(records) == 0 {
		return noMediaMessage("No OS templates found", node, storage), nil
	}
	return renderMediaList("📦 Available OS Templates", "📦", records,
		"Use the Volume ID as the ostemplate when creating containers."), nil
}

// DownloadISO asks a node to download an ISO image from a URL into a
// storage pool, optionally verifying a checksum.
func (t *MediaTools) DownloadISO(ctx context.Context, node, storage, url, filename, checksum, checksumAlgorithm, formatStyle string) (string, error) {
	if checksum != "" && checksumAlgorithm == "" {
		checksumAlgorithm = "sha256"
	}
	upid, err := t.api.DownloadURL(ctx, node, storage, proxmox.DownloadURLOptions{
		URL:               url,
		Filename:          filename,
		Content:           "iso",
		Checksum:          checksum,
		ChecksumAlgorithm: checksumAlgorithm,
	})
	if err != nil {
		return "", fmt.Errorf("downloading ISO %q: %w", filename, err)
	}

	if formatStyle == FormatJSON {
		return renderJSON(struct {
			Filename string `json:"filename"`
			Node     string `json:"node"`
			Storage  string `json:"storage"`
			Task     string `json:"task"`
			URL      string `json:"url"`
		}{Filename: filename, Node: node, Storage: storage, Task: upid, URL: url})
	}

	lines := []string{
		"⬇️ ISO Download Started",
		"",
		fmt.Sprintf("  • Filename: %s", filename),
		fmt.Sprintf("  • URL: %s", url),
		fmt.Sprintf("  • Storage: %s @ %s", storage, node),
	}
	if checksum != "" {
		lines = append(lines, fmt.Sprintf("  • Checksum: %s", strings.ToUpper(checksumAlgorithm)))
	}
	lines = append(lines,
		"",
		fmt.Sprintf("Task ID: %s", upid),
		"",
		"The download is running in the background.",
		"Use list_isos to verify when complete.",
	)
	return joinLines(lines), nil
}

// DeleteISO removes an ISO image or template. A bare filename is resolved
// to its volume ID by scanning the pool's content.
func (t *MediaTools) DeleteISO(ctx context.Context, node, storage, filename, formatStyle string) (string, error) {
	volid := filename
	if !strings.Contains(filename, ":") {
		volumes, err := t.api.ListVolumes(ctx, node, storage, "", 0)
		if err != nil {
			return "", fmt.Errorf("resolving %q in %s on %s: %w", filename, storage, node, err)
		}
		volid = ""
		for _, v := range volumes {
			if strings.Contains(v.VolID, filename) {
				volid = v.VolID
				break
			}
		}
		if volid == "" {
			return "", fmt.Errorf("could not find %q in %s on %s", filename, storage, node)
		}
	}

	upid, err := t.api.DeleteVolume(ctx, node, storage, volid)
	if err != nil {
		return "", fmt.Errorf("deleting %q: %w", volid, err)
	}

	if formatStyle == FormatJSON {
		return renderJSON(struct {
			Node    string `json:"node"`
			Storage string `json:"storage"`
			Task    string `json:"task,omitempty"`
			VolID   string `json:"volid"`
		}{Node: node, Storage: storage, Task: upid, VolID: volid})
	}

	lines := []string{
		"🗑️ ISO/Template Deleted",
		"",
		fmt.Sprintf("  • Volume: %s", volid),
		fmt.Sprintf("  • Storage: %s", storage),
		fmt.Sprintf("  • Node: %s", node),
	}
	if upid != "" {
		lines = append(lines, "", fmt.Sprintf("Task ID: %s", upid))
	}
	return joinLines(lines), nil
}

func renderMediaList(title, marker string, records []MediaRecord, footer string) string {
	lines := []string{title, ""}
	for _, r := range records {
		lines = append(lines,
			fmt.Sprintf("  %s %s", marker, r.Filename),
			fmt.Sprintf("     Size: %s", BytesToHuman(float64(r.Size))),
			fmt.Sprintf("     Storage: %s @ %s", r.Storage, r.Node),
			fmt.Sprintf("     Volume ID: %s", r.VolID),
			"",
		)
	}
	if footer != "" {
		lines = append(lines, footer)
	}
	return joinLines(lines)
}

func noMediaMessage(base, node, storage string) string {
	if node != "" {
		base += " on node " + node
	}
	if storage != "" {
		base += " in storage " + storage
	}
	return base
}

// volumeFilename extracts the file name from a volume ID like
// "local:iso/debian-12.iso".
func volumeFilename(volid string) string {
	if i := strings.LastIndex(volid, "/"); i >= 0 {
		return volid[i+1:]
	}
	return volid
}
