package proxmox

// Node is one entry from GET /nodes.
type Node struct {
	Node   string    `json:"node"`
	Status string    `json:"status"`
	Uptime FlexInt   `json:"uptime"`
	CPU    FlexFloat `json:"cpu"`
	MaxCPU FlexInt   `json:"maxcpu"`
	Mem    FlexInt   `json:"mem"`
	MaxMem FlexInt   `json:"maxmem"`
}

// NodeStatus is the reply from GET /nodes/{node}/status.
type NodeStatus struct {
	Uptime  FlexInt   `json:"uptime"`
	CPU     FlexFloat `json:"cpu"`
	CPUInfo struct {
		CPUs  FlexInt `json:"cpus"`
		Model string  `json:"model"`
	} `json:"cpuinfo"`
	Memory struct {
		Used  FlexInt `json:"used"`
		Total FlexInt `json:"total"`
		Free  FlexInt `json:"free"`
	} `json:"memory"`
	Swap struct {
		Used  FlexInt `json:"used"`
		Total FlexInt `json:"total"`
	} `json:"swap"`
	RootFS struct {
		Used  FlexInt `json:"used"`
		Total FlexInt `json:"total"`
	} `json:"rootfs"`
	LoadAvg    []FlexFloat `json:"loadavg"`
	KVersion   string      `json:"kversion"`
	PVEVersion string      `json:"pveversion"`
}

// Container is one entry from GET /nodes/{node}/lxc. Some cluster setups
// return bare vmid integers instead of objects; those are coerced by
// ListContainers.
type Container struct {
	VMID     FlexInt   `json:"vmid"`
	Name     string    `json:"name"`
	Hostname string    `json:"hostname"`
	Status   string    `json:"status"`
	Uptime   FlexInt   `json:"uptime"`
	CPU      FlexFloat `json:"cpu"`
	CPUs     FlexInt   `json:"cpus"`
	Mem      FlexInt   `json:"mem"`
	MaxMem   FlexInt   `json:"maxmem"`
}

// GuestStatus is the reply from .../status/current for a container or VM.
type GuestStatus struct {
	Status string    `json:"status"`
	CPU    FlexFloat `json:"cpu"`
	CPUs   FlexFloat `json:"cpus"`
	Mem    FlexInt   `json:"mem"`
	MaxMem FlexInt   `json:"maxmem"`
	Uptime FlexInt   `json:"uptime"`
	Name   string    `json:"name"`
	Agent  FlexBool  `json:"agent"`
}

// ContainerConfig is the subset of GET .../lxc/{vmid}/config consumed here.
// Memory and swap are in MiB, as PVE stores them.
type ContainerConfig struct {
	Hostname string    `json:"hostname"`
	Memory   FlexInt   `json:"memory"`
	Swap     FlexInt   `json:"swap"`
	Cores    FlexInt   `json:"cores"`
	CPULimit FlexFloat `json:"cpulimit"`
	OSType   string    `json:"ostype"`
}

// RRDPoint is one historical sample from .../rrddata.
type RRDPoint struct {
	Time   FlexInt    `json:"time"`
	CPU    *FlexFloat `json:"cpu"`
	Mem    *FlexFloat `json:"mem"`
	MaxMem *FlexFloat `json:"maxmem"`
}

// VM is one entry from GET /nodes/{node}/qemu.
type VM struct {
	VMID   FlexInt   `json:"vmid"`
	Name   string    `json:"name"`
	Status string    `json:"status"`
	CPU    FlexFloat `json:"cpu"`
	CPUs   FlexInt   `json:"cpus"`
	Mem    FlexInt   `json:"mem"`
	MaxMem FlexInt   `json:"maxmem"`
	Uptime FlexInt   `json:"uptime"`
}

// VMConfig is the subset of GET .../qemu/{vmid}/config consumed here.
type VMConfig struct {
	Name   string  `json:"name"`
	Cores  FlexInt `json:"cores"`
	Memory FlexInt `json:"memory"`
	OSType string  `json:"ostype"`
}

// Storage is one entry from GET /storage or GET /nodes/{node}/storage.
type Storage struct {
	Storage string    `json:"storage"`
	Type    string    `json:"type"`
	Content string    `json:"content"`
	Enabled *FlexBool `json:"enabled"`
	Shared  FlexBool  `json:"shared"`
	Node    string    `json:"node"`
	Used    FlexInt   `json:"used"`
	Total   FlexInt   `json:"total"`
	Avail   FlexInt   `json:"avail"`
}

// StorageStatus is the reply from GET /nodes/{node}/storage/{storage}/status.
type StorageStatus struct {
	Used  FlexInt `json:"used"`
	Total FlexInt `json:"total"`
	Avail FlexInt `json:"avail"`
}

// Volume is one entry from GET /nodes/{node}/storage/{storage}/content.
type Volume struct {
	VolID     string   `json:"volid"`
	Content   string   `json:"content"`
	Format    string   `json:"format"`
	Size      FlexInt  `json:"size"`
	CTime     FlexInt  `json:"ctime"`
	VMID      FlexInt  `json:"vmid"`
	Notes     string   `json:"notes"`
	Protected FlexBool `json:"protected"`
}

// Snapshot is one entry from .../snapshot for a VM or container.
type Snapshot struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	SnapTime    FlexInt  `json:"snaptime"`
	Parent      string   `json:"parent"`
	VMState     FlexBool `json:"vmstate"`
}

// ClusterStatusEntry is one entry from GET /cluster/status. Entries are a
// mixed list of cluster, node, and resource records discriminated by Type.
type ClusterStatusEntry struct {
	ID      string    `json:"id"`
	Type    string    `json:"type"`
	Name    string    `json:"name"`
	Quorate *FlexBool `json:"quorate"`
	Online  *FlexBool `json:"online"`
	IP      string    `json:"ip"`
	Local   FlexBool  `json:"local"`
}

// ExecStatus is the reply from GET .../agent/exec-status.
type ExecStatus struct {
	Exited   FlexBool `json:"exited"`
	ExitCode FlexInt  `json:"exitcode"`
	OutData  string   `json:"out-data"`
	ErrData  string   `json:"err-data"`
}
