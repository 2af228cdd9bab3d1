// Package proxmox implements a client for the Proxmox VE REST API
// (https://host:8006/api2/json).
//
// The client supports API token authentication (PVEAPIToken header) and
// password authentication via /access/ticket with automatic ticket renewal.
// All requests are context-aware; mutating requests use form-encoded bodies
// as the PVE API expects.
//
// Proxmox replies are not uniformly shaped: most endpoints wrap their payload
// in a {"data": ...} envelope, some return bare values, and list entries are
// occasionally bare integers instead of objects. The envelope is normalized
// exactly once at this boundary (see normalize.go), so callers always receive
// strongly typed values.
package proxmox
