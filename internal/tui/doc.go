// Package tui provides an interactive terminal dashboard for a Proxmox
// cluster, built on the Bubble Tea framework.
//
// The dashboard lists every VM and container across the cluster with live
// status, refreshes on a timer or on demand, and supports basic lifecycle
// actions on the selected guest. The "c" key copies a node:vmid selector to
// the system clipboard so a guest can be targeted from tool calls or the
// command line without retyping.
package tui
