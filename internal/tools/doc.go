// Package tools implements the typed operations behind the MCP tool surface.
//
// Each provider (NodeTools, VMTools, ContainerTools, ...) wraps the subset of
// the Proxmox API it needs behind a small interface, so tests can substitute
// fakes without a live cluster. Providers return rendered text: either a
// JSON document with deterministically sorted keys (format style "json") or
// a human-readable report (any other style, conventionally "pretty").
//
// Container control operations (start, stop, restart) go through a selector
// resolution and batch execution engine: a selector expression is resolved
// against a freshly built cluster inventory into concrete (node, vmid, label)
// targets, the action is dispatched to every target independently with a
// bounded degree of parallelism, and the per-target outcomes are aggregated
// without ever letting one target's failure abort its siblings.
package tools
