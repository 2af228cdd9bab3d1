// Package server assembles the MCP tool server for Proxmox VE.
//
// It registers every tool with its schema, extracts and validates call
// parameters, delegates to the typed providers in internal/tools, and
// converts outcomes into MCP content blocks. Failures never escape to the
// transport as unhandled faults: a top-level error becomes a structured
// error content block carrying a JSON body with action and error fields.
//
// The server speaks stdio by default, which is why all logging must go to
// stderr or a file, and can optionally serve SSE over HTTP.
package server
