// Package color provides terminal color theming for the pvemcp dashboard.
//
// Colors are organized into semantic categories rather than raw values:
//   - Success: positive states (running, online, quorate)
//   - Warning: caution states (starting, migrating, unknown)
//   - Error: failure states (stopped nodes, failed tasks)
//   - Info: informational elements
//   - Muted: de-emphasized text (stopped guests, help lines)
//
// Every style uses lipgloss adaptive colors so output stays readable on
// both dark and light terminal backgrounds. Initialize can force the
// background assumption when detection is wrong (e.g. inside tmux).
package color
