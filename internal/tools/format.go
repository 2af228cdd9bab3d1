package tools

import (
	"encoding/json"
	"fmt"
	"strings"
)

// FormatJSON selects machine-readable output with sorted keys; any other
// format style renders a human-readable report.
const FormatJSON = "json"

var byteUnits = []string{"B", "KiB", "MiB", "GiB", "TiB", "PiB"}

// BytesToHuman formats a byte count using binary units, always with two
// decimal places: 0 -> "0.00 B", 1536 -> "1.50 KiB". Negative counts are
// treated as zero.
func BytesToHuman(n float64) string {
	if n < 0 {
		n = 0
	}
	i := 0
	for n >= 1024.0 && i < len(byteUnits)-1 {
		n /= 1024.0
		i++
	}
	return fmt.Sprintf("%.2f %s", n, byteUnits[i])
}

// renderJSON serializes v with two-space indentation. Struct fields are
// declared in alphabetical tag order throughout this package, so the output
// has deterministically sorted keys.
func renderJSON(v any) (string, error) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encoding result: %w", err)
	}
	return string(out), nil
}

// joinLines assembles report lines, dropping trailing blank lines.
func joinLines(lines []string) string {
	return strings.TrimRight(strings.Join(lines, "\n"), "\n ")
}

// ErrorJSON converts a top-level failure into a well-formed JSON document.
// This is the shape clients see for any error that is not attributable to a
// single target, regardless of the requested format style.
func ErrorJSON(action string, err error) string {
	payload := struct {
		Action string `json:"action"`
		Error  string `json:"error"`
	}{Action: action, Error: err.Error()}
	out, mErr := json.Marshal(payload)
	if mErr != nil {
		return fmt.Sprintf(`{"action":%q,"error":"unrenderable error"}`, action)
	}
	return string(out)
}
