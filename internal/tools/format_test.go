package tools

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBytesToHuman(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{0, "0.00 B"},
		{1, "1.00 B"},
		{1023, "1023.00 B"},
		{1536, "1.50 KiB"},
		{1073741824, "1.00 GiB"},
		{1099511627776, "1.00 TiB"},
		{-42, "0.00 B"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, BytesToHuman(tc.in), "input %v", tc.in)
	}
}

func TestBytesToHumanCapsAtLargestUnit(t *testing.T) {
	// 2048 PiB must not overflow into a nonexistent unit.
	assert.Equal(t, "2048.00 PiB", BytesToHuman(2048*1125899906842624))
}

func TestErrorJSONIsWellFormed(t *testing.T) {
	out := ErrorJSON("list containers", assert.AnError)

	var payload map[string]string
	require.NoError(t, json.Unmarshal([]byte(out), &payload))
	assert.Equal(t, "list containers", payload["action"])
	assert.NotEmpty(t, payload["error"])
}
