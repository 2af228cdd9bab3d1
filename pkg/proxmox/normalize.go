package proxmox

import (
	"encoding/json"
	"strconv"
	"strings"
)

// unwrapEnvelope strips the {"data": ...} wrapper when present and returns
// the inner payload, or the input unchanged for bare replies.
func unwrapEnvelope(raw []byte) json.RawMessage {
	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(raw, &envelope); err == nil && len(envelope.Data) > 0 {
		return envelope.Data
	}
	return raw
}

// unmarshalRaw decodes an already-unwrapped payload, treating empty and
// null replies as zero values.
func unmarshalRaw(raw json.RawMessage, out interface{}) error {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	return json.Unmarshal(raw, out)
}

// UnwrapList normalizes a reply into a list of raw items: a bare JSON array
// is returned as-is, an object with a list under "data" is unwrapped, and
// anything else yields an empty list.
func UnwrapList(raw json.RawMessage) []json.RawMessage {
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err == nil {
		return items
	}
	var envelope struct {
		Data []json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(raw, &envelope); err == nil && envelope.Data != nil {
		return envelope.Data
	}
	return []json.RawMessage{}
}

// UnwrapDict normalizes a reply into a raw object: an object with an object
// under "data" is unwrapped, any other object is returned as-is, and
// non-object input yields an empty map.
func UnwrapDict(raw json.RawMessage) map[string]json.RawMessage {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil {
		return map[string]json.RawMessage{}
	}
	if inner, ok := obj["data"]; ok {
		var innerObj map[string]json.RawMessage
		if err := json.Unmarshal(inner, &innerObj); err == nil {
			return innerObj
		}
	}
	return obj
}

// FlexInt is an integer that tolerates the PVE API's habit of returning
// numbers either bare or as quoted strings.
type FlexInt int64

func (f *FlexInt) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		*f = 0
		return nil
	}
	// Some endpoints report integral values as floats ("1.0").
	if v, err := strconv.ParseInt(s, 10, 64); err == nil {
		*f = FlexInt(v)
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return err
	}
	*f = FlexInt(int64(v))
	return nil
}

// Int returns the value as a plain int.
func (f FlexInt) Int() int { return int(f) }

// Int64 returns the value as an int64.
func (f FlexInt) Int64() int64 { return int64(f) }

// FlexFloat is a float64 that tolerates quoted numeric strings.
type FlexFloat float64

func (f *FlexFloat) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		*f = 0
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return err
	}
	*f = FlexFloat(v)
	return nil
}

// Float returns the value as a plain float64.
func (f FlexFloat) Float() float64 { return float64(f) }

// FlexBool is a boolean that tolerates the PVE API's 0/1 integers and
// quoted variants alongside real booleans.
type FlexBool bool

func (f *FlexBool) UnmarshalJSON(b []byte) error {
	switch strings.Trim(string(b), `"`) {
	case "1", "true":
		*f = true
	default:
		*f = false
	}
	return nil
}

// Bool returns the value as a plain bool.
func (f FlexBool) Bool() bool { return bool(f) }
