// Package schema provides centralized JSON schema versioning for the
// diagnostic payloads the front end emits.
package schema

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// Schema version constants.
const (
	DiagnosticV1 = "veil.diagnostic/v1"
)

// Accepts reports whether a schema version is compatible with wantPrefix,
// allowing forward-compatible minor versions within the same major version.
func Accepts(got, wantPrefix string) bool {
	if got == wantPrefix {
		return true
	}
	if strings.HasPrefix(got, wantPrefix+".") {
		return true
	}
	return false
}

// MarshalDeterministic marshals a value to JSON with object keys sorted, so
// that golden-file tests and repeated encodings are byte-stable.
func MarshalDeterministic(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, fmt.Errorf("initial marshal failed: %w", err)
	}
	data := trimTrailingNewline(buf.Bytes())

	var generic any
	if err := json.Unmarshal(data, &generic); err != nil {
		return data, nil
	}
	return marshalSorted(generic)
}

func marshalSorted(v any) ([]byte, error) {
	switch val := v.(type) {
	case map[string]any:
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		var out bytes.Buffer
		out.WriteByte('{')
		for i, k := range keys {
			if i > 0 {
				out.WriteByte(',')
			}
			keyJSON, err := marshalSorted(k)
			if err != nil {
				return nil, err
			}
			valJSON, err := marshalSorted(val[k])
			if err != nil {
				return nil, err
			}
			out.Write(keyJSON)
			out.WriteByte(':')
			out.Write(valJSON)
		}
		out.WriteByte('}')
		return out.Bytes(), nil

	case []any:
		var out bytes.Buffer
		out.WriteByte('[')
		for i, item := range val {
			if i > 0 {
				out.WriteByte(',')
			}
			itemJSON, err := marshalSorted(item)
			if err != nil {
				return nil, err
			}
			out.Write(itemJSON)
		}
		out.WriteByte(']')
		return out.Bytes(), nil

	default:
		var buf bytes.Buffer
		enc := json.NewEncoder(&buf)
		enc.SetEscapeHTML(false)
		if err := enc.Encode(v); err != nil {
			return nil, err
		}
		return trimTrailingNewline(buf.Bytes()), nil
	}
}

func trimTrailingNewline(b []byte) []byte {
	if len(b) > 0 && b[len(b)-1] == '\n' {
		return b[:len(b)-1]
	}
	return b
}

// MustValidate checks that v's "schema" field (if present) is compatible
// with schemaName.
func MustValidate(schemaName string, v any) error {
	if m, ok := v.(map[string]any); ok {
		if s, ok := m["schema"].(string); ok {
			if !Accepts(s, schemaName) {
				return fmt.Errorf("schema mismatch: got %q, want %q", s, schemaName)
			}
		}
	}
	return nil
}

// CompactMode controls whether FormatJSON produces compact or indented output.
var CompactMode = false

// SetCompactMode enables or disables compact JSON output.
func SetCompactMode(enabled bool) { CompactMode = enabled }

// FormatJSON formats JSON according to the current compact-mode setting.
func FormatJSON(data []byte) ([]byte, error) {
	if CompactMode {
		var buf bytes.Buffer
		if err := json.Compact(&buf, data); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, data, "", "  "); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
