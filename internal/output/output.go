// Package output provides deterministic JSON encoding for CLI responses.
//
// Identical graph queries produce byte-identical output: floats are rounded
// to six decimal places and HTML characters in module paths are left as is.
// Strip removes run-varying fields (load IDs, durations) so two outputs can
// be compared in tests.
package output

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// RoundFloat rounds a float to max 6 decimal places
func RoundFloat(f float64) float64 {
	multiplier := math.Pow(10, 6)
	return math.Round(f*multiplier) / multiplier
}

// FormatFloat formats a float with no trailing zeros
func FormatFloat(f float64) string {
	str := strconv.FormatFloat(RoundFloat(f), 'f', 6, 64)
	str = strings.TrimRight(str, "0")
	return strings.TrimRight(str, ".")
}

// EncodeIndented marshals v as indented JSON without HTML escaping and
// without the trailing newline json.Encoder adds.
func EncodeIndented(v interface{}, indent string) ([]byte, error) {
	var buf bytes.Buffer
	encoder := json.NewEncoder(&buf)
	encoder.SetEscapeHTML(false)
	encoder.SetIndent("", indent)

	if err := encoder.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// Strip decodes data, removes every field named by a dot path and re-encodes
// it compactly. Arrays are descended into, so "loads.id" removes the id of
// every element of loads.
func Strip(data []byte, fields ...string) ([]byte, error) {
	var parsed interface{}
	if err := json.Unmarshal(data, &parsed); err != nil {
		return nil, err
	}
	for _, field := range fields {
		removeField(parsed, strings.Split(field, "."))
	}
	return json.Marshal(parsed)
}

// Equal reports whether two JSON documents are identical once fields are stripped.
func Equal(a, b []byte, fields ...string) (bool, error) {
	strippedA, err := Strip(a, fields...)
	if err != nil {
		return false, err
	}
	strippedB, err := Strip(b, fields...)
	if err != nil {
		return false, err
	}
	return bytes.Equal(strippedA, strippedB), nil
}

func removeField(v interface{}, parts []string) {
	if len(parts) == 0 {
		return
	}
	switch node := v.(type) {
	case []interface{}:
		for _, elem := range node {
			removeField(elem, parts)
		}
	case map[string]interface{}:
		if len(parts) == 1 {
			delete(node, parts[0])
			return
		}
		if next, ok := node[parts[0]]; ok {
			removeField(next, parts[1:])
		}
	}
}
