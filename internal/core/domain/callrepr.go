package domain

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"
)

// FormatCall builds the canonical representation of a function call from the
// function's qualified name and its effective argument bindings. Two calls
// with the same effective arguments always map to the same string: keys are
// sorted, excluded arguments are dropped, and values render as canonical
// JSON (deterministic map-key order). The result serves as the ledger key
// for memoized calls.
//
//	FormatCall("expr.correlate", map[string]any{"matrix": "a.csv", "top": 5})
//	=> `expr.correlate(matrix="a.csv", top=5)`
func FormatCall(qualified string, args map[string]any, exclude ...string) string {
	keys := make([]string, 0, len(args))
	for k := range args {
		if !slices.Contains(exclude, k) {
			keys = append(keys, k)
		}
	}
	slices.Sort(keys)

	var b strings.Builder
	b.WriteString(qualified)
	b.WriteByte('(')
	for i, k := range keys {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(formatValue(args[k]))
	}
	b.WriteByte(')')
	return b.String()
}

func formatValue(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		// Unmarshalable values (channels, funcs) have no stable repr;
		// fall back to the type so the key at least stays deterministic.
		return fmt.Sprintf("<%T>", v)
	}
	return string(data)
}
