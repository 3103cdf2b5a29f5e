package mcp

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// MockResult renders the deterministic synthetic observation used when
// remote calls are mocked (tools_mock). The rendering mirrors the real
// servers' shape closely enough for demos: "{tool}({k=v, ...})" with keys
// sorted.
func MockResult(toolName string, args map[string]any) string {
	if len(args) == 0 {
		return fmt.Sprintf("%s()", toolName)
	}
	keys := make([]string, 0, len(args))
	for k := range args {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		v := args[k]
		if s, ok := v.(string); ok {
			parts = append(parts, k+"="+s)
			continue
		}
		enc, err := json.Marshal(v)
		if err != nil {
			enc = []byte(fmt.Sprintf("%v", v))
		}
		parts = append(parts, k+"="+string(enc))
	}
	return fmt.Sprintf("%s(%s)", toolName, strings.Join(parts, ", "))
}
