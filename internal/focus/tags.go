package focus

import (
	"encoding/json"
	"strings"
)

// ParseTags decodes a string-encoded tag map. Exports serialize tags as JSON
// objects, sometimes with single quotes instead of double quotes. Anything
// that cannot be decoded into a flat string map yields an empty map.
func ParseTags(raw string) map[string]string {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == "{}" {
		return map[string]string{}
	}

	if tags, ok := decodeTagObject(raw); ok {
		return tags
	}
	// Python-style repr with single quotes.
	if tags, ok := decodeTagObject(strings.ReplaceAll(raw, "'", `"`)); ok {
		return tags
	}
	return map[string]string{}
}

func decodeTagObject(raw string) (map[string]string, bool) {
	var generic map[string]any
	if err := json.Unmarshal([]byte(raw), &generic); err != nil {
		return nil, false
	}
	tags := make(map[string]string, len(generic))
	for k, v := range generic {
		s, ok := v.(string)
		if !ok {
			return nil, false
		}
		tags[k] = s
	}
	return tags, true
}
