package parser

import (
	"encoding/json"
	"strings"
)

// JSONParser parses JSON object records. Nested objects are flattened into
// dotted field names.
type JSONParser struct{}

// Parse parses a JSON record. Records that fail to decode keep the raw
// text as their message.
func (p *JSONParser) Parse(record string) LogEntry {
	entry := newEntry(record, FormatJSON)

	var raw map[string]any
	if err := json.Unmarshal([]byte(strings.TrimSpace(record)), &raw); err != nil {
		entry.Message = record
		return entry
	}

	for k, v := range raw {
		switch {
		case isKnownKey(k, timestampKeys):
			entry.Timestamp = parseTimestamp(v)
		case isKnownKey(k, levelKeys):
			if s, ok := v.(string); ok {
				entry.Level = normalizeLevel(s)
			}
		case isKnownKey(k, messageKeys):
			if s, ok := v.(string); ok {
				entry.Message = s
			}
		default:
			flattenJSON(entry.Fields, k, v)
		}
	}
	return entry
}

func flattenJSON(dst map[string]string, key string, v any) {
	switch val := v.(type) {
	case string:
		dst[key] = val
	case map[string]any:
		for k, inner := range val {
			flattenJSON(dst, key+"."+k, inner)
		}
	default:
		b, _ := json.Marshal(val)
		dst[key] = string(b)
	}
}
