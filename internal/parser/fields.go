package parser

import (
	"strings"
	"time"
)

var (
	timestampKeys = []string{"timestamp", "time", "ts", "@timestamp", "created_at"}
	levelKeys     = []string{"level", "severity", "log_level", "lvl"}
	messageKeys   = []string{"message", "msg", "log", "text"}
)

func isKnownKey(k string, keys []string) bool {
	k = strings.ToLower(k)
	for _, key := range keys {
		if k == key {
			return true
		}
	}
	return false
}

func isReservedKey(k string) bool {
	return isKnownKey(k, timestampKeys) || isKnownKey(k, levelKeys) || isKnownKey(k, messageKeys)
}

var timeFormats = []string{
	time.RFC3339,
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04:05.000",
	"2006-01-02T15:04:05.000Z",
	"02/Jan/2006:15:04:05 -0700",
	"Jan  2 15:04:05",
	"Jan 2 15:04:05",
	"2006/01/02 15:04:05",
}

// parseTimestamp accepts a string in one of timeFormats or a number of
// seconds (or milliseconds, for large values) since the epoch.
func parseTimestamp(v any) time.Time {
	switch val := v.(type) {
	case string:
		for _, layout := range timeFormats {
			if t, err := time.Parse(layout, val); err == nil {
				return t
			}
		}
	case float64:
		if val > 1e12 {
			return time.UnixMilli(int64(val))
		}
		return time.Unix(int64(val), 0)
	}
	return time.Time{}
}

// normalizeLevel upper-cases a level and folds aliases onto the names the
// renderer knows.
func normalizeLevel(level string) string {
	l := strings.ToUpper(strings.TrimSpace(level))
	switch l {
	case "WARNING":
		return "WARN"
	case "ERR":
		return "ERROR"
	}
	return l
}
