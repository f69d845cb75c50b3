package utils

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// TimeLayout is the "Y-m-d H:i:s" layout used by remote payloads.
const TimeLayout = "2006-01-02 15:04:05"

// ZeroDate is the placeholder remote sites send for an unset date.
const ZeroDate = "0000-00-00 00:00:00"

// ToInt64 converts payload values to int64.
// Remote payloads carry ids as JSON numbers, numeric strings or raw bytes.
func ToInt64(val any) int64 {
	switch v := val.(type) {
	case nil:
		return 0
	case int:
		return int64(v)
	case int64:
		return v
	case int32:
		return int64(v)
	case uint:
		return int64(v)
	case uint64:
		return int64(v)
	case uint32:
		return int64(v)
	case float64:
		return int64(v)
	case float32:
		return int64(v)
	case string:
		i, _ := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		return i
	case []byte:
		i, _ := strconv.ParseInt(strings.TrimSpace(string(v)), 10, 64)
		return i
	default:
		i, _ := strconv.ParseInt(fmt.Sprintf("%v", v), 10, 64)
		return i
	}
}

// ToString converts various types to string. Nil becomes "".
func ToString(val any) string {
	switch v := val.(type) {
	case nil:
		return ""
	case string:
		return v
	case []byte:
		return string(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprintf("%v", v)
	}
}

// ToBool converts various types to bool.
// It handles bool, numeric types (1=true), and strings ("1", "true", "yes").
func ToBool(val any) bool {
	switch v := val.(type) {
	case bool:
		return v
	case int, int64, int32, uint, uint64, uint32, float64, float32:
		return ToInt64(v) == 1
	case string:
		s := strings.ToLower(strings.TrimSpace(v))
		return s == "1" || s == "true" || s == "yes"
	case []byte:
		return ToBool(string(v))
	default:
		return false
	}
}

// ToTime parses a payload timestamp. It accepts time.Time, the
// "Y-m-d H:i:s" layout, RFC3339 and unix seconds. ok is false when the value
// is absent, the zero date, or unparseable.
func ToTime(val any) (t time.Time, ok bool) {
	switch v := val.(type) {
	case nil:
		return time.Time{}, false
	case time.Time:
		return v, !v.IsZero()
	case *time.Time:
		if v == nil {
			return time.Time{}, false
		}
		return *v, !v.IsZero()
	case int, int64, float64:
		return time.Unix(ToInt64(v), 0).UTC(), true
	}

	s := strings.TrimSpace(ToString(val))
	if s == "" || s == ZeroDate {
		return time.Time{}, false
	}
	for _, layout := range []string{TimeLayout, time.RFC3339, time.RFC3339Nano, "2006-01-02"} {
		if parsed, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return parsed, true
		}
	}
	return time.Time{}, false
}

// ToStringMap returns val as a map[string]any, or nil when it is not a map.
func ToStringMap(val any) map[string]any {
	switch v := val.(type) {
	case map[string]any:
		return v
	case map[any]any:
		out := make(map[string]any, len(v))
		for k, item := range v {
			out[ToString(k)] = item
		}
		return out
	default:
		return nil
	}
}

// ToSlice returns val as a []any, or nil when it is not a list.
func ToSlice(val any) []any {
	switch v := val.(type) {
	case []any:
		return v
	case []map[string]any:
		out := make([]any, len(v))
		for i := range v {
			out[i] = v[i]
		}
		return out
	default:
		return nil
	}
}
