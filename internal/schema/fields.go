package schema

import (
	"encoding/base64"
	"math"
	"strconv"
	"time"
)

// Tolerant accessors over a generically decoded JSON object. A value of the
// wrong type reads as absent.

type object = map[string]any

func stringField(m object, key string) (string, bool) {
	s, ok := m[key].(string)
	return s, ok
}

func stringOr(m object, key, fallback string) string {
	if s, ok := stringField(m, key); ok {
		return s
	}
	return fallback
}

// idField accepts strings and integral numbers.
func idField(m object, key string) string {
	switch v := m[key].(type) {
	case string:
		return v
	case float64:
		if v == math.Trunc(v) {
			return strconv.FormatInt(int64(v), 10)
		}
	}
	return ""
}

func intField(m object, key string) (int, bool) {
	switch v := m[key].(type) {
	case float64:
		if v == math.Trunc(v) && v >= math.MinInt32 && v <= math.MaxInt32 {
			return int(v), true
		}
	case string:
		if n, err := strconv.Atoi(v); err == nil {
			return n, true
		}
	}
	return 0, false
}

func intPtrField(m object, key string) *int {
	if n, ok := intField(m, key); ok {
		return &n
	}
	return nil
}

func floatField(m object, key string) (float64, bool) {
	f, ok := m[key].(float64)
	return f, ok
}

func boolField(m object, key string) bool {
	b, _ := m[key].(bool)
	return b
}

func objectField(m object, key string) (object, bool) {
	o, ok := m[key].(map[string]any)
	return o, ok
}

func arrayField(m object, key string) ([]any, bool) {
	a, ok := m[key].([]any)
	return a, ok
}

func bytesField(m object, key string) []byte {
	s, ok := stringField(m, key)
	if !ok || s == "" {
		return nil
	}
	data, err := base64.StdEncoding.DecodeString(s)
	if err != nil || len(data) == 0 {
		return nil
	}
	return data
}

// timeField reads an ISO-8601 string or a unix-seconds number, normalized to
// whole seconds in UTC.
func timeField(m object, key string) (time.Time, bool) {
	switch v := m[key].(type) {
	case string:
		for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
			if t, err := time.Parse(layout, v); err == nil {
				return normalizeTime(t), true
			}
		}
	case float64:
		return normalizeTime(timeFromUnix(v)), true
	}
	return time.Time{}, false
}

func timeFromUnix(seconds float64) time.Time {
	return time.Unix(int64(seconds), 0)
}

func timePtrField(m object, key string) *time.Time {
	if t, ok := timeField(m, key); ok {
		return &t
	}
	return nil
}

func normalizeTime(t time.Time) time.Time {
	return t.UTC().Truncate(time.Second)
}

func formatTime(t time.Time) string {
	return normalizeTime(t).Format(time.RFC3339)
}

// copyObject returns a shallow copy of m.
func copyObject(m object) object {
	out := make(object, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
