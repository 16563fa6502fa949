package resolve

import "strings"

// Decoder turns a located value into the caller's target type. It reports
// false when the value is the wrong type or empty, so the next extractor is
// tried.
type Decoder[T any] func(v any) (T, bool)

// Records accepts a non-empty list and keeps its object elements.
func Records(v any) ([]map[string]any, bool) {
	list, ok := v.([]any)
	if !ok || len(list) == 0 {
		return nil, false
	}

	records := make([]map[string]any, 0, len(list))
	for _, item := range list {
		if obj, ok := item.(map[string]any); ok {
			records = append(records, obj)
		}
	}
	if len(records) == 0 {
		return nil, false
	}
	return records, true
}

// Email accepts a non-blank string.
func Email(v any) (string, bool) {
	s, ok := v.(string)
	if !ok {
		return "", false
	}
	s = strings.TrimSpace(s)
	return s, s != ""
}
