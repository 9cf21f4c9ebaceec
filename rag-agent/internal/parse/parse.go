// Package parse extracts JSON from free-form model output and validates it
// against the shapes the workflow expects. Model text is untrusted: every
// function here returns a typed value or a fallback, never raw decoded JSON.
package parse

import (
	"bytes"
	"encoding/json"
	"regexp"

	"github.com/TusharSariya/Terraform-Graph-Viewer/rag-agent/internal/plan"
)

var (
	arrayRe  = regexp.MustCompile(`(?s)\[.*?\]`)
	objectRe = regexp.MustCompile(`(?s)\{.*\}`)
)

// ArraySpan returns the text from the first '[' to the first ']' after it,
// or the whole text when there is no such span.
func ArraySpan(text string) string {
	if m := arrayRe.FindString(text); m != "" {
		return m
	}
	return text
}

// ObjectSpan returns the text from the first '{' to the last '}', or the
// whole text when there is no such span.
func ObjectSpan(text string) string {
	if m := objectRe.FindString(text); m != "" {
		return m
	}
	return text
}

// StringList decodes the array span of text as a non-empty JSON array of
// strings, keeping at most max entries. ok is false when the text does not
// hold such an array.
func StringList(text string, max int) (items []string, ok bool) {
	var raw []json.RawMessage
	if err := json.Unmarshal([]byte(ArraySpan(text)), &raw); err != nil || len(raw) == 0 {
		return nil, false
	}
	items = make([]string, 0, len(raw))
	for _, r := range raw {
		s, isString := stringValue(r)
		if !isString {
			return nil, false
		}
		items = append(items, s)
	}
	if max > 0 && len(items) > max {
		items = items[:max]
	}
	return items, true
}

// Insights decodes the object span of text as a map from resource identifier
// to insight. Keys outside permitted and scalar or null values are dropped;
// an array value keeps the key with every field at its default.
// summary falls back to "" and issues/recommendations to empty lists when
// absent or mistyped; non-string list elements are dropped. A text that does
// not decode yields an empty map.
func Insights(text string, permitted []string) map[string]plan.Insight {
	result := make(map[string]plan.Insight)

	var top map[string]json.RawMessage
	if err := json.Unmarshal([]byte(ObjectSpan(text)), &top); err != nil {
		return result
	}

	allowed := make(map[string]struct{}, len(permitted))
	for _, id := range permitted {
		allowed[id] = struct{}{}
	}

	for id, raw := range top {
		if _, ok := allowed[id]; !ok {
			continue
		}
		var fields map[string]json.RawMessage
		if trimmed := bytes.TrimSpace(raw); len(trimmed) > 0 && trimmed[0] == '[' {
			fields = map[string]json.RawMessage{}
		} else if err := json.Unmarshal(raw, &fields); err != nil || fields == nil {
			continue
		}
		summary, _ := stringValue(fields["summary"])
		result[id] = plan.Insight{
			Summary:         summary,
			Issues:          stringItems(fields["issues"]),
			Recommendations: stringItems(fields["recommendations"]),
		}
	}
	return result
}

func stringValue(raw json.RawMessage) (string, bool) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '"' {
		return "", false
	}
	var s string
	if err := json.Unmarshal(trimmed, &s); err != nil {
		return "", false
	}
	return s, true
}

func stringItems(raw json.RawMessage) []string {
	items := []string{}
	var list []json.RawMessage
	if err := json.Unmarshal(raw, &list); err != nil {
		return items
	}
	for _, r := range list {
		if s, ok := stringValue(r); ok {
			items = append(items, s)
		}
	}
	return items
}
