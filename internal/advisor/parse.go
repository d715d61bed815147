package advisor

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// ParseRecommendedSlots interprets the slot_options column. The hosted
// prompt asks for a JSON array, but the model may answer with a single
// object, bullet text, or anything else; unparseable input degrades to a
// single slot carrying the raw text so the operator still sees it.
func ParseRecommendedSlots(raw string) []RecommendedSlot {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}

	var items []json.RawMessage
	if err := json.Unmarshal([]byte(raw), &items); err == nil {
		slots := make([]RecommendedSlot, 0, len(items))
		for _, item := range items {
			var s string
			if json.Unmarshal(item, &s) == nil {
				slots = append(slots, RecommendedSlot{Label: s})
				continue
			}
			var obj map[string]any
			if json.Unmarshal(item, &obj) == nil {
				slots = append(slots, slotFromMap(obj, compactJSON(item)))
			}
		}
		if len(slots) > 0 || len(items) == 0 {
			return slots
		}
		return []RecommendedSlot{{Label: raw}}
	}

	var obj map[string]any
	if err := json.Unmarshal([]byte(raw), &obj); err == nil {
		return []RecommendedSlot{slotFromMap(obj, raw)}
	}

	return []RecommendedSlot{{Label: raw}}
}

// ParseChosenSlot interprets the chosen_slot column against the already
// parsed options, so an exact label or internal code reuses the option's
// metadata instead of producing a bare duplicate.
func ParseChosenSlot(raw string, options []RecommendedSlot) *RecommendedSlot {
	cleaned := normalizeText(raw)
	if cleaned == "" {
		return nil
	}

	data := []byte(cleaned)

	var obj map[string]any
	if err := json.Unmarshal(data, &obj); err == nil {
		slot := slotFromMap(obj, cleaned)
		return &slot
	}

	name := cleaned
	if json.Valid(data) {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			// Arrays and bare numbers identify nothing.
			return nil
		}
		name = s
	}

	for i := range options {
		if name == options[i].Label {
			return &options[i]
		}
		if options[i].InternalCode != "" && name == options[i].InternalCode {
			return &options[i]
		}
	}
	return &RecommendedSlot{Label: name}
}

// ParseWarnings interprets the warnings column, accepting a JSON array of
// strings or free text split into lines.
func ParseWarnings(raw string) []string {
	cleaned := simplifyWarning(raw)
	if cleaned == "" {
		return nil
	}

	data := []byte(cleaned)

	var items []any
	if err := json.Unmarshal(data, &items); err != nil {
		if json.Valid(data) {
			return []string{cleaned}
		}
		var out []string
		for _, line := range strings.Split(cleaned, "\n") {
			if line = strings.TrimSpace(line); line != "" {
				out = append(out, line)
			}
		}
		return out
	}

	var out []string
	for _, item := range items {
		text, ok := item.(string)
		if !ok {
			b, err := json.Marshal(item)
			if err != nil {
				continue
			}
			text = string(b)
		}
		if w := simplifyWarning(text); w != "" {
			out = append(out, w)
		}
	}
	return out
}

// slotFromMap builds a slot from a decoded JSON object, accepting the
// field aliases different prompt versions have produced.
func slotFromMap(item map[string]any, fallbackLabel string) RecommendedSlot {
	label := stringField(item, "label")
	if label == "" {
		label = stringField(item, "name")
	}
	if label == "" {
		label = fallbackLabel
	}
	code := stringField(item, "internal_code")
	if code == "" {
		code = stringField(item, "code")
	}
	return RecommendedSlot{
		Label:        label,
		InternalCode: code,
		Confidence:   coerceFloat(item["confidence"]),
	}
}

func stringField(item map[string]any, key string) string {
	if v, ok := item[key].(string); ok {
		return v
	}
	return ""
}

// coerceFloat accepts the number-ish shapes models emit for confidence.
func coerceFloat(value any) *float64 {
	switch v := value.(type) {
	case float64:
		return &v
	case string:
		if f, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
			return &f
		}
	}
	return nil
}

func compactJSON(raw json.RawMessage) string {
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return strings.TrimSpace(string(raw))
	}
	return buf.String()
}
