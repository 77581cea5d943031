package llm

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/recordstack/chronology/constants"
)

var reISODate = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// SanitizeEvents repairs a response that almost validates: events with a
// malformed or missing date are dropped, confidence is clamped into [0,1],
// free-form type labels are canonicalized onto the closed taxonomy, and
// nulls are removed. We only touch what would otherwise fail validation, so
// a well-formed document passes through unchanged.
func SanitizeEvents(doc []byte) ([]byte, []string, error) {
	var m map[string]any
	if err := json.Unmarshal(doc, &m); err != nil {
		return nil, nil, err
	}

	var dropped []string

	// additionalProperties is false at both levels; unknown keys go
	for k := range m {
		if k != "events" && k != "document_type" {
			delete(m, k)
			dropped = append(dropped, k)
		}
	}

	// document_type: must be a non-empty string or absent
	if v, ok := m["document_type"]; ok {
		s, isStr := v.(string)
		if !isStr || strings.TrimSpace(s) == "" {
			delete(m, "document_type")
			dropped = append(dropped, "document_type")
		} else {
			m["document_type"] = strings.TrimSpace(s)
		}
	}

	rawEvents, _ := m["events"].([]any)
	cleaned := make([]any, 0, len(rawEvents))
	for i, raw := range rawEvents {
		ev, ok := raw.(map[string]any)
		if !ok {
			dropped = append(dropped, fmt.Sprintf("events[%d]", i))
			continue
		}

		for k := range ev {
			switch k {
			case "date", "summary", "type", "is_primary", "confidence":
			default:
				delete(ev, k)
			}
		}

		date, _ := ev["date"].(string)
		date = strings.TrimSpace(date)
		if !reISODate.MatchString(date) {
			dropped = append(dropped, fmt.Sprintf("events[%d].date", i))
			continue
		}
		ev["date"] = date

		summary, _ := ev["summary"].(string)
		summary = strings.TrimSpace(summary)
		if summary == "" {
			dropped = append(dropped, fmt.Sprintf("events[%d].summary", i))
			continue
		}
		ev["summary"] = summary

		if v, ok := ev["type"]; ok {
			s, isStr := v.(string)
			if !isStr {
				delete(ev, "type")
			} else {
				canon, _ := constants.CanonicalizeEventType(s)
				ev["type"] = string(canon)
			}
		}

		if v, ok := ev["confidence"]; ok {
			switch c := v.(type) {
			case float64:
				if c < 0 {
					ev["confidence"] = 0.0
				} else if c > 1 {
					ev["confidence"] = 1.0
				}
			default:
				delete(ev, "confidence")
			}
		}

		if v, ok := ev["is_primary"]; ok {
			if _, isBool := v.(bool); !isBool {
				delete(ev, "is_primary")
			}
		}

		cleaned = append(cleaned, ev)
	}
	m["events"] = cleaned

	b, err := json.Marshal(m)
	if err != nil {
		return nil, nil, err
	}
	return b, dropped, nil
}
