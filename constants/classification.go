package constants

import "strings"

// Classification is the semantic role assigned to a date found in page text.
type Classification string

const (
	ClassDateOfService Classification = "date_of_service"
	ClassDateOfBirth   Classification = "date_of_birth"
	ClassReferenced    Classification = "referenced"
	ClassFax           Classification = "fax"
	ClassUnknown       Classification = "unknown"
)

// DateSource records how a page's date of service was determined.
type DateSource string

const (
	SourceHeuristic DateSource = "heuristic"
	SourceLLM       DateSource = "llm"
	SourceInherited DateSource = "inherited"
	SourceNone      DateSource = "none"
)

// PagePosition buckets a match by where it sits on the page.
type PagePosition string

const (
	PositionTop    PagePosition = "top"
	PositionMiddle PagePosition = "middle"
	PositionBottom PagePosition = "bottom"
)

// EventType is the clinical event taxonomy used for DateEvent rows.
type EventType string

const (
	EventVisit      EventType = "visit"
	EventLab        EventType = "lab"
	EventImaging    EventType = "imaging"
	EventProcedure  EventType = "procedure"
	EventMedication EventType = "medication"
	EventNote       EventType = "note"
	EventOther      EventType = "other"
)

var allEventTypes = []EventType{
	EventVisit,
	EventLab,
	EventImaging,
	EventProcedure,
	EventMedication,
	EventNote,
	EventOther,
}

// EventTypeStrings returns the taxonomy as plain strings (for schema enums).
func EventTypeStrings() []string {
	result := make([]string, len(allEventTypes))
	for i, t := range allEventTypes {
		result[i] = string(t)
	}
	return result
}

// CanonicalizeEventType maps a free-form label onto the closed taxonomy.
// Unknown labels fall back to EventOther.
func CanonicalizeEventType(input string) (EventType, bool) {
	if input == "" {
		return EventOther, false
	}

	normalized := strings.ToLower(strings.TrimSpace(input))

	// synonyms map
	synonyms := map[string]EventType{
		"office visit": EventVisit,
		"encounter":    EventVisit,
		"consult":      EventVisit,
		"consultation": EventVisit,
		"labs":         EventLab,
		"laboratory":   EventLab,
		"bloodwork":    EventLab,
		"xray":         EventImaging,
		"x-ray":        EventImaging,
		"mri":          EventImaging,
		"ct":           EventImaging,
		"radiology":    EventImaging,
		"surgery":      EventProcedure,
		"operation":    EventProcedure,
		"rx":           EventMedication,
		"prescription": EventMedication,
	}

	if t, ok := synonyms[normalized]; ok {
		return t, true
	}

	for _, t := range allEventTypes {
		if normalized == string(t) {
			return t, true
		}
	}

	return EventOther, false
}
