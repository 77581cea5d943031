package llm

import (
	"fmt"
	"strings"
)

// BuildSystemPrompt composes the system message: what counts as a clinical
// event, what to ignore, and strict-but-practical formatting rules.
func BuildSystemPrompt() string {
	parts := []string{
		"You are a medical-record timeline extractor. Return ONLY JSON that matches the provided JSON Schema.",
		"Given the OCR text of one page of a scanned medical record, list the clinical events the page documents.",
		"Use ISO-8601 dates (YYYY-MM-DD).",
		"An event is something that happened to the patient on a date: a visit, lab draw, imaging study, procedure, medication change, or clinical note.",
		"IGNORE dates that are not clinical events: date of birth, fax or transmission timestamps, print dates, page footers, and pagination.",
		"Mark exactly one event per page as is_primary when the page clearly pertains to a single date of service.",
		"Summaries are a short phrase (under 15 words), no patient names.",
		"If the page names its own document type (e.g. 'Emergency Department Note', 'Operative Report'), include it as document_type.",
		"If the page documents no clinical event, return an empty events array.",
		"Never output null. If a field is not present, omit it.",
	}
	return strings.Join(parts, " ")
}

// BuildUserPrompt packages page text (bounded) plus the dates the heuristic
// matcher already spotted, as hints.
func BuildUserPrompt(req ExtractRequest) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Page number: %d\n", req.PageNumber)
	if len(req.CandidateDates) > 0 {
		b.WriteString("Dates already detected on this page: ")
		b.WriteString(strings.Join(req.CandidateDates, ", "))
		b.WriteString("\n")
	}
	b.WriteString("\nOCR text (first ~3k chars):\n")
	text := req.PageText
	if len(text) > MaxPromptChars {
		text = text[:MaxPromptChars]
	}
	b.WriteString(text)
	return b.String()
}
