package llm

import (
	"context"
	"errors"
)

// MaxPromptChars bounds how much page text is sent per request; OCR noise
// beyond the first few thousand characters rarely helps.
const MaxPromptChars = 3000

// ErrMalformedOutput marks responses that arrived but failed schema
// validation or JSON decoding. Callers treat these as "zero events for this
// page" rather than failing the whole batch.
var ErrMalformedOutput = errors.New("malformed llm output")

// EventFields is one clinical event in the normalized shape we want from
// the LLM.
type EventFields struct {
	Date       string  `json:"date"`    // YYYY-MM-DD
	Summary    string  `json:"summary"` // short free text
	Type       string  `json:"type"`    // visit|lab|imaging|procedure|medication|note|other
	IsPrimary  bool    `json:"is_primary,omitempty"`
	Confidence float32 `json:"confidence,omitempty"` // 0..1
}

// PageEvents is the full per-page response.
type PageEvents struct {
	Events       []EventFields `json:"events"`
	DocumentType string        `json:"document_type,omitempty"`
}

type ExtractRequest struct {
	PageText   string
	PageNumber int

	// CandidateDates are ISO dates the heuristic matcher already found on
	// the page, passed along as hints.
	CandidateDates []string
}

// EventExtractor is the interface our pipeline depends on.
type EventExtractor interface {
	ExtractEvents(ctx context.Context, req ExtractRequest) (PageEvents, []byte /*rawJSON*/, error)
}
