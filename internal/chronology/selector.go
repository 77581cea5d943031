package chronology

import (
	"time"

	"github.com/recordstack/chronology/constants"
)

// DateOfService is the outcome of selecting one authoritative date for a page.
// Confident is false when the pick was positional or a tie-break; that is the
// signal used upstream to route the page to the language model for
// disambiguation.
type DateOfService struct {
	Date      time.Time
	Source    ExtractedDate
	Confident bool
}

// selectorMinConfidence is the classifier confidence at which a
// date-of-service label is taken at face value.
const selectorMinConfidence = 0.8

// SelectDateOfService picks one date of service from a page's classified
// dates, or nil when the page has no service-relevant date. Never errors;
// nil is an expected outcome.
func SelectDateOfService(dates []ExtractedDate) *DateOfService {
	// 1) explicit date-of-service label wins (first by text order)
	for _, d := range dates {
		if d.Class == constants.ClassDateOfService && d.Confidence >= selectorMinConfidence {
			return &DateOfService{Date: d.Date, Source: d, Confident: true}
		}
	}

	// 2) DOB and fax timestamps are never dates of service
	var candidates []ExtractedDate
	for _, d := range dates {
		if d.Class == constants.ClassDateOfBirth || d.Class == constants.ClassFax {
			continue
		}
		candidates = append(candidates, d)
	}
	if len(candidates) == 0 {
		return nil
	}

	// 3) a lone date at the top of the page is usually the header date
	var top []ExtractedDate
	for _, d := range candidates {
		if d.Position == constants.PositionTop {
			top = append(top, d)
		}
	}
	if len(top) == 1 {
		return &DateOfService{Date: top[0].Date, Source: top[0], Confident: false}
	}

	if len(candidates) == 1 {
		return &DateOfService{Date: candidates[0].Date, Source: candidates[0], Confident: false}
	}

	// multiple ambiguous candidates: take the first by text order, not
	// confident — upstream routes these pages to the LLM
	return &DateOfService{Date: candidates[0].Date, Source: candidates[0], Confident: false}
}
