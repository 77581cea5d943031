package processor

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/recordstack/chronology/constants"
	"github.com/recordstack/chronology/internal/chronology"
	"github.com/recordstack/chronology/internal/llm"
)

// EventsStage runs LLM event extraction over every page. Failures stay
// per-page: a malformed response yields zero events for that page, a
// transport error skips the page, and the report carries the counts so
// callers can surface partial coverage.
type EventsStage struct {
	Extractor     llm.EventExtractor
	MinConfidence float32
	Logger        *slog.Logger
}

func NewEventsStage(extractor llm.EventExtractor, minConfidence float32, logger *slog.Logger) *EventsStage {
	if logger == nil {
		logger = slog.Default()
	}
	return &EventsStage{Extractor: extractor, MinConfidence: minConfidence, Logger: logger}
}

// EventsReport summarizes one stage run. Processed < Requested means some
// pages have no LLM coverage.
type EventsReport struct {
	PagesRequested int
	PagesProcessed int
	PagesMalformed int
	PagesFailed    int
}

// Run extracts events for each page and folds LLM dates back into pages
// that have no heuristic date of service. The pages slice is mutated in
// place; the returned slice of per-page events is aligned with it.
func (s *EventsStage) Run(ctx context.Context, pages []chronology.PageResult) ([]llm.PageEvents, EventsReport) {
	report := EventsReport{PagesRequested: len(pages)}
	out := make([]llm.PageEvents, len(pages))

	for i := range pages {
		pr := &pages[i]
		if ctx.Err() != nil {
			report.PagesFailed += len(pages) - i
			break
		}

		req := llm.ExtractRequest{
			PageText:       pr.Text,
			PageNumber:     pr.PageNumber,
			CandidateDates: candidateDates(*pr),
		}
		events, _, err := s.Extractor.ExtractEvents(ctx, req)
		switch {
		case errors.Is(err, llm.ErrMalformedOutput):
			s.Logger.Warn("pipeline.events.malformed", "page", pr.PageNumber, "error", err)
			report.PagesMalformed++
			report.PagesProcessed++
			continue
		case err != nil:
			s.Logger.Warn("pipeline.events.failed", "page", pr.PageNumber, "error", err)
			report.PagesFailed++
			continue
		}
		report.PagesProcessed++

		events.Events = s.filterEvents(pr.PageNumber, events.Events)
		out[i] = events

		if pr.DocumentType == "" && events.DocumentType != "" {
			pr.DocumentType = events.DocumentType
		}
		if pr.DateOfService == nil {
			if d, ok := primaryEventDate(events.Events); ok {
				pr.DateOfService = &d
				pr.DateSource = constants.SourceLLM
			}
		}
	}
	return out, report
}

func (s *EventsStage) filterEvents(page int, events []llm.EventFields) []llm.EventFields {
	kept := events[:0]
	for _, e := range events {
		if e.Confidence > 0 && e.Confidence < s.MinConfidence {
			s.Logger.Debug("pipeline.events.dropped", "page", page, "date", e.Date, "confidence", e.Confidence)
			continue
		}
		kept = append(kept, e)
	}
	return kept
}

// primaryEventDate picks the date of the page's primary event, falling back
// to the first event when none is flagged primary.
func primaryEventDate(events []llm.EventFields) (time.Time, bool) {
	pick := ""
	for _, e := range events {
		if e.IsPrimary {
			pick = e.Date
			break
		}
	}
	if pick == "" && len(events) > 0 {
		pick = events[0].Date
	}
	if pick == "" {
		return time.Time{}, false
	}
	d, err := time.Parse("2006-01-02", pick)
	if err != nil {
		return time.Time{}, false
	}
	return d.UTC(), true
}
