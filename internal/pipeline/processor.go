package processor

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/recordstack/chronology/constants"
	"github.com/recordstack/chronology/internal/chronology"
	"github.com/recordstack/chronology/internal/dedupe"
	"github.com/recordstack/chronology/internal/entity"
	"github.com/recordstack/chronology/internal/llm"
	"github.com/recordstack/chronology/internal/repository"
)

// Processor coordinates OCR, heuristic date analysis, LLM event extraction,
// chronology assembly, duplicate detection, and persistence for one document.
type Processor struct {
	Logger *slog.Logger
	Docs   repository.DocumentRepository
	Pages  repository.PageRepository
	Events repository.EventRepository
	OCR    *OCRStage
	LLM    *EventsStage // nil disables the LLM stage
}

func NewProcessor(logger *slog.Logger, docs repository.DocumentRepository, pages repository.PageRepository,
	events repository.EventRepository, ocrStage *OCRStage, llmStage *EventsStage) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{Logger: logger, Docs: docs, Pages: pages, Events: events, OCR: ocrStage, LLM: llmStage}
}

// ProcessDocument runs the full pipeline for a document id. Any stage
// failure marks the document FAILED with the cause recorded.
func (p *Processor) ProcessDocument(ctx context.Context, documentID uuid.UUID) error {
	start := time.Now()

	doc, err := p.Docs.GetByID(ctx, documentID)
	if err != nil {
		return err
	}
	if doc.Status != constants.StatusRunning {
		if err := p.Docs.UpdateStatus(ctx, doc.ID, constants.StatusRunning); err != nil {
			return err
		}
	}

	pageTexts, err := p.OCR.Run(ctx, doc)
	if err != nil {
		p.Logger.Error("pipeline.ocr.failed", "document_id", doc.ID, "error", err)
		_ = p.Docs.MarkFailed(ctx, doc.ID, err.Error())
		return err
	}

	pages := AnalyzePages(pageTexts)

	var perPage []llm.PageEvents
	if p.LLM != nil {
		var report EventsReport
		perPage, report = p.LLM.Run(ctx, pages)
		p.Logger.Info("pipeline.events.ok",
			"document_id", doc.ID,
			"pages_requested", report.PagesRequested,
			"pages_processed", report.PagesProcessed,
			"pages_malformed", report.PagesMalformed,
			"pages_failed", report.PagesFailed,
		)
		if err := p.Docs.UpdateStatus(ctx, doc.ID, constants.StatusLLMOK); err != nil {
			_ = p.Docs.MarkFailed(ctx, doc.ID, err.Error())
			return err
		}
	}

	result := chronology.BuildChronology(pages)

	entPages, contents := buildPages(doc.ID, result.Pages)
	dupes := dedupe.FindDuplicates(contents)
	events := buildEvents(doc.ID, entPages, result.Pages, perPage)

	if err := p.Pages.ReplaceForDocument(ctx, doc.ID, entPages); err != nil {
		_ = p.Docs.MarkFailed(ctx, doc.ID, err.Error())
		return err
	}
	if err := p.Events.ReplaceForDocument(ctx, doc.ID, events); err != nil {
		_ = p.Docs.MarkFailed(ctx, doc.ID, err.Error())
		return err
	}
	if err := p.Docs.UpdateStatus(ctx, doc.ID, constants.StatusComplete); err != nil {
		return err
	}

	p.Logger.Info("pipeline.complete",
		"document_id", doc.ID,
		"pages", result.Stats.TotalPages,
		"pages_with_dos", result.Stats.PagesWithDOS,
		"pages_inherited", result.Stats.PagesInherited,
		"clusters", len(result.Clusters),
		"exact_dupe_groups", len(dupes.ExactGroups),
		"near_dupe_groups", len(dupes.NearGroups),
		"events", len(events),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return nil
}

// buildPages converts pipeline page results into storable rows and the
// hash inputs for duplicate detection.
func buildPages(documentID uuid.UUID, pages []chronology.PageResult) ([]entity.Page, []dedupe.PageContent) {
	entPages := make([]entity.Page, len(pages))
	contents := make([]dedupe.PageContent, len(pages))
	for i, pr := range pages {
		id := uuid.New()
		page := entity.Page{
			ID:         id,
			DocumentID: documentID,
			PageNumber: pr.PageNumber,
			Text:       pr.Text,
			HasDate:    len(pr.ExtractedDates) > 0,
			DateSource: pr.DateSource,
			TextHash:   dedupe.TextHash(pr.Text),
			SimHash:    dedupe.Fingerprint(pr.Text),
		}
		if pr.DateOfService != nil {
			d := *pr.DateOfService
			page.DateOfService = &d
		}
		if pr.DateSource == constants.SourceInherited {
			from := pr.InheritedFrom
			page.InheritedFrom = &from
		}
		if pr.DocumentType != "" {
			dt := pr.DocumentType
			page.DocumentType = &dt
		}
		entPages[i] = page
		contents[i] = dedupe.PageContent{
			ID:          id,
			PageNumber:  pr.PageNumber,
			TextHash:    page.TextHash,
			Fingerprint: page.SimHash,
		}
	}
	return entPages, contents
}

// buildEvents turns per-page LLM events into rows, synthesizing one
// heuristic event for any page that determined its own date of service but
// got no LLM events, so the timeline never loses a dated page.
func buildEvents(documentID uuid.UUID, entPages []entity.Page, pages []chronology.PageResult, perPage []llm.PageEvents) []entity.DateEvent {
	var out []entity.DateEvent
	for i, pr := range pages {
		pageID := entPages[i].ID
		var pageEvents []llm.EventFields
		if i < len(perPage) {
			pageEvents = perPage[i].Events
		}

		for _, e := range pageEvents {
			d, err := time.Parse("2006-01-02", e.Date)
			if err != nil {
				continue
			}
			eventType, _ := constants.CanonicalizeEventType(e.Type)
			out = append(out, entity.DateEvent{
				ID:         uuid.New(),
				DocumentID: documentID,
				PageID:     pageID,
				PageNumber: pr.PageNumber,
				EventDate:  d.UTC(),
				Summary:    e.Summary,
				EventType:  eventType,
				IsPrimary:  e.IsPrimary,
				Confidence: e.Confidence,
				Source:     constants.SourceLLM,
			})
		}

		if len(pageEvents) == 0 && pr.HasOwnDate() {
			out = append(out, entity.DateEvent{
				ID:         uuid.New(),
				DocumentID: documentID,
				PageID:     pageID,
				PageNumber: pr.PageNumber,
				EventDate:  *pr.DateOfService,
				Summary:    summaryFromText(pr.Text),
				EventType:  constants.EventOther,
				IsPrimary:  true,
				Source:     constants.SourceHeuristic,
			})
		}
	}
	return out
}

// summaryFromText takes the first non-empty line as a stand-in summary.
func summaryFromText(text string) string {
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			if len(line) > 120 {
				return line[:120]
			}
			return line
		}
	}
	return "dated page"
}
