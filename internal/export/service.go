package export

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"github.com/recordstack/chronology/internal/dedupe"
	"github.com/recordstack/chronology/internal/repository"
)

// Service is a tiny façade over repositories that produces XLSX bytes for
// a processed document's timeline.
type Service struct {
	docs   repository.DocumentRepository
	pages  repository.PageRepository
	events repository.EventRepository
	logger *slog.Logger
}

func NewService(docs repository.DocumentRepository, pages repository.PageRepository, events repository.EventRepository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{docs: docs, pages: pages, events: events, logger: logger}
}

// ExportTimelineXLSX returns an XLSX workbook for one document: the event
// timeline, the per-page date resolution, and duplicate groups recomputed
// from the stored page hashes.
func (s *Service) ExportTimelineXLSX(ctx context.Context, documentID uuid.UUID) ([]byte, error) {
	start := time.Now()

	doc, err := s.docs.GetByID(ctx, documentID)
	if err != nil {
		return nil, fmt.Errorf("load document: %w", err)
	}
	pages, err := s.pages.ListByDocument(ctx, documentID)
	if err != nil {
		return nil, fmt.Errorf("load pages: %w", err)
	}
	events, err := s.events.ListByDocument(ctx, documentID)
	if err != nil {
		return nil, fmt.Errorf("load events: %w", err)
	}

	f := excelize.NewFile()

	const eventsSheet = "Timeline"
	if _, err := f.NewSheet(eventsSheet); err != nil {
		return nil, err
	}
	writeHeader(f, eventsSheet, []string{"Event Date", "Page", "Summary", "Type", "Primary", "Source", "Confidence"})
	row := 2
	for _, e := range events {
		write := cellWriter(f, eventsSheet, row)
		write(1, e.EventDate.Format("2006-01-02"))
		write(2, e.PageNumber)
		write(3, truncate(e.Summary, 140))
		write(4, string(e.EventType))
		write(5, e.IsPrimary)
		write(6, string(e.Source))
		write(7, e.Confidence)
		row++
	}
	_ = f.SetColWidth(eventsSheet, "A", "A", 14)
	_ = f.SetColWidth(eventsSheet, "C", "C", 48)

	const pagesSheet = "Pages"
	if _, err := f.NewSheet(pagesSheet); err != nil {
		return nil, err
	}
	writeHeader(f, pagesSheet, []string{"Page", "Date of Service", "Source", "Inherited From", "Document Type"})
	row = 2
	contents := make([]dedupe.PageContent, len(pages))
	for i, p := range pages {
		write := cellWriter(f, pagesSheet, row)
		write(1, p.PageNumber)
		if p.DateOfService != nil {
			write(2, p.DateOfService.Format("2006-01-02"))
		} else {
			write(2, "")
		}
		write(3, string(p.DateSource))
		if p.InheritedFrom != nil {
			write(4, *p.InheritedFrom)
		} else {
			write(4, "")
		}
		if p.DocumentType != nil {
			write(5, *p.DocumentType)
		} else {
			write(5, "")
		}
		row++
		contents[i] = dedupe.PageContent{
			ID:          p.ID,
			PageNumber:  p.PageNumber,
			TextHash:    p.TextHash,
			Fingerprint: p.SimHash,
		}
	}

	dupes := dedupe.FindDuplicates(contents)
	if err := writeDuplicatesSheet(f, &dupes); err != nil {
		return nil, err
	}

	_ = f.DeleteSheet("Sheet1")
	if idx, _ := f.GetSheetIndex(eventsSheet); idx >= 0 {
		f.SetActiveSheet(idx)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	s.logger.Info("export.xlsx.ok",
		"document_id", documentID.String(),
		"filename", doc.Filename,
		"events", len(events),
		"pages", len(pages),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}

func truncate(s string, n int) string {
	if n <= 0 || len(s) <= n {
		return s
	}
	if n <= 1 {
		return s[:n]
	}
	return s[:n-1] + "…"
}
