package processor

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/recordstack/chronology/constants"
	"github.com/recordstack/chronology/internal/entity"
	"github.com/recordstack/chronology/internal/ocr"
	"github.com/recordstack/chronology/internal/repository"
)

type OCRStage struct {
	Docs      repository.DocumentRepository
	Extractor *ocr.Extractor
	Logger    *slog.Logger
}

func NewOCRStage(docs repository.DocumentRepository, extractor *ocr.Extractor, logger *slog.Logger) *OCRStage {
	if logger == nil {
		logger = slog.Default()
	}
	return &OCRStage{Docs: docs, Extractor: extractor, Logger: logger}
}

// Run extracts per-page text for a document and records the page count,
// advancing the document to OCR_OK.
func (s *OCRStage) Run(ctx context.Context, doc *entity.Document) ([]string, error) {
	res, err := s.Extractor.Extract(ctx, doc.SourcePath)
	if err != nil {
		return nil, fmt.Errorf("ocr extract: %w", err)
	}
	if len(res.Pages) == 0 {
		return nil, fmt.Errorf("ocr produced no pages for %s", doc.Filename)
	}
	s.Logger.Info("pipeline.ocr.ok",
		"document_id", doc.ID,
		"method", res.Method,
		"pages", len(res.Pages),
		"warnings", len(res.Warnings),
	)

	if err := s.Docs.SetPageCount(ctx, doc.ID, len(res.Pages)); err != nil {
		return nil, err
	}
	if err := s.Docs.UpdateStatus(ctx, doc.ID, constants.StatusOCROK); err != nil {
		return nil, err
	}
	return res.Pages, nil
}
