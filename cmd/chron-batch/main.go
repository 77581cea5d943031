package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/recordstack/chronology/internal/chronology"
	"github.com/recordstack/chronology/internal/common"
	"github.com/recordstack/chronology/internal/dedupe"
	"github.com/recordstack/chronology/internal/export"
	"github.com/recordstack/chronology/internal/llm/openai"
	"github.com/recordstack/chronology/internal/ocr"
	processor "github.com/recordstack/chronology/internal/pipeline"
	"github.com/recordstack/chronology/internal/repository"
)

func printError(format string, args ...interface{}) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		fmt.Printf(format, args...)
	}
}

func main() {
	var (
		file    = flag.String("file", "", "PDF or text file to process (required)")
		outXLSX = flag.String("xlsx", "", "output XLSX path (defaults next to input)")
		csvDir  = flag.String("csv", "", "directory for CSV output (optional)")
		dbPath  = flag.String("db", "", "sqlite file to record the run (optional)")
		useLLM  = flag.Bool("llm", false, "run LLM event extraction (needs OPENAI_API_KEY)")
	)
	flag.Parse()

	if *file == "" {
		printError("Error: --file is required\n")
		os.Exit(1)
	}
	if *outXLSX == "" {
		base := strings.TrimSuffix(*file, filepath.Ext(*file))
		*outXLSX = base + ".chronology.xlsx"
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	cfg := common.LoadConfig()

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Minute)
	defer cancel()

	extractor := ocr.NewExtractor(ocr.Config{
		Pdftotext:   cfg.OCR.Pdftotext,
		Pdftoppm:    cfg.OCR.Pdftoppm,
		Tesseract:   cfg.OCR.Tesseract,
		TessdataDir: cfg.OCR.TessdataDir,
		DPI:         cfg.OCR.DPI,
		MaxPages:    cfg.OCR.MaxPages,
	}, logger)

	start := time.Now()
	ocrRes, err := extractor.Extract(ctx, *file)
	if err != nil {
		logger.Error("ocr failed", "file", *file, "error", err)
		os.Exit(1)
	}
	logger.Info("ocr ok", "file", *file, "method", ocrRes.Method, "pages", len(ocrRes.Pages))

	pages := processor.AnalyzePages(ocrRes.Pages)

	if *useLLM {
		if cfg.LLM.APIKey == "" {
			printError("Error: --llm requires OPENAI_API_KEY\n")
			os.Exit(1)
		}
		client := openai.NewClient(openai.Config{
			APIKey:          cfg.LLM.APIKey,
			BaseURL:         cfg.LLM.BaseURL,
			Model:           cfg.LLM.Model,
			Temperature:     cfg.LLM.Temperature,
			Timeout:         cfg.LLM.Timeout,
			LenientOptional: cfg.LLM.LenientOptional,
		}, logger)
		stage := processor.NewEventsStage(client, cfg.Pipeline.MinEventConfidence, logger)
		_, report := stage.Run(ctx, pages)
		logger.Info("llm events ok",
			"pages_requested", report.PagesRequested,
			"pages_processed", report.PagesProcessed,
			"pages_malformed", report.PagesMalformed,
			"pages_failed", report.PagesFailed,
		)
	}

	result := chronology.BuildChronology(pages)

	contents := make([]dedupe.PageContent, len(result.Pages))
	for i, p := range result.Pages {
		contents[i] = dedupe.PageContent{
			ID:          uuid.New(),
			PageNumber:  p.PageNumber,
			TextHash:    dedupe.TextHash(p.Text),
			Fingerprint: dedupe.Fingerprint(p.Text),
		}
	}
	dupes := dedupe.FindDuplicates(contents)

	data, err := export.BuildResultXLSX(&result, &dupes)
	if err != nil {
		logger.Error("xlsx build failed", "error", err)
		os.Exit(1)
	}
	if err := os.WriteFile(*outXLSX, data, 0o644); err != nil {
		logger.Error("xlsx write failed", "path", *outXLSX, "error", err)
		os.Exit(1)
	}

	if *csvDir != "" {
		if err := writeCSVs(*csvDir, &result, &dupes); err != nil {
			logger.Error("csv write failed", "dir", *csvDir, "error", err)
			os.Exit(1)
		}
	}

	if *dbPath != "" {
		store, err := repository.OpenLocal(*dbPath, logger)
		if err != nil {
			logger.Error("local store open failed", "path", *dbPath, "error", err)
			os.Exit(1)
		}
		runID, err := store.SaveRun(ctx, filepath.Base(*file), &result, &dupes)
		if cerr := store.Close(); cerr != nil {
			logger.Warn("local store close failed", "error", cerr)
		}
		if err != nil {
			logger.Error("local store save failed", "error", err)
			os.Exit(1)
		}
		logger.Info("run recorded", "run_id", runID, "db", *dbPath)
	}

	logger.Info("chronology built",
		"file", *file,
		"xlsx", *outXLSX,
		"pages", result.Stats.TotalPages,
		"pages_with_dos", result.Stats.PagesWithDOS,
		"pages_inherited", result.Stats.PagesInherited,
		"clusters", len(result.Clusters),
		"undated_pages", len(result.UndatedPages),
		"exact_dupe_groups", len(dupes.ExactGroups),
		"near_dupe_groups", len(dupes.NearGroups),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
}

func writeCSVs(dir string, result *chronology.ChronologyResult, dupes *dedupe.DuplicateResult) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	writers := []struct {
		name  string
		write func(f *os.File) error
	}{
		{"timeline.csv", func(f *os.File) error { return export.WriteTimelineCSV(f, result) }},
		{"pages.csv", func(f *os.File) error { return export.WritePagesCSV(f, result) }},
		{"duplicates.csv", func(f *os.File) error { return export.WriteDuplicatesCSV(f, dupes) }},
	}
	for _, w := range writers {
		f, err := os.Create(filepath.Join(dir, w.name))
		if err != nil {
			return err
		}
		if err := w.write(f); err != nil {
			_ = f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return err
		}
	}
	return nil
}
