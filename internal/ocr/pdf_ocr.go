package ocr

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// minTextPerPage is the average character count below which the embedded
// text layer is considered a scan artifact and the rasterizing fallback runs.
const minTextPerPage = 40

func (e *Extractor) extractPDF(ctx context.Context, path string) (ExtractionResult, error) {
	pages, warns, err := e.pdfToText(ctx, path)
	if err == nil && textLayerUsable(pages) {
		return ExtractionResult{
			Pages:    pages,
			Method:   "pdf-text",
			Language: e.cfg.TesseractLang,
			Warnings: warns,
		}, nil
	}
	if err != nil {
		e.logger.Warn("pdftotext failed, falling back to ocr", "path", path, "error", err)
	} else {
		e.logger.Debug("text layer too sparse, falling back to ocr", "path", path)
	}

	ocrPages, ocrWarns, err := e.pdfToOCR(ctx, path)
	if err != nil {
		return ExtractionResult{Warnings: append(warns, ocrWarns...)}, err
	}
	return ExtractionResult{
		Pages:    ocrPages,
		Method:   "pdf-ocr",
		Language: e.cfg.TesseractLang,
		Warnings: append(warns, ocrWarns...),
	}, nil
}

func (e *Extractor) pdfToText(ctx context.Context, path string) ([]string, []string, error) {
	// pdftotext -layout -enc UTF-8 -eol unix <path> -
	out, errb, err := e.runner.Run(ctx, e.cfg.Pdftotext, e.logger, "-layout", "-enc", "UTF-8", "-eol", "unix", path, "-")
	if err != nil {
		return nil, []string{string(errb)}, err
	}
	pages := SplitPages(string(out))
	if e.cfg.MaxPages > 0 && len(pages) > e.cfg.MaxPages {
		pages = pages[:e.cfg.MaxPages]
	}
	return pages, nil, nil
}

func (e *Extractor) pdfToOCR(ctx context.Context, path string) ([]string, []string, error) {
	tmpDir, err := os.MkdirTemp("", "chron-pp-*")
	if err != nil {
		return nil, nil, err
	}
	defer func() {
		if err := os.RemoveAll(tmpDir); err != nil {
			e.logger.Warn("failed to remove temp dir", "path", tmpDir, "error", err)
		}
	}()

	prefix := filepath.Join(tmpDir, "page")
	// pdftoppm -r 300 -png <in.pdf> <tmp/page>
	_, errb, err := e.runner.Run(ctx, e.cfg.Pdftoppm, e.logger, "-r", fmt.Sprintf("%d", e.cfg.DPI), "-png", path, prefix)
	if err != nil {
		return nil, []string{string(errb)}, err
	}

	// collect generated pngs (prefix-1.png, prefix-2.png, ...)
	matches, _ := filepath.Glob(prefix + "-*.png")
	sort.Strings(matches)
	if e.cfg.MaxPages > 0 && len(matches) > e.cfg.MaxPages {
		matches = matches[:e.cfg.MaxPages]
	}
	if len(matches) == 0 {
		return nil, []string{"pdftoppm produced no images"}, fmt.Errorf("no pages rendered")
	}

	pages := make([]string, 0, len(matches))
	var warns []string
	for _, img := range matches {
		txt, w, err := e.tesseractOCR(ctx, img)
		if err != nil {
			// keep page alignment: a failed page becomes an empty page
			warns = append(warns, err.Error())
			pages = append(pages, "")
			continue
		}
		pages = append(pages, txt)
		warns = append(warns, w...)
	}
	return pages, warns, nil
}

func (e *Extractor) tesseractOCR(ctx context.Context, path string) (string, []string, error) {
	args := []string{path, "stdout", "-l", e.cfg.TesseractLang}
	if e.cfg.TessdataDir != "" {
		args = append(args, "--tessdata-dir", e.cfg.TessdataDir)
	}

	// tesseract <file> stdout -l <lang>
	out, errb, err := e.runner.Run(ctx, e.cfg.Tesseract, e.logger, args...)
	if err != nil {
		return "", []string{string(errb)}, fmt.Errorf("tesseract: %w", err)
	}
	return string(out), nil, nil
}

func textLayerUsable(pages []string) bool {
	if len(pages) == 0 {
		return false
	}
	total := 0
	for _, p := range pages {
		total += len(strings.TrimSpace(p))
	}
	return total/len(pages) >= minTextPerPage
}
