package ingest

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/recordstack/chronology/constants"
	"github.com/recordstack/chronology/internal/repository"
)

// IngestionResult describes one admitted (or deduplicated) file.
type IngestionResult struct {
	DocumentID   uuid.UUID
	SourcePath   string
	Format       string
	HashHex      string
	Deduplicated bool
	Err          string
}

// DirStats aggregates a directory walk.
type DirStats struct {
	Scanned   int
	Ingested  int
	Duplicate int
	Skipped   int
	Failed    int
}

// FSIngestor reads from the local filesystem.
type FSIngestor struct {
	Docs   repository.DocumentRepository
	Logger *slog.Logger
}

func NewFSIngestor(docs repository.DocumentRepository, logger *slog.Logger) *FSIngestor {
	if logger == nil {
		logger = slog.Default()
	}
	return &FSIngestor{Docs: docs, Logger: logger}
}

// IngestPath hashes one file and registers it as a queued document.
// Re-ingesting identical content returns the existing document.
func (i *FSIngestor) IngestPath(ctx context.Context, path string) (IngestionResult, error) {
	var out IngestionResult

	abs, err := filepath.Abs(path)
	if err != nil {
		return out, err
	}

	ext := constants.NormalizeExt(filepath.Ext(abs))
	format := constants.MapExtToFormat(ext)
	if format == "" {
		return out, fmt.Errorf("unsupported or missing extension: %q", ext)
	}

	f, err := os.Open(abs)
	if err != nil {
		return out, err
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			i.Logger.Warn("close file failed", "path", abs, "error", cerr)
		}
	}()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return out, err
	}
	sum := h.Sum(nil)

	doc, dedup, err := i.Docs.UpsertByHash(ctx, abs, filepath.Base(abs), format, sum)
	if err != nil {
		return out, err
	}

	out = IngestionResult{
		DocumentID:   doc.ID,
		SourcePath:   doc.SourcePath,
		Format:       doc.Format,
		HashHex:      hex.EncodeToString(sum),
		Deduplicated: dedup,
	}
	return out, nil
}

// IngestDirectory walks root, skips hidden entries if requested, and calls
// IngestPath for each supported file. Returns per-file results + aggregate stats.
func (i *FSIngestor) IngestDirectory(ctx context.Context, root string, skipHidden bool) ([]IngestionResult, DirStats, error) {
	if strings.TrimSpace(root) == "" {
		return nil, DirStats{}, errors.New("root path is required")
	}

	var results []IngestionResult
	var stats DirStats

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			stats.Failed++
			results = append(results, IngestionResult{SourcePath: path, Err: walkErr.Error()})
			return nil
		}
		if d.IsDir() {
			if skipHidden && isHidden(path) && path != root {
				return filepath.SkipDir
			}
			return nil
		}
		stats.Scanned++
		if skipHidden && isHidden(path) {
			stats.Skipped++
			return nil
		}
		ext := constants.NormalizeExt(filepath.Ext(path))
		if constants.MapExtToFormat(ext) == "" {
			stats.Skipped++
			return nil
		}

		res, ierr := i.IngestPath(ctx, path)
		if ierr != nil {
			stats.Failed++
			results = append(results, IngestionResult{SourcePath: path, Err: ierr.Error()})
			return nil
		}
		if res.Deduplicated {
			stats.Duplicate++
		} else {
			stats.Ingested++
		}
		results = append(results, res)
		return nil
	})
	if err != nil {
		return results, stats, err
	}

	i.Logger.Info("ingest.dir.ok",
		"root", root,
		"scanned", stats.Scanned,
		"ingested", stats.Ingested,
		"duplicate", stats.Duplicate,
		"skipped", stats.Skipped,
		"failed", stats.Failed,
	)
	return results, stats, nil
}

func isHidden(path string) bool {
	return strings.HasPrefix(filepath.Base(path), ".")
}
