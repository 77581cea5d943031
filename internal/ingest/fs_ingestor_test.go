package ingest

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/recordstack/chronology/constants"
	"github.com/recordstack/chronology/internal/entity"
)

// memDocs is an in-memory DocumentRepository covering only what ingestion
// touches.
type memDocs struct {
	byHash map[string]*entity.Document
}

func newMemDocs() *memDocs { return &memDocs{byHash: map[string]*entity.Document{}} }

func (m *memDocs) GetByID(context.Context, uuid.UUID) (*entity.Document, error) {
	panic("not used")
}
func (m *memDocs) GetByHash(_ context.Context, hash []byte) (*entity.Document, error) {
	if d, ok := m.byHash[hex.EncodeToString(hash)]; ok {
		return d, nil
	}
	return nil, nil
}
func (m *memDocs) UpsertByHash(_ context.Context, sourcePath, filename, format string, hash []byte) (*entity.Document, bool, error) {
	key := hex.EncodeToString(hash)
	if d, ok := m.byHash[key]; ok {
		return d, true, nil
	}
	d := &entity.Document{
		ID:          uuid.New(),
		Filename:    filename,
		SourcePath:  sourcePath,
		Format:      format,
		ContentHash: hash,
		Status:      constants.StatusQueued,
	}
	m.byHash[key] = d
	return d, false, nil
}
func (m *memDocs) UpdateStatus(context.Context, uuid.UUID, constants.DocumentStatus) error {
	return nil
}
func (m *memDocs) MarkFailed(context.Context, uuid.UUID, string) error { return nil }
func (m *memDocs) SetPageCount(context.Context, uuid.UUID, int) error  { return nil }
func (m *memDocs) NextQueued(context.Context) (*entity.Document, error) {
	panic("not used")
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestIngestPathRegistersDocument(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "chart.txt", "Date of Service: 01/15/2024")

	ing := NewFSIngestor(newMemDocs(), slog.Default())
	res, err := ing.IngestPath(context.Background(), path)
	require.NoError(t, err)

	assert.False(t, res.Deduplicated)
	assert.Equal(t, "TXT", res.Format)
	assert.NotEqual(t, uuid.Nil, res.DocumentID)

	sum := sha256.Sum256([]byte("Date of Service: 01/15/2024"))
	assert.Equal(t, hex.EncodeToString(sum[:]), res.HashHex)
}

func TestIngestPathDeduplicatesByContent(t *testing.T) {
	dir := t.TempDir()
	first := writeFile(t, dir, "a.txt", "identical content")
	second := writeFile(t, dir, "b.txt", "identical content")

	ing := NewFSIngestor(newMemDocs(), slog.Default())
	r1, err := ing.IngestPath(context.Background(), first)
	require.NoError(t, err)
	r2, err := ing.IngestPath(context.Background(), second)
	require.NoError(t, err)

	assert.False(t, r1.Deduplicated)
	assert.True(t, r2.Deduplicated)
	assert.Equal(t, r1.DocumentID, r2.DocumentID)
}

func TestIngestPathRejectsUnsupportedExtension(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "notes.docx", "whatever")

	ing := NewFSIngestor(newMemDocs(), slog.Default())
	_, err := ing.IngestPath(context.Background(), path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported")
}

func TestIngestDirectory(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "one.txt", "page one")
	writeFile(t, dir, "two.txt", "page two")
	writeFile(t, dir, "skip.docx", "unsupported")
	writeFile(t, dir, ".hidden.txt", "hidden")

	ing := NewFSIngestor(newMemDocs(), slog.Default())
	results, stats, err := ing.IngestDirectory(context.Background(), dir, true)
	require.NoError(t, err)

	assert.Equal(t, 2, stats.Ingested)
	assert.Equal(t, 2, stats.Skipped) // unsupported ext + hidden file
	assert.Equal(t, 0, stats.Failed)
	assert.Len(t, results, 2)
}
