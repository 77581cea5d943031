package repository

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/recordstack/chronology/constants"
	"github.com/recordstack/chronology/internal/common"
	"github.com/recordstack/chronology/internal/entity"
)

type DocumentRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Document, error)
	GetByHash(ctx context.Context, hash []byte) (*entity.Document, error)
	// UpsertByHash returns the existing document when the content hash is
	// already known; the bool reports whether it was found.
	UpsertByHash(ctx context.Context, sourcePath, filename, format string, hash []byte) (*entity.Document, bool, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status constants.DocumentStatus) error
	MarkFailed(ctx context.Context, id uuid.UUID, cause string) error
	SetPageCount(ctx context.Context, id uuid.UUID, pages int) error
	NextQueued(ctx context.Context) (*entity.Document, error)
}

type documentRepo struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

func NewDocumentRepository(pool *pgxpool.Pool, logger *slog.Logger) DocumentRepository {
	return &documentRepo{pool: pool, logger: logger}
}

const documentColumns = `id, filename, source_path, format, content_hash, page_count, status, COALESCE(error, ''), created_at, updated_at`

func scanDocument(row pgx.Row) (*entity.Document, error) {
	var d entity.Document
	err := row.Scan(&d.ID, &d.Filename, &d.SourcePath, &d.Format, &d.ContentHash,
		&d.PageCount, &d.Status, &d.Error, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *documentRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Document, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+documentColumns+` FROM documents WHERE id = $1`, id)
	d, err := scanDocument(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		r.logger.Error("failed to get document", "document_id", id, "error", err)
		return nil, err
	}
	return d, nil
}

func (r *documentRepo) GetByHash(ctx context.Context, hash []byte) (*entity.Document, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+documentColumns+` FROM documents WHERE content_hash = $1`, hash)
	d, err := scanDocument(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		r.logger.Error("failed to get document by hash", "error", err)
		return nil, err
	}
	return d, nil
}

func (r *documentRepo) UpsertByHash(ctx context.Context, sourcePath, filename, format string, hash []byte) (*entity.Document, bool, error) {
	if existing, err := r.GetByHash(ctx, hash); err == nil {
		return existing, true, nil
	} else if !errors.Is(err, common.ErrNotFound) {
		return nil, false, err
	}

	row := r.pool.QueryRow(ctx, `
		INSERT INTO documents (id, filename, source_path, format, content_hash, page_count, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, 0, $6, now(), now())
		RETURNING `+documentColumns,
		uuid.New(), filename, sourcePath, format, hash, constants.StatusQueued)
	d, err := scanDocument(row)
	if err != nil {
		r.logger.Error("failed to create document", "source_path", sourcePath, "filename", filename, "error", err)
		return nil, false, err
	}
	return d, false, nil
}

func (r *documentRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status constants.DocumentStatus) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE documents SET status = $2, updated_at = now() WHERE id = $1`, id, status)
	if err != nil {
		r.logger.Error("failed to update document status", "document_id", id, "status", status, "error", err)
		return err
	}
	if tag.RowsAffected() == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *documentRepo) MarkFailed(ctx context.Context, id uuid.UUID, cause string) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE documents SET status = $2, error = $3, updated_at = now() WHERE id = $1`,
		id, constants.StatusFailed, cause)
	if err != nil {
		r.logger.Error("failed to mark document failed", "document_id", id, "error", err)
	}
	return err
}

func (r *documentRepo) SetPageCount(ctx context.Context, id uuid.UUID, pages int) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE documents SET page_count = $2, updated_at = now() WHERE id = $1`, id, pages)
	if err != nil {
		r.logger.Error("failed to set page count", "document_id", id, "error", err)
	}
	return err
}

// NextQueued claims the oldest queued document, flipping it to RUNNING so
// concurrent workers never pick the same row.
func (r *documentRepo) NextQueued(ctx context.Context) (*entity.Document, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE documents SET status = $1, updated_at = now()
		WHERE id = (
			SELECT id FROM documents WHERE status = $2
			ORDER BY created_at
			FOR UPDATE SKIP LOCKED
			LIMIT 1
		)
		RETURNING `+documentColumns,
		constants.StatusRunning, constants.StatusQueued)
	d, err := scanDocument(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		r.logger.Error("failed to claim queued document", "error", err)
		return nil, err
	}
	return d, nil
}
