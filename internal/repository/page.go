package repository

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/recordstack/chronology/internal/entity"
)

type PageRepository interface {
	// ReplaceForDocument swaps all pages of a document in one transaction.
	// Reprocessing a document always rewrites its pages wholesale.
	ReplaceForDocument(ctx context.Context, documentID uuid.UUID, pages []entity.Page) error
	ListByDocument(ctx context.Context, documentID uuid.UUID) ([]entity.Page, error)
}

type pageRepo struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

func NewPageRepository(pool *pgxpool.Pool, logger *slog.Logger) PageRepository {
	return &pageRepo{pool: pool, logger: logger}
}

func (r *pageRepo) ReplaceForDocument(ctx context.Context, documentID uuid.UUID, pages []entity.Page) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `DELETE FROM pages WHERE document_id = $1`, documentID); err != nil {
		r.logger.Error("failed to clear pages", "document_id", documentID, "error", err)
		return err
	}

	batch := &pgx.Batch{}
	for _, p := range pages {
		// simhash is stored as bigint; the uint64 round-trips through int64
		batch.Queue(`
			INSERT INTO pages (id, document_id, page_number, text, has_date, date_of_service,
				date_source, inherited_from, document_type, text_hash, simhash, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, now(), now())`,
			p.ID, documentID, p.PageNumber, p.Text, p.HasDate, p.DateOfService,
			p.DateSource, p.InheritedFrom, p.DocumentType, p.TextHash, int64(p.SimHash))
	}
	br := tx.SendBatch(ctx, batch)
	for range pages {
		if _, err := br.Exec(); err != nil {
			_ = br.Close()
			r.logger.Error("failed to insert page batch", "document_id", documentID, "error", err)
			return err
		}
	}
	if err := br.Close(); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *pageRepo) ListByDocument(ctx context.Context, documentID uuid.UUID) ([]entity.Page, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, document_id, page_number, text, has_date, date_of_service,
			date_source, inherited_from, document_type, text_hash, simhash, created_at, updated_at
		FROM pages WHERE document_id = $1 ORDER BY page_number`, documentID)
	if err != nil {
		r.logger.Error("failed to list pages", "document_id", documentID, "error", err)
		return nil, err
	}
	defer rows.Close()

	var out []entity.Page
	for rows.Next() {
		var p entity.Page
		var simhash int64
		if err := rows.Scan(&p.ID, &p.DocumentID, &p.PageNumber, &p.Text, &p.HasDate,
			&p.DateOfService, &p.DateSource, &p.InheritedFrom, &p.DocumentType,
			&p.TextHash, &simhash, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		p.SimHash = uint64(simhash)
		out = append(out, p)
	}
	return out, rows.Err()
}
