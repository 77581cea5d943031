package repository

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/recordstack/chronology/internal/entity"
)

type EventRepository interface {
	ReplaceForDocument(ctx context.Context, documentID uuid.UUID, events []entity.DateEvent) error
	// ListByDocument returns events in timeline order: event date ascending,
	// then page number for same-day events.
	ListByDocument(ctx context.Context, documentID uuid.UUID) ([]entity.DateEvent, error)
}

type eventRepo struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

func NewEventRepository(pool *pgxpool.Pool, logger *slog.Logger) EventRepository {
	return &eventRepo{pool: pool, logger: logger}
}

func (r *eventRepo) ReplaceForDocument(ctx context.Context, documentID uuid.UUID, events []entity.DateEvent) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `DELETE FROM date_events WHERE document_id = $1`, documentID); err != nil {
		r.logger.Error("failed to clear events", "document_id", documentID, "error", err)
		return err
	}

	batch := &pgx.Batch{}
	for _, e := range events {
		batch.Queue(`
			INSERT INTO date_events (id, document_id, page_id, page_number, event_date,
				summary, event_type, is_primary, confidence, source, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, now())`,
			e.ID, documentID, e.PageID, e.PageNumber, e.EventDate,
			e.Summary, e.EventType, e.IsPrimary, e.Confidence, e.Source)
	}
	br := tx.SendBatch(ctx, batch)
	for range events {
		if _, err := br.Exec(); err != nil {
			_ = br.Close()
			r.logger.Error("failed to insert event batch", "document_id", documentID, "error", err)
			return err
		}
	}
	if err := br.Close(); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *eventRepo) ListByDocument(ctx context.Context, documentID uuid.UUID) ([]entity.DateEvent, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, document_id, page_id, page_number, event_date, summary,
			event_type, is_primary, confidence, source, created_at
		FROM date_events WHERE document_id = $1
		ORDER BY event_date, page_number`, documentID)
	if err != nil {
		r.logger.Error("failed to list events", "document_id", documentID, "error", err)
		return nil, err
	}
	defer rows.Close()

	var out []entity.DateEvent
	for rows.Next() {
		var e entity.DateEvent
		if err := rows.Scan(&e.ID, &e.DocumentID, &e.PageID, &e.PageNumber, &e.EventDate,
			&e.Summary, &e.EventType, &e.IsPrimary, &e.Confidence, &e.Source, &e.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
