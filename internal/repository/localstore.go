package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/recordstack/chronology/internal/chronology"
	"github.com/recordstack/chronology/internal/dedupe"
)

// LocalStore persists batch-run results to an embedded sqlite file so runs
// can be inspected later without a Postgres instance.
type LocalStore struct {
	db     *sql.DB
	logger *slog.Logger
}

func OpenLocal(path string, logger *slog.Logger) (*LocalStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open local store: %w", err)
	}
	s := &LocalStore{db: db, logger: logger}
	if err := s.init(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *LocalStore) init() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			filename TEXT NOT NULL,
			total_pages INTEGER NOT NULL,
			pages_with_dos INTEGER NOT NULL,
			pages_inherited INTEGER NOT NULL,
			undated_pages TEXT NOT NULL,
			created_at TEXT NOT NULL
		);
		CREATE TABLE IF NOT EXISTS clusters (
			run_id TEXT NOT NULL REFERENCES runs(id),
			cluster_id TEXT NOT NULL,
			date_of_service TEXT NOT NULL,
			primary_page INTEGER NOT NULL,
			pages TEXT NOT NULL,
			document_type TEXT,
			PRIMARY KEY (run_id, cluster_id)
		);
		CREATE TABLE IF NOT EXISTS duplicate_groups (
			run_id TEXT NOT NULL REFERENCES runs(id),
			group_no INTEGER NOT NULL,
			exact INTEGER NOT NULL,
			primary_page INTEGER NOT NULL,
			members TEXT NOT NULL,
			PRIMARY KEY (run_id, group_no)
		);`)
	if err != nil {
		return fmt.Errorf("init local store schema: %w", err)
	}
	return nil
}

// SaveRun writes one document's chronology and duplicate results. The whole
// run commits atomically; a failed run leaves no partial rows.
func (s *LocalStore) SaveRun(ctx context.Context, filename string, res *chronology.ChronologyResult, dupes *dedupe.DuplicateResult) (string, error) {
	runID := uuid.NewString()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", err
	}
	defer func() { _ = tx.Rollback() }()

	undated, err := json.Marshal(res.UndatedPages)
	if err != nil {
		return "", err
	}
	_, err = tx.ExecContext(ctx, `
		INSERT INTO runs (id, filename, total_pages, pages_with_dos, pages_inherited, undated_pages, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		runID, filename, res.Stats.TotalPages, res.Stats.PagesWithDOS,
		res.Stats.PagesInherited, string(undated), time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		s.logger.Error("failed to insert run", "filename", filename, "error", err)
		return "", err
	}

	for _, c := range res.Clusters {
		pages, err := json.Marshal(c.Pages)
		if err != nil {
			return "", err
		}
		var docType any
		if c.DocumentType != "" {
			docType = c.DocumentType
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO clusters (run_id, cluster_id, date_of_service, primary_page, pages, document_type)
			VALUES (?, ?, ?, ?, ?, ?)`,
			runID, c.ID, c.DateOfService.Format("2006-01-02"), c.PrimaryPage, string(pages), docType)
		if err != nil {
			s.logger.Error("failed to insert cluster", "cluster_id", c.ID, "error", err)
			return "", err
		}
	}

	if dupes != nil {
		groupNo := 0
		insert := func(g dedupe.DuplicateGroup, exact int) error {
			groupNo++
			members, err := json.Marshal(g.Members)
			if err != nil {
				return err
			}
			_, err = tx.ExecContext(ctx, `
				INSERT INTO duplicate_groups (run_id, group_no, exact, primary_page, members)
				VALUES (?, ?, ?, ?, ?)`,
				runID, groupNo, exact, g.PrimaryPage, string(members))
			if err != nil {
				s.logger.Error("failed to insert duplicate group", "group_no", groupNo, "error", err)
			}
			return err
		}
		for _, g := range dupes.ExactGroups {
			if err := insert(g, 1); err != nil {
				return "", err
			}
		}
		for _, g := range dupes.NearGroups {
			if err := insert(g, 0); err != nil {
				return "", err
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return "", err
	}
	return runID, nil
}

func (s *LocalStore) Close() error {
	return s.db.Close()
}
