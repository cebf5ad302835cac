// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package archive persists normalized opinions in a local SQLite database
// with full-text search over case names and citations. The archive is an
// optional convenience layer: the fetch pipeline never reads from it, and
// identical searches always go back to the network.
package archive

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/caselaw-engine/pkg/types"
)

const (
	indexDir = "index"
	dbFile   = "opinions.db"
)

// Store manages the archive SQLite database.
type Store struct {
	db         *sql.DB
	archiveDir string
	maxResults int
}

// NewStore opens or creates the archive database at
// archiveDir/index/opinions.db, creating the schema if needed.
func NewStore(cfg types.ArchiveConfig) (*Store, error) {
	dbDir := filepath.Join(cfg.ArchiveDir, indexDir)
	if err := os.MkdirAll(dbDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating index directory: %w", err)
	}

	dbPath := filepath.Join(dbDir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = 20
	}

	s := &Store{
		db:         db,
		archiveDir: cfg.ArchiveDir,
		maxResults: maxResults,
	}

	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS opinions (
			url TEXT NOT NULL UNIQUE,
			case_name TEXT,
			court TEXT,
			date_filed TEXT,
			docket_number TEXT,
			citation TEXT,
			query TEXT,
			fetched_at TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_opinions_court ON opinions(court)`,
		`CREATE INDEX IF NOT EXISTS idx_opinions_date_filed ON opinions(date_filed)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}

	// FTS5 virtual table with triggers for sync.
	var ftsExists int
	if err := s.db.QueryRow(
		`SELECT count(*) FROM sqlite_master WHERE type='table' AND name='opinions_fts'`,
	).Scan(&ftsExists); err != nil {
		return fmt.Errorf("checking FTS table: %w", err)
	}

	if ftsExists == 0 {
		ftsStatements := []string{
			`CREATE VIRTUAL TABLE opinions_fts USING fts5(case_name, citation, content=opinions, content_rowid=rowid)`,
			`CREATE TRIGGER opinions_ai AFTER INSERT ON opinions BEGIN
				INSERT INTO opinions_fts(rowid, case_name, citation) VALUES (new.rowid, new.case_name, new.citation);
			END`,
			`CREATE TRIGGER opinions_ad AFTER DELETE ON opinions BEGIN
				INSERT INTO opinions_fts(opinions_fts, rowid, case_name, citation) VALUES('delete', old.rowid, old.case_name, old.citation);
			END`,
			`CREATE TRIGGER opinions_au AFTER UPDATE ON opinions BEGIN
				INSERT INTO opinions_fts(opinions_fts, rowid, case_name, citation) VALUES('delete', old.rowid, old.case_name, old.citation);
				INSERT INTO opinions_fts(rowid, case_name, citation) VALUES (new.rowid, new.case_name, new.citation);
			END`,
		}
		for _, stmt := range ftsStatements {
			if _, err := s.db.Exec(stmt); err != nil {
				return fmt.Errorf("creating FTS infrastructure: %w", err)
			}
		}
	}

	return nil
}

// SaveSummary holds counts from an archive save run.
type SaveSummary struct {
	Stored  int
	Updated int
}

// Total returns the number of opinions processed.
func (s SaveSummary) Total() int {
	return s.Stored + s.Updated
}

// Save upserts a batch of normalized opinions keyed by detail URL,
// recording the originating query text and the fetch time.
func (s *Store) Save(ctx context.Context, opinions []types.Opinion, queryText string, w io.Writer) (SaveSummary, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return SaveSummary{}, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	fetchedAt := time.Now().UTC().Format(time.RFC3339)
	var summary SaveSummary

	for _, op := range opinions {
		var exists int
		err := tx.QueryRowContext(ctx,
			`SELECT count(*) FROM opinions WHERE url = ?`, op.URL,
		).Scan(&exists)
		if err != nil {
			return summary, fmt.Errorf("checking %s: %w", op.URL, err)
		}

		_, err = tx.ExecContext(ctx,
			`INSERT INTO opinions (url, case_name, court, date_filed, docket_number, citation, query, fetched_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
			 ON CONFLICT(url) DO UPDATE SET
				case_name=excluded.case_name, court=excluded.court,
				date_filed=excluded.date_filed, docket_number=excluded.docket_number,
				citation=excluded.citation, query=excluded.query,
				fetched_at=excluded.fetched_at`,
			op.URL, op.CaseName, op.Court, op.DateFiled,
			op.DocketNumber, op.Citation, queryText, fetchedAt,
		)
		if err != nil {
			return summary, fmt.Errorf("upserting %s: %w", op.URL, err)
		}

		if exists > 0 {
			summary.Updated++
		} else {
			summary.Stored++
		}
	}

	if err := tx.Commit(); err != nil {
		return summary, fmt.Errorf("committing: %w", err)
	}

	fmt.Fprintf(w, "archived: %d new, %d updated\n", summary.Stored, summary.Updated)
	return summary, nil
}
