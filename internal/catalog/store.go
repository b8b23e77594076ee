// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package catalog persists processed Document records in SQLite and exports
// them as YAML or JSON.
package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/pdfextract/pkg/types"
)

const (
	dbFile = "catalog.db"

	// defaultMaxResults applies when neither the config nor the query set a
	// limit.
	defaultMaxResults = 50
)

// ErrNotFound reports an unknown document id.
var ErrNotFound = errors.New("document not found")

// Store manages the catalog database.
type Store struct {
	db         *sql.DB
	dir        string
	maxResults int
}

// NewStore opens or creates cfg.Dir/catalog.db and its schema.
func NewStore(cfg types.CatalogConfig) (*Store, error) {
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating catalog directory: %w", err)
	}

	dbPath := filepath.Join(cfg.Dir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = defaultMaxResults
	}

	s := &Store{db: db, dir: cfg.Dir, maxResults: maxResults}
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

// Dir returns the directory holding the database.
func (s *Store) Dir() string { return s.dir }

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS documents (
			id TEXT PRIMARY KEY,
			title TEXT,
			source_path TEXT,
			pdf_path TEXT,
			output_dir TEXT,
			markdown_path TEXT,
			text_path TEXT,
			backend TEXT,
			status TEXT NOT NULL,
			error TEXT,
			extracted_at TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_documents_status ON documents(status)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Record inserts doc or replaces the stored record with the same id.
func (s *Store) Record(ctx context.Context, doc types.Document) error {
	if doc.ID == "" {
		return errors.New("recording document: empty id")
	}
	extractedAt := ""
	if !doc.ExtractedAt.IsZero() {
		extractedAt = doc.ExtractedAt.UTC().Format(time.RFC3339Nano)
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO documents (id, title, source_path, pdf_path, output_dir, markdown_path, text_path, backend, status, error, extracted_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			title=excluded.title, source_path=excluded.source_path, pdf_path=excluded.pdf_path,
			output_dir=excluded.output_dir, markdown_path=excluded.markdown_path,
			text_path=excluded.text_path, backend=excluded.backend, status=excluded.status,
			error=excluded.error, extracted_at=excluded.extracted_at`,
		doc.ID, doc.Title, doc.SourcePath, doc.PDFPath, doc.OutputDir,
		doc.MarkdownPath, doc.TextPath, string(doc.Backend), string(doc.Status),
		doc.Error, extractedAt,
	)
	if err != nil {
		return fmt.Errorf("upserting document %s: %w", doc.ID, err)
	}
	return nil
}

const selectColumns = `SELECT id, title, source_path, pdf_path, output_dir, markdown_path, text_path, backend, status, error, extracted_at FROM documents`

// Get returns the document with the given id or ErrNotFound.
func (s *Store) Get(ctx context.Context, id string) (types.Document, error) {
	row := s.db.QueryRowContext(ctx, selectColumns+` WHERE id = ?`, id)
	doc, err := scanDocument(row)
	if errors.Is(err, sql.ErrNoRows) {
		return types.Document{}, fmt.Errorf("%s: %w", id, ErrNotFound)
	}
	return doc, err
}

// ListOptions filters List.
type ListOptions struct {
	// Status restricts results to one status. Empty matches all.
	Status types.ExtractionStatus

	// Query matches a case-insensitive substring of the title or id.
	Query string

	// Limit caps the result count. Zero uses the store default; negative
	// means no limit.
	Limit int
}

// List returns documents ordered by id.
func (s *Store) List(ctx context.Context, opts ListOptions) ([]types.Document, error) {
	var (
		qb    strings.Builder
		args  []any
		where []string
	)
	qb.WriteString(selectColumns)

	if opts.Status != "" {
		where = append(where, "status = ?")
		args = append(args, string(opts.Status))
	}
	if opts.Query != "" {
		where = append(where, "(title LIKE ? OR id LIKE ?)")
		pattern := "%" + opts.Query + "%"
		args = append(args, pattern, pattern)
	}
	if len(where) > 0 {
		qb.WriteString(" WHERE ")
		qb.WriteString(strings.Join(where, " AND "))
	}
	qb.WriteString(" ORDER BY id")

	limit := opts.Limit
	if limit == 0 {
		limit = s.maxResults
	}
	if limit > 0 {
		qb.WriteString(" LIMIT ?")
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, qb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("querying documents: %w", err)
	}
	defer rows.Close()

	var docs []types.Document
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating documents: %w", err)
	}
	return docs, nil
}

// Counts returns the number of documents per status.
func (s *Store) Counts(ctx context.Context) (map[types.ExtractionStatus]int, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT status, count(*) FROM documents GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("counting documents: %w", err)
	}
	defer rows.Close()

	counts := make(map[types.ExtractionStatus]int)
	for rows.Next() {
		var (
			status string
			n      int
		)
		if err := rows.Scan(&status, &n); err != nil {
			return nil, fmt.Errorf("scanning count: %w", err)
		}
		counts[types.ExtractionStatus(status)] = n
	}
	return counts, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanDocument(sc scanner) (types.Document, error) {
	var (
		doc                                 types.Document
		title, source, pdfPath, outDir      sql.NullString
		mdPath, txtPath, backend, errString sql.NullString
		status                              string
		extractedAt                         sql.NullString
	)
	if err := sc.Scan(&doc.ID, &title, &source, &pdfPath, &outDir, &mdPath, &txtPath,
		&backend, &status, &errString, &extractedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return doc, err
		}
		return doc, fmt.Errorf("scanning document: %w", err)
	}

	doc.Title = title.String
	doc.SourcePath = source.String
	doc.PDFPath = pdfPath.String
	doc.OutputDir = outDir.String
	doc.MarkdownPath = mdPath.String
	doc.TextPath = txtPath.String
	doc.Backend = types.Backend(backend.String)
	doc.Status = types.ExtractionStatus(status)
	doc.Error = errString.String
	if extractedAt.String != "" {
		t, err := time.Parse(time.RFC3339Nano, extractedAt.String)
		if err != nil {
			return doc, fmt.Errorf("parsing extracted_at of %s: %w", doc.ID, err)
		}
		doc.ExtractedAt = t
	}
	return doc, nil
}
