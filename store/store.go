// Package store provides a local SQLite content store for matchday.
// Documents are held already projected, so reads return them as the
// remote query API would.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/carlosx8664/skyy-fc/content"
	"github.com/carlosx8664/skyy-fc/model"
	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when a document does not exist.
var ErrNotFound = errors.New("document not found")

// Store manages the SQLite database.
type Store struct {
	db *sql.DB
}

// QueryOptions specifies how to list documents.
type QueryOptions struct {
	Type      string
	Limit     int
	Offset    int
	SinceTime *int64 // Unix timestamp
}

// New creates a new Store with the given database path.
// Use ":memory:" for an in-memory database (useful for testing).
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// An in-memory database exists per connection.
	if dbPath == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	store := &Store{db: db}

	// Initialize schema
	if err := store.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping checks the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// createSchema creates the database tables and indexes.
func (s *Store) createSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS documents (
		id TEXT PRIMARY KEY,
		type TEXT NOT NULL,
		body TEXT NOT NULL,
		published INTEGER,
		imported_at INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_documents_type ON documents(type);
	CREATE INDEX IF NOT EXISTS idx_documents_published ON documents(published DESC);
	`

	_, err := s.db.Exec(schema)
	return err
}

// SaveDocument inserts a document or replaces the one with the same ID.
func (s *Store) SaveDocument(d *model.Document) error {
	if err := d.Validate(); err != nil {
		return err
	}

	published, err := publishedUnix(d)
	if err != nil {
		return fmt.Errorf("failed to read document %s: %w", d.ID, err)
	}

	_, err = s.db.Exec(
		`INSERT INTO documents (id, type, body, published, imported_at) VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET type = excluded.type, body = excluded.body,
			published = excluded.published, imported_at = excluded.imported_at`,
		d.ID, d.Type, string(d.Body), published, time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to save document: %w", err)
	}
	return nil
}

// GetDocument retrieves a document by ID.
func (s *Store) GetDocument(id string) (*model.Document, error) {
	d := &model.Document{}
	var body string

	err := s.db.QueryRow("SELECT id, type, body FROM documents WHERE id = ?", id).Scan(&d.ID, &d.Type, &body)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get document: %w", err)
	}

	d.Body = json.RawMessage(body)
	return d, nil
}

// DeleteDocument deletes a document by ID.
func (s *Store) DeleteDocument(id string) error {
	_, err := s.db.Exec("DELETE FROM documents WHERE id = ?", id)
	return err
}

// DeleteType removes every document of a type. Returns the number removed.
func (s *Store) DeleteType(docType string) (int64, error) {
	result, err := s.db.Exec("DELETE FROM documents WHERE type = ?", docType)
	if err != nil {
		return 0, fmt.Errorf("failed to delete %s documents: %w", docType, err)
	}
	return result.RowsAffected()
}

// GetDocuments lists documents with optional filtering and pagination,
// newest first.
func (s *Store) GetDocuments(opts QueryOptions) ([]*model.Document, error) {
	query := "SELECT id, type, body FROM documents WHERE 1=1"
	args := []interface{}{}

	// Apply filters
	if opts.Type != "" {
		query += " AND type = ?"
		args = append(args, opts.Type)
	}

	if opts.SinceTime != nil {
		query += " AND published >= ?"
		args = append(args, *opts.SinceTime)
	}

	query += " ORDER BY published IS NULL, published DESC, id"

	// Apply pagination
	if opts.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, opts.Limit)
	} else if opts.Offset > 0 {
		query += " LIMIT -1"
	}

	if opts.Offset > 0 {
		query += " OFFSET ?"
		args = append(args, opts.Offset)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query documents: %w", err)
	}
	defer rows.Close()

	var docs []*model.Document
	for rows.Next() {
		d := &model.Document{}
		var body string
		if err := rows.Scan(&d.ID, &d.Type, &body); err != nil {
			return nil, fmt.Errorf("failed to scan document: %w", err)
		}
		d.Body = json.RawMessage(body)
		docs = append(docs, d)
	}

	return docs, rows.Err()
}

// CountByType returns the number of stored documents per type.
func (s *Store) CountByType() (map[string]int, error) {
	rows, err := s.db.Query("SELECT type, COUNT(*) FROM documents GROUP BY type")
	if err != nil {
		return nil, fmt.Errorf("failed to count documents: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var docType string
		var n int
		if err := rows.Scan(&docType, &n); err != nil {
			return nil, fmt.Errorf("failed to scan count: %w", err)
		}
		counts[docType] = n
	}
	return counts, rows.Err()
}

// FetchCollection implements content.Source over the stored documents.
func (s *Store) FetchCollection(ctx context.Context, q content.Query) ([]json.RawMessage, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	var b strings.Builder
	args := []interface{}{q.Type}
	b.WriteString("SELECT body FROM documents WHERE type = ?")

	for _, f := range q.Defined {
		b.WriteString(" AND json_extract(body, ?) IS NOT NULL")
		args = append(args, "$."+f)
	}

	if q.Since != nil {
		b.WriteString(" AND published >= ?")
		args = append(args, q.Since.Unix())
	}

	if q.Order.Field != "" {
		dir := "ASC"
		if q.Order.Desc {
			dir = "DESC"
		}
		if q.Order.Field == "date" {
			fmt.Fprintf(&b, " ORDER BY published IS NULL, published %s", dir)
		} else {
			fmt.Fprintf(&b, " ORDER BY json_extract(body, ?) IS NULL, json_extract(body, ?) %s", dir)
			args = append(args, "$."+q.Order.Field, "$."+q.Order.Field)
		}
		b.WriteString(", rowid")
	} else {
		b.WriteString(" ORDER BY rowid")
	}

	if q.Limit > 0 {
		b.WriteString(" LIMIT ?")
		args = append(args, q.Limit)
	}

	rows, err := s.db.QueryContext(ctx, b.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", q.Type, err)
	}
	defer rows.Close()

	var records []json.RawMessage
	for rows.Next() {
		var body string
		if err := rows.Scan(&body); err != nil {
			return nil, fmt.Errorf("failed to scan %s: %w", q.Type, err)
		}
		records = append(records, json.RawMessage(body))
	}
	return records, rows.Err()
}

// publishedUnix reads the document's "date" as a Unix timestamp, or nil when
// it is absent or unreadable. The body must be a JSON object.
func publishedUnix(d *model.Document) (*int64, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(d.Body, &fields); err != nil {
		return nil, fmt.Errorf("body is not a JSON object: %w", err)
	}

	var date string
	if raw, ok := fields["date"]; !ok || json.Unmarshal(raw, &date) != nil {
		return nil, nil
	}
	t, ok := model.ParseInstant(date)
	if !ok {
		return nil, nil
	}
	unix := t.Unix()
	return &unix, nil
}
