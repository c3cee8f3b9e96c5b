package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/ayoubaydy/tajreba"
	"github.com/cespare/xxhash/v2"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ tajreba.DocumentService = (*DocumentService)(nil)

// DocumentService implements tajreba.DocumentService using SQLite.
type DocumentService struct {
	db *DB
}

// NewDocumentService creates a new DocumentService.
func NewDocumentService(db *DB) *DocumentService {
	return &DocumentService{db: db}
}

// HashText computes the xxHash of text and returns it as a hex string.
// Used both for upload deduplication and as part of cache keys.
func HashText(text string) string {
	return fmt.Sprintf("%016x", xxhash.Sum64String(text))
}

// CreateDocument creates a new document.
func (s *DocumentService) CreateDocument(ctx context.Context, doc *tajreba.Document) error {
	if err := doc.Validate(); err != nil {
		return err
	}

	doc.ID = uuid.New().String()
	doc.CreatedAt = time.Now().UTC()
	doc.TextHash = HashText(doc.Text)
	doc.CharCount = len([]rune(doc.Text))

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO documents (id, name, format, source_url, file_path, size, text, text_hash, char_count, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, doc.ID, doc.Name, string(doc.Format), doc.SourceURL, doc.FilePath, doc.Size,
		doc.Text, doc.TextHash, doc.CharCount, doc.CreatedAt.Format(time.RFC3339))

	return err
}

// FindDocumentByID retrieves a document by ID.
func (s *DocumentService) FindDocumentByID(ctx context.Context, id string) (*tajreba.Document, error) {
	var doc tajreba.Document
	var format, createdAt string

	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, format, source_url, file_path, size, text, text_hash, char_count, created_at
		FROM documents
		WHERE id = ?
	`, id).Scan(&doc.ID, &doc.Name, &format, &doc.SourceURL, &doc.FilePath, &doc.Size,
		&doc.Text, &doc.TextHash, &doc.CharCount, &createdAt)

	if err == sql.ErrNoRows {
		return nil, tajreba.Errorf(tajreba.ENOTFOUND, "document not found")
	}
	if err != nil {
		return nil, err
	}

	doc.Format = tajreba.Format(format)
	doc.CreatedAt, err = parseRFC3339(createdAt, "created_at")
	if err != nil {
		return nil, err
	}

	return &doc, nil
}

// FindDocuments retrieves documents matching the filter, newest first.
func (s *DocumentService) FindDocuments(ctx context.Context, filter tajreba.DocumentFilter) ([]*tajreba.Document, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT id, name, format, source_url, file_path, size, text, text_hash, char_count, created_at FROM documents WHERE 1=1")

	if filter.ID != nil {
		query.WriteString(" AND id = ?")
		args = append(args, *filter.ID)
	}
	if filter.Name != nil {
		query.WriteString(" AND name = ?")
		args = append(args, *filter.Name)
	}
	if filter.TextHash != nil {
		query.WriteString(" AND text_hash = ?")
		args = append(args, *filter.TextHash)
	}

	query.WriteString(" ORDER BY created_at DESC")
	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var docs []*tajreba.Document
	for rows.Next() {
		var doc tajreba.Document
		var format, createdAt string

		if err := rows.Scan(&doc.ID, &doc.Name, &format, &doc.SourceURL, &doc.FilePath, &doc.Size,
			&doc.Text, &doc.TextHash, &doc.CharCount, &createdAt); err != nil {
			return nil, err
		}

		doc.Format = tajreba.Format(format)
		doc.CreatedAt, err = parseRFC3339(createdAt, "created_at")
		if err != nil {
			return nil, err
		}

		docs = append(docs, &doc)
	}

	return docs, rows.Err()
}

// DeleteDocument permanently removes a document. Associated jobs are removed
// by the foreign key cascade.
func (s *DocumentService) DeleteDocument(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM documents WHERE id = ?", id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return tajreba.Errorf(tajreba.ENOTFOUND, "document not found")
	}

	return nil
}
