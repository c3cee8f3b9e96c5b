package tajreba

import (
	"context"
	"time"
)

// Document represents a source document registered for translation.
// Text holds the extracted plain text (or markdown for HTML/URL sources).
type Document struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Format    Format    `json:"format"`
	SourceURL string    `json:"sourceUrl,omitempty"`
	FilePath  string    `json:"filePath,omitempty"`
	Size      int64     `json:"size"`
	Text      string    `json:"text"`
	TextHash  string    `json:"textHash"`
	CharCount int       `json:"charCount"`
	CreatedAt time.Time `json:"createdAt"`
}

// Validate returns an error if the document contains invalid fields.
func (d *Document) Validate() error {
	if d.Name == "" {
		return Errorf(EINVALID, "document name required")
	}
	if d.Format == FormatUnknown {
		return Errorf(EINVALID, "document format required")
	}
	return nil
}

// DocumentService represents a service for managing documents.
type DocumentService interface {
	// CreateDocument creates a new document.
	CreateDocument(ctx context.Context, doc *Document) error

	// FindDocumentByID retrieves a document by ID.
	// Returns ENOTFOUND if document does not exist.
	FindDocumentByID(ctx context.Context, id string) (*Document, error)

	// FindDocuments retrieves documents matching the filter.
	FindDocuments(ctx context.Context, filter DocumentFilter) ([]*Document, error)

	// DeleteDocument permanently removes a document and all associated jobs.
	// Returns ENOTFOUND if document does not exist.
	DeleteDocument(ctx context.Context, id string) error
}

// DocumentFilter represents a filter for FindDocuments.
type DocumentFilter struct {
	ID       *string `json:"id"`
	Name     *string `json:"name"`
	TextHash *string `json:"textHash"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}
