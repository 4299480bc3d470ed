package repositories

import (
	"context"

	models "sitecraft/internal/domain/models/page"
)

// PageRepository defines data access operations for page documents
type PageRepository interface {
	// Create stores a new document. Returns *domain.ConflictError when the slug is taken.
	Create(ctx context.Context, doc *models.PageDocument) error

	// GetByID retrieves a document by ID
	GetByID(ctx context.Context, id string) (*models.PageDocument, error)

	// GetBySlug retrieves a document by slug
	GetBySlug(ctx context.Context, slug string) (*models.PageDocument, error)

	// Update replaces the stored document
	Update(ctx context.Context, doc *models.PageDocument) error

	// Delete deletes a document
	Delete(ctx context.Context, id string) error

	// List returns summaries ordered by most recently updated
	List(ctx context.Context) ([]models.PageSummary, error)
}
