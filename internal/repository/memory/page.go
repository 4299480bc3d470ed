package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"sitecraft/internal/domain"
	models "sitecraft/internal/domain/models/page"
	"sitecraft/internal/domain/repositories"
)

// PageRepository is an in-process PageRepository. Documents are cloned on the
// way in and out so callers never share trees with the store.
type PageRepository struct {
	mu    sync.RWMutex
	pages map[string]*models.PageDocument
}

// NewPageRepository creates an empty in-memory repository
func NewPageRepository() repositories.PageRepository {
	return &PageRepository{pages: make(map[string]*models.PageDocument)}
}

// Create stores a new document
func (r *PageRepository) Create(ctx context.Context, doc *models.PageDocument) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.pages[doc.ID]; exists {
		return &domain.ConflictError{
			Message:      fmt.Sprintf("page %s already exists", doc.ID),
			ResourceType: "page",
			ResourceID:   doc.ID,
		}
	}
	if existing := r.findSlug(doc.Slug); existing != nil {
		return &domain.ConflictError{
			Message:      fmt.Sprintf("page with slug '%s' already exists", doc.Slug),
			ResourceType: "page",
			ResourceID:   existing.ID,
		}
	}

	r.pages[doc.ID] = doc.Clone()
	return nil
}

// GetByID retrieves a document by ID
func (r *PageRepository) GetByID(ctx context.Context, id string) (*models.PageDocument, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	doc, ok := r.pages[id]
	if !ok {
		return nil, fmt.Errorf("page %s: %w", id, domain.ErrNotFound)
	}
	return doc.Clone(), nil
}

// GetBySlug retrieves a document by slug
func (r *PageRepository) GetBySlug(ctx context.Context, slug string) (*models.PageDocument, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	doc := r.findSlug(slug)
	if doc == nil {
		return nil, fmt.Errorf("page with slug %s: %w", slug, domain.ErrNotFound)
	}
	return doc.Clone(), nil
}

// Update replaces the stored document
func (r *PageRepository) Update(ctx context.Context, doc *models.PageDocument) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.pages[doc.ID]; !ok {
		return fmt.Errorf("page %s: %w", doc.ID, domain.ErrNotFound)
	}
	if existing := r.findSlug(doc.Slug); existing != nil && existing.ID != doc.ID {
		return &domain.ConflictError{
			Message:      fmt.Sprintf("page with slug '%s' already exists", doc.Slug),
			ResourceType: "page",
			ResourceID:   existing.ID,
		}
	}

	r.pages[doc.ID] = doc.Clone()
	return nil
}

// Delete deletes a document
func (r *PageRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.pages[id]; !ok {
		return fmt.Errorf("page %s: %w", id, domain.ErrNotFound)
	}
	delete(r.pages, id)
	return nil
}

// List returns summaries ordered by most recently updated
func (r *PageRepository) List(ctx context.Context) ([]models.PageSummary, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	summaries := make([]models.PageSummary, 0, len(r.pages))
	for _, doc := range r.pages {
		summaries = append(summaries, models.PageSummary{
			ID:          doc.ID,
			Name:        doc.Name,
			Slug:        doc.Slug,
			WidgetCount: doc.WidgetCount(),
			UpdatedAt:   doc.UpdatedAt,
		})
	}
	sort.Slice(summaries, func(i, j int) bool {
		if summaries[i].UpdatedAt.Equal(summaries[j].UpdatedAt) {
			return summaries[i].ID < summaries[j].ID
		}
		return summaries[i].UpdatedAt.After(summaries[j].UpdatedAt)
	})
	return summaries, nil
}

// findSlug must be called with the lock held
func (r *PageRepository) findSlug(slug string) *models.PageDocument {
	for _, doc := range r.pages {
		if doc.Slug == slug {
			return doc
		}
	}
	return nil
}
