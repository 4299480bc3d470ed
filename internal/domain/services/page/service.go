package page

import (
	"context"

	models "sitecraft/internal/domain/models/page"
)

// PageService handles editing-session operations on stored page documents
type PageService interface {
	// CreatePage creates a document, optionally seeded with a widget tree
	CreatePage(ctx context.Context, req *CreatePageRequest) (*models.PageDocument, error)

	// GetPage retrieves a document by ID
	GetPage(ctx context.Context, id string) (*models.PageDocument, error)

	// ListPages lists stored documents
	ListPages(ctx context.Context) ([]models.PageSummary, error)

	// UpdatePage updates page-level metadata
	UpdatePage(ctx context.Context, id string, req *UpdatePageRequest) (*models.PageDocument, error)

	// ReplacePage replaces the whole document (canonical JSON save)
	ReplacePage(ctx context.Context, id string, doc *models.PageDocument) (*models.PageDocument, error)

	// DeletePage deletes a document
	DeletePage(ctx context.Context, id string) error

	// AddWidget creates a widget from the library and inserts it
	AddWidget(ctx context.Context, pageID string, req *AddWidgetRequest) (*models.WidgetNode, error)

	// UpdateWidget applies a partial update to a widget
	UpdateWidget(ctx context.Context, pageID, widgetID string, req *UpdateWidgetRequest) (*models.WidgetNode, error)

	// MoveWidget moves a widget to a new parent/position
	MoveWidget(ctx context.Context, pageID, widgetID string, req *MoveWidgetRequest) (*models.PageDocument, error)

	// DuplicateWidget clones a widget next to the original
	DuplicateWidget(ctx context.Context, pageID, widgetID string) (*models.WidgetNode, error)

	// RemoveWidget removes a widget and its subtree
	RemoveWidget(ctx context.Context, pageID, widgetID string) error

	// ValidatePage returns content warnings for a stored document
	ValidatePage(ctx context.Context, id string) ([]string, error)
}

// CreatePageRequest represents a page creation request
type CreatePageRequest struct {
	Name     string               `json:"name"`
	SEO      *models.SEO          `json:"seo,omitempty"`
	Settings map[string]any       `json:"settings,omitempty"`
	Widgets  []*models.WidgetNode `json:"widgets,omitempty"` // imported tree, checked before use
}

// UpdatePageRequest represents a page metadata update
type UpdatePageRequest struct {
	Name     *string        `json:"name,omitempty"`
	SEO      *models.SEO    `json:"seo,omitempty"`
	Settings map[string]any `json:"settings,omitempty"`
}

// AddWidgetRequest represents a widget insertion
type AddWidgetRequest struct {
	Type     models.WidgetType `json:"type"`
	Content  map[string]any    `json:"content,omitempty"`
	ParentID string            `json:"parent_id,omitempty"`
	Position *int              `json:"position,omitempty"` // nil = append
}

// UpdateWidgetRequest represents a partial widget update
type UpdateWidgetRequest struct {
	Content map[string]any `json:"content,omitempty"`
	Style   map[string]any `json:"style,omitempty"`
	Visible *bool          `json:"visible,omitempty"`
	Locked  *bool          `json:"locked,omitempty"`
}

// MoveWidgetRequest represents a widget move
type MoveWidgetRequest struct {
	ParentID string `json:"parent_id"`
	Position int    `json:"position"`
}
