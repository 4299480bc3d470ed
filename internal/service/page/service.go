package page

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"sitecraft/internal/config"
	"sitecraft/internal/domain"
	models "sitecraft/internal/domain/models/page"
	"sitecraft/internal/domain/repositories"
	pageSvc "sitecraft/internal/domain/services/page"
)

// maxSlugAttempts bounds the numeric suffixes tried when a slug is taken
const maxSlugAttempts = 50

// pageService implements the PageService interface
type pageService struct {
	repo    repositories.PageRepository
	txm     repositories.TransactionManager
	library *Library
	logger  *slog.Logger
}

// NewPageService creates a new page service
func NewPageService(
	repo repositories.PageRepository,
	txm repositories.TransactionManager,
	library *Library,
	logger *slog.Logger,
) pageSvc.PageService {
	return &pageService{
		repo:    repo,
		txm:     txm,
		library: library,
		logger:  logger,
	}
}

// CreatePage creates a new page, choosing a free slug
func (s *pageService) CreatePage(ctx context.Context, req *pageSvc.CreatePageRequest) (*models.PageDocument, error) {
	if err := s.validateName(req.Name); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	if err := CheckTree(s.library, req.Widgets); err != nil {
		return nil, err
	}

	doc := NewPageDocument(req.Name)
	if req.SEO != nil {
		doc.SEO = *req.SEO
	}
	if req.Settings != nil {
		doc.Settings = models.CloneMap(req.Settings)
	}
	if req.Widgets != nil {
		doc.Widgets = req.Widgets
	}

	slug, err := s.freeSlug(ctx, doc.Slug, "")
	if err != nil {
		return nil, err
	}
	doc.Slug = slug

	if err := s.repo.Create(ctx, doc); err != nil {
		return nil, err
	}

	s.logger.Info("page created",
		"id", doc.ID,
		"slug", doc.Slug,
		"widget_count", doc.WidgetCount(),
	)
	return doc, nil
}

// GetPage retrieves a page by ID
func (s *pageService) GetPage(ctx context.Context, id string) (*models.PageDocument, error) {
	return s.repo.GetByID(ctx, id)
}

// ListPages lists all pages
func (s *pageService) ListPages(ctx context.Context) ([]models.PageSummary, error) {
	return s.repo.List(ctx)
}

// UpdatePage updates name, SEO and settings
func (s *pageService) UpdatePage(ctx context.Context, id string, req *pageSvc.UpdatePageRequest) (*models.PageDocument, error) {
	if req.Name != nil {
		if err := s.validateName(*req.Name); err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
		}
	}

	var doc *models.PageDocument
	err := s.txm.ExecTx(ctx, func(txCtx context.Context) error {
		var err error
		doc, err = s.repo.GetByID(txCtx, id)
		if err != nil {
			return err
		}

		if req.Name != nil {
			Rename(doc, *req.Name)
			slug, err := s.freeSlug(txCtx, doc.Slug, doc.ID)
			if err != nil {
				return err
			}
			doc.Slug = slug
		}
		if req.SEO != nil {
			doc.SEO = *req.SEO
		}
		if req.Settings != nil {
			doc.Settings = models.CloneMap(req.Settings)
		}
		doc.Touch()

		return s.repo.Update(txCtx, doc)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("page updated", "id", doc.ID, "slug", doc.Slug)
	return doc, nil
}

// ReplacePage stores a whole document decoded from canonical JSON
func (s *pageService) ReplacePage(ctx context.Context, id string, doc *models.PageDocument) (*models.PageDocument, error) {
	if doc.ID != "" && doc.ID != id {
		return nil, fmt.Errorf("%w: document id %q does not match path id %q", domain.ErrValidation, doc.ID, id)
	}
	if err := s.validateName(doc.Name); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	if err := CheckTree(s.library, doc.Widgets); err != nil {
		return nil, err
	}

	err := s.txm.ExecTx(ctx, func(txCtx context.Context) error {
		existing, err := s.repo.GetByID(txCtx, id)
		if err != nil {
			return err
		}

		doc.ID = id
		doc.CreatedAt = existing.CreatedAt
		if doc.Slug == "" || doc.Name != existing.Name {
			doc.Slug = Slugify(doc.Name)
		}
		slug, err := s.freeSlug(txCtx, doc.Slug, id)
		if err != nil {
			return err
		}
		doc.Slug = slug
		if doc.UpdatedAt.Before(existing.UpdatedAt) {
			doc.UpdatedAt = existing.UpdatedAt
		}
		doc.Touch()

		return s.repo.Update(txCtx, doc)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("page replaced", "id", id, "widget_count", doc.WidgetCount())
	return doc, nil
}

// DeletePage deletes a page
func (s *pageService) DeletePage(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("page deleted", "id", id)
	return nil
}

// AddWidget creates a widget from the library and inserts it into the page
func (s *pageService) AddWidget(ctx context.Context, pageID string, req *pageSvc.AddWidgetRequest) (*models.WidgetNode, error) {
	if err := validation.ValidateStruct(req,
		validation.Field(&req.Type, validation.Required),
	); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	widget, err := s.library.CreateWidget(req.Type, req.Content)
	if err != nil {
		return nil, err
	}

	position := math.MaxInt
	if req.Position != nil {
		position = *req.Position
	}

	err = s.mutate(ctx, pageID, func(doc *models.PageDocument) error {
		return InsertWidget(doc, widget, req.ParentID, position)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Debug("widget added",
		"page_id", pageID,
		"widget_id", widget.ID,
		"type", widget.Type,
		"parent_id", req.ParentID,
	)
	return widget, nil
}

// UpdateWidget applies a partial update to a widget
func (s *pageService) UpdateWidget(ctx context.Context, pageID, widgetID string, req *pageSvc.UpdateWidgetRequest) (*models.WidgetNode, error) {
	var updated *models.WidgetNode
	err := s.mutate(ctx, pageID, func(doc *models.PageDocument) error {
		if err := UpdateWidget(doc, widgetID, WidgetPatch{
			Content: req.Content,
			Style:   req.Style,
			Visible: req.Visible,
			Locked:  req.Locked,
		}); err != nil {
			return err
		}
		updated = FindWidget(doc.Widgets, widgetID)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// MoveWidget moves a widget within the page
func (s *pageService) MoveWidget(ctx context.Context, pageID, widgetID string, req *pageSvc.MoveWidgetRequest) (*models.PageDocument, error) {
	var result *models.PageDocument
	err := s.mutate(ctx, pageID, func(doc *models.PageDocument) error {
		if err := MoveWidget(doc, widgetID, req.ParentID, req.Position); err != nil {
			return err
		}
		result = doc
		return nil
	})
	if err != nil {
		if errors.Is(err, domain.ErrCyclicMove) {
			s.logger.Warn("cyclic move rejected", "page_id", pageID, "widget_id", widgetID, "target", req.ParentID)
		}
		return nil, err
	}
	return result, nil
}

// DuplicateWidget clones a widget next to the original
func (s *pageService) DuplicateWidget(ctx context.Context, pageID, widgetID string) (*models.WidgetNode, error) {
	var clone *models.WidgetNode
	err := s.mutate(ctx, pageID, func(doc *models.PageDocument) error {
		var err error
		clone, err = DuplicateInDocument(doc, widgetID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return clone, nil
}

// RemoveWidget removes a widget subtree
func (s *pageService) RemoveWidget(ctx context.Context, pageID, widgetID string) error {
	return s.mutate(ctx, pageID, func(doc *models.PageDocument) error {
		return RemoveFromDocument(doc, widgetID)
	})
}

// ValidatePage returns content warnings for a stored page
func (s *pageService) ValidatePage(ctx context.Context, id string) ([]string, error) {
	doc, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return ValidatePage(doc), nil
}

// mutate loads a page, applies fn and stores the result inside one transaction.
// fn's error aborts without saving.
func (s *pageService) mutate(ctx context.Context, pageID string, fn func(doc *models.PageDocument) error) error {
	return s.txm.ExecTx(ctx, func(txCtx context.Context) error {
		doc, err := s.repo.GetByID(txCtx, pageID)
		if err != nil {
			return err
		}
		if err := fn(doc); err != nil {
			return err
		}
		return s.repo.Update(txCtx, doc)
	})
}

// freeSlug returns base, or base with the lowest numeric suffix not used by another page
func (s *pageService) freeSlug(ctx context.Context, base, ownID string) (string, error) {
	candidate := base
	for i := 2; i <= maxSlugAttempts+1; i++ {
		existing, err := s.repo.GetBySlug(ctx, candidate)
		if errors.Is(err, domain.ErrNotFound) {
			return candidate, nil
		}
		if err != nil {
			return "", err
		}
		if existing.ID == ownID {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, i)
	}
	return "", &domain.ConflictError{
		Message:      fmt.Sprintf("no free slug for %q", base),
		ResourceType: "page",
	}
}

func (s *pageService) validateName(name string) error {
	return validation.Validate(strings.TrimSpace(name),
		validation.Required.Error("name is required"),
		validation.RuneLength(1, config.MaxPageNameLength),
	)
}
