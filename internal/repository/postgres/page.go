package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"sitecraft/internal/domain"
	models "sitecraft/internal/domain/models/page"
	"sitecraft/internal/domain/repositories"
)

// PostgresPageRepository implements PageRepository. The widget tree, settings
// and SEO block are stored as jsonb columns.
type PostgresPageRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
	logger *slog.Logger
}

// NewPageRepository creates a new page repository
func NewPageRepository(config *RepositoryConfig) repositories.PageRepository {
	return &PostgresPageRepository{
		pool:   config.Pool,
		tables: config.Tables,
		logger: config.Logger,
	}
}

// Create stores a new document
func (r *PostgresPageRepository) Create(ctx context.Context, doc *models.PageDocument) error {
	widgets, settings, seo, err := encodeDocument(doc)
	if err != nil {
		return err
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (id, name, slug, widgets, settings, seo, widget_count, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, r.tables.Pages)

	executor := GetExecutor(ctx, r.pool)
	_, err = executor.Exec(ctx, query,
		doc.ID,
		doc.Name,
		doc.Slug,
		widgets,
		settings,
		seo,
		doc.WidgetCount(),
		doc.CreatedAt,
		doc.UpdatedAt,
	)
	if err != nil {
		if isPgDuplicateError(err) {
			return r.slugConflict(ctx, doc.Slug)
		}
		return fmt.Errorf("create page: %w", err)
	}

	return nil
}

// GetByID retrieves a document by ID. Inside a transaction the row is locked
// until commit so concurrent edits of one page serialize.
func (r *PostgresPageRepository) GetByID(ctx context.Context, id string) (*models.PageDocument, error) {
	query := fmt.Sprintf(`
		SELECT id, name, slug, widgets, settings, seo, created_at, updated_at
		FROM %s
		WHERE id = $1
	`, r.tables.Pages)
	if repositories.GetTx(ctx) != nil {
		query += " FOR UPDATE"
	}

	executor := GetExecutor(ctx, r.pool)
	doc, err := scanDocument(executor.QueryRow(ctx, query, id))
	if err != nil {
		if isPgNoRowsError(err) {
			return nil, fmt.Errorf("page %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get page: %w", err)
	}
	return doc, nil
}

// GetBySlug retrieves a document by slug
func (r *PostgresPageRepository) GetBySlug(ctx context.Context, slug string) (*models.PageDocument, error) {
	query := fmt.Sprintf(`
		SELECT id, name, slug, widgets, settings, seo, created_at, updated_at
		FROM %s
		WHERE slug = $1
	`, r.tables.Pages)

	executor := GetExecutor(ctx, r.pool)
	doc, err := scanDocument(executor.QueryRow(ctx, query, slug))
	if err != nil {
		if isPgNoRowsError(err) {
			return nil, fmt.Errorf("page with slug %s: %w", slug, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get page by slug: %w", err)
	}
	return doc, nil
}

// Update replaces the stored document
func (r *PostgresPageRepository) Update(ctx context.Context, doc *models.PageDocument) error {
	widgets, settings, seo, err := encodeDocument(doc)
	if err != nil {
		return err
	}

	query := fmt.Sprintf(`
		UPDATE %s
		SET name = $1, slug = $2, widgets = $3, settings = $4, seo = $5,
		    widget_count = $6, updated_at = $7
		WHERE id = $8
	`, r.tables.Pages)

	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query,
		doc.Name,
		doc.Slug,
		widgets,
		settings,
		seo,
		doc.WidgetCount(),
		doc.UpdatedAt,
		doc.ID,
	)
	if err != nil {
		if isPgDuplicateError(err) {
			return r.slugConflict(ctx, doc.Slug)
		}
		return fmt.Errorf("update page: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("page %s: %w", doc.ID, domain.ErrNotFound)
	}

	return nil
}

// Delete deletes a document
func (r *PostgresPageRepository) Delete(ctx context.Context, id string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, r.tables.Pages)

	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete page: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("page %s: %w", id, domain.ErrNotFound)
	}

	return nil
}

// List returns summaries ordered by most recently updated
func (r *PostgresPageRepository) List(ctx context.Context) ([]models.PageSummary, error) {
	query := fmt.Sprintf(`
		SELECT id, name, slug, widget_count, updated_at
		FROM %s
		ORDER BY updated_at DESC, id ASC
	`, r.tables.Pages)

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list pages: %w", err)
	}
	defer rows.Close()

	summaries := []models.PageSummary{}
	for rows.Next() {
		var s models.PageSummary
		if err := rows.Scan(&s.ID, &s.Name, &s.Slug, &s.WidgetCount, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan page summary: %w", err)
		}
		s.UpdatedAt = s.UpdatedAt.UTC()
		summaries = append(summaries, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate pages: %w", err)
	}

	return summaries, nil
}

// slugConflict builds the ConflictError for a taken slug, naming the holder when it can be found
func (r *PostgresPageRepository) slugConflict(ctx context.Context, slug string) error {
	conflict := &domain.ConflictError{
		Message:      fmt.Sprintf("page with slug '%s' already exists", slug),
		ResourceType: "page",
	}

	query := fmt.Sprintf(`SELECT id FROM %s WHERE slug = $1`, r.tables.Pages)
	var existingID string
	// The failed statement aborts a surrounding transaction, so only look up outside one
	if repositories.GetTx(ctx) == nil {
		if err := r.pool.QueryRow(ctx, query, slug).Scan(&existingID); err != nil {
			r.logger.Debug("conflicting page lookup failed", "slug", slug, "error", err)
		}
	}
	conflict.ResourceID = existingID
	return conflict
}

func encodeDocument(doc *models.PageDocument) (widgets, settings, seo []byte, err error) {
	tree := doc.Widgets
	if tree == nil {
		tree = []*models.WidgetNode{}
	}
	if widgets, err = json.Marshal(tree); err != nil {
		return nil, nil, nil, fmt.Errorf("encode widgets: %w", err)
	}

	meta := doc.Settings
	if meta == nil {
		meta = map[string]any{}
	}
	if settings, err = json.Marshal(meta); err != nil {
		return nil, nil, nil, fmt.Errorf("encode settings: %w", err)
	}

	if seo, err = json.Marshal(doc.SEO); err != nil {
		return nil, nil, nil, fmt.Errorf("encode seo: %w", err)
	}
	return widgets, settings, seo, nil
}

func scanDocument(row pgx.Row) (*models.PageDocument, error) {
	var doc models.PageDocument
	var widgets, settings, seo []byte
	if err := row.Scan(
		&doc.ID,
		&doc.Name,
		&doc.Slug,
		&widgets,
		&settings,
		&seo,
		&doc.CreatedAt,
		&doc.UpdatedAt,
	); err != nil {
		return nil, err
	}

	if err := json.Unmarshal(widgets, &doc.Widgets); err != nil {
		return nil, fmt.Errorf("decode widgets of page %s: %w", doc.ID, err)
	}
	if err := json.Unmarshal(settings, &doc.Settings); err != nil {
		return nil, fmt.Errorf("decode settings of page %s: %w", doc.ID, err)
	}
	if err := json.Unmarshal(seo, &doc.SEO); err != nil {
		return nil, fmt.Errorf("decode seo of page %s: %w", doc.ID, err)
	}
	if doc.Widgets == nil {
		doc.Widgets = []*models.WidgetNode{}
	}
	if doc.Settings == nil {
		doc.Settings = map[string]any{}
	}
	doc.CreatedAt = doc.CreatedAt.UTC()
	doc.UpdatedAt = doc.UpdatedAt.UTC()
	return &doc, nil
}
