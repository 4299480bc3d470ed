package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sitecraft/internal/domain"
	models "sitecraft/internal/domain/models/page"
)

func newDoc(id, slug string, updated time.Time) *models.PageDocument {
	return &models.PageDocument{
		ID:   id,
		Name: slug,
		Slug: slug,
		Widgets: []*models.WidgetNode{{
			ID:      "w1",
			Type:    models.WidgetSection,
			Content: models.WidgetContent{},
			Style:   models.WidgetStyle{},
			Visible: true,
			Children: []*models.WidgetNode{
				{ID: "w2", Type: models.WidgetHeading, Content: models.WidgetContent{"text": "Hi"}, Style: models.WidgetStyle{}, Visible: true},
			},
		}},
		Settings:  map[string]any{},
		CreatedAt: updated,
		UpdatedAt: updated,
	}
}

func TestPageRepository_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	repo := NewPageRepository()
	doc := newDoc("p1", "home", time.Now().UTC())

	require.NoError(t, repo.Create(ctx, doc))

	got, err := repo.GetByID(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, doc, got)

	bySlug, err := repo.GetBySlug(ctx, "home")
	require.NoError(t, err)
	assert.Equal(t, "p1", bySlug.ID)
}

func TestPageRepository_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	repo := NewPageRepository()
	doc := newDoc("p1", "home", time.Now().UTC())
	require.NoError(t, repo.Create(ctx, doc))

	doc.Widgets[0].Children[0].Content["text"] = "changed"
	got, err := repo.GetByID(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, "Hi", got.Widgets[0].Children[0].ContentString("text"))

	got.Name = "mutated"
	again, err := repo.GetByID(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, "home", again.Name)
}

func TestPageRepository_Conflicts(t *testing.T) {
	ctx := context.Background()
	repo := NewPageRepository()
	require.NoError(t, repo.Create(ctx, newDoc("p1", "home", time.Now().UTC())))
	require.NoError(t, repo.Create(ctx, newDoc("p2", "about", time.Now().UTC())))

	err := repo.Create(ctx, newDoc("p3", "home", time.Now().UTC()))
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrConflict))
	var conflict *domain.ConflictError
	require.True(t, errors.As(err, &conflict))
	assert.Equal(t, "p1", conflict.ResourceID)

	err = repo.Create(ctx, newDoc("p1", "other", time.Now().UTC()))
	assert.True(t, errors.Is(err, domain.ErrConflict))

	renamed := newDoc("p2", "home", time.Now().UTC())
	err = repo.Update(ctx, renamed)
	assert.True(t, errors.Is(err, domain.ErrConflict))
}

func TestPageRepository_NotFound(t *testing.T) {
	ctx := context.Background()
	repo := NewPageRepository()

	_, err := repo.GetByID(ctx, "missing")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
	_, err = repo.GetBySlug(ctx, "missing")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
	assert.True(t, errors.Is(repo.Update(ctx, newDoc("missing", "x", time.Now())), domain.ErrNotFound))
	assert.True(t, errors.Is(repo.Delete(ctx, "missing"), domain.ErrNotFound))
}

func TestPageRepository_UpdateAndDelete(t *testing.T) {
	ctx := context.Background()
	repo := NewPageRepository()
	doc := newDoc("p1", "home", time.Now().UTC())
	require.NoError(t, repo.Create(ctx, doc))

	doc.Name = "Start"
	doc.Slug = "start"
	require.NoError(t, repo.Update(ctx, doc))

	_, err := repo.GetBySlug(ctx, "home")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
	got, err := repo.GetBySlug(ctx, "start")
	require.NoError(t, err)
	assert.Equal(t, "Start", got.Name)

	require.NoError(t, repo.Delete(ctx, "p1"))
	_, err = repo.GetByID(ctx, "p1")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestPageRepository_ListOrder(t *testing.T) {
	ctx := context.Background()
	repo := NewPageRepository()
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, repo.Create(ctx, newDoc("b", "older", base)))
	require.NoError(t, repo.Create(ctx, newDoc("c", "newest", base.Add(time.Hour))))
	require.NoError(t, repo.Create(ctx, newDoc("a", "tied", base)))

	summaries, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, summaries, 3)
	assert.Equal(t, "c", summaries[0].ID)
	assert.Equal(t, "a", summaries[1].ID)
	assert.Equal(t, "b", summaries[2].ID)
	assert.Equal(t, 2, summaries[0].WidgetCount)
}

func TestPageRepository_ListEmpty(t *testing.T) {
	summaries, err := NewPageRepository().List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, summaries)
	assert.Empty(t, summaries)
}
