package export

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sitecraft/internal/domain"
	models "sitecraft/internal/domain/models/page"
	exportSvc "sitecraft/internal/domain/services/export"
)

func TestCanonical_RoundTrip(t *testing.T) {
	var widgets []*models.WidgetNode
	for _, typ := range lib().Types() {
		widgets = append(widgets, newWidget(t, typ, nil))
	}
	container := widgets[4]
	require.True(t, container.Type.IsContainer())
	container.Children = append(container.Children, newWidget(t, models.WidgetText, map[string]any{"text": "Nested"}))
	widgets[0].Visible = false
	widgets[1].Locked = true
	widgets[2].Style["margin"] = models.Box(models.BoxModel{Top: "8px"})

	doc := docWith(widgets...)
	doc.SEO.Keywords = []string{"bread"}
	doc.Settings["lang"] = "pt-BR"

	data, err := EncodeCanonical(doc)
	require.NoError(t, err)

	decoded, err := DecodeCanonical(data, lib())
	require.NoError(t, err)
	assert.Equal(t, doc, decoded)
}

func TestCanonical_ExporterIgnoresOptions(t *testing.T) {
	doc := docWith(leaf("h", models.WidgetHeading, map[string]any{"text": "[business_name]"}))

	out, err := NewCanonicalExporter().Export(context.Background(), doc, exportSvc.Options{
		FieldValues: map[string]string{"business_name": "Padaria"},
		Minify:      true,
	})
	require.NoError(t, err)

	encoded, err := EncodeCanonical(doc)
	require.NoError(t, err)
	assert.Equal(t, encoded, out)
}

func TestCanonical_MissingVisibleMeansVisible(t *testing.T) {
	data := []byte(`{"id": "p1", "name": "Home", "widgets": [{"id": "t1", "type": "text", "content": {"text": "Hi"}}]}`)

	doc, err := DecodeCanonical(data, lib())
	require.NoError(t, err)
	require.Len(t, doc.Widgets, 1)
	assert.True(t, doc.Widgets[0].Visible)
}

func TestCanonical_Rejects(t *testing.T) {
	tests := []struct {
		name   string
		doc    map[string]any
		target error
	}{
		{
			name:   "missing widgets",
			doc:    map[string]any{"id": "p1", "name": "Home"},
			target: domain.ErrValidation,
		},
		{
			name:   "bad slug",
			doc:    map[string]any{"id": "p1", "name": "Home", "slug": "Not A Slug", "widgets": []any{}},
			target: domain.ErrValidation,
		},
		{
			name: "widget without type",
			doc: map[string]any{"id": "p1", "name": "Home", "widgets": []any{
				map[string]any{"id": "w1"},
			}},
			target: domain.ErrValidation,
		},
		{
			name: "bad style value",
			doc: map[string]any{"id": "p1", "name": "Home", "widgets": []any{
				map[string]any{"id": "w1", "type": "text", "style": map[string]any{"color": []any{"red"}}},
			}},
			target: domain.ErrValidation,
		},
		{
			name: "unknown type",
			doc: map[string]any{"id": "p1", "name": "Home", "widgets": []any{
				map[string]any{"id": "w1", "type": "carousel"},
			}},
			target: domain.ErrUnknownWidgetType,
		},
		{
			name: "duplicate ids",
			doc: map[string]any{"id": "p1", "name": "Home", "widgets": []any{
				map[string]any{"id": "w1", "type": "text"},
				map[string]any{"id": "w1", "type": "heading"},
			}},
			target: domain.ErrDuplicateWidgetID,
		},
		{
			name: "children under a leaf",
			doc: map[string]any{"id": "p1", "name": "Home", "widgets": []any{
				map[string]any{"id": "w1", "type": "text", "children": []any{
					map[string]any{"id": "w2", "type": "text"},
				}},
			}},
			target: domain.ErrInvalidParent,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := json.Marshal(tt.doc)
			require.NoError(t, err)

			_, err = DecodeCanonical(data, lib())
			assert.ErrorIs(t, err, tt.target)
		})
	}

	_, err := DecodeCanonical([]byte(`{"id": `), lib())
	assert.ErrorIs(t, err, domain.ErrValidation)
}
