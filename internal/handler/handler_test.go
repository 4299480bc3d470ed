package handler

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sitecraft/internal/config"
	"sitecraft/internal/domain/models/schema"
	"sitecraft/internal/repository/memory"
	"sitecraft/internal/service/convert"
	"sitecraft/internal/service/export"
	pageService "sitecraft/internal/service/page"
)

func newTestMux(t *testing.T) *http.ServeMux {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	library := pageService.DefaultLibrary()
	svc := pageService.NewPageService(memory.NewPageRepository(), memory.NewTransactionManager(), library, logger)
	converter := convert.NewConverter(library, nil, config.DefaultComplexityThreshold, schema.DomainServices, logger)

	h := &Handlers{
		Page:    NewPageHandler(svc, library, logger),
		Widget:  NewWidgetHandler(svc, library, logger),
		Export:  NewExportHandler(svc, export.NewExporterRegistry(false), export.NewBuilderImporter(library), library, logger),
		Convert: NewConvertHandler(converter, svc, logger),
	}
	mux := http.NewServeMux()
	h.Register(mux)
	return mux
}

func do(t *testing.T, mux http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func createPage(t *testing.T, mux http.Handler, name string) map[string]interface{} {
	t.Helper()
	rec := do(t, mux, http.MethodPost, "/api/pages", `{"name":"`+name+`"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode(t, rec)
}

func addWidget(t *testing.T, mux http.Handler, pageID, body string) map[string]interface{} {
	t.Helper()
	rec := do(t, mux, http.MethodPost, "/api/pages/"+pageID+"/widgets", body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode(t, rec)
}

func TestHealthCheck(t *testing.T) {
	rec := do(t, newTestMux(t), http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", decode(t, rec)["status"])
}

func TestPageLifecycle(t *testing.T) {
	mux := newTestMux(t)

	first := createPage(t, mux, "Padaria Central")
	assert.Equal(t, "padaria-central", first["slug"])
	second := createPage(t, mux, "Padaria Central")
	assert.Equal(t, "padaria-central-2", second["slug"])

	rec := do(t, mux, http.MethodGet, "/api/pages", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var summaries []map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &summaries))
	assert.Len(t, summaries, 2)

	id := first["id"].(string)
	rec = do(t, mux, http.MethodGet, "/api/pages/"+id, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Padaria Central", decode(t, rec)["name"])

	rec = do(t, mux, http.MethodPatch, "/api/pages/"+id, `{"name":"Padaria Sul"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "padaria-sul", decode(t, rec)["slug"])

	rec = do(t, mux, http.MethodDelete, "/api/pages/"+id, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(t, mux, http.MethodGet, "/api/pages/"+id, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "application/problem+json", rec.Header().Get("Content-Type"))
}

func TestCreatePage_BadRequests(t *testing.T) {
	mux := newTestMux(t)

	tests := []struct {
		name string
		body string
	}{
		{name: "empty name", body: `{"name":"  "}`},
		{name: "malformed JSON", body: `{"name":`},
		{name: "unknown widget type", body: `{"name":"x","widgets":[{"id":"a","type":"carousel"}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, mux, http.MethodPost, "/api/pages", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
			assert.Equal(t, float64(400), decode(t, rec)["status"])
		})
	}
}

func TestWidgetEdits(t *testing.T) {
	mux := newTestMux(t)
	pageID := createPage(t, mux, "Home")["id"].(string)

	section := addWidget(t, mux, pageID, `{"type":"section"}`)
	sectionID := section["id"].(string)
	heading := addWidget(t, mux, pageID, `{"type":"heading","parent_id":"`+sectionID+`","content":{"text":"Hello"}}`)
	headingID := heading["id"].(string)
	assert.Equal(t, "Hello", heading["content"].(map[string]interface{})["text"])

	t.Run("leaf cannot hold children", func(t *testing.T) {
		rec := do(t, mux, http.MethodPost, "/api/pages/"+pageID+"/widgets", `{"type":"text","parent_id":"`+headingID+`"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unknown type", func(t *testing.T) {
		rec := do(t, mux, http.MethodPost, "/api/pages/"+pageID+"/widgets", `{"type":"carousel"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, decode(t, rec)["detail"], "carousel")
	})

	t.Run("cyclic move", func(t *testing.T) {
		rec := do(t, mux, http.MethodPost, "/api/pages/"+pageID+"/widgets/"+sectionID+"/move", `{"parent_id":"`+headingID+`","position":0}`)
		assert.Equal(t, http.StatusConflict, rec.Code, rec.Body.String())
	})

	t.Run("move to root", func(t *testing.T) {
		rec := do(t, mux, http.MethodPost, "/api/pages/"+pageID+"/widgets/"+headingID+"/move", `{"parent_id":"","position":0}`)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		widgets := decode(t, rec)["widgets"].([]interface{})
		require.Len(t, widgets, 2)
		assert.Equal(t, headingID, widgets[0].(map[string]interface{})["id"])
	})

	t.Run("update", func(t *testing.T) {
		rec := do(t, mux, http.MethodPatch, "/api/pages/"+pageID+"/widgets/"+headingID, `{"content":{"text":"Bye"},"visible":false}`)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		body := decode(t, rec)
		assert.Equal(t, "Bye", body["content"].(map[string]interface{})["text"])
		assert.Equal(t, false, body["visible"])
	})

	t.Run("duplicate and remove", func(t *testing.T) {
		rec := do(t, mux, http.MethodPost, "/api/pages/"+pageID+"/widgets/"+headingID+"/duplicate", "")
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		cloneID := decode(t, rec)["id"].(string)
		assert.NotEqual(t, headingID, cloneID)

		rec = do(t, mux, http.MethodDelete, "/api/pages/"+pageID+"/widgets/"+cloneID, "")
		assert.Equal(t, http.StatusNoContent, rec.Code)

		rec = do(t, mux, http.MethodDelete, "/api/pages/"+pageID+"/widgets/"+cloneID, "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("missing page", func(t *testing.T) {
		rec := do(t, mux, http.MethodPost, "/api/pages/nope/widgets", `{"type":"text"}`)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestListWidgetTypes(t *testing.T) {
	rec := do(t, newTestMux(t), http.MethodGet, "/api/widgets", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var types []map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &types))
	require.Len(t, types, 13)
	assert.Equal(t, "heading", types[0]["type"])
	assert.Equal(t, false, types[0]["container"])
	assert.Equal(t, "spacer", types[12]["type"])
}

func TestExportPage(t *testing.T) {
	mux := newTestMux(t)
	pageID := createPage(t, mux, "Padaria Central")["id"].(string)
	addWidget(t, mux, pageID, `{"type":"heading","content":{"text":"Welcome to [CITY]"}}`)

	t.Run("html", func(t *testing.T) {
		rec := do(t, mux, http.MethodGet, "/api/pages/"+pageID+"/export/html", "")
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
		assert.Contains(t, rec.Body.String(), "Welcome to [CITY]")
		assert.Empty(t, rec.Header().Get("Content-Disposition"))
	})

	t.Run("field values", func(t *testing.T) {
		rec := do(t, mux, http.MethodPost, "/api/pages/"+pageID+"/export/html?fragment=true", `{"field_values":{"CITY":"Lisbon"}}`)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.Contains(t, rec.Body.String(), "Welcome to Lisbon")
		assert.NotContains(t, rec.Body.String(), "<html")
	})

	t.Run("download", func(t *testing.T) {
		rec := do(t, mux, http.MethodGet, "/api/pages/"+pageID+"/export/markdown?download=true", "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, `attachment; filename="padaria-central.md"`, rec.Header().Get("Content-Disposition"))
		assert.True(t, strings.HasPrefix(rec.Body.String(), "# Padaria Central"))
	})

	t.Run("unsupported format", func(t *testing.T) {
		rec := do(t, mux, http.MethodGet, "/api/pages/"+pageID+"/export/pdf", "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, decode(t, rec)["detail"], "builder, html, json, markdown")
	})

	t.Run("formats", func(t *testing.T) {
		rec := do(t, mux, http.MethodGet, "/api/export/formats", "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, []interface{}{"builder", "html", "json", "markdown"}, decode(t, rec)["formats"])
	})
}

func TestReplacePage_CanonicalRoundTrip(t *testing.T) {
	mux := newTestMux(t)
	pageID := createPage(t, mux, "Home")["id"].(string)
	addWidget(t, mux, pageID, `{"type":"text","content":{"text":"Original"}}`)

	rec := do(t, mux, http.MethodGet, "/api/pages/"+pageID+"/export/json", "")
	require.Equal(t, http.StatusOK, rec.Code)
	canonical := strings.Replace(rec.Body.String(), "Original", "Edited", 1)

	rec = do(t, mux, http.MethodPut, "/api/pages/"+pageID, canonical)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = do(t, mux, http.MethodGet, "/api/pages/"+pageID, "")
	widgets := decode(t, rec)["widgets"].([]interface{})
	require.Len(t, widgets, 1)
	assert.Equal(t, "Edited", widgets[0].(map[string]interface{})["content"].(map[string]interface{})["text"])

	rec = do(t, mux, http.MethodPut, "/api/pages/"+pageID, `{"name":"x"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestImport(t *testing.T) {
	mux := newTestMux(t)
	pageID := createPage(t, mux, "Home")["id"].(string)
	section := addWidget(t, mux, pageID, `{"type":"section"}`)
	addWidget(t, mux, pageID, `{"type":"button","parent_id":"`+section["id"].(string)+`","content":{"text":"Call us","link":"tel:123"}}`)

	t.Run("builder", func(t *testing.T) {
		rec := do(t, mux, http.MethodGet, "/api/pages/"+pageID+"/export/builder", "")
		require.Equal(t, http.StatusOK, rec.Code)

		rec = do(t, mux, http.MethodPost, "/api/pages/import/builder?name=Copy", rec.Body.String())
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		doc := decode(t, rec)
		assert.Equal(t, "Copy", doc["name"])
		assert.NotEqual(t, pageID, doc["id"])
		assert.Len(t, doc["widgets"], 1)
	})

	t.Run("canonical", func(t *testing.T) {
		rec := do(t, mux, http.MethodGet, "/api/pages/"+pageID+"/export/json", "")
		require.Equal(t, http.StatusOK, rec.Code)

		rec = do(t, mux, http.MethodPost, "/api/pages/import/json", rec.Body.String())
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		doc := decode(t, rec)
		assert.NotEqual(t, pageID, doc["id"])
		assert.Equal(t, "home-2", doc["slug"])
	})

	t.Run("invalid builder JSON", func(t *testing.T) {
		rec := do(t, mux, http.MethodPost, "/api/pages/import/builder", `{"content":`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestValidatePage(t *testing.T) {
	mux := newTestMux(t)
	pageID := createPage(t, mux, "Home")["id"].(string)

	rec := do(t, mux, http.MethodGet, "/api/pages/"+pageID+"/validate", "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, false, body["valid"])
	assert.Contains(t, body["warnings"], "widgets: page has no widgets")
	assert.Contains(t, body["warnings"], "seo.description: missing SEO description")

	rec = do(t, mux, http.MethodGet, "/api/pages/missing/validate", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

const convertBody = `{
	"template_name": "landing",
	"widgets": [
		{"id": "s", "type": "section", "content": {}, "style": {}, "visible": true, "children": [
			{"id": "h", "type": "heading", "content": {"text": "Telefone: (11) 99999-9999"}, "style": {}, "visible": true},
			{"id": "b", "type": "button", "content": {"text": "Fale conosco", "link": "tel:11999999999"}, "style": {}, "visible": true}
		]}
	]
}`

func TestConvert(t *testing.T) {
	mux := newTestMux(t)

	t.Run("full result", func(t *testing.T) {
		rec := do(t, mux, http.MethodPost, "/api/convert", convertBody)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		body := decode(t, rec)
		assert.NotEmpty(t, body["groups"])
		assert.NotEmpty(t, body["candidates"])
		report := body["report"].(map[string]interface{})
		assert.Equal(t, float64(3), report["total_widgets"])
	})

	t.Run("php artifact", func(t *testing.T) {
		rec := do(t, mux, http.MethodPost, "/api/convert?artifact=php", convertBody)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "sitecraft_fields_landing")
	})

	t.Run("acf artifact", func(t *testing.T) {
		rec := do(t, mux, http.MethodPost, "/api/convert?artifact=acf", convertBody)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, `attachment; filename="acf-export.json"`, rec.Header().Get("Content-Disposition"))
		assert.Contains(t, rec.Body.String(), "phone_number")
	})

	t.Run("unknown artifact", func(t *testing.T) {
		rec := do(t, mux, http.MethodPost, "/api/convert?artifact=zip", convertBody)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("empty tree", func(t *testing.T) {
		rec := do(t, mux, http.MethodPost, "/api/convert", `{"widgets":[]}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestConvertPage(t *testing.T) {
	mux := newTestMux(t)
	pageID := createPage(t, mux, "Landing")["id"].(string)
	addWidget(t, mux, pageID, `{"type":"heading","content":{"text":"Telefone: (11) 99999-9999"}}`)

	rec := do(t, mux, http.MethodPost, "/api/pages/"+pageID+"/convert?artifact=php", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), "sitecraft_fields_landing")

	rec = do(t, mux, http.MethodPost, "/api/pages/missing/convert", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
