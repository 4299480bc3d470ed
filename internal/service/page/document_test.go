package page

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "simple", in: "Hello World", want: "hello-world"},
		{name: "accents folded", in: "Clínica São João", want: "clinica-sao-joao"},
		{name: "punctuation collapsed", in: "  Bob's -- Burgers!! ", want: "bob-s-burgers"},
		{name: "digits kept", in: "Promo 2024", want: "promo-2024"},
		{name: "nothing usable", in: "!!!", want: "page"},
		{name: "non latin dropped", in: "日本", want: "page"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Slugify(tt.in))
		})
	}
}

func TestSlugify_Truncates(t *testing.T) {
	slug := Slugify(strings.Repeat("word ", 40))
	assert.LessOrEqual(t, len(slug), 96)
	assert.False(t, strings.HasSuffix(slug, "-"))
	assert.True(t, strings.HasPrefix(slug, "word-word"))
}

func TestNewPageDocument(t *testing.T) {
	doc := NewPageDocument("  Padaria Central ")

	assert.NotEmpty(t, doc.ID)
	assert.Equal(t, "Padaria Central", doc.Name)
	assert.Equal(t, "padaria-central", doc.Slug)
	assert.Equal(t, "Padaria Central", doc.SEO.Title)
	assert.NotNil(t, doc.Widgets)
	assert.Equal(t, time.UTC, doc.CreatedAt.Location())
	assert.Equal(t, doc.CreatedAt, doc.UpdatedAt)
}

func TestTouch_StrictlyIncreases(t *testing.T) {
	doc := NewPageDocument("Clock")
	// a timestamp in the future forces the fallback path
	doc.UpdatedAt = time.Now().UTC().Add(time.Hour)

	prev := doc.UpdatedAt
	for i := 0; i < 5; i++ {
		doc.Touch()
		assert.True(t, doc.UpdatedAt.After(prev))
		prev = doc.UpdatedAt
	}
}

func TestRename(t *testing.T) {
	doc := NewPageDocument("Old")
	before := doc.UpdatedAt

	Rename(doc, "New Name")
	assert.Equal(t, "new-name", doc.Slug)
	assert.True(t, doc.UpdatedAt.After(before))
}
