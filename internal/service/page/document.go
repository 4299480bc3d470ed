package page

import (
	"strings"
	"unicode"

	"github.com/google/uuid"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"sitecraft/internal/config"
	models "sitecraft/internal/domain/models/page"
)

// NewPageDocument creates an empty document named name
func NewPageDocument(name string) *models.PageDocument {
	now := models.Now()
	name = strings.TrimSpace(name)
	return &models.PageDocument{
		ID:        uuid.NewString(),
		Name:      name,
		Slug:      Slugify(name),
		Widgets:   []*models.WidgetNode{},
		Settings:  map[string]any{},
		SEO:       models.SEO{Title: name},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Rename changes the document name and re-derives its slug
func Rename(doc *models.PageDocument, name string) {
	doc.Name = strings.TrimSpace(name)
	doc.Slug = Slugify(doc.Name)
	doc.Touch()
}

// Slugify derives a URL-safe slug: accents folded, lowercase ASCII letters and
// digits, single hyphens between words.
func Slugify(name string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, name)
	if err != nil {
		folded = name
	}

	var b strings.Builder
	pendingHyphen := false
	for _, r := range strings.ToLower(folded) {
		switch {
		case r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)):
			if pendingHyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingHyphen = false
			b.WriteRune(r)
		default:
			pendingHyphen = true
		}
	}

	slug := b.String()
	if len(slug) > config.MaxSlugLength {
		slug = slug[:config.MaxSlugLength]
		if cut := strings.LastIndexByte(slug, '-'); cut > 0 {
			slug = slug[:cut]
		}
	}
	if slug == "" {
		return "page"
	}
	return slug
}
