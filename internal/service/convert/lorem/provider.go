package lorem

import (
	"context"
	"strings"
	"sync"
	"time"

	loremgen "github.com/bozaro/golorem"

	"sitecraft/internal/domain/models/schema"
	convertSvc "sitecraft/internal/domain/services/convert"
)

// Provider fills a field schema with lorem ipsum preview values.
// Used for template previews without a real generation backend.
type Provider struct {
	mu        sync.Mutex // the generator is not safe for concurrent use
	generator *loremgen.Lorem
	now       func() time.Time
}

var _ convertSvc.GenerationProvider = (*Provider)(nil)

// NewProvider creates a new lorem ipsum provider.
func NewProvider() *Provider {
	return &Provider{
		generator: loremgen.New(),
		now:       time.Now,
	}
}

// Name returns the provider name.
func (p *Provider) Name() string {
	return "lorem"
}

// GenerateValues returns one preview value per field. Repeater fields are
// left out so they keep their defaults.
func (p *Provider) GenerateValues(ctx context.Context, groups []schema.FieldGroup) (map[string]string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	values := make(map[string]string)
	for _, g := range groups {
		for _, f := range g.Fields {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			if v := p.valueFor(f); v != "" {
				values[f.Name] = v
			}
		}
	}
	return values, nil
}

func (p *Provider) valueFor(f schema.Field) string {
	name := f.Name
	switch {
	case strings.Contains(name, "phone"), strings.Contains(name, "whatsapp"):
		return "+1 555 0100"
	case strings.Contains(name, "price"):
		return "$99"
	case strings.Contains(name, "discount"):
		return "20%"
	}

	switch f.Type {
	case schema.FieldEmail:
		return "contact@" + p.word() + ".example"
	case schema.FieldURL:
		return "https://" + p.word() + ".example.com"
	case schema.FieldImage:
		return "https://placehold.co/600x400?text=" + name
	case schema.FieldDate:
		return p.now().AddDate(0, 1, 0).Format("2006-01-02")
	case schema.FieldTextarea:
		return p.generator.Paragraph(2, 4)
	case schema.FieldRepeater:
		return ""
	default:
		if strings.Contains(name, "name") || strings.Contains(name, "title") {
			return strings.TrimSuffix(p.generator.Sentence(2, 5), ".")
		}
		return p.generator.Sentence(4, 10)
	}
}

func (p *Provider) word() string {
	words := strings.Fields(p.generator.Sentence(1, 2))
	if len(words) == 0 {
		return "lorem"
	}
	return strings.ToLower(strings.Trim(words[0], ".,"))
}
