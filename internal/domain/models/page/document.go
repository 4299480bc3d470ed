package page

import (
	"time"
)

// SEO holds page-level search metadata
type SEO struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Keywords    []string `json:"keywords"`
	OGImage     string   `json:"og_image"`
}

// PageDocument is a named ordered forest of widgets plus page-level metadata
type PageDocument struct {
	ID        string         `json:"id" db:"id"`
	Name      string         `json:"name" db:"name"`
	Slug      string         `json:"slug" db:"slug"`
	Widgets   []*WidgetNode  `json:"widgets" db:"widgets"`
	Settings  map[string]any `json:"settings" db:"settings"`
	SEO       SEO            `json:"seo" db:"seo"`
	CreatedAt time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt time.Time      `json:"updated_at" db:"updated_at"`
}

// Timestamps are kept at microsecond precision, the resolution of timestamptz.
const timestampPrecision = time.Microsecond

// Now returns the current UTC time at stored precision
func Now() time.Time {
	return time.Now().UTC().Truncate(timestampPrecision)
}

// Touch advances UpdatedAt. The new value is always strictly after the previous one,
// even when the wall clock has not moved.
func (d *PageDocument) Touch() {
	now := Now()
	if !now.After(d.UpdatedAt) {
		now = d.UpdatedAt.Truncate(timestampPrecision).Add(timestampPrecision)
	}
	d.UpdatedAt = now
}

// Walk visits every widget of every root depth-first
func (d *PageDocument) Walk(fn func(node *WidgetNode, depth int) bool) {
	for _, root := range d.Widgets {
		root.Walk(fn)
	}
}

// WidgetCount returns the total number of widgets in the document
func (d *PageDocument) WidgetCount() int {
	count := 0
	d.Walk(func(*WidgetNode, int) bool {
		count++
		return true
	})
	return count
}

// Clone returns a deep copy of the document
func (d *PageDocument) Clone() *PageDocument {
	out := *d
	out.Settings = CloneMap(d.Settings)
	if d.SEO.Keywords != nil {
		out.SEO.Keywords = append([]string{}, d.SEO.Keywords...)
	}
	if d.Widgets != nil {
		out.Widgets = make([]*WidgetNode, len(d.Widgets))
		for i, w := range d.Widgets {
			out.Widgets[i] = w.Clone()
		}
	}
	return &out
}

// PageSummary is the listing view of a document (no widget tree)
type PageSummary struct {
	ID          string    `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Slug        string    `json:"slug" db:"slug"`
	WidgetCount int       `json:"widget_count" db:"widget_count"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}
