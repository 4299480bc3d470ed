package page

import (
	"fmt"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"sitecraft/internal/config"
	models "sitecraft/internal/domain/models/page"
)

// ValidatePage reports content problems in doc. It never fails: every problem
// is a path-qualified warning and the document stays usable.
func ValidatePage(doc *models.PageDocument) []string {
	warnings := []string{}
	if doc == nil {
		return append(warnings, "page: document is nil")
	}

	title := strings.TrimSpace(doc.SEO.Title)
	if err := validation.Validate(title, validation.Required); err != nil {
		warnings = append(warnings, "seo.title: missing SEO title")
	} else if err := validation.Validate(title, validation.RuneLength(0, config.MaxSEOTitleLength)); err != nil {
		warnings = append(warnings, fmt.Sprintf("seo.title: SEO title longer than %d characters", config.MaxSEOTitleLength))
	}

	description := strings.TrimSpace(doc.SEO.Description)
	if err := validation.Validate(description, validation.Required); err != nil {
		warnings = append(warnings, "seo.description: missing SEO description")
	} else if err := validation.Validate(description, validation.RuneLength(0, config.MaxSEODescriptionLength)); err != nil {
		warnings = append(warnings, fmt.Sprintf("seo.description: SEO description longer than %d characters", config.MaxSEODescriptionLength))
	}

	if len(doc.Widgets) == 0 {
		warnings = append(warnings, "widgets: page has no widgets")
	}

	for i, root := range doc.Widgets {
		warnings = validateWidget(root, fmt.Sprintf("widgets[%d]", i), warnings)
	}
	return warnings
}

func validateWidget(w *models.WidgetNode, path string, warnings []string) []string {
	if w == nil {
		return append(warnings, path+": widget is nil")
	}
	where := fmt.Sprintf("%s (%s %s)", path, w.Type, w.ID)

	switch w.Type {
	case models.WidgetImage:
		if strings.TrimSpace(w.ContentString("src")) == "" {
			warnings = append(warnings, where+": image is missing source")
		}
	case models.WidgetButton:
		if strings.TrimSpace(w.ContentString("link")) == "" {
			warnings = append(warnings, where+": button is missing link")
		}
	case models.WidgetWhatsApp:
		if Digits(w.ContentString("phone")) == "" {
			warnings = append(warnings, where+": whatsapp widget has no phone number")
		}
	}

	for i, child := range w.Children {
		warnings = validateWidget(child, fmt.Sprintf("%s.children[%d]", path, i), warnings)
	}
	return warnings
}

// Digits keeps only the ASCII digits of s
func Digits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
