package export

import (
	"context"
	"fmt"
	"html"
	"net/url"
	"strings"
	"sync"

	"github.com/tdewolff/minify/v2"
	mhtml "github.com/tdewolff/minify/v2/html"

	"sitecraft/internal/domain"
	models "sitecraft/internal/domain/models/page"
	exportSvc "sitecraft/internal/domain/services/export"
	"sitecraft/internal/service/convert"
	pageService "sitecraft/internal/service/page"
)

var (
	minifier     *minify.M
	minifierOnce sync.Once
)

func getMinifier() *minify.M {
	minifierOnce.Do(func() {
		minifier = minify.New()
		minifier.AddFunc("text/html", mhtml.Minify)
	})
	return minifier
}

// htmlExporter renders a page as HTML with inline styles
type htmlExporter struct {
	sanitizer *textSanitizer
	minify    bool
}

// NewHTMLExporter creates the HTML exporter. When minifyByDefault is set every
// export is minified, otherwise only exports that ask for it.
func NewHTMLExporter(minifyByDefault bool) exportSvc.Exporter {
	return &htmlExporter{
		sanitizer: newTextSanitizer(),
		minify:    minifyByDefault,
	}
}

func (e *htmlExporter) Name() string        { return "html" }
func (e *htmlExporter) ContentType() string { return "text/html; charset=utf-8" }

// Export renders doc. Invisible widgets are skipped together with their subtree.
func (e *htmlExporter) Export(ctx context.Context, doc *models.PageDocument, opts exportSvc.Options) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r := &renderer{sanitizer: e.sanitizer, values: opts.FieldValues}
	if err := r.renderNodes(doc.Widgets); err != nil {
		return nil, err
	}

	out := r.b.String()
	if !opts.Fragment {
		out = e.wrapDocument(doc, out, opts.FieldValues)
	}

	if opts.Minify || e.minify {
		minified, err := getMinifier().String("text/html", out)
		if err != nil {
			return nil, fmt.Errorf("minify html: %w", err)
		}
		out = minified
	}
	return []byte(out), nil
}

func (e *htmlExporter) wrapDocument(doc *models.PageDocument, body string, values map[string]string) string {
	title := doc.SEO.Title
	if strings.TrimSpace(title) == "" {
		title = doc.Name
	}
	lang, _ := doc.Settings["lang"].(string)
	if lang == "" {
		lang = "en"
	}
	sub := func(s string) string { return html.EscapeString(convert.SubstitutePlaceholders(s, values)) }

	var b strings.Builder
	b.WriteString("<!DOCTYPE html>\n<html lang=\"" + html.EscapeString(lang) + "\">\n<head>\n")
	b.WriteString("<meta charset=\"utf-8\">\n")
	b.WriteString("<meta name=\"viewport\" content=\"width=device-width, initial-scale=1\">\n")
	b.WriteString("<title>" + sub(title) + "</title>\n")
	if doc.SEO.Description != "" {
		b.WriteString("<meta name=\"description\" content=\"" + sub(doc.SEO.Description) + "\">\n")
	}
	if len(doc.SEO.Keywords) > 0 {
		b.WriteString("<meta name=\"keywords\" content=\"" + sub(strings.Join(doc.SEO.Keywords, ", ")) + "\">\n")
	}
	b.WriteString("<meta property=\"og:title\" content=\"" + sub(title) + "\">\n")
	if img := safeURL(doc.SEO.OGImage); img != "" {
		b.WriteString("<meta property=\"og:image\" content=\"" + html.EscapeString(img) + "\">\n")
	}
	b.WriteString("</head>\n<body>\n")
	b.WriteString(body)
	b.WriteString("</body>\n</html>\n")
	return b.String()
}

type attr struct {
	name  string
	value string
}

type renderFunc func(r *renderer, w *models.WidgetNode) error

// htmlRenderers holds one renderer per widget type
var htmlRenderers map[models.WidgetType]renderFunc

func init() {
	htmlRenderers = map[models.WidgetType]renderFunc{
		models.WidgetText:        renderText,
		models.WidgetHeading:     renderHeading,
		models.WidgetImage:       renderImage,
		models.WidgetButton:      renderButton,
		models.WidgetContainer:   renderContainer,
		models.WidgetSection:     renderSection,
		models.WidgetForm:        renderForm,
		models.WidgetWhatsApp:    renderWhatsApp,
		models.WidgetVideo:       renderVideo,
		models.WidgetIconList:    renderIconList,
		models.WidgetTestimonial: renderTestimonial,
		models.WidgetDivider:     renderDivider,
		models.WidgetSpacer:      renderSpacer,
	}
}

type renderer struct {
	b         strings.Builder
	sanitizer *textSanitizer
	values    map[string]string
}

func (r *renderer) renderNodes(nodes []*models.WidgetNode) error {
	for _, w := range nodes {
		if w == nil || !w.Visible {
			continue
		}
		render, ok := htmlRenderers[w.Type]
		if !ok {
			return &domain.UnknownWidgetTypeError{Type: string(w.Type)}
		}
		if err := render(r, w); err != nil {
			return err
		}
	}
	return nil
}

// raw returns a content field with placeholders substituted, unescaped
func (r *renderer) raw(w *models.WidgetNode, key string) string {
	return convert.SubstitutePlaceholders(w.ContentString(key), r.values)
}

// text returns a content field ready to be written as element content
func (r *renderer) text(w *models.WidgetNode, key string) string {
	return r.sanitizer.Sanitize(r.raw(w, key))
}

// open writes the start tag of a widget element
func (r *renderer) open(tag string, w *models.WidgetNode, attrs ...attr) {
	r.b.WriteString("<" + tag)
	r.writeAttr("data-widget-id", w.ID)
	class := "sc-widget sc-" + strings.ReplaceAll(string(w.Type), "_", "-")
	if extra := w.SettingString("css_classes"); extra != "" {
		class += " " + extra
	}
	r.writeAttr("class", class)
	for _, a := range attrs {
		if a.value == "" && a.name != "alt" {
			continue
		}
		r.writeAttr(a.name, a.value)
	}
	if css := pageService.InlineCSS(pageService.ResolveStyle(w.Style, pageService.StyleFormatCSS)); css != "" {
		r.writeAttr("style", css)
	}
	r.b.WriteString(">")
}

func (r *renderer) close(tag string) {
	r.b.WriteString("</" + tag + ">\n")
}

func (r *renderer) writeAttr(name, value string) {
	r.b.WriteString(" " + name + "=\"" + html.EscapeString(value) + "\"")
}

func renderText(r *renderer, w *models.WidgetNode) error {
	tag := pickTag(w.ContentString("tag"), "p", "p", "span", "blockquote", "h1", "h2", "h3", "h4", "h5", "h6")
	r.open(tag, w)
	r.b.WriteString(r.text(w, "text"))
	r.close(tag)
	return nil
}

func renderHeading(r *renderer, w *models.WidgetNode) error {
	tag := pickTag(w.ContentString("tag"), "h2", "h1", "h2", "h3", "h4", "h5", "h6")
	r.open(tag, w)
	r.b.WriteString(r.text(w, "text"))
	r.close(tag)
	return nil
}

func renderImage(r *renderer, w *models.WidgetNode) error {
	r.open("img", w,
		attr{"src", safeURL(r.raw(w, "src"))},
		attr{"alt", r.raw(w, "alt")},
	)
	r.b.WriteString("\n")
	return nil
}

func renderButton(r *renderer, w *models.WidgetNode) error {
	attrs := []attr{{"href", safeURL(r.raw(w, "link"))}}
	if w.ContentString("target") == "_blank" {
		attrs = append(attrs, attr{"target", "_blank"}, attr{"rel", "noopener noreferrer"})
	}
	r.open("a", w, attrs...)
	r.b.WriteString(r.text(w, "text"))
	r.close("a")
	return nil
}

func renderContainer(r *renderer, w *models.WidgetNode) error {
	r.open("div", w)
	r.b.WriteString("\n")
	if err := r.renderNodes(w.Children); err != nil {
		return err
	}
	r.close("div")
	return nil
}

func renderSection(r *renderer, w *models.WidgetNode) error {
	tag := pickTag(w.ContentString("tag"), "section", "section", "header", "footer", "main", "article", "aside", "nav", "div")
	r.open(tag, w)
	r.b.WriteString("\n")
	if err := r.renderNodes(w.Children); err != nil {
		return err
	}
	r.close(tag)
	return nil
}

func renderForm(r *renderer, w *models.WidgetNode) error {
	r.open("form", w,
		attr{"method", "post"},
		attr{"action", safeURL(r.raw(w, "action"))},
	)
	r.b.WriteString("\n")
	if title := r.text(w, "title"); title != "" {
		r.b.WriteString("<h3>" + title + "</h3>\n")
	}

	fields, _ := w.Content["fields"].([]any)
	for _, raw := range fields {
		field, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		name, _ := field["name"].(string)
		label, _ := field["label"].(string)
		typ, _ := field["type"].(string)
		if name == "" {
			continue
		}
		required, _ := field["required"].(bool)

		r.b.WriteString("<label>" + r.sanitizer.Sanitize(label))
		if typ == "textarea" {
			r.b.WriteString("<textarea name=\"" + html.EscapeString(name) + "\"")
		} else {
			if typ == "" {
				typ = "text"
			}
			r.b.WriteString("<input type=\"" + html.EscapeString(typ) + "\" name=\"" + html.EscapeString(name) + "\"")
		}
		if required {
			r.b.WriteString(" required")
		}
		if typ == "textarea" {
			r.b.WriteString("></textarea></label>\n")
		} else {
			r.b.WriteString("></label>\n")
		}
	}

	submit := r.text(w, "submit_text")
	if submit == "" {
		submit = "Send"
	}
	r.b.WriteString("<button type=\"submit\">" + submit + "</button>\n")
	r.close("form")
	return nil
}

func renderWhatsApp(r *renderer, w *models.WidgetNode) error {
	label := r.text(w, "text")
	if label == "" {
		label = "WhatsApp"
	}
	r.open("a", w,
		attr{"href", WhatsAppURL(r.raw(w, "phone"), r.raw(w, "message"))},
		attr{"target", "_blank"},
		attr{"rel", "noopener noreferrer"},
	)
	r.b.WriteString(label)
	r.close("a")
	return nil
}

func renderVideo(r *renderer, w *models.WidgetNode) error {
	r.open("iframe", w,
		attr{"src", safeURL(r.raw(w, "url"))},
		attr{"title", r.raw(w, "title")},
		attr{"allowfullscreen", "true"},
	)
	r.close("iframe")
	return nil
}

func renderIconList(r *renderer, w *models.WidgetNode) error {
	r.open("ul", w)
	r.b.WriteString("\n")
	items, _ := w.Content["items"].([]any)
	for _, raw := range items {
		item, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		icon, _ := item["icon"].(string)
		text, _ := item["text"].(string)
		r.b.WriteString("<li>")
		if icon != "" {
			r.b.WriteString("<span class=\"sc-icon\">" + r.sanitizer.Sanitize(icon) + "</span> ")
		}
		r.b.WriteString(r.sanitizer.Sanitize(convert.SubstitutePlaceholders(text, r.values)))
		r.b.WriteString("</li>\n")
	}
	r.close("ul")
	return nil
}

func renderTestimonial(r *renderer, w *models.WidgetNode) error {
	r.open("blockquote", w)
	r.b.WriteString("<p>" + r.text(w, "quote") + "</p>")
	cite := r.text(w, "author")
	if role := r.text(w, "role"); role != "" {
		cite += ", " + role
	}
	if cite != "" {
		r.b.WriteString("<cite>" + cite + "</cite>")
	}
	r.close("blockquote")
	return nil
}

func renderDivider(r *renderer, w *models.WidgetNode) error {
	r.open("hr", w)
	r.b.WriteString("\n")
	return nil
}

func renderSpacer(r *renderer, w *models.WidgetNode) error {
	r.open("div", w, attr{"aria-hidden", "true"})
	r.close("div")
	return nil
}

// pickTag returns tag when it is one of allowed, fallback otherwise
func pickTag(tag, fallback string, allowed ...string) string {
	tag = strings.ToLower(strings.TrimSpace(tag))
	for _, a := range allowed {
		if tag == a {
			return tag
		}
	}
	return fallback
}

// WhatsAppURL builds a wa.me link from a free-form phone number. The message,
// when present, is passed as the text parameter.
func WhatsAppURL(phone, message string) string {
	link := "https://wa.me/" + pageService.Digits(phone)
	if message = strings.TrimSpace(message); message != "" {
		link += "?text=" + strings.ReplaceAll(url.QueryEscape(message), "+", "%20")
	}
	return link
}
