package export

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"sitecraft/internal/domain"
	models "sitecraft/internal/domain/models/page"
	exportSvc "sitecraft/internal/domain/services/export"
	"sitecraft/internal/service/convert"
	pageService "sitecraft/internal/service/page"
)

// builderDocument is the page-builder interchange document
type builderDocument struct {
	Version      string           `json:"version"`
	Title        string           `json:"title"`
	Type         string           `json:"type"`
	PageSettings map[string]any   `json:"page_settings"`
	Content      []builderElement `json:"content"`
}

// builderElement is one node of the builder tree: a section, a column or a widget
type builderElement struct {
	ID         string           `json:"id"`
	ElType     string           `json:"elType"`
	IsInner    bool             `json:"isInner,omitempty"`
	WidgetType string           `json:"widgetType,omitempty"`
	Settings   map[string]any   `json:"settings"`
	Elements   []builderElement `json:"elements"`
}

// builderExporter renders a page as page-builder JSON
type builderExporter struct{}

// NewBuilderExporter creates the page-builder JSON exporter
func NewBuilderExporter() exportSvc.Exporter {
	return &builderExporter{}
}

func (e *builderExporter) Name() string        { return "builder" }
func (e *builderExporter) ContentType() string { return "application/json" }

// Export renders doc. Containers become sections wrapping one full-width column;
// hidden widgets are kept and flagged hidden on every device.
func (e *builderExporter) Export(ctx context.Context, doc *models.PageDocument, opts exportSvc.Options) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	content, err := builderElements(doc.Widgets, opts.FieldValues)
	if err != nil {
		return nil, err
	}

	pageSettings := models.CloneMap(doc.Settings)
	if pageSettings == nil {
		pageSettings = map[string]any{}
	}

	out, err := json.MarshalIndent(builderDocument{
		Version:      builderVersion,
		Title:        doc.Name,
		Type:         "page",
		PageSettings: pageSettings,
		Content:      content,
	}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode builder document: %w", err)
	}
	return out, nil
}

func builderElements(nodes []*models.WidgetNode, values map[string]string) ([]builderElement, error) {
	out := make([]builderElement, 0, len(nodes))
	for _, w := range nodes {
		el, err := builderElementFor(w, values)
		if err != nil {
			return nil, err
		}
		out = append(out, el)
	}
	return out, nil
}

func builderElementFor(w *models.WidgetNode, values map[string]string) (builderElement, error) {
	settings := builderSettings(w, values)

	if w.Type.IsContainer() {
		children, err := builderElements(w.Children, values)
		if err != nil {
			return builderElement{}, err
		}
		return builderElement{
			ID:       w.ID,
			ElType:   "section",
			IsInner:  w.Type == models.WidgetContainer,
			Settings: settings,
			Elements: []builderElement{{
				ID:       w.ID + columnSuffix,
				ElType:   "column",
				Settings: map[string]any{"_column_size": float64(100)},
				Elements: children,
			}},
		}, nil
	}

	widgetType, ok := builderWidgetTypes[w.Type]
	if !ok {
		return builderElement{}, &domain.UnknownWidgetTypeError{Type: string(w.Type)}
	}
	return builderElement{
		ID:         w.ID,
		ElType:     "widget",
		WidgetType: widgetType,
		Settings:   settings,
		Elements:   []builderElement{},
	}, nil
}

// columnSuffix marks the generated column of an exported section
const columnSuffix = "-col"

func builderSettings(w *models.WidgetNode, values map[string]string) map[string]any {
	settings := make(map[string]any)

	renames := builderContentKeys[w.Type]
	for key, value := range w.Content {
		if s, ok := value.(string); ok {
			value = convert.SubstitutePlaceholders(s, values)
		} else {
			value = models.CloneValue(value)
		}

		switch {
		case w.Type == models.WidgetImage && (key == "src" || key == "alt"):
			image, _ := settings["image"].(map[string]any)
			if image == nil {
				image = map[string]any{}
				settings["image"] = image
			}
			if key == "src" {
				image["url"] = value
			} else {
				image["alt"] = value
			}
		case w.Type == models.WidgetButton && key == "link":
			settings["link"] = map[string]any{
				"url":         value,
				"is_external": w.ContentString("target") == "_blank",
			}
		case w.Type == models.WidgetButton && key == "target":
			// folded into link.is_external
		default:
			if renamed, ok := renames[key]; ok {
				key = renamed
			}
			settings[key] = value
		}
	}

	for key, value := range builderStyle(w) {
		settings[key] = value
	}

	for key, builderKey := range builderSettingKeys {
		if v, ok := w.Settings[key]; ok {
			settings[builderKey] = v
		}
	}

	if !w.Visible {
		for key, value := range hideSettings {
			settings[key] = value
		}
	}
	return settings
}

// builderStyle maps resolved style declarations onto builder settings
func builderStyle(w *models.WidgetNode) map[string]any {
	out := make(map[string]any)
	partialBoxes := make(map[string]models.BoxModel)

	for _, d := range pageService.ResolveStyle(w.Style, pageService.StyleFormatBuilder) {
		raw := w.Style[d.Source]
		switch {
		case d.Box != nil:
			out[d.Property] = dimensionsValue(*d.Box)
		case raw.Kind == models.StyleKindBox:
			b := partialBoxes[d.Source]
			switch strings.TrimPrefix(d.Property, d.Source+"_") {
			case "top":
				b.Top = d.Value
			case "right":
				b.Right = d.Value
			case "bottom":
				b.Bottom = d.Value
			case "left":
				b.Left = d.Value
			}
			partialBoxes[d.Source] = b
		case d.Source == "backgroundColor":
			out["background_background"] = "classic"
			out["background_color"] = d.Value
		case d.Source == "color":
			out[colorSetting(w.Type)] = d.Value
		case d.Source == "textAlign":
			out["align"] = d.Value
		case typographyProperties[d.Source]:
			out["typography_typography"] = "custom"
			if sliderProperties[d.Source] {
				out["typography_"+d.Property] = sliderValue(d.Source, raw)
			} else {
				out["typography_"+d.Property] = d.Value
			}
		case sliderProperties[d.Source]:
			out[d.Property] = sliderValue(d.Source, raw)
		case raw.Kind == models.StyleKindNumber:
			out[d.Property] = raw.Num
		default:
			out[d.Property] = d.Value
		}
	}

	for prop, b := range partialBoxes {
		out[prop] = dimensionsValue(b)
	}
	return out
}
