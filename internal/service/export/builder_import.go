package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"sitecraft/internal/domain"
	models "sitecraft/internal/domain/models/page"
	pageService "sitecraft/internal/service/page"
)

// BuilderImporter turns page-builder JSON back into a page document
type BuilderImporter struct {
	library *pageService.Library
}

// NewBuilderImporter creates an importer that checks trees against library
func NewBuilderImporter(library *pageService.Library) *BuilderImporter {
	return &BuilderImporter{library: library}
}

// Import decodes a builder document, or a bare array of builder elements,
// into a new page document named name (or the document title when name is empty).
func (i *BuilderImporter) Import(data []byte, name string) (*models.PageDocument, error) {
	var src builderDocument
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		if err := json.Unmarshal(trimmed, &src.Content); err != nil {
			return nil, fmt.Errorf("%w: invalid builder JSON: %v", domain.ErrValidation, err)
		}
	} else if err := json.Unmarshal(trimmed, &src); err != nil {
		return nil, fmt.Errorf("%w: invalid builder JSON: %v", domain.ErrValidation, err)
	}

	if name == "" {
		name = src.Title
	}
	if strings.TrimSpace(name) == "" {
		name = "Imported page"
	}

	state := &importState{seen: make(map[string]bool)}
	widgets, err := state.nodes(src.Content)
	if err != nil {
		return nil, err
	}
	if err := pageService.CheckTree(i.library, widgets); err != nil {
		return nil, err
	}

	doc := pageService.NewPageDocument(name)
	doc.Widgets = widgets
	if src.PageSettings != nil {
		doc.Settings = src.PageSettings
	}
	return doc, nil
}

type importState struct {
	seen map[string]bool
}

// id keeps the builder id unless it is missing or already taken
func (s *importState) id(raw string) string {
	if raw == "" || s.seen[raw] {
		raw = pageService.NewWidgetID()
	}
	s.seen[raw] = true
	return raw
}

func (s *importState) nodes(elements []builderElement) ([]*models.WidgetNode, error) {
	out := make([]*models.WidgetNode, 0, len(elements))
	for _, el := range elements {
		w, err := s.node(el)
		if err != nil {
			return nil, err
		}
		out = append(out, w)
	}
	return out, nil
}

func (s *importState) node(el builderElement) (*models.WidgetNode, error) {
	switch el.ElType {
	case "section":
		t := models.WidgetSection
		if el.IsInner {
			t = models.WidgetContainer
		}
		w := s.fromSettings(el.ID, t, el.Settings)
		children, err := s.columns(el.Elements)
		if err != nil {
			return nil, err
		}
		w.Children = children
		return w, nil

	case "container", "column":
		w := s.fromSettings(el.ID, models.WidgetContainer, el.Settings)
		if size, ok := el.Settings["_column_size"].(float64); ok && el.ElType == "column" {
			w.Style["width"] = models.String(fmt.Sprintf("%g%%", size))
		}
		children, err := s.nodes(el.Elements)
		if err != nil {
			return nil, err
		}
		w.Children = children
		return w, nil

	case "widget":
		t, ok := widgetTypesByBuilderName[el.WidgetType]
		if !ok {
			return nil, &domain.UnknownWidgetTypeError{Type: el.WidgetType}
		}
		return s.fromSettings(el.ID, t, el.Settings), nil

	default:
		return nil, fmt.Errorf("%w: unsupported element type %q", domain.ErrValidation, el.ElType)
	}
}

// columns flattens a single column into its section; several columns become containers
func (s *importState) columns(elements []builderElement) ([]*models.WidgetNode, error) {
	if len(elements) == 1 && elements[0].ElType == "column" {
		return s.nodes(elements[0].Elements)
	}
	return s.nodes(elements)
}

func (s *importState) fromSettings(id string, t models.WidgetType, settings map[string]any) *models.WidgetNode {
	w := &models.WidgetNode{
		ID:       s.id(id),
		Type:     t,
		Content:  models.WidgetContent{},
		Style:    models.WidgetStyle{},
		Settings: map[string]any{},
		Visible:  true,
	}
	if t.IsContainer() {
		w.Children = []*models.WidgetNode{}
	}

	contentKeys := make(map[string]string)
	for key, builderKey := range builderContentKeys[t] {
		contentKeys[builderKey] = key
	}
	settingKeys := make(map[string]string)
	for key, builderKey := range builderSettingKeys {
		settingKeys[builderKey] = key
	}

	keys := make([]string, 0, len(settings))
	for k := range settings {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		value := settings[key]
		switch {
		case key == "background_background" || key == "typography_typography" || key == "_column_size":
		case hideSettings[key] != "":
			if flag, _ := value.(string); flag != "" {
				w.Visible = false
			}
		case key == "background_color":
			setStyleString(w, "backgroundColor", value)
		case key == colorSetting(t) || key == "color":
			setStyleString(w, "color", value)
		case key == "align":
			setStyleString(w, "textAlign", value)
		case key == "padding" || key == "margin":
			if b, ok := boxFromDimensions(value); ok {
				w.Style[key] = models.Box(b)
			}
		case strings.HasPrefix(key, "typography_"):
			prop := toCamel(strings.TrimPrefix(key, "typography_"))
			setStyle(w, prop, value)
		case t == models.WidgetImage && key == "image":
			if image, ok := value.(map[string]any); ok {
				w.Content["src"] = stringOr(image["url"])
				w.Content["alt"] = stringOr(image["alt"])
			}
		case t == models.WidgetButton && key == "link":
			if link, ok := value.(map[string]any); ok {
				w.Content["link"] = stringOr(link["url"])
				if external, _ := link["is_external"].(bool); external {
					w.Content["target"] = "_blank"
				} else {
					w.Content["target"] = "_self"
				}
			}
		case settingKeys[key] != "":
			w.Settings[settingKeys[key]] = value
		case contentKeys[key] != "":
			w.Content[contentKeys[key]] = value
		case sliderProperties[toCamel(key)] || pageService.KnownStyleProperty(toCamel(key)):
			setStyle(w, toCamel(key), value)
		default:
			w.Content[key] = value
		}
	}
	return w
}

func setStyle(w *models.WidgetNode, prop string, raw any) {
	if sliderProperties[prop] {
		if v, ok := styleFromSlider(raw); ok {
			w.Style[prop] = v
		}
		return
	}
	if v, err := models.StyleValueFromAny(raw); err == nil && !v.IsZero() {
		w.Style[prop] = v
	}
}

func setStyleString(w *models.WidgetNode, prop string, raw any) {
	if s, ok := raw.(string); ok && s != "" {
		w.Style[prop] = models.String(s)
	}
}

func stringOr(v any) string {
	s, _ := v.(string)
	return s
}
