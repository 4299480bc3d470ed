package page

import (
	_ "embed"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"sitecraft/internal/domain"
	models "sitecraft/internal/domain/models/page"
	"sitecraft/internal/domain/models/schema"
	pageSvc "sitecraft/internal/domain/services/page"
)

//go:embed library/widgets.yaml
var libraryYAML []byte

// ShapeField is one sub-field of a composite widget shape
type ShapeField struct {
	Name  string           `yaml:"name"`
	Label string           `yaml:"label"`
	Type  schema.FieldType `yaml:"type"`
}

// Shape describes how a widget type maps onto a personalizable field
type Shape struct {
	FieldType  schema.FieldType `yaml:"field_type"`
	Priority   schema.Priority  `yaml:"priority"`
	ValueField string           `yaml:"value_field"` // content key holding the default value
	FirstName  string           `yaml:"first_name"`  // name for the first occurrence, if any
	NamePrefix string           `yaml:"name_prefix"` // later occurrences become <prefix>_<n>
	SubFields  []ShapeField     `yaml:"sub_fields"`
}

// Definition is the registered template of one widget type
type Definition struct {
	Type           models.WidgetType
	Label          string
	DefaultContent models.WidgetContent
	DefaultStyle   models.WidgetStyle
	Shape          *Shape
}

type definitionFile struct {
	Widgets []struct {
		Type           models.WidgetType `yaml:"type"`
		Label          string            `yaml:"label"`
		DefaultContent map[string]any    `yaml:"default_content"`
		DefaultStyle   map[string]any    `yaml:"default_style"`
		Shape          *Shape            `yaml:"acf_shape"`
	} `yaml:"widgets"`
}

// Library is the per-type widget table. It is immutable after construction
// and safe to share between goroutines.
type Library struct {
	defs     map[models.WidgetType]*Definition
	order    []models.WidgetType
	provider pageSvc.ContentProvider
}

var (
	defaultLibrary     *Library
	defaultLibraryOnce sync.Once
)

// DefaultLibrary returns the library built from the embedded widget table
func DefaultLibrary() *Library {
	defaultLibraryOnce.Do(func() {
		lib, err := NewLibrary(libraryYAML)
		if err != nil {
			panic(fmt.Sprintf("embedded widget library is invalid: %v", err))
		}
		defaultLibrary = lib
	})
	return defaultLibrary
}

// NewLibrary parses a YAML widget table
func NewLibrary(data []byte) (*Library, error) {
	var file definitionFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse widget library: %w", err)
	}

	lib := &Library{defs: make(map[models.WidgetType]*Definition, len(file.Widgets))}
	for i, w := range file.Widgets {
		if w.Type == "" {
			return nil, fmt.Errorf("widget #%d has no type", i)
		}
		if _, exists := lib.defs[w.Type]; exists {
			return nil, fmt.Errorf("widget type %q registered twice", w.Type)
		}

		style := make(models.WidgetStyle, len(w.DefaultStyle))
		for prop, raw := range w.DefaultStyle {
			v, err := models.StyleValueFromAny(raw)
			if err != nil {
				return nil, fmt.Errorf("widget %q style %q: %w", w.Type, prop, err)
			}
			style[prop] = v
		}

		if w.Shape != nil {
			if err := validateShape(w.Shape); err != nil {
				return nil, fmt.Errorf("widget %q shape: %w", w.Type, err)
			}
			if w.Type.IsContainer() {
				return nil, fmt.Errorf("container widget %q cannot declare a field shape", w.Type)
			}
		}

		content, _ := normalizeValue(w.DefaultContent).(map[string]any)
		if content == nil {
			content = map[string]any{}
		}

		lib.defs[w.Type] = &Definition{
			Type:           w.Type,
			Label:          w.Label,
			DefaultContent: content,
			DefaultStyle:   style,
			Shape:          w.Shape,
		}
		lib.order = append(lib.order, w.Type)
	}

	return lib, nil
}

func validateShape(s *Shape) error {
	if !s.FieldType.Valid() {
		return fmt.Errorf("invalid field type %q", s.FieldType)
	}
	switch s.Priority {
	case schema.PriorityHigh, schema.PriorityMedium, schema.PriorityLow:
	default:
		return fmt.Errorf("invalid priority %q", s.Priority)
	}
	if s.NamePrefix == "" {
		return fmt.Errorf("name_prefix is required")
	}
	for _, sf := range s.SubFields {
		if sf.Name == "" || !sf.Type.Valid() {
			return fmt.Errorf("invalid sub field %q", sf.Name)
		}
	}
	return nil
}

// WithContentProvider returns a library whose new widgets take default
// content from p, layered over the table defaults.
func (l *Library) WithContentProvider(p pageSvc.ContentProvider) *Library {
	out := *l
	out.provider = p
	return &out
}

// Definition returns the registered definition of a type
func (l *Library) Definition(t models.WidgetType) (*Definition, bool) {
	def, ok := l.defs[t]
	return def, ok
}

// Shape returns the field shape of a type, nil when the type is not classifiable
func (l *Library) Shape(t models.WidgetType) *Shape {
	if def, ok := l.defs[t]; ok {
		return def.Shape
	}
	return nil
}

// Types lists registered types in table order
func (l *Library) Types() []models.WidgetType {
	return append([]models.WidgetType(nil), l.order...)
}

// Known reports whether a type is registered
func (l *Library) Known(t models.WidgetType) bool {
	_, ok := l.defs[t]
	return ok
}

// DefaultContent implements ContentProvider with the table defaults
func (l *Library) DefaultContent(t models.WidgetType) (models.WidgetContent, bool) {
	def, ok := l.defs[t]
	if !ok {
		return nil, false
	}
	return def.DefaultContent, true
}

// CreateWidget builds a widget of type t with a fresh id. Content is the type
// defaults, then the content provider's defaults, then overrides; later layers win.
func (l *Library) CreateWidget(t models.WidgetType, overrides map[string]any) (*models.WidgetNode, error) {
	def, ok := l.defs[t]
	if !ok {
		return nil, &domain.UnknownWidgetTypeError{Type: string(t)}
	}

	content := models.CloneMap(def.DefaultContent)
	if l.provider != nil {
		if provided, ok := l.provider.DefaultContent(t); ok {
			for k, v := range provided {
				content[k] = normalizeValue(v)
			}
		}
	}
	for k, v := range overrides {
		content[k] = normalizeValue(v)
	}

	node := &models.WidgetNode{
		ID:       NewWidgetID(),
		Type:     t,
		Content:  content,
		Style:    def.DefaultStyle.Clone(),
		Settings: map[string]any{},
		Visible:  true,
	}
	if t.IsContainer() {
		node.Children = []*models.WidgetNode{}
	}
	return node, nil
}

// NewWidgetID returns a fresh unique widget id
func NewWidgetID() string {
	return uuid.NewString()
}

// normalizeValue converts YAML/Go literals into the shapes encoding/json
// produces, so freshly created widgets compare equal after a JSON round trip.
func normalizeValue(v any) any {
	switch val := v.(type) {
	case int:
		return float64(val)
	case int64:
		return float64(val)
	case float32:
		return float64(val)
	case []string:
		out := make([]any, len(val))
		for i, s := range val {
			out[i] = s
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = normalizeValue(item)
		}
		return out
	case []map[string]any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = normalizeValue(item)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[k] = normalizeValue(item)
		}
		return out
	case models.WidgetContent:
		return normalizeValue(map[string]any(val))
	default:
		return val
	}
}
