package page

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// WidgetType names a registered widget kind
type WidgetType string

const (
	WidgetText        WidgetType = "text"
	WidgetHeading     WidgetType = "heading"
	WidgetImage       WidgetType = "image"
	WidgetButton      WidgetType = "button"
	WidgetContainer   WidgetType = "container"
	WidgetSection     WidgetType = "section"
	WidgetForm        WidgetType = "form"
	WidgetWhatsApp    WidgetType = "whatsapp"
	WidgetVideo       WidgetType = "video"
	WidgetIconList    WidgetType = "icon_list"
	WidgetTestimonial WidgetType = "testimonial"
	WidgetDivider     WidgetType = "divider"
	WidgetSpacer      WidgetType = "spacer"
)

// IsContainer reports whether widgets of this type may hold children
func (t WidgetType) IsContainer() bool {
	return t == WidgetContainer || t == WidgetSection
}

// WidgetContent is the type-specific payload of a widget
type WidgetContent map[string]any

// WidgetNode is one content unit in a page tree. A node exclusively owns its children.
type WidgetNode struct {
	ID       string         `json:"id"`
	Type     WidgetType     `json:"type"`
	Content  WidgetContent  `json:"content"`
	Style    WidgetStyle    `json:"style"`
	Children []*WidgetNode  `json:"children"`
	Settings map[string]any `json:"settings"`
	Visible  bool           `json:"visible"`
	Locked   bool           `json:"locked"`
}

// UnmarshalJSON decodes a node; a missing "visible" member means visible.
func (w *WidgetNode) UnmarshalJSON(data []byte) error {
	type plain WidgetNode
	aux := plain{Visible: true}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*w = WidgetNode(aux)
	return nil
}

// ContentString returns a content field rendered as text, or "" when absent
func (w *WidgetNode) ContentString(key string) string {
	raw, ok := w.Content[key]
	if !ok || raw == nil {
		return ""
	}
	switch v := raw.(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	default:
		return fmt.Sprint(v)
	}
}

// SettingString returns a settings field as a string, or "" when absent or not a string
func (w *WidgetNode) SettingString(key string) string {
	s, _ := w.Settings[key].(string)
	return s
}

// Clone returns a deep copy of the node and its subtree with ids preserved
func (w *WidgetNode) Clone() *WidgetNode {
	if w == nil {
		return nil
	}
	out := &WidgetNode{
		ID:       w.ID,
		Type:     w.Type,
		Content:  WidgetContent(CloneMap(w.Content)),
		Style:    w.Style.Clone(),
		Settings: CloneMap(w.Settings),
		Visible:  w.Visible,
		Locked:   w.Locked,
	}
	if w.Children != nil {
		out.Children = make([]*WidgetNode, len(w.Children))
		for i, child := range w.Children {
			out.Children[i] = child.Clone()
		}
	}
	return out
}

// Walk visits the node and its descendants depth-first, pre-order.
// Returning false from fn stops descent into that node's children.
func (w *WidgetNode) Walk(fn func(node *WidgetNode, depth int) bool) {
	w.walk(fn, 0)
}

func (w *WidgetNode) walk(fn func(node *WidgetNode, depth int) bool, depth int) {
	if !fn(w, depth) {
		return
	}
	for _, child := range w.Children {
		child.walk(fn, depth+1)
	}
}

// CloneMap deep-copies a JSON-like map (nested maps and slices are copied)
func CloneMap(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = CloneValue(v)
	}
	return out
}

// CloneValue deep-copies one JSON-like value
func CloneValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		return CloneMap(val)
	case WidgetContent:
		return WidgetContent(CloneMap(val))
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = CloneValue(item)
		}
		return out
	default:
		return val
	}
}
