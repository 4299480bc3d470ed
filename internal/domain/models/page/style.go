package page

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// StyleKind tags which member of a StyleValue is populated
type StyleKind uint8

const (
	StyleKindString StyleKind = iota + 1
	StyleKindNumber
	StyleKindBox
)

// BoxModel holds the four sides of a padding/margin property.
// An empty side is unset.
type BoxModel struct {
	Top    string `json:"top,omitempty"`
	Right  string `json:"right,omitempty"`
	Bottom string `json:"bottom,omitempty"`
	Left   string `json:"left,omitempty"`
}

// Complete reports whether all four sides are set
func (b BoxModel) Complete() bool {
	return b.Top != "" && b.Right != "" && b.Bottom != "" && b.Left != ""
}

// IsEmpty reports whether no side is set
func (b BoxModel) IsEmpty() bool {
	return b.Top == "" && b.Right == "" && b.Bottom == "" && b.Left == ""
}

// StyleValue is a single style property value: a string, a number or a box model.
type StyleValue struct {
	Kind StyleKind
	Str  string
	Num  float64
	Box  BoxModel
}

// String creates a string style value
func String(s string) StyleValue { return StyleValue{Kind: StyleKindString, Str: s} }

// Number creates a numeric style value
func Number(n float64) StyleValue { return StyleValue{Kind: StyleKindNumber, Num: n} }

// Box creates a box-model style value
func Box(b BoxModel) StyleValue { return StyleValue{Kind: StyleKindBox, Box: b} }

// IsZero reports whether the value carries nothing worth emitting
func (v StyleValue) IsZero() bool {
	switch v.Kind {
	case StyleKindString:
		return v.Str == ""
	case StyleKindNumber:
		return false
	case StyleKindBox:
		return v.Box.IsEmpty()
	default:
		return true
	}
}

// Text renders a scalar value as text. Box values render as an empty string.
func (v StyleValue) Text() string {
	switch v.Kind {
	case StyleKindString:
		return v.Str
	case StyleKindNumber:
		return strconv.FormatFloat(v.Num, 'f', -1, 64)
	default:
		return ""
	}
}

// MarshalJSON encodes strings and numbers as JSON scalars and boxes as objects
func (v StyleValue) MarshalJSON() ([]byte, error) {
	switch v.Kind {
	case StyleKindString:
		return json.Marshal(v.Str)
	case StyleKindNumber:
		return json.Marshal(v.Num)
	case StyleKindBox:
		return json.Marshal(v.Box)
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON decodes the shape produced by MarshalJSON
func (v *StyleValue) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*v = StyleValue{}
		return nil
	}

	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = String(s)
	case '{':
		var b BoxModel
		if err := json.Unmarshal(data, &b); err != nil {
			return err
		}
		*v = Box(b)
	default:
		var n float64
		if err := json.Unmarshal(data, &n); err != nil {
			return fmt.Errorf("style value must be a string, number or box: %w", err)
		}
		*v = Number(n)
	}
	return nil
}

// StyleValueFromAny converts a loosely typed value (YAML or decoded JSON) into a StyleValue.
// Numeric box sides are rendered in pixels.
func StyleValueFromAny(raw any) (StyleValue, error) {
	switch val := raw.(type) {
	case string:
		return String(val), nil
	case int:
		return Number(float64(val)), nil
	case int64:
		return Number(float64(val)), nil
	case float64:
		return Number(val), nil
	case map[string]any:
		var b BoxModel
		for side, sideVal := range val {
			var s string
			switch sv := sideVal.(type) {
			case string:
				s = sv
			case int:
				s = strconv.Itoa(sv) + "px"
			case float64:
				s = strconv.FormatFloat(sv, 'f', -1, 64) + "px"
			default:
				return StyleValue{}, fmt.Errorf("unsupported box side value %T", sideVal)
			}
			switch side {
			case "top":
				b.Top = s
			case "right":
				b.Right = s
			case "bottom":
				b.Bottom = s
			case "left":
				b.Left = s
			default:
				return StyleValue{}, fmt.Errorf("unknown box side %q", side)
			}
		}
		return Box(b), nil
	default:
		return StyleValue{}, fmt.Errorf("unsupported style value %T", raw)
	}
}

// WidgetStyle is a flat map of style property name to value
type WidgetStyle map[string]StyleValue

// Clone returns an independent copy of the style map
func (s WidgetStyle) Clone() WidgetStyle {
	if s == nil {
		return nil
	}
	out := make(WidgetStyle, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}
