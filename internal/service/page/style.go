package page

import (
	"sort"
	"strings"
	"unicode"

	models "sitecraft/internal/domain/models/page"
)

// StyleFormat selects the property vocabulary of resolved declarations
type StyleFormat string

const (
	// StyleFormatCSS emits kebab-case CSS properties with px units on bare numbers
	StyleFormatCSS StyleFormat = "css"
	// StyleFormatBuilder emits snake_case page-builder setting names
	StyleFormatBuilder StyleFormat = "builder"
)

// Declaration is one resolved style property
type Declaration struct {
	Property string
	Value    string
	// Source is the style map key the declaration came from
	Source string
	// Box is set when the declaration is a four-side shorthand
	Box *models.BoxModel
}

// canonicalOrder fixes output order for known properties; anything else
// follows alphabetically.
var canonicalOrder = []string{
	"display", "position", "flexDirection", "justifyContent", "alignItems", "gap",
	"width", "maxWidth", "minWidth", "height", "minHeight",
	"margin", "padding",
	"backgroundColor", "backgroundImage", "backgroundSize", "backgroundPosition",
	"color", "fontFamily", "fontSize", "fontWeight", "fontStyle", "lineHeight",
	"letterSpacing", "textAlign", "textTransform", "textDecoration",
	"border", "borderTop", "borderBottom", "borderColor", "borderWidth", "borderRadius",
	"boxShadow", "opacity", "zIndex",
}

var canonicalRank = func() map[string]int {
	m := make(map[string]int, len(canonicalOrder))
	for i, p := range canonicalOrder {
		m[p] = i
	}
	return m
}()

// KnownStyleProperty reports whether prop is part of the fixed style vocabulary
func KnownStyleProperty(prop string) bool {
	_, ok := canonicalRank[prop]
	return ok || boxProperties[prop] || unitlessProperties[prop]
}

// Unitless reports whether bare numbers of prop are emitted without a unit
func Unitless(prop string) bool {
	return unitlessProperties[prop]
}

var unitlessProperties = map[string]bool{
	"fontWeight": true,
	"lineHeight": true,
	"opacity":    true,
	"zIndex":     true,
	"flexGrow":   true,
	"flexShrink": true,
	"order":      true,
}

var boxProperties = map[string]bool{
	"padding": true,
	"margin":  true,
}

// OrderedProperties returns the style's keys in resolution order
func OrderedProperties(style models.WidgetStyle) []string {
	props := make([]string, 0, len(style))
	for p := range style {
		props = append(props, p)
	}
	sort.Slice(props, func(i, j int) bool {
		ri, iKnown := canonicalRank[props[i]]
		rj, jKnown := canonicalRank[props[j]]
		switch {
		case iKnown && jKnown:
			return ri < rj
		case iKnown != jKnown:
			return iKnown
		default:
			return props[i] < props[j]
		}
	})
	return props
}

// ResolveStyle turns a style map into an ordered declaration list for format.
// Unset values are skipped. Padding and margin emit one shorthand only when all
// four sides are set and one declaration per set side otherwise. Any other
// property holding a box emits a shorthand with unset sides as 0.
func ResolveStyle(style models.WidgetStyle, format StyleFormat) []Declaration {
	decls := make([]Declaration, 0, len(style))
	for _, prop := range OrderedProperties(style) {
		v := style[prop]
		if v.IsZero() {
			continue
		}

		if v.Kind == models.StyleKindBox {
			if !boxProperties[prop] {
				decls = append(decls, shorthandBox(prop, v.Box, format))
				continue
			}
			decls = append(decls, resolveBox(prop, v.Box, format)...)
			continue
		}

		decls = append(decls, Declaration{
			Property: propertyName(prop, format),
			Value:    scalarValue(prop, v, format),
			Source:   prop,
		})
	}
	return decls
}

func resolveBox(prop string, b models.BoxModel, format StyleFormat) []Declaration {
	if b.Complete() {
		box := b
		return []Declaration{{
			Property: propertyName(prop, format),
			Value:    b.Top + " " + b.Right + " " + b.Bottom + " " + b.Left,
			Source:   prop,
			Box:      &box,
		}}
	}

	sides := []struct{ name, value string }{
		{"Top", b.Top}, {"Right", b.Right}, {"Bottom", b.Bottom}, {"Left", b.Left},
	}
	var decls []Declaration
	for _, side := range sides {
		if side.value == "" {
			continue
		}
		decls = append(decls, Declaration{
			Property: propertyName(prop+side.name, format),
			Value:    side.value,
			Source:   prop,
		})
	}
	return decls
}

func shorthandBox(prop string, b models.BoxModel, format StyleFormat) Declaration {
	box := models.BoxModel{Top: "0", Right: "0", Bottom: "0", Left: "0"}
	if b.Top != "" {
		box.Top = b.Top
	}
	if b.Right != "" {
		box.Right = b.Right
	}
	if b.Bottom != "" {
		box.Bottom = b.Bottom
	}
	if b.Left != "" {
		box.Left = b.Left
	}
	return Declaration{
		Property: propertyName(prop, format),
		Value:    box.Top + " " + box.Right + " " + box.Bottom + " " + box.Left,
		Source:   prop,
		Box:      &box,
	}
}

func scalarValue(prop string, v models.StyleValue, format StyleFormat) string {
	if v.Kind == models.StyleKindNumber && format == StyleFormatCSS && !unitlessProperties[prop] {
		return v.Text() + "px"
	}
	return v.Text()
}

func propertyName(prop string, format StyleFormat) string {
	switch format {
	case StyleFormatBuilder:
		return splitCamel(prop, '_')
	default:
		return splitCamel(prop, '-')
	}
}

// splitCamel converts camelCase to a lowercase name joined by sep.
// Names that already contain sep are returned lowercased.
func splitCamel(s string, sep rune) string {
	var b strings.Builder
	for i, r := range s {
		if unicode.IsUpper(r) {
			if i > 0 {
				b.WriteRune(sep)
			}
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// InlineCSS joins CSS declarations into a style attribute value
func InlineCSS(decls []Declaration) string {
	parts := make([]string, 0, len(decls))
	for _, d := range decls {
		parts = append(parts, d.Property+": "+d.Value)
	}
	return strings.Join(parts, "; ")
}
