package export

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"

	models "sitecraft/internal/domain/models/page"
	pageService "sitecraft/internal/service/page"
)

// builderVersion is the document format version written on export
const builderVersion = "0.4"

// builderWidgetTypes maps leaf widget types to builder widgetType names
var builderWidgetTypes = map[models.WidgetType]string{
	models.WidgetText:        "text-editor",
	models.WidgetHeading:     "heading",
	models.WidgetImage:       "image",
	models.WidgetButton:      "button",
	models.WidgetForm:        "form",
	models.WidgetWhatsApp:    "whatsapp",
	models.WidgetVideo:       "video",
	models.WidgetIconList:    "icon-list",
	models.WidgetTestimonial: "testimonial",
	models.WidgetDivider:     "divider",
	models.WidgetSpacer:      "spacer",
}

var widgetTypesByBuilderName = func() map[string]models.WidgetType {
	m := make(map[string]models.WidgetType, len(builderWidgetTypes))
	for t, name := range builderWidgetTypes {
		m[name] = t
	}
	return m
}()

// builderContentKeys renames content keys per widget type. Keys not listed
// are written under their own name.
var builderContentKeys = map[models.WidgetType]map[string]string{
	models.WidgetHeading:     {"text": "title", "tag": "header_size"},
	models.WidgetText:        {"text": "editor", "tag": "html_tag"},
	models.WidgetSection:     {"tag": "html_tag"},
	models.WidgetVideo:       {"url": "youtube_url"},
	models.WidgetIconList:    {"items": "icon_list"},
	models.WidgetTestimonial: {"quote": "testimonial_content", "author": "testimonial_name", "role": "testimonial_job"},
	models.WidgetForm:        {"title": "form_name", "submit_text": "button_text", "fields": "form_fields", "recipient": "email_to"},
}

// builderSettingKeys maps widget settings onto builder advanced settings
var builderSettingKeys = map[string]string{
	"css_classes": "_css_classes",
	"custom_css":  "custom_css",
	"anchor":      "_element_id",
}

var typographyProperties = map[string]bool{
	"fontFamily":     true,
	"fontSize":       true,
	"fontWeight":     true,
	"fontStyle":      true,
	"lineHeight":     true,
	"letterSpacing":  true,
	"textTransform":  true,
	"textDecoration": true,
}

// sliderProperties are written as {unit, size, sizes} objects
var sliderProperties = map[string]bool{
	"fontSize":      true,
	"lineHeight":    true,
	"letterSpacing": true,
	"width":         true,
	"maxWidth":      true,
	"minWidth":      true,
	"height":        true,
	"minHeight":     true,
	"borderRadius":  true,
	"gap":           true,
}

var hideSettings = map[string]string{
	"hide_desktop": "hidden-desktop",
	"hide_tablet":  "hidden-tablet",
	"hide_mobile":  "hidden-mobile",
}

// colorSetting is the builder key text color is stored under for a type
func colorSetting(t models.WidgetType) string {
	switch t {
	case models.WidgetHeading:
		return "title_color"
	case models.WidgetText:
		return "text_color"
	case models.WidgetButton, models.WidgetWhatsApp:
		return "button_text_color"
	default:
		return "color"
	}
}

var measureRe = regexp.MustCompile(`^(-?\d+(?:\.\d+)?)([a-z%]*)$`)

// splitMeasure splits "12px" into ("12", "px")
func splitMeasure(s string) (number, unit string, ok bool) {
	m := measureRe.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return "", "", false
	}
	return m[1], m[2], true
}

// sliderValue renders a scalar style value as a builder slider object.
// Values that are not a plain measure are kept as strings.
func sliderValue(prop string, v models.StyleValue) any {
	switch v.Kind {
	case models.StyleKindNumber:
		unit := "px"
		if pageService.Unitless(prop) {
			unit = ""
		}
		return map[string]any{"unit": unit, "size": v.Num, "sizes": []any{}}
	case models.StyleKindString:
		number, unit, ok := splitMeasure(v.Str)
		if !ok {
			return v.Str
		}
		size, err := strconv.ParseFloat(number, 64)
		if err != nil {
			return v.Str
		}
		return map[string]any{"unit": unit, "size": size, "sizes": []any{}}
	default:
		return nil
	}
}

// styleFromSlider is the inverse of sliderValue. Pixel and unitless sizes
// come back as numbers.
func styleFromSlider(raw any) (models.StyleValue, bool) {
	switch val := raw.(type) {
	case string:
		return models.String(val), val != ""
	case float64:
		return models.Number(val), true
	case map[string]any:
		size, ok := val["size"].(float64)
		if !ok {
			return models.StyleValue{}, false
		}
		unit, _ := val["unit"].(string)
		if unit == "" || unit == "px" {
			return models.Number(size), true
		}
		return models.String(strconv.FormatFloat(size, 'f', -1, 64) + unit), true
	default:
		return models.StyleValue{}, false
	}
}

// dimensionsValue renders a box as a builder dimensions object. Sides sharing
// one unit are split into number and unit, anything else is kept verbatim.
func dimensionsValue(b models.BoxModel) map[string]any {
	sides := []string{b.Top, b.Right, b.Bottom, b.Left}
	numbers := make([]string, 4)
	unit := ""
	uniform := true
	for i, side := range sides {
		if side == "" {
			continue
		}
		number, u, ok := splitMeasure(side)
		if !ok || (unit != "" && u != unit) || u == "" {
			uniform = false
			break
		}
		unit = u
		numbers[i] = number
	}
	if !uniform {
		unit = ""
		copy(numbers, sides)
	}

	return map[string]any{
		"unit":     unit,
		"top":      numbers[0],
		"right":    numbers[1],
		"bottom":   numbers[2],
		"left":     numbers[3],
		"isLinked": b.Top == b.Right && b.Right == b.Bottom && b.Bottom == b.Left,
	}
}

// boxFromDimensions is the inverse of dimensionsValue
func boxFromDimensions(raw any) (models.BoxModel, bool) {
	val, ok := raw.(map[string]any)
	if !ok {
		return models.BoxModel{}, false
	}
	unit, _ := val["unit"].(string)
	side := func(key string) string {
		var s string
		switch v := val[key].(type) {
		case string:
			s = v
		case float64:
			s = strconv.FormatFloat(v, 'f', -1, 64)
		}
		if s == "" {
			return ""
		}
		return s + unit
	}
	b := models.BoxModel{Top: side("top"), Right: side("right"), Bottom: side("bottom"), Left: side("left")}
	return b, !b.IsEmpty()
}

// toCamel converts a snake_case builder key to a camelCase style property
func toCamel(s string) string {
	var b strings.Builder
	upper := false
	for _, r := range s {
		if r == '_' {
			upper = true
			continue
		}
		if upper {
			r = unicode.ToUpper(r)
			upper = false
		}
		b.WriteRune(r)
	}
	return b.String()
}
