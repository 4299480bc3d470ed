package convert

import (
	"encoding/json"
	"fmt"

	"sitecraft/internal/domain/models/schema"
)

// ACFExportVersion is written into every export
const ACFExportVersion = "5.0"

// ACFExport is the CMS field-group import document. Flags are 0/1 integers,
// the consumer does not accept JSON booleans.
type ACFExport struct {
	Version     string          `json:"version"`
	FieldGroups []ACFFieldGroup `json:"field_groups"`
}

// ACFFieldGroup is one exported field group
type ACFFieldGroup struct {
	Key                  string              `json:"key"`
	Title                string              `json:"title"`
	Fields               []ACFField          `json:"fields"`
	Location             [][]ACFLocationRule `json:"location"`
	MenuOrder            int                 `json:"menu_order"`
	Position             string              `json:"position"`
	Style                string              `json:"style"`
	LabelPlacement       string              `json:"label_placement"`
	InstructionPlacement string              `json:"instruction_placement"`
	HideOnScreen         string              `json:"hide_on_screen"`
	Active               int                 `json:"active"`
	Description          string              `json:"description"`
}

// ACFField is one exported field
type ACFField struct {
	Key          string     `json:"key"`
	Label        string     `json:"label"`
	Name         string     `json:"name"`
	Type         string     `json:"type"`
	Instructions string     `json:"instructions"`
	Required     int        `json:"required"`
	DefaultValue string     `json:"default_value"`
	Placeholder  string     `json:"placeholder"`
	ReturnFormat string     `json:"return_format,omitempty"`
	Layout       string     `json:"layout,omitempty"`
	ButtonLabel  string     `json:"button_label,omitempty"`
	SubFields    []ACFField `json:"sub_fields,omitempty"`
}

// ACFLocationRule restricts where a field group is shown
type ACFLocationRule struct {
	Param    string `json:"param"`
	Operator string `json:"operator"`
	Value    string `json:"value"`
}

// BuildACFExport converts field groups to the CMS export format. Groups are
// attached to pageTemplate, or to every page when it is empty.
func BuildACFExport(groups []schema.FieldGroup, pageTemplate string) *ACFExport {
	location := [][]ACFLocationRule{{{Param: "post_type", Operator: "==", Value: "page"}}}
	if pageTemplate != "" {
		location = [][]ACFLocationRule{{{Param: "page_template", Operator: "==", Value: pageTemplate}}}
	}

	export := &ACFExport{
		Version:     ACFExportVersion,
		FieldGroups: make([]ACFFieldGroup, 0, len(groups)),
	}
	for i, g := range groups {
		fields := make([]ACFField, 0, len(g.Fields))
		for _, f := range g.Fields {
			fields = append(fields, acfField(f))
		}
		export.FieldGroups = append(export.FieldGroups, ACFFieldGroup{
			Key:                  g.Key,
			Title:                g.Title,
			Fields:               fields,
			Location:             location,
			MenuOrder:            i,
			Position:             "normal",
			Style:                "default",
			LabelPlacement:       "top",
			InstructionPlacement: "label",
			Active:               1,
		})
	}
	return export
}

func acfField(f schema.Field) ACFField {
	out := ACFField{
		Key:          f.Key,
		Label:        f.Label,
		Name:         f.Name,
		Type:         string(f.Type),
		Instructions: f.Instructions,
		Required:     boolFlag(f.Required),
		DefaultValue: f.DefaultValue,
		Placeholder:  f.DefaultValue,
	}
	switch f.Type {
	case schema.FieldImage:
		out.ReturnFormat = "url"
		out.Placeholder = ""
	case schema.FieldDate:
		out.ReturnFormat = "d/m/Y"
	case schema.FieldRepeater:
		out.Layout = "table"
		out.ButtonLabel = fmt.Sprintf("Add %s", f.Label)
		for _, sf := range f.SubFields {
			out.SubFields = append(out.SubFields, acfField(sf))
		}
	}
	return out
}

func boolFlag(b bool) int {
	if b {
		return 1
	}
	return 0
}

// MarshalACF encodes an export as indented JSON
func MarshalACF(export *ACFExport) ([]byte, error) {
	out, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode ACF export: %w", err)
	}
	return out, nil
}
