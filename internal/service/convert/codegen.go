package convert

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"text/template"

	"sitecraft/internal/domain/models/schema"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var codeTemplates = template.Must(
	template.New("codegen").
		Funcs(template.FuncMap{"php": phpString}).
		ParseFS(templateFS, "templates/*.tmpl"),
)

const (
	phoneFieldName    = "phone_number"
	whatsAppFieldName = "whatsapp_number"
)

// TemplateCode is the glue code that rebinds field values into a rendered page
type TemplateCode struct {
	// PHP returns every field value as one associative array, falling back to
	// the synthesized defaults
	PHP string `json:"php"`

	// Script replaces [FIELD_NAME] placeholders in text nodes and rewrites
	// tel: and WhatsApp links on the client
	Script string `json:"script"`
}

type codeField struct {
	Name    string
	Default string
}

// GenerateCode renders the server-side snippet and the hydration script for groups
func GenerateCode(groups []schema.FieldGroup, templateName string) (*TemplateCode, error) {
	var fields []codeField
	for _, g := range groups {
		for _, f := range g.Fields {
			fields = append(fields, codeField{Name: f.Name, Default: f.DefaultValue})
		}
	}

	fieldsJSON, err := json.Marshal(FieldValues(groups))
	if err != nil {
		return nil, fmt.Errorf("encode field values: %w", err)
	}

	if templateName == "" {
		templateName = "page"
	}

	var php bytes.Buffer
	if err := codeTemplates.ExecuteTemplate(&php, "fields.php.tmpl", map[string]any{
		"Template": strings.ReplaceAll(templateName, "*/", ""),
		"Function": "sitecraft_fields_" + identifier(templateName),
		"Fields":   fields,
	}); err != nil {
		return nil, fmt.Errorf("render php snippet: %w", err)
	}

	var script bytes.Buffer
	if err := codeTemplates.ExecuteTemplate(&script, "hydrate.js.tmpl", map[string]any{
		"FieldsJSON":    string(fieldsJSON),
		"PhoneField":    phoneFieldName,
		"WhatsAppField": whatsAppFieldName,
	}); err != nil {
		return nil, fmt.Errorf("render hydration script: %w", err)
	}

	return &TemplateCode{PHP: php.String(), Script: script.String()}, nil
}

var placeholderRe = regexp.MustCompile(`(?i)\[([a-z0-9_]+)\]`)

// SubstitutePlaceholders replaces [FIELD_NAME] placeholders (case-insensitive)
// with values keyed by lowercase field name. Placeholders without a non-empty
// value are left as they are.
func SubstitutePlaceholders(text string, values map[string]string) string {
	if len(values) == 0 || !strings.Contains(text, "[") {
		return text
	}
	return placeholderRe.ReplaceAllStringFunc(text, func(match string) string {
		name := strings.ToLower(match[1 : len(match)-1])
		if v, ok := values[name]; ok && v != "" {
			return v
		}
		return match
	})
}

// phpString escapes s for a single-quoted PHP literal
func phpString(s string) string {
	return strings.NewReplacer(`\`, `\\`, `'`, `\'`).Replace(s)
}

var nonIdentifier = regexp.MustCompile(`[^a-z0-9_]+`)

// identifier turns a template name into a PHP function-name suffix
func identifier(name string) string {
	id := strings.Trim(nonIdentifier.ReplaceAllString(strings.ToLower(name), "_"), "_")
	if id == "" {
		return "page"
	}
	return id
}
