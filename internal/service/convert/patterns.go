package convert

import (
	"regexp"

	"sitecraft/internal/domain/models/schema"
)

// textPattern recognizes one kind of business-specific text
type textPattern struct {
	FieldName string
	FieldType schema.FieldType
	Label     string
	Priority  schema.Priority
	re        *regexp.Regexp
}

// textPatterns are tried in order; only the first match of a field is kept.
// A pattern with a capture group yields the group instead of the whole match.
var textPatterns = []textPattern{
	{
		FieldName: "business_name",
		FieldType: schema.FieldText,
		Label:     "Business Name",
		Priority:  schema.PriorityHigh,
		re:        regexp.MustCompile(`(?i)(?:^|[^\p{L}0-9])([\p{L}0-9][\p{L}0-9&.' -]{1,59}?\s(?:ltda|eireli|inc|llc|ltd|corp|s/a)\b\.?)`),
	},
	{
		FieldName: "phone_number",
		FieldType: schema.FieldText,
		Label:     "Phone Number",
		Priority:  schema.PriorityHigh,
		re:        regexp.MustCompile(`(?:\+\d{1,3}[\s.-]?)?(?:\(\d{2,3}\)|\b\d{2,3})[\s.-]?\d{4,5}[\s.-]?\d{4}\b`),
	},
	{
		FieldName: "whatsapp_number",
		FieldType: schema.FieldText,
		Label:     "WhatsApp Number",
		Priority:  schema.PriorityHigh,
		re:        regexp.MustCompile(`(?i)(?:wa\.me/\d+|api\.whatsapp\.com/send\?phone=\d+)`),
	},
	{
		FieldName: "email_address",
		FieldType: schema.FieldEmail,
		Label:     "Email Address",
		Priority:  schema.PriorityHigh,
		re:        regexp.MustCompile(`[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`),
	},
	{
		FieldName: "address",
		FieldType: schema.FieldText,
		Label:     "Address",
		Priority:  schema.PriorityMedium,
		re:        regexp.MustCompile(`(?i)(?:\b(?:rua|avenida|av\.|alameda|travessa|rodovia|street|avenue|road|boulevard)\s+[^,\n]{2,60},?\s*(?:n[ºo°]\s*)?\d+|\b\d{5}-\d{3}\b)`),
	},
	{
		FieldName: "price",
		FieldType: schema.FieldText,
		Label:     "Price",
		Priority:  schema.PriorityMedium,
		re:        regexp.MustCompile(`(?:R\$|US\$|\$|€|£)\s?\d+(?:[.,]\d{3})*(?:[.,]\d{2})?`),
	},
	{
		FieldName: "discount_percentage",
		FieldType: schema.FieldText,
		Label:     "Discount",
		Priority:  schema.PriorityMedium,
		re:        regexp.MustCompile(`(?i)(?:\d{1,3}\s?%\s?(?:off|de desconto|desconto|discount)|(?:desconto|discount)\s+(?:de\s+)?\d{1,3}\s?%)`),
	},
}

// matchPattern returns the first pattern matching text and the matched substring
func matchPattern(text string) (textPattern, string, bool) {
	for _, p := range textPatterns {
		m := p.re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		value := m[0]
		if len(m) > 1 {
			value = m[1]
		}
		if value != "" {
			return p, value, true
		}
	}
	return textPattern{}, "", false
}

// nameKeywords suggest a specific field name from the text of a widget.
// Checked in order, before the generic counter-based names.
var nameKeywords = []struct {
	Keywords  []string
	FieldName string
	FieldType schema.FieldType
}{
	{Keywords: []string{"business", "company", "empresa", "negócio", "negocio"}, FieldName: "business_name"},
	{Keywords: []string{"phone", "telefone", "fone", "celular"}, FieldName: "phone_number"},
	{Keywords: []string{"whatsapp"}, FieldName: "whatsapp_number"},
	{Keywords: []string{"email", "e-mail"}, FieldName: "email_address", FieldType: schema.FieldEmail},
	{Keywords: []string{"price", "preço", "preco", "valor"}, FieldName: "price"},
}

// contentKeysNotScanned hold structured values that are never free text
var contentKeysNotScanned = map[string]bool{
	"src":    true,
	"alt":    true,
	"link":   true,
	"url":    true,
	"href":   true,
	"tag":    true,
	"icon":   true,
	"target": true,
	"phone":  true,
}
