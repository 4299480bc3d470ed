package convert

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"sitecraft/internal/domain/models/schema"
)

// bucketKeywords assign a field name to a bucket by substring. Buckets are
// checked in schema.Buckets order; names matching none land in content.
var bucketKeywords = map[schema.Bucket][]string{
	schema.BucketBusinessInfo: {"business", "company", "brand", "logo", "empresa", "about", "event_name"},
	schema.BucketContact:      {"phone", "whatsapp", "email", "address", "contact", "location", "service_area"},
	schema.BucketCTA:          {"cta", "button", "ticket", "checkout", "price", "discount", "offer"},
}

var bucketTitles = map[schema.Bucket]string{
	schema.BucketBusinessInfo: "Business Information",
	schema.BucketContact:      "Contact Details",
	schema.BucketCTA:          "Calls to Action",
	schema.BucketContent:      "Page Content",
}

var fieldInstructions = map[string]string{
	"business_name":       "The business name as customers know it.",
	"logo":                "Business logo, ideally a transparent PNG or SVG.",
	"phone_number":        "Main phone number including area code.",
	"whatsapp_number":     "WhatsApp number with country and area code. Only digits are used in links.",
	"email_address":       "Public contact email address.",
	"address":             "Street address shown to visitors.",
	"price":               "Displayed price including the currency symbol.",
	"discount_percentage": "Discount advertised on offers, for example 20%.",
	"checkout_url":        "Link to the checkout or payment page.",
	"service_area":        "Cities or regions the business serves.",
	"event_name":          "Name of the event.",
	"event_date":          "Date the event takes place.",
	"event_location":      "Venue or address of the event.",
	"ticket_url":          "Link where visitors buy tickets.",
	"hero_title":          "Main headline at the top of the page.",
	"hero_description":    "Short introduction below the main headline.",
	"contact_form":        "Title and recipient of the contact form.",
	"features_list":       "One row per feature, with an icon and a short text.",
}

// labelFor turns a field name into a human label: cta_button_2 -> Cta Button 2
func labelFor(name string) string {
	// Casers keep state, so each call gets its own
	return cases.Title(language.English).String(strings.ReplaceAll(name, "_", " "))
}

// BucketFor categorizes a field name
func BucketFor(name string) schema.Bucket {
	for _, b := range schema.Buckets {
		for _, kw := range bucketKeywords[b] {
			if strings.Contains(name, kw) {
				return b
			}
		}
	}
	return schema.BucketContent
}

// Synthesize groups candidates into field groups. When two candidates share a
// field name the first one wins; the names of dropped later candidates are
// returned in order.
func Synthesize(candidates []schema.Candidate, domain schema.Domain) (groups []schema.FieldGroup, dropped []string) {
	seen := make(map[string]bool, len(candidates))
	byBucket := make(map[schema.Bucket][]schema.Field)

	for _, cand := range candidates {
		name := cand.InferredFieldName
		if name == "" {
			continue
		}
		if seen[name] {
			dropped = append(dropped, name)
			continue
		}
		seen[name] = true

		bucket := BucketFor(name)
		byBucket[bucket] = append(byBucket[bucket], fieldFor(cand))
	}

	for _, b := range schema.Buckets {
		fields := byBucket[b]
		if len(fields) == 0 {
			continue
		}
		groups = append(groups, schema.FieldGroup{
			Key:    groupKey(domain, b),
			Title:  bucketTitles[b],
			Fields: fields,
		})
	}
	return groups, dropped
}

func groupKey(domain schema.Domain, b schema.Bucket) string {
	if domain == "" {
		return "group_" + string(b)
	}
	return "group_" + strings.ReplaceAll(string(domain), "-", "_") + "_" + string(b)
}

// fieldFor builds the field of a candidate. Group candidates are flattened to
// a single text field; repeaters keep their row sub-fields.
func fieldFor(cand schema.Candidate) schema.Field {
	f := schema.Field{
		Key:          "field_" + cand.InferredFieldName,
		Name:         cand.InferredFieldName,
		Label:        cand.Label,
		Type:         cand.InferredFieldType,
		Instructions: instructionsFor(cand),
		Required:     cand.Priority == schema.PriorityHigh,
		DefaultValue: cand.DefaultValue,
	}
	if f.Label == "" {
		f.Label = labelFor(f.Name)
	}

	switch f.Type {
	case schema.FieldTypeGroup:
		f.Type = schema.FieldText
	case schema.FieldRepeater:
		for _, sf := range cand.SubFields {
			sub := sf
			sub.Key = f.Key + "_" + sf.Name
			if sub.Label == "" {
				sub.Label = labelFor(sf.Name)
			}
			f.SubFields = append(f.SubFields, sub)
		}
	}
	return f
}

func instructionsFor(cand schema.Candidate) string {
	if text, ok := fieldInstructions[cand.InferredFieldName]; ok {
		return text
	}
	if cand.WidgetType == "" {
		return "Business detail used across the page."
	}
	return fmt.Sprintf("Replaces the content of a %s widget on the page.", strings.ReplaceAll(string(cand.WidgetType), "_", " "))
}

// ApplyValues returns a copy of groups with defaults replaced by the non-empty
// entries of values, keyed by field name.
func ApplyValues(groups []schema.FieldGroup, values map[string]string) []schema.FieldGroup {
	out := make([]schema.FieldGroup, len(groups))
	for i, g := range groups {
		out[i] = g
		out[i].Fields = make([]schema.Field, len(g.Fields))
		for j, f := range g.Fields {
			if v, ok := values[f.Name]; ok && v != "" {
				f.DefaultValue = v
			}
			out[i].Fields[j] = f
		}
	}
	return out
}

// FieldValues flattens groups into a field name to value map
func FieldValues(groups []schema.FieldGroup) map[string]string {
	values := make(map[string]string)
	for _, g := range groups {
		for _, f := range g.Fields {
			values[f.Name] = f.DefaultValue
		}
	}
	return values
}
