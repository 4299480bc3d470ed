package convert

import (
	"fmt"
	"html"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"

	models "sitecraft/internal/domain/models/page"
	"sitecraft/internal/domain/models/schema"
	pageService "sitecraft/internal/service/page"
)

// maxKeywordTextLength bounds the text keyword heuristics look at. Longer
// text is body copy, not a label.
const maxKeywordTextLength = 80

// Classifier mines a widget tree for business-specific content.
//
// A Classifier holds no per-run state and is safe for concurrent use.
type Classifier struct {
	library *pageService.Library
	strip   *bluemonday.Policy
}

// NewClassifier creates a classifier using the field shapes of library
func NewClassifier(library *pageService.Library) *Classifier {
	return &Classifier{
		library: library,
		strip:   bluemonday.StrictPolicy(),
	}
}

// Classify walks tree depth-first and returns candidates in discovery order:
// per node the widget-mapped candidate, then pattern matches; domain-fixed
// candidates come last. Identical input yields identical output.
func (c *Classifier) Classify(tree []*models.WidgetNode, domain schema.Domain) []schema.Candidate {
	run := &classifyRun{classifier: c, counters: make(map[models.WidgetType]int)}
	for _, root := range tree {
		if root == nil {
			continue
		}
		root.Walk(func(w *models.WidgetNode, _ int) bool {
			run.visit(w)
			return true
		})
	}
	return append(run.candidates, domainCandidates(domain)...)
}

// classifyRun carries the per-type counters of one Classify call
type classifyRun struct {
	classifier *Classifier
	counters   map[models.WidgetType]int
	candidates []schema.Candidate
}

func (r *classifyRun) visit(w *models.WidgetNode) {
	if shape := r.classifier.library.Shape(w.Type); shape != nil {
		r.counters[w.Type]++
		r.candidates = append(r.candidates, r.classifier.widgetCandidate(w, shape, r.counters[w.Type]))
	}
	r.candidates = append(r.candidates, r.classifier.patternCandidates(w)...)
}

func (c *Classifier) widgetCandidate(w *models.WidgetNode, shape *pageService.Shape, count int) schema.Candidate {
	cand := schema.Candidate{
		SourceWidgetID:    w.ID,
		WidgetType:        w.Type,
		InferredFieldType: shape.FieldType,
		Priority:          shape.Priority,
		Origin:            schema.OriginWidgetMapped,
	}

	if shape.ValueField != "" {
		value := w.ContentString(shape.ValueField)
		switch shape.FieldType {
		case schema.FieldText, schema.FieldTextarea, schema.FieldTypeGroup:
			value = c.plainText(value)
		}
		cand.DefaultValue = value
	}

	for _, sf := range shape.SubFields {
		cand.SubFields = append(cand.SubFields, schema.Field{
			Name:         sf.Name,
			Label:        sf.Label,
			Type:         sf.Type,
			DefaultValue: c.plainText(w.ContentString(sf.Name)),
		})
	}

	if name, fieldType, ok := keywordName(cand.DefaultValue, shape.FieldType); ok {
		cand.InferredFieldName = name
		cand.InferredFieldType = fieldType
	} else {
		cand.InferredFieldName = genericName(shape, count)
		cand.GenericName = true
	}
	cand.Label = labelFor(cand.InferredFieldName)
	return cand
}

// keywordName suggests a specific name from short textual values
func keywordName(text string, shapeType schema.FieldType) (string, schema.FieldType, bool) {
	switch shapeType {
	case schema.FieldText, schema.FieldTextarea, schema.FieldTypeGroup:
	default:
		return "", "", false
	}
	if text == "" || utf8.RuneCountInString(text) > maxKeywordTextLength {
		return "", "", false
	}

	lower := strings.ToLower(text)
	for _, rule := range nameKeywords {
		for _, kw := range rule.Keywords {
			if strings.Contains(lower, kw) {
				fieldType := rule.FieldType
				if fieldType == "" {
					fieldType = schema.FieldText
				}
				return rule.FieldName, fieldType, true
			}
		}
	}
	return "", "", false
}

// genericName is the counter-based fallback: the first occurrence may have a
// dedicated name, later ones are numbered.
func genericName(shape *pageService.Shape, count int) string {
	if count == 1 && shape.FirstName != "" {
		return shape.FirstName
	}
	return fmt.Sprintf("%s_%d", shape.NamePrefix, count)
}

// patternCandidates scans the free-text content fields of w in key order.
// Each field yields at most one candidate: the first pattern that matches.
func (c *Classifier) patternCandidates(w *models.WidgetNode) []schema.Candidate {
	keys := make([]string, 0, len(w.Content))
	for k, v := range w.Content {
		if _, isString := v.(string); isString && !contentKeysNotScanned[k] {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	var out []schema.Candidate
	for _, key := range keys {
		text := c.plainText(w.ContentString(key))
		if text == "" {
			continue
		}
		p, match, ok := matchPattern(text)
		if !ok {
			continue
		}
		out = append(out, schema.Candidate{
			SourceWidgetID:    w.ID,
			WidgetType:        w.Type,
			InferredFieldName: p.FieldName,
			InferredFieldType: p.FieldType,
			Label:             p.Label,
			DefaultValue:      strings.TrimSpace(match),
			Priority:          p.Priority,
			Origin:            schema.OriginPatternMatched,
		})
	}
	return out
}

// plainText strips markup and entities from widget text
func (c *Classifier) plainText(s string) string {
	if s == "" {
		return ""
	}
	return strings.TrimSpace(html.UnescapeString(c.strip.Sanitize(s)))
}
