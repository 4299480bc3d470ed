package schema

import "sitecraft/internal/domain/models/page"

// Origin describes how a candidate was discovered
type Origin string

const (
	OriginWidgetMapped   Origin = "widget-mapped"
	OriginPatternMatched Origin = "pattern-matched"
	OriginDomainFixed    Origin = "domain-fixed"
)

// Priority ranks how likely a candidate is business-specific
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Candidate is a dynamic-field candidate found in one conversion run.
// SourceWidgetID is a lookup key into the source tree, not an ownership edge.
type Candidate struct {
	SourceWidgetID    string          `json:"source_widget_id,omitempty"`
	WidgetType        page.WidgetType `json:"widget_type,omitempty"`
	InferredFieldName string          `json:"inferred_field_name"`
	InferredFieldType FieldType       `json:"inferred_field_type"`
	Label             string          `json:"label"`
	DefaultValue      string          `json:"default_value"`
	Priority          Priority        `json:"priority"`
	Origin            Origin          `json:"origin"`
	GenericName       bool            `json:"generic_name"` // name came from the counter fallback
	SubFields         []Field         `json:"sub_fields,omitempty"`
}

// Domain is the target content-domain tag of a conversion
type Domain string

const (
	DomainLeadGeneration Domain = "lead-generation"
	DomainSales          Domain = "sales"
	DomainServices       Domain = "services"
	DomainEvents         Domain = "events"
)
