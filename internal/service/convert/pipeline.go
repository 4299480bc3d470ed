package convert

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"sitecraft/internal/domain"
	models "sitecraft/internal/domain/models/page"
	"sitecraft/internal/domain/models/schema"
	convertSvc "sitecraft/internal/domain/services/convert"
	pageService "sitecraft/internal/service/page"
)

// ConvertRequest is one conversion of an externally authored widget tree
type ConvertRequest struct {
	Widgets      []*models.WidgetNode `json:"widgets"`
	Domain       schema.Domain        `json:"domain"`
	TemplateName string               `json:"template_name"`

	// Values are known field values; they win over generated ones
	Values map[string]string `json:"values,omitempty"`

	// GenerateValues asks the generation provider to fill the fields
	GenerateValues bool `json:"generate_values"`
}

// Validate validates the request
func (r *ConvertRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Widgets, validation.Required.Error("widget tree is empty")),
		validation.Field(&r.TemplateName, validation.Length(0, 120)),
	)
}

// ConvertResult holds every artifact of one conversion run
type ConvertResult struct {
	Candidates []schema.Candidate      `json:"candidates"`
	Groups     []schema.FieldGroup     `json:"groups"`
	ACF        *ACFExport              `json:"acf"`
	Code       *TemplateCode           `json:"code"`
	Report     schema.ConversionReport `json:"report"`
}

// Converter runs the classify, synthesize and generate pipeline.
// Each run works on its own tree; a Converter is safe for concurrent use.
type Converter struct {
	library             *pageService.Library
	classifier          *Classifier
	provider            convertSvc.GenerationProvider
	complexityThreshold int
	defaultDomain       schema.Domain
	logger              *slog.Logger
}

// NewConverter creates a converter. provider may be nil, in which case
// GenerateValues requests only use the supplied values.
func NewConverter(
	library *pageService.Library,
	provider convertSvc.GenerationProvider,
	complexityThreshold int,
	defaultDomain schema.Domain,
	logger *slog.Logger,
) *Converter {
	return &Converter{
		library:             library,
		classifier:          NewClassifier(library),
		provider:            provider,
		complexityThreshold: complexityThreshold,
		defaultDomain:       defaultDomain,
		logger:              logger,
	}
}

// Convert classifies req.Widgets and derives the field schema, the CMS export,
// the glue code and the ambiguity report. The source tree is not modified.
func (c *Converter) Convert(ctx context.Context, req *ConvertRequest) (*ConvertResult, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	d := req.Domain
	if d == "" {
		d = c.defaultDomain
	}
	if !KnownDomain(d) {
		c.logger.Warn("unknown content domain, using common fields only", "domain", d)
	}

	candidates := c.classifier.Classify(req.Widgets, d)
	groups, dropped := Synthesize(candidates, d)

	values := make(map[string]string)
	if req.GenerateValues && c.provider != nil {
		generated, err := c.provider.GenerateValues(ctx, groups)
		if err != nil {
			return nil, fmt.Errorf("generate field values with %s: %w", c.provider.Name(), err)
		}
		for k, v := range generated {
			values[strings.ToLower(k)] = v
		}
	}
	// field names are lowercase; callers may use the [FIELD_NAME] spelling
	for k, v := range req.Values {
		values[strings.ToLower(k)] = v
	}
	if len(values) > 0 {
		groups = ApplyValues(groups, values)
	}

	code, err := GenerateCode(groups, req.TemplateName)
	if err != nil {
		return nil, err
	}

	report := buildReport(c.library, req.Widgets, candidates, groups, dropped, c.complexityThreshold)

	c.logger.Info("conversion finished",
		"domain", d,
		"widgets", report.TotalWidgets,
		"candidates", report.CandidateCount,
		"fields", report.FieldCount,
		"percent_converted", report.PercentConverted,
		"manual_review", report.ManualReviewNeeded,
	)
	if len(dropped) > 0 {
		c.logger.Debug("duplicate field names dropped", "names", dropped)
	}

	if groups == nil {
		groups = []schema.FieldGroup{}
	}
	return &ConvertResult{
		Candidates: candidates,
		Groups:     groups,
		ACF:        BuildACFExport(groups, req.TemplateName),
		Code:       code,
		Report:     report,
	}, nil
}
