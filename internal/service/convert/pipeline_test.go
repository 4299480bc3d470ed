package convert

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sitecraft/internal/config"
	"sitecraft/internal/domain"
	models "sitecraft/internal/domain/models/page"
	"sitecraft/internal/domain/models/schema"
	pageService "sitecraft/internal/service/page"
)

type stubProvider struct {
	values map[string]string
	err    error
	calls  int
}

func (p *stubProvider) GenerateValues(_ context.Context, _ []schema.FieldGroup) (map[string]string, error) {
	p.calls++
	return p.values, p.err
}

func (p *stubProvider) Name() string { return "stub" }

func newTestConverter(provider *stubProvider, threshold int) *Converter {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	if provider == nil {
		// a nil *stubProvider would be a non-nil interface
		return NewConverter(pageService.DefaultLibrary(), nil, threshold, schema.DomainLeadGeneration, logger)
	}
	return NewConverter(pageService.DefaultLibrary(), provider, threshold, schema.DomainLeadGeneration, logger)
}

func contactTree() []*models.WidgetNode {
	return []*models.WidgetNode{
		widget("s", models.WidgetSection, map[string]any{},
			widget("h", models.WidgetHeading, map[string]any{"text": "Telefone: (11) 99999-9999"}),
			widget("b", models.WidgetButton, map[string]any{"text": "Fale conosco", "link": "tel:11999999999"}),
		),
	}
}

func TestConvert_Pipeline(t *testing.T) {
	provider := &stubProvider{values: map[string]string{
		"business_name": "Generated Name",
		"email_address": "hello@padaria.example",
	}}
	c := newTestConverter(provider, config.DefaultComplexityThreshold)

	result, err := c.Convert(context.Background(), &ConvertRequest{
		Widgets:        contactTree(),
		TemplateName:   "landing",
		Values:         map[string]string{"business_name": "Padaria Central"},
		GenerateValues: true,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, provider.calls)

	assert.Equal(t, []string{
		"business_name", "logo",
		"phone_number", "email_address", "whatsapp_number",
		"cta_button_1",
	}, fieldNames(result.Groups))

	values := FieldValues(result.Groups)
	assert.Equal(t, "Padaria Central", values["business_name"])
	assert.Equal(t, "hello@padaria.example", values["email_address"])
	assert.Equal(t, "Telefone: (11) 99999-9999", values["phone_number"])
	assert.Equal(t, "group_lead_generation_contact", result.Groups[1].Key)

	assert.Equal(t, "page_template", result.ACF.FieldGroups[0].Location[0][0].Param)
	assert.Contains(t, result.Code.PHP, "sitecraft_fields_landing()")
	assert.Contains(t, result.Code.Script, `"business_name":"Padaria Central"`)

	report := result.Report
	assert.Equal(t, 3, report.TotalWidgets)
	assert.Equal(t, 2, report.ContentWidgets)
	assert.Equal(t, 2, report.ConvertedWidgets)
	assert.Equal(t, 100.0, report.PercentConverted)
	assert.Equal(t, 8, report.CandidateCount)
	assert.Equal(t, 6, report.FieldCount)
	assert.Equal(t, 1, report.GenericNameCount)
	assert.Equal(t, []string{"phone_number", "phone_number"}, report.DroppedDuplicates)
	assert.Empty(t, report.PatternMatchedOnly)
	assert.Equal(t, 2, report.MaxDepth)
	assert.Equal(t, 8, report.Complexity)
	assert.False(t, report.CustomStylingDetected)
	assert.False(t, report.ManualReviewNeeded)
	assert.Empty(t, report.ReviewReasons)
}

func TestConvert_ValueKeysIgnoreCase(t *testing.T) {
	c := newTestConverter(nil, config.DefaultComplexityThreshold)

	result, err := c.Convert(context.Background(), &ConvertRequest{
		Widgets: contactTree(),
		Values: map[string]string{
			"PHONE_NUMBER":  "+55 11 4004-1234",
			"Business_Name": "Padaria Central",
		},
	})
	require.NoError(t, err)

	values := FieldValues(result.Groups)
	assert.Equal(t, "+55 11 4004-1234", values["phone_number"])
	assert.Equal(t, "Padaria Central", values["business_name"])
	assert.NotContains(t, values, "PHONE_NUMBER")
	assert.Contains(t, result.Code.Script, `"phone_number":"+55 11 4004-1234"`)
}

func TestConvert_DoesNotModifyTree(t *testing.T) {
	c := newTestConverter(nil, config.DefaultComplexityThreshold)
	tree := contactTree()
	before := tree[0].Clone()

	_, err := c.Convert(context.Background(), &ConvertRequest{Widgets: tree, GenerateValues: true})
	require.NoError(t, err)
	assert.Equal(t, before, tree[0])
}

func TestConvert_ManualReview(t *testing.T) {
	tests := []struct {
		name      string
		tree      []*models.WidgetNode
		threshold int
		reasons   []string
	}{
		{
			name: "too few candidates",
			tree: []*models.WidgetNode{
				widget("img", models.WidgetImage, map[string]any{"src": "https://cdn.example.com/a.png"}),
			},
			threshold: config.DefaultComplexityThreshold,
			reasons:   []string{"only 1 candidates found in the widget tree"},
		},
		{
			name: "complexity",
			tree: []*models.WidgetNode{
				widget("h1", models.WidgetHeading, map[string]any{"text": "One"}),
				widget("h2", models.WidgetHeading, map[string]any{"text": "Two"}),
			},
			threshold: 1,
			reasons:   []string{"complexity 2 exceeds threshold 1"},
		},
		{
			name: "pattern only",
			tree: []*models.WidgetNode{
				widget("t", models.WidgetText, map[string]any{"text": "Avenida Paulista, 1000"}),
			},
			threshold: config.DefaultComplexityThreshold,
			reasons:   []string{"1 fields found only by text pattern"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestConverter(nil, tt.threshold)
			result, err := c.Convert(context.Background(), &ConvertRequest{Widgets: tt.tree, Domain: schema.DomainSales})
			require.NoError(t, err)
			assert.True(t, result.Report.ManualReviewNeeded)
			assert.Equal(t, tt.reasons, result.Report.ReviewReasons)
		})
	}
}

func TestConvert_CustomStyling(t *testing.T) {
	settingTree := contactTree()
	settingTree[0].Children[0].Settings["custom_css"] = "selector { color: red }"

	styleTree := contactTree()
	styleTree[0].Style["filter"] = models.String("blur(2px)")

	knownStyleTree := contactTree()
	knownStyleTree[0].Style["backgroundColor"] = models.String("#fff")

	c := newTestConverter(nil, config.DefaultComplexityThreshold)

	for name, tree := range map[string][]*models.WidgetNode{"setting": settingTree, "style": styleTree} {
		t.Run(name, func(t *testing.T) {
			result, err := c.Convert(context.Background(), &ConvertRequest{Widgets: tree})
			require.NoError(t, err)
			assert.True(t, result.Report.CustomStylingDetected)
			assert.True(t, result.Report.ManualReviewNeeded)
		})
	}

	result, err := c.Convert(context.Background(), &ConvertRequest{Widgets: knownStyleTree})
	require.NoError(t, err)
	assert.False(t, result.Report.CustomStylingDetected)
}

func TestConvert_Errors(t *testing.T) {
	c := newTestConverter(nil, config.DefaultComplexityThreshold)
	_, err := c.Convert(context.Background(), &ConvertRequest{})
	assert.ErrorIs(t, err, domain.ErrValidation)

	boom := errors.New("provider down")
	failing := newTestConverter(&stubProvider{err: boom}, config.DefaultComplexityThreshold)
	_, err = failing.Convert(context.Background(), &ConvertRequest{Widgets: contactTree(), GenerateValues: true})
	assert.ErrorIs(t, err, boom)

	// provider is only asked when requested
	provider := &stubProvider{err: boom}
	_, err = newTestConverter(provider, config.DefaultComplexityThreshold).Convert(context.Background(), &ConvertRequest{Widgets: contactTree()})
	require.NoError(t, err)
	assert.Zero(t, provider.calls)
}

func TestConvert_UnknownDomain(t *testing.T) {
	c := newTestConverter(nil, config.DefaultComplexityThreshold)
	result, err := c.Convert(context.Background(), &ConvertRequest{Widgets: contactTree(), Domain: "bakery"})
	require.NoError(t, err)

	names := fieldNames(result.Groups)
	assert.Contains(t, names, "business_name")
	assert.NotContains(t, names, "email_address")
	assert.Equal(t, "group_bakery_business_info", result.Groups[0].Key)
}
