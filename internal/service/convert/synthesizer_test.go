package convert

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	models "sitecraft/internal/domain/models/page"
	"sitecraft/internal/domain/models/schema"
)

func fieldNames(groups []schema.FieldGroup) []string {
	var names []string
	for _, g := range groups {
		for _, f := range g.Fields {
			names = append(names, f.Name)
		}
	}
	return names
}

func TestSynthesize_FirstDuplicateWins(t *testing.T) {
	candidates := []schema.Candidate{
		{SourceWidgetID: "h1", WidgetType: models.WidgetHeading, InferredFieldName: "business_name", InferredFieldType: schema.FieldText, DefaultValue: "Padaria Central", Priority: schema.PriorityHigh},
		{SourceWidgetID: "t1", WidgetType: models.WidgetText, InferredFieldName: "business_name", InferredFieldType: schema.FieldTextarea, DefaultValue: "Another name", Priority: schema.PriorityLow},
		{InferredFieldName: "business_name", InferredFieldType: schema.FieldText, Origin: schema.OriginDomainFixed},
	}

	groups, dropped := Synthesize(candidates, "")

	require.Len(t, groups, 1)
	require.Len(t, groups[0].Fields, 1)
	field := groups[0].Fields[0]
	assert.Equal(t, "Padaria Central", field.DefaultValue)
	assert.Equal(t, schema.FieldText, field.Type)
	assert.True(t, field.Required)
	assert.Equal(t, []string{"business_name", "business_name"}, dropped)
}

func TestSynthesize_Buckets(t *testing.T) {
	candidates := []schema.Candidate{
		{InferredFieldName: "hero_title", InferredFieldType: schema.FieldText, WidgetType: models.WidgetHeading},
		{InferredFieldName: "cta_button_1", InferredFieldType: schema.FieldTypeGroup, WidgetType: models.WidgetButton},
		{InferredFieldName: "phone_number", InferredFieldType: schema.FieldText},
		{InferredFieldName: "logo", InferredFieldType: schema.FieldImage},
		{InferredFieldName: "event_location", InferredFieldType: schema.FieldText},
	}

	groups, dropped := Synthesize(candidates, schema.DomainLeadGeneration)

	assert.Empty(t, dropped)
	require.Len(t, groups, 4)

	assert.Equal(t, "group_lead_generation_business_info", groups[0].Key)
	assert.Equal(t, "Business Information", groups[0].Title)
	assert.Equal(t, "logo", groups[0].Fields[0].Name)

	assert.Equal(t, "Contact Details", groups[1].Title)
	assert.Equal(t, []string{"phone_number", "event_location"}, []string{groups[1].Fields[0].Name, groups[1].Fields[1].Name})

	assert.Equal(t, "Calls to Action", groups[2].Title)
	// group candidates are flattened to text
	assert.Equal(t, schema.FieldText, groups[2].Fields[0].Type)

	assert.Equal(t, "Page Content", groups[3].Title)
	assert.Equal(t, "field_hero_title", groups[3].Fields[0].Key)
	assert.Equal(t, "Main headline at the top of the page.", groups[3].Fields[0].Instructions)
}

func TestBucketFor(t *testing.T) {
	tests := []struct {
		name string
		want schema.Bucket
	}{
		{name: "business_name", want: schema.BucketBusinessInfo},
		{name: "whatsapp_number", want: schema.BucketContact},
		{name: "email_address", want: schema.BucketContact},
		{name: "checkout_url", want: schema.BucketCTA},
		{name: "discount_percentage", want: schema.BucketCTA},
		{name: "feature_image_2", want: schema.BucketContent},
		{name: "section_title_3", want: schema.BucketContent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, BucketFor(tt.name))
		})
	}
}

func TestSynthesize_Instructions(t *testing.T) {
	groups, _ := Synthesize([]schema.Candidate{
		{InferredFieldName: "content_block_2", InferredFieldType: schema.FieldTextarea, WidgetType: models.WidgetIconList},
		{InferredFieldName: "opening_hours", InferredFieldType: schema.FieldText},
	}, "")

	require.Len(t, groups, 1)
	assert.Equal(t, "group_content", groups[0].Key)
	assert.Equal(t, "Replaces the content of a icon list widget on the page.", groups[0].Fields[0].Instructions)
	assert.Equal(t, "Business detail used across the page.", groups[0].Fields[1].Instructions)
	assert.Equal(t, "Opening Hours", groups[0].Fields[1].Label)
}

func TestSynthesize_RepeaterKeepsRows(t *testing.T) {
	groups, _ := Synthesize([]schema.Candidate{{
		InferredFieldName: "features_list",
		InferredFieldType: schema.FieldRepeater,
		SubFields: []schema.Field{
			{Name: "icon", Label: "Icon", Type: schema.FieldText},
			{Name: "text", Type: schema.FieldText},
		},
	}}, "")

	require.Len(t, groups, 1)
	field := groups[0].Fields[0]
	require.Len(t, field.SubFields, 2)
	assert.Equal(t, "field_features_list_icon", field.SubFields[0].Key)
	assert.Equal(t, "Text", field.SubFields[1].Label)
}

func TestApplyValues(t *testing.T) {
	groups, _ := Synthesize([]schema.Candidate{
		{InferredFieldName: "business_name", InferredFieldType: schema.FieldText, DefaultValue: "Old"},
		{InferredFieldName: "phone_number", InferredFieldType: schema.FieldText, DefaultValue: "(11) 1234-5678"},
	}, "")

	applied := ApplyValues(groups, map[string]string{
		"business_name": "Padaria Nova",
		"phone_number":  "",
		"unused":        "x",
	})

	values := FieldValues(applied)
	assert.Equal(t, "Padaria Nova", values["business_name"])
	assert.Equal(t, "(11) 1234-5678", values["phone_number"])
	assert.Equal(t, "Old", FieldValues(groups)["business_name"], "input groups are not modified")
}

func TestBuildACFExport(t *testing.T) {
	groups, _ := Synthesize([]schema.Candidate{
		{InferredFieldName: "business_name", InferredFieldType: schema.FieldText, DefaultValue: "Padaria", Priority: schema.PriorityHigh},
		{InferredFieldName: "logo", InferredFieldType: schema.FieldImage, DefaultValue: "https://cdn.example.com/logo.png", Priority: schema.PriorityMedium},
		{InferredFieldName: "event_date", InferredFieldType: schema.FieldDate},
	}, schema.DomainEvents)

	export := BuildACFExport(groups, "")

	assert.Equal(t, ACFExportVersion, export.Version)
	require.Len(t, export.FieldGroups, 2)
	group := export.FieldGroups[0]
	assert.Equal(t, 1, group.Active)
	assert.Equal(t, "post_type", group.Location[0][0].Param)
	assert.Equal(t, "page", group.Location[0][0].Value)

	require.Len(t, group.Fields, 2)
	assert.Equal(t, 1, group.Fields[0].Required)
	assert.Equal(t, "Padaria", group.Fields[0].Placeholder)
	assert.Equal(t, 0, group.Fields[1].Required)
	assert.Equal(t, "url", group.Fields[1].ReturnFormat)
	assert.Empty(t, group.Fields[1].Placeholder)

	assert.Equal(t, 1, export.FieldGroups[1].MenuOrder)
	assert.Equal(t, "d/m/Y", export.FieldGroups[1].Fields[0].ReturnFormat)

	templated := BuildACFExport(groups, "landing.php")
	assert.Equal(t, "page_template", templated.FieldGroups[0].Location[0][0].Param)
	assert.Equal(t, "landing.php", templated.FieldGroups[0].Location[0][0].Value)
}

func TestMarshalACF_UsesIntegerFlags(t *testing.T) {
	groups, _ := Synthesize([]schema.Candidate{
		{InferredFieldName: "business_name", InferredFieldType: schema.FieldText, Priority: schema.PriorityHigh},
	}, "")

	out, err := MarshalACF(BuildACFExport(groups, ""))
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(out, &decoded))
	group := decoded["field_groups"].([]any)[0].(map[string]any)
	assert.Equal(t, float64(1), group["active"])
	field := group["fields"].([]any)[0].(map[string]any)
	assert.Equal(t, float64(1), field["required"])
	assert.NotContains(t, string(out), "true")
}
