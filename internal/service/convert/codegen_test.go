package convert

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sitecraft/internal/domain/models/schema"
)

func TestSubstitutePlaceholders(t *testing.T) {
	values := map[string]string{
		"business_name": "Padaria Central",
		"phone_number":  "(11) 4004-1234",
		"price":         "",
	}

	tests := []struct {
		name string
		text string
		want string
	}{
		{name: "exact", text: "Welcome to [business_name]", want: "Welcome to Padaria Central"},
		{name: "case insensitive", text: "Call [PHONE_NUMBER] today", want: "Call (11) 4004-1234 today"},
		{name: "absent stays", text: "Ask for [OPENING_HOURS]", want: "Ask for [OPENING_HOURS]"},
		{name: "empty stays", text: "Only [PRICE]", want: "Only [PRICE]"},
		{name: "several", text: "[Business_Name] / [phone_number]", want: "Padaria Central / (11) 4004-1234"},
		{name: "not a placeholder", text: "[hello world]", want: "[hello world]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SubstitutePlaceholders(tt.text, values))
		})
	}

	assert.Equal(t, "[business_name]", SubstitutePlaceholders("[business_name]", nil))
}

func TestGenerateCode(t *testing.T) {
	groups := []schema.FieldGroup{{
		Key:   "group_business_info",
		Title: "Business Information",
		Fields: []schema.Field{
			{Key: "field_business_name", Name: "business_name", Type: schema.FieldText, DefaultValue: "Joe's Diner"},
			{Key: "field_whatsapp_number", Name: "whatsapp_number", Type: schema.FieldText, DefaultValue: "+55 11 98888-7777"},
		},
	}}

	code, err := GenerateCode(groups, "Landing Page.php")
	require.NoError(t, err)

	assert.Contains(t, code.PHP, "function sitecraft_fields_landing_page_php()")
	assert.Contains(t, code.PHP, `'business_name' => $field('business_name', 'Joe\'s Diner'),`)
	assert.Contains(t, code.PHP, `'whatsapp_number' => $field('whatsapp_number', '+55 11 98888-7777'),`)

	assert.Contains(t, code.Script, `var fields = {"business_name":"Joe's Diner","whatsapp_number":"+55 11 98888-7777"};`)
	assert.Contains(t, code.Script, `lookup('phone_number')`)
	assert.Contains(t, code.Script, `lookup('whatsapp_number')`)
	assert.Contains(t, code.Script, `a[href^="tel:"]`)
	assert.Contains(t, code.Script, `var tel = (phone.trim().charAt(0) === '+' ? '+' : '') + digits(phone);`)
	assert.Contains(t, code.Script, `link.setAttribute('href', 'tel:' + tel);`)
	assert.NotContains(t, code.Script, `'tel:+'`)
}

func TestGenerateCode_DefaultTemplateName(t *testing.T) {
	code, err := GenerateCode(nil, "")
	require.NoError(t, err)

	assert.Contains(t, code.PHP, "function sitecraft_fields_page()")
	assert.Contains(t, code.Script, "var fields = {};")
}

func TestPHPString(t *testing.T) {
	assert.Equal(t, `it\'s a \\ test`, phpString(`it's a \ test`))
	assert.Equal(t, "page", identifier("***"))
	assert.Equal(t, "home_v2", identifier("Home V2"))
}
