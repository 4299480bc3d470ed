package schema

// FieldType is a field type from the external CMS field vocabulary
type FieldType string

const (
	FieldText      FieldType = "text"
	FieldTextarea  FieldType = "textarea"
	FieldURL       FieldType = "url"
	FieldEmail     FieldType = "email"
	FieldImage     FieldType = "image"
	FieldSelect    FieldType = "select"
	FieldCheckbox  FieldType = "checkbox"
	FieldDate      FieldType = "date"
	FieldRepeater  FieldType = "repeater"
	FieldTypeGroup FieldType = "group"
)

// Valid reports whether the type belongs to the supported vocabulary
func (t FieldType) Valid() bool {
	switch t {
	case FieldText, FieldTextarea, FieldURL, FieldEmail, FieldImage,
		FieldSelect, FieldCheckbox, FieldDate, FieldRepeater, FieldTypeGroup:
		return true
	}
	return false
}

// Field is one personalizable field in a synthesized schema
type Field struct {
	Key          string    `json:"key"`
	Name         string    `json:"name"`
	Label        string    `json:"label"`
	Type         FieldType `json:"type"`
	Instructions string    `json:"instructions"`
	Required     bool      `json:"required"`
	DefaultValue string    `json:"default_value"`
	SubFields    []Field   `json:"sub_fields,omitempty"` // repeater rows only
}

// FieldGroup is a named collection of fields
type FieldGroup struct {
	Key    string  `json:"key"`
	Title  string  `json:"title"`
	Fields []Field `json:"fields"`
}

// Bucket is one of the fixed field categories
type Bucket string

const (
	BucketBusinessInfo Bucket = "business_info"
	BucketContact      Bucket = "contact"
	BucketCTA          Bucket = "cta"
	BucketContent      Bucket = "content"
)

// Buckets lists the categories in output order
var Buckets = []Bucket{BucketBusinessInfo, BucketContact, BucketCTA, BucketContent}
