// Package onboarding holds the state of the create-school form: field
// values, the derived short code, validation and submission status.
package onboarding

import "github.com/theirongolddev/shule/internal/api"

// Field identifies a form field. Values match the API's JSON keys.
type Field string

const (
	FieldName              Field = "name"
	FieldShortCode         Field = "short_code"
	FieldEmail             Field = "email"
	FieldPhone             Field = "phone"
	FieldAddress           Field = "address"
	FieldCurrency          Field = "currency"
	FieldAcademicYearStart Field = "academic_year_start"
	FieldBoardingType      Field = "boarding_type"
	FieldGenderType        Field = "gender_type"
)

// Fields lists every field in display order.
var Fields = []Field{
	FieldName,
	FieldShortCode,
	FieldEmail,
	FieldPhone,
	FieldAddress,
	FieldCurrency,
	FieldAcademicYearStart,
	FieldBoardingType,
	FieldGenderType,
}

type fieldSpec struct {
	label    string
	required bool
	maxLen   int
	options  []string
	hint     string
}

var specs = map[Field]fieldSpec{
	FieldName:              {label: "School name", required: true, maxLen: 255, hint: "Imara Primary School"},
	FieldShortCode:         {label: "Short code", maxLen: 32, hint: "derived from the name"},
	FieldEmail:             {label: "Email", maxLen: 255, hint: "office@school.ac.ke"},
	FieldPhone:             {label: "Phone", maxLen: 32, hint: "+254 700 000000"},
	FieldAddress:           {label: "Address", maxLen: 500, hint: "P.O. Box 123, Nairobi"},
	FieldCurrency:          {label: "Currency", maxLen: 8, hint: "KES"},
	FieldAcademicYearStart: {label: "Academic year start", required: true, hint: "YYYY-MM-DD"},
	FieldBoardingType:      {label: "Boarding", required: true, options: api.BoardingTypes},
	FieldGenderType:        {label: "Gender", required: true, options: api.GenderTypes},
}

// Label returns the human-readable label.
func (f Field) Label() string {
	if s, ok := specs[f]; ok {
		return s.label
	}
	return string(f)
}

// Required reports whether the field must be filled before submitting.
func (f Field) Required() bool {
	return specs[f].required
}

// MaxLen returns the maximum length in characters, or 0 for no limit.
func (f Field) MaxLen() int {
	return specs[f].maxLen
}

// Options returns the allowed values of an enum field, or nil.
func (f Field) Options() []string {
	return specs[f].options
}

// IsEnum reports whether the field takes one of a fixed set of values.
func (f Field) IsEnum() bool {
	return len(specs[f].options) > 0
}

// Placeholder returns example input for the field.
func (f Field) Placeholder() string {
	return specs[f].hint
}

// RequiredFields returns the fields that gate submission.
func RequiredFields() []Field {
	var out []Field
	for _, f := range Fields {
		if f.Required() {
			out = append(out, f)
		}
	}
	return out
}
