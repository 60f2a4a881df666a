package onboarding

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/theirongolddev/shule/internal/api"
)

const (
	// DefaultCurrency is the currency a new form starts with.
	DefaultCurrency = "KES"

	// ShortCodeMaxDerived caps the length of a derived short code.
	ShortCodeMaxDerived = 10

	// DateLayout is the accepted academic-year start format.
	DateLayout = "2006-01-02"

	// FallbackError is shown when a failed submission carries no detail.
	FallbackError = "Failed to create school. Please try again."
)

var (
	// ErrIncomplete is returned when required fields are empty.
	ErrIncomplete = errors.New("required fields are missing")

	// ErrInvalid is returned when field validation fails.
	ErrInvalid = errors.New("form has invalid fields")

	// ErrSubmitting is returned when a submission is already in flight.
	ErrSubmitting = errors.New("submission already in progress")
)

// Creator creates a school. *api.Client implements it.
type Creator interface {
	CreateSchool(ctx context.Context, req api.CreateSchoolRequest) (*api.School, error)
}

// Defaults seeds a new form.
type Defaults struct {
	Currency string
}

// Form is the create-school form state. It is not safe for concurrent use;
// callers drive it from a single goroutine.
type Form struct {
	values          map[Field]string
	shortCodeEdited bool
	submitting      bool
	errors          map[Field]string
	banner          string
	created         *api.School
}

// NewForm returns an empty form with defaults applied.
func NewForm(d Defaults) *Form {
	currency := strings.TrimSpace(d.Currency)
	if currency == "" {
		currency = DefaultCurrency
	}
	return &Form{
		values: map[Field]string{FieldCurrency: currency},
		errors: make(map[Field]string),
	}
}

// DeriveShortCode returns the first letter of each whitespace-separated
// word of name, uppercased and capped at ShortCodeMaxDerived characters.
func DeriveShortCode(name string) string {
	var b strings.Builder
	n := 0
	for _, word := range strings.Fields(name) {
		if n == ShortCodeMaxDerived {
			break
		}
		r, _ := utf8.DecodeRuneInString(word)
		b.WriteRune(unicode.ToUpper(r))
		n++
	}
	return b.String()
}

// Value returns the current value of f.
func (f *Form) Value(field Field) string {
	return f.values[field]
}

// Set updates a field. Setting the name re-derives the short code until the
// short code has been edited directly; from then on derivation is off for
// the life of the form.
func (f *Form) Set(field Field, value string) {
	switch field {
	case FieldShortCode:
		f.shortCodeEdited = true
	case FieldName:
		if !f.shortCodeEdited {
			f.values[FieldShortCode] = DeriveShortCode(value)
		}
	}
	f.values[field] = value
	delete(f.errors, field)
}

// ShortCodeEdited reports whether the short code was edited directly.
func (f *Form) ShortCodeEdited() bool {
	return f.shortCodeEdited
}

// CanSubmit reports whether every required field is filled and no
// submission is in flight.
func (f *Form) CanSubmit() bool {
	if f.submitting {
		return false
	}
	for _, field := range RequiredFields() {
		if strings.TrimSpace(f.values[field]) == "" {
			return false
		}
	}
	return true
}

// Missing returns the required fields that are still empty.
func (f *Form) Missing() []Field {
	var out []Field
	for _, field := range RequiredFields() {
		if strings.TrimSpace(f.values[field]) == "" {
			out = append(out, field)
		}
	}
	return out
}

// Validate checks every field and records per-field messages. It returns
// the messages, empty when the form is valid.
func (f *Form) Validate() map[Field]string {
	errs := make(map[Field]string)

	for _, field := range Fields {
		value := strings.TrimSpace(f.values[field])
		if value == "" {
			if field.Required() {
				errs[field] = field.Label() + " is required"
			}
			continue
		}
		if limit := field.MaxLen(); limit > 0 && utf8.RuneCountInString(value) > limit {
			errs[field] = fmt.Sprintf("%s must be at most %d characters", field.Label(), limit)
			continue
		}
		if opts := field.Options(); len(opts) > 0 && !slices.Contains(opts, value) {
			errs[field] = fmt.Sprintf("%s must be one of %s", field.Label(), strings.Join(opts, ", "))
		}
	}

	if start := strings.TrimSpace(f.values[FieldAcademicYearStart]); start != "" {
		if _, err := time.Parse(DateLayout, start); err != nil {
			errs[FieldAcademicYearStart] = "Academic year start must be a date like 2025-01-06"
		}
	}
	if email := strings.TrimSpace(f.values[FieldEmail]); email != "" && errs[FieldEmail] == "" {
		if !strings.Contains(email, "@") {
			errs[FieldEmail] = "Email must be a valid address"
		}
	}

	f.errors = errs
	return errs
}

// Errors returns the field messages from the last validation.
func (f *Form) Errors() map[Field]string {
	return f.errors
}

// FieldError returns the message for one field, or "".
func (f *Form) FieldError(field Field) string {
	return f.errors[field]
}

// Request builds the API request from the current values. Optional fields
// that are blank are omitted.
func (f *Form) Request() api.CreateSchoolRequest {
	v := func(field Field) string { return strings.TrimSpace(f.values[field]) }
	return api.CreateSchoolRequest{
		Name:              v(FieldName),
		ShortCode:         strings.ToUpper(v(FieldShortCode)),
		Email:             v(FieldEmail),
		Phone:             v(FieldPhone),
		Address:           v(FieldAddress),
		Currency:          strings.ToUpper(v(FieldCurrency)),
		AcademicYearStart: v(FieldAcademicYearStart),
		BoardingType:      v(FieldBoardingType),
		GenderType:        v(FieldGenderType),
	}
}

// Begin validates the form and marks a submission in flight. On success it
// returns the request to send; the caller reports the outcome with Fail or
// Succeed.
func (f *Form) Begin() (api.CreateSchoolRequest, error) {
	if f.submitting {
		return api.CreateSchoolRequest{}, ErrSubmitting
	}
	if !f.CanSubmit() {
		f.Validate()
		return api.CreateSchoolRequest{}, ErrIncomplete
	}
	if errs := f.Validate(); len(errs) > 0 {
		return api.CreateSchoolRequest{}, ErrInvalid
	}
	f.submitting = true
	f.banner = ""
	return f.Request(), nil
}

// Fail ends a submission with an error. Values are kept so the user can
// retry.
func (f *Form) Fail(err error) {
	f.submitting = false
	f.banner = ErrorMessage(err)
}

// Succeed ends a submission with the created school.
func (f *Form) Succeed(school *api.School) {
	f.submitting = false
	f.banner = ""
	f.created = school
}

// Submit runs a whole submission synchronously against c.
func (f *Form) Submit(ctx context.Context, c Creator) (*api.School, error) {
	req, err := f.Begin()
	if err != nil {
		return nil, err
	}
	school, err := c.CreateSchool(ctx, req)
	if err != nil {
		f.Fail(err)
		return nil, err
	}
	f.Succeed(school)
	return school, nil
}

// Submitting reports whether a submission is in flight.
func (f *Form) Submitting() bool {
	return f.submitting
}

// Banner returns the current error banner text, or "".
func (f *Form) Banner() string {
	return f.banner
}

// DismissBanner clears the error banner.
func (f *Form) DismissBanner() {
	f.banner = ""
}

// Created returns the school created by the last successful submission.
func (f *Form) Created() *api.School {
	return f.created
}

// ErrorMessage turns a creation failure into banner text: the server's
// detail when present, otherwise FallbackError.
func ErrorMessage(err error) string {
	if err == nil {
		return ""
	}
	if detail := api.Detail(err); detail != "" {
		return detail
	}
	return FallbackError
}
