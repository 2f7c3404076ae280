// Package validation checks a registration form field by field (on blur)
// or as a whole (on submit).
package validation

import (
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/gdg-garage/meibo/internal/bloodpressure"
	"github.com/gdg-garage/meibo/internal/i18n"
	"github.com/gdg-garage/meibo/internal/models"
)

type Kind string

const (
	// KindValidation blocks submission.
	KindValidation Kind = "validation"
	// KindFormat marks malformed dates, postal codes and phone numbers.
	KindFormat Kind = "format"
)

type FieldError struct {
	Field   string
	Kind    Kind
	Message string
}

func (e FieldError) Error() string {
	return e.Field + ": " + e.Message
}

// FieldErrors maps a field name to its message. Empty means valid.
type FieldErrors map[string]string

func (e FieldErrors) Error() string {
	parts := make([]string, 0, len(e))
	for _, f := range e.Fields() {
		parts = append(parts, f+": "+e[f])
	}
	return strings.Join(parts, "; ")
}

// Fields returns the failing field names in a stable order.
func (e FieldErrors) Fields() []string {
	fields := make([]string, 0, len(e))
	for f := range e {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return fields
}

var (
	phonePattern = regexp.MustCompile(`^0\d{2}-\d{4}-\d{4}$`)
	zipPattern   = regexp.MustCompile(`^\d{3}-\d{4}$`)
)

// Fields checked by All, in form order.
var formFields = []string{
	models.FieldFirstName,
	models.FieldLastName,
	models.FieldFirstNameFurigana,
	models.FieldLastNameFurigana,
	models.FieldGender,
	models.FieldBirth,
	models.FieldVisa,
	models.FieldVisaDate,
	models.FieldZip,
	models.FieldPhone,
	models.FieldHealthDate,
	models.FieldBloodPressure,
	models.FieldEmgName,
	models.FieldEmgPhone,
	models.FieldEmgZip,
	models.FieldRelationship,
	models.FieldInsuranceDate,
}

var required = map[string]string{
	models.FieldFirstName:         i18n.MsgRequiredFirstName,
	models.FieldLastName:          i18n.MsgRequiredLastName,
	models.FieldFirstNameFurigana: i18n.MsgRequiredFirstNameFurigana,
	models.FieldLastNameFurigana:  i18n.MsgRequiredLastNameFurigana,
	models.FieldGender:            i18n.MsgRequiredGender,
	models.FieldPhone:             i18n.MsgRequiredPhone,
	models.FieldEmgName:           i18n.MsgRequiredEmgName,
	models.FieldEmgPhone:          i18n.MsgRequiredEmgPhone,
	models.FieldRelationship:      i18n.MsgRequiredRelationship,
}

type Validator struct {
	now func() time.Time
}

// New returns a Validator that measures date ranges against now(). A nil
// now uses time.Now.
func New(now func() time.Time) *Validator {
	if now == nil {
		now = time.Now
	}
	return &Validator{now: now}
}

// Field validates one field of f. It returns nil when the field is valid.
func (v *Validator) Field(f models.RegistrationFields, field string, lang i18n.Lang) *FieldError {
	if field == models.FieldBPHigh || field == models.FieldBPLow {
		field = models.FieldBloodPressure
	}

	if key, ok := required[field]; ok && strings.TrimSpace(value(f, field)) == "" {
		return &FieldError{Field: field, Kind: KindValidation, Message: i18n.T(lang, key)}
	}

	switch field {
	case models.FieldVisa:
		if !f.IsJapanese() && strings.TrimSpace(f.Visa) == "" {
			return &FieldError{Field: field, Kind: KindValidation, Message: i18n.T(lang, i18n.MsgRequiredVisa)}
		}
	case models.FieldVisaDate:
		if f.IsJapanese() {
			return nil
		}
		if strings.TrimSpace(f.VisaDate) == "" {
			return &FieldError{Field: field, Kind: KindValidation, Message: i18n.T(lang, i18n.MsgRequiredVisaDate)}
		}
		return v.date(field, f.VisaDate, lang)
	case models.FieldBirth, models.FieldHealthDate, models.FieldInsuranceDate:
		return v.date(field, value(f, field), lang)
	case models.FieldPhone, models.FieldEmgPhone:
		if p := value(f, field); p != "" && !phonePattern.MatchString(p) {
			return &FieldError{Field: field, Kind: KindFormat, Message: i18n.T(lang, i18n.MsgPhoneFormat)}
		}
	case models.FieldZip, models.FieldEmgZip:
		if z := value(f, field); z != "" && !zipPattern.MatchString(z) {
			return &FieldError{Field: field, Kind: KindFormat, Message: i18n.T(lang, i18n.MsgZipFormat)}
		}
	case models.FieldBloodPressure:
		return bloodPressure(f, lang)
	}
	return nil
}

// All runs every rule and collects the failures.
func (v *Validator) All(f models.RegistrationFields, lang i18n.Lang) FieldErrors {
	errs := FieldErrors{}
	for _, field := range formFields {
		if fe := v.Field(f, field, lang); fe != nil {
			errs[fe.Field] = fe.Message
		}
	}
	return errs
}

// EditDates is the lighter pass applied to administrator edits: only the
// expiry and health-check dates are checked, and only when present.
func (v *Validator) EditDates(f models.RegistrationFields, lang i18n.Lang) FieldErrors {
	errs := FieldErrors{}
	for _, field := range []string{models.FieldVisaDate, models.FieldInsuranceDate, models.FieldHealthDate} {
		if fe := v.date(field, value(f, field), lang); fe != nil {
			errs[fe.Field] = fe.Message
		}
	}
	return errs
}

func bloodPressure(f models.RegistrationFields, lang i18n.Lang) *FieldError {
	if strings.TrimSpace(f.BPHigh) == "" && strings.TrimSpace(f.BPLow) == "" {
		return nil
	}
	s, d, ok := bloodpressure.Parse(f.BPHigh, f.BPLow)
	if !ok || !bloodpressure.InRange(s, d) {
		return &FieldError{Field: models.FieldBloodPressure, Kind: KindValidation, Message: i18n.T(lang, i18n.MsgBloodPressure)}
	}
	return nil
}

func value(f models.RegistrationFields, field string) string {
	switch field {
	case models.FieldFirstName:
		return f.FirstName
	case models.FieldLastName:
		return f.LastName
	case models.FieldFirstNameFurigana:
		return f.FirstNameFurigana
	case models.FieldLastNameFurigana:
		return f.LastNameFurigana
	case models.FieldFirstNameRomaji:
		return f.FirstNameRomaji
	case models.FieldLastNameRomaji:
		return f.LastNameRomaji
	case models.FieldGender:
		return f.Gender
	case models.FieldBirth:
		return f.Birth
	case models.FieldNationality:
		return f.Nationality
	case models.FieldVisa:
		return f.Visa
	case models.FieldVisaDate:
		return f.VisaDate
	case models.FieldZip:
		return f.Zip
	case models.FieldPhone:
		return f.Phone
	case models.FieldHealthDate:
		return f.HealthDate
	case models.FieldEmgName:
		return f.EmgName
	case models.FieldEmgFurigana:
		return f.EmgFurigana
	case models.FieldEmgPhone:
		return f.EmgPhone
	case models.FieldEmgZip:
		return f.EmgZip
	case models.FieldRelationship:
		return f.Relationship
	case models.FieldInsuranceDate:
		return f.InsuranceDate
	}
	return ""
}
