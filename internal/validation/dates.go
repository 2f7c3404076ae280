package validation

import (
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/gdg-garage/meibo/internal/i18n"
	"github.com/gdg-garage/meibo/internal/models"
)

const (
	dateLayout = "2006-01-02"
	minimumAge = 16
)

var isoDatePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

var errBadShape = errors.New("date is not YYYY-MM-DD")

// ParseDate accepts YYYY-MM-DD or YYYY/MM/DD and rejects dates that are not
// on the calendar. formatOK is false when the shape itself is wrong.
func ParseDate(s string) (t time.Time, formatOK bool, err error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), "/", "-")
	if !isoDatePattern.MatchString(s) {
		return time.Time{}, false, errBadShape
	}
	t, err = time.ParseInLocation(dateLayout, s, time.Local)
	return t, true, err
}

// Age returns completed years between birth and now.
func Age(birth, now time.Time) int {
	age := now.Year() - birth.Year()
	if now.Month() < birth.Month() || (now.Month() == birth.Month() && now.Day() < birth.Day()) {
		age--
	}
	return age
}

// AgeOf returns the age for an ISO birth date, or 0 when it does not parse.
func AgeOf(birth string, now time.Time) int {
	t, _, err := ParseDate(birth)
	if err != nil {
		return 0
	}
	return Age(t, now)
}

// AgeOf is the package AgeOf measured against the validator's clock.
func (v *Validator) AgeOf(birth string) int {
	return AgeOf(birth, v.now())
}

func (v *Validator) today() time.Time {
	n := v.now().In(time.Local)
	return time.Date(n.Year(), n.Month(), n.Day(), 0, 0, 0, 0, time.Local)
}

// date checks shape, calendar validity and the field's range. An empty
// value is not checked here; required-ness is decided by the caller.
func (v *Validator) date(field, raw string, lang i18n.Lang) *FieldError {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	d, formatOK, err := ParseDate(raw)
	if !formatOK {
		return &FieldError{Field: field, Kind: KindFormat, Message: i18n.T(lang, i18n.MsgDateFormat)}
	}
	if err != nil {
		return &FieldError{Field: field, Kind: KindFormat, Message: i18n.T(lang, i18n.MsgDateInvalid)}
	}

	today := v.today()
	fail := func(key string) *FieldError {
		return &FieldError{Field: field, Kind: KindValidation, Message: i18n.T(lang, key)}
	}

	switch field {
	case models.FieldBirth:
		if d.After(today) {
			return fail(i18n.MsgBirthFuture)
		}
		if Age(d, today) < minimumAge {
			return fail(i18n.MsgAgeUnder16)
		}
	case models.FieldVisaDate, models.FieldInsuranceDate:
		if d.Before(today) {
			return fail(i18n.MsgDateBeforeToday)
		}
		if d.After(today.AddDate(10, 0, 0)) {
			return fail(i18n.MsgDateOverTenYears)
		}
	case models.FieldHealthDate:
		if !d.After(today.AddDate(-1, 0, 0)) || d.After(today) {
			return fail(i18n.MsgHealthDateRange)
		}
	}
	return nil
}
