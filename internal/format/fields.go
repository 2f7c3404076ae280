package format

import (
	"github.com/gdg-garage/meibo/internal/models"
)

// ForField applies the formatter bound to a form field. Fields without one
// are returned unchanged.
func ForField(field, value string) string {
	switch field {
	case models.FieldFirstNameFurigana, models.FieldLastNameFurigana, models.FieldEmgFurigana:
		return ToKatakana(value)
	case models.FieldFirstNameRomaji, models.FieldLastNameRomaji:
		return ToUpperAlpha(value)
	case models.FieldPhone, models.FieldEmgPhone:
		return JPPhone(value)
	case models.FieldZip, models.FieldEmgZip:
		return JPZip(value)
	case models.FieldBirth, models.FieldVisaDate, models.FieldHealthDate, models.FieldInsuranceDate:
		return Date8(value)
	default:
		return value
	}
}

// Normalize runs every formatted field of f through its formatter.
func Normalize(f *models.RegistrationFields) {
	f.FirstNameFurigana = ToKatakana(f.FirstNameFurigana)
	f.LastNameFurigana = ToKatakana(f.LastNameFurigana)
	f.EmgFurigana = ToKatakana(f.EmgFurigana)
	f.FirstNameRomaji = ToUpperAlpha(f.FirstNameRomaji)
	f.LastNameRomaji = ToUpperAlpha(f.LastNameRomaji)
	f.Phone = JPPhone(f.Phone)
	f.EmgPhone = JPPhone(f.EmgPhone)
	f.Zip = JPZip(f.Zip)
	f.EmgZip = JPZip(f.EmgZip)
	f.Birth = Date8(f.Birth)
	f.VisaDate = Date8(f.VisaDate)
	f.HealthDate = Date8(f.HealthDate)
	f.InsuranceDate = Date8(f.InsuranceDate)
}
