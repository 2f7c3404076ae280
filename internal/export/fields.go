// Package export renders registration records as PDF or XLSX documents.
package export

import (
	"strconv"
	"strings"

	"github.com/gdg-garage/meibo/internal/bloodpressure"
	"github.com/gdg-garage/meibo/internal/i18n"
	"github.com/gdg-garage/meibo/internal/models"
)

// Line is one labelled value of a record.
type Line struct {
	Key   string
	Label string
	Value string
}

// columns is the order fields appear in every export.
var columns = []string{
	"account",
	"name",
	"furigana",
	"romaji",
	"gender",
	"birth",
	"age",
	"nationality",
	"visa",
	"visaDate",
	"insuranceDate",
	"jobs",
	"experience",
	"zip",
	"address",
	"phone",
	"healthDate",
	"bloodPressure",
	"blood",
	"emgName",
	"emgFurigana",
	"emgPhone",
	"relationship",
	"emgAddress",
}

// Fields returns the non-empty labelled values of rec in export order.
func Fields(rec models.Record, lang i18n.Lang) []Line {
	all := allFields(rec, lang)
	out := all[:0]
	for _, l := range all {
		if l.Value != "" {
			out = append(out, l)
		}
	}
	return out
}

func allFields(rec models.Record, lang i18n.Lang) []Line {
	values := map[string]string{
		"account":       rec.AccountID(),
		"name":          join(" ", rec.FirstName, rec.LastName),
		"furigana":      join(" ", rec.FirstNameFurigana, rec.LastNameFurigana),
		"romaji":        join(" ", rec.FirstNameRomaji, rec.LastNameRomaji),
		"gender":        rec.Gender,
		"birth":         rec.Birth,
		"nationality":   withOther(rec.Nationality, rec.NationalityOther),
		"visa":          withOther(rec.Visa, rec.VisaOther),
		"visaDate":      rec.VisaDate,
		"insuranceDate": rec.InsuranceDate,
		"jobs":          withOther(strings.Join(rec.Jobs, "、"), rec.JobOther),
		"zip":           rec.Zip,
		"address":       join(" ", rec.Address, rec.DetailAddress, rec.SelectedChome),
		"phone":         rec.Phone,
		"healthDate":    rec.HealthDate,
		"bloodPressure": bloodPressureText(rec, lang),
		"blood":         rec.Blood,
		"emgName":       rec.EmgName,
		"emgFurigana":   rec.EmgFurigana,
		"emgPhone":      rec.EmgPhone,
		"relationship":  withOther(rec.Relationship, rec.RelationshipOther),
		"emgAddress":    join(" ", rec.EmgAddress, rec.EmgDetailAddress, rec.EmgSelectedChome),
	}
	if rec.Age > 0 {
		values["age"] = strconv.Itoa(rec.Age)
	}
	if rec.ExpYear > 0 || rec.ExpMonth > 0 {
		values["experience"] = i18n.T(lang, i18n.MsgExperience, rec.ExpYear, rec.ExpMonth)
	}

	lines := make([]Line, 0, len(columns))
	for _, key := range columns {
		lines = append(lines, Line{
			Key:   key,
			Label: i18n.Label(lang, key),
			Value: strings.TrimSpace(values[key]),
		})
	}
	return lines
}

func join(sep string, parts ...string) string {
	kept := parts[:0:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, sep)
}

func withOther(value, other string) string {
	other = strings.TrimSpace(other)
	switch {
	case other == "":
		return value
	case value == "":
		return other
	default:
		return value + " (" + other + ")"
	}
}

func bloodPressureText(rec models.Record, lang i18n.Lang) string {
	reading := join("/", rec.BPHigh, rec.BPLow)
	if label := bloodpressure.Label(rec.BPHigh, rec.BPLow, lang); label != "" {
		return reading + " (" + label + ")"
	}
	return reading
}

// Filename names the download for records: the registrant's name for a
// single record, the localized list name otherwise.
func Filename(records []models.Record, lang i18n.Lang, ext string) string {
	if len(records) == 1 {
		if name := records[0].FirstName + records[0].LastName; name != "" {
			return name + ext
		}
	}
	return i18n.T(lang, i18n.MsgExportFilename) + ext
}
