package validation

import (
	"testing"
	"time"

	"github.com/gdg-garage/meibo/internal/i18n"
	"github.com/gdg-garage/meibo/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2026, time.October, 15, 10, 30, 0, 0, time.Local)

func day(t time.Time) string {
	return t.Format("2006-01-02")
}

func validFields() models.RegistrationFields {
	return models.RegistrationFields{
		FirstName:         "张",
		LastName:          "三",
		FirstNameFurigana: "チョウ",
		LastNameFurigana:  "サン",
		FirstNameRomaji:   "ZHANG",
		LastNameRomaji:    "SAN",
		Gender:            "男",
		Birth:             day(fixedNow.AddDate(-18, 0, 0)),
		Nationality:       models.NationalityChina,
		Visa:              "技能",
		VisaDate:          day(fixedNow.AddDate(1, 0, 0)),
		Jobs:              []string{"LGS"},
		Zip:               "232-0033",
		Address:           "東京都新宿区",
		Phone:             "090-1234-1234",
		HealthDate:        day(fixedNow),
		BPHigh:            "120",
		BPLow:             "80",
		Blood:             "A",
		EmgName:           "李四",
		EmgPhone:          "090-1234-1234",
		EmgZip:            "232-0033",
		Relationship:      "父母",
		InsuranceDate:     "2027-03-31",
	}
}

func TestAllAcceptsCompleteForm(t *testing.T) {
	v := New(func() time.Time { return fixedNow })
	errs := v.All(validFields(), i18n.Chinese)
	assert.Empty(t, errs, errs.Error())
}

func TestAllReportsRequiredFields(t *testing.T) {
	v := New(func() time.Time { return fixedNow })
	errs := v.All(models.RegistrationFields{}, i18n.Japanese)

	for _, field := range []string{
		models.FieldFirstName, models.FieldLastName,
		models.FieldFirstNameFurigana, models.FieldLastNameFurigana,
		models.FieldGender, models.FieldPhone,
		models.FieldEmgName, models.FieldEmgPhone, models.FieldRelationship,
		models.FieldVisa, models.FieldVisaDate,
	} {
		assert.Contains(t, errs, field)
	}
	assert.Equal(t, "姓を入力してください", errs[models.FieldFirstName])
	assert.NotContains(t, errs, models.FieldBirth)
	assert.NotContains(t, errs, models.FieldBloodPressure)
}

func TestVisaOnlyRequiredForForeignNationals(t *testing.T) {
	v := New(func() time.Time { return fixedNow })
	f := validFields()
	f.Nationality = models.NationalityJapan
	f.Visa = ""
	f.VisaDate = ""
	assert.Empty(t, v.All(f, i18n.Chinese))

	f.Nationality = models.NationalityOther
	errs := v.All(f, i18n.Chinese)
	assert.Equal(t, "请输入在留资格", errs[models.FieldVisa])
	assert.Contains(t, errs, models.FieldVisaDate)
}

func TestAgeThreshold(t *testing.T) {
	v := New(func() time.Time { return fixedNow })
	f := validFields()

	f.Birth = day(fixedNow.AddDate(-16, 0, 0))
	assert.Nil(t, v.Field(f, models.FieldBirth, i18n.Chinese))

	f.Birth = day(fixedNow.AddDate(-16, 0, 1))
	fe := v.Field(f, models.FieldBirth, i18n.Chinese)
	require.NotNil(t, fe)
	assert.Equal(t, "年龄必须大于16岁", fe.Message)
	assert.Equal(t, KindValidation, fe.Kind)

	f.Birth = day(fixedNow.AddDate(0, 0, 1))
	fe = v.Field(f, models.FieldBirth, i18n.Chinese)
	require.NotNil(t, fe)
	assert.Equal(t, "出生日期不能晚于今天", fe.Message)
}

func TestExpiryDates(t *testing.T) {
	v := New(func() time.Time { return fixedNow })
	f := validFields()

	for _, field := range []string{models.FieldVisaDate, models.FieldInsuranceDate} {
		set := func(s string) {
			if field == models.FieldVisaDate {
				f.VisaDate = s
			} else {
				f.InsuranceDate = s
			}
		}

		set(day(fixedNow))
		assert.Nil(t, v.Field(f, field, i18n.Chinese), field)

		set(day(fixedNow.AddDate(10, 0, 0)))
		assert.Nil(t, v.Field(f, field, i18n.Chinese), field)

		set(day(fixedNow.AddDate(0, 0, -1)))
		fe := v.Field(f, field, i18n.Japanese)
		require.NotNil(t, fe, field)
		assert.Equal(t, "本日以前の日付は選択できません", fe.Message)

		set(day(fixedNow.AddDate(10, 0, 1)))
		fe = v.Field(f, field, i18n.Chinese)
		require.NotNil(t, fe, field)
		assert.Equal(t, "日期不能超过10年", fe.Message)
	}
}

func TestHealthDateWindow(t *testing.T) {
	v := New(func() time.Time { return fixedNow })
	f := validFields()

	f.HealthDate = day(fixedNow.AddDate(-1, 0, 1))
	assert.Nil(t, v.Field(f, models.FieldHealthDate, i18n.Chinese))

	f.HealthDate = day(fixedNow.AddDate(-1, 0, 0))
	assert.NotNil(t, v.Field(f, models.FieldHealthDate, i18n.Chinese))

	f.HealthDate = day(fixedNow.AddDate(0, 0, 1))
	assert.NotNil(t, v.Field(f, models.FieldHealthDate, i18n.Chinese))
}

func TestDateShape(t *testing.T) {
	v := New(func() time.Time { return fixedNow })
	f := validFields()

	f.InsuranceDate = "2027/03/31"
	assert.Nil(t, v.Field(f, models.FieldInsuranceDate, i18n.Chinese))

	f.InsuranceDate = "2027-3-31"
	fe := v.Field(f, models.FieldInsuranceDate, i18n.Chinese)
	require.NotNil(t, fe)
	assert.Equal(t, KindFormat, fe.Kind)
	assert.Equal(t, "日期格式错误", fe.Message)

	f.InsuranceDate = "2027-02-30"
	fe = v.Field(f, models.FieldInsuranceDate, i18n.Japanese)
	require.NotNil(t, fe)
	assert.Equal(t, "無効な日付", fe.Message)
}

func TestPhoneAndZipShape(t *testing.T) {
	v := New(func() time.Time { return fixedNow })
	f := validFields()

	f.Phone = "090-1234"
	fe := v.Field(f, models.FieldPhone, i18n.Chinese)
	require.NotNil(t, fe)
	assert.Equal(t, KindFormat, fe.Kind)

	f.Zip = "12"
	assert.NotNil(t, v.Field(f, models.FieldZip, i18n.Chinese))
	f.Zip = ""
	assert.Nil(t, v.Field(f, models.FieldZip, i18n.Chinese))

	f.EmgZip = "123-45678"
	assert.NotNil(t, v.Field(f, models.FieldEmgZip, i18n.Chinese))
}

func TestBloodPressurePair(t *testing.T) {
	v := New(func() time.Time { return fixedNow })
	f := validFields()

	f.BPHigh, f.BPLow = "", ""
	assert.Nil(t, v.Field(f, models.FieldBPHigh, i18n.Chinese))

	f.BPHigh, f.BPLow = "120", ""
	fe := v.Field(f, models.FieldBPLow, i18n.Chinese)
	require.NotNil(t, fe)
	assert.Equal(t, models.FieldBloodPressure, fe.Field)

	f.BPHigh, f.BPLow = "251", "80"
	assert.NotNil(t, v.Field(f, models.FieldBloodPressure, i18n.Chinese))

	f.BPHigh, f.BPLow = "250", "40"
	assert.Nil(t, v.Field(f, models.FieldBloodPressure, i18n.Chinese))

	f.BPHigh, f.BPLow = "high", "80"
	assert.NotNil(t, v.Field(f, models.FieldBloodPressure, i18n.Chinese))
}

func TestEditDatesIgnoresOtherFields(t *testing.T) {
	v := New(func() time.Time { return fixedNow })
	f := models.RegistrationFields{VisaDate: day(fixedNow.AddDate(0, 0, -3))}

	errs := v.EditDates(f, i18n.Chinese)
	assert.Len(t, errs, 1)
	assert.Contains(t, errs, models.FieldVisaDate)
}

func TestAgeOf(t *testing.T) {
	assert.Equal(t, 18, AgeOf(day(fixedNow.AddDate(-18, 0, 0)), fixedNow))
	assert.Equal(t, 17, AgeOf(day(fixedNow.AddDate(-18, 0, 1)), fixedNow))
	assert.Equal(t, 0, AgeOf("garbage", fixedNow))
}

func TestFieldErrorsString(t *testing.T) {
	errs := FieldErrors{"phone": "b", "gender": "a"}
	assert.Equal(t, []string{"gender", "phone"}, errs.Fields())
	assert.Equal(t, "gender: a; phone: b", errs.Error())
}
