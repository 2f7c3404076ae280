package models

import (
	"time"
)

// Form field names. They double as the JSON keys of the persisted record.
const (
	FieldFirstName         = "firstName"
	FieldLastName          = "lastName"
	FieldFirstNameFurigana = "firstNameFurigana"
	FieldLastNameFurigana  = "lastNameFurigana"
	FieldFirstNameRomaji   = "firstNameRomaji"
	FieldLastNameRomaji    = "lastNameRomaji"
	FieldGender            = "gender"
	FieldBirth             = "birth"
	FieldNationality       = "nationality"
	FieldVisa              = "visa"
	FieldVisaDate          = "visaDate"
	FieldZip               = "zip"
	FieldPhone             = "phone"
	FieldHealthDate        = "healthDate"
	FieldBPHigh            = "bpHigh"
	FieldBPLow             = "bpLow"
	FieldBloodPressure     = "bloodPressure"
	FieldEmgName           = "emgName"
	FieldEmgFurigana       = "emgFurigana"
	FieldEmgPhone          = "emgPhone"
	FieldEmgZip            = "emgZip"
	FieldRelationship      = "relationship"
	FieldInsuranceDate     = "insuranceDate"
)

const (
	NationalityChina = "中国"
	NationalityJapan = "日本"
	NationalityOther = "其他"
)

var VisaTypes = []string{"技术・人文知识・国际业务", "技能", "特定技能", "永住者", "定住者", "家族滞在", "留学", "其他"}

var JobTypes = []string{"LGS", "PB", "造作", "其他"}

var Relationships = []string{"配偶", "父母", "子女", "兄弟姐妹", "其他亲属", "朋友", "同事", "其他"}

var BloodTypes = []string{"A", "B", "AB", "O"}

// Document types accepted by the upload step.
const (
	DocRouzai      = "rouzai"
	DocZairyuFront = "zairyuFront"
	DocZairyuBack  = "zairyuBack"
	DocPassport    = "passport"
	DocHealth      = "health"
	DocNenkin      = "nenkin"
	DocKenpo       = "kenpo"
	DocOther       = "other"
)

var DocumentTypes = []string{DocRouzai, DocZairyuFront, DocZairyuBack, DocPassport, DocHealth, DocNenkin, DocKenpo, DocOther}

// RegistrationFields is what the registration form collects.
type RegistrationFields struct {
	FirstName         string `json:"firstName,omitempty" doc:"Family name in native script"`
	LastName          string `json:"lastName,omitempty" doc:"Given name in native script"`
	FirstNameFurigana string `json:"firstNameFurigana,omitempty" doc:"Family name in katakana"`
	LastNameFurigana  string `json:"lastNameFurigana,omitempty" doc:"Given name in katakana"`
	FirstNameRomaji   string `json:"firstNameRomaji,omitempty" doc:"Family name in uppercase latin letters"`
	LastNameRomaji    string `json:"lastNameRomaji,omitempty" doc:"Given name in uppercase latin letters"`
	Gender            string `json:"gender,omitempty"`
	Birth             string `json:"birth,omitempty" doc:"Birth date, YYYY-MM-DD"`

	Nationality      string `json:"nationality,omitempty"`
	NationalityOther string `json:"nationalityOther,omitempty"`
	Visa             string `json:"visa,omitempty" doc:"Residence status"`
	VisaOther        string `json:"visaOther,omitempty"`
	VisaDate         string `json:"visaDate,omitempty" doc:"Residence card expiry, YYYY-MM-DD"`

	Jobs     []string `json:"jobs,omitempty"`
	JobOther string   `json:"jobOther,omitempty"`
	ExpYear  int      `json:"expYear,omitempty" minimum:"0"`
	ExpMonth int      `json:"expMonth,omitempty" minimum:"0" maximum:"11"`

	Zip           string `json:"zip,omitempty"`
	Address       string `json:"address,omitempty"`
	DetailAddress string `json:"detailAddress,omitempty"`
	SelectedChome string `json:"selectedChome,omitempty"`
	Phone         string `json:"phone,omitempty"`

	HealthDate string `json:"healthDate,omitempty"`
	BPHigh     string `json:"bpHigh,omitempty" doc:"Systolic blood pressure"`
	BPLow      string `json:"bpLow,omitempty" doc:"Diastolic blood pressure"`
	Blood      string `json:"blood,omitempty"`

	EmgName           string `json:"emgName,omitempty"`
	EmgFurigana       string `json:"emgFurigana,omitempty"`
	EmgPhone          string `json:"emgPhone,omitempty"`
	EmgZip            string `json:"emgZip,omitempty"`
	EmgAddress        string `json:"emgAddress,omitempty"`
	EmgDetailAddress  string `json:"emgDetailAddress,omitempty"`
	EmgSelectedChome  string `json:"emgSelectedChome,omitempty"`
	EmgSame           bool   `json:"emgSame,omitempty" doc:"Emergency contact lives at the registrant's address"`
	Relationship      string `json:"relationship,omitempty"`
	RelationshipOther string `json:"relationshipOther,omitempty"`

	InsuranceDate string `json:"insuranceDate,omitempty" doc:"Workers' accident insurance expiry, YYYY-MM-DD"`
}

// Record is one element of the persisted registration list.
type Record struct {
	ID string `json:"id"`
	RegistrationFields
	Age          int               `json:"age"`
	Documents    map[string]string `json:"documents,omitempty"`
	Lang         string            `json:"lang,omitempty"`
	RegisteredAt time.Time         `json:"registeredAt"`
	UpdatedAt    time.Time         `json:"updatedAt"`
	ModifiedBy   string            `json:"modifiedBy,omitempty"`
}

// IsJapanese reports whether the nationality needs no residence status.
func (f RegistrationFields) IsJapanese() bool {
	return f.Nationality == NationalityJapan
}

// ApplySameAddress copies the registrant's contact details onto the
// emergency contact when EmgSame is set.
func (f *RegistrationFields) ApplySameAddress() {
	if !f.EmgSame {
		return
	}
	f.EmgZip = f.Zip
	f.EmgAddress = f.Address
	f.EmgDetailAddress = f.DetailAddress
	f.EmgPhone = f.Phone
}

// RequiredDocuments lists the uploads that must be present for the record.
func (f RegistrationFields) RequiredDocuments() []string {
	if f.IsJapanese() {
		return []string{DocRouzai}
	}
	return []string{DocZairyuFront, DocZairyuBack, DocRouzai}
}
