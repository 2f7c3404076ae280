package i18n

// Message keys.
const (
	MsgRequiredFirstName         = "required.firstName"
	MsgRequiredLastName          = "required.lastName"
	MsgRequiredFirstNameFurigana = "required.firstNameFurigana"
	MsgRequiredLastNameFurigana  = "required.lastNameFurigana"
	MsgRequiredGender            = "required.gender"
	MsgRequiredVisa              = "required.visa"
	MsgRequiredVisaDate          = "required.visaDate"
	MsgRequiredPhone             = "required.phone"
	MsgRequiredEmgName           = "required.emgName"
	MsgRequiredEmgPhone          = "required.emgPhone"
	MsgRequiredRelationship      = "required.relationship"

	MsgDateFormat       = "date.format"
	MsgDateInvalid      = "date.invalid"
	MsgBirthFuture      = "date.birthFuture"
	MsgAgeUnder16       = "date.ageUnder16"
	MsgDateBeforeToday  = "date.beforeToday"
	MsgDateOverTenYears = "date.overTenYears"
	MsgHealthDateRange  = "date.healthRange"

	MsgPhoneFormat   = "format.phone"
	MsgZipFormat     = "format.zip"
	MsgZipNotFound   = "format.zipNotFound"
	MsgBloodPressure = "bp.range"

	MsgBPLow           = "bp.low"
	MsgBPNormal        = "bp.normal"
	MsgBPNormalHigh    = "bp.normalHigh"
	MsgBPPreHypertense = "bp.preHypertension"
	MsgBPStage1        = "bp.stage1"
	MsgBPStage2        = "bp.stage2"
	MsgBPStage3        = "bp.stage3"

	MsgAuthInvalidCredentials = "auth.invalidCredentials"
	MsgAuthAccountNotFound    = "auth.accountNotFound"
	MsgAuthNoPasswordSet      = "auth.noPasswordSet"
	MsgAuthWrongPassword      = "auth.wrongPassword"
	MsgAuthLocked             = "auth.locked"
	MsgPasswordRequired       = "password.required"
	MsgPasswordMismatch       = "password.mismatch"
	MsgPasswordFormat         = "password.format"
	MsgPasswordAlreadySet     = "password.alreadySet"

	MsgDocumentsMissing = "documents.missing"

	MsgExportTitle    = "export.title"
	MsgExportFilename = "export.filename"
	MsgExperience     = "export.experience"
)

var messages = map[Lang]map[string]string{
	Chinese: {
		MsgRequiredFirstName:         "请输入姓",
		MsgRequiredLastName:          "请输入名",
		MsgRequiredFirstNameFurigana: "请输入姓(ふりがな)",
		MsgRequiredLastNameFurigana:  "请输入名(ふりがな)",
		MsgRequiredGender:            "请选择性别",
		MsgRequiredVisa:              "请输入在留资格",
		MsgRequiredVisaDate:          "请输入在留卡期限",
		MsgRequiredPhone:             "请输入电话号码",
		MsgRequiredEmgName:           "请输入紧急联系人姓名",
		MsgRequiredEmgPhone:          "请输入紧急联系人电话",
		MsgRequiredRelationship:      "请选择与本人关系",

		MsgDateFormat:       "日期格式错误",
		MsgDateInvalid:      "无效日期",
		MsgBirthFuture:      "出生日期不能晚于今天",
		MsgAgeUnder16:       "年龄必须大于16岁",
		MsgDateBeforeToday:  "日期不能早于今天",
		MsgDateOverTenYears: "日期不能超过10年",
		MsgHealthDateRange:  "日期只能选当天起1年以内",

		MsgPhoneFormat:   "电话号码格式错误（例：090-1234-5678）",
		MsgZipFormat:     "邮编格式错误（例：123-4567）",
		MsgZipNotFound:   "邮编无效",
		MsgBloodPressure: "请输入合理的血压值（高压80~250，低压40~150）",

		MsgBPLow:           "低血压",
		MsgBPNormal:        "正常",
		MsgBPNormalHigh:    "正常高值",
		MsgBPPreHypertense: "高血压前期",
		MsgBPStage1:        "1级高血压",
		MsgBPStage2:        "2级高血压",
		MsgBPStage3:        "3级高血压",

		MsgAuthInvalidCredentials: "账号或密码错误",
		MsgAuthAccountNotFound:    "未找到该账号",
		MsgAuthNoPasswordSet:      "该账号未设置密码",
		MsgAuthWrongPassword:      "密码错误",
		MsgAuthLocked:             "该账号已被锁定",
		MsgPasswordRequired:       "请输入密码并确认",
		MsgPasswordMismatch:       "两次输入的密码不一致",
		MsgPasswordFormat:         "密码必须为6位数字",
		MsgPasswordAlreadySet:     "该账号已设置密码",

		MsgDocumentsMissing: "请上传所有必传证件照片",

		MsgExportTitle:    "个人信息",
		MsgExportFilename: "名簿导出",
		MsgExperience:     "%d年%d个月",
	},
	Japanese: {
		MsgRequiredFirstName:         "姓を入力してください",
		MsgRequiredLastName:          "名を入力してください",
		MsgRequiredFirstNameFurigana: "姓(ふりがな)を入力してください",
		MsgRequiredLastNameFurigana:  "名(ふりがな)を入力してください",
		MsgRequiredGender:            "性別を選択してください",
		MsgRequiredVisa:              "在留資格を入力してください",
		MsgRequiredVisaDate:          "在留期限を入力してください",
		MsgRequiredPhone:             "電話番号を入力してください",
		MsgRequiredEmgName:           "緊急連絡先氏名を入力してください",
		MsgRequiredEmgPhone:          "緊急連絡先電話番号を入力してください",
		MsgRequiredRelationship:      "本人との関係を選択してください",

		MsgDateFormat:       "日付形式エラー",
		MsgDateInvalid:      "無効な日付",
		MsgBirthFuture:      "生年月日は本日以前を入力してください",
		MsgAgeUnder16:       "16歳以上である必要があります",
		MsgDateBeforeToday:  "本日以前の日付は選択できません",
		MsgDateOverTenYears: "10年以内の日付を選択してください",
		MsgHealthDateRange:  "本日から1年以内の日付のみ選択可能",

		MsgPhoneFormat:   "電話番号の形式が正しくありません（例：090-1234-5678）",
		MsgZipFormat:     "郵便番号の形式が正しくありません（例：123-4567）",
		MsgZipNotFound:   "郵便番号が正しくありません",
		MsgBloodPressure: "正しい血圧値を入力してください（収縮期80~250、拡張期40~150）",

		MsgBPLow:           "低血圧",
		MsgBPNormal:        "正常",
		MsgBPNormalHigh:    "正常高値",
		MsgBPPreHypertense: "高血圧前期",
		MsgBPStage1:        "高血圧1度",
		MsgBPStage2:        "高血圧2度",
		MsgBPStage3:        "高血圧3度",

		MsgAuthInvalidCredentials: "アカウントまたはパスワードが違います",
		MsgAuthAccountNotFound:    "アカウントが見つかりません",
		MsgAuthNoPasswordSet:      "このアカウントはパスワードが設定されていません",
		MsgAuthWrongPassword:      "パスワードが違います",
		MsgAuthLocked:             "このアカウントはロックされています",
		MsgPasswordRequired:       "パスワードを入力し、確認してください",
		MsgPasswordMismatch:       "パスワードが一致しません",
		MsgPasswordFormat:         "パスワードは6桁の数字である必要があります",
		MsgPasswordAlreadySet:     "このアカウントは既にパスワードが設定されています",

		MsgDocumentsMissing: "必須書類の写真をすべてアップロードしてください",

		MsgExportTitle:    "個人情報",
		MsgExportFilename: "名簿エクスポート",
		MsgExperience:     "%d年%dヶ月",
	},
}

// Field labels used by exports and the accounts overview.
var labels = map[Lang]map[string]string{
	Chinese: {
		"name":          "姓名",
		"furigana":      "ふりがな",
		"romaji":        "罗马字",
		"gender":        "性别",
		"birth":         "出生日期",
		"age":           "年龄",
		"nationality":   "国籍",
		"visa":          "在留资格",
		"visaDate":      "在留期限",
		"jobs":          "工种",
		"experience":    "经验",
		"zip":           "邮编",
		"address":       "地址",
		"phone":         "电话",
		"healthDate":    "健康诊断日",
		"bloodPressure": "血压",
		"blood":         "血型",
		"emgName":       "紧急联系人",
		"emgFurigana":   "紧急联系人(ふりがな)",
		"emgPhone":      "紧急联系人电话",
		"relationship":  "与本人关系",
		"emgAddress":    "紧急联系人地址",
		"insuranceDate": "劳灾保险到期日",
		"account":       "账号",
		"locked":        "锁定",
	},
	Japanese: {
		"name":          "氏名",
		"furigana":      "ふりがな",
		"romaji":        "ローマ字",
		"gender":        "性別",
		"birth":         "生年月日",
		"age":           "年齢",
		"nationality":   "国籍",
		"visa":          "在留資格",
		"visaDate":      "在留期限",
		"jobs":          "職種",
		"experience":    "経験",
		"zip":           "郵便番号",
		"address":       "住所",
		"phone":         "電話",
		"healthDate":    "健康診断日",
		"bloodPressure": "血圧",
		"blood":         "血液型",
		"emgName":       "緊急連絡先",
		"emgFurigana":   "緊急連絡先(ふりがな)",
		"emgPhone":      "緊急連絡先電話番号",
		"relationship":  "続柄",
		"emgAddress":    "緊急連絡先住所",
		"insuranceDate": "労災保険満了日",
		"account":       "アカウント",
		"locked":        "ロック",
	},
}

// Label returns the display label of a record field.
func Label(lang Lang, field string) string {
	if l, ok := labels[lang][field]; ok {
		return l
	}
	return labels[Chinese][field]
}
