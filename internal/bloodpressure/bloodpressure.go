// Package bloodpressure classifies a systolic/diastolic reading using the
// Japanese hypertension staging ladder.
package bloodpressure

import (
	"strconv"
	"strings"

	"github.com/gdg-garage/meibo/internal/i18n"
)

type Tier string

const (
	TierNone            Tier = ""
	TierLow             Tier = "low"
	TierNormal          Tier = "normal"
	TierNormalHigh      Tier = "normal-high"
	TierPreHypertension Tier = "pre-hypertension"
	TierStage1          Tier = "stage-1"
	TierStage2          Tier = "stage-2"
	TierStage3          Tier = "stage-3"
)

// Accepted input range, inclusive.
const (
	SystolicMin  = 80
	SystolicMax  = 250
	DiastolicMin = 40
	DiastolicMax = 150
)

// Classify walks the ladder top to bottom; the first matching rung wins.
func Classify(s, d int) Tier {
	switch {
	case s < 90 || d < 60:
		return TierLow
	case s < 120 && d < 80:
		return TierNormal
	case s >= 120 && s <= 129 && d < 80:
		return TierNormalHigh
	case (s >= 130 && s <= 139) || (d >= 80 && d <= 89):
		return TierPreHypertension
	case (s >= 140 && s <= 159) || (d >= 90 && d <= 99):
		return TierStage1
	case (s >= 160 && s <= 179) || (d >= 100 && d <= 109):
		return TierStage2
	case s >= 180 || d >= 110:
		return TierStage3
	}
	return TierNone
}

// Parse reads the raw form values. ok is false when either is missing or
// not a number.
func Parse(sbp, dbp string) (s, d int, ok bool) {
	sbp, dbp = strings.TrimSpace(sbp), strings.TrimSpace(dbp)
	if sbp == "" || dbp == "" {
		return 0, 0, false
	}
	s, errS := strconv.Atoi(sbp)
	d, errD := strconv.Atoi(dbp)
	if errS != nil || errD != nil {
		return 0, 0, false
	}
	return s, d, true
}

// ClassifyInput is Classify over raw form values.
func ClassifyInput(sbp, dbp string) Tier {
	s, d, ok := Parse(sbp, dbp)
	if !ok {
		return TierNone
	}
	return Classify(s, d)
}

// InRange reports whether both values are inside the accepted input range.
func InRange(s, d int) bool {
	return s >= SystolicMin && s <= SystolicMax && d >= DiastolicMin && d <= DiastolicMax
}

// Label returns the display label of the reading in lang, or "" when the
// reading is incomplete.
func Label(sbp, dbp string, lang i18n.Lang) string {
	return ClassifyInput(sbp, dbp).Label(lang)
}

var tierMessages = map[Tier]string{
	TierLow:             i18n.MsgBPLow,
	TierNormal:          i18n.MsgBPNormal,
	TierNormalHigh:      i18n.MsgBPNormalHigh,
	TierPreHypertension: i18n.MsgBPPreHypertense,
	TierStage1:          i18n.MsgBPStage1,
	TierStage2:          i18n.MsgBPStage2,
	TierStage3:          i18n.MsgBPStage3,
}

func (t Tier) Label(lang i18n.Lang) string {
	key, ok := tierMessages[t]
	if !ok {
		return ""
	}
	return i18n.T(lang, key)
}

// Severity groups tiers for display: "ok", "low" or "high".
func (t Tier) Severity() string {
	switch t {
	case TierNormal, TierNormalHigh:
		return "ok"
	case TierLow:
		return "low"
	case TierNone:
		return ""
	default:
		return "high"
	}
}
