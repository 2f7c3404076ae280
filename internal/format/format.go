// Package format normalizes raw form keystrokes. Every function is total,
// idempotent and safe to call on partially typed input.
package format

import (
	"strconv"
	"strings"
	"time"
	"unicode"
)

const (
	hiraganaFirst = 0x3041
	hiraganaLast  = 0x3096
	katakanaFirst = 0x30A1
	katakanaLast  = 0x30FC
	kanaOffset    = 0x60
)

// ToKatakana shifts hiragana into the katakana block and drops everything
// that is not katakana afterwards.
func ToKatakana(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= hiraganaFirst && r <= hiraganaLast {
			r += kanaOffset
		}
		if r >= katakanaFirst && r <= katakanaLast {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ToUpperAlpha keeps ASCII letters only, uppercased.
func ToUpperAlpha(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r >= 'A' && r <= 'Z':
			b.WriteRune(r)
		case r >= 'a' && r <= 'z':
			b.WriteRune(unicode.ToUpper(r))
		}
	}
	return b.String()
}

// JPPhone renders up to eleven digits as AAA-BBBB-CCCC.
func JPPhone(s string) string {
	num := digits(s, 11)
	switch {
	case len(num) <= 3:
		return num
	case len(num) <= 7:
		return num[:3] + "-" + num[3:]
	default:
		return num[:3] + "-" + num[3:7] + "-" + num[7:]
	}
}

// JPZip renders up to seven digits as AAA-BBBB.
func JPZip(s string) string {
	num := digits(s, 7)
	if len(num) <= 3 {
		return num
	}
	return num[:3] + "-" + num[3:]
}

// Date8 progressively renders up to eight digits as YYYY, YYYY-MM and
// YYYY-MM-DD. Months above 12 are clamped to 12; a complete date that is
// not on the calendar falls back to YYYY-MM.
func Date8(s string) string {
	num := digits(s, 8)
	if len(num) <= 4 {
		return num
	}

	year, month := num[:4], num[4:min(len(num), 6)]
	if m, _ := strconv.Atoi(month); m > 12 {
		month = "12"
	}
	if len(num) <= 6 {
		return year + "-" + month
	}

	day := num[6:]
	if len(day) == 2 && !onCalendar(year, month, day) {
		return year + "-" + month
	}
	return year + "-" + month + "-" + day
}

func onCalendar(year, month, day string) bool {
	_, err := time.Parse("2006-01-02", year+"-"+month+"-"+day)
	return err == nil
}

func digits(s string, limit int) string {
	var b strings.Builder
	for _, r := range s {
		if r < '0' || r > '9' {
			continue
		}
		if b.Len() == limit {
			break
		}
		b.WriteRune(r)
	}
	return b.String()
}
