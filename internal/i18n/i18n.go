// Package i18n holds the two-language message table and picks a language
// for a request.
package i18n

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
)

type Lang string

const (
	Chinese  Lang = "zh"
	Japanese Lang = "ja"
)

// Default is used when nothing better is known about the caller.
const Default = Chinese

var matcher = language.NewMatcher([]language.Tag{
	language.Chinese,
	language.Japanese,
})

// Parse maps a stored or submitted language tag onto a supported Lang.
func Parse(s string) (Lang, bool) {
	switch Lang(strings.ToLower(strings.TrimSpace(s))) {
	case Chinese:
		return Chinese, true
	case Japanese:
		return Japanese, true
	}
	return Default, false
}

// Negotiate picks a Lang from an explicit value first, then from an
// Accept-Language header.
func Negotiate(explicit, acceptLanguage string) Lang {
	if l, ok := Parse(explicit); ok {
		return l
	}
	if acceptLanguage == "" {
		return Default
	}
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return Default
	}
	_, idx, conf := matcher.Match(tags...)
	if conf == language.No {
		return Default
	}
	if idx == 1 {
		return Japanese
	}
	return Chinese
}

// T looks up key in the table for lang, falling back to Chinese and then to
// the key itself. Extra args are applied with fmt.Sprintf.
func T(lang Lang, key string, args ...any) string {
	msg, ok := messages[lang][key]
	if !ok {
		msg, ok = messages[Chinese][key]
	}
	if !ok {
		msg = key
	}
	if len(args) > 0 {
		return fmt.Sprintf(msg, args...)
	}
	return msg
}
