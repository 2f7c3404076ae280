package models

import (
	"strings"
	"unicode"
)

// NormalizeAccountID strips whitespace and uppercases.
func NormalizeAccountID(s string) string {
	return strings.ToUpper(strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s))
}

// AccountID is derived from the romaji names; it is what users type to log in.
func (f RegistrationFields) AccountID() string {
	return NormalizeAccountID(f.FirstNameRomaji + f.LastNameRomaji)
}

// FullName joins the native-script family and given names.
func (f RegistrationFields) FullName() string {
	return strings.TrimSpace(f.FirstName + " " + f.LastName)
}
