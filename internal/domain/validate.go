package domain

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// MaxLength is the maximum length of a hostname including dots
const MaxLength = 253

// hostnamePattern matches one or more labels of up to 63 alphanumeric or hyphen
// characters, each followed by a dot, and a final alphabetic label of at least two characters.
// Internationalized names and public suffixes are deliberately not considered.
var hostnamePattern = regexp.MustCompile(`^(?:[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?\.)+[a-zA-Z]{2,}$`)

// Validate trims the input and checks it against the hostname rules, returning
// the trimmed domain or the error for the first rule it violates
func Validate(input string) (string, error) {
	name := strings.TrimSpace(input)

	switch {
	case name == "":
		return "", ErrDomainRequired
	case utf8.RuneCountInString(name) > MaxLength:
		return "", ErrDomainTooLong
	case !hostnamePattern.MatchString(name):
		return "", ErrInvalidDomainFormat
	}

	return name, nil
}

// IsValid reports whether the input passes Validate
func IsValid(input string) bool {
	_, err := Validate(input)

	return err == nil
}
