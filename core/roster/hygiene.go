package roster

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	letterRegex = regexp.MustCompile(`[a-zA-Z]`)
	emailRegex  = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	e164USRegex = regexp.MustCompile(`^\+1\d{10}$`)
	zipRegex    = regexp.MustCompile(`^\d{5}(-\d{4})?$`)
	digitsRegex = regexp.MustCompile(`\D`)
)

// NameAnomaly reports whether a name is entirely uppercase or entirely
// lowercase. Normal mixed casing (incl. Title Case) passes, and so do empty
// and single-character names.
func NameAnomaly(name string) bool {
	name = strings.TrimSpace(name)
	if len([]rune(name)) < 2 {
		return false
	}
	allUpper := name == strings.ToUpper(name) && letterRegex.MatchString(name)
	allLower := name == strings.ToLower(name)
	return allUpper || allLower
}

// EmailAnomaly reports whether a non-empty email fails the local@domain.tld
// shape. An absent email is not an anomaly; absence is not malformation.
func EmailAnomaly(email string) bool {
	if email == "" {
		return false
	}
	return !emailRegex.MatchString(email)
}

// PhoneAnomaly reports whether a non-empty phone number is not strict US
// E.164 (+1 followed by exactly 10 digits, no separators).
func PhoneAnomaly(phone string) bool {
	if phone == "" {
		return false
	}
	return !e164USRegex.MatchString(phone)
}

// AddressAnomaly reports whether a present address is incomplete or carries a
// malformed ZIP. A missing address is not an anomaly.
func AddressAnomaly(a *Address) bool {
	if a == nil {
		return false
	}
	if strings.TrimSpace(a.Street) == "" ||
		strings.TrimSpace(a.City) == "" ||
		strings.TrimSpace(a.State) == "" ||
		strings.TrimSpace(a.Zip) == "" {
		return true
	}
	return !zipRegex.MatchString(a.Zip)
}

// FixName converts a name to Title Case: everything lowered, then the first
// letter of each space-delimited token uppercased. Spacing is preserved as-is.
func FixName(name string) string {
	if name == "" {
		return ""
	}
	words := strings.Split(strings.ToLower(name), " ")
	for i, word := range words {
		if word == "" {
			continue
		}
		runes := []rune(word)
		runes[0] = unicode.ToUpper(runes[0])
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}

// FixPhone normalizes a 10-digit (or 11-digit leading-1) number to E.164.
// Anything else comes back unchanged; callers detect a no-op fix by comparing
// output to input.
func FixPhone(phone string) string {
	digits := digitsRegex.ReplaceAllString(phone, "")
	switch {
	case len(digits) == 10:
		return "+1" + digits
	case len(digits) == 11 && digits[0] == '1':
		return "+" + digits
	}
	return phone
}
