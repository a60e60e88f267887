package entity

import "strings"

// NormalizePhone strips everything but digits, preserving a leading "+".
// This is the storage form of a phone number.
func NormalizePhone(raw string) string {
	raw = strings.TrimSpace(raw)
	var b strings.Builder
	for i, r := range raw {
		if r == '+' && i == 0 {
			b.WriteRune(r)
			continue
		}
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// CanonicalPhone reduces a number to its comparison form: the trailing nine
// digits when at least nine are present. "0244123456" and "+233244123456"
// both canonicalize to "244123456"; the local 0-prefix and the country code
// carry no identity.
func CanonicalPhone(raw string) string {
	digits := strings.TrimPrefix(NormalizePhone(raw), "+")
	if len(digits) > 9 {
		return digits[len(digits)-9:]
	}
	return digits
}

func SamePhone(a, b string) bool {
	ca, cb := CanonicalPhone(a), CanonicalPhone(b)
	return ca != "" && ca == cb
}

// PhoneVariants lists the equality forms a stored number may take for the
// same identity: the normalized input, its bare digits, and the local
// 0-prefixed form. Used to build OR filters against the store, whose filter
// grammar only offers equality.
func PhoneVariants(raw string) []string {
	normalized := NormalizePhone(raw)
	if normalized == "" {
		return nil
	}
	digits := strings.TrimPrefix(normalized, "+")
	variants := []string{normalized}
	appendUnique := func(v string) {
		for _, existing := range variants {
			if existing == v {
				return
			}
		}
		variants = append(variants, v)
	}
	appendUnique(digits)
	if canonical := CanonicalPhone(raw); len(canonical) == 9 {
		appendUnique("0" + canonical)
	}
	return variants
}

// NormalizeEmail is the storage and comparison form of an email address.
func NormalizeEmail(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}
