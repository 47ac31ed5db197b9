package domain

import "strings"

// defaultCountryCode is prefixed to national numbers that carry no country
// code of their own. The deployment serves a single home country.
const defaultCountryCode = "33"

// NormalizePhone converts free-text phone input into the bare
// country-code-prefixed digit string the SMS provider expects: no plus
// sign, no separators, no leading trunk zero. Returns "" when the input
// holds no usable number (empty, "N/A" walk-in placeholders).
func NormalizePhone(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" || strings.EqualFold(trimmed, "n/a") {
		return ""
	}

	hadPlus := strings.HasPrefix(trimmed, "+")
	var digits strings.Builder
	for _, r := range trimmed {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	number := digits.String()
	if number == "" {
		return ""
	}

	switch {
	case hadPlus:
		// Digits already start with a country code.
		return number
	case strings.HasPrefix(number, "00"):
		// International dialing prefix form: 0033...
		return strings.TrimPrefix(number, "00")
	case strings.HasPrefix(number, "0"):
		// National form with trunk zero: 06 12 34 56 78.
		return defaultCountryCode + number[1:]
	case strings.HasPrefix(number, defaultCountryCode):
		return number
	default:
		return defaultCountryCode + number
	}
}
