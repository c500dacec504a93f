package notify

import (
	"net/url"
	"strings"
)

// CountryCode is the fixed calling code prefixed to normalized numbers.
const CountryCode = "237"

// nationalNumberLen is the fixed width of the national part of a phone number.
const nationalNumberLen = 9

// NormalizePhone strips every non-digit character from raw, keeps the last
// nine digits, and prefixes the country calling code.
func NormalizePhone(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()
	if len(digits) > nationalNumberLen {
		digits = digits[len(digits)-nationalNumberLen:]
	}
	return CountryCode + digits
}

// WhatsAppLink builds a wa.me deep link for contacting the given normalized
// phone number with a pre-filled, URL-encoded message.
func WhatsAppLink(phoneDigits, message string) string {
	return "https://wa.me/" + phoneDigits + "?text=" + url.QueryEscape(message)
}
