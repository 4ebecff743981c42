// Package phone normalizes contact phone numbers.
package phone

import (
	"strings"

	"github.com/nyaruka/phonenumbers"
)

// Numbers without a country prefix are assumed to be US, the studio's home
// market.
const defaultRegion = "US"

// NormalizeE164 formats a phone number to E.164. Input that cannot be parsed
// or is not a valid number is returned trimmed, not rejected.
func NormalizeE164(input string) string {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return trimmed
	}

	number, err := phonenumbers.Parse(trimmed, defaultRegion)
	if err != nil || !phonenumbers.IsValidNumber(number) {
		return trimmed
	}

	return phonenumbers.Format(number, phonenumbers.E164)
}
