package utils

import (
	"strings"

	"github.com/asaskevich/govalidator"
	"github.com/nyaruka/phonenumbers"
)

// IsLocalPhoneNumber reports whether phone is exactly ten decimal digits.
func IsLocalPhoneNumber(phone string) bool {
	return govalidator.Matches(phone, `^[0-9]{10}$`)
}

// NormalizePhone returns an E.164 number when raw is valid for region,
// otherwise raw with formatting characters removed.
func NormalizePhone(raw, region string) string {
	cleaned := stripPhoneFormatting(raw)
	if cleaned == "" {
		return ""
	}

	num, err := phonenumbers.Parse(cleaned, region)
	if err == nil && phonenumbers.IsValidNumber(num) {
		return phonenumbers.Format(num, phonenumbers.E164)
	}
	return cleaned
}

func stripPhoneFormatting(raw string) string {
	var b strings.Builder
	for i, r := range strings.TrimSpace(raw) {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '+' && i == 0:
			b.WriteRune(r)
		}
	}
	return b.String()
}
