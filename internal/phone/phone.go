// Package phone normalizes and formats Brazilian phone numbers.
package phone

import (
	"errors"
	"fmt"
	"strings"
)

const (
	landlineDigitCount = 10
	mobileDigitCount   = 11

	areaCodeLength = 2

	telLinkPrefix      = "tel:"
	whatsAppLinkPrefix = "https://wa.me/"
)

// ErrInvalidDigitCount indicates the number does not carry 10 or 11 digits.
var ErrInvalidDigitCount = errors.New("phone: number must have 10 or 11 digits")

// Digits strips every non-digit character from the raw value.
func Digits(rawValue string) string {
	var builder strings.Builder
	for _, character := range rawValue {
		if character >= '0' && character <= '9' {
			builder.WriteRune(character)
		}
	}
	return builder.String()
}

// IsValid reports whether the raw value carries 10 or 11 digits after stripping.
func IsValid(rawValue string) bool {
	digitCount := len(Digits(rawValue))
	return digitCount == landlineDigitCount || digitCount == mobileDigitCount
}

// Format renders the number as (DD) DDDD-DDDD for 10 digits or (DD) DDDDD-DDDD for 11.
func Format(rawValue string) (string, error) {
	digits := Digits(rawValue)
	switch len(digits) {
	case landlineDigitCount, mobileDigitCount:
	default:
		return "", fmt.Errorf("%w: got %d", ErrInvalidDigitCount, len(digits))
	}

	areaCode := digits[:areaCodeLength]
	subscriberNumber := digits[areaCodeLength:]
	splitIndex := len(subscriberNumber) - 4

	return fmt.Sprintf("(%s) %s-%s", areaCode, subscriberNumber[:splitIndex], subscriberNumber[splitIndex:]), nil
}

// TelLink builds a device dialer deep link from the digits of the raw value.
func TelLink(rawValue string) string {
	return telLinkPrefix + Digits(rawValue)
}

// WhatsAppLink builds a WhatsApp deep link from the digits of the raw value.
func WhatsAppLink(rawValue string) string {
	return whatsAppLinkPrefix + Digits(rawValue)
}
