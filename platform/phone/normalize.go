// Package phone provides phone number utilities.
// This is part of the platform layer and contains no business logic.
package phone

import (
	"fmt"
	"strings"

	"github.com/nyaruka/phonenumbers"
)

// UnknownRegion parses only numbers that carry their own country code.
const UnknownRegion = "ZZ"

// ToE164 parses input and formats it as E.164. Numbers without a country
// code are interpreted in region; pass UnknownRegion to require one.
func ToE164(input, region string) (string, error) {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return "", fmt.Errorf("empty phone number")
	}

	number, err := phonenumbers.Parse(trimmed, region)
	if err != nil {
		return "", fmt.Errorf("parse phone number: %w", err)
	}
	if !phonenumbers.IsValidNumber(number) {
		return "", fmt.Errorf("invalid phone number %q", trimmed)
	}

	return phonenumbers.Format(number, phonenumbers.E164), nil
}
