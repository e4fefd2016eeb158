// internal/domain/phone.go
package domain

import (
	"regexp"
	"strings"

	"momo-ledger/internal/util"
)

// CountryCode is the Burkina Faso dialing prefix every account must carry.
const CountryCode = "226"

var phonePattern = regexp.MustCompile(`^\+?` + CountryCode + `[0-9]{8}$`)

// NormalizePhone validates a phone number and returns its canonical "+226XXXXXXXX" form.
// Surrounding whitespace is ignored; the leading '+' is optional on input.
func NormalizePhone(raw string) (string, error) {
	phone := strings.TrimSpace(raw)
	if phone == "" {
		return "", util.ErrMissingField
	}
	if !phonePattern.MatchString(phone) {
		return "", util.ErrInvalidPhoneFormat
	}
	if !strings.HasPrefix(phone, "+") {
		phone = "+" + phone
	}
	return phone, nil
}
