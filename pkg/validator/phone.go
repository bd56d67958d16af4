package validator

import (
	"errors"
	"regexp"
	"strings"
)

var (
	// ErrEmptyPhone indicates phone number is empty
	ErrEmptyPhone = errors.New("phone number cannot be empty")

	// ErrInvalidFormat indicates phone number contains invalid characters
	ErrInvalidFormat = errors.New("phone number can only contain digits")
)

// digitsRegex matches digits only
var digitsRegex = regexp.MustCompile(`^\d+$`)

// MinLinkCodeLength is the minimum number of digits a chat message must carry
// to be treated as a phone-link attempt.
const MinLinkCodeLength = 10

// PhoneValidator normalizes and validates phone numbers. Phones are stored
// digits-only; the sanitized form is the join key between the staff directory
// and the chat-link handshake.
type PhoneValidator struct{}

// NewPhoneValidator creates a new phone validator instance
func NewPhoneValidator() *PhoneValidator {
	return &PhoneValidator{}
}

// Normalize sanitizes a phone number and validates that the result is
// digits-only. Returns the normalized phone.
func (v *PhoneValidator) Normalize(phone string) (string, error) {
	if strings.TrimSpace(phone) == "" {
		return "", ErrEmptyPhone
	}

	sanitized := v.Sanitize(phone)
	if !digitsRegex.MatchString(sanitized) {
		return "", ErrInvalidFormat
	}

	return sanitized, nil
}

// Sanitize removes all common separator characters from a phone number.
func (v *PhoneValidator) Sanitize(phone string) string {
	phone = strings.TrimSpace(phone)
	phone = strings.ReplaceAll(phone, " ", "")
	phone = strings.ReplaceAll(phone, "-", "")
	phone = strings.ReplaceAll(phone, "(", "")
	phone = strings.ReplaceAll(phone, ")", "")
	phone = strings.ReplaceAll(phone, "+", "")
	phone = strings.ReplaceAll(phone, ".", "")
	return phone
}

// IsLinkCode reports whether a chat message should be treated as a phone-link
// attempt: trimmed, all digits, at least MinLinkCodeLength long. Anything
// else is ordinary chatter and is ignored by the bot.
func (v *PhoneValidator) IsLinkCode(text string) bool {
	trimmed := strings.TrimSpace(text)
	return len(trimmed) >= MinLinkCodeLength && digitsRegex.MatchString(trimmed)
}

// IsValid is a convenience method that returns true if phone normalizes cleanly.
func (v *PhoneValidator) IsValid(phone string) bool {
	_, err := v.Normalize(phone)
	return err == nil
}
