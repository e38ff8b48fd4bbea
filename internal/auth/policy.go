package auth

import (
	"errors"
	"unicode"
)

// MinPasswordLength is the shortest password Register accepts.
const MinPasswordLength = 6

// Password policy violations, in the order they are checked. The messages
// are shown to the user as-is.
var (
	ErrPasswordTooShort   = errors.New("Passwords must be at least 6 characters.")
	ErrPasswordNoNonAlnum = errors.New("Passwords must have at least one non alphanumeric character.")
	ErrPasswordNoDigit    = errors.New("Passwords must have at least one digit ('0'-'9').")
	ErrPasswordNoLower    = errors.New("Passwords must have at least one lowercase ('a'-'z').")
	ErrPasswordNoUpper    = errors.New("Passwords must have at least one uppercase ('A'-'Z').")
	ErrPasswordTooLong    = errors.New("Passwords must be 72 bytes or fewer.")
)

// ValidatePassword returns the first rule the password breaks, or nil.
// Digits, lowercase and uppercase are ASCII-only; any rune that is not an
// ASCII letter or digit counts as non-alphanumeric.
func ValidatePassword(pw string) error {
	if len([]rune(pw)) < MinPasswordLength {
		return ErrPasswordTooShort
	}
	if len(pw) > maxPasswordBytes {
		return ErrPasswordTooLong
	}

	var hasNonAlnum, hasDigit, hasLower, hasUpper bool
	for _, r := range pw {
		switch {
		case r >= '0' && r <= '9':
			hasDigit = true
		case r >= 'a' && r <= 'z':
			hasLower = true
		case r >= 'A' && r <= 'Z':
			hasUpper = true
		case r > unicode.MaxASCII || !(unicode.IsLetter(r) || unicode.IsDigit(r)):
			hasNonAlnum = true
		}
	}

	switch {
	case !hasNonAlnum:
		return ErrPasswordNoNonAlnum
	case !hasDigit:
		return ErrPasswordNoDigit
	case !hasLower:
		return ErrPasswordNoLower
	case !hasUpper:
		return ErrPasswordNoUpper
	}
	return nil
}
