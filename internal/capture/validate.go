package capture

import (
	"regexp"
	"strings"
)

// Validation is the outcome of a field-quality check. Invalid input is a
// normal value, not an error: Reason carries the visitor-facing explanation.
type Validation struct {
	OK     bool
	Reason string
}

func valid() Validation                { return Validation{OK: true} }
func invalid(reason string) Validation { return Validation{Reason: reason} }

var emailShapeRE = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[a-zA-Z]{2,}$`)

// ValidateName requires at least 2 non-whitespace characters.
func ValidateName(name string) Validation {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return invalid("Name is required")
	}
	if len([]rune(trimmed)) < 2 {
		return invalid("Please enter a valid name (at least 2 characters)")
	}
	return valid()
}

// ValidateEmail requires a local@domain.tld shape with a trailing label of
// two or more letters.
func ValidateEmail(email string) Validation {
	if strings.TrimSpace(email) == "" {
		return invalid("Email is required")
	}
	if !emailShapeRE.MatchString(email) {
		return invalid("Please enter a valid email address")
	}
	return valid()
}

// ValidatePhone requires at least 10 digit characters; separators and a
// leading country-code symbol are permitted and ignored.
func ValidatePhone(phone string) Validation {
	if strings.TrimSpace(phone) == "" {
		return invalid("Phone number is required")
	}
	digits := 0
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			digits++
		}
	}
	if digits < 10 {
		return invalid("Please enter a valid phone number (at least 10 digits)")
	}
	return valid()
}

// ValidatePurpose only checks presence; the extractor already normalizes
// values to known categories.
func ValidatePurpose(purpose string) Validation {
	if strings.TrimSpace(purpose) == "" {
		return invalid("What type of project are you looking to build?")
	}
	return valid()
}
