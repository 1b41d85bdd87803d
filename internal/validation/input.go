// Package validation provides input validation utilities
package validation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"gloryharbor/internal/models"
)

// ValidatePassword checks if a password meets security requirements
func ValidatePassword(password string) error {
	// Check minimum length
	if len(password) < 12 {
		return models.NewValidationError("password must be at least 12 characters long")
	}

	// Check maximum length (prevent unreasonable inputs)
	if len(password) > 128 {
		return models.NewValidationError("password must not exceed 128 characters")
	}

	// Check for uppercase letter
	hasUpper := false
	for _, r := range password {
		if unicode.IsUpper(r) {
			hasUpper = true
			break
		}
	}
	if !hasUpper {
		return models.NewValidationError("password must contain at least one uppercase letter")
	}

	// Check for lowercase letter
	hasLower := false
	for _, r := range password {
		if unicode.IsLower(r) {
			hasLower = true
			break
		}
	}
	if !hasLower {
		return models.NewValidationError("password must contain at least one lowercase letter")
	}

	// Check for digit
	hasDigit := regexp.MustCompile(`[0-9]`).MatchString(password)
	if !hasDigit {
		return models.NewValidationError("password must contain at least one digit")
	}

	// Check for special character
	hasSpecial := regexp.MustCompile(`[!@#$%^&*()_+\-=\[\]{};':"\\|,.<>\/?]`).MatchString(password)
	if !hasSpecial {
		return models.NewValidationError("password must contain at least one special character (!@#$%^&*)")
	}

	return nil
}

// ValidateEmail checks basic email format
func ValidateEmail(email string) error {
	emailRegex := regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	if !emailRegex.MatchString(email) {
		return models.NewValidationError("invalid email format")
	}

	if len(email) > 254 {
		return models.NewValidationError("email must not exceed 254 characters")
	}

	return nil
}

// ValidateName checks a person's first or last name.
func ValidateName(field, name string) error {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return models.NewValidationError(fmt.Sprintf("%s is required", field))
	}
	if len(trimmed) > 60 {
		return models.NewValidationError(fmt.Sprintf("%s must not exceed 60 characters", field))
	}
	return nil
}

var dayNames = map[string]struct{}{
	"sunday": {}, "monday": {}, "tuesday": {}, "wednesday": {},
	"thursday": {}, "friday": {}, "saturday": {},
}

var clockRegex = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)

// ValidateAvailabilitySlot checks a weekly serving slot. Day is a lowercase
// weekday name; start and end are 24-hour HH:MM strings.
func ValidateAvailabilitySlot(day, start, end string) error {
	if _, ok := dayNames[strings.ToLower(strings.TrimSpace(day))]; !ok {
		return models.NewValidationError(fmt.Sprintf("invalid day %q", day))
	}
	if start != "" && !clockRegex.MatchString(start) {
		return models.NewValidationError(fmt.Sprintf("invalid start time %q (expected HH:MM)", start))
	}
	if end != "" && !clockRegex.MatchString(end) {
		return models.NewValidationError(fmt.Sprintf("invalid end time %q (expected HH:MM)", end))
	}
	if start != "" && end != "" && end <= start {
		return models.NewValidationError("end time must be after start time")
	}
	return nil
}
