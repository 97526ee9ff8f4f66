package user

import (
	"regexp"
	"strings"

	"activity-tracking-svc/src/internal/models"
)

var emailPattern = regexp.MustCompile(`^\w+([.-]?\w+)*@\w+([.-]?\w+)*(\.\w{2,3})+$`)

// Validate checks the required fields, reporting every missing one in a
// single validation error, then the email format.
func Validate(item *User) error {
	fields := make([]string, 0, 2)

	if item.Name == "" {
		fields = append(fields, "Name")
	}
	if item.Email == "" {
		fields = append(fields, "Email")
	}

	if len(fields) > 0 {
		return models.NewValidationError("Required fields were not provided...",
			"User validation failed: "+strings.Join(fields, ", ")+" required!")
	}

	return ValidateEmail(item.Email)
}

// ValidateEmail applies the RFC-lite email pattern.
func ValidateEmail(email string) error {
	if !emailPattern.MatchString(email) {
		return models.NewValidationError("Invalid email address!", "")
	}
	return nil
}
