// Package validation provides input validation utilities
package validation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"campfire/internal/models"
)

// Username length bounds, counted in characters.
const (
	UsernameMinLength = 6
	UsernameMaxLength = 30
)

var (
	usernamePattern = regexp.MustCompile(`^[\p{L}\p{N}_.@+-]+$`)
	emailPattern    = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	digitPattern    = regexp.MustCompile(`[0-9]`)
	specialPattern  = regexp.MustCompile(`[!@#$%^&*()_+\-=\[\]{};':"\\|,.<>\/?]`)
)

// UsernameLengthOK reports whether username has between 6 and 30 characters.
func UsernameLengthOK(username string) bool {
	n := utf8.RuneCountInString(username)
	return n >= UsernameMinLength && n <= UsernameMaxLength
}

// ValidateUsername checks if a username meets requirements
func ValidateUsername(username string) error {
	if !UsernameLengthOK(username) {
		return fmt.Errorf("username must be between %d and %d characters long", UsernameMinLength, UsernameMaxLength)
	}
	if !usernamePattern.MatchString(username) {
		return fmt.Errorf("username can only contain letters, numbers and @/./+/-/_ characters")
	}
	return nil
}

// ValidateEmail checks basic email format
func ValidateEmail(email string) error {
	if len(email) > 254 {
		return fmt.Errorf("email must not exceed 254 characters")
	}
	if !emailPattern.MatchString(email) {
		return fmt.Errorf("invalid email format")
	}
	return nil
}

// ValidatePassword checks if a password meets security requirements
func ValidatePassword(password string) error {
	if len(password) < 12 {
		return fmt.Errorf("password must be at least 12 characters long")
	}
	if len(password) > 72 {
		// bcrypt ignores everything past 72 bytes.
		return fmt.Errorf("password must not exceed 72 bytes")
	}

	var hasUpper, hasLower bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		}
	}
	if !hasUpper {
		return fmt.Errorf("password must contain at least one uppercase letter")
	}
	if !hasLower {
		return fmt.Errorf("password must contain at least one lowercase letter")
	}
	if !digitPattern.MatchString(password) {
		return fmt.Errorf("password must contain at least one digit")
	}
	if !specialPattern.MatchString(password) {
		return fmt.Errorf("password must contain at least one special character (!@#$%%^&*)")
	}
	return nil
}

// NormalizeGender maps free-form input onto the accepted gender values.
func NormalizeGender(gender string) (string, error) {
	switch g := strings.ToLower(strings.TrimSpace(gender)); g {
	case models.GenderUnspecified, models.GenderMale, models.GenderFemale, models.GenderOther:
		return g, nil
	default:
		return "", fmt.Errorf("gender must be one of male, female, other")
	}
}

// ValidateName bounds first/last name length.
func ValidateName(field, value string) error {
	if utf8.RuneCountInString(value) > 150 {
		return fmt.Errorf("%s must not exceed 150 characters", field)
	}
	return nil
}
