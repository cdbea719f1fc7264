package service

import (
	"strings"
	"unicode/utf8"

	emailaddress "github.com/mcnijman/go-emailaddress"

	"taskly-be/internal/apperrors"
)

const (
	minNameLength     = 2
	maxNameLength     = 50
	maxPasswordLength = 72 // bcrypt ignores anything past 72 bytes
)

// normalizeEmail lowercases and trims so lookups are case-insensitive
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// validateEmail requires local@domain.tld with no whitespace
func validateEmail(email string) error {
	if strings.ContainsAny(email, " \t\r\n") {
		return apperrors.Validation("Please provide a valid email")
	}
	addr, err := emailaddress.Parse(email)
	if err != nil || addr.LocalPart == "" || !strings.Contains(addr.Domain, ".") ||
		strings.HasPrefix(addr.Domain, ".") || strings.HasSuffix(addr.Domain, ".") {
		return apperrors.Validation("Please provide a valid email")
	}
	return nil
}

func validateName(name string) error {
	if n := utf8.RuneCountInString(name); n < minNameLength || n > maxNameLength {
		return apperrors.Validation("Name must be between 2 and 50 characters")
	}
	return nil
}

func validatePassword(password string) error {
	if password == "" {
		return apperrors.Validation("Password is required")
	}
	if len(password) > maxPasswordLength {
		return apperrors.Validation("Password must be at most 72 bytes")
	}
	return nil
}
