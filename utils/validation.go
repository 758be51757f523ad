package utils

import (
	"errors"
	"fmt"
	"mime/multipart"
	"regexp"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
)

// AllowedImageContentTypes is the set of allowed content types for image uploads.
var AllowedImageContentTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
	"image/gif":  true,
}

// MaxUploadSize is the maximum allowed file size for uploads (5MB).
const MaxUploadSize = 5 << 20 // 5MB

// MinPasswordLength mirrors the minimum enforced at signup and reset.
const MinPasswordLength = 8

var commonPasswords = map[string]bool{
	"password": true, "password1": true, "password123": true, "passw0rd": true,
	"12345678": true, "123456789": true, "1234567890": true, "qwerty123": true,
	"qwertyuiop": true, "iloveyou": true, "welcome1": true, "letmein1": true,
	"admin123": true, "abc12345": true, "football1": true, "monkey123": true,
	"sunshine1": true, "princess1": true, "dragon123": true, "baseball1": true,
}

var (
	digitRe     = regexp.MustCompile(`\d`)
	uppercaseRe = regexp.MustCompile(`[A-Z]`)
	slugRe      = regexp.MustCompile(`^[a-z0-9]+(?:[-_][a-z0-9]+)*$`)
)

// ValidateFileUpload checks that the uploaded file has a valid image content type
// and does not exceed the maximum file size.
func ValidateFileUpload(fh *multipart.FileHeader) error {
	// Check file size
	if fh.Size > MaxUploadSize {
		return fmt.Errorf("file size %d bytes exceeds maximum allowed size of 5MB", fh.Size)
	}

	// Check content type
	contentType := fh.Header.Get("Content-Type")
	if !AllowedImageContentTypes[contentType] {
		return fmt.Errorf("invalid file type '%s'; allowed types: image/jpeg, image/png, image/webp, image/gif", contentType)
	}

	return nil
}

// ValidatePassword applies the account password policy and returns one
// message per violated rule. userAttributes are values (email, names) the
// password must not resemble.
func ValidatePassword(password string, userAttributes ...string) []string {
	var problems []string

	if !digitRe.MatchString(password) || !uppercaseRe.MatchString(password) {
		problems = append(problems, "Password should contain at least 1 number and 1 uppercase letter.")
	}
	if len(password) < MinPasswordLength {
		problems = append(problems, fmt.Sprintf("This password is too short. It must contain at least %d characters.", MinPasswordLength))
	}
	if isAllDigits(password) {
		problems = append(problems, "This password is entirely numeric.")
	}
	if commonPasswords[strings.ToLower(password)] {
		problems = append(problems, "This password is too common.")
	}

	lower := strings.ToLower(password)
	for _, attr := range userAttributes {
		attr = strings.ToLower(strings.TrimSpace(attr))
		if i := strings.Index(attr, "@"); i > 0 {
			attr = attr[:i]
		}
		if len(attr) < 3 {
			continue
		}
		if strings.Contains(lower, attr) || strings.Contains(attr, lower) {
			problems = append(problems, "The password is too similar to your personal information.")
			break
		}
	}

	return problems
}

func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// IsValidSlug reports whether s is a lowercase URL-safe slug.
func IsValidSlug(s string) bool {
	return slugRe.MatchString(s)
}

// SanitizeValidationError takes a validator error and returns a user-friendly message
// without leaking internal Go struct names.
func SanitizeValidationError(err error) string {
	if err == nil {
		return ""
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return "Invalid request body"
	}

	var messages []string
	for _, fe := range validationErrors {
		messages = append(messages, fieldMessage(fe))
	}

	if len(messages) == 0 {
		return "Invalid request body"
	}

	return strings.Join(messages, "; ")
}

// FieldErrors maps each failing field (by its json name when the validator
// was configured with one, lowercased otherwise) to a user-facing message.
func FieldErrors(err error) map[string]string {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return nil
	}

	fields := make(map[string]string, len(validationErrors))
	for _, fe := range validationErrors {
		fields[strings.ToLower(fe.Field())] = fieldMessage(fe)
	}
	return fields
}

func fieldMessage(fe validator.FieldError) string {
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "email":
		return fmt.Sprintf("%s must be a valid email address", field)
	case "url":
		return fmt.Sprintf("%s must be a valid URL", field)
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be greater than or equal to %s", field, fe.Param())
	case "lte":
		return fmt.Sprintf("%s must be less than or equal to %s", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}
