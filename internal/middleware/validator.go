package middleware

import (
	"fmt"
	"regexp"
	"strings"
)

// Input validation and sanitization utilities

var (
	reportIDPattern = regexp.MustCompile(`^[a-f0-9]{8}-[a-f0-9]{4}-[a-f0-9]{4}-[a-f0-9]{4}-[a-f0-9]{12}$`)
	betaCodePattern = regexp.MustCompile(`^[A-Za-z0-9_-]{4,64}$`)
	orderIDPattern  = regexp.MustCompile(`^[A-Za-z0-9_-]{1,128}$`)
	gradePattern    = regexp.MustCompile(`^(9|10|11|12)$`)
)

// ValidateReportID validates report ID format (uuid)
func ValidateReportID(id string) error {
	if id == "" {
		return fmt.Errorf("report ID cannot be empty")
	}
	if !reportIDPattern.MatchString(id) {
		return fmt.Errorf("invalid report ID format")
	}
	return nil
}

// ValidateBetaCode validates a beta code shape before the constant-time
// membership check happens downstream
func ValidateBetaCode(code string) error {
	if code == "" {
		return fmt.Errorf("beta code cannot be empty")
	}
	if !betaCodePattern.MatchString(code) {
		return fmt.Errorf("invalid beta code format")
	}
	return nil
}

// ValidateOrderID validates an extracted or client-supplied order id
func ValidateOrderID(id string) error {
	if id == "" {
		return fmt.Errorf("order ID cannot be empty")
	}
	if !orderIDPattern.MatchString(id) {
		return fmt.Errorf("invalid order ID format")
	}
	return nil
}

// ValidateGrade validates the US high-school grade field when present.
// Empty is allowed; the prompt builder degrades it to a default.
func ValidateGrade(grade string) error {
	if grade == "" {
		return nil
	}
	if !gradePattern.MatchString(strings.TrimSpace(grade)) {
		return fmt.Errorf("invalid grade: %s (allowed: 9, 10, 11, 12)", grade)
	}
	return nil
}

// SanitizeString removes dangerous characters from strings
func SanitizeString(input string) string {
	// Remove null bytes
	input = strings.ReplaceAll(input, "\x00", "")

	// Remove control characters
	var result strings.Builder
	for _, r := range input {
		if r >= 32 || r == '\t' || r == '\n' {
			result.WriteRune(r)
		}
	}

	return strings.TrimSpace(result.String())
}
