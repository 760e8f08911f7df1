package utils

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

var slugUnsafe = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify turns a display name into a URL-safe, lowercase slug.
func Slugify(name string) string {
	slug := strings.ToLower(strings.TrimSpace(name))
	slug = slugUnsafe.ReplaceAllString(slug, "-")
	return strings.Trim(slug, "-")
}

func SanitizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

var emailFormat = regexp.MustCompile(`^\S+@\S+\.\S+$`)

func CheckEmailFormat(email string) bool {
	return emailFormat.MatchString(email)
}

// CheckPasswordFormat requires at least 8 characters with lower case, upper case and digit.
func CheckPasswordFormat(password string) bool {
	if len(password) < 8 || len(password) > 50 {
		return false
	}
	var hasLower, hasUpper, hasDigit bool
	for _, c := range password {
		switch {
		case c >= 'a' && c <= 'z':
			hasLower = true
		case c >= 'A' && c <= 'Z':
			hasUpper = true
		case c >= '0' && c <= '9':
			hasDigit = true
		}
	}
	return hasLower && hasUpper && hasDigit
}

func ContainsString(slice []string, searchTerm string) bool {
	for _, s := range slice {
		if searchTerm == s {
			return true
		}
	}
	return false
}

func ParseDurationString(value string) (time.Duration, error) {
	d, err := time.ParseDuration(value)
	if err != nil {
		return time.Duration(0), fmt.Errorf("invalid time duration '%s' : %s", value, err.Error())
	}
	return d, nil
}
