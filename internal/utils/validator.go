package utils

import (
	"strings"
	"unicode/utf8"
)

func IsValidRole(role string) bool {
	validRoles := []string{"admin", "member"}
	for _, validRole := range validRoles {
		if role == validRole {
			return true
		}
	}
	return false
}

func SanitizeString(input string) string {
	return strings.TrimSpace(input)
}

func IsValidRating(rating int) bool {
	return rating >= 1 && rating <= 5
}

// TextLength counts characters, not bytes.
func TextLength(input string) int {
	return utf8.RuneCountInString(input)
}
