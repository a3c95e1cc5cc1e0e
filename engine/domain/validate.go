package domain

import "strings"

// ValidateQuestion rejects questions that are empty after trimming.
func ValidateQuestion(q string) error {
	if strings.TrimSpace(q) == "" {
		return ErrEmptyQuestion
	}
	return nil
}
