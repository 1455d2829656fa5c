package model

import (
	"fmt"
	"strings"
)

// ValidationMode decides how much URL checking happens before a submission
// reaches the analysis service.
type ValidationMode string

const (
	// Lightweight submissions must pass the local post URL check.
	ValidationModeLightweight ValidationMode = "lightweight"
	// Advanced submissions only need a non-empty URL; the service validates the rest.
	ValidationModeAdvanced ValidationMode = "advanced"
)

func ParseValidationMode(s string) (ValidationMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case string(ValidationModeLightweight):
		return ValidationModeLightweight, nil
	case string(ValidationModeAdvanced):
		return ValidationModeAdvanced, nil
	default:
		return ValidationModeLightweight, fmt.Errorf("unknown validation mode: %s", s)
	}
}

type CommentCount int

const DefaultCommentCount CommentCount = 5

// CommentCounts lists the counts the analysis service is asked for, in menu order.
var CommentCounts = []CommentCount{3, 5, 7, 10}

// ParseCommentCount maps 0 to the default and rejects anything outside CommentCounts.
func ParseCommentCount(n int) (CommentCount, error) {
	if n == 0 {
		return DefaultCommentCount, nil
	}
	for _, c := range CommentCounts {
		if int(c) == n {
			return c, nil
		}
	}
	return 0, fmt.Errorf("comment count must be one of 3, 5, 7 or 10, got %d", n)
}
