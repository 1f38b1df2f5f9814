package utils

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/bytedance/sonic"
)

// Request limits
const (
	MaxParamsSize     = 1 * 1024 * 1024 // 1MB encoded tool parameters
	MaxParamsDepth    = 8
	MaxMessageSize    = 16 * 1024
	MaxToolIDLength   = 128
	MaxCategoryLength = 64
)

var (
	// ToolIDPattern allows alphanumeric, hyphens, underscores, and dots (service.tool)
	ToolIDPattern   = regexp.MustCompile(`^[a-zA-Z0-9._-]+$`)
	categoryPattern = regexp.MustCompile(`^[a-z0-9-]+$`)
)

// ValidateString validates a string field with length and content checks
func ValidateString(value, fieldName string, minLen, maxLen int, required bool) error {
	if required && value == "" {
		return fmt.Errorf("%s is required", fieldName)
	}
	if value == "" {
		return nil
	}

	length := utf8.RuneCountInString(value)
	if length < minLen {
		return fmt.Errorf("%s must be at least %d characters", fieldName, minLen)
	}
	if length > maxLen {
		return fmt.Errorf("%s must not exceed %d characters", fieldName, maxLen)
	}
	if strings.Contains(value, "\x00") {
		return fmt.Errorf("%s contains invalid characters", fieldName)
	}
	return nil
}

// ValidateToolID validates a "service.tool" identifier
func ValidateToolID(toolID string) error {
	if err := ValidateString(toolID, "tool_id", 1, MaxToolIDLength, true); err != nil {
		return err
	}
	if !ToolIDPattern.MatchString(toolID) {
		return fmt.Errorf("tool_id contains invalid characters (only alphanumeric, dots, hyphens, and underscores allowed)")
	}
	if !strings.Contains(toolID, ".") {
		return fmt.Errorf("tool_id must have the form service.tool")
	}
	return nil
}

// ValidateCategory validates a category filter
func ValidateCategory(category string, required bool) error {
	if err := ValidateString(category, "category", 0, MaxCategoryLength, required); err != nil {
		return err
	}
	if category != "" && !categoryPattern.MatchString(category) {
		return fmt.Errorf("category must contain only lowercase letters, numbers, and hyphens")
	}
	return nil
}

// ValidateMessage validates a discovery query
func ValidateMessage(message string) error {
	if err := ValidateString(message, "message", 1, MaxMessageSize, true); err != nil {
		return err
	}

	whitespace := 0
	for _, r := range message {
		if r == ' ' || r == '\t' || r == '\n' || r == '\r' {
			whitespace++
		}
	}
	if whitespace > len(message)/2 {
		return fmt.Errorf("message contains excessive whitespace")
	}
	return nil
}

// ValidateParams bounds the encoded size and nesting depth of tool parameters.
// Matrices are two levels deep, lists of quaternions three.
func ValidateParams(params map[string]interface{}) error {
	data, err := sonic.Marshal(params)
	if err != nil {
		return fmt.Errorf("failed to marshal params: %w", err)
	}
	if len(data) > MaxParamsSize {
		return fmt.Errorf("params size %d bytes exceeds maximum %d bytes", len(data), MaxParamsSize)
	}
	return ValidateJSONDepth(params, MaxParamsDepth)
}

// ValidateJSONDepth checks that decoded JSON nests no deeper than maxDepth
func ValidateJSONDepth(data interface{}, maxDepth int) error {
	return checkDepth(data, 0, maxDepth)
}

func checkDepth(data interface{}, currentDepth int, maxDepth int) error {
	if currentDepth > maxDepth {
		return fmt.Errorf("JSON nesting depth %d exceeds maximum %d", currentDepth, maxDepth)
	}

	switch v := data.(type) {
	case map[string]interface{}:
		for _, value := range v {
			if err := checkDepth(value, currentDepth+1, maxDepth); err != nil {
				return err
			}
		}
	case []interface{}:
		for _, value := range v {
			if err := checkDepth(value, currentDepth+1, maxDepth); err != nil {
				return err
			}
		}
	}
	return nil
}
