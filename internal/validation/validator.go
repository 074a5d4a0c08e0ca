package validation

import (
	"regexp"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"task-manager/internal/config"
)

// DateLayout is the accepted format for due dates and range bounds.
const DateLayout = "2006-01-02"

const maxDescriptionLength = 2000

// Validator provides common validation utilities
type Validator struct {
	tagRegex *regexp.Regexp
	config   *config.Config
	location *time.Location
}

// NewValidator creates a new validator instance using default limits
func NewValidator() *Validator {
	return NewValidatorWithConfig(nil)
}

// NewValidatorWithConfig creates a new validator instance with configuration
func NewValidatorWithConfig(cfg *config.Config) *Validator {
	return &Validator{
		tagRegex: regexp.MustCompile(`^[\p{L}\p{N}_\-:./#+]+$`),
		config:   cfg,
		location: time.Local,
	}
}

// IsNonEmptyString checks if a string is not empty after trimming whitespace
func (v *Validator) IsNonEmptyString(s string) bool {
	return strings.TrimSpace(s) != ""
}

// IsValidStringLength checks if the trimmed rune count is within the specified range
func (v *Validator) IsValidStringLength(s string, min, max int) bool {
	length := utf8.RuneCountInString(strings.TrimSpace(s))
	return length >= min && length <= max
}

// IsValidTitleLength checks if a title length is within configured limits
func (v *Validator) IsValidTitleLength(title string) bool {
	return v.IsValidStringLength(title, v.getTitleMinLength(), v.getTitleMaxLength())
}

// HasControlCharacters reports whether s contains newlines, tabs or other control characters
func (v *Validator) HasControlCharacters(s string) bool {
	return strings.IndexFunc(s, unicode.IsControl) >= 0
}

// IsValidTag checks if a tag is a single word of letters, digits and a few separators
func (v *Validator) IsValidTag(tag string) bool {
	return v.tagRegex.MatchString(tag)
}

// IsValidDateRange checks if a date range is logical. Open-ended ranges are valid.
func (v *Validator) IsValidDateRange(start, end *int64) bool {
	if start == nil || end == nil {
		return true
	}
	return *start <= *end
}

// ParseDate parses a YYYY-MM-DD date in local time and returns the first or
// last millisecond of that day.
func (v *Validator) ParseDate(s string, endOfDay bool) (int64, bool) {
	day, err := time.ParseInLocation(DateLayout, strings.TrimSpace(s), v.location)
	if err != nil {
		return 0, false
	}
	if endOfDay {
		return day.AddDate(0, 0, 1).UnixMilli() - 1, true
	}
	return day.UnixMilli(), true
}

// TrimAndValidateString trims whitespace and returns the cleaned string
func (v *Validator) TrimAndValidateString(s string) string {
	return strings.TrimSpace(s)
}

func (v *Validator) getTitleMinLength() int {
	if v.config != nil {
		return v.config.Validation.TitleMinLength
	}
	return 1
}

func (v *Validator) getTitleMaxLength() int {
	if v.config != nil {
		return v.config.Validation.TitleMaxLength
	}
	return 255
}

func (v *Validator) getMaxTags() int {
	if v.config != nil {
		return v.config.Validation.MaxTags
	}
	return 20
}
