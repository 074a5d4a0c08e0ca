package validation

import (
	"task-manager/internal/config"
	"task-manager/internal/domain"
)

// TaskValidator checks and normalises command input before it reaches the store
type TaskValidator struct {
	validator *Validator
}

// NewTaskValidator creates a new task validator with default limits
func NewTaskValidator() *TaskValidator {
	return &TaskValidator{validator: NewValidator()}
}

// NewTaskValidatorWithConfig creates a task validator using the configured limits
func NewTaskValidatorWithConfig(cfg *config.Config) *TaskValidator {
	return &TaskValidator{validator: NewValidatorWithConfig(cfg)}
}

// ValidateTitle validates a task title for creation or update
func (tv *TaskValidator) ValidateTitle(title string) error {
	validationError := NewValidationError()
	tv.checkTitle(validationError, title)
	return validationError.OrNil()
}

// GetValidTitle returns a cleaned title if valid
func (tv *TaskValidator) GetValidTitle(title string) (string, error) {
	if err := tv.ValidateTitle(title); err != nil {
		return "", err
	}
	return tv.validator.TrimAndValidateString(title), nil
}

// ParseStatus converts user input to a status
func (tv *TaskValidator) ParseStatus(s string) (domain.Status, error) {
	status, err := domain.ParseStatus(tv.validator.TrimAndValidateString(s))
	if err != nil {
		validationError := NewValidationError()
		validationError.AddInvalidValueError("status", s, "must be one of pending, in-progress, completed")
		return "", validationError
	}
	return status, nil
}

// ParsePriority converts user input to a priority
func (tv *TaskValidator) ParsePriority(s string) (domain.Priority, error) {
	priority, err := domain.ParsePriority(tv.validator.TrimAndValidateString(s))
	if err != nil {
		validationError := NewValidationError()
		validationError.AddInvalidValueError("priority", s, "must be one of low, medium, high")
		return "", validationError
	}
	return priority, nil
}

// ParseDueDate converts a YYYY-MM-DD date to the start of that day in milliseconds
func (tv *TaskValidator) ParseDueDate(s string) (*int64, error) {
	return tv.parseDate("due", s, false)
}

// ParseDateRange converts optional YYYY-MM-DD bounds to an inclusive range
// covering whole days. It returns nil when both bounds are empty.
func (tv *TaskValidator) ParseDateRange(from, to string) (*domain.DateRange, error) {
	if from == "" && to == "" {
		return nil, nil
	}

	var dateRange domain.DateRange
	var err error
	if from != "" {
		if dateRange.Start, err = tv.parseDate("from", from, false); err != nil {
			return nil, err
		}
	}
	if to != "" {
		if dateRange.End, err = tv.parseDate("to", to, true); err != nil {
			return nil, err
		}
	}
	if !tv.validator.IsValidDateRange(dateRange.Start, dateRange.End) {
		validationError := NewValidationError()
		validationError.AddInvalidRangeError("to", to, "must not be before from")
		return nil, validationError
	}
	return &dateRange, nil
}

// ValidateFields validates the attributes of a new task
func (tv *TaskValidator) ValidateFields(fields domain.TaskFields) error {
	validationError := NewValidationError()

	tv.checkTitle(validationError, fields.Title)
	tv.checkDescription(validationError, fields.Description)
	if fields.Status != "" && !fields.Status.IsValid() {
		validationError.AddInvalidValueError("status", fields.Status, "unknown status")
	}
	if fields.Priority != "" && !fields.Priority.IsValid() {
		validationError.AddInvalidValueError("priority", fields.Priority, "unknown priority")
	}
	tv.checkTags(validationError, fields.Tags)

	return validationError.OrNil()
}

// ValidatePatch validates a partial update. An empty patch is rejected.
func (tv *TaskValidator) ValidatePatch(patch domain.TaskPatch) error {
	validationError := NewValidationError()

	if patch.IsEmpty() {
		validationError.AddRequiredError("update")
		return validationError
	}
	if patch.Title != nil {
		tv.checkTitle(validationError, *patch.Title)
	}
	if patch.Description != nil {
		tv.checkDescription(validationError, *patch.Description)
	}
	if patch.Status != nil && !patch.Status.IsValid() {
		validationError.AddInvalidValueError("status", *patch.Status, "unknown status")
	}
	if patch.Priority != nil && !patch.Priority.IsValid() {
		validationError.AddInvalidValueError("priority", *patch.Priority, "unknown priority")
	}
	if patch.Tags != nil {
		tv.checkTags(validationError, *patch.Tags)
	}

	return validationError.OrNil()
}

// ValidateFilters validates a query. Empty and "all" status or priority mean no filter.
func (tv *TaskValidator) ValidateFilters(filters domain.Filters) error {
	validationError := NewValidationError()

	if filters.HasStatus() && !filters.Status.IsValid() {
		validationError.AddInvalidValueError("status", filters.Status, "must be all or a known status")
	}
	if filters.HasPriority() && !filters.Priority.IsValid() {
		validationError.AddInvalidValueError("priority", filters.Priority, "must be all or a known priority")
	}
	for _, tag := range filters.Tags {
		if !tv.validator.IsValidTag(tag) {
			validationError.AddInvalidCharacterError("tag", tag)
		}
	}
	if filters.DateRange != nil && !tv.validator.IsValidDateRange(filters.DateRange.Start, filters.DateRange.End) {
		validationError.AddInvalidRangeError("date_range", filters.DateRange, "start is after end")
	}

	return validationError.OrNil()
}

func (tv *TaskValidator) checkTitle(validationError *ValidationError, title string) {
	trimmed := tv.validator.TrimAndValidateString(title)

	if !tv.validator.IsNonEmptyString(trimmed) {
		validationError.AddRequiredError("title")
		return
	}
	if !tv.validator.IsValidTitleLength(trimmed) {
		validationError.AddInvalidLengthError("title", trimmed,
			tv.validator.getTitleMinLength(), tv.validator.getTitleMaxLength())
	}
	if tv.validator.HasControlCharacters(trimmed) {
		validationError.AddInvalidCharacterError("title", trimmed)
	}
}

func (tv *TaskValidator) checkDescription(validationError *ValidationError, description string) {
	if !tv.validator.IsValidStringLength(description, 0, maxDescriptionLength) {
		validationError.AddInvalidLengthError("description", description, 0, maxDescriptionLength)
	}
}

func (tv *TaskValidator) checkTags(validationError *ValidationError, tags []string) {
	if maxTags := tv.validator.getMaxTags(); len(tags) > maxTags {
		validationError.AddInvalidRangeError("tags", len(tags), "too many tags")
	}
	for _, tag := range tags {
		if !tv.validator.IsValidTag(tag) {
			validationError.AddInvalidCharacterError("tag", tag)
		}
	}
}

func (tv *TaskValidator) parseDate(field, s string, endOfDay bool) (*int64, error) {
	ms, ok := tv.validator.ParseDate(s, endOfDay)
	if !ok {
		validationError := NewValidationError()
		validationError.AddInvalidFormatError(field, s, "YYYY-MM-DD")
		return nil, validationError
	}
	return &ms, nil
}
