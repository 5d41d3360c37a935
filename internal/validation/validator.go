package validation

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/content-publishing-api/internal/errs"
	"github.com/content-publishing-api/internal/models"
)

// MaxTitleLength bounds article titles in runes
const MaxTitleLength = 255

// ValidationError represents a single validation error
type ValidationError struct {
	Field   string      `json:"field"`
	Message string      `json:"message"`
	Value   interface{} `json:"value,omitempty"`
}

// Validator provides validation methods
type Validator struct {
	maxPageSize int
}

// NewValidator creates a new validator instance. A maxPageSize of zero
// leaves the page size unbounded.
func NewValidator(maxPageSize int) *Validator {
	return &Validator{maxPageSize: maxPageSize}
}

// ValidateSaveRequest validates an article create-or-edit
func (v *Validator) ValidateSaveRequest(req *models.SaveArticleRequest) []ValidationError {
	var errors []ValidationError

	// Validate title
	if strings.TrimSpace(req.Title) == "" {
		errors = append(errors, ValidationError{Field: "title", Message: "title is required"})
	} else if n := utf8.RuneCountInString(req.Title); n > MaxTitleLength {
		errors = append(errors, ValidationError{
			Field:   "title",
			Message: fmt.Sprintf("title exceeds maximum of %d characters (has %d)", MaxTitleLength, n),
		})
	}

	// Validate category reference
	if strings.TrimSpace(req.CategoryID) == "" {
		errors = append(errors, ValidationError{Field: "categoryId", Message: "categoryId is required"})
	}

	// Validate state
	if !req.State.Valid() {
		errors = append(errors, ValidationError{
			Field:   "state",
			Message: "invalid state, must be one of: 0 (draft), 1 (published), 2 (deleted)",
			Value:   int(req.State),
		})
	}

	return errors
}

// ValidatePage validates 1-based pagination bounds
func (v *Validator) ValidatePage(page, count int) []ValidationError {
	var errors []ValidationError

	if page < 1 {
		errors = append(errors, ValidationError{Field: "page", Message: "page must be >= 1", Value: page})
	}
	if count < 1 {
		errors = append(errors, ValidationError{Field: "count", Message: "count must be >= 1", Value: count})
	} else if v.maxPageSize > 0 && count > v.maxPageSize {
		errors = append(errors, ValidationError{
			Field:   "count",
			Message: fmt.Sprintf("count must be <= %d", v.maxPageSize),
			Value:   count,
		})
	}

	return errors
}

// SplitIDs turns one id or a comma-joined list into distinct ids in input
// order. Empty segments are ignored.
func (v *Validator) SplitIDs(raw string) ([]string, []ValidationError) {
	seen := make(map[string]bool)
	var ids []string
	for _, part := range strings.Split(raw, ",") {
		id := strings.TrimSpace(part)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}
	if len(ids) == 0 {
		return nil, []ValidationError{{Field: "ids", Message: "at least one article id is required", Value: raw}}
	}
	return ids, nil
}

// AsError converts the first validation error into an errs.ErrValidation
// error, or returns nil when there are none.
func AsError(errors []ValidationError) error {
	if len(errors) == 0 {
		return nil
	}
	return errs.NewValidation(errors[0].Field, errors[0].Message)
}
