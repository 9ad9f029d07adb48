package application

import (
	"strings"

	"github.com/heartmarshall/scholarship-backend/internal/domain"
)

// SubmitInput holds the raw form values of a new application.
type SubmitInput struct {
	Name   string
	Reg    string
	Dept   string
	Income string
	Reason string
}

// Validate checks that name and reg are present after trimming.
func (i SubmitInput) Validate() error {
	var errs []domain.FieldError

	if strings.TrimSpace(i.Name) == "" {
		errs = append(errs, domain.FieldError{Field: "name", Message: "required"})
	}
	if strings.TrimSpace(i.Reg) == "" {
		errs = append(errs, domain.FieldError{Field: "reg", Message: "required"})
	}

	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}

// DeleteInput identifies an application to delete. Confirmed must be set
// by the caller once the user agreed to the irreversible removal.
type DeleteInput struct {
	ID        string
	Confirmed bool
}

// Validate checks all fields.
func (i DeleteInput) Validate() error {
	if strings.TrimSpace(i.ID) == "" {
		return domain.NewValidationError("id", "required")
	}
	return nil
}
