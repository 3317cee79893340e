package handler

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// ErrorResponse represents a single failed field.
type ErrorResponse struct {
	FailedField string
	Tag         string
	Value       any
}

// Message returns a human readable description of the failure.
func (e ErrorResponse) Message() string {
	switch e.Tag {
	case "required":
		return e.FailedField + " is required"
	case "email":
		return e.FailedField + " must be a valid email address"
	case "oneof":
		return e.FailedField + " has an unsupported value"
	case "max":
		return e.FailedField + " is too long"
	}

	return fmt.Sprintf("%s is invalid (%s)", e.FailedField, e.Tag)
}

// Validator validates typed form inputs.
type Validator struct {
	validate *validator.Validate
}

// NewValidator creates a validator.
func NewValidator() *Validator {
	return &Validator{validate: validator.New()}
}

// Validate performs validation on data and returns the failed fields.
func (v *Validator) Validate(data any) []ErrorResponse {
	var validationErrors []ErrorResponse

	err := v.validate.Struct(data)
	if err == nil {
		return nil
	}

	var errs validator.ValidationErrors
	if !errors.As(err, &errs) {
		return []ErrorResponse{{FailedField: "form", Tag: err.Error()}}
	}

	for _, fe := range errs {
		validationErrors = append(validationErrors, ErrorResponse{
			FailedField: fe.Field(),
			Tag:         fe.Tag(),
			Value:       fe.Value(),
		})
	}

	return validationErrors
}

// First returns the message of the first failed field, or "" when data is valid.
func (v *Validator) First(data any) string {
	errs := v.Validate(data)
	if len(errs) == 0 {
		return ""
	}

	return errs[0].Message()
}
