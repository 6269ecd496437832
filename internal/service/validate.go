package service

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/sakif/taskmate/internal/apperror"
)

// newValidator returns a validator that reports fields by their JSON names,
// so error messages use the same names clients send.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// validationError turns validator output into an *apperror.AppError. Any
// missing required field wins over other failures so clients see the same
// "Please provide all required fields" message no matter which one is absent.
func validationError(err error) error {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("service: validating input: %w", err)
	}

	for _, fe := range fieldErrs {
		if fe.Tag() == "required" {
			return apperror.MissingFields(fe.Field())
		}
	}

	fe := fieldErrs[0]
	switch fe.Tag() {
	case "gte":
		return apperror.ValidationFailed(fe.Field(), fmt.Sprintf("%s must not be negative", fe.Field()))
	case "oneof":
		return apperror.ValidationFailed(fe.Field(), fmt.Sprintf("%s must be one of: %s", fe.Field(), strings.ReplaceAll(fe.Param(), " ", ", ")))
	default:
		return apperror.ValidationFailed(fe.Field(), fmt.Sprintf("%s is invalid", fe.Field()))
	}
}
