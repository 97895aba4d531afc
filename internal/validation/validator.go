// Package validation validates entity schemas with go-playground/validator at
// the persistence boundary, reporting failures as VALIDATION_ERROR app errors.
package validation

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	apperrors "github.com/campusconnect/campus-backend/errors"
	"github.com/go-playground/validator/v10"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// GetValidator returns the shared validator. It caches struct metadata, so a
// single instance is reused.
func GetValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate
}

var messageTemplates = map[string]string{
	"required":    "%s is required",
	"required_if": "%s is required",
	"email":       "%s must be a valid email address",
	"datetime":    "%s must be a date in YYYY-MM-DD format",
}

var messageWithParam = map[string]string{
	"oneof": "%s must be one of: %s",
	"gte":   "%s must be greater than or equal to %s",
	"max":   "%s must be at most %s characters",
}

func translate(fe validator.FieldError) string {
	if tmpl, ok := messageTemplates[fe.Tag()]; ok {
		return fmt.Sprintf(tmpl, fe.Field())
	}
	if tmpl, ok := messageWithParam[fe.Tag()]; ok {
		return fmt.Sprintf(tmpl, fe.Field(), fe.Param())
	}
	return fmt.Sprintf("%s failed %s validation", fe.Field(), fe.Tag())
}

// Struct validates s. It returns nil or a *errors.AppError of type VALIDATION_ERROR
// whose detail lists every failing field.
func Struct(entity string, s interface{}) error {
	err := GetValidator().Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return apperrors.ValidationFailed(fmt.Sprintf("invalid %s", entity), err.Error())
	}

	messages := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		messages = append(messages, translate(fe))
	}
	return apperrors.ValidationFailed(fmt.Sprintf("invalid %s", entity), strings.Join(messages, "; "))
}
