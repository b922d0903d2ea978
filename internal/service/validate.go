package service

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	playground "github.com/go-playground/validator/v10"

	"github.com/Virenishere/backend-assignment-portal/internal/apperr"
)

// PasswordSymbols is the set of symbols accepted (and one of which is required) in passwords.
const PasswordSymbols = "@$!%*?&"

type validator struct {
	v *playground.Validate
}

func newValidator() *validator {
	v := playground.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return field.Name
		}
		return name
	})
	// Registration only fails on an empty tag name or nil func.
	_ = v.RegisterValidation("password_policy", passwordPolicy)
	return &validator{v: v}
}

// Struct validates input and converts failures into a validation *apperr.Error.
func (v *validator) Struct(input any) error {
	err := v.v.Struct(input)
	if err == nil {
		return nil
	}
	var fieldErrs playground.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return apperr.Internal(err)
	}
	details := make([]apperr.FieldError, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		details = append(details, apperr.FieldError{Field: fe.Field(), Message: fieldMessage(fe)})
	}
	return apperr.Validation(details)
}

func fieldMessage(fe playground.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "email":
		return "must be a valid email address"
	case "password_policy":
		return "must contain a lowercase letter, an uppercase letter, a digit and one of " + PasswordSymbols + ", and nothing else"
	default:
		return "is invalid"
	}
}

// passwordPolicy accepts only ASCII letters, digits and PasswordSymbols, requiring at least one of each class.
// Length bounds are enforced by the min/max tags.
func passwordPolicy(fl playground.FieldLevel) bool {
	return ValidPassword(fl.Field().String())
}

func ValidPassword(password string) bool {
	var lower, upper, digit, symbol bool
	for _, r := range password {
		switch {
		case r >= 'a' && r <= 'z':
			lower = true
		case r >= 'A' && r <= 'Z':
			upper = true
		case r >= '0' && r <= '9':
			digit = true
		case strings.ContainsRune(PasswordSymbols, r):
			symbol = true
		default:
			return false
		}
	}
	return lower && upper && digit && symbol
}
