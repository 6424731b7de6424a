// Package validator holds the shared go-playground validator used by HTTP
// request DTOs. Domain packages register their own tags in init.
package validator

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	dErrors "orgdesk/pkg/domain-errors"
)

// Validate is the process-wide validator instance.
var Validate = validator.New(validator.WithRequiredStructEnabled())

var usernamePattern = regexp.MustCompile(`^[A-Za-z0-9._-]+$`)

func init() {
	Validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return f.Name
		}
		return name
	})
	_ = Validate.RegisterValidation("username", func(fl validator.FieldLevel) bool {
		return usernamePattern.MatchString(fl.Field().String())
	})
}

// Struct validates v and converts the first failure into a coded validation
// error naming the offending JSON field.
func Struct(v any) error {
	err := Validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return dErrors.Wrap(err, dErrors.CodeBadRequest, "invalid request")
	}
	return dErrors.New(dErrors.CodeValidation, describe(verrs[0]))
}

func describe(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fe.Param())
	case "uuid", "uuid4":
		return field + " must be a valid id"
	case "numeric":
		return field + " must contain only digits"
	case "username":
		return field + " may contain only letters, digits, dot, underscore and hyphen"
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}
