package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// validate is a singleton validator instance
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Report fields by their YAML key so errors match the file.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("yaml"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

func formatValidationError(err error) error {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}

	for _, e := range validationErrs {
		field := fieldPath(e.Namespace())
		param := e.Param()

		switch e.Tag() {
		case "required":
			return fmt.Errorf("%w: %s: field is required", ErrInvalid, field)
		case "min":
			return fmt.Errorf("%w: %s: must be at least %s", ErrInvalid, field, param)
		case "max":
			return fmt.Errorf("%w: %s: must not exceed %s", ErrInvalid, field, param)
		case "gt":
			return fmt.Errorf("%w: %s: must be greater than %s", ErrInvalid, field, param)
		case "gtefield":
			return fmt.Errorf("%w: %s: must not be shorter than %s", ErrInvalid, field, param)
		case "oneof":
			return fmt.Errorf("%w: %s: %q must be one of [%s]", ErrInvalid, field, e.Value(), param)
		case "excludesall":
			return fmt.Errorf("%w: %s: must not contain path separators", ErrInvalid, field)
		default:
			return fmt.Errorf("%w: %s: validation failed (%s)", ErrInvalid, field, e.Tag())
		}
	}

	return fmt.Errorf("%w: %v", ErrInvalid, err)
}

// fieldPath drops the root struct name from a validator namespace.
func fieldPath(ns string) string {
	if _, rest, ok := strings.Cut(ns, "."); ok {
		return rest
	}
	return ns
}
