package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterValidation("globpattern", func(fl validator.FieldLevel) bool {
		_, err := filepath.Match(fl.Field().String(), "")
		return err == nil
	})
	return v
}

// Validate checks a configuration for missing or out-of-range values. The
// data directory must exist.
func Validate(cfg *ConfigData) error {
	err := validate.Struct(cfg)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("config validation failed: %w", err)
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, describeFieldError(fe))
	}
	return fmt.Errorf("config validation failed: %s", strings.Join(msgs, "; "))
}

func describeFieldError(fe validator.FieldError) string {
	field := strings.TrimPrefix(fe.Namespace(), "ConfigData.")
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "dir":
		return fmt.Sprintf("%s: directory %q does not exist", field, fe.Value())
	case "file":
		return fmt.Sprintf("%s: file %q does not exist", field, fe.Value())
	case "globpattern":
		return fmt.Sprintf("%s: %q is not a valid file pattern", field, fe.Value())
	default:
		return fmt.Sprintf("%s failed %q check (value %v)", field, fe.Tag(), fe.Value())
	}
}
