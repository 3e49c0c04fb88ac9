// package validation wraps go-playground/validator with the custom rules used
// by the dashboard API and the service configuration.
package validation

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	validate = validator.New()

	// Owner and repository names on the provider: letters, digits, '-', '_' and '.'.
	repoNameRe = regexp.MustCompile(`^[A-Za-z0-9_.-]+$`)
)

func init() {
	err := validate.RegisterValidation("repo_name", func(fl validator.FieldLevel) bool {
		value := fl.Field().String()
		if value == "" {
			// Left to 'required'.
			return true
		}

		return value != "." && value != ".." && repoNameRe.MatchString(value)
	})
	if err != nil {
		panic(fmt.Sprintf("failed to register custom validation: %v", err))
	}
}

// ValidationError holds one message per failed field.
type ValidationError struct {
	Errors []string
}

func (v *ValidationError) Error() string {
	return strings.Join(v.Errors, ", ")
}

// ValidateStruct checks s against its `validate` tags and returns a
// *ValidationError with readable messages when any rule fails.
func ValidateStruct(s interface{}) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	messages := make([]string, 0, len(fieldErrs))

	for _, fe := range fieldErrs {
		var message string

		switch fe.Tag() {
		case "repo_name":
			message = fmt.Sprintf(
				"field '%s' must contain only letters, numbers, dots, hyphens, and underscores",
				fe.Field(),
			)
		case "oneof":
			message = fmt.Sprintf("field '%s' must be one of [%s]", fe.Field(), fe.Param())
		default:
			message = fmt.Sprintf("field '%s' failed on the '%s' tag", fe.Field(), fe.Tag())
		}

		messages = append(messages, message)
	}

	return &ValidationError{Errors: messages}
}
