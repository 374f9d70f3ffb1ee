package olleh

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// jsonFieldName maps struct field names to their wire names so validation
// failures line up with the backend's field-keyed error bodies.
var jsonFieldName = map[string]string{
	"Email":      "email",
	"Password":   "password",
	"RePassword": "re_password",
}

// Validate checks login input locally before it is sent.
func (in LoginInput) Validate() error { return validateInput(in) }

// Validate checks signup input locally, mirroring the backend rules
// (valid email, password length, matching confirmation).
func (in SignupInput) Validate() error { return validateInput(in) }

func validateInput(in any) error {
	err := validate.Struct(in)
	if err == nil {
		return nil
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return fmt.Errorf("olleh: validate: %w", err)
	}

	out := &ValidationError{Fields: make(map[string][]string)}
	for _, fe := range verrs {
		field := jsonFieldName[fe.Field()]
		if field == "" {
			field = strings.ToLower(fe.Field())
		}
		out.Fields[field] = append(out.Fields[field], fieldMessage(fe))
	}
	return out
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required."
	case "email":
		return "Enter a valid email address."
	case "max":
		return fmt.Sprintf("Ensure this field has no more than %s characters.", fe.Param())
	case "min":
		return fmt.Sprintf("Ensure this field has at least %s characters.", fe.Param())
	case "eqfield":
		return "The two password fields didn't match."
	default:
		return fmt.Sprintf("Invalid value (%s).", fe.Tag())
	}
}
