package wizard

import (
	"strings"

	"github.com/go-playground/validator/v10"
)

const maxNameLen = 50

var validate = validator.New(validator.WithRequiredStructEnabled())

func validateName(name string) error {
	if name == "" {
		return &ValidationError{Field: "name", Message: "a name is required"}
	}
	if len([]rune(name)) > maxNameLen {
		return &ValidationError{Field: "name", Message: "that name is too long"}
	}
	return nil
}

func validateEmail(email string) error {
	email = strings.TrimSpace(email)
	if err := validate.Var(email, "required,email"); err != nil {
		return &ValidationError{Field: "email", Message: "enter a valid email address"}
	}
	return nil
}
