package handlers

import (
	"errors"

	"github.com/go-playground/validator/v10"
)

const msgInputTooLong = "Input is too long"

// Length caps for auth forms: name 100, username 64, password 72 (bcrypt's input limit).
type signupBody struct {
	Name     string `validate:"max=100"`
	Username string `validate:"max=64"`
	Password string `validate:"max=72"`
}

type loginBody struct {
	Username string `validate:"max=64"`
	Password string `validate:"max=72"`
}

// checkLimits reports msgInputTooLong for an over-long field. Blank fields are left to the use case,
// which answers with its own message.
func checkLimits(v *validator.Validate, body interface{}) (string, bool) {
	err := v.Struct(body)
	if err == nil {
		return "", true
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		return msgInputTooLong, false
	}
	return err.Error(), false
}
