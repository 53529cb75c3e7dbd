package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestSentinelErrors(t *testing.T) {
	if ErrUserExists.Error() != "Username already exists" {
		t.Errorf("ErrUserExists = %q", ErrUserExists.Error())
	}
	if ErrInvalidCredentials.Error() != "Invalid credentials" {
		t.Errorf("ErrInvalidCredentials = %q", ErrInvalidCredentials.Error())
	}
	if errors.Is(ErrUserNotFound, ErrUnauthenticated) {
		t.Error("ErrUserNotFound must not match ErrUnauthenticated")
	}
}

func TestAsValidation(t *testing.T) {
	wrapped := fmt.Errorf("create project: %w", NewValidationError("name", "Project name must be at least 2 characters"))
	ve, ok := AsValidation(wrapped)
	if !ok {
		t.Fatal("expected validation error")
	}
	if ve.Field != "name" || ve.Message != "Project name must be at least 2 characters" {
		t.Errorf("unexpected validation error: %+v", ve)
	}
	if _, ok := AsValidation(ErrUserExists); ok {
		t.Error("sentinel should not be a validation error")
	}
}
