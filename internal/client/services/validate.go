package services

import (
	"strings"

	"github.com/dmitrijs2005/fitclub/internal/client/client"
)

// MinPasswordLength is the shortest password accepted at registration.
const MinPasswordLength = 6

// ValidationError is input rejected on the client. It matches ErrValidation.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func (e *ValidationError) Unwrap() error { return ErrValidation }

func normalizeRegistration(r client.RegisterRequest) client.RegisterRequest {
	r.FirstName = strings.TrimSpace(r.FirstName)
	r.LastName = strings.TrimSpace(r.LastName)
	r.Email = strings.TrimSpace(r.Email)
	r.Phone = strings.TrimSpace(r.Phone)
	return r
}

func requireRegistrationFields(r client.RegisterRequest) error {
	switch {
	case r.FirstName == "":
		return &ValidationError{Message: "First name is required"}
	case r.LastName == "":
		return &ValidationError{Message: "Last name is required"}
	case r.Email == "":
		return &ValidationError{Message: "Email is required"}
	case r.Password == "":
		return &ValidationError{Message: "Password is required"}
	}
	return nil
}

// ValidateRegistration applies the form rules checked before Register is
// called: mandatory fields, matching confirmation and minimum password length.
func ValidateRegistration(r client.RegisterRequest, confirmation string) error {
	if err := requireRegistrationFields(normalizeRegistration(r)); err != nil {
		return err
	}
	if r.Password != confirmation {
		return &ValidationError{Message: "Passwords do not match"}
	}
	if len(r.Password) < MinPasswordLength {
		return &ValidationError{Message: "Password must be at least 6 characters"}
	}
	return nil
}
