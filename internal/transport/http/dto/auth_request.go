package dto

import (
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/ecomm-platform/auth-gateway/internal/domain"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// fieldErrors maps validator tag failures onto domain validation errors
// so every layer speaks the same error vocabulary.
func fieldErrors(err error) error {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok || len(verrs) == 0 {
		return domain.ErrInvalidField("body", "validation failed")
	}

	fe := verrs[0]
	field := jsonName(fe.Field())

	switch fe.Tag() {
	case "required":
		return domain.ErrMissingField(field)
	case "email":
		return domain.ErrInvalidField(field, "invalid format")
	default:
		return domain.ErrInvalidField(field, fe.Tag())
	}
}

func jsonName(structField string) string {
	switch structField {
	case "Email":
		return "email"
	case "Password":
		return "password"
	case "FirstName":
		return "firstName"
	case "LastName":
		return "lastName"
	default:
		return strings.ToLower(structField)
	}
}

// -------- Core auth --------

// Password strength is not enforced here; any non-empty password is
// accepted, matching the login counterpart.
type SignupRequest struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

func (r *SignupRequest) Validate() error {
	r.Email = strings.TrimSpace(strings.ToLower(r.Email))
	r.FirstName = strings.TrimSpace(r.FirstName)
	r.LastName = strings.TrimSpace(r.LastName)

	if err := validate.Struct(r); err != nil {
		return fieldErrors(err)
	}
	return nil
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

func (r *LoginRequest) Validate() error {
	r.Email = strings.TrimSpace(strings.ToLower(r.Email))

	if err := validate.Struct(r); err != nil {
		return fieldErrors(err)
	}
	return nil
}

// -------- Profile --------

type UpdateProfileRequest struct {
	FirstName string `json:"firstName" validate:"required"`
	LastName  string `json:"lastName" validate:"required"`
}

func (r *UpdateProfileRequest) Validate() error {
	r.FirstName = strings.TrimSpace(r.FirstName)
	r.LastName = strings.TrimSpace(r.LastName)

	if err := validate.Struct(r); err != nil {
		return fieldErrors(err)
	}
	return nil
}
