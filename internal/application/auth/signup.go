package auth

import (
	"context"
	"strings"

	"github.com/ecomm-platform/auth-gateway/internal/domain"
)

type SignupInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
}

// Signup creates a user in the configured identity backend and issues a
// bearer token for the new account. Duplicate emails surface as a conflict
// and leave the backend untouched.
func (s *Service) Signup(ctx context.Context, in SignupInput) (AuthResult, error) {
	in.Email = strings.TrimSpace(strings.ToLower(in.Email))

	if in.Email == "" {
		return AuthResult{}, domain.ErrMissingField("email")
	}
	if in.Password == "" {
		return AuthResult{}, domain.ErrMissingField("password")
	}

	created, err := s.backend.CreateUser(ctx, NewUser{
		Email:     in.Email,
		Password:  in.Password,
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Role:      string(domain.RoleUser),
	})
	if err != nil {
		return AuthResult{}, err
	}

	tok, err := s.issueToken(created)
	if err != nil {
		return AuthResult{}, err
	}

	// Lifecycle event is best-effort: a broker outage must not fail signup.
	if err := s.pub.PublishUserRegistered(ctx, UserRegisteredEvent{
		UserID: created.ID,
		Email:  created.Email,
	}); err != nil {
		s.audit("user.registered.publish_failed", map[string]string{
			"user_id": created.ID,
			"error":   err.Error(),
		})
	}

	s.audit("user.registered", map[string]string{
		"user_id": created.ID,
		"email":   created.Email,
	})

	return AuthResult{
		User:      created,
		Token:     tok,
		TokenType: "Bearer",
		ExpiresIn: int64(s.accessTTL.Seconds()),
	}, nil
}
