package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/ecomm-platform/auth-gateway/internal/domain"
)

// Login authenticates a user and issues a bearer token.
// IMPORTANT: must not leak whether the email exists (avoid user enumeration).
// Unknown-user and bad-password failures from the backend are collapsed into
// the same invalid_credentials error before leaving this layer.
func (s *Service) Login(ctx context.Context, email, password string) (AuthResult, error) {
	email = strings.TrimSpace(strings.ToLower(email))

	if email == "" || password == "" {
		return AuthResult{}, domain.ErrInvalidCredentials()
	}

	u, err := s.backend.VerifyCredentials(ctx, email, password)
	if err != nil {
		var de *domain.Error
		if errors.As(err, &de) && (de.Kind == domain.KindNotFound || de.Kind == domain.KindAuth) {
			s.audit("user.login_failed", map[string]string{"email": email})
			return AuthResult{}, domain.ErrInvalidCredentials()
		}
		// Provider / infrastructure failures keep their own kind.
		return AuthResult{}, err
	}

	tok, err := s.issueToken(u)
	if err != nil {
		return AuthResult{}, err
	}

	s.audit("user.logged_in", map[string]string{"user_id": u.ID})

	return AuthResult{
		User:      u,
		Token:     tok,
		TokenType: "Bearer",
		ExpiresIn: int64(s.accessTTL.Seconds()),
	}, nil
}
