package auth

import (
	"time"

	"github.com/ecomm-platform/auth-gateway/internal/domain"
)

type Service struct {
	backend IdentityBackend
	signer  TokenSigner
	pub     EventPublisher

	accessTTL time.Duration
	audit     func(action string, fields map[string]string)
}

type Config struct {
	AccessTTL time.Duration
}

func NewService(backend IdentityBackend, signer TokenSigner, pub EventPublisher, cfg Config) *Service {
	ttl := cfg.AccessTTL
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	return &Service{
		backend:   backend,
		signer:    signer,
		pub:       pub,
		accessTTL: ttl,
		audit:     func(string, map[string]string) {},
	}
}

func (s *Service) WithAudit(fn func(action string, fields map[string]string)) *Service {
	if fn != nil {
		s.audit = fn
	}
	return s
}

// AuthResult is the common output of signup/login for handler/DTO mapping.
type AuthResult struct {
	User      domain.User
	Token     string
	TokenType string // "Bearer"
	ExpiresIn int64  // seconds
}

// issueToken signs a bearer token whose subject is the user's email.
func (s *Service) issueToken(u domain.User) (string, error) {
	tok, err := s.signer.Sign(u.Email, u.Role, s.accessTTL)
	if err != nil {
		return "", domain.ErrTokenSignFailed(err)
	}
	return tok, nil
}
