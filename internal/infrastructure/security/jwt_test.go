package security

import (
	"testing"
	"time"

	"github.com/ecomm-platform/auth-gateway/internal/domain"
)

func TestJWT_SignAndVerify_SubjectIsEmail(t *testing.T) {
	t.Parallel()

	s := NewJWTSigner("super-secret", "auth-gateway")

	tok, err := s.Sign("a@x.com", "user", time.Hour)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	claims, err := s.Verify(tok)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if claims.Subject != "a@x.com" {
		t.Fatalf("subject mismatch: got %q", claims.Subject)
	}
	if claims.Role != "user" {
		t.Fatalf("role mismatch: got %q", claims.Role)
	}
	if !claims.Exp.After(time.Now()) {
		t.Fatalf("expected future expiry, got %v", claims.Exp)
	}
}

func TestJWT_Expired_Rejected(t *testing.T) {
	t.Parallel()

	s := NewJWTSigner("super-secret", "auth-gateway")

	tok, err := s.Sign("a@x.com", "user", -1*time.Second)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	_, err = s.Verify(tok)
	if err == nil {
		t.Fatalf("expected error for expired token")
	}
	if !domain.Is(err, "token_expired") {
		t.Fatalf("expected token_expired, got %v", err)
	}
}

func TestJWT_WrongSecret_Rejected(t *testing.T) {
	t.Parallel()

	tok, err := NewJWTSigner("right-secret", "auth-gateway").Sign("a@x.com", "user", time.Hour)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	_, err = NewJWTSigner("wrong-secret", "auth-gateway").Verify(tok)
	if !domain.Is(err, "token_invalid") {
		t.Fatalf("expected token_invalid, got %v", err)
	}
}

func TestJWT_Malformed_Rejected(t *testing.T) {
	t.Parallel()

	s := NewJWTSigner("super-secret", "auth-gateway")

	if _, err := s.Verify("not.a.jwt"); err == nil {
		t.Fatalf("expected error for malformed token")
	}
}

func TestJWT_EmptySecret_SignFails(t *testing.T) {
	t.Parallel()

	s := NewJWTSigner("", "auth-gateway")

	_, err := s.Sign("a@x.com", "user", time.Hour)
	if !domain.Is(err, "token_sign_failed") {
		t.Fatalf("expected token_sign_failed, got %v", err)
	}
}
