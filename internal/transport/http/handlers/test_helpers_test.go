package http_handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/ecomm-platform/auth-gateway/internal/application/auth"
	"github.com/ecomm-platform/auth-gateway/internal/infrastructure/local"
	"github.com/ecomm-platform/auth-gateway/internal/infrastructure/memory"
	"github.com/ecomm-platform/auth-gateway/internal/infrastructure/security"
	"github.com/ecomm-platform/auth-gateway/internal/transport/http/middleware"
	"github.com/ecomm-platform/auth-gateway/internal/transport/http/response"
	"github.com/ecomm-platform/auth-gateway/internal/transport/http/router"
)

// mustJSONBody marshals v to JSON and returns an io.Reader for a request body.
func mustJSONBody(t *testing.T, v any) io.Reader {
	t.Helper()

	b, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("json marshal: %v", err)
	}
	return bytes.NewReader(b)
}

// mustReadJSON decodes JSON from r into out.
func mustReadJSON(t *testing.T, r io.Reader, out any) {
	t.Helper()

	raw, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		t.Fatalf("decode json failed; body=%s err=%v", string(raw), err)
	}
}

// newTestRouter wires a full in-memory gateway: memory repo, bcrypt,
// real signer, no broker. profileAuth toggles the bearer guard on the
// profile routes.
func newTestRouter(t *testing.T, profileAuth bool) (http.Handler, *security.JWTSigner) {
	t.Helper()

	signer := security.NewJWTSigner("test-secret", "auth-gateway")
	backend := local.NewBackend(memory.NewUserRepo(), security.NewBcryptHasher(4))
	svc := auth.NewService(backend, signer, memory.NewNoopPublisher(), auth.Config{AccessTTL: 15 * time.Minute})

	deps := router.Deps{
		Health:      NewHealthHandler(nil),
		Auth:        NewAuthHandler(svc),
		RequestIDMW: middleware.RequestID,
	}
	if profileAuth {
		deps.AuthMW = middleware.Auth(signer, response.WriteError)
	}

	h, err := router.New(deps)
	if err != nil {
		t.Fatalf("router: %v", err)
	}
	return h, signer
}
