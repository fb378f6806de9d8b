package http_handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ecomm-platform/auth-gateway/internal/transport/http/dto"
	"github.com/ecomm-platform/auth-gateway/internal/transport/http/response"
)

func doSignup(t *testing.T, h http.Handler, email string) dto.AuthResponse {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/api/auth/signup", mustJSONBody(t, map[string]string{
		"email":     email,
		"password":  "longenough",
		"firstName": "Ada",
		"lastName":  "Lovelace",
	}))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if rr.Code != http.StatusCreated {
		t.Fatalf("signup: expected 201, got %d: %s", rr.Code, rr.Body.String())
	}

	var body dto.AuthResponse
	mustReadJSON(t, rr.Body, &body)
	return body
}

func TestSignup_Success_EnvelopeAndToken(t *testing.T) {
	t.Parallel()

	h, signer := newTestRouter(t, true)

	body := doSignup(t, h, "a@x.com")

	if !body.Success || body.Token == "" || body.User == nil {
		t.Fatalf("unexpected envelope: %+v", body)
	}
	if body.TokenType != "Bearer" {
		t.Fatalf("expected Bearer, got %q", body.TokenType)
	}
	if body.User.Email != "a@x.com" || body.User.Role != "user" {
		t.Fatalf("unexpected user: %+v", body.User)
	}

	claims, err := signer.Verify(body.Token)
	if err != nil {
		t.Fatalf("verify issued token: %v", err)
	}
	if claims.Subject != "a@x.com" {
		t.Fatalf("token subject should be the email, got %q", claims.Subject)
	}
}

func TestSignup_ShortPassword_Accepted(t *testing.T) {
	t.Parallel()

	h, _ := newTestRouter(t, true)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/signup", mustJSONBody(t, map[string]string{
		"email":    "a@x.com",
		"password": "pw123",
	}))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rr.Code, rr.Body.String())
	}

	var body dto.AuthResponse
	mustReadJSON(t, rr.Body, &body)
	if !body.Success || body.Token == "" {
		t.Fatalf("unexpected envelope: %+v", body)
	}
}

func TestSignup_DuplicateEmail_409(t *testing.T) {
	t.Parallel()

	h, _ := newTestRouter(t, true)

	doSignup(t, h, "a@x.com")

	req := httptest.NewRequest(http.MethodPost, "/api/auth/signup", mustJSONBody(t, map[string]string{
		"email":    "A@X.COM",
		"password": "longenough",
	}))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if rr.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d: %s", rr.Code, rr.Body.String())
	}

	var body response.ErrorBody
	mustReadJSON(t, rr.Body, &body)
	if body.Success {
		t.Fatalf("expected success=false")
	}
	if body.Code != "email_already_exists" {
		t.Fatalf("expected email_already_exists, got %q", body.Code)
	}
	if body.RequestID == "" {
		t.Fatalf("expected request_id in error envelope")
	}
}

func TestSignup_InvalidBody_400(t *testing.T) {
	t.Parallel()

	h, _ := newTestRouter(t, true)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/signup", strings.NewReader(`{"email":`))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}

	var body response.ErrorBody
	mustReadJSON(t, rr.Body, &body)
	if body.Code != "invalid_json" {
		t.Fatalf("expected invalid_json, got %q", body.Code)
	}
}

func TestLogin_Success(t *testing.T) {
	t.Parallel()

	h, _ := newTestRouter(t, true)
	doSignup(t, h, "a@x.com")

	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", mustJSONBody(t, map[string]string{
		"email":    "a@x.com",
		"password": "longenough",
	}))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}

	var body dto.AuthResponse
	mustReadJSON(t, rr.Body, &body)
	if !body.Success || body.Token == "" {
		t.Fatalf("unexpected envelope: %+v", body)
	}
	if body.Message != "login successful" {
		t.Fatalf("unexpected message: %q", body.Message)
	}
}

func TestLogin_WrongPasswordAndUnknownEmail_Indistinguishable(t *testing.T) {
	t.Parallel()

	h, _ := newTestRouter(t, true)
	doSignup(t, h, "a@x.com")

	attempt := func(email, password string) (int, response.ErrorBody) {
		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", mustJSONBody(t, map[string]string{
			"email":    email,
			"password": password,
		}))
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)

		var body response.ErrorBody
		mustReadJSON(t, rr.Body, &body)
		return rr.Code, body
	}

	codeWrongPw, bodyWrongPw := attempt("a@x.com", "wrong-password")
	codeUnknown, bodyUnknown := attempt("nobody@x.com", "longenough")

	if codeWrongPw != http.StatusUnauthorized || codeUnknown != http.StatusUnauthorized {
		t.Fatalf("expected 401/401, got %d/%d", codeWrongPw, codeUnknown)
	}
	if bodyWrongPw.Code != "invalid_credentials" || bodyUnknown.Code != "invalid_credentials" {
		t.Fatalf("expected invalid_credentials for both, got %q/%q", bodyWrongPw.Code, bodyUnknown.Code)
	}
	if bodyWrongPw.Message != bodyUnknown.Message {
		t.Fatalf("messages must be identical: %q vs %q", bodyWrongPw.Message, bodyUnknown.Message)
	}
}

func TestProfile_RequiresBearer(t *testing.T) {
	t.Parallel()

	h, _ := newTestRouter(t, true)
	created := doSignup(t, h, "a@x.com")

	req := httptest.NewRequest(http.MethodGet, "/api/auth/profile/"+created.User.ID, nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", rr.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/auth/profile/"+created.User.ID, nil)
	req.Header.Set("Authorization", "Bearer "+created.Token)
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 with token, got %d: %s", rr.Code, rr.Body.String())
	}

	var body dto.AuthResponse
	mustReadJSON(t, rr.Body, &body)
	if body.User == nil || body.User.Email != "a@x.com" {
		t.Fatalf("unexpected profile: %+v", body)
	}
	if body.Token != "" {
		t.Fatalf("profile responses must not mint tokens")
	}
}

func TestProfile_PermissivePolicy_NoTokenNeeded(t *testing.T) {
	t.Parallel()

	h, _ := newTestRouter(t, false)
	created := doSignup(t, h, "a@x.com")

	req := httptest.NewRequest(http.MethodGet, "/api/auth/profile/"+created.User.ID, nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
}

func TestProfile_Unknown_404(t *testing.T) {
	t.Parallel()

	h, _ := newTestRouter(t, false)

	req := httptest.NewRequest(http.MethodGet, "/api/auth/profile/nope", nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rr.Code)
	}

	var body response.ErrorBody
	mustReadJSON(t, rr.Body, &body)
	if body.Code != "user_not_found" {
		t.Fatalf("expected user_not_found, got %q", body.Code)
	}
}

func TestUpdateProfile_Success(t *testing.T) {
	t.Parallel()

	h, _ := newTestRouter(t, true)
	created := doSignup(t, h, "a@x.com")

	req := httptest.NewRequest(http.MethodPut, "/api/auth/profile/"+created.User.ID, mustJSONBody(t, map[string]string{
		"firstName": "Grace",
		"lastName":  "Hopper",
	}))
	req.Header.Set("Authorization", "Bearer "+created.Token)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}

	var body dto.AuthResponse
	mustReadJSON(t, rr.Body, &body)
	if body.User == nil || body.User.FirstName != "Grace" || body.User.LastName != "Hopper" {
		t.Fatalf("unexpected user: %+v", body.User)
	}
}

func TestUpdateProfile_MissingName_400(t *testing.T) {
	t.Parallel()

	h, _ := newTestRouter(t, true)
	created := doSignup(t, h, "a@x.com")

	req := httptest.NewRequest(http.MethodPut, "/api/auth/profile/"+created.User.ID, mustJSONBody(t, map[string]string{
		"firstName": "",
		"lastName":  "Hopper",
	}))
	req.Header.Set("Authorization", "Bearer "+created.Token)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
}

func TestDeleteUser_Success_ThenGone(t *testing.T) {
	t.Parallel()

	h, _ := newTestRouter(t, true)
	created := doSignup(t, h, "a@x.com")

	req := httptest.NewRequest(http.MethodDelete, "/api/auth/profile/"+created.User.ID, nil)
	req.Header.Set("Authorization", "Bearer "+created.Token)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}

	var body dto.AuthResponse
	mustReadJSON(t, rr.Body, &body)
	if !body.Success || body.Message != "user deleted" {
		t.Fatalf("unexpected envelope: %+v", body)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/auth/profile/"+created.User.ID, nil)
	req.Header.Set("Authorization", "Bearer "+created.Token)
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404 after delete, got %d", rr.Code)
	}
}

func TestRequestID_EchoedOnResponses(t *testing.T) {
	t.Parallel()

	h, _ := newTestRouter(t, true)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", mustJSONBody(t, map[string]string{
		"email":    "a@x.com",
		"password": "x",
	}))
	req.Header.Set("X-Request-Id", "rid-42")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if got := rr.Header().Get("X-Request-Id"); got != "rid-42" {
		t.Fatalf("expected echoed request id, got %q", got)
	}

	var body response.ErrorBody
	mustReadJSON(t, rr.Body, &body)
	if body.RequestID != "rid-42" {
		t.Fatalf("expected request_id in body, got %q", body.RequestID)
	}
}
