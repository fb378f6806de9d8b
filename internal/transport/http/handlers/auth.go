package http_handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ecomm-platform/auth-gateway/internal/application/auth"
	"github.com/ecomm-platform/auth-gateway/internal/logger"
	"github.com/ecomm-platform/auth-gateway/internal/transport/http/dto"
	"github.com/ecomm-platform/auth-gateway/internal/transport/http/response"
)

type AuthHandler struct {
	svc *auth.Service
}

func NewAuthHandler(svc *auth.Service) *AuthHandler {
	return &AuthHandler{svc: svc}
}

func authResponse(message string, res auth.AuthResult) dto.AuthResponse {
	user := dto.ToUserView(res.User)
	return dto.AuthResponse{
		Success:   true,
		Message:   message,
		Token:     res.Token,
		TokenType: res.TokenType,
		ExpiresIn: res.ExpiresIn,
		User:      &user,
	}
}

func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req dto.SignupRequest
	if err := response.DecodeJSON(r, &req); err != nil {
		response.WriteError(w, r, err)
		return
	}
	if err := req.Validate(); err != nil {
		response.WriteError(w, r, err)
		return
	}

	res, err := h.svc.Signup(r.Context(), auth.SignupInput{
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		response.WriteError(w, r, err)
		return
	}

	logger.WithCtx(r.Context()).Info().
		Str("user_id", res.User.ID).
		Str("email", res.User.Email).
		Msg("user_registered")

	response.WriteJSON(w, http.StatusCreated, authResponse("user registered successfully", res))
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := response.DecodeJSON(r, &req); err != nil {
		response.WriteError(w, r, err)
		return
	}
	if err := req.Validate(); err != nil {
		response.WriteError(w, r, err)
		return
	}

	res, err := h.svc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}

	logger.WithCtx(r.Context()).Info().
		Str("user_id", res.User.ID).
		Msg("user_logged_in")

	response.WriteJSON(w, http.StatusOK, authResponse("login successful", res))
}

func (h *AuthHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")

	u, err := h.svc.GetProfile(r.Context(), userID)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}

	user := dto.ToUserView(u)
	response.WriteJSON(w, http.StatusOK, dto.AuthResponse{
		Success: true,
		Message: "profile retrieved",
		User:    &user,
	})
}

func (h *AuthHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")

	var req dto.UpdateProfileRequest
	if err := response.DecodeJSON(r, &req); err != nil {
		response.WriteError(w, r, err)
		return
	}
	if err := req.Validate(); err != nil {
		response.WriteError(w, r, err)
		return
	}

	u, err := h.svc.UpdateProfile(r.Context(), userID, req.FirstName, req.LastName)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}

	logger.WithCtx(r.Context()).Info().
		Str("user_id", u.ID).
		Msg("profile_updated")

	user := dto.ToUserView(u)
	response.WriteJSON(w, http.StatusOK, dto.AuthResponse{
		Success: true,
		Message: "profile updated",
		User:    &user,
	})
}

func (h *AuthHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")

	if err := h.svc.DeleteUser(r.Context(), userID); err != nil {
		response.WriteError(w, r, err)
		return
	}

	logger.WithCtx(r.Context()).Info().
		Str("user_id", userID).
		Msg("user_deleted")

	response.WriteJSON(w, http.StatusOK, dto.AuthResponse{
		Success: true,
		Message: "user deleted",
	})
}
