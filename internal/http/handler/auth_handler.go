// Package handler serves the account API to browser clients over HTTP.
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"authify/backend/internal/account/domain"
	accountservice "authify/backend/internal/account/service"
	"authify/backend/internal/http/response"
	"authify/backend/internal/identity/service"
	"authify/backend/internal/security"
	"authify/backend/internal/server/interceptors"
)

const maxBodyBytes = 1 << 16

// AuthHandler exposes registration, login, OTP and profile endpoints.
type AuthHandler struct {
	auth     *service.AuthService
	accounts *accountservice.AccountService
	cookies  *security.CookieManager
}

// NewAuthHandler returns an AuthHandler. cookies sets and clears the jwt session cookie.
func NewAuthHandler(auth *service.AuthService, accounts *accountservice.AccountService, cookies *security.CookieManager) *AuthHandler {
	return &AuthHandler{auth: auth, accounts: accounts, cookies: cookies}
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Email string `json:"email"`
	Token string `json:"token"`
}

type verifyRequest struct {
	OTP string `json:"otp"`
}

type resetPasswordRequest struct {
	Email       string `json:"email"`
	OTP         string `json:"otp"`
	NewPassword string `json:"newPassword"`
}

type profileResponse struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Verified bool   `json:"verified"`
}

func toProfile(s *domain.Summary) profileResponse {
	return profileResponse{ID: s.ID, Name: s.Name, Email: s.Email, Verified: s.Verified}
}

// Register handles POST /register.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !decode(w, r, &req) {
		return
	}
	summary, err := h.auth.Register(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}
	response.JSON(w, r, http.StatusCreated, toProfile(summary))
}

// Login handles POST /login. The token is set as the jwt cookie and echoed in the body.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decode(w, r, &req) {
		return
	}
	res, err := h.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}
	h.cookies.SetSessionCookie(w, res.Token, security.SessionTTL)
	response.JSON(w, r, http.StatusOK, loginResponse{Email: res.Email, Token: res.Token})
}

// IsAuthenticated handles GET /is-authenticated.
func (h *AuthHandler) IsAuthenticated(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, r, http.StatusOK, h.auth.CheckSession(r.Context()))
}

// SendVerifyOTP handles POST /send-otp for the signed-in account.
func (h *AuthHandler) SendVerifyOTP(w http.ResponseWriter, r *http.Request) {
	email, _ := interceptors.GetEmail(r.Context())
	if err := h.accounts.IssueVerificationOTP(r.Context(), email); err != nil {
		writeError(w, r, err)
		return
	}
	response.JSON(w, r, http.StatusOK, map[string]string{"message": "verification otp sent"})
}

// VerifyEmail handles POST /verify-otp.
func (h *AuthHandler) VerifyEmail(w http.ResponseWriter, r *http.Request) {
	var req verifyRequest
	if !decode(w, r, &req) {
		return
	}
	email, _ := interceptors.GetEmail(r.Context())
	if err := h.accounts.ConsumeVerificationOTP(r.Context(), email, req.OTP); err != nil {
		writeError(w, r, err)
		return
	}
	response.JSON(w, r, http.StatusOK, map[string]string{"message": "email verified"})
}

// SendResetOTP handles POST /reset-otp?email=.
func (h *AuthHandler) SendResetOTP(w http.ResponseWriter, r *http.Request) {
	if err := h.accounts.IssueResetOTP(r.Context(), r.URL.Query().Get("email")); err != nil {
		writeError(w, r, err)
		return
	}
	response.JSON(w, r, http.StatusOK, map[string]string{"message": "reset otp sent"})
}

// ResetPassword handles POST /reset-password.
func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req resetPasswordRequest
	if !decode(w, r, &req) {
		return
	}
	if err := h.accounts.ConsumeResetOTP(r.Context(), req.Email, req.OTP, req.NewPassword); err != nil {
		writeError(w, r, err)
		return
	}
	response.JSON(w, r, http.StatusOK, map[string]string{"message": "password reset"})
}

// Logout handles POST /logout by expiring the session cookie.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.auth.Logout(r.Context())
	h.cookies.ClearSessionCookie(w)
	response.JSON(w, r, http.StatusOK, map[string]string{"message": "logged out"})
}

// Profile handles GET /user.
func (h *AuthHandler) Profile(w http.ResponseWriter, r *http.Request) {
	accountID, _ := interceptors.GetAccountID(r.Context())
	summary, err := h.accounts.GetProfile(r.Context(), accountID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	response.JSON(w, r, http.StatusOK, toProfile(summary))
}

func decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", "invalid json body")
		return false
	}
	return true
}

// writeError maps service errors to HTTP status codes. Credential failures share one message.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, code, msg := classify(r.Context(), err)
	response.Error(w, r, status, code, msg)
}

func classify(ctx context.Context, err error) (int, string, string) {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest, "INVALID_INPUT", err.Error()
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, "NOT_FOUND", "account not found"
	case errors.Is(err, domain.ErrEmailExists):
		return http.StatusConflict, "EMAIL_EXISTS", "email already registered"
	case errors.Is(err, domain.ErrInvalidCredentials), errors.Is(err, security.ErrInvalidToken):
		return http.StatusUnauthorized, "INVALID_CREDENTIALS", "invalid email or password"
	case errors.Is(err, domain.ErrAccountDisabled):
		return http.StatusForbidden, "ACCOUNT_DISABLED", "account disabled"
	case errors.Is(err, domain.ErrOTPMissing):
		return http.StatusBadRequest, "OTP_MISSING", "no pending otp"
	case errors.Is(err, domain.ErrOTPMismatch):
		return http.StatusBadRequest, "OTP_MISMATCH", "invalid otp"
	case errors.Is(err, domain.ErrOTPExpired):
		return http.StatusBadRequest, "OTP_EXPIRED", "otp expired"
	case errors.Is(err, domain.ErrDeliveryFailed):
		return http.StatusServiceUnavailable, "DELIVERY_FAILED", "email could not be sent"
	default:
		slog.ErrorContext(ctx, "http handler failed", "error", err)
		return http.StatusInternalServerError, "INTERNAL", "internal error"
	}
}
