package http

import (
	"net/http"

	"github.com/contactd/contactd/internal/domain/user"
)

// Register handles POST /api/v1/auth/register.
func (h *Handlers) Register(w http.ResponseWriter, r *http.Request) {
	req, ok := readJSON[user.CreateRequest](w, r)
	if !ok {
		return
	}

	u, err := h.Auth.Register(r.Context(), &req)
	if err != nil {
		writeDomainError(w, err, "user not found")
		return
	}
	writeJSON(w, http.StatusCreated, u)
}

// Login handles POST /api/v1/auth/login.
func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	req, ok := readJSON[user.LoginRequest](w, r)
	if !ok {
		return
	}

	resp, err := h.Auth.Login(r.Context(), req)
	if err != nil {
		writeDomainError(w, err, "user not found")
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// ConfirmEmail handles GET /api/v1/auth/confirm/{token}.
func (h *Handlers) ConfirmEmail(w http.ResponseWriter, r *http.Request) {
	u, err := h.Auth.ConfirmEmail(r.Context(), urlParam(r, "token"))
	if err != nil {
		writeDomainError(w, err, "user not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"message": "account confirmed", "username": u.Username})
}

// RequestPasswordReset handles POST /api/v1/auth/password-reset.
func (h *Handlers) RequestPasswordReset(w http.ResponseWriter, r *http.Request) {
	req, ok := readJSON[user.RequestPasswordReset](w, r)
	if !ok {
		return
	}

	if err := h.Auth.RequestPasswordReset(r.Context(), req.Email); err != nil {
		writeDomainError(w, err, "user not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "if the account exists, a reset email was sent"})
}

// VerifyResetToken handles GET /api/v1/auth/password-reset/{token}.
func (h *Handlers) VerifyResetToken(w http.ResponseWriter, r *http.Request) {
	claims, err := h.Auth.ValidateResetToken(urlParam(r, "token"))
	if err != nil {
		writeDomainError(w, err, "user not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"username": claims.Username})
}

// ResetPassword handles POST /api/v1/auth/password-reset/confirm.
func (h *Handlers) ResetPassword(w http.ResponseWriter, r *http.Request) {
	req, ok := readJSON[user.ResetPassword](w, r)
	if !ok {
		return
	}

	if err := h.Auth.ResetPassword(r.Context(), req); err != nil {
		writeDomainError(w, err, "user not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "password updated"})
}
