package http

import (
	"net/http"

	"github.com/contactd/contactd/internal/domain/user"
	"github.com/contactd/contactd/internal/middleware"
)

// maxAvatarSize caps avatar uploads.
const maxAvatarSize = 5 << 20 // 5 MB

// Me handles GET /api/v1/users/me.
func (h *Handlers) Me(w http.ResponseWriter, r *http.Request) {
	au, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "authorization required")
		return
	}

	u, err := h.Users.Get(r.Context(), au.ID)
	if err != nil {
		writeDomainError(w, err, "user not found")
		return
	}
	writeJSON(w, http.StatusOK, u)
}

// UpdateAvatar handles PATCH /api/v1/users/avatar with a multipart form
// carrying the image under the "file" field.
func (h *Handlers) UpdateAvatar(w http.ResponseWriter, r *http.Request) {
	au, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "authorization required")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxAvatarSize)
	file, _, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "multipart field 'file' is required")
		return
	}
	defer func() { _ = file.Close() }()

	u, err := h.Users.UpdateAvatar(r.Context(), au.ID, file)
	if err != nil {
		writeDomainError(w, err, "user not found")
		return
	}
	writeJSON(w, http.StatusOK, u)
}

// ChangePassword handles POST /api/v1/users/password.
func (h *Handlers) ChangePassword(w http.ResponseWriter, r *http.Request) {
	au, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "authorization required")
		return
	}

	req, ok := readJSON[user.ChangePasswordRequest](w, r)
	if !ok {
		return
	}

	if err := h.Auth.ChangePassword(r.Context(), au.ID, req); err != nil {
		writeDomainError(w, err, "user not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "password updated"})
}
