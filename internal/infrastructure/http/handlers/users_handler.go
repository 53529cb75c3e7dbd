package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/Asjad-Ilahi/devops/internal/application/auth"
	domerrors "github.com/Asjad-Ilahi/devops/internal/domain/errors"
	"github.com/Asjad-Ilahi/devops/internal/infrastructure/http/middleware"
)

// UsersHandler serves GET /api/user.
type UsersHandler struct {
	currentUser *auth.CurrentUser
	log         zerolog.Logger
}

func NewUsersHandler(currentUser *auth.CurrentUser, log zerolog.Logger) *UsersHandler {
	return &UsersHandler{currentUser: currentUser, log: log}
}

// MeResponse is the JSON shape for GET /api/user (no password).
type MeResponse struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	Name      string `json:"name"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

// Me returns the account behind the session cookie.
func (h *UsersHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, err := h.currentUser.Execute(r.Context(), middleware.IdentityFromContext(r.Context()))
	switch {
	case errors.Is(err, domerrors.ErrUnauthenticated):
		writeErr(w, http.StatusUnauthorized, "", "Unauthorized")
		return
	case errors.Is(err, domerrors.ErrUserNotFound):
		writeErr(w, http.StatusNotFound, "", "User not found")
		return
	case err != nil:
		h.log.Error().Err(err).Msg("fetch current user failed")
		writeErr(w, http.StatusInternalServerError, "", "Internal server error")
		return
	}
	writeJSON(w, http.StatusOK, MeResponse{
		ID:        user.ID.String(),
		Username:  user.Username,
		Name:      user.Name,
		CreatedAt: user.CreatedAt.Format(time.RFC3339),
		UpdatedAt: user.UpdatedAt.Format(time.RFC3339),
	})
}
