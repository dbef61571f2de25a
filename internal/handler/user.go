package handler

import (
	"log/slog"
	"net/http"

	"github.com/sakif/tastebud/internal/repository"
)

// UserHandler serves the admin-only account operations. Role gating happens
// in the auth middleware; by the time these run, the caller is a verified
// admin.
type UserHandler struct {
	users  repository.UserRepository
	logger *slog.Logger
}

func NewUserHandler(users repository.UserRepository, logger *slog.Logger) *UserHandler {
	return &UserHandler{users: users, logger: logger}
}

// HandleList returns every account. Password digests never serialize — the
// model excludes them with a json:"-" tag.
//
// HTTP: GET /api/users (admin)
func (h *UserHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, users)
}

// HandleDelete removes an account and its preferences row. The store runs
// both deletes as one transaction and rolls back as a unit on failure.
//
// HTTP: DELETE /api/users/{user_id} (admin)
func (h *UserHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("user_id")

	if err := h.users.Delete(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}

	h.logger.Info("user deleted", slog.String("userID", id))

	writeJSON(w, http.StatusOK, messageResponse{Message: "User deleted successfully"})
}
