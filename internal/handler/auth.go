// Package handler contains the HTTP handlers. Each handler struct owns one
// resource, receives its dependencies at construction, and maps requests
// directly onto repository operations — there is no service layer between
// them.
package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/sakif/tastebud/internal/apperror"
	"github.com/sakif/tastebud/internal/auth"
	"github.com/sakif/tastebud/internal/model"
	"github.com/sakif/tastebud/internal/repository"
)

// AuthHandler serves registration and login.
type AuthHandler struct {
	users  repository.UserRepository
	prefs  repository.PreferenceRepository
	tokens *auth.TokenService
	logger *slog.Logger
}

func NewAuthHandler(
	users repository.UserRepository,
	prefs repository.PreferenceRepository,
	tokens *auth.TokenService,
	logger *slog.Logger,
) *AuthHandler {
	return &AuthHandler{
		users:  users,
		prefs:  prefs,
		tokens: tokens,
		logger: logger,
	}
}

type registerRequest struct {
	Username string `json:"username" validate:"required"`
	Email    string `json:"email"    validate:"required"`
	Password string `json:"password" validate:"required"`
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	Token string      `json:"token"`
	User  *model.User `json:"user"`
}

// HandleRegister creates a new account with the "user" role.
//
// HTTP: POST /api/register
//
// The username and email uniqueness checks are separate reads run before
// the insert. Two concurrent registrations of the same name can both pass
// them; the loser then hits the UNIQUE constraint, which surfaces as a 500
// rather than a 409.
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperror.ValidationFailed("Missing required fields"))
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, apperror.ValidationFailed("Missing required fields"))
		return
	}

	taken, err := h.users.UsernameTaken(r.Context(), req.Username)
	if err != nil {
		writeError(w, err)
		return
	}
	if taken {
		writeError(w, apperror.Conflict("Username already exists"))
		return
	}

	taken, err = h.users.EmailTaken(r.Context(), req.Email)
	if err != nil {
		writeError(w, err)
		return
	}
	if taken {
		writeError(w, apperror.Conflict("Email already exists"))
		return
	}

	user := &model.User{
		Username:       req.Username,
		Email:          req.Email,
		PasswordDigest: auth.Digest(req.Password),
		Role:           model.RoleUser,
	}
	if err := h.users.Create(r.Context(), user); err != nil {
		h.logger.Error("registration insert failed",
			slog.String("username", req.Username),
			slog.String("error", err.Error()),
		)
		writeError(w, err)
		return
	}

	h.logger.Info("user registered",
		slog.String("userID", user.ID),
		slog.String("username", user.Username),
	)

	writeJSON(w, http.StatusCreated, messageResponse{Message: "User registered successfully"})
}

// HandleLogin authenticates by username + password digest and issues a
// 24-hour session token. The account record comes back with its
// preferences embedded when a preferences row exists.
//
// HTTP: POST /api/login
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperror.ValidationFailed("Missing username or password"))
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, apperror.ValidationFailed("Missing username or password"))
		return
	}

	user, err := h.users.GetByCredentials(r.Context(), req.Username, auth.Digest(req.Password))
	if err != nil {
		writeError(w, err)
		return
	}

	prefs, err := h.prefs.Get(r.Context(), user.ID)
	switch {
	case err == nil:
		user.Preferences = prefs
	case errors.Is(err, apperror.ErrNotFound):
		// No preferences set — the user record goes out without them.
	default:
		writeError(w, err)
		return
	}

	token, err := h.tokens.Issue(user.ID, user.Role)
	if err != nil {
		writeError(w, err)
		return
	}

	h.logger.Info("user logged in",
		slog.String("userID", user.ID),
		slog.String("role", user.Role),
	)

	writeJSON(w, http.StatusOK, loginResponse{Token: token, User: user})
}
