package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/sakif/marketplace-api/internal/model"
	"github.com/sakif/marketplace-api/internal/service"
)

// AuthHandler exposes registration and login.
type AuthHandler struct {
	auth     *service.AuthService
	validate *validator.Validate
	logger   *slog.Logger
}

// NewAuthHandler creates an AuthHandler.
func NewAuthHandler(auth *service.AuthService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		auth:     auth,
		validate: validator.New(),
		logger:   logger,
	}
}

// registerRequest mirrors the POST /api/auth/register body. The validate
// tags reject malformed requests before the service runs; what they can't
// express (duplicate email) the service enforces.
type registerRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Name     string `json:"name"     validate:"required"`
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// authResponse is the success body for register (201) and login (200).
type authResponse struct {
	Token string           `json:"token"`
	User  model.PublicUser `json:"user"`
}

// HandleRegister creates a new account.
//
// HTTP: POST /api/auth/register
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeError(w, validationError(err))
		return
	}

	result, err := h.auth.Register(r.Context(), req.Email, req.Password, req.Name)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, authResponse{
		Token: result.Token,
		User:  result.User,
	})
}

// HandleLogin authenticates an existing account.
//
// HTTP: POST /api/auth/login
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeError(w, validationError(err))
		return
	}

	result, err := h.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, authResponse{
		Token: result.Token,
		User:  result.User,
	})
}
