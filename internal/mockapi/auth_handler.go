package mockapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hmhbrian/qldt-go/internal/dto"
	"github.com/hmhbrian/qldt-go/internal/response"
	"github.com/hmhbrian/qldt-go/internal/validator"
)

// AuthHandler handles authentication endpoints.
type AuthHandler struct {
	store  *Store
	tokens *TokenService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(store *Store, tokens *TokenService) *AuthHandler {
	return &AuthHandler{store: store, tokens: tokens}
}

// Login godoc
// POST /api/auth/login
// Exchanges email/password for an access token and the user profile.
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	user, ok := h.store.UserByEmail(req.Email)
	if !ok || user.Status != "ACTIVE" {
		response.Fail(c, http.StatusUnauthorized, response.ErrInvalidCredentials)
		return
	}
	if err := h.tokens.CheckPassword(user.PasswordHash, req.Password); err != nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrInvalidCredentials)
		return
	}

	token, err := h.tokens.Generate(user.ID, user.Role)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, dto.LoginResponse{
		AccessToken: token,
		User:        h.store.renderUser(user),
	})
}

// Logout godoc
// POST /api/auth/logout
// Tokens are stateless; logout simply acknowledges so clients can clear
// their session.
func (h *AuthHandler) Logout(c *gin.Context) {
	response.Success(c, http.StatusOK, gin.H{})
}

// Me godoc
// GET /api/auth/me
// Returns the authenticated user's profile.
func (h *AuthHandler) Me(c *gin.Context) {
	claims := GetClaims(c)
	user, ok := h.store.UserByID(claims.UserID)
	if !ok {
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		return
	}
	response.Success(c, http.StatusOK, h.store.renderUser(user))
}
