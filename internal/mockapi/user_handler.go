package mockapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hmhbrian/qldt-go/internal/dto"
	"github.com/hmhbrian/qldt-go/internal/response"
	"github.com/hmhbrian/qldt-go/internal/validator"
)

// UserHandler handles user administration endpoints.
type UserHandler struct {
	store  *Store
	tokens *TokenService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(store *Store, tokens *TokenService) *UserHandler {
	return &UserHandler{store: store, tokens: tokens}
}

// List godoc
// GET /api/Users
func (h *UserHandler) List(c *gin.Context) {
	response.Success(c, http.StatusOK, h.store.renderUsers(h.store.Users()))
}

// Search godoc
// GET /api/Users/search?q=...
func (h *UserHandler) Search(c *gin.Context) {
	response.Success(c, http.StatusOK, h.store.renderUsers(h.store.SearchUsers(c.Query("q"))))
}

// Create godoc
// POST /api/Users
func (h *UserHandler) Create(c *gin.Context) {
	var req dto.CreateUserRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}
	if h.store.EmailTaken(req.Email, "") {
		response.Fail(c, http.StatusConflict, response.ErrConflict)
		return
	}

	hash, err := h.tokens.HashPassword(req.Password)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	user := h.store.AddUser(&userRecord{
		FullName:      req.FullName,
		Email:         req.Email,
		PasswordHash:  hash,
		Role:          req.Role,
		DepartmentIDs: req.DepartmentIDs,
	})
	response.Success(c, http.StatusCreated, h.store.renderUser(user))
}

// Update godoc
// PUT /api/Users/:id
func (h *UserHandler) Update(c *gin.Context) {
	var req dto.UpdateUserRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	id := c.Param("id")
	if req.Email != "" && h.store.EmailTaken(req.Email, id) {
		response.Fail(c, http.StatusConflict, response.ErrConflict)
		return
	}

	user, ok := h.store.UpdateUser(id, func(rec *userRecord) {
		if req.FullName != "" {
			rec.FullName = req.FullName
		}
		if req.Email != "" {
			rec.Email = req.Email
		}
		if req.Role != "" {
			rec.Role = req.Role
		}
		if len(req.DepartmentIDs) > 0 {
			rec.DepartmentIDs = req.DepartmentIDs
		}
		if req.Status != "" {
			rec.Status = req.Status
		}
	})
	if !ok {
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		return
	}
	response.Success(c, http.StatusOK, h.store.renderUser(user))
}

// ResetPassword godoc
// POST /api/Users/:id/reset-password
func (h *UserHandler) ResetPassword(c *gin.Context) {
	var req dto.ResetPasswordRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	hash, err := h.tokens.HashPassword(req.NewPassword)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	if _, ok := h.store.UpdateUser(c.Param("id"), func(rec *userRecord) {
		rec.PasswordHash = hash
	}); !ok {
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		return
	}
	response.Success(c, http.StatusOK, gin.H{})
}

// SoftDelete godoc
// POST /api/Users/:id/soft-delete
// Marks the account deleted; its records are kept for reporting.
func (h *UserHandler) SoftDelete(c *gin.Context) {
	if _, ok := h.store.UpdateUser(c.Param("id"), func(rec *userRecord) {
		rec.Status = "DELETED"
	}); !ok {
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		return
	}
	response.Success(c, http.StatusOK, gin.H{})
}
