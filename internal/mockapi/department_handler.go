package mockapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hmhbrian/qldt-go/internal/dto"
	"github.com/hmhbrian/qldt-go/internal/response"
	"github.com/hmhbrian/qldt-go/internal/validator"
)

// DepartmentHandler handles department endpoints.
type DepartmentHandler struct {
	store *Store
}

// NewDepartmentHandler creates a new DepartmentHandler.
func NewDepartmentHandler(store *Store) *DepartmentHandler {
	return &DepartmentHandler{store: store}
}

// List godoc
// GET /api/Departments
func (h *DepartmentHandler) List(c *gin.Context) {
	records := h.store.Departments()
	out := make([]dto.DepartmentDTO, 0, len(records))
	for _, d := range records {
		out = append(out, renderDepartment(d))
	}
	response.Success(c, http.StatusOK, out)
}

// Create godoc
// POST /api/Departments
func (h *DepartmentHandler) Create(c *gin.Context) {
	var req dto.CreateDepartmentRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}
	if req.ParentID != "" {
		if _, ok := h.store.DepartmentByID(req.ParentID); !ok {
			response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation,
				map[string]string{"parentId": "unknown parent department"})
			return
		}
	}

	d := h.store.AddDepartment(&departmentRecord{Name: req.Name, ParentID: req.ParentID})
	response.Success(c, http.StatusCreated, renderDepartment(d))
}

// Update godoc
// PUT /api/Departments/:id
func (h *DepartmentHandler) Update(c *gin.Context) {
	var req dto.CreateDepartmentRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	d, ok := h.store.UpdateDepartment(c.Param("id"), func(rec *departmentRecord) {
		rec.Name = req.Name
		rec.ParentID = req.ParentID
	})
	if !ok {
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		return
	}
	response.Success(c, http.StatusOK, renderDepartment(d))
}

// Delete godoc
// DELETE /api/Departments/:id
// Refused while courses or users still reference the department.
func (h *DepartmentHandler) Delete(c *gin.Context) {
	deleted, inUse := h.store.DeleteDepartment(c.Param("id"))
	if inUse {
		response.Fail(c, http.StatusConflict, response.ErrDependencyExists)
		return
	}
	if !deleted {
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		return
	}
	response.Success(c, http.StatusOK, gin.H{})
}
