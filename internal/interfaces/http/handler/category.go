package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	catalogapp "github.com/storefront/backend/internal/application/catalog"
	storeapp "github.com/storefront/backend/internal/application/store"
	"github.com/storefront/backend/internal/interfaces/http/middleware"
)

// CategoryHandler exposes per-store category endpoints
type CategoryHandler struct {
	BaseHandler
	categoryService *catalogapp.CategoryService
	storeService    *storeapp.StoreService
}

// NewCategoryHandler creates a new CategoryHandler
func NewCategoryHandler(categoryService *catalogapp.CategoryService, storeService *storeapp.StoreService) *CategoryHandler {
	return &CategoryHandler{
		categoryService: categoryService,
		storeService:    storeService,
	}
}

// CreateCategoryRequest is the category creation payload
type CreateCategoryRequest struct {
	Name        string `json:"name" binding:"required,min=1,max=100"`
	Description string `json:"description" binding:"max=1000"`
}

// RenameCategoryRequest is the category rename payload
type RenameCategoryRequest struct {
	Name string `json:"name" binding:"required,min=1,max=100"`
}

// guardOwnership checks the category belongs to the caller's store
func (h *CategoryHandler) guardOwnership(c *gin.Context, categoryID uuid.UUID) bool {
	store, err := h.storeService.GetByOwner(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		h.HandleError(c, err)
		return false
	}
	category, err := h.categoryService.Get(c.Request.Context(), categoryID)
	if err != nil {
		h.HandleError(c, err)
		return false
	}
	if category.StoreID != store.ID {
		h.Forbidden(c, "Category belongs to another store")
		return false
	}
	return true
}

// Create handles POST /api/v1/categories
func (h *CategoryHandler) Create(c *gin.Context) {
	var req CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	store, err := h.storeService.GetByOwner(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	category, err := h.categoryService.Create(c.Request.Context(), store.ID, req.Name, req.Description)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, category)
}

// Get handles GET /api/v1/categories/:id
func (h *CategoryHandler) Get(c *gin.Context) {
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	category, err := h.categoryService.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, category)
}

// ListByStore handles GET /api/v1/stores/:id/categories
func (h *CategoryHandler) ListByStore(c *gin.Context) {
	storeID, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}
	req, ok := h.bindListRequest(c)
	if !ok {
		return
	}

	categories, err := h.categoryService.ListByStore(c.Request.Context(), storeID, req.ToFilter())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, categories)
}

// Rename handles PUT /api/v1/categories/:id
func (h *CategoryHandler) Rename(c *gin.Context) {
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}
	if !h.guardOwnership(c, id) {
		return
	}

	var req RenameCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	category, err := h.categoryService.Rename(c.Request.Context(), id, req.Name)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, category)
}

// Delete handles DELETE /api/v1/categories/:id
func (h *CategoryHandler) Delete(c *gin.Context) {
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}
	if !h.guardOwnership(c, id) {
		return
	}

	if err := h.categoryService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
