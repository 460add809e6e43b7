package handler

import (
	"github.com/gin-gonic/gin"
	storeapp "github.com/storefront/backend/internal/application/store"
	"github.com/storefront/backend/internal/interfaces/http/middleware"
)

// StoreHandler exposes storefront management endpoints
type StoreHandler struct {
	BaseHandler
	storeService *storeapp.StoreService
}

// NewStoreHandler creates a new StoreHandler
func NewStoreHandler(storeService *storeapp.StoreService) *StoreHandler {
	return &StoreHandler{storeService: storeService}
}

// Create handles POST /api/v1/stores
func (h *StoreHandler) Create(c *gin.Context) {
	var req storeapp.CreateStoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	store, err := h.storeService.Create(c.Request.Context(), middleware.GetUserID(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, store)
}

// Get handles GET /api/v1/stores/:id
func (h *StoreHandler) Get(c *gin.Context) {
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	store, err := h.storeService.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, store)
}

// GetMine handles GET /api/v1/stores/me
func (h *StoreHandler) GetMine(c *gin.Context) {
	store, err := h.storeService.GetByOwner(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, store)
}

// List handles GET /api/v1/stores
func (h *StoreHandler) List(c *gin.Context) {
	req, ok := h.bindListRequest(c)
	if !ok {
		return
	}

	page, err := h.storeService.List(c.Request.Context(), req.ToFilter())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	Paginated(c, page)
}

// Update handles PUT /api/v1/stores/:id
func (h *StoreHandler) Update(c *gin.Context) {
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req storeapp.UpdateStoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	store, err := h.storeService.Update(c.Request.Context(), id, middleware.GetUserID(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, store)
}

// Statistics handles GET /api/v1/stores/me/statistics
func (h *StoreHandler) Statistics(c *gin.Context) {
	store, err := h.storeService.GetByOwner(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	stats, err := h.storeService.Statistics(c.Request.Context(), store.ID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, stats)
}
