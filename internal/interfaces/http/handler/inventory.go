package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	catalogapp "github.com/storefront/backend/internal/application/catalog"
	inventoryapp "github.com/storefront/backend/internal/application/inventory"
	storeapp "github.com/storefront/backend/internal/application/store"
	"github.com/storefront/backend/internal/domain/inventory"
	"github.com/storefront/backend/internal/interfaces/http/middleware"
)

// InventoryHandler exposes stock adjustment and ledger endpoints
type InventoryHandler struct {
	BaseHandler
	stockService   *inventoryapp.StockService
	productService *catalogapp.ProductService
	storeService   *storeapp.StoreService
}

// NewInventoryHandler creates a new InventoryHandler
func NewInventoryHandler(
	stockService *inventoryapp.StockService,
	productService *catalogapp.ProductService,
	storeService *storeapp.StoreService,
) *InventoryHandler {
	return &InventoryHandler{
		stockService:   stockService,
		productService: productService,
		storeService:   storeService,
	}
}

// AdjustStockRequest is a manual stock adjustment
type AdjustStockRequest struct {
	Op     string `json:"op" binding:"required,oneof=set add subtract"`
	Amount int    `json:"amount" binding:"min=0"`
}

// guardOwnership checks the product belongs to the caller's store
func (h *InventoryHandler) guardOwnership(c *gin.Context, productID uuid.UUID) bool {
	store, err := h.storeService.GetByOwner(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		h.HandleError(c, err)
		return false
	}
	product, err := h.productService.Get(c.Request.Context(), productID)
	if err != nil {
		h.HandleError(c, err)
		return false
	}
	if product.StoreID != store.ID {
		h.Forbidden(c, "Product belongs to another store")
		return false
	}
	return true
}

// Adjust handles POST /api/v1/products/:id/stock
func (h *InventoryHandler) Adjust(c *gin.Context) {
	productID, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}
	if !h.guardOwnership(c, productID) {
		return
	}

	var req AdjustStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	product, err := h.stockService.Adjust(c.Request.Context(), productID, inventory.Op(req.Op), req.Amount)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, catalogapp.ToProductResponse(product))
}

// Movements handles GET /api/v1/products/:id/stock/movements
func (h *InventoryHandler) Movements(c *gin.Context) {
	productID, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}
	if !h.guardOwnership(c, productID) {
		return
	}
	req, ok := h.bindListRequest(c)
	if !ok {
		return
	}

	page, err := h.stockService.Movements(c.Request.Context(), productID, req.ToFilter())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	Paginated(c, page)
}
