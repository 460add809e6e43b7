package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	catalogapp "github.com/storefront/backend/internal/application/catalog"
	orderapp "github.com/storefront/backend/internal/application/order"
	storeapp "github.com/storefront/backend/internal/application/store"
	"github.com/storefront/backend/internal/domain/identity"
	"github.com/storefront/backend/internal/domain/order"
	"github.com/storefront/backend/internal/interfaces/http/middleware"
)

// OrderHandler exposes order lifecycle endpoints
type OrderHandler struct {
	BaseHandler
	orderService   *orderapp.OrderService
	productService *catalogapp.ProductService
	storeService   *storeapp.StoreService
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(
	orderService *orderapp.OrderService,
	productService *catalogapp.ProductService,
	storeService *storeapp.StoreService,
) *OrderHandler {
	return &OrderHandler{
		orderService:   orderService,
		productService: productService,
		storeService:   storeService,
	}
}

// PlaceOrderLine is one cart line in a place-order request
type PlaceOrderLine struct {
	ProductID uuid.UUID `json:"product_id" binding:"required"`
	Quantity  int       `json:"quantity" binding:"required,min=1"`
}

// PlaceOrderRequest is the request body for placing an order
type PlaceOrderRequest struct {
	Lines           []PlaceOrderLine `json:"lines" binding:"required,min=1,max=100,dive"`
	ShippingAddress string           `json:"shipping_address" binding:"max=500"`
	ShippingCity    string           `json:"shipping_city" binding:"max=100"`
	ShippingCountry string           `json:"shipping_country" binding:"max=100"`
	ShippingZip     string           `json:"shipping_zip" binding:"max=20"`
	ShippingPhone   string           `json:"shipping_phone" binding:"max=30"`
}

// UpdateOrderStatusRequest advances an order along its lifecycle
type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=confirmed shipped delivered"`
}

// Create handles POST /api/v1/orders
func (h *OrderHandler) Create(c *gin.Context) {
	var req PlaceOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	lines := make([]orderapp.CreateOrderLineInput, 0, len(req.Lines))
	for _, l := range req.Lines {
		lines = append(lines, orderapp.CreateOrderLineInput{ProductID: l.ProductID, Quantity: l.Quantity})
	}

	resp, err := h.orderService.Create(c.Request.Context(), orderapp.CreateOrderRequest{
		CustomerID:      middleware.GetUserID(c),
		Lines:           lines,
		ShippingAddress: req.ShippingAddress,
		ShippingCity:    req.ShippingCity,
		ShippingCountry: req.ShippingCountry,
		ShippingZip:     req.ShippingZip,
		ShippingPhone:   req.ShippingPhone,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// Get handles GET /api/v1/orders/:id
func (h *OrderHandler) Get(c *gin.Context) {
	orderID, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}
	resp, err := h.orderService.Get(c.Request.Context(), orderID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if !h.canAccess(c, resp) {
		return
	}
	h.Success(c, resp)
}

// GetByNumber handles GET /api/v1/orders/number/:number
func (h *OrderHandler) GetByNumber(c *gin.Context) {
	resp, err := h.orderService.GetByNumber(c.Request.Context(), c.Param("number"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if !h.canAccess(c, resp) {
		return
	}
	h.Success(c, resp)
}

// ListMine handles GET /api/v1/orders/me
func (h *OrderHandler) ListMine(c *gin.Context) {
	req, ok := h.bindListRequest(c)
	if !ok {
		return
	}
	page, err := h.orderService.ListByCustomer(c.Request.Context(), middleware.GetUserID(c), req.ToFilter())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	Paginated(c, page)
}

// ListForStore handles GET /api/v1/stores/me/orders
func (h *OrderHandler) ListForStore(c *gin.Context) {
	store, err := h.storeService.GetByOwner(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	req, ok := h.bindListRequest(c)
	if !ok {
		return
	}
	page, err := h.orderService.ListByStore(c.Request.Context(), store.ID, req.ToFilter())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	Paginated(c, page)
}

// UpdateStatus handles PATCH /api/v1/orders/:id/status
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	orderID, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}
	var req UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	if !h.guardStoreAccess(c, orderID) {
		return
	}

	resp, err := h.orderService.UpdateStatus(c.Request.Context(), orderID, order.Status(req.Status))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Cancel handles POST /api/v1/orders/:id/cancel
func (h *OrderHandler) Cancel(c *gin.Context) {
	orderID, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}
	existing, err := h.orderService.Get(c.Request.Context(), orderID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if !h.canAccess(c, existing) {
		return
	}

	resp, err := h.orderService.Cancel(c.Request.Context(), orderID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Delete handles DELETE /api/v1/orders/:id
func (h *OrderHandler) Delete(c *gin.Context) {
	orderID, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}
	if !h.guardStoreAccess(c, orderID) {
		return
	}
	if err := h.orderService.Delete(c.Request.Context(), orderID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// canAccess allows the order's customer, or the owner of a store any
// line was sold from. Writes the error response on denial.
func (h *OrderHandler) canAccess(c *gin.Context, resp *orderapp.OrderResponse) bool {
	userID := middleware.GetUserID(c)
	if resp.CustomerID == userID {
		return true
	}
	if middleware.GetUserKind(c) == identity.UserKindStoreOwner && h.ownsLine(c, resp) {
		return true
	}
	h.Forbidden(c, "You do not have access to this order")
	return false
}

// guardStoreAccess restricts an operation to the owner of a store the
// order was placed against.
func (h *OrderHandler) guardStoreAccess(c *gin.Context, orderID uuid.UUID) bool {
	resp, err := h.orderService.Get(c.Request.Context(), orderID)
	if err != nil {
		h.HandleError(c, err)
		return false
	}
	if !h.ownsLine(c, resp) {
		h.Forbidden(c, "Order belongs to another store")
		return false
	}
	return true
}

func (h *OrderHandler) ownsLine(c *gin.Context, resp *orderapp.OrderResponse) bool {
	store, err := h.storeService.GetByOwner(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		return false
	}
	for _, line := range resp.Lines {
		product, err := h.productService.Get(c.Request.Context(), line.ProductID)
		if err != nil {
			continue
		}
		if product.StoreID == store.ID {
			return true
		}
	}
	return false
}
