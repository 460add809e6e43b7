package handler

import (
	"github.com/gin-gonic/gin"
	reviewapp "github.com/storefront/backend/internal/application/review"
	"github.com/storefront/backend/internal/interfaces/http/middleware"
)

// ReviewHandler exposes product review endpoints
type ReviewHandler struct {
	BaseHandler
	reviewService *reviewapp.ReviewService
}

// NewReviewHandler creates a new ReviewHandler
func NewReviewHandler(reviewService *reviewapp.ReviewService) *ReviewHandler {
	return &ReviewHandler{reviewService: reviewService}
}

// Create handles POST /api/v1/reviews
func (h *ReviewHandler) Create(c *gin.Context) {
	var req reviewapp.CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	resp, err := h.reviewService.Create(c.Request.Context(), middleware.GetUserID(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// Get handles GET /api/v1/reviews/:id
func (h *ReviewHandler) Get(c *gin.Context) {
	reviewID, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}
	resp, err := h.reviewService.Get(c.Request.Context(), reviewID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// ListByProduct handles GET /api/v1/products/:id/reviews
func (h *ReviewHandler) ListByProduct(c *gin.Context) {
	productID, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}
	req, ok := h.bindListRequest(c)
	if !ok {
		return
	}
	page, err := h.reviewService.ListByProduct(c.Request.Context(), productID, req.ToFilter())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	Paginated(c, page)
}

// Summary handles GET /api/v1/products/:id/reviews/summary
func (h *ReviewHandler) Summary(c *gin.Context) {
	productID, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}
	summary, err := h.reviewService.Summary(c.Request.Context(), productID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, summary)
}

// Update handles PUT /api/v1/reviews/:id
func (h *ReviewHandler) Update(c *gin.Context) {
	reviewID, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}
	var req reviewapp.UpdateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	resp, err := h.reviewService.Update(c.Request.Context(), reviewID, middleware.GetUserID(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Delete handles DELETE /api/v1/reviews/:id
func (h *ReviewHandler) Delete(c *gin.Context) {
	reviewID, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.reviewService.Delete(c.Request.Context(), reviewID, middleware.GetUserID(c)); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
