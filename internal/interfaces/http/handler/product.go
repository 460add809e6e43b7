package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	catalogapp "github.com/storefront/backend/internal/application/catalog"
	storeapp "github.com/storefront/backend/internal/application/store"
	"github.com/storefront/backend/internal/interfaces/http/middleware"
)

// maxImageUploadBytes caps product image uploads at 10 MiB
const maxImageUploadBytes = 10 << 20

// ProductHandler exposes product catalog endpoints
type ProductHandler struct {
	BaseHandler
	productService *catalogapp.ProductService
	storeService   *storeapp.StoreService
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(productService *catalogapp.ProductService, storeService *storeapp.StoreService) *ProductHandler {
	return &ProductHandler{
		productService: productService,
		storeService:   storeService,
	}
}

// SetTagsRequest replaces a product's tag set
type SetTagsRequest struct {
	Tags []string `json:"tags" binding:"required,max=20,dive,min=1,max=50"`
}

// ownStoreID resolves the calling owner's store, responding on failure
func (h *ProductHandler) ownStoreID(c *gin.Context) (uuid.UUID, bool) {
	store, err := h.storeService.GetByOwner(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		h.HandleError(c, err)
		return uuid.Nil, false
	}
	return store.ID, true
}

// guardOwnership checks the product belongs to the caller's store
func (h *ProductHandler) guardOwnership(c *gin.Context, productID uuid.UUID) bool {
	storeID, ok := h.ownStoreID(c)
	if !ok {
		return false
	}
	product, err := h.productService.Get(c.Request.Context(), productID)
	if err != nil {
		h.HandleError(c, err)
		return false
	}
	if product.StoreID != storeID {
		h.Forbidden(c, "Product belongs to another store")
		return false
	}
	return true
}

// Create handles POST /api/v1/products
func (h *ProductHandler) Create(c *gin.Context) {
	var req catalogapp.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	// Products are always listed under the caller's own store.
	storeID, ok := h.ownStoreID(c)
	if !ok {
		return
	}
	req.StoreID = storeID

	product, err := h.productService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, product)
}

// Get handles GET /api/v1/products/:id
func (h *ProductHandler) Get(c *gin.Context) {
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	product, err := h.productService.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, product)
}

// List handles GET /api/v1/products
func (h *ProductHandler) List(c *gin.Context) {
	req, ok := h.bindListRequest(c)
	if !ok {
		return
	}

	page, err := h.productService.List(c.Request.Context(), req.ToFilter())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	Paginated(c, page)
}

// ListByStore handles GET /api/v1/stores/:id/products
func (h *ProductHandler) ListByStore(c *gin.Context) {
	storeID, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}
	req, ok := h.bindListRequest(c)
	if !ok {
		return
	}

	page, err := h.productService.ListByStore(c.Request.Context(), storeID, req.ToFilter())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	Paginated(c, page)
}

// Update handles PUT /api/v1/products/:id
func (h *ProductHandler) Update(c *gin.Context) {
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}
	if !h.guardOwnership(c, id) {
		return
	}

	var req catalogapp.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	product, err := h.productService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, product)
}

// Delete handles DELETE /api/v1/products/:id
func (h *ProductHandler) Delete(c *gin.Context) {
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}
	if !h.guardOwnership(c, id) {
		return
	}

	if err := h.productService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// SetTags handles PUT /api/v1/products/:id/tags
func (h *ProductHandler) SetTags(c *gin.Context) {
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}
	if !h.guardOwnership(c, id) {
		return
	}

	var req SetTagsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	product, err := h.productService.SetTags(c.Request.Context(), id, req.Tags)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, product)
}

// UploadImage handles POST /api/v1/products/:id/images
func (h *ProductHandler) UploadImage(c *gin.Context) {
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}
	if !h.guardOwnership(c, id) {
		return
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		h.BadRequest(c, "Multipart field 'image' is required")
		return
	}
	if fileHeader.Size > maxImageUploadBytes {
		h.BadRequest(c, "Image exceeds the 10 MiB limit")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.BadRequest(c, "Cannot read uploaded file")
		return
	}
	defer file.Close()

	contentType := fileHeader.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	product, err := h.productService.UploadImage(c.Request.Context(), id, fileHeader.Filename, contentType, file)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, product)
}

// DeleteImage handles DELETE /api/v1/products/:id/images
func (h *ProductHandler) DeleteImage(c *gin.Context) {
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}
	if !h.guardOwnership(c, id) {
		return
	}

	url := c.Query("url")
	if url == "" {
		h.BadRequest(c, "Query parameter 'url' is required")
		return
	}

	product, err := h.productService.DeleteImage(c.Request.Context(), id, url)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, product)
}
