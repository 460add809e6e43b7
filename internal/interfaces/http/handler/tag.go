package handler

import (
	"github.com/gin-gonic/gin"
	catalogapp "github.com/storefront/backend/internal/application/catalog"
)

// TagHandler exposes the shared tag catalog
type TagHandler struct {
	BaseHandler
	tagService *catalogapp.TagService
}

// NewTagHandler creates a new TagHandler
func NewTagHandler(tagService *catalogapp.TagService) *TagHandler {
	return &TagHandler{tagService: tagService}
}

// CreateTagRequest is the tag creation payload
type CreateTagRequest struct {
	Name string `json:"name" binding:"required,min=1,max=50"`
}

// Create handles POST /api/v1/tags. Creating an existing tag returns
// the existing one; names are normalized to lower case.
func (h *TagHandler) Create(c *gin.Context) {
	var req CreateTagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	tag, err := h.tagService.Create(c.Request.Context(), req.Name)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, tag)
}

// Get handles GET /api/v1/tags/:id
func (h *TagHandler) Get(c *gin.Context) {
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	tag, err := h.tagService.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, tag)
}

// List handles GET /api/v1/tags
func (h *TagHandler) List(c *gin.Context) {
	req, ok := h.bindListRequest(c)
	if !ok {
		return
	}

	tags, err := h.tagService.List(c.Request.Context(), req.ToFilter())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, tags)
}

// Delete handles DELETE /api/v1/tags/:id
func (h *TagHandler) Delete(c *gin.Context) {
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.tagService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
