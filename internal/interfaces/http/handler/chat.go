package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	chatapp "github.com/storefront/backend/internal/application/chat"
	storeapp "github.com/storefront/backend/internal/application/store"
	"github.com/storefront/backend/internal/domain/identity"
	"github.com/storefront/backend/internal/interfaces/http/middleware"
)

// ChatHandler exposes the store/customer messaging endpoints
type ChatHandler struct {
	BaseHandler
	chatService  *chatapp.ChatService
	storeService *storeapp.StoreService
}

// NewChatHandler creates a new ChatHandler
func NewChatHandler(chatService *chatapp.ChatService, storeService *storeapp.StoreService) *ChatHandler {
	return &ChatHandler{
		chatService:  chatService,
		storeService: storeService,
	}
}

// ThreadQuery identifies one conversation
type ThreadQuery struct {
	StoreID    uuid.UUID `form:"store_id" json:"store_id" binding:"required"`
	CustomerID uuid.UUID `form:"customer_id" json:"customer_id" binding:"required"`
}

// guardThread verifies the caller is one of the two thread parties.
// Writes the error response on denial.
func (h *ChatHandler) guardThread(c *gin.Context, storeID, customerID uuid.UUID) bool {
	userID := middleware.GetUserID(c)
	if middleware.GetUserKind(c) == identity.UserKindCustomer {
		if customerID == userID {
			return true
		}
		h.Forbidden(c, "You are not part of this conversation")
		return false
	}
	store, err := h.storeService.GetByOwner(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return false
	}
	if store.ID != storeID {
		h.Forbidden(c, "You are not part of this conversation")
		return false
	}
	return true
}

// Send handles POST /api/v1/chat/messages
func (h *ChatHandler) Send(c *gin.Context) {
	var req chatapp.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	if !h.guardThread(c, req.StoreID, req.CustomerID) {
		return
	}
	resp, err := h.chatService.Send(c.Request.Context(), middleware.GetUserID(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// History handles GET /api/v1/chat/messages
func (h *ChatHandler) History(c *gin.Context) {
	var tq ThreadQuery
	if err := c.ShouldBindQuery(&tq); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	if !h.guardThread(c, tq.StoreID, tq.CustomerID) {
		return
	}
	req, ok := h.bindListRequest(c)
	if !ok {
		return
	}
	messages, err := h.chatService.History(c.Request.Context(), tq.StoreID, tq.CustomerID, req.ToFilter())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, messages)
}

// Threads handles GET /api/v1/chat/threads, listing the caller's
// conversations with unread counts and presence.
func (h *ChatHandler) Threads(c *gin.Context) {
	userID := middleware.GetUserID(c)
	if middleware.GetUserKind(c) == identity.UserKindCustomer {
		threads, err := h.chatService.ThreadsForCustomer(c.Request.Context(), userID)
		if err != nil {
			h.HandleError(c, err)
			return
		}
		h.Success(c, threads)
		return
	}

	store, err := h.storeService.GetByOwner(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	threads, err := h.chatService.ThreadsForStore(c.Request.Context(), store.ID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, threads)
}

// MarkRead handles POST /api/v1/chat/read
func (h *ChatHandler) MarkRead(c *gin.Context) {
	var tq ThreadQuery
	if err := c.ShouldBindJSON(&tq); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	if !h.guardThread(c, tq.StoreID, tq.CustomerID) {
		return
	}
	readerIsCustomer := middleware.GetUserKind(c) == identity.UserKindCustomer
	if err := h.chatService.MarkRead(c.Request.Context(), tq.StoreID, tq.CustomerID, readerIsCustomer); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// DeleteMessage handles DELETE /api/v1/chat/messages/:id
func (h *ChatHandler) DeleteMessage(c *gin.Context) {
	messageID, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.chatService.DeleteMessage(c.Request.Context(), messageID, middleware.GetUserID(c)); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Heartbeat handles POST /api/v1/chat/heartbeat, refreshing the
// caller's presence lease.
func (h *ChatHandler) Heartbeat(c *gin.Context) {
	if err := h.chatService.Heartbeat(c.Request.Context(), middleware.GetUserID(c)); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Disconnect handles POST /api/v1/chat/disconnect
func (h *ChatHandler) Disconnect(c *gin.Context) {
	if err := h.chatService.Disconnect(c.Request.Context(), middleware.GetUserID(c)); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
