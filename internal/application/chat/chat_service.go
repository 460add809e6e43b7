package chat

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/chat"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/store"
	"go.uber.org/zap"
)

// SendMessageRequest contains the input for sending a chat message
type SendMessageRequest struct {
	StoreID       uuid.UUID `json:"store_id" binding:"required"`
	CustomerID    uuid.UUID `json:"customer_id" binding:"required"`
	Type          string    `json:"type" binding:"required,oneof=text image file system"`
	Content       string    `json:"content" binding:"max=4000"`
	AttachmentURL string    `json:"attachment_url" binding:"omitempty,url"`
}

// MessageResponse is the client representation of a chat message
type MessageResponse struct {
	ID             uuid.UUID  `json:"id"`
	StoreID        uuid.UUID  `json:"store_id"`
	CustomerID     uuid.UUID  `json:"customer_id"`
	SenderID       uuid.UUID  `json:"sender_id"`
	Type           string     `json:"type"`
	Content        string     `json:"content"`
	AttachmentURL  string     `json:"attachment_url,omitempty"`
	Status         string     `json:"status"`
	IsFromCustomer bool       `json:"is_from_customer"`
	ReadAt         *time.Time `json:"read_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}

// ToMessageResponse maps a message to its client representation
func ToMessageResponse(m *chat.Message) MessageResponse {
	return MessageResponse{
		ID:             m.ID,
		StoreID:        m.StoreID,
		CustomerID:     m.CustomerID,
		SenderID:       m.SenderID,
		Type:           string(m.Type),
		Content:        m.Content,
		AttachmentURL:  m.AttachmentURL,
		Status:         string(m.Status),
		IsFromCustomer: m.IsFromCustomer,
		ReadAt:         m.ReadAt,
		CreatedAt:      m.CreatedAt,
	}
}

// ThreadResponse summarizes one conversation, including whether the
// counterparty currently has a chat session open.
type ThreadResponse struct {
	StoreID       uuid.UUID `json:"store_id"`
	CustomerID    uuid.UUID `json:"customer_id"`
	LastMessageAt time.Time `json:"last_message_at"`
	UnreadCount   int64     `json:"unread_count"`
	PartnerOnline bool      `json:"partner_online"`
}

// ChatService handles store/customer messaging
type ChatService struct {
	messageRepo chat.MessageRepository
	storeRepo   store.StoreRepository
	presence    chat.PresenceRegistry
	presenceTTL time.Duration
	logger      *zap.Logger
}

// NewChatService creates a new ChatService
func NewChatService(
	messageRepo chat.MessageRepository,
	storeRepo store.StoreRepository,
	presence chat.PresenceRegistry,
	presenceTTL time.Duration,
	logger *zap.Logger,
) *ChatService {
	return &ChatService{
		messageRepo: messageRepo,
		storeRepo:   storeRepo,
		presence:    presence,
		presenceTTL: presenceTTL,
		logger:      logger,
	}
}

// Send posts a message into a store/customer thread. The sender must
// be the customer of the thread or the store's owner.
func (s *ChatService) Send(ctx context.Context, senderID uuid.UUID, req SendMessageRequest) (*MessageResponse, error) {
	st, err := s.storeRepo.FindByID(ctx, req.StoreID)
	if err != nil {
		return nil, err
	}
	if senderID != req.CustomerID && !st.IsOwnedBy(senderID) {
		return nil, shared.NewDomainError("FORBIDDEN", "Sender is not a participant of this conversation")
	}

	m, err := chat.NewMessage(req.StoreID, req.CustomerID, senderID, chat.MessageType(req.Type), req.Content, req.AttachmentURL)
	if err != nil {
		return nil, err
	}
	if err := s.messageRepo.Save(ctx, m); err != nil {
		return nil, err
	}

	s.logger.Debug("chat message sent",
		zap.String("message_id", m.ID.String()),
		zap.String("store_id", req.StoreID.String()),
		zap.Bool("from_customer", m.IsFromCustomer))

	resp := ToMessageResponse(m)
	return &resp, nil
}

// History returns a thread's messages, newest first
func (s *ChatService) History(ctx context.Context, storeID, customerID uuid.UUID, filter shared.Filter) ([]MessageResponse, error) {
	messages, err := s.messageRepo.FindThread(ctx, storeID, customerID, filter)
	if err != nil {
		return nil, err
	}
	out := make([]MessageResponse, 0, len(messages))
	for i := range messages {
		out = append(out, ToMessageResponse(&messages[i]))
	}
	return out, nil
}

// ThreadsForStore lists a store's conversations
func (s *ChatService) ThreadsForStore(ctx context.Context, storeID uuid.UUID) ([]ThreadResponse, error) {
	threads, err := s.messageRepo.FindThreadsForStore(ctx, storeID)
	if err != nil {
		return nil, err
	}
	out := make([]ThreadResponse, 0, len(threads))
	for _, th := range threads {
		out = append(out, ThreadResponse{
			StoreID:       th.StoreID,
			CustomerID:    th.CustomerID,
			LastMessageAt: th.LastMessageAt,
			UnreadCount:   th.UnreadCount,
			PartnerOnline: s.isOnline(ctx, th.CustomerID),
		})
	}
	return out, nil
}

// ThreadsForCustomer lists a customer's conversations
func (s *ChatService) ThreadsForCustomer(ctx context.Context, customerID uuid.UUID) ([]ThreadResponse, error) {
	threads, err := s.messageRepo.FindThreadsForCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}
	out := make([]ThreadResponse, 0, len(threads))
	for _, th := range threads {
		partnerOnline := false
		if st, err := s.storeRepo.FindByID(ctx, th.StoreID); err == nil {
			partnerOnline = s.isOnline(ctx, st.OwnerID)
		}
		out = append(out, ThreadResponse{
			StoreID:       th.StoreID,
			CustomerID:    th.CustomerID,
			LastMessageAt: th.LastMessageAt,
			UnreadCount:   th.UnreadCount,
			PartnerOnline: partnerOnline,
		})
	}
	return out, nil
}

// MarkRead marks the counterparty's messages in a thread as read.
// readerIsCustomer selects which side's messages get marked.
func (s *ChatService) MarkRead(ctx context.Context, storeID, customerID uuid.UUID, readerIsCustomer bool) error {
	// A customer reading the thread consumes the store's messages and
	// vice versa.
	return s.messageRepo.MarkThreadRead(ctx, storeID, customerID, !readerIsCustomer)
}

// DeleteMessage soft-deletes a message. Only the sender may delete.
func (s *ChatService) DeleteMessage(ctx context.Context, id, actorID uuid.UUID) error {
	m, err := s.messageRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if m.SenderID != actorID {
		return shared.NewDomainError("FORBIDDEN", "Only the sender can delete a message")
	}
	m.SoftDelete()
	return s.messageRepo.Save(ctx, m)
}

// Heartbeat refreshes the caller's presence entry
func (s *ChatService) Heartbeat(ctx context.Context, userID uuid.UUID) error {
	if s.presence == nil {
		return nil
	}
	return s.presence.SetOnline(ctx, userID, s.presenceTTL)
}

// Disconnect drops the caller's presence entry
func (s *ChatService) Disconnect(ctx context.Context, userID uuid.UUID) error {
	if s.presence == nil {
		return nil
	}
	return s.presence.SetOffline(ctx, userID)
}

func (s *ChatService) isOnline(ctx context.Context, userID uuid.UUID) bool {
	if s.presence == nil {
		return false
	}
	online, err := s.presence.IsOnline(ctx, userID)
	if err != nil {
		s.logger.Warn("presence lookup failed", zap.Error(err))
		return false
	}
	return online
}
