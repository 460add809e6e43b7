package chat

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/shared"
)

// MessageType classifies a chat message
type MessageType string

const (
	MessageTypeText   MessageType = "text"
	MessageTypeImage  MessageType = "image"
	MessageTypeFile   MessageType = "file"
	MessageTypeSystem MessageType = "system"
)

// IsValid checks if the message type is a known value
func (t MessageType) IsValid() bool {
	switch t {
	case MessageTypeText, MessageTypeImage, MessageTypeFile, MessageTypeSystem:
		return true
	}
	return false
}

// MessageStatus tracks delivery of a message
type MessageStatus string

const (
	MessageStatusSent      MessageStatus = "sent"
	MessageStatusDelivered MessageStatus = "delivered"
	MessageStatusRead      MessageStatus = "read"
)

// Message is one chat message in the thread between a customer and a
// store. The (StoreID, CustomerID) pair identifies the thread; each
// write is its own short transaction, so ordering across concurrent
// senders is whatever the database commits.
type Message struct {
	shared.BaseEntity
	StoreID        uuid.UUID
	CustomerID     uuid.UUID
	SenderID       uuid.UUID
	Type           MessageType
	Content        string
	AttachmentURL  string
	Status         MessageStatus
	IsFromCustomer bool
	ReadAt         *time.Time
	IsDeleted      bool
	DeletedAt      *time.Time
}

// TableName returns the table name for GORM
func (Message) TableName() string {
	return "chat_messages"
}

// NewMessage creates a message in a store/customer thread
func NewMessage(storeID, customerID, senderID uuid.UUID, msgType MessageType, content, attachmentURL string) (*Message, error) {
	if storeID == uuid.Nil || customerID == uuid.Nil || senderID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PARTICIPANT", "Store, customer, and sender IDs are required")
	}
	if !msgType.IsValid() {
		return nil, shared.NewDomainError("INVALID_MESSAGE_TYPE", "Unknown message type")
	}
	content = strings.TrimSpace(content)
	if content == "" && attachmentURL == "" {
		return nil, shared.NewDomainError("INVALID_MESSAGE", "Message must have content or an attachment")
	}
	return &Message{
		BaseEntity:     shared.NewBaseEntity(),
		StoreID:        storeID,
		CustomerID:     customerID,
		SenderID:       senderID,
		Type:           msgType,
		Content:        content,
		AttachmentURL:  attachmentURL,
		Status:         MessageStatusSent,
		IsFromCustomer: senderID == customerID,
	}, nil
}

// MarkRead stamps the message read once; re-reading keeps the first time
func (m *Message) MarkRead() {
	if m.ReadAt == nil {
		now := time.Now()
		m.ReadAt = &now
	}
	m.Status = MessageStatusRead
}

// SoftDelete hides the message without losing the thread history
func (m *Message) SoftDelete() {
	if m.IsDeleted {
		return
	}
	now := time.Now()
	m.IsDeleted = true
	m.DeletedAt = &now
}
