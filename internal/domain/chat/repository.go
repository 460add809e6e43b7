package chat

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/shared"
)

// Thread summarizes one customer's conversation with a store
type Thread struct {
	StoreID       uuid.UUID `json:"store_id"`
	CustomerID    uuid.UUID `json:"customer_id"`
	LastMessageAt time.Time `json:"last_message_at"`
	UnreadCount   int64     `json:"unread_count"`
}

// MessageRepository defines persistence operations for chat messages
type MessageRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Message, error)
	// FindThread returns the non-deleted messages of one store/customer
	// thread, newest first.
	FindThread(ctx context.Context, storeID, customerID uuid.UUID, filter shared.Filter) ([]Message, error)
	// FindThreadsForStore lists the store's conversations with the last
	// activity and unread counts.
	FindThreadsForStore(ctx context.Context, storeID uuid.UUID) ([]Thread, error)
	FindThreadsForCustomer(ctx context.Context, customerID uuid.UUID) ([]Thread, error)
	// MarkThreadRead marks the counterparty's messages as read
	MarkThreadRead(ctx context.Context, storeID, customerID uuid.UUID, fromCustomer bool) error
	Save(ctx context.Context, m *Message) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// PresenceRegistry tracks which participants currently have an open
// chat session. Entries expire on their own when not refreshed.
type PresenceRegistry interface {
	SetOnline(ctx context.Context, userID uuid.UUID, ttl time.Duration) error
	SetOffline(ctx context.Context, userID uuid.UUID) error
	IsOnline(ctx context.Context, userID uuid.UUID) (bool, error)
}
