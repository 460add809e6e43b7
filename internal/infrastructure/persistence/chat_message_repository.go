package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/chat"
	"github.com/storefront/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormMessageRepository implements chat.MessageRepository using GORM
type GormMessageRepository struct {
	db *gorm.DB
}

// NewGormMessageRepository creates a new GormMessageRepository
func NewGormMessageRepository(db *gorm.DB) *GormMessageRepository {
	return &GormMessageRepository{db: db}
}

// FindByID finds a message by ID
func (r *GormMessageRepository) FindByID(ctx context.Context, id uuid.UUID) (*chat.Message, error) {
	var m chat.Message
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &m, nil
}

// FindThread returns the non-deleted messages of one store/customer
// thread, newest first.
func (r *GormMessageRepository) FindThread(ctx context.Context, storeID, customerID uuid.UUID, filter shared.Filter) ([]chat.Message, error) {
	var messages []chat.Message
	query := r.db.WithContext(ctx).
		Model(&chat.Message{}).
		Where("store_id = ? AND customer_id = ? AND is_deleted = ?", storeID, customerID, false).
		Order("created_at DESC")
	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset((filter.Page - 1) * filter.PageSize).Limit(filter.PageSize)
	}
	if err := query.Find(&messages).Error; err != nil {
		return nil, err
	}
	return messages, nil
}

// FindThreadsForStore lists the store's conversations with last activity
// and the count of unread customer messages.
func (r *GormMessageRepository) FindThreadsForStore(ctx context.Context, storeID uuid.UUID) ([]chat.Thread, error) {
	var threads []chat.Thread
	err := r.db.WithContext(ctx).
		Model(&chat.Message{}).
		Select(`store_id, customer_id,
			MAX(created_at) AS last_message_at,
			SUM(CASE WHEN is_from_customer AND read_at IS NULL THEN 1 ELSE 0 END) AS unread_count`).
		Where("store_id = ? AND is_deleted = ?", storeID, false).
		Group("store_id, customer_id").
		Order("last_message_at DESC").
		Scan(&threads).Error
	if err != nil {
		return nil, err
	}
	return threads, nil
}

// FindThreadsForCustomer lists the customer's conversations with last
// activity and the count of unread store messages.
func (r *GormMessageRepository) FindThreadsForCustomer(ctx context.Context, customerID uuid.UUID) ([]chat.Thread, error) {
	var threads []chat.Thread
	err := r.db.WithContext(ctx).
		Model(&chat.Message{}).
		Select(`store_id, customer_id,
			MAX(created_at) AS last_message_at,
			SUM(CASE WHEN NOT is_from_customer AND read_at IS NULL THEN 1 ELSE 0 END) AS unread_count`).
		Where("customer_id = ? AND is_deleted = ?", customerID, false).
		Group("store_id, customer_id").
		Order("last_message_at DESC").
		Scan(&threads).Error
	if err != nil {
		return nil, err
	}
	return threads, nil
}

// MarkThreadRead marks the counterparty's unread messages in the thread
// as read.
func (r *GormMessageRepository) MarkThreadRead(ctx context.Context, storeID, customerID uuid.UUID, fromCustomer bool) error {
	now := time.Now()
	return r.db.WithContext(ctx).
		Model(&chat.Message{}).
		Where("store_id = ? AND customer_id = ? AND is_from_customer = ? AND read_at IS NULL", storeID, customerID, fromCustomer).
		Updates(map[string]interface{}{
			"read_at": now,
			"status":  chat.MessageStatusRead,
		}).Error
}

// Save creates or updates a message
func (r *GormMessageRepository) Save(ctx context.Context, m *chat.Message) error {
	return r.db.WithContext(ctx).Save(m).Error
}

// Delete removes a message row entirely
func (r *GormMessageRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&chat.Message{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}
