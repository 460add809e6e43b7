package persistence

import (
	"context"
	"fmt"

	"github.com/storefront/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormUnitOfWork runs callbacks inside a database transaction. The
// *gorm.DB transaction handle travels as the opaque shared.Tx;
// repositories rebind to it through WithTx.
type GormUnitOfWork struct {
	db *gorm.DB
}

// NewGormUnitOfWork creates a new GormUnitOfWork
func NewGormUnitOfWork(db *gorm.DB) *GormUnitOfWork {
	return &GormUnitOfWork{db: db}
}

// WithinTx starts a transaction and runs fn inside it
func (u *GormUnitOfWork) WithinTx(ctx context.Context, fn func(tx shared.Tx) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(tx)
	})
}

// txDB unwraps a shared.Tx back into a *gorm.DB, falling back to the
// repository's own connection when no transaction is in flight.
func txDB(tx shared.Tx, fallback *gorm.DB) *gorm.DB {
	if tx == nil {
		return fallback
	}
	db, ok := tx.(*gorm.DB)
	if !ok {
		panic(fmt.Sprintf("unexpected transaction handle type %T", tx))
	}
	return db
}
