package repositories

import (
	"context"

	"gorm.io/gorm"

	"github.com/tungtase04539/sangtaophaisinh/pkg/contextkeys"
)

// Transactor hands out the *gorm.DB for a request and runs units of work.
// Inside WithinTransaction the context carries the open transaction, so
// every DB(ctx) call made with that context joins it.
type Transactor interface {
	DB(ctx context.Context) *gorm.DB
	WithinTransaction(ctx context.Context, fn func(txCtx context.Context) error) error
}

type GormTransactor struct {
	db *gorm.DB
}

func NewGormTransactor(db *gorm.DB) *GormTransactor {
	return &GormTransactor{db: db}
}

func (t *GormTransactor) DB(ctx context.Context) *gorm.DB {
	if tx, ok := ctx.Value(contextkeys.DBContextKey).(*gorm.DB); ok && tx != nil {
		return tx
	}
	return t.db.WithContext(ctx)
}

// WithinTransaction commits when fn returns nil and rolls back otherwise.
// Nested calls reuse the outer transaction through a savepoint.
func (t *GormTransactor) WithinTransaction(ctx context.Context, fn func(txCtx context.Context) error) error {
	return t.DB(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, contextkeys.DBContextKey, tx))
	})
}
