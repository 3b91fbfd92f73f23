package gormstore

import (
	"context"
	"database/sql"
	"fmt"

	"gorm.io/gorm"

	"github.com/jcmexdev/shop-orders/internal/pkg/dbctx"
	"github.com/jcmexdev/shop-orders/internal/shop-service/domain"
	"github.com/jcmexdev/shop-orders/internal/shop-service/ports"
)

var _ ports.UnitOfWork = (*Transactor)(nil)

// Transactor is the unit of work: it begins a transaction, hands it to fn
// through the context and commits when fn returns nil. Any error (or panic)
// rolls everything back.
type Transactor struct {
	db *gorm.DB
}

func NewTransactor(db *gorm.DB) *Transactor {
	return &Transactor{db: db}
}

func (t *Transactor) Within(ctx context.Context, fn func(ctx context.Context) error) error {
	return t.run(ctx, fn)
}

// WithinReadOnly is Within with a read-only transaction where the dialect
// supports it.
func (t *Transactor) WithinReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	if t.db.Dialector.Name() == DriverPostgres {
		return t.run(ctx, fn, &sql.TxOptions{ReadOnly: true})
	}
	return t.run(ctx, fn)
}

func (t *Transactor) run(ctx context.Context, fn func(ctx context.Context) error, opts ...*sql.TxOptions) error {
	// Begin/commit failures are storage failures; errors from fn pass through
	// untouched so callers can match domain sentinels.
	var fnErr error
	err := t.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		fnErr = fn(dbctx.WithTx(ctx, tx))
		return fnErr
	}, opts...)
	if fnErr != nil {
		return fnErr
	}
	if err != nil {
		return domain.NewStorageError("transaction", err)
	}
	return nil
}

// conn returns the active transaction for op or ErrNoUnitOfWork.
func conn(ctx context.Context, op string) (*gorm.DB, error) {
	tx, ok := dbctx.Tx(ctx)
	if !ok {
		return nil, fmt.Errorf("gormstore: %s: %w", op, domain.ErrNoUnitOfWork)
	}
	return tx, nil
}
