// Package dbctx carries an active GORM transaction inside a context.Context.
package dbctx

import (
	"context"

	"gorm.io/gorm"
)

type txKey struct{}

// WithTx returns a copy of ctx carrying tx.
func WithTx(ctx context.Context, tx *gorm.DB) context.Context {
	return context.WithValue(ctx, txKey{}, tx)
}

// Tx returns the transaction stored in ctx, bound to ctx, or false when no
// unit of work is active.
func Tx(ctx context.Context) (*gorm.DB, bool) {
	tx, ok := ctx.Value(txKey{}).(*gorm.DB)
	if !ok || tx == nil {
		return nil, false
	}
	return tx.WithContext(ctx), true
}
