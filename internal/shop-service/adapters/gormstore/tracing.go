package gormstore

import (
	"context"
	"errors"
	"sync/atomic"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"
)

const (
	tracerName  = "github.com/jcmexdev/shop-orders/gormstore"
	spanInstKey = "shop:span"
)

// StatementCounter counts SQL statements issued with a context derived from
// the one returned by WithStatementCounter.
type StatementCounter struct {
	n atomic.Int64
}

func (c *StatementCounter) Count() int64 { return c.n.Load() }

type counterKey struct{}

func WithStatementCounter(ctx context.Context) (context.Context, *StatementCounter) {
	c := &StatementCounter{}
	return context.WithValue(ctx, counterKey{}, c), c
}

func counterFrom(ctx context.Context) *StatementCounter {
	if ctx == nil {
		return nil
	}
	c, _ := ctx.Value(counterKey{}).(*StatementCounter)
	return c
}

// Tracing is a GORM plugin that opens one span per statement and feeds any
// StatementCounter found in the statement context.
type Tracing struct {
	tracer trace.Tracer
}

func NewTracing() *Tracing {
	return &Tracing{tracer: otel.Tracer(tracerName)}
}

func (p *Tracing) Name() string { return "shop:tracing" }

func (p *Tracing) Initialize(db *gorm.DB) error {
	cb := db.Callback()
	return errors.Join(
		cb.Create().Before("gorm:create").Register("shop:before_create", p.before("create")),
		cb.Create().After("gorm:create").Register("shop:after_create", p.after),
		cb.Query().Before("gorm:query").Register("shop:before_query", p.before("query")),
		cb.Query().After("gorm:query").Register("shop:after_query", p.after),
		cb.Update().Before("gorm:update").Register("shop:before_update", p.before("update")),
		cb.Update().After("gorm:update").Register("shop:after_update", p.after),
		cb.Delete().Before("gorm:delete").Register("shop:before_delete", p.before("delete")),
		cb.Delete().After("gorm:delete").Register("shop:after_delete", p.after),
		cb.Row().Before("gorm:row").Register("shop:before_row", p.before("row")),
		cb.Row().After("gorm:row").Register("shop:after_row", p.after),
		cb.Raw().Before("gorm:raw").Register("shop:before_raw", p.before("raw")),
		cb.Raw().After("gorm:raw").Register("shop:after_raw", p.after),
	)
}

func (p *Tracing) before(op string) func(*gorm.DB) {
	return func(db *gorm.DB) {
		ctx := db.Statement.Context
		if ctx == nil {
			ctx = context.Background()
		}
		ctx, span := p.tracer.Start(ctx, "gorm."+op,
			trace.WithSpanKind(trace.SpanKindClient),
			trace.WithAttributes(
				attribute.String("db.system", db.Dialector.Name()),
				attribute.String("db.sql.table", db.Statement.Table),
			),
		)
		db.Statement.Context = ctx
		db.InstanceSet(spanInstKey, span)
	}
}

func (p *Tracing) after(db *gorm.DB) {
	if c := counterFrom(db.Statement.Context); c != nil && db.Statement.SQL.Len() > 0 {
		c.n.Add(1)
	}

	v, ok := db.InstanceGet(spanInstKey)
	if !ok {
		return
	}
	span, ok := v.(trace.Span)
	if !ok {
		return
	}
	defer span.End()

	span.SetAttributes(
		attribute.String("db.statement", db.Statement.SQL.String()),
		attribute.Int64("db.rows_affected", db.Statement.RowsAffected),
	)
	if db.Error != nil && !errors.Is(db.Error, gorm.ErrRecordNotFound) {
		span.RecordError(db.Error)
		span.SetStatus(codes.Error, db.Error.Error())
	}
}
