package orderlog

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"

	"github.com/jcmexdev/shop-orders/internal/shop-service/domain"
)

// TraceInfo holds the OTel identifiers extracted from a context.
type TraceInfo struct {
	TraceID string
	SpanID  string
}

// ExtractTraceInfo reads the active span from ctx. Both fields are empty when
// ctx carries no valid span (e.g. in unit tests).
func ExtractTraceInfo(ctx context.Context) TraceInfo {
	sc := trace.SpanFromContext(ctx).SpanContext()
	if !sc.IsValid() {
		return TraceInfo{}
	}
	return TraceInfo{
		TraceID: sc.TraceID().String(),
		SpanID:  sc.SpanID().String(),
	}
}

// NewEntry builds an entry for orderID with the trace info taken from ctx.
//
//	entry := orderlog.NewEntry(ctx, order.ID, domain.StatusCancelled, "")
//	err := repo.Save(ctx, entry)
func NewEntry(ctx context.Context, orderID int64, status domain.OrderStatus, note string) *Entry {
	ti := ExtractTraceInfo(ctx)
	return &Entry{
		EntryID:   uuid.NewString(),
		OrderID:   orderID,
		Status:    status,
		Note:      note,
		TraceID:   ti.TraceID,
		SpanID:    ti.SpanID,
		CreatedAt: time.Now().UTC(),
	}
}
