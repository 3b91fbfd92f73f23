// Package orderlog defines the append-only audit trail of order lifecycle
// transitions.
//
// Each row records the status an order moved to together with the
// OpenTelemetry trace that caused it, so a row can be followed straight to
// the request in Tempo/Jaeger.
package orderlog

import (
	"time"

	"github.com/jcmexdev/shop-orders/internal/shop-service/domain"
)

// Entry is a single row in the order_logs table.
type Entry struct {
	// EntryID is a random identifier for the row itself.
	EntryID string

	OrderID int64

	// Status is the order status after the transition.
	Status domain.OrderStatus

	// Note carries extra context, e.g. the idempotency key of a placement.
	Note string

	// TraceID is the W3C trace ID of the span active when the entry was built.
	TraceID string

	// SpanID is the span within the trace.
	SpanID string

	CreatedAt time.Time
}
