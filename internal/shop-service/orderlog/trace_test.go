package orderlog

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/jcmexdev/shop-orders/internal/shop-service/domain"
)

func TestNewEntryWithoutSpan(t *testing.T) {
	e := NewEntry(context.Background(), 42, domain.StatusOrdered, "k-1")

	assert.Equal(t, int64(42), e.OrderID)
	assert.Equal(t, domain.StatusOrdered, e.Status)
	assert.Equal(t, "k-1", e.Note)
	assert.Empty(t, e.TraceID)
	assert.Empty(t, e.SpanID)
	_, err := uuid.Parse(e.EntryID)
	assert.NoError(t, err)
	assert.False(t, e.CreatedAt.IsZero())
}

func TestNewEntryCarriesSpan(t *testing.T) {
	tp := sdktrace.NewTracerProvider()
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	ctx, span := tp.Tracer("test").Start(context.Background(), "cancel")
	defer span.End()

	e := NewEntry(ctx, 1, domain.StatusCancelled, "")
	require.Len(t, e.TraceID, 32)
	require.Len(t, e.SpanID, 16)
	assert.Equal(t, span.SpanContext().TraceID().String(), e.TraceID)
}
