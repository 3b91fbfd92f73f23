package interceptors

import (
	"context"

	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"

	"github.com/jcmexdev/shop-orders/internal/pkg/interceptors/constants"
)

// RequestIDUnaryInterceptor copies x-request-id from the incoming metadata
// into the context, generating one when the caller sent none, and returns it
// in the response header.
func RequestIDUnaryInterceptor() grpc.UnaryServerInterceptor {
	return func(
		ctx context.Context,
		req interface{},
		info *grpc.UnaryServerInfo,
		handler grpc.UnaryHandler,
	) (interface{}, error) {
		requestID := GetMetadataValue(ctx, constants.HeaderXRequestId)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		_ = grpc.SetHeader(ctx, metadata.Pairs(constants.HeaderXRequestId, requestID))

		newCtx := context.WithValue(ctx, constants.ContextKeyRequestID, requestID)
		return handler(newCtx, req)
	}
}

// RequestID returns the id stored by RequestIDUnaryInterceptor, or "".
func RequestID(ctx context.Context) string {
	v, _ := ctx.Value(constants.ContextKeyRequestID).(string)
	return v
}

// GetMetadataValue looks key up in the context values first, then in the
// incoming and outgoing gRPC metadata.
func GetMetadataValue(ctx context.Context, key string) string {
	if v, ok := ctx.Value(key).(string); ok {
		return v
	}

	if md, ok := metadata.FromIncomingContext(ctx); ok {
		if vals := md.Get(key); len(vals) > 0 {
			return vals[0]
		}
	}

	if md, ok := metadata.FromOutgoingContext(ctx); ok {
		if vals := md.Get(key); len(vals) > 0 {
			return vals[0]
		}
	}
	return ""
}
