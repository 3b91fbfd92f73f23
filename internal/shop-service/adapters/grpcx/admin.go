// Package grpcx serves the admin gRPC endpoint: the standard health service,
// driven by a periodic database ping.
package grpcx

import (
	"context"
	"log/slog"
	"net"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/jcmexdev/shop-orders/internal/pkg/interceptors"
)

// ServiceName is the health service name reported next to the overall ("")
// status.
const ServiceName = "shop.v1.ShopService"

type Pinger interface {
	Ping(ctx context.Context) error
}

type AdminServer struct {
	server   *grpc.Server
	health   *health.Server
	db       Pinger
	interval time.Duration
}

func NewAdminServer(db Pinger, interval time.Duration) *AdminServer {
	if interval <= 0 {
		interval = 10 * time.Second
	}
	srv := grpc.NewServer(
		grpc.StatsHandler(otelgrpc.NewServerHandler()),
		grpc.ChainUnaryInterceptor(
			interceptors.RequestIDUnaryInterceptor(),
			interceptors.LoggingUnaryInterceptor(),
		),
	)
	hs := health.NewServer()
	healthpb.RegisterHealthServer(srv, hs)

	a := &AdminServer{server: srv, health: hs, db: db, interval: interval}
	a.setStatus(healthpb.HealthCheckResponse_NOT_SERVING)
	return a
}

func (a *AdminServer) Serve(lis net.Listener) error {
	return a.server.Serve(lis)
}

// Watch pings the database every interval and flips the health status until
// ctx is done. The first ping happens immediately.
func (a *AdminServer) Watch(ctx context.Context) {
	ticker := time.NewTicker(a.interval)
	defer ticker.Stop()

	last := healthpb.HealthCheckResponse_UNKNOWN
	for {
		st := healthpb.HealthCheckResponse_SERVING
		if err := a.db.Ping(ctx); err != nil {
			st = healthpb.HealthCheckResponse_NOT_SERVING
			if last != st {
				slog.WarnContext(ctx, "database ping failed", "error", err)
			}
		}
		if st != last {
			a.setStatus(st)
			last = st
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// GracefulStop marks the service NOT_SERVING and drains open calls.
func (a *AdminServer) GracefulStop() {
	a.health.Shutdown()
	a.server.GracefulStop()
}

func (a *AdminServer) setStatus(st healthpb.HealthCheckResponse_ServingStatus) {
	a.health.SetServingStatus("", st)
	a.health.SetServingStatus(ServiceName, st)
}
