package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/jcmexdev/shop-orders/internal/pkg/cache"
	"github.com/jcmexdev/shop-orders/internal/pkg/telemetry"
	"github.com/jcmexdev/shop-orders/internal/shop-service/adapters/gormstore"
	"github.com/jcmexdev/shop-orders/internal/shop-service/adapters/grpcx"
	"github.com/jcmexdev/shop-orders/internal/shop-service/adapters/httpx"
	"github.com/jcmexdev/shop-orders/internal/shop-service/app"
	"github.com/jcmexdev/shop-orders/internal/shop-service/config"
	"github.com/jcmexdev/shop-orders/internal/shop-service/ports"
	"github.com/jcmexdev/shop-orders/internal/shop-service/seed"
)

func main() {
	configPath := flag.String("config", getEnv("SHOP_CONFIG", ""), "path to a YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		telemetry.InitLogger("info")
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	telemetry.InitLogger(cfg.LogLevel)

	if err := run(cfg); err != nil {
		slog.Error("shop service stopped", "error", err)
		os.Exit(1)
	}
}

func run(cfg config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdown, err := telemetry.SetupTracer(ctx, cfg.OTel.ServiceName, cfg.OTel.Exporter, cfg.OTel.Endpoint)
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			slog.Error("tracer shutdown error", "error", err)
		}
	}()

	if cfg.DB.Driver == gormstore.DriverSQLite && !strings.HasPrefix(cfg.DB.DSN, "file:") {
		if err := os.MkdirAll(filepath.Dir(cfg.DB.DSN), 0o755); err != nil {
			return err
		}
	}
	store, err := gormstore.Open(gormstore.Config{
		Driver:        cfg.DB.Driver,
		DSN:           cfg.DB.DSN,
		LogLevel:      cfg.DB.LogLevel,
		SlowThreshold: cfg.DB.SlowThreshold,
	})
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			slog.Error("db close error", "error", err)
		}
	}()

	var idem ports.IdempotencyStore
	if cfg.Redis.Addr != "" {
		rc := cache.NewRedisCache(cfg.Redis.Addr, cfg.OTel.ServiceName)
		defer rc.Close()
		if err := rc.Ping(ctx); err != nil {
			slog.Warn("redis unreachable, idempotency keys will be checked once it answers", "addr", cfg.Redis.Addr, "error", err)
		}
		idem = rc
	} else {
		slog.Info("REDIS_ADDR not set, idempotency keys are ignored")
	}

	uow := gormstore.NewTransactor(store.DB())
	loader := gormstore.NewOrderLoader()
	members := app.NewMemberService(uow, gormstore.NewMemberRepo())
	items := app.NewItemService(uow, gormstore.NewItemRepo(), gormstore.NewCategoryRepo())
	orders := app.NewOrderService(app.OrderServiceDeps{
		UoW:            uow,
		Members:        gormstore.NewMemberRepo(),
		Items:          gormstore.NewItemRepo(),
		Orders:         gormstore.NewOrderRepo(),
		Loader:         loader,
		Log:            gormstore.NewOrderLogRepo(),
		Idempotency:    idem,
		IdempotencyTTL: cfg.Redis.IdempotencyTTL,
	})
	queries := app.NewOrderQueryService(uow, loader)

	if cfg.SeedSampleData {
		if err := seed.Load(ctx, members, items, orders); err != nil {
			return err
		}
	}

	httpSrv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           httpx.NewRouter(httpx.NewHandler(members, items, orders, queries, store), cfg.OTel.ServiceName),
		ReadHeaderTimeout: 5 * time.Second,
	}

	admin := grpcx.NewAdminServer(store, cfg.DB.PingInterval)
	go admin.Watch(ctx)

	errCh := make(chan error, 2)
	go func() {
		slog.Info("shop service HTTP running", "addr", cfg.HTTPAddr)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()
	if cfg.GRPCAddr != "" {
		lis, err := net.Listen("tcp", cfg.GRPCAddr)
		if err != nil {
			return err
		}
		go func() {
			slog.Info("shop service admin gRPC running", "addr", cfg.GRPCAddr)
			if err := admin.Serve(lis); err != nil {
				errCh <- err
			}
		}()
	}

	select {
	case <-ctx.Done():
		slog.Info("shutting down")
	case err = <-errCh:
		slog.Error("server failed", "error", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	admin.GracefulStop()
	if shutdownErr := httpSrv.Shutdown(shutdownCtx); shutdownErr != nil {
		slog.Error("http shutdown error", "error", shutdownErr)
	}
	return err
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
