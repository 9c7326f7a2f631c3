package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"google.golang.org/grpc"
	"gorm.io/gorm"

	cacheadapter "github.com/veeraceo-pixel/cashback/internal/adapters/cache"
	eventadapter "github.com/veeraceo-pixel/cashback/internal/adapters/events"
	grpcadapter "github.com/veeraceo-pixel/cashback/internal/adapters/grpc"
	httpadapter "github.com/veeraceo-pixel/cashback/internal/adapters/http"
	"github.com/veeraceo-pixel/cashback/internal/adapters/networks"
	"github.com/veeraceo-pixel/cashback/internal/adapters/postgres"
	"github.com/veeraceo-pixel/cashback/internal/adapters/security"
	"github.com/veeraceo-pixel/cashback/internal/application"
	"github.com/veeraceo-pixel/cashback/internal/domain"
	"github.com/veeraceo-pixel/cashback/internal/ports"
)

type Runtime struct {
	cfg        Config
	logger     *slog.Logger
	db         *gorm.DB
	httpServer *http.Server
	grpcServer *grpc.Server
	outbox     *eventadapter.OutboxWorker
	scheduler  *eventadapter.SyncScheduler
	cleanupFn  func(context.Context)
}

// NewRuntime loads configuration and wires every adapter. Listeners are opened
// lazily by RunAPI so the worker and CLI can share the same wiring.
func NewRuntime(ctx context.Context, configPath string) (*Runtime, error) {
	cfg, err := LoadConfig(configPath)
	if err != nil {
		return nil, err
	}

	logger := NewLogger(os.Stdout, cfg)
	slog.SetDefault(logger)
	logger.Info("bootstrapping cashback reconciler", "http_port", cfg.HTTPPort, "grpc_port", cfg.GRPCPort)

	db, err := postgres.Connect(ctx, cfg.DatabaseURL, cfg.MaxDBConns)
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("gorm sql db: %w", err)
	}

	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisClient, err = cacheadapter.Connect(ctx, cfg.RedisURL)
		if err != nil {
			_ = sqlDB.Close()
			return nil, err
		}
		if err := redisClient.Ping(ctx).Err(); err != nil {
			_ = sqlDB.Close()
			_ = redisClient.Close()
			return nil, fmt.Errorf("connect redis: %w", err)
		}
	} else {
		logger.Warn("REDIS_URL not set; admin flags are read from postgres and sync runs are not locked")
	}

	repos := postgres.NewRepositories(db)
	admins := repos.Users
	var syncLock ports.SyncLock
	if redisClient != nil {
		admins = cacheadapter.NewRedisAdminDirectory(redisClient, repos.Users, cfg.AdminCacheTTL, logger)
		syncLock = cacheadapter.NewRedisSyncLock(redisClient)
	}

	var identity ports.IdentityVerifier
	if cfg.SupabaseSecret != "" {
		verifier, err := security.NewSupabaseTokenVerifier(cfg.SupabaseSecret, cfg.SupabaseIssuer)
		if err != nil {
			_ = sqlDB.Close()
			return nil, fmt.Errorf("init token verifier: %w", err)
		}
		identity = verifier
	} else {
		logger.Warn("SUPABASE_JWT_SECRET not set; user and admin routes will reject every request")
	}

	endpoints := make(map[domain.NetworkKind]networks.Endpoint, len(cfg.NetworkAPIs))
	for kind, api := range cfg.NetworkAPIs {
		endpoints[kind] = networks.Endpoint{URL: api.URL, APIToken: api.APIToken}
	}

	svc := application.NewService(application.Dependencies{
		Config: application.Config{
			ServiceName:       cfg.ServiceID,
			CountRedeliveries: cfg.CountRedeliveries,
			SyncLockTTL:       cfg.SyncLockTTL,
		},
		Logger:       logger,
		Clicks:       repos.Clicks,
		Stores:       repos.Stores,
		Transactions: repos.Transactions,
		Admins:       admins,
		Parsers:      networks.DefaultRegistry(),
		Signatures:   security.NewHMACVerifier(cfg.WebhookSecret, cfg.NetworkSecrets),
		Identity:     identity,
		Source:       networks.NewAPIClient(&http.Client{Timeout: cfg.APITimeout}, endpoints, logger),
		SyncLock:     syncLock,
	})

	readiness := func(ctx context.Context) error {
		if err := sqlDB.PingContext(ctx); err != nil {
			return fmt.Errorf("postgres: %w", err)
		}
		if redisClient != nil {
			if err := redisClient.Ping(ctx).Err(); err != nil {
				return fmt.Errorf("redis: %w", err)
			}
		}
		return nil
	}

	handler := httpadapter.NewHandler(svc, readiness)
	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           httpadapter.NewRouter(handler),
		ReadHeaderTimeout: 5 * time.Second,
	}

	grpcServer := grpc.NewServer()
	grpcadapter.Register(grpcServer, grpcadapter.NewHealthServer(readiness))

	var publisher ports.EventPublisher = eventadapter.NewLoggingPublisher(logger)
	var kafkaPublisher *eventadapter.KafkaPublisher
	if len(cfg.KafkaBrokers) > 0 {
		kafkaPublisher, err = eventadapter.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopics)
		if err != nil {
			_ = sqlDB.Close()
			return nil, fmt.Errorf("init kafka publisher: %w", err)
		}
		publisher = kafkaPublisher
	}

	outbox := eventadapter.NewOutboxWorker(
		logger,
		repos.Outbox,
		publisher,
		cfg.OutboxPollInterval,
		cfg.OutboxBatchSize,
		cfg.OutboxClaimTTL,
		cfg.OutboxMaxRetries,
	)
	scheduler := eventadapter.NewSyncScheduler(logger, svc, cfg.SyncNetworks, cfg.SyncInterval)

	return &Runtime{
		cfg:        cfg,
		logger:     logger,
		db:         db,
		httpServer: httpServer,
		grpcServer: grpcServer,
		outbox:     outbox,
		scheduler:  scheduler,
		cleanupFn: func(ctx context.Context) {
			if kafkaPublisher != nil {
				_ = kafkaPublisher.Close()
			}
			if redisClient != nil {
				_ = redisClient.Close()
			}
			_ = sqlDB.Close()
		},
	}, nil
}

// NewLogger builds the process logger. Any format other than "text" yields JSON.
func NewLogger(w io.Writer, cfg Config) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.SlogLevel()}
	var handler slog.Handler
	if cfg.LogFormat == "text" {
		handler = slog.NewTextHandler(w, opts)
	} else {
		handler = slog.NewJSONHandler(w, opts)
	}
	return slog.New(handler).With("service", cfg.ServiceID)
}

func (r *Runtime) RunAPI(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := postgres.RunMigrations(ctx, r.db); err != nil {
		r.cleanupFn(context.Background())
		return fmt.Errorf("run migrations: %w", err)
	}
	lis, err := net.Listen("tcp", fmt.Sprintf(":%d", r.cfg.GRPCPort))
	if err != nil {
		r.cleanupFn(context.Background())
		return fmt.Errorf("listen gRPC: %w", err)
	}

	errCh := make(chan error, 2)
	go func() {
		r.logger.Info("http server started", "addr", r.httpServer.Addr)
		if err := r.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()
	go func() {
		r.logger.Info("grpc server started", "addr", lis.Addr().String())
		if err := r.grpcServer.Serve(lis); err != nil {
			errCh <- fmt.Errorf("grpc server: %w", err)
		}
	}()

	var runErr error
	select {
	case <-ctx.Done():
		r.logger.Info("shutdown signal received")
	case runErr = <-errCh:
		r.logger.Error("server failure", "error", runErr)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = r.httpServer.Shutdown(shutdownCtx)
	r.grpcServer.GracefulStop()
	r.cleanupFn(shutdownCtx)
	return runErr
}

// RunWorker drives the sync scheduler and the outbox relay until a signal
// arrives or either loop fails.
func (r *Runtime) RunWorker(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	errCh := make(chan error, 2)
	go func() {
		r.logger.Info("outbox worker started")
		errCh <- r.outbox.Run(ctx)
	}()
	go func() {
		r.logger.Info("sync scheduler started", "networks", r.cfg.SyncNetworks, "interval", r.cfg.SyncInterval.String())
		errCh <- r.scheduler.Run(ctx)
	}()

	var runErr error
	for i := 0; i < 2; i++ {
		err := <-errCh
		if err != nil && !errors.Is(err, context.Canceled) && runErr == nil {
			runErr = err
			r.logger.Error("worker loop failed", "error", err)
		}
		cancel()
	}

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()
	r.cleanupFn(shutdownCtx)
	return runErr
}

// RunSyncOnce polls the given networks once; nil means every enabled network.
func (r *Runtime) RunSyncOnce(ctx context.Context, kinds []domain.NetworkKind) ([]application.SyncReport, error) {
	defer r.cleanupFn(context.Background())
	if len(kinds) == 0 {
		return r.scheduler.RunOnce(ctx)
	}
	return r.scheduler.Sync(ctx, kinds)
}

// Migrate applies the embedded SQL migrations and exits.
func (r *Runtime) Migrate(ctx context.Context) error {
	defer r.cleanupFn(context.Background())
	return postgres.RunMigrations(ctx, r.db)
}
