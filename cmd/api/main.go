package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"

	"github.com/PaulBabatuyi/jobchat-gRPC/internal/auth"
	"github.com/PaulBabatuyi/jobchat-gRPC/internal/chat"
	"github.com/PaulBabatuyi/jobchat-gRPC/internal/config"
	"github.com/PaulBabatuyi/jobchat-gRPC/internal/data"
	"github.com/PaulBabatuyi/jobchat-gRPC/internal/db"
	"github.com/PaulBabatuyi/jobchat-gRPC/internal/memstore"
	"github.com/PaulBabatuyi/jobchat-gRPC/internal/middleware"
	"github.com/PaulBabatuyi/jobchat-gRPC/internal/presence"
	v1 "github.com/PaulBabatuyi/jobchat-gRPC/proto/jobchat/v1"
)

const (
	shutdownTimeout = 30 * time.Second
	// drainTimeout bounds how long unary calls may finish before open
	// streams are cut.
	drainTimeout = 5 * time.Second
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		os.Exit(1)
	}

	logger := newLogger(cfg)
	if err := run(cfg, logger); err != nil {
		logger.Fatal().Err(err).Msg("server exited")
	}
	logger.Info().Msg("server stopped")
}

func newLogger(cfg *config.Config) zerolog.Logger {
	if cfg.IsDevelopment() {
		return zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}).
			With().
			Timestamp().
			Logger()
	}
	return zerolog.New(os.Stdout).
		With().
		Timestamp().
		Logger()
}

func run(cfg *config.Config, logger zerolog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	checks := map[string]pingFunc{}

	store, dir, closeStore, err := openStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeStore()
	checks["store"] = store.Ping

	var users *userSync
	if saver, ok := dir.(userSaver); ok {
		users = &userSync{store: saver}
	}

	if cfg.RedisURL != "" && dir != nil {
		redisClient, err := presence.Connect(ctx, cfg.RedisURL)
		if err != nil {
			return fmt.Errorf("redis connection failed: %w", err)
		}
		defer redisClient.Close()
		logger.Info().Msg("connected to Redis")

		cache := presence.NewCache(redisClient, dir, cfg.PresenceCacheTTL, logger)
		dir = cache
		if users != nil {
			users.cache = cache
		}
		checks["redis"] = func(ctx context.Context) error { return redisClient.Ping(ctx).Err() }
	}

	svc := chat.NewService(store, dir,
		chat.WithLogger(logger),
		chat.WithInboxConcurrency(cfg.InboxFetchConcurrency),
	)

	// Create limiter store; SendMessage is throttled per user
	limiterStore := middleware.NewLimiterStore(cfg.RateLimitRPM, cfg.RateLimitBurst, time.Minute)
	defer limiterStore.Stop()

	grpcServer, err := newGRPCServer(cfg, logger, newJWTManager(cfg), limiterStore)
	if err != nil {
		return err
	}
	registerService(grpcServer, newServer(svc, logger))

	lis, err := net.Listen("tcp", ":"+cfg.Port)
	if err != nil {
		return fmt.Errorf("failed to listen: %w", err)
	}

	admin := &http.Server{
		Addr:         ":" + cfg.AdminPort,
		Handler:      newAdminRouter(logger, checks, users),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info().Str("port", cfg.Port).Str("env", cfg.Env).Str("store", cfg.StoreBackend).Msg("gRPC server listening")
		return grpcServer.Serve(lis)
	})
	g.Go(func() error {
		logger.Info().Str("port", cfg.AdminPort).Msg("admin server listening")
		if err := admin.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("admin server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info().Msg("shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		drainCtx, cancelDrain := context.WithTimeout(shutdownCtx, drainTimeout)
		defer cancelDrain()

		stopGRPC(drainCtx, grpcServer)
		return admin.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

// openStore connects the configured backend and returns it with its presence
// directory and a close function.
func openStore(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (chat.Store, chat.Directory, func(), error) {
	if cfg.StoreBackend == config.BackendMemory {
		logger.Warn().Msg("using in-memory store; data is lost on exit")
		return memstore.New(), nil, func() {}, nil
	}

	dbClient, err := db.New(ctx, cfg.MongoURI, cfg.MongoDatabase)
	if err != nil {
		return nil, nil, nil, err
	}
	// Ensure indexes exist
	if err := dbClient.CreateIndexes(ctx); err != nil {
		_ = dbClient.Close(context.Background())
		return nil, nil, nil, fmt.Errorf("failed to create indexes: %w", err)
	}
	logger.Info().Str("database", cfg.MongoDatabase).Msg("connected to MongoDB")

	closeFn := func() {
		if err := dbClient.Close(context.Background()); err != nil {
			logger.Error().Err(err).Msg("failed to disconnect from MongoDB")
		}
	}
	return data.NewStore(dbClient, logger), data.NewUsersStore(dbClient.UsersCollection()), closeFn, nil
}

// newJWTManager uses the key set when JWT_KEYS is configured so tokens signed
// before a rotation stay valid; otherwise the single JWT_SECRET.
func newJWTManager(cfg *config.Config) *auth.JWTManager {
	if len(cfg.JWTKeys) > 0 {
		return auth.NewJWTManagerFromKeys(cfg.JWTKeys, cfg.JWTActiveKid, 24*time.Hour)
	}
	return auth.NewJWTManager(cfg.JWTSecret, 24*time.Hour)
}

func newGRPCServer(cfg *config.Config, logger zerolog.Logger, jwtMgr *auth.JWTManager, limiterStore *middleware.LimiterStore) (*grpc.Server, error) {
	var serverOpts []grpc.ServerOption

	// If TLS certs are configured, create server credentials
	if cfg.TLSCert != "" && cfg.TLSKey != "" {
		creds, err := credentials.NewServerTLSFromFile(cfg.TLSCert, cfg.TLSKey)
		if err != nil {
			return nil, fmt.Errorf("failed to load TLS certs: %w", err)
		}
		serverOpts = append(serverOpts, grpc.Creds(creds))
	} else {
		logger.Warn().Msg("TLS not configured; serving plaintext")
	}

	limited := map[string]bool{
		v1.Messaging_SendMessage_FullMethodName: true,
	}

	// logging -> auth -> rate limiter, so the limiter sees the caller
	serverOpts = append(serverOpts,
		grpc.ChainUnaryInterceptor(
			middleware.LoggingUnaryInterceptor(logger),
			authUnaryInterceptor(jwtMgr),
			middleware.RateLimitUnaryInterceptor(limiterStore, limited, logger),
		),
		grpc.ChainStreamInterceptor(
			middleware.LoggingStreamInterceptor(logger),
			authStreamInterceptor(jwtMgr),
		),
	)
	return grpc.NewServer(serverOpts...), nil
}

// stopGRPC drains the server. Open subscriptions never finish on their own,
// so once ctx expires the remaining streams are cancelled.
func stopGRPC(ctx context.Context, s *grpc.Server) {
	done := make(chan struct{})
	go func() {
		s.GracefulStop()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
		s.Stop()
		<-done
	}
}
