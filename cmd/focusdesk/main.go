package main

import (
	"context"
	"fmt"
	"math"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/gosuda/focusdesk/internal/api/ws"
	"github.com/gosuda/focusdesk/internal/config"
	"github.com/gosuda/focusdesk/internal/domain"
	"github.com/gosuda/focusdesk/internal/server"
	filestore "github.com/gosuda/focusdesk/internal/store/file"
	"github.com/gosuda/focusdesk/internal/store/memory"
	"github.com/gosuda/focusdesk/internal/store/postgres"
	redisstore "github.com/gosuda/focusdesk/internal/store/redis"
	"github.com/gosuda/focusdesk/internal/workspace"
)

func main() {
	if err := run(); err != nil {
		log.Fatal().Err(err).Msg("startup failed")
	}
}

func run() error {
	// Load configuration from environment.
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	setupLogging(cfg.Log)

	// Graceful shutdown on SIGINT / SIGTERM.
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	var closers []func()
	defer func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}()

	// Connect to Redis only when a component needs it.
	var redisPS *redisstore.PubSub
	if cfg.Storage.Backend == config.StoreRedis || cfg.Storage.Events == config.EventsRedis {
		redisPS, err = redisstore.New(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			return err
		}
		closers = append(closers, func() { _ = redisPS.Close() })
	}

	persistence, closeStore, err := openStore(ctx, cfg, redisPS)
	if err != nil {
		return err
	}
	if closeStore != nil {
		closers = append(closers, closeStore)
	}

	var broker ws.Broker = memory.NewPubSub()
	if cfg.Storage.Events == config.EventsRedis {
		broker = redisPS
	}

	channel := redisstore.WorkspaceChannel(cfg.Workspace.Name)

	wsp, err := workspace.New(ctx, workspace.Options{
		Channel:      channel,
		Persistence:  persistence,
		Publisher:    broker,
		TickInterval: cfg.Workspace.TickInterval,
		IOTimeout:    cfg.Workspace.IOTimeout,
	})
	if err != nil {
		return err
	}

	go wsp.Run(ctx)

	hub := ws.NewHub(broker, channel, wsp, originPatterns(cfg.Server.CORSOrigins))

	// Create HTTP server with all routes wired.
	srv := server.New(ctx, cfg, wsp, hub)

	// Start server in background goroutine.
	go func() {
		log.Info().
			Str("addr", cfg.Server.Addr).
			Str("store", cfg.Storage.Backend).
			Str("events", cfg.Storage.Events).
			Str("workspace", cfg.Workspace.Name).
			Msg("starting server")
		if startErr := srv.Start(ctx); startErr != nil {
			log.Error().Err(startErr).Msg("server error")
			cancel()
		}
	}()

	// Block until shutdown signal.
	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if shutdownErr := srv.Shutdown(shutdownCtx); shutdownErr != nil {
		log.Error().Err(shutdownErr).Msg("server shutdown")
	}

	// Flush pending saves before the stores close.
	if closeErr := wsp.Close(shutdownCtx); closeErr != nil {
		return closeErr
	}

	log.Info().Msg("stopped")
	return nil
}

func setupLogging(cfg config.LogConfig) {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if cfg.Format == "text" {
		log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	} else {
		log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
	}
}

// openStore returns the configured persistence backend and an optional
// close function.
func openStore(ctx context.Context, cfg *config.Config, redisPS *redisstore.PubSub) (domain.Persistence, func(), error) {
	switch cfg.Storage.Backend {
	case config.StoreMemory:
		return memory.NewStore(), nil, nil

	case config.StoreRedis:
		return redisstore.NewStore(redisPS.Client(), cfg.Workspace.Name), nil, nil

	case config.StorePostgres:
		if cfg.Database.MaxConns > math.MaxInt32 {
			return nil, nil, fmt.Errorf("database max_conns %d out of int32 range", cfg.Database.MaxConns)
		}
		store, err := postgres.New(ctx, cfg.Database.DSN(), int32(cfg.Database.MaxConns)) //nolint:gosec // bounds checked above
		if err != nil {
			return nil, nil, err
		}
		if err := store.Migrate(ctx); err != nil {
			store.Close()
			return nil, nil, err
		}
		return store.Workspace(cfg.Workspace.Name), store.Close, nil

	default:
		store, err := filestore.New(cfg.Storage.DataDir, cfg.Workspace.Name)
		if err != nil {
			return nil, nil, err
		}
		log.Debug().Str("dir", store.Dir()).Msg("file store ready")
		return store, nil, nil
	}
}

// originPatterns converts CORS origins into the host patterns the WebSocket
// handshake checks.
func originPatterns(origins []string) []string {
	patterns := make([]string, 0, len(origins))
	for _, o := range origins {
		if o == "*" {
			return []string{"*"}
		}
		if _, host, ok := strings.Cut(o, "://"); ok {
			o = host
		}
		patterns = append(patterns, o)
	}
	return patterns
}
