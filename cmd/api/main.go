package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/playback-gateway/internal/api/http"
	"github.com/spec-kit/playback-gateway/internal/api/http/handlers"
	"github.com/spec-kit/playback-gateway/internal/auth"
	"github.com/spec-kit/playback-gateway/internal/config"
	"github.com/spec-kit/playback-gateway/internal/domain"
	"github.com/spec-kit/playback-gateway/internal/drive"
	"github.com/spec-kit/playback-gateway/internal/events"
	"github.com/spec-kit/playback-gateway/internal/observability"
	"github.com/spec-kit/playback-gateway/internal/persistence"
	"github.com/spec-kit/playback-gateway/internal/repository"
	"github.com/spec-kit/playback-gateway/internal/service"
	"github.com/spec-kit/playback-gateway/internal/stream"
	"github.com/spec-kit/playback-gateway/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sessionKeys, err := auth.LoadSessionKeys(cfg.Auth.SessionPrivateKeyPath, cfg.Auth.SessionPublicKeyPath)
	if err != nil {
		logger.Fatal("failed to load session keys", zap.Error(err))
	}
	sessionTokens := auth.NewTokenManager(
		sessionKeys.Private,
		sessionKeys.Public,
		time.Duration(cfg.Auth.SessionTokenTTLDays)*24*time.Hour,
	)

	serviceToken, err := resolveServiceToken(cfg, logger)
	if err != nil {
		logger.Fatal("failed to obtain service token", zap.Error(err))
	}

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	metrics := observability.NewMetrics()
	dispatcher := events.NewInMemoryDispatcher()
	worker.StartTelemetryWorker(dispatcher, metrics, logger)

	pool := pg.PoolHandle()
	userRepo := repository.NewUserRepository(pool)
	videoRepo := repository.NewVideoRepository(pool)

	driveClient := drive.NewClient(cfg.Drive, serviceToken)
	authService := service.NewAuthService(userRepo, sessionTokens, cfg.Auth.BcryptCost)
	libraryService := service.NewLibraryService(videoRepo, driveClient, cfg.App.PublicBaseURL)
	searchService := service.NewSearchService(cfg.Search, redis.Client, logger)
	engine := stream.NewEngine(driveClient, dispatcher, logger)
	sessionGuard := auth.NewSessionGuard(sessionTokens)

	app := fiber.New(fiber.Config{
		DisableStartupMessage: cfg.App.Env == "production",
	})
	httptransport.RegisterMiddlewares(app, cfg, logger, metrics)

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:       handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Auth:         handlers.NewAuthHandler(authService),
		Library:      handlers.NewLibraryHandler(libraryService),
		Stream:       handlers.NewStreamHandler(engine),
		Search:       handlers.NewSearchHandler(searchService),
		SessionGuard: sessionGuard,
	})

	go func() {
		logger.Info("listening", zap.String("addr", cfg.App.Addr()))
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

// resolveServiceToken returns the credential the gateway presents to
// the drive service: a pre-issued token when configured, otherwise one
// minted at startup from the service key pair. The service trust
// domain never shares key material with session tokens.
func resolveServiceToken(cfg *config.Config, logger *zap.Logger) (string, error) {
	if cfg.Drive.ServiceToken != "" {
		return cfg.Drive.ServiceToken, nil
	}

	key, err := auth.LoadPrivateKey(cfg.Drive.ServicePrivateKeyPath)
	if err != nil {
		return "", err
	}
	serviceTokens := auth.NewTokenManager(key, nil, time.Duration(cfg.Auth.ServiceTokenTTLDays)*24*time.Hour)
	token, exp, err := serviceTokens.Issue(domain.Identity{ID: cfg.App.Name, Name: cfg.App.Name})
	if err != nil {
		return "", err
	}
	logger.Info("service token minted", zap.Time("expires_at", exp))
	return token, nil
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
