package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/wb-go/wbf/dbpg"
	"github.com/wb-go/wbf/ginext"
	"github.com/wb-go/wbf/zlog"

	"github.com/olekhv/shoplift/internal/config"
	"github.com/olekhv/shoplift/internal/domain"
	httpHandler "github.com/olekhv/shoplift/internal/handler/http"
	"github.com/olekhv/shoplift/internal/handler/middleware"
	"github.com/olekhv/shoplift/internal/helpers"
	infradatabase "github.com/olekhv/shoplift/internal/infrastructure/database"
	"github.com/olekhv/shoplift/internal/infrastructure/kafka"
	"github.com/olekhv/shoplift/internal/infrastructure/processor"
	"github.com/olekhv/shoplift/internal/infrastructure/storage"
	"github.com/olekhv/shoplift/internal/infrastructure/token"
	"github.com/olekhv/shoplift/internal/repository/postgres"
	"github.com/olekhv/shoplift/internal/retry"
	"github.com/olekhv/shoplift/internal/usecase"
)

func main() {
	zlog.Init()
	zlog.Logger.Info().Msg("Starting shop API server")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load("")
	if err != nil {
		zlog.Logger.Fatal().Err(err).Msg("failed to load config")
	}

	connectRetries := cfg.Database.ConnectRetries
	connectDelay := cfg.Database.ConnectRetryDelaySec
	if connectRetries == 0 {
		connectRetries = 15
	}
	if connectDelay == 0 {
		connectDelay = 3
	}

	slaves := []string{}
	if strings.TrimSpace(cfg.Database.Slaves) != "" {
		slaves = helpers.SplitAndTrim(cfg.Database.Slaves, ",")
	}
	dbOpts := &dbpg.Options{
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: time.Duration(cfg.Database.ConnMaxLifetimeSec) * time.Second,
	}

	database, err := infradatabase.ConnectWithRetries(cfg.Database.DSN, slaves, dbOpts, connectRetries, connectDelay)
	if err != nil || database == nil {
		zlog.Logger.Fatal().Err(err).Msg("failed to connect to database after all retries")
	}

	zlog.Logger.Info().Msg("Running database migrations...")
	if err := infradatabase.RunMigrations(database, cfg.Migrations.Path); err != nil {
		zlog.Logger.Fatal().Err(err).Msg("Migrations failed")
	}

	store, err := storage.New(&cfg.Storage)
	if err != nil {
		zlog.Logger.Fatal().Err(err).Msg("Failed to initialize storage")
	}

	var events domain.EventPublisher
	if cfg.Events.Enabled {
		events = kafka.NewProducer(&cfg.Events)
	} else {
		zlog.Logger.Info().Msg("Lifecycle events disabled")
		events = kafka.NewNoopPublisher()
	}
	defer events.Close()

	tokens := token.NewManager(cfg.Auth.JWTSecret, time.Duration(cfg.Auth.TokenTTLMin)*time.Minute)
	variants := processor.New(&cfg.Processing, store)

	categoryRepo := postgres.NewCategoryRepository(database, retry.DefaultStrategy)
	userRepo := postgres.NewUserRepository(database, retry.DefaultStrategy)
	productRepo := postgres.NewProductRepository(database, retry.DefaultStrategy)

	categoryUsecase := usecase.NewCategoryUsecase(categoryRepo, variants, events)
	accountUsecase := usecase.NewAccountUsecase(userRepo, variants, tokens, events, cfg.Auth.BcryptCost)
	productUsecase := usecase.NewProductUsecase(productRepo, categoryRepo, variants, events)

	engine := ginext.New("api")
	engine.Use(
		middleware.ErrorHandlerMiddleware(),
		middleware.LoggerMiddleware(),
		middleware.CORSMiddleware(),
	)

	engine.GET("/health", func(c *ginext.Context) {
		c.JSON(http.StatusOK, ginext.H{"status": "ok"})
	})

	categoryHandler := httpHandler.NewCategoryHandler(categoryUsecase, cfg.Server.MaxUploadSizeMB)
	categoryHandler.RegisterRoutes(engine)

	accountHandler := httpHandler.NewAccountHandler(accountUsecase)
	accountHandler.RegisterRoutes(engine)
	engine.GET("/accounts", middleware.AuthMiddleware(tokens), accountHandler.List)

	productHandler := httpHandler.NewProductHandler(productUsecase, cfg.Server.MaxUploadSizeMB)
	productHandler.RegisterRoutes(engine)

	if cfg.Storage.Type == "local" {
		engine.Static("/"+cfg.Storage.UploadDir, cfg.Storage.PublicDir+"/"+cfg.Storage.UploadDir)
	}

	srv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      engine,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeoutSec) * time.Second,
	}

	go func() {
		zlog.Logger.Info().Str("addr", cfg.Server.Addr).Msg("Starting HTTP server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zlog.Logger.Fatal().Err(err).Msg("Failed to start API server")
		}
	}()

	<-ctx.Done()
	zlog.Logger.Info().Msg("Shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeoutSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		zlog.Logger.Error().Err(err).Msg("HTTP server shutdown failed")
	} else {
		zlog.Logger.Info().Msg("HTTP server stopped gracefully")
	}

	if database.Master != nil {
		if err := database.Master.Close(); err != nil {
			zlog.Logger.Error().Err(err).Msg("closing db master failed")
		}
		for i, s := range database.Slaves {
			if err := s.Close(); err != nil {
				zlog.Logger.Error().Err(err).Int("slave_index", i).Msg("closing db slave failed")
			}
		}
	}

	zlog.Logger.Info().Msg("API shutdown complete")
}
