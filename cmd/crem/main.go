package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/example/convention-scheduler/internal/application"
	"github.com/example/convention-scheduler/internal/config"
	httptransport "github.com/example/convention-scheduler/internal/http"
	"github.com/example/convention-scheduler/internal/persistence/sqlite"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// A missing .env file is fine; the environment still applies.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	pool, err := sqlite.NewConnectionPool(sqlite.DefaultConfig(cfg.SQLiteDSN))
	if err != nil {
		logger.Error("failed to open storage", "error", err)
		os.Exit(1)
	}
	defer func() {
		if cerr := pool.Close(); cerr != nil {
			logger.Error("failed to close storage", "error", cerr)
		}
	}()

	if err := pool.Migrate(context.Background()); err != nil {
		logger.Error("failed to apply schema", "error", err)
		os.Exit(1)
	}

	idGenerator := uuid.NewString
	now := time.Now

	conventionRepo := sqlite.NewConventionRepository(pool)
	trackRepo := sqlite.NewTrackRepository(pool)
	roomRepo := sqlite.NewRoomRepository(pool)
	roomGroupRepo := sqlite.NewRoomGroupRepository(pool)
	resourceRepo := sqlite.NewResourceRepository(pool)
	presenterRepo := sqlite.NewPresenterRepository(pool)
	eventTypeRepo := sqlite.NewEventTypeRepository(pool)
	timeslotRepo := sqlite.NewTimeslotRepository(pool)
	eventRepo := sqlite.NewEventRepository(pool)

	conventionService := application.NewConventionService(conventionRepo, idGenerator, now, logger)
	trackService := application.NewTrackService(trackRepo, idGenerator, now, logger)
	roomService := application.NewRoomService(roomRepo, idGenerator, now, logger)
	timeslotService := application.NewTimeslotService(timeslotRepo, conventionRepo, roomRepo, idGenerator, now, logger)
	catalogService := application.NewCatalogService(roomGroupRepo, resourceRepo, presenterRepo, eventTypeRepo, idGenerator, now, logger)
	eventService := application.NewEventService(eventRepo, conventionRepo, trackRepo, roomRepo, timeslotRepo, resourceRepo, presenterRepo, eventTypeRepo, idGenerator, now, logger)
	eventService.ConfigureVerdictCache(cfg.VerdictCacheTTL, 0)
	application.WireVerdictInvalidation(eventService, roomService, timeslotService, catalogService)
	importService := application.NewImportService(eventRepo, trackRepo, conventionRepo, idGenerator, now, logger)

	router := httptransport.NewRouter(httptransport.RouterConfig{
		Conventions: httptransport.NewConventionHandler(conventionService, logger),
		Tracks:      httptransport.NewTrackHandler(trackService, logger),
		Rooms:       httptransport.NewRoomHandler(roomService, logger),
		Timeslots:   httptransport.NewTimeslotHandler(timeslotService, logger),
		Catalog:     httptransport.NewCatalogHandler(catalogService, logger),
		Events:      httptransport.NewEventHandler(eventService, logger),
		Import:      httptransport.NewImportHandler(importService, logger),
		Middleware: []func(http.Handler) http.Handler{
			httptransport.RequestLogger(logger),
			httptransport.CORS(cfg.CORSAllowedOrigins),
		},
	})

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("failed to shutdown server", "error", err)
		}
	}()

	logger.Info("convention scheduler API listening", "addr", server.Addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server encountered error", "error", err)
		os.Exit(1)
	}
}
