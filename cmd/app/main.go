package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alexivanou/meteo-widget/internal/api"
	"github.com/alexivanou/meteo-widget/internal/config"
	"github.com/alexivanou/meteo-widget/internal/database"
	"github.com/alexivanou/meteo-widget/internal/logging"
	"github.com/alexivanou/meteo-widget/internal/repository"
	"github.com/alexivanou/meteo-widget/internal/service"
	"github.com/alexivanou/meteo-widget/internal/stats"
	"github.com/alexivanou/meteo-widget/internal/view"
	"github.com/alexivanou/meteo-widget/internal/weather"
	"github.com/alexivanou/meteo-widget/internal/widget"
	"go.uber.org/zap"
)

const sessionSweepInterval = time.Minute

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	db, err := database.Connect(context.Background(), cfg.DB)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		logger.Fatal("Failed to ping database", zap.Error(err))
	}
	logger.Info("Connected to database", zap.String("type", string(cfg.DB.Type)))

	if err := database.Migrate(db, cfg.DB); err != nil {
		logger.Fatal("Failed to run migrations", zap.Error(err))
	}

	repos := repository.NewRepositories(db)
	client := weather.NewClient(cfg.Weather)
	svc := service.NewService(client, repos.Event, logger)

	sessions := api.NewSessionStore(func() *widget.Widget {
		return widget.New(svc, cfg.Widget.DefaultCity, logger)
	}, cfg.Widget.SessionTTL)

	ctx, stop := context.WithCancel(context.Background())
	defer stop()
	go sessions.Run(ctx, sessionSweepInterval)

	handler := api.NewHandler(svc, sessions, view.NewProjector(cfg.Weather.IconBaseURL), cfg.Widget, logger)
	statsCollector := stats.NewCollector(db, cfg.DB, repos.Event).WithSessions(sessions)
	router := api.NewRouter(handler, statsCollector, logger)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.Weather.Timeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("Starting server",
			zap.String("port", cfg.Server.Port),
			zap.String("default_city", cfg.Widget.DefaultCity),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}
	stop()

	logger.Info("Server exited")
}
