package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/alexivanou/meteo-widget/internal/config"
	"github.com/alexivanou/meteo-widget/internal/database"
	"github.com/alexivanou/meteo-widget/internal/logging"
	"github.com/alexivanou/meteo-widget/internal/repository"
	"github.com/alexivanou/meteo-widget/internal/service"
	"github.com/alexivanou/meteo-widget/internal/view"
	"github.com/alexivanou/meteo-widget/internal/weather"
	"github.com/alexivanou/meteo-widget/internal/widget"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// stdout belongs to the widget; zap writes to stderr
	logger, err := logging.New(cfg.Log)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.Connect(ctx, cfg.DB)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	if err := database.Migrate(db, cfg.DB); err != nil {
		logger.Fatal("Failed to run migrations", zap.Error(err))
	}

	repos := repository.NewRepositories(db)
	svc := service.NewService(weather.NewClient(cfg.Weather), repos.Event, logger)
	wd := widget.New(svc, cfg.Widget.DefaultCity, logger)
	defer wd.Close()

	c := newConsole(os.Stdout, wd, view.NewProjector(cfg.Weather.IconBaseURL), logger)

	fmt.Println("Météo Globale")
	if cfg.Widget.LookupOnStart {
		c.submit(ctx)
	}
	c.run(ctx, os.Stdin)
}
