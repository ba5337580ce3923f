package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/alexivanou/meteo-widget/internal/config"
	"github.com/alexivanou/meteo-widget/internal/database"
	"github.com/alexivanou/meteo-widget/internal/logging"
	"github.com/alexivanou/meteo-widget/internal/repository"
	"github.com/alexivanou/meteo-widget/internal/stats"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := logging.New(config.LogConfig{Level: cfg.Log.Level, Format: "console"})
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	if cfg.DB.IsMemory() {
		logger.Fatal("Journal statistics need a postgres or mysql journal; the in-memory one lives inside the server process")
	}

	db, err := database.Connect(context.Background(), cfg.DB)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		logger.Fatal("Failed to ping database", zap.Error(err))
	}

	logger.Info("Collecting statistics...", zap.String("db_type", string(cfg.DB.Type)))

	collector := stats.NewCollector(db, cfg.DB, repository.NewRepositories(db).Event)

	statistics, err := collector.Collect(context.Background())
	if err != nil {
		logger.Fatal("Failed to collect statistics", zap.Error(err))
	}

	outputFormat := os.Getenv("OUTPUT_FORMAT")
	if outputFormat == "" {
		outputFormat = "json"
	}

	switch outputFormat {
	case "json":
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(statistics); err != nil {
			logger.Fatal("Failed to encode statistics", zap.Error(err))
		}
	case "text", "human":
		printHumanReadable(statistics)
	default:
		logger.Fatal("Unknown output format", zap.String("format", outputFormat))
	}
}

func printHumanReadable(s *stats.Stats) {
	fmt.Println("=== Weather Widget Statistics ===")
	fmt.Printf("Timestamp: %s\n", s.Timestamp.Format("2006-01-02 15:04:05"))
	fmt.Println()

	fmt.Println("--- Memory Statistics ---")
	fmt.Printf("Allocated:        %s\n", formatBytes(s.Memory.Alloc))
	fmt.Printf("Total Allocated:  %s\n", formatBytes(s.Memory.TotalAlloc))
	fmt.Println()

	fmt.Println("--- Fetch Journal ---")
	fmt.Printf("Type:            %s\n", s.Journal.Type)
	fmt.Printf("Size:            %s\n", formatBytes(uint64(s.Journal.SizeBytes)))
	fmt.Printf("Total Fetches:   %d\n", s.Journal.TotalFetches)
	fmt.Printf("Avg Duration:    %.1f ms\n", s.Journal.AvgDurationMs)
	if s.Journal.LastFetchAt != nil {
		fmt.Printf("Last Fetch:      %s\n", s.Journal.LastFetchAt.Format("2006-01-02 15:04:05"))
	}
	fmt.Println()
	fmt.Println("Outcomes:")
	for _, oc := range s.Journal.Outcomes {
		fmt.Printf("  %-12s: %10d\n", oc.Outcome, oc.Count)
	}
	fmt.Println()

	fmt.Println("--- Runtime Statistics ---")
	fmt.Printf("Goroutines:      %d\n", s.Runtime.NumGoroutines)
	fmt.Printf("Uptime:          %ds\n", s.Runtime.UptimeSeconds)
}

func formatBytes(bytes uint64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := uint64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.2f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}
