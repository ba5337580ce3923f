package api

import (
	"github.com/alexivanou/meteo-widget/internal/stats"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// NewRouter creates a new HTTP router
func NewRouter(handler *Handler, statsCollector *stats.Collector, logger *zap.Logger) *mux.Router {
	statsHandler := NewStatsHandler(statsCollector, logger)

	router := mux.NewRouter()
	router.Use(middleware.RealIP, RequestID, RequestLogger(logger), middleware.Recoverer)

	// Health check
	router.HandleFunc("/health", handler.HealthCheck).Methods("GET")

	// Widget page
	router.HandleFunc("/", handler.Index).Methods("GET")
	router.HandleFunc("/search", handler.Search).Methods("POST")

	// API v1
	v1 := router.PathPrefix("/api/v1").Subrouter()
	v1.HandleFunc("/weather", handler.GetWeather).Methods("GET")
	v1.HandleFunc("/state", handler.GetState).Methods("GET")
	v1.HandleFunc("/search", handler.SearchJSON).Methods("POST")
	v1.HandleFunc("/events", handler.ListEvents).Methods("GET")
	v1.HandleFunc("/stats", statsHandler.GetStats).Methods("GET")

	return router
}
