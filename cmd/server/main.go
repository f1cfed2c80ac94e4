package main

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/tropicaldog17/faro/internal/config"
	"github.com/tropicaldog17/faro/internal/handlers"
	"github.com/tropicaldog17/faro/internal/logger"
	"github.com/tropicaldog17/faro/internal/services"
	"github.com/tropicaldog17/faro/internal/snapshot"
)

func main() {
	cfg := config.Load()

	zlog, err := logger.New()
	if err != nil {
		log.Fatal("Failed to build logger:", err)
	}
	defer zlog.Sync()

	store := snapshot.NewStore(cfg.SnapshotsDir)

	snapshotService := services.NewSnapshotService(store, cfg.BaseCurrency, zlog)
	historyService := services.NewPriceHistoryService(store, cfg, zlog)

	valuationHandler := handlers.NewValuationHandler(snapshotService, zlog)
	historyHandler := handlers.NewPriceHistoryHandler(historyService, zlog)

	r := mux.NewRouter()
	r.Use(handlers.RequestID, handlers.Logging(zlog), handlers.CORS)

	r.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{
			"status":  "healthy",
			"service": "faro-backend",
		})
	}).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/valuations/latest", valuationHandler.HandleLatest).Methods(http.MethodGet)
	api.HandleFunc("/prices/history", historyHandler.HandleHistory).Methods(http.MethodGet)

	zlog.Info("server starting",
		zap.String("port", cfg.ServerPort),
		zap.String("snapshots_dir", cfg.SnapshotsDir),
		zap.String("base_currency", cfg.BaseCurrency))
	if err := http.ListenAndServe(":"+cfg.ServerPort, r); err != nil {
		zlog.Fatal("server stopped", zap.Error(err))
	}
}
