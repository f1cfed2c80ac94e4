// Command snapshot runs one valuation pass: it joins the newest ingested
// position partition with that day's prices and FX rates and persists a
// valuation snapshot per account. Scheduling is left to cron or similar.
package main

import (
	"context"
	"log"

	"go.uber.org/zap"

	"github.com/tropicaldog17/faro/internal/config"
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
	writer := snapshot.NewWriter(cfg.SnapshotsDir, zlog)

	daily := services.NewDailySnapshotService(store, store, services.NewValuationService(), writer, cfg.BaseCurrency, zlog)

	summary, err := daily.RunDaily(context.Background())
	if err != nil {
		zlog.Fatal("daily valuation pass failed", zap.Error(err))
	}

	zlog.Info("daily valuation pass complete",
		zap.Time("snapshot_date", summary.SnapshotDate),
		zap.Int("positions", summary.Positions),
		zap.Int("valuations", summary.Valuations),
		zap.Strings("accounts", summary.Accounts))
}
