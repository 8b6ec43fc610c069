// Scheduled runner: each tick resumes the migration from a cursor kept in
// a state file and works until the wall-clock budget for the slice is
// spent. The state file is removed once the full catalog is done, so the
// next tick starts a fresh pass.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"

	"shopify-migrator/internal/adapters/prestashop"
	"shopify-migrator/internal/adapters/shopify"
	"shopify-migrator/internal/app/usecases"
	"shopify-migrator/internal/config"
	"shopify-migrator/internal/domain/model"
	"shopify-migrator/internal/infra/mysql"
	"shopify-migrator/internal/logging"
)

type cursorState struct {
	Cursor    int       `json:"cursor"`
	UpdatedAt time.Time `json:"updated_at"`
}

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("config error: %v\n", err)
		os.Exit(1)
	}
	logger := logging.NewLogger()

	db, err := mysql.New(cfg.Mysql)
	if err != nil {
		logger.LogError("mysql connect", err)
		os.Exit(1)
	}
	defer db.Close()

	httpClient := &http.Client{Timeout: cfg.Shopify.Timeout}
	source := prestashop.NewClient(db, cfg.Prestashop, httpClient)
	shopifyClient := shopify.NewClient(cfg.Shopify, cfg.Inventory, httpClient, logger)
	builder := usecases.NewPayloadBuilder(source, cfg.Prestashop)
	upsert := usecases.NewUpsertProduct(shopifyClient, logger)
	engine := usecases.NewSyncBatch(source, builder, upsert, logger)

	spec := envOr("SYNC_CRON_SPEC", "*/15 * * * *")
	budget := durationOr("SYNC_CRON_BUDGET", 10*time.Minute)
	stateFile := envOr("SYNC_CRON_STATE", "sync-cursor.json")

	runner := cron.New()
	_, err = runner.AddFunc(spec, func() {
		runSlice(engine, cfg.Sync, logger, stateFile, budget)
	})
	if err != nil {
		logger.LogError("invalid cron spec "+spec, err)
		os.Exit(1)
	}

	logger.Log(fmt.Sprintf("cron started: spec %q, slice budget %s, state %s", spec, budget, stateFile))
	runner.Run()
}

func runSlice(engine usecases.SyncBatchService, sync config.SyncConfig, logger logging.LoggerService, stateFile string, budget time.Duration) {
	filter := model.DefaultSyncFilter()
	filter.DryRun = sync.DryRun
	filter.InsertOnly = sync.InsertOnly

	cursor := loadCursor(stateFile, logger)
	logger.Log(fmt.Sprintf("slice starting at cursor %d", cursor))

	ctx := context.Background()
	deadline := time.Now().Add(budget)
	processed, failed := 0, 0

	for time.Now().Before(deadline) {
		result, err := engine.Next(ctx, filter, cursor, sync.BatchSize)
		if err != nil {
			logger.LogError(fmt.Sprintf("batch at cursor %d failed, stopping slice", cursor), err)
			return
		}
		processed += result.Processed
		failed += result.Failed

		if result.Finished {
			if err := os.Remove(stateFile); err != nil && !os.IsNotExist(err) {
				logger.LogError("remove state file", err)
			}
			logger.LogSuccess(fmt.Sprintf("catalog finished: %d processed, %d failed this slice", processed, failed))
			return
		}
		if result.CursorNext <= cursor {
			logger.LogError("cursor stuck, stopping slice",
				fmt.Errorf("cursor %d did not advance", cursor))
			return
		}
		cursor = result.CursorNext
		saveCursor(stateFile, cursor, logger)
	}

	logger.Log(fmt.Sprintf("slice budget spent at cursor %d: %d processed, %d failed", cursor, processed, failed))
}

func loadCursor(stateFile string, logger logging.LoggerService) int {
	data, err := os.ReadFile(stateFile)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.LogWarning(fmt.Sprintf("state file unreadable, starting over: %v", err))
		}
		return 0
	}
	var state cursorState
	if err := json.Unmarshal(data, &state); err != nil {
		logger.LogWarning(fmt.Sprintf("state file corrupt, starting over: %v", err))
		return 0
	}
	return state.Cursor
}

func saveCursor(stateFile string, cursor int, logger logging.LoggerService) {
	data, err := json.Marshal(cursorState{Cursor: cursor, UpdatedAt: time.Now()})
	if err != nil {
		logger.LogError("marshal state", err)
		return
	}
	if err := os.WriteFile(stateFile, data, 0o644); err != nil {
		logger.LogError("write state file", err)
	}
}

func envOr(name, def string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return def
}

func durationOr(name string, def time.Duration) time.Duration {
	raw := os.Getenv(name)
	if raw == "" {
		return def
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return def
	}
	return d
}
