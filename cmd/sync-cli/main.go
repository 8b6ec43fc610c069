// One-shot migration runner: drives the batch engine to completion in a
// single process and prints one line per record.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"shopify-migrator/internal/adapters/prestashop"
	"shopify-migrator/internal/adapters/shopify"
	"shopify-migrator/internal/app/usecases"
	"shopify-migrator/internal/config"
	"shopify-migrator/internal/domain/model"
	"shopify-migrator/internal/infra/mysql"
	"shopify-migrator/internal/logging"
)

func main() {
	brandID := flag.Int64("brand", 0, "restrict to one manufacturer id")
	productIDs := flag.String("ids", "", "comma-separated product ids (overrides paging)")
	offset := flag.Int("offset", 0, "skip the first N products")
	limit := flag.Int("limit", 0, "stop after N products (0 = all)")
	batchSize := flag.Int("batch", 0, "records per batch (0 = SYNC_BATCH_SIZE)")
	dryRun := flag.Bool("dry-run", false, "build payloads without writing to Shopify")
	insertOnly := flag.Bool("insert-only", false, "skip the handle lookup, always create")
	skipVariants := flag.Bool("skip-variants", false, "do not sync variants")
	skipInventory := flag.Bool("skip-inventory", false, "do not sync inventory")
	skipTranslations := flag.Bool("skip-translations", false, "do not sync translations")
	skipImages := flag.Bool("skip-images", false, "do not sync images")
	pause := flag.Duration("pause", 0, "sleep between batches")
	flag.Parse()

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

	filter := model.SyncFilter{
		BrandID:          *brandID,
		Offset:           *offset,
		Limit:            *limit,
		SyncVariants:     !*skipVariants,
		SyncInventory:    !*skipInventory,
		SyncTranslations: !*skipTranslations,
		SyncImages:       !*skipImages,
		DryRun:           *dryRun || cfg.Sync.DryRun,
		InsertOnly:       *insertOnly || cfg.Sync.InsertOnly,
	}
	if *productIDs != "" {
		filter.ProductIDs, err = parseIDList(*productIDs)
		if err != nil {
			logger.LogError("invalid -ids", err)
			os.Exit(1)
		}
	}
	size := *batchSize
	if size <= 0 {
		size = cfg.Sync.BatchSize
	}

	ctx := context.Background()
	total, err := engine.Count(ctx, filter)
	if err != nil {
		logger.LogError("count products", err)
		os.Exit(1)
	}
	logger.Log(fmt.Sprintf("syncing %d products, batch size %d", total, size))

	start := time.Now()
	cursor := 0
	processed, failed := 0, 0
	for {
		result, err := engine.Next(ctx, filter, cursor, size)
		if err != nil {
			logger.LogError(fmt.Sprintf("batch at cursor %d failed", cursor), err)
			os.Exit(1)
		}
		for _, item := range result.Items {
			if item.OK {
				action := ""
				if item.Report != nil && item.Report.Result != nil {
					action = item.Report.Result.Action
				}
				logger.Log(fmt.Sprintf("OK  product %d %s", item.ProductID, action))
			} else {
				logger.LogWarning(fmt.Sprintf("KO  product %d: %s", item.ProductID, item.Error))
			}
		}
		processed += result.Processed
		failed += result.Failed

		if result.Finished {
			break
		}
		if result.CursorNext <= cursor {
			logger.LogError("cursor stuck, aborting",
				fmt.Errorf("cursor %d did not advance", cursor))
			os.Exit(1)
		}
		cursor = result.CursorNext
		if *pause > 0 {
			time.Sleep(*pause)
		}
	}

	logger.LogSuccess(fmt.Sprintf("done: %d processed, %d failed in %s",
		processed, failed, time.Since(start).Round(time.Second)))
	if failed > 0 {
		os.Exit(1)
	}
}

func parseIDList(raw string) ([]int64, error) {
	parts := strings.Split(raw, ",")
	ids := make([]int64, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid product id %q", part)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
