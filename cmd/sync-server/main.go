// HTTP driver for the batch sync engine. Stateless: the caller owns the
// cursor and replays /run until finished=true.
package main

import (
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
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

	router := gin.Default()

	router.GET("/init", func(c *gin.Context) {
		filter, err := filterFromQuery(c, cfg.Sync)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": err.Error()})
			return
		}
		total, err := engine.Count(c.Request.Context(), filter)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"ok": true, "total": total})
	})

	router.GET("/run", func(c *gin.Context) {
		filter, err := filterFromQuery(c, cfg.Sync)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": err.Error()})
			return
		}
		cursor, err := queryInt(c, "cursor", 0)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": err.Error()})
			return
		}
		batchSize, err := queryInt(c, "batch_size", cfg.Sync.BatchSize)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": err.Error()})
			return
		}
		result, err := engine.Next(c.Request.Context(), filter, cursor, batchSize)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, result)
	})

	port := os.Getenv("SERVER_PORT")
	if port == "" {
		port = "8080"
	}
	logger.Log("sync server listening on :" + port)
	if err := router.Run(":" + port); err != nil {
		logger.LogError("server stopped", err)
		os.Exit(1)
	}
}

func filterFromQuery(c *gin.Context, sync config.SyncConfig) (model.SyncFilter, error) {
	filter := model.DefaultSyncFilter()
	filter.DryRun = sync.DryRun
	filter.InsertOnly = sync.InsertOnly

	var err error
	if filter.BrandID, err = queryInt64(c, "brand_id", 0); err != nil {
		return filter, err
	}
	if filter.ProductIDs, err = queryIDList(c, "product_ids"); err != nil {
		return filter, err
	}
	if filter.Offset, err = queryInt(c, "offset", 0); err != nil {
		return filter, err
	}
	if filter.Limit, err = queryInt(c, "limit", 0); err != nil {
		return filter, err
	}
	if filter.SyncVariants, err = queryBool(c, "sync_variants", true); err != nil {
		return filter, err
	}
	if filter.SyncInventory, err = queryBool(c, "sync_inventory", true); err != nil {
		return filter, err
	}
	if filter.SyncTranslations, err = queryBool(c, "sync_translations", true); err != nil {
		return filter, err
	}
	if filter.SyncImages, err = queryBool(c, "sync_images", true); err != nil {
		return filter, err
	}
	if filter.DryRun, err = queryBool(c, "dry_run", filter.DryRun); err != nil {
		return filter, err
	}
	if filter.InsertOnly, err = queryBool(c, "insert_only", filter.InsertOnly); err != nil {
		return filter, err
	}
	return filter, nil
}

func queryInt(c *gin.Context, name string, def int) (int, error) {
	raw := c.Query(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %q", name, raw)
	}
	return v, nil
}

func queryInt64(c *gin.Context, name string, def int64) (int64, error) {
	raw := c.Query(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %q", name, raw)
	}
	return v, nil
}

func queryBool(c *gin.Context, name string, def bool) (bool, error) {
	raw := c.Query(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %q", name, raw)
	}
	return v, nil
}

func queryIDList(c *gin.Context, name string) ([]int64, error) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return nil, nil
	}
	parts := strings.Split(raw, ",")
	ids := make([]int64, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid %s entry: %q", name, part)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
