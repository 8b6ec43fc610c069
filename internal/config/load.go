package config

import (
	"fmt"
	"time"
)

func Load() (*Config, error) {
	mysqlCfg, err := loadMysql()
	if err != nil {
		return nil, err
	}
	psCfg, err := loadPrestashop()
	if err != nil {
		return nil, err
	}
	shopifyCfg, err := loadShopify()
	if err != nil {
		return nil, err
	}
	inventoryCfg, err := loadInventory()
	if err != nil {
		return nil, err
	}
	syncCfg, err := loadSync()
	if err != nil {
		return nil, err
	}

	return &Config{
		Prestashop: *psCfg,
		Mysql:      *mysqlCfg,
		Shopify:    *shopifyCfg,
		Inventory:  *inventoryCfg,
		Sync:       *syncCfg,
	}, nil
}

func loadMysql() (*MysqlConfig, error) {
	host, err := requiredString("MYSQL_HOST")
	if err != nil {
		return nil, err
	}
	username, err := requiredString("MYSQL_USERNAME")
	if err != nil {
		return nil, err
	}
	database, err := requiredString("MYSQL_DATABASE")
	if err != nil {
		return nil, err
	}
	port, err := intWithDefault("MYSQL_PORT", 3306)
	if err != nil {
		return nil, err
	}
	return &MysqlConfig{
		Host:     host,
		Port:     port,
		Username: username,
		Password: stringWithDefault("MYSQL_PASSWORD", ""),
		Database: database,
	}, nil
}

func loadPrestashop() (*PrestashopConfig, error) {
	baseURL, err := requiredString("PS_BASE_URL")
	if err != nil {
		return nil, err
	}
	shopID, err := int64WithDefault("PS_SHOP_ID", 1)
	if err != nil {
		return nil, err
	}
	primaryLang, err := int64WithDefault("PS_PRIMARY_LANG_ID", 1)
	if err != nil {
		return nil, err
	}
	langMap, err := langMapWithDefault("PS_LANG_MAP", map[int64]string{primaryLang: "it"})
	if err != nil {
		return nil, err
	}
	multiplier, err := floatWithDefault("PS_PRICE_MULTIPLIER", 1.22)
	if err != nil {
		return nil, err
	}
	cfg := &PrestashopConfig{
		TablePrefix:     stringWithDefault("PS_TABLE_PREFIX", "ps_"),
		ShopID:          shopID,
		BaseURL:         baseURL,
		LangMap:         langMap,
		PrimaryLangID:   primaryLang,
		DownloadDir:     stringWithDefault("PS_DOWNLOAD_DIR", ""),
		PriceMultiplier: multiplier,
	}
	if cfg.PrimaryLocale() == "" {
		return nil, fmt.Errorf("PS_LANG_MAP has no entry for primary lang id %d", primaryLang)
	}
	return cfg, nil
}

func loadShopify() (*ShopifyConfig, error) {
	domain, err := requiredString("SHOPIFY_SHOP_DOMAIN")
	if err != nil {
		return nil, err
	}
	token, err := requiredString("SHOPIFY_TOKEN")
	if err != nil {
		return nil, err
	}
	timeout, err := durationWithDefault("SHOPIFY_TIMEOUT", 30*time.Second)
	if err != nil {
		return nil, err
	}
	maxRetries, err := intWithDefault("SHOPIFY_MAX_RETRIES", 6)
	if err != nil {
		return nil, err
	}
	return &ShopifyConfig{
		ShopDomain:      domain,
		Token:           token,
		APIVer:          stringWithDefault("SHOPIFY_API_VERSION", "2024-10"),
		Timeout:         timeout,
		DefaultCategory: stringWithDefault("SHOPIFY_DEFAULT_CATEGORY", ""),
		PublicationID:   stringWithDefault("SHOPIFY_PUBLICATION_ID", ""),
		LocationID:      stringWithDefault("SHOPIFY_LOCATION_ID", ""),
		InventoryPolicy: stringWithDefault("SHOPIFY_INVENTORY_POLICY", "DENY"),
		MaxRetries:      maxRetries,
	}, nil
}

func loadInventory() (*InventoryConfig, error) {
	defaultQty, err := intWithDefault("INVENTORY_DEFAULT_QTY_IF_IN_STOCK", 0)
	if err != nil {
		return nil, err
	}
	return &InventoryConfig{
		DefaultQtyIfInStock: defaultQty,
		TrackInventory:      boolWithDefault("INVENTORY_TRACK", true),
	}, nil
}

func loadSync() (*SyncConfig, error) {
	batchSize, err := intWithDefault("SYNC_BATCH_SIZE", 1)
	if err != nil {
		return nil, err
	}
	return &SyncConfig{
		DryRun:     boolWithDefault("SYNC_DRY_RUN", false),
		InsertOnly: boolWithDefault("SYNC_INSERT_ONLY", false),
		BatchSize:  batchSize,
	}, nil
}
