package config

import "time"

type Config struct {
	Prestashop PrestashopConfig
	Mysql      MysqlConfig
	Shopify    ShopifyConfig
	Inventory  InventoryConfig
	Sync       SyncConfig
}

type MysqlConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	Database string
}

type PrestashopConfig struct {
	TablePrefix     string
	ShopID          int64
	BaseURL         string
	LangMap         map[int64]string
	PrimaryLangID   int64
	DownloadDir     string
	PriceMultiplier float64
}

// PrimaryLocale returns the ISO code mapped to PrimaryLangID, empty if unmapped.
func (c PrestashopConfig) PrimaryLocale() string {
	return c.LangMap[c.PrimaryLangID]
}

type ShopifyConfig struct {
	ShopDomain      string
	Token           string
	APIVer          string
	Timeout         time.Duration
	DefaultCategory string
	PublicationID   string
	LocationID      string
	InventoryPolicy string
	MaxRetries      int
}

type InventoryConfig struct {
	DefaultQtyIfInStock int
	TrackInventory      bool
}

type SyncConfig struct {
	DryRun     bool
	InsertOnly bool
	BatchSize  int
}
