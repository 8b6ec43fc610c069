package prestashop

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"shopify-migrator/internal/config"
	"shopify-migrator/internal/domain/model"
)

// ClientService reads the PrestaShop schema. All methods are read-only.
type ClientService interface {
	CountFiltered(ctx context.Context, filter model.SyncFilter) (int, error)
	PageFiltered(ctx context.Context, limit, offset int, filter model.SyncFilter) ([]model.SourceProduct, error)
	ByIDs(ctx context.Context, ids []int64) ([]model.SourceProduct, error)

	TextsByLocale(ctx context.Context, productID int64) (map[string]model.TextBundle, error)
	ImageURLs(ctx context.Context, productID int64) ([]string, error)
	Combinations(ctx context.Context, productID int64) ([]model.Combination, error)
	CategoriesForProduct(ctx context.Context, productID int64) ([]model.Category, error)
	OptionGroupTranslations(ctx context.Context, groupIDs []int64) (map[int64]map[string]string, error)
	AttributeValueTranslations(ctx context.Context, attributeIDs []int64) (map[int64]map[string]string, error)
	VariantTitlesByLocale(ctx context.Context, productID int64) (map[string]map[string]string, error)
	Features(ctx context.Context, productID int64) ([]model.Feature, error)
	Attachments(ctx context.Context, productID int64) ([]model.Attachment, error)
}

type Client struct {
	db         *sql.DB
	config     config.PrestashopConfig
	httpClient *http.Client
}

func NewClient(db *sql.DB, cfg config.PrestashopConfig, httpClient *http.Client) ClientService {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{
		db:         db,
		config:     cfg,
		httpClient: httpClient,
	}
}

func (c *Client) table(name string) string {
	return c.config.TablePrefix + name
}

// locale maps a PrestaShop lang id to its ISO code, empty when unmapped.
func (c *Client) locale(langID int64) string {
	return c.config.LangMap[langID]
}
