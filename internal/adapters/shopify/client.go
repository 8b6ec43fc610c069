package shopify

import (
	"context"
	"net/http"

	"shopify-migrator/internal/adapters/shopify/dto"
	"shopify-migrator/internal/config"
	"shopify-migrator/internal/domain/model"
	"shopify-migrator/internal/logging"
)

// ClientService is the surface the upsert orchestrator drives. Every
// method is a full child sync, transport pacing happens underneath.
type ClientService interface {
	FindProductByHandle(ctx context.Context, handle string) (dto.ExistingProduct, bool, error)
	CreateProduct(ctx context.Context, p *model.ProductPayload) (string, error)
	UpdateProduct(ctx context.Context, existing dto.ExistingProduct, p *model.ProductPayload) error
	UpsertVariants(ctx context.Context, productGID string, p *model.ProductPayload) error
	SetInventory(ctx context.Context, productGID string, p *model.ProductPayload) error
	AddImages(ctx context.Context, productGID string, existingSrcs []string, p *model.ProductPayload) error
	SyncRedirects(ctx context.Context, p *model.ProductPayload) error
	SyncTranslations(ctx context.Context, productGID string, p *model.ProductPayload) error
	SyncOptionTranslations(ctx context.Context, productGID string, p *model.ProductPayload) error
	SyncVariantTextures(ctx context.Context, productGID string, p *model.ProductPayload) error
	SyncCollections(ctx context.Context, productGID string, p *model.ProductPayload) error
	SyncFeatureMetafields(ctx context.Context, productGID string, p *model.ProductPayload) error
	SyncAttachments(ctx context.Context, productGID string, p *model.ProductPayload) error
}

type Client struct {
	config    config.ShopifyConfig
	inventory config.InventoryConfig
	transport *Transport
	logger    logging.LoggerService

	// process-lifetime caches, the engine is single-threaded
	collections       map[string]dto.CollectionRef
	collectionsLoaded bool
	filesByURL        map[string]string
	filesByHash       map[string]string
	metaobjectDefs    map[string]string
	metafieldDefs     map[string]string
	optionEntries     map[string]string
}

func NewClient(cfg config.ShopifyConfig, inventoryCfg config.InventoryConfig, httpClient *http.Client, logger logging.LoggerService) ClientService {
	return &Client{
		config:         cfg,
		inventory:      inventoryCfg,
		transport:      NewTransport(cfg, httpClient),
		logger:         logger,
		collections:    make(map[string]dto.CollectionRef),
		filesByURL:     make(map[string]string),
		filesByHash:    make(map[string]string),
		metaobjectDefs: make(map[string]string),
		metafieldDefs:  make(map[string]string),
		optionEntries:  make(map[string]string),
	}
}
