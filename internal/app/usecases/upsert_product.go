package usecases

import (
	"context"
	"fmt"
	"strings"
	"time"

	"shopify-migrator/internal/adapters/shopify"
	"shopify-migrator/internal/adapters/shopify/dto"
	"shopify-migrator/internal/domain/model"
	"shopify-migrator/internal/logging"
)

// ValidationError is a payload rejected before any network call.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation: %s %s", e.Field, e.Reason)
}

type UpsertProductService interface {
	Upsert(ctx context.Context, p *model.ProductPayload, filter model.SyncFilter) *model.UpsertReport
}

type UpsertClient struct {
	shopifyClient shopify.ClientService
	logger        logging.LoggerService
	now           func() time.Time
}

func NewUpsertProduct(shopifyClient shopify.ClientService, logger logging.LoggerService) UpsertProductService {
	return &UpsertClient{
		shopifyClient: shopifyClient,
		logger:        logger,
		now:           time.Now,
	}
}

// Upsert runs the per-record state machine. A root failure is fatal to
// the record, a child failure is recorded in the step list and the
// record still counts as synced.
func (c *UpsertClient) Upsert(ctx context.Context, p *model.ProductPayload, filter model.SyncFilter) *model.UpsertReport {
	report := &model.UpsertReport{}
	start := c.now()
	defer func() {
		report.TimeMS = c.now().Sub(start).Milliseconds()
	}()

	if err := validatePayload(p); err != nil {
		report.AddStep("validate", false, 0, err)
		report.Error = err.Error()
		return report
	}

	if filter.DryRun {
		c.logger.Log(fmt.Sprintf("dry-run product ps_id=%d handle=%s variants=%d", p.SourceID, p.Handle, len(p.Variants)))
		report.AddStep("dry-run", true, 0, nil)
		report.OK = true
		report.Result = &model.ResultInfo{Action: model.ActionDryRun}
		return report
	}

	var (
		existing dto.ExistingProduct
		found    bool
	)
	if !filter.InsertOnly {
		ok := c.fatalStep(report, "findProductByHandle", func() error {
			var stepErr error
			existing, found, stepErr = c.shopifyClient.FindProductByHandle(ctx, p.Handle)
			return stepErr
		})
		if !ok {
			return report
		}
	}

	var productGID string
	action := model.ActionCreated
	if found {
		action = model.ActionUpdated
		productGID = existing.ID
		if !c.fatalStep(report, "updateProduct", func() error {
			return c.shopifyClient.UpdateProduct(ctx, existing, p)
		}) {
			return report
		}
	} else {
		if !c.fatalStep(report, "createProduct", func() error {
			gid, err := c.shopifyClient.CreateProduct(ctx, p)
			productGID = gid
			return err
		}) {
			return report
		}
	}

	report.OK = true
	report.Result = &model.ResultInfo{Action: action, ProductID: productGID}

	c.syncChildren(ctx, report, productGID, existing, found, p, filter)

	c.logger.Log(fmt.Sprintf("product synced ps_id=%d action=%s gid=%s", p.SourceID, action, productGID))
	return report
}

// syncChildren runs every child step best-effort.
func (c *UpsertClient) syncChildren(ctx context.Context, report *model.UpsertReport, productGID string, existing dto.ExistingProduct, found bool, p *model.ProductPayload, filter model.SyncFilter) {
	if found && filter.SyncVariants {
		c.childStep(report, "variantsUpsert", p, func() error {
			return c.shopifyClient.UpsertVariants(ctx, productGID, p)
		})
	}

	if filter.SyncImages {
		c.childStep(report, "addImages", p, func() error {
			return c.shopifyClient.AddImages(ctx, productGID, existing.ImageSrcs, p)
		})
	}

	c.childStep(report, "redirects", p, func() error {
		return c.shopifyClient.SyncRedirects(ctx, p)
	})

	if filter.SyncTranslations {
		c.childStep(report, "translations", p, func() error {
			return c.shopifyClient.SyncTranslations(ctx, productGID, p)
		})
		c.childStep(report, "optionTranslations", p, func() error {
			return c.shopifyClient.SyncOptionTranslations(ctx, productGID, p)
		})
	}

	c.childStep(report, "variantTextures", p, func() error {
		return c.shopifyClient.SyncVariantTextures(ctx, productGID, p)
	})

	c.childStep(report, "collections", p, func() error {
		return c.shopifyClient.SyncCollections(ctx, productGID, p)
	})

	c.childStep(report, "featureMetafields", p, func() error {
		return c.shopifyClient.SyncFeatureMetafields(ctx, productGID, p)
	})

	c.childStep(report, "attachments", p, func() error {
		return c.shopifyClient.SyncAttachments(ctx, productGID, p)
	})

	if filter.SyncInventory {
		c.childStep(report, "setInventory", p, func() error {
			return c.shopifyClient.SetInventory(ctx, productGID, p)
		})
	}
}

func validatePayload(p *model.ProductPayload) error {
	if strings.TrimSpace(p.Title) == "" {
		return &ValidationError{Field: "title", Reason: "is empty"}
	}
	if strings.TrimSpace(p.Handle) == "" {
		return &ValidationError{Field: "handle", Reason: "is empty"}
	}
	return nil
}

// fatalStep records the step and returns false when the record must
// stop.
func (c *UpsertClient) fatalStep(report *model.UpsertReport, step string, fn func() error) bool {
	start := c.now()
	err := fn()
	duration := c.now().Sub(start).Milliseconds()
	report.AddStep(step, err == nil, duration, err)
	if err != nil {
		report.Error = err.Error()
		c.logger.LogError(fmt.Sprintf("step %s failed", step), err)
		return false
	}
	return true
}

// childStep records the step but never fails the record.
func (c *UpsertClient) childStep(report *model.UpsertReport, step string, p *model.ProductPayload, fn func() error) {
	start := c.now()
	err := fn()
	duration := c.now().Sub(start).Milliseconds()
	report.AddStep(step, err == nil, duration, err)
	if err != nil {
		c.logger.LogWarning(fmt.Sprintf("child step %s failed for ps_id=%d: %v", step, p.SourceID, err))
	}
}
