package usecases

import (
	"context"
	"fmt"

	"shopify-migrator/internal/adapters/prestashop"
	"shopify-migrator/internal/domain/model"
	"shopify-migrator/internal/logging"
)

// SyncBatchService is the stateless batch driver. Callers own the
// cursor, the engine never sleeps between batches.
type SyncBatchService interface {
	Count(ctx context.Context, filter model.SyncFilter) (int, error)
	Next(ctx context.Context, filter model.SyncFilter, cursor, batchSize int) (*model.BatchResult, error)
}

type BatchClient struct {
	source prestashop.ClientService
	build  payloadBuilder
	upsert UpsertProductService
	logger logging.LoggerService
}

type payloadBuilder interface {
	Build(ctx context.Context, sp model.SourceProduct, filter model.SyncFilter) (*model.ProductPayload, error)
}

func NewSyncBatch(source prestashop.ClientService, builder *PayloadBuilder, upsert UpsertProductService, logger logging.LoggerService) SyncBatchService {
	return &BatchClient{
		source: source,
		build:  builder,
		upsert: upsert,
		logger: logger,
	}
}

func (c *BatchClient) Count(ctx context.Context, filter model.SyncFilter) (int, error) {
	if len(filter.ProductIDs) > 0 {
		total := len(filter.ProductIDs)
		if filter.Limit > 0 && filter.Limit < total {
			total = filter.Limit
		}
		return total, nil
	}

	total, err := c.source.CountFiltered(ctx, filter)
	if err != nil {
		return 0, err
	}
	total -= filter.Offset
	if total < 0 {
		total = 0
	}
	if filter.Limit > 0 && filter.Limit < total {
		total = filter.Limit
	}
	return total, nil
}

// Next processes one batch starting at cursor. A source read failure
// fails the whole batch, per-record failures only mark their item.
func (c *BatchClient) Next(ctx context.Context, filter model.SyncFilter, cursor, batchSize int) (*model.BatchResult, error) {
	if batchSize <= 0 {
		batchSize = 1
	}
	if cursor < 0 {
		cursor = 0
	}

	requested := batchSize
	if filter.Limit > 0 {
		remaining := filter.Limit - cursor
		if remaining <= 0 {
			return &model.BatchResult{OK: true, CursorNext: cursor, Finished: true}, nil
		}
		if remaining < requested {
			requested = remaining
		}
	}

	result := &model.BatchResult{OK: true, CursorNext: cursor}

	var (
		products  []model.SourceProduct
		missing   []int64
		exhausted bool
		err       error
	)
	if len(filter.ProductIDs) > 0 {
		products, missing, exhausted, err = c.pageByIDs(ctx, filter, cursor, requested)
	} else {
		products, err = c.source.PageFiltered(ctx, requested, filter.Offset+cursor, filter)
		exhausted = len(products) < requested
	}
	if err != nil {
		return nil, fmt.Errorf("source read: %w", err)
	}

	for _, id := range missing {
		result.Items = append(result.Items, model.BatchItem{
			ProductID: id,
			OK:        false,
			Error:     fmt.Sprintf("product %d not found in source", id),
		})
		result.Failed++
	}

	for _, sp := range products {
		item := c.processOne(ctx, sp, filter)
		result.Items = append(result.Items, item)
		if item.OK {
			result.Processed++
		} else {
			result.Failed++
		}
	}

	result.CursorNext = cursor + len(products) + len(missing)
	result.Finished = exhausted
	if filter.Limit > 0 && result.CursorNext >= filter.Limit {
		result.Finished = true
	}
	result.HadErrors = result.Failed > 0

	return result, nil
}

// pageByIDs slices the explicit id list. Requested ids the source does
// not return become failed items, they never abort the batch.
func (c *BatchClient) pageByIDs(ctx context.Context, filter model.SyncFilter, cursor, requested int) ([]model.SourceProduct, []int64, bool, error) {
	ids := filter.ProductIDs
	if cursor >= len(ids) {
		return nil, nil, true, nil
	}
	end := cursor + requested
	if end > len(ids) {
		end = len(ids)
	}
	slice := ids[cursor:end]

	products, err := c.source.ByIDs(ctx, slice)
	if err != nil {
		return nil, nil, false, err
	}

	got := make(map[int64]bool, len(products))
	for _, p := range products {
		got[p.ID] = true
	}
	var missing []int64
	for _, id := range slice {
		if !got[id] {
			missing = append(missing, id)
		}
	}

	return products, missing, end >= len(ids), nil
}

func (c *BatchClient) processOne(ctx context.Context, sp model.SourceProduct, filter model.SyncFilter) model.BatchItem {
	payload, err := c.build.Build(ctx, sp, filter)
	if err != nil {
		c.logger.LogError(fmt.Sprintf("payload build failed ps_id=%d", sp.ID), err)
		return model.BatchItem{ProductID: sp.ID, OK: false, Error: err.Error()}
	}

	report := c.upsert.Upsert(ctx, payload, filter)
	item := model.BatchItem{ProductID: sp.ID, OK: report.OK, Report: report}
	if !report.OK {
		item.Error = report.Error
	}
	return item
}
