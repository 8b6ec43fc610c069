package usecases

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shopify-migrator/internal/domain/model"
	"shopify-migrator/internal/logging"
)

// fakeSource serves a fixed product list.
type fakeSource struct {
	products []model.SourceProduct
	pageErr  error
}

func (f *fakeSource) CountFiltered(_ context.Context, _ model.SyncFilter) (int, error) {
	return len(f.products), nil
}

func (f *fakeSource) PageFiltered(_ context.Context, limit, offset int, _ model.SyncFilter) ([]model.SourceProduct, error) {
	if f.pageErr != nil {
		return nil, f.pageErr
	}
	if offset >= len(f.products) {
		return nil, nil
	}
	end := offset + limit
	if end > len(f.products) {
		end = len(f.products)
	}
	return f.products[offset:end], nil
}

func (f *fakeSource) ByIDs(_ context.Context, ids []int64) ([]model.SourceProduct, error) {
	if f.pageErr != nil {
		return nil, f.pageErr
	}
	byID := make(map[int64]model.SourceProduct)
	for _, p := range f.products {
		byID[p.ID] = p
	}
	var out []model.SourceProduct
	for _, id := range ids {
		if p, ok := byID[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeSource) TextsByLocale(_ context.Context, _ int64) (map[string]model.TextBundle, error) {
	return nil, nil
}
func (f *fakeSource) ImageURLs(_ context.Context, _ int64) ([]string, error) { return nil, nil }
func (f *fakeSource) Combinations(_ context.Context, _ int64) ([]model.Combination, error) {
	return nil, nil
}
func (f *fakeSource) CategoriesForProduct(_ context.Context, _ int64) ([]model.Category, error) {
	return nil, nil
}
func (f *fakeSource) OptionGroupTranslations(_ context.Context, _ []int64) (map[int64]map[string]string, error) {
	return nil, nil
}
func (f *fakeSource) AttributeValueTranslations(_ context.Context, _ []int64) (map[int64]map[string]string, error) {
	return nil, nil
}
func (f *fakeSource) VariantTitlesByLocale(_ context.Context, _ int64) (map[string]map[string]string, error) {
	return nil, nil
}
func (f *fakeSource) Features(_ context.Context, _ int64) ([]model.Feature, error) { return nil, nil }
func (f *fakeSource) Attachments(_ context.Context, _ int64) ([]model.Attachment, error) {
	return nil, nil
}

// fakeBuilder passes the id through.
type fakeBuilder struct {
	failFor map[int64]error
}

func (f *fakeBuilder) Build(_ context.Context, sp model.SourceProduct, _ model.SyncFilter) (*model.ProductPayload, error) {
	if err := f.failFor[sp.ID]; err != nil {
		return nil, err
	}
	return &model.ProductPayload{
		SourceID: sp.ID,
		Title:    fmt.Sprintf("Product %d", sp.ID),
		Handle:   fmt.Sprintf("product_%d", sp.ID),
	}, nil
}

// fakeUpsert succeeds unless told otherwise.
type fakeUpsert struct {
	failFor map[int64]string
	seen    []int64
}

func (f *fakeUpsert) Upsert(_ context.Context, p *model.ProductPayload, _ model.SyncFilter) *model.UpsertReport {
	f.seen = append(f.seen, p.SourceID)
	if msg, ok := f.failFor[p.SourceID]; ok {
		return &model.UpsertReport{OK: false, Error: msg}
	}
	return &model.UpsertReport{OK: true, Result: &model.ResultInfo{Action: model.ActionCreated}}
}

func sourceWith(n int) *fakeSource {
	src := &fakeSource{}
	for i := 1; i <= n; i++ {
		src.products = append(src.products, model.SourceProduct{ID: int64(i), Active: true})
	}
	return src
}

func newTestBatch(src *fakeSource, upsert *fakeUpsert) *BatchClient {
	return &BatchClient{
		source: src,
		build:  &fakeBuilder{},
		upsert: upsert,
		logger: logging.NewNopLogger(),
	}
}

func TestNextProcessesOneBatchAndAdvancesCursor(t *testing.T) {
	upsert := &fakeUpsert{}
	batch := newTestBatch(sourceWith(5), upsert)
	filter := model.DefaultSyncFilter()

	result, err := batch.Next(context.Background(), filter, 0, 2)
	require.NoError(t, err)

	assert.Equal(t, 2, result.Processed)
	assert.Equal(t, 0, result.Failed)
	assert.Equal(t, 2, result.CursorNext)
	assert.False(t, result.Finished)
	assert.Equal(t, []int64{1, 2}, upsert.seen)
}

func TestNextIsResumableFromCursorOnly(t *testing.T) {
	filter := model.DefaultSyncFilter()
	src := sourceWith(5)

	// a fresh driver per call, the cursor is the only state
	cursor := 0
	var seen []int64
	for i := 0; i < 10; i++ {
		upsert := &fakeUpsert{}
		batch := newTestBatch(src, upsert)
		result, err := batch.Next(context.Background(), filter, cursor, 2)
		require.NoError(t, err)
		seen = append(seen, upsert.seen...)
		cursor = result.CursorNext
		if result.Finished {
			break
		}
	}

	assert.Equal(t, []int64{1, 2, 3, 4, 5}, seen, "every product exactly once")
	assert.Equal(t, 5, cursor)
}

func TestNextFinishedOnShortPage(t *testing.T) {
	batch := newTestBatch(sourceWith(3), &fakeUpsert{})
	filter := model.DefaultSyncFilter()

	result, err := batch.Next(context.Background(), filter, 2, 2)
	require.NoError(t, err)
	assert.True(t, result.Finished)
	assert.Equal(t, 3, result.CursorNext)
}

func TestNextDefaultBatchSizeIsOne(t *testing.T) {
	upsert := &fakeUpsert{}
	batch := newTestBatch(sourceWith(3), upsert)

	result, err := batch.Next(context.Background(), model.DefaultSyncFilter(), 0, 0)
	require.NoError(t, err)
	assert.Len(t, upsert.seen, 1)
	assert.Equal(t, 1, result.CursorNext)
}

func TestNextLimitCapTruncatesAndFinishes(t *testing.T) {
	upsert := &fakeUpsert{}
	batch := newTestBatch(sourceWith(10), upsert)
	filter := model.DefaultSyncFilter()
	filter.Limit = 3

	result, err := batch.Next(context.Background(), filter, 2, 5)
	require.NoError(t, err)
	assert.Len(t, upsert.seen, 1, "cap leaves one slot at cursor 2")
	assert.Equal(t, 3, result.CursorNext)
	assert.True(t, result.Finished)

	// past the cap, nothing runs
	result, err = batch.Next(context.Background(), filter, 3, 5)
	require.NoError(t, err)
	assert.True(t, result.Finished)
	assert.Equal(t, 3, result.CursorNext)
}

func TestNextExplicitIDsWithMissing(t *testing.T) {
	upsert := &fakeUpsert{}
	batch := newTestBatch(sourceWith(3), upsert)
	filter := model.DefaultSyncFilter()
	filter.ProductIDs = []int64{2, 99, 3}

	result, err := batch.Next(context.Background(), filter, 0, 10)
	require.NoError(t, err)

	assert.Equal(t, 2, result.Processed)
	assert.Equal(t, 1, result.Failed)
	assert.True(t, result.HadErrors)
	assert.True(t, result.Finished)
	assert.Equal(t, 3, result.CursorNext)

	var missingItem *model.BatchItem
	for i := range result.Items {
		if result.Items[i].ProductID == 99 {
			missingItem = &result.Items[i]
		}
	}
	require.NotNil(t, missingItem)
	assert.False(t, missingItem.OK)
	assert.Contains(t, missingItem.Error, "not found")
}

func TestNextSourceFailureFailsBatch(t *testing.T) {
	src := sourceWith(3)
	src.pageErr = errors.New("mysql gone away")
	batch := newTestBatch(src, &fakeUpsert{})

	_, err := batch.Next(context.Background(), model.DefaultSyncFilter(), 0, 2)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "source read")
}

func TestNextRecordFailureDoesNotAbortBatch(t *testing.T) {
	upsert := &fakeUpsert{failFor: map[int64]string{2: "root create failed"}}
	batch := newTestBatch(sourceWith(3), upsert)

	result, err := batch.Next(context.Background(), model.DefaultSyncFilter(), 0, 3)
	require.NoError(t, err)

	assert.Equal(t, 2, result.Processed)
	assert.Equal(t, 1, result.Failed)
	assert.True(t, result.HadErrors)
	assert.Equal(t, []int64{1, 2, 3}, upsert.seen)
}

func TestCountHonorsOffsetAndLimit(t *testing.T) {
	batch := newTestBatch(sourceWith(10), &fakeUpsert{})
	filter := model.DefaultSyncFilter()

	total, err := batch.Count(context.Background(), filter)
	require.NoError(t, err)
	assert.Equal(t, 10, total)

	filter.Offset = 4
	total, err = batch.Count(context.Background(), filter)
	require.NoError(t, err)
	assert.Equal(t, 6, total)

	filter.Limit = 3
	total, err = batch.Count(context.Background(), filter)
	require.NoError(t, err)
	assert.Equal(t, 3, total)

	filter.ProductIDs = []int64{1, 2}
	total, err = batch.Count(context.Background(), filter)
	require.NoError(t, err)
	assert.Equal(t, 2, total)
}
