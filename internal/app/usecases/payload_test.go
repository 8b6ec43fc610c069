package usecases

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shopify-migrator/internal/config"
	"shopify-migrator/internal/domain/model"
)

// payloadSource scripts the per-product reads.
type payloadSource struct {
	fakeSource
	texts         map[string]model.TextBundle
	images        []string
	combinations  []model.Combination
	categories    []model.Category
	variantTitles map[string]map[string]string
}

func (f *payloadSource) TextsByLocale(_ context.Context, _ int64) (map[string]model.TextBundle, error) {
	return f.texts, nil
}

func (f *payloadSource) ImageURLs(_ context.Context, _ int64) ([]string, error) {
	return f.images, nil
}

func (f *payloadSource) Combinations(_ context.Context, _ int64) ([]model.Combination, error) {
	return f.combinations, nil
}

func (f *payloadSource) CategoriesForProduct(_ context.Context, _ int64) ([]model.Category, error) {
	return f.categories, nil
}

func (f *payloadSource) VariantTitlesByLocale(_ context.Context, _ int64) (map[string]map[string]string, error) {
	return f.variantTitles, nil
}

func testPsConfig() config.PrestashopConfig {
	return config.PrestashopConfig{
		TablePrefix:     "ps_",
		BaseURL:         "https://shop.example.com",
		LangMap:         map[int64]string{1: "it", 2: "en"},
		PrimaryLangID:   1,
		PriceMultiplier: 1.22,
	}
}

func TestBuildAppliesPriceMultiplier(t *testing.T) {
	src := &payloadSource{
		texts: map[string]model.TextBundle{
			"it": {Title: "Scarpa", Slug: "scarpa", Handle: "scarpa_42"},
		},
	}
	builder := NewPayloadBuilder(src, testPsConfig())

	p, err := builder.Build(context.Background(), model.SourceProduct{ID: 42, Price: 100}, model.DefaultSyncFilter())
	require.NoError(t, err)

	assert.Equal(t, 122.0, p.Price)
	assert.Equal(t, "scarpa_42", p.Handle)
	assert.Equal(t, "Scarpa", p.Title)
	assert.Equal(t, "it", p.PrimaryLocale)
}

func TestBuildRoundsPrices(t *testing.T) {
	src := &payloadSource{
		texts: map[string]model.TextBundle{"it": {Title: "X", Handle: "x_1"}},
	}
	builder := NewPayloadBuilder(src, testPsConfig())

	p, err := builder.Build(context.Background(), model.SourceProduct{ID: 1, Price: 9.99}, model.DefaultSyncFilter())
	require.NoError(t, err)
	assert.Equal(t, 12.19, p.Price)
}

func TestBuildTagsFromCategories(t *testing.T) {
	src := &payloadSource{
		texts: map[string]model.TextBundle{"it": {Title: "X", Handle: "x_1"}},
		categories: []model.Category{
			{ID: 3, Title: "Scarpe", Handle: "scarpe"},
			{ID: 9, Title: "Trekking", Handle: "trekking"},
		},
	}
	builder := NewPayloadBuilder(src, testPsConfig())

	p, err := builder.Build(context.Background(), model.SourceProduct{ID: 1}, model.DefaultSyncFilter())
	require.NoError(t, err)
	assert.Equal(t, []string{"Scarpe", "Trekking"}, p.Tags)
	assert.Len(t, p.Categories, 2)
}

func TestBuildVariantsAndOptionGroups(t *testing.T) {
	src := &payloadSource{
		texts: map[string]model.TextBundle{"it": {Title: "Scarpa", Handle: "scarpa_1"}},
		combinations: []model.Combination{
			{
				ID: 10, SKU: "SC-R-42", PriceImpact: 5, Quantity: 2,
				Values: []model.OptionValue{
					{Group: "Colore", Value: "Rosso", AttributeID: 1, GroupID: 1, IsColor: true},
					{Group: "Taglia", Value: "42", AttributeID: 7, GroupID: 2},
				},
			},
			{
				ID: 11, SKU: "SC-R-43", PriceImpact: 5, Quantity: 0,
				Values: []model.OptionValue{
					{Group: "Colore", Value: "Rosso", AttributeID: 1, GroupID: 1, IsColor: true},
					{Group: "Taglia", Value: "43", AttributeID: 8, GroupID: 2},
				},
			},
		},
	}
	builder := NewPayloadBuilder(src, testPsConfig())
	filter := model.DefaultSyncFilter()
	filter.SyncTranslations = false

	p, err := builder.Build(context.Background(), model.SourceProduct{ID: 1, Reference: "SC", Price: 10}, filter)
	require.NoError(t, err)

	require.Len(t, p.Options, 2)
	assert.Equal(t, "Colore", p.Options[0].Name)
	assert.True(t, p.Options[0].IsColor)
	require.Len(t, p.Options[0].Values, 1, "duplicate values collapse per group")
	assert.Equal(t, "Taglia", p.Options[1].Name)
	assert.Len(t, p.Options[1].Values, 2)

	require.Len(t, p.Variants, 2)
	assert.Equal(t, "SC-R-42", p.Variants[0].SKU)
	assert.Equal(t, 18.3, p.Variants[0].Price, "impact added before the multiplier")
	assert.Equal(t, []string{"Rosso", "42"}, p.Variants[0].OptionValues)
	assert.Equal(t, []string{"Rosso", "43"}, p.Variants[1].OptionValues)
}

func TestBuildCarriesWeights(t *testing.T) {
	src := &payloadSource{
		texts: map[string]model.TextBundle{"it": {Title: "Scarpa", Handle: "scarpa_1"}},
		combinations: []model.Combination{
			{
				ID: 10, SKU: "SC-42", WeightImpact: 0.25,
				Values: []model.OptionValue{{Group: "Taglia", Value: "42"}},
			},
		},
	}
	builder := NewPayloadBuilder(src, testPsConfig())
	filter := model.DefaultSyncFilter()
	filter.SyncTranslations = false

	p, err := builder.Build(context.Background(), model.SourceProduct{ID: 1, Weight: 0.5}, filter)
	require.NoError(t, err)

	assert.Equal(t, 0.5, p.WeightKg)
	require.Len(t, p.Variants, 1)
	assert.Equal(t, 0.75, p.Variants[0].WeightKg, "combination impact added to the base weight")
}

func TestBuildAttachesVariantTitlesPerLocale(t *testing.T) {
	src := &payloadSource{
		texts: map[string]model.TextBundle{"it": {Title: "Scarpa", Handle: "scarpa_1"}},
		combinations: []model.Combination{
			{ID: 10, SKU: "SC-42", Values: []model.OptionValue{{Group: "Taglia", Value: "42", AttributeID: 7, GroupID: 2}}},
			{ID: 11, Values: []model.OptionValue{{Group: "Taglia", Value: "43", AttributeID: 8, GroupID: 2}}},
		},
		variantTitles: map[string]map[string]string{
			"it": {"SC-42": "Taglia 42"},
			"en": {"SC-42": "Size 42"},
		},
	}
	builder := NewPayloadBuilder(src, testPsConfig())

	p, err := builder.Build(context.Background(), model.SourceProduct{ID: 1, Reference: "SC"}, model.DefaultSyncFilter())
	require.NoError(t, err)

	require.Len(t, p.Variants, 2)
	assert.Equal(t, map[string]string{"it": "Taglia 42", "en": "Size 42"}, p.Variants[0].TitleByLocale)
	assert.Nil(t, p.Variants[1].TitleByLocale, "generated SKUs have no source titles")
}

func TestBuildSkipsVariantTitlesWhenTranslationsOff(t *testing.T) {
	src := &payloadSource{
		texts: map[string]model.TextBundle{"it": {Title: "Scarpa", Handle: "scarpa_1"}},
		combinations: []model.Combination{
			{ID: 10, SKU: "SC-42", Values: []model.OptionValue{{Group: "Taglia", Value: "42"}}},
		},
		variantTitles: map[string]map[string]string{"en": {"SC-42": "Size 42"}},
	}
	builder := NewPayloadBuilder(src, testPsConfig())
	filter := model.DefaultSyncFilter()
	filter.SyncTranslations = false

	p, err := builder.Build(context.Background(), model.SourceProduct{ID: 1}, filter)
	require.NoError(t, err)
	require.Len(t, p.Variants, 1)
	assert.Nil(t, p.Variants[0].TitleByLocale)
}

func TestBuildSkipsVariantsAndImagesWhenFiltered(t *testing.T) {
	src := &payloadSource{
		texts: map[string]model.TextBundle{"it": {Title: "Scarpa", Handle: "scarpa_1"}},
		combinations: []model.Combination{
			{ID: 10, SKU: "A", Values: []model.OptionValue{{Group: "Taglia", Value: "42"}}},
		},
	}
	builder := NewPayloadBuilder(src, testPsConfig())
	filter := model.DefaultSyncFilter()
	filter.SyncVariants = false
	filter.SyncImages = false

	p, err := builder.Build(context.Background(), model.SourceProduct{ID: 1}, filter)
	require.NoError(t, err)
	assert.Empty(t, p.Variants)
	assert.Empty(t, p.Options)
	assert.Empty(t, p.Images)
}

func TestBuildGeneratesSKUForBlankCombination(t *testing.T) {
	src := &payloadSource{
		texts: map[string]model.TextBundle{"it": {Title: "Scarpa", Handle: "scarpa_1"}},
		combinations: []model.Combination{
			{ID: 10, Values: []model.OptionValue{{Group: "Taglia", Value: "42"}}},
		},
	}
	builder := NewPayloadBuilder(src, testPsConfig())
	filter := model.DefaultSyncFilter()
	filter.SyncTranslations = false

	p, err := builder.Build(context.Background(), model.SourceProduct{ID: 1, Reference: "SC"}, filter)
	require.NoError(t, err)
	require.Len(t, p.Variants, 1)
	assert.Equal(t, "SC-10", p.Variants[0].SKU)
}
