package shopify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shopify-migrator/internal/adapters/shopify/dto"
)

func TestVariantKeyNormalization(t *testing.T) {
	assert.Equal(t, "rosso||42", variantKey([]string{" Rosso ", "42"}))
	assert.Equal(t, "rosso||42", variantKey([]string{"ROSSO", "42"}))
	assert.NotEqual(t, variantKey([]string{"rosso", "42"}), variantKey([]string{"42", "rosso"}))
}

func testOptions() []dto.ProductOption {
	return []dto.ProductOption{
		{ID: "gid://shopify/ProductOption/2", Name: "Taglia", Position: 2},
		{ID: "gid://shopify/ProductOption/1", Name: "Colore", Position: 1},
	}
}

func TestBuildVariantKeysCanonicalOrder(t *testing.T) {
	variants := []dto.VariantNode{
		{
			ID:  "gid://shopify/ProductVariant/11",
			SKU: "TSHIRT-R-42",
			SelectedOptions: []dto.SelectedOption{
				{Name: "Taglia", Value: "42"},
				{Name: "Colore", Value: "Rosso"},
			},
		},
	}

	keys := buildVariantKeys(testOptions(), variants)
	require.Len(t, keys, 1)

	// canonical order is by option position, not selectedOptions order
	v, ok := keys["rosso||42"]
	require.True(t, ok)
	assert.Equal(t, "TSHIRT-R-42", v.SKU)
}

func TestBuildVariantKeysUsesCurrentLabels(t *testing.T) {
	variants := []dto.VariantNode{
		{
			ID: "gid://shopify/ProductVariant/11",
			SelectedOptions: []dto.SelectedOption{
				{Name: "Colore", Value: "Rosso Scuro"},
				{Name: "Taglia", Value: "42"},
			},
		},
	}

	keys := buildVariantKeys(testOptions(), variants)
	_, hasOld := keys["rosso||42"]
	_, hasCurrent := keys["rosso scuro||42"]
	assert.False(t, hasOld, "keys are derived from the value's current identity")
	assert.True(t, hasCurrent)
}

func TestBuildVariantKeysMissingValueHoldsPosition(t *testing.T) {
	variants := []dto.VariantNode{
		{
			ID: "gid://shopify/ProductVariant/11",
			SelectedOptions: []dto.SelectedOption{
				{Name: "Colore", Value: "Rosso"},
			},
		},
	}

	keys := buildVariantKeys(testOptions(), variants)
	_, ok := keys["rosso||"]
	assert.True(t, ok, "missing value keeps an empty component in its position")
}

func TestBuildVariantKeysDuplicateFirstWins(t *testing.T) {
	variants := []dto.VariantNode{
		{
			ID:  "gid://shopify/ProductVariant/1",
			SKU: "FIRST",
			SelectedOptions: []dto.SelectedOption{
				{Name: "Colore", Value: "Rosso"},
				{Name: "Taglia", Value: "42"},
			},
		},
		{
			ID:  "gid://shopify/ProductVariant/2",
			SKU: "SECOND",
			SelectedOptions: []dto.SelectedOption{
				{Name: "Colore", Value: "rosso "},
				{Name: "Taglia", Value: " 42"},
			},
		},
	}

	keys := buildVariantKeys(testOptions(), variants)
	require.Len(t, keys, 1)
	assert.Equal(t, "FIRST", keys["rosso||42"].SKU)
}

func TestResolveOptionValueIDPrefersEntryGID(t *testing.T) {
	opt := dto.ProductOption{
		Name: "Colore",
		Values: []dto.OptionValueRef{
			{ID: "gid://1", Name: "Rosso scuro", LinkedMetafieldValue: "gid://shopify/Metaobject/77"},
			{ID: "gid://2", Name: "Rosso"},
		},
	}

	// the entry GID wins even when another value's name matches
	gid, found := resolveOptionValueID(opt, "gid://shopify/Metaobject/77", "Rosso")
	require.True(t, found)
	assert.Equal(t, "gid://1", gid)
}

func TestResolveOptionValueIDFallsBackToName(t *testing.T) {
	opt := dto.ProductOption{
		Name: "Taglia",
		Values: []dto.OptionValueRef{
			{ID: "gid://9", Name: "42"},
		},
	}

	gid, found := resolveOptionValueID(opt, "", " 42 ")
	require.True(t, found)
	assert.Equal(t, "gid://9", gid)

	_, found = resolveOptionValueID(opt, "", "43")
	assert.False(t, found)

	// an unknown entry GID still falls through to the name
	gid, found = resolveOptionValueID(opt, "gid://shopify/Metaobject/99", "42")
	require.True(t, found)
	assert.Equal(t, "gid://9", gid)
}

func TestOptionValueDisplay(t *testing.T) {
	opt := dto.ProductOption{
		Name: "Colore",
		Values: []dto.OptionValueRef{
			{ID: "gid://1", Name: "Rosso", LinkedMetafieldValue: "gid://shopify/Metaobject/77"},
		},
	}

	assert.Equal(t, "Rosso", optionValueDisplay(opt, "gid://shopify/Metaobject/77"))
	assert.Equal(t, "", optionValueDisplay(opt, "gid://shopify/Metaobject/99"))
	assert.Equal(t, "", optionValueDisplay(opt, ""))
}

func TestHandleize(t *testing.T) {
	assert.Equal(t, "colore-principale", handleize("Colore Principale"))
	assert.Equal(t, "taglia-42", handleize("  Taglia/42! "))
}

func TestImageBasename(t *testing.T) {
	assert.Equal(t, "123.jpg", imageBasename("https://shop.example.com/img/p/1/2/3/123.jpg"))
	assert.Equal(t, "123.jpg", imageBasename("https://cdn.shopify.com/s/files/123_abc123.jpg"))
}
