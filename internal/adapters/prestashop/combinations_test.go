package prestashop

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shopify-migrator/internal/config"
)

func TestParseOptionValues(t *testing.T) {
	packed := "Colore::Rosso::15::3::1::#FF0000|||Taglia::42::88::5::0::"

	values, err := parseOptionValues(packed)
	require.NoError(t, err)
	require.Len(t, values, 2)

	assert.Equal(t, "Colore", values[0].Group)
	assert.Equal(t, "Rosso", values[0].Value)
	assert.Equal(t, int64(15), values[0].AttributeID)
	assert.Equal(t, int64(3), values[0].GroupID)
	assert.True(t, values[0].IsColor)
	assert.Equal(t, "#FF0000", values[0].ColorHex)

	assert.Equal(t, "Taglia", values[1].Group)
	assert.False(t, values[1].IsColor)
	assert.Empty(t, values[1].ColorHex)
}

func TestParseOptionValuesEmpty(t *testing.T) {
	values, err := parseOptionValues("")
	require.NoError(t, err)
	assert.Empty(t, values)
}

func TestParseOptionValuesMalformed(t *testing.T) {
	_, err := parseOptionValues("Colore::Rosso")
	assert.Error(t, err)
}

func TestImageURL(t *testing.T) {
	c := &Client{config: config.PrestashopConfig{BaseURL: "https://shop.example.com/"}}

	assert.Equal(t, "https://shop.example.com/img/p/1/2/3/4/5/12345.jpg", c.imageURL(12345))
	assert.Equal(t, "https://shop.example.com/img/p/7/7.jpg", c.imageURL(7))
}
