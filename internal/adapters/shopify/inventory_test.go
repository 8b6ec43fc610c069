package shopify

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shopify-migrator/internal/adapters/shopify/dto"
	"shopify-migrator/internal/config"
	"shopify-migrator/internal/domain/model"
	"shopify-migrator/internal/logging"
)

type graphqlCall struct {
	query     string
	variables map[string]any
}

func newTestClient(serverURL string) (*Client, *fakeClock) {
	cfg := config.ShopifyConfig{
		ShopDomain:      serverURL,
		Token:           "test-token",
		APIVer:          "2024-10",
		LocationID:      "gid://shopify/Location/1",
		InventoryPolicy: "DENY",
		MaxRetries:      2,
	}
	clock := newFakeClock()
	c := NewClient(cfg, config.InventoryConfig{TrackInventory: true}, &http.Client{Timeout: 5 * time.Second}, logging.NewNopLogger()).(*Client)
	c.transport.sleep = clock.Sleep
	c.transport.limiter.now = clock.Now
	c.transport.limiter.sleep = clock.Sleep
	return c, clock
}

// scriptedGraphQL answers each call from responses in order and
// records what was asked.
func scriptedGraphQL(t *testing.T, calls *[]graphqlCall, responses []string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)

		var req struct {
			Query     string         `json:"query"`
			Variables map[string]any `json:"variables"`
		}
		require.NoError(t, json.Unmarshal(body, &req))
		*calls = append(*calls, graphqlCall{query: req.Query, variables: req.Variables})

		idx := len(*calls) - 1
		require.Less(t, idx, len(responses), "unexpected extra call: %s", req.Query)
		w.Write([]byte(responses[idx]))
	}))
}

const snapshotResponse = `{"data":{"product":{
	"id":"gid://shopify/Product/1","legacyResourceId":"1","handle":"h","title":"T","status":"ACTIVE",
	"options":[],
	"variants":{"nodes":[
		{"id":"gid://shopify/ProductVariant/1","legacyResourceId":"11","sku":"SKU-A","inventoryItem":{"id":"gid://shopify/InventoryItem/100"},"selectedOptions":[]},
		{"id":"gid://shopify/ProductVariant/2","legacyResourceId":"12","sku":"SKU-B","inventoryItem":{"id":"gid://shopify/InventoryItem/200"},"selectedOptions":[]}
	],"pageInfo":{"hasNextPage":false,"endCursor":""}}
}}}`

func inventoryPayload() *model.ProductPayload {
	return &model.ProductPayload{
		SourceID: 1,
		Variants: []model.VariantPayload{
			{SKU: "SKU-A", Quantity: 5},
			{SKU: "SKU-B", Quantity: 3},
		},
	}
}

func TestSetInventoryHappyPath(t *testing.T) {
	var calls []graphqlCall
	server := scriptedGraphQL(t, &calls, []string{
		snapshotResponse,
		`{"data":{"inventorySetQuantities":{"userErrors":[]}}}`,
	})
	defer server.Close()

	c, _ := newTestClient(server.URL)

	err := c.SetInventory(context.Background(), "gid://shopify/Product/1", inventoryPayload())
	require.NoError(t, err)
	require.Len(t, calls, 2)

	assert.Contains(t, calls[1].query, "inventorySetQuantities")
	input := calls[1].variables["input"].(map[string]any)
	assert.Equal(t, true, input["ignoreCompareQuantity"])
	quantities := input["quantities"].([]any)
	assert.Len(t, quantities, 2)
}

func TestSetInventoryActivatesUnstockedItems(t *testing.T) {
	var calls []graphqlCall
	server := scriptedGraphQL(t, &calls, []string{
		snapshotResponse,
		`{"data":{"inventorySetQuantities":{"userErrors":[
			{"field":["input","quantities","1","inventoryItemId"],"message":"not stocked","code":"ITEM_NOT_STOCKED_AT_LOCATION"}
		]}}}`,
		`{"data":{"inventoryActivate":{"inventoryLevel":{"id":"gid://shopify/InventoryLevel/1"},"userErrors":[]}}}`,
		`{"data":{"inventorySetQuantities":{"userErrors":[]}}}`,
	})
	defer server.Close()

	c, _ := newTestClient(server.URL)

	err := c.SetInventory(context.Background(), "gid://shopify/Product/1", inventoryPayload())
	require.NoError(t, err)
	require.Len(t, calls, 4)

	assert.Contains(t, calls[2].query, "inventoryActivate")
	assert.Equal(t, "gid://shopify/InventoryItem/200", calls[2].variables["inventoryItemId"])

	// resubmit carries only the activated item
	retryInput := calls[3].variables["input"].(map[string]any)
	retryQuantities := retryInput["quantities"].([]any)
	require.Len(t, retryQuantities, 1)
	item := retryQuantities[0].(map[string]any)
	assert.Equal(t, "gid://shopify/InventoryItem/200", item["inventoryItemId"])
}

func TestSetInventoryOtherUserErrorsSurface(t *testing.T) {
	var calls []graphqlCall
	server := scriptedGraphQL(t, &calls, []string{
		snapshotResponse,
		`{"data":{"inventorySetQuantities":{"userErrors":[
			{"field":["input"],"message":"something else","code":"INVALID"}
		]}}}`,
	})
	defer server.Close()

	c, _ := newTestClient(server.URL)

	err := c.SetInventory(context.Background(), "gid://shopify/Product/1", inventoryPayload())
	require.Error(t, err)
	assert.False(t, IsTransportError(err))
	assert.True(t, strings.Contains(err.Error(), "something else"))
}

func TestEffectiveQuantityDefaultOverride(t *testing.T) {
	c := &Client{inventory: config.InventoryConfig{DefaultQtyIfInStock: 50}}
	assert.Equal(t, 50, c.effectiveQuantity(3), "in stock uses the configured default")
	assert.Equal(t, 0, c.effectiveQuantity(0))
	assert.Equal(t, 0, c.effectiveQuantity(-4))

	c = &Client{}
	assert.Equal(t, 3, c.effectiveQuantity(3))
}

func TestNotStockedIndexes(t *testing.T) {
	userErrors := []dto.UserError{
		{Field: []string{"input", "quantities", "0", "inventoryItemId"}, Code: "ITEM_NOT_STOCKED_AT_LOCATION"},
		{Field: []string{"input", "quantities", "2"}, Code: "ITEM_NOT_STOCKED_AT_LOCATION"},
		{Field: []string{"input", "quantities", "1"}, Code: "OTHER"},
		{Field: []string{"input", "quantities", "0"}, Code: "ITEM_NOT_STOCKED_AT_LOCATION"},
	}

	assert.Equal(t, []int{0, 2}, notStockedIndexes(userErrors))
}
