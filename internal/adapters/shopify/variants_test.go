package shopify

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shopify-migrator/internal/domain/model"
)

type restCall struct {
	method string
	path   string
	body   map[string]any
}

// scriptedShopify answers GraphQL calls from responses in order and
// records REST calls as they come.
func scriptedShopify(t *testing.T, calls *[]graphqlCall, rest *[]restCall, responses []string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)

		if !strings.HasSuffix(r.URL.Path, "/graphql.json") {
			var decoded map[string]any
			if len(body) > 0 {
				require.NoError(t, json.Unmarshal(body, &decoded))
			}
			*rest = append(*rest, restCall{method: r.Method, path: r.URL.Path, body: decoded})
			w.Write([]byte(`{}`))
			return
		}

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

func TestFindProductByHandleDecodesLegacyID(t *testing.T) {
	var calls []graphqlCall
	server := scriptedGraphQL(t, &calls, []string{
		`{"data":{"productByHandle":{
			"id":"gid://shopify/Product/9","legacyResourceId":"4242",
			"handle":"scarpa_9","title":"Scarpa","status":"ACTIVE",
			"media":{"nodes":[]},"options":[]
		}}}`,
	})
	defer server.Close()

	c, _ := newTestClient(server.URL)

	existing, found, err := c.FindProductByHandle(context.Background(), "scarpa_9")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, int64(4242), existing.LegacyID)
	assert.Equal(t, "gid://shopify/Product/9", existing.ID)
}

const linkedSnapshotResponse = `{"data":{"product":{
	"id":"gid://shopify/Product/1","legacyResourceId":"1","handle":"h","title":"T","status":"ACTIVE",
	"options":[{
		"id":"gid://shopify/ProductOption/1","name":"Colore","position":1,
		"optionValues":[{"id":"gid://shopify/ProductOptionValue/5","name":"Rosso","linkedMetafieldValue":"gid://shopify/Metaobject/77"}]
	}],
	"variants":{"nodes":[
		{"id":"gid://shopify/ProductVariant/1","legacyResourceId":"11","sku":"SC-R","inventoryItem":{"id":"gid://shopify/InventoryItem/100"},"selectedOptions":[{"name":"Colore","value":"Rosso"}]}
	],"pageInfo":{"hasNextPage":false,"endCursor":""}}
}}}`

// The source still says "Red" while the merchant relabeled the linked
// value to "Rosso". The entry GID carries the identity, so the variant
// must patch in place instead of minting a duplicate.
func TestUpsertVariantsMatchesThroughEntryGIDAfterRelabel(t *testing.T) {
	var calls []graphqlCall
	var rest []restCall
	server := scriptedShopify(t, &calls, &rest, []string{
		linkedSnapshotResponse,
		`{"data":{"metaobjectDefinitionByType":{"id":"gid://shopify/MetaobjectDefinition/1"}}}`,
		`{"data":{"metafieldDefinitions":{"nodes":[{"id":"gid://shopify/MetafieldDefinition/1","key":"colore"}]}}}`,
		`{"data":{"metaobjectByHandle":{"id":"gid://shopify/Metaobject/77"}}}`,
	})
	defer server.Close()

	c, _ := newTestClient(server.URL)

	p := &model.ProductPayload{
		Options: []model.OptionGroup{
			{Name: "Colore", Values: []model.OptionValue{
				{Group: "Colore", Value: "Red", AttributeID: 7},
			}},
		},
		Variants: []model.VariantPayload{
			{SKU: "SC-R", Price: 10, OptionValues: []string{"Red"}},
		},
	}

	err := c.UpsertVariants(context.Background(), "gid://shopify/Product/1", p)
	require.NoError(t, err)
	require.Len(t, calls, 4, "no bulk create after a match")

	// the entry handle couples label slug and attribute id
	handle := calls[3].variables["handle"].(map[string]any)
	assert.Equal(t, "red_7", handle["handle"])

	require.Len(t, rest, 1)
	assert.Equal(t, http.MethodPut, rest[0].method)
	assert.Contains(t, rest[0].path, "/variants/11.json")
	variant := rest[0].body["variant"].(map[string]any)
	assert.Equal(t, "SC-R", variant["sku"])
}

func TestPatchDefaultVariantCarriesWeight(t *testing.T) {
	var calls []graphqlCall
	server := scriptedGraphQL(t, &calls, []string{
		snapshotResponse,
		`{"data":{"productVariantsBulkUpdate":{"productVariants":[{"id":"gid://shopify/ProductVariant/1"}],"userErrors":[]}}}`,
	})
	defer server.Close()

	c, _ := newTestClient(server.URL)

	p := &model.ProductPayload{Reference: "SC", Price: 10, WeightKg: 0.8}
	err := c.UpsertVariants(context.Background(), "gid://shopify/Product/1", p)
	require.NoError(t, err)
	require.Len(t, calls, 2)

	variants := calls[1].variables["variants"].([]any)
	require.Len(t, variants, 1)
	item := variants[0].(map[string]any)["inventoryItem"].(map[string]any)
	weight := item["measurement"].(map[string]any)["weight"].(map[string]any)
	assert.Equal(t, "KILOGRAMS", weight["unit"])
	assert.Equal(t, 0.8, weight["value"])
}

func TestWeightMeasurement(t *testing.T) {
	assert.Nil(t, weightMeasurement(0))
	assert.Nil(t, weightMeasurement(-1))

	m := weightMeasurement(1.25)
	require.NotNil(t, m)
	assert.Equal(t, "KILOGRAMS", m.Weight.Unit)
	assert.Equal(t, 1.25, m.Weight.Value)
}

func TestDisplayedValues(t *testing.T) {
	byPosition := []map[string]string{
		{"red": "Rosso"},
	}

	assert.Equal(t, []string{"Rosso", "42"}, displayedValues(byPosition, []string{"Red", "42"}))
	assert.Equal(t, []string{"Blu"}, displayedValues(byPosition, []string{"Blu"}), "unknown values keep the source text")
}
