package shopify

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"shopify-migrator/internal/adapters/shopify/dto"
)

const variantKeySeparator = "||"

func normalizeOptionValue(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

// variantKey joins normalized option values in canonical option order.
func variantKey(values []string) string {
	normalized := make([]string, len(values))
	for i, v := range values {
		normalized[i] = normalizeOptionValue(v)
	}
	return strings.Join(normalized, variantKeySeparator)
}

// canonicalOptionOrder is the product's options sorted by position.
func canonicalOptionOrder(options []dto.ProductOption) []dto.ProductOption {
	ordered := make([]dto.ProductOption, len(options))
	copy(ordered, options)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Position < ordered[j].Position
	})
	return ordered
}

// buildVariantKeys derives the natural key of every variant from its
// currently resolved option identity. The key is computed at match
// time, a renamed display label yields a different key on the next
// run, never a stale one. Variants missing a value keep an empty
// component in its position.
func buildVariantKeys(options []dto.ProductOption, variants []dto.VariantNode) map[string]dto.ExistingVariant {
	ordered := canonicalOptionOrder(options)

	keys := make(map[string]dto.ExistingVariant, len(variants))
	for _, v := range variants {
		byOption := make(map[string]string, len(v.SelectedOptions))
		for _, so := range v.SelectedOptions {
			byOption[strings.ToLower(so.Name)] = so.Value
		}

		values := make([]string, len(ordered))
		for i, opt := range ordered {
			values[i] = byOption[strings.ToLower(opt.Name)]
		}

		key := variantKey(values)
		if _, taken := keys[key]; taken {
			// duplicate collapsed values, first variant wins
			continue
		}
		keys[key] = dto.ExistingVariant{
			ID:              v.ID,
			LegacyID:        v.LegacyResourceID,
			SKU:             v.SKU,
			InventoryItemID: v.InventoryItem.ID,
			SelectedOptions: v.SelectedOptions,
		}
	}
	return keys
}

const productWithVariantsQuery = `
query productWithVariants($id: ID!) {
	product(id: $id) {
		id
		legacyResourceId
		handle
		title
		status
		options {
			id
			name
			position
			optionValues { id name linkedMetafieldValue }
		}
		variants(first: 250) {
			nodes {
				id
				legacyResourceId
				sku
				inventoryItem { id }
				selectedOptions { name value }
			}
			pageInfo { hasNextPage endCursor }
		}
	}
}`

// productSnapshot reads the product's options and first 250 variants.
func (c *Client) productSnapshot(ctx context.Context, productGID string) (*dto.ProductNode, error) {
	var data dto.ProductWithVariantsData
	err := c.transport.GraphQL(ctx, ClassBulk, productWithVariantsQuery, map[string]any{
		"id": productGID,
	}, &data)
	if err != nil {
		return nil, err
	}
	if data.Product == nil {
		return nil, fmt.Errorf("shopify: product %s not found", productGID)
	}
	return data.Product, nil
}

func (c *Client) FindProductByHandle(ctx context.Context, handle string) (dto.ExistingProduct, bool, error) {
	query := `
query productByHandle($handle: String!) {
	productByHandle(handle: $handle) {
		id
		legacyResourceId
		handle
		title
		status
		media(first: 100) {
			nodes {
				... on MediaImage { image { url } }
			}
		}
		options {
			id
			name
			position
			optionValues { id name linkedMetafieldValue }
		}
	}
}`

	var data dto.ProductByHandleData
	err := c.transport.GraphQL(ctx, ClassBulk, query, map[string]any{
		"handle": handle,
	}, &data)
	if err != nil {
		return dto.ExistingProduct{}, false, err
	}
	if data.Product == nil {
		return dto.ExistingProduct{}, false, nil
	}

	p := data.Product
	existing := dto.ExistingProduct{
		ID:       p.ID,
		LegacyID: p.LegacyResourceID,
		Handle:   p.Handle,
		Title:    p.Title,
		Status:   p.Status,
		Options:  p.Options,
	}
	for _, m := range p.Media.Nodes {
		if m.Image != nil && m.Image.URL != "" {
			existing.ImageSrcs = append(existing.ImageSrcs, m.Image.URL)
		}
	}
	return existing, true, nil
}

// loadCollectionsCache pages every collection once per process.
// Append-only afterwards, creates register themselves.
func (c *Client) loadCollectionsCache(ctx context.Context) error {
	if c.collectionsLoaded {
		return nil
	}

	query := `
query collections($first: Int!, $after: String) {
	collections(first: $first, after: $after) {
		nodes { id handle title }
		pageInfo { hasNextPage endCursor }
	}
}`

	var cursor string
	for {
		variables := map[string]any{"first": 250}
		if cursor != "" {
			variables["after"] = cursor
		}

		var data dto.CollectionsData
		if err := c.transport.GraphQL(ctx, ClassBulk, query, variables, &data); err != nil {
			return err
		}
		for _, col := range data.Collections.Nodes {
			c.collections[col.Handle] = col
		}
		if !data.Collections.PageInfo.HasNextPage || data.Collections.PageInfo.EndCursor == "" {
			break
		}
		cursor = data.Collections.PageInfo.EndCursor
	}

	c.collectionsLoaded = true
	return nil
}

func (c *Client) findCollectionByHandle(ctx context.Context, handle string) (dto.CollectionRef, bool, error) {
	if err := c.loadCollectionsCache(ctx); err != nil {
		return dto.CollectionRef{}, false, err
	}
	col, ok := c.collections[handle]
	return col, ok, nil
}
