package shopify

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"shopify-migrator/internal/adapters/shopify/dto"
	"shopify-migrator/internal/domain/model"
)

const inventoryChunkSize = 75

const itemNotStockedCode = "ITEM_NOT_STOCKED_AT_LOCATION"

type inventoryQuantity struct {
	InventoryItemID string
	Quantity        int
}

// SetInventory pushes absolute quantities for every variant of the
// product. Items the location does not stock yet are activated there
// and the affected subset resubmitted once.
func (c *Client) SetInventory(ctx context.Context, productGID string, p *model.ProductPayload) error {
	if c.config.LocationID == "" {
		return fmt.Errorf("shopify: no location configured for inventory")
	}

	snapshot, err := c.productSnapshot(ctx, productGID)
	if err != nil {
		return err
	}

	quantities := c.collectQuantities(snapshot, p)
	if len(quantities) == 0 {
		return nil
	}

	for start := 0; start < len(quantities); start += inventoryChunkSize {
		end := start + inventoryChunkSize
		if end > len(quantities) {
			end = len(quantities)
		}
		if err := c.setQuantitiesChunk(ctx, quantities[start:end]); err != nil {
			return err
		}
	}
	return nil
}

func (c *Client) collectQuantities(snapshot *dto.ProductNode, p *model.ProductPayload) []inventoryQuantity {
	bySKU := make(map[string]int, len(p.Variants))
	for _, v := range p.Variants {
		bySKU[strings.ToLower(v.SKU)] = c.effectiveQuantity(v.Quantity)
	}

	var quantities []inventoryQuantity
	for _, node := range snapshot.Variants.Nodes {
		if node.InventoryItem.ID == "" {
			continue
		}
		qty, ok := bySKU[strings.ToLower(node.SKU)]
		if !ok {
			if len(p.Variants) > 0 {
				continue
			}
			// optionless product, the default variant carries the base quantity
			qty = c.effectiveQuantity(p.Quantity)
		}
		quantities = append(quantities, inventoryQuantity{
			InventoryItemID: node.InventoryItem.ID,
			Quantity:        qty,
		})
	}
	return quantities
}

func (c *Client) effectiveQuantity(sourceQty int) int {
	if sourceQty > 0 && c.inventory.DefaultQtyIfInStock > 0 {
		return c.inventory.DefaultQtyIfInStock
	}
	if sourceQty < 0 {
		return 0
	}
	return sourceQty
}

const inventorySetQuery = `
mutation inventorySetQuantities($input: InventorySetQuantitiesInput!) {
	inventorySetQuantities(input: $input) {
		userErrors { field message code }
	}
}`

func (c *Client) setQuantitiesChunk(ctx context.Context, chunk []inventoryQuantity) error {
	userErrors, err := c.setQuantitiesOnce(ctx, chunk)
	if err != nil {
		return err
	}
	if len(userErrors) == 0 {
		return nil
	}

	notStocked := notStockedIndexes(userErrors)
	if len(notStocked) == 0 {
		return userErrorsToError("inventorySetQuantities", userErrors)
	}

	// activate each missing item at the location, then resubmit only
	// the items that failed
	retry := make([]inventoryQuantity, 0, len(notStocked))
	for _, idx := range notStocked {
		if idx < 0 || idx >= len(chunk) {
			continue
		}
		if err := c.activateInventoryItem(ctx, chunk[idx].InventoryItemID); err != nil {
			return fmt.Errorf("inventoryActivate: %w", err)
		}
		retry = append(retry, chunk[idx])
	}
	if len(retry) == 0 {
		return userErrorsToError("inventorySetQuantities", userErrors)
	}

	retryErrors, err := c.setQuantitiesOnce(ctx, retry)
	if err != nil {
		return err
	}
	return userErrorsToError("inventorySetQuantities retry", retryErrors)
}

func (c *Client) setQuantitiesOnce(ctx context.Context, chunk []inventoryQuantity) ([]dto.UserError, error) {
	quantities := make([]dto.InventoryQuantityInput, 0, len(chunk))
	for _, q := range chunk {
		quantities = append(quantities, dto.InventoryQuantityInput{
			InventoryItemID: q.InventoryItemID,
			LocationID:      c.config.LocationID,
			Quantity:        q.Quantity,
		})
	}

	var data dto.InventorySetData
	err := c.transport.GraphQL(ctx, ClassInventory, inventorySetQuery, map[string]any{
		"input": dto.InventorySetQuantitiesInput{
			Name:                  "available",
			Reason:                "correction",
			IgnoreCompareQuantity: true,
			Quantities:            quantities,
		},
	}, &data)
	if err != nil {
		return nil, err
	}
	return data.InventorySetQuantities.UserErrors, nil
}

// notStockedIndexes extracts the quantities index from userError field
// paths like input.quantities.3.inventoryItemId.
func notStockedIndexes(userErrors []dto.UserError) []int {
	var indexes []int
	seen := make(map[int]bool)
	for _, ue := range userErrors {
		if !strings.EqualFold(ue.Code, itemNotStockedCode) {
			continue
		}
		for i, field := range ue.Field {
			if field != "quantities" || i+1 >= len(ue.Field) {
				continue
			}
			idx, err := strconv.Atoi(ue.Field[i+1])
			if err != nil || seen[idx] {
				continue
			}
			seen[idx] = true
			indexes = append(indexes, idx)
		}
	}
	return indexes
}

func (c *Client) activateInventoryItem(ctx context.Context, inventoryItemID string) error {
	query := `
mutation inventoryActivate($inventoryItemId: ID!, $locationId: ID!) {
	inventoryActivate(inventoryItemId: $inventoryItemId, locationId: $locationId) {
		inventoryLevel { id }
		userErrors { field message }
	}
}`

	var data dto.InventoryActivateData
	err := c.transport.GraphQL(ctx, ClassInventory, query, map[string]any{
		"inventoryItemId": inventoryItemID,
		"locationId":      c.config.LocationID,
	}, &data)
	if err != nil {
		return err
	}
	return benignUserErrors("inventoryActivate", data.InventoryActivate.UserErrors)
}
