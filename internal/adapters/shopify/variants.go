package shopify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"shopify-migrator/internal/adapters/shopify/dto"
	"shopify-migrator/internal/domain/model"
)

const variantCreateChunkSize = 250

const weightUnitKilograms = "KILOGRAMS"

func jsonStringList(values []string) (string, error) {
	b, err := json.Marshal(values)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func formatPrice(price float64) string {
	return strconv.FormatFloat(price, 'f', 2, 64)
}

func weightMeasurement(kg float64) *dto.InventoryItemMeasurementInput {
	if kg <= 0 {
		return nil
	}
	return &dto.InventoryItemMeasurementInput{
		Weight: &dto.WeightInput{Unit: weightUnitKilograms, Value: kg},
	}
}

// UpsertVariants reconciles payload variants against the product's
// current ones. Matches get a targeted field patch, the rest are bulk
// created. Optionless products only ever patch the implicit default
// variant.
func (c *Client) UpsertVariants(ctx context.Context, productGID string, p *model.ProductPayload) error {
	if !p.HasOptions() {
		return c.patchDefaultVariant(ctx, productGID, p)
	}

	snapshot, err := c.productSnapshot(ctx, productGID)
	if err != nil {
		return err
	}
	existing := buildVariantKeys(snapshot.Options, snapshot.Variants.Nodes)

	display, err := c.payloadDisplayValues(ctx, snapshot.Options, p)
	if err != nil {
		return err
	}

	var missing []model.VariantPayload
	for _, v := range p.Variants {
		key := variantKey(displayedValues(display, v.OptionValues))
		match, ok := existing[key]
		if !ok {
			missing = append(missing, v)
			continue
		}
		if err := c.patchVariant(ctx, match, v); err != nil {
			return fmt.Errorf("variant %s: %w", v.SKU, err)
		}
	}

	if len(missing) == 0 {
		return nil
	}
	return c.createMissingVariants(ctx, productGID, p, missing)
}

// payloadDisplayValues maps each payload value, per option position,
// to the name Shopify currently shows for its linked metaobject entry.
// Existing-variant keys are built from those names, so the desired
// side must go through the same identity to keep matching after a
// relabel. Values without a linked entry keep the source text.
func (c *Client) payloadDisplayValues(ctx context.Context, options []dto.ProductOption, p *model.ProductPayload) ([]map[string]string, error) {
	byPosition := make([]map[string]string, len(p.Options))
	for i, group := range p.Options {
		byValue := make(map[string]string, len(group.Values))
		byPosition[i] = byValue

		opt, found := findOptionByName(options, group.Name)
		entries, err := c.groupEntryGIDs(ctx, group)
		if err != nil {
			return nil, fmt.Errorf("option %s: %w", group.Name, err)
		}

		for _, v := range group.Values {
			norm := normalizeOptionValue(v.Value)
			byValue[norm] = v.Value
			if !found {
				continue
			}
			if name := optionValueDisplay(opt, entries[norm]); name != "" {
				byValue[norm] = name
			}
		}
	}
	return byPosition, nil
}

func displayedValues(byPosition []map[string]string, values []string) []string {
	out := make([]string, len(values))
	for i, value := range values {
		out[i] = value
		if i >= len(byPosition) {
			continue
		}
		if display := byPosition[i][normalizeOptionValue(value)]; display != "" {
			out[i] = display
		}
	}
	return out
}

// patchVariant updates only the fields the source owns.
func (c *Client) patchVariant(ctx context.Context, existing dto.ExistingVariant, v model.VariantPayload) error {
	if existing.LegacyID == 0 {
		return errors.New("variant has no legacy id")
	}

	variant := dto.RestVariant{
		ID:              existing.LegacyID,
		Price:           formatPrice(v.Price),
		SKU:             v.SKU,
		Barcode:         v.Barcode,
		Taxable:         true,
		InventoryPolicy: strings.ToLower(c.config.InventoryPolicy),
	}
	if v.WeightKg > 0 {
		variant.Weight = v.WeightKg
		variant.WeightUnit = "kg"
	}

	path := fmt.Sprintf("/variants/%d.json", existing.LegacyID)
	return c.transport.Rest(ctx, ClassBulk, "PUT", path, dto.RestVariantBody{Variant: variant}, nil)
}

func (c *Client) createVariants(ctx context.Context, productGID string, p *model.ProductPayload) error {
	return c.createMissingVariants(ctx, productGID, p, p.Variants)
}

func (c *Client) createMissingVariants(ctx context.Context, productGID string, p *model.ProductPayload, variants []model.VariantPayload) error {
	if len(variants) == 0 {
		return nil
	}

	valueIDs, options, err := c.optionValueIDs(ctx, productGID, p)
	if err != nil {
		return err
	}

	inputs := make([]dto.VariantsBulkInput, 0, len(variants))
	for _, v := range variants {
		optionValues, err := variantOptionValueInputs(options, valueIDs, v)
		if err != nil {
			return fmt.Errorf("variant %s: %w", v.SKU, err)
		}
		inputs = append(inputs, dto.VariantsBulkInput{
			OptionValues:    optionValues,
			Price:           formatPrice(v.Price),
			Barcode:         v.Barcode,
			InventoryPolicy: strings.ToUpper(c.config.InventoryPolicy),
			InventoryItem: &dto.InventoryItemInput{
				SKU:         v.SKU,
				Tracked:     c.inventory.TrackInventory,
				Measurement: weightMeasurement(v.WeightKg),
			},
		})
	}

	query := `
mutation productVariantsBulkCreate($productId: ID!, $variants: [ProductVariantsBulkInput!]!, $strategy: ProductVariantsBulkCreateStrategy) {
	productVariantsBulkCreate(productId: $productId, variants: $variants, strategy: $strategy) {
		productVariants { id }
		userErrors { field message code }
	}
}`

	for start := 0; start < len(inputs); start += variantCreateChunkSize {
		end := start + variantCreateChunkSize
		if end > len(inputs) {
			end = len(inputs)
		}
		strategy := "LEAVE_AS_IS"
		if start == 0 {
			strategy = "REMOVE_STANDALONE_VARIANT"
		}

		var data dto.VariantsBulkCreateData
		err := c.transport.GraphQL(ctx, ClassBulk, query, map[string]any{
			"productId": productGID,
			"variants":  inputs[start:end],
			"strategy":  strategy,
		}, &data)
		if err != nil {
			return err
		}
		if err := benignUserErrors("productVariantsBulkCreate", data.ProductVariantsBulkCreate.UserErrors); err != nil {
			return err
		}
	}
	return nil
}

// variantOptionValueInputs resolves each payload value to its option
// value GID. Payload values are positional against the payload's own
// option order, which matches the canonical order on products this
// engine created.
func variantOptionValueInputs(options []dto.ProductOption, valueIDs map[string]map[string]string, v model.VariantPayload) ([]dto.VariantOptionValueInput, error) {
	if len(v.OptionValues) > len(options) {
		return nil, fmt.Errorf("has %d option values, product has %d options", len(v.OptionValues), len(options))
	}

	inputs := make([]dto.VariantOptionValueInput, 0, len(v.OptionValues))
	for i, display := range v.OptionValues {
		opt := options[i]
		byValue := valueIDs[strings.ToLower(opt.Name)]
		gid := byValue[normalizeOptionValue(display)]
		if gid == "" {
			return nil, fmt.Errorf("option %s has no value id for %q", opt.Name, display)
		}
		inputs = append(inputs, dto.VariantOptionValueInput{
			OptionID: opt.ID,
			ID:       gid,
		})
	}
	return inputs, nil
}

// patchDefaultVariant updates the implicit variant in place.
func (c *Client) patchDefaultVariant(ctx context.Context, productGID string, p *model.ProductPayload) error {
	snapshot, err := c.productSnapshot(ctx, productGID)
	if err != nil {
		return err
	}
	if len(snapshot.Variants.Nodes) == 0 {
		return errors.New("shopify: product has no default variant")
	}
	defaultVariant := snapshot.Variants.Nodes[0]

	input := dto.VariantsBulkInput{
		ID:              defaultVariant.ID,
		Price:           formatPrice(p.Price),
		InventoryPolicy: strings.ToUpper(c.config.InventoryPolicy),
		InventoryItem: &dto.InventoryItemInput{
			SKU:         p.Reference,
			Tracked:     c.inventory.TrackInventory,
			Measurement: weightMeasurement(p.WeightKg),
		},
	}

	query := `
mutation productVariantsBulkUpdate($productId: ID!, $variants: [ProductVariantsBulkInput!]!) {
	productVariantsBulkUpdate(productId: $productId, variants: $variants) {
		productVariants { id }
		userErrors { field message code }
	}
}`

	var data dto.VariantsBulkUpdateData
	err = c.transport.GraphQL(ctx, ClassBulk, query, map[string]any{
		"productId": productGID,
		"variants":  []dto.VariantsBulkInput{input},
	}, &data)
	if err != nil {
		return err
	}
	return userErrorsToError("productVariantsBulkUpdate", data.ProductVariantsBulkUpdate.UserErrors)
}
