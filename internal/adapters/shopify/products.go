package shopify

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"shopify-migrator/internal/adapters/shopify/dto"
	"shopify-migrator/internal/domain/model"
)

const (
	identityNamespace = "prestashop"
	customNamespace   = "custom"
)

// CreateProduct builds the full root: product, identity metafields,
// publication, linked options and variants. Returns the product GID.
func (c *Client) CreateProduct(ctx context.Context, p *model.ProductPayload) (string, error) {
	input := dto.ProductCreateInput{
		Title:           p.Title,
		Handle:          p.Handle,
		Status:          "ACTIVE",
		DescriptionHTML: p.BodyHTML,
		Vendor:          p.Vendor,
		Tags:            p.Tags,
		Category:        c.config.DefaultCategory,
	}

	query := `
mutation productCreate($input: ProductInput!) {
	productCreate(input: $input) {
		product { id legacyResourceId }
		userErrors { field message }
	}
}`

	var data dto.ProductCreateData
	err := c.transport.GraphQL(ctx, ClassBulk, query, map[string]any{
		"input": input,
	}, &data)
	if err != nil {
		return "", err
	}
	if err := userErrorsToError("productCreate", data.ProductCreate.UserErrors); err != nil {
		return "", err
	}
	if data.ProductCreate.Product == nil || data.ProductCreate.Product.ID == "" {
		return "", errors.New("shopify: productCreate returned empty product id")
	}
	productGID := data.ProductCreate.Product.ID

	if err := c.setIdentityMetafields(ctx, productGID, p); err != nil {
		return productGID, fmt.Errorf("identity metafields: %w", err)
	}
	if err := c.publishProduct(ctx, productGID); err != nil {
		return productGID, fmt.Errorf("publish: %w", err)
	}

	if p.HasOptions() {
		if err := c.createLinkedOptions(ctx, productGID, p); err != nil {
			return productGID, fmt.Errorf("options: %w", err)
		}
		if err := c.createVariants(ctx, productGID, p); err != nil {
			return productGID, fmt.Errorf("variants: %w", err)
		}
	} else {
		if err := c.patchDefaultVariant(ctx, productGID, p); err != nil {
			return productGID, fmt.Errorf("default variant: %w", err)
		}
	}

	return productGID, nil
}

// UpdateProduct patches root fields through REST, keyed by legacy id.
func (c *Client) UpdateProduct(ctx context.Context, existing dto.ExistingProduct, p *model.ProductPayload) error {
	if existing.LegacyID == 0 {
		return errors.New("shopify: existing product has no legacy id")
	}

	product := dto.RestProduct{
		ID:       existing.LegacyID,
		Title:    p.Title,
		Handle:   p.Handle,
		Status:   "active",
		BodyHTML: p.BodyHTML,
		Vendor:   p.Vendor,
		Tags:     strings.Join(p.Tags, ", "),
	}

	path := fmt.Sprintf("/products/%d.json", existing.LegacyID)
	if err := c.transport.Rest(ctx, ClassBulk, "PUT", path, dto.RestProductBody{Product: product}, nil); err != nil {
		return err
	}

	return c.setIdentityMetafields(ctx, existing.ID, p)
}

func (c *Client) setIdentityMetafields(ctx context.Context, productGID string, p *model.ProductPayload) error {
	metafields := []dto.MetafieldSetInput{
		{
			OwnerID:   productGID,
			Namespace: identityNamespace,
			Key:       "ps_id",
			Type:      "number_integer",
			Value:     fmt.Sprintf("%d", p.SourceID),
		},
	}
	if p.Reference != "" {
		metafields = append(metafields, dto.MetafieldSetInput{
			OwnerID:   productGID,
			Namespace: identityNamespace,
			Key:       "ps_reference",
			Type:      "single_line_text_field",
			Value:     p.Reference,
		})
	}
	if p.DescriptionShort != "" {
		metafields = append(metafields, dto.MetafieldSetInput{
			OwnerID:   productGID,
			Namespace: customNamespace,
			Key:       "description_short",
			Type:      "multi_line_text_field",
			Value:     p.DescriptionShort,
		})
	}

	_, err := c.metafieldsSet(ctx, metafields)
	return err
}

func (c *Client) publishProduct(ctx context.Context, productGID string) error {
	if c.config.PublicationID == "" {
		return nil
	}

	query := `
mutation publishablePublish($id: ID!, $input: [PublicationInput!]!) {
	publishablePublish(id: $id, input: $input) {
		userErrors { field message }
	}
}`

	var data dto.PublishData
	err := c.transport.GraphQL(ctx, ClassBulk, query, map[string]any{
		"id": productGID,
		"input": []dto.PublicationInput{
			{PublicationID: c.config.PublicationID},
		},
	}, &data)
	if err != nil {
		return err
	}
	return benignUserErrors("publishablePublish", data.PublishablePublish.UserErrors)
}

const metafieldsSetQuery = `
mutation metafieldsSet($metafields: [MetafieldsSetInput!]!) {
	metafieldsSet(metafields: $metafields) {
		metafields { id key }
		userErrors { field message code }
	}
}`

// metafieldsSet returns metafield GIDs keyed by metafield key.
func (c *Client) metafieldsSet(ctx context.Context, metafields []dto.MetafieldSetInput) (map[string]string, error) {
	if len(metafields) == 0 {
		return nil, nil
	}

	var data dto.MetafieldsSetData
	err := c.transport.GraphQL(ctx, ClassBulk, metafieldsSetQuery, map[string]any{
		"metafields": metafields,
	}, &data)
	if err != nil {
		return nil, err
	}
	if err := userErrorsToError("metafieldsSet", data.MetafieldsSet.UserErrors); err != nil {
		return nil, err
	}

	ids := make(map[string]string, len(data.MetafieldsSet.Metafields))
	for _, mf := range data.MetafieldsSet.Metafields {
		ids[mf.Key] = mf.ID
	}
	return ids, nil
}
