package shopify

import (
	"context"
	"fmt"

	"shopify-migrator/internal/adapters/shopify/dto"
	"shopify-migrator/internal/domain/model"
)

const featureNamespace = "specs"

// SyncFeatureMetafields writes one translatable metafield per source
// feature and registers its non-primary values.
func (c *Client) SyncFeatureMetafields(ctx context.Context, productGID string, p *model.ProductPayload) error {
	for _, feature := range p.Features {
		if err := c.ensureFeatureDefinition(ctx, feature, p.PrimaryLocale); err != nil {
			return fmt.Errorf("feature %s: %w", feature.Key, err)
		}

		primaryValue := feature.Values[p.PrimaryLocale]
		if primaryValue == "" {
			continue
		}

		ids, err := c.metafieldsSet(ctx, []dto.MetafieldSetInput{
			{
				OwnerID:   productGID,
				Namespace: featureNamespace,
				Key:       feature.Key,
				Type:      "single_line_text_field",
				Value:     primaryValue,
			},
		})
		if err != nil {
			return fmt.Errorf("feature %s: %w", feature.Key, err)
		}

		metafieldGID := ids[feature.Key]
		if metafieldGID == "" {
			continue
		}
		if err := c.syncFeatureValueTranslations(ctx, metafieldGID, feature, p.PrimaryLocale); err != nil {
			return fmt.Errorf("feature %s translations: %w", feature.Key, err)
		}
	}
	return nil
}

func (c *Client) ensureFeatureDefinition(ctx context.Context, feature model.Feature, primaryLocale string) error {
	cacheKey := featureNamespace + "." + feature.Key
	if _, ok := c.metafieldDefs[cacheKey]; ok {
		return nil
	}

	lookup := `
query metafieldDefinitions($namespace: String!, $key: String!, $ownerType: MetafieldOwnerType!) {
	metafieldDefinitions(first: 1, namespace: $namespace, key: $key, ownerType: $ownerType) {
		nodes { id key }
	}
}`

	var found dto.MetafieldDefinitionsData
	err := c.transport.GraphQL(ctx, ClassBulk, lookup, map[string]any{
		"namespace": featureNamespace,
		"key":       feature.Key,
		"ownerType": "PRODUCT",
	}, &found)
	if err != nil {
		return err
	}
	if len(found.MetafieldDefinitions.Nodes) > 0 {
		c.metafieldDefs[cacheKey] = found.MetafieldDefinitions.Nodes[0].ID
		return nil
	}

	name := feature.Names[primaryLocale]
	if name == "" {
		name = feature.Key
	}

	create := `
mutation metafieldDefinitionCreate($definition: MetafieldDefinitionInput!) {
	metafieldDefinitionCreate(definition: $definition) {
		createdDefinition { id }
		userErrors { field message code }
	}
}`

	var created dto.MetafieldDefinitionCreateData
	err = c.transport.GraphQL(ctx, ClassBulk, create, map[string]any{
		"definition": dto.MetafieldDefinitionInput{
			Namespace: featureNamespace,
			Key:       feature.Key,
			Name:      name,
			Type:      "single_line_text_field",
			OwnerType: "PRODUCT",
			Access: &dto.MetafieldAccessInput{
				Storefront: "PUBLIC_READ",
			},
		},
	}, &created)
	if err != nil {
		return err
	}
	if err := benignUserErrors("metafieldDefinitionCreate", created.MetafieldDefinitionCreate.UserErrors); err != nil {
		return err
	}
	if created.MetafieldDefinitionCreate.CreatedDefinition != nil {
		c.metafieldDefs[cacheKey] = created.MetafieldDefinitionCreate.CreatedDefinition.ID
	} else {
		c.metafieldDefs[cacheKey] = "taken"
	}
	return nil
}

func (c *Client) syncFeatureValueTranslations(ctx context.Context, metafieldGID string, feature model.Feature, primaryLocale string) error {
	byLocale := make(map[string][]translationInput)
	for locale, value := range feature.Values {
		if locale == primaryLocale || value == "" {
			continue
		}
		byLocale[locale] = append(byLocale[locale], translationInput{Key: "value", Value: value})
	}
	if len(byLocale) == 0 {
		return nil
	}
	return c.registerTranslations(ctx, metafieldGID, byLocale)
}
