package shopify

import (
	"context"
	"errors"
	"fmt"

	"shopify-migrator/internal/adapters/shopify/dto"
	"shopify-migrator/internal/domain/model"
)

// SyncCollections mirrors the product's source categories as custom
// collections and memberships. Collection translations ride along.
func (c *Client) SyncCollections(ctx context.Context, productGID string, p *model.ProductPayload) error {
	for _, cat := range p.Categories {
		col, found, err := c.findCollectionByHandle(ctx, cat.Handle)
		if err != nil {
			return err
		}
		if !found {
			col, err = c.createCollection(ctx, cat)
			if err != nil {
				return fmt.Errorf("collection %s: %w", cat.Handle, err)
			}
			c.collections[col.Handle] = col
		}

		if err := c.addProductToCollection(ctx, col.ID, productGID); err != nil {
			return fmt.Errorf("collect %s: %w", cat.Handle, err)
		}
		if err := c.syncCollectionTranslations(ctx, col.ID, cat, p.PrimaryLocale); err != nil {
			return fmt.Errorf("collection %s translations: %w", cat.Handle, err)
		}
	}
	return nil
}

func (c *Client) createCollection(ctx context.Context, cat model.Category) (dto.CollectionRef, error) {
	query := `
mutation collectionCreate($input: CollectionInput!) {
	collectionCreate(input: $input) {
		collection { id handle title }
		userErrors { field message }
	}
}`

	var data dto.CollectionCreateData
	err := c.transport.GraphQL(ctx, ClassBulk, query, map[string]any{
		"input": dto.CollectionInput{
			Title:  cat.Title,
			Handle: cat.Handle,
		},
	}, &data)
	if err != nil {
		return dto.CollectionRef{}, err
	}
	if err := userErrorsToError("collectionCreate", data.CollectionCreate.UserErrors); err != nil {
		return dto.CollectionRef{}, err
	}
	if data.CollectionCreate.Collection == nil {
		return dto.CollectionRef{}, errors.New("shopify: collectionCreate returned no collection")
	}
	return *data.CollectionCreate.Collection, nil
}

func (c *Client) addProductToCollection(ctx context.Context, collectionGID, productGID string) error {
	query := `
mutation collectionAddProductsV2($id: ID!, $productIds: [ID!]!) {
	collectionAddProductsV2(id: $id, productIds: $productIds) {
		userErrors { field message code }
	}
}`

	var data dto.CollectionAddProductsData
	err := c.transport.GraphQL(ctx, ClassBulk, query, map[string]any{
		"id":         collectionGID,
		"productIds": []string{productGID},
	}, &data)
	if err != nil {
		return err
	}
	return benignUserErrors("collectionAddProductsV2", data.CollectionAddProductsV2.UserErrors)
}

func (c *Client) syncCollectionTranslations(ctx context.Context, collectionGID string, cat model.Category, primaryLocale string) error {
	translations := make(map[string][]translationInput)
	for locale, title := range cat.Titles {
		if locale == primaryLocale || title == "" || title == cat.Title {
			continue
		}
		translations[locale] = append(translations[locale], translationInput{Key: "title", Value: title})
	}
	if len(translations) == 0 {
		return nil
	}
	return c.registerTranslations(ctx, collectionGID, translations)
}
