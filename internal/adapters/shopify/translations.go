package shopify

import (
	"context"
	"fmt"
	"strings"

	"shopify-migrator/internal/adapters/shopify/dto"
	"shopify-migrator/internal/domain/model"
)

type translationInput struct {
	Key   string
	Value string
}

// translatableDigests fetches the digest every translationsRegister
// call must echo back, keyed by content key.
func (c *Client) translatableDigests(ctx context.Context, resourceGID string) (map[string]string, error) {
	query := `
query translatableResource($resourceId: ID!) {
	translatableResource(resourceId: $resourceId) {
		resourceId
		translatableContent { key value digest locale }
	}
}`

	var data dto.TranslatableResourceData
	err := c.transport.GraphQL(ctx, ClassBulk, query, map[string]any{
		"resourceId": resourceGID,
	}, &data)
	if err != nil {
		return nil, err
	}
	if data.TranslatableResource == nil {
		return nil, fmt.Errorf("shopify: resource %s is not translatable", resourceGID)
	}

	digests := make(map[string]string, len(data.TranslatableResource.TranslatableContent))
	for _, content := range data.TranslatableResource.TranslatableContent {
		digests[content.Key] = content.Digest
	}
	return digests, nil
}

func (c *Client) registerTranslations(ctx context.Context, resourceGID string, byLocale map[string][]translationInput) error {
	digests, err := c.translatableDigests(ctx, resourceGID)
	if err != nil {
		return err
	}

	var inputs []dto.TranslationInput
	for locale, translations := range byLocale {
		for _, tr := range translations {
			digest, ok := digests[tr.Key]
			if !ok || tr.Value == "" {
				continue
			}
			inputs = append(inputs, dto.TranslationInput{
				Key:                       tr.Key,
				Locale:                    locale,
				Value:                     tr.Value,
				TranslatableContentDigest: digest,
			})
		}
	}
	if len(inputs) == 0 {
		return nil
	}

	query := `
mutation translationsRegister($resourceId: ID!, $translations: [TranslationInput!]!) {
	translationsRegister(resourceId: $resourceId, translations: $translations) {
		translations { key locale }
		userErrors { field message }
	}
}`

	var data dto.TranslationsRegisterData
	err = c.transport.GraphQL(ctx, ClassBulk, query, map[string]any{
		"resourceId":   resourceGID,
		"translations": inputs,
	}, &data)
	if err != nil {
		return err
	}
	return userErrorsToError("translationsRegister", data.TranslationsRegister.UserErrors)
}

// SyncTranslations registers non-primary product texts.
func (c *Client) SyncTranslations(ctx context.Context, productGID string, p *model.ProductPayload) error {
	byLocale := make(map[string][]translationInput)
	for locale, bundle := range p.Texts {
		if locale == p.PrimaryLocale {
			continue
		}
		translations := []translationInput{
			{Key: "title", Value: bundle.Title},
			{Key: "body_html", Value: bundle.DescriptionHTML},
			{Key: "handle", Value: bundle.Handle},
			{Key: "meta_title", Value: bundle.MetaTitle},
			{Key: "meta_description", Value: bundle.MetaDescription},
		}
		byLocale[locale] = translations
	}
	if len(byLocale) == 0 {
		return nil
	}
	return c.registerTranslations(ctx, productGID, byLocale)
}

// SyncOptionTranslations registers option names on the product's
// options, display labels on the linked metaobject entries and the
// per-locale variant titles.
func (c *Client) SyncOptionTranslations(ctx context.Context, productGID string, p *model.ProductPayload) error {
	if !p.HasOptions() {
		return nil
	}

	snapshot, err := c.productSnapshot(ctx, productGID)
	if err != nil {
		return err
	}

	for _, group := range p.Options {
		opt, found := findOptionByName(snapshot.Options, group.Name)
		if !found {
			continue
		}

		byLocale := make(map[string][]translationInput)
		for locale, name := range group.NameByLocale {
			if locale == p.PrimaryLocale || name == "" || name == group.Name {
				continue
			}
			byLocale[locale] = append(byLocale[locale], translationInput{Key: "name", Value: name})
		}
		if len(byLocale) == 0 {
			continue
		}
		if err := c.registerTranslations(ctx, opt.ID, byLocale); err != nil {
			return fmt.Errorf("option %s: %w", group.Name, err)
		}
	}

	if err := c.syncOptionValueTranslations(ctx, p); err != nil {
		return err
	}
	return c.syncVariantTitleTranslations(ctx, snapshot, p)
}

func (c *Client) syncOptionValueTranslations(ctx context.Context, p *model.ProductPayload) error {
	for _, group := range p.Options {
		if !groupHasMetadata(group) {
			continue
		}
		defType := metaobjectType(group)
		for _, v := range group.Values {
			byLocale := make(map[string][]translationInput)
			for locale, label := range v.Labels {
				if locale == p.PrimaryLocale || label == "" || label == v.Value {
					continue
				}
				byLocale[locale] = append(byLocale[locale], translationInput{Key: "label", Value: label})
			}
			if len(byLocale) == 0 {
				continue
			}

			entryGID, err := c.ensureMetaobjectEntry(ctx, defType, v)
			if err != nil {
				return fmt.Errorf("value %s: %w", v.Value, err)
			}
			if err := c.registerTranslations(ctx, entryGID, byLocale); err != nil {
				return fmt.Errorf("value %s: %w", v.Value, err)
			}
		}
	}
	return nil
}

// syncVariantTitleTranslations registers the combination titles the
// source carries per locale on the matching variants, found by SKU.
func (c *Client) syncVariantTitleTranslations(ctx context.Context, snapshot *dto.ProductNode, p *model.ProductPayload) error {
	gidBySKU := make(map[string]string, len(snapshot.Variants.Nodes))
	for _, node := range snapshot.Variants.Nodes {
		if node.SKU != "" {
			gidBySKU[strings.ToLower(node.SKU)] = node.ID
		}
	}

	for _, v := range p.Variants {
		if len(v.TitleByLocale) == 0 {
			continue
		}
		variantGID := gidBySKU[strings.ToLower(v.SKU)]
		if variantGID == "" {
			continue
		}

		byLocale := make(map[string][]translationInput)
		for locale, title := range v.TitleByLocale {
			if locale == p.PrimaryLocale || title == "" {
				continue
			}
			byLocale[locale] = append(byLocale[locale], translationInput{Key: "title", Value: title})
		}
		if len(byLocale) == 0 {
			continue
		}
		if err := c.registerTranslations(ctx, variantGID, byLocale); err != nil {
			return fmt.Errorf("variant %s title: %w", v.SKU, err)
		}
	}
	return nil
}
