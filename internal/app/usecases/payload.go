package usecases

import (
	"context"
	"fmt"
	"math"
	"strings"

	"shopify-migrator/internal/adapters/prestashop"
	"shopify-migrator/internal/config"
	"shopify-migrator/internal/domain/model"
)

// PayloadBuilder turns one source row into the full upsert payload.
type PayloadBuilder struct {
	source     prestashop.ClientService
	psConfig   config.PrestashopConfig
	multiplier float64
}

func NewPayloadBuilder(source prestashop.ClientService, psConfig config.PrestashopConfig) *PayloadBuilder {
	multiplier := psConfig.PriceMultiplier
	if multiplier <= 0 {
		multiplier = 1
	}
	return &PayloadBuilder{
		source:     source,
		psConfig:   psConfig,
		multiplier: multiplier,
	}
}

func (b *PayloadBuilder) price(base float64) float64 {
	return math.Round(base*b.multiplier*100) / 100
}

func (b *PayloadBuilder) Build(ctx context.Context, sp model.SourceProduct, filter model.SyncFilter) (*model.ProductPayload, error) {
	texts, err := b.source.TextsByLocale(ctx, sp.ID)
	if err != nil {
		return nil, fmt.Errorf("texts for product %d: %w", sp.ID, err)
	}

	primary := b.psConfig.PrimaryLocale()
	primaryText := texts[primary]

	p := &model.ProductPayload{
		SourceID:         sp.ID,
		Handle:           primaryText.Handle,
		Title:            strings.TrimSpace(primaryText.Title),
		BodyHTML:         primaryText.DescriptionHTML,
		DescriptionShort: primaryText.DescriptionShort,
		Vendor:           sp.Brand,
		Reference:        sp.Reference,
		Price:            b.price(sp.Price),
		WeightKg:         sp.Weight,
		Quantity:         sp.Quantity,
		PrimaryLocale:    primary,
		Texts:            texts,
	}

	categories, err := b.source.CategoriesForProduct(ctx, sp.ID)
	if err != nil {
		return nil, fmt.Errorf("categories for product %d: %w", sp.ID, err)
	}
	p.Categories = categories
	for _, cat := range categories {
		p.Tags = append(p.Tags, cat.Title)
	}

	if filter.SyncImages {
		images, err := b.source.ImageURLs(ctx, sp.ID)
		if err != nil {
			return nil, fmt.Errorf("images for product %d: %w", sp.ID, err)
		}
		p.Images = images
	}

	if filter.SyncVariants {
		if err := b.buildVariants(ctx, sp, p, filter); err != nil {
			return nil, err
		}
	}

	features, err := b.source.Features(ctx, sp.ID)
	if err != nil {
		return nil, fmt.Errorf("features for product %d: %w", sp.ID, err)
	}
	p.Features = features

	attachments, err := b.source.Attachments(ctx, sp.ID)
	if err != nil {
		return nil, fmt.Errorf("attachments for product %d: %w", sp.ID, err)
	}
	p.Attachments = attachments

	return p, nil
}

func (b *PayloadBuilder) buildVariants(ctx context.Context, sp model.SourceProduct, p *model.ProductPayload, filter model.SyncFilter) error {
	combinations, err := b.source.Combinations(ctx, sp.ID)
	if err != nil {
		return fmt.Errorf("combinations for product %d: %w", sp.ID, err)
	}
	if len(combinations) == 0 {
		return nil
	}

	groups := collectOptionGroups(combinations)
	var titles map[string]map[string]string
	if filter.SyncTranslations {
		if err := b.translateOptions(ctx, groups); err != nil {
			return err
		}
		titles, err = b.source.VariantTitlesByLocale(ctx, sp.ID)
		if err != nil {
			return fmt.Errorf("variant titles for product %d: %w", sp.ID, err)
		}
	}
	p.Options = groups

	for _, cb := range combinations {
		sku := cb.SKU
		if sku == "" {
			sku = fmt.Sprintf("%s-%d", sp.Reference, cb.ID)
		}
		values := make([]string, 0, len(groups))
		byGroup := make(map[string]string, len(cb.Values))
		for _, v := range cb.Values {
			byGroup[strings.ToLower(v.Group)] = v.Value
		}
		for _, g := range groups {
			values = append(values, byGroup[strings.ToLower(g.Name)])
		}

		p.Variants = append(p.Variants, model.VariantPayload{
			SKU:           sku,
			Barcode:       cb.EAN13,
			Price:         b.price(sp.Price + cb.PriceImpact),
			WeightKg:      sp.Weight + cb.WeightImpact,
			Quantity:      cb.Quantity,
			OptionValues:  values,
			TitleByLocale: variantTitles(titles, cb.SKU),
		})
	}
	return nil
}

// variantTitles picks this combination's title per locale. Titles are
// keyed by the source reference, generated SKUs have none.
func variantTitles(titles map[string]map[string]string, sku string) map[string]string {
	if len(titles) == 0 || sku == "" {
		return nil
	}
	var byLocale map[string]string
	for locale, bySKU := range titles {
		title := bySKU[sku]
		if title == "" {
			continue
		}
		if byLocale == nil {
			byLocale = make(map[string]string)
		}
		byLocale[locale] = title
	}
	return byLocale
}

// collectOptionGroups derives the canonical option order from first
// appearance across combinations and de-duplicates values per group.
func collectOptionGroups(combinations []model.Combination) []model.OptionGroup {
	var groups []model.OptionGroup
	index := make(map[string]int)
	seen := make(map[string]map[string]bool)

	for _, cb := range combinations {
		for _, v := range cb.Values {
			key := strings.ToLower(v.Group)
			idx, ok := index[key]
			if !ok {
				idx = len(groups)
				index[key] = idx
				groups = append(groups, model.OptionGroup{
					Name:    v.Group,
					GroupID: v.GroupID,
					IsColor: v.IsColor,
				})
				seen[key] = make(map[string]bool)
			}
			valueKey := strings.ToLower(strings.TrimSpace(v.Value))
			if seen[key][valueKey] {
				continue
			}
			seen[key][valueKey] = true
			groups[idx].Values = append(groups[idx].Values, v)
			if v.IsColor {
				groups[idx].IsColor = true
			}
		}
	}
	return groups
}

func (b *PayloadBuilder) translateOptions(ctx context.Context, groups []model.OptionGroup) error {
	groupIDs := make([]int64, 0, len(groups))
	for _, g := range groups {
		if g.GroupID > 0 {
			groupIDs = append(groupIDs, g.GroupID)
		}
	}
	groupNames, err := b.source.OptionGroupTranslations(ctx, groupIDs)
	if err != nil {
		return fmt.Errorf("option group translations: %w", err)
	}
	for i := range groups {
		groups[i].NameByLocale = groupNames[groups[i].GroupID]
	}

	var attributeIDs []int64
	for _, g := range groups {
		for _, v := range g.Values {
			if v.AttributeID > 0 {
				attributeIDs = append(attributeIDs, v.AttributeID)
			}
		}
	}
	labels, err := b.source.AttributeValueTranslations(ctx, attributeIDs)
	if err != nil {
		return fmt.Errorf("attribute translations: %w", err)
	}
	for gi := range groups {
		for vi := range groups[gi].Values {
			groups[gi].Values[vi].Labels = labels[groups[gi].Values[vi].AttributeID]
		}
	}
	return nil
}
