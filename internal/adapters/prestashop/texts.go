package prestashop

import (
	"context"
	"fmt"

	"shopify-migrator/internal/domain/model"
)

func (c *Client) TextsByLocale(ctx context.Context, productID int64) (map[string]model.TextBundle, error) {
	query := fmt.Sprintf(`
SELECT pl.id_lang, COALESCE(pl.name, ''), COALESCE(pl.description, ''),
       COALESCE(pl.description_short, ''), COALESCE(pl.meta_title, ''),
       COALESCE(pl.meta_description, ''), COALESCE(pl.link_rewrite, '')
FROM %s pl
WHERE pl.id_product = ? AND pl.id_shop = ?`, c.table("product_lang"))

	rows, err := c.db.QueryContext(ctx, query, productID, c.config.ShopID)
	if err != nil {
		return nil, fmt.Errorf("prestashop: product texts %w", err)
	}
	defer rows.Close()

	texts := make(map[string]model.TextBundle)
	for rows.Next() {
		var (
			langID int64
			b      model.TextBundle
		)
		if err := rows.Scan(&langID, &b.Title, &b.DescriptionHTML, &b.DescriptionShort, &b.MetaTitle, &b.MetaDescription, &b.Slug); err != nil {
			return nil, fmt.Errorf("prestashop: scan product text %w", err)
		}
		locale := c.locale(langID)
		if locale == "" {
			continue
		}
		b.Slug = Slugify(b.Slug)
		b.Handle = fmt.Sprintf("%s_%d", b.Slug, productID)
		texts[locale] = b
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("prestashop: iterate product texts %w", err)
	}
	return texts, nil
}
