package prestashop

import (
	"context"
	"fmt"

	"shopify-migrator/internal/domain/model"
)

func (c *Client) CategoriesForProduct(ctx context.Context, productID int64) ([]model.Category, error) {
	query := fmt.Sprintf(`
SELECT cat.id_category, cl.id_lang, COALESCE(cl.name, ''), COALESCE(cl.link_rewrite, '')
FROM %s cp
JOIN %s cat ON cat.id_category = cp.id_category
JOIN %s cl ON cl.id_category = cat.id_category AND cl.id_shop = ?
WHERE cp.id_product = ? AND cat.active = 1
ORDER BY cat.id_category, cl.id_lang`, c.table("category_product"), c.table("category"), c.table("category_lang"))

	rows, err := c.db.QueryContext(ctx, query, c.config.ShopID, productID)
	if err != nil {
		return nil, fmt.Errorf("prestashop: product categories %w", err)
	}
	defer rows.Close()

	byID := make(map[int64]*model.Category)
	var order []int64
	primary := c.config.PrimaryLocale()

	for rows.Next() {
		var (
			id     int64
			langID int64
			name   string
			slug   string
		)
		if err := rows.Scan(&id, &langID, &name, &slug); err != nil {
			return nil, fmt.Errorf("prestashop: scan category %w", err)
		}
		locale := c.locale(langID)
		if locale == "" {
			continue
		}

		cat, ok := byID[id]
		if !ok {
			cat = &model.Category{
				ID:     id,
				Titles: make(map[string]string),
				Slugs:  make(map[string]string),
			}
			byID[id] = cat
			order = append(order, id)
		}
		slug = Slugify(slug)
		cat.Titles[locale] = name
		cat.Slugs[locale] = slug
		if locale == primary {
			cat.Title = name
			cat.Handle = slug
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("prestashop: iterate categories %w", err)
	}

	categories := make([]model.Category, 0, len(order))
	for _, id := range order {
		cat := byID[id]
		if cat.Title == "" {
			continue
		}
		categories = append(categories, *cat)
	}
	return categories, nil
}
