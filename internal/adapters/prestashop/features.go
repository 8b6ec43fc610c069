package prestashop

import (
	"context"
	"fmt"

	"shopify-migrator/internal/domain/model"
)

const featureValueSeparator = " / "

func (c *Client) Features(ctx context.Context, productID int64) ([]model.Feature, error) {
	query := fmt.Sprintf(`
SELECT f.id_feature, fl.id_lang, COALESCE(fl.name, ''), COALESCE(fvl.value, '')
FROM %s fp
JOIN %s f ON f.id_feature = fp.id_feature
JOIN %s fl ON fl.id_feature = f.id_feature
JOIN %s fvl ON fvl.id_feature_value = fp.id_feature_value AND fvl.id_lang = fl.id_lang
WHERE fp.id_product = ?
ORDER BY f.position, f.id_feature, fl.id_lang`,
		c.table("feature_product"), c.table("feature"), c.table("feature_lang"), c.table("feature_value_lang"))

	rows, err := c.db.QueryContext(ctx, query, productID)
	if err != nil {
		return nil, fmt.Errorf("prestashop: product features %w", err)
	}
	defer rows.Close()

	byID := make(map[int64]*model.Feature)
	var order []int64
	primary := c.config.PrimaryLocale()

	for rows.Next() {
		var (
			id     int64
			langID int64
			name   string
			value  string
		)
		if err := rows.Scan(&id, &langID, &name, &value); err != nil {
			return nil, fmt.Errorf("prestashop: scan feature %w", err)
		}
		locale := c.locale(langID)
		if locale == "" || name == "" || value == "" {
			continue
		}

		f, ok := byID[id]
		if !ok {
			f = &model.Feature{
				ID:     id,
				Names:  make(map[string]string),
				Values: make(map[string]string),
			}
			byID[id] = f
			order = append(order, id)
		}
		f.Names[locale] = name
		// multi-value features collapse into one joined string per locale
		if existing := f.Values[locale]; existing != "" {
			f.Values[locale] = existing + featureValueSeparator + value
		} else {
			f.Values[locale] = value
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("prestashop: iterate features %w", err)
	}

	features := make([]model.Feature, 0, len(order))
	for _, id := range order {
		f := byID[id]
		primaryName := f.Names[primary]
		if primaryName == "" || f.Values[primary] == "" {
			continue
		}
		f.Key = Slugify(primaryName)
		features = append(features, *f)
	}
	return features, nil
}
