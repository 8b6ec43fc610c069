package prestashop

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"shopify-migrator/internal/domain/model"
)

const (
	optionRowSeparator   = "|||"
	optionFieldSeparator = "::"
)

func (c *Client) Combinations(ctx context.Context, productID int64) ([]model.Combination, error) {
	query := fmt.Sprintf(`
SELECT pa.id_product_attribute, COALESCE(pa.reference, ''), COALESCE(pa.ean13, ''),
       pa.price, pa.weight, COALESCE(sa.quantity, 0),
       COALESCE(GROUP_CONCAT(
           CONCAT(agl.name, '%[6]s', al.name, '%[6]s', a.id_attribute, '%[6]s',
                  ag.id_attribute_group, '%[6]s', ag.is_color_group, '%[6]s', COALESCE(a.color, ''))
           ORDER BY ag.position, a.position SEPARATOR '%[7]s'), '')
FROM %[1]s pa
JOIN %[2]s pac ON pac.id_product_attribute = pa.id_product_attribute
JOIN %[3]s a ON a.id_attribute = pac.id_attribute
JOIN %[4]s ag ON ag.id_attribute_group = a.id_attribute_group
JOIN %[5]s al ON al.id_attribute = a.id_attribute AND al.id_lang = ?
JOIN %[8]s agl ON agl.id_attribute_group = ag.id_attribute_group AND agl.id_lang = ?
LEFT JOIN %[9]s sa ON sa.id_product = pa.id_product AND sa.id_product_attribute = pa.id_product_attribute
WHERE pa.id_product = ?
GROUP BY pa.id_product_attribute
ORDER BY pa.id_product_attribute`,
		c.table("product_attribute"),
		c.table("product_attribute_combination"),
		c.table("attribute"),
		c.table("attribute_group"),
		c.table("attribute_lang"),
		optionFieldSeparator,
		optionRowSeparator,
		c.table("attribute_group_lang"),
		c.table("stock_available"))

	rows, err := c.db.QueryContext(ctx, query, c.config.PrimaryLangID, c.config.PrimaryLangID, productID)
	if err != nil {
		return nil, fmt.Errorf("prestashop: combinations %w", err)
	}
	defer rows.Close()

	var combinations []model.Combination
	for rows.Next() {
		var (
			cb     model.Combination
			packed string
		)
		if err := rows.Scan(&cb.ID, &cb.SKU, &cb.EAN13, &cb.PriceImpact, &cb.WeightImpact, &cb.Quantity, &packed); err != nil {
			return nil, fmt.Errorf("prestashop: scan combination %w", err)
		}
		values, err := parseOptionValues(packed)
		if err != nil {
			return nil, fmt.Errorf("prestashop: combination %d %w", cb.ID, err)
		}
		for i := range values {
			if values[i].IsColor && values[i].ColorHex == "" {
				values[i].TextureURL = c.textureURL(values[i].AttributeID)
			}
		}
		cb.Values = values
		combinations = append(combinations, cb)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("prestashop: iterate combinations %w", err)
	}
	return combinations, nil
}

// parseOptionValues unpacks the GROUP_CONCAT format
// group::value::id_attribute::id_group::is_color::color.
func parseOptionValues(packed string) ([]model.OptionValue, error) {
	packed = strings.TrimSpace(packed)
	if packed == "" {
		return nil, nil
	}

	var values []model.OptionValue
	for _, row := range strings.Split(packed, optionRowSeparator) {
		fields := strings.Split(row, optionFieldSeparator)
		if len(fields) != 6 {
			return nil, fmt.Errorf("malformed option row %q", row)
		}
		attrID, err := strconv.ParseInt(fields[2], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("malformed attribute id %q: %w", fields[2], err)
		}
		groupID, err := strconv.ParseInt(fields[3], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("malformed group id %q: %w", fields[3], err)
		}
		values = append(values, model.OptionValue{
			Group:       strings.TrimSpace(fields[0]),
			Value:       strings.TrimSpace(fields[1]),
			AttributeID: attrID,
			GroupID:     groupID,
			IsColor:     fields[4] == "1",
			ColorHex:    strings.TrimSpace(fields[5]),
		})
	}
	return values, nil
}

func (c *Client) textureURL(attributeID int64) string {
	return strings.TrimRight(c.config.BaseURL, "/") + "/img/co/" + strconv.FormatInt(attributeID, 10) + ".jpg"
}

// VariantTitlesByLocale assembles each combination's display title per
// locale, the attribute names joined " / " in group order. Keyed by the
// combination reference, combinations without one are skipped.
func (c *Client) VariantTitlesByLocale(ctx context.Context, productID int64) (map[string]map[string]string, error) {
	query := fmt.Sprintf(`
SELECT pa.id_product_attribute, COALESCE(pa.reference, ''), al.id_lang, COALESCE(al.name, '')
FROM %s pa
JOIN %s pac ON pac.id_product_attribute = pa.id_product_attribute
JOIN %s a ON a.id_attribute = pac.id_attribute
JOIN %s al ON al.id_attribute = a.id_attribute
JOIN %s ag ON ag.id_attribute_group = a.id_attribute_group
WHERE pa.id_product = ?
ORDER BY pa.id_product_attribute, al.id_lang, ag.position, a.position`,
		c.table("product_attribute"),
		c.table("product_attribute_combination"),
		c.table("attribute"),
		c.table("attribute_lang"),
		c.table("attribute_group"))

	rows, err := c.db.QueryContext(ctx, query, productID)
	if err != nil {
		return nil, fmt.Errorf("prestashop: variant titles %w", err)
	}
	defer rows.Close()

	type titleKey struct {
		combinationID int64
		langID        int64
	}
	parts := make(map[titleKey][]string)
	skuByCombination := make(map[int64]string)

	for rows.Next() {
		var (
			combinationID int64
			sku           string
			langID        int64
			name          string
		)
		if err := rows.Scan(&combinationID, &sku, &langID, &name); err != nil {
			return nil, fmt.Errorf("prestashop: scan variant title %w", err)
		}
		skuByCombination[combinationID] = strings.TrimSpace(sku)
		if name == "" {
			continue
		}
		key := titleKey{combinationID: combinationID, langID: langID}
		parts[key] = append(parts[key], name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("prestashop: iterate variant titles %w", err)
	}

	out := make(map[string]map[string]string)
	for key, names := range parts {
		sku := skuByCombination[key.combinationID]
		locale := c.locale(key.langID)
		if sku == "" || locale == "" {
			continue
		}
		if out[locale] == nil {
			out[locale] = make(map[string]string)
		}
		out[locale][sku] = strings.Join(names, " / ")
	}
	return out, nil
}

func (c *Client) OptionGroupTranslations(ctx context.Context, groupIDs []int64) (map[int64]map[string]string, error) {
	if len(groupIDs) == 0 {
		return nil, nil
	}

	placeholders := strings.TrimRight(strings.Repeat("?,", len(groupIDs)), ",")
	query := fmt.Sprintf(`
SELECT agl.id_attribute_group, agl.id_lang, COALESCE(agl.name, '')
FROM %s agl
WHERE agl.id_attribute_group IN (%s)`, c.table("attribute_group_lang"), placeholders)

	args := make([]any, 0, len(groupIDs))
	for _, id := range groupIDs {
		args = append(args, id)
	}

	rows, err := c.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("prestashop: option group translations %w", err)
	}
	defer rows.Close()

	out := make(map[int64]map[string]string)
	for rows.Next() {
		var (
			groupID int64
			langID  int64
			name    string
		)
		if err := rows.Scan(&groupID, &langID, &name); err != nil {
			return nil, fmt.Errorf("prestashop: scan option group translation %w", err)
		}
		locale := c.locale(langID)
		if locale == "" || name == "" {
			continue
		}
		if out[groupID] == nil {
			out[groupID] = make(map[string]string)
		}
		out[groupID][locale] = name
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("prestashop: iterate option group translations %w", err)
	}
	return out, nil
}
