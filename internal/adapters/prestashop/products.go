package prestashop

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"shopify-migrator/internal/domain/model"
)

func (c *Client) CountFiltered(ctx context.Context, filter model.SyncFilter) (int, error) {
	query := fmt.Sprintf(`
SELECT COUNT(*)
FROM %s p
WHERE p.active = 1`, c.table("product"))

	args := []any{}
	if filter.BrandID > 0 {
		query += " AND p.id_manufacturer = ?"
		args = append(args, filter.BrandID)
	}

	var total int
	if err := c.db.QueryRowContext(ctx, query, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("prestashop: count products %w", err)
	}
	return total, nil
}

func (c *Client) PageFiltered(ctx context.Context, limit, offset int, filter model.SyncFilter) ([]model.SourceProduct, error) {
	query := fmt.Sprintf(`
SELECT p.id_product, COALESCE(p.reference, ''), p.price, p.weight, p.active,
       COALESCE(m.name, ''), COALESCE(sa.quantity, 0)
FROM %s p
LEFT JOIN %s m ON m.id_manufacturer = p.id_manufacturer
LEFT JOIN %s sa ON sa.id_product = p.id_product AND sa.id_product_attribute = 0
WHERE p.active = 1`, c.table("product"), c.table("manufacturer"), c.table("stock_available"))

	args := []any{}
	if filter.BrandID > 0 {
		query += " AND p.id_manufacturer = ?"
		args = append(args, filter.BrandID)
	}
	query += " ORDER BY p.id_product LIMIT ? OFFSET ?"
	args = append(args, limit, offset)

	rows, err := c.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("prestashop: page products %w", err)
	}
	defer rows.Close()

	return scanProducts(rows)
}

func (c *Client) ByIDs(ctx context.Context, ids []int64) ([]model.SourceProduct, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	placeholders := strings.TrimRight(strings.Repeat("?,", len(ids)), ",")
	query := fmt.Sprintf(`
SELECT p.id_product, COALESCE(p.reference, ''), p.price, p.weight, p.active,
       COALESCE(m.name, ''), COALESCE(sa.quantity, 0)
FROM %s p
LEFT JOIN %s m ON m.id_manufacturer = p.id_manufacturer
LEFT JOIN %s sa ON sa.id_product = p.id_product AND sa.id_product_attribute = 0
WHERE p.id_product IN (%s)
ORDER BY p.id_product`, c.table("product"), c.table("manufacturer"), c.table("stock_available"), placeholders)

	args := make([]any, 0, len(ids))
	for _, id := range ids {
		args = append(args, id)
	}

	rows, err := c.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("prestashop: products by ids %w", err)
	}
	defer rows.Close()

	return scanProducts(rows)
}

func scanProducts(rows *sql.Rows) ([]model.SourceProduct, error) {
	var products []model.SourceProduct
	for rows.Next() {
		var p model.SourceProduct
		if err := rows.Scan(&p.ID, &p.Reference, &p.Price, &p.Weight, &p.Active, &p.Brand, &p.Quantity); err != nil {
			return nil, fmt.Errorf("prestashop: scan product %w", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("prestashop: iterate products %w", err)
	}
	return products, nil
}
