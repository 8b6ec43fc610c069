package prestashop

import (
	"context"
	"fmt"
	"strconv"
	"strings"
)

func (c *Client) ImageURLs(ctx context.Context, productID int64) ([]string, error) {
	query := fmt.Sprintf(`
SELECT i.id_image
FROM %s i
WHERE i.id_product = ?
ORDER BY i.cover DESC, i.position ASC`, c.table("image"))

	rows, err := c.db.QueryContext(ctx, query, productID)
	if err != nil {
		return nil, fmt.Errorf("prestashop: product images %w", err)
	}
	defer rows.Close()

	var urls []string
	for rows.Next() {
		var imageID int64
		if err := rows.Scan(&imageID); err != nil {
			return nil, fmt.Errorf("prestashop: scan image %w", err)
		}
		urls = append(urls, c.imageURL(imageID))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("prestashop: iterate images %w", err)
	}
	return urls, nil
}

// imageURL builds the digit-split storage path, image 12345 lives at
// /img/p/1/2/3/4/5/12345.jpg.
func (c *Client) imageURL(imageID int64) string {
	id := strconv.FormatInt(imageID, 10)
	parts := make([]string, 0, len(id)+1)
	for _, d := range id {
		parts = append(parts, string(d))
	}
	parts = append(parts, id+".jpg")
	return strings.TrimRight(c.config.BaseURL, "/") + "/img/p/" + strings.Join(parts, "/")
}
