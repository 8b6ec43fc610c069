package prestashop

import (
	"context"
	"fmt"
	"strings"
)

// AttributeValueTranslations returns attribute id to locale to display
// name for the given attribute ids.
func (c *Client) AttributeValueTranslations(ctx context.Context, attributeIDs []int64) (map[int64]map[string]string, error) {
	if len(attributeIDs) == 0 {
		return nil, nil
	}

	placeholders := strings.TrimRight(strings.Repeat("?,", len(attributeIDs)), ",")
	query := fmt.Sprintf(`
SELECT al.id_attribute, al.id_lang, COALESCE(al.name, '')
FROM %s al
WHERE al.id_attribute IN (%s)`, c.table("attribute_lang"), placeholders)

	args := make([]any, 0, len(attributeIDs))
	for _, id := range attributeIDs {
		args = append(args, id)
	}

	rows, err := c.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("prestashop: attribute translations %w", err)
	}
	defer rows.Close()

	out := make(map[int64]map[string]string)
	for rows.Next() {
		var (
			attrID int64
			langID int64
			name   string
		)
		if err := rows.Scan(&attrID, &langID, &name); err != nil {
			return nil, fmt.Errorf("prestashop: scan attribute translation %w", err)
		}
		locale := c.locale(langID)
		if locale == "" || name == "" {
			continue
		}
		if out[attrID] == nil {
			out[attrID] = make(map[string]string)
		}
		out[attrID][locale] = name
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("prestashop: iterate attribute translations %w", err)
	}
	return out, nil
}
