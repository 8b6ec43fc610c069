package prestashop

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"shopify-migrator/internal/domain/model"
)

func (c *Client) Attachments(ctx context.Context, productID int64) ([]model.Attachment, error) {
	query := fmt.Sprintf(`
SELECT a.id_attachment, a.file, COALESCE(al.name, a.file), COALESCE(a.mime, 'application/octet-stream')
FROM %s pa
JOIN %s a ON a.id_attachment = pa.id_attachment
LEFT JOIN %s al ON al.id_attachment = a.id_attachment AND al.id_lang = ?
WHERE pa.id_product = ?
ORDER BY a.id_attachment`, c.table("product_attachment"), c.table("attachment"), c.table("attachment_lang"))

	rows, err := c.db.QueryContext(ctx, query, c.config.PrimaryLangID, productID)
	if err != nil {
		return nil, fmt.Errorf("prestashop: product attachments %w", err)
	}
	defer rows.Close()

	var attachments []model.Attachment
	for rows.Next() {
		var a model.Attachment
		if err := rows.Scan(&a.ID, &a.Hash, &a.FileName, &a.Mime); err != nil {
			return nil, fmt.Errorf("prestashop: scan attachment %w", err)
		}
		a.FileName = normalizeFileName(a.FileName)
		attachments = append(attachments, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("prestashop: iterate attachments %w", err)
	}

	for i := range attachments {
		data, err := c.attachmentData(ctx, attachments[i].Hash)
		if err != nil {
			return nil, fmt.Errorf("prestashop: attachment %d %w", attachments[i].ID, err)
		}
		attachments[i].Data = data
	}
	return attachments, nil
}

// attachmentData reads the stored file from the download dir, falling
// back to an HTTP fetch from the shop when the dir is not mounted.
func (c *Client) attachmentData(ctx context.Context, hash string) ([]byte, error) {
	if c.config.DownloadDir != "" {
		data, err := os.ReadFile(filepath.Join(c.config.DownloadDir, hash))
		if err == nil {
			return data, nil
		}
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("read %s: %w", hash, err)
		}
	}

	url := strings.TrimRight(c.config.BaseURL, "/") + "/download/" + hash
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("fetch %s: %s", url, resp.Status)
	}
	return io.ReadAll(resp.Body)
}

func normalizeFileName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return "attachment"
	}
	ext := filepath.Ext(name)
	base := Slugify(strings.TrimSuffix(name, ext))
	if base == "" {
		base = "attachment"
	}
	return base + strings.ToLower(ext)
}
