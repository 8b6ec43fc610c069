package shopify

import (
	"context"
	"net/url"
	"path"
	"strings"

	"shopify-migrator/internal/adapters/shopify/dto"
	"shopify-migrator/internal/domain/model"
)

// AddImages attaches source images the product does not carry yet.
// Shopify rewrites uploaded URLs, so the diff compares basenames.
func (c *Client) AddImages(ctx context.Context, productGID string, existingSrcs []string, p *model.ProductPayload) error {
	if len(p.Images) == 0 {
		return nil
	}

	have := make(map[string]bool, len(existingSrcs))
	for _, src := range existingSrcs {
		have[imageBasename(src)] = true
	}

	var media []dto.CreateMediaInput
	for _, img := range p.Images {
		if have[imageBasename(img)] {
			continue
		}
		media = append(media, dto.CreateMediaInput{
			OriginalSource:   img,
			MediaContentType: "IMAGE",
		})
	}
	if len(media) == 0 {
		return nil
	}

	query := `
mutation productCreateMedia($productId: ID!, $media: [CreateMediaInput!]!) {
	productCreateMedia(productId: $productId, media: $media) {
		media { id }
		mediaUserErrors { field message code }
	}
}`

	var data dto.ProductCreateMediaData
	err := c.transport.GraphQL(ctx, ClassBulk, query, map[string]any{
		"productId": productGID,
		"media":     media,
	}, &data)
	if err != nil {
		return err
	}
	return userErrorsToError("productCreateMedia", data.ProductCreateMedia.MediaUserErrors)
}

func imageBasename(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return strings.ToLower(path.Base(rawURL))
	}
	base := path.Base(u.Path)
	// Shopify appends _<suffix> before the extension on collisions
	if idx := strings.LastIndex(base, "_"); idx > 0 {
		ext := path.Ext(base)
		trimmed := base[:idx] + ext
		return strings.ToLower(trimmed)
	}
	return strings.ToLower(base)
}
