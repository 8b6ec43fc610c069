package shopify

import (
	"context"
	"fmt"

	"shopify-migrator/internal/adapters/shopify/dto"
	"shopify-migrator/internal/domain/model"
)

// SyncRedirects maps the old storefront URLs onto the new product,
// per locale, with and without the locale prefix. Existing redirects
// are benign.
func (c *Client) SyncRedirects(ctx context.Context, p *model.ProductPayload) error {
	target := "/products/" + p.Handle

	seen := make(map[string]bool)
	for locale, bundle := range p.Texts {
		if bundle.Slug == "" {
			continue
		}
		legacy := fmt.Sprintf("/%d-%s.html", p.SourceID, bundle.Slug)
		for _, path := range []string{legacy, "/" + locale + legacy} {
			if seen[path] {
				continue
			}
			seen[path] = true
			if err := c.createRedirect(ctx, path, target); err != nil {
				return fmt.Errorf("redirect %s: %w", path, err)
			}
		}
	}
	return nil
}

func (c *Client) createRedirect(ctx context.Context, path, target string) error {
	query := `
mutation urlRedirectCreate($urlRedirect: UrlRedirectInput!) {
	urlRedirectCreate(urlRedirect: $urlRedirect) {
		urlRedirect { id }
		userErrors { field message code }
	}
}`

	var data dto.URLRedirectCreateData
	err := c.transport.GraphQL(ctx, ClassBulk, query, map[string]any{
		"urlRedirect": dto.URLRedirectInput{
			Path:   path,
			Target: target,
		},
	}, &data)
	if err != nil {
		return err
	}
	return benignUserErrors("urlRedirectCreate", data.URLRedirectCreate.UserErrors)
}
