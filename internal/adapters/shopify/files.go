package shopify

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"shopify-migrator/internal/adapters/shopify/dto"
	"shopify-migrator/internal/domain/model"
)

// ensureFileByURL creates a Shopify file from a public URL once per
// process, keyed on the URL.
func (c *Client) ensureFileByURL(ctx context.Context, sourceURL string) (string, error) {
	if gid, ok := c.filesByURL[sourceURL]; ok {
		return gid, nil
	}

	gid, err := c.fileCreate(ctx, sourceURL, "IMAGE")
	if err != nil {
		return "", err
	}
	c.filesByURL[sourceURL] = gid
	return gid, nil
}

func (c *Client) fileCreate(ctx context.Context, originalSource, contentType string) (string, error) {
	query := `
mutation fileCreate($files: [FileCreateInput!]!) {
	fileCreate(files: $files) {
		files { id }
		userErrors { field message code }
	}
}`

	var data dto.FileCreateData
	err := c.transport.GraphQL(ctx, ClassBulk, query, map[string]any{
		"files": []dto.FileCreateInput{
			{
				OriginalSource: originalSource,
				ContentType:    contentType,
			},
		},
	}, &data)
	if err != nil {
		return "", err
	}
	if err := userErrorsToError("fileCreate", data.FileCreate.UserErrors); err != nil {
		return "", err
	}
	if len(data.FileCreate.Files) == 0 {
		return "", errors.New("shopify: fileCreate returned no files")
	}
	return data.FileCreate.Files[0].ID, nil
}

// ensureAttachmentFile stages, uploads and registers one attachment,
// keyed on the source content hash.
func (c *Client) ensureAttachmentFile(ctx context.Context, att model.Attachment) (string, error) {
	if gid, ok := c.filesByHash[att.Hash]; ok {
		return gid, nil
	}

	target, err := c.stagedUploadTarget(ctx, att)
	if err != nil {
		return "", err
	}
	if err := c.uploadToStagedTarget(ctx, target, att); err != nil {
		return "", err
	}

	gid, err := c.fileCreate(ctx, target.ResourceURL, "FILE")
	if err != nil {
		return "", err
	}
	c.filesByHash[att.Hash] = gid
	return gid, nil
}

func (c *Client) stagedUploadTarget(ctx context.Context, att model.Attachment) (dto.StagedTarget, error) {
	query := `
mutation stagedUploadsCreate($input: [StagedUploadInput!]!) {
	stagedUploadsCreate(input: $input) {
		stagedTargets {
			url
			resourceUrl
			parameters { name value }
		}
		userErrors { field message }
	}
}`

	var data dto.StagedUploadsCreateData
	err := c.transport.GraphQL(ctx, ClassBulk, query, map[string]any{
		"input": []dto.StagedUploadInput{
			{
				Filename:   att.FileName,
				MimeType:   att.Mime,
				Resource:   "FILE",
				HTTPMethod: "POST",
			},
		},
	}, &data)
	if err != nil {
		return dto.StagedTarget{}, err
	}
	if err := userErrorsToError("stagedUploadsCreate", data.StagedUploadsCreate.UserErrors); err != nil {
		return dto.StagedTarget{}, err
	}
	if len(data.StagedUploadsCreate.StagedTargets) == 0 {
		return dto.StagedTarget{}, errors.New("shopify: stagedUploadsCreate returned no targets")
	}
	return data.StagedUploadsCreate.StagedTargets[0], nil
}

// uploadToStagedTarget posts the multipart form Shopify prescribes.
// The file part must come last.
func (c *Client) uploadToStagedTarget(ctx context.Context, target dto.StagedTarget, att model.Attachment) error {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	for _, param := range target.Parameters {
		if err := writer.WriteField(param.Name, param.Value); err != nil {
			return err
		}
	}
	part, err := writer.CreateFormFile("file", att.FileName)
	if err != nil {
		return err
	}
	if _, err := part.Write(att.Data); err != nil {
		return err
	}
	if err := writer.Close(); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target.URL, &body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.transport.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("staged upload: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(resp.Body)
		return &TransportError{
			Status:   resp.StatusCode,
			Endpoint: "staged upload",
			Body:     truncateBody(respBody),
		}
	}
	return nil
}

// SyncAttachments uploads every attachment and stores their references
// as a product file list metafield.
func (c *Client) SyncAttachments(ctx context.Context, productGID string, p *model.ProductPayload) error {
	if len(p.Attachments) == 0 {
		return nil
	}

	gids := make([]string, 0, len(p.Attachments))
	for _, att := range p.Attachments {
		gid, err := c.ensureAttachmentFile(ctx, att)
		if err != nil {
			return fmt.Errorf("attachment %s: %w", att.FileName, err)
		}
		gids = append(gids, gid)
	}

	value, err := jsonStringList(gids)
	if err != nil {
		return err
	}
	_, err = c.metafieldsSet(ctx, []dto.MetafieldSetInput{
		{
			OwnerID:   productGID,
			Namespace: identityNamespace,
			Key:       "attachments",
			Type:      "list.file_reference",
			Value:     value,
		},
	})
	return err
}

const swatchNamespace = "swatch"

// SyncVariantTextures stores each color value's texture image as a
// file reference metafield on the variants carrying that value, keyed
// through the SKU.
func (c *Client) SyncVariantTextures(ctx context.Context, productGID string, p *model.ProductPayload) error {
	textures := variantTextureURLs(p)
	if len(textures) == 0 {
		return nil
	}

	snapshot, err := c.productSnapshot(ctx, productGID)
	if err != nil {
		return err
	}

	for _, node := range snapshot.Variants.Nodes {
		textureURL := textures[strings.ToLower(node.SKU)]
		if textureURL == "" {
			continue
		}
		fileGID, err := c.ensureFileByURL(ctx, textureURL)
		if err != nil {
			return fmt.Errorf("texture for %s: %w", node.SKU, err)
		}
		_, err = c.metafieldsSet(ctx, []dto.MetafieldSetInput{
			{
				OwnerID:   node.ID,
				Namespace: swatchNamespace,
				Key:       "texture",
				Type:      "file_reference",
				Value:     fileGID,
			},
		})
		if err != nil {
			return fmt.Errorf("texture metafield for %s: %w", node.SKU, err)
		}
	}
	return nil
}

// variantTextureURLs maps each variant SKU to the texture of its color
// value, positional against the payload option order.
func variantTextureURLs(p *model.ProductPayload) map[string]string {
	out := make(map[string]string)
	for gi, group := range p.Options {
		if !group.IsColor {
			continue
		}
		byValue := make(map[string]string, len(group.Values))
		for _, v := range group.Values {
			if v.TextureURL != "" {
				byValue[normalizeOptionValue(v.Value)] = v.TextureURL
			}
		}
		if len(byValue) == 0 {
			continue
		}
		for _, v := range p.Variants {
			if v.SKU == "" || gi >= len(v.OptionValues) {
				continue
			}
			if textureURL := byValue[normalizeOptionValue(v.OptionValues[gi])]; textureURL != "" {
				out[strings.ToLower(v.SKU)] = textureURL
			}
		}
	}
	return out
}
