package shopify

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"shopify-migrator/internal/adapters/shopify/dto"
	"shopify-migrator/internal/domain/model"
)

// Option values live as metaobject entries so swatch colors and
// textures survive renames. The product option links to the metafield
// holding the entry references.
const optionNamespace = "psm"

func metaobjectType(group model.OptionGroup) string {
	return optionNamespace + "_" + handleize(group.Name)
}

func optionMetafieldKey(group model.OptionGroup) string {
	return handleize(group.Name)
}

// handleize is Shopify's handle normalization, close enough for keys.
func handleize(s string) string {
	var b strings.Builder
	lastDash := true
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}
	return strings.Trim(b.String(), "-")
}

// createLinkedOptions builds every option group on a fresh product.
// Groups carrying attribute metadata get metaobject-linked options
// whose values are the entry GIDs, the rest fall back to plain value
// lists.
func (c *Client) createLinkedOptions(ctx context.Context, productGID string, p *model.ProductPayload) error {
	var optionInputs []dto.OptionCreateInput

	for _, group := range p.Options {
		if !groupHasMetadata(group) {
			optionInputs = append(optionInputs, plainOptionInput(group))
			continue
		}

		entryGIDs, err := c.ensureOptionMetaobjects(ctx, group)
		if err != nil {
			return fmt.Errorf("option %s: %w", group.Name, err)
		}

		key := optionMetafieldKey(group)
		if err := c.setOptionReferenceMetafield(ctx, productGID, key, orderedEntryGIDs(group, entryGIDs)); err != nil {
			return fmt.Errorf("option %s metafield: %w", group.Name, err)
		}

		values := make([]dto.OptionValueCreateInput, 0, len(group.Values))
		for _, v := range group.Values {
			values = append(values, dto.OptionValueCreateInput{
				LinkedMetafieldValue: entryGIDs[normalizeOptionValue(v.Value)],
			})
		}
		optionInputs = append(optionInputs, dto.OptionCreateInput{
			Name: group.Name,
			LinkedMetafield: &dto.LinkedMetafieldInput{
				Namespace: optionNamespace,
				Key:       key,
			},
			Values: values,
		})
	}

	query := `
mutation productOptionsCreate($productId: ID!, $options: [OptionCreateInput!]!, $variantStrategy: ProductOptionCreateVariantStrategy) {
	productOptionsCreate(productId: $productId, options: $options, variantStrategy: $variantStrategy) {
		product {
			id
			options {
				id
				name
				position
				optionValues { id name linkedMetafieldValue }
			}
		}
		userErrors { field message code }
	}
}`

	var data dto.ProductOptionsCreateData
	err := c.transport.GraphQL(ctx, ClassBulk, query, map[string]any{
		"productId":       productGID,
		"options":         optionInputs,
		"variantStrategy": "LEAVE_AS_IS",
	}, &data)
	if err != nil {
		return err
	}
	return benignUserErrors("productOptionsCreate", data.ProductOptionsCreate.UserErrors)
}

func groupHasMetadata(group model.OptionGroup) bool {
	for _, v := range group.Values {
		if v.AttributeID > 0 {
			return true
		}
	}
	return false
}

func plainOptionInput(group model.OptionGroup) dto.OptionCreateInput {
	values := make([]dto.OptionValueCreateInput, 0, len(group.Values))
	for _, v := range group.Values {
		values = append(values, dto.OptionValueCreateInput{Name: v.Value})
	}
	return dto.OptionCreateInput{
		Name:   group.Name,
		Values: values,
	}
}

// ensureOptionMetaobjects guarantees definition and one entry per
// value, returning entry GIDs keyed by normalized source value.
func (c *Client) ensureOptionMetaobjects(ctx context.Context, group model.OptionGroup) (map[string]string, error) {
	defType := metaobjectType(group)
	if _, err := c.ensureMetaobjectDefinition(ctx, defType, group.IsColor); err != nil {
		return nil, err
	}
	if err := c.ensureOptionMetafieldDefinition(ctx, group, defType); err != nil {
		return nil, err
	}

	gids := make(map[string]string, len(group.Values))
	for _, v := range group.Values {
		gid, err := c.ensureMetaobjectEntry(ctx, defType, v)
		if err != nil {
			return nil, fmt.Errorf("value %s: %w", v.Value, err)
		}
		gids[normalizeOptionValue(v.Value)] = gid
	}
	return gids, nil
}

// groupEntryGIDs is ensureOptionMetaobjects for metadata groups and an
// empty map for plain ones.
func (c *Client) groupEntryGIDs(ctx context.Context, group model.OptionGroup) (map[string]string, error) {
	if !groupHasMetadata(group) {
		return nil, nil
	}
	return c.ensureOptionMetaobjects(ctx, group)
}

func orderedEntryGIDs(group model.OptionGroup, byValue map[string]string) []string {
	gids := make([]string, 0, len(group.Values))
	for _, v := range group.Values {
		if gid := byValue[normalizeOptionValue(v.Value)]; gid != "" {
			gids = append(gids, gid)
		}
	}
	return gids
}

func (c *Client) ensureMetaobjectDefinition(ctx context.Context, defType string, isColor bool) (string, error) {
	if gid, ok := c.metaobjectDefs[defType]; ok {
		return gid, nil
	}

	lookup := `
query metaobjectDefinitionByType($type: String!) {
	metaobjectDefinitionByType(type: $type) { id }
}`

	var found dto.MetaobjectDefinitionByTypeData
	if err := c.transport.GraphQL(ctx, ClassBulk, lookup, map[string]any{"type": defType}, &found); err != nil {
		return "", err
	}
	if found.MetaobjectDefinitionByType != nil {
		c.metaobjectDefs[defType] = found.MetaobjectDefinitionByType.ID
		return found.MetaobjectDefinitionByType.ID, nil
	}

	fieldDefinitions := []dto.MetaobjectFieldDefinitionInput{
		{Key: "label", Name: "Label", Type: "single_line_text_field"},
	}
	if isColor {
		fieldDefinitions = append(fieldDefinitions,
			dto.MetaobjectFieldDefinitionInput{Key: "color", Name: "Color", Type: "color"},
			dto.MetaobjectFieldDefinitionInput{Key: "image", Name: "Image", Type: "file_reference"},
		)
	}

	create := `
mutation metaobjectDefinitionCreate($definition: MetaobjectDefinitionCreateInput!) {
	metaobjectDefinitionCreate(definition: $definition) {
		metaobjectDefinition { id }
		userErrors { field message code }
	}
}`

	var created dto.MetaobjectDefinitionCreateData
	err := c.transport.GraphQL(ctx, ClassBulk, create, map[string]any{
		"definition": dto.MetaobjectDefinitionCreateInput{
			Type:             defType,
			Name:             defType,
			DisplayNameKey:   "label",
			FieldDefinitions: fieldDefinitions,
			Capabilities: &dto.MetaobjectDefinitionCapabilities{
				Publishable: &dto.CapabilityEnabled{Enabled: true},
			},
		},
	}, &created)
	if err != nil {
		return "", err
	}
	if err := userErrorsToError("metaobjectDefinitionCreate", created.MetaobjectDefinitionCreate.UserErrors); err != nil {
		return "", err
	}
	if created.MetaobjectDefinitionCreate.MetaobjectDefinition == nil {
		return "", errors.New("shopify: metaobjectDefinitionCreate returned no definition")
	}

	gid := created.MetaobjectDefinitionCreate.MetaobjectDefinition.ID
	c.metaobjectDefs[defType] = gid
	return gid, nil
}

func (c *Client) ensureOptionMetafieldDefinition(ctx context.Context, group model.OptionGroup, defType string) error {
	key := optionMetafieldKey(group)
	cacheKey := optionNamespace + "." + key
	if _, ok := c.metafieldDefs[cacheKey]; ok {
		return nil
	}

	lookup := `
query metafieldDefinitions($namespace: String!, $key: String!, $ownerType: MetafieldOwnerType!) {
	metafieldDefinitions(first: 1, namespace: $namespace, key: $key, ownerType: $ownerType) {
		nodes { id key }
	}
}`

	var found dto.MetafieldDefinitionsData
	err := c.transport.GraphQL(ctx, ClassBulk, lookup, map[string]any{
		"namespace": optionNamespace,
		"key":       key,
		"ownerType": "PRODUCT",
	}, &found)
	if err != nil {
		return err
	}
	if len(found.MetafieldDefinitions.Nodes) > 0 {
		c.metafieldDefs[cacheKey] = found.MetafieldDefinitions.Nodes[0].ID
		return nil
	}

	defGID := c.metaobjectDefs[defType]
	create := `
mutation metafieldDefinitionCreate($definition: MetafieldDefinitionInput!) {
	metafieldDefinitionCreate(definition: $definition) {
		createdDefinition { id }
		userErrors { field message code }
	}
}`

	var created dto.MetafieldDefinitionCreateData
	err = c.transport.GraphQL(ctx, ClassBulk, create, map[string]any{
		"definition": dto.MetafieldDefinitionInput{
			Namespace: optionNamespace,
			Key:       key,
			Name:      group.Name,
			Type:      "list.metaobject_reference",
			OwnerType: "PRODUCT",
			Validations: []dto.MetafieldDefinitionValidation{
				{Name: "metaobject_definition_id", Value: defGID},
			},
		},
	}, &created)
	if err != nil {
		return err
	}
	if err := benignUserErrors("metafieldDefinitionCreate", created.MetafieldDefinitionCreate.UserErrors); err != nil {
		return err
	}
	if created.MetafieldDefinitionCreate.CreatedDefinition != nil {
		c.metafieldDefs[cacheKey] = created.MetafieldDefinitionCreate.CreatedDefinition.ID
	} else {
		c.metafieldDefs[cacheKey] = "taken"
	}
	return nil
}

// ensureMetaobjectEntry resolves or creates the entry for one source
// value. The handle couples the label slug with the attribute id, so a
// value relabeled at the source mints a fresh entry.
func (c *Client) ensureMetaobjectEntry(ctx context.Context, defType string, value model.OptionValue) (string, error) {
	handle := fmt.Sprintf("%s_%d", handleize(value.Value), value.AttributeID)
	cacheKey := defType + "/" + handle
	if gid, ok := c.optionEntries[cacheKey]; ok {
		return gid, nil
	}

	lookup := `
query metaobjectByHandle($handle: MetaobjectHandleInput!) {
	metaobjectByHandle(handle: $handle) { id }
}`

	var found dto.MetaobjectByHandleData
	err := c.transport.GraphQL(ctx, ClassBulk, lookup, map[string]any{
		"handle": dto.MetaobjectHandleInput{Type: defType, Handle: handle},
	}, &found)
	if err != nil {
		return "", err
	}
	if found.MetaobjectByHandle != nil {
		c.optionEntries[cacheKey] = found.MetaobjectByHandle.ID
		return found.MetaobjectByHandle.ID, nil
	}

	fields := []dto.MetaobjectFieldInput{
		{Key: "label", Value: value.Value},
	}
	if value.IsColor && value.ColorHex != "" {
		fields = append(fields, dto.MetaobjectFieldInput{Key: "color", Value: value.ColorHex})
	}
	if value.IsColor && value.ColorHex == "" && value.TextureURL != "" {
		fileGID, err := c.ensureFileByURL(ctx, value.TextureURL)
		if err == nil && fileGID != "" {
			fields = append(fields, dto.MetaobjectFieldInput{Key: "image", Value: fileGID})
		}
	}

	create := `
mutation metaobjectCreate($metaobject: MetaobjectCreateInput!) {
	metaobjectCreate(metaobject: $metaobject) {
		metaobject { id }
		userErrors { field message code }
	}
}`

	var created dto.MetaobjectCreateData
	err = c.transport.GraphQL(ctx, ClassBulk, create, map[string]any{
		"metaobject": dto.MetaobjectCreateInput{
			Type:   defType,
			Handle: handle,
			Fields: fields,
			Capabilities: &dto.MetaobjectCapabilities{
				Publishable: &dto.CapabilityStatus{Status: "ACTIVE"},
			},
		},
	}, &created)
	if err != nil {
		return "", err
	}
	if err := userErrorsToError("metaobjectCreate", created.MetaobjectCreate.UserErrors); err != nil {
		return "", err
	}
	if created.MetaobjectCreate.Metaobject == nil {
		return "", errors.New("shopify: metaobjectCreate returned no metaobject")
	}
	c.optionEntries[cacheKey] = created.MetaobjectCreate.Metaobject.ID
	return created.MetaobjectCreate.Metaobject.ID, nil
}

func (c *Client) setOptionReferenceMetafield(ctx context.Context, productGID, key string, entryGIDs []string) error {
	value, err := jsonStringList(entryGIDs)
	if err != nil {
		return err
	}
	_, err = c.metafieldsSet(ctx, []dto.MetafieldSetInput{
		{
			OwnerID:   productGID,
			Namespace: optionNamespace,
			Key:       key,
			Type:      "list.metaobject_reference",
			Value:     value,
		},
	})
	return err
}

// optionValueIDs maps payload values to option value GIDs, resolving
// through the metaobject entry GID on linked options and the display
// name on plain ones. Values Shopify does not know yet are added
// through productOptionUpdate first.
func (c *Client) optionValueIDs(ctx context.Context, productGID string, p *model.ProductPayload) (map[string]map[string]string, []dto.ProductOption, error) {
	snapshot, err := c.productSnapshot(ctx, productGID)
	if err != nil {
		return nil, nil, err
	}
	options := canonicalOptionOrder(snapshot.Options)

	ids := make(map[string]map[string]string, len(options))
	for _, group := range p.Options {
		opt, ok := findOptionByName(options, group.Name)
		if !ok {
			continue
		}

		entries, err := c.groupEntryGIDs(ctx, group)
		if err != nil {
			return nil, nil, fmt.Errorf("option %s: %w", group.Name, err)
		}

		var missing []dto.OptionValueCreateInput
		for _, v := range group.Values {
			entryGID := entries[normalizeOptionValue(v.Value)]
			if _, found := resolveOptionValueID(opt, entryGID, v.Value); found {
				continue
			}
			if entryGID != "" {
				missing = append(missing, dto.OptionValueCreateInput{LinkedMetafieldValue: entryGID})
			} else {
				missing = append(missing, dto.OptionValueCreateInput{Name: v.Value})
			}
		}
		if len(missing) > 0 {
			if err := c.addOptionValues(ctx, productGID, opt.ID, missing); err != nil {
				return nil, nil, fmt.Errorf("option %s: %w", group.Name, err)
			}
			snapshot, err = c.productSnapshot(ctx, productGID)
			if err != nil {
				return nil, nil, err
			}
			options = canonicalOptionOrder(snapshot.Options)
			opt, _ = findOptionByName(options, group.Name)
		}

		byValue := make(map[string]string, len(group.Values))
		for i, v := range group.Values {
			entryGID := entries[normalizeOptionValue(v.Value)]
			if gid, found := resolveOptionValueID(opt, entryGID, v.Value); found {
				byValue[normalizeOptionValue(v.Value)] = gid
				continue
			}
			// positional fallback, only when the counts line up
			if len(opt.Values) == len(group.Values) {
				byValue[normalizeOptionValue(v.Value)] = opt.Values[i].ID
			}
		}
		ids[strings.ToLower(group.Name)] = byValue
	}
	return ids, options, nil
}

func findOptionByName(options []dto.ProductOption, name string) (dto.ProductOption, bool) {
	for _, opt := range options {
		if strings.EqualFold(opt.Name, name) {
			return opt, true
		}
	}
	return dto.ProductOption{}, false
}

// resolveOptionValueID matches on the linked entry GID first, the
// display name second. The GID survives a relabel on either side, the
// name is all plain options have.
func resolveOptionValueID(opt dto.ProductOption, entryGID, display string) (string, bool) {
	if entryGID != "" {
		for _, v := range opt.Values {
			if v.LinkedMetafieldValue == entryGID {
				return v.ID, true
			}
		}
	}
	want := normalizeOptionValue(display)
	for _, v := range opt.Values {
		if normalizeOptionValue(v.Name) == want {
			return v.ID, true
		}
	}
	return "", false
}

// optionValueDisplay is the name Shopify currently shows for the value
// linked to entryGID, empty when none is.
func optionValueDisplay(opt dto.ProductOption, entryGID string) string {
	if entryGID == "" {
		return ""
	}
	for _, v := range opt.Values {
		if v.LinkedMetafieldValue == entryGID {
			return v.Name
		}
	}
	return ""
}

func (c *Client) addOptionValues(ctx context.Context, productGID, optionGID string, toAdd []dto.OptionValueCreateInput) error {
	query := `
mutation productOptionUpdate($productId: ID!, $option: OptionUpdateInput!, $optionValuesToAdd: [OptionValueCreateInput!]) {
	productOptionUpdate(productId: $productId, option: $option, optionValuesToAdd: $optionValuesToAdd) {
		product { id }
		userErrors { field message code }
	}
}`

	var data dto.ProductOptionUpdateData
	err := c.transport.GraphQL(ctx, ClassBulk, query, map[string]any{
		"productId":         productGID,
		"option":            dto.OptionUpdateInput{ID: optionGID},
		"optionValuesToAdd": toAdd,
	}, &data)
	if err != nil {
		return err
	}
	return benignUserErrors("productOptionUpdate", data.ProductOptionUpdate.UserErrors)
}
