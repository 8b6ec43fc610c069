package dto

// Request shapes for the GraphQL mutations and REST endpoints the
// adapter drives. Optional fields are pointers or omitempty so absent
// stays absent on the wire.

type ProductCreateInput struct {
	Title           string   `json:"title"`
	Handle          string   `json:"handle"`
	Status          string   `json:"status"`
	DescriptionHTML string   `json:"descriptionHtml,omitempty"`
	Vendor          string   `json:"vendor,omitempty"`
	Tags            []string `json:"tags,omitempty"`
	Category        string   `json:"category,omitempty"`
}

type OptionCreateInput struct {
	Name            string                   `json:"name"`
	LinkedMetafield *LinkedMetafieldInput    `json:"linkedMetafield,omitempty"`
	Values          []OptionValueCreateInput `json:"values,omitempty"`
}

type LinkedMetafieldInput struct {
	Namespace string `json:"namespace"`
	Key       string `json:"key"`
}

// OptionValueCreateInput carries exactly one of Name (plain options)
// or LinkedMetafieldValue (the metaobject entry GID on linked ones).
type OptionValueCreateInput struct {
	Name                 string `json:"name,omitempty"`
	LinkedMetafieldValue string `json:"linkedMetafieldValue,omitempty"`
}

type OptionUpdateInput struct {
	ID string `json:"id"`
}

type MetaobjectDefinitionCreateInput struct {
	Type             string                            `json:"type"`
	Name             string                            `json:"name"`
	DisplayNameKey   string                            `json:"displayNameKey,omitempty"`
	FieldDefinitions []MetaobjectFieldDefinitionInput  `json:"fieldDefinitions"`
	Capabilities     *MetaobjectDefinitionCapabilities `json:"capabilities,omitempty"`
}

type MetaobjectFieldDefinitionInput struct {
	Key  string `json:"key"`
	Name string `json:"name"`
	Type string `json:"type"`
}

type MetaobjectDefinitionCapabilities struct {
	Publishable *CapabilityEnabled `json:"publishable,omitempty"`
}

type CapabilityEnabled struct {
	Enabled bool `json:"enabled"`
}

type MetaobjectCreateInput struct {
	Type         string                  `json:"type"`
	Handle       string                  `json:"handle"`
	Fields       []MetaobjectFieldInput  `json:"fields"`
	Capabilities *MetaobjectCapabilities `json:"capabilities,omitempty"`
}

type MetaobjectFieldInput struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

type MetaobjectCapabilities struct {
	Publishable *CapabilityStatus `json:"publishable,omitempty"`
}

type CapabilityStatus struct {
	Status string `json:"status"`
}

type MetaobjectHandleInput struct {
	Type   string `json:"type"`
	Handle string `json:"handle"`
}

type MetafieldDefinitionInput struct {
	Namespace   string                          `json:"namespace"`
	Key         string                          `json:"key"`
	Name        string                          `json:"name"`
	Type        string                          `json:"type"`
	OwnerType   string                          `json:"ownerType"`
	Validations []MetafieldDefinitionValidation `json:"validations,omitempty"`
	Access      *MetafieldAccessInput           `json:"access,omitempty"`
}

type MetafieldDefinitionValidation struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type MetafieldAccessInput struct {
	Storefront string `json:"storefront,omitempty"`
}

type MetafieldSetInput struct {
	OwnerID   string `json:"ownerId"`
	Namespace string `json:"namespace"`
	Key       string `json:"key"`
	Type      string `json:"type"`
	Value     string `json:"value"`
}

type VariantsBulkInput struct {
	ID              string                    `json:"id,omitempty"`
	OptionValues    []VariantOptionValueInput `json:"optionValues,omitempty"`
	Price           string                    `json:"price,omitempty"`
	Barcode         string                    `json:"barcode,omitempty"`
	InventoryPolicy string                    `json:"inventoryPolicy,omitempty"`
	InventoryItem   *InventoryItemInput       `json:"inventoryItem,omitempty"`
}

type VariantOptionValueInput struct {
	OptionID string `json:"optionId"`
	ID       string `json:"id"`
}

type InventoryItemInput struct {
	SKU         string                         `json:"sku"`
	Tracked     bool                           `json:"tracked"`
	Measurement *InventoryItemMeasurementInput `json:"measurement,omitempty"`
}

type InventoryItemMeasurementInput struct {
	Weight *WeightInput `json:"weight,omitempty"`
}

type WeightInput struct {
	Unit  string  `json:"unit"`
	Value float64 `json:"value"`
}

type InventorySetQuantitiesInput struct {
	Name                  string                   `json:"name"`
	Reason                string                   `json:"reason"`
	IgnoreCompareQuantity bool                     `json:"ignoreCompareQuantity"`
	Quantities            []InventoryQuantityInput `json:"quantities"`
}

type InventoryQuantityInput struct {
	InventoryItemID string `json:"inventoryItemId"`
	LocationID      string `json:"locationId"`
	Quantity        int    `json:"quantity"`
}

type FileCreateInput struct {
	OriginalSource string `json:"originalSource"`
	ContentType    string `json:"contentType"`
}

type StagedUploadInput struct {
	Filename   string `json:"filename"`
	MimeType   string `json:"mimeType"`
	Resource   string `json:"resource"`
	HTTPMethod string `json:"httpMethod"`
}

type CreateMediaInput struct {
	OriginalSource   string `json:"originalSource"`
	MediaContentType string `json:"mediaContentType"`
}

type PublicationInput struct {
	PublicationID string `json:"publicationId"`
}

type URLRedirectInput struct {
	Path   string `json:"path"`
	Target string `json:"target"`
}

type CollectionInput struct {
	Title  string `json:"title"`
	Handle string `json:"handle"`
}

type TranslationInput struct {
	Key                       string `json:"key"`
	Locale                    string `json:"locale"`
	Value                     string `json:"value"`
	TranslatableContentDigest string `json:"translatableContentDigest"`
}

// REST envelopes for the legacy-id update path.

type RestProductBody struct {
	Product RestProduct `json:"product"`
}

type RestProduct struct {
	ID       int64  `json:"id"`
	Title    string `json:"title"`
	Handle   string `json:"handle"`
	Status   string `json:"status"`
	BodyHTML string `json:"body_html,omitempty"`
	Vendor   string `json:"vendor,omitempty"`
	Tags     string `json:"tags,omitempty"`
}

type RestVariantBody struct {
	Variant RestVariant `json:"variant"`
}

type RestVariant struct {
	ID              int64   `json:"id"`
	Price           string  `json:"price"`
	SKU             string  `json:"sku"`
	Barcode         string  `json:"barcode,omitempty"`
	Taxable         bool    `json:"taxable"`
	InventoryPolicy string  `json:"inventory_policy"`
	Weight          float64 `json:"weight,omitempty"`
	WeightUnit      string  `json:"weight_unit,omitempty"`
}
