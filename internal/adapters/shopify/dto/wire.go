package dto

// Wire shapes for the GraphQL documents the adapter sends.

type ProductNode struct {
	ID               string `json:"id"`
	LegacyResourceID int64  `json:"legacyResourceId,string"`
	Handle           string `json:"handle"`
	Title            string `json:"title"`
	Status           string `json:"status"`
	Media            struct {
		Nodes []struct {
			Image *struct {
				URL string `json:"url"`
			} `json:"image"`
		} `json:"nodes"`
	} `json:"media"`
	Options  []ProductOption   `json:"options"`
	Variants VariantConnection `json:"variants"`
}

type VariantConnection struct {
	Nodes    []VariantNode `json:"nodes"`
	PageInfo PageInfo      `json:"pageInfo"`
}

type VariantNode struct {
	ID               string `json:"id"`
	LegacyResourceID int64  `json:"legacyResourceId,string"`
	SKU              string `json:"sku"`
	InventoryItem    struct {
		ID string `json:"id"`
	} `json:"inventoryItem"`
	SelectedOptions []SelectedOption `json:"selectedOptions"`
}

type ProductByHandleData struct {
	Product *ProductNode `json:"productByHandle"`
}

type ProductWithVariantsData struct {
	Product *ProductNode `json:"product"`
}

type ProductCreateData struct {
	ProductCreate struct {
		Product *struct {
			ID               string `json:"id"`
			LegacyResourceID int64  `json:"legacyResourceId,string"`
		} `json:"product"`
		UserErrors []UserError `json:"userErrors,omitempty"`
	} `json:"productCreate"`
}

type ProductUpdateData struct {
	ProductUpdate struct {
		Product *struct {
			ID string `json:"id"`
		} `json:"product"`
		UserErrors []UserError `json:"userErrors,omitempty"`
	} `json:"productUpdate"`
}

type PublishData struct {
	PublishablePublish struct {
		UserErrors []UserError `json:"userErrors,omitempty"`
	} `json:"publishablePublish"`
}

type ProductOptionsCreateData struct {
	ProductOptionsCreate struct {
		Product    *ProductNode `json:"product"`
		UserErrors []UserError  `json:"userErrors,omitempty"`
	} `json:"productOptionsCreate"`
}

type ProductOptionUpdateData struct {
	ProductOptionUpdate struct {
		Product    *ProductNode `json:"product"`
		UserErrors []UserError  `json:"userErrors,omitempty"`
	} `json:"productOptionUpdate"`
}

type VariantsBulkCreateData struct {
	ProductVariantsBulkCreate struct {
		ProductVariants []struct {
			ID string `json:"id"`
		} `json:"productVariants,omitempty"`
		UserErrors []UserError `json:"userErrors,omitempty"`
	} `json:"productVariantsBulkCreate"`
}

type VariantsBulkUpdateData struct {
	ProductVariantsBulkUpdate struct {
		ProductVariants []struct {
			ID string `json:"id"`
		} `json:"productVariants,omitempty"`
		UserErrors []UserError `json:"userErrors,omitempty"`
	} `json:"productVariantsBulkUpdate"`
}

type MetafieldsSetData struct {
	MetafieldsSet struct {
		Metafields []struct {
			ID  string `json:"id"`
			Key string `json:"key"`
		} `json:"metafields,omitempty"`
		UserErrors []UserError `json:"userErrors,omitempty"`
	} `json:"metafieldsSet"`
}

type MetaobjectDefinitionByTypeData struct {
	MetaobjectDefinitionByType *struct {
		ID string `json:"id"`
	} `json:"metaobjectDefinitionByType"`
}

type MetaobjectDefinitionCreateData struct {
	MetaobjectDefinitionCreate struct {
		MetaobjectDefinition *struct {
			ID string `json:"id"`
		} `json:"metaobjectDefinition"`
		UserErrors []UserError `json:"userErrors,omitempty"`
	} `json:"metaobjectDefinitionCreate"`
}

type MetaobjectByHandleData struct {
	MetaobjectByHandle *struct {
		ID string `json:"id"`
	} `json:"metaobjectByHandle"`
}

type MetaobjectCreateData struct {
	MetaobjectCreate struct {
		Metaobject *struct {
			ID string `json:"id"`
		} `json:"metaobject"`
		UserErrors []UserError `json:"userErrors,omitempty"`
	} `json:"metaobjectCreate"`
}

type MetafieldDefinitionsData struct {
	MetafieldDefinitions struct {
		Nodes []struct {
			ID  string `json:"id"`
			Key string `json:"key"`
		} `json:"nodes"`
	} `json:"metafieldDefinitions"`
}

type MetafieldDefinitionCreateData struct {
	MetafieldDefinitionCreate struct {
		CreatedDefinition *struct {
			ID string `json:"id"`
		} `json:"createdDefinition"`
		UserErrors []UserError `json:"userErrors,omitempty"`
	} `json:"metafieldDefinitionCreate"`
}

type CollectionsData struct {
	Collections struct {
		Nodes    []CollectionRef `json:"nodes"`
		PageInfo PageInfo        `json:"pageInfo"`
	} `json:"collections"`
}

type CollectionCreateData struct {
	CollectionCreate struct {
		Collection *CollectionRef `json:"collection"`
		UserErrors []UserError    `json:"userErrors,omitempty"`
	} `json:"collectionCreate"`
}

type CollectionAddProductsData struct {
	CollectionAddProductsV2 struct {
		UserErrors []UserError `json:"userErrors,omitempty"`
	} `json:"collectionAddProductsV2"`
}

type FileCreateData struct {
	FileCreate struct {
		Files []struct {
			ID string `json:"id"`
		} `json:"files,omitempty"`
		UserErrors []UserError `json:"userErrors,omitempty"`
	} `json:"fileCreate"`
}

type StagedUploadsCreateData struct {
	StagedUploadsCreate struct {
		StagedTargets []StagedTarget `json:"stagedTargets,omitempty"`
		UserErrors    []UserError    `json:"userErrors,omitempty"`
	} `json:"stagedUploadsCreate"`
}

type StagedTarget struct {
	URL         string `json:"url"`
	ResourceURL string `json:"resourceUrl"`
	Parameters  []struct {
		Name  string `json:"name"`
		Value string `json:"value"`
	} `json:"parameters"`
}

type ProductCreateMediaData struct {
	ProductCreateMedia struct {
		Media []struct {
			ID string `json:"id"`
		} `json:"media,omitempty"`
		MediaUserErrors []UserError `json:"mediaUserErrors,omitempty"`
	} `json:"productCreateMedia"`
}

type URLRedirectCreateData struct {
	URLRedirectCreate struct {
		URLRedirect *struct {
			ID string `json:"id"`
		} `json:"urlRedirect"`
		UserErrors []UserError `json:"userErrors,omitempty"`
	} `json:"urlRedirectCreate"`
}

type TranslatableResourceData struct {
	TranslatableResource *struct {
		ResourceID           string `json:"resourceId"`
		TranslatableContent []TranslatableContent `json:"translatableContent"`
	} `json:"translatableResource"`
}

type TranslatableContent struct {
	Key    string `json:"key"`
	Value  string `json:"value"`
	Digest string `json:"digest"`
	Locale string `json:"locale"`
}

type TranslationsRegisterData struct {
	TranslationsRegister struct {
		Translations []struct {
			Key    string `json:"key"`
			Locale string `json:"locale"`
		} `json:"translations,omitempty"`
		UserErrors []UserError `json:"userErrors,omitempty"`
	} `json:"translationsRegister"`
}

type InventorySetData struct {
	InventorySetQuantities struct {
		UserErrors []UserError `json:"userErrors,omitempty"`
	} `json:"inventorySetQuantities"`
}

type InventoryActivateData struct {
	InventoryActivate struct {
		InventoryLevel *struct {
			ID string `json:"id"`
		} `json:"inventoryLevel"`
		UserErrors []UserError `json:"userErrors,omitempty"`
	} `json:"inventoryActivate"`
}
