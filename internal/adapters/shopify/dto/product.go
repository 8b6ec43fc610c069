package dto

type ExistingProduct struct {
	ID        string
	LegacyID  int64
	Handle    string
	Title     string
	Status    string
	ImageSrcs []string
	Options   []ProductOption
}

type ProductOption struct {
	ID       string           `json:"id"`
	Name     string           `json:"name"`
	Position int              `json:"position"`
	Values   []OptionValueRef `json:"optionValues,omitempty"`
}

type OptionValueRef struct {
	ID                   string `json:"id"`
	Name                 string `json:"name"`
	LinkedMetafieldValue string `json:"linkedMetafieldValue,omitempty"`
}

type SelectedOption struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type ExistingVariant struct {
	ID              string
	LegacyID        int64
	SKU             string
	InventoryItemID string
	SelectedOptions []SelectedOption
}

type CollectionRef struct {
	ID     string `json:"id"`
	Handle string `json:"handle"`
	Title  string `json:"title"`
}
