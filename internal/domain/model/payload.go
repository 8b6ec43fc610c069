package model

// OptionGroup is one product option in canonical order with its
// de-duplicated values.
type OptionGroup struct {
	Name         string
	GroupID      int64
	IsColor      bool
	Values       []OptionValue
	NameByLocale map[string]string
}

type VariantPayload struct {
	SKU           string
	Barcode       string
	Price         float64
	WeightKg      float64
	Quantity      int
	OptionValues  []string
	TitleByLocale map[string]string
}

// ProductPayload is everything the upsert needs for one product,
// assembled from the source before any Shopify call.
type ProductPayload struct {
	SourceID         int64
	Handle           string
	Title            string
	BodyHTML         string
	DescriptionShort string
	Vendor           string
	Reference        string
	Price            float64
	WeightKg         float64
	Quantity         int
	Tags             []string

	PrimaryLocale string
	Texts         map[string]TextBundle

	Images      []string
	Options     []OptionGroup
	Variants    []VariantPayload
	Categories  []Category
	Features    []Feature
	Attachments []Attachment
}

func (p *ProductPayload) HasOptions() bool {
	return len(p.Options) > 0
}
