package model

type SourceProduct struct {
	ID        int64
	Reference string
	Price     float64
	Weight    float64
	Quantity  int
	Brand     string
	Active    bool
}

type TextBundle struct {
	Title            string
	DescriptionHTML  string
	DescriptionShort string
	MetaTitle        string
	MetaDescription  string
	Slug             string
	Handle           string
}

type OptionValue struct {
	Group       string
	Value       string
	AttributeID int64
	GroupID     int64
	IsColor     bool
	ColorHex    string
	TextureURL  string
	Labels      map[string]string
}

type Combination struct {
	ID           int64
	SKU          string
	EAN13        string
	PriceImpact  float64
	WeightImpact float64
	Quantity     int
	Values       []OptionValue
}

type Category struct {
	ID     int64
	Title  string
	Handle string
	Titles map[string]string
	Slugs  map[string]string
}

type Feature struct {
	ID     int64
	Key    string
	Names  map[string]string
	Values map[string]string
}

type Attachment struct {
	ID       int64
	Hash     string
	Mime     string
	FileName string
	Data     []byte
}
