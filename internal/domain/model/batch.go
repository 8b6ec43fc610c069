package model

// SyncFilter restricts one batch run and toggles per-child sync work.
type SyncFilter struct {
	BrandID    int64   `json:"brand_id,omitempty"`
	ProductIDs []int64 `json:"product_ids,omitempty"`
	Offset     int     `json:"offset,omitempty"`
	Limit      int     `json:"limit,omitempty"`

	SyncVariants     bool `json:"sync_variants"`
	SyncInventory    bool `json:"sync_inventory"`
	SyncTranslations bool `json:"sync_translations"`
	SyncImages       bool `json:"sync_images"`

	DryRun     bool `json:"dry_run,omitempty"`
	InsertOnly bool `json:"insert_only,omitempty"`
}

// DefaultSyncFilter enables every child sync.
func DefaultSyncFilter() SyncFilter {
	return SyncFilter{
		SyncVariants:     true,
		SyncInventory:    true,
		SyncTranslations: true,
		SyncImages:       true,
	}
}

type BatchItem struct {
	ProductID int64         `json:"product_id"`
	OK        bool          `json:"ok"`
	Report    *UpsertReport `json:"report,omitempty"`
	Error     string        `json:"error,omitempty"`
}

type BatchResult struct {
	OK         bool        `json:"ok"`
	HadErrors  bool        `json:"had_errors"`
	Items      []BatchItem `json:"items"`
	Processed  int         `json:"processed"`
	Failed     int         `json:"failed"`
	CursorNext int         `json:"cursor_next"`
	Finished   bool        `json:"finished"`
}
