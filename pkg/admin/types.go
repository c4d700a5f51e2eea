package admin

import (
	"time"

	"github.com/cloudinary/media-management-go/pkg/api"
)

// Asset describes a stored asset.
type Asset struct {
	AssetID      string         `json:"asset_id"`
	PublicID     string         `json:"public_id"`
	Format       string         `json:"format"`
	Version      int64          `json:"version"`
	ResourceType string         `json:"resource_type"`
	Type         string         `json:"type"`
	CreatedAt    time.Time      `json:"created_at"`
	Bytes        int64          `json:"bytes"`
	Width        int            `json:"width"`
	Height       int            `json:"height"`
	Pages        int            `json:"pages,omitempty"`
	Folder       string         `json:"folder,omitempty"`
	AssetFolder  string         `json:"asset_folder,omitempty"`
	DisplayName  string         `json:"display_name,omitempty"`
	URL          string         `json:"url"`
	SecureURL    string         `json:"secure_url"`
	AccessMode   string         `json:"access_mode,omitempty"`
	Status       string         `json:"status,omitempty"`
	Tags         []string       `json:"tags,omitempty"`
	Context      map[string]any `json:"context,omitempty"`
	Metadata     map[string]any `json:"metadata,omitempty"`
	Moderation   []any          `json:"moderation,omitempty"`
	Placeholder  bool           `json:"placeholder,omitempty"`
	Backup       bool           `json:"backup,omitempty"`

	// Present on Asset and AssetByAssetID results when requested.
	Colors            [][]any `json:"colors,omitempty"`
	Faces             [][]int `json:"faces,omitempty"`
	Phash             string  `json:"phash,omitempty"`
	DerivedNextCursor string  `json:"derived_next_cursor,omitempty"`
	Versions          []any   `json:"versions,omitempty"`
	Accessibility     any     `json:"accessibility_analysis,omitempty"`
}

// AssetList is a page of assets.
type AssetList struct {
	Assets     []Asset `json:"resources"`
	NextCursor string  `json:"next_cursor,omitempty"`

	RateLimit api.RateLimit `json:"-"`
}

// TagList is a page of tags.
type TagList struct {
	Tags       []string `json:"tags"`
	NextCursor string   `json:"next_cursor,omitempty"`
}

// PingResult is the response of Ping.
type PingResult struct {
	Status string `json:"status"`
}

// UsageItem is a single usage counter.
type UsageItem struct {
	Usage       float64 `json:"usage"`
	Limit       float64 `json:"limit,omitempty"`
	UsedPercent float64 `json:"used_percent,omitempty"`
	Credits     float64 `json:"credits_usage,omitempty"`
}

// Usage reports the account usage.
type Usage struct {
	Plan             string    `json:"plan"`
	LastUpdated      string    `json:"last_updated"`
	Transformations  UsageItem `json:"transformations"`
	Objects          UsageItem `json:"objects"`
	Bandwidth        UsageItem `json:"bandwidth"`
	Storage          UsageItem `json:"storage"`
	Requests         int64     `json:"requests"`
	Resources        int64     `json:"resources"`
	DerivedResources int64     `json:"derived_resources"`

	RateLimit api.RateLimit `json:"-"`
}

// DeleteResult is the response of the asset deletion endpoints.
type DeleteResult struct {
	Deleted     map[string]string `json:"deleted"`
	DeletedInfo map[string]any    `json:"deleted_counts,omitempty"`
	Partial     bool              `json:"partial"`
	NextCursor  string            `json:"next_cursor,omitempty"`
}

// RestoredAsset is one entry of a Restore response.
type RestoredAsset struct {
	Asset
	Error string `json:"error,omitempty"`
}
