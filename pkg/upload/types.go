package upload

import "time"

// Result is the response of Upload, Explicit and Rename.
type Result struct {
	AssetID          string         `json:"asset_id"`
	PublicID         string         `json:"public_id"`
	Version          int64          `json:"version"`
	VersionID        string         `json:"version_id"`
	Signature        string         `json:"signature"`
	Width            int            `json:"width"`
	Height           int            `json:"height"`
	Format           string         `json:"format"`
	ResourceType     string         `json:"resource_type"`
	Type             string         `json:"type"`
	CreatedAt        time.Time      `json:"created_at"`
	Bytes            int64          `json:"bytes"`
	Pages            int            `json:"pages,omitempty"`
	Etag             string         `json:"etag"`
	Placeholder      bool           `json:"placeholder"`
	URL              string         `json:"url"`
	SecureURL        string         `json:"secure_url"`
	AssetFolder      string         `json:"asset_folder,omitempty"`
	DisplayName      string         `json:"display_name,omitempty"`
	OriginalFilename string         `json:"original_filename,omitempty"`
	Tags             []string       `json:"tags,omitempty"`
	Context          map[string]any `json:"context,omitempty"`
	Metadata         map[string]any `json:"metadata,omitempty"`
	Eager            []EagerResult  `json:"eager,omitempty"`
	Existing         bool           `json:"existing,omitempty"`
	DeleteToken      string         `json:"delete_token,omitempty"`

	// Set for async uploads.
	Status  string `json:"status,omitempty"`
	BatchID string `json:"batch_id,omitempty"`
}

// EagerResult is a derived asset generated at upload time.
type EagerResult struct {
	Transformation string `json:"transformation"`
	Width          int    `json:"width"`
	Height         int    `json:"height"`
	Bytes          int64  `json:"bytes"`
	Format         string `json:"format"`
	URL            string `json:"url"`
	SecureURL      string `json:"secure_url"`
}

// DestroyResult is the response of Destroy. Result is "ok" or "not found".
type DestroyResult struct {
	Result string `json:"result"`
}

// PublicIDsResult lists the assets a tags, context or metadata request
// changed.
type PublicIDsResult struct {
	PublicIDs []string `json:"public_ids"`
}
