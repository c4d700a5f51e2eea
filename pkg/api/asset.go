package api

// AssetType is the resource type of an asset.
type AssetType string

const (
	Image AssetType = "image"
	Video AssetType = "video"
	Raw   AssetType = "raw"
	Auto  AssetType = "auto"

	// AssetTypeKey is the option selecting the asset type.
	AssetTypeKey = "resource_type"
)

// DeliveryType is the delivery type of an asset.
type DeliveryType string

const (
	Upload        DeliveryType = "upload"
	Private       DeliveryType = "private"
	Authenticated DeliveryType = "authenticated"

	// DeliveryTypeKey is the option selecting the delivery type.
	DeliveryTypeKey = "type"
)

// AccessType is the access_type of an access control rule.
type AccessType string

const (
	Anonymous AccessType = "anonymous"
	Token     AccessType = "token"
)

// ModerationStatus is the moderation state of an asset.
type ModerationStatus string

const (
	Pending  ModerationStatus = "pending"
	Approved ModerationStatus = "approved"
	Rejected ModerationStatus = "rejected"

	// ModerationStatusKey is the option setting a moderation status.
	ModerationStatusKey = "moderation_status"
)

// AccessControlRule is one entry of the access_control parameter.
type AccessControlRule struct {
	AccessType AccessType `json:"access_type"`
	Start      string     `json:"start,omitempty"`
	End        string     `json:"end,omitempty"`
}

// StringOption returns the string form of options[key], or def when the
// option is absent or empty.
func StringOption(options map[string]any, key, def string) string {
	switch v := options[key].(type) {
	case nil:
		return def
	case string:
		if v == "" {
			return def
		}
		return v
	case AssetType:
		return string(v)
	case DeliveryType:
		return string(v)
	case ModerationStatus:
		return string(v)
	default:
		return def
	}
}
