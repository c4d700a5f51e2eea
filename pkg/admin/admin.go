// Package admin implements the Cloudinary Admin API: listing, inspecting,
// updating, restoring and deleting assets, tags, usage and structured
// metadata fields.
//
// Methods take an options mapping like the remote API does. Each endpoint
// forwards only the options it supports; "resource_type" and "type" select
// the asset and delivery type and default to image and upload.
package admin

import (
	"context"
	"fmt"
	"time"

	"github.com/araddon/dateparse"
	"github.com/hashicorp/go-hclog"

	"github.com/cloudinary/media-management-go/pkg/api"
	"github.com/cloudinary/media-management-go/pkg/apiutils"
)

// Path segments of the Admin API.
const (
	pingPath           = "ping"
	usagePath          = "usage"
	assetsPath         = "resources"
	tagsPath           = "tags"
	metadataFieldsPath = "metadata_fields"
)

var (
	listParams = []string{
		"next_cursor", "max_results", "prefix", "tags", "context",
		"moderations", "direction", "start_at", "metadata",
	}
	filteredListParams = []string{
		"next_cursor", "max_results", "tags", "context", "moderations", "direction", "metadata",
	}
	byIDsParams        = []string{"public_ids", "tags", "moderations", "context"}
	assetDetailsParams = []string{
		"colors", "faces", "quality_analysis", "image_metadata", "phash", "pages",
		"cinemagraph_analysis", "coordinates", "max_results", "derived_next_cursor",
		"accessibility_analysis", "versions",
	}
	updateParams = []string{
		api.ModerationStatusKey, "raw_convert", "ocr", "categorization", "detection",
		"similarity_search", "auto_tagging", "background_removal", "quality_override",
		"notification_url", "use_asset_id",
	}
	deleteParams = []string{"next_cursor", "invalidate"}
)

// API is the Admin API endpoint group.
type API struct {
	transport api.Transport
	logger    hclog.Logger
}

// New creates an Admin API group on top of transport.
func New(transport api.Transport, logger hclog.Logger) *API {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &API{
		transport: transport,
		logger:    logger.Named("admin"),
	}
}

// Ping tests the reachability of the API.
func (a *API) Ping(ctx context.Context) (*PingResult, error) {
	var result PingResult
	resp, err := a.transport.Get(ctx, []string{pingPath}, nil)
	if err := decode(resp, err, "ping", &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Usage returns the account usage. The "date" option selects a past day and
// accepts a time.Time or any string dateparse understands.
func (a *API) Usage(ctx context.Context, options apiutils.Params) (*Usage, error) {
	path := []string{usagePath}
	if date, err := formatDate(options["date"]); err != nil {
		return nil, fmt.Errorf("failed to get usage: %w", err)
	} else if date != "" {
		path = append(path, date)
	}

	var result Usage
	resp, err := a.transport.Get(ctx, path, nil)
	if err := decode(resp, err, "get usage", &result); err != nil {
		return nil, err
	}
	result.RateLimit, _ = resp.RateLimit()
	return &result, nil
}

// Tags lists the tags of an asset type.
func (a *API) Tags(ctx context.Context, options apiutils.Params) (*TagList, error) {
	path := []string{tagsPath, assetType(options)}
	params := apiutils.Whitelist(options, "next_cursor", "max_results", "prefix")

	var result TagList
	resp, err := a.transport.Get(ctx, path, params)
	if err := decode(resp, err, "list tags", &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Assets lists assets. The delivery type is only part of the path when the
// "type" option is set.
func (a *API) Assets(ctx context.Context, options apiutils.Params) (*AssetList, error) {
	path := []string{assetsPath, assetType(options)}
	if t := api.StringOption(options, api.DeliveryTypeKey, ""); t != "" {
		path = append(path, t)
	}
	return a.list(ctx, "list assets", path, apiutils.Whitelist(options, listParams...))
}

// AssetsByTag lists the assets carrying tag.
func (a *API) AssetsByTag(ctx context.Context, tag string, options apiutils.Params) (*AssetList, error) {
	path := []string{assetsPath, assetType(options), tagsPath, tag}
	return a.list(ctx, "list assets by tag", path, apiutils.Whitelist(options, filteredListParams...))
}

// AssetsByContext lists the assets with the context key, optionally limited
// to those where it equals value.
func (a *API) AssetsByContext(ctx context.Context, key, value string, options apiutils.Params) (*AssetList, error) {
	path := []string{assetsPath, assetType(options), "context"}
	params := apiutils.Whitelist(options, filteredListParams...)
	params["key"] = key
	if value != "" {
		params["value"] = value
	}
	return a.list(ctx, "list assets by context", path, params)
}

// AssetsByModeration lists the assets in a moderation queue.
func (a *API) AssetsByModeration(ctx context.Context, kind string, status api.ModerationStatus, options apiutils.Params) (*AssetList, error) {
	path := []string{assetsPath, assetType(options), "moderations", kind, string(status)}
	return a.list(ctx, "list assets by moderation", path, apiutils.Whitelist(options, filteredListParams...))
}

// AssetsByIDs lists the assets with the given public IDs.
func (a *API) AssetsByIDs(ctx context.Context, publicIDs []string, options apiutils.Params) (*AssetList, error) {
	path := []string{assetsPath, assetType(options), deliveryType(options)}
	params := apiutils.Whitelist(options, byIDsParams...)
	params["public_ids"] = publicIDs
	return a.list(ctx, "list assets by public ids", path, params)
}

// AssetsByAssetIDs lists the assets with the given immutable asset IDs.
func (a *API) AssetsByAssetIDs(ctx context.Context, assetIDs []string, options apiutils.Params) (*AssetList, error) {
	path := []string{assetsPath, "by_asset_ids"}
	params := apiutils.Whitelist(options, byIDsParams...)
	delete(params, "public_ids")
	params["asset_ids"] = assetIDs
	return a.list(ctx, "list assets by asset ids", path, params)
}

// Asset returns the details of a single asset.
func (a *API) Asset(ctx context.Context, publicID string, options apiutils.Params) (*Asset, error) {
	path := append([]string{assetsPath, assetType(options), deliveryType(options)}, api.PublicIDPath(publicID)...)
	return a.asset(ctx, path, options)
}

// AssetByAssetID returns the details of a single asset by its asset ID.
func (a *API) AssetByAssetID(ctx context.Context, assetID string, options apiutils.Params) (*Asset, error) {
	return a.asset(ctx, []string{assetsPath, assetID}, options)
}

// Restore restores deleted assets from backup. The result is keyed by public
// ID; entries that could not be restored carry an error message.
func (a *API) Restore(ctx context.Context, publicIDs []string, options apiutils.Params) (map[string]RestoredAsset, error) {
	path := []string{assetsPath, assetType(options), deliveryType(options), "restore"}

	body := options.Clone()
	delete(body, api.AssetTypeKey)
	delete(body, api.DeliveryTypeKey)
	body["public_ids"] = publicIDs

	result := map[string]RestoredAsset{}
	resp, err := a.transport.PostJSON(ctx, path, body)
	if err := decode(resp, err, "restore assets", &result); err != nil {
		return nil, err
	}
	return result, nil
}

// Update changes the properties of an asset. Tags, context, metadata,
// coordinates and access control are accepted in their structured form and
// serialized here.
func (a *API) Update(ctx context.Context, publicID string, options apiutils.Params) (*Asset, error) {
	path := append([]string{assetsPath, assetType(options), deliveryType(options)}, api.PublicIDPath(publicID)...)

	params := apiutils.Whitelist(options, updateParams...)
	if err := apiutils.SerializeInto(params, options, updateComplexParams); err != nil {
		return nil, fmt.Errorf("failed to update asset: %w", err)
	}

	a.logger.Debug("updating asset", "public_id", publicID, "params", len(params))

	var result Asset
	resp, err := a.transport.PostForm(ctx, path, params)
	if err := decode(resp, err, "update asset", &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// DeleteAssets deletes assets by public ID.
func (a *API) DeleteAssets(ctx context.Context, publicIDs []string, options apiutils.Params) (*DeleteResult, error) {
	path := []string{assetsPath, assetType(options), deliveryType(options)}
	return a.delete(ctx, "delete assets", path, apiutils.Params{"public_ids": publicIDs}, options)
}

// DeleteAssetsByPrefix deletes the assets whose public ID starts with prefix.
func (a *API) DeleteAssetsByPrefix(ctx context.Context, prefix string, options apiutils.Params) (*DeleteResult, error) {
	path := []string{assetsPath, assetType(options), deliveryType(options)}
	return a.delete(ctx, "delete assets by prefix", path, apiutils.Params{"prefix": prefix}, options)
}

// DeleteAllAssets deletes every asset of an asset and delivery type.
func (a *API) DeleteAllAssets(ctx context.Context, options apiutils.Params) (*DeleteResult, error) {
	path := []string{assetsPath, assetType(options), deliveryType(options)}
	return a.delete(ctx, "delete all assets", path, apiutils.Params{"all": true}, options)
}

// DeleteAssetsByTag deletes the assets carrying tag.
func (a *API) DeleteAssetsByTag(ctx context.Context, tag string, options apiutils.Params) (*DeleteResult, error) {
	path := []string{assetsPath, assetType(options), tagsPath, tag}
	return a.delete(ctx, "delete assets by tag", path, apiutils.Params{}, options)
}

func (a *API) list(ctx context.Context, op string, path []string, params apiutils.Params) (*AssetList, error) {
	var result AssetList
	resp, err := a.transport.Get(ctx, path, params)
	if err := decode(resp, err, op, &result); err != nil {
		return nil, err
	}
	result.RateLimit, _ = resp.RateLimit()
	a.logger.Trace("listed assets", "op", op, "count", len(result.Assets), "next_cursor", result.NextCursor)
	return &result, nil
}

func (a *API) asset(ctx context.Context, path []string, options apiutils.Params) (*Asset, error) {
	var result Asset
	params := apiutils.Whitelist(options, assetDetailsParams...)
	resp, err := a.transport.Get(ctx, path, params)
	if err := decode(resp, err, "get asset", &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (a *API) delete(ctx context.Context, op string, path []string, params, options apiutils.Params) (*DeleteResult, error) {
	params = apiutils.Merge(params, apiutils.Whitelist(options, deleteParams...))

	var result DeleteResult
	resp, err := a.transport.Delete(ctx, path, params)
	if err := decode(resp, err, op, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

var updateComplexParams = []apiutils.ComplexParam{
	{Key: "tags", Serialize: apiutils.SerializeSimple},
	{Key: "context", Serialize: apiutils.SerializeContextMap},
	{Key: "metadata", Serialize: apiutils.SerializeContextMap},
	{Key: "face_coordinates", Serialize: apiutils.SerializeNestedArrays},
	{Key: "custom_coordinates", Serialize: apiutils.SerializeNestedArrays},
	{Key: "access_control", Serialize: apiutils.SerializeJSON},
}

func decode(resp *api.Response, err error, op string, v any) error {
	if err != nil {
		return fmt.Errorf("failed to %s: %w", op, err)
	}
	if err := resp.Decode(v); err != nil {
		return fmt.Errorf("failed to %s: %w", op, err)
	}
	return nil
}

func assetType(options apiutils.Params) string {
	return api.StringOption(options, api.AssetTypeKey, string(api.Image))
}

func deliveryType(options apiutils.Params) string {
	return api.StringOption(options, api.DeliveryTypeKey, string(api.Upload))
}

// formatDate renders a date option in the dd-mm-yyyy form of the usage
// endpoint.
func formatDate(v any) (string, error) {
	switch d := v.(type) {
	case nil:
		return "", nil
	case time.Time:
		return d.Format("02-01-2006"), nil
	case string:
		if d == "" {
			return "", nil
		}
		t, err := dateparse.ParseAny(d)
		if err != nil {
			return "", fmt.Errorf("invalid date %q: %w", d, err)
		}
		return t.Format("02-01-2006"), nil
	default:
		return "", fmt.Errorf("invalid date of type %T", v)
	}
}
