// Package upload implements the Cloudinary Upload API: uploading files,
// updating uploaded assets with explicit, destroying and renaming them, and
// managing their tags, context and structured metadata.
//
// Every request is signed with the API secret, or authorized with the OAuth
// token when one is configured. Options follow the remote API names; complex
// values such as tags, context, coordinates, eager transformations and
// headers are accepted in their structured form and serialized here.
package upload

import (
	"context"
	"fmt"
	"time"

	"github.com/hashicorp/go-hclog"

	"github.com/cloudinary/media-management-go/pkg/api"
	"github.com/cloudinary/media-management-go/pkg/apiutils"
)

const (
	uploadAction         = "upload"
	explicitAction       = "explicit"
	destroyAction        = "destroy"
	renameAction         = "rename"
	tagsAction           = "tags"
	contextAction        = "context"
	metadataAction       = "metadata"
	downloadBackupAction = "download_backup"
)

// Transport is the signing transport the Upload API runs on.
type Transport interface {
	api.Transport

	SignedURL(path []string, params apiutils.Params) (string, error)
	Now() time.Time
}

var uploadParams = []string{
	"accessibility_analysis", "asset_folder", "async", "auto_tagging", "background_removal",
	"backup", "callback", "categorization", "cinemagraph_analysis", "colors", "context",
	"detection", "discard_original_filename", "display_name", "eager_notification_url",
	"eager_async", "eval", "faces", "filename_override", "folder", "format", "image_metadata",
	"invalidate", "moderation", "notification_url", "ocr", "overwrite", "phash", "proxy",
	"public_id", "public_id_prefix", "quality_analysis", "quality_override", "raw_convert",
	"return_delete_token", "similarity_search", "type", "unique_filename", "use_filename",
	"use_filename_as_display_name",
}

var uploadComplexParams = []apiutils.ComplexParam{
	{Key: "access_control", Serialize: apiutils.SerializeJSON},
	{Key: "allowed_formats", Serialize: apiutils.SerializeSimple},
	{Key: "context", Serialize: apiutils.SerializeContextMap},
	{Key: "custom_coordinates", Serialize: apiutils.SerializeNestedArrays},
	{Key: "eager", Serialize: serializeTransformations},
	{Key: "face_coordinates", Serialize: apiutils.SerializeNestedArrays},
	{Key: "headers", Serialize: apiutils.SerializeHeaders},
	{Key: "metadata", Serialize: apiutils.SerializeContextMap},
	{Key: "public_ids", Serialize: apiutils.SerializeSimple},
	{Key: "tags", Serialize: apiutils.SerializeSimple},
	{Key: "transformation", Serialize: apiutils.SerializeSimple},
}

// serializeTransformations joins a list of pre-serialized transformation
// strings with "|".
func serializeTransformations(v any) (*string, error) {
	return apiutils.SerializeSimpleWith(v, apiutils.ArrayOfArraysDelimiter)
}

// BuildUploadParams selects the upload options and serializes the complex
// ones. The result still needs FinalizeUploadParams before it is sent.
func BuildUploadParams(options apiutils.Params) (apiutils.Params, error) {
	params := apiutils.Whitelist(options, uploadParams...)
	if err := apiutils.SerializeInto(params, options, uploadComplexParams); err != nil {
		return nil, fmt.Errorf("failed to build upload parameters: %w", err)
	}
	return params, nil
}

// API is the Upload API endpoint group.
type API struct {
	transport Transport
	logger    hclog.Logger
}

// New creates an Upload API group on top of transport.
func New(transport Transport, logger hclog.Logger) *API {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &API{
		transport: transport,
		logger:    logger.Named("upload"),
	}
}

// Upload uploads file. The file may be a local path, a remote URL or data URI,
// []byte contents or an io.Reader. The asset type defaults to auto.
func (a *API) Upload(ctx context.Context, file any, options apiutils.Params) (*Result, error) {
	params, err := BuildUploadParams(options)
	if err != nil {
		return nil, err
	}
	path := []string{api.StringOption(options, api.AssetTypeKey, string(api.Auto)), uploadAction}

	a.logger.Debug("uploading file", "path", path, "params", len(params))

	var result Result
	resp, err := a.transport.PostFile(ctx, path, file, a.finalize(params))
	if err := decode(resp, err, "upload file", &result); err != nil {
		return nil, err
	}
	a.logger.Info("uploaded file", "public_id", result.PublicID, "version", result.Version)
	return &result, nil
}

// Explicit applies actions such as eager transformations or a metadata update
// to an asset that is already uploaded.
func (a *API) Explicit(ctx context.Context, publicID string, options apiutils.Params) (*Result, error) {
	params, err := BuildUploadParams(options)
	if err != nil {
		return nil, err
	}
	params["public_id"] = publicID

	var result Result
	resp, err := a.transport.PostForm(ctx, a.path(options, explicitAction), a.finalize(params))
	if err := decode(resp, err, "update asset", &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Destroy deletes a single asset.
func (a *API) Destroy(ctx context.Context, publicID string, options apiutils.Params) (*DestroyResult, error) {
	params := apiutils.Whitelist(options, api.DeliveryTypeKey, "invalidate")
	params["public_id"] = publicID

	var result DestroyResult
	resp, err := a.transport.PostForm(ctx, a.path(options, destroyAction), a.finalize(params))
	if err := decode(resp, err, "destroy asset", &result); err != nil {
		return nil, err
	}
	a.logger.Debug("destroyed asset", "public_id", publicID, "result", result.Result)
	return &result, nil
}

// Rename changes the public ID of an asset.
func (a *API) Rename(ctx context.Context, from, to string, options apiutils.Params) (*Result, error) {
	params := apiutils.Whitelist(options, api.DeliveryTypeKey, "to_type", "overwrite", "invalidate")
	params["from_public_id"] = from
	params["to_public_id"] = to
	if err := apiutils.SerializeInto(params, options, []apiutils.ComplexParam{
		{Key: "context", Serialize: apiutils.SerializeSimple},
		{Key: "metadata", Serialize: apiutils.SerializeSimple},
	}); err != nil {
		return nil, fmt.Errorf("failed to rename asset: %w", err)
	}

	var result Result
	resp, err := a.transport.PostForm(ctx, a.path(options, renameAction), a.finalize(params))
	if err := decode(resp, err, "rename asset", &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// UpdateMetadata sets structured metadata values on the given assets.
func (a *API) UpdateMetadata(ctx context.Context, metadata any, publicIDs []string, options apiutils.Params) (*PublicIDsResult, error) {
	params := apiutils.Whitelist(options, api.DeliveryTypeKey, "clear_invalid")
	serialized, err := apiutils.SerializeContextMap(metadata)
	if err != nil {
		return nil, fmt.Errorf("failed to update metadata: %w", err)
	}
	params.SetSerialized("metadata", serialized)
	params["public_ids"] = publicIDs

	return a.publicIDsCall(ctx, "update metadata", a.path(options, metadataAction), params)
}

// DownloadBackedupAssetURL returns a signed link to a backed up version of an
// asset.
func (a *API) DownloadBackedupAssetURL(assetID, versionID string) (string, error) {
	params := apiutils.Params{
		"asset_id":   assetID,
		"version_id": versionID,
	}
	url, err := a.transport.SignedURL([]string{downloadBackupAction}, params)
	if err != nil {
		return "", fmt.Errorf("failed to build backup download URL: %w", err)
	}
	return url, nil
}

func (a *API) publicIDsCall(ctx context.Context, op string, path []string, params apiutils.Params) (*PublicIDsResult, error) {
	var result PublicIDsResult
	resp, err := a.transport.PostForm(ctx, path, a.finalize(params))
	if err := decode(resp, err, op, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// path returns the endpoint path for action; the asset type defaults to image.
func (a *API) path(options apiutils.Params, action string) []string {
	return []string{api.StringOption(options, api.AssetTypeKey, string(api.Image)), action}
}

func (a *API) finalize(params apiutils.Params) apiutils.Params {
	return apiutils.FinalizeUploadParams(params, a.transport.Now())
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
