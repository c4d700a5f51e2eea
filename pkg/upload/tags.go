package upload

import (
	"context"
	"fmt"

	"github.com/cloudinary/media-management-go/pkg/apiutils"
)

// TagCommand is the action of a tags request.
type TagCommand string

const (
	TagAdd          TagCommand = "add"
	TagRemove       TagCommand = "remove"
	TagReplace      TagCommand = "replace"
	TagSetExclusive TagCommand = "set_exclusive"
	TagRemoveAll    TagCommand = "remove_all"
)

// ContextCommand is the action of a context request.
type ContextCommand string

const (
	ContextAdd       ContextCommand = "add"
	ContextRemoveAll ContextCommand = "remove_all"
)

// AddTag adds tag to the given assets. With the "exclusive" option set, the
// tag is removed from every other asset.
func (a *API) AddTag(ctx context.Context, tag string, publicIDs []string, options apiutils.Params) (*PublicIDsResult, error) {
	command := TagAdd
	if exclusive, _ := options["exclusive"].(bool); exclusive {
		command = TagSetExclusive
	}
	return a.callTags(ctx, command, tag, publicIDs, options)
}

// RemoveTag removes tag from the given assets.
func (a *API) RemoveTag(ctx context.Context, tag string, publicIDs []string, options apiutils.Params) (*PublicIDsResult, error) {
	return a.callTags(ctx, TagRemove, tag, publicIDs, options)
}

// ReplaceTag replaces every tag of the given assets with tag.
func (a *API) ReplaceTag(ctx context.Context, tag string, publicIDs []string, options apiutils.Params) (*PublicIDsResult, error) {
	return a.callTags(ctx, TagReplace, tag, publicIDs, options)
}

// RemoveAllTags removes every tag from the given assets.
func (a *API) RemoveAllTags(ctx context.Context, publicIDs []string, options apiutils.Params) (*PublicIDsResult, error) {
	return a.callTags(ctx, TagRemoveAll, "", publicIDs, options)
}

func (a *API) callTags(ctx context.Context, command TagCommand, tag string, publicIDs []string, options apiutils.Params) (*PublicIDsResult, error) {
	params := apiutils.Whitelist(options, "type")
	params["command"] = string(command)
	params["tag"] = tag
	params["public_ids"] = publicIDs

	return a.publicIDsCall(ctx, fmt.Sprintf("%s tags", command), a.path(options, tagsAction), params)
}

// AddContext adds context key/value pairs to the given assets.
func (a *API) AddContext(ctx context.Context, values any, publicIDs []string, options apiutils.Params) (*PublicIDsResult, error) {
	serialized, err := apiutils.SerializeContextMap(values)
	if err != nil {
		return nil, fmt.Errorf("failed to add context: %w", err)
	}
	params := apiutils.Params{}
	params.SetSerialized("context", serialized)
	return a.callContext(ctx, ContextAdd, params, publicIDs, options)
}

// RemoveAllContext removes every context key from the given assets.
func (a *API) RemoveAllContext(ctx context.Context, publicIDs []string, options apiutils.Params) (*PublicIDsResult, error) {
	return a.callContext(ctx, ContextRemoveAll, apiutils.Params{}, publicIDs, options)
}

func (a *API) callContext(ctx context.Context, command ContextCommand, params apiutils.Params, publicIDs []string, options apiutils.Params) (*PublicIDsResult, error) {
	params = apiutils.Merge(params, apiutils.Whitelist(options, "type"))
	params["command"] = string(command)
	params["public_ids"] = publicIDs

	return a.publicIDsCall(ctx, fmt.Sprintf("%s context", command), a.path(options, contextAction), params)
}
