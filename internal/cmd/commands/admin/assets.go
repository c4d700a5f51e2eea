package admin

import (
	"flag"

	"github.com/cloudinary/media-management-go/internal/cmd/base"
	"github.com/cloudinary/media-management-go/pkg/admin"
	"github.com/cloudinary/media-management-go/pkg/api"
	"github.com/cloudinary/media-management-go/pkg/apiutils"
)

type AssetsCommand struct {
	*base.Command

	flagResourceType string
	flagType         string
	flagTag          string
	flagPrefix       string
	flagMaxResults   int
	flagNextCursor   string
	flagOptions      base.OptionsFlag
}

func (c *AssetsCommand) Synopsis() string {
	return "List assets"
}

func (c *AssetsCommand) Help() string {
	return `Usage: cld assets [options] [public_id]

  Lists assets of a resource type, optionally filtered by tag or prefix. With
  a public ID argument the details of that single asset are shown.` + c.Flags().Help()
}

func (c *AssetsCommand) Flags() *base.FlagSet {
	f := base.NewFlagSet(flag.NewFlagSet("assets", flag.ContinueOnError))
	c.ClientFlags(f)

	f.StringVar(
		&c.flagResourceType, "resource-type", string(api.Image),
		"Resource type (image, video, raw).",
	)
	f.StringVar(
		&c.flagType, "type", "",
		"Delivery type (upload, private, authenticated).",
	)
	f.StringVar(
		&c.flagTag, "tag", "",
		"Only list assets with this tag.",
	)
	f.StringVar(
		&c.flagPrefix, "prefix", "",
		"Only list assets whose public ID starts with this prefix.",
	)
	f.IntVar(
		&c.flagMaxResults, "max-results", 0,
		"Maximum number of assets to return.",
	)
	f.StringVar(
		&c.flagNextCursor, "next-cursor", "",
		"Continue a previous listing.",
	)
	f.Var(
		&c.flagOptions, "opt",
		"Additional API option as key=value. Can be repeated.",
	)

	return f
}

func (c *AssetsCommand) Run(args []string) int {
	f := c.Flags()
	if err := f.Parse(args); err != nil {
		return c.Fail("error parsing flags", err)
	}
	if f.NArg() > 1 {
		c.UI.Error("at most one public ID may be given")
		return 1
	}

	options := c.options()

	cld, err := c.Client()
	if err != nil {
		return c.Fail("error creating client", err)
	}
	ctx, cancel := c.Context()
	defer cancel()

	var result any
	switch {
	case f.NArg() == 1:
		result, err = cld.Admin().Asset(ctx, f.Arg(0), options)
	case c.flagTag != "":
		result, err = cld.Admin().AssetsByTag(ctx, c.flagTag, options)
	default:
		result, err = cld.Admin().Assets(ctx, options)
	}
	if err != nil {
		return c.Fail("error listing assets", err)
	}

	if list, ok := result.(*admin.AssetList); ok {
		c.Log.Debug("listed assets", "count", len(list.Assets), "remaining_quota", list.RateLimit.Remaining)
	}
	if err := c.Output(result); err != nil {
		return c.Fail("error writing output", err)
	}
	return 0
}

func (c *AssetsCommand) options() apiutils.Params {
	options := apiutils.Merge(c.flagOptions.Params)
	options[api.AssetTypeKey] = c.flagResourceType
	if c.flagType != "" {
		options[api.DeliveryTypeKey] = c.flagType
	}
	if c.flagPrefix != "" {
		options["prefix"] = c.flagPrefix
	}
	if c.flagMaxResults > 0 {
		options["max_results"] = c.flagMaxResults
	}
	if c.flagNextCursor != "" {
		options["next_cursor"] = c.flagNextCursor
	}
	return options
}
