package upload

import (
	"flag"

	"github.com/cloudinary/media-management-go/internal/cmd/base"
	"github.com/cloudinary/media-management-go/pkg/api"
	"github.com/cloudinary/media-management-go/pkg/apiutils"
)

type DestroyCommand struct {
	*base.Command

	flagResourceType string
	flagType         string
	flagInvalidate   bool
}

func (c *DestroyCommand) Synopsis() string {
	return "Delete an asset"
}

func (c *DestroyCommand) Help() string {
	return `Usage: cld destroy [options] <public_id>` + c.Flags().Help()
}

func (c *DestroyCommand) Flags() *base.FlagSet {
	f := base.NewFlagSet(flag.NewFlagSet("destroy", flag.ContinueOnError))
	c.ClientFlags(f)

	f.StringVar(
		&c.flagResourceType, "resource-type", string(api.Image),
		"Resource type (image, video, raw).",
	)
	f.StringVar(
		&c.flagType, "type", string(api.Upload),
		"Delivery type (upload, private, authenticated).",
	)
	f.BoolVar(
		&c.flagInvalidate, "invalidate", false,
		"Invalidate CDN cached copies of the asset.",
	)

	return f
}

func (c *DestroyCommand) Run(args []string) int {
	f := c.Flags()
	if err := f.Parse(args); err != nil {
		return c.Fail("error parsing flags", err)
	}
	if f.NArg() != 1 {
		c.UI.Error("exactly one public ID must be given")
		return 1
	}

	cld, err := c.Client()
	if err != nil {
		return c.Fail("error creating client", err)
	}
	ctx, cancel := c.Context()
	defer cancel()

	options := apiutils.Params{
		api.AssetTypeKey:    c.flagResourceType,
		api.DeliveryTypeKey: c.flagType,
	}
	if c.flagInvalidate {
		options["invalidate"] = true
	}

	result, err := cld.Upload().Destroy(ctx, f.Arg(0), options)
	if err != nil {
		return c.Fail("error destroying asset", err)
	}
	if result.Result != "ok" {
		c.UI.Warn("asset " + f.Arg(0) + ": " + result.Result)
	}
	if err := c.Output(result); err != nil {
		return c.Fail("error writing output", err)
	}
	return 0
}
