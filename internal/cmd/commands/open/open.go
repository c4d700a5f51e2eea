package open

import (
	"flag"

	"github.com/cloudinary/media-management-go/internal/cmd/base"
	"github.com/cloudinary/media-management-go/pkg/api"
	"github.com/cloudinary/media-management-go/pkg/apiutils"
)

type Command struct {
	*base.Command

	flagResourceType string
	flagType         string
	flagVersionID    string
	flagPrint        bool
}

func (c *Command) Synopsis() string {
	return "Open an asset in the browser"
}

func (c *Command) Help() string {
	return `Usage: cld open [options] <public_id>
       cld open -version-id <version_id> <asset_id>

  Opens the delivery URL of an asset in the default browser. With -version-id
  the argument is an asset ID and a signed download link for that backed up
  version is opened instead.` + c.Flags().Help()
}

func (c *Command) Flags() *base.FlagSet {
	f := base.NewFlagSet(flag.NewFlagSet("open", flag.ContinueOnError))
	c.ClientFlags(f)

	f.StringVar(
		&c.flagResourceType, "resource-type", string(api.Image),
		"Resource type (image, video, raw).",
	)
	f.StringVar(
		&c.flagType, "type", string(api.Upload),
		"Delivery type (upload, private, authenticated).",
	)
	f.StringVar(
		&c.flagVersionID, "version-id", "",
		"Open a backed up version of the asset with this asset ID.",
	)
	f.BoolVar(
		&c.flagPrint, "print", false,
		"Print the URL instead of opening it.",
	)

	return f
}

func (c *Command) Run(args []string) int {
	f := c.Flags()
	if err := f.Parse(args); err != nil {
		return c.Fail("error parsing flags", err)
	}
	if f.NArg() != 1 {
		c.UI.Error("exactly one asset must be given")
		return 1
	}

	cld, err := c.Client()
	if err != nil {
		return c.Fail("error creating client", err)
	}

	var link string
	if c.flagVersionID != "" {
		link, err = cld.Upload().DownloadBackedupAssetURL(f.Arg(0), c.flagVersionID)
		if err != nil {
			return c.Fail("error building download URL", err)
		}
	} else {
		ctx, cancel := c.Context()
		defer cancel()

		asset, err := cld.Admin().Asset(ctx, f.Arg(0), apiutils.Params{
			api.AssetTypeKey:    c.flagResourceType,
			api.DeliveryTypeKey: c.flagType,
		})
		if err != nil {
			return c.Fail("error getting asset", err)
		}
		link = asset.SecureURL
	}

	if c.flagPrint {
		c.UI.Output(link)
		return 0
	}

	c.Log.Debug("opening browser", "url", link)
	if err := c.OpenURL(link); err != nil {
		return c.Fail("error opening browser", err)
	}
	c.UI.Info("Opened " + link)
	return 0
}
