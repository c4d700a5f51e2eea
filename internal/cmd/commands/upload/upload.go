package upload

import (
	"flag"

	"github.com/cloudinary/media-management-go/internal/cmd/base"
	"github.com/cloudinary/media-management-go/pkg/api"
	"github.com/cloudinary/media-management-go/pkg/apiutils"
)

type Command struct {
	*base.Command

	flagResourceType string
	flagPublicID     string
	flagFolder       string
	flagTags         string
	flagOptions      base.OptionsFlag
}

func (c *Command) Synopsis() string {
	return "Upload a file"
}

func (c *Command) Help() string {
	return `Usage: cld upload [options] <file>

  Uploads a local file or a remote URL. Any Upload API option can be passed
  with -opt, for example:

    cld upload -opt use_filename=true -opt context=alt=logo logo.png` + c.Flags().Help()
}

func (c *Command) Flags() *base.FlagSet {
	f := base.NewFlagSet(flag.NewFlagSet("upload", flag.ContinueOnError))
	c.ClientFlags(f)

	f.StringVar(
		&c.flagResourceType, "resource-type", string(api.Auto),
		"Resource type (auto, image, video, raw).",
	)
	f.StringVar(
		&c.flagPublicID, "public-id", "",
		"Public ID of the uploaded asset.",
	)
	f.StringVar(
		&c.flagFolder, "folder", "",
		"Asset folder to upload into.",
	)
	f.StringVar(
		&c.flagTags, "tags", "",
		"Comma separated tags.",
	)
	f.Var(
		&c.flagOptions, "opt",
		"Upload API option as key=value. Can be repeated.",
	)

	return f
}

func (c *Command) Run(args []string) int {
	f := c.Flags()
	if err := f.Parse(args); err != nil {
		return c.Fail("error parsing flags", err)
	}
	if f.NArg() != 1 {
		c.UI.Error("exactly one file must be given")
		return 1
	}

	options := apiutils.Merge(c.flagOptions.Params, apiutils.Params{
		api.AssetTypeKey: c.flagResourceType,
	})
	if c.flagPublicID != "" {
		options["public_id"] = c.flagPublicID
	}
	if c.flagFolder != "" {
		options["asset_folder"] = c.flagFolder
	}
	if c.flagTags != "" {
		options["tags"] = c.flagTags
	}

	cld, err := c.Client()
	if err != nil {
		return c.Fail("error creating client", err)
	}
	ctx, cancel := c.Context()
	defer cancel()

	result, err := cld.Upload().Upload(ctx, f.Arg(0), options)
	if err != nil {
		return c.Fail("error uploading file", err)
	}
	if err := c.Output(result); err != nil {
		return c.Fail("error writing output", err)
	}
	return 0
}
