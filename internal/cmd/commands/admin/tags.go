package admin

import (
	"flag"

	"github.com/cloudinary/media-management-go/internal/cmd/base"
	"github.com/cloudinary/media-management-go/pkg/api"
	"github.com/cloudinary/media-management-go/pkg/apiutils"
)

type TagsCommand struct {
	*base.Command

	flagResourceType string
	flagPrefix       string
	flagMaxResults   int
	flagNextCursor   string
}

func (c *TagsCommand) Synopsis() string {
	return "List tags"
}

func (c *TagsCommand) Help() string {
	return `Usage: cld tags [options]

  Lists the tags used by assets of a resource type.` + c.Flags().Help()
}

func (c *TagsCommand) Flags() *base.FlagSet {
	f := base.NewFlagSet(flag.NewFlagSet("tags", flag.ContinueOnError))
	c.ClientFlags(f)

	f.StringVar(
		&c.flagResourceType, "resource-type", string(api.Image),
		"Resource type (image, video, raw).",
	)
	f.StringVar(
		&c.flagPrefix, "prefix", "",
		"Only list tags starting with this prefix.",
	)
	f.IntVar(
		&c.flagMaxResults, "max-results", 0,
		"Maximum number of tags to return.",
	)
	f.StringVar(
		&c.flagNextCursor, "next-cursor", "",
		"Continue a previous listing.",
	)

	return f
}

func (c *TagsCommand) Run(args []string) int {
	if err := c.Flags().Parse(args); err != nil {
		return c.Fail("error parsing flags", err)
	}

	options := apiutils.Params{api.AssetTypeKey: c.flagResourceType}
	if c.flagPrefix != "" {
		options["prefix"] = c.flagPrefix
	}
	if c.flagMaxResults > 0 {
		options["max_results"] = c.flagMaxResults
	}
	if c.flagNextCursor != "" {
		options["next_cursor"] = c.flagNextCursor
	}

	cld, err := c.Client()
	if err != nil {
		return c.Fail("error creating client", err)
	}
	ctx, cancel := c.Context()
	defer cancel()

	result, err := cld.Admin().Tags(ctx, options)
	if err != nil {
		return c.Fail("error listing tags", err)
	}
	if err := c.Output(result); err != nil {
		return c.Fail("error writing output", err)
	}
	return 0
}
