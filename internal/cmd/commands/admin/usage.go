package admin

import (
	"flag"

	"github.com/cloudinary/media-management-go/internal/cmd/base"
	"github.com/cloudinary/media-management-go/pkg/apiutils"
)

type UsageCommand struct {
	*base.Command

	flagDate string
}

func (c *UsageCommand) Synopsis() string {
	return "Show account usage"
}

func (c *UsageCommand) Help() string {
	return `Usage: cld usage [options]

  Shows the storage, bandwidth, transformation and request usage of the
  account, for today or for the day given with -date.` + c.Flags().Help()
}

func (c *UsageCommand) Flags() *base.FlagSet {
	f := base.NewFlagSet(flag.NewFlagSet("usage", flag.ContinueOnError))
	c.ClientFlags(f)

	f.StringVar(
		&c.flagDate, "date", "",
		"Day to report, in any common date format (2024-03-07, 03/07/2024, ...).",
	)

	return f
}

func (c *UsageCommand) Run(args []string) int {
	if err := c.Flags().Parse(args); err != nil {
		return c.Fail("error parsing flags", err)
	}

	cld, err := c.Client()
	if err != nil {
		return c.Fail("error creating client", err)
	}
	ctx, cancel := c.Context()
	defer cancel()

	result, err := cld.Admin().Usage(ctx, apiutils.Params{"date": c.flagDate})
	if err != nil {
		return c.Fail("error getting usage", err)
	}
	if err := c.Output(result); err != nil {
		return c.Fail("error writing output", err)
	}
	return 0
}
