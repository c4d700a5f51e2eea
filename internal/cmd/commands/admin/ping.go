package admin

import (
	"flag"

	"github.com/cloudinary/media-management-go/internal/cmd/base"
)

type PingCommand struct {
	*base.Command
}

func (c *PingCommand) Synopsis() string {
	return "Check that the API is reachable with the configured credentials"
}

func (c *PingCommand) Help() string {
	return `Usage: cld ping [options]` + c.Flags().Help()
}

func (c *PingCommand) Flags() *base.FlagSet {
	f := base.NewFlagSet(flag.NewFlagSet("ping", flag.ContinueOnError))
	c.ClientFlags(f)
	return f
}

func (c *PingCommand) Run(args []string) int {
	if err := c.Flags().Parse(args); err != nil {
		return c.Fail("error parsing flags", err)
	}

	cld, err := c.Client()
	if err != nil {
		return c.Fail("error creating client", err)
	}

	ctx, cancel := c.Context()
	defer cancel()

	result, err := cld.Admin().Ping(ctx)
	if err != nil {
		return c.Fail("error pinging API", err)
	}
	if err := c.Output(result); err != nil {
		return c.Fail("error writing output", err)
	}
	return 0
}
