package config

import (
	"flag"

	"github.com/cloudinary/media-management-go/internal/cmd/base"
)

const redacted = "<redacted>"

type Command struct {
	*base.Command

	flagShowSecrets bool
}

func (c *Command) Synopsis() string {
	return "Show the active configuration"
}

func (c *Command) Help() string {
	return `Usage: cld config [options]

  Loads the configuration from -config, -url or CLOUDINARY_URL, validates it
  and prints it. Secrets are redacted unless -show-secrets is set.` + c.Flags().Help()
}

func (c *Command) Flags() *base.FlagSet {
	f := base.NewFlagSet(flag.NewFlagSet("config", flag.ContinueOnError))
	c.ClientFlags(f)

	f.BoolVar(
		&c.flagShowSecrets, "show-secrets", false,
		"Print the API secret and OAuth token.",
	)

	return f
}

func (c *Command) Run(args []string) int {
	f := c.Flags()
	if err := f.Parse(args); err != nil {
		return c.Fail("error parsing flags", err)
	}

	cfg, err := c.Configuration()
	if err != nil {
		return c.Fail("error loading configuration", err)
	}
	if err := cfg.Validate(); err != nil {
		return c.Fail("invalid configuration", err)
	}

	out := *cfg
	if !c.flagShowSecrets {
		if out.Cloud.APISecret != "" {
			out.Cloud.APISecret = redacted
		}
		if out.Cloud.OAuthToken != "" {
			out.Cloud.OAuthToken = redacted
		}
	}

	if err := c.Output(out); err != nil {
		return c.Fail("error writing output", err)
	}
	return 0
}
