package config

import (
	"flag"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/cloudinary/media-management-go/internal/cmd/base"
	"github.com/cloudinary/media-management-go/pkg/apiutils"
)

type SignCommand struct {
	*base.Command

	flagTimestamp int64

	// Now is the clock used when -timestamp is not set.
	Now func() time.Time
}

type signature struct {
	Payload   string `json:"payload"`
	Signature string `json:"signature"`
	Algorithm string `json:"algorithm"`
}

func (c *SignCommand) Synopsis() string {
	return "Sign request parameters with the API secret"
}

func (c *SignCommand) Help() string {
	return `Usage: cld sign [options] key=value...

  Computes the signature the Upload API expects for the given parameters. A
  timestamp parameter is added unless one is passed.` + c.Flags().Help()
}

func (c *SignCommand) Flags() *base.FlagSet {
	f := base.NewFlagSet(flag.NewFlagSet("sign", flag.ContinueOnError))
	c.ClientFlags(f)

	f.Int64Var(
		&c.flagTimestamp, "timestamp", 0,
		"Unix timestamp to sign with. Defaults to the current time.",
	)

	return f
}

func (c *SignCommand) Run(args []string) int {
	f := c.Flags()
	if err := f.Parse(args); err != nil {
		return c.Fail("error parsing flags", err)
	}

	params := apiutils.Params{}
	for _, arg := range f.Args() {
		key, value, ok := strings.Cut(arg, "=")
		if !ok || key == "" {
			c.UI.Error(fmt.Sprintf("parameter must have the form key=value, got: %q", arg))
			return 1
		}
		params[key] = value
	}

	if _, ok := params[apiutils.TimestampParam]; !ok {
		ts := c.flagTimestamp
		if ts == 0 {
			now := time.Now
			if c.Now != nil {
				now = c.Now
			}
			ts = now().Unix()
		}
		params[apiutils.TimestampParam] = strconv.FormatInt(ts, 10)
	}

	cfg, err := c.Configuration()
	if err != nil {
		return c.Fail("error loading configuration", err)
	}
	if cfg.Cloud.APISecret == "" {
		c.UI.Error("configuration has no api_secret")
		return 1
	}
	algo, err := cfg.Cloud.Algorithm()
	if err != nil {
		return c.Fail("invalid configuration", err)
	}

	payload, err := apiutils.SigningPayload(params)
	if err != nil {
		return c.Fail("error building payload", err)
	}
	sig, err := apiutils.SignParameters(params, cfg.Cloud.APISecret, algo)
	if err != nil {
		return c.Fail("error signing parameters", err)
	}

	if err := c.Output(signature{Payload: payload, Signature: sig, Algorithm: string(algo)}); err != nil {
		return c.Fail("error writing output", err)
	}
	return 0
}
