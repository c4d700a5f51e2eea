package base

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"

	"github.com/hashicorp/go-hclog"
	"github.com/mitchellh/cli"
	"github.com/pkg/browser"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"github.com/cloudinary/media-management-go/pkg/cloudinary"
	"github.com/cloudinary/media-management-go/pkg/config"
)

// Output formats.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Command holds what every command shares: the logger, the UI and the flags
// that select a configuration.
type Command struct {
	Log hclog.Logger
	UI  cli.Ui

	// Fs is where configuration files and local uploads are read from.
	Fs afero.Fs
	// LookupEnv reads the environment.
	LookupEnv func(string) (string, bool)
	// OpenURL opens a link in the user's browser.
	OpenURL func(string) error

	flagURL      string
	flagConfig   string
	flagLogLevel string
	flagFormat   string
}

// New creates the shared command state with the operating system
// filesystem, environment and browser.
func New(log hclog.Logger, ui cli.Ui) *Command {
	return &Command{
		Log:       log,
		UI:        ui,
		Fs:        afero.NewOsFs(),
		LookupEnv: os.LookupEnv,
		OpenURL:   browser.OpenURL,
	}
}

// ClientFlags adds the flags that select the configuration and output.
func (c *Command) ClientFlags(f *FlagSet) {
	f.StringVar(
		&c.flagURL, "url", "",
		"[CLOUDINARY_URL] Cloudinary URL, cloudinary://<key>:<secret>@<cloud>",
	)
	f.StringVar(
		&c.flagConfig, "config", "",
		"Path to an HCL or YAML configuration file. Overrides -url.",
	)
	f.StringVar(
		&c.flagLogLevel, "log-level", "",
		"Log level (trace, debug, info, warn, error).",
	)
	f.StringVar(
		&c.flagFormat, "format", FormatJSON,
		"Output format (json, yaml).",
	)
}

// Configuration loads the configuration from -config, -url or the
// CLOUDINARY_URL environment variable, in that order.
func (c *Command) Configuration() (*config.Configuration, error) {
	var (
		cfg *config.Configuration
		err error
	)
	switch {
	case c.flagConfig != "":
		cfg, err = config.LoadFile(c.Fs, c.flagConfig)
	case c.flagURL != "":
		cfg, err = config.FromCloudinaryURL(c.flagURL)
	default:
		cfg, err = config.FromEnvironment(c.LookupEnv)
	}
	if err != nil {
		return nil, err
	}

	level := c.flagLogLevel
	if level == "" {
		level = cfg.Logging.Level
	}
	if level != "" {
		l := hclog.LevelFromString(level)
		if l == hclog.NoLevel {
			return nil, fmt.Errorf("invalid log level: %s", level)
		}
		c.Log.SetLevel(l)
	}

	return cfg, nil
}

// Client loads the configuration and creates an SDK instance.
func (c *Command) Client() (*cloudinary.Cloudinary, error) {
	cfg, err := c.Configuration()
	if err != nil {
		return nil, err
	}
	return cloudinary.New(cfg,
		cloudinary.WithLogger(c.Log),
		cloudinary.WithFs(c.Fs),
	)
}

// Output writes v to the UI in the selected format.
func (c *Command) Output(v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}

	switch c.flagFormat {
	case "", FormatJSON:
		c.UI.Output(string(b))
	case FormatYAML:
		// Round trip through JSON so YAML keys match the JSON field names.
		var doc any
		if err := json.Unmarshal(b, &doc); err != nil {
			return fmt.Errorf("failed to encode output: %w", err)
		}
		out, err := yaml.Marshal(doc)
		if err != nil {
			return fmt.Errorf("failed to encode output: %w", err)
		}
		c.UI.Output(string(out))
	default:
		return fmt.Errorf("unsupported output format: %s", c.flagFormat)
	}
	return nil
}

// Fail reports err and returns the exit code for a failed command.
func (c *Command) Fail(msg string, err error) int {
	c.UI.Error(fmt.Sprintf("%s: %v", msg, err))
	return 1
}

// Context returns a context that is canceled on interrupt.
func (c *Command) Context() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}
