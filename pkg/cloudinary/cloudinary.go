// Package cloudinary ties a configuration to the Admin, Upload and Search API
// groups. All groups share one transport.
//
//	cfg, err := config.FromEnvironment(os.LookupEnv)
//	if err != nil {
//		return err
//	}
//	cld, err := cloudinary.New(cfg, cloudinary.WithLogger(logger))
//	if err != nil {
//		return err
//	}
//	res, err := cld.Upload().Upload(ctx, "sample.jpg", apiutils.Params{"tags": []string{"a"}})
package cloudinary

import (
	"fmt"
	"net/http"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/afero"

	"github.com/cloudinary/media-management-go/internal/version"
	"github.com/cloudinary/media-management-go/pkg/admin"
	"github.com/cloudinary/media-management-go/pkg/api"
	"github.com/cloudinary/media-management-go/pkg/config"
	"github.com/cloudinary/media-management-go/pkg/search"
	"github.com/cloudinary/media-management-go/pkg/upload"
)

// Option customizes a Cloudinary instance.
type Option func(*api.Config)

// WithLogger sets the logger of every API group.
func WithLogger(logger hclog.Logger) Option {
	return func(c *api.Config) {
		c.Logger = logger
	}
}

// WithHTTPClient replaces the HTTP client, including its timeouts.
func WithHTTPClient(client *http.Client) Option {
	return func(c *api.Config) {
		c.HTTPClient = client
	}
}

// WithFs sets the filesystem local upload paths are read from.
func WithFs(fs afero.Fs) Option {
	return func(c *api.Config) {
		c.Fs = fs
	}
}

// WithClock sets the clock used for request timestamps.
func WithClock(now func() time.Time) Option {
	return func(c *api.Config) {
		c.Now = now
	}
}

// Cloudinary is a configured SDK instance.
type Cloudinary struct {
	cfg    *config.Configuration
	client *api.Client
	logger hclog.Logger
}

// New validates cfg and creates an SDK instance.
func New(cfg *config.Configuration, opts ...Option) (*Cloudinary, error) {
	if cfg == nil {
		return nil, fmt.Errorf("%w: configuration is required", config.ErrConfiguration)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	apiCfg, err := api.ConfigFrom(cfg)
	if err != nil {
		return nil, err
	}
	apiCfg.UserAgent = "CloudinaryGo/" + version.Version
	for _, opt := range opts {
		opt(apiCfg)
	}

	client, err := api.NewClient(*apiCfg)
	if err != nil {
		return nil, err
	}

	logger := apiCfg.Logger
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Cloudinary{
		cfg:    cfg,
		client: client,
		logger: logger,
	}, nil
}

// NewFromURL creates an SDK instance from a Cloudinary URL.
func NewFromURL(cloudinaryURL string, opts ...Option) (*Cloudinary, error) {
	cfg, err := config.FromCloudinaryURL(cloudinaryURL)
	if err != nil {
		return nil, err
	}
	return New(cfg, opts...)
}

// Configuration returns the configuration the instance was built from.
func (c *Cloudinary) Configuration() *config.Configuration {
	return c.cfg
}

// Admin returns the Admin API group.
func (c *Cloudinary) Admin() *admin.API {
	return admin.New(c.client, c.logger)
}

// Upload returns the Upload API group.
func (c *Cloudinary) Upload() *upload.API {
	return upload.New(c.client.Signed(), c.logger)
}

// Search starts a new Search API query.
func (c *Cloudinary) Search() *search.Query {
	return search.New(c.client, c.logger)
}
