package api

import (
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/afero"

	"github.com/cloudinary/media-management-go/pkg/apiutils"
	"github.com/cloudinary/media-management-go/pkg/config"
)

const (
	// DefaultUploadPrefix is the API host used when none is configured.
	DefaultUploadPrefix = "https://api.cloudinary.com"

	// APIVersion is the path segment preceding the cloud name.
	APIVersion = "v1_1"
)

// Config holds everything a Client needs. Zero values are replaced by the
// values of DefaultConfig.
type Config struct {
	UploadPrefix string
	CloudName    string

	APIKey             string
	APISecret          string
	OAuthToken         string
	SignatureAlgorithm apiutils.SignatureAlgorithm

	// Timeout applies to Admin API requests, UploadTimeout to signed requests.
	Timeout       time.Duration
	UploadTimeout time.Duration

	// MaxRetries bounds the retries of GET and DELETE requests that fail with
	// a network error or a 5xx status. Nil means DefaultMaxRetries and zero
	// disables retries.
	MaxRetries *int
	RetryDelay time.Duration

	UserAgent string

	Logger     hclog.Logger     // Optional
	HTTPClient *http.Client     // Optional, overrides Timeout and UploadTimeout
	Fs         afero.Fs         // Optional, used to open local files for upload
	Now        func() time.Time // Optional, the clock used for timestamps
}

// DefaultMaxRetries is the retry bound used when Config.MaxRetries is nil.
const DefaultMaxRetries = 3

// Retries returns a MaxRetries value.
func Retries(n int) *int {
	return &n
}

func copyRetries(n *int) *int {
	if n == nil {
		return nil
	}
	return Retries(*n)
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		UploadPrefix:       DefaultUploadPrefix,
		SignatureAlgorithm: apiutils.DefaultSignatureAlgorithm,
		Timeout:            60 * time.Second,
		UploadTimeout:      60 * time.Second,
		MaxRetries:         Retries(DefaultMaxRetries),
		RetryDelay:         500 * time.Millisecond,
		UserAgent:          "CloudinaryGo",
	}
}

// ConfigFrom converts an SDK configuration into a transport Config.
func ConfigFrom(cfg *config.Configuration) (*Config, error) {
	algo, err := cfg.Cloud.Algorithm()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", config.ErrConfiguration, err)
	}
	return &Config{
		UploadPrefix:       cfg.API.UploadPrefix,
		CloudName:          cfg.Cloud.CloudName,
		APIKey:             cfg.Cloud.APIKey,
		APISecret:          cfg.Cloud.APISecret,
		OAuthToken:         cfg.Cloud.OAuthToken,
		SignatureAlgorithm: algo,
		Timeout:            time.Duration(cfg.API.Timeout) * time.Second,
		UploadTimeout:      time.Duration(cfg.API.UploadTimeout) * time.Second,
		MaxRetries:         copyRetries(cfg.API.MaxRetries),
		RetryDelay:         time.Duration(cfg.API.RetryDelay) * time.Second,
	}, nil
}

func (c *Config) applyDefaults() {
	defaults := DefaultConfig()
	if c.UploadPrefix == "" {
		c.UploadPrefix = defaults.UploadPrefix
	}
	if c.SignatureAlgorithm == "" {
		c.SignatureAlgorithm = defaults.SignatureAlgorithm
	}
	if c.Timeout == 0 {
		c.Timeout = defaults.Timeout
	}
	if c.UploadTimeout == 0 {
		c.UploadTimeout = defaults.UploadTimeout
	}
	if c.MaxRetries == nil {
		c.MaxRetries = defaults.MaxRetries
	}
	if c.RetryDelay == 0 {
		c.RetryDelay = defaults.RetryDelay
	}
	if c.UserAgent == "" {
		c.UserAgent = defaults.UserAgent
	}
	if c.Logger == nil {
		c.Logger = hclog.NewNullLogger()
	}
	if c.Fs == nil {
		c.Fs = afero.NewOsFs()
	}
	if c.Now == nil {
		c.Now = time.Now
	}
}

// Validate checks if the configuration is usable.
func (c *Config) Validate() error {
	if c.CloudName == "" {
		return fmt.Errorf("%w: must supply cloud_name", config.ErrConfiguration)
	}

	u, err := url.Parse(c.UploadPrefix)
	if err != nil {
		return fmt.Errorf("%w: invalid upload_prefix: %v", config.ErrConfiguration, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%w: upload_prefix must use http or https scheme, got: %s",
			config.ErrConfiguration, u.Scheme)
	}

	if c.MaxRetries != nil && *c.MaxRetries < 0 {
		return fmt.Errorf("%w: max_retries must be non-negative, got: %d", config.ErrConfiguration, *c.MaxRetries)
	}
	return nil
}

func (c *Config) newHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			Proxy:               http.ProxyFromEnvironment,
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
		},
	}
}
