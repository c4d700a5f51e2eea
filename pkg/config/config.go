// Package config parses Cloudinary URLs and loads SDK configuration from
// URLs, the environment and HCL or YAML files.
package config

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/mitchellh/mapstructure"

	"github.com/cloudinary/media-management-go/pkg/apiutils"
)

// Configuration is the complete SDK configuration. It is built explicitly and
// passed to the clients that need it.
type Configuration struct {
	Cloud   CloudConfig   `mapstructure:"cloud" yaml:"cloud" json:"cloud"`
	API     APIConfig     `mapstructure:"api" yaml:"api,omitempty" json:"api,omitempty"`
	Logging LoggingConfig `mapstructure:"logging" yaml:"logging,omitempty" json:"logging,omitempty"`
}

// CloudConfig identifies the product environment and its credentials.
type CloudConfig struct {
	CloudName          string `mapstructure:"cloud_name" hcl:"cloud_name,optional" yaml:"cloud_name" json:"cloud_name"`
	APIKey             string `mapstructure:"api_key" hcl:"api_key,optional" yaml:"api_key,omitempty" json:"api_key,omitempty"`
	APISecret          string `mapstructure:"api_secret" hcl:"api_secret,optional" yaml:"api_secret,omitempty" json:"api_secret,omitempty"`
	OAuthToken         string `mapstructure:"oauth_token" hcl:"oauth_token,optional" yaml:"oauth_token,omitempty" json:"oauth_token,omitempty"`
	SignatureAlgorithm string `mapstructure:"signature_algorithm" hcl:"signature_algorithm,optional" yaml:"signature_algorithm,omitempty" json:"signature_algorithm,omitempty"`
}

// APIConfig tunes the HTTP transport. Durations are in seconds; zero means
// the transport default. MaxRetries is unset when nil and an explicit zero
// turns retries off.
type APIConfig struct {
	UploadPrefix  string `mapstructure:"upload_prefix" hcl:"upload_prefix,optional" yaml:"upload_prefix,omitempty" json:"upload_prefix,omitempty"`
	Timeout       int    `mapstructure:"timeout" hcl:"timeout,optional" yaml:"timeout,omitempty" json:"timeout,omitempty"`
	UploadTimeout int    `mapstructure:"upload_timeout" hcl:"upload_timeout,optional" yaml:"upload_timeout,omitempty" json:"upload_timeout,omitempty"`
	MaxRetries    *int   `mapstructure:"max_retries" hcl:"max_retries,optional" yaml:"max_retries,omitempty" json:"max_retries,omitempty"`
	RetryDelay    int    `mapstructure:"retry_delay" hcl:"retry_delay,optional" yaml:"retry_delay,omitempty" json:"retry_delay,omitempty"`
}

// LoggingConfig configures the logger of the command line tool.
type LoggingConfig struct {
	Level string `mapstructure:"level" hcl:"level,optional" yaml:"level,omitempty" json:"level,omitempty"`
}

var httpURL = regexp.MustCompile(`^https?://[^\s/]+`)

// New decodes a configuration mapping such as the one returned by
// ParseCloudinaryURL. Numeric strings are accepted for numeric fields and
// unknown keys are ignored.
func New(m map[string]any) (*Configuration, error) {
	cfg := &Configuration{}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           cfg,
		WeaklyTypedInput: true,
		TagName:          "mapstructure",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create config decoder: %w", err)
	}
	if err := dec.Decode(m); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfiguration, err)
	}
	return cfg, nil
}

// FromCloudinaryURL builds a configuration from a Cloudinary URL.
func FromCloudinaryURL(s string) (*Configuration, error) {
	m, err := ParseCloudinaryURL(s)
	if err != nil {
		return nil, err
	}
	return New(m)
}

// FromEnvironment builds a configuration from the CLOUDINARY_URL variable
// returned by lookup, normally os.LookupEnv.
func FromEnvironment(lookup func(string) (string, bool)) (*Configuration, error) {
	v, ok := lookup(EnvVar)
	if !ok || strings.TrimSpace(v) == "" {
		return nil, fmt.Errorf("%w: %s is not set", ErrConfiguration, EnvVar)
	}
	return FromCloudinaryURL(v)
}

// Validate checks the configuration. Errors wrap ErrConfiguration.
func (c *Configuration) Validate() error {
	err := validation.Errors{
		"cloud": c.Cloud.Validate(),
		"api":   c.API.Validate(),
	}.Filter()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrConfiguration, err)
	}
	return nil
}

// Validate checks the cloud settings.
func (c CloudConfig) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.CloudName, validation.Required),
		validation.Field(&c.SignatureAlgorithm,
			validation.In(string(apiutils.SHA1), string(apiutils.SHA256))),
	)
}

// Validate checks the transport settings.
func (a APIConfig) Validate() error {
	return validation.ValidateStruct(&a,
		validation.Field(&a.UploadPrefix,
			validation.Match(httpURL).Error("must be an http or https URL")),
		validation.Field(&a.Timeout, validation.Min(0)),
		validation.Field(&a.UploadTimeout, validation.Min(0)),
		validation.Field(&a.MaxRetries, validation.Min(0)),
		validation.Field(&a.RetryDelay, validation.Min(0)),
	)
}

// Algorithm returns the configured signature algorithm.
func (c CloudConfig) Algorithm() (apiutils.SignatureAlgorithm, error) {
	return apiutils.ParseSignatureAlgorithm(c.SignatureAlgorithm)
}

// HasCredentials reports whether an API key and secret are both set.
func (c CloudConfig) HasCredentials() bool {
	return c.APIKey != "" && c.APISecret != ""
}

// QueryString renders the identity fields as cloud[key]=value pairs, leaving
// out the excluded keys. Pass APISecretKey to keep the secret out of logs.
func (c CloudConfig) QueryString(exclude ...string) string {
	skip := make(map[string]bool, len(exclude))
	for _, k := range exclude {
		skip[k] = true
	}

	var parts []string
	for _, f := range []struct{ key, value string }{
		{CloudNameKey, c.CloudName},
		{APIKeyKey, c.APIKey},
		{APISecretKey, c.APISecret},
	} {
		if f.value == "" || skip[f.key] {
			continue
		}
		parts = append(parts, CloudKey+"["+f.key+"]="+f.value)
	}
	return strings.Join(parts, "&")
}

// String renders the configuration as a Cloudinary URL. Settings beyond the
// cloud name and credentials are appended as query parameters when set.
func (c *Configuration) String() string {
	base := BuildCloudinaryURL(map[string]any{
		CloudKey: map[string]any{
			CloudNameKey: c.Cloud.CloudName,
			APIKeyKey:    c.Cloud.APIKey,
			APISecretKey: c.Cloud.APISecret,
		},
	})

	var extras []string
	add := func(key, value string) {
		if value != "" && value != "0" {
			extras = append(extras, key+"="+value)
		}
	}
	add("cloud[oauth_token]", c.Cloud.OAuthToken)
	add("cloud[signature_algorithm]", c.Cloud.SignatureAlgorithm)
	add("api[upload_prefix]", c.API.UploadPrefix)
	add("api[timeout]", strconv.Itoa(c.API.Timeout))
	add("api[upload_timeout]", strconv.Itoa(c.API.UploadTimeout))
	if c.API.MaxRetries != nil {
		extras = append(extras, "api[max_retries]="+strconv.Itoa(*c.API.MaxRetries))
	}
	add("api[retry_delay]", strconv.Itoa(c.API.RetryDelay))
	add("logging[level]", c.Logging.Level)

	if len(extras) == 0 {
		return base
	}
	return base + "?" + strings.Join(extras, "&")
}

// overlay copies every non-zero field of o onto c.
func (c *CloudConfig) overlay(o CloudConfig) {
	setString(&c.CloudName, o.CloudName)
	setString(&c.APIKey, o.APIKey)
	setString(&c.APISecret, o.APISecret)
	setString(&c.OAuthToken, o.OAuthToken)
	setString(&c.SignatureAlgorithm, o.SignatureAlgorithm)
}

func (a *APIConfig) overlay(o APIConfig) {
	setString(&a.UploadPrefix, o.UploadPrefix)
	setInt(&a.Timeout, o.Timeout)
	setInt(&a.UploadTimeout, o.UploadTimeout)
	if o.MaxRetries != nil {
		a.MaxRetries = o.MaxRetries
	}
	setInt(&a.RetryDelay, o.RetryDelay)
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setInt(dst *int, v int) {
	if v != 0 {
		*dst = v
	}
}
