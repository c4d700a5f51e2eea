package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"github.com/hashicorp/go-hclog"
	"golang.org/x/oauth2"

	"github.com/cloudinary/media-management-go/pkg/apiutils"
	"github.com/cloudinary/media-management-go/pkg/config"
)

// Transport sends requests to the remote API. Paths are given as segments
// following /v1_1/<cloud_name>/. Each segment is escaped as a whole, so a
// segment never contains a path separator; see PublicIDPath.
type Transport interface {
	Get(ctx context.Context, path []string, params apiutils.Params) (*Response, error)
	Delete(ctx context.Context, path []string, params apiutils.Params) (*Response, error)
	PostJSON(ctx context.Context, path []string, body any) (*Response, error)
	PutJSON(ctx context.Context, path []string, body any) (*Response, error)
	PostForm(ctx context.Context, path []string, params apiutils.Params) (*Response, error)
	PostFile(ctx context.Context, path []string, file any, params apiutils.Params) (*Response, error)
}

// Client is the HTTP transport shared by the endpoint groups. It is safe for
// concurrent use.
//
// A plain Client authenticates with HTTP Basic credentials or an OAuth token.
// The Client returned by Signed instead signs form and file requests with the
// API secret, as the Upload API requires.
type Client struct {
	cfg        Config
	httpClient *http.Client
	logger     hclog.Logger
	signed     bool
}

var _ Transport = (*Client)(nil)

// NewClient creates a new API client.
func NewClient(cfg Config) (*Client, error) {
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid API client config: %w", err)
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = cfg.newHTTPClient(cfg.Timeout)
	}

	return &Client{
		cfg:        cfg,
		httpClient: httpClient,
		logger:     cfg.Logger.Named("transport"),
	}, nil
}

// Signed returns a copy of the client that signs form and file requests.
func (c *Client) Signed() *Client {
	signed := *c
	signed.signed = true
	if c.cfg.HTTPClient == nil {
		signed.httpClient = c.cfg.newHTTPClient(c.cfg.UploadTimeout)
	}
	signed.logger = c.logger.With("signed", true)
	return &signed
}

// Now returns the current time of the client clock.
func (c *Client) Now() time.Time {
	return c.cfg.Now()
}

// CloudName returns the configured cloud name.
func (c *Client) CloudName() string {
	return c.cfg.CloudName
}

// URL returns the absolute URL of an API path. Every segment is path
// escaped.
func (c *Client) URL(path ...string) string {
	segments := make([]string, 0, len(path)+3)
	segments = append(segments,
		strings.TrimRight(c.cfg.UploadPrefix, "/"), APIVersion, url.PathEscape(c.cfg.CloudName))
	for _, s := range path {
		segments = append(segments, url.PathEscape(s))
	}
	return strings.Join(segments, "/")
}

// PublicIDPath splits a public ID into path segments at its folder
// separators.
func PublicIDPath(publicID string) []string {
	return strings.Split(publicID, "/")
}

// Get sends a GET request with params in the query string.
func (c *Client) Get(ctx context.Context, path []string, params apiutils.Params) (*Response, error) {
	query, err := encodeValues(params, true)
	if err != nil {
		return nil, err
	}
	return c.do(ctx, request{method: http.MethodGet, path: path, query: query, retry: true})
}

// Delete sends a DELETE request with params in the query string.
func (c *Client) Delete(ctx context.Context, path []string, params apiutils.Params) (*Response, error) {
	query, err := encodeValues(params, true)
	if err != nil {
		return nil, err
	}
	return c.do(ctx, request{method: http.MethodDelete, path: path, query: query, retry: true})
}

// PostJSON sends body as a JSON document.
func (c *Client) PostJSON(ctx context.Context, path []string, body any) (*Response, error) {
	return c.sendJSON(ctx, http.MethodPost, path, body)
}

// PutJSON sends body as a JSON document with the PUT method.
func (c *Client) PutJSON(ctx context.Context, path []string, body any) (*Response, error) {
	return c.sendJSON(ctx, http.MethodPut, path, body)
}

func (c *Client) sendJSON(ctx context.Context, method string, path []string, body any) (*Response, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}
	return c.do(ctx, request{
		method:      method,
		path:        path,
		contentType: "application/json",
		body:        payload,
	})
}

// PostForm sends params as an urlencoded form. A signed client adds the
// timestamp, api_key and signature.
func (c *Client) PostForm(ctx context.Context, path []string, params apiutils.Params) (*Response, error) {
	params, err := c.prepareParams(params)
	if err != nil {
		return nil, err
	}
	form, err := encodeValues(params, !c.signed)
	if err != nil {
		return nil, err
	}
	return c.do(ctx, request{
		method:      http.MethodPost,
		path:        path,
		contentType: "application/x-www-form-urlencoded",
		body:        []byte(form.Encode()),
	})
}

// PostFile sends params and a file as a multipart form. See NewFileSource for
// the accepted file values.
func (c *Client) PostFile(ctx context.Context, path []string, file any, params apiutils.Params) (*Response, error) {
	src, err := NewFileSource(c.cfg.Fs, file)
	if err != nil {
		return nil, err
	}
	params, err = c.prepareParams(params)
	if err != nil {
		return nil, err
	}
	fields, err := encodeValues(params, false)
	if err != nil {
		return nil, err
	}
	body, contentType, err := src.multipart(fields)
	if err != nil {
		return nil, fmt.Errorf("failed to build multipart body: %w", err)
	}
	return c.do(ctx, request{
		method:      http.MethodPost,
		path:        path,
		contentType: contentType,
		body:        body,
	})
}

// SignedURL returns the URL of path with params signed in its query string.
// It is used for links handed to a browser, such as backup downloads.
func (c *Client) SignedURL(path []string, params apiutils.Params) (string, error) {
	signed, err := c.signParams(params)
	if err != nil {
		return "", err
	}
	query, err := encodeValues(signed, false)
	if err != nil {
		return "", err
	}
	return c.URL(path...) + "?" + query.Encode(), nil
}

type request struct {
	method      string
	path        []string
	query       url.Values
	contentType string
	body        []byte
	retry       bool
}

func (c *Client) prepareParams(params apiutils.Params) (apiutils.Params, error) {
	if !c.signed {
		return params, nil
	}
	if c.cfg.OAuthToken != "" {
		p := params.Clone()
		setTimestamp(p, c.cfg.Now())
		return p, nil
	}
	return c.signParams(params)
}

func (c *Client) signParams(params apiutils.Params) (apiutils.Params, error) {
	if c.cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: must supply api_key", config.ErrConfiguration)
	}
	if c.cfg.APISecret == "" {
		return nil, fmt.Errorf("%w: must supply api_secret", config.ErrConfiguration)
	}

	p := params.Clone()
	setTimestamp(p, c.cfg.Now())
	if err := apiutils.SignRequest(p, c.cfg.APIKey, c.cfg.APISecret, c.cfg.SignatureAlgorithm); err != nil {
		return nil, fmt.Errorf("failed to sign request: %w", err)
	}
	return p, nil
}

func setTimestamp(p apiutils.Params, now time.Time) {
	if _, ok := p[apiutils.TimestampParam]; !ok {
		p[apiutils.TimestampParam] = strconv.FormatInt(now.Unix(), 10)
	}
}

// authorize sets the Authorization header. Signed form and file requests
// carry their credentials in the body unless an OAuth token is configured.
func (c *Client) authorize(req *http.Request, r request) error {
	if c.cfg.OAuthToken != "" {
		token := &oauth2.Token{AccessToken: c.cfg.OAuthToken, TokenType: "Bearer"}
		token.SetAuthHeader(req)
		return nil
	}
	if c.signed && r.method == http.MethodPost && r.contentType != "application/json" {
		return nil
	}
	if c.cfg.APIKey == "" {
		return fmt.Errorf("%w: must supply api_key", config.ErrConfiguration)
	}
	if c.cfg.APISecret == "" {
		return fmt.Errorf("%w: must supply api_secret", config.ErrConfiguration)
	}
	req.SetBasicAuth(c.cfg.APIKey, c.cfg.APISecret)
	return nil
}

// do executes a request. Requests marked for retry are retried with
// exponential backoff on network errors and 5xx responses.
func (c *Client) do(ctx context.Context, r request) (*Response, error) {
	endpoint := c.URL(r.path...)
	if len(r.query) > 0 {
		endpoint += "?" + r.query.Encode()
	}

	logger := c.logger.With(
		"request_id", uuid.NewString(),
		"method", r.method,
		"path", strings.Join(r.path, "/"),
	)

	var policy backoff.BackOff = &backoff.StopBackOff{}
	if r.retry && *c.cfg.MaxRetries > 0 {
		eb := backoff.NewExponentialBackOff()
		eb.InitialInterval = c.cfg.RetryDelay
		eb.MaxElapsedTime = 0
		policy = backoff.WithMaxRetries(eb, uint64(*c.cfg.MaxRetries))
	}
	policy = backoff.WithContext(policy, ctx)

	var (
		result  *Response
		attempt int
	)
	op := func() error {
		attempt++
		resp, err := c.send(ctx, r, endpoint, logger.With("attempt", attempt))
		if err != nil {
			return err
		}
		result = resp
		return nil
	}
	notify := func(err error, delay time.Duration) {
		logger.Debug("retrying request", "attempt", attempt, "delay", delay, "error", err)
	}

	if err := backoff.RetryNotify(op, policy, notify); err != nil {
		return nil, err
	}
	return result, nil
}

// send performs a single attempt. Errors that must not be retried are
// wrapped with backoff.Permanent.
func (c *Client) send(ctx context.Context, r request, endpoint string, logger hclog.Logger) (*Response, error) {
	var body io.Reader
	if r.body != nil {
		body = bytes.NewReader(r.body)
	}

	req, err := http.NewRequestWithContext(ctx, r.method, endpoint, body)
	if err != nil {
		return nil, backoff.Permanent(fmt.Errorf("failed to create request: %w", err))
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.cfg.UserAgent)
	if r.contentType != "" {
		req.Header.Set("Content-Type", r.contentType)
	}
	if err := c.authorize(req, r); err != nil {
		return nil, backoff.Permanent(err)
	}

	start := time.Now()
	logger.Debug("sending request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, backoff.Permanent(ctx.Err())
		}
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	logger.Debug("request completed",
		"status", resp.StatusCode,
		"duration", time.Since(start),
	)

	if resp.StatusCode >= http.StatusBadRequest {
		apiErr := newError(resp.StatusCode, respBody)
		if resp.StatusCode >= http.StatusInternalServerError {
			return nil, apiErr
		}
		return nil, backoff.Permanent(apiErr)
	}

	result, err := newResponse(resp, respBody)
	if err != nil {
		logger.Error("error parsing JSON server response", "error", err)
		return nil, backoff.Permanent(err)
	}
	return result, nil
}

// encodeValues serializes params into url.Values. With arrays set, sequences
// are sent as repeated key[] entries; otherwise every value is serialized
// with apiutils.SerializeSimple.
func encodeValues(params apiutils.Params, arrays bool) (url.Values, error) {
	values := url.Values{}
	for _, p := range params.Pairs() {
		if items, ok := apiutils.Sequence(p.Value); ok && arrays {
			for _, item := range items {
				s, err := apiutils.SerializeSimple(item)
				if err != nil {
					return nil, fmt.Errorf("failed to encode parameter %q: %w", p.Key, err)
				}
				if s != nil {
					values.Add(p.Key+"[]", *s)
				}
			}
			continue
		}

		s, err := apiutils.SerializeSimple(p.Value)
		if err != nil {
			return nil, fmt.Errorf("failed to encode parameter %q: %w", p.Key, err)
		}
		if s != nil {
			values.Set(p.Key, *s)
		}
	}
	return values, nil
}

