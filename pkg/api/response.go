package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"
)

// Response is a successful API response.
type Response struct {
	StatusCode int
	Headers    http.Header
	Data       map[string]any // Decoded JSON object, nil for non-object bodies

	raw []byte
}

// RateLimit is the quota information attached to Admin API responses.
type RateLimit struct {
	Limit     int
	Remaining int
	Reset     time.Time
}

func newResponse(resp *http.Response, body []byte) (*Response, error) {
	r := &Response{
		StatusCode: resp.StatusCode,
		Headers:    resp.Header,
		raw:        body,
	}
	if len(body) == 0 {
		return r, nil
	}
	if !json.Valid(body) {
		return nil, fmt.Errorf("%w: %s", ErrInvalidResponse, truncate(body, 200))
	}
	// Non-object bodies are kept raw.
	_ = json.Unmarshal(body, &r.Data)
	return r, nil
}

// Decode unmarshals the response body into v.
func (r *Response) Decode(v any) error {
	if len(r.raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(r.raw, v); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	return nil
}

// Raw returns the response body.
func (r *Response) Raw() []byte {
	return r.raw
}

// RateLimit returns the rate limit headers of the response, if present.
func (r *Response) RateLimit() (RateLimit, bool) {
	limit, err := strconv.Atoi(r.Headers.Get("X-FeatureRateLimit-Limit"))
	if err != nil {
		return RateLimit{}, false
	}
	rl := RateLimit{Limit: limit}
	rl.Remaining, _ = strconv.Atoi(r.Headers.Get("X-FeatureRateLimit-Remaining"))
	if reset, err := http.ParseTime(r.Headers.Get("X-FeatureRateLimit-Reset")); err == nil {
		rl.Reset = reset
	}
	return rl, true
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
