package config

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

const (
	// EnvVar is the environment variable holding the Cloudinary URL.
	EnvVar = "CLOUDINARY_URL"

	// URLScheme is the scheme of a Cloudinary URL.
	URLScheme = "cloudinary"
)

// Keys of the parsed configuration mapping.
const (
	CloudKey     = "cloud"
	CloudNameKey = "cloud_name"
	APIKeyKey    = "api_key"
	APISecretKey = "api_secret"
)

var (
	// ErrConfiguration is returned for missing or unusable configuration.
	ErrConfiguration = errors.New("configuration error")

	// ErrInvalidURL is returned for a string that is not a Cloudinary URL.
	ErrInvalidURL = errors.New(`Invalid CLOUDINARY_URL, "cloudinary://[<key>:<secret>@]<cloud>" expected`)
)

// NormalizeCloudinaryURL strips a leading "CLOUDINARY_URL=" so a line copied
// from an env file is accepted.
func NormalizeCloudinaryURL(s string) string {
	return strings.TrimPrefix(strings.TrimSpace(s), EnvVar+"=")
}

// IsCloudinaryURL reports whether s parses as a Cloudinary URL.
func IsCloudinaryURL(s string) bool {
	_, err := parseURL(NormalizeCloudinaryURL(s))
	return err == nil
}

// ParseCloudinaryURL parses a Cloudinary URL of the form
//
//	cloudinary://[<key>:<secret>@]<cloud>[?group[key]=value&...]
//
// into a configuration mapping. The credentials and cloud name end up under
// "cloud"; every query parameter is placed under its bracketed path. Query
// keys under "cloud" override the values taken from the URL itself.
func ParseCloudinaryURL(s string) (map[string]any, error) {
	if strings.TrimSpace(s) == "" {
		return nil, fmt.Errorf("%w: CLOUDINARY_URL cannot be empty", ErrConfiguration)
	}

	u, err := parseURL(NormalizeCloudinaryURL(s))
	if err != nil {
		return nil, err
	}

	query, err := parseNestedQuery(u.RawQuery)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}

	cloud := map[string]any{CloudNameKey: u.Host}
	if u.User != nil {
		if key := u.User.Username(); key != "" {
			cloud[APIKeyKey] = key
		}
		if secret, ok := u.User.Password(); ok && secret != "" {
			cloud[APISecretKey] = secret
		}
	}

	return mergeMaps(map[string]any{CloudKey: cloud}, query), nil
}

// BuildCloudinaryURL renders the scheme, credentials and cloud name of a
// configuration mapping. Query parameters are not included.
func BuildCloudinaryURL(m map[string]any) string {
	cloud, _ := m[CloudKey].(map[string]any)

	var b strings.Builder
	b.WriteString(URLScheme + "://")

	key := stringValue(cloud[APIKeyKey])
	secret := stringValue(cloud[APISecretKey])
	switch {
	case secret != "":
		b.WriteString(key + ":" + secret + "@")
	case key != "":
		b.WriteString(key + "@")
	}
	b.WriteString(stringValue(cloud[CloudNameKey]))
	return b.String()
}

func parseURL(s string) (*url.URL, error) {
	u, err := url.Parse(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	if u.Scheme != URLScheme {
		return nil, ErrInvalidURL
	}
	return u, nil
}

// parseNestedQuery parses a query string using the bracket convention:
// a[b][c]=v sets a nested key and a[]=v appends to a list.
func parseNestedQuery(raw string) (map[string]any, error) {
	out := map[string]any{}
	if raw == "" {
		return out, nil
	}

	for _, part := range strings.Split(raw, "&") {
		if part == "" {
			continue
		}
		rawKey, rawValue, _ := strings.Cut(part, "=")
		key, err := url.QueryUnescape(rawKey)
		if err != nil {
			return nil, fmt.Errorf("invalid query key %q: %w", rawKey, err)
		}
		value, err := url.QueryUnescape(rawValue)
		if err != nil {
			return nil, fmt.Errorf("invalid value for %q: %w", key, err)
		}
		path := splitKey(key)
		if len(path) == 0 || path[0] == "" {
			continue
		}
		setNested(out, path, tryParse(value))
	}
	return out, nil
}

// splitKey turns "a[b][c]" into ["a", "b", "c"] and "a[]" into ["a", ""].
func splitKey(key string) []string {
	base, rest, found := strings.Cut(key, "[")
	if !found {
		return []string{key}
	}

	path := []string{base}
	rest = "[" + rest
	for strings.HasPrefix(rest, "[") {
		end := strings.Index(rest, "]")
		if end < 0 {
			// Unbalanced bracket, keep the remainder as a literal key.
			return []string{key}
		}
		path = append(path, rest[1:end])
		rest = rest[end+1:]
	}
	return path
}

func setNested(m map[string]any, path []string, value any) {
	key := path[0]
	if len(path) == 1 {
		m[key] = value
		return
	}

	if len(path) == 2 && path[1] == "" {
		list, _ := m[key].([]any)
		m[key] = append(list, value)
		return
	}

	child, ok := m[key].(map[string]any)
	if !ok {
		child = map[string]any{}
		m[key] = child
	}
	setNested(child, path[1:], value)
}

// tryParse converts booleans and numbers that survive a round trip, so
// "0123" stays a string.
func tryParse(s string) any {
	switch s {
	case "true":
		return true
	case "false":
		return false
	}
	if i, err := strconv.ParseInt(s, 10, 64); err == nil && strconv.FormatInt(i, 10) == s {
		return i
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && strconv.FormatFloat(f, 'f', -1, 64) == s {
		return f
	}
	return s
}

// mergeMaps returns base overlaid by overlay, merging nested maps key by key.
func mergeMaps(base, overlay map[string]any) map[string]any {
	out := make(map[string]any, len(base)+len(overlay))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range overlay {
		if bm, ok := out[k].(map[string]any); ok {
			if om, ok := v.(map[string]any); ok {
				out[k] = mergeMaps(bm, om)
				continue
			}
		}
		out[k] = v
	}
	return out
}

func stringValue(v any) string {
	if v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}
