package apiutils

import (
	"crypto/sha1"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"hash"
	"strings"

	"github.com/hashicorp/go-multierror"
)

// SignatureAlgorithm is the digest used to sign API requests.
type SignatureAlgorithm string

const (
	SHA1   SignatureAlgorithm = "sha1"
	SHA256 SignatureAlgorithm = "sha256"

	// DefaultSignatureAlgorithm is used when none is configured.
	DefaultSignatureAlgorithm = SHA1
)

// Parameters that never take part in the signature.
const (
	SignatureParam = "signature"
	APIKeyParam    = "api_key"
)

// ErrUnknownAlgorithm is returned for a signature algorithm other than sha1 or
// sha256.
var ErrUnknownAlgorithm = errors.New("unknown signature algorithm")

// ParseSignatureAlgorithm parses a configured algorithm name. An empty name
// selects the default.
func ParseSignatureAlgorithm(s string) (SignatureAlgorithm, error) {
	switch SignatureAlgorithm(strings.ToLower(strings.TrimSpace(s))) {
	case "":
		return DefaultSignatureAlgorithm, nil
	case SHA1:
		return SHA1, nil
	case SHA256:
		return SHA256, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownAlgorithm, s)
}

func (a SignatureAlgorithm) newHash() (hash.Hash, error) {
	switch a {
	case "", SHA1:
		return sha1.New(), nil
	case SHA256:
		return sha256.New(), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownAlgorithm, string(a))
}

// SigningPayload returns the string that is hashed, without the secret. Every
// parameter that fails to serialize is reported.
func SigningPayload(params Params) (string, error) {
	var result *multierror.Error
	pairs := make(Pairs, 0, len(params))
	for _, p := range params.Pairs() {
		if p.Key == SignatureParam || p.Key == APIKeyParam {
			continue
		}
		s, err := SerializeSimple(p.Value)
		if err != nil {
			result = multierror.Append(result, withKey(err, p.Key))
			continue
		}
		if s == nil {
			continue
		}
		pairs = append(pairs, Pair{Key: p.Key, Value: *s})
	}
	if err := result.ErrorOrNil(); err != nil {
		return "", err
	}
	return SerializeQueryParams(pairs)
}

// SignParameters returns the lowercase hex digest of the signing payload of
// params followed by secret.
func SignParameters(params Params, secret string, algo SignatureAlgorithm) (string, error) {
	h, err := algo.newHash()
	if err != nil {
		return "", err
	}
	payload, err := SigningPayload(params)
	if err != nil {
		return "", fmt.Errorf("failed to build signing payload: %w", err)
	}
	h.Write([]byte(payload + secret))
	return hex.EncodeToString(h.Sum(nil)), nil
}

// SignRequest signs params in place, setting the signature and api_key
// entries. The secret itself is never added.
func SignRequest(params Params, apiKey, apiSecret string, algo SignatureAlgorithm) error {
	if params == nil {
		return errors.New("cannot sign nil params")
	}
	sig, err := SignParameters(params, apiSecret, algo)
	if err != nil {
		return err
	}
	params[SignatureParam] = sig
	params[APIKeyParam] = apiKey
	return nil
}
