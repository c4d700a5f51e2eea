package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrorKind classifies an error response of the remote API.
type ErrorKind int

const (
	GeneralError ErrorKind = iota
	BadRequest
	AuthorizationRequired
	NotAllowed
	NotFound
	AlreadyExists
	RateLimited
)

func (k ErrorKind) String() string {
	switch k {
	case BadRequest:
		return "bad request"
	case AuthorizationRequired:
		return "authorization required"
	case NotAllowed:
		return "not allowed"
	case NotFound:
		return "not found"
	case AlreadyExists:
		return "already exists"
	case RateLimited:
		return "rate limited"
	default:
		return "general error"
	}
}

// Sentinels matching each ErrorKind with errors.Is.
var (
	ErrGeneral               = errors.New("general error")
	ErrBadRequest            = errors.New("bad request")
	ErrAuthorizationRequired = errors.New("authorization required")
	ErrNotAllowed            = errors.New("not allowed")
	ErrNotFound              = errors.New("not found")
	ErrAlreadyExists         = errors.New("already exists")
	ErrRateLimited           = errors.New("rate limited")

	// ErrInvalidResponse is returned when a response body is not valid JSON.
	ErrInvalidResponse = errors.New("error parsing server response")
)

var kindSentinels = map[ErrorKind]error{
	GeneralError:          ErrGeneral,
	BadRequest:            ErrBadRequest,
	AuthorizationRequired: ErrAuthorizationRequired,
	NotAllowed:            ErrNotAllowed,
	NotFound:              ErrNotFound,
	AlreadyExists:         ErrAlreadyExists,
	RateLimited:           ErrRateLimited,
}

// Error is an error response returned by the remote API.
type Error struct {
	Kind       ErrorKind
	StatusCode int
	Message    string // Message reported by the API, if any
	Body       []byte // Raw response body
}

func (e *Error) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s (status %d)", e.Kind, e.StatusCode)
	}
	return fmt.Sprintf("%s (status %d): %s", e.Kind, e.StatusCode, e.Message)
}

// Is reports whether target is the sentinel of the error's kind.
func (e *Error) Is(target error) bool {
	return kindSentinels[e.Kind] == target
}

// KindForStatus maps an HTTP status code to an ErrorKind.
func KindForStatus(status int) ErrorKind {
	switch status {
	case http.StatusBadRequest:
		return BadRequest
	case http.StatusUnauthorized:
		return AuthorizationRequired
	case http.StatusForbidden:
		return NotAllowed
	case http.StatusNotFound:
		return NotFound
	case http.StatusConflict:
		return AlreadyExists
	case 420, http.StatusTooManyRequests:
		return RateLimited
	default:
		return GeneralError
	}
}

// newError builds an Error from a response. The API reports failures as
// {"error": {"message": "..."}}; other bodies are used verbatim.
func newError(status int, body []byte) *Error {
	e := &Error{
		Kind:       KindForStatus(status),
		StatusCode: status,
		Body:       body,
	}

	var payload struct {
		Error json.RawMessage `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && len(payload.Error) > 0 {
		var nested struct {
			Message string `json:"message"`
		}
		if json.Unmarshal(payload.Error, &nested) == nil && nested.Message != "" {
			e.Message = nested.Message
			return e
		}
		var flat string
		if json.Unmarshal(payload.Error, &flat) == nil {
			e.Message = flat
			return e
		}
	}
	e.Message = strings.TrimSpace(string(body))
	return e
}
