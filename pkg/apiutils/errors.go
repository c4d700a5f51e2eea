package apiutils

import (
	"errors"
	"fmt"
)

// ErrUnsupportedValue is returned for parameter values that have no defined
// encoding.
var ErrUnsupportedValue = errors.New("unsupported parameter value")

// SerializationError reports a parameter value that could not be serialized.
type SerializationError struct {
	Key   string // Parameter name, empty when serializing a bare value
	Value any    // The offending value
	Err   error  // Underlying error
}

func (e *SerializationError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("cannot serialize value of type %T: %v", e.Value, e.Err)
	}
	return fmt.Sprintf("cannot serialize parameter %q of type %T: %v", e.Key, e.Value, e.Err)
}

func (e *SerializationError) Unwrap() error {
	return e.Err
}

// withKey attaches a parameter name to a serialization error.
func withKey(err error, key string) error {
	var serr *SerializationError
	if errors.As(err, &serr) && serr.Key == "" {
		return &SerializationError{Key: key, Value: serr.Value, Err: serr.Err}
	}
	return fmt.Errorf("parameter %q: %w", key, err)
}

func unsupported(v any) error {
	return &SerializationError{Value: v, Err: ErrUnsupportedValue}
}
