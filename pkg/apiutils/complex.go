package apiutils

import (
	"fmt"

	"github.com/hashicorp/go-multierror"
)

// Serializer converts a structured parameter value into its wire string. A nil
// result means the parameter is omitted.
type Serializer func(any) (*string, error)

// ComplexParam binds an option key to the serializer for its value.
type ComplexParam struct {
	Key       string
	Serialize Serializer
}

// SerializeInto serializes every listed option present in options and stores
// the result in params. All failures are collected and returned together.
func SerializeInto(params, options Params, complex []ComplexParam) error {
	var result *multierror.Error
	for _, c := range complex {
		value, ok := options[c.Key]
		if !ok {
			continue
		}
		s, err := c.Serialize(value)
		if err != nil {
			result = multierror.Append(result, fmt.Errorf("parameter %q: %w", c.Key, err))
			continue
		}
		params.SetSerialized(c.Key, s)
	}
	return result.ErrorOrNil()
}
