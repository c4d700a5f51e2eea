package apiutils

import "strings"

// SerializeQueryParams builds the key=value&key=value form of pairs, keeping
// their order. Each value goes through SerializeSimple and pairs whose value is
// absent are dropped. Nothing is URL-escaped.
func SerializeQueryParams(pairs Pairs) (string, error) {
	parts := make([]string, 0, len(pairs))
	for _, p := range pairs {
		s, err := SerializeSimple(p.Value)
		if err != nil {
			return "", withKey(err, p.Key)
		}
		if s == nil {
			continue
		}
		parts = append(parts, p.Key+QueryStringInnerDelimiter+*s)
	}
	return strings.Join(parts, QueryStringOuterDelimiter), nil
}
