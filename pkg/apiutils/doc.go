// Package apiutils serializes Cloudinary API parameters and signs requests.
//
// # Parameter values
//
// Every function in this package accepts a parameter value typed as any. The
// accepted values are:
//
//   - nil (and nil pointers), which serialize to a nil *string
//   - bool, serialized as "1" or "0"
//   - every integer and float kind, serialized in base 10
//   - string and []byte, passed through unchanged
//   - slices and arrays, which are ordered sequences of parameter values
//   - map[string]T, Params and Pairs, which are key/value mappings
//   - fmt.Stringer, serialized through its String method
//
// Any other value (channels, funcs, structs without a String method) is
// rejected with a *SerializationError. A nil *string return means "absent":
// callers omit the parameter rather than send an empty value.
//
// Go maps are unordered, so a map is always emitted in ascending byte order of
// its keys. Use Pairs when an explicit order matters.
//
// # Delimiters
//
// The delimiters are part of the wire contract with the remote API:
//
//	headers          key:value pairs joined by "\n"
//	context/metadata key=value pairs joined by "|", structured values as JSON
//	coordinates      inner arrays joined by ",", outer list joined by "|"
//	multi-value      values joined by ","
//	query string     key=value pairs joined by "&", never URL-escaped here
//
// # Signing
//
// SignParameters drops the signature and api_key entries, serializes every
// remaining value with SerializeSimple, sorts by key, builds the query-string
// form and hashes it together with the secret:
//
//	params := apiutils.Params{"public_id": "sample", "timestamp": 1315060510}
//	sig, err := apiutils.SignParameters(params, "abcd", apiutils.SHA1)
//	// sig == "c3470533147774275dd37996cc4d0e68fd03cd4f"
//
// All functions are pure and safe for concurrent use.
package apiutils
