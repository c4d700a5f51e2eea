// Package api is the HTTP transport of the Cloudinary SDK.
//
// Every request targets
//
//	<upload_prefix>/v1_1/<cloud_name>/<path segments>
//
// Admin API requests authenticate with HTTP Basic credentials built from the
// API key and secret. Upload API requests are signed instead: the transport
// adds a timestamp, computes the signature with apiutils.SignRequest and sends
// api_key and signature alongside the other parameters. When an OAuth token is
// configured both kinds of request send it as a Bearer token and nothing is
// signed.
//
// Error responses are returned as *Error. Use errors.Is with the sentinels to
// test for a kind:
//
//	_, err := client.Get(ctx, []string{"resources", "image"}, nil)
//	if errors.Is(err, api.ErrNotFound) {
//		// ...
//	}
//
// GET and DELETE requests are retried with exponential backoff when the
// request fails at the network level or the server answers with a 5xx
// status. POST requests are never retried.
package api
