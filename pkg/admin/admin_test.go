package admin

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cloudinary/media-management-go/pkg/api"
	"github.com/cloudinary/media-management-go/pkg/apiutils"
)

type recorded struct {
	method  string
	path    string
	rawPath string
	query   url.Values
	form    url.Values
	body    []byte
}

// newTestAPI starts a server answering every request with response and
// records the last request it saw.
func newTestAPI(t *testing.T, status int, response any) (*API, *recorded) {
	t.Helper()

	rec := &recorded{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec.method = r.Method
		rec.path = r.URL.Path
		rec.rawPath = r.URL.EscapedPath()
		rec.query = r.URL.Query()
		body, _ := io.ReadAll(r.Body)
		rec.body = body
		if r.Header.Get("Content-Type") == "application/x-www-form-urlencoded" {
			rec.form, _ = url.ParseQuery(string(body))
		}

		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("X-FeatureRateLimit-Limit", "500")
		w.Header().Set("X-FeatureRateLimit-Remaining", "499")
		w.Header().Set("X-FeatureRateLimit-Reset", "Wed, 04 Oct 2028 17:00:00 GMT")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(response)
	}))
	t.Cleanup(server.Close)

	client, err := api.NewClient(api.Config{
		UploadPrefix: server.URL,
		CloudName:    "test123",
		APIKey:       "key",
		APISecret:    "secret",
		RetryDelay:   time.Millisecond,
	})
	require.NoError(t, err)

	return New(client, nil), rec
}

func TestPing(t *testing.T) {
	a, rec := newTestAPI(t, http.StatusOK, map[string]any{"status": "ok"})

	result, err := a.Ping(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "ok", result.Status)
	assert.Equal(t, http.MethodGet, rec.method)
	assert.Equal(t, "/v1_1/test123/ping", rec.path)
}

func TestUsage(t *testing.T) {
	tests := []struct {
		name     string
		options  apiutils.Params
		expected string
	}{
		{name: "current", options: nil, expected: "/v1_1/test123/usage"},
		{name: "time", options: apiutils.Params{"date": time.Date(2019, 3, 7, 0, 0, 0, 0, time.UTC)}, expected: "/v1_1/test123/usage/07-03-2019"},
		{name: "string", options: apiutils.Params{"date": "2019-03-07"}, expected: "/v1_1/test123/usage/07-03-2019"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, rec := newTestAPI(t, http.StatusOK, map[string]any{
				"plan":    "Free",
				"storage": map[string]any{"usage": 1024},
			})

			result, err := a.Usage(context.Background(), tt.options)
			require.NoError(t, err)

			assert.Equal(t, tt.expected, rec.path)
			assert.Equal(t, "Free", result.Plan)
			assert.Equal(t, float64(1024), result.Storage.Usage)
			assert.Equal(t, 499, result.RateLimit.Remaining)
		})
	}
}

func TestUsage_InvalidDate(t *testing.T) {
	a, _ := newTestAPI(t, http.StatusOK, map[string]any{})

	_, err := a.Usage(context.Background(), apiutils.Params{"date": "not a date"})
	assert.ErrorContains(t, err, "invalid date")
}

func TestTags(t *testing.T) {
	a, rec := newTestAPI(t, http.StatusOK, map[string]any{"tags": []string{"a", "b"}})

	result, err := a.Tags(context.Background(), apiutils.Params{
		api.AssetTypeKey: api.Video,
		"prefix":         "a",
		"ignored":        "x",
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "b"}, result.Tags)
	assert.Equal(t, "/v1_1/test123/tags/video", rec.path)
	assert.Equal(t, url.Values{"prefix": {"a"}}, rec.query)
}

func TestAssets(t *testing.T) {
	response := map[string]any{
		"resources":   []map[string]any{{"public_id": "sample", "asset_id": "abc", "bytes": 120}},
		"next_cursor": "cursor",
	}

	tests := []struct {
		name          string
		call          func(*API) (*AssetList, error)
		expectedPath  string
		expectedQuery url.Values
	}{
		{
			name: "all",
			call: func(a *API) (*AssetList, error) {
				return a.Assets(context.Background(), apiutils.Params{"max_results": 10, "public_ids": "x"})
			},
			expectedPath:  "/v1_1/test123/resources/image",
			expectedQuery: url.Values{"max_results": {"10"}},
		},
		{
			name: "with delivery type",
			call: func(a *API) (*AssetList, error) {
				return a.Assets(context.Background(), apiutils.Params{api.DeliveryTypeKey: api.Private, "prefix": "p"})
			},
			expectedPath:  "/v1_1/test123/resources/image/private",
			expectedQuery: url.Values{"prefix": {"p"}},
		},
		{
			name: "by tag",
			call: func(a *API) (*AssetList, error) {
				return a.AssetsByTag(context.Background(), "cats", apiutils.Params{"tags": true, "prefix": "p"})
			},
			expectedPath:  "/v1_1/test123/resources/image/tags/cats",
			expectedQuery: url.Values{"tags": {"1"}},
		},
		{
			name: "by context",
			call: func(a *API) (*AssetList, error) {
				return a.AssetsByContext(context.Background(), "k", "v", nil)
			},
			expectedPath:  "/v1_1/test123/resources/image/context",
			expectedQuery: url.Values{"key": {"k"}, "value": {"v"}},
		},
		{
			name: "by context key only",
			call: func(a *API) (*AssetList, error) {
				return a.AssetsByContext(context.Background(), "k", "", nil)
			},
			expectedPath:  "/v1_1/test123/resources/image/context",
			expectedQuery: url.Values{"key": {"k"}},
		},
		{
			name: "by moderation",
			call: func(a *API) (*AssetList, error) {
				return a.AssetsByModeration(context.Background(), "manual", api.Pending, apiutils.Params{api.AssetTypeKey: "video"})
			},
			expectedPath:  "/v1_1/test123/resources/video/moderations/manual/pending",
			expectedQuery: url.Values{},
		},
		{
			name: "by public ids",
			call: func(a *API) (*AssetList, error) {
				return a.AssetsByIDs(context.Background(), []string{"a", "b"}, apiutils.Params{"context": true})
			},
			expectedPath:  "/v1_1/test123/resources/image/upload",
			expectedQuery: url.Values{"public_ids[]": {"a", "b"}, "context": {"1"}},
		},
		{
			name: "by asset ids",
			call: func(a *API) (*AssetList, error) {
				return a.AssetsByAssetIDs(context.Background(), []string{"id1"}, apiutils.Params{"public_ids": []string{"x"}})
			},
			expectedPath:  "/v1_1/test123/resources/by_asset_ids",
			expectedQuery: url.Values{"asset_ids[]": {"id1"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, rec := newTestAPI(t, http.StatusOK, response)

			result, err := tt.call(a)
			require.NoError(t, err)

			assert.Equal(t, http.MethodGet, rec.method)
			assert.Equal(t, tt.expectedPath, rec.path)
			assert.Equal(t, tt.expectedQuery, rec.query)

			require.Len(t, result.Assets, 1)
			assert.Equal(t, "sample", result.Assets[0].PublicID)
			assert.Equal(t, int64(120), result.Assets[0].Bytes)
			assert.Equal(t, "cursor", result.NextCursor)
			assert.Equal(t, 500, result.RateLimit.Limit)
		})
	}
}

func TestAsset(t *testing.T) {
	a, rec := newTestAPI(t, http.StatusOK, map[string]any{
		"public_id": "sample",
		"phash":     "ba19c8ab5fa05a59",
		"faces":     [][]int{{10, 20, 30, 40}},
	})

	result, err := a.Asset(context.Background(), "sample", apiutils.Params{
		"phash": true,
		"faces": true,
		"tags":  "ignored",
	})
	require.NoError(t, err)

	assert.Equal(t, "/v1_1/test123/resources/image/upload/sample", rec.path)
	assert.Equal(t, url.Values{"phash": {"1"}, "faces": {"1"}}, rec.query)
	assert.Equal(t, "ba19c8ab5fa05a59", result.Phash)
	assert.Equal(t, [][]int{{10, 20, 30, 40}}, result.Faces)
}

func TestAssetByAssetID(t *testing.T) {
	a, rec := newTestAPI(t, http.StatusOK, map[string]any{"asset_id": "abc", "versions": []any{}})

	result, err := a.AssetByAssetID(context.Background(), "abc", apiutils.Params{"versions": true})
	require.NoError(t, err)

	assert.Equal(t, "/v1_1/test123/resources/abc", rec.path)
	assert.Equal(t, "abc", result.AssetID)
}

func TestAsset_NotFound(t *testing.T) {
	a, _ := newTestAPI(t, http.StatusNotFound, map[string]any{
		"error": map[string]any{"message": "Resource not found - missing"},
	})

	_, err := a.Asset(context.Background(), "missing", nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, api.ErrNotFound)
	assert.Contains(t, err.Error(), "failed to get asset")
	assert.Contains(t, err.Error(), "Resource not found - missing")
}

func TestRestore(t *testing.T) {
	a, rec := newTestAPI(t, http.StatusOK, map[string]any{
		"sample":  map[string]any{"public_id": "sample", "version": 2},
		"missing": map[string]any{"error": "no backup found"},
	})

	result, err := a.Restore(context.Background(), []string{"sample", "missing"}, apiutils.Params{
		api.AssetTypeKey: "video",
		"versions":       []string{"v1"},
	})
	require.NoError(t, err)

	assert.Equal(t, http.MethodPost, rec.method)
	assert.Equal(t, "/v1_1/test123/resources/video/upload/restore", rec.path)
	assert.JSONEq(t, `{"public_ids":["sample","missing"],"versions":["v1"]}`, string(rec.body))

	assert.Equal(t, int64(2), result["sample"].Version)
	assert.Equal(t, "no backup found", result["missing"].Error)
}

func TestUpdate(t *testing.T) {
	a, rec := newTestAPI(t, http.StatusOK, map[string]any{"public_id": "sample", "tags": []string{"a", "b"}})

	result, err := a.Update(context.Background(), "sample", apiutils.Params{
		"tags":              []string{"a", "b"},
		"context":           map[string]any{"caption": "a=b", "alt": "x"},
		"face_coordinates":  [][]int{{1, 2, 3, 4}, {5, 6, 7, 8}},
		"access_control":    []api.AccessControlRule{{AccessType: api.Anonymous}},
		"moderation_status": api.Approved,
		"ocr":               "adv_ocr",
		"unknown":           "dropped",
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "b"}, result.Tags)
	assert.Equal(t, http.MethodPost, rec.method)
	assert.Equal(t, "/v1_1/test123/resources/image/upload/sample", rec.path)
	assert.Equal(t, url.Values{
		"tags":              {"a,b"},
		"context":           {"alt=x|caption=a=b"},
		"face_coordinates":  {"1,2,3,4|5,6,7,8"},
		"access_control":    {`[{"access_type":"anonymous"}]`},
		"moderation_status": {"approved"},
		"ocr":               {"adv_ocr"},
	}, rec.form)
}

func TestUpdate_SerializationErrors(t *testing.T) {
	a, _ := newTestAPI(t, http.StatusOK, map[string]any{})

	_, err := a.Update(context.Background(), "sample", apiutils.Params{
		"tags":    []any{func() {}},
		"context": make(chan int),
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, apiutils.ErrUnsupportedValue)
	assert.Contains(t, err.Error(), `parameter "tags"`)
	assert.Contains(t, err.Error(), `parameter "context"`)
}

func TestDelete(t *testing.T) {
	tests := []struct {
		name          string
		call          func(*API) (*DeleteResult, error)
		expectedPath  string
		expectedQuery url.Values
	}{
		{
			name: "by public ids",
			call: func(a *API) (*DeleteResult, error) {
				return a.DeleteAssets(context.Background(), []string{"a", "b"}, apiutils.Params{"invalidate": true})
			},
			expectedPath:  "/v1_1/test123/resources/image/upload",
			expectedQuery: url.Values{"public_ids[]": {"a", "b"}, "invalidate": {"1"}},
		},
		{
			name: "by prefix",
			call: func(a *API) (*DeleteResult, error) {
				return a.DeleteAssetsByPrefix(context.Background(), "folder/", apiutils.Params{api.DeliveryTypeKey: "private"})
			},
			expectedPath:  "/v1_1/test123/resources/image/private",
			expectedQuery: url.Values{"prefix": {"folder/"}},
		},
		{
			name: "all",
			call: func(a *API) (*DeleteResult, error) {
				return a.DeleteAllAssets(context.Background(), apiutils.Params{"next_cursor": "c"})
			},
			expectedPath:  "/v1_1/test123/resources/image/upload",
			expectedQuery: url.Values{"all": {"1"}, "next_cursor": {"c"}},
		},
		{
			name: "by tag",
			call: func(a *API) (*DeleteResult, error) {
				return a.DeleteAssetsByTag(context.Background(), "old", apiutils.Params{api.AssetTypeKey: "raw"})
			},
			expectedPath:  "/v1_1/test123/resources/raw/tags/old",
			expectedQuery: url.Values{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, rec := newTestAPI(t, http.StatusOK, map[string]any{
				"deleted": map[string]string{"a": "deleted"},
				"partial": false,
			})

			result, err := tt.call(a)
			require.NoError(t, err)

			assert.Equal(t, http.MethodDelete, rec.method)
			assert.Equal(t, tt.expectedPath, rec.path)
			assert.Equal(t, tt.expectedQuery, rec.query)
			assert.Equal(t, "deleted", result.Deleted["a"])
		})
	}
}

func TestPathSegmentsAreEscaped(t *testing.T) {
	tests := []struct {
		name            string
		call            func(*API) error
		expectedMethod  string
		expectedRawPath string
		expectedPath    string
	}{
		{
			name: "delete by tag with query separator",
			call: func(a *API) error {
				_, err := a.DeleteAssetsByTag(context.Background(), "sale?2024", nil)
				return err
			},
			expectedMethod:  http.MethodDelete,
			expectedRawPath: "/v1_1/test123/resources/image/tags/sale%3F2024",
			expectedPath:    "/v1_1/test123/resources/image/tags/sale?2024",
		},
		{
			name: "list by tag with fragment",
			call: func(a *API) error {
				_, err := a.AssetsByTag(context.Background(), "summer#2024", nil)
				return err
			},
			expectedMethod:  http.MethodGet,
			expectedRawPath: "/v1_1/test123/resources/image/tags/summer%232024",
			expectedPath:    "/v1_1/test123/resources/image/tags/summer#2024",
		},
		{
			name: "tag with spaces",
			call: func(a *API) error {
				_, err := a.AssetsByTag(context.Background(), "new arrivals", nil)
				return err
			},
			expectedMethod:  http.MethodGet,
			expectedRawPath: "/v1_1/test123/resources/image/tags/new%20arrivals",
			expectedPath:    "/v1_1/test123/resources/image/tags/new arrivals",
		},
		{
			name: "public id keeps folders",
			call: func(a *API) error {
				_, err := a.Asset(context.Background(), "folder/my photo?v=2", nil)
				return err
			},
			expectedMethod:  http.MethodGet,
			expectedRawPath: "/v1_1/test123/resources/image/upload/folder/my%20photo%3Fv=2",
			expectedPath:    "/v1_1/test123/resources/image/upload/folder/my photo?v=2",
		},
		{
			name: "update public id",
			call: func(a *API) error {
				_, err := a.Update(context.Background(), "a#b", apiutils.Params{"tags": "x"})
				return err
			},
			expectedMethod:  http.MethodPost,
			expectedRawPath: "/v1_1/test123/resources/image/upload/a%23b",
			expectedPath:    "/v1_1/test123/resources/image/upload/a#b",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, rec := newTestAPI(t, http.StatusOK, map[string]any{})

			require.NoError(t, tt.call(a))
			assert.Equal(t, tt.expectedMethod, rec.method)
			assert.Equal(t, tt.expectedRawPath, rec.rawPath)
			assert.Equal(t, tt.expectedPath, rec.path)
			assert.Empty(t, rec.query)
		})
	}
}
