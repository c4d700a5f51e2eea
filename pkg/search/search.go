// Package search builds and runs Cloudinary Search API queries.
//
//	result, err := search.New(transport, logger).
//		Expression("resource_type:image AND tags=kitten").
//		SortBy("created_at", search.Desc).
//		WithField("tags").
//		MaxResults(30).
//		Execute(ctx)
package search

import (
	"context"
	"fmt"

	"github.com/hashicorp/go-hclog"

	"github.com/cloudinary/media-management-go/pkg/admin"
	"github.com/cloudinary/media-management-go/pkg/api"
	"github.com/cloudinary/media-management-go/pkg/apiutils"
)

// Direction is a sort direction.
type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// MaxResultsLimit is the largest page the API returns.
const MaxResultsLimit = 500

var searchPath = []string{"resources", "search"}

// Result is a page of search results.
type Result struct {
	TotalCount   int            `json:"total_count"`
	Time         int            `json:"time"`
	Assets       []admin.Asset  `json:"resources"`
	Aggregations map[string]any `json:"aggregations,omitempty"`
	NextCursor   string         `json:"next_cursor,omitempty"`

	RateLimit api.RateLimit `json:"-"`
}

// Query is a search request under construction. Builder methods modify the
// query in place and return it for chaining.
type Query struct {
	transport api.Transport
	logger    hclog.Logger

	expression string
	sortBy     []apiutils.Pairs
	aggregate  []string
	withField  []string
	maxResults int
	nextCursor string
}

// New starts an empty query that runs on transport.
func New(transport api.Transport, logger hclog.Logger) *Query {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Query{
		transport: transport,
		logger:    logger.Named("search"),
	}
}

// Expression sets the Lucene-like search expression.
func (q *Query) Expression(expression string) *Query {
	q.expression = expression
	return q
}

// SortBy adds a sort field. Fields are applied in the order they are added;
// adding a field again replaces its direction.
func (q *Query) SortBy(field string, direction Direction) *Query {
	for i, s := range q.sortBy {
		if s[0].Key == field {
			q.sortBy[i] = apiutils.Pairs{{Key: field, Value: string(direction)}}
			return q
		}
	}
	q.sortBy = append(q.sortBy, apiutils.Pairs{{Key: field, Value: string(direction)}})
	return q
}

// Aggregate requests counts of the values of field.
func (q *Query) Aggregate(field string) *Query {
	q.aggregate = appendUnique(q.aggregate, field)
	return q
}

// WithField requests an additional field, such as tags or context, in each
// result.
func (q *Query) WithField(field string) *Query {
	q.withField = appendUnique(q.withField, field)
	return q
}

// MaxResults sets the page size.
func (q *Query) MaxResults(n int) *Query {
	q.maxResults = n
	return q
}

// NextCursor continues a previous search from its cursor.
func (q *Query) NextCursor(cursor string) *Query {
	q.nextCursor = cursor
	return q
}

// Body returns the JSON body of the query. Unset parts are omitted.
func (q *Query) Body() apiutils.Params {
	body := apiutils.Params{}
	if q.expression != "" {
		body["expression"] = q.expression
	}
	if len(q.sortBy) > 0 {
		body["sort_by"] = q.sortBy
	}
	if len(q.aggregate) > 0 {
		body["aggregate"] = q.aggregate
	}
	if len(q.withField) > 0 {
		body["with_field"] = q.withField
	}
	if q.maxResults > 0 {
		body["max_results"] = q.maxResults
	}
	if q.nextCursor != "" {
		body["next_cursor"] = q.nextCursor
	}
	return body
}

// Execute runs the query.
func (q *Query) Execute(ctx context.Context) (*Result, error) {
	if q.maxResults < 0 || q.maxResults > MaxResultsLimit {
		return nil, fmt.Errorf("max_results must be between 1 and %d, got: %d", MaxResultsLimit, q.maxResults)
	}

	q.logger.Debug("searching", "expression", q.expression, "next_cursor", q.nextCursor)

	resp, err := q.transport.PostJSON(ctx, searchPath, q.Body())
	if err != nil {
		return nil, fmt.Errorf("failed to search assets: %w", err)
	}
	var result Result
	if err := resp.Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to search assets: %w", err)
	}
	result.RateLimit, _ = resp.RateLimit()

	q.logger.Debug("search complete", "total_count", result.TotalCount, "returned", len(result.Assets))
	return &result, nil
}

func appendUnique(list []string, s string) []string {
	for _, v := range list {
		if v == s {
			return list
		}
	}
	return append(list, s)
}
