package search

import (
	"flag"
	"fmt"
	"strings"

	"github.com/cloudinary/media-management-go/internal/cmd/base"
	"github.com/cloudinary/media-management-go/pkg/search"
)

type Command struct {
	*base.Command

	flagSortBy     listFlag
	flagAggregate  listFlag
	flagWithField  listFlag
	flagMaxResults int
	flagNextCursor string
}

// listFlag collects a repeated string flag.
type listFlag []string

func (l *listFlag) String() string {
	return strings.Join(*l, ",")
}

func (l *listFlag) Set(s string) error {
	*l = append(*l, s)
	return nil
}

func (c *Command) Synopsis() string {
	return "Search assets"
}

func (c *Command) Help() string {
	return `Usage: cld search [options] [expression]

  Runs a Search API query, for example:

    cld search -sort-by created_at:desc -with-field tags "resource_type:image AND tags=kitten"` +
		c.Flags().Help()
}

func (c *Command) Flags() *base.FlagSet {
	f := base.NewFlagSet(flag.NewFlagSet("search", flag.ContinueOnError))
	c.ClientFlags(f)

	f.Var(
		&c.flagSortBy, "sort-by",
		"Sort field as field[:asc|desc]. Can be repeated.",
	)
	f.Var(
		&c.flagAggregate, "aggregate",
		"Field to aggregate counts for. Can be repeated.",
	)
	f.Var(
		&c.flagWithField, "with-field",
		"Additional field to return, such as tags or context. Can be repeated.",
	)
	f.IntVar(
		&c.flagMaxResults, "max-results", 0,
		"Maximum number of results to return.",
	)
	f.StringVar(
		&c.flagNextCursor, "next-cursor", "",
		"Continue a previous search.",
	)

	return f
}

func (c *Command) Run(args []string) int {
	f := c.Flags()
	if err := f.Parse(args); err != nil {
		return c.Fail("error parsing flags", err)
	}

	cld, err := c.Client()
	if err != nil {
		return c.Fail("error creating client", err)
	}

	q := cld.Search().
		Expression(strings.Join(f.Args(), " ")).
		MaxResults(c.flagMaxResults).
		NextCursor(c.flagNextCursor)
	for _, s := range c.flagSortBy {
		field, dir, _ := strings.Cut(s, ":")
		direction := search.Desc
		switch strings.ToLower(dir) {
		case "", "desc":
		case "asc":
			direction = search.Asc
		default:
			c.UI.Error(fmt.Sprintf("invalid sort direction %q", dir))
			return 1
		}
		q.SortBy(field, direction)
	}
	for _, field := range c.flagAggregate {
		q.Aggregate(field)
	}
	for _, field := range c.flagWithField {
		q.WithField(field)
	}

	ctx, cancel := c.Context()
	defer cancel()

	result, err := q.Execute(ctx)
	if err != nil {
		return c.Fail("error searching assets", err)
	}
	if err := c.Output(result); err != nil {
		return c.Fail("error writing output", err)
	}
	return 0
}
