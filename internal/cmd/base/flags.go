package base

import (
	"bytes"
	"flag"
	"fmt"
	"sort"
	"strings"

	"github.com/iancoleman/strcase"

	"github.com/cloudinary/media-management-go/pkg/apiutils"
)

// FlagSet wraps a flag.FlagSet with a help renderer.
type FlagSet struct {
	*flag.FlagSet
}

// NewFlagSet wraps f.
func NewFlagSet(f *flag.FlagSet) *FlagSet {
	return &FlagSet{FlagSet: f}
}

// Help renders the flags for a command's help text.
func (f *FlagSet) Help() string {
	var buf bytes.Buffer
	buf.WriteString("\n\nOptions:\n\n")

	out := f.Output()
	f.SetOutput(&buf)
	f.PrintDefaults()
	f.SetOutput(out)

	return strings.TrimRight(buf.String(), "\n")
}

// OptionsFlag collects repeated key=value flags into API options. Keys are
// converted to snake case, so maxResults and max-results both become
// max_results. The values "true" and "false" become booleans and repeated
// keys become lists.
type OptionsFlag struct {
	Params apiutils.Params
}

func (o *OptionsFlag) String() string {
	if o == nil || len(o.Params) == 0 {
		return ""
	}
	keys := make([]string, 0, len(o.Params))
	for k := range o.Params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return strings.Join(keys, ",")
}

// Set parses one key=value option.
func (o *OptionsFlag) Set(s string) error {
	key, value, ok := strings.Cut(s, "=")
	if !ok || strings.TrimSpace(key) == "" {
		return fmt.Errorf("option must have the form key=value, got: %q", s)
	}
	if o.Params == nil {
		o.Params = apiutils.Params{}
	}
	key = strcase.ToSnake(strings.TrimSpace(key))

	var v any = value
	switch value {
	case "true":
		v = true
	case "false":
		v = false
	}

	switch existing := o.Params[key].(type) {
	case nil:
		o.Params[key] = v
	case []any:
		o.Params[key] = append(existing, v)
	default:
		o.Params[key] = []any{existing, v}
	}
	return nil
}
