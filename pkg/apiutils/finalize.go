package apiutils

import (
	"reflect"
	"strconv"
	"time"
)

// TimestampParam is the upload parameter carrying the signing time.
const TimestampParam = "timestamp"

// FinalizeUploadParams prepares params for an upload request. Booleans become
// "1" or "0", absent values and empty strings or collections are dropped, and
// the timestamp is set to now in unix seconds. params is not modified.
func FinalizeUploadParams(params Params, now time.Time) Params {
	out := make(Params, len(params)+1)
	for k, v := range params {
		v = indirect(v)
		if isEmpty(v) {
			continue
		}
		if b, ok := v.(bool); ok {
			v = boolString(b)
		}
		out[k] = v
	}
	out[TimestampParam] = strconv.FormatInt(now.Unix(), 10)
	return out
}

func isEmpty(v any) bool {
	if v == nil {
		return true
	}
	switch t := v.(type) {
	case string:
		return t == ""
	case Pairs:
		return len(t) == 0
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Map, reflect.Array:
		return rv.Len() == 0
	}
	return false
}
