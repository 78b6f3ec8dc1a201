package loader

import (
	"errors"
	"math"
	"strings"

	"github.com/spf13/cast"
	"github.com/tidwall/gjson"
)

var errNotFinite = errors.New("factor is not a finite number")

// resolve returns the first alias whose value is usable. Missing keys, null, empty strings,
// false and numeric zero fall through to the next alias.
func resolve(item gjson.Result, keys []string) (gjson.Result, bool) {
	for _, key := range keys {
		r := item.Get(gjson.Escape(key))
		if usable(r) {
			return r, true
		}
	}
	return gjson.Result{}, false
}

func usable(r gjson.Result) bool {
	if !r.Exists() {
		return false
	}
	switch r.Type {
	case gjson.Null, gjson.False:
		return false
	case gjson.String:
		return r.Str != ""
	case gjson.Number:
		return r.Num != 0
	case gjson.JSON:
		return r.Raw != "[]" && r.Raw != "{}"
	}
	return true
}

func resolveString(item gjson.Result, keys []string) string {
	r, ok := resolve(item, keys)
	if !ok {
		return ""
	}
	return strings.TrimSpace(r.String())
}

func parseFactor(r gjson.Result) (float64, error) {
	v := r.Value()
	if s, ok := v.(string); ok {
		v = strings.TrimSpace(s)
	}
	f, err := cast.ToFloat64E(v)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, errNotFinite
	}
	return f, nil
}
