package modal

import (
	"maps"
	"net/url"
	"strconv"
)

// Well-known fetch parameter names understood by every list endpoint.
const (
	ParamSearch    = "search"
	ParamPage      = "page"
	ParamLimit     = "limit"
	ParamSortField = "sortField"
	ParamSortOrder = "sortOrder"
)

// Params are fetch parameters keyed by query name.
type Params map[string]string

// MergeParams layers params left to right; a key present in a later layer
// replaces the value from every earlier one.
func MergeParams(layers ...Params) Params {
	out := Params{}
	for _, l := range layers {
		maps.Copy(out, l)
	}
	return out
}

// Clone returns a copy of p. A nil p clones to nil.
func (p Params) Clone() Params {
	if p == nil {
		return nil
	}
	return maps.Clone(p)
}

// Int returns the value under key parsed as an int, or def when absent or
// malformed.
func (p Params) Int(key string, def int) int {
	v, ok := p[key]
	if !ok {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

// Query renders p as URL query values. Empty values are dropped.
func (p Params) Query() url.Values {
	q := url.Values{}
	for k, v := range p {
		if v != "" {
			q.Set(k, v)
		}
	}
	return q
}
