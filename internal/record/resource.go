// Package record defines the Record/Field/Resource data model shared by every
// stage of the pipeline: connectors produce Records, the mapper consumes
// them, and the log manager reports on them by position.
package record

import "sync"

// Resource is a one-shot lazy cell around a URI string. Connectors that can
// only compute their resource URI lazily (e.g. after opening the underlying
// file) construct a Resource with NewLazyResource; the URI is computed on
// first access and cached thereafter, so every Record sharing a source sees
// the same stable value.
type Resource struct {
	once sync.Once
	fn   func() string
	uri  string
}

// NewResource returns a Resource that already holds a known URI.
func NewResource(uri string) *Resource {
	r := &Resource{uri: uri}
	r.once.Do(func() {})
	return r
}

// NewLazyResource returns a Resource whose URI is computed by fn the first
// time String is called. fn is invoked at most once.
func NewLazyResource(fn func() string) *Resource {
	return &Resource{fn: fn}
}

// String returns the resource URI, computing and memoizing it on first call.
func (r *Resource) String() string {
	r.once.Do(func() {
		if r.fn != nil {
			r.uri = r.fn()
		}
	})
	return r.uri
}
