// Package common holds types shared by the header decoders.
package common

import "sort"

// Header is a flattened header: keyword to value. Values are nil, int64,
// float64, bool, string or [2]float64.
type Header map[string]interface{}

// Keys returns the keywords in sorted order.
func (h Header) Keys() []string {
	keys := make([]string, 0, len(h))
	for k := range h {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Lookup returns the first non-nil value among key and its aliases.
func (h Header) Lookup(key string, aliases ...string) (interface{}, bool) {
	for _, k := range append([]string{key}, aliases...) {
		if v, ok := h[k]; ok && v != nil {
			return v, true
		}
	}
	return nil, false
}
