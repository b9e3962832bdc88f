package fits

import "github.com/rickbassham/fitshdr/common"

// HDU is one header unit: its keys in card order with their values.
type HDU struct {
	keys   []string
	values map[string]Value
}

func newHDU() *HDU {
	return &HDU{values: map[string]Value{}}
}

// Len returns the number of distinct keys.
func (h *HDU) Len() int { return len(h.keys) }

// Keys returns the keys in the order their first card appeared.
func (h *HDU) Keys() []string {
	keys := make([]string, len(h.keys))
	copy(keys, h.keys)
	return keys
}

// Get returns the value stored under key.
func (h *HDU) Get(key string) (Value, bool) {
	v, ok := h.values[key]
	return v, ok
}

// Has reports whether key is present, with or without a value.
func (h *HDU) Has(key string) bool {
	_, ok := h.values[key]
	return ok
}

// Header flattens the HDU into a common.Header.
func (h *HDU) Header() common.Header {
	hdr := make(common.Header, len(h.keys))
	for _, k := range h.keys {
		hdr[k] = h.values[k].Interface()
	}
	return hdr
}

func (h *HDU) set(key string, v Value) {
	if _, ok := h.values[key]; !ok {
		h.keys = append(h.keys, key)
	}
	h.values[key] = v
}

func (h *HDU) concat(key, s string) {
	h.set(key, h.values[key].concat(s))
}

// Document is the result of a parse: the HDUs in stream order and, at the
// same positions, their axis lengths.
type Document struct {
	hdus  []*HDU
	naxis [][]int64
}

// Len returns the number of HDUs.
func (d *Document) Len() int { return len(d.hdus) }

// HDUs returns every HDU in stream order.
func (d *Document) HDUs() []*HDU { return d.hdus }

// HDU returns the i-th HDU.
func (d *Document) HDU(i int) *HDU { return d.hdus[i] }

// Naxis returns the axis lengths of every HDU. Entry i is empty when HDU i
// has no NAXIS card.
func (d *Document) Naxis() [][]int64 { return d.naxis }

// Axes returns the axis lengths of the i-th HDU, NAXIS1 first.
func (d *Document) Axes(i int) []int64 { return d.naxis[i] }
