package fits

import (
	"fmt"
	"strconv"
)

// extractNaxis builds the axis table for sealed HDUs. An HDU without an
// integer NAXIS card gets an empty entry.
func extractNaxis(hdus []*HDU) ([][]int64, error) {
	table := make([][]int64, len(hdus))

	for i, hdu := range hdus {
		axes, err := axesOf(i, hdu)
		if err != nil {
			return nil, err
		}
		table[i] = axes
	}

	return table, nil
}

func axesOf(index int, hdu *HDU) ([]int64, error) {
	v, ok := hdu.Get(KeyNaxis)
	if !ok {
		return []int64{}, nil
	}

	n, ok := integral(v)
	if !ok {
		return []int64{}, nil
	}
	if n < 0 {
		return nil, fmt.Errorf("%w: hdu %d: %s = %d", ErrInvalidAxis, index, KeyNaxis, n)
	}

	axes := make([]int64, n)
	for i := range axes {
		key := KeyNaxis + strconv.Itoa(i+1)

		v, ok := hdu.Get(key)
		if !ok || v.IsNull() {
			return nil, &MissingAxisEntryError{HDU: index, Key: key}
		}

		length, ok := v.Int()
		if !ok || length < 0 {
			return nil, fmt.Errorf("%w: hdu %d: %s = %v", ErrInvalidAxis, index, key, v)
		}
		axes[i] = length
	}

	return axes, nil
}

// integral returns the value of an Integer, or of a Float with no
// fractional part.
func integral(v Value) (int64, bool) {
	switch v.Kind() {
	case Integer:
		return v.i, true
	case Float:
		f, _ := v.Float()
		if f == float64(int64(f)) {
			return int64(f), true
		}
	}
	return 0, false
}
