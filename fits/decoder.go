package fits

import (
	"errors"
	"io"
	"strings"

	"github.com/rickbassham/fitshdr/common"
)

// Decoder reads FITS headers from a stream.
type Decoder struct {
	rdr  io.Reader
	opts []Option
}

// NewDecoder returns a Decoder reading from rdr.
func NewDecoder(rdr io.Reader, opts ...Option) *Decoder {
	return &Decoder{rdr: rdr, opts: opts}
}

// Decode parses every header unit in the stream.
func (d *Decoder) Decode() (*Document, error) {
	return Parse(d.rdr, d.opts...)
}

// ReadHeader returns the primary header flattened into a common.Header.
func (d *Decoder) ReadHeader() (h common.Header, err error) {
	doc, err := d.Decode()
	if err != nil {
		return h, err
	}

	if doc.Len() == 0 {
		return h, errors.New("fits: no header found")
	}

	return doc.HDU(0).Header(), nil
}

// ParseValue classifies a value written outside of a card, such as the
// value attribute of an XISF FITSKeyword. Quoted strings go through the
// string scanner; anything else has its inline comment removed and is
// classified like a card value. An empty value is Null.
func ParseValue(token string) (Value, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return Value{}, nil
	}

	if token[0] == '\'' {
		s, err := scanQuoted(token)
		if err != nil {
			return Value{}, err
		}
		return TextValue(s), nil
	}

	return classify(stripComment(token)), nil
}
