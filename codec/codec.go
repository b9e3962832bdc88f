package codec

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/fxamacker/cbor/v2"
	"gopkg.in/yaml.v3"

	"github.com/rickbassham/fitshdr/fits"
)

// Format is an output encoding.
type Format string

const (
	NDJSON Format = "ndjson"
	YAML   Format = "yaml"
	CBOR   Format = "cbor"
)

// ParseFormat parses a format name.
func ParseFormat(name string) (Format, error) {
	switch f := Format(name); f {
	case NDJSON, YAML, CBOR:
		return f, nil
	case "json":
		return NDJSON, nil
	case "yml":
		return YAML, nil
	}
	return "", fmt.Errorf("unknown output format: %q", name)
}

// Card is one header entry.
type Card struct {
	Key   string      `json:"key" yaml:"key" cbor:"key"`
	Type  string      `json:"type" yaml:"type" cbor:"type"`
	Value interface{} `json:"value" yaml:"value" cbor:"value"`
}

// Record describes one HDU of one file.
type Record struct {
	File   string  `json:"file" yaml:"file" cbor:"file"`
	Digest string  `json:"blake3,omitempty" yaml:"blake3,omitempty" cbor:"blake3,omitempty"`
	HDU    int     `json:"hdu" yaml:"hdu" cbor:"hdu"`
	Axes   []int64 `json:"axes" yaml:"axes,flow" cbor:"axes"`
	Cards  []Card  `json:"cards" yaml:"cards" cbor:"cards"`
}

// Records converts a parsed document into one record per HDU.
func Records(file, digest string, doc *fits.Document) []Record {
	records := make([]Record, doc.Len())

	for i, hdu := range doc.HDUs() {
		keys := hdu.Keys()
		cards := make([]Card, len(keys))
		for j, k := range keys {
			v, _ := hdu.Get(k)
			cards[j] = Card{Key: k, Type: v.Kind().String(), Value: v.Interface()}
		}

		records[i] = Record{
			File:   file,
			Digest: digest,
			HDU:    i,
			Axes:   doc.Axes(i),
			Cards:  cards,
		}
	}

	return records
}

// Encoder writes records to a stream.
type Encoder interface {
	Encode(r Record) error
	Close() error
}

var encMode cbor.EncMode

func init() {
	var err error
	encMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("codec: CBOR encoder initialization failed: " + err.Error())
	}
}

// NewEncoder returns an Encoder writing format to w.
func NewEncoder(w io.Writer, format Format) (Encoder, error) {
	switch format {
	case NDJSON:
		return &jsonEncoder{enc: json.NewEncoder(w)}, nil
	case YAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		return &yamlEncoder{enc: enc}, nil
	case CBOR:
		return &cborEncoder{enc: encMode.NewEncoder(w)}, nil
	}
	return nil, fmt.Errorf("unknown output format: %q", format)
}

type jsonEncoder struct {
	enc *json.Encoder
}

func (e *jsonEncoder) Encode(r Record) error { return e.enc.Encode(r) }

func (e *jsonEncoder) Close() error { return nil }

// yamlEncoder writes one YAML document per record.
type yamlEncoder struct {
	enc *yaml.Encoder
}

func (e *yamlEncoder) Encode(r Record) error { return e.enc.Encode(r) }

func (e *yamlEncoder) Close() error { return e.enc.Close() }

// cborEncoder writes a CBOR sequence (RFC 8742).
type cborEncoder struct {
	enc *cbor.Encoder
}

func (e *cborEncoder) Encode(r Record) error { return e.enc.Encode(r) }

func (e *cborEncoder) Close() error { return nil }
