// Package xisf reads the FITS keywords embedded in the XML header of an
// XISF (PixInsight) image.
package xisf

import (
	"bytes"
	"encoding/binary"
	"encoding/xml"
	"errors"
	"fmt"
	"io"

	"github.com/rickbassham/fitshdr/common"
	"github.com/rickbassham/fitshdr/fits"
)

// Signature opens every monolithic XISF file.
const Signature = "XISF0100"

// maxHeaderLength bounds the XML header read into memory.
const maxHeaderLength = 64 << 20

var (
	ErrSignature    = errors.New("xisf: invalid signature")
	ErrHeaderLength = errors.New("xisf: invalid header length")
)

type FITSKeyword struct {
	XMLName xml.Name `xml:"FITSKeyword"`
	Name    string   `xml:"name,attr"`
	Value   string   `xml:"value,attr"`
	Comment string   `xml:"comment,attr"`
}

type Image struct {
	XMLName      xml.Name      `xml:"Image"`
	Geometry     string        `xml:"geometry,attr"`
	FITSKeywords []FITSKeyword `xml:"FITSKeyword"`
}

type Xisf struct {
	XMLName xml.Name `xml:"xisf"`
	Image   Image    `xml:"Image"`
}

type Decoder struct {
	rdr io.Reader
}

func NewDecoder(rdr io.Reader) *Decoder {
	return &Decoder{rdr: rdr}
}

func (d *Decoder) checkSignature() error {
	signature := make([]byte, len(Signature))
	if _, err := io.ReadFull(d.rdr, signature); err != nil {
		return fmt.Errorf("%w: %v", ErrSignature, err)
	}

	if !bytes.Equal([]byte(Signature), signature) {
		return ErrSignature
	}

	return nil
}

func (d *Decoder) getHeaderLength() (uint32, error) {
	headerLengthBytes := make([]byte, 4)
	if _, err := io.ReadFull(d.rdr, headerLengthBytes); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrHeaderLength, err)
	}

	n := binary.LittleEndian.Uint32(headerLengthBytes)
	if n == 0 || n > maxHeaderLength {
		return 0, fmt.Errorf("%w: %d", ErrHeaderLength, n)
	}
	return n, nil
}

func (d *Decoder) skipReserved(count int64) error {
	_, err := io.CopyN(io.Discard, d.rdr, count)
	return err
}

// ReadDocument reads the XML header of the file.
func (d *Decoder) ReadDocument() (*Xisf, error) {
	if err := d.checkSignature(); err != nil {
		return nil, err
	}

	headerLen, err := d.getHeaderLength()
	if err != nil {
		return nil, err
	}

	if err := d.skipReserved(4); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrHeaderLength, err)
	}

	rawHeader := make([]byte, headerLen)
	if _, err := io.ReadFull(d.rdr, rawHeader); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrHeaderLength, err)
	}

	img := &Xisf{}
	if err := xml.Unmarshal(bytes.TrimRight(rawHeader, "\x00"), img); err != nil {
		return nil, fmt.Errorf("xisf: %w", err)
	}

	return img, nil
}

// ReadHeader returns the image's FITS keywords. Values are classified
// with the FITS value grammar; a keyword repeated in the header keeps its
// last value.
func (d *Decoder) ReadHeader() (h common.Header, err error) {
	img, err := d.ReadDocument()
	if err != nil {
		return h, err
	}

	h = common.Header{}

	for _, kw := range img.Image.FITSKeywords {
		v, err := fits.ParseValue(kw.Value)
		if err != nil {
			return nil, fmt.Errorf("xisf: keyword %s: %w", kw.Name, err)
		}

		h[kw.Name] = v.Interface()
	}

	return h, nil
}
