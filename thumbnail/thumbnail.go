// Package thumbnail renders a preview of the first image in a FITS file.
//
// Header geometry comes from the fits package: the first HDU whose axis
// table has at least two non-empty axes is the image. Pixel decoding is
// left to github.com/astrogo/fitsio, resampling to golang.org/x/image/draw.
package thumbnail

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"strings"

	"github.com/astrogo/fitsio"
	"golang.org/x/image/draw"

	"github.com/rickbassham/fitshdr/fits"
	"github.com/rickbassham/fitshdr/source"
)

// Format is a thumbnail image format.
type Format string

const (
	JPEG Format = "JPG"
	PNG  Format = "PNG"
)

// ErrNoImage is returned when no HDU holds a 2-D image.
var ErrNoImage = errors.New("thumbnail: no image hdu")

// ParseFormat accepts JPG, JPEG and PNG in any case.
func ParseFormat(name string) (Format, error) {
	switch strings.ToUpper(name) {
	case "JPG", "JPEG":
		return JPEG, nil
	case "PNG":
		return PNG, nil
	}
	return "", fmt.Errorf("thumbnail format %q is not supported", name)
}

// Option configures a Thumbnailer.
type Option func(*Thumbnailer) error

// WithFormat sets the output format.
func WithFormat(f Format) Option {
	return func(t *Thumbnailer) error {
		format, err := ParseFormat(string(f))
		if err != nil {
			return err
		}
		t.format = format
		return nil
	}
}

// WithQuality sets the JPEG quality, 0 to 100.
func WithQuality(q int) Option {
	return func(t *Thumbnailer) error {
		if q < 0 || q > 100 {
			return fmt.Errorf("quality should be an integer ranging from 0 to 100, got %d", q)
		}
		t.quality = q
		return nil
	}
}

// WithSize sets the thumbnail dimensions in pixels.
func WithSize(width, height int) Option {
	return func(t *Thumbnailer) error {
		if width <= 0 || height <= 0 {
			return fmt.Errorf("invalid thumbnail size %dx%d", width, height)
		}
		t.width, t.height = width, height
		return nil
	}
}

// Thumbnailer renders thumbnails.
type Thumbnailer struct {
	format  Format
	quality int
	width   int
	height  int
}

// New returns a Thumbnailer producing 150x150 JPEGs at quality 60 unless
// configured otherwise.
func New(opts ...Option) (*Thumbnailer, error) {
	t := &Thumbnailer{
		format:  JPEG,
		quality: 60,
		width:   150,
		height:  150,
	}
	for _, opt := range opts {
		if err := opt(t); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// Format returns the output format.
func (t *Thumbnailer) Format() Format { return t.format }

// Ext returns the file extension matching the output format.
func (t *Thumbnailer) Ext() string {
	if t.format == PNG {
		return ".png"
	}
	return ".jpg"
}

// ImageIndex returns the position of the first 2-D image HDU in doc.
func ImageIndex(doc *fits.Document) (int, error) {
	for i, axes := range doc.Naxis() {
		if len(axes) >= 2 && axes[0] > 0 && axes[1] > 0 {
			return i, nil
		}
	}
	return -1, ErrNoImage
}

// Generate writes a thumbnail of the FITS stream r to w.
func (t *Thumbnailer) Generate(r io.ReadSeeker, w io.Writer) error {
	doc, err := fits.Parse(r, fits.WithDataSkip(true))
	if err != nil {
		return err
	}

	index, err := ImageIndex(doc)
	if err != nil {
		return err
	}

	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return err
	}

	f, err := fitsio.Open(r)
	if err != nil {
		return fmt.Errorf("thumbnail: %w", err)
	}
	defer f.Close()

	hdu, ok := f.HDU(index).(fitsio.Image)
	if !ok {
		return ErrNoImage
	}

	src := hdu.Image()
	if src == nil {
		return fmt.Errorf("%w: hdu %d pixels cannot be decoded", ErrNoImage, index)
	}

	dst := image.NewRGBA(image.Rect(0, 0, t.width, t.height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)

	if t.format == PNG {
		return png.Encode(w, dst)
	}
	return jpeg.Encode(w, dst, &jpeg.Options{Quality: t.quality})
}

// GenerateFile renders a thumbnail of the FITS file at path, which may be
// compressed, into dst. With an empty dst the thumbnail goes to a new
// temporary file. It returns the path written.
func (t *Thumbnailer) GenerateFile(path, dst string) (string, error) {
	in, err := source.Open(path)
	if err != nil {
		return "", err
	}
	data, err := io.ReadAll(in)
	in.Close()
	if err != nil {
		return "", fmt.Errorf("%s: %w", path, err)
	}

	var out *os.File
	if dst == "" {
		out, err = os.CreateTemp("", "FitsThumbnail*"+t.Ext())
	} else {
		out, err = os.Create(dst)
	}
	if err != nil {
		return "", err
	}

	if err := t.Generate(bytes.NewReader(data), out); err != nil {
		out.Close()
		os.Remove(out.Name())
		return "", fmt.Errorf("%s: %w", path, err)
	}

	if err := out.Close(); err != nil {
		return "", err
	}
	return out.Name(), nil
}
