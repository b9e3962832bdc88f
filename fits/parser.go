package fits

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
)

// Parser reads FITS headers from a block source. A Parser holds no state
// between calls and may be shared by concurrent parses.
type Parser struct {
	opts *options
}

// NewParser returns a Parser configured with opts.
func NewParser(opts ...Option) *Parser {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	return &Parser{opts: o}
}

// Parse reads src to exhaustion and returns every header unit found in it.
// Any error aborts the parse; no partial document is returned.
func (p *Parser) Parse(src BlockSource) (*Document, error) {
	a := &accumulator{
		opts:    p.opts,
		reader:  blockReader{src: src},
		current: newHDU(),
	}

	if err := a.run(); err != nil {
		return nil, err
	}

	naxis, err := extractNaxis(a.hdus)
	if err != nil {
		return nil, err
	}

	return &Document{hdus: a.hdus, naxis: naxis}, nil
}

// ParseReader is Parse over an io.Reader.
func (p *Parser) ParseReader(r io.Reader) (*Document, error) {
	return p.Parse(ReaderSource(r))
}

// Parse reads every header unit from r with the given options.
func Parse(r io.Reader, opts ...Option) (*Document, error) {
	return NewParser(opts...).ParseReader(r)
}

type accState uint8

const (
	stateReading accState = iota
	stateSealingCheck
)

// accumulator collects cards into the open HDU and seals it once END has
// been seen.
type accumulator struct {
	opts   *options
	reader blockReader

	current *HDU
	// previous is the key the last keyed card was stored under; CONTINUE
	// cards append to it.
	previous string
	line     int

	hdus []*HDU
}

func (a *accumulator) run() error {
	state := stateReading

	for {
		switch state {
		case stateReading:
			lines, err := a.reader.next()
			if errors.Is(err, io.EOF) {
				return a.finish()
			}
			if err != nil {
				return err
			}

			for _, line := range lines {
				if err := a.parseLine(line); err != nil {
					return err
				}
			}
			state = stateSealingCheck

		case stateSealingCheck:
			if a.current.Has(KeyEnd) {
				if err := a.seal(); err != nil {
					return err
				}
			}
			state = stateReading
		}
	}
}

func (a *accumulator) parseLine(line string) error {
	index := a.line
	a.line++

	c, err := parseCard(line)
	if err != nil {
		var kerr *InvalidKeyError
		if errors.As(err, &kerr) {
			kerr.Line = index
		}
		return err
	}

	switch c.form {
	case formBlank:
		return nil

	case formQuoted:
		key := c.key
		if key == KeyContinue && a.previous != "" {
			key = a.previous
		}
		s, _ := c.value.Text()
		a.current.concat(key, s)
		a.previous = key

	case formSentinel:
		// Always lands on the previous key, never on the card's own
		// accumulated value.
		if c.key == KeyContinue && a.previous != "" {
			s, _ := c.value.Text()
			a.current.concat(a.previous, s)
			return nil
		}
		a.current.set(c.key, c.value)
		a.previous = c.key

	default:
		a.current.set(c.key, c.value)
		a.previous = c.key
	}

	return nil
}

func (a *accumulator) seal() error {
	hdu := a.current
	index := len(a.hdus)

	a.hdus = append(a.hdus, hdu)
	a.current = newHDU()
	a.previous = ""

	a.opts.logger.Debug("sealed hdu", slog.Int("hdu", index), slog.Int("keys", hdu.Len()))

	if !a.opts.skipData {
		return nil
	}
	return a.skipData(index, hdu)
}

func (a *accumulator) finish() error {
	if a.current.Len() == 0 {
		return nil
	}

	if a.opts.endPolicy == Strict {
		return fmt.Errorf("%w: hdu %d", ErrMissingEnd, len(a.hdus))
	}

	a.opts.logger.Debug("sealing hdu at end of input", slog.Int("hdu", len(a.hdus)))
	a.hdus = append(a.hdus, a.current)
	a.current = newHDU()
	return nil
}

func (a *accumulator) skipData(index int, hdu *HDU) error {
	blocks, err := dataBlocks(index, hdu)
	if err != nil {
		return err
	}
	if blocks == 0 {
		return nil
	}

	a.opts.logger.Debug("skipping data unit", slog.Int("hdu", index), slog.Int64("blocks", blocks))

	for i := int64(0); i < blocks; i++ {
		_, err := a.reader.raw()
		if errors.Is(err, io.EOF) || errors.Is(err, ErrTruncatedBlock) {
			return fmt.Errorf("%w: hdu %d: read %d of %d blocks", ErrTruncatedData, index, i, blocks)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// dataBlocks returns the number of blocks in the data unit described by
// hdu.
func dataBlocks(index int, hdu *HDU) (int64, error) {
	axes, err := axesOf(index, hdu)
	if err != nil {
		return 0, err
	}
	if len(axes) == 0 {
		return 0, nil
	}

	v, _ := hdu.Get(KeyBitpix)
	bitpix, ok := integral(v)
	if !ok {
		return 0, fmt.Errorf("%w: hdu %d: %s = %v", ErrInvalidAxis, index, KeyBitpix, v)
	}
	if bitpix < 0 {
		bitpix = -bitpix
	}

	gcount, pcount := int64(1), int64(0)
	if v, ok := hdu.Get(KeyGcount); ok {
		if n, ok := integral(v); ok {
			gcount = n
		}
	}
	if v, ok := hdu.Get(KeyPcount); ok {
		if n, ok := integral(v); ok {
			pcount = n
		}
	}

	// In random groups (GROUPS = T) NAXIS1 is 0 and the group size is
	// the product of the remaining axes.
	dims := axes
	if g, _ := hdu.Get(KeyGroups); axes[0] == 0 && len(axes) > 1 && g == BoolValue(true) {
		dims = axes[1:]
	}
	elements := int64(1)
	for _, n := range dims {
		elements *= n
	}

	size := bitpix / 8 * gcount * (pcount + elements)
	return (size + BlockLength - 1) / BlockLength, nil
}
