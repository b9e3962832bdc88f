package fits

import (
	"io"
	"log/slog"
)

// EndPolicy decides what happens to an HDU still open when the input
// runs out.
type EndPolicy uint8

const (
	// Lenient seals the open HDU as if its END card had been read.
	Lenient EndPolicy = iota
	// Strict fails the parse with ErrMissingEnd.
	Strict
)

func (p EndPolicy) String() string {
	if p == Strict {
		return "strict"
	}
	return "lenient"
}

// Option configures a Parser.
type Option func(*options)

type options struct {
	endPolicy EndPolicy
	skipData  bool
	logger    *slog.Logger
}

func defaultOptions() *options {
	return &options{
		endPolicy: Lenient,
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// WithEndPolicy sets how a missing END card at end of input is handled.
func WithEndPolicy(p EndPolicy) Option {
	return func(o *options) {
		o.endPolicy = p
	}
}

// WithDataSkip makes the parser step over the data unit that follows each
// header, as sized by BITPIX, NAXISn, PCOUNT and GCOUNT. Without it every
// block is read as header cards.
func WithDataSkip(skip bool) Option {
	return func(o *options) {
		o.skipData = skip
	}
}

// WithLogger sets the logger used for debug output.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}
